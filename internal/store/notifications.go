package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/plume-social/plume/internal/model"
)

type Notifications struct {
	col *mongo.Collection
}

func NewNotifications(db *mongo.Database) *Notifications {
	return &Notifications{col: db.Collection(notificationsCollection)}
}

func (n *Notifications) Insert(ctx context.Context, notification *model.Notification) error {
	notification.CreatedAt = time.Now()

	res, err := n.col.InsertOne(ctx, notification)
	if err != nil {
		return wrapErr(err, "failed to insert notification")
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		notification.ID = oid
	}
	return nil
}

// ListFor returns all notifications addressed to the account, newest first,
// each joined with the sender's public profile. Notifications whose sender
// no longer resolves are dropped from the listing. The read flags in the
// result reflect the state at snapshot time; marking read is a separate call
// the handler makes after the snapshot.
func (n *Notifications) ListFor(ctx context.Context, userID primitive.ObjectID) ([]model.NotificationWithSender, error) {
	cursor, err := n.col.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"to": userID}}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         usersCollection,
			"localField":   "from",
			"foreignField": "_id",
			"as":           "from_user",
		}}},
		{{Key: "$unwind", Value: "$from_user"}},
		{{Key: "$project", Value: bson.M{"from_user.password": 0}}},
	})
	if err != nil {
		return nil, wrapErr(err, "failed to list notifications")
	}
	defer cursor.Close(ctx)

	notifications := []model.NotificationWithSender{}
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, wrapErr(err, "failed to decode notifications")
	}
	return notifications, nil
}

// MarkAllRead flags every notification addressed to the account as read.
func (n *Notifications) MarkAllRead(ctx context.Context, userID primitive.ObjectID) error {
	_, err := n.col.UpdateMany(ctx, bson.M{"to": userID}, bson.M{"$set": bson.M{"read": true}})
	return wrapErr(err, "failed to mark notifications read")
}

// ClearFor deletes every notification addressed to the account.
func (n *Notifications) ClearFor(ctx context.Context, userID primitive.ObjectID) error {
	_, err := n.col.DeleteMany(ctx, bson.M{"to": userID})
	return wrapErr(err, "failed to clear notifications")
}
