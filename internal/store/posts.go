package store

import (
	"context"
	"time"

	"github.com/goliatone/go-errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/plume-social/plume/internal/model"
)

type Posts struct {
	col *mongo.Collection
}

func NewPosts(db *mongo.Database) *Posts {
	return &Posts{col: db.Collection(postsCollection)}
}

func (p *Posts) Create(ctx context.Context, post *model.Post) error {
	post.CreatedAt = time.Now()
	if post.Likes == nil {
		post.Likes = []primitive.ObjectID{}
	}
	if post.Comments == nil {
		post.Comments = []model.Comment{}
	}

	res, err := p.col.InsertOne(ctx, post)
	if err != nil {
		return wrapErr(err, "failed to insert post")
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		post.ID = oid
	}
	return nil
}

func (p *Posts) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Post, error) {
	var post model.Post
	if err := p.col.FindOne(ctx, bson.M{"_id": id}).Decode(&post); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, notFound("post")
		}
		return nil, wrapErr(err, "failed to find post")
	}
	return &post, nil
}

// FindAll returns every post, newest first.
func (p *Posts) FindAll(ctx context.Context) ([]model.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := p.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, wrapErr(err, "failed to list posts")
	}
	defer cursor.Close(ctx)

	posts := []model.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, wrapErr(err, "failed to decode posts")
	}
	return posts, nil
}

func (p *Posts) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := p.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return wrapErr(err, "failed to delete post")
	}
	if res.DeletedCount == 0 {
		return notFound("post")
	}
	return nil
}

// AddComment appends a comment to the post's embedded sequence.
func (p *Posts) AddComment(ctx context.Context, postID primitive.ObjectID, comment model.Comment) error {
	comment.CreatedAt = time.Now()

	res, err := p.col.UpdateByID(ctx, postID, bson.M{"$push": bson.M{"comments": comment}})
	if err != nil {
		return wrapErr(err, "failed to add comment")
	}
	if res.MatchedCount == 0 {
		return notFound("post")
	}
	return nil
}

// AddLike inserts user into the post's likes set with a conditional update:
// the filter matches only when the user is not already a member, so two
// concurrent toggles can never double-insert. The returned bool reports
// whether the membership actually changed.
func (p *Posts) AddLike(ctx context.Context, postID, userID primitive.ObjectID) (bool, error) {
	res, err := p.col.UpdateOne(ctx,
		bson.M{"_id": postID, "likes": bson.M{"$ne": userID}},
		bson.M{"$addToSet": bson.M{"likes": userID}},
	)
	if err != nil {
		return false, wrapErr(err, "failed to add like")
	}
	return res.ModifiedCount > 0, nil
}

// RemoveLike mirrors AddLike for the negative transition.
func (p *Posts) RemoveLike(ctx context.Context, postID, userID primitive.ObjectID) (bool, error) {
	res, err := p.col.UpdateOne(ctx,
		bson.M{"_id": postID, "likes": userID},
		bson.M{"$pull": bson.M{"likes": userID}},
	)
	if err != nil {
		return false, wrapErr(err, "failed to remove like")
	}
	return res.ModifiedCount > 0, nil
}
