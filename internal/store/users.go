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

// suggestedLimit caps the random accounts returned by SuggestedFor.
const suggestedLimit = 4

// publicProjection excludes the password hash from reads that feed responses.
var publicProjection = bson.M{"password": 0}

type Users struct {
	client *mongo.Client
	col    *mongo.Collection
}

func NewUsers(db *mongo.Database) *Users {
	return &Users{
		client: db.Client(),
		col:    db.Collection(usersCollection),
	}
}

func (u *Users) Create(ctx context.Context, user *model.User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Followers == nil {
		user.Followers = []primitive.ObjectID{}
	}
	if user.Following == nil {
		user.Following = []primitive.ObjectID{}
	}

	res, err := u.col.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errors.New("handle or email already exists", errors.CategoryValidation).
				WithTextCode("DUPLICATE_ACCOUNT")
		}
		return wrapErr(err, "failed to insert user")
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid
	}
	return nil
}

func (u *Users) FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	return u.findOne(ctx, bson.M{"_id": id}, nil)
}

// FindByIDPublic resolves an account excluding the password hash. It backs
// the session middleware's identity lookup.
func (u *Users) FindByIDPublic(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	return u.findOne(ctx, bson.M{"_id": id}, publicProjection)
}

// FindByHandle includes the password hash; it exists for credential checks.
func (u *Users) FindByHandle(ctx context.Context, handle string) (*model.User, error) {
	return u.findOne(ctx, bson.M{"handle": handle}, nil)
}

func (u *Users) FindByHandlePublic(ctx context.Context, handle string) (*model.User, error) {
	return u.findOne(ctx, bson.M{"handle": handle}, publicProjection)
}

func (u *Users) findOne(ctx context.Context, filter, projection bson.M) (*model.User, error) {
	opts := options.FindOne()
	if projection != nil {
		opts.SetProjection(projection)
	}

	var user model.User
	if err := u.col.FindOne(ctx, filter, opts).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, notFound("user")
		}
		return nil, wrapErr(err, "failed to find user")
	}
	return &user, nil
}

// ExistsHandleOrEmail reports whether any account already claims the handle
// or the email.
func (u *Users) ExistsHandleOrEmail(ctx context.Context, handle, email string) (bool, error) {
	n, err := u.col.CountDocuments(ctx, bson.M{"$or": bson.A{
		bson.M{"handle": handle},
		bson.M{"email": email},
	}})
	if err != nil {
		return false, wrapErr(err, "failed to check account existence")
	}
	return n > 0, nil
}

// IsFollowing reports whether target is in actor's following set.
func (u *Users) IsFollowing(ctx context.Context, actor, target primitive.ObjectID) (bool, error) {
	n, err := u.col.CountDocuments(ctx, bson.M{"_id": actor, "following": target})
	if err != nil {
		return false, wrapErr(err, "failed to check follow state")
	}
	return n > 0, nil
}

// Follow inserts the paired edge with a conditional update on the actor
// side: the filter matches only when target is not already in the following
// set, so two concurrent toggles can never double-apply. When the actor side
// applies, the target's followers side commits in the same transaction; a
// single-sided edge is never observable. The returned bool reports whether
// the edge actually changed.
func (u *Users) Follow(ctx context.Context, actor, target primitive.ObjectID) (bool, error) {
	filter := bson.M{"_id": actor, "following": bson.M{"$ne": target}}
	return u.pairedUpdate(ctx, filter, "$addToSet", actor, target)
}

// Unfollow mirrors Follow for the negative transition.
func (u *Users) Unfollow(ctx context.Context, actor, target primitive.ObjectID) (bool, error) {
	filter := bson.M{"_id": actor, "following": target}
	return u.pairedUpdate(ctx, filter, "$pull", actor, target)
}

func (u *Users) pairedUpdate(ctx context.Context, actorFilter bson.M, op string, actor, target primitive.ObjectID) (bool, error) {
	applied := false
	err := inTransaction(ctx, u.client, func(sessCtx mongo.SessionContext) error {
		res, err := u.col.UpdateOne(sessCtx, actorFilter, bson.M{op: bson.M{"following": target}})
		if err != nil {
			return wrapErr(err, "failed to update following set")
		}
		if res.ModifiedCount == 0 {
			// a concurrent toggle already applied this edge; callers verify
			// both accounts exist before toggling
			return nil
		}
		applied = true

		res, err = u.col.UpdateByID(sessCtx, target, bson.M{op: bson.M{"followers": actor}})
		if err != nil {
			return wrapErr(err, "failed to update followers set")
		}
		if res.MatchedCount == 0 {
			return notFound("user")
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return applied, nil
}

// UpdateProfile applies the non-nil fields and returns the updated account
// without the password hash.
func (u *Users) UpdateProfile(ctx context.Context, id primitive.ObjectID, update model.ProfileUpdate) (*model.User, error) {
	set := bson.M{"updated_at": time.Now()}
	if update.FullName != nil {
		set["full_name"] = *update.FullName
	}
	if update.Email != nil {
		set["email"] = *update.Email
	}
	if update.Bio != nil {
		set["bio"] = *update.Bio
	}
	if update.Link != nil {
		set["link"] = *update.Link
	}
	if update.Password != nil {
		set["password"] = *update.Password
	}
	if update.ProfileImg != nil {
		set["profile_img"] = *update.ProfileImg
	}
	if update.CoverImg != nil {
		set["cover_img"] = *update.CoverImg
	}

	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(publicProjection)

	var user model.User
	err := u.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, notFound("user")
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, errors.New("email already exists", errors.CategoryValidation).
				WithTextCode("DUPLICATE_ACCOUNT")
		}
		return nil, wrapErr(err, "failed to update profile")
	}
	return &user, nil
}

// SuggestedFor samples up to four random accounts the caller does not
// already follow, password excluded.
func (u *Users) SuggestedFor(ctx context.Context, id primitive.ObjectID) ([]model.User, error) {
	me, err := u.FindByIDPublic(ctx, id)
	if err != nil {
		return nil, err
	}

	exclude := append([]primitive.ObjectID{id}, me.Following...)

	cursor, err := u.col.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"_id": bson.M{"$nin": exclude}}}},
		{{Key: "$sample", Value: bson.M{"size": suggestedLimit}}},
		{{Key: "$project", Value: publicProjection}},
	})
	if err != nil {
		return nil, wrapErr(err, "failed to sample suggested users")
	}
	defer cursor.Close(ctx)

	users := []model.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, wrapErr(err, "failed to decode suggested users")
	}
	return users, nil
}

// EnsureIndexes creates the unique handle/email indexes backing signup
// duplicate rejection.
func (u *Users) EnsureIndexes(ctx context.Context) error {
	_, err := u.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "handle", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	return wrapErr(err, "failed to create user indexes")
}
