// Package engage implements the like and follow toggle transitions and the
// notification emission tied to their positive edges.
package engage

import (
	"context"

	"github.com/goliatone/go-errors"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/plume-social/plume/internal/auth"
	"github.com/plume-social/plume/internal/model"
)

// ErrSelfFollow rejects follow toggles where actor == target before any
// state is touched.
var ErrSelfFollow = errors.New("you cannot follow or unfollow yourself", errors.CategoryValidation).
	WithTextCode("SELF_FOLLOW")

// UserStore is the slice of the account directory the engine needs. Follow
// and Unfollow are conditional mutations reporting whether the edge actually
// changed, mirroring the like contract on PostStore.
type UserStore interface {
	FindByIDPublic(ctx context.Context, id primitive.ObjectID) (*model.User, error)
	IsFollowing(ctx context.Context, actor, target primitive.ObjectID) (bool, error)
	Follow(ctx context.Context, actor, target primitive.ObjectID) (bool, error)
	Unfollow(ctx context.Context, actor, target primitive.ObjectID) (bool, error)
}

// PostStore exposes the conditional like mutations. AddLike and RemoveLike
// report whether membership actually changed so the engine never
// read-modify-writes across two round trips.
type PostStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Post, error)
	AddLike(ctx context.Context, postID, userID primitive.ObjectID) (bool, error)
	RemoveLike(ctx context.Context, postID, userID primitive.ObjectID) (bool, error)
}

type NotificationStore interface {
	Insert(ctx context.Context, n *model.Notification) error
}

type Engine struct {
	users         UserStore
	posts         PostStore
	notifications NotificationStore
	logger        auth.Logger
}

func New(users UserStore, posts PostStore, notifications NotificationStore, logger auth.Logger) *Engine {
	if logger == nil {
		logger = auth.StdLogger{Prefix: "ENGAGE"}
	}
	return &Engine{
		users:         users,
		posts:         posts,
		notifications: notifications,
		logger:        logger,
	}
}

// ToggleLike flips the actor's membership in the post's likes set and
// reports the resulting state. Only the not-liked -> liked transition emits
// a notification; a like on one's own post still notifies the owner, which
// is the actor.
func (e *Engine) ToggleLike(ctx context.Context, actor, postID primitive.ObjectID) (bool, error) {
	post, err := e.posts.FindByID(ctx, postID)
	if err != nil {
		return false, err
	}

	if post.HasLike(actor) {
		if _, err := e.posts.RemoveLike(ctx, postID, actor); err != nil {
			return false, err
		}
		return false, nil
	}

	applied, err := e.posts.AddLike(ctx, postID, actor)
	if err != nil {
		return false, err
	}
	if !applied {
		// lost a race with a concurrent like; membership is already set
		return true, nil
	}

	if err := e.notifications.Insert(ctx, &model.Notification{
		From: actor,
		To:   post.User,
		Type: model.NotificationLike,
	}); err != nil {
		// the like is already applied; notification emission is best-effort
		e.logger.Error("failed to record like notification", "post", postID.Hex(), "error", err)
	}

	return true, nil
}

// ToggleFollow flips the follow edge between actor and target and reports
// the resulting state. The paired follower/following update is applied by
// the store as a unit, and only the toggle that actually inserts the edge
// emits a notification.
func (e *Engine) ToggleFollow(ctx context.Context, actor, target primitive.ObjectID) (bool, error) {
	if actor == target {
		return false, ErrSelfFollow
	}

	if _, err := e.users.FindByIDPublic(ctx, actor); err != nil {
		return false, err
	}
	if _, err := e.users.FindByIDPublic(ctx, target); err != nil {
		return false, err
	}

	following, err := e.users.IsFollowing(ctx, actor, target)
	if err != nil {
		return false, err
	}

	if following {
		if _, err := e.users.Unfollow(ctx, actor, target); err != nil {
			return false, err
		}
		return false, nil
	}

	applied, err := e.users.Follow(ctx, actor, target)
	if err != nil {
		return false, err
	}
	if !applied {
		// lost a race with a concurrent follow; the edge is already set
		return true, nil
	}

	if err := e.notifications.Insert(ctx, &model.Notification{
		From: actor,
		To:   target,
		Type: model.NotificationFollow,
	}); err != nil {
		// the edge is already applied; notification emission is best-effort
		e.logger.Error("failed to record follow notification", "target", target.Hex(), "error", err)
	}

	return true, nil
}
