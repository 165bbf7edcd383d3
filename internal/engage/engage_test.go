package engage_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/plume-social/plume/internal/engage"
	"github.com/plume-social/plume/internal/model"
)

// MockUserStore implements engage.UserStore for testing
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) FindByIDPublic(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*model.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserStore) IsFollowing(ctx context.Context, actor, target primitive.ObjectID) (bool, error) {
	args := m.Called(ctx, actor, target)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserStore) Follow(ctx context.Context, actor, target primitive.ObjectID) (bool, error) {
	args := m.Called(ctx, actor, target)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserStore) Unfollow(ctx context.Context, actor, target primitive.ObjectID) (bool, error) {
	args := m.Called(ctx, actor, target)
	return args.Bool(0), args.Error(1)
}

// MockPostStore implements engage.PostStore for testing
type MockPostStore struct {
	mock.Mock
}

func (m *MockPostStore) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Post, error) {
	args := m.Called(ctx, id)
	if p := args.Get(0); p != nil {
		return p.(*model.Post), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPostStore) AddLike(ctx context.Context, postID, userID primitive.ObjectID) (bool, error) {
	args := m.Called(ctx, postID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPostStore) RemoveLike(ctx context.Context, postID, userID primitive.ObjectID) (bool, error) {
	args := m.Called(ctx, postID, userID)
	return args.Bool(0), args.Error(1)
}

// MockNotificationStore implements engage.NotificationStore for testing
type MockNotificationStore struct {
	mock.Mock
}

func (m *MockNotificationStore) Insert(ctx context.Context, n *model.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func notFoundErr(entity string) error {
	return errors.New(entity+" not found", errors.CategoryNotFound)
}

func newEngine() (*engage.Engine, *MockUserStore, *MockPostStore, *MockNotificationStore) {
	users := new(MockUserStore)
	posts := new(MockPostStore)
	notifications := new(MockNotificationStore)
	return engage.New(users, posts, notifications, nil), users, posts, notifications
}

func TestToggleLikePositiveTransition(t *testing.T) {
	engine, _, posts, notifications := newEngine()

	actor := primitive.NewObjectID()
	owner := primitive.NewObjectID()
	postID := primitive.NewObjectID()

	posts.On("FindByID", mock.Anything, postID).
		Return(&model.Post{ID: postID, User: owner, Likes: []primitive.ObjectID{}}, nil)
	posts.On("AddLike", mock.Anything, postID, actor).Return(true, nil)
	notifications.On("Insert", mock.Anything, mock.MatchedBy(func(n *model.Notification) bool {
		return n.Type == model.NotificationLike && n.From == actor && n.To == owner
	})).Return(nil)

	liked, err := engine.ToggleLike(context.Background(), actor, postID)

	require.NoError(t, err)
	assert.True(t, liked)
	posts.AssertNotCalled(t, "RemoveLike", mock.Anything, mock.Anything, mock.Anything)
	notifications.AssertNumberOfCalls(t, "Insert", 1)
}

func TestToggleLikeNegativeTransition(t *testing.T) {
	engine, _, posts, notifications := newEngine()

	actor := primitive.NewObjectID()
	postID := primitive.NewObjectID()

	posts.On("FindByID", mock.Anything, postID).
		Return(&model.Post{ID: postID, User: primitive.NewObjectID(), Likes: []primitive.ObjectID{actor}}, nil)
	posts.On("RemoveLike", mock.Anything, postID, actor).Return(true, nil)

	liked, err := engine.ToggleLike(context.Background(), actor, postID)

	require.NoError(t, err)
	assert.False(t, liked)
	notifications.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestToggleLikeSelfLikeStillNotifies(t *testing.T) {
	engine, _, posts, notifications := newEngine()

	actor := primitive.NewObjectID()
	postID := primitive.NewObjectID()

	posts.On("FindByID", mock.Anything, postID).
		Return(&model.Post{ID: postID, User: actor, Likes: []primitive.ObjectID{}}, nil)
	posts.On("AddLike", mock.Anything, postID, actor).Return(true, nil)
	notifications.On("Insert", mock.Anything, mock.MatchedBy(func(n *model.Notification) bool {
		return n.From == actor && n.To == actor
	})).Return(nil)

	liked, err := engine.ToggleLike(context.Background(), actor, postID)

	require.NoError(t, err)
	assert.True(t, liked)
	notifications.AssertNumberOfCalls(t, "Insert", 1)
}

func TestToggleLikeLostRaceDoesNotNotify(t *testing.T) {
	engine, _, posts, notifications := newEngine()

	actor := primitive.NewObjectID()
	postID := primitive.NewObjectID()

	posts.On("FindByID", mock.Anything, postID).
		Return(&model.Post{ID: postID, User: primitive.NewObjectID(), Likes: []primitive.ObjectID{}}, nil)
	// the conditional update did not apply: a concurrent request won the race
	posts.On("AddLike", mock.Anything, postID, actor).Return(false, nil)

	liked, err := engine.ToggleLike(context.Background(), actor, postID)

	require.NoError(t, err)
	assert.True(t, liked)
	notifications.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestToggleLikeMissingPost(t *testing.T) {
	engine, _, posts, _ := newEngine()

	postID := primitive.NewObjectID()
	posts.On("FindByID", mock.Anything, postID).Return(nil, notFoundErr("post"))

	_, err := engine.ToggleLike(context.Background(), primitive.NewObjectID(), postID)
	assert.True(t, errors.IsNotFound(err))
}

func TestToggleLikeTwiceReturnsToOriginalState(t *testing.T) {
	engine, _, posts, notifications := newEngine()

	actor := primitive.NewObjectID()
	postID := primitive.NewObjectID()
	likes := []primitive.ObjectID{}

	posts.On("FindByID", mock.Anything, postID).Return(
		&model.Post{ID: postID, User: primitive.NewObjectID(), Likes: likes}, nil).Once()
	posts.On("AddLike", mock.Anything, postID, actor).Return(true, nil).Once()
	notifications.On("Insert", mock.Anything, mock.Anything).Return(nil).Once()

	liked, err := engine.ToggleLike(context.Background(), actor, postID)
	require.NoError(t, err)
	require.True(t, liked)

	posts.On("FindByID", mock.Anything, postID).Return(
		&model.Post{ID: postID, User: primitive.NewObjectID(), Likes: []primitive.ObjectID{actor}}, nil).Once()
	posts.On("RemoveLike", mock.Anything, postID, actor).Return(true, nil).Once()

	liked, err = engine.ToggleLike(context.Background(), actor, postID)
	require.NoError(t, err)
	assert.False(t, liked)

	// like then like again yields exactly one notification total
	notifications.AssertNumberOfCalls(t, "Insert", 1)
}

func TestToggleFollowSelfRejectedBeforeAnyState(t *testing.T) {
	engine, users, _, notifications := newEngine()

	actor := primitive.NewObjectID()

	_, err := engine.ToggleFollow(context.Background(), actor, actor)

	assert.ErrorIs(t, err, engage.ErrSelfFollow)
	users.AssertNotCalled(t, "FindByIDPublic", mock.Anything, mock.Anything)
	users.AssertNotCalled(t, "Follow", mock.Anything, mock.Anything, mock.Anything)
	users.AssertNotCalled(t, "Unfollow", mock.Anything, mock.Anything, mock.Anything)
	notifications.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestToggleFollowMissingTarget(t *testing.T) {
	engine, users, _, _ := newEngine()

	actor := primitive.NewObjectID()
	target := primitive.NewObjectID()

	users.On("FindByIDPublic", mock.Anything, actor).
		Return(&model.User{ID: actor}, nil)
	users.On("FindByIDPublic", mock.Anything, target).
		Return(nil, notFoundErr("user"))

	_, err := engine.ToggleFollow(context.Background(), actor, target)

	assert.True(t, errors.IsNotFound(err))
	users.AssertNotCalled(t, "Follow", mock.Anything, mock.Anything, mock.Anything)
}

func TestToggleFollowPositiveTransition(t *testing.T) {
	engine, users, _, notifications := newEngine()

	actor := primitive.NewObjectID()
	target := primitive.NewObjectID()

	users.On("FindByIDPublic", mock.Anything, actor).Return(&model.User{ID: actor}, nil)
	users.On("FindByIDPublic", mock.Anything, target).Return(&model.User{ID: target}, nil)
	users.On("IsFollowing", mock.Anything, actor, target).Return(false, nil)
	users.On("Follow", mock.Anything, actor, target).Return(true, nil)
	notifications.On("Insert", mock.Anything, mock.MatchedBy(func(n *model.Notification) bool {
		return n.Type == model.NotificationFollow && n.From == actor && n.To == target
	})).Return(nil)

	following, err := engine.ToggleFollow(context.Background(), actor, target)

	require.NoError(t, err)
	assert.True(t, following)
	notifications.AssertNumberOfCalls(t, "Insert", 1)
}

func TestToggleFollowLostRaceDoesNotNotify(t *testing.T) {
	engine, users, _, notifications := newEngine()

	actor := primitive.NewObjectID()
	target := primitive.NewObjectID()

	users.On("FindByIDPublic", mock.Anything, actor).Return(&model.User{ID: actor}, nil)
	users.On("FindByIDPublic", mock.Anything, target).Return(&model.User{ID: target}, nil)
	// the pre-check reads stale state; the conditional update reports the
	// edge was already applied by a concurrent toggle
	users.On("IsFollowing", mock.Anything, actor, target).Return(false, nil)
	users.On("Follow", mock.Anything, actor, target).Return(false, nil)

	following, err := engine.ToggleFollow(context.Background(), actor, target)

	require.NoError(t, err)
	assert.True(t, following)
	notifications.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestToggleFollowConcurrentTogglesNotifyOnce(t *testing.T) {
	engine, users, _, notifications := newEngine()

	actor := primitive.NewObjectID()
	target := primitive.NewObjectID()

	users.On("FindByIDPublic", mock.Anything, actor).Return(&model.User{ID: actor}, nil)
	users.On("FindByIDPublic", mock.Anything, target).Return(&model.User{ID: target}, nil)
	// both toggles observe not-following, but only one conditional update
	// applies the edge
	users.On("IsFollowing", mock.Anything, actor, target).Return(false, nil).Twice()
	users.On("Follow", mock.Anything, actor, target).Return(true, nil).Once()
	users.On("Follow", mock.Anything, actor, target).Return(false, nil).Once()
	notifications.On("Insert", mock.Anything, mock.Anything).Return(nil)

	for i := 0; i < 2; i++ {
		following, err := engine.ToggleFollow(context.Background(), actor, target)
		require.NoError(t, err)
		assert.True(t, following)
	}

	notifications.AssertNumberOfCalls(t, "Insert", 1)
}

func TestToggleFollowNegativeTransition(t *testing.T) {
	engine, users, _, notifications := newEngine()

	actor := primitive.NewObjectID()
	target := primitive.NewObjectID()

	users.On("FindByIDPublic", mock.Anything, actor).Return(&model.User{ID: actor}, nil)
	users.On("FindByIDPublic", mock.Anything, target).Return(&model.User{ID: target}, nil)
	users.On("IsFollowing", mock.Anything, actor, target).Return(true, nil)
	users.On("Unfollow", mock.Anything, actor, target).Return(true, nil)

	following, err := engine.ToggleFollow(context.Background(), actor, target)

	require.NoError(t, err)
	assert.False(t, following)
	users.AssertNotCalled(t, "Follow", mock.Anything, mock.Anything, mock.Anything)
	notifications.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestToggleLikeNotificationFailureStillLiked(t *testing.T) {
	engine, _, posts, notifications := newEngine()

	actor := primitive.NewObjectID()
	postID := primitive.NewObjectID()

	posts.On("FindByID", mock.Anything, postID).
		Return(&model.Post{ID: postID, User: primitive.NewObjectID(), Likes: []primitive.ObjectID{}}, nil)
	posts.On("AddLike", mock.Anything, postID, actor).Return(true, nil)
	notifications.On("Insert", mock.Anything, mock.Anything).
		Return(errors.New("notifications unavailable", errors.CategoryInternal))

	// the like is already committed, so the toggle reports success anyway
	liked, err := engine.ToggleLike(context.Background(), actor, postID)

	require.NoError(t, err)
	assert.True(t, liked)
}

func TestToggleFollowNotificationFailureStillFollowed(t *testing.T) {
	engine, users, _, notifications := newEngine()

	actor := primitive.NewObjectID()
	target := primitive.NewObjectID()

	users.On("FindByIDPublic", mock.Anything, actor).Return(&model.User{ID: actor}, nil)
	users.On("FindByIDPublic", mock.Anything, target).Return(&model.User{ID: target}, nil)
	users.On("IsFollowing", mock.Anything, actor, target).Return(false, nil)
	users.On("Follow", mock.Anything, actor, target).Return(true, nil)
	notifications.On("Insert", mock.Anything, mock.Anything).
		Return(errors.New("notifications unavailable", errors.CategoryInternal))

	following, err := engine.ToggleFollow(context.Background(), actor, target)

	require.NoError(t, err)
	assert.True(t, following)
}
