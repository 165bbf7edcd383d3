// Package store implements the Mongo-backed repositories. Toggle mutations
// use single-document conditional updates and the paired follower/following
// mutation runs inside a multi-document transaction, so no partial state is
// observable to subsequent reads.
package store

import (
	"context"

	"github.com/goliatone/go-errors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	usersCollection         = "users"
	postsCollection         = "posts"
	notificationsCollection = "notifications"
)

// Connect establishes the Mongo client and verifies the connection.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to connect to mongo")
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to ping mongo")
	}

	return client, nil
}

func notFound(entity string) *errors.Error {
	return errors.New(entity+" not found", errors.CategoryNotFound).
		WithTextCode("NOT_FOUND")
}

func wrapErr(err error, msg string) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(err, errors.CategoryInternal, msg)
}

// inTransaction runs fn inside a Mongo session transaction.
func inTransaction(ctx context.Context, client *mongo.Client, fn func(mongo.SessionContext) error) error {
	session, err := client.StartSession()
	if err != nil {
		return wrapErr(err, "failed to start mongo session")
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (any, error) {
		if err := fn(sessCtx); err != nil {
			return nil, err
		}
		return nil, nil
	})

	return err
}
