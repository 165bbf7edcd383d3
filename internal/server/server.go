// Package server wires the Fiber application: routes, request payload
// validation and the single boundary where errors map to HTTP responses.
package server

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/plume-social/plume/internal/auth"
	"github.com/plume-social/plume/internal/engage"
	"github.com/plume-social/plume/internal/imagestore"
	"github.com/plume-social/plume/internal/model"
)

// UserStore is the account directory surface the handlers need.
type UserStore interface {
	auth.UserResolver
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)
	FindByHandle(ctx context.Context, handle string) (*model.User, error)
	FindByHandlePublic(ctx context.Context, handle string) (*model.User, error)
	ExistsHandleOrEmail(ctx context.Context, handle, email string) (bool, error)
	Create(ctx context.Context, user *model.User) error
	UpdateProfile(ctx context.Context, id primitive.ObjectID, update model.ProfileUpdate) (*model.User, error)
	SuggestedFor(ctx context.Context, id primitive.ObjectID) ([]model.User, error)
}

type PostStore interface {
	Create(ctx context.Context, post *model.Post) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Post, error)
	FindAll(ctx context.Context) ([]model.Post, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	AddComment(ctx context.Context, postID primitive.ObjectID, comment model.Comment) error
}

type NotificationStore interface {
	ListFor(ctx context.Context, userID primitive.ObjectID) ([]model.NotificationWithSender, error)
	MarkAllRead(ctx context.Context, userID primitive.ObjectID) error
	ClearFor(ctx context.Context, userID primitive.ObjectID) error
}

type Config struct {
	Production bool
}

type Server struct {
	app           *fiber.App
	cfg           Config
	tokens        *auth.TokenService
	users         UserStore
	posts         PostStore
	notifications NotificationStore
	engine        *engage.Engine
	images        imagestore.Store
	logger        auth.Logger
}

func New(cfg Config, tokens *auth.TokenService, users UserStore, posts PostStore, notifications NotificationStore, engine *engage.Engine, images imagestore.Store, logger auth.Logger) *Server {
	if logger == nil {
		logger = auth.StdLogger{Prefix: "API"}
	}
	if images == nil {
		images = imagestore.Disabled{}
	}

	s := &Server{
		cfg:           cfg,
		tokens:        tokens,
		users:         users,
		posts:         posts,
		notifications: notifications,
		engine:        engine,
		images:        images,
		logger:        logger,
	}

	s.app = fiber.New(fiber.Config{
		ErrorHandler: s.errorHandler,
	})
	s.registerRoutes()

	return s
}

func (s *Server) registerRoutes() {
	protect := auth.Protect(s.tokens, s.users, s.logger)

	api := s.app.Group("/api")

	ag := api.Group("/auth")
	ag.Post("/signup", s.handleSignup)
	ag.Post("/login", s.handleLogin)
	ag.Post("/logout", s.handleLogout)
	ag.Get("/me", protect, s.handleMe)

	ug := api.Group("/users", protect)
	ug.Get("/profile/:handle", s.handleProfile)
	ug.Get("/suggested", s.handleSuggested)
	ug.Post("/follow/:id", s.handleFollowToggle)
	ug.Post("/update", s.handleProfileUpdate)

	pg := api.Group("/posts", protect)
	pg.Get("/", s.handleListPosts)
	pg.Post("/", s.handleCreatePost)
	pg.Post("/:id/comment", s.handleComment)
	pg.Post("/:id/like", s.handleLikeToggle)
	pg.Delete("/:id", s.handleDeletePost)

	ng := api.Group("/notifications", protect)
	ng.Get("/", s.handleListNotifications)
	ng.Delete("/", s.handleClearNotifications)
}

// Listen blocks serving the API.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// App exposes the fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// errorHandler is the single mapping point from the error taxonomy to HTTP
// responses. Internal detail is logged server-side and never leaks to the
// client.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{"error": fiberErr.Message})
	}

	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryInternal, "internal server error")
	}

	status := statusForCategory(richErr.Category)
	if status >= fiber.StatusInternalServerError {
		s.logger.Error(
			"request failed",
			"path", c.Path(),
			"error", richErr.Message,
			"metadata", print.MaybePrettyJSON(richErr.Metadata),
		)
		return c.Status(status).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.Status(status).JSON(fiber.Map{"error": richErr.Message})
}

func statusForCategory(category errors.Category) int {
	switch category {
	case errors.CategoryValidation, errors.CategoryBadInput:
		return fiber.StatusBadRequest
	case errors.CategoryAuth:
		return fiber.StatusUnauthorized
	case errors.CategoryAuthz:
		return fiber.StatusForbidden
	case errors.CategoryNotFound:
		return fiber.StatusNotFound
	case errors.CategoryRateLimit:
		return fiber.StatusTooManyRequests
	default:
		return fiber.StatusInternalServerError
	}
}

// currentUser returns the identity the session middleware attached. Routes
// behind Protect always have one; the guard covers programming mistakes.
func currentUser(c *fiber.Ctx) (*model.User, error) {
	user, ok := auth.UserFromCtx(c)
	if !ok {
		return nil, auth.ErrUnauthorized
	}
	return user, nil
}

// objectIDParam parses a path parameter as a document id.
func objectIDParam(c *fiber.Ctx, name string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Params(name))
	if err != nil {
		return primitive.NilObjectID, errors.New("invalid id", errors.CategoryValidation).
			WithTextCode("INVALID_ID")
	}
	return id, nil
}

func validationErr(err error) error {
	var richErr *errors.Error
	if errors.As(err, &richErr) {
		return richErr
	}
	return errors.Wrap(err, errors.CategoryValidation, err.Error())
}

func bindErr(err error) error {
	return errors.Wrap(err, errors.CategoryBadInput, "failed to parse request body")
}
