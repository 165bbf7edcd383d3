package server

import (
	"github.com/gofiber/fiber/v2"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/goliatone/go-errors"

	"github.com/plume-social/plume/internal/auth"
	"github.com/plume-social/plume/internal/model"
)

// SignupRequest payload
type SignupRequest struct {
	Handle   string `json:"handle" form:"handle"`
	FullName string `json:"full_name" form:"full_name"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// Validate will run validation rules
func (r SignupRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Handle, validation.Required, validation.Length(1, 32)),
		validation.Field(&r.FullName, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(6, 100)),
	)
}

func (s *Server) handleSignup(c *fiber.Ctx) error {
	payload := new(SignupRequest)
	if err := c.BodyParser(payload); err != nil {
		return bindErr(err)
	}
	if err := payload.Validate(); err != nil {
		return validationErr(err)
	}

	exists, err := s.users.ExistsHandleOrEmail(c.UserContext(), payload.Handle, payload.Email)
	if err != nil {
		return err
	}
	if exists {
		return errors.New("handle or email already exists", errors.CategoryValidation).
			WithTextCode("DUPLICATE_ACCOUNT")
	}

	hash, err := auth.HashPassword(payload.Password)
	if err != nil {
		return err
	}

	user := &model.User{
		Handle:   payload.Handle,
		FullName: payload.FullName,
		Email:    payload.Email,
		Password: hash,
	}
	if err := s.users.Create(c.UserContext(), user); err != nil {
		return err
	}

	token, err := s.tokens.Generate(user.ID.Hex())
	if err != nil {
		return err
	}
	auth.SetSessionCookie(c, token, s.tokens.TTL(), s.cfg.Production)

	return c.Status(fiber.StatusCreated).JSON(user)
}

// LoginRequest payload
type LoginRequest struct {
	Handle   string `json:"handle" form:"handle"`
	Password string `json:"password" form:"password"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Handle, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

func (s *Server) handleLogin(c *fiber.Ctx) error {
	payload := new(LoginRequest)
	if err := c.BodyParser(payload); err != nil {
		return bindErr(err)
	}
	if err := payload.Validate(); err != nil {
		return validationErr(err)
	}

	user, err := s.users.FindByHandle(c.UserContext(), payload.Handle)
	if err != nil {
		if errors.IsNotFound(err) {
			// burn a comparison anyway so unknown handles cost the same
			_ = auth.ComparePasswordAndHash(payload.Password, "")
			return auth.ErrInvalidCredentials
		}
		return err
	}

	if err := auth.ComparePasswordAndHash(payload.Password, user.Password); err != nil {
		return auth.ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user.ID.Hex())
	if err != nil {
		return err
	}
	auth.SetSessionCookie(c, token, s.tokens.TTL(), s.cfg.Production)

	user.Password = ""
	return c.JSON(user)
}

func (s *Server) handleLogout(c *fiber.Ctx) error {
	auth.ClearSessionCookie(c, s.cfg.Production)
	return c.JSON(fiber.Map{"message": "logged out successfully"})
}

func (s *Server) handleMe(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	return c.JSON(user)
}
