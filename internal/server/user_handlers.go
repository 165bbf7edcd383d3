package server

import (
	"github.com/gofiber/fiber/v2"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/goliatone/go-errors"

	"github.com/plume-social/plume/internal/auth"
	"github.com/plume-social/plume/internal/model"
)

func (s *Server) handleProfile(c *fiber.Ctx) error {
	user, err := s.users.FindByHandlePublic(c.UserContext(), c.Params("handle"))
	if err != nil {
		return err
	}
	return c.JSON(user)
}

func (s *Server) handleSuggested(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	suggested, err := s.users.SuggestedFor(c.UserContext(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(suggested)
}

func (s *Server) handleFollowToggle(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	target, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}

	following, err := s.engine.ToggleFollow(c.UserContext(), user.ID, target)
	if err != nil {
		return err
	}

	message := "unfollowed successfully"
	if following {
		message = "followed successfully"
	}
	return c.JSON(fiber.Map{"following": following, "message": message})
}

// UpdateProfileRequest payload; empty fields are left unchanged.
type UpdateProfileRequest struct {
	FullName        string `json:"full_name" form:"full_name"`
	Email           string `json:"email" form:"email"`
	Bio             string `json:"bio" form:"bio"`
	Link            string `json:"link" form:"link"`
	CurrentPassword string `json:"current_password" form:"current_password"`
	NewPassword     string `json:"new_password" form:"new_password"`
	ProfileImg      string `json:"profile_img" form:"profile_img"`
	CoverImg        string `json:"cover_img" form:"cover_img"`
}

// Validate will run validation rules
func (r UpdateProfileRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FullName, validation.Length(1, 100)),
		validation.Field(&r.Email, is.Email),
		validation.Field(&r.Bio, validation.Length(0, 280)),
		validation.Field(&r.Link, is.URL),
		validation.Field(&r.NewPassword, validation.Length(6, 100)),
	)
}

func (s *Server) handleProfileUpdate(c *fiber.Ctx) error {
	me, err := currentUser(c)
	if err != nil {
		return err
	}

	payload := new(UpdateProfileRequest)
	if err := c.BodyParser(payload); err != nil {
		return bindErr(err)
	}
	if err := payload.Validate(); err != nil {
		return validationErr(err)
	}

	update := model.ProfileUpdate{}
	if payload.FullName != "" {
		update.FullName = &payload.FullName
	}
	if payload.Email != "" {
		update.Email = &payload.Email
	}
	if payload.Bio != "" {
		update.Bio = &payload.Bio
	}
	if payload.Link != "" {
		update.Link = &payload.Link
	}

	if payload.NewPassword != "" {
		if payload.CurrentPassword == "" {
			return errors.New("current password is required to change password", errors.CategoryValidation).
				WithTextCode("CURRENT_PASSWORD_REQUIRED")
		}

		full, err := s.users.FindByID(c.UserContext(), me.ID)
		if err != nil {
			return err
		}
		if err := auth.ComparePasswordAndHash(payload.CurrentPassword, full.Password); err != nil {
			return errors.New("current password is incorrect", errors.CategoryValidation).
				WithTextCode("WRONG_PASSWORD")
		}

		hash, err := auth.HashPassword(payload.NewPassword)
		if err != nil {
			return err
		}
		update.Password = &hash
	}

	if payload.ProfileImg != "" {
		url, err := s.replaceImage(c, me.ProfileImg, payload.ProfileImg)
		if err != nil {
			return err
		}
		update.ProfileImg = &url
	}
	if payload.CoverImg != "" {
		url, err := s.replaceImage(c, me.CoverImg, payload.CoverImg)
		if err != nil {
			return err
		}
		update.CoverImg = &url
	}

	user, err := s.users.UpdateProfile(c.UserContext(), me.ID, update)
	if err != nil {
		return err
	}
	return c.JSON(user)
}

// replaceImage uploads the new image and destroys the previous one.
func (s *Server) replaceImage(c *fiber.Ctx, old, image string) (string, error) {
	if old != "" {
		if err := s.images.Destroy(c.UserContext(), old); err != nil {
			s.logger.Error("failed to destroy previous image", "url", old, "error", err)
		}
	}
	return s.images.Upload(c.UserContext(), image)
}
