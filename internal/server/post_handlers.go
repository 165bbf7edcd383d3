package server

import (
	"github.com/gofiber/fiber/v2"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/goliatone/go-errors"

	"github.com/plume-social/plume/internal/model"
)

func (s *Server) handleListPosts(c *fiber.Ctx) error {
	posts, err := s.posts.FindAll(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(posts)
}

// CreatePostRequest payload
type CreatePostRequest struct {
	Text  string `json:"text" form:"text"`
	Image string `json:"image" form:"image"`
}

// Validate will run validation rules; a post needs text or an image.
func (r CreatePostRequest) Validate() error {
	if r.Text == "" && r.Image == "" {
		return errors.New("post must have text or an image", errors.CategoryValidation).
			WithTextCode("EMPTY_POST")
	}
	return validation.ValidateStruct(&r,
		validation.Field(&r.Text, validation.Length(0, 500)),
	)
}

func (s *Server) handleCreatePost(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	payload := new(CreatePostRequest)
	if err := c.BodyParser(payload); err != nil {
		return bindErr(err)
	}
	if err := payload.Validate(); err != nil {
		return validationErr(err)
	}

	image := ""
	if payload.Image != "" {
		image, err = s.images.Upload(c.UserContext(), payload.Image)
		if err != nil {
			return err
		}
	}

	post := &model.Post{
		User:  user.ID,
		Text:  payload.Text,
		Image: image,
	}
	if err := s.posts.Create(c.UserContext(), post); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// CommentRequest payload
type CommentRequest struct {
	Text string `json:"text" form:"text"`
}

// Validate will run validation rules
func (r CommentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Text, validation.Required, validation.Length(1, 500)),
	)
}

func (s *Server) handleComment(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	postID, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}

	payload := new(CommentRequest)
	if err := c.BodyParser(payload); err != nil {
		return bindErr(err)
	}
	if err := payload.Validate(); err != nil {
		return validationErr(err)
	}

	comment := model.Comment{User: user.ID, Text: payload.Text}
	if err := s.posts.AddComment(c.UserContext(), postID, comment); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "comment added successfully"})
}

func (s *Server) handleLikeToggle(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	postID, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}

	liked, err := s.engine.ToggleLike(c.UserContext(), user.ID, postID)
	if err != nil {
		return err
	}

	message := "post unliked successfully"
	if liked {
		message = "post liked successfully"
	}
	return c.JSON(fiber.Map{"liked": liked, "message": message})
}

func (s *Server) handleDeletePost(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	postID, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}

	post, err := s.posts.FindByID(c.UserContext(), postID)
	if err != nil {
		return err
	}

	if post.User != user.ID {
		return errors.New("you are not authorized to delete this post", errors.CategoryAuthz).
			WithTextCode("NOT_POST_OWNER")
	}

	if post.Image != "" {
		if err := s.images.Destroy(c.UserContext(), post.Image); err != nil {
			return err
		}
	}

	if err := s.posts.Delete(c.UserContext(), postID); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "post deleted successfully"})
}
