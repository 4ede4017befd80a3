package server

import (
	"blogapi/internal/models"
	"blogapi/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createUserRequest struct {
	Email    string `json:"email" example:"jane@blog.com"`
	Username string `json:"username" example:"janedoe"`
	Name     string `json:"name"`
	Bio      string `json:"bio"`
	Avatar   string `json:"avatar"`
	Role     string `json:"role" enums:"ADMIN,AUTHOR,USER"`
}

// GetUsers handles GET /api/users
// @Summary List users
// @Description All users newest first, with post and comment counts
// @Tags users
// @Produce json
// @Success 200 {object} models.Response{data=[]models.User}
// @Router /api/users [get]
func (s *Server) GetUsers(c *fiber.Ctx) error {
	users, err := s.userService.ListUsers(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.List(users, len(users)))
}

// GetUser handles GET /api/users/:id
// @Summary Get a user
// @Description User profile with the five most recent posts and comments
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} models.Response{data=models.UserDetail}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/users/{id} [get]
func (s *Server) GetUser(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	user, err := s.userService.GetUser(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.OK(user))
}

// CreateUser handles POST /api/users
// @Summary Create a user
// @Tags users
// @Accept json
// @Produce json
// @Param user body createUserRequest true "User"
// @Success 201 {object} models.Response{data=models.User}
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Failure 429 {object} models.ErrorResponse
// @Router /api/users [post]
func (s *Server) CreateUser(c *fiber.Ctx) error {
	var req createUserRequest
	if err := bindJSON(c, &req); err != nil {
		return nil
	}

	user, err := s.userService.CreateUser(c.UserContext(), service.CreateUserInput{
		Email:    req.Email,
		Username: req.Username,
		Name:     req.Name,
		Bio:      req.Bio,
		Avatar:   req.Avatar,
		Role:     req.Role,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(models.Message("User created successfully", user))
}
