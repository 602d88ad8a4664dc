package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"bloglist/internal/models"
	"bloglist/internal/services"
)

// RegisterRequest is the body of POST /users. The password is checked here,
// in plain text, because only its hash is stored.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=100"`
	Name     string `json:"name" validate:"max=255"`
	Password string `json:"password" validate:"required,min=3,max=72"`
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is returned on successful login.
type LoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

// UserHandler handles registration, login and the user listing.
type UserHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(authService *services.AuthService) *UserHandler {
	return &UserHandler{
		authService: authService,
		validate:    newValidator(),
	}
}

// RegisterRoutes registers the user and login routes with the Fiber app.
func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	userRoutes := router.Group("/users")
	userRoutes.Get("/", h.HandleGetUsers)
	userRoutes.Post("/", h.HandleRegister)
	router.Post("/login", h.HandleLogin)
}

// HandleRegister handles new user registration.
func (h *UserHandler) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := parseAndValidate(c, h.validate, &req); err != nil {
		return err
	}

	user, err := h.authService.RegisterUser(c.UserContext(), req.Username, req.Name, req.Password)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(user.View())
}

// HandleGetUsers lists all users with their blogs.
func (h *UserHandler) HandleGetUsers(c *fiber.Ctx) error {
	users, err := h.authService.ListUsers(c.UserContext())
	if err != nil {
		return err
	}
	views := make([]models.UserView, 0, len(users))
	for i := range users {
		views = append(views, users[i].View())
	}
	return c.JSON(views)
}

// HandleLogin handles user login and issues a JWT token.
func (h *UserHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := parseAndValidate(c, h.validate, &req); err != nil {
		return err
	}

	token, user, err := h.authService.LoginUser(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(LoginResponse{Token: token, Username: user.Username, Name: user.Name})
}
