package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"bloglist/internal/apperror"
	"bloglist/internal/middleware"
	"bloglist/internal/models"
	"bloglist/internal/services"
)

// BlogRequest is the body of POST and PUT /blogs. Omitted likes count as 0.
type BlogRequest struct {
	Title  string `json:"title" validate:"required"`
	Author string `json:"author"`
	URL    string `json:"url" validate:"required"`
	Likes  int    `json:"likes" validate:"gte=0"`
}

func (r BlogRequest) input() services.BlogInput {
	return services.BlogInput{Title: r.Title, Author: r.Author, URL: r.URL, Likes: r.Likes}
}

// BlogHandler handles HTTP requests for blogs.
type BlogHandler struct {
	service  *services.BlogService
	auth     fiber.Handler
	validate *validator.Validate
}

// NewBlogHandler creates a new BlogHandler. auth guards the routes that
// modify blogs.
func NewBlogHandler(service *services.BlogService, auth fiber.Handler) *BlogHandler {
	return &BlogHandler{
		service:  service,
		auth:     auth,
		validate: newValidator(),
	}
}

// RegisterRoutes registers the blog routes with the Fiber app.
func (h *BlogHandler) RegisterRoutes(router fiber.Router) {
	blogRoutes := router.Group("/blogs")
	blogRoutes.Get("/", h.HandleGetBlogs)
	blogRoutes.Get("/:id", h.HandleGetBlogByID)
	blogRoutes.Post("/", h.auth, h.HandleCreateBlog)
	blogRoutes.Put("/:id", h.auth, h.HandleUpdateBlog)
	blogRoutes.Delete("/:id", h.auth, h.HandleDeleteBlog)
}

// HandleGetBlogs lists all blogs with their owners.
func (h *BlogHandler) HandleGetBlogs(c *fiber.Ctx) error {
	blogs, err := h.service.GetAllBlogs(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(models.BlogViews(blogs))
}

// HandleGetBlogByID returns one blog, or 404 without a body.
func (h *BlogHandler) HandleGetBlogByID(c *fiber.Ctx) error {
	blog, err := h.service.GetBlogByID(c.UserContext(), c.Params("id"))
	if err != nil {
		if apperror.KindOf(err) == apperror.KindNotFound {
			return c.SendStatus(fiber.StatusNotFound)
		}
		return err
	}
	return c.JSON(blog.View())
}

// HandleCreateBlog creates a blog owned by the authenticated user.
func (h *BlogHandler) HandleCreateBlog(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}

	var req BlogRequest
	if err := parseAndValidate(c, h.validate, &req); err != nil {
		return err
	}

	blog, err := h.service.CreateBlog(c.UserContext(), user, req.input())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(blog.View())
}

// HandleUpdateBlog replaces the fields of a blog.
func (h *BlogHandler) HandleUpdateBlog(c *fiber.Ctx) error {
	var req BlogRequest
	if err := parseAndValidate(c, h.validate, &req); err != nil {
		return err
	}

	blog, err := h.service.UpdateBlog(c.UserContext(), c.Params("id"), req.input())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(blog.View())
}

// HandleDeleteBlog deletes a blog owned by the authenticated user.
func (h *BlogHandler) HandleDeleteBlog(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteBlog(c.UserContext(), user, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
