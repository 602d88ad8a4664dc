package repositories

import (
	"context"

	"bloglist/internal/models"
)

// BlogRepository defines the interface for blog data access. Blogs returned by
// GetAll and GetByID carry their owner in Blog.User.
type BlogRepository interface {
	GetAll(ctx context.Context) ([]models.Blog, error)
	GetByID(ctx context.Context, id string) (*models.Blog, error)
	Create(ctx context.Context, blog *models.Blog) error
	Update(ctx context.Context, blog *models.Blog) error
	Delete(ctx context.Context, id string) error
}
