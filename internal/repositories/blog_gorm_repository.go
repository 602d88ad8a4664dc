package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"bloglist/internal/models"
)

// GORMBlogRepository is a GORM implementation of BlogRepository. A blog's
// owner reference is the blogs.user_id foreign key, which also makes up the
// owner's list of blogs.
type GORMBlogRepository struct {
	db *gorm.DB
}

// NewGORMBlogRepository creates a new instance of GORMBlogRepository.
func NewGORMBlogRepository(db *gorm.DB) *GORMBlogRepository {
	return &GORMBlogRepository{
		db: db,
	}
}

// withOwner loads only the owner's public fields.
func withOwner(db *gorm.DB) *gorm.DB {
	return db.Preload("User", func(tx *gorm.DB) *gorm.DB {
		return tx.Select("id", "username", "name")
	})
}

// GetAll retrieves all blogs with their owners.
func (r *GORMBlogRepository) GetAll(ctx context.Context) ([]models.Blog, error) {
	var blogs []models.Blog
	if err := withOwner(r.db.WithContext(ctx)).Order("created_at").Find(&blogs).Error; err != nil {
		return nil, fmt.Errorf("failed to get all blogs: %w", err)
	}
	return blogs, nil
}

// GetByID retrieves a single blog by its ID.
func (r *GORMBlogRepository) GetByID(ctx context.Context, id string) (*models.Blog, error) {
	var blog models.Blog
	if err := withOwner(r.db.WithContext(ctx)).First(&blog, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("blog with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get blog by ID %s: %w", id, err)
	}
	return &blog, nil
}

// Create inserts a new blog. The owner must already exist.
func (r *GORMBlogRepository) Create(ctx context.Context, blog *models.Blog) error {
	if blog.ID == "" {
		blog.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Omit("User").Create(blog).Error; err != nil {
		return fmt.Errorf("failed to create blog: %w", err)
	}
	return nil
}

// Update replaces the title, author, url and likes of an existing blog.
func (r *GORMBlogRepository) Update(ctx context.Context, blog *models.Blog) error {
	// A map updates zero values too, so likes can be reset to 0.
	res := r.db.WithContext(ctx).Model(&models.Blog{}).Where("id = ?", blog.ID).
		Updates(map[string]any{
			"title":  blog.Title,
			"author": blog.Author,
			"url":    blog.URL,
			"likes":  blog.Likes,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update blog: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("blog with ID %s not found for update: %w", blog.ID, ErrNotFound)
	}
	return nil
}

// Delete deletes a blog by its ID.
func (r *GORMBlogRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Blog{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete blog: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("blog with ID %s not found for deletion: %w", id, ErrNotFound)
	}
	return nil
}
