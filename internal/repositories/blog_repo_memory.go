package repositories

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"bloglist/internal/models"
)

// MemoryBlogRepository is an in-memory implementation of BlogRepository.
type MemoryBlogRepository struct {
	blogs map[string]models.Blog
	order []string
	mu    sync.RWMutex

	users *MemoryUserRepository
}

// NewMemoryBlogRepository creates a new instance of MemoryBlogRepository
// whose blogs are owned by users stored in users.
func NewMemoryBlogRepository(users *MemoryUserRepository) *MemoryBlogRepository {
	r := &MemoryBlogRepository{
		blogs: make(map[string]models.Blog),
		users: users,
	}
	users.blogs = r
	return r
}

// GetAll returns all blogs in creation order.
func (r *MemoryBlogRepository) GetAll(ctx context.Context) ([]models.Blog, error) {
	r.mu.RLock()
	blogs := make([]models.Blog, 0, len(r.order))
	for _, id := range r.order {
		blogs = append(blogs, r.blogs[id])
	}
	r.mu.RUnlock()

	for i := range blogs {
		r.attachOwner(ctx, &blogs[i])
	}
	return blogs, nil
}

// GetByID returns a blog by its ID.
func (r *MemoryBlogRepository) GetByID(ctx context.Context, id string) (*models.Blog, error) {
	r.mu.RLock()
	blog, ok := r.blogs[id]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("blog with ID %s: %w", id, ErrNotFound)
	}
	r.attachOwner(ctx, &blog)
	return &blog, nil
}

// Create adds a new blog.
func (r *MemoryBlogRepository) Create(ctx context.Context, blog *models.Blog) error {
	if _, err := r.users.GetByID(ctx, blog.UserID); err != nil {
		return fmt.Errorf("failed to create blog: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if blog.ID == "" {
		blog.ID = uuid.New().String()
	}
	now := time.Now()
	blog.CreatedAt = now
	blog.UpdatedAt = now

	stored := *blog
	stored.User = nil
	r.blogs[blog.ID] = stored
	r.order = append(r.order, blog.ID)
	return nil
}

// Update replaces the title, author, url and likes of an existing blog.
func (r *MemoryBlogRepository) Update(_ context.Context, blog *models.Blog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.blogs[blog.ID]
	if !ok {
		return fmt.Errorf("blog with ID %s not found for update: %w", blog.ID, ErrNotFound)
	}
	stored.Title = blog.Title
	stored.Author = blog.Author
	stored.URL = blog.URL
	stored.Likes = blog.Likes
	stored.UpdatedAt = time.Now()
	r.blogs[blog.ID] = stored
	return nil
}

// Delete removes a blog by its ID.
func (r *MemoryBlogRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.blogs[id]; !ok {
		return fmt.Errorf("blog with ID %s not found for deletion: %w", id, ErrNotFound)
	}
	delete(r.blogs, id)
	r.order = slices.DeleteFunc(r.order, func(v string) bool { return v == id })
	return nil
}

func (r *MemoryBlogRepository) attachOwner(ctx context.Context, blog *models.Blog) {
	owner, err := r.users.GetByID(ctx, blog.UserID)
	if err != nil {
		return
	}
	blog.User = &models.User{ID: owner.ID, Username: owner.Username, Name: owner.Name}
}

func (r *MemoryBlogRepository) ownedBy(userID string) []models.Blog {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var owned []models.Blog
	for _, id := range r.order {
		if b := r.blogs[id]; b.UserID == userID {
			owned = append(owned, b)
		}
	}
	return owned
}
