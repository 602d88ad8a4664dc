package repositories

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"bloglist/internal/models"
)

// MemoryUserRepository is an in-memory implementation of UserRepository.
type MemoryUserRepository struct {
	users map[string]models.User
	order []string
	mu    sync.RWMutex

	blogs *MemoryBlogRepository
}

// NewMemoryUserRepository creates a new instance of MemoryUserRepository.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users: make(map[string]models.User),
	}
}

// Create adds a new user. Usernames are unique.
func (r *MemoryUserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Username == user.Username {
			return fmt.Errorf("username %s already taken: %w", user.Username, ErrDuplicate)
		}
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	stored := *user
	stored.Blogs = nil
	r.users[user.ID] = stored
	r.order = append(r.order, user.ID)
	return nil
}

// GetAll returns all users with the blogs they own.
func (r *MemoryUserRepository) GetAll(ctx context.Context) ([]models.User, error) {
	r.mu.RLock()
	users := make([]models.User, 0, len(r.order))
	for _, id := range r.order {
		users = append(users, r.users[id])
	}
	r.mu.RUnlock()

	if r.blogs == nil {
		return users, nil
	}
	for i := range users {
		users[i].Blogs = r.blogs.ownedBy(users[i].ID)
	}
	return users, nil
}

// GetByUsername returns a user by username.
func (r *MemoryUserRepository) GetByUsername(_ context.Context, username string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", username, ErrNotFound)
}

// GetByID returns a user by ID.
func (r *MemoryUserRepository) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	return &user, nil
}
