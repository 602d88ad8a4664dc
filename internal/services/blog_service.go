package services

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"bloglist/internal/apperror"
	"bloglist/internal/metrics"
	"bloglist/internal/models"
	"bloglist/internal/repositories"
)

var errBlogNotFound = apperror.NotFound("blog not found")

// BlogInput carries the client-supplied fields of a blog.
type BlogInput struct {
	Title  string
	Author string
	URL    string
	Likes  int
}

// BlogService handles business logic related to blogs.
type BlogService struct {
	repo    repositories.BlogRepository
	events  EventPublisher
	cache   StatsCache
	metrics *metrics.Metrics
	log     *zap.Logger
}

// NewBlogService creates a new BlogService. events and cache may be nil.
func NewBlogService(repo repositories.BlogRepository, events EventPublisher, cache StatsCache, m *metrics.Metrics, log *zap.Logger) *BlogService {
	return &BlogService{
		repo:    repo,
		events:  events,
		cache:   cache,
		metrics: m,
		log:     log,
	}
}

// GetAllBlogs retrieves all blogs with their owners.
func (s *BlogService) GetAllBlogs(ctx context.Context) ([]models.Blog, error) {
	blogs, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, apperror.Internal("failed to list blogs", err)
	}
	return blogs, nil
}

// GetBlogByID retrieves a single blog by its ID.
func (s *BlogService) GetBlogByID(ctx context.Context, id string) (*models.Blog, error) {
	blog, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, errBlogNotFound.Wrap(err)
		}
		return nil, apperror.Internal("failed to get blog", err)
	}
	return blog, nil
}

// CreateBlog stores a new blog owned by owner. The owner is always the
// authenticated caller, never client input.
func (s *BlogService) CreateBlog(ctx context.Context, owner *models.User, input BlogInput) (*models.Blog, error) {
	blog := &models.Blog{
		Title:  input.Title,
		Author: input.Author,
		URL:    input.URL,
		Likes:  input.Likes,
		UserID: owner.ID,
	}
	if err := s.repo.Create(ctx, blog); err != nil {
		return nil, apperror.Internal("failed to create blog", err)
	}
	blog.User = &models.User{ID: owner.ID, Username: owner.Username, Name: owner.Name}

	s.metrics.BlogsCreated.Inc()
	s.changed(ctx, models.BlogCreated, blog.ID, owner.ID)
	return blog, nil
}

// UpdateBlog replaces the title, author, url and likes of a blog.
func (s *BlogService) UpdateBlog(ctx context.Context, id string, input BlogInput) (*models.Blog, error) {
	blog := &models.Blog{
		ID:     id,
		Title:  input.Title,
		Author: input.Author,
		URL:    input.URL,
		Likes:  input.Likes,
	}
	if err := s.repo.Update(ctx, blog); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, errBlogNotFound.Wrap(err)
		}
		return nil, apperror.Internal("failed to update blog", err)
	}

	updated, err := s.GetBlogByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.changed(ctx, models.BlogUpdated, id, updated.UserID)
	return updated, nil
}

// DeleteBlog removes a blog owned by requester. Deleting an unknown blog
// succeeds; deleting a blog owned by someone else is forbidden.
func (s *BlogService) DeleteBlog(ctx context.Context, requester *models.User, id string) error {
	blog, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil
		}
		return apperror.Internal("failed to get blog", err)
	}
	if blog.UserID != requester.ID {
		return apperror.Forbidden("only the creator can delete a blog")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil
		}
		return apperror.Internal("failed to delete blog", err)
	}

	s.metrics.BlogsDeleted.Inc()
	s.changed(ctx, models.BlogDeleted, id, requester.ID)
	return nil
}

// changed drops cached statistics and announces the change. Neither step can
// fail the request that caused it.
func (s *BlogService) changed(ctx context.Context, eventType, blogID, userID string) {
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.log.Warn("failed to invalidate stats cache", zap.Error(err))
		}
	}

	if s.events == nil {
		return
	}
	event := models.BlogEvent{Type: eventType, BlogID: blogID, UserID: userID, At: time.Now().UTC()}
	if err := s.events.PublishBlogEvent(ctx, event); err != nil {
		s.log.Warn("failed to publish blog event",
			zap.String("type", eventType),
			zap.String("blog_id", blogID),
			zap.Error(err),
		)
	}
}
