package repositories_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"bloglist/internal/models"
	"bloglist/internal/repositories"
)

type store struct {
	users repositories.UserRepository
	blogs repositories.BlogRepository
}

func stores(t *testing.T) map[string]func() store {
	t.Helper()
	return map[string]func() store{
		"memory": func() store {
			users := repositories.NewMemoryUserRepository()
			return store{users: users, blogs: repositories.NewMemoryBlogRepository(users)}
		},
		"sqlite": func() store {
			dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
			db, err := repositories.OpenDatabase("sqlite", dsn, zap.NewNop())
			require.NoError(t, err)
			require.NoError(t, repositories.AutoMigrate(db))
			return store{users: repositories.NewGORMUserRepository(db), blogs: repositories.NewGORMBlogRepository(db)}
		},
	}
}

func TestUserRepository(t *testing.T) {
	for name, newStore := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := newStore()

			user := &models.User{Username: "mluukkai", Name: "Matti Luukkainen", PasswordHash: "hash"}
			require.NoError(t, s.users.Create(ctx, user))
			assert.NotEmpty(t, user.ID)

			dup := &models.User{Username: "mluukkai", Name: "Someone Else", PasswordHash: "hash"}
			assert.ErrorIs(t, s.users.Create(ctx, dup), repositories.ErrDuplicate)

			found, err := s.users.GetByUsername(ctx, "mluukkai")
			require.NoError(t, err)
			assert.Equal(t, user.ID, found.ID)
			assert.Equal(t, "hash", found.PasswordHash)

			_, err = s.users.GetByID(ctx, uuid.NewString())
			assert.ErrorIs(t, err, repositories.ErrNotFound)

			_, err = s.users.GetByUsername(ctx, "nobody")
			assert.ErrorIs(t, err, repositories.ErrNotFound)
		})
	}
}

func TestBlogRepository(t *testing.T) {
	for name, newStore := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := newStore()

			owner := &models.User{Username: "root", Name: "Superuser", PasswordHash: "hash"}
			require.NoError(t, s.users.Create(ctx, owner))

			blog := &models.Blog{Title: "React patterns", Author: "Michael Chan", URL: "https://reactpatterns.com/", Likes: 7, UserID: owner.ID}
			require.NoError(t, s.blogs.Create(ctx, blog))
			assert.NotEmpty(t, blog.ID)

			all, err := s.blogs.GetAll(ctx)
			require.NoError(t, err)
			require.Len(t, all, 1)
			require.NotNil(t, all[0].User)
			assert.Equal(t, "root", all[0].User.Username)
			assert.Equal(t, "Superuser", all[0].User.Name)
			assert.Empty(t, all[0].User.PasswordHash)

			users, err := s.users.GetAll(ctx)
			require.NoError(t, err)
			require.Len(t, users, 1)
			require.Len(t, users[0].Blogs, 1)
			assert.Equal(t, blog.ID, users[0].Blogs[0].ID)

			blog.Likes = 0
			blog.Title = "React patterns, 2nd edition"
			require.NoError(t, s.blogs.Update(ctx, blog))
			updated, err := s.blogs.GetByID(ctx, blog.ID)
			require.NoError(t, err)
			assert.Equal(t, 0, updated.Likes)
			assert.Equal(t, "React patterns, 2nd edition", updated.Title)
			assert.Equal(t, owner.ID, updated.UserID)

			missing := &models.Blog{ID: uuid.NewString(), Title: "t", URL: "u"}
			assert.ErrorIs(t, s.blogs.Update(ctx, missing), repositories.ErrNotFound)

			require.NoError(t, s.blogs.Delete(ctx, blog.ID))
			_, err = s.blogs.GetByID(ctx, blog.ID)
			assert.ErrorIs(t, err, repositories.ErrNotFound)
			assert.ErrorIs(t, s.blogs.Delete(ctx, blog.ID), repositories.ErrNotFound)

			users, err = s.users.GetAll(ctx)
			require.NoError(t, err)
			assert.Empty(t, users[0].Blogs)
		})
	}
}

func TestOpenDatabaseLogsThroughZap(t *testing.T) {
	ctx := context.Background()
	core, logs := observer.New(zapcore.DebugLevel)
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := repositories.OpenDatabase("sqlite", dsn, zap.New(core))
	require.NoError(t, err)
	require.NoError(t, repositories.AutoMigrate(db))
	logs.TakeAll()

	users := repositories.NewGORMUserRepository(db)
	blogs := repositories.NewGORMBlogRepository(db)
	_, err = users.GetByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	_, err = blogs.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	gormLogs := logs.Filter(func(e observer.LoggedEntry) bool { return e.LoggerName == "gorm" })
	assert.Zero(t, gormLogs.Len(), "lookups of missing records are not logged")

	require.Error(t, db.Exec("SELECT * FROM no_such_table").Error)
	gormLogs = logs.Filter(func(e observer.LoggedEntry) bool { return e.LoggerName == "gorm" })
	require.Equal(t, 1, gormLogs.Len())
	assert.Equal(t, zapcore.WarnLevel, gormLogs.All()[0].Level)
	assert.Contains(t, gormLogs.All()[0].Message, "no_such_table")
}
