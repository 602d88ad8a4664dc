package command

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"bloglist/internal/config"
	"bloglist/internal/repositories"
)

type (
	configKey struct{}
	loggerKey struct{}
)

func loadConfig(ctx context.Context) (*config.Config, *zap.Logger, error) {
	cfg, ok := ctx.Value(configKey{}).(*config.Config)
	if !ok {
		return nil, nil, errors.New("configuration not loaded")
	}
	log, ok := ctx.Value(loggerKey{}).(*zap.Logger)
	if !ok {
		log = zap.NewNop()
	}
	return cfg, log, nil
}

// store is the pair of repositories selected by STORAGE_DRIVER.
type store struct {
	users repositories.UserRepository
	blogs repositories.BlogRepository
	db    *gorm.DB
}

// openStore opens the configured storage and migrates its schema. The memory
// driver needs neither.
func openStore(cfg *config.Config, log *zap.Logger) (*store, error) {
	if cfg.StorageDriver == config.DriverMemory {
		users := repositories.NewMemoryUserRepository()
		return &store{users: users, blogs: repositories.NewMemoryBlogRepository(users)}, nil
	}

	db, err := repositories.OpenDatabase(cfg.StorageDriver, cfg.DatabaseDSN, log)
	if err != nil {
		return nil, err
	}
	if err := repositories.AutoMigrate(db); err != nil {
		return nil, errors.Join(err, closeDB(db))
	}
	return &store{
		users: repositories.NewGORMUserRepository(db),
		blogs: repositories.NewGORMBlogRepository(db),
		db:    db,
	}, nil
}

func (s *store) Close() error {
	if s.db == nil {
		return nil
	}
	return closeDB(s.db)
}

func closeDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database handle: %w", err)
	}
	return sqlDB.Close()
}
