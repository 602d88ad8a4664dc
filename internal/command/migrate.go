package command

import (
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"bloglist/internal/config"
	"bloglist/internal/repositories"
)

func migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (runErr error) {
			cfg, log, err := loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			if cfg.StorageDriver == config.DriverMemory {
				return errors.New("the memory driver has no schema to migrate")
			}

			db, err := repositories.OpenDatabase(cfg.StorageDriver, cfg.DatabaseDSN, log)
			if err != nil {
				return err
			}
			defer func() {
				runErr = errors.Join(runErr, closeDB(db))
			}()

			if err := repositories.AutoMigrate(db); err != nil {
				return err
			}
			log.Info("schema migrated", zap.String("driver", cfg.StorageDriver))
			return nil
		},
	}
}
