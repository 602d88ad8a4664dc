// Package command contains the CLI command constructors.
package command

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"bloglist/internal/config"
	"bloglist/internal/logger"
)

// RootCommand instantiates the root command, with all sub-commands bound.
func RootCommand() *cobra.Command {
	envFile := ".env"
	cmd := &cobra.Command{
		Use:          "bloglist [command] [flags]",
		Short:        "Blog list server and tools",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(envFile)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			log := logger.New(cfg.LogLevel)
			log.Debug("configuration loaded",
				zap.String("storage_driver", cfg.StorageDriver),
				zap.String("app_port", cfg.AppPort),
				zap.Bool("events", cfg.RabbitMQURL != ""),
				zap.Bool("stats_cache", cfg.RedisAddr != ""),
			)
			cmd.SetContext(context.WithValue(cmd.Context(), configKey{}, cfg))
			cmd.SetContext(context.WithValue(cmd.Context(), loggerKey{}, log))
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(
		&envFile,
		"env-file", "e",
		envFile,
		"path to an optional .env file",
	)

	cmd.AddCommand(
		serveCommand(),
		migrateCommand(),
		statsCommand(),
	)

	return cmd
}
