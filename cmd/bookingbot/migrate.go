package main

import (
	"fmt"

	"github.com/Freeeeeet/timeslot_bot/internal/app"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func newMigrateCmd(v *viper.Viper) *cobra.Command {
	var down bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations (postgres storage)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := bootstrap(v)
			if err != nil {
				return err
			}
			defer logger.Sync()

			if cfg.DBDSN == "" {
				return fmt.Errorf("DB_DSN is required for migrate")
			}

			ctx := cmd.Context()

			pool, err := app.OpenPool(ctx, cfg.DBDSN)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator, err := app.NewMigrator(pool, logger)
			if err != nil {
				return err
			}
			defer migrator.Close()

			if down {
				return migrator.Down(ctx)
			}
			if err := migrator.Up(ctx); err != nil {
				logger.Error("Migration failed", zap.Error(err))
				return err
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&down, "down", false, "roll back the last migration")

	return cmd
}
