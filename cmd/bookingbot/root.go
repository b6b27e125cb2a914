package main

import (
	"github.com/Freeeeeet/timeslot_bot/internal/app"
	"github.com/Freeeeeet/timeslot_bot/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func newRootCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:           "bookingbot",
		Short:         "Telegram bot for booking instructor timeslots",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	flags := cmd.PersistentFlags()
	flags.String("env", "", "environment: development or production (ENV)")
	flags.String("storage", "", "storage backend: file or postgres (STORAGE)")
	flags.String("data-dir", "", "directory with JSON files for file storage (DATA_DIR)")
	flags.String("db-dsn", "", "postgres connection string (DB_DSN)")

	_ = v.BindPFlag("ENV", flags.Lookup("env"))
	_ = v.BindPFlag("STORAGE", flags.Lookup("storage"))
	_ = v.BindPFlag("DATA_DIR", flags.Lookup("data-dir"))
	_ = v.BindPFlag("DB_DSN", flags.Lookup("db-dsn"))

	cmd.AddCommand(newServeCmd(v), newMigrateCmd(v))

	return cmd
}

// bootstrap общая часть подкоманд: конфиг и логгер
func bootstrap(v *viper.Viper) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(v)
	if err != nil {
		return nil, nil, err
	}

	logger, err := app.NewLogger(cfg.Environment)
	if err != nil {
		return nil, nil, err
	}

	return cfg, logger, nil
}
