package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Freeeeeet/timeslot_bot/internal/app"
	"github.com/Freeeeeet/timeslot_bot/internal/controller"
	"github.com/Freeeeeet/timeslot_bot/internal/service"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func newServeCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the bot (long polling)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := bootstrap(v)
			if err != nil {
				return err
			}
			defer logger.Sync()

			if cfg.TelegramToken == "" {
				return errors.New("TELEGRAM_TOKEN is required")
			}

			logger.Info("Starting booking bot",
				zap.String("environment", cfg.Environment),
				zap.String("storage", cfg.Storage),
				zap.Int("instructors", len(cfg.InstructorIDs)),
			)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			storage, err := app.OpenStorage(ctx, cfg, logger)
			if err != nil {
				return fmt.Errorf("open storage: %w", err)
			}
			defer storage.Close()

			delegateService := service.NewDelegateService(storage.Delegates, logger)
			preferenceService := service.NewPreferenceService(storage.Preferences, logger)
			timeslotService := service.NewTimeslotService(storage.Timeslots, logger,
				service.WithGrantStore(delegateService),
			)

			botController, err := controller.NewBotController(cfg, controller.Services{
				Timeslots:   timeslotService,
				Delegates:   delegateService,
				Preferences: preferenceService,
			}, logger)
			if err != nil {
				return fmt.Errorf("create bot: %w", err)
			}

			g, gctx := errgroup.WithContext(ctx)

			g.Go(func() error {
				// Меню команд не критично для работы бота
				if err := botController.SetCommands(gctx); err != nil {
					logger.Warn("Failed to set bot commands", zap.Error(err))
				}
				return nil
			})

			g.Go(func() error {
				botController.Start(gctx)
				return nil
			})

			err = g.Wait()
			logger.Info("Bot stopped")

			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
}
