package cmd

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"teebot/internal/app"
	"teebot/internal/config"
	"teebot/pkg/log"
)

// serveCmd represents the serve command.
func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Starts the teebot service",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			conf, errConfig := config.Read(cfgFile)
			if errConfig != nil {
				return errConfig
			}

			logCloser := log.MustCreateLogger(ctx, conf.Log.File, conf.Log.Level,
				conf.Log.SentryDSN != "", app.BuildVersion)
			defer logCloser()

			if conf.Log.SentryDSN != "" {
				if _, errSentry := log.NewSentryClient(conf.Log.SentryDSN, app.BuildVersion, "release"); errSentry != nil {
					slog.Error("Failed to initialize sentry", log.ErrAttr(errSentry))
				}
			}

			application, errApp := app.New(conf)
			if errApp != nil {
				slog.Error("Failed to create application", log.ErrAttr(errApp))

				return errApp
			}

			if errServe := application.Start(ctx); errServe != nil && !errors.Is(errServe, context.Canceled) {
				slog.Error("Service returned error", log.ErrAttr(errServe))

				return errServe
			}

			slog.Info("Shutting down")

			return nil
		},
	}
}
