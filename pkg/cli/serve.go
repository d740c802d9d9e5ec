package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/drover/pkg/cli/config"
	githubctrl "github.com/m-mizutani/drover/pkg/controller/github"
	controller "github.com/m-mizutani/drover/pkg/controller/http"
	"github.com/m-mizutani/drover/pkg/domain/interfaces"
	fsinfra "github.com/m-mizutani/drover/pkg/infra/firestore"
	"github.com/m-mizutani/drover/pkg/infra/memory"
	slackinfra "github.com/m-mizutani/drover/pkg/infra/slack"
	storageinfra "github.com/m-mizutani/drover/pkg/infra/storage"
	"github.com/m-mizutani/drover/pkg/usecase"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var (
		serverCfg    config.Server
		githubCfg    config.GitHub
		mirrorCfg    config.Mirror
		sentryCfg    config.Sentry
		slackCfg     config.Slack
		firestoreCfg config.Firestore
		storageCfg   config.Storage
	)

	flags := serverCfg.Flags()
	flags = append(flags, githubCfg.WebhookFlags()...)
	flags = append(flags, githubCfg.AuthFlags()...)
	flags = append(flags, mirrorCfg.Flags()...)
	flags = append(flags, sentryCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)
	flags = append(flags, firestoreCfg.Flags()...)
	flags = append(flags, storageCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			logger.Info("Starting drover server",
				slog.String("addr", serverCfg.Addr),
			)

			if err := sentryCfg.Configure(); err != nil {
				return err
			}
			defer sentry.Flush(2 * time.Second)

			githubClient, err := githubCfg.NewClient()
			if err != nil {
				return err
			}

			policy, err := mirrorCfg.Policy()
			if err != nil {
				return err
			}

			loc, err := mirrorCfg.Location()
			if err != nil {
				return err
			}

			// Record store: Firestore when configured, otherwise
			// in-process only
			var store interfaces.MirrorRecordStore
			if firestoreCfg.Enabled() {
				fsStore, err := fsinfra.New(ctx, firestoreCfg.ProjectID, firestoreCfg.DatabaseID)
				if err != nil {
					return err
				}
				defer func() {
					if err := fsStore.Close(); err != nil {
						logger.Warn("Failed to close Firestore client", slog.Any("error", err))
					}
				}()
				store = fsStore
			} else {
				store = memory.New()
			}

			mirrorOpts := []usecase.MirrorOption{
				usecase.WithLocation(loc),
				usecase.WithRecordStore(store),
			}
			if slackCfg.Enabled() {
				mirrorOpts = append(mirrorOpts, usecase.WithNotifier(slackinfra.New(slackCfg.WebhookURL)))
			}
			mirrorUC := usecase.NewMirror(githubClient, mirrorOpts...)

			webhookOpts := []usecase.WebhookOption{
				usecase.WithPolicy(policy),
				usecase.WithDeliveryStore(store),
			}
			if storageCfg.Enabled() {
				archiver, err := storageinfra.New(ctx, storageCfg.Bucket)
				if err != nil {
					return err
				}
				defer func() {
					if err := archiver.Close(); err != nil {
						logger.Warn("Failed to close Cloud Storage client", slog.Any("error", err))
					}
				}()
				webhookOpts = append(webhookOpts, usecase.WithArchiver(archiver))
			}
			webhookUC := usecase.NewWebhook(mirrorUC, webhookOpts...)

			processor := githubctrl.NewEventProcessor(webhookUC)

			// Create HTTP server with options
			server, err := controller.NewServer(
				ctx,
				processor,
				controller.WithAddr(serverCfg.Addr),
				controller.WithWebhookSecret(githubCfg.WebhookSecret),
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			// Start server in goroutine
			go func() {
				logger.Info("HTTP server starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("HTTP server error", slog.Any("error", err))
				}
			}()

			// Wait for interrupt signal
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			select {
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			}

			// Graceful shutdown
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}
