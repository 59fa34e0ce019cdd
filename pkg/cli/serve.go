package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gots/slice"
	"github.com/secmon-lab/codergate/pkg/cli/config"
	"github.com/secmon-lab/codergate/pkg/controller/server"
	"github.com/secmon-lab/codergate/pkg/infra"
	"github.com/secmon-lab/codergate/pkg/repository/memory"
	"github.com/secmon-lab/codergate/pkg/usecase"
	"github.com/secmon-lab/codergate/pkg/utils/logging"

	"github.com/urfave/cli/v3"
)

func serveCommand() *cli.Command {
	var (
		addr string

		githubApp   config.GitHubApp
		githubOAuth config.GitHubOAuth
		firestoreDB config.Firestore
		bigQuery    config.BigQuery
		sentry      config.Sentry
	)
	serveFlags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "Binding address",
			Value:       "127.0.0.1:8000",
			Sources:     cli.EnvVars("CODERGATE_ADDR"),
			Destination: &addr,
		},
	}

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Server mode",
		Flags: slice.Flatten(
			serveFlags,
			githubApp.Flags(),
			githubOAuth.Flags(),
			firestoreDB.Flags(),
			bigQuery.Flags(),
			sentry.Flags(),
		),
		Action: func(ctx context.Context, c *cli.Command) error {
			logging.Default().Info("starting serve",
				slog.Any("Addr", addr),
				slog.Any("GitHubApp", githubApp),
				slog.Any("GitHubOAuth", githubOAuth),
				slog.Any("Firestore", firestoreDB),
				slog.Any("BigQuery", bigQuery),
				slog.Any("Sentry", sentry),
			)

			if err := sentry.Configure(ctx); err != nil {
				return err
			}

			var infraOptions []infra.Option

			if firestoreDB.Enabled() {
				store, err := firestoreDB.NewClient(ctx)
				if err != nil {
					return err
				}
				infraOptions = append(infraOptions,
					infra.WithStore(store),
					infra.WithAnalysis(store),
				)
			} else {
				logging.Default().Warn("firestore is not configured, using in-memory store")
				store := memory.New()
				infraOptions = append(infraOptions,
					infra.WithStore(store),
					infra.WithAnalysis(store),
				)
			}

			if githubOAuth.Enabled() {
				exchanger, err := githubOAuth.NewClient()
				if err != nil {
					return err
				}
				infraOptions = append(infraOptions, infra.WithTokenExchanger(exchanger))
			}

			if bqClient, err := bigQuery.NewClient(ctx); err != nil {
				return err
			} else if bqClient != nil {
				infraOptions = append(infraOptions, infra.WithBigQuery(bqClient))
			}

			clients := infra.New(infraOptions...)

			uc := usecase.New(clients)
			s := server.New(uc, server.WithGitHubSecret(githubApp.Secret()))

			serverErr := make(chan error, 1)
			httpServer := &http.Server{
				Addr:    addr,
				Handler: s.Mux(),

				ReadHeaderTimeout: 10 * time.Second,
				ReadTimeout:       30 * time.Second,
				WriteTimeout:      30 * time.Second,
			}

			go func() {
				logging.Default().Info("starting http server", "addr", addr)
				if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
					serverErr <- goerr.Wrap(err, "failed to listen and serve")
				}
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-serverErr:
				return err

			case sig := <-quit:
				logging.Default().Info("shutting down server", "signal", sig)

				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				if err := httpServer.Shutdown(ctx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server")
				}
			}

			return nil
		},
	}
}
