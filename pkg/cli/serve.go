package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/secmon-lab/factbase/pkg/cli/config"
	httpctrl "github.com/secmon-lab/factbase/pkg/controller/http"
	"github.com/secmon-lab/factbase/pkg/usecase"
	"github.com/secmon-lab/factbase/pkg/utils/errutil"
	"github.com/secmon-lab/factbase/pkg/utils/logging"
	"github.com/secmon-lab/factbase/pkg/utils/safe"
)

const shutdownTimeout = 10 * time.Second

func cmdServe(version string) *cli.Command {
	var addr string
	var appCfg config.AppConfig
	var repoCfg config.Repository
	var sentryCfg config.Sentry

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("FACTBASE_ADDR"),
			Destination: &addr,
		},
	}

	// Add shared config flags
	flags = append(flags, appCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, sentryCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := appCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load configuration")
			}

			flush, err := sentryCfg.Configure(version)
			if err != nil {
				return err
			}
			defer flush()

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer safe.Close(ctx, repo, "repository")

			uc := usecase.New(repo)

			httpHandler, err := httpctrl.New(uc.Fact,
				httpctrl.WithServiceInfo(httpctrl.ServiceInfo{
					Name:        cfg.Service.Name,
					Description: cfg.Service.Description,
					Version:     version,
				}),
				httpctrl.WithSentry(sentryCfg.Enabled()),
				httpctrl.WithDebug(cfg.Service.Debug),
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create http server")
			}

			server := &http.Server{
				Addr:              addr,
				Handler:           httpHandler,
				ReadHeaderTimeout: 30 * time.Second,
			}

			if err := runServer(ctx, server); err != nil {
				return errutil.Handle(ctx, err, "HTTP server stopped with error")
			}
			return nil
		},
	}
}

// runServer serves until the listener fails or SIGINT/SIGTERM arrives,
// then shuts down gracefully.
func runServer(ctx context.Context, server *http.Server) error {
	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	eg, egCtx := errgroup.WithContext(sigCtx)

	eg.Go(func() error {
		logging.Default().Info("Starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return goerr.Wrap(err, "failed to start server", goerr.V("addr", server.Addr))
		}
		return nil
	})

	eg.Go(func() error {
		<-egCtx.Done()
		logging.Default().Info("Shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return goerr.Wrap(err, "failed to shutdown server gracefully")
		}

		logging.Default().Info("Server shutdown completed")
		return nil
	})

	return eg.Wait()
}
