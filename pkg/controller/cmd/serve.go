package cmd

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/bqrun/pkg/controller/cmd/config"
	"github.com/secmon-lab/bqrun/pkg/controller/server"
	"github.com/secmon-lab/bqrun/pkg/infra"
	"github.com/secmon-lab/bqrun/pkg/infra/cs"
	"github.com/secmon-lab/bqrun/pkg/usecase"
	"github.com/secmon-lab/bqrun/pkg/utils"
	"github.com/urfave/cli/v2"
)

const shutdownTimeout = 30 * time.Second

func serveCommand() *cli.Command {
	var (
		addr        string
		memoryLimit string

		bq     config.BigQuery
		query  config.Query
		jobLog config.JobLog
		policy config.Policy
		sentry config.Sentry
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Start bqrun HTTP server",
		Flags: mergeFlags([]cli.Flag{
			&cli.StringFlag{
				Name:        "addr",
				Aliases:     []string{"a"},
				EnvVars:     []string{"BQRUN_ADDR"},
				Usage:       "Address to listen. If not set and PORT is set, listen on :$PORT",
				Destination: &addr,
				Value:       "localhost:8080",
			},
			&cli.StringFlag{
				Name:        "memory-limit",
				EnvVars:     []string{"BQRUN_MEMORY_LIMIT"},
				Usage:       "Heap memory limit. If it exceeds the limit, the server returns 429 too many requests error. (e.g. 1GiB)",
				Destination: &memoryLimit,
			},
		}, bq.Flags(), query.Flags(), jobLog.Flags(), policy.Flags(), sentry.Flags()),
		Action: func(c *cli.Context) error {
			ctx := c.Context

			// Cloud Run and Cloud Functions give the port by PORT
			if port, ok := os.LookupEnv("PORT"); ok && !c.IsSet("addr") {
				addr = ":" + port
			}

			utils.Logger().Info("starting server",
				slog.Group("config",
					"addr", addr,
					"memory-limit", memoryLimit,

					"bigquery", &bq,
					"query", &query,
					"job-log", &jobLog,
					"policy", &policy,
					"sentry", &sentry,
				),
			)

			if err := sentry.Configure(); err != nil {
				return goerr.Wrap(err, "failed to configure sentry")
			}

			var infraOptions []infra.Option

			policyClient, err := policy.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure policy client")
			}
			if policyClient != nil {
				infraOptions = append(infraOptions, infra.WithPolicy(policyClient))
			} else {
				utils.Logger().Warn("authorization policy is not configured, all requests are allowed")
			}

			bqClient, err := bq.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure BigQuery client")
			}
			defer utils.SafeClose(bqClient)
			infraOptions = append(infraOptions, infra.WithBigQuery(bqClient))

			csClient, err := cs.New(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure CloudStorage client")
			}
			defer utils.SafeClose(csClient)
			infraOptions = append(infraOptions, infra.WithCloudStorage(csClient))

			var ucOptions []usecase.Option
			if cfg, err := jobLog.Configure(); err != nil {
				return goerr.Wrap(err, "failed to configure job log")
			} else if cfg != nil {
				ucOptions = append(ucOptions, usecase.WithJobLog(cfg))
			}

			uc := usecase.New(infra.New(infraOptions...), ucOptions...)

			var serverOptions []server.Option
			if memoryLimit != "" {
				limit, err := humanize.ParseBytes(memoryLimit)
				if err != nil {
					return goerr.Wrap(err, "invalid memory limit option", goerr.V("memory-limit", memoryLimit))
				}
				serverOptions = append(serverOptions, server.WithMemoryLimit(limit))
			}

			srv := server.New(uc, query.Configure(bq.ProjectID()), serverOptions...)

			httpServer := &http.Server{
				Addr:              addr,
				ReadHeaderTimeout: 3 * time.Second,
				Handler:           srv,
			}

			errCh := make(chan error, 1)
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

			go func() {
				defer close(errCh)
				utils.Logger().Info("listening", "addr", addr)
				if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to listen")
				}
			}()

			select {
			case sig := <-sigCh:
				utils.Logger().Info("received signal and shutting down", "signal", sig)
				// Running query jobs are waited until shutdownTimeout
				ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				if err := httpServer.Shutdown(ctx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server")
				}

			case err := <-errCh:
				return err
			}

			return nil
		},
	}
}
