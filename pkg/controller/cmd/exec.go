package cmd

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/bqrun/pkg/controller/cmd/config"
	"github.com/secmon-lab/bqrun/pkg/domain/interfaces"
	"github.com/secmon-lab/bqrun/pkg/domain/model"
	"github.com/secmon-lab/bqrun/pkg/domain/types"
	"github.com/secmon-lab/bqrun/pkg/infra"
	"github.com/secmon-lab/bqrun/pkg/infra/cs"
	"github.com/secmon-lab/bqrun/pkg/infra/dump"
	"github.com/secmon-lab/bqrun/pkg/usecase"
	"github.com/secmon-lab/bqrun/pkg/utils"
	"github.com/urfave/cli/v2"
)

func execCommand() *cli.Command {
	var (
		url         types.CSUrl
		destination string
		dumpDir     string

		bq     config.BigQuery
		query  config.Query
		jobLog config.JobLog
	)

	return &cli.Command{
		Name:    "exec",
		Aliases: []string{"x"},
		Usage:   "Run SQL file once without HTTP server",
		Flags: mergeFlags([]cli.Flag{
			&cli.StringFlag{
				Name:        "url",
				Aliases:     []string{"u"},
				Usage:       "Cloud Storage URL of SQL file (gs://bucket/object). Overrides --bucket and --object",
				EnvVars:     []string{"BQRUN_URL"},
				Destination: (*string)(&url),
			},
			&cli.StringFlag{
				Name:        "destination",
				Usage:       "Destination table (project.dataset.table). Overrides --bigquery-project-id, --dataset-id and --table-id",
				EnvVars:     []string{"BQRUN_DESTINATION"},
				Destination: &destination,
			},
			&cli.StringFlag{
				Name:        "dump-dir",
				Aliases:     []string{"d"},
				Usage:       "Dry run mode. Write SQL and job log into the directory instead of BigQuery",
				EnvVars:     []string{"BQRUN_DUMP_DIR"},
				Destination: &dumpDir,
			},
		}, bq.Flags(), query.Flags(), jobLog.Flags()),

		Action: func(c *cli.Context) error {
			ctx := c.Context

			var bqClient interfaces.BigQuery
			if dumpDir != "" {
				utils.Logger().Info("dry run mode", "dump-dir", dumpDir)
				bqClient = dump.New(dumpDir)
			} else {
				client, err := bq.Configure(ctx)
				if err != nil {
					return goerr.Wrap(err, "failed to configure BigQuery client")
				}
				defer utils.SafeClose(client)
				bqClient = client
			}

			csClient, err := cs.New(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure CloudStorage client")
			}
			defer utils.SafeClose(csClient)

			var ucOptions []usecase.Option
			if cfg, err := jobLog.Configure(); err != nil {
				return goerr.Wrap(err, "failed to configure job log")
			} else if cfg != nil {
				ucOptions = append(ucOptions, usecase.WithJobLog(cfg))
			}

			uc := usecase.New(
				infra.New(
					infra.WithCloudStorage(csClient),
					infra.WithBigQuery(bqClient),
				),
				ucOptions...,
			)

			target := query.Configure(bq.ProjectID())
			if url != "" {
				bucket, object, err := url.Parse()
				if err != nil {
					return err
				}
				target.Bucket = bucket
				target.Object = object
			}
			if destination != "" {
				dst, err := model.ParseTableRef(destination)
				if err != nil {
					return err
				}
				target.Project = dst.Project
				target.Dataset = dst.Dataset
				target.Table = dst.Table
			}

			result, err := uc.RunQuery(ctx, target.Request(""))
			if err != nil {
				return goerr.Wrap(err, "failed to run query", goerr.V("target", target))
			}

			utils.Logger().Info("Query executed successfully.",
				slog.String("request_id", result.RequestID.String()),
				slog.String("job_id", result.Job.ID.String()),
				slog.Any("dst", target.Destination()),
			)

			return nil
		},
	}
}
