package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/bqrun/pkg/domain/model"
	"github.com/secmon-lab/bqrun/pkg/domain/types"
	"github.com/urfave/cli/v2"
)

type JobLog struct {
	dataset types.BQDatasetID
	table   types.BQTableID
}

func (x *JobLog) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "job-log-dataset-id",
			Usage:       "BigQuery dataset ID for job log",
			EnvVars:     []string{"BQRUN_JOB_LOG_DATASET_ID"},
			Destination: (*string)(&x.dataset),
		},
		&cli.StringFlag{
			Name:        "job-log-table-id",
			Usage:       "BigQuery table ID for job log",
			EnvVars:     []string{"BQRUN_JOB_LOG_TABLE_ID"},
			Destination: (*string)(&x.table),
		},
	}
}

// Configure returns nil if job log is not configured.
func (x *JobLog) Configure() (*model.JobLogConfig, error) {
	if x.dataset == "" && x.table == "" {
		return nil, nil
	}
	if x.dataset == "" {
		return nil, goerr.Wrap(types.ErrInvalidOption, "job-log-dataset-id is required")
	}
	if x.table == "" {
		return nil, goerr.Wrap(types.ErrInvalidOption, "job-log-table-id is required")
	}

	return model.NewJobLogConfig(x.dataset, x.table), nil
}

func (x *JobLog) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("dataset", string(x.dataset)),
		slog.String("table", string(x.table)),
	)
}
