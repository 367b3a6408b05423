package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/bqrun/pkg/domain/types"
	"github.com/secmon-lab/bqrun/pkg/infra/bq"
	"github.com/urfave/cli/v2"
)

type BigQuery struct {
	projectID types.GoogleProjectID
	location  types.BQLocation
}

func (x *BigQuery) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "bigquery-project-id",
			Usage:       "Google Cloud project ID for BigQuery, also the project of destination table",
			EnvVars:     []string{"BQRUN_BIGQUERY_PROJECT_ID", "GCP_PROJECT"},
			Destination: (*string)(&x.projectID),
		},
		&cli.StringFlag{
			Name:        "bigquery-location",
			Usage:       "Location to run query job (e.g. US, asia-northeast1). Detected by BigQuery if empty",
			EnvVars:     []string{"BQRUN_BIGQUERY_LOCATION"},
			Destination: (*string)(&x.location),
		},
	}
}

func (x *BigQuery) Configure(ctx context.Context) (*bq.Client, error) {
	if x.projectID == "" {
		return nil, goerr.Wrap(types.ErrInvalidOption, "bigquery-project-id is required")
	}

	var options []bq.Option
	if x.location != "" {
		options = append(options, bq.WithLocation(x.location))
	}

	return bq.New(ctx, x.projectID, options...)
}

func (x *BigQuery) ProjectID() types.GoogleProjectID {
	return x.projectID
}

func (x *BigQuery) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Any("projectID", x.projectID),
		slog.Any("location", x.location),
	)
}
