package config

import (
	"log/slog"

	"github.com/secmon-lab/bqrun/pkg/domain/model"
	"github.com/secmon-lab/bqrun/pkg/domain/types"
	"github.com/urfave/cli/v2"
)

// Query is the source and destination of a run. Empty values are not rejected here and surface as a failure of Cloud Storage or BigQuery.
type Query struct {
	dataset types.BQDatasetID
	table   types.BQTableID
	bucket  types.CSBucket
	object  types.CSObjectID
}

func (x *Query) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Category:    "Query",
			Name:        "dataset-id",
			Usage:       "BigQuery dataset ID of destination table",
			EnvVars:     []string{"BQRUN_DATASET_ID", "DATASET_ID"},
			Destination: (*string)(&x.dataset),
		},
		&cli.StringFlag{
			Category:    "Query",
			Name:        "table-id",
			Usage:       "BigQuery table ID of destination table",
			EnvVars:     []string{"BQRUN_TABLE_ID", "TABLE_ID"},
			Destination: (*string)(&x.table),
		},
		&cli.StringFlag{
			Category:    "Query",
			Name:        "bucket",
			Usage:       "Cloud Storage bucket of SQL files",
			EnvVars:     []string{"BQRUN_BUCKET_NAME", "BUCKET_NAME"},
			Destination: (*string)(&x.bucket),
		},
		&cli.StringFlag{
			Category:    "Query",
			Name:        "object",
			Usage:       "Default object name of SQL file, used if file_name is not given",
			EnvVars:     []string{"BQRUN_FILE_NAME", "FILE_NAME"},
			Destination: (*string)(&x.object),
		},
	}
}

func (x *Query) Configure(projectID types.GoogleProjectID) model.QueryTarget {
	return model.QueryTarget{
		Project: projectID,
		Dataset: x.dataset,
		Table:   x.table,
		Bucket:  x.bucket,
		Object:  x.object,
	}
}

func (x *Query) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("dataset", x.dataset.String()),
		slog.String("table", x.table.String()),
		slog.String("bucket", x.bucket.String()),
		slog.String("object", x.object.String()),
	)
}
