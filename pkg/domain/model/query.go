package model

import (
	"log/slog"
	"time"

	"github.com/secmon-lab/bqrun/pkg/domain/types"
)

// QuerySource is the Cloud Storage object holding SQL text.
type QuerySource struct {
	Bucket types.CSBucket   `json:"bucket" bigquery:"bucket"`
	Object types.CSObjectID `json:"object" bigquery:"object"`
}

func (x QuerySource) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("bucket", x.Bucket.String()),
		slog.String("object", x.Object.String()),
	)
}

// QueryTarget is the process-wide configuration of a run. Object is a default and may be overridden per request.
type QueryTarget struct {
	Project types.GoogleProjectID
	Dataset types.BQDatasetID
	Table   types.BQTableID
	Bucket  types.CSBucket
	Object  types.CSObjectID
}

func (x QueryTarget) Destination() TableRef {
	return NewTableRef(x.Project, x.Dataset, x.Table)
}

// Request builds a RunRequest. A non-empty object overrides the configured default.
func (x QueryTarget) Request(object types.CSObjectID) *RunRequest {
	if object == "" {
		object = x.Object
	}

	return &RunRequest{
		Source: QuerySource{
			Bucket: x.Bucket,
			Object: object,
		},
		Destination: x.Destination(),
	}
}

func (x QueryTarget) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("project", x.Project.String()),
		slog.String("dataset", x.Dataset.String()),
		slog.String("table", x.Table.String()),
		slog.String("bucket", x.Bucket.String()),
		slog.String("object", x.Object.String()),
	)
}

type RunRequest struct {
	Source      QuerySource
	Destination TableRef
}

type RunResult struct {
	RequestID types.RequestID
	Job       *QueryJob
}

// JobLog is a row of the job log table
type JobLog struct {
	ID          types.RequestID  `json:"id" bigquery:"id"`
	Source      QuerySource      `json:"source" bigquery:"source"`
	Destination TableRef         `json:"destination" bigquery:"destination"`
	JobID       types.BQJobID    `json:"job_id" bigquery:"job_id"`
	Location    types.BQLocation `json:"location" bigquery:"location"`
	QueryBytes  int              `json:"query_bytes" bigquery:"query_bytes"`
	StartedAt   time.Time        `json:"started_at" bigquery:"started_at"`
	FinishedAt  time.Time        `json:"finished_at" bigquery:"finished_at"`
	Success     bool             `json:"success" bigquery:"success"`
	ErrorKind   string           `json:"error_kind" bigquery:"error_kind"`
	Error       string           `json:"error" bigquery:"error"`
	AppVersion  string           `json:"app_version" bigquery:"app_version"`
}
