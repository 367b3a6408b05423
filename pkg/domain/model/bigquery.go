package model

import (
	"log/slog"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/bqrun/pkg/domain/types"
)

// TableRef is a fully qualified BigQuery table. Its string form is "project.dataset.table".
type TableRef struct {
	Project types.GoogleProjectID `json:"project" bigquery:"project"`
	Dataset types.BQDatasetID     `json:"dataset" bigquery:"dataset"`
	Table   types.BQTableID       `json:"table" bigquery:"table"`
}

func NewTableRef(project types.GoogleProjectID, dataset types.BQDatasetID, table types.BQTableID) TableRef {
	return TableRef{Project: project, Dataset: dataset, Table: table}
}

func (x TableRef) String() string {
	return strings.Join([]string{x.Project.String(), x.Dataset.String(), x.Table.String()}, ".")
}

func (x TableRef) LogValue() slog.Value {
	return slog.StringValue(x.String())
}

// ParseTableRef parses "project.dataset.table". Domain scoped project IDs (example.com:project) are not supported.
func ParseTableRef(s string) (TableRef, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return TableRef{}, goerr.Wrap(types.ErrInvalidOption, "table reference must be project.dataset.table", goerr.V("ref", s))
	}
	for _, p := range parts {
		if p == "" {
			return TableRef{}, goerr.Wrap(types.ErrInvalidOption, "table reference has empty part", goerr.V("ref", s))
		}
	}

	return NewTableRef(
		types.GoogleProjectID(parts[0]),
		types.BQDatasetID(parts[1]),
		types.BQTableID(parts[2]),
	), nil
}

// QueryJob describes a finished BigQuery query job.
type QueryJob struct {
	ID       types.BQJobID    `json:"id" bigquery:"id"`
	Location types.BQLocation `json:"location" bigquery:"location"`
}

type JobLogConfig struct {
	dataset types.BQDatasetID
	table   types.BQTableID
}

func NewJobLogConfig(dataset types.BQDatasetID, table types.BQTableID) *JobLogConfig {
	return &JobLogConfig{dataset: dataset, table: table}
}
func (x *JobLogConfig) Dataset() types.BQDatasetID { return x.dataset }
func (x *JobLogConfig) Table() types.BQTableID     { return x.table }
