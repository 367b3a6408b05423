package usecase

import (
	"context"
	"net/http"

	"cloud.google.com/go/bigquery"
	"github.com/m-mizutani/bqs"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/bqrun/pkg/domain/interfaces"
	"github.com/secmon-lab/bqrun/pkg/domain/model"
	"github.com/secmon-lab/bqrun/pkg/domain/types"
	"github.com/secmon-lab/bqrun/pkg/infra/apierr"
	"github.com/secmon-lab/bqrun/pkg/utils"
)

// maxTableSetupAttempts bounds re-reading metadata when another process creates or updates the table at the same time.
const maxTableSetupAttempts = 3

func createOrUpdateTable(ctx context.Context, bq interfaces.BigQuery, datasetID types.BQDatasetID, tableID types.BQTableID, md *bigquery.TableMetadata) (bigquery.Schema, error) {
	for attempt := 1; ; attempt++ {
		schema, changed, err := applyTableSchema(ctx, bq, datasetID, tableID, md)
		if err != nil {
			return nil, err
		}
		if !changed {
			return schema, nil
		}

		if attempt >= maxTableSetupAttempts {
			return nil, goerr.New("table keeps being changed by others",
				goerr.V("datasetID", datasetID),
				goerr.V("tableID", tableID),
				goerr.V("attempts", attempt),
			)
		}
		utils.CtxLogger(ctx).Info("table was changed by others, re-reading metadata",
			"datasetID", datasetID,
			"tableID", tableID,
			"attempt", attempt,
		)
	}
}

// applyTableSchema creates the table or merges md.Schema into it. changed is true if a concurrent create (409) or update (412) won the race, and metadata must be read again.
func applyTableSchema(ctx context.Context, bq interfaces.BigQuery, datasetID types.BQDatasetID, tableID types.BQTableID, md *bigquery.TableMetadata) (schema bigquery.Schema, changed bool, err error) {
	old, err := bq.GetMetadata(ctx, datasetID, tableID)
	if err != nil {
		return nil, false, goerr.Wrap(err, "Failed to get metadata", goerr.V("datasetID", datasetID), goerr.V("tableID", tableID))
	}

	if old == nil {
		utils.CtxLogger(ctx).Info("creating new table", "datasetID", datasetID, "tableID", tableID)
		if err := bq.CreateTable(ctx, datasetID, tableID, md); err != nil {
			if apierr.HasHTTPCode(err, http.StatusConflict) {
				return nil, true, nil
			}
			return nil, false, goerr.Wrap(err, "Failed to create table", goerr.V("datasetID", datasetID), goerr.V("tableID", tableID))
		}
		return md.Schema, false, nil
	}

	merged, err := bqs.Merge(old.Schema, md.Schema)
	if err != nil {
		return nil, false, goerr.Wrap(err, "Failed to merge schema", goerr.V("old", old.Schema), goerr.V("new", md.Schema))
	}

	// If schema is not changed, do nothing
	if bqs.Equal(old.Schema, merged) {
		return merged, false, nil
	}

	update := bigquery.TableMetadataToUpdate{
		Schema: merged,
	}
	utils.CtxLogger(ctx).Info("updating table schema", "datasetID", datasetID, "tableID", tableID)

	if err := bq.UpdateTable(ctx, datasetID, tableID, update, old.ETag); err != nil {
		if apierr.HasHTTPCode(err, http.StatusPreconditionFailed) {
			return nil, true, nil
		}
		return nil, false, goerr.Wrap(err, "Failed to update table", goerr.V("datasetID", datasetID), goerr.V("tableID", tableID))
	}
	return merged, false, nil
}

func setupJobLogTable(ctx context.Context, bq interfaces.BigQuery, cfg *model.JobLogConfig) (bigquery.Schema, error) {
	schema, err := bqs.Infer(&model.JobLog{})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to infer schema")
	}
	md := &bigquery.TableMetadata{
		Schema: schema,
		TimePartitioning: &bigquery.TimePartitioning{
			Field: "started_at",
			Type:  bigquery.MonthPartitioningType,
		},
	}
	if _, err := createOrUpdateTable(ctx, bq, cfg.Dataset(), cfg.Table(), md); err != nil {
		return nil, goerr.Wrap(err, "failed to create or update table")
	}

	return schema, nil
}

// jobLogTableSchema sets up the job log table once per process. A failed setup is tried again by the next run.
func (x *UseCase) jobLogTableSchema(ctx context.Context) (bigquery.Schema, error) {
	x.jobLogMutex.Lock()
	defer x.jobLogMutex.Unlock()

	if x.jobLogSchema != nil {
		return x.jobLogSchema, nil
	}

	schema, err := setupJobLogTable(ctx, x.clients.BigQuery(), x.jobLog)
	if err != nil {
		return nil, err
	}
	x.jobLogSchema = schema

	return schema, nil
}

// writeJobLog never fails the run. An error is only reported.
func (x *UseCase) writeJobLog(ctx context.Context, jobLog *model.JobLog) {
	ctx = context.WithoutCancel(ctx)

	schema, err := x.jobLogTableSchema(ctx)
	if err != nil {
		utils.HandleError(ctx, "failed to setup job log table", err)
		return
	}

	if err := x.clients.BigQuery().Insert(ctx, x.jobLog.Dataset(), x.jobLog.Table(), schema, []any{jobLog}); err != nil {
		utils.HandleError(ctx, "failed to insert job log", err)
	}
}
