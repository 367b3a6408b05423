package bq_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/m-mizutani/bqs"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/bqrun/pkg/domain/model"
	"github.com/secmon-lab/bqrun/pkg/domain/types"
	"github.com/secmon-lab/bqrun/pkg/infra/bq"
	"github.com/secmon-lab/bqrun/pkg/utils"
)

func TestRunQuery(t *testing.T) {
	var (
		projectID = types.GoogleProjectID(utils.LoadEnv(t, "TEST_BIGQUERY_PROJECT_ID"))
		datasetID = types.BQDatasetID(utils.LoadEnv(t, "TEST_BIGQUERY_DATASET_ID"))
	)

	ctx := context.Background()
	client := gt.R1(bq.New(ctx, projectID)).NoError(t)
	defer utils.SafeClose(client)

	t.Run("write into destination table", func(t *testing.T) {
		tableID := types.BQTableID(time.Now().Format("run_query_20060102_150405"))
		dst := model.NewTableRef(projectID, datasetID, tableID)

		job := gt.R1(client.RunQuery(ctx, "SELECT 1 AS one", dst)).NoError(t)
		gt.True(t, job.ID != "")

		md := gt.R1(client.GetMetadata(ctx, datasetID, tableID)).NoError(t)
		gt.V(t, md).NotNil()
	})

	t.Run("missing dataset", func(t *testing.T) {
		dst := model.NewTableRef(projectID, "no_such_dataset_for_bqrun", "t")
		_, err := client.RunQuery(ctx, "SELECT 1 AS one", dst)
		gt.True(t, errors.Is(err, types.ErrNotFound))
	})

	t.Run("malformed query", func(t *testing.T) {
		tableID := types.BQTableID(time.Now().Format("malformed_20060102_150405"))
		dst := model.NewTableRef(projectID, datasetID, tableID)
		_, err := client.RunQuery(ctx, "SELEKT 1", dst)
		gt.True(t, errors.Is(err, types.ErrUnexpected))
	})
}

func TestInsert(t *testing.T) {
	var (
		projectID = types.GoogleProjectID(utils.LoadEnv(t, "TEST_BIGQUERY_PROJECT_ID"))
		datasetID = types.BQDatasetID(utils.LoadEnv(t, "TEST_BIGQUERY_DATASET_ID"))
	)

	ctx := context.Background()
	client := gt.R1(bq.New(ctx, projectID)).NoError(t)
	defer utils.SafeClose(client)

	tableID := types.BQTableID(time.Now().Format("insert_20060102_150405"))
	schema := gt.R1(bqs.Infer(&model.JobLog{})).NoError(t)
	gt.NoError(t, client.CreateTable(ctx, datasetID, tableID, &bigquery.TableMetadata{
		Schema: schema,
	}))

	log := &model.JobLog{
		ID:          types.NewRequestID(),
		Source:      model.QuerySource{Bucket: "b", Object: "q.sql"},
		Destination: model.NewTableRef(projectID, datasetID, "t"),
		StartedAt:   time.Now(),
		FinishedAt:  time.Now(),
		Success:     true,
	}
	gt.NoError(t, client.Insert(ctx, datasetID, tableID, schema, []any{log}))
}
