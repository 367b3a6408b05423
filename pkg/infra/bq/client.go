package bq

import (
	"context"
	"errors"
	"net/http"

	"cloud.google.com/go/bigquery"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/bqrun/pkg/domain/interfaces"
	"github.com/secmon-lab/bqrun/pkg/domain/model"
	"github.com/secmon-lab/bqrun/pkg/domain/types"
	"github.com/secmon-lab/bqrun/pkg/infra/apierr"
	"github.com/secmon-lab/bqrun/pkg/utils"
	"google.golang.org/api/googleapi"
)

type Client struct {
	bqClient  *bigquery.Client
	projectID types.GoogleProjectID
	location  types.BQLocation
}

var _ interfaces.BigQuery = &Client{}

type Option func(*Client)

// WithLocation sets the location where query jobs run. If not set, BigQuery decides it from the referenced datasets.
func WithLocation(location types.BQLocation) Option {
	return func(c *Client) {
		c.location = location
	}
}

func New(ctx context.Context, projectID types.GoogleProjectID, options ...Option) (*Client, error) {
	bqClient, err := bigquery.NewClient(ctx, projectID.String())
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create bigquery client", goerr.V("projectID", projectID))
	}

	client := &Client{
		bqClient:  bqClient,
		projectID: projectID,
	}
	for _, opt := range options {
		opt(client)
	}

	return client, nil
}

// RunQuery implements interfaces.BigQuery. It submits query as a job writing into dst and blocks until the job is done. Write and create dispositions are BigQuery defaults.
func (x *Client) RunQuery(ctx context.Context, query string, dst model.TableRef) (*model.QueryJob, error) {
	q := x.bqClient.Query(query)
	q.Dst = x.bqClient.
		DatasetInProject(dst.Project.String(), dst.Dataset.String()).
		Table(dst.Table.String())
	if x.location != "" {
		q.Location = x.location.String()
	}

	job, err := q.Run(ctx)
	if err != nil {
		return nil, goerr.Wrap(apierr.Translate(err), "failed to run query job", goerr.V("dst", dst))
	}

	utils.CtxLogger(ctx).Info("query job submitted",
		"job_id", job.ID(),
		"location", job.Location(),
		"dst", dst,
	)

	status, err := job.Wait(ctx)
	if err != nil {
		return nil, goerr.Wrap(apierr.Translate(err), "failed to wait query job",
			goerr.V("dst", dst),
			goerr.V("job_id", job.ID()),
		)
	}
	if err := status.Err(); err != nil {
		return nil, goerr.Wrap(apierr.Translate(err), "query job failed",
			goerr.V("dst", dst),
			goerr.V("job_id", job.ID()),
			goerr.V("errors", status.Errors),
		)
	}

	return &model.QueryJob{
		ID:       types.BQJobID(job.ID()),
		Location: types.BQLocation(job.Location()),
	}, nil
}

// Insert implements interfaces.BigQuery. Each element of data must be a struct or a pointer to a struct matching schema.
func (x *Client) Insert(ctx context.Context, dataset types.BQDatasetID, table types.BQTableID, schema bigquery.Schema, data []any) error {
	savers := make([]bigquery.ValueSaver, len(data))
	for i, v := range data {
		savers[i] = &bigquery.StructSaver{
			Struct: v,
			Schema: schema,
		}
	}

	inserter := x.bqClient.Dataset(dataset.String()).Table(table.String()).Inserter()
	if err := inserter.Put(ctx, savers); err != nil {
		return goerr.Wrap(err, "failed to insert data",
			goerr.V("dataset", dataset),
			goerr.V("table", table),
		)
	}

	return nil
}

// GetMetadata implements interfaces.BigQuery. If the table does not exist, it returns nil.
func (x *Client) GetMetadata(ctx context.Context, dataset types.BQDatasetID, table types.BQTableID) (*bigquery.TableMetadata, error) {
	md, err := x.bqClient.Dataset(dataset.String()).Table(table.String()).Metadata(ctx)
	if err != nil {
		var gErr *googleapi.Error
		if errors.As(err, &gErr) && gErr.Code == http.StatusNotFound {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to get table metadata",
			goerr.V("dataset", dataset),
			goerr.V("table", table),
		)
	}

	return md, nil
}

// UpdateTable implements interfaces.BigQuery.
func (x *Client) UpdateTable(ctx context.Context, dataset types.BQDatasetID, table types.BQTableID, md bigquery.TableMetadataToUpdate, eTag string) error {
	if _, err := x.bqClient.Dataset(dataset.String()).Table(table.String()).Update(ctx, md, eTag); err != nil {
		return goerr.Wrap(err, "failed to update table schema",
			goerr.V("dataset", dataset),
			goerr.V("table", table),
		)
	}

	return nil
}

// CreateTable implements interfaces.BigQuery.
func (x *Client) CreateTable(ctx context.Context, dataset types.BQDatasetID, table types.BQTableID, md *bigquery.TableMetadata) error {
	if err := x.bqClient.Dataset(dataset.String()).Table(table.String()).Create(ctx, md); err != nil {
		return goerr.Wrap(err, "failed to create table",
			goerr.V("dataset", dataset),
			goerr.V("table", table),
		)
	}

	return nil
}

func (x *Client) Close() error {
	if err := x.bqClient.Close(); err != nil {
		return goerr.Wrap(err, "failed to close bigquery client")
	}
	return nil
}
