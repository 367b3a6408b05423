package interfaces

import (
	"context"
	"io"

	"cloud.google.com/go/bigquery"
	"github.com/secmon-lab/bqrun/pkg/domain/model"
	"github.com/secmon-lab/bqrun/pkg/domain/types"
)

// BigQuery runs query jobs and manages the job log table. Errors of RunQuery are classified by types.KindOf.
type BigQuery interface {
	RunQuery(ctx context.Context, query string, dst model.TableRef) (*model.QueryJob, error)
	Insert(ctx context.Context, dataset types.BQDatasetID, table types.BQTableID, schema bigquery.Schema, data []any) error

	GetMetadata(ctx context.Context, dataset types.BQDatasetID, table types.BQTableID) (*bigquery.TableMetadata, error)
	UpdateTable(ctx context.Context, dataset types.BQDatasetID, table types.BQTableID, md bigquery.TableMetadataToUpdate, eTag string) error
	CreateTable(ctx context.Context, dataset types.BQDatasetID, table types.BQTableID, md *bigquery.TableMetadata) error
}

// CloudStorage reads objects. Errors of Open are classified by types.KindOf.
type CloudStorage interface {
	Open(ctx context.Context, src model.QuerySource) (io.ReadCloser, error)
}

type Policy interface {
	Query(ctx context.Context, query string, input, output any) error
}
