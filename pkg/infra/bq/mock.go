package bq

import (
	"context"
	"sync"

	"cloud.google.com/go/bigquery"
	"github.com/secmon-lab/bqrun/pkg/domain/interfaces"
	"github.com/secmon-lab/bqrun/pkg/domain/model"
	"github.com/secmon-lab/bqrun/pkg/domain/types"
)

type Mock struct {
	MockRunQuery    func(ctx context.Context, query string, dst model.TableRef) (*model.QueryJob, error)
	MockInsert      func(ctx context.Context, dataset types.BQDatasetID, table types.BQTableID, data []any) error
	MockGetMetadata func(ctx context.Context, dataset types.BQDatasetID, table types.BQTableID) (*bigquery.TableMetadata, error)
	MockUpdateTable func(ctx context.Context, dataset types.BQDatasetID, table types.BQTableID, md bigquery.TableMetadataToUpdate, eTag string) error
	MockCreateTable func(ctx context.Context, dataset types.BQDatasetID, table types.BQTableID, md *bigquery.TableMetadata) error
}

func NewMock() *Mock {
	return &Mock{}
}

var _ interfaces.BigQuery = &Mock{}

func (x *Mock) RunQuery(ctx context.Context, query string, dst model.TableRef) (*model.QueryJob, error) {
	if x.MockRunQuery != nil {
		return x.MockRunQuery(ctx, query, dst)
	}
	return &model.QueryJob{}, nil
}

func (x *Mock) Insert(ctx context.Context, dataset types.BQDatasetID, table types.BQTableID, schema bigquery.Schema, data []any) error {
	if x.MockInsert != nil {
		return x.MockInsert(ctx, dataset, table, data)
	}
	return nil
}

func (x *Mock) GetMetadata(ctx context.Context, dataset types.BQDatasetID, table types.BQTableID) (*bigquery.TableMetadata, error) {
	if x.MockGetMetadata != nil {
		return x.MockGetMetadata(ctx, dataset, table)
	}
	return nil, nil
}

func (x *Mock) UpdateTable(ctx context.Context, dataset types.BQDatasetID, table types.BQTableID, md bigquery.TableMetadataToUpdate, eTag string) error {
	if x.MockUpdateTable != nil {
		return x.MockUpdateTable(ctx, dataset, table, md, eTag)
	}
	return nil
}

func (x *Mock) CreateTable(ctx context.Context, dataset types.BQDatasetID, table types.BQTableID, md *bigquery.TableMetadata) error {
	if x.MockCreateTable != nil {
		return x.MockCreateTable(ctx, dataset, table, md)
	}
	return nil
}

func NewGeneralMock() *GeneralMock {
	return &GeneralMock{}
}

// GeneralMock records every call. RunQuery fails with RunQueryErr if it is set.
type GeneralMock struct {
	Metadata    []*bigquery.TableMetadata
	RunQueryErr error

	Queries []struct {
		Query string
		Dst   model.TableRef
	}

	CreatedTable []struct {
		Dataset types.BQDatasetID
		Table   types.BQTableID
		MD      *bigquery.TableMetadata
	}
	UpdatedTable []struct {
		Dataset types.BQDatasetID
		Table   types.BQTableID
		MD      bigquery.TableMetadataToUpdate
		ETag    string
	}
	Inserted []MockInsertedData

	mutex sync.Mutex
}

type MockInsertedData struct {
	Dataset types.BQDatasetID
	Table   types.BQTableID
	Schema  bigquery.Schema
	Data    []any
}

// RunQuery implements interfaces.BigQuery.
func (x *GeneralMock) RunQuery(ctx context.Context, query string, dst model.TableRef) (*model.QueryJob, error) {
	x.mutex.Lock()
	defer x.mutex.Unlock()

	x.Queries = append(x.Queries, struct {
		Query string
		Dst   model.TableRef
	}{Query: query, Dst: dst})

	if x.RunQueryErr != nil {
		return nil, x.RunQueryErr
	}
	return &model.QueryJob{ID: "job_mock", Location: "US"}, nil
}

// Insert implements interfaces.BigQuery.
func (x *GeneralMock) Insert(ctx context.Context, dataset types.BQDatasetID, table types.BQTableID, schema bigquery.Schema, data []any) error {
	x.mutex.Lock()
	defer x.mutex.Unlock()

	x.Inserted = append(x.Inserted, MockInsertedData{
		Dataset: dataset,
		Table:   table,
		Schema:  schema,
		Data:    data,
	})
	return nil
}

// GetMetadata implements interfaces.BigQuery.
func (x *GeneralMock) GetMetadata(ctx context.Context, dataset types.BQDatasetID, table types.BQTableID) (*bigquery.TableMetadata, error) {
	x.mutex.Lock()
	defer x.mutex.Unlock()

	if len(x.Metadata) == 0 {
		return nil, nil
	}
	md := x.Metadata[0]
	x.Metadata = x.Metadata[1:]
	return md, nil
}

// UpdateTable implements interfaces.BigQuery.
func (x *GeneralMock) UpdateTable(ctx context.Context, dataset types.BQDatasetID, table types.BQTableID, md bigquery.TableMetadataToUpdate, eTag string) error {
	x.mutex.Lock()
	defer x.mutex.Unlock()

	x.UpdatedTable = append(x.UpdatedTable, struct {
		Dataset types.BQDatasetID
		Table   types.BQTableID
		MD      bigquery.TableMetadataToUpdate
		ETag    string
	}{Dataset: dataset, Table: table, MD: md, ETag: eTag})

	return nil
}

// CreateTable implements interfaces.BigQuery.
func (x *GeneralMock) CreateTable(ctx context.Context, dataset types.BQDatasetID, table types.BQTableID, md *bigquery.TableMetadata) error {
	x.mutex.Lock()
	defer x.mutex.Unlock()

	x.CreatedTable = append(x.CreatedTable, struct {
		Dataset types.BQDatasetID
		Table   types.BQTableID
		MD      *bigquery.TableMetadata
	}{Dataset: dataset, Table: table, MD: md})

	return nil
}

var _ interfaces.BigQuery = &GeneralMock{}
