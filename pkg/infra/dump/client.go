package dump

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"cloud.google.com/go/bigquery"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/bqrun/pkg/domain/interfaces"
	"github.com/secmon-lab/bqrun/pkg/domain/model"
	"github.com/secmon-lab/bqrun/pkg/domain/types"
	"github.com/secmon-lab/bqrun/pkg/utils"
)

// Client is a BigQuery replacement for dry run. Nothing is sent to BigQuery, every call is written into files under outDir.
type Client struct {
	outDir string
}

// DumpJobID is the job ID returned by RunQuery of dump Client.
const DumpJobID types.BQJobID = "dump"

// RunQuery implements interfaces.BigQuery. It writes query to "{outDir}/{project}.{dataset}.{table}.sql". If the file exists, it overwrites the file.
func (x *Client) RunQuery(ctx context.Context, query string, dst model.TableRef) (*model.QueryJob, error) {
	fpath := filepath.Join(x.outDir, dst.String()+".sql")
	if err := os.WriteFile(fpath, []byte(query), 0600); err != nil {
		return nil, goerr.Wrap(err, "failed to write query", goerr.V("file", fpath))
	}

	utils.CtxLogger(ctx).Info("dumped query", "file", fpath, "dst", dst)

	return &model.QueryJob{ID: DumpJobID}, nil
}

// Insert implements interfaces.BigQuery. It writes data to a file in JSON format. The file name is "{outDir}/{dataset}.{table}.log". If the file does not exist, it creates a new file. If the file exists, it appends data to the file.
func (x *Client) Insert(ctx context.Context, dataset types.BQDatasetID, table types.BQTableID, schema bigquery.Schema, data []any) error {
	fname := fmt.Sprintf("%s.%s.log", dataset, table)
	fpath := filepath.Join(x.outDir, fname)
	fd, err := os.OpenFile(fpath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return goerr.Wrap(err, "failed to create file", goerr.V("file", fpath))
	}
	defer utils.SafeClose(fd)

	encoder := json.NewEncoder(fd)
	for _, record := range data {
		if err := encoder.Encode(record); err != nil {
			return goerr.Wrap(err, "failed to encode record", goerr.V("record", record))
		}
	}

	return nil
}

// GetMetadata implements interfaces.BigQuery. It always reports an existing table without schema.
func (x *Client) GetMetadata(ctx context.Context, dataset types.BQDatasetID, table types.BQTableID) (*bigquery.TableMetadata, error) {
	return &bigquery.TableMetadata{}, nil
}

// UpdateTable implements interfaces.BigQuery. It writes schema to "{outDir}/{dataset}.{table}.schema.json".
func (x *Client) UpdateTable(ctx context.Context, dataset types.BQDatasetID, table types.BQTableID, md bigquery.TableMetadataToUpdate, eTag string) error {
	return x.writeSchema(dataset, table, md.Schema)
}

// CreateTable implements interfaces.BigQuery. It writes schema to "{outDir}/{dataset}.{table}.schema.json".
func (x *Client) CreateTable(ctx context.Context, dataset types.BQDatasetID, table types.BQTableID, md *bigquery.TableMetadata) error {
	return x.writeSchema(dataset, table, md.Schema)
}

func (x *Client) writeSchema(dataset types.BQDatasetID, table types.BQTableID, schema bigquery.Schema) error {
	fname := fmt.Sprintf("%s.%s.schema.json", dataset, table)
	fpath := filepath.Join(x.outDir, fname)

	raw, err := schema.ToJSONFields()
	if err != nil {
		return goerr.Wrap(err, "failed to convert schema to JSON fields", goerr.V("schema", schema))
	}

	if err := os.WriteFile(fpath, raw, 0600); err != nil {
		return goerr.Wrap(err, "failed to write schema", goerr.V("file", fpath))
	}

	return nil
}

// New returns a new instance of dumper Client.
func New(outDir string) *Client {
	return &Client{
		outDir: filepath.Clean(outDir),
	}
}

var _ interfaces.BigQuery = &Client{}
