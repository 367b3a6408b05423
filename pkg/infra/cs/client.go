package cs

import (
	"context"
	"io"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/bqrun/pkg/domain/interfaces"
	"github.com/secmon-lab/bqrun/pkg/domain/model"
	"github.com/secmon-lab/bqrun/pkg/infra/apierr"
)

type Client struct {
	client *storage.Client
}

func New(ctx context.Context) (*Client, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage client")
	}

	return &Client{
		client: client,
	}, nil
}

// Open implements interfaces.CloudStorage. A missing bucket or object is reported as types.ErrNotFound.
func (x *Client) Open(ctx context.Context, src model.QuerySource) (io.ReadCloser, error) {
	r, err := x.client.
		Bucket(src.Bucket.String()).
		Object(src.Object.String()).
		NewReader(ctx)
	if err != nil {
		return nil, goerr.Wrap(apierr.Translate(err), "failed to create reader",
			goerr.V("bucket", src.Bucket),
			goerr.V("object", src.Object),
		)
	}

	return r, nil
}

func (x *Client) Close() error {
	if err := x.client.Close(); err != nil {
		return goerr.Wrap(err, "failed to close storage client")
	}
	return nil
}

var _ interfaces.CloudStorage = &Client{}
