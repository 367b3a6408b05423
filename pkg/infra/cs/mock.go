package cs

import (
	"context"
	"io"
	"strings"
	"sync"

	"cloud.google.com/go/storage"
	"github.com/secmon-lab/bqrun/pkg/domain/interfaces"
	"github.com/secmon-lab/bqrun/pkg/domain/model"
)

type Mock struct {
	MockOpen func(ctx context.Context, src model.QuerySource) (io.ReadCloser, error)
}

func (x *Mock) Open(ctx context.Context, src model.QuerySource) (io.ReadCloser, error) {
	if x.MockOpen != nil {
		return x.MockOpen(ctx, src)
	}
	return nil, storage.ErrObjectNotExist
}

var _ interfaces.CloudStorage = &Mock{}

// MemoryMock is a CloudStorage backed by a map of bucket and object to content. It records every opened source.
type MemoryMock struct {
	Objects map[model.QuerySource]string
	Opened  []model.QuerySource

	mutex sync.Mutex
}

func NewMemoryMock() *MemoryMock {
	return &MemoryMock{
		Objects: map[model.QuerySource]string{},
	}
}

func (x *MemoryMock) Put(src model.QuerySource, content string) {
	x.mutex.Lock()
	defer x.mutex.Unlock()
	x.Objects[src] = content
}

func (x *MemoryMock) Open(ctx context.Context, src model.QuerySource) (io.ReadCloser, error) {
	x.mutex.Lock()
	defer x.mutex.Unlock()

	x.Opened = append(x.Opened, src)
	content, ok := x.Objects[src]
	if !ok {
		return nil, storage.ErrObjectNotExist
	}
	return io.NopCloser(strings.NewReader(content)), nil
}

var _ interfaces.CloudStorage = &MemoryMock{}
