package interfaces

import (
	"context"

	"github.com/secmon-lab/bqrun/pkg/domain/model"
)

type UseCase interface {
	LoadQuery(ctx context.Context, src model.QuerySource) (string, error)
	ExecuteQuery(ctx context.Context, query string, dst model.TableRef) (*model.QueryJob, error)
	RunQuery(ctx context.Context, req *model.RunRequest) (*model.RunResult, error)

	Authorize(ctx context.Context, input *model.AuthPolicyInput) error
}
