package usecase

import (
	"context"

	"github.com/secmon-lab/bqrun/pkg/domain/interfaces"
	"github.com/secmon-lab/bqrun/pkg/domain/model"
)

type Mock struct {
	MockLoadQuery    func(ctx context.Context, src model.QuerySource) (string, error)
	MockExecuteQuery func(ctx context.Context, query string, dst model.TableRef) (*model.QueryJob, error)
	MockRunQuery     func(ctx context.Context, req *model.RunRequest) (*model.RunResult, error)
	MockAuthorize    func(ctx context.Context, input *model.AuthPolicyInput) error
}

var _ interfaces.UseCase = &Mock{}

func (x *Mock) LoadQuery(ctx context.Context, src model.QuerySource) (string, error) {
	if x.MockLoadQuery != nil {
		return x.MockLoadQuery(ctx, src)
	}
	return "", nil
}

func (x *Mock) ExecuteQuery(ctx context.Context, query string, dst model.TableRef) (*model.QueryJob, error) {
	if x.MockExecuteQuery != nil {
		return x.MockExecuteQuery(ctx, query, dst)
	}
	return &model.QueryJob{}, nil
}

func (x *Mock) RunQuery(ctx context.Context, req *model.RunRequest) (*model.RunResult, error) {
	if x.MockRunQuery != nil {
		return x.MockRunQuery(ctx, req)
	}
	return &model.RunResult{Job: &model.QueryJob{}}, nil
}

func (x *Mock) Authorize(ctx context.Context, input *model.AuthPolicyInput) error {
	if x.MockAuthorize != nil {
		return x.MockAuthorize(ctx, input)
	}
	return nil
}
