package usecase

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/bqrun/pkg/domain/model"
	"github.com/secmon-lab/bqrun/pkg/domain/types"
	"github.com/secmon-lab/bqrun/pkg/utils"
)

// Authorize evaluates "data.auth" of the policy for HTTP access. Every request is allowed if no policy is configured.
func (x *UseCase) Authorize(ctx context.Context, input *model.AuthPolicyInput) error {
	if x.clients.Policy() == nil {
		return nil
	}

	var output model.AuthPolicyOutput
	if err := x.clients.Policy().Query(ctx, "data.auth", input, &output); err != nil {
		if !errors.Is(err, types.ErrNoPolicyResult) {
			return goerr.Wrap(err, "failed to evaluate policy", goerr.V("input", input))
		}
	}

	utils.CtxLogger(ctx).Debug("authorization result",
		"input", input,
		"output", output,
	)

	if output.Deny {
		return goerr.Wrap(types.ErrUnauthorized, "denied by policy")
	}

	return nil
}
