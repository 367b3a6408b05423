package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/bqrun/pkg/domain/model"
	"github.com/secmon-lab/bqrun/pkg/domain/types"
	"github.com/secmon-lab/bqrun/pkg/infra"
	"github.com/secmon-lab/bqrun/pkg/infra/policy"
	"github.com/secmon-lab/bqrun/pkg/usecase"
)

func TestAuthorize(t *testing.T) {
	p := gt.R1(policy.New(policy.WithFile("../infra/policy/testdata/auth.rego"))).NoError(t)
	ctx := context.Background()

	t.Run("allowed", func(t *testing.T) {
		uc := usecase.New(infra.New(infra.WithPolicy(p)))
		gt.NoError(t, uc.Authorize(ctx, &model.AuthPolicyInput{
			Method: "GET",
			Path:   "/",
			Header: map[string][]string{"Authorization": {"Bearer good-token"}},
		}))
	})

	t.Run("denied", func(t *testing.T) {
		uc := usecase.New(infra.New(infra.WithPolicy(p)))
		err := uc.Authorize(ctx, &model.AuthPolicyInput{Method: "GET", Path: "/"})
		gt.True(t, errors.Is(err, types.ErrUnauthorized))
	})

	t.Run("no policy allows all", func(t *testing.T) {
		uc := usecase.New(infra.New())
		gt.NoError(t, uc.Authorize(ctx, &model.AuthPolicyInput{Method: "GET", Path: "/"}))
	})
}
