package policy_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/bqrun/pkg/domain/model"
	"github.com/secmon-lab/bqrun/pkg/domain/types"
	"github.com/secmon-lab/bqrun/pkg/infra/policy"
)

func TestQuery(t *testing.T) {
	client := gt.R1(policy.New(policy.WithFile("testdata/auth.rego"))).NoError(t)
	ctx := context.Background()

	testCases := map[string]struct {
		input *model.AuthPolicyInput
		deny  bool
	}{
		"valid token": {
			input: &model.AuthPolicyInput{
				Method: "POST",
				Path:   "/",
				Header: map[string][]string{"Authorization": {"Bearer good-token"}},
			},
			deny: false,
		},
		"invalid token": {
			input: &model.AuthPolicyInput{
				Method: "POST",
				Path:   "/",
				Header: map[string][]string{"Authorization": {"Bearer bad-token"}},
			},
			deny: true,
		},
		"no header": {
			input: &model.AuthPolicyInput{Method: "GET", Path: "/"},
			deny:  true,
		},
		"health check": {
			input: &model.AuthPolicyInput{Method: "GET", Path: "/health"},
			deny:  false,
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			var output model.AuthPolicyOutput
			gt.NoError(t, client.Query(ctx, "data.auth", tc.input, &output))
			gt.Equal(t, output.Deny, tc.deny)
		})
	}

	t.Run("undefined query", func(t *testing.T) {
		var output model.AuthPolicyOutput
		err := client.Query(ctx, "data.no_such_package.value", &model.AuthPolicyInput{}, &output)
		gt.True(t, errors.Is(err, types.ErrNoPolicyResult))
	})
}

func TestNew(t *testing.T) {
	_, err := policy.New()
	gt.True(t, errors.Is(err, types.ErrInvalidOption))
}

func TestQueryUsesCompiledPolicy(t *testing.T) {
	raw := gt.R1(os.ReadFile("testdata/auth.rego")).NoError(t)
	path := filepath.Join(t.TempDir(), "auth.rego")
	gt.NoError(t, os.WriteFile(path, raw, 0600))

	client := gt.R1(policy.New(policy.WithFile(path))).NoError(t)
	ctx := context.Background()
	input := &model.AuthPolicyInput{Method: "GET", Path: "/health"}

	var first model.AuthPolicyOutput
	gt.NoError(t, client.Query(ctx, "data.auth", input, &first))
	gt.False(t, first.Deny)

	// Policy files are not read again after the query is prepared
	gt.NoError(t, os.Remove(path))

	for i := 0; i < 2; i++ {
		var output model.AuthPolicyOutput
		gt.NoError(t, client.Query(ctx, "data.auth", input, &output))
		gt.False(t, output.Deny)
	}
}
