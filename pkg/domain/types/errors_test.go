package types_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/bqrun/pkg/domain/types"
)

func TestKindError(t *testing.T) {
	cause := errors.New("boom")

	testCases := map[string]struct {
		kind     types.ErrorKind
		sentinel error
		others   []error
	}{
		"not found": {
			kind:     types.KindNotFound,
			sentinel: types.ErrNotFound,
			others:   []error{types.ErrPermissionDenied, types.ErrUnexpected},
		},
		"permission denied": {
			kind:     types.KindPermissionDenied,
			sentinel: types.ErrPermissionDenied,
			others:   []error{types.ErrNotFound, types.ErrUnexpected},
		},
		"unexpected": {
			kind:     types.KindUnexpected,
			sentinel: types.ErrUnexpected,
			others:   []error{types.ErrNotFound, types.ErrPermissionDenied},
		},
	}

	for title, tc := range testCases {
		t.Run(title, func(t *testing.T) {
			err := types.NewKindError(tc.kind, cause)
			gt.True(t, errors.Is(err, tc.sentinel))
			gt.True(t, errors.Is(err, cause))
			for _, other := range tc.others {
				gt.False(t, errors.Is(err, other))
			}
			gt.Equal(t, err.Kind(), tc.kind)
			gt.Equal(t, err.Error(), tc.sentinel.Error()+": boom")

			// kind survives wrapping
			wrapped := goerr.Wrap(err, "failed to run", goerr.V("key", "value"))
			gt.True(t, errors.Is(wrapped, tc.sentinel))
			gt.Equal(t, types.KindOf(wrapped), tc.kind)

			gt.Equal(t, types.KindOf(fmt.Errorf("outer: %w", err)), tc.kind)
		})
	}
}

func TestKindOf(t *testing.T) {
	t.Run("unclassified error is unexpected", func(t *testing.T) {
		gt.Equal(t, types.KindOf(errors.New("boom")), types.KindUnexpected)
	})

	t.Run("nil cause", func(t *testing.T) {
		err := types.NewKindError(types.KindNotFound, nil)
		gt.Equal(t, err.Error(), "not found")
		gt.Equal(t, types.KindOf(err), types.KindNotFound)
	})
}
