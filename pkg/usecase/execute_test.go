package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"cloud.google.com/go/bigquery"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/bqrun/pkg/domain/model"
	"github.com/secmon-lab/bqrun/pkg/domain/types"
	"github.com/secmon-lab/bqrun/pkg/infra"
	"github.com/secmon-lab/bqrun/pkg/infra/bq"
	"github.com/secmon-lab/bqrun/pkg/usecase"
	"google.golang.org/api/googleapi"
)

func TestExecuteQuery(t *testing.T) {
	dst := model.NewTableRef("p", "d", "t")

	testCases := map[string]struct {
		err     error
		errKind types.ErrorKind
	}{
		"success": {},
		"destination dataset not found": {
			err:     &googleapi.Error{Code: http.StatusNotFound, Message: "Not found: Dataset p:d"},
			errKind: types.KindNotFound,
		},
		"referenced table not found in job": {
			err:     &bigquery.Error{Reason: "notFound", Message: "Not found: Table p:d.src"},
			errKind: types.KindNotFound,
		},
		"permission denied": {
			err:     &googleapi.Error{Code: http.StatusForbidden, Message: "Access Denied"},
			errKind: types.KindPermissionDenied,
		},
		"malformed SQL": {
			err:     &bigquery.Error{Reason: "invalidQuery", Message: "Syntax error"},
			errKind: types.KindUnexpected,
		},
		"quota exceeded": {
			err:     &googleapi.Error{Code: http.StatusTooManyRequests, Message: "Quota exceeded"},
			errKind: types.KindUnexpected,
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			var called int
			bqMock := &bq.Mock{
				MockRunQuery: func(ctx context.Context, query string, input model.TableRef) (*model.QueryJob, error) {
					called++
					gt.Equal(t, query, "SELECT 1;")
					gt.Equal(t, input.String(), "p.d.t")
					if tc.err != nil {
						return nil, tc.err
					}
					return &model.QueryJob{ID: "job_1", Location: "US"}, nil
				},
			}
			uc := usecase.New(infra.New(infra.WithBigQuery(bqMock)))

			job, err := uc.ExecuteQuery(context.Background(), "SELECT 1;", dst)
			gt.Equal(t, called, 1)

			if tc.errKind != "" {
				gt.Error(t, err)
				gt.Equal(t, types.KindOf(err), tc.errKind)
				gt.True(t, errors.Is(err, tc.err))
				return
			}

			gt.NoError(t, err)
			gt.Equal(t, job.ID, types.BQJobID("job_1"))
		})
	}
}

func TestExecuteQueryIgnoresCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	bqMock := &bq.Mock{
		MockRunQuery: func(ctx context.Context, query string, dst model.TableRef) (*model.QueryJob, error) {
			gt.NoError(t, ctx.Err())
			return &model.QueryJob{ID: "job_1"}, nil
		},
	}
	uc := usecase.New(infra.New(infra.WithBigQuery(bqMock)))

	gt.R1(uc.ExecuteQuery(ctx, "SELECT 1;", model.NewTableRef("p", "d", "t"))).NoError(t)
}
