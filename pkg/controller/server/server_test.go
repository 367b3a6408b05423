package server_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/bqrun/pkg/controller/server"
	"github.com/secmon-lab/bqrun/pkg/domain/model"
	"github.com/secmon-lab/bqrun/pkg/domain/types"
	"github.com/secmon-lab/bqrun/pkg/infra"
	"github.com/secmon-lab/bqrun/pkg/infra/bq"
	"github.com/secmon-lab/bqrun/pkg/infra/cs"
	"github.com/secmon-lab/bqrun/pkg/usecase"
	"google.golang.org/api/googleapi"
)

var target = model.QueryTarget{
	Project: "p",
	Dataset: "d",
	Table:   "t",
	Bucket:  "b",
}

func TestRunQuery(t *testing.T) {
	testCases := map[string]struct {
		method    string
		path      string
		objects   map[model.QuerySource]string
		queryErr  error
		expect    int
		body      string
		opened    int
		queries   int
		query     string
		queryDest string
	}{
		"query executed": {
			method:    http.MethodGet,
			path:      "/?file_name=q.sql",
			objects:   map[model.QuerySource]string{{Bucket: "b", Object: "q.sql"}: "SELECT 1;"},
			expect:    http.StatusOK,
			body:      server.SuccessMessage,
			opened:    1,
			queries:   1,
			query:     "SELECT 1;",
			queryDest: "p.d.t",
		},
		"POST is also accepted": {
			method:    http.MethodPost,
			path:      "/?file_name=q.sql",
			objects:   map[model.QuerySource]string{{Bucket: "b", Object: "q.sql"}: "SELECT 1;"},
			expect:    http.StatusOK,
			body:      server.SuccessMessage,
			opened:    1,
			queries:   1,
			query:     "SELECT 1;",
			queryDest: "p.d.t",
		},
		"missing object": {
			method:  http.MethodGet,
			path:    "/?file_name=missing.sql",
			objects: map[model.QuerySource]string{},
			expect:  http.StatusNotFound,
			body:    types.KindNotFound.String() + "\n",
			opened:  1,
			queries: 0,
		},
		"permission denied by query engine": {
			method:    http.MethodGet,
			path:      "/?file_name=q.sql",
			objects:   map[model.QuerySource]string{{Bucket: "b", Object: "q.sql"}: "SELECT 1;"},
			queryErr:  &googleapi.Error{Code: http.StatusForbidden},
			expect:    http.StatusForbidden,
			body:      types.KindPermissionDenied.String() + "\n",
			opened:    1,
			queries:   1,
			query:     "SELECT 1;",
			queryDest: "p.d.t",
		},
		"job failure": {
			method:    http.MethodGet,
			path:      "/?file_name=q.sql",
			objects:   map[model.QuerySource]string{{Bucket: "b", Object: "q.sql"}: "SELEKT 1;"},
			queryErr:  &googleapi.Error{Code: http.StatusBadRequest, Message: "Syntax error"},
			expect:    http.StatusInternalServerError,
			body:      types.KindUnexpected.String() + "\n",
			opened:    1,
			queries:   1,
			query:     "SELEKT 1;",
			queryDest: "p.d.t",
		},
		"no file_name and no default": {
			method:  http.MethodGet,
			path:    "/",
			objects: map[model.QuerySource]string{},
			expect:  http.StatusNotFound,
			body:    types.KindNotFound.String() + "\n",
			opened:  1,
			queries: 0,
		},
		"invalid path": {
			method:  http.MethodGet,
			path:    "/invalid",
			objects: map[model.QuerySource]string{},
			expect:  http.StatusNotFound,
			opened:  0,
			queries: 0,
		},
	}

	for label, tc := range testCases {
		t.Run(label, func(t *testing.T) {
			csMock := cs.NewMemoryMock()
			for src, content := range tc.objects {
				csMock.Put(src, content)
			}
			bqMock := bq.NewGeneralMock()
			bqMock.RunQueryErr = tc.queryErr

			uc := usecase.New(infra.New(
				infra.WithCloudStorage(csMock),
				infra.WithBigQuery(bqMock),
			))
			srv := server.New(uc, target)

			r := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()
			srv.ServeHTTP(w, r)

			gt.Equal(t, w.Code, tc.expect)
			if tc.body != "" {
				gt.Equal(t, w.Body.String(), tc.body)
			}
			gt.A(t, csMock.Opened).Length(tc.opened)
			gt.A(t, bqMock.Queries).Length(tc.queries)
			if tc.queries > 0 {
				gt.Equal(t, bqMock.Queries[0].Query, tc.query)
				gt.Equal(t, bqMock.Queries[0].Dst.String(), tc.queryDest)
			}
		})
	}
}

func TestObjectParamOverridesDefault(t *testing.T) {
	withDefault := target
	withDefault.Object = "default.sql"

	var requested []types.CSObjectID
	mock := &usecase.Mock{
		MockRunQuery: func(ctx context.Context, req *model.RunRequest) (*model.RunResult, error) {
			requested = append(requested, req.Source.Object)
			gt.Equal(t, req.Source.Bucket, types.CSBucket("b"))
			gt.Equal(t, req.Destination.String(), "p.d.t")
			return &model.RunResult{Job: &model.QueryJob{}}, nil
		},
	}
	srv := server.New(mock, withDefault)

	for _, path := range []string{"/", "/?file_name=other.sql"} {
		w := httptest.NewRecorder()
		srv.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		gt.Equal(t, w.Code, http.StatusOK)
	}

	gt.Equal(t, requested, []types.CSObjectID{"default.sql", "other.sql"})
}

func TestHealth(t *testing.T) {
	srv := server.New(&usecase.Mock{}, target)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	gt.Equal(t, w.Code, http.StatusOK)
	body := gt.R1(io.ReadAll(w.Result().Body)).NoError(t)
	gt.Equal(t, string(body), "OK")
}
