package server

import (
	"net/http"
	"runtime"

	"github.com/go-chi/chi/v5"
	"github.com/secmon-lab/bqrun/pkg/domain/interfaces"
	"github.com/secmon-lab/bqrun/pkg/domain/model"
	"github.com/secmon-lab/bqrun/pkg/domain/types"
	"github.com/secmon-lab/bqrun/pkg/utils"
)

// SuccessMessage is the response body of a successful run
const SuccessMessage = "Query executed successfully."

// ObjectParam is the query parameter to choose the object of SQL file
const ObjectParam = "file_name"

type Server struct {
	mux *chi.Mux
}

type serverCfg struct {
	memoryLimit uint64
	readMem     ReadMemStatsFn
}

type Option func(*serverCfg)

func WithMemoryLimit(limit uint64) Option {
	return func(cfg *serverCfg) {
		cfg.memoryLimit = limit
	}
}

func WithReadMemStats(fn ReadMemStatsFn) Option {
	return func(cfg *serverCfg) {
		cfg.readMem = fn
	}
}

func New(uc interfaces.UseCase, target model.QueryTarget, options ...Option) *Server {
	cfg := &serverCfg{
		memoryLimit: 0,
		readMem:     runtime.ReadMemStats,
	}
	for _, opt := range options {
		opt(cfg)
	}

	route := chi.NewRouter()

	route.Use(Logging)
	route.Use(Authorization(uc))

	route.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		utils.SafeWrite(w, []byte("OK"))
	})

	route.Group(func(r chi.Router) {
		if cfg.memoryLimit > 0 {
			r.Use(MemoryLimit(cfg.memoryLimit, cfg.readMem))
		}

		r.HandleFunc("/", handleRunQuery(uc, target))
	})

	return &Server{
		mux: route,
	}
}

func handleRunQuery(uc interfaces.UseCase, target model.QueryTarget) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		req := target.Request(types.CSObjectID(r.URL.Query().Get(ObjectParam)))

		// Failure is already logged by the use case
		if _, err := uc.RunQuery(ctx, req); err != nil {
			kind := types.KindOf(err)
			http.Error(w, kind.String(), statusCode(kind))
			return
		}

		w.WriteHeader(http.StatusOK)
		utils.SafeWrite(w, []byte(SuccessMessage))
	}
}

func statusCode(kind types.ErrorKind) int {
	switch kind {
	case types.KindNotFound:
		return http.StatusNotFound
	case types.KindPermissionDenied:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func (x *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	x.mux.ServeHTTP(w, r)
}
