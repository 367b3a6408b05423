package usecase

import (
	"sync"

	"cloud.google.com/go/bigquery"
	"github.com/secmon-lab/bqrun/pkg/domain/interfaces"
	"github.com/secmon-lab/bqrun/pkg/domain/model"
	"github.com/secmon-lab/bqrun/pkg/infra"
)

type UseCase struct {
	clients *infra.Clients
	jobLog  *model.JobLogConfig

	jobLogMutex  sync.Mutex
	jobLogSchema bigquery.Schema
}

var _ interfaces.UseCase = &UseCase{}

func New(clients *infra.Clients, options ...Option) *UseCase {
	uc := &UseCase{
		clients: clients,
	}

	for _, option := range options {
		option(uc)
	}

	return uc
}

type Option func(*UseCase)

// WithJobLog enables writing one row per run into the job log table.
func WithJobLog(cfg *model.JobLogConfig) Option {
	return func(uc *UseCase) {
		uc.jobLog = cfg
	}
}
