package usecase

import (
	"context"
	"time"

	"github.com/secmon-lab/bqrun/pkg/domain/model"
	"github.com/secmon-lab/bqrun/pkg/domain/types"
	"github.com/secmon-lab/bqrun/pkg/utils"
)

// RunQuery loads SQL from req.Source and executes it into req.Destination. The query is not executed if loading fails.
func (x *UseCase) RunQuery(ctx context.Context, req *model.RunRequest) (*model.RunResult, error) {
	reqID, ctx := utils.CtxRequestID(ctx)

	jobLog := &model.JobLog{
		ID:          reqID,
		Source:      req.Source,
		Destination: req.Destination,
		StartedAt:   time.Now(),
		AppVersion:  types.AppVersion,
	}
	if x.jobLog != nil {
		defer func() {
			jobLog.FinishedAt = time.Now()
			x.writeJobLog(ctx, jobLog)
		}()
	}

	query, err := x.LoadQuery(ctx, req.Source)
	if err != nil {
		setJobLogError(jobLog, err)
		return nil, err
	}
	jobLog.QueryBytes = len(query)

	job, err := x.ExecuteQuery(ctx, query, req.Destination)
	if err != nil {
		setJobLogError(jobLog, err)
		return nil, err
	}

	jobLog.JobID = job.ID
	jobLog.Location = job.Location
	jobLog.Success = true

	return &model.RunResult{
		RequestID: reqID,
		Job:       job,
	}, nil
}

func setJobLogError(jobLog *model.JobLog, err error) {
	jobLog.ErrorKind = types.KindOf(err).String()
	jobLog.Error = err.Error()
}
