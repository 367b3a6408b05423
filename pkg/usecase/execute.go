package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/bqrun/pkg/domain/model"
	"github.com/secmon-lab/bqrun/pkg/infra/apierr"
	"github.com/secmon-lab/bqrun/pkg/utils"
)

// ExecuteQuery runs query as a BigQuery job writing into dst and waits for the job to finish. Cancellation of ctx does not stop the job.
func (x *UseCase) ExecuteQuery(ctx context.Context, query string, dst model.TableRef) (*model.QueryJob, error) {
	ctx = context.WithoutCancel(ctx)

	job, err := x.clients.BigQuery().RunQuery(ctx, query, dst)
	if err != nil {
		err = goerr.Wrap(apierr.Translate(err), "failed to execute query", goerr.V("dst", dst))
		utils.HandleError(ctx, "failed to execute query", err)
		return nil, err
	}

	utils.CtxLogger(ctx).Info("query executed",
		"job_id", job.ID,
		"location", job.Location,
		"dst", dst,
	)

	return job, nil
}
