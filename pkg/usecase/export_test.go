package usecase

import (
	"cloud.google.com/go/bigquery"
	"github.com/m-mizutani/bqs"
	"github.com/secmon-lab/bqrun/pkg/domain/model"
)

var CreateOrUpdateTable = createOrUpdateTable

func JobLogSchema() (bigquery.Schema, error) {
	return bqs.Infer(&model.JobLog{})
}
