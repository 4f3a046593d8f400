package repository

import (
	"github.com/clusterbreakdown/cost-report-service/config"
	"github.com/clusterbreakdown/cost-report-service/infra"
)

type Repository struct {
	UploadRecordRepo *UploadRecordRepository
}

func InitRepository(cfg *config.Config, infra *infra.Infra) *Repository {
	return &Repository{
		UploadRecordRepo: NewUploadRecordRepository(infra.Postgres.DB, cfg.EnvConfig.Report.Table),
	}
}
