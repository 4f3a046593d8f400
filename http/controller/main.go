package controller

import (
	"context"
	"io"
	"time"

	"github.com/clusterbreakdown/cost-report-service/config"
	"github.com/clusterbreakdown/cost-report-service/entity"
	"github.com/clusterbreakdown/cost-report-service/infra"
	"github.com/clusterbreakdown/cost-report-service/repository"
)

// ObjectStore is the object-store surface the handlers need. Satisfied by
// infra.MinioClient and by in-memory fakes in tests.
type ObjectStore interface {
	PutObject(ctx context.Context, bucket, key string, data io.Reader, size int64, contentType string) error
	GetObject(ctx context.Context, bucket, key string) ([]byte, string, error)
	DeleteObject(ctx context.Context, bucket, key string) error
}

// RecordStore is the metadata-store surface the handlers need. Satisfied by
// repository.UploadRecordRepository.
type RecordStore interface {
	Upsert(filename string, patch entity.UploadRecordPatch) error
	FindByFilename(filename string) (*entity.UploadRecord, error)
	ListAll() ([]entity.UploadRecord, error)
	Delete(filename string) error
}

// SummaryCache caches parsed report summaries. Satisfied by infra.RedisClient;
// a nil cache disables caching.
type SummaryCache interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, keys ...string) error
}

type Controller struct {
	Config  *config.Config
	Infra   *infra.Infra
	Objects ObjectStore
	Records RecordStore
	Cache   SummaryCache
	Logger  *infra.LoggerClient
}

func NewController(cfg *config.Config, inf *infra.Infra, repo *repository.Repository) *Controller {
	if repo == nil {
		panic("Failed to initialize Repository")
	}
	return &Controller{
		Config:  cfg,
		Infra:   inf,
		Objects: inf.Minio,
		Records: repo.UploadRecordRepo,
		Cache:   inf.Redis,
		Logger:  inf.Logger,
	}
}

func (ctrl *Controller) bucket() string {
	return ctrl.Config.EnvConfig.Report.Bucket
}

func (ctrl *Controller) summaryCacheKey(filename string) string {
	return "report:summary:" + filename
}

func (ctrl *Controller) summaryCacheTTL() time.Duration {
	return time.Duration(ctrl.Config.EnvConfig.Report.SummaryCacheTTL) * time.Second
}
