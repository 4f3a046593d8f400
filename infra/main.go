package infra

import (
	"context"
	"fmt"

	"github.com/clusterbreakdown/cost-report-service/config"
)

// Infra bundles the process-wide clients. Instances are constructed once at
// startup and passed by reference to the HTTP layer; there is no package-level
// singleton so tests can substitute fakes freely.
type Infra struct {
	Redis    *RedisClient
	Postgres *PostgresClient
	Logger   *LoggerClient
	Minio    *MinioClient
}

func InitInfra(cfg *config.Config) (*Infra, error) {
	logger, err := NewLoggerClient(cfg.EnvConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger client: %w", err)
	}

	redis, err := NewRedisClient(cfg.EnvConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Redis client: %w", err)
	}

	postgres, err := NewPostgresClient(cfg.EnvConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Postgres client: %w", err)
	}

	minio, err := NewMinioClient(cfg.EnvConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize MinIO client: %w", err)
	}

	if err := minio.EnsureBucket(context.Background(), cfg.EnvConfig.Report.Bucket); err != nil {
		return nil, fmt.Errorf("failed to ensure report bucket: %w", err)
	}

	return &Infra{
		Redis:    redis,
		Postgres: postgres,
		Logger:   logger,
		Minio:    minio,
	}, nil
}

// Close tears the clients down in reverse dependency order.
func (i *Infra) Close(ctx context.Context) error {
	var firstErr error
	if i.Redis != nil {
		if err := i.Redis.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if i.Postgres != nil {
		if err := i.Postgres.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if i.Logger != nil {
		if err := i.Logger.Shutdown(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
