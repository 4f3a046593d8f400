package infra

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/clusterbreakdown/cost-report-service/config"
	"github.com/clusterbreakdown/cost-report-service/entity"
)

type PostgresClient struct {
	DB *gorm.DB
}

func NewPostgresClient(cfg *config.EnvConfig) (*PostgresClient, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.Postgres.Host,
		cfg.Postgres.Username,
		cfg.Postgres.Password,
		cfg.Postgres.Database,
		cfg.Postgres.Port,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}

	if err := db.Table(cfg.Report.Table).AutoMigrate(&entity.UploadRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate %s: %w", cfg.Report.Table, err)
	}

	return &PostgresClient{DB: db}, nil
}

func (p *PostgresClient) Ping() error {
	sqlDB, err := p.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func (p *PostgresClient) Close() error {
	sqlDB, err := p.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
