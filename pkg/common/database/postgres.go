package database

import (
	"fmt"
	"sync"
	"time"

	"github.com/synaptica-ai/premium-estimator/pkg/common/config"
	"github.com/synaptica-ai/premium-estimator/pkg/common/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var (
	db     *gorm.DB
	dbOnce sync.Once
	dbErr  error
)

// GetPostgres opens the shared audit database connection on first use.
func GetPostgres(cfg *config.Config) (*gorm.DB, error) {
	dbOnce.Do(func() {
		db, dbErr = gorm.Open(postgres.Open(cfg.PostgresDSN()), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Warn),
		})
		if dbErr != nil {
			dbErr = fmt.Errorf("connecting to postgres at %s:%s: %w", cfg.PostgresHost, cfg.PostgresPort, dbErr)
			logger.Log.WithError(dbErr).Error("Failed to connect to PostgreSQL")
			return
		}

		sqlDB, err := db.DB()
		if err != nil {
			dbErr = err
			return
		}
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)

		logger.Log.WithField("database", cfg.PostgresDB).Info("Connected to PostgreSQL")
	})

	return db, dbErr
}

func ClosePostgres() error {
	if db != nil {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}
