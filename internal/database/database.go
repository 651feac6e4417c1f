package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/marks-dashboard/backend/internal/config"
	"github.com/marks-dashboard/backend/internal/model"
)

// InitDB opens the SQL database backing the postgres and sqlite drivers.
func InitDB(cfg config.StoreConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.PostgresDSN())
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.SQLitePath)
	default:
		return nil, errors.Wrapf(ErrUnknownDriver, "sql driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to the database")
	}
	if cfg.Driver == config.DriverSQLite {
		// sqlite serializes writers; one connection also keeps ":memory:" a single database
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

// GormStore keeps records as rows of one table.
type GormStore struct {
	db    *gorm.DB
	table string
}

// NewGormStore migrates the records table and returns a store over it.
func NewGormStore(db *gorm.DB, table string) (*GormStore, error) {
	table = collectionName(table)
	if err := db.Table(table).AutoMigrate(&model.MarkRecord{}); err != nil {
		return nil, errors.Wrap(err, "failed to auto-migrate the database")
	}
	return &GormStore{db: db, table: table}, nil
}

func (s *GormStore) Insert(ctx context.Context, rec model.MarkRecord) (string, error) {
	rec.ID = uuid.NewString()
	if err := s.db.WithContext(ctx).Table(s.table).Create(&rec).Error; err != nil {
		return "", errors.Wrap(err, "insert record")
	}
	return rec.ID, nil
}

func (s *GormStore) All(ctx context.Context) ([]model.MarkRecord, error) {
	var records []model.MarkRecord
	if err := s.db.WithContext(ctx).Table(s.table).Find(&records).Error; err != nil {
		return nil, errors.Wrap(err, "list records")
	}
	return records, nil
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
