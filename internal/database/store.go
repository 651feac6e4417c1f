package database

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/marks-dashboard/backend/internal/config"
	"github.com/marks-dashboard/backend/internal/model"
)

// Store is a schemaless collection of mark records supporting single
// document inserts and full collection scans.
type Store interface {
	// Insert writes one record under a newly generated id and returns the id.
	// Any id already set on rec is ignored.
	Insert(ctx context.Context, rec model.MarkRecord) (string, error)
	// All returns every record in the collection, unsorted.
	All(ctx context.Context) ([]model.MarkRecord, error)
	Close() error
}

var ErrUnknownDriver = errors.New("unknown store driver")

// Open connects to the store selected by cfg.Driver.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case config.DriverFirestore:
		return NewFirestoreStore(ctx, cfg)
	case config.DriverMongo:
		return NewMongoStore(ctx, cfg)
	case config.DriverRedis:
		return NewRedisStore(ctx, cfg)
	case config.DriverPostgres, config.DriverSQLite:
		db, err := InitDB(cfg)
		if err != nil {
			return nil, err
		}
		return NewGormStore(db, cfg.Collection)
	}
	return nil, errors.Wrapf(ErrUnknownDriver, "driver %q", cfg.Driver)
}

var (
	sharedOnce  sync.Once
	sharedStore Store
	sharedErr   error
)

// Shared returns the process-wide store handle, connecting on first use.
// Later calls return the same handle (or the same error) regardless of cfg.
func Shared(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	sharedOnce.Do(func() {
		sharedStore, sharedErr = Open(ctx, cfg)
	})
	return sharedStore, sharedErr
}

func collectionName(name string) string {
	if name == "" {
		return model.Collection
	}
	return name
}
