package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fooddelivery/internal/adapters/out/postgres/catalogrepo"
	"fooddelivery/internal/adapters/out/postgres/locationrepo"
	"fooddelivery/internal/adapters/out/postgres/messagerepo"
	"fooddelivery/internal/adapters/out/postgres/orderrepo"
	"fooddelivery/internal/adapters/out/postgres/outboxrepo"
	"fooddelivery/internal/adapters/out/postgres/ratingrepo"
	"fooddelivery/internal/core/domain/model/order"

	_ "github.com/lib/pq" // registers the "postgres" database/sql driver
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// PoolConfig bounds the connection pool behind the gorm handle.
type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Open connects through lib/pq and configures the pool. GORM reports slow
// queries and errors through log at warn level.
func Open(dsn string, pool PoolConfig, log *slog.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(gorm_postgres.New(gorm_postgres.Config{
		DriverName: "postgres",
		DSN:        dsn,
	}), &gorm.Config{
		Logger: logger.New(slog.NewLogLogger(log.Handler(), slog.LevelWarn), logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if pool.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(pool.MaxOpenConns)
	}
	if pool.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(pool.MaxIdleConns)
	}
	if pool.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(pool.ConnMaxLifetime)
	}

	return db, nil
}

// Migrate creates or updates the schema. The partial unique index is what makes
// "one active order per client" hold under concurrent inserts.
func Migrate(ctx context.Context, db *gorm.DB) error {
	db = db.WithContext(ctx)

	if err := db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.LineItemDTO{},
		&ratingrepo.RatingDTO{},
		&messagerepo.MessageDTO{},
		&locationrepo.SampleDTO{},
		&outboxrepo.MessageDTO{},
		// products belongs to the catalog service; created here so a fresh database works.
		&catalogrepo.ProductDTO{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	activeIndex := fmt.Sprintf(
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_orders_one_active_per_client ON orders (client_id) WHERE status IN (%d, %d)",
		int(order.Pending), int(order.EnRoute),
	)
	if err := db.Exec(activeIndex).Error; err != nil {
		return fmt.Errorf("create active order index: %w", err)
	}

	return nil
}
