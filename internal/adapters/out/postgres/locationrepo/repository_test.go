package locationrepo_test

import (
	"context"
	"testing"
	"time"

	"fooddelivery/internal/adapters/out/postgres/locationrepo"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/location"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func TestSave_OnlyNewerSamplesOverwrite(t *testing.T) {
	sqlDB, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	repo := locationrepo.NewGormLocationRepository(db)

	pos, err := kernel.NewLocation(41.3, 69.2)
	require.NoError(t, err)
	sample, err := location.NewSample(kernel.NewUUID(), location.OrderScope(kernel.NewUUID()), pos, time.Now())
	require.NoError(t, err)

	upsert := `INSERT INTO "location_samples" .* ON CONFLICT \("subject_id","scope"\) DO UPDATE SET .* WHERE location_samples.recorded_at <= excluded.recorded_at`

	sqlMock.ExpectExec(upsert).WillReturnResult(sqlmock.NewResult(0, 1))
	stored, err := repo.Save(context.Background(), sample)
	require.NoError(t, err)
	assert.True(t, stored)

	sqlMock.ExpectExec(upsert).WillReturnResult(sqlmock.NewResult(0, 0))
	stored, err = repo.Save(context.Background(), sample)
	require.NoError(t, err)
	assert.False(t, stored, "a stale sample matches no row")

	assert.NoError(t, sqlMock.ExpectationsWereMet())
}
