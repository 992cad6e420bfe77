package ratingrepo_test

import (
	"context"
	"testing"
	"time"

	"fooddelivery/internal/adapters/out/postgres/ratingrepo"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/rating"
	"fooddelivery/internal/pkg/errs"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func TestAdd_SecondRatingConflicts(t *testing.T) {
	sqlDB, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	repo := ratingrepo.NewGormRatingRepository(db)

	rt, err := rating.NewRating(kernel.NewUUID(), kernel.NewUUID(), 4, "ok", time.Now())
	require.NoError(t, err)

	sqlMock.ExpectExec(`INSERT INTO "ratings" .* ON CONFLICT DO NOTHING`).WillReturnResult(sqlmock.NewResult(0, 1))
	sqlMock.ExpectExec(`INSERT INTO "ratings" .* ON CONFLICT DO NOTHING`).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Add(context.Background(), rt))
	require.ErrorIs(t, repo.Add(context.Background(), rt), errs.ErrConflict)

	assert.NoError(t, sqlMock.ExpectationsWereMet())
}
