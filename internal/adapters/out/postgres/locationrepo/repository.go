// Package locationrepo keeps the latest location sample per subject and scope.
package locationrepo

import (
	"context"
	"errors"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/location"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SampleDTO is one row of location_samples. OrderID is set for order scopes so
// that samples of finished orders can be found without parsing Scope.
type SampleDTO struct {
	SubjectID  uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Scope      string     `gorm:"primaryKey"`
	OrderID    *uuid.UUID `gorm:"type:uuid;index"`
	Latitude   float64    `gorm:"not null"`
	Longitude  float64    `gorm:"not null"`
	RecordedAt time.Time  `gorm:"not null"`
}

func (SampleDTO) TableName() string {
	return "location_samples"
}

type GormLocationRepository struct {
	db *gorm.DB
}

func NewGormLocationRepository(db *gorm.DB) *GormLocationRepository {
	return &GormLocationRepository{db: db}
}

// Save upserts the sample. The update branch only fires when the incoming sample
// is at least as recent as the stored one, so a late arrival affects no rows.
func (r *GormLocationRepository) Save(ctx context.Context, s *location.Sample) (bool, error) {
	if err := s.Validate(); err != nil {
		return false, err
	}

	dto := SampleDTO{
		SubjectID:  s.SubjectID().Bytes(),
		Scope:      s.Scope().String(),
		Latitude:   s.Position().Latitude(),
		Longitude:  s.Position().Longitude(),
		RecordedAt: s.RecordedAt(),
	}
	if orderID := s.Scope().OrderID(); orderID != nil {
		raw := orderID.Bytes()
		dto.OrderID = &raw
	}

	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "subject_id"}, {Name: "scope"}},
		DoUpdates: clause.AssignmentColumns([]string{"latitude", "longitude", "recorded_at"}),
		Where: clause.Where{Exprs: []clause.Expression{
			clause.Expr{SQL: "location_samples.recorded_at <= excluded.recorded_at"},
		}},
	}).Create(&dto)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *GormLocationRepository) Get(ctx context.Context, subjectID kernel.UUID, scope location.Scope) (*location.Sample, error) {
	var dto SampleDTO
	err := r.db.WithContext(ctx).First(&dto, "subject_id = ? AND scope = ?", subjectID.Bytes(), scope.String()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("location", scope.String())
		}
		return nil, err
	}

	position, err := kernel.NewLocation(dto.Latitude, dto.Longitude)
	if err != nil {
		return nil, err
	}
	return location.NewSample(subjectID, scope, position, dto.RecordedAt)
}

// PurgeInactiveOrderScopes deletes order-scoped samples whose order is terminal or gone.
func (r *GormLocationRepository) PurgeInactiveOrderScopes(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("order_id IS NOT NULL").
		Where("NOT EXISTS (SELECT 1 FROM orders WHERE orders.id = location_samples.order_id AND orders.status IN ?)",
			[]int{int(order.Pending), int(order.EnRoute)}).
		Delete(&SampleDTO{})
	return result.RowsAffected, result.Error
}
