// Package ratingrepo persists client ratings, one per order.
package ratingrepo

import (
	"context"
	"errors"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/rating"
	"fooddelivery/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RatingDTO struct {
	OrderID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	ClientID  uuid.UUID `gorm:"type:uuid;not null"`
	Score     int       `gorm:"not null"`
	Comment   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime:false"`
}

func (RatingDTO) TableName() string {
	return "ratings"
}

type GormRatingRepository struct {
	db *gorm.DB
}

func NewGormRatingRepository(db *gorm.DB) *GormRatingRepository {
	return &GormRatingRepository{db: db}
}

// Add inserts the rating unless the order already has one.
func (r *GormRatingRepository) Add(ctx context.Context, rt *rating.Rating) error {
	if err := rt.Validate(); err != nil {
		return err
	}

	dto := RatingDTO{
		OrderID:   rt.OrderID().Bytes(),
		ClientID:  rt.ClientID().Bytes(),
		Score:     rt.Score(),
		Comment:   rt.Comment(),
		CreatedAt: rt.CreatedAt(),
	}

	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewConflictError("rating", rt.OrderID(), "order is already rated")
	}
	return nil
}

func (r *GormRatingRepository) Get(ctx context.Context, orderID kernel.UUID) (*rating.Rating, error) {
	var dto RatingDTO
	if err := r.db.WithContext(ctx).First(&dto, "order_id = ?", orderID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("rating", orderID.String())
		}
		return nil, err
	}

	clientID, err := kernel.UUIDFromBytes(dto.ClientID[:])
	if err != nil {
		return nil, err
	}
	return rating.NewRating(orderID, clientID, dto.Score, dto.Comment, dto.CreatedAt)
}

func (r *GormRatingRepository) Exists(ctx context.Context, orderID kernel.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&RatingDTO{}).Where("order_id = ?", orderID.Bytes()).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
