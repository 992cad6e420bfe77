// Package messagerepo persists the chat between an order's client and courier.
package messagerepo

import (
	"context"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/message"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MessageDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID `gorm:"type:uuid;not null;index:idx_messages_order_sent,priority:1"`
	SenderID    uuid.UUID `gorm:"type:uuid;not null"`
	RecipientID uuid.UUID `gorm:"type:uuid;not null"`
	Body        string    `gorm:"type:text;not null"`
	SentAt      time.Time `gorm:"not null;index:idx_messages_order_sent,priority:2"`
}

func (MessageDTO) TableName() string {
	return "messages"
}

type GormMessageRepository struct {
	db *gorm.DB
}

func NewGormMessageRepository(db *gorm.DB) *GormMessageRepository {
	return &GormMessageRepository{db: db}
}

func (r *GormMessageRepository) Add(ctx context.Context, m *message.Message) error {
	if err := m.Validate(); err != nil {
		return err
	}

	dto := MessageDTO{
		ID:          m.ID().Bytes(),
		OrderID:     m.OrderID().Bytes(),
		SenderID:    m.SenderID().Bytes(),
		RecipientID: m.RecipientID().Bytes(),
		Body:        m.Body(),
		SentAt:      m.SentAt(),
	}
	return r.db.WithContext(ctx).Create(&dto).Error
}

// ListByOrder returns the oldest limit messages of the order.
func (r *GormMessageRepository) ListByOrder(ctx context.Context, orderID kernel.UUID, limit int) ([]*message.Message, error) {
	var dtos []MessageDTO
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID.Bytes()).
		Order("sent_at, id").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	messages := make([]*message.Message, 0, len(dtos))
	for _, dto := range dtos {
		m, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, nil
}

func toDomain(dto MessageDTO) (*message.Message, error) {
	ids := make([]kernel.UUID, 0, 4)
	for _, raw := range []uuid.UUID{dto.ID, dto.OrderID, dto.SenderID, dto.RecipientID} {
		id, err := kernel.UUIDFromBytes(raw[:])
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return message.NewMessage(ids[0], ids[1], ids[2], ids[3], dto.Body, dto.SentAt)
}
