package message_test

import (
	"strings"
	"testing"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/message"
	"fooddelivery/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessage(t *testing.T) {
	orderID, client, courier := kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID()
	sentAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("should create message", func(t *testing.T) {
		m, err := message.NewMessage(kernel.NewUUID(), orderID, client, courier, " at the door ", sentAt)

		require.NoError(t, err)
		require.NoError(t, m.Validate())
		assert.Equal(t, "at the door", m.Body())
		assert.True(t, m.SenderID().IsEqual(client))
		assert.True(t, m.RecipientID().IsEqual(courier))
		assert.Equal(t, sentAt, m.SentAt())
	})

	t.Run("should reject self message", func(t *testing.T) {
		_, err := message.NewMessage(kernel.NewUUID(), orderID, client, client, "hi", sentAt)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should reject blank and oversized body", func(t *testing.T) {
		_, err := message.NewMessage(kernel.NewUUID(), orderID, client, courier, "   ", sentAt)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

		_, err = message.NewMessage(kernel.NewUUID(), orderID, client, courier, strings.Repeat("x", message.MaxBodyLength+1), sentAt)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})
}
