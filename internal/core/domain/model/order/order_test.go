package order_test

import (
	"testing"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newAddress(t *testing.T) kernel.Address {
	t.Helper()
	addr, err := kernel.NewAddress(kernel.NewUUID(), "Old Town", "12 Baker St")
	require.NoError(t, err)
	return addr
}

func newItem(t *testing.T, restaurantID kernel.UUID, qty int, price string) order.LineItem {
	t.Helper()
	item, err := order.NewLineItem(kernel.NewUUID(), restaurantID, qty, decimal.RequireFromString(price))
	require.NoError(t, err)
	return item
}

func newPendingOrder(t *testing.T, clientID kernel.UUID) *order.Order {
	t.Helper()
	restaurantID := kernel.NewUUID()
	o, err := order.NewOrder(kernel.NewUUID(), clientID, newAddress(t), []order.LineItem{
		newItem(t, restaurantID, 2, "4.50"),
		newItem(t, restaurantID, 1, "3.00"),
	}, now)
	require.NoError(t, err)
	return o
}

func TestNewOrder(t *testing.T) {
	clientID := kernel.NewUUID()

	t.Run("should create pending unclaimed order with computed total", func(t *testing.T) {
		o := newPendingOrder(t, clientID)

		require.NoError(t, o.Validate())
		assert.Equal(t, order.Pending, o.Status())
		assert.Nil(t, o.Courier())
		assert.True(t, o.ClientID().IsEqual(clientID))
		assert.True(t, decimal.RequireFromString("12.00").Equal(o.Total()))
		assert.Len(t, o.Items(), 2)
		assert.Equal(t, now, o.CreatedAt())

		events := o.DomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, order.EventCreated, events[0].Type)
		assert.True(t, events[0].OrderID.IsEqual(o.ID()))
	})

	t.Run("should reject empty items", func(t *testing.T) {
		o, err := order.NewOrder(kernel.NewUUID(), clientID, newAddress(t), nil, now)

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.Nil(t, o)
	})

	t.Run("should reject items from different restaurants", func(t *testing.T) {
		o, err := order.NewOrder(kernel.NewUUID(), clientID, newAddress(t), []order.LineItem{
			newItem(t, kernel.NewUUID(), 1, "1"),
			newItem(t, kernel.NewUUID(), 1, "1"),
		}, now)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Nil(t, o)
	})

	t.Run("should reject incomplete address", func(t *testing.T) {
		o, err := order.NewOrder(kernel.NewUUID(), clientID, kernel.Address{}, []order.LineItem{
			newItem(t, kernel.NewUUID(), 1, "1"),
		}, now)

		require.ErrorIs(t, err, kernel.ErrAddressIsNotConstructed)
		assert.Nil(t, o)
	})

	t.Run("zero value is not constructed", func(t *testing.T) {
		var o *order.Order
		require.ErrorIs(t, o.Validate(), order.ErrOrderIsNotConstructed)
		require.ErrorIs(t, (&order.Order{}).Validate(), order.ErrOrderIsNotConstructed)
	})
}

func TestRestoreOrder(t *testing.T) {
	courierID := kernel.NewUUID()
	restaurantID := kernel.NewUUID()
	items := []order.LineItem{newItem(t, restaurantID, 1, "5")}

	t.Run("should restore en route order", func(t *testing.T) {
		o, err := order.RestoreOrder(kernel.NewUUID(), kernel.NewUUID(), &courierID, order.EnRoute,
			newAddress(t), items, now, now.Add(time.Minute), 3)

		require.NoError(t, err)
		assert.Equal(t, int64(3), o.Version())
		assert.True(t, o.IsCourier(courierID))
		assert.Empty(t, o.DomainEvents())
	})

	t.Run("should reject en route order without courier", func(t *testing.T) {
		_, err := order.RestoreOrder(kernel.NewUUID(), kernel.NewUUID(), nil, order.EnRoute,
			newAddress(t), items, now, now, 1)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestOrder_Claim(t *testing.T) {
	t.Run("should set courier and keep pending", func(t *testing.T) {
		o := newPendingOrder(t, kernel.NewUUID())
		courierID := kernel.NewUUID()

		require.NoError(t, o.Claim(courierID, now))

		assert.Equal(t, order.Pending, o.Status())
		require.NotNil(t, o.Courier())
		assert.True(t, o.Courier().IsEqual(courierID))
		assert.Equal(t, order.EventClaimed, o.DomainEvents()[1].Type)
	})

	t.Run("second claim conflicts and courier never changes", func(t *testing.T) {
		o := newPendingOrder(t, kernel.NewUUID())
		first := kernel.NewUUID()
		require.NoError(t, o.Claim(first, now))

		err := o.Claim(kernel.NewUUID(), now)

		require.ErrorIs(t, err, errs.ErrConflict)
		assert.True(t, o.Courier().IsEqual(first))

		err = o.Claim(first, now)
		require.ErrorIs(t, err, errs.ErrConflict)
	})

	t.Run("cancelled order cannot be claimed", func(t *testing.T) {
		clientID := kernel.NewUUID()
		o := newPendingOrder(t, clientID)
		require.NoError(t, o.Cancel(clientID, now))

		err := o.Claim(kernel.NewUUID(), now)

		require.ErrorIs(t, err, errs.ErrTransitionIsInvalid)
		assert.Nil(t, o.Courier())
	})

	t.Run("courier id is required", func(t *testing.T) {
		o := newPendingOrder(t, kernel.NewUUID())

		require.ErrorIs(t, o.Claim(kernel.UUID{}, now), errs.ErrValueIsRequired)
	})
}

func TestOrder_Advance(t *testing.T) {
	courierID := kernel.NewUUID()
	claimed := func(t *testing.T) *order.Order {
		o := newPendingOrder(t, kernel.NewUUID())
		require.NoError(t, o.Claim(courierID, now))
		return o
	}

	t.Run("should walk pending to delivered", func(t *testing.T) {
		o := claimed(t)

		require.NoError(t, o.Advance(courierID, order.EnRoute, now))
		assert.Equal(t, order.EnRoute, o.Status())
		require.NoError(t, o.Advance(courierID, order.Delivered, now.Add(time.Hour)))
		assert.Equal(t, order.Delivered, o.Status())
		assert.Equal(t, now.Add(time.Hour), o.UpdatedAt())
	})

	t.Run("other courier is forbidden", func(t *testing.T) {
		o := claimed(t)

		err := o.Advance(kernel.NewUUID(), order.EnRoute, now)

		require.ErrorIs(t, err, errs.ErrActionIsForbidden)
		assert.Equal(t, order.Pending, o.Status())
	})

	t.Run("unclaimed order is forbidden for everyone", func(t *testing.T) {
		o := newPendingOrder(t, kernel.NewUUID())

		require.ErrorIs(t, o.Advance(courierID, order.EnRoute, now), errs.ErrActionIsForbidden)
	})

	t.Run("skipping edges is invalid", func(t *testing.T) {
		o := claimed(t)

		require.ErrorIs(t, o.Advance(courierID, order.Delivered, now), errs.ErrTransitionIsInvalid)
		require.NoError(t, o.Advance(courierID, order.EnRoute, now))
		require.ErrorIs(t, o.Advance(courierID, order.Cancelled, now), errs.ErrTransitionIsInvalid)
	})

	t.Run("repeating a reached target conflicts", func(t *testing.T) {
		o := claimed(t)
		require.NoError(t, o.Advance(courierID, order.EnRoute, now))

		require.ErrorIs(t, o.Advance(courierID, order.EnRoute, now), errs.ErrConflict)
		require.NoError(t, o.Advance(courierID, order.Delivered, now))
		require.ErrorIs(t, o.Advance(courierID, order.EnRoute, now), errs.ErrConflict)
		require.ErrorIs(t, o.Advance(courierID, order.Delivered, now), errs.ErrConflict)
		assert.Equal(t, order.Delivered, o.Status())
	})
}

func TestOrder_ClientChanges(t *testing.T) {
	clientID := kernel.NewUUID()

	t.Run("cancel keeps record and records event", func(t *testing.T) {
		o := newPendingOrder(t, clientID)

		require.NoError(t, o.Cancel(clientID, now))

		assert.Equal(t, order.Cancelled, o.Status())
		assert.Equal(t, order.EventCancelled, o.DomainEvents()[1].Type)
	})

	t.Run("edit recomputes total", func(t *testing.T) {
		o := newPendingOrder(t, clientID)
		item := newItem(t, o.RestaurantID(), 4, "1.25")

		require.NoError(t, o.Edit(clientID, []order.LineItem{item}, now))

		assert.True(t, decimal.NewFromInt(5).Equal(o.Total()))
		assert.Len(t, o.Items(), 1)
	})

	t.Run("edit rejects items of another restaurant", func(t *testing.T) {
		o := newPendingOrder(t, clientID)
		before := o.Total()

		err := o.Edit(clientID, []order.LineItem{newItem(t, kernel.NewUUID(), 1, "1")}, now)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.True(t, before.Equal(o.Total()))
		assert.Len(t, o.Items(), 2)
	})

	t.Run("edit rejects empty items", func(t *testing.T) {
		o := newPendingOrder(t, clientID)

		require.ErrorIs(t, o.Edit(clientID, nil, now), errs.ErrValueIsRequired)
	})

	t.Run("non owner is forbidden", func(t *testing.T) {
		o := newPendingOrder(t, clientID)
		stranger := kernel.NewUUID()

		require.ErrorIs(t, o.Cancel(stranger, now), errs.ErrActionIsForbidden)
		require.ErrorIs(t, o.Edit(stranger, o.Items(), now), errs.ErrActionIsForbidden)
		require.ErrorIs(t, o.MarkDeleted(stranger, now), errs.ErrActionIsForbidden)
	})

	t.Run("claimed order is frozen for the client", func(t *testing.T) {
		o := newPendingOrder(t, clientID)
		require.NoError(t, o.Claim(kernel.NewUUID(), now))

		require.ErrorIs(t, o.Cancel(clientID, now), errs.ErrTransitionIsInvalid)
		require.ErrorIs(t, o.Edit(clientID, o.Items(), now), errs.ErrTransitionIsInvalid)
		require.ErrorIs(t, o.MarkDeleted(clientID, now), errs.ErrTransitionIsInvalid)
		assert.Equal(t, order.Pending, o.Status())
	})

	t.Run("cancelled order cannot be cancelled again or deleted", func(t *testing.T) {
		o := newPendingOrder(t, clientID)
		require.NoError(t, o.Cancel(clientID, now))

		require.ErrorIs(t, o.Cancel(clientID, now), errs.ErrTransitionIsInvalid)
		require.ErrorIs(t, o.MarkDeleted(clientID, now), errs.ErrTransitionIsInvalid)
	})

	t.Run("delete records event", func(t *testing.T) {
		o := newPendingOrder(t, clientID)
		o.ClearDomainEvents()

		require.NoError(t, o.MarkDeleted(clientID, now))

		events := o.DomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, order.EventDeleted, events[0].Type)
	})
}
