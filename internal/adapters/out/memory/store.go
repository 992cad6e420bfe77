// Package memory is a process-local implementation of the storage ports.
//
// Writes inside a unit of work are staged and applied on Commit under one lock,
// with every precondition checked again at that moment. Outside a unit of work
// each write is applied immediately. That gives the same conditional-write
// semantics as the Postgres adapter, which makes the store suitable for tests
// and single-instance runs.
package memory

import (
	"context"
	"sync"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/location"
	"fooddelivery/internal/core/domain/model/message"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/domain/model/rating"
	"fooddelivery/internal/core/ports"
	"fooddelivery/internal/pkg/errs"
)

type orderRecord struct {
	id        kernel.UUID
	clientID  kernel.UUID
	courierID *kernel.UUID
	status    order.Status
	address   kernel.Address
	items     []order.LineItem
	createdAt time.Time
	updatedAt time.Time
	version   int64
}

func recordOf(o *order.Order, version int64) orderRecord {
	return orderRecord{
		id:        o.ID(),
		clientID:  o.ClientID(),
		courierID: o.Courier(),
		status:    o.Status(),
		address:   o.Address(),
		items:     o.Items(),
		createdAt: o.CreatedAt(),
		updatedAt: o.UpdatedAt(),
		version:   version,
	}
}

func (r orderRecord) restore() (*order.Order, error) {
	return order.RestoreOrder(r.id, r.clientID, r.courierID, r.status, r.address, r.items,
		r.createdAt, r.updatedAt, r.version)
}

type outboxRow struct {
	msg         ports.OutboxMessage
	publishedAt *time.Time
}

type locationKey struct {
	subject kernel.UUID
	scope   string
}

// Store holds all state. The zero value is not usable; use NewStore.
type Store struct {
	mu        sync.Mutex
	orders    map[kernel.UUID]orderRecord
	ratings   map[kernel.UUID]*rating.Rating
	messages  map[kernel.UUID][]*message.Message
	locations map[locationKey]*location.Sample
	outbox    []outboxRow
}

func NewStore() *Store {
	return &Store{
		orders:    make(map[kernel.UUID]orderRecord),
		ratings:   make(map[kernel.UUID]*rating.Rating),
		messages:  make(map[kernel.UUID][]*message.Message),
		locations: make(map[locationKey]*location.Sample),
	}
}

// write is a staged change: check runs for all writes of a commit before any
// apply, both under the store lock.
type write struct {
	check func(s *Store) error
	apply func(s *Store)
}

func (s *Store) commit(writes []write, events []ports.OutboxMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, w := range writes {
		if w.check == nil {
			continue
		}
		if err := w.check(s); err != nil {
			return err
		}
	}
	for _, w := range writes {
		w.apply(s)
	}
	for _, msg := range events {
		s.outbox = append(s.outbox, outboxRow{msg: msg})
	}
	return nil
}

func (s *Store) hasActiveOrder(clientID kernel.UUID) bool {
	for _, rec := range s.orders {
		if rec.clientID.IsEqual(clientID) && rec.status.IsActive() {
			return true
		}
	}
	return false
}

func ctxErr(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return errs.FromContext(ctx, err)
	}
	return nil
}
