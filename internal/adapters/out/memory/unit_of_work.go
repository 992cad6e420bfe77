package memory

import (
	"context"
	"errors"

	"fooddelivery/internal/adapters/out/outbox"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/ports"
)

var ErrNoTransaction = errors.New("no active transaction")

type UnitOfWorkFactory struct {
	store *Store
}

func NewUnitOfWorkFactory(store *Store) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{store: store}
}

func (f *UnitOfWorkFactory) Create() ports.UnitOfWork {
	return &UnitOfWork{store: f.store}
}

// UnitOfWork stages writes between Begin and Commit. It is not safe for
// concurrent use; create one per operation.
type UnitOfWork struct {
	store   *Store
	inTx    bool
	writes  []write
	tracked []*order.Order
}

func (u *UnitOfWork) Begin(ctx context.Context) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	u.inTx = true
	return nil
}

func (u *UnitOfWork) Commit(ctx context.Context) error {
	if !u.inTx {
		return ErrNoTransaction
	}
	if err := ctxErr(ctx); err != nil {
		return err
	}

	err := u.flush()
	u.reset()
	return err
}

func (u *UnitOfWork) Rollback(_ context.Context) error {
	if !u.inTx {
		return ErrNoTransaction
	}
	u.reset()
	return nil
}

func (u *UnitOfWork) OrderRepository() ports.OrderRepository {
	return &orderRepository{uow: u}
}

func (u *UnitOfWork) RatingRepository() ports.RatingRepository {
	return &ratingRepository{uow: u}
}

func (u *UnitOfWork) MessageRepository() ports.MessageRepository {
	return &messageRepository{uow: u}
}

func (u *UnitOfWork) LocationRepository() ports.LocationRepository {
	return &locationRepository{uow: u}
}

func (u *UnitOfWork) OutboxRepository() ports.OutboxRepository {
	return &outboxRepository{store: u.store}
}

// stage queues w, or applies it right away outside a transaction.
func (u *UnitOfWork) stage(w write, tracked *order.Order) error {
	u.writes = append(u.writes, w)
	if tracked != nil {
		u.tracked = append(u.tracked, tracked)
	}
	if u.inTx {
		return nil
	}
	err := u.flush()
	u.reset()
	return err
}

func (u *UnitOfWork) flush() error {
	sources := make([]outbox.EventSource, 0, len(u.tracked))
	for _, o := range u.tracked {
		sources = append(sources, o)
	}

	events, err := outbox.Drain(sources...)
	if err != nil {
		return err
	}
	return u.store.commit(u.writes, events)
}

func (u *UnitOfWork) reset() {
	u.inTx = false
	u.writes = nil
	u.tracked = nil
}
