package memory

import (
	"context"
	"sort"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/pkg/errs"
)

type orderRepository struct {
	uow *UnitOfWork
}

func (r *orderRepository) Add(ctx context.Context, o *order.Order) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := ctxErr(ctx); err != nil {
		return err
	}

	check := func(s *Store) error {
		if _, exists := s.orders[o.ID()]; exists {
			return errs.NewConflictError("order", o.ID(), "order already exists")
		}
		if s.hasActiveOrder(o.ClientID()) {
			return errs.NewConflictError("client", o.ClientID(), "client already has an active order")
		}
		return nil
	}
	if err := r.precheck(check); err != nil {
		return err
	}

	return r.uow.stage(write{
		check: check,
		apply: func(s *Store) {
			s.orders[o.ID()] = recordOf(o, 1)
			o.SetVersion(1)
		},
	}, o)
}

func (r *orderRepository) Update(ctx context.Context, o *order.Order) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := ctxErr(ctx); err != nil {
		return err
	}

	expected := o.Version()
	check := func(s *Store) error {
		rec, ok := s.orders[o.ID()]
		if !ok || rec.version != expected {
			return errs.NewConflictError("order", o.ID(), "order was changed concurrently")
		}
		return nil
	}
	if err := r.precheck(check); err != nil {
		return err
	}

	return r.uow.stage(write{
		check: check,
		apply: func(s *Store) {
			s.orders[o.ID()] = recordOf(o, expected+1)
			o.SetVersion(expected + 1)
		},
	}, o)
}

func (r *orderRepository) Delete(ctx context.Context, o *order.Order) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := ctxErr(ctx); err != nil {
		return err
	}

	expected := o.Version()
	check := func(s *Store) error {
		rec, ok := s.orders[o.ID()]
		if !ok || rec.version != expected || rec.status != order.Pending || rec.courierID != nil {
			return errs.NewConflictError("order", o.ID(), "order was changed concurrently")
		}
		return nil
	}
	if err := r.precheck(check); err != nil {
		return err
	}

	return r.uow.stage(write{
		check: check,
		apply: func(s *Store) {
			delete(s.orders, o.ID())
			delete(s.messages, o.ID())
		},
	}, o)
}

func (r *orderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}

	s := r.uow.store
	s.mu.Lock()
	rec, ok := s.orders[id]
	s.mu.Unlock()

	if !ok {
		return nil, errs.NewObjectNotFoundError("order", id.String())
	}
	return rec.restore()
}

func (r *orderRepository) HasActiveOrder(ctx context.Context, clientID kernel.UUID) (bool, error) {
	if err := ctxErr(ctx); err != nil {
		return false, err
	}

	s := r.uow.store
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasActiveOrder(clientID), nil
}

func (r *orderRepository) ListUnclaimed(ctx context.Context, limit int) ([]*order.Order, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}

	s := r.uow.store
	s.mu.Lock()
	records := make([]orderRecord, 0)
	for _, rec := range s.orders {
		if rec.status == order.Pending && rec.courierID == nil {
			records = append(records, rec)
		}
	}
	s.mu.Unlock()

	sort.Slice(records, func(i, j int) bool {
		if records[i].createdAt.Equal(records[j].createdAt) {
			return records[i].id.String() < records[j].id.String()
		}
		return records[i].createdAt.Before(records[j].createdAt)
	})
	if len(records) > limit {
		records = records[:limit]
	}

	orders := make([]*order.Order, 0, len(records))
	for _, rec := range records {
		o, err := rec.restore()
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

// precheck reports a lost race at call time, as the Postgres adapter does.
// The check runs again on commit.
func (r *orderRepository) precheck(check func(s *Store) error) error {
	s := r.uow.store
	s.mu.Lock()
	defer s.mu.Unlock()
	return check(s)
}
