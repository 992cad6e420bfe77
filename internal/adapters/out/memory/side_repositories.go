package memory

import (
	"context"
	"sort"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/location"
	"fooddelivery/internal/core/domain/model/message"
	"fooddelivery/internal/core/domain/model/rating"
	"fooddelivery/internal/core/ports"
	"fooddelivery/internal/pkg/errs"
)

type ratingRepository struct {
	uow *UnitOfWork
}

func (r *ratingRepository) Add(ctx context.Context, rt *rating.Rating) error {
	if err := rt.Validate(); err != nil {
		return err
	}
	if err := ctxErr(ctx); err != nil {
		return err
	}

	check := func(s *Store) error {
		if _, exists := s.ratings[rt.OrderID()]; exists {
			return errs.NewConflictError("rating", rt.OrderID(), "order is already rated")
		}
		return nil
	}
	s := r.uow.store
	s.mu.Lock()
	err := check(s)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	return r.uow.stage(write{
		check: check,
		apply: func(s *Store) { s.ratings[rt.OrderID()] = rt },
	}, nil)
}

func (r *ratingRepository) Get(ctx context.Context, orderID kernel.UUID) (*rating.Rating, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}

	s := r.uow.store
	s.mu.Lock()
	defer s.mu.Unlock()
	rt, ok := s.ratings[orderID]
	if !ok {
		return nil, errs.NewObjectNotFoundError("rating", orderID.String())
	}
	return rt, nil
}

func (r *ratingRepository) Exists(ctx context.Context, orderID kernel.UUID) (bool, error) {
	if err := ctxErr(ctx); err != nil {
		return false, err
	}

	s := r.uow.store
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ratings[orderID]
	return ok, nil
}

type messageRepository struct {
	uow *UnitOfWork
}

func (r *messageRepository) Add(ctx context.Context, m *message.Message) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if err := ctxErr(ctx); err != nil {
		return err
	}

	return r.uow.stage(write{
		apply: func(s *Store) {
			s.messages[m.OrderID()] = append(s.messages[m.OrderID()], m)
		},
	}, nil)
}

func (r *messageRepository) ListByOrder(ctx context.Context, orderID kernel.UUID, limit int) ([]*message.Message, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}

	s := r.uow.store
	s.mu.Lock()
	messages := append([]*message.Message(nil), s.messages[orderID]...)
	s.mu.Unlock()

	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].SentAt().Before(messages[j].SentAt())
	})
	if len(messages) > limit {
		messages = messages[:limit]
	}
	return messages, nil
}

type locationRepository struct {
	uow *UnitOfWork
}

func (r *locationRepository) Save(ctx context.Context, sample *location.Sample) (bool, error) {
	if err := sample.Validate(); err != nil {
		return false, err
	}
	if err := ctxErr(ctx); err != nil {
		return false, err
	}

	key := locationKey{subject: sample.SubjectID(), scope: sample.Scope().String()}

	s := r.uow.store
	s.mu.Lock()
	stored := sample.Supersedes(s.locations[key])
	s.mu.Unlock()
	if !stored {
		return false, nil
	}

	err := r.uow.stage(write{
		apply: func(s *Store) {
			if sample.Supersedes(s.locations[key]) {
				s.locations[key] = sample
			}
		},
	}, nil)
	return err == nil, err
}

func (r *locationRepository) Get(ctx context.Context, subjectID kernel.UUID, scope location.Scope) (*location.Sample, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}

	s := r.uow.store
	s.mu.Lock()
	defer s.mu.Unlock()
	sample, ok := s.locations[locationKey{subject: subjectID, scope: scope.String()}]
	if !ok {
		return nil, errs.NewObjectNotFoundError("location", scope.String())
	}
	return sample, nil
}

func (r *locationRepository) PurgeInactiveOrderScopes(ctx context.Context) (int64, error) {
	if err := ctxErr(ctx); err != nil {
		return 0, err
	}

	s := r.uow.store
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int64
	for key, sample := range s.locations {
		orderID := sample.Scope().OrderID()
		if orderID == nil {
			continue
		}
		rec, ok := s.orders[*orderID]
		if !ok || rec.status.IsTerminal() {
			delete(s.locations, key)
			removed++
		}
	}
	return removed, nil
}

type outboxRepository struct {
	store *Store
}

func (r *outboxRepository) Pending(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	pending := make([]ports.OutboxMessage, 0, limit)
	for _, row := range r.store.outbox {
		if row.publishedAt != nil {
			continue
		}
		pending = append(pending, row.msg)
		if len(pending) == limit {
			break
		}
	}
	return pending, nil
}

func (r *outboxRepository) MarkPublished(ctx context.Context, ids []kernel.UUID, at time.Time) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}

	marked := make(map[kernel.UUID]struct{}, len(ids))
	for _, id := range ids {
		marked[id] = struct{}{}
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for i := range r.store.outbox {
		if _, ok := marked[r.store.outbox[i].msg.ID]; ok {
			published := at
			r.store.outbox[i].publishedAt = &published
		}
	}
	return nil
}
