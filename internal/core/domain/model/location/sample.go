// Package location holds the most recent position reported by a courier, either
// free-standing or pinned to the order being delivered.
package location

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"
)

const courierScope = "courier"
const orderScopePrefix = "order:"

var ErrSampleIsNotConstructed = errors.New("Sample must be created via NewSample constructor")

// Scope tells what a sample is about: the courier itself or a single order.
type Scope struct {
	orderID *kernel.UUID
}

// CourierScope is the free-standing courier position.
func CourierScope() Scope {
	return Scope{}
}

// OrderScope pins the position to orderID.
func OrderScope(orderID kernel.UUID) Scope {
	return Scope{orderID: &orderID}
}

// ParseScope reverses Scope.String.
func ParseScope(s string) (Scope, error) {
	if s == courierScope {
		return CourierScope(), nil
	}
	if rest, ok := strings.CutPrefix(s, orderScopePrefix); ok {
		id, err := kernel.UUIDFromString(rest)
		if err != nil {
			return Scope{}, err
		}
		return OrderScope(id), nil
	}
	return Scope{}, errs.NewValueIsInvalidErrorWithCause("scope", fmt.Errorf("%q is not a valid scope", s))
}

// OrderID returns the order of an order scope, nil for the courier scope.
func (s Scope) OrderID() *kernel.UUID {
	return s.orderID
}

func (s Scope) IsOrder() bool {
	return s.orderID != nil
}

// String is "courier" or "order:<orderId>"; stores key samples by it.
func (s Scope) String() string {
	if s.orderID == nil {
		return courierScope
	}
	return orderScopePrefix + s.orderID.String()
}

// Sample is one position of a subject within a scope. Stores keep only the most
// recent sample per (subject, scope).
type Sample struct {
	subjectID     kernel.UUID
	scope         Scope
	position      kernel.Location
	recordedAt    time.Time
	isConstructed bool
}

func NewSample(subjectID kernel.UUID, scope Scope, position kernel.Location, recordedAt time.Time) (*Sample, error) {
	if err := errors.Join(subjectID.Validate(), position.Validate()); err != nil {
		return nil, err
	}
	if recordedAt.IsZero() {
		return nil, errs.NewValueIsRequiredError("recorded at")
	}
	return &Sample{
		subjectID:     subjectID,
		scope:         scope,
		position:      position,
		recordedAt:    recordedAt.UTC(),
		isConstructed: true,
	}, nil
}

func (s *Sample) Validate() error {
	if s == nil || !s.isConstructed {
		return ErrSampleIsNotConstructed
	}
	return nil
}

func (s *Sample) SubjectID() kernel.UUID    { return s.subjectID }
func (s *Sample) Scope() Scope              { return s.scope }
func (s *Sample) Position() kernel.Location { return s.position }
func (s *Sample) RecordedAt() time.Time     { return s.recordedAt }

// Supersedes reports whether s should replace other. Equal timestamps replace,
// so a retried write is idempotent.
func (s *Sample) Supersedes(other *Sample) bool {
	return other == nil || !s.recordedAt.Before(other.recordedAt)
}
