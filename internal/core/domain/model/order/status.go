package order

import (
	"fmt"
	"strings"

	"fooddelivery/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
//
//	Pending ──> EnRoute ──> Delivered
//	   │
//	   └──> Cancelled
//
// Delivered and Cancelled are terminal.
type Status int

const (
	// Unknown catches uninitialized values.
	Unknown Status = iota
	Pending
	EnRoute
	Delivered
	Cancelled
)

var statusNames = map[Status]string{
	Pending:   "Pending",
	EnRoute:   "EnRoute",
	Delivered: "Delivered",
	Cancelled: "Cancelled",
}

// ParseStatus converts the persisted or transported name into a Status.
// Matching is case-insensitive.
func ParseStatus(s string) (Status, error) {
	for status, name := range statusNames {
		if strings.EqualFold(name, s) {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

// Validate rejects Unknown and out-of-range values.
func (s Status) Validate() error {
	if _, ok := statusNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the status name, or "Unknown" for invalid values.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "Unknown"
}

// IsActive reports whether the order still counts against the client's
// single active order.
func (s Status) IsActive() bool {
	return s == Pending || s == EnRoute
}

// IsTerminal reports whether no further transitions are possible.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}

// Advance returns target if it is the courier-driven successor of s:
// Pending -> EnRoute or EnRoute -> Delivered.
//
// A target that s has already reached or passed on that chain means the
// caller acted on a stale read, which is a ConflictError. Every other edge is
// a TransitionIsInvalidError.
func (s Status) Advance(target Status) (Status, error) {
	switch {
	case s == Pending && target == EnRoute:
		return EnRoute, nil
	case s == EnRoute && target == Delivered:
		return Delivered, nil
	case s.hasReached(target):
		return Unknown, errs.NewConflictError("order status", s, fmt.Sprintf("already advanced past %s", target))
	default:
		return Unknown, errs.NewTransitionIsInvalidError(s, target, "")
	}
}

func (s Status) hasReached(target Status) bool {
	return courierStep(target) > 0 && courierStep(s) >= courierStep(target)
}

// courierStep is the position of s on the courier chain, zero when off it.
func courierStep(s Status) int {
	switch s {
	case EnRoute:
		return 1
	case Delivered:
		return 2
	default:
		return 0
	}
}

// Cancel returns Cancelled if s is Pending.
func (s Status) Cancel() (Status, error) {
	if s != Pending {
		return Unknown, errs.NewTransitionIsInvalidError(s, Cancelled, "")
	}
	return Cancelled, nil
}

// ValidateCanHaveCourier checks consistency between the status and courier
// assignment of a persisted order:
//   - Pending orders may or may not have a courier
//   - EnRoute and Delivered orders must have a courier
//   - Cancelled orders must not have a courier
func (s Status) ValidateCanHaveCourier(courier bool) error {
	if courier && s == Cancelled {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to have a courier", s),
		)
	}

	if !courier && (s == EnRoute || s == Delivered) {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to have no courier", s),
		)
	}

	return nil
}
