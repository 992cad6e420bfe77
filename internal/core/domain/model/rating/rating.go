// Package rating holds the client's one-time rating of a delivered order.
package rating

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"
)

const (
	MinScore         = 1
	MaxScore         = 5
	MaxCommentLength = 1000
)

var ErrRatingIsNotConstructed = errors.New("Rating must be created via NewRating constructor")

// Rating is immutable once created. At most one exists per order; stores enforce
// that with an insert-if-absent keyed by OrderID.
type Rating struct {
	orderID       kernel.UUID
	clientID      kernel.UUID
	score         int
	comment       string
	createdAt     time.Time
	isConstructed bool
}

// NewRating validates and creates a rating. The comment is optional and trimmed.
func NewRating(orderID, clientID kernel.UUID, score int, comment string, now time.Time) (*Rating, error) {
	r := &Rating{createdAt: now.UTC(), isConstructed: true}

	if err := errors.Join(
		r.setOrderID(orderID),
		r.setClientID(clientID),
		r.setScore(score),
		r.setComment(comment),
	); err != nil {
		return nil, err
	}

	return r, nil
}

func (r *Rating) Validate() error {
	if r == nil || !r.isConstructed {
		return ErrRatingIsNotConstructed
	}
	return nil
}

func (r *Rating) OrderID() kernel.UUID {
	return r.orderID
}

func (r *Rating) ClientID() kernel.UUID {
	return r.clientID
}

func (r *Rating) Score() int {
	return r.score
}

func (r *Rating) Comment() string {
	return r.comment
}

func (r *Rating) CreatedAt() time.Time {
	return r.createdAt
}

func (r *Rating) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("order", err)
	}
	r.orderID = id
	return nil
}

func (r *Rating) setClientID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("client", err)
	}
	r.clientID = id
	return nil
}

func (r *Rating) setScore(score int) error {
	if score < MinScore || score > MaxScore {
		return errs.NewValueIsOutOfRangeError("score", score, MinScore, MaxScore)
	}
	r.score = score
	return nil
}

func (r *Rating) setComment(comment string) error {
	comment = strings.TrimSpace(comment)
	if n := utf8.RuneCountInString(comment); n > MaxCommentLength {
		return errs.NewValueIsOutOfRangeError("comment length", n, 0, MaxCommentLength)
	}
	r.comment = comment
	return nil
}
