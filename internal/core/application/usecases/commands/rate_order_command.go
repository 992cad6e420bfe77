package commands

import (
	"errors"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/rating"
	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/guard"
)

var ErrRateOrderCommandIsNotConstructed = errors.New(
	"RateOrderCommand must be created via NewRateOrderCommand constructor",
)

type RateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	clientID kernel.UUID
	score    int
	comment  string

	guard guard.ConstructorGuard
}

func NewRateOrderCommand(orderID, clientID kernel.UUID, score int, comment string) (RateOrderCommand, error) {
	var scoreErr error
	if score < rating.MinScore || score > rating.MaxScore {
		scoreErr = errs.NewValueIsOutOfRangeError("score", score, rating.MinScore, rating.MaxScore)
	}
	if err := errors.Join(orderID.Validate(), clientID.Validate(), scoreErr); err != nil {
		return RateOrderCommand{}, err
	}
	return RateOrderCommand{
		orderID:  orderID,
		clientID: clientID,
		score:    score,
		comment:  comment,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c RateOrderCommand) Validate() error {
	return c.guard.Validate(ErrRateOrderCommandIsNotConstructed)
}

func (c RateOrderCommand) OrderID() kernel.UUID  { return c.orderID }
func (c RateOrderCommand) ClientID() kernel.UUID { return c.clientID }
func (c RateOrderCommand) Score() int            { return c.score }
func (c RateOrderCommand) Comment() string       { return c.comment }
