// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
//
// Every write is a conditional write at the store; a handler that loses a race
// returns errs.ConflictError and does not retry.
package commands

import (
	"context"

	"fooddelivery/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// Each handler asks only for the repositories it touches.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	RatingRepoFactory interface {
		RatingRepository() ports.RatingRepository
	}

	MessageRepoFactory interface {
		MessageRepository() ports.MessageRepository
	}

	LocationRepoFactory interface {
		LocationRepository() ports.LocationRepository
	}

	OutboxRepoFactory interface {
		OutboxRepository() ports.OutboxRepository
	}

	// OrderUoW manages transactions for order-only operations.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// RatingUoW reads the order and writes its rating in one transaction.
	RatingUoW interface {
		TxManager
		OrderRepoFactory
		RatingRepoFactory
	}

	RatingUoWFactory interface {
		Create() RatingUoW
	}

	// MessageUoW reads the order and appends a chat message in one transaction.
	MessageUoW interface {
		TxManager
		OrderRepoFactory
		MessageRepoFactory
	}

	MessageUoWFactory interface {
		Create() MessageUoW
	}

	// LocationUoW reads the order and stores a location sample in one transaction.
	LocationUoW interface {
		TxManager
		OrderRepoFactory
		LocationRepoFactory
	}

	LocationUoWFactory interface {
		Create() LocationUoW
	}

	// OutboxUoW locks and marks outbox rows while they are relayed.
	OutboxUoW interface {
		TxManager
		OutboxRepoFactory
	}

	OutboxUoWFactory interface {
		Create() OutboxUoW
	}
)
