// Package order implements the Order aggregate: the record a client creates to
// have catalog items delivered, and the state machine it moves through.
//
// The package includes:
//   - Order: aggregate root owning status, courier assignment, line items and total
//   - Status: value object enforcing the permitted lifecycle edges
//   - LineItem: product, quantity and the price captured at order time
//   - Event: domain events recorded by every state change, drained into the outbox
//
// Lifecycle:
//
//	Pending ──> EnRoute ──> Delivered
//	   │
//	   └──> Cancelled
//
// Key business rules:
//   - a courier is assigned at most once and never replaced or removed
//   - only the assigned courier advances the status
//   - only the owning client edits, cancels or deletes, and only while the order
//     is Pending and unclaimed
//   - every line item belongs to the same restaurant
//   - the total is fixed from prices captured when items are set
package order
