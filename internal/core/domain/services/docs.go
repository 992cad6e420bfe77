// Package services provides domain services that decide questions spanning more
// than one aggregate.
//
// The package includes:
//   - Gate: the capability function answering what an actor may do with an order
//     (chat, live location, rating, lifecycle changes)
//
// Gate decisions are pure functions of the order snapshot they are given; callers
// load the order and, for ratings, whether one already exists.
package services
