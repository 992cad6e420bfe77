// Package kernel provides the value objects shared by every aggregate of the
// order coordinator.
//
// The package includes:
//   - UUID: identifier of orders, clients, couriers, messages and products
//   - Address: structured delivery address (district, neighborhood, street detail)
//   - Location: geographic point reported by couriers and clients
//
// All value objects are immutable and their zero values are invalid; they must be
// created through their constructors, which is checked by Validate.
package kernel
