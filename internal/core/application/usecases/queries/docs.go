// Package queries contains read-only operations.
//
// Queries read through the same repositories the commands use, without opening a
// transaction, so they work against every store adapter. Results are snapshots:
// by the time a caller acts on them the data may have changed.
package queries
