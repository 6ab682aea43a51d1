// Package store holds FieldML objects while a session is alive and archives
// exported regions durably.
//
// ObjectStore is the in-memory arena every session owns: objects live in a
// dense slice and are addressed by ir.Handle. Handles are assigned
// monotonically from 1 and never reused within a store.
//
// Store is the SQLite-backed snapshot archive. Each snapshot is a canonical
// JSON region document keyed by a content-derived UUID, so archiving the
// same region twice is a no-op.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// All ordering uses the logical seq column, never timestamps.
package store
