// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data storage mechanism from
// the application's core logic, so exams, sessions and checkpoints can be
// kept in memory, in PostgreSQL or, for checkpoints, in Redis.
package store
