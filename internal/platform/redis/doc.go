// Package redis stores session checkpoints in Redis with a time-to-live.
// Each checkpoint is a JSON value under checkpoint:<id>, and each session
// keeps a sorted set of its checkpoint IDs under session:<id>:checkpoints,
// scored by creation time.
package redis
