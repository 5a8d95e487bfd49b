// Package postgres provides PostgreSQL implementations of the store
// interfaces defined in internal/store, using the pgx database/sql driver.
// Schema changes live in migrations/ and are embedded into the binary.
package postgres
