// Package memory provides in-memory implementations of the store interfaces.
// They back the CLI, the server when no database is configured, and tests.
// All stores are safe for concurrent use and hand out copies, so callers
// never share state with the store.
package memory
