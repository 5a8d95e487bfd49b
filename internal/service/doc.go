// Package service contains the exam and session use cases. Services
// coordinate the domain types with the repositories defined in
// internal/store and never depend on a particular storage backend.
//
// Every SessionService operation takes the ID of the calling candidate and
// refuses to touch sessions that belong to someone else.
package service
