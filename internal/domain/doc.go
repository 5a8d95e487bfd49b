// Package domain contains the core exam entities and the errors shared by
// them. The subpackages hold the exam tree (exam), candidate attempts and
// their checkpoints (session) and the countdown used to bound an attempt
// (timer). None of them depend on storage or transport.
package domain
