// Package api adapts HTTP requests to the exam and session services. It
// decodes and validates request bodies, maps service errors to status codes
// and writes JSON responses.
package api
