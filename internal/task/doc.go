// Package task runs background work on a bounded queue and a pool of
// workers. The server uses it to deliver session events to their handlers
// off the request path.
package task
