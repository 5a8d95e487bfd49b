// Package events lets services announce session activity without knowing
// who listens.
//
// The primary components are:
//   - SessionEvent: something that happened to a session
//   - EventHandler: interface for components that react to events
//   - EventEmitter: interface for components that publish events
package events
