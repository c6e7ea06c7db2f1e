// Package events provides the in-process event bus the playlist publishes
// queue mutations on.
//
// The event set is closed: each variant is its own payload type implementing
// Event. Handlers subscribe per kind and fire synchronously in registration
// order; a handler panic is logged and swallowed so one faulty subscriber
// cannot break queue mutation.
package events
