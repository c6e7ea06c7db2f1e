// Package notifications delivers push notifications for queue activity via
// ntfy. When no topic is configured a noop service is used, so callers never
// have to branch on whether notifications are enabled.
package notifications
