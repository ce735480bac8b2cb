// Package notify delivers fire-and-forget operator alerts. Delivery failures
// are logged and dropped; they must never block or crash the trading loop.
package notify

import "context"

type Notifier interface {
	// Notify sends a message best-effort. It returns quickly; delivery
	// happens in the background.
	Notify(ctx context.Context, text string)
}

// Noop discards all notifications. Used when no channel is configured and in
// tests.
type Noop struct{}

func (Noop) Notify(context.Context, string) {}
