package broadcast

import "context"

// Channel carrying submission-list invalidation signals. Published after any
// mutation that changes what the public surfaces should render (new
// submission, removal, moderation decision).
const ChannelCouplesInvalidate = "couples.invalidate"

// Bus is an explicit pub/sub boundary for cross-process cache invalidation.
// Delivery is best-effort: a process that is not subscribed simply refetches
// when its own cache TTL expires.
type Bus interface {
	// Publish sends a signal on a channel. Errors are reported but callers
	// treat publishing as fire-and-forget.
	Publish(ctx context.Context, channel, message string) error

	// Subscribe invokes handler for every message on the channel until ctx
	// is cancelled. Runs in the calling goroutine.
	Subscribe(ctx context.Context, channel string, handler func(message string)) error

	Close() error
}
