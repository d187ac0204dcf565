package channel

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/kstorelabs/notify/pkg/logger"
	"github.com/kstorelabs/notify/pkg/notification"
)

// Adapter delivers notifications over one transport. Send reports success
// as a bool; adapters log their own failures and must never panic into the
// dispatcher.
type Adapter interface {
	// Name returns the adapter's channel name for logs and error messages.
	Name() string

	// Supports reports whether the adapter handles the given channel.
	Supports(ch notification.Channel) bool

	// Send delivers the notification. Returns true on success. Adapters may
	// set delivery metadata on n (such as ExternalMessageID) before returning.
	Send(ctx context.Context, n *notification.Notification) bool
}

// Router resolves a notification's channel to the adapter that will carry
// it. Adapters are scanned in registration order and the first supporting
// adapter wins, so more specific adapters must be registered first.
type Router struct {
	mu       sync.RWMutex
	adapters []Adapter
	log      *slog.Logger
}

// NewRouter creates a router with the given adapters in routing order.
func NewRouter(log *slog.Logger, adapters ...Adapter) *Router {
	return &Router{
		adapters: adapters,
		log:      log.With(logger.Component("channel_router")),
	}
}

// Register appends an adapter to the end of the routing order.
func (r *Router) Register(a Adapter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adapters = append(r.adapters, a)
}

// Route returns the first registered adapter that supports ch.
func (r *Router) Route(ch notification.Channel) (Adapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.adapters {
		if a.Supports(ch) {
			return a, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNoAdapter, ch)
}

// Deliver routes the notification and sends it. A missing adapter is a
// delivery failure, not an error the caller has to branch on separately.
func (r *Router) Deliver(ctx context.Context, n *notification.Notification) (bool, error) {
	a, err := r.Route(n.Channel)
	if err != nil {
		r.log.WarnContext(ctx, "no adapter for channel",
			logger.NotificationID(n.ID),
			logger.Channel(string(n.Channel)),
		)
		return false, err
	}
	return a.Send(ctx, n), nil
}
