package ws

import (
	"context"
	"encoding/json"
	"log/slog"
)

// HandlerFunc processes one inbound event for a connection.
type HandlerFunc func(ctx context.Context, c *Client, data json.RawMessage) error

// Router dispatches inbound envelopes to explicitly registered handlers.
// Unknown events are logged and dropped; a handler error never closes the
// connection, since inbound events are fire-and-forget for the client.
type Router struct {
	handlers map[string]HandlerFunc
	logger   *slog.Logger
}

// NewRouter creates a router with no handlers registered.
func NewRouter(logger *slog.Logger) *Router {
	return &Router{
		handlers: make(map[string]HandlerFunc),
		logger:   logger.With("component", "ws_router"),
	}
}

// Register binds an event name to a handler. Last registration wins.
func (r *Router) Register(event string, handler HandlerFunc) {
	r.handlers[event] = handler
}

// Dispatch routes one envelope to its handler.
func (r *Router) Dispatch(ctx context.Context, c *Client, envelope Envelope) {
	handler, ok := r.handlers[envelope.Event]
	if !ok {
		r.logger.DebugContext(ctx, "Dropped unknown event",
			"event", envelope.Event, "identity", c.Identity().String())
		return
	}

	if err := handler(ctx, c, envelope.Data); err != nil {
		r.logger.WarnContext(ctx, "Event handler failed",
			"event", envelope.Event, "identity", c.Identity().String(), "error", err)
	}
}
