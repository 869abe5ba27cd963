package ports

import "context"

// PushMessage is the push payload contract. Data carries the event type,
// order id and related ids for client-side routing. Sound and the
// platform-conditional Badge/Priority fields are resolved by the sending
// adapter per platform.
type PushMessage struct {
	To       string
	Title    string
	Body     string
	Sound    string
	Badge    *int
	Priority string
	Data     map[string]string
}

// PushSender delivers push messages to offline recipients. Delivery is
// best-effort: callers log and count failures, never retry synchronously
// and never fail the triggering operation.
type PushSender interface {
	Send(ctx context.Context, msg PushMessage) error
}
