package notify

import (
	"context"
	"errors"
	"log/slog"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

const (
	soundIOS     = "alert.caf"
	soundAndroid = "new_order_sound"

	pushPriorityHigh = "high"
)

// Result summarizes a fan-out: how many recipients got the event over their
// live connection, how many fell back to push, and how many could not be
// reached at all.
type Result struct {
	Live   int
	Pushed int
	Failed int
}

// Dispatcher routes events to recipients, preferring the live channel and
// falling back to mobile push for offline recipients. Delivery is best
// effort: failures are logged, never propagated to the caller, because the
// order workflow must not stall on an unreachable device.
type Dispatcher struct {
	registry ports.ConnectionRegistry
	tokens   ports.PushTokenRepository
	sender   ports.PushSender
	logger   *slog.Logger
}

func NewDispatcher(
	registry ports.ConnectionRegistry,
	tokens ports.PushTokenRepository,
	sender ports.PushSender,
	logger *slog.Logger,
) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		tokens:   tokens,
		sender:   sender,
		logger:   logger.With("component", "notify_dispatcher"),
	}
}

// Notify delivers the event to a single recipient. Online recipients receive
// it over their live connection only; offline recipients receive a push on
// every registered device. Returns a Result so bulk callers can aggregate.
func (d *Dispatcher) Notify(ctx context.Context, recipient kernel.Identity, event Event) Result {
	if d.registry.IsOnline(recipient) {
		if err := d.registry.Send(recipient, event.Name, event.Data); err != nil {
			d.logger.Warn("live delivery failed, falling back to push",
				"recipient", recipient.String(), "event", event.Name, "error", err)
			return d.pushTo(ctx, recipient, event)
		}
		return Result{Live: 1}
	}
	return d.pushTo(ctx, recipient, event)
}

// NotifyMany fans the event out to every recipient independently and returns
// the aggregated delivery counts.
func (d *Dispatcher) NotifyMany(ctx context.Context, recipients []kernel.Identity, event Event) Result {
	var total Result
	for _, recipient := range recipients {
		r := d.Notify(ctx, recipient, event)
		total.Live += r.Live
		total.Pushed += r.Pushed
		total.Failed += r.Failed
	}
	d.logger.Info("event fan-out complete",
		"event", event.Name,
		"recipients", len(recipients),
		"live", total.Live, "pushed", total.Pushed, "failed", total.Failed)
	return total
}

// NotifyAdmins broadcasts the event to all connected admin dashboards.
// Admins have no push fallback: a dashboard that is not open has no use for
// the event.
func (d *Dispatcher) NotifyAdmins(event Event) {
	d.registry.BroadcastToAdmins(event.Name, event.Data)
}

func (d *Dispatcher) pushTo(ctx context.Context, recipient kernel.Identity, event Event) Result {
	token, err := d.tokens.GetActive(ctx, recipient)
	if err != nil {
		var notFound *errs.ObjectNotFoundError
		if errors.As(err, &notFound) {
			d.logger.Debug("recipient unreachable: offline and no push token",
				"recipient", recipient.String(), "event", event.Name)
		} else {
			d.logger.Error("cannot load push token",
				"recipient", recipient.String(), "event", event.Name, "error", err)
		}
		return Result{Failed: 1}
	}

	data := make(map[string]string, len(event.Data)+1)
	for k, v := range event.Data {
		data[k] = v
	}
	data["type"] = event.Name

	msg := ports.PushMessage{
		To:       token.Token,
		Title:    event.Title,
		Body:     event.Body,
		Sound:    resolveSound(token.Platform),
		Priority: pushPriorityHigh,
		Data:     data,
	}
	if token.Platform == ports.PlatformIOS {
		badge := 1
		msg.Badge = &badge
	}
	if err := d.sender.Send(ctx, msg); err != nil {
		d.logger.Warn("push delivery failed",
			"recipient", recipient.String(), "platform", token.Platform,
			"event", event.Name, "error", err)
		return Result{Failed: 1}
	}
	return Result{Pushed: 1}
}

// resolveSound picks the notification sound per platform. iOS silently drops
// references to sound files not bundled with the app, so it always gets the
// dedicated alert file shipped in the client bundle.
func resolveSound(platform string) string {
	if platform == ports.PlatformIOS {
		return soundIOS
	}
	return soundAndroid
}
