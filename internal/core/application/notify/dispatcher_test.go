package notify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

type sentEvent struct {
	recipient kernel.Identity
	event     string
	payload   any
}

type fakeRegistry struct {
	online map[kernel.Identity]bool
	sent   []sentEvent
	admin  []sentEvent
	fail   bool
}

func (r *fakeRegistry) IsOnline(identity kernel.Identity) bool {
	return r.online[identity]
}

func (r *fakeRegistry) Send(identity kernel.Identity, event string, payload any) error {
	if r.fail {
		return errors.New("connection gone")
	}
	r.sent = append(r.sent, sentEvent{recipient: identity, event: event, payload: payload})
	return nil
}

func (r *fakeRegistry) BroadcastToAdmins(event string, payload any) {
	r.admin = append(r.admin, sentEvent{event: event, payload: payload})
}

func (r *fakeRegistry) ForceLogout(connectionID string) {}

type fakeTokenRepo struct {
	tokens map[kernel.Identity]ports.PushToken
}

func (f *fakeTokenRepo) Upsert(ctx context.Context, token ports.PushToken) error { return nil }

func (f *fakeTokenRepo) GetActive(ctx context.Context, identity kernel.Identity) (ports.PushToken, error) {
	token, ok := f.tokens[identity]
	if !ok {
		return ports.PushToken{}, errs.NewObjectNotFoundError("identity", identity.String())
	}
	return token, nil
}

func (f *fakeTokenRepo) Deactivate(ctx context.Context, identity kernel.Identity) error { return nil }

type fakeSender struct {
	sent []ports.PushMessage
	fail bool
}

func (s *fakeSender) Send(ctx context.Context, msg ports.PushMessage) error {
	if s.fail {
		return errors.New("upstream rejected")
	}
	s.sent = append(s.sent, msg)
	return nil
}

func newTestDispatcher(registry *fakeRegistry, tokens *fakeTokenRepo, sender *fakeSender) *Dispatcher {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewDispatcher(registry, tokens, sender, logger)
}

func courierIdentity(t *testing.T) kernel.Identity {
	t.Helper()
	return kernel.Identity{UserID: kernel.NewUUID(), Role: kernel.RoleCourier}
}

func Test_Dispatcher_OnlineRecipientGetsLiveEventOnly(t *testing.T) {
	recipient := courierIdentity(t)
	registry := &fakeRegistry{online: map[kernel.Identity]bool{recipient: true}}
	tokens := &fakeTokenRepo{tokens: map[kernel.Identity]ports.PushToken{
		recipient: {Identity: recipient, Token: "tok-1", Platform: ports.PlatformIOS, Active: true},
	}}
	sender := &fakeSender{}
	dispatcher := newTestDispatcher(registry, tokens, sender)

	result := dispatcher.Notify(context.Background(), recipient, Event{Name: EventNewOrder})

	assert.Equal(t, Result{Live: 1}, result)
	assert.Len(t, registry.sent, 1)
	assert.Equal(t, EventNewOrder, registry.sent[0].event)
	assert.Empty(t, sender.sent, "online recipients must not be pushed")
}

func Test_Dispatcher_OfflineRecipientFallsBackToPush(t *testing.T) {
	recipient := courierIdentity(t)
	registry := &fakeRegistry{online: map[kernel.Identity]bool{}}
	tokens := &fakeTokenRepo{tokens: map[kernel.Identity]ports.PushToken{
		recipient: {Identity: recipient, Token: "tok-1", Platform: ports.PlatformAndroid, Active: true},
	}}
	sender := &fakeSender{}
	dispatcher := newTestDispatcher(registry, tokens, sender)

	result := dispatcher.Notify(context.Background(), recipient, Event{
		Name:  EventNewOrder,
		Title: "Yeni Sipariş",
		Body:  "Kadıköy bölgesinde yeni sipariş",
		Data:  map[string]string{"orderId": "42"},
	})

	assert.Equal(t, Result{Pushed: 1}, result)
	assert.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	assert.Equal(t, "tok-1", msg.To)
	assert.Equal(t, "new_order", msg.Data["type"])
	assert.Equal(t, "42", msg.Data["orderId"])
	assert.Equal(t, "new_order_sound", msg.Sound)
	assert.Nil(t, msg.Badge)
}

func Test_Dispatcher_IOSPushUsesDedicatedAlertSoundAndBadge(t *testing.T) {
	recipient := courierIdentity(t)
	registry := &fakeRegistry{online: map[kernel.Identity]bool{}}
	tokens := &fakeTokenRepo{tokens: map[kernel.Identity]ports.PushToken{
		recipient: {Identity: recipient, Token: "ios-tok", Platform: ports.PlatformIOS, Active: true},
	}}
	sender := &fakeSender{}
	dispatcher := newTestDispatcher(registry, tokens, sender)

	dispatcher.Notify(context.Background(), recipient, Event{Name: EventNewOrder})

	assert.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	assert.Equal(t, "alert.caf", msg.Sound)
	if assert.NotNil(t, msg.Badge) {
		assert.Equal(t, 1, *msg.Badge)
	}
}

func Test_Dispatcher_OfflineRecipientWithoutTokenIsCountedFailed(t *testing.T) {
	recipient := courierIdentity(t)
	registry := &fakeRegistry{online: map[kernel.Identity]bool{}}
	tokens := &fakeTokenRepo{tokens: map[kernel.Identity]ports.PushToken{}}
	sender := &fakeSender{}
	dispatcher := newTestDispatcher(registry, tokens, sender)

	result := dispatcher.Notify(context.Background(), recipient, Event{Name: EventNewOrder})

	assert.Equal(t, Result{Failed: 1}, result)
	assert.Empty(t, sender.sent)
}

func Test_Dispatcher_LiveFailureFallsBackToPush(t *testing.T) {
	recipient := courierIdentity(t)
	registry := &fakeRegistry{online: map[kernel.Identity]bool{recipient: true}, fail: true}
	tokens := &fakeTokenRepo{tokens: map[kernel.Identity]ports.PushToken{
		recipient: {Identity: recipient, Token: "tok-1", Platform: ports.PlatformAndroid, Active: true},
	}}
	sender := &fakeSender{}
	dispatcher := newTestDispatcher(registry, tokens, sender)

	result := dispatcher.Notify(context.Background(), recipient, Event{Name: EventNewOrder})

	assert.Equal(t, Result{Pushed: 1}, result)
	assert.Len(t, sender.sent, 1)
}

func Test_Dispatcher_NotifyManyAggregatesOutcomes(t *testing.T) {
	online := courierIdentity(t)
	pushed := courierIdentity(t)
	unreachable := courierIdentity(t)

	registry := &fakeRegistry{online: map[kernel.Identity]bool{online: true}}
	tokens := &fakeTokenRepo{tokens: map[kernel.Identity]ports.PushToken{
		pushed: {Identity: pushed, Token: "tok-p", Platform: ports.PlatformAndroid, Active: true},
	}}
	sender := &fakeSender{}
	dispatcher := newTestDispatcher(registry, tokens, sender)

	result := dispatcher.NotifyMany(context.Background(),
		[]kernel.Identity{online, pushed, unreachable}, Event{Name: EventNewOrder})

	assert.Equal(t, Result{Live: 1, Pushed: 1, Failed: 1}, result)
}

func Test_Dispatcher_NotifyAdminsBroadcasts(t *testing.T) {
	registry := &fakeRegistry{}
	dispatcher := newTestDispatcher(registry, &fakeTokenRepo{}, &fakeSender{})

	dispatcher.NotifyAdmins(Event{Name: EventCourierOnlineChanged, Data: map[string]string{"courierId": "7"}})

	assert.Len(t, registry.admin, 1)
	assert.Equal(t, EventCourierOnlineChanged, registry.admin[0].event)
}
