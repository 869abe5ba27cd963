// Package fcm delivers push notifications through Firebase Cloud Messaging.
package fcm

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	"dispatch/internal/core/ports"
)

// Sender sends push messages via the Firebase Admin SDK. It implements
// ports.PushSender.
type Sender struct {
	client *messaging.Client
}

// NewSender initialises the Firebase app and its messaging client. If
// credentialsFile is non-empty it is used as the service-account JSON path;
// otherwise the SDK falls back to GOOGLE_APPLICATION_CREDENTIALS.
func NewSender(ctx context.Context, projectID, credentialsFile string) (*Sender, error) {
	opts := []option.ClientOption{}
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase.NewApp: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase app.Messaging: %w", err)
	}
	return &Sender{client: client}, nil
}

// Send delivers one message to a device token. The per-platform sound,
// badge and priority carried in the message are mapped onto APNs and
// Android config blocks so each client plays its own notification sound.
func (s *Sender) Send(ctx context.Context, msg ports.PushMessage) error {
	aps := &messaging.Aps{Sound: msg.Sound}
	if msg.Badge != nil {
		aps.Badge = msg.Badge
	}

	fcmMessage := &messaging.Message{
		Token: msg.To,
		Notification: &messaging.Notification{
			Title: msg.Title,
			Body:  msg.Body,
		},
		Data: msg.Data,
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{Aps: aps},
		},
		Android: &messaging.AndroidConfig{
			Priority: msg.Priority,
			Notification: &messaging.AndroidNotification{
				Sound: msg.Sound,
			},
		},
	}

	if _, err := s.client.Send(ctx, fcmMessage); err != nil {
		return fmt.Errorf("fcm send: %w", err)
	}
	return nil
}
