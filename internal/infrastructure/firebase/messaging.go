package firebase

import (
	"context"
	"fmt"
	"log"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"

	"paynex/internal/domain/notification"
)

// Messenger implements notification.Messenger using Firebase Cloud Messaging
// topics. Every user's devices subscribe to the topic "user-<userId>".
type Messenger struct {
	msgClient *messaging.Client
}

var _ notification.Messenger = (*Messenger)(nil)

func NewMessenger(ctx context.Context, app *firebase.App) (*Messenger, error) {
	msgClient, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase messaging client: %w", err)
	}
	return &Messenger{msgClient: msgClient}, nil
}

// SendToTopic sends a notification message to every subscriber of topic
func (m *Messenger) SendToTopic(ctx context.Context, topic, title, body string, data map[string]string) error {
	id, err := m.msgClient.Send(ctx, topicMessage(topic, title, body, data))
	if err != nil {
		if messaging.IsInvalidArgument(err) {
			return fmt.Errorf("invalid FCM message for topic %s: %w", topic, err)
		}
		return fmt.Errorf("failed to send FCM message: %w", err)
	}

	log.Printf("FCM message %s sent to topic %s", id, topic)
	return nil
}

func topicMessage(topic, title, body string, data map[string]string) *messaging.Message {
	return &messaging.Message{
		Topic: topic,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}
}
