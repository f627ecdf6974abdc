package notification

import (
	"context"
	"log"

	"paynex/internal/shared/messages"
)

// Service sends user-facing push notifications. Delivery is best effort:
// failures are logged and never surface to the operation that triggered them.
type Service struct {
	messenger Messenger
	messages  *messages.Messages
}

// NewService creates a notification service. A nil messenger disables delivery.
func NewService(messenger Messenger, msgs *messages.Messages) *Service {
	if msgs == nil {
		msgs = messages.Default()
	}
	return &Service{messenger: messenger, messages: msgs}
}

// Notify delivers n to the user's topic.
func (s *Service) Notify(ctx context.Context, n Notification) {
	if s.messenger == nil {
		return
	}

	topic, err := TopicForUser(n.UserID)
	if err != nil {
		log.Printf("Skipping notification for user %q: %v", n.UserID, err)
		return
	}

	data := map[string]string{"category": n.Category}
	for k, v := range n.Data {
		data[k] = v
	}

	if err := s.messenger.SendToTopic(ctx, topic, n.Title, n.Body, data); err != nil {
		log.Printf("Failed to send %s notification to user %s: %v", n.Category, n.UserID, err)
	}
}

// BankLinked tells a user a bank account finished linking.
func (s *Service) BankLinked(ctx context.Context, userID, bankName, bankID string) {
	text := s.messages.BankLinked.Render(map[string]string{"bank": bankName})
	s.Notify(ctx, Notification{
		UserID:   userID,
		Category: CategoryAccounts,
		Title:    text.Title,
		Body:     text.Body,
		Data:     map[string]string{"bankId": bankID},
	})
}

// TransferSent notifies both sides of a transfer.
func (s *Service) TransferSent(ctx context.Context, senderID, receiverID, senderName, amount string) {
	sent := s.messages.TransferSent.Render(map[string]string{"amount": amount})
	s.Notify(ctx, Notification{
		UserID:   senderID,
		Category: CategoryTransfers,
		Title:    sent.Title,
		Body:     sent.Body,
	})

	if receiverID == "" || receiverID == senderID {
		return
	}
	received := s.messages.TransferReceived.Render(map[string]string{"sender": senderName, "amount": amount})
	s.Notify(ctx, Notification{
		UserID:   receiverID,
		Category: CategoryTransfers,
		Title:    received.Title,
		Body:     received.Body,
	})
}
