package chat

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/elderlango/ReactChat/internal/auth"
	"github.com/elderlango/ReactChat/internal/notify"
)

type Service struct {
	store    Store
	notifier notify.Notifier
	now      func() time.Time
}

func NewService(store Store, notifier notify.Notifier) *Service {
	return &Service{store: store, notifier: notifier, now: time.Now}
}

// Send stores a message to the peer and pushes it to the peer's sockets.
func (s *Service) Send(ctx context.Context, caller auth.Identity, receiverID, body, image string) (Message, error) {
	if receiverID == "" || receiverID == caller.ID {
		return Message{}, ErrInvalidInput
	}
	if body == "" && image == "" {
		return Message{}, ErrInvalidInput
	}
	m := Message{
		ID:         uuid.NewString(),
		SenderID:   caller.ID,
		ReceiverID: receiverID,
		Body:       body,
		Image:      image,
		Status:     StatusSent,
		CreatedAt:  s.now().Unix(),
	}
	if err := s.store.Insert(ctx, m); err != nil {
		return Message{}, err
	}
	s.notifier.Notify(receiverID, notify.EventNewMessage, m)
	return m, nil
}

func (s *Service) Conversation(ctx context.Context, caller auth.Identity, peerID string) ([]Message, error) {
	return s.store.Conversation(ctx, caller.ID, peerID)
}

// MarkRead flips a received message to read and tells the sender.
func (s *Service) MarkRead(ctx context.Context, caller auth.Identity, messageID string) (Message, error) {
	m, err := s.store.GetByID(ctx, messageID)
	if err != nil {
		return Message{}, err
	}
	if m.ReceiverID != caller.ID {
		return Message{}, ErrForbidden
	}
	if m.Status == StatusRead {
		return m, nil
	}
	m.Status = StatusRead
	if err := s.store.Update(ctx, m); err != nil {
		return Message{}, err
	}
	s.notifier.Notify(m.SenderID, notify.EventMessageRead, map[string]string{"message_id": m.ID})
	return m, nil
}

// Edit replaces the body of the caller's own message.
func (s *Service) Edit(ctx context.Context, caller auth.Identity, messageID, body string) (Message, error) {
	if body == "" {
		return Message{}, ErrInvalidInput
	}
	m, err := s.store.GetByID(ctx, messageID)
	if err != nil {
		return Message{}, err
	}
	if m.SenderID != caller.ID {
		return Message{}, ErrForbidden
	}
	if m.Deleted {
		return Message{}, ErrNotFound
	}
	m.Body = body
	m.Edited = true
	if err := s.store.Update(ctx, m); err != nil {
		return Message{}, err
	}
	s.notifier.Notify(m.ReceiverID, notify.EventMessageEdited, m)
	return m, nil
}

// Delete blanks the caller's own message, keeping the row.
func (s *Service) Delete(ctx context.Context, caller auth.Identity, messageID string) error {
	m, err := s.store.GetByID(ctx, messageID)
	if err != nil {
		return err
	}
	if m.SenderID != caller.ID {
		return ErrForbidden
	}
	m.Body = ""
	m.Image = ""
	m.Deleted = true
	if err := s.store.Update(ctx, m); err != nil {
		return err
	}
	s.notifier.Notify(m.ReceiverID, notify.EventMessageDeleted, map[string]string{"message_id": m.ID})
	return nil
}
