package services

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"chungtay/app/models"
)

// MessageStore is the slice of the message repository the service needs.
type MessageStore interface {
	Create(ctx context.Context, m *models.Message) error
	ListByCase(ctx context.Context, caseID primitive.ObjectID) ([]models.Message, error)
}

// MessageCaseStore resolves the case a message thread belongs to.
type MessageCaseStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Case, error)
}

type MessageService struct {
	messages MessageStore
	cases    MessageCaseStore
}

func NewMessageService(messages MessageStore, cases MessageCaseStore) *MessageService {
	return &MessageService{messages: messages, cases: cases}
}

// List returns a case's message thread in chronological order.
func (s *MessageService) List(ctx context.Context, caseID string) ([]models.Message, error) {
	cid, err := primitive.ObjectIDFromHex(caseID)
	if err != nil {
		return nil, ErrNotFound
	}

	msgs, err := s.messages.ListByCase(ctx, cid)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return msgs, nil
}

// AppendMessageInput is one thread entry.
type AppendMessageInput struct {
	Content string `json:"content" validate:"required,min=1,max=2000"`
}

// Append adds a message to a case's thread. IsAdmin reflects the caller's
// role at write time, so later role changes do not rewrite history.
func (s *MessageService) Append(ctx context.Context, userID primitive.ObjectID, isAdmin bool, caseID string, in AppendMessageInput) (*models.Message, error) {
	cid, err := primitive.ObjectIDFromHex(caseID)
	if err != nil {
		return nil, ErrNotFound
	}

	if _, err := s.cases.FindByID(ctx, cid); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find case: %w", err)
	}

	m := &models.Message{
		CaseID:  cid,
		UserID:  userID,
		Content: in.Content,
		IsAdmin: isAdmin,
	}
	if err := s.messages.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}
	return m, nil
}
