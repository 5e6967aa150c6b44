package service

import (
	"context"
	"fmt"

	"messagely/internal/common"
	"messagely/internal/domain/model"
	"messagely/internal/domain/repository"

	"github.com/google/uuid"
)

type MessageService struct {
	messageRepo repository.MessageRepository
	userRepo    repository.UserRepository
}

func NewMessageService(messageRepo repository.MessageRepository, userRepo repository.UserRepository) *MessageService {
	return &MessageService{messageRepo: messageRepo, userRepo: userRepo}
}

// Get returns the message with both endpoints resolved. A viewer who is
// neither sender nor recipient gets the same ErrNotFound as a missing id,
// so existence is never revealed to third parties.
func (s *MessageService) Get(ctx context.Context, id, viewer string) (*model.MessageDetail, error) {
	message, err := s.messageRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if viewer != message.FromUsername && viewer != message.ToUsername {
		return nil, fmt.Errorf("no such message id: %s: %w", id, common.ErrNotFound)
	}

	fromUser, err := s.userRepo.FindProfile(ctx, message.FromUsername)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve sender: %w", err)
	}
	toUser, err := s.userRepo.FindProfile(ctx, message.ToUsername)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve recipient: %w", err)
	}

	return &model.MessageDetail{
		ID:       message.ID,
		Body:     message.Body,
		SentAt:   message.SentAt,
		ReadAt:   message.ReadAt,
		FromUser: *fromUser,
		ToUser:   *toUser,
	}, nil
}

// Create sends a message from the authenticated user. The recipient must
// exist before anything is inserted.
func (s *MessageService) Create(ctx context.Context, fromUsername, toUsername, body string) (*model.Message, error) {
	if toUsername == "" || body == "" {
		return nil, common.ErrBadRequest
	}

	if _, err := s.userRepo.FindProfile(ctx, toUsername); err != nil {
		return nil, err
	}

	message := &model.Message{
		ID:           uuid.NewString(),
		FromUsername: fromUsername,
		ToUsername:   toUsername,
		Body:         body,
	}
	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}
	return message, nil
}

// MarkRead stamps read_at on behalf of the recipient. Anyone else gets
// ErrNotFound, and a second call never moves the original timestamp.
func (s *MessageService) MarkRead(ctx context.Context, id, caller string) (*model.ReadReceipt, error) {
	message, err := s.messageRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if caller != message.ToUsername {
		return nil, fmt.Errorf("no such message id: %s: %w", id, common.ErrNotFound)
	}
	return s.messageRepo.MarkRead(ctx, id)
}
