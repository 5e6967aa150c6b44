package service

import (
	"context"
	"fmt"

	"messagely/internal/common"
	"messagely/internal/domain/model"
	"messagely/internal/domain/repository"
)

type UserService struct {
	userRepo    repository.UserRepository
	messageRepo repository.MessageRepository
}

func NewUserService(userRepo repository.UserRepository, messageRepo repository.MessageRepository) *UserService {
	return &UserService{userRepo: userRepo, messageRepo: messageRepo}
}

// All returns every user's public profile. An empty directory is an error,
// not an empty list.
func (s *UserService) All(ctx context.Context) ([]model.Profile, error) {
	profiles, err := s.userRepo.All(ctx)
	if err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		return nil, fmt.Errorf("there are no users: %w", common.ErrNotFound)
	}
	return profiles, nil
}

func (s *UserService) Get(ctx context.Context, username string) (*model.User, error) {
	return s.userRepo.FindByUsername(ctx, username)
}

// MessagesFrom returns the user's outbox with each recipient resolved to a
// profile by a second lookup. Order follows the message query. An empty
// outbox is an error, matching the directory-wide policy.
func (s *UserService) MessagesFrom(ctx context.Context, username string) ([]model.SentMessage, error) {
	messages, err := s.messageRepo.ListFrom(ctx, username)
	if err != nil {
		return nil, err
	}
	if len(messages) == 0 {
		return nil, fmt.Errorf("there are no messages for %s: %w", username, common.ErrNotFound)
	}

	sent := make([]model.SentMessage, 0, len(messages))
	for _, m := range messages {
		toUser, err := s.userRepo.FindProfile(ctx, m.ToUsername)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve recipient %s: %w", m.ToUsername, err)
		}
		sent = append(sent, model.SentMessage{
			ID:     m.ID,
			Body:   m.Body,
			SentAt: m.SentAt,
			ReadAt: m.ReadAt,
			ToUser: *toUser,
		})
	}
	return sent, nil
}

// MessagesTo is the inbound mirror of MessagesFrom.
func (s *UserService) MessagesTo(ctx context.Context, username string) ([]model.ReceivedMessage, error) {
	messages, err := s.messageRepo.ListTo(ctx, username)
	if err != nil {
		return nil, err
	}
	if len(messages) == 0 {
		return nil, fmt.Errorf("there are no messages for %s: %w", username, common.ErrNotFound)
	}

	received := make([]model.ReceivedMessage, 0, len(messages))
	for _, m := range messages {
		fromUser, err := s.userRepo.FindProfile(ctx, m.FromUsername)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve sender %s: %w", m.FromUsername, err)
		}
		received = append(received, model.ReceivedMessage{
			ID:       m.ID,
			Body:     m.Body,
			SentAt:   m.SentAt,
			ReadAt:   m.ReadAt,
			FromUser: *fromUser,
		})
	}
	return received, nil
}
