package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"messagely/internal/common"
	"messagely/internal/domain/model"
)

type MessageRepository interface {
	Create(ctx context.Context, message *model.Message) error
	FindByID(ctx context.Context, id string) (*model.Message, error)
	MarkRead(ctx context.Context, id string) (*model.ReadReceipt, error)
	ListFrom(ctx context.Context, username string) ([]model.Message, error)
	ListTo(ctx context.Context, username string) ([]model.Message, error)
}

type pgMessageRepository struct {
	db *sql.DB
}

func NewPgMessageRepository(db *sql.DB) MessageRepository {
	return &pgMessageRepository{db: db}
}

func (r *pgMessageRepository) Create(ctx context.Context, message *model.Message) error {
	query := `INSERT INTO messages (id, from_username, to_username, body, sent_at, read_at)
	          VALUES ($1, $2, $3, $4, current_timestamp, NULL)
	          RETURNING sent_at`
	err := r.db.QueryRowContext(ctx, query,
		message.ID, message.FromUsername, message.ToUsername, message.Body,
	).Scan(&message.SentAt)
	if err != nil {
		return fmt.Errorf("pgMessageRepository.Create: %w", err)
	}
	return nil
}

func (r *pgMessageRepository) FindByID(ctx context.Context, id string) (*model.Message, error) {
	query := `SELECT id, from_username, to_username, body, sent_at, read_at
	          FROM messages WHERE id = $1`
	message := &model.Message{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&message.ID, &message.FromUsername, &message.ToUsername,
		&message.Body, &message.SentAt, &message.ReadAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgMessageRepository.FindByID: %w", err)
	}
	return message, nil
}

// MarkRead stamps read_at once; a second call leaves the original
// timestamp untouched.
func (r *pgMessageRepository) MarkRead(ctx context.Context, id string) (*model.ReadReceipt, error) {
	query := `UPDATE messages SET read_at = COALESCE(read_at, current_timestamp)
	          WHERE id = $1
	          RETURNING id, read_at`
	receipt := &model.ReadReceipt{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&receipt.ID, &receipt.ReadAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgMessageRepository.MarkRead: %w", err)
	}
	return receipt, nil
}

func (r *pgMessageRepository) ListFrom(ctx context.Context, username string) ([]model.Message, error) {
	query := `SELECT id, from_username, to_username, body, sent_at, read_at
	          FROM messages WHERE from_username = $1 ORDER BY sent_at`
	return r.list(ctx, query, username, "ListFrom")
}

func (r *pgMessageRepository) ListTo(ctx context.Context, username string) ([]model.Message, error) {
	query := `SELECT id, from_username, to_username, body, sent_at, read_at
	          FROM messages WHERE to_username = $1 ORDER BY sent_at`
	return r.list(ctx, query, username, "ListTo")
}

func (r *pgMessageRepository) list(ctx context.Context, query, username, op string) ([]model.Message, error) {
	rows, err := r.db.QueryContext(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("pgMessageRepository.%s: %w", op, err)
	}
	defer rows.Close()

	var messages []model.Message
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.ID, &m.FromUsername, &m.ToUsername, &m.Body, &m.SentAt, &m.ReadAt); err != nil {
			return nil, fmt.Errorf("pgMessageRepository.%s: %w", op, err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgMessageRepository.%s: %w", op, err)
	}
	return messages, nil
}
