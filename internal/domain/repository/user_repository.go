package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"messagely/internal/common"
	"messagely/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindProfile(ctx context.Context, username string) (*model.Profile, error)
	UpdateLoginTimestamp(ctx context.Context, username string) error
	All(ctx context.Context) ([]model.Profile, error)
}

type pgUserRepository struct {
	db *sql.DB
}

func NewPgUserRepository(db *sql.DB) UserRepository {
	return &pgUserRepository{db: db}
}

func (r *pgUserRepository) Create(ctx context.Context, user *model.User) error {
	query := `INSERT INTO users (username, password, first_name, last_name, phone, join_at, last_login_at)
	          VALUES ($1, $2, $3, $4, $5, current_timestamp, current_timestamp)
	          RETURNING join_at, last_login_at`
	err := r.db.QueryRowContext(ctx, query,
		user.Username, user.HashedPassword, user.FirstName, user.LastName, user.Phone,
	).Scan(&user.JoinAt, &user.LastLoginAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique constraint violation
			return fmt.Errorf("username already taken: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgUserRepository.Create: %w", err)
	}
	return nil
}

func (r *pgUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `SELECT username, password, first_name, last_name, phone, join_at, last_login_at
	          FROM users WHERE username = $1`
	user := &model.User{}
	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&user.Username, &user.HashedPassword, &user.FirstName, &user.LastName,
		&user.Phone, &user.JoinAt, &user.LastLoginAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgUserRepository.FindByUsername: %w", err)
	}
	return user, nil
}

func (r *pgUserRepository) FindProfile(ctx context.Context, username string) (*model.Profile, error) {
	query := `SELECT username, first_name, last_name, phone
	          FROM users WHERE username = $1`
	profile := &model.Profile{}
	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&profile.Username, &profile.FirstName, &profile.LastName, &profile.Phone,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgUserRepository.FindProfile: %w", err)
	}
	return profile, nil
}

func (r *pgUserRepository) UpdateLoginTimestamp(ctx context.Context, username string) error {
	query := `UPDATE users SET last_login_at = current_timestamp WHERE username = $1`
	if _, err := r.db.ExecContext(ctx, query, username); err != nil {
		return fmt.Errorf("pgUserRepository.UpdateLoginTimestamp: %w", err)
	}
	return nil
}

func (r *pgUserRepository) All(ctx context.Context) ([]model.Profile, error) {
	query := `SELECT username, first_name, last_name, phone FROM users ORDER BY username`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pgUserRepository.All: %w", err)
	}
	defer rows.Close()

	var profiles []model.Profile
	for rows.Next() {
		var p model.Profile
		if err := rows.Scan(&p.Username, &p.FirstName, &p.LastName, &p.Phone); err != nil {
			return nil, fmt.Errorf("pgUserRepository.All: %w", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgUserRepository.All: %w", err)
	}
	return profiles, nil
}
