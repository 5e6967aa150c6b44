package service

import (
	"context"
	"errors"
	"fmt"

	"messagely/internal/common"
	"messagely/internal/common/security"
	"messagely/internal/domain/model"
	"messagely/internal/domain/repository"
	"messagely/internal/logger"

	"github.com/golang-jwt/jwt/v5"
)

type AuthService struct {
	userRepo   repository.UserRepository
	tokens     *security.TokenService
	bcryptCost int
	logger     *logger.Logger
}

func NewAuthService(userRepo repository.UserRepository, tokens *security.TokenService, bcryptCost int, logger *logger.Logger) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

type RegisterRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

// Register creates the user and logs them in, returning a signed token.
// There is no pre-check for duplicates: the store's uniqueness constraint
// decides the race, and the loser gets common.ErrConflict.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*TokenResponse, error) {
	if req.Username == "" || req.Password == "" {
		return nil, common.ErrBadRequest
	}

	hashedPassword, err := security.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username:       req.Username,
		HashedPassword: hashedPassword,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Phone:          req.Phone,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if !errors.Is(err, common.ErrConflict) {
			s.logger.Error("failed to create user", "username", req.Username, "error", err.Error())
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &TokenResponse{Token: token}, nil
}

// Login verifies the credentials. An unknown username and a wrong password
// are indistinguishable to the caller: both return ok == false with a nil
// error. On success last_login_at is updated and a fresh token issued.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*TokenResponse, bool, error) {
	if req.Username == "" || req.Password == "" {
		return nil, false, common.ErrBadRequest
	}

	user, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to find user: %w", err)
	}

	if !security.CheckPasswordHash(req.Password, user.HashedPassword) {
		s.logger.Debug("login rejected", "username", req.Username)
		return nil, false, nil
	}

	if err := s.userRepo.UpdateLoginTimestamp(ctx, user.Username); err != nil {
		return nil, false, fmt.Errorf("failed to update login timestamp: %w", err)
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, false, fmt.Errorf("failed to generate token: %w", err)
	}
	return &TokenResponse{Token: token}, true, nil
}

// issueToken signs the user's public profile fields. The password hash is
// deliberately excluded; only the username claim is contractual.
func (s *AuthService) issueToken(user *model.User) (string, error) {
	return s.tokens.Issue(jwt.MapClaims{
		"username":   user.Username,
		"first_name": user.FirstName,
		"last_name":  user.LastName,
		"phone":      user.Phone,
	})
}
