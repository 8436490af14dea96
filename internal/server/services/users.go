package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/avolkovx/listsync/internal/common"
	"github.com/avolkovx/listsync/internal/server/auth"
	"github.com/avolkovx/listsync/internal/server/config"
	"github.com/avolkovx/listsync/internal/server/models"
	"github.com/avolkovx/listsync/internal/server/repositories/repomanager"
)

// UserService is the identity collaborator: registration, login, access
// tokens and the push device-token registry.
type UserService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                          db,
		repomanager:                 m,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
	}
}

func (s *UserService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	if username == "" || email == "" || password == "" {
		return nil, common.ErrInvalidInput
	}

	repo := s.repomanager.Users(s.db)

	// Both columns are unique in the schema; checking here turns the
	// constraint violation into ErrAlreadyExists instead of a raw db error.
	if _, err := repo.GetByUsername(ctx, username); err == nil {
		return nil, common.ErrAlreadyExists
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}
	if _, err := repo.GetByEmail(ctx, email); err == nil {
		return nil, common.ErrAlreadyExists
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash error: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}

	user, err = repo.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, nil
}

// Login verifies the password and returns a signed access token.
func (s *UserService) Login(ctx context.Context, username, password string) (string, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", common.ErrUnauthorized
		}
		return "", common.ErrInternal
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return "", common.ErrUnauthorized
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return "", common.ErrInternal
	}

	return token, nil
}

// VerifyAccessToken resolves a bearer token to the user identity.
func (s *UserService) VerifyAccessToken(tokenString string) (string, error) {
	userID, err := auth.GetUserIDFromToken(tokenString, s.jwtSecret)
	if err != nil {
		return "", common.ErrInvalidToken
	}
	return userID, nil
}

func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByID(ctx, id)
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByEmail(ctx, email)
}

// RegisterDeviceToken records a push target for the user. Idempotent.
func (s *UserService) RegisterDeviceToken(ctx context.Context, userID, token string) error {
	if token == "" {
		return common.ErrInvalidInput
	}
	return s.repomanager.Users(s.db).AddDeviceToken(ctx, userID, token)
}

func (s *UserService) UnregisterDeviceToken(ctx context.Context, userID, token string) error {
	return s.repomanager.Users(s.db).RemoveDeviceToken(ctx, userID, token)
}
