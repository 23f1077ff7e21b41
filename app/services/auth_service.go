package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/shashiranjanraj/orderdesk/app/models"
	"github.com/shashiranjanraj/orderdesk/pkg/auth"
	"github.com/shashiranjanraj/orderdesk/pkg/logger"
)

// UserDirectory looks users up by credentials.
type UserDirectory interface {
	FindByCredentials(ctx context.Context, email, password string) ([]models.User, error)
}

type AuthService struct {
	users UserDirectory
}

func NewAuthService(users UserDirectory) *AuthService {
	return &AuthService{users: users}
}

// EncodeToken builds the session token: base64 of "username:password".
func EncodeToken(username, password string) string {
	return base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
}

// DecodeToken reverses EncodeToken. The username ends at the first ':'.
func DecodeToken(token string) (username, password string, err error) {
	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	username, password, ok := strings.Cut(string(raw), ":")
	if !ok {
		return "", "", fmt.Errorf("%w: missing separator", ErrMalformedToken)
	}
	return username, password, nil
}

// Login checks the credentials against the User Directory and returns the
// session token for them.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, models.User, error) {
	user, err := s.find(ctx, username, password)
	if err != nil {
		return "", models.User{}, err
	}
	logger.WithCtx(ctx).Info("user logged in", "user_id", user.ID)
	return EncodeToken(username, password), user, nil
}

// Validate resolves a session token to its user. A token that decodes but
// matches nobody yields ErrAuth; ErrMalformedToken and ErrNetwork mean the
// token could not be checked at all.
func (s *AuthService) Validate(ctx context.Context, token string) (models.User, error) {
	username, password, err := DecodeToken(token)
	if err != nil {
		return models.User{}, err
	}
	return s.find(ctx, username, password)
}

// IssueJWT logs in and returns an API bearer token for the user.
func (s *AuthService) IssueJWT(ctx context.Context, username, password string) (string, error) {
	user, err := s.find(ctx, username, password)
	if err != nil {
		return "", err
	}
	return auth.GenerateToken(user.ID.String(), user.Email)
}

func (s *AuthService) find(ctx context.Context, username, password string) (models.User, error) {
	users, err := s.users.FindByCredentials(ctx, username, password)
	if err != nil {
		if errors.Is(err, ErrNetwork) {
			return models.User{}, err
		}
		return models.User{}, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	if len(users) == 0 {
		return models.User{}, ErrAuth
	}
	return users[0], nil
}
