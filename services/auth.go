package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"stocks-portfolio/auth"
	"stocks-portfolio/logging"
	"stocks-portfolio/models"
	"stocks-portfolio/repositories"

	"github.com/sirupsen/logrus"
)

var ErrDuplicateLogin = repositories.ErrDuplicateLogin

const (
	minLoginLen    = 3
	maxLoginLen    = 64
	minPasswordLen = 6
)

type AuthService struct {
	users      repositories.UserRepository
	issuer     *auth.TokenIssuer
	tokens     auth.TokenStore
	refreshTTL time.Duration
	isAdmin    func(login string) bool
}

func NewAuthService(users repositories.UserRepository, issuer *auth.TokenIssuer, tokens auth.TokenStore,
	refreshTTL time.Duration, isAdmin func(login string) bool) *AuthService {
	if isAdmin == nil {
		isAdmin = func(string) bool { return false }
	}
	return &AuthService{users: users, issuer: issuer, tokens: tokens, refreshTTL: refreshTTL, isAdmin: isAdmin}
}

// Signup registers a new user. Logins listed as administrators get the
// admin role.
func (s *AuthService) Signup(ctx context.Context, login, password string) (*models.User, error) {
	login = strings.TrimSpace(login)
	if n := utf8.RuneCountInString(login); n < minLoginLen || n > maxLoginLen {
		return nil, invalid("login", fmt.Sprintf("must be %d to %d characters", minLoginLen, maxLoginLen))
	}
	if utf8.RuneCountInString(password) < minPasswordLen {
		return nil, invalid("password", fmt.Sprintf("must be at least %d characters", minPasswordLen))
	}

	_, err := s.users.GetByLogin(ctx, login)
	if err == nil {
		return nil, ErrDuplicateLogin
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{Login: login, PasswordHash: hash, IsAdmin: s.isAdmin(login)}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	logging.FromContext(ctx).WithFields(logrus.Fields{"user_id": user.ID, "admin": user.IsAdmin}).Info("user signed up")
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, login, password string) (*Tokens, error) {
	user, err := s.users.GetByLogin(ctx, strings.TrimSpace(login))
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	ok, err := auth.CheckPassword(user.PasswordHash, password)
	if err != nil {
		return nil, fmt.Errorf("check password: %w", err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	access, err := s.issuer.Issue(*user)
	if err != nil {
		return nil, err
	}
	refresh, err := auth.NewRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}
	if err := s.tokens.Save(ctx, refresh, user.ID, s.refreshTTL); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &Tokens{AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh issues a new access token for a stored refresh token. The user is
// reloaded so role changes take effect.
func (s *AuthService) Refresh(ctx context.Context, refresh string) (*Tokens, error) {
	userID, err := s.tokens.Lookup(ctx, refresh)
	if errors.Is(err, auth.ErrTokenNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		_ = s.tokens.Delete(ctx, refresh)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	access, err := s.issuer.Issue(*user)
	if err != nil {
		return nil, err
	}
	return &Tokens{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) Logout(ctx context.Context, refresh string) error {
	return s.tokens.Delete(ctx, refresh)
}
