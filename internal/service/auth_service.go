package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/red-heart/auth-service/internal/auth"
	"github.com/red-heart/auth-service/internal/config"
	"github.com/red-heart/auth-service/internal/domain"
	"github.com/red-heart/auth-service/internal/events"
	"github.com/red-heart/auth-service/internal/repository"
	"github.com/red-heart/auth-service/internal/session"
)

// ErrInvalidCredentials covers both unknown email and wrong password so
// callers cannot enumerate registered emails.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrEmailTaken signals a registration conflict within a role partition.
var ErrEmailTaken = errors.New("email already registered")

// AuthService coordinates registration and sign-in flows for both role
// partitions.
type AuthService struct {
	creds      repository.CredentialRepository
	tokenMgr   *auth.TokenManager
	sessions   *session.Tracker
	dispatcher events.Dispatcher
	bcryptCost int
}

// AuthDependencies encapsulates collaborator requirements for the auth service.
type AuthDependencies struct {
	CredentialRepo repository.CredentialRepository
	SessionTracker *session.Tracker
	Dispatcher     events.Dispatcher
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		creds:      deps.CredentialRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		sessions:   deps.SessionTracker,
		dispatcher: deps.Dispatcher,
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// SignIn authenticates an existing (role, email) identity and issues a token.
func (s *AuthService) SignIn(ctx context.Context, role domain.Role, email, password string) (string, time.Time, error) {
	account, err := s.creds.GetByEmail(ctx, role, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", time.Time{}, ErrInvalidCredentials
		}
		return "", time.Time{}, err
	}
	if err := auth.ComparePassword(account.PasswordHash, password); err != nil {
		return "", time.Time{}, ErrInvalidCredentials
	}

	token, exp, err := s.issue(ctx, role, account.Email)
	if err != nil {
		return "", time.Time{}, err
	}
	s.publish(ctx, events.EventAccountSignedIn, role, account.Email)
	return token, exp, nil
}

// Register creates a new credential record under (role, email) and issues a
// token for the fresh identity. Uniqueness is ultimately enforced by the
// per-role database constraint; the lookup ahead of the insert only makes
// the common duplicate case cheap.
func (s *AuthService) Register(ctx context.Context, role domain.Role, email, password string) (string, time.Time, error) {
	if _, err := s.creds.GetByEmail(ctx, role, email); err == nil {
		return "", time.Time{}, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return "", time.Time{}, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return "", time.Time{}, err
	}

	account := &domain.Account{Email: email, PasswordHash: hash}
	if err := s.creds.Create(ctx, role, account); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return "", time.Time{}, ErrEmailTaken
		}
		return "", time.Time{}, err
	}

	token, exp, err := s.issue(ctx, role, account.Email)
	if err != nil {
		return "", time.Time{}, err
	}
	s.publish(ctx, events.EventAccountRegistered, role, account.Email)
	return token, exp, nil
}

// issue signs a token and records its session entry in the expiry tracker,
// keyed by the token ID with a TTL matching the token lifetime.
func (s *AuthService) issue(ctx context.Context, role domain.Role, email string) (string, time.Time, error) {
	token, jti, exp, err := s.tokenMgr.GenerateToken(email, role)
	if err != nil {
		return "", time.Time{}, err
	}
	if err := s.sessions.Track(ctx, jti, email, s.tokenMgr.TTL()); err != nil {
		return "", time.Time{}, err
	}
	return token, exp, nil
}

func (s *AuthService) publish(ctx context.Context, eventType events.EventType, role domain.Role, email string) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Role:      role,
		Email:     email,
		Timestamp: time.Now(),
	})
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// SessionTracker exposes the session tracker for middleware usage.
func (s *AuthService) SessionTracker() *session.Tracker {
	return s.sessions
}
