package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/jmswift/finconsole/internal/api"
	"github.com/jmswift/finconsole/internal/models"
	"github.com/jmswift/finconsole/internal/session"
)

// AuthService runs the credential exchange against the backend and keeps the
// session guard in step with its outcome.
type AuthService struct {
	client *api.Client
	guard  *session.Guard
	log    *zap.Logger
}

func NewAuthService(client *api.Client, guard *session.Guard, log *zap.Logger) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{client: client, guard: guard, log: log}
}

// Login validates the credentials locally, then exchanges them. No request
// is dispatched when validation fails.
func (s *AuthService) Login(ctx context.Context, email, password string) (models.User, error) {
	return s.authenticate(ctx, email, password, s.client.Login)
}

// Register mirrors Login against the registration endpoint.
func (s *AuthService) Register(ctx context.Context, email, password string) (models.User, error) {
	return s.authenticate(ctx, email, password, s.client.Register)
}

func (s *AuthService) authenticate(ctx context.Context, email, password string, exchange func(context.Context, string, string) (models.User, error)) (models.User, error) {
	if err := session.ValidateCredentials(email, password); err != nil {
		return models.User{}, err
	}

	s.guard.BeginAuth()
	user, err := exchange(ctx, email, password)
	if err != nil {
		s.guard.FailAuth()
		s.log.Warn("authentication failed", zap.String("email", email), zap.Error(err))
		return models.User{}, err
	}
	s.guard.CompleteAuth(user)
	s.log.Info("authenticated", zap.String("user", user.ID), zap.String("role", string(user.Role)))
	return user, nil
}

// Logout clears the server session and drops the guard regardless of whether
// the backend call succeeded.
func (s *AuthService) Logout(ctx context.Context) error {
	err := s.client.Logout(ctx)
	s.guard.Invalidate()
	return err
}
