package auth

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/caspianclinic/booking-platform/pkg/logging"
)

// Session is what a successful login hands back to the client.
type Session struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// Service owns account and session lifecycle.
type Service struct {
	users    UserRepository
	sessions SessionStore
	secret   string
	ttl      time.Duration
	logger   *logging.Logger
	tracer   trace.Tracer
}

// NewService creates the auth service.
func NewService(users UserRepository, sessions SessionStore, secret string, ttl time.Duration, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Service{
		users:    users,
		sessions: sessions,
		secret:   secret,
		ttl:      ttl,
		logger:   logger,
		tracer:   otel.Tracer("auth.service"),
	}
}

// Register creates an account with the user role and opens a session.
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*Session, error) {
	ctx, span := s.tracer.Start(ctx, "auth.Register")
	defer span.End()

	if err := req.Validate(); err != nil {
		return nil, err
	}
	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("auth: hash password: %w", err)
	}
	u, err := s.users.Create(ctx, &User{
		Email:        req.Email,
		Name:         req.Name,
		Role:         RoleUser,
		PasswordHash: hash,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("user registered", "user_id", u.ID)
	return s.openSession(ctx, u)
}

// Login verifies credentials and opens a session.
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*Session, error) {
	ctx, span := s.tracer.Start(ctx, "auth.Login")
	defer span.End()

	if err := req.Validate(); err != nil {
		return nil, err
	}
	u, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		// Same error for unknown email and bad password.
		return nil, ErrInvalidCredentials
	}
	if !CheckPassword(u.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}
	s.logger.Info("user logged in", "user_id", u.ID)
	return s.openSession(ctx, u)
}

func (s *Service) openSession(ctx context.Context, u *User) (*Session, error) {
	token, err := MakeToken(u, s.secret, s.ttl)
	if err != nil {
		return nil, fmt.Errorf("auth: sign token: %w", err)
	}
	if err := s.sessions.Put(ctx, token, u.ID, s.ttl); err != nil {
		return nil, err
	}
	return &Session{Token: token, User: u}, nil
}

// Validate checks the signature and the server-side session, then loads the
// account. Either failing means the caller is unauthenticated.
func (s *Service) Validate(ctx context.Context, token string) (*User, error) {
	claims, err := ParseToken(token, s.secret)
	if err != nil {
		return nil, err
	}
	userID, err := s.sessions.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if userID != claims.UserID {
		return nil, ErrBadToken
	}
	return s.users.GetByID(ctx, userID)
}

// Logout revokes the session. Revoking an already-dead session succeeds.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}
