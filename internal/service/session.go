package service

import (
	"context"
	"log/slog"

	"github.com/phongtro/phongtro/internal/config"
	"github.com/phongtro/phongtro/internal/domain"
)

// sessionHolder is implemented by clients that carry the identity headers
type sessionHolder interface {
	SetSession(token, userID string)
}

// SessionService manages user session operations
type SessionService struct {
	auth   domain.AuthRepository
	cfg    *config.Config
	cache  domain.Cache
	logger *slog.Logger
}

// NewSessionService creates a new SessionService
func NewSessionService(auth domain.AuthRepository, cfg *config.Config, cache domain.Cache, logger *slog.Logger) *SessionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionService{auth: auth, cfg: cfg, cache: cache, logger: logger}
}

// Login authenticates and stores the session in the config file
func (s *SessionService) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	session, err := s.auth.Login(ctx, email, password)
	if err != nil {
		s.logger.Warn("login failed", "email", email, "error", err)
		return nil, err
	}
	return session, s.adopt(session)
}

// Register creates an account and stores its session
func (s *SessionService) Register(ctx context.Context, reg domain.Registration) (*domain.Session, error) {
	session, err := s.auth.Register(ctx, reg)
	if err != nil {
		s.logger.Warn("registration failed", "email", reg.Email, "error", err)
		return nil, err
	}
	return session, s.adopt(session)
}

// Current returns the stored session, if any
func (s *SessionService) Current() (domain.Session, bool) {
	session := domain.Session{
		Token: s.cfg.Server.Token,
		User: domain.User{
			ID:    s.cfg.Server.UserID,
			Name:  s.cfg.Server.Username,
			Email: s.cfg.Server.Email,
			Role:  s.cfg.Server.Role,
		},
	}
	return session, session.Valid()
}

// Logout clears the stored session and cached data
func (s *SessionService) Logout() error {
	if err := config.ClearSession(s.cfg); err != nil {
		return err
	}
	if holder, ok := s.auth.(sessionHolder); ok {
		holder.SetSession("", "")
	}
	if s.cache != nil {
		s.cache.InvalidateAll()
	}
	s.logger.Info("logged out")
	return nil
}

func (s *SessionService) adopt(session *domain.Session) error {
	u := session.User
	if err := config.SaveSession(s.cfg, session.Token, u.ID, u.Name, u.Email, u.Role); err != nil {
		s.logger.Error("failed to save session", "error", err)
		return err
	}
	// Another account may have used this cache
	if s.cache != nil {
		s.cache.InvalidateAll()
	}
	s.logger.Info("logged in", "userID", u.ID, "role", u.Role)
	return nil
}
