package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/dovepeak/quotemaster/internal/apperror"
	"github.com/dovepeak/quotemaster/internal/auth/domain"
	"github.com/dovepeak/quotemaster/internal/auth/password"
	"github.com/dovepeak/quotemaster/internal/clock"
	"github.com/dovepeak/quotemaster/internal/config"
	"github.com/dovepeak/quotemaster/internal/observability/metrics"
	"github.com/dovepeak/quotemaster/internal/ratelimit"
	"github.com/dovepeak/quotemaster/internal/storage"
	"github.com/dovepeak/quotemaster/internal/validation"
	"github.com/dovepeak/quotemaster/internal/workspace"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	msgRegistered     = "Account created successfully"
	msgUserExists     = "User with this email already exists"
	msgLoggedIn       = "Login successful"
	msgBadCredentials = "Invalid email or password"
)

type Params struct {
	fx.In

	Log     *zap.Logger
	Clock   clock.Clock
	Config  config.Config
	Repo    domain.Repository
	Gateway *storage.Gateway
	Limiter *ratelimit.LoginLimiter
	Metrics *metrics.Metrics `optional:"true"`
}

type Service struct {
	log     *zap.Logger
	clock   clock.Clock
	ttl     time.Duration
	repo    domain.Repository
	limiter *ratelimit.LoginLimiter
	metrics *metrics.Metrics

	mu       sync.Mutex
	sessions map[string]domain.Session
	cancel   func()
}

func New(p Params) *Service {
	ttl := p.Config.SessionTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	s := &Service{
		log:      p.Log.Named("auth.service"),
		clock:    p.Clock,
		ttl:      ttl,
		repo:     p.Repo,
		limiter:  p.Limiter,
		metrics:  p.Metrics,
		sessions: make(map[string]domain.Session),
	}
	s.cancel = p.Gateway.Subscribe(s.onChange)
	return s
}

// Close stops listening for storage changes.
func (s *Service) Close() {
	if s.cancel != nil {
		s.cancel()
	}
}

// onChange drops the cached session of a workspace whenever its auth or user
// records are written, so the next read goes back to storage.
func (s *Service) onChange(c storage.Change) {
	if c.Name != storage.AuthSession && c.Name != storage.Users {
		return
	}
	s.mu.Lock()
	delete(s.sessions, c.Workspace)
	s.mu.Unlock()
}

func (s *Service) Register(ctx context.Context, req domain.RegisterRequest) (*domain.Result, error) {
	req.Email = normalizeEmail(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	if err := validation.Struct(req, "Please provide a name, a valid email and a password."); err != nil {
		return nil, err
	}

	if _, err := s.repo.FindByEmail(ctx, req.Email); err == nil {
		return &domain.Result{Success: false, Message: msgUserExists}, nil
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	user := domain.User{
		ID:        uuid.NewString(),
		Email:     req.Email,
		Name:      req.Name,
		CreatedAt: now,
		LastLogin: now,
	}
	if err := s.repo.CreateUser(ctx, user, hash); err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return &domain.Result{Success: false, Message: msgUserExists}, nil
		}
		return nil, err
	}

	s.log.Info("user registered", zap.String("user_id", user.ID), zap.String("workspace", workspace.FromContext(ctx)))
	return &domain.Result{Success: true, Message: msgRegistered, User: &user}, nil
}

func (s *Service) Login(ctx context.Context, req domain.LoginRequest) (*domain.Result, error) {
	ws := workspace.FromContext(ctx)
	if s.limiter != nil && !s.limiter.Allow(ws) {
		s.log.Warn("login throttled", zap.String("workspace", ws))
		s.metrics.RecordLogin(ctx, "throttled")
		return nil, apperror.RateLimited("Too many login attempts. Please try again later.")
	}

	user, err := s.repo.FindByEmail(ctx, normalizeEmail(req.Email))
	if errors.Is(err, domain.ErrUserNotFound) {
		return s.loginFailed(ctx), nil
	}
	if err != nil {
		return nil, err
	}

	hash, err := s.repo.PasswordHash(ctx, user.ID)
	if errors.Is(err, domain.ErrInvalidCredentials) {
		return s.loginFailed(ctx), nil
	}
	if err != nil {
		return nil, err
	}
	if !password.Verify(req.Password, hash) {
		return s.loginFailed(ctx), nil
	}

	now := s.clock.Now()
	user.LastLogin = now
	if err := s.repo.SaveUser(ctx, *user); err != nil {
		return nil, err
	}

	session := domain.NewSession(*user, now, s.ttl)
	if err := s.repo.StoreSession(ctx, session); err != nil {
		return nil, err
	}
	s.remember(ws, session)

	expiresAt := session.ExpiresTime()
	s.metrics.RecordLogin(ctx, "success")
	s.log.Info("user logged in", zap.String("user_id", user.ID), zap.String("workspace", ws))
	return &domain.Result{Success: true, Message: msgLoggedIn, User: user, ExpiresAt: &expiresAt}, nil
}

func (s *Service) loginFailed(ctx context.Context) *domain.Result {
	s.metrics.RecordLogin(ctx, "failure")
	return &domain.Result{Success: false, Message: msgBadCredentials}
}

func (s *Service) Logout(ctx context.Context) error {
	return s.repo.ClearSession(ctx)
}

func (s *Service) CurrentUser(ctx context.Context) (*domain.User, error) {
	session, err := s.session(ctx)
	if err != nil || session == nil {
		return nil, err
	}
	user := session.User
	return &user, nil
}

// session returns the live session of the workspace, purging it when expired.
func (s *Service) session(ctx context.Context) (*domain.Session, error) {
	ws := workspace.FromContext(ctx)

	s.mu.Lock()
	cached, ok := s.sessions[ws]
	s.mu.Unlock()

	session := &cached
	if !ok {
		loaded, err := s.repo.LoadSession(ctx)
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		session = loaded
	}

	if session.Expired(s.clock.Now()) {
		s.log.Info("session expired", zap.String("workspace", ws), zap.String("user_id", session.User.ID))
		if err := s.repo.ClearSession(ctx); err != nil {
			return nil, err
		}
		return nil, nil
	}

	if !ok {
		s.remember(ws, *session)
	}
	return session, nil
}

func (s *Service) remember(ws string, session domain.Session) {
	s.mu.Lock()
	s.sessions[ws] = session
	s.mu.Unlock()
}

func (s *Service) UpdateProfile(ctx context.Context, req domain.UpdateProfileRequest) (*domain.User, error) {
	session, err := s.session(ctx)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperror.New(apperror.KindUnauthorized, "Please sign in first.", domain.ErrNotAuthenticated)
	}

	user := session.User
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperror.Validation("Name is required.", apperror.Field("name", "required", "is required"))
		}
		user.Name = name
	}
	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		if err := validation.Validator().Var(email, "required,email"); err != nil {
			return nil, apperror.Validation("Email is invalid.", apperror.Field("email", "email", "must be a valid email address"))
		}
		if other, err := s.repo.FindByEmail(ctx, email); err == nil && other.ID != user.ID {
			return nil, apperror.New(apperror.KindConflict, msgUserExists, domain.ErrUserExists)
		} else if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		user.Email = email
	}

	if err := s.repo.SaveUser(ctx, user); err != nil {
		return nil, err
	}
	session.User = user
	if err := s.repo.StoreSession(ctx, *session); err != nil {
		return nil, err
	}
	return &user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
