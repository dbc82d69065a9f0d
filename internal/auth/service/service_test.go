package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dovepeak/quotemaster/internal/apperror"
	authdomain "github.com/dovepeak/quotemaster/internal/auth/domain"
	"github.com/dovepeak/quotemaster/internal/auth/repository"
	"github.com/dovepeak/quotemaster/internal/clock"
	"github.com/dovepeak/quotemaster/internal/config"
	"github.com/dovepeak/quotemaster/internal/ratelimit"
	"github.com/dovepeak/quotemaster/internal/storage"
	"github.com/dovepeak/quotemaster/internal/storage/memory"
	"github.com/dovepeak/quotemaster/internal/workspace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	svc     *Service
	clock   *clock.FakeClock
	gateway *storage.Gateway
}

func newFixture(t *testing.T, cfg config.Config) fixture {
	t.Helper()

	if cfg.SessionTTL == 0 {
		cfg.SessionTTL = 24 * time.Hour
	}
	clk := clock.NewFakeClock(time.Date(2024, time.June, 1, 9, 0, 0, 0, time.UTC))
	g := storage.NewGateway(storage.GatewayParams{Store: memory.New(), Clock: clk, Log: zap.NewNop()})
	svc := New(Params{
		Log:     zap.NewNop(),
		Clock:   clk,
		Config:  cfg,
		Repo:    repository.New(g),
		Gateway: g,
		Limiter: ratelimit.NewLoginLimiter(cfg, clk),
	})
	t.Cleanup(svc.Close)
	return fixture{svc: svc, clock: clk, gateway: g}
}

func register(t *testing.T, svc *Service, ctx context.Context) *authdomain.User {
	t.Helper()
	res, err := svc.Register(ctx, authdomain.RegisterRequest{Email: "Demo@Dovepeak.com", Password: "demo123", Name: "Demo"})
	require.NoError(t, err)
	require.True(t, res.Success, res.Message)
	return res.User
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	f := newFixture(t, config.Config{})
	ctx := context.Background()

	user := register(t, f.svc, ctx)
	assert.Equal(t, "demo@dovepeak.com", user.Email)
	assert.Equal(t, f.clock.Now(), user.CreatedAt)

	res, err := f.svc.Register(ctx, authdomain.RegisterRequest{Email: "demo@dovepeak.com", Password: "other", Name: "Again"})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "User with this email already exists", res.Message)
	assert.Nil(t, res.User)
}

func TestRegisterValidatesInput(t *testing.T) {
	f := newFixture(t, config.Config{})

	_, err := f.svc.Register(context.Background(), authdomain.RegisterRequest{Email: "not-an-email", Name: "X"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrValidation))

	fields := map[string]bool{}
	for _, fe := range apperror.As(err).Fields {
		fields[fe.Field] = true
	}
	assert.True(t, fields["email"])
	assert.True(t, fields["password"])
}

func TestLoginStoresSessionAndRefreshesLastLogin(t *testing.T) {
	f := newFixture(t, config.Config{})
	ctx := context.Background()
	register(t, f.svc, ctx)

	f.clock.Advance(time.Hour)
	res, err := f.svc.Login(ctx, authdomain.LoginRequest{Email: "demo@dovepeak.com", Password: "demo123"})
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Equal(t, "Login successful", res.Message)
	assert.Equal(t, f.clock.Now(), res.User.LastLogin)
	require.NotNil(t, res.ExpiresAt)
	assert.Equal(t, f.clock.Now().Add(24*time.Hour), *res.ExpiresAt)

	current, err := f.svc.CurrentUser(ctx)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, res.User.ID, current.ID)
}

func TestLoginFailures(t *testing.T) {
	f := newFixture(t, config.Config{})
	ctx := context.Background()
	register(t, f.svc, ctx)

	res, err := f.svc.Login(ctx, authdomain.LoginRequest{Email: "demo@dovepeak.com", Password: "wrong"})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "Invalid email or password", res.Message)

	res, err = f.svc.Login(ctx, authdomain.LoginRequest{Email: "nobody@dovepeak.com", Password: "demo123"})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "Invalid email or password", res.Message)

	current, err := f.svc.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, current)
}

func TestSessionPurgedAfterExpiry(t *testing.T) {
	f := newFixture(t, config.Config{})
	ctx := context.Background()
	register(t, f.svc, ctx)

	_, err := f.svc.Login(ctx, authdomain.LoginRequest{Email: "demo@dovepeak.com", Password: "demo123"})
	require.NoError(t, err)

	f.clock.Advance(24*time.Hour - time.Second)
	current, err := f.svc.CurrentUser(ctx)
	require.NoError(t, err)
	assert.NotNil(t, current)

	f.clock.Advance(2 * time.Second)
	current, err = f.svc.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, current)

	var raw authdomain.Session
	found, err := f.gateway.Read(ctx, storage.AuthSession, &raw)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestLogoutClearsSession(t *testing.T) {
	f := newFixture(t, config.Config{})
	ctx := context.Background()
	register(t, f.svc, ctx)

	_, err := f.svc.Login(ctx, authdomain.LoginRequest{Email: "demo@dovepeak.com", Password: "demo123"})
	require.NoError(t, err)
	require.NoError(t, f.svc.Logout(ctx))

	current, err := f.svc.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, current)
}

func TestExternalSessionWriteIsObserved(t *testing.T) {
	f := newFixture(t, config.Config{})
	ctx := context.Background()
	register(t, f.svc, ctx)

	_, err := f.svc.Login(ctx, authdomain.LoginRequest{Email: "demo@dovepeak.com", Password: "demo123"})
	require.NoError(t, err)

	// Replace the session behind the service's back.
	other := authdomain.NewSession(authdomain.User{ID: "other", Email: "other@dovepeak.com", Name: "Other"}, f.clock.Now(), time.Hour)
	require.NoError(t, f.gateway.Write(ctx, storage.AuthSession, other))

	current, err := f.svc.CurrentUser(ctx)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, "other", current.ID)
}

func TestSessionsAreScopedToWorkspace(t *testing.T) {
	f := newFixture(t, config.Config{})
	alpha := workspace.WithID(context.Background(), "alpha")
	beta := workspace.WithID(context.Background(), "beta")
	register(t, f.svc, alpha)

	_, err := f.svc.Login(alpha, authdomain.LoginRequest{Email: "demo@dovepeak.com", Password: "demo123"})
	require.NoError(t, err)

	current, err := f.svc.CurrentUser(beta)
	require.NoError(t, err)
	assert.Nil(t, current)

	res, err := f.svc.Login(beta, authdomain.LoginRequest{Email: "demo@dovepeak.com", Password: "demo123"})
	require.NoError(t, err)
	assert.False(t, res.Success)
}

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t, config.Config{})
	ctx := context.Background()

	_, err := f.svc.UpdateProfile(ctx, authdomain.UpdateProfileRequest{})
	assert.True(t, errors.Is(err, apperror.ErrUnauthorized))

	register(t, f.svc, ctx)
	_, err = f.svc.Login(ctx, authdomain.LoginRequest{Email: "demo@dovepeak.com", Password: "demo123"})
	require.NoError(t, err)

	name := "Demo Renamed"
	email := "renamed@dovepeak.com"
	updated, err := f.svc.UpdateProfile(ctx, authdomain.UpdateProfileRequest{Name: &name, Email: &email})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)

	current, err := f.svc.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, email, current.Email)

	require.NoError(t, f.svc.Logout(ctx))
	res, err := f.svc.Login(ctx, authdomain.LoginRequest{Email: email, Password: "demo123"})
	require.NoError(t, err)
	assert.True(t, res.Success)
}

func TestUpdateProfileRejectsInvalidEmail(t *testing.T) {
	f := newFixture(t, config.Config{})
	ctx := context.Background()
	register(t, f.svc, ctx)
	_, err := f.svc.Login(ctx, authdomain.LoginRequest{Email: "demo@dovepeak.com", Password: "demo123"})
	require.NoError(t, err)

	for _, email := range []string{"", "   ", "not-an-email", "Demo <demo@dovepeak.com>"} {
		_, err := f.svc.UpdateProfile(ctx, authdomain.UpdateProfileRequest{Email: &email})
		require.Error(t, err, email)
		assert.True(t, errors.Is(err, apperror.ErrValidation), email)
		require.Len(t, apperror.As(err).Fields, 1)
		assert.Equal(t, "email", apperror.As(err).Fields[0].Field)
	}

	current, err := f.svc.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "demo@dovepeak.com", current.Email)
}

func TestLoginIsThrottledPerWorkspace(t *testing.T) {
	f := newFixture(t, config.Config{LoginRatePerMinute: 1, LoginRateBurst: 2})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := f.svc.Login(ctx, authdomain.LoginRequest{Email: "x@dovepeak.com", Password: "x"})
		require.NoError(t, err)
	}
	_, err := f.svc.Login(ctx, authdomain.LoginRequest{Email: "x@dovepeak.com", Password: "x"})
	assert.Equal(t, apperror.KindRateLimited, apperror.KindOf(err))

	_, err = f.svc.Login(workspace.WithID(ctx, "other"), authdomain.LoginRequest{Email: "x@dovepeak.com", Password: "x"})
	assert.NoError(t, err)
}
