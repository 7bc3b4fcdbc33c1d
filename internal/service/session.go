package service

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/khata-app/khata-bff/internal/domain"
	"github.com/khata-app/khata-bff/internal/infra/observability"
	"github.com/khata-app/khata-bff/internal/port"
)

// GateConfig carries the owner identity the gate checks locally.
type GateConfig struct {
	OwnerEmail string
	// OwnerPasswordHash is a bcrypt hash consulted instead of the
	// backend when DevAuth is set. Lets the service run without the
	// ledger API during development.
	OwnerPasswordHash string
	DevAuth           bool
}

// Gate is the session gate: a single process-wide authenticated flag
// guarding the shop routes. There is exactly one account, so no user
// store and no tokens; the flag flips on a successful password check
// and flips back on logout, unconditionally.
type Gate struct {
	mu            sync.Mutex
	authenticated bool
	sessionID     string

	checker port.PasswordChecker
	cfg     GateConfig
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewGate creates the session gate. The initial state is logged out.
func NewGate(checker port.PasswordChecker, cfg GateConfig, metrics *observability.Metrics, logger *zap.Logger) *Gate {
	return &Gate{
		checker: checker,
		cfg:     cfg,
		metrics: metrics,
		logger:  logger,
	}
}

// Login verifies the owner credentials. The email is checked locally
// first: on a mismatch no password ever leaves the process. The
// failure message is identical for wrong email and wrong password.
// Every completed attempt adopts its outcome as the new gate state, so
// a failed login demotes a previously authenticated session.
func (g *Gate) Login(ctx context.Context, email, password string) error {
	ctx, span := tracer.Start(ctx, "Gate.Login")
	defer span.End()

	if strings.TrimSpace(email) != g.cfg.OwnerEmail {
		g.demote()
		g.metrics.IncrLoginAttempt("wrong_email")
		return &domain.ErrUnauthorized{Message: "Invalid email or password"}
	}

	match, err := g.checkPassword(ctx, password)
	if err != nil {
		// A broken password check is a failed login, not a surfaced
		// outage: the caller sees the same generic message.
		g.demote()
		g.metrics.IncrLoginAttempt("error")
		g.logger.Error("password check failed", zap.Error(err))
		return &domain.ErrUnauthorized{Message: "Invalid email or password"}
	}
	if !match {
		g.demote()
		g.metrics.IncrLoginAttempt("wrong_password")
		return &domain.ErrUnauthorized{Message: "Invalid email or password"}
	}

	g.mu.Lock()
	g.authenticated = true
	g.sessionID = uuid.NewString()
	sessionID := g.sessionID
	g.mu.Unlock()

	g.metrics.IncrLoginAttempt("success")
	g.logger.Info("owner logged in", zap.String("session_id", sessionID))
	return nil
}

// demote clears the gate state after a failed login attempt.
func (g *Gate) demote() {
	g.mu.Lock()
	g.authenticated = false
	g.sessionID = ""
	g.mu.Unlock()
}

// checkPassword consults the backend, or the local bcrypt hash when
// dev auth is enabled.
func (g *Gate) checkPassword(ctx context.Context, password string) (bool, error) {
	if g.cfg.DevAuth && g.cfg.OwnerPasswordHash != "" {
		err := bcrypt.CompareHashAndPassword([]byte(g.cfg.OwnerPasswordHash), []byte(password))
		return err == nil, nil
	}
	return g.checker.CheckPassword(ctx, password)
}

// Logout clears the session. It never fails and never talks to the
// backend, so a logout succeeds even when the ledger API is down.
func (g *Gate) Logout() {
	g.mu.Lock()
	g.authenticated = false
	g.sessionID = ""
	g.mu.Unlock()

	g.logger.Info("owner logged out")
}

// IsAuthenticated reports the current gate state.
func (g *Gate) IsAuthenticated() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.authenticated
}

// State returns the session state for the session endpoints.
func (g *Gate) State() domain.SessionState {
	return domain.SessionState{Authenticated: g.IsAuthenticated()}
}

// ChangePassword rotates the owner password via the backend. Both
// fields are required and the new password must be at least 6
// characters, mirroring the form rules.
func (g *Gate) ChangePassword(ctx context.Context, current, new string) error {
	ctx, span := tracer.Start(ctx, "Gate.ChangePassword")
	defer span.End()

	if current == "" {
		return &domain.ErrRequiredField{Field: "currentPassword"}
	}
	if new == "" {
		return &domain.ErrRequiredField{Field: "newPassword"}
	}
	if len(new) < 6 {
		return &domain.ErrFormat{Field: "newPassword", Message: "Password must be at least 6 characters"}
	}

	if err := g.checker.ChangePassword(ctx, current, new); err != nil {
		return err
	}
	g.logger.Info("owner password changed")
	return nil
}
