package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aiassess/assessment-backend/internal/config"
	"github.com/aiassess/assessment-backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// ErrResetTokenInvalid is returned for unknown or expired reset tokens.
var ErrResetTokenInvalid = errors.New("invalid or expired reset token")

// CredentialStore is the account surface the reset flow needs.
type CredentialStore interface {
	GetByRoleAndEmail(ctx context.Context, role model.Role, email string) (*model.User, error)
	SetResetToken(ctx context.Context, role model.Role, email, token string, expiry time.Time) error
	FindByResetToken(ctx context.Context, token string) (*model.User, time.Time, error)
	ResetPassword(ctx context.Context, token, passwordHash string) error
}

// ResetEmailJob is the queue payload the mailer worker consumes.
type ResetEmailJob struct {
	Email string     `json:"email"`
	Role  model.Role `json:"role"`
	Token string     `json:"token"`
}

// PasswordService implements the forgot/reset password flow. Email delivery
// is best-effort: jobs are pushed onto a Redis queue and a background worker
// drains it; delivery failures are logged, never surfaced to the caller.
type PasswordService struct {
	users CredentialStore
	auth  *AuthService
	rdb   *redis.Client
	ttl   time.Duration
	log   zerolog.Logger
}

// NewPasswordService creates a new PasswordService.
func NewPasswordService(users CredentialStore, auth *AuthService, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *PasswordService {
	return &PasswordService{
		users: users,
		auth:  auth,
		rdb:   rdb,
		ttl:   cfg.ResetTokenTTL,
		log:   log.With().Str("component", "password_service").Logger(),
	}
}

// Forgot issues a reset token for an account and queues the reset email.
func (s *PasswordService) Forgot(ctx context.Context, role model.Role, email string) error {
	if _, err := s.users.GetByRoleAndEmail(ctx, role, email); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrUserNotFound
		}
		return fmt.Errorf("get user: %w", err)
	}

	token, err := generateResetToken()
	if err != nil {
		return fmt.Errorf("generate token: %w", err)
	}

	expiry := time.Now().UTC().Add(s.ttl)
	if err := s.users.SetResetToken(ctx, role, email, token, expiry); err != nil {
		return fmt.Errorf("store token: %w", err)
	}

	s.enqueueResetEmail(ctx, &ResetEmailJob{Email: email, Role: role, Token: token})
	return nil
}

// Reset consumes a token and sets the new password.
func (s *PasswordService) Reset(ctx context.Context, token, newPassword string) error {
	_, expiry, err := s.users.FindByResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrResetTokenInvalid
		}
		return fmt.Errorf("find token: %w", err)
	}
	if time.Now().UTC().After(expiry) {
		return ErrResetTokenInvalid
	}

	hash, err := s.auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.ResetPassword(ctx, token, hash); err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	return nil
}

// enqueueResetEmail pushes the job for the mailer worker. Fire and forget.
func (s *PasswordService) enqueueResetEmail(ctx context.Context, job *ResetEmailJob) {
	if s.rdb == nil {
		return
	}
	raw, err := json.Marshal(job)
	if err != nil {
		return
	}
	if err := s.rdb.RPush(ctx, config.WorkerKey.ResetEmailQueue, raw).Err(); err != nil {
		s.log.Error().Err(err).Str("email", job.Email).Msg("Failed to enqueue reset email")
	}
}

func generateResetToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
