package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/aiassess/assessment-backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// Account errors.
var (
	ErrEmailTaken   = errors.New("email is already registered")
	ErrUserNotFound = errors.New("user not found")
)

// AccountStore is the account persistence surface the service needs.
// Satisfied by repository.UserRepository.
type AccountStore interface {
	GetByRoleAndEmail(ctx context.Context, role model.Role, email string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Create(ctx context.Context, u *model.User) error
	List(ctx context.Context, email string, role model.Role) ([]model.User, error)
	UpdateProfile(ctx context.Context, email string, req *model.UpdateProfileRequest) (int64, error)
	UpdateNotifications(ctx context.Context, email string, n *model.Notifications) (int64, error)
	UpdateAccount(ctx context.Context, role model.Role, email string, req *model.AdminUpdateUserRequest, passwordHash string) (int64, error)
	UpdateStatus(ctx context.Context, role model.Role, email, status string) (int64, error)
	Delete(ctx context.Context, role model.Role, email string) (int64, error)
}

// UserService covers admin account management and candidate profile ops.
type UserService struct {
	repo AccountStore
	auth *AuthService
	log  zerolog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(repo AccountStore, auth *AuthService, log zerolog.Logger) *UserService {
	return &UserService{
		repo: repo,
		auth: auth,
		log:  log.With().Str("component", "user_service").Logger(),
	}
}

// Authenticate checks credentials for a role and returns the account.
func (s *UserService) Authenticate(ctx context.Context, role model.Role, email, password string) (*model.User, error) {
	user, err := s.repo.GetByRoleAndEmail(ctx, role, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	if err := s.auth.CheckPassword(user.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// AddUser creates an account in the requested role. The initial password is
// the username, hashed; the reset flow is the way to change it.
func (s *UserService) AddUser(ctx context.Context, req *model.AddUserRequest) (*model.User, error) {
	if _, err := s.repo.GetByRoleAndEmail(ctx, req.Role, req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	hash, err := s.auth.HashPassword(req.Username)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Role:         req.Role,
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Status:       model.StatusActive,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.Info().Str("email", user.Email).Str("role", string(user.Role)).Msg("User created")
	return user, nil
}

// ListUsers retrieves accounts by optional email and role filters.
func (s *UserService) ListUsers(ctx context.Context, email string, role model.Role) ([]model.User, error) {
	users, err := s.repo.List(ctx, email, role)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	if len(users) == 0 {
		return nil, ErrUserNotFound
	}
	return users, nil
}

// UpdateUser applies an admin edit to the account holding the email, in any
// role. A provided password is re-hashed; other provided fields replace the
// stored values as-is.
func (s *UserService) UpdateUser(ctx context.Context, email string, req *model.AdminUpdateUserRequest) (*model.User, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	hash := ""
	if req.Password != nil {
		hash, err = s.auth.HashPassword(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
	}

	changed, err := s.repo.UpdateAccount(ctx, user.Role, user.Email, req, hash)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	if changed == 0 {
		return nil, ErrUserNotFound
	}

	role := user.Role
	if req.Role != nil {
		role = *req.Role
	}
	if req.Email != nil {
		email = *req.Email
	}
	s.log.Info().Str("email", email).Str("role", string(role)).Msg("User updated")
	updated, err := s.repo.GetByRoleAndEmail(ctx, role, email)
	if err != nil {
		return nil, fmt.Errorf("reload user: %w", err)
	}
	return updated, nil
}

// SetUserStatus deactivates or reactivates the account holding the email, in
// any role. Setting a status the account already holds reports not found,
// so repeated deactivation surfaces as an error.
func (s *UserService) SetUserStatus(ctx context.Context, email, status string) error {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrUserNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}

	changed, err := s.repo.UpdateStatus(ctx, user.Role, user.Email, status)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	if changed == 0 {
		return ErrUserNotFound
	}

	s.log.Info().Str("email", email).Str("status", status).Msg("User status changed")
	return nil
}

// DeleteUser removes the account holding the email, in any role.
func (s *UserService) DeleteUser(ctx context.Context, email string) error {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrUserNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}

	deleted, err := s.repo.Delete(ctx, user.Role, user.Email)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if deleted == 0 {
		return ErrUserNotFound
	}

	s.log.Info().Str("email", email).Str("role", string(user.Role)).Msg("User deleted")
	return nil
}

// GetCandidateProfile retrieves a candidate account by email.
func (s *UserService) GetCandidateProfile(ctx context.Context, email string) (*model.User, error) {
	user, err := s.repo.GetByRoleAndEmail(ctx, model.RoleCandidate, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get candidate: %w", err)
	}
	return user, nil
}

// UpdateCandidateProfile applies a partial profile update, then returns the
// updated account.
func (s *UserService) UpdateCandidateProfile(ctx context.Context, email string, req *model.UpdateProfileRequest) (*model.User, error) {
	changed, err := s.repo.UpdateProfile(ctx, email, req)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	if changed == 0 {
		return nil, ErrUserNotFound
	}
	return s.GetCandidateProfile(ctx, email)
}

// UpdateCandidateNotifications replaces a candidate's notification settings.
func (s *UserService) UpdateCandidateNotifications(ctx context.Context, email string, n *model.Notifications) error {
	changed, err := s.repo.UpdateNotifications(ctx, email, n)
	if err != nil {
		return fmt.Errorf("update notifications: %w", err)
	}
	if changed == 0 {
		return ErrUserNotFound
	}
	return nil
}

// DeleteCandidateAccount removes a candidate account.
func (s *UserService) DeleteCandidateAccount(ctx context.Context, email string) error {
	deleted, err := s.repo.Delete(ctx, model.RoleCandidate, email)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if deleted == 0 {
		return ErrUserNotFound
	}
	s.log.Info().Str("email", email).Msg("Candidate account deleted")
	return nil
}
