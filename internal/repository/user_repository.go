package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/aiassess/assessment-backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepository handles account data access for all roles.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, role, username, email, password_hash, mobile, dob, location, status, notifications, created_at`

func scanUser(row interface{ Scan(...any) error }) (*model.User, error) {
	u := &model.User{}
	err := row.Scan(&u.ID, &u.Role, &u.Username, &u.Email, &u.PasswordHash,
		&u.Mobile, &u.DOB, &u.Location, &u.Status, &u.Notifications, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// GetByRoleAndEmail retrieves an account within a role's email namespace.
func (r *UserRepository) GetByRoleAndEmail(ctx context.Context, role model.Role, email string) (*model.User, error) {
	return scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE role = $1 AND email = $2`, role, email))
}

// GetByEmail retrieves an account by email regardless of role. When the same
// address exists under several roles the lowest role name wins, so lookups
// resolve admin, then candidate, then educator.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1 ORDER BY role ASC LIMIT 1`, email))
}

// Create inserts a new account.
func (r *UserRepository) Create(ctx context.Context, u *model.User) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO users (role, username, email, password_hash, mobile, dob, location, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at`,
		u.Role, u.Username, u.Email, u.PasswordHash, u.Mobile, u.DOB, u.Location, u.Status,
	).Scan(&u.ID, &u.CreatedAt)
}

// List retrieves accounts filtered by optional email and role. An email
// filter without a role filter searches every role's namespace.
func (r *UserRepository) List(ctx context.Context, email string, role model.Role) ([]model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE 1=1`
	args := []any{}

	if email != "" {
		args = append(args, email)
		query += fmt.Sprintf(" AND email = $%d", len(args))
	}
	if role != "" {
		args = append(args, role)
		query += fmt.Sprintf(" AND role = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// UpdateProfile applies a partial profile update to a candidate account.
// Returns the number of rows changed (0 means no such account).
func (r *UserRepository) UpdateProfile(ctx context.Context, email string, req *model.UpdateProfileRequest) (int64, error) {
	query := `UPDATE users SET status = status`
	args := []any{}

	if req.Username != nil {
		args = append(args, *req.Username)
		query += fmt.Sprintf(", username = $%d", len(args))
	}
	if req.Mobile != nil {
		args = append(args, *req.Mobile)
		query += fmt.Sprintf(", mobile = $%d", len(args))
	}
	if req.DOB != nil {
		args = append(args, *req.DOB)
		query += fmt.Sprintf(", dob = $%d", len(args))
	}
	if req.Location != nil {
		args = append(args, *req.Location)
		query += fmt.Sprintf(", location = $%d", len(args))
	}

	args = append(args, model.RoleCandidate, email)
	query += fmt.Sprintf(" WHERE role = $%d AND email = $%d", len(args)-1, len(args))

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// UpdateNotifications replaces a candidate's notification preferences.
func (r *UserRepository) UpdateNotifications(ctx context.Context, email string, n *model.Notifications) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET notifications = $1 WHERE role = $2 AND email = $3`,
		n, model.RoleCandidate, email)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// UpdateAccount applies a partial admin edit to the account identified by
// role and email. Returns the number of rows changed.
func (r *UserRepository) UpdateAccount(ctx context.Context, role model.Role, email string, req *model.AdminUpdateUserRequest, passwordHash string) (int64, error) {
	query := `UPDATE users SET status = status`
	args := []any{}

	if req.Username != nil {
		args = append(args, *req.Username)
		query += fmt.Sprintf(", username = $%d", len(args))
	}
	if req.Email != nil {
		args = append(args, *req.Email)
		query += fmt.Sprintf(", email = $%d", len(args))
	}
	if passwordHash != "" {
		args = append(args, passwordHash)
		query += fmt.Sprintf(", password_hash = $%d", len(args))
	}
	if req.Mobile != nil {
		args = append(args, *req.Mobile)
		query += fmt.Sprintf(", mobile = $%d", len(args))
	}
	if req.DOB != nil {
		args = append(args, *req.DOB)
		query += fmt.Sprintf(", dob = $%d", len(args))
	}
	if req.Location != nil {
		args = append(args, *req.Location)
		query += fmt.Sprintf(", location = $%d", len(args))
	}
	if req.Role != nil {
		args = append(args, *req.Role)
		query += fmt.Sprintf(", role = $%d", len(args))
	}
	if req.Status != nil {
		args = append(args, *req.Status)
		query += fmt.Sprintf(", status = $%d", len(args))
	}

	args = append(args, role, email)
	query += fmt.Sprintf(" WHERE role = $%d AND email = $%d", len(args)-1, len(args))

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// UpdateStatus flips an account's status. Returns the number of rows
// changed; 0 means the account is missing or already held that status.
func (r *UserRepository) UpdateStatus(ctx context.Context, role model.Role, email, status string) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET status = $1 WHERE role = $2 AND email = $3 AND status <> $1`,
		status, role, email)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// Delete removes an account within a role's email namespace.
func (r *UserRepository) Delete(ctx context.Context, role model.Role, email string) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM users WHERE role = $1 AND email = $2`, role, email)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// SetResetToken stores a password-reset token and its expiry on an account.
func (r *UserRepository) SetResetToken(ctx context.Context, role model.Role, email, token string, expiry time.Time) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE users SET reset_token = $1, reset_token_expiry = $2 WHERE role = $3 AND email = $4`,
		token, expiry, role, email)
	return err
}

// FindByResetToken retrieves the account holding a reset token, along with
// the token expiry.
func (r *UserRepository) FindByResetToken(ctx context.Context, token string) (*model.User, time.Time, error) {
	u := &model.User{}
	var expiry time.Time
	err := r.pool.QueryRow(ctx,
		`SELECT `+userColumns+`, reset_token_expiry FROM users WHERE reset_token = $1`, token,
	).Scan(&u.ID, &u.Role, &u.Username, &u.Email, &u.PasswordHash,
		&u.Mobile, &u.DOB, &u.Location, &u.Status, &u.Notifications, &u.CreatedAt, &expiry)
	if err != nil {
		return nil, time.Time{}, err
	}
	return u, expiry, nil
}

// ResetPassword replaces the password hash and clears the reset token.
func (r *UserRepository) ResetPassword(ctx context.Context, token, passwordHash string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE users
		 SET password_hash = $1, reset_token = NULL, reset_token_expiry = NULL
		 WHERE reset_token = $2`,
		passwordHash, token)
	return err
}
