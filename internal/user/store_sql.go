package user

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
)

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) Create(ctx context.Context, u User) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id,full_name,email,password_hash,profile_pic,role,created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		u.ID, u.FullName, u.Email, u.PasswordHash, u.ProfilePic, u.Role, time.Now().Unix())
	if err != nil && isUniqueViolation(err) {
		return ErrEmailTaken
	}
	return err
}

func (s *SQLStore) GetByID(ctx context.Context, id string) (User, error) {
	return s.get(ctx, `SELECT id,full_name,email,password_hash,profile_pic,role,created_at FROM users WHERE id=$1`, id)
}

func (s *SQLStore) GetByEmail(ctx context.Context, email string) (User, error) {
	return s.get(ctx, `SELECT id,full_name,email,password_hash,profile_pic,role,created_at FROM users WHERE email=$1`, email)
}

func (s *SQLStore) get(ctx context.Context, query, arg string) (User, error) {
	var u User
	err := s.db.QueryRowContext(ctx, query, arg).
		Scan(&u.ID, &u.FullName, &u.Email, &u.PasswordHash, &u.ProfilePic, &u.Role, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

// ListOthers returns every user except the caller, for the chat sidebar.
func (s *SQLStore) ListOthers(ctx context.Context, callerID string) ([]Public, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,full_name,profile_pic FROM users WHERE id<>$1 ORDER BY full_name`, callerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Public{}
	for rows.Next() {
		var p Public
		if err := rows.Scan(&p.ID, &p.FullName, &p.ProfilePic); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *SQLStore) UpdateProfilePic(ctx context.Context, id, key string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE users SET profile_pic=$1 WHERE id=$2`, key, id)
	if err != nil {
		return err
	}
	return mustAffect(res)
}

func (s *SQLStore) UpdatePassword(ctx context.Context, id, hash string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE users SET password_hash=$1 WHERE id=$2`, hash, id)
	if err != nil {
		return err
	}
	return mustAffect(res)
}

// --- password reset tokens ---

func (s *SQLStore) CreateResetToken(ctx context.Context, token, userID string, expiresAt time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO reset_tokens (token,user_id,expires_at) VALUES ($1,$2,$3)`,
		token, userID, expiresAt.Unix())
	return err
}

// ResetTokenUser resolves a token to its user id; expired or unknown tokens
// report ErrNotFound.
func (s *SQLStore) ResetTokenUser(ctx context.Context, token string) (string, error) {
	var userID string
	var expiresAt int64
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id,expires_at FROM reset_tokens WHERE token=$1`, token).
		Scan(&userID, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	if time.Now().Unix() > expiresAt {
		return "", ErrNotFound
	}
	return userID, nil
}

func (s *SQLStore) DeleteResetToken(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM reset_tokens WHERE token=$1`, token)
	return err
}

func mustAffect(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || // sqlite
		strings.Contains(msg, "duplicate key") // postgres
}
