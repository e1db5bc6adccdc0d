package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/Christian-Regnante/second-smartq/internal/models"
	"github.com/Christian-Regnante/second-smartq/internal/store"
)

// Login verifies credentials for the given role and opens a session.
// Wrong username, wrong password and wrong role all collapse into the
// same error so the response does not leak which part failed.
func (s *Store) Login(ctx context.Context, username, password, role string) (models.Session, models.User, error) {
	var user models.User
	var hash string
	var orgID, serviceID sql.NullInt64
	err := s.pool.QueryRow(ctx, `
		SELECT id, username, password_hash, role, organization_id, service_id, created_at
		FROM users
		WHERE username = $1 AND role = $2`, username, role).
		Scan(&user.ID, &user.Username, &hash, &user.Role, &orgID, &serviceID, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Session{}, models.User{}, store.ErrInvalidCredentials
	}
	if err != nil {
		return models.Session{}, models.User{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return models.Session{}, models.User{}, store.ErrInvalidCredentials
	}
	user.OrganizationID = nullInt64Ptr(orgID)
	user.ServiceID = nullInt64Ptr(serviceID)

	session := models.Session{
		Token:          uuid.NewString(),
		UserID:         user.ID,
		Role:           user.Role,
		OrganizationID: user.OrganizationID,
		ServiceID:      user.ServiceID,
		ExpiresAt:      time.Now().UTC().Add(s.sessionTTL),
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO sessions (token, user_id, expires_at)
		VALUES ($1, $2, $3)`, session.Token, session.UserID, session.ExpiresAt)
	if err != nil {
		return models.Session{}, models.User{}, err
	}
	return session, user, nil
}

func (s *Store) GetSession(ctx context.Context, token string) (models.Session, error) {
	var session models.Session
	var orgID, serviceID sql.NullInt64
	err := s.pool.QueryRow(ctx, `
		SELECT se.token, se.user_id, se.expires_at, u.role, u.organization_id, u.service_id
		FROM sessions se
		JOIN users u ON u.id = se.user_id
		WHERE se.token = $1 AND se.expires_at > NOW()`, token).
		Scan(&session.Token, &session.UserID, &session.ExpiresAt, &session.Role, &orgID, &serviceID)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Session{}, store.ErrSessionNotFound
	}
	if err != nil {
		return models.Session{}, err
	}
	session.OrganizationID = nullInt64Ptr(orgID)
	session.ServiceID = nullInt64Ptr(serviceID)
	return session, nil
}

func (s *Store) DeleteSession(ctx context.Context, token string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE token = $1`, token)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrSessionNotFound
	}
	return nil
}

// EnsureSuperAdmin seeds the initial super-admin account when no
// super-admin exists yet. Safe to call on every startup.
func (s *Store) EnsureSuperAdmin(ctx context.Context, username, password string) error {
	var exists bool
	err := s.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM users WHERE role = 'super_admin')`).Scan(&exists)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO users (username, password_hash, role)
		VALUES ($1, $2, 'super_admin')
		ON CONFLICT (username) DO NOTHING`, username, string(hash))
	return err
}
