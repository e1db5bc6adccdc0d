package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/Christian-Regnante/second-smartq/internal/models"
	"github.com/Christian-Regnante/second-smartq/internal/store"
)

func (s *Store) ListOrganizationStats(ctx context.Context) ([]store.OrganizationStats, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT o.id, o.name, o.location, o.contact, o.created_at,
		       (SELECT COUNT(*) FROM users u WHERE u.organization_id = o.id AND u.role = 'admin'),
		       (SELECT COUNT(*) FROM services sv WHERE sv.organization_id = o.id),
		       (SELECT COUNT(*) FROM users u WHERE u.organization_id = o.id AND u.role = 'staff')
		FROM organizations o
		ORDER BY o.name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := []store.OrganizationStats{}
	for rows.Next() {
		var entry store.OrganizationStats
		if err := rows.Scan(
			&entry.Organization.ID, &entry.Organization.Name, &entry.Organization.Location,
			&entry.Organization.Contact, &entry.Organization.CreatedAt,
			&entry.AdminCount, &entry.ServiceCount, &entry.StaffCount,
		); err != nil {
			return nil, err
		}
		stats = append(stats, entry)
	}
	return stats, rows.Err()
}

func (s *Store) CreateOrganization(ctx context.Context, org models.Organization) (models.Organization, error) {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO organizations (name, location, contact)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`, org.Name, org.Location, org.Contact).
		Scan(&org.ID, &org.CreatedAt)
	if err != nil {
		return models.Organization{}, err
	}
	return org, nil
}

func (s *Store) UpdateOrganization(ctx context.Context, organizationID int64, name, location, contact *string) (models.Organization, error) {
	var org models.Organization
	err := s.pool.QueryRow(ctx, `
		UPDATE organizations
		SET name = COALESCE($2, name),
		    location = COALESCE($3, location),
		    contact = COALESCE($4, contact)
		WHERE id = $1
		RETURNING id, name, location, contact, created_at`,
		organizationID, name, location, contact).
		Scan(&org.ID, &org.Name, &org.Location, &org.Contact, &org.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Organization{}, store.ErrOrganizationNotFound
	}
	if err != nil {
		return models.Organization{}, err
	}
	return org, nil
}

// DeleteOrganization removes the organization; services, queue items and
// users under it go with it through the schema's cascades.
func (s *Store) DeleteOrganization(ctx context.Context, organizationID int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM organizations WHERE id = $1`, organizationID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrOrganizationNotFound
	}
	return nil
}

func (s *Store) ListAdmins(ctx context.Context) ([]store.AdminRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT u.id, u.username, u.role, u.organization_id, u.service_id, u.created_at,
		       COALESCE(o.name, '')
		FROM users u
		LEFT JOIN organizations o ON o.id = u.organization_id
		WHERE u.role = 'admin'
		ORDER BY u.username ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	admins := []store.AdminRecord{}
	for rows.Next() {
		var record store.AdminRecord
		var orgID, serviceID sql.NullInt64
		if err := rows.Scan(
			&record.User.ID, &record.User.Username, &record.User.Role,
			&orgID, &serviceID, &record.User.CreatedAt, &record.OrganizationName,
		); err != nil {
			return nil, err
		}
		record.User.OrganizationID = nullInt64Ptr(orgID)
		record.User.ServiceID = nullInt64Ptr(serviceID)
		admins = append(admins, record)
	}
	return admins, rows.Err()
}

func (s *Store) CreateAdmin(ctx context.Context, input store.CreateUserInput) (models.User, error) {
	return s.createUser(ctx, input)
}

func (s *Store) UpdateAdmin(ctx context.Context, adminID int64, update store.AdminUpdate) (models.User, error) {
	var passwordHash sql.NullString
	if update.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(update.Password), bcrypt.DefaultCost)
		if err != nil {
			return models.User{}, err
		}
		passwordHash = sql.NullString{String: string(hash), Valid: true}
	}
	var user models.User
	var orgID, serviceID sql.NullInt64
	err := s.pool.QueryRow(ctx, `
		UPDATE users
		SET organization_id = COALESCE($2, organization_id),
		    password_hash = COALESCE($3, password_hash)
		WHERE id = $1 AND role = 'admin'
		RETURNING id, username, role, organization_id, service_id, created_at`,
		adminID, update.OrganizationID, passwordHash).
		Scan(&user.ID, &user.Username, &user.Role, &orgID, &serviceID, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.User{}, store.ErrUserNotFound
	}
	if err != nil {
		return models.User{}, err
	}
	user.OrganizationID = nullInt64Ptr(orgID)
	user.ServiceID = nullInt64Ptr(serviceID)
	return user, nil
}

func (s *Store) DeleteAdmin(ctx context.Context, adminID int64) error {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM users
		WHERE id = $1 AND role = 'admin'`, adminID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrUserNotFound
	}
	return nil
}

func (s *Store) Overview(ctx context.Context) (store.Overview, error) {
	var overview store.Overview
	err := s.pool.QueryRow(ctx, `
		SELECT (SELECT COUNT(*) FROM organizations),
		       (SELECT COUNT(*) FROM users WHERE role = 'admin'),
		       (SELECT COUNT(*) FROM users WHERE role = 'staff'),
		       (SELECT COUNT(*) FROM services)`).
		Scan(&overview.TotalOrganizations, &overview.TotalAdmins, &overview.TotalStaff, &overview.TotalServices)
	if err != nil {
		return store.Overview{}, err
	}
	return overview, nil
}
