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

func (s *Store) GetOrganization(ctx context.Context, organizationID int64) (models.Organization, error) {
	var org models.Organization
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, location, contact, created_at
		FROM organizations
		WHERE id = $1`, organizationID).
		Scan(&org.ID, &org.Name, &org.Location, &org.Contact, &org.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Organization{}, store.ErrOrganizationNotFound
	}
	if err != nil {
		return models.Organization{}, err
	}
	return org, nil
}

func (s *Store) ListServices(ctx context.Context, organizationID int64) ([]models.Service, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, organization_id, counter_number, avg_service_time, is_active, created_at
		FROM services
		WHERE organization_id = $1
		ORDER BY name ASC`, organizationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanServices(rows)
}

func (s *Store) CreateService(ctx context.Context, service models.Service) (models.Service, error) {
	if service.AvgServiceTime <= 0 {
		return models.Service{}, store.ErrInvalidServiceTime
	}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO services (name, organization_id, counter_number, avg_service_time, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		service.Name, service.OrganizationID, service.CounterNumber, service.AvgServiceTime, service.IsActive).
		Scan(&service.ID, &service.CreatedAt)
	if err != nil {
		return models.Service{}, err
	}
	return service, nil
}

func (s *Store) UpdateService(ctx context.Context, organizationID, serviceID int64, update store.ServiceUpdate) (models.Service, error) {
	if update.AvgServiceTime != nil && *update.AvgServiceTime <= 0 {
		return models.Service{}, store.ErrInvalidServiceTime
	}
	var svc models.Service
	err := s.pool.QueryRow(ctx, `
		UPDATE services
		SET name = COALESCE($3, name),
		    counter_number = COALESCE($4, counter_number),
		    avg_service_time = COALESCE($5, avg_service_time),
		    is_active = COALESCE($6, is_active)
		WHERE id = $1 AND organization_id = $2
		RETURNING id, name, organization_id, counter_number, avg_service_time, is_active, created_at`,
		serviceID, organizationID, update.Name, update.CounterNumber, update.AvgServiceTime, update.IsActive).
		Scan(&svc.ID, &svc.Name, &svc.OrganizationID, &svc.CounterNumber, &svc.AvgServiceTime, &svc.IsActive, &svc.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Service{}, store.ErrServiceNotFound
	}
	if err != nil {
		return models.Service{}, err
	}
	return svc, nil
}

func (s *Store) DeleteService(ctx context.Context, organizationID, serviceID int64) error {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM services
		WHERE id = $1 AND organization_id = $2`, serviceID, organizationID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrServiceNotFound
	}
	return nil
}

func (s *Store) ListStaff(ctx context.Context, organizationID int64) ([]models.User, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, username, role, organization_id, service_id, created_at
		FROM users
		WHERE organization_id = $1 AND role = 'staff'
		ORDER BY username ASC`, organizationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUsers(rows)
}

func (s *Store) CreateStaff(ctx context.Context, input store.CreateUserInput) (models.User, error) {
	return s.createUser(ctx, input)
}

func (s *Store) UpdateStaff(ctx context.Context, organizationID, staffID int64, update store.StaffUpdate) (models.User, error) {
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
		SET service_id = CASE WHEN $5 THEN NULL ELSE COALESCE($3, service_id) END,
		    password_hash = COALESCE($4, password_hash)
		WHERE id = $1 AND organization_id = $2 AND role = 'staff'
		RETURNING id, username, role, organization_id, service_id, created_at`,
		staffID, organizationID, update.ServiceID, passwordHash, update.ClearService).
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

func (s *Store) DeleteStaff(ctx context.Context, organizationID, staffID int64) error {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM users
		WHERE id = $1 AND organization_id = $2 AND role = 'staff'`, staffID, organizationID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrUserNotFound
	}
	return nil
}

// createUser backs both staff and admin creation. Usernames are unique
// across roles.
func (s *Store) createUser(ctx context.Context, input store.CreateUserInput) (models.User, error) {
	var taken bool
	if err := s.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, input.Username).Scan(&taken); err != nil {
		return models.User{}, err
	}
	if taken {
		return models.User{}, store.ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		Username:       input.Username,
		Role:           input.Role,
		OrganizationID: input.OrganizationID,
		ServiceID:      input.ServiceID,
	}
	err = s.pool.QueryRow(ctx, `
		INSERT INTO users (username, password_hash, role, organization_id, service_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		input.Username, string(hash), input.Role, input.OrganizationID, input.ServiceID).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

func scanUsers(rows pgx.Rows) ([]models.User, error) {
	users := []models.User{}
	for rows.Next() {
		var user models.User
		var orgID, serviceID sql.NullInt64
		if err := rows.Scan(&user.ID, &user.Username, &user.Role, &orgID, &serviceID, &user.CreatedAt); err != nil {
			return nil, err
		}
		user.OrganizationID = nullInt64Ptr(orgID)
		user.ServiceID = nullInt64Ptr(serviceID)
		users = append(users, user)
	}
	return users, rows.Err()
}
