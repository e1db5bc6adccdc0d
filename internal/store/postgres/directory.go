package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/Christian-Regnante/second-smartq/internal/models"
	"github.com/Christian-Regnante/second-smartq/internal/store"
)

func (s *Store) ListOrganizations(ctx context.Context) ([]models.Organization, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, location, contact, created_at
		FROM organizations
		ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	organizations := []models.Organization{}
	for rows.Next() {
		var org models.Organization
		if err := rows.Scan(&org.ID, &org.Name, &org.Location, &org.Contact, &org.CreatedAt); err != nil {
			return nil, err
		}
		organizations = append(organizations, org)
	}
	return organizations, rows.Err()
}

func (s *Store) ListActiveServices(ctx context.Context, organizationID int64) ([]models.Service, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, organization_id, counter_number, avg_service_time, is_active, created_at
		FROM services
		WHERE organization_id = $1 AND is_active
		ORDER BY name ASC`, organizationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanServices(rows)
}

func (s *Store) GetService(ctx context.Context, serviceID int64) (models.Service, error) {
	var svc models.Service
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, organization_id, counter_number, avg_service_time, is_active, created_at
		FROM services
		WHERE id = $1`, serviceID).
		Scan(&svc.ID, &svc.Name, &svc.OrganizationID, &svc.CounterNumber, &svc.AvgServiceTime, &svc.IsActive, &svc.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Service{}, store.ErrServiceNotFound
	}
	if err != nil {
		return models.Service{}, err
	}
	return svc, nil
}

func scanServices(rows pgx.Rows) ([]models.Service, error) {
	services := []models.Service{}
	for rows.Next() {
		var svc models.Service
		if err := rows.Scan(&svc.ID, &svc.Name, &svc.OrganizationID, &svc.CounterNumber, &svc.AvgServiceTime, &svc.IsActive, &svc.CreatedAt); err != nil {
			return nil, err
		}
		services = append(services, svc)
	}
	return services, rows.Err()
}
