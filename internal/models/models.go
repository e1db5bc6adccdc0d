package models

import "time"

type Organization struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location,omitempty"`
	Contact   string    `json:"contact,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Service struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	OrganizationID int64     `json:"organization_id"`
	CounterNumber  string    `json:"counter_number,omitempty"`
	AvgServiceTime int       `json:"avg_service_time"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
}

type QueueItem struct {
	ID          int64      `json:"id"`
	QueueNumber string     `json:"queue_number"`
	ServiceID   int64      `json:"service_id"`
	PhoneNumber string     `json:"phone_number"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CalledAt    *time.Time `json:"called_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

type User struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	Role           string    `json:"role"`
	OrganizationID *int64    `json:"organization_id,omitempty"`
	ServiceID      *int64    `json:"service_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

type Session struct {
	Token          string    `json:"token"`
	UserID         int64     `json:"user_id"`
	Role           string    `json:"role"`
	OrganizationID *int64    `json:"organization_id,omitempty"`
	ServiceID      *int64    `json:"service_id,omitempty"`
	ExpiresAt      time.Time `json:"expires_at"`
}

const (
	StatusWaiting = "waiting"
	StatusServing = "serving"
	StatusDone    = "done"
	StatusSkipped = "skipped"
)

const (
	RoleSuperAdmin = "super_admin"
	RoleAdmin      = "admin"
	RoleStaff      = "staff"
)
