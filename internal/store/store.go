package store

import (
	"context"
	"time"

	"github.com/Christian-Regnante/second-smartq/internal/models"
)

type JoinQueueInput struct {
	ServiceID   int64
	PhoneNumber string
	JoinedAt    time.Time
}

// Ticket is the result of joining a queue: the stored item plus the
// position and wait estimate computed at join time.
type Ticket struct {
	Item          models.QueueItem
	ServiceName   string
	Counter       string
	Position      int
	EstimatedWait int
}

type ServiceStatus struct {
	ServiceName string  `json:"service_name"`
	Counter     string  `json:"counter"`
	NowServing  *string `json:"now_serving"`
	Next        *string `json:"next"`
	Waiting     int     `json:"waiting"`
}

type DayStats struct {
	ServedToday      int     `json:"served_today"`
	AvgWaitMinutes   float64 `json:"avg_wait_time"`
	CurrentlyWaiting int     `json:"currently_waiting"`
}

type ServiceAnalytics struct {
	ServiceName    string  `json:"service_name"`
	TotalServed    int     `json:"total_served"`
	AvgWaitMinutes float64 `json:"avg_wait_time"`
}

// QueueStore covers the numbering engine and the lifecycle state machine.
// Scope (the acting service) is always passed explicitly; the HTTP boundary
// resolves it from the session before calling in.
type QueueStore interface {
	JoinQueue(ctx context.Context, input JoinQueueInput) (Ticket, error)
	DisplayStatus(ctx context.Context, organizationID int64) ([]ServiceStatus, error)
	ListDayQueue(ctx context.Context, serviceID int64, day time.Time) ([]models.QueueItem, error)
	CallNext(ctx context.Context, serviceID int64, now time.Time) (models.QueueItem, bool, error)
	MarkDone(ctx context.Context, itemID, serviceID int64, now time.Time) error
	Skip(ctx context.Context, itemID, serviceID int64) error
	ComputeStats(ctx context.Context, serviceID int64, day time.Time) (DayStats, error)
}

// DirectoryStore serves the public kiosk selection flow.
type DirectoryStore interface {
	ListOrganizations(ctx context.Context) ([]models.Organization, error)
	ListActiveServices(ctx context.Context, organizationID int64) ([]models.Service, error)
	GetService(ctx context.Context, serviceID int64) (models.Service, error)
}

type ServiceUpdate struct {
	Name           *string
	CounterNumber  *string
	AvgServiceTime *int
	IsActive       *bool
}

type CreateUserInput struct {
	Username       string
	Password       string
	Role           string
	OrganizationID *int64
	ServiceID      *int64
}

// StaffUpdate applies partial edits to a staff member. A nil ServiceID
// leaves the assignment alone; ClearService removes it and takes
// precedence over ServiceID.
type StaffUpdate struct {
	ServiceID    *int64
	ClearService bool
	Password     string
}

type AdminStore interface {
	GetOrganization(ctx context.Context, organizationID int64) (models.Organization, error)
	ListServices(ctx context.Context, organizationID int64) ([]models.Service, error)
	CreateService(ctx context.Context, service models.Service) (models.Service, error)
	UpdateService(ctx context.Context, organizationID, serviceID int64, update ServiceUpdate) (models.Service, error)
	DeleteService(ctx context.Context, organizationID, serviceID int64) error
	ListStaff(ctx context.Context, organizationID int64) ([]models.User, error)
	CreateStaff(ctx context.Context, input CreateUserInput) (models.User, error)
	UpdateStaff(ctx context.Context, organizationID, staffID int64, update StaffUpdate) (models.User, error)
	DeleteStaff(ctx context.Context, organizationID, staffID int64) error
	Analytics(ctx context.Context, organizationID int64, since time.Time) ([]ServiceAnalytics, error)
}

type OrganizationStats struct {
	Organization models.Organization
	AdminCount   int
	ServiceCount int
	StaffCount   int
}

type AdminRecord struct {
	User             models.User
	OrganizationName string
}

type AdminUpdate struct {
	OrganizationID *int64
	Password       string
}

type Overview struct {
	TotalOrganizations int `json:"total_organizations"`
	TotalAdmins        int `json:"total_admins"`
	TotalStaff         int `json:"total_staff"`
	TotalServices      int `json:"total_services"`
}

type SuperAdminStore interface {
	ListOrganizationStats(ctx context.Context) ([]OrganizationStats, error)
	CreateOrganization(ctx context.Context, org models.Organization) (models.Organization, error)
	UpdateOrganization(ctx context.Context, organizationID int64, name, location, contact *string) (models.Organization, error)
	DeleteOrganization(ctx context.Context, organizationID int64) error
	ListAdmins(ctx context.Context) ([]AdminRecord, error)
	CreateAdmin(ctx context.Context, input CreateUserInput) (models.User, error)
	UpdateAdmin(ctx context.Context, adminID int64, update AdminUpdate) (models.User, error)
	DeleteAdmin(ctx context.Context, adminID int64) error
	Overview(ctx context.Context) (Overview, error)
}

// IdentityStore resolves credentials and sessions at the boundary; the
// queue core never reads ambient session state.
type IdentityStore interface {
	Login(ctx context.Context, username, password, role string) (models.Session, models.User, error)
	GetSession(ctx context.Context, token string) (models.Session, error)
	DeleteSession(ctx context.Context, token string) error
	EnsureSuperAdmin(ctx context.Context, username, password string) error
}
