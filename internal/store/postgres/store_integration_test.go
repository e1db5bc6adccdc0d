package postgres

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Christian-Regnante/second-smartq/internal/models"
	"github.com/Christian-Regnante/second-smartq/internal/store"
)

func TestJoinQueueNumbering(t *testing.T) {
	ctx := context.Background()
	st, pool, cleanup := setupTestStore(t, ctx, Options{})
	t.Cleanup(cleanup)

	orgID := seedOrganization(t, ctx, pool, "City Hall")
	serviceID := seedService(t, ctx, pool, orgID, "Passport", "3", 10)

	first := joinQueue(t, ctx, st, serviceID, "0788000001")
	if first.Item.QueueNumber != "PAS001" {
		t.Fatalf("first queue number = %q, want PAS001", first.Item.QueueNumber)
	}
	if first.Position != 1 {
		t.Fatalf("first position = %d, want 1", first.Position)
	}
	if first.EstimatedWait != 0 {
		t.Fatalf("first estimated wait = %d, want 0", first.EstimatedWait)
	}

	joinQueue(t, ctx, st, serviceID, "0788000002")
	joinQueue(t, ctx, st, serviceID, "0788000003")
	fourth := joinQueue(t, ctx, st, serviceID, "0788000004")
	if fourth.Item.QueueNumber != "PAS004" {
		t.Fatalf("fourth queue number = %q, want PAS004", fourth.Item.QueueNumber)
	}
	if fourth.Position != 4 {
		t.Fatalf("fourth position = %d, want 4", fourth.Position)
	}
	if fourth.EstimatedWait != 30 {
		t.Fatalf("fourth estimated wait = %d, want 30", fourth.EstimatedWait)
	}
}

func TestJoinQueueCountsTerminalItems(t *testing.T) {
	ctx := context.Background()
	st, pool, cleanup := setupTestStore(t, ctx, Options{})
	t.Cleanup(cleanup)

	orgID := seedOrganization(t, ctx, pool, "City Hall")
	serviceID := seedService(t, ctx, pool, orgID, "Passport", "3", 10)

	ticket := joinQueue(t, ctx, st, serviceID, "0788000001")
	if err := st.Skip(ctx, ticket.Item.ID, serviceID); err != nil {
		t.Fatalf("skip: %v", err)
	}

	// Day-scoped numbering counts every item created today, terminal or not.
	second := joinQueue(t, ctx, st, serviceID, "0788000002")
	if second.Item.QueueNumber != "PAS002" {
		t.Fatalf("queue number after skip = %q, want PAS002", second.Item.QueueNumber)
	}
	if second.Position != 1 {
		t.Fatalf("position after skip = %d, want 1", second.Position)
	}
}

func TestJoinQueueUnknownService(t *testing.T) {
	ctx := context.Background()
	st, _, cleanup := setupTestStore(t, ctx, Options{})
	t.Cleanup(cleanup)

	_, err := st.JoinQueue(ctx, store.JoinQueueInput{ServiceID: 9999})
	if !errors.Is(err, store.ErrServiceNotFound) {
		t.Fatalf("join unknown service: %v, want ErrServiceNotFound", err)
	}
}

func TestCallNextLifecycle(t *testing.T) {
	ctx := context.Background()
	st, pool, cleanup := setupTestStore(t, ctx, Options{})
	t.Cleanup(cleanup)

	orgID := seedOrganization(t, ctx, pool, "City Hall")
	serviceID := seedService(t, ctx, pool, orgID, "Passport", "3", 10)

	first := joinQueue(t, ctx, st, serviceID, "0788000001")
	second := joinQueue(t, ctx, st, serviceID, "0788000002")

	item, ok, err := st.CallNext(ctx, serviceID, time.Now().UTC())
	if err != nil {
		t.Fatalf("call next: %v", err)
	}
	if !ok {
		t.Fatalf("expected a promoted item")
	}
	if item.ID != first.Item.ID {
		t.Fatalf("promoted item %d, want oldest %d", item.ID, first.Item.ID)
	}
	if item.Status != models.StatusServing {
		t.Fatalf("promoted status = %q, want serving", item.Status)
	}
	if item.CalledAt == nil {
		t.Fatalf("promoted item missing called_at")
	}

	// Second call closes the first item and promotes the next in FIFO order.
	item, ok, err = st.CallNext(ctx, serviceID, time.Now().UTC())
	if err != nil {
		t.Fatalf("call next again: %v", err)
	}
	if !ok || item.ID != second.Item.ID {
		t.Fatalf("second promotion = (%d, %v), want (%d, true)", item.ID, ok, second.Item.ID)
	}

	status := itemStatus(t, ctx, pool, first.Item.ID)
	if status != models.StatusDone {
		t.Fatalf("first item status = %q, want done", status)
	}
	var completedAt *time.Time
	row := pool.QueryRow(ctx, `SELECT completed_at FROM queue_items WHERE id = $1`, first.Item.ID)
	if err := row.Scan(&completedAt); err != nil {
		t.Fatalf("scan completed_at: %v", err)
	}
	if completedAt == nil {
		t.Fatalf("closed item missing completed_at")
	}
}

func TestCallNextEmptyQueueStillClosesServing(t *testing.T) {
	ctx := context.Background()
	st, pool, cleanup := setupTestStore(t, ctx, Options{})
	t.Cleanup(cleanup)

	orgID := seedOrganization(t, ctx, pool, "City Hall")
	serviceID := seedService(t, ctx, pool, orgID, "Passport", "3", 10)

	ticket := joinQueue(t, ctx, st, serviceID, "0788000001")
	if _, ok, err := st.CallNext(ctx, serviceID, time.Now().UTC()); err != nil || !ok {
		t.Fatalf("first call next = (%v, %v)", ok, err)
	}

	item, ok, err := st.CallNext(ctx, serviceID, time.Now().UTC())
	if err != nil {
		t.Fatalf("call next on empty queue: %v", err)
	}
	if ok {
		t.Fatalf("expected no promotion, got item %d", item.ID)
	}
	if status := itemStatus(t, ctx, pool, ticket.Item.ID); status != models.StatusDone {
		t.Fatalf("serving item status = %q, want done after empty call", status)
	}
}

func TestCallNextSerializedConcurrency(t *testing.T) {
	ctx := context.Background()
	st, pool, cleanup := setupTestStore(t, ctx, Options{SerializeQueueOps: true})
	t.Cleanup(cleanup)

	orgID := seedOrganization(t, ctx, pool, "City Hall")
	serviceID := seedService(t, ctx, pool, orgID, "Passport", "3", 10)

	for i := 0; i < 4; i++ {
		joinQueue(t, ctx, st, serviceID, "0788000000")
	}

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, _, err := st.CallNext(ctx, serviceID, time.Now().UTC()); err != nil {
				t.Errorf("concurrent call next: %v", err)
			}
		}()
	}
	wg.Wait()

	var serving int
	row := pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM queue_items WHERE service_id = $1 AND status = 'serving'
	`, serviceID)
	if err := row.Scan(&serving); err != nil {
		t.Fatalf("count serving: %v", err)
	}
	if serving != 1 {
		t.Fatalf("serving count = %d, want 1", serving)
	}
}

func TestMarkDoneOwnershipAndIdempotency(t *testing.T) {
	ctx := context.Background()
	st, pool, cleanup := setupTestStore(t, ctx, Options{})
	t.Cleanup(cleanup)

	orgID := seedOrganization(t, ctx, pool, "City Hall")
	serviceID := seedService(t, ctx, pool, orgID, "Passport", "3", 10)
	otherID := seedService(t, ctx, pool, orgID, "Visa", "4", 15)

	ticket := joinQueue(t, ctx, st, serviceID, "0788000001")

	if err := st.MarkDone(ctx, ticket.Item.ID, otherID, time.Now().UTC()); !errors.Is(err, store.ErrItemNotFound) {
		t.Fatalf("mark done via wrong service: %v, want ErrItemNotFound", err)
	}
	if status := itemStatus(t, ctx, pool, ticket.Item.ID); status != models.StatusWaiting {
		t.Fatalf("item status after foreign mark done = %q, want waiting", status)
	}

	if err := st.MarkDone(ctx, ticket.Item.ID, serviceID, time.Now().UTC()); err != nil {
		t.Fatalf("mark done: %v", err)
	}
	if err := st.MarkDone(ctx, ticket.Item.ID, serviceID, time.Now().UTC()); !errors.Is(err, store.ErrItemNotFound) {
		t.Fatalf("second mark done: %v, want ErrItemNotFound", err)
	}
}

func TestSkipLeavesCompletedAtEmpty(t *testing.T) {
	ctx := context.Background()
	st, pool, cleanup := setupTestStore(t, ctx, Options{})
	t.Cleanup(cleanup)

	orgID := seedOrganization(t, ctx, pool, "City Hall")
	serviceID := seedService(t, ctx, pool, orgID, "Passport", "3", 10)

	ticket := joinQueue(t, ctx, st, serviceID, "0788000001")
	if err := st.Skip(ctx, ticket.Item.ID, serviceID); err != nil {
		t.Fatalf("skip: %v", err)
	}

	var status string
	var completedAt *time.Time
	row := pool.QueryRow(ctx, `
		SELECT status, completed_at FROM queue_items WHERE id = $1
	`, ticket.Item.ID)
	if err := row.Scan(&status, &completedAt); err != nil {
		t.Fatalf("scan skipped item: %v", err)
	}
	if status != models.StatusSkipped {
		t.Fatalf("status = %q, want skipped", status)
	}
	if completedAt != nil {
		t.Fatalf("skipped item has completed_at set")
	}
}

func TestComputeStats(t *testing.T) {
	ctx := context.Background()
	st, pool, cleanup := setupTestStore(t, ctx, Options{})
	t.Cleanup(cleanup)

	orgID := seedOrganization(t, ctx, pool, "City Hall")
	serviceID := seedService(t, ctx, pool, orgID, "Passport", "3", 10)

	// Anchor mid-day so the seeded timestamps stay inside the day window.
	utc := time.Now().UTC()
	base := time.Date(utc.Year(), utc.Month(), utc.Day(), 12, 0, 0, 0, time.UTC)
	seedDoneItem(t, ctx, pool, serviceID, "PAS001", base, base.Add(5*time.Minute))
	seedDoneItem(t, ctx, pool, serviceID, "PAS002", base.Add(10*time.Minute), base.Add(25*time.Minute))
	joinQueue(t, ctx, st, serviceID, "0788000003")

	stats, err := st.ComputeStats(ctx, serviceID, base)
	if err != nil {
		t.Fatalf("compute stats: %v", err)
	}
	if stats.ServedToday != 2 {
		t.Fatalf("served today = %d, want 2", stats.ServedToday)
	}
	if stats.AvgWaitMinutes != 10.0 {
		t.Fatalf("avg wait = %v, want 10.0", stats.AvgWaitMinutes)
	}
	if stats.CurrentlyWaiting != 1 {
		t.Fatalf("currently waiting = %d, want 1", stats.CurrentlyWaiting)
	}
}

func TestDisplayStatus(t *testing.T) {
	ctx := context.Background()
	st, pool, cleanup := setupTestStore(t, ctx, Options{})
	t.Cleanup(cleanup)

	orgID := seedOrganization(t, ctx, pool, "City Hall")
	serviceID := seedService(t, ctx, pool, orgID, "Passport", "3", 10)
	seedService(t, ctx, pool, orgID, "Visa", "4", 15)

	joinQueue(t, ctx, st, serviceID, "0788000001")
	joinQueue(t, ctx, st, serviceID, "0788000002")
	if _, _, err := st.CallNext(ctx, serviceID, time.Now().UTC()); err != nil {
		t.Fatalf("call next: %v", err)
	}

	statuses, err := st.DisplayStatus(ctx, orgID)
	if err != nil {
		t.Fatalf("display status: %v", err)
	}
	if len(statuses) != 2 {
		t.Fatalf("statuses = %d, want 2", len(statuses))
	}
	passport := statuses[0]
	if passport.ServiceName != "Passport" {
		t.Fatalf("first status service = %q, want Passport", passport.ServiceName)
	}
	if passport.NowServing == nil || *passport.NowServing != "PAS001" {
		t.Fatalf("now serving = %v, want PAS001", passport.NowServing)
	}
	if passport.Next == nil || *passport.Next != "PAS002" {
		t.Fatalf("next = %v, want PAS002", passport.Next)
	}
	if passport.Waiting != 1 {
		t.Fatalf("waiting = %d, want 1", passport.Waiting)
	}
	visa := statuses[1]
	if visa.NowServing != nil || visa.Next != nil || visa.Waiting != 0 {
		t.Fatalf("idle service should be empty, got %+v", visa)
	}
}

func TestAuthSessionsAndSeed(t *testing.T) {
	ctx := context.Background()
	st, pool, cleanup := setupTestStore(t, ctx, Options{SessionTTL: time.Hour})
	t.Cleanup(cleanup)

	if err := st.EnsureSuperAdmin(ctx, "root", "change-me"); err != nil {
		t.Fatalf("ensure super admin: %v", err)
	}
	// Idempotent on a second call.
	if err := st.EnsureSuperAdmin(ctx, "root", "other"); err != nil {
		t.Fatalf("ensure super admin twice: %v", err)
	}
	var count int
	row := pool.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE role = 'super_admin'`)
	if err := row.Scan(&count); err != nil {
		t.Fatalf("count super admins: %v", err)
	}
	if count != 1 {
		t.Fatalf("super admin count = %d, want 1", count)
	}

	session, user, err := st.Login(ctx, "root", "change-me", models.RoleSuperAdmin)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user.Username != "root" || session.Role != models.RoleSuperAdmin {
		t.Fatalf("login identity = %q/%q", user.Username, session.Role)
	}

	if _, _, err := st.Login(ctx, "root", "wrong", models.RoleSuperAdmin); !errors.Is(err, store.ErrInvalidCredentials) {
		t.Fatalf("wrong password: %v, want ErrInvalidCredentials", err)
	}
	if _, _, err := st.Login(ctx, "root", "change-me", models.RoleStaff); !errors.Is(err, store.ErrInvalidCredentials) {
		t.Fatalf("wrong role: %v, want ErrInvalidCredentials", err)
	}

	got, err := st.GetSession(ctx, session.Token)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if got.UserID != user.ID {
		t.Fatalf("session user = %d, want %d", got.UserID, user.ID)
	}

	if err := st.DeleteSession(ctx, session.Token); err != nil {
		t.Fatalf("delete session: %v", err)
	}
	if _, err := st.GetSession(ctx, session.Token); !errors.Is(err, store.ErrSessionNotFound) {
		t.Fatalf("get deleted session: %v, want ErrSessionNotFound", err)
	}
}

func TestServiceCRUDValidation(t *testing.T) {
	ctx := context.Background()
	st, pool, cleanup := setupTestStore(t, ctx, Options{})
	t.Cleanup(cleanup)

	orgID := seedOrganization(t, ctx, pool, "City Hall")

	_, err := st.CreateService(ctx, models.Service{
		Name:           "Passport",
		OrganizationID: orgID,
		AvgServiceTime: 0,
	})
	if !errors.Is(err, store.ErrInvalidServiceTime) {
		t.Fatalf("create with zero service time: %v, want ErrInvalidServiceTime", err)
	}

	svc, err := st.CreateService(ctx, models.Service{
		Name:           "Passport",
		OrganizationID: orgID,
		CounterNumber:  "3",
		AvgServiceTime: 10,
		IsActive:       true,
	})
	if err != nil {
		t.Fatalf("create service: %v", err)
	}

	bad := -5
	if _, err := st.UpdateService(ctx, orgID, svc.ID, store.ServiceUpdate{AvgServiceTime: &bad}); !errors.Is(err, store.ErrInvalidServiceTime) {
		t.Fatalf("update with negative service time: %v, want ErrInvalidServiceTime", err)
	}

	inactive := false
	updated, err := st.UpdateService(ctx, orgID, svc.ID, store.ServiceUpdate{IsActive: &inactive})
	if err != nil {
		t.Fatalf("update service: %v", err)
	}
	if updated.IsActive {
		t.Fatalf("service still active after update")
	}
	if updated.AvgServiceTime != 10 {
		t.Fatalf("unset field changed: avg = %d, want 10", updated.AvgServiceTime)
	}

	if _, err := st.UpdateService(ctx, orgID+1, svc.ID, store.ServiceUpdate{}); !errors.Is(err, store.ErrServiceNotFound) {
		t.Fatalf("update via wrong organization: %v, want ErrServiceNotFound", err)
	}

	if err := st.DeleteService(ctx, orgID, svc.ID); err != nil {
		t.Fatalf("delete service: %v", err)
	}
	if err := st.DeleteService(ctx, orgID, svc.ID); !errors.Is(err, store.ErrServiceNotFound) {
		t.Fatalf("second delete: %v, want ErrServiceNotFound", err)
	}
}

func TestStaffScopedToOrganization(t *testing.T) {
	ctx := context.Background()
	st, pool, cleanup := setupTestStore(t, ctx, Options{})
	t.Cleanup(cleanup)

	orgID := seedOrganization(t, ctx, pool, "City Hall")
	otherOrg := seedOrganization(t, ctx, pool, "Post Office")
	serviceID := seedService(t, ctx, pool, orgID, "Passport", "3", 10)

	staff, err := st.CreateStaff(ctx, store.CreateUserInput{
		Username:       "alice",
		Password:       "secret",
		Role:           models.RoleStaff,
		OrganizationID: &orgID,
		ServiceID:      &serviceID,
	})
	if err != nil {
		t.Fatalf("create staff: %v", err)
	}

	if _, err := st.CreateStaff(ctx, store.CreateUserInput{
		Username:       "alice",
		Password:       "secret",
		Role:           models.RoleStaff,
		OrganizationID: &orgID,
	}); !errors.Is(err, store.ErrUsernameTaken) {
		t.Fatalf("duplicate username: %v, want ErrUsernameTaken", err)
	}

	if _, err := st.UpdateStaff(ctx, otherOrg, staff.ID, store.StaffUpdate{Password: "new"}); !errors.Is(err, store.ErrUserNotFound) {
		t.Fatalf("update via wrong organization: %v, want ErrUserNotFound", err)
	}

	unassigned, err := st.UpdateStaff(ctx, orgID, staff.ID, store.StaffUpdate{ClearService: true})
	if err != nil {
		t.Fatalf("clear service assignment: %v", err)
	}
	if unassigned.ServiceID != nil {
		t.Fatalf("service still assigned after clear: %d", *unassigned.ServiceID)
	}

	reassigned, err := st.UpdateStaff(ctx, orgID, staff.ID, store.StaffUpdate{ServiceID: &serviceID})
	if err != nil {
		t.Fatalf("reassign service: %v", err)
	}
	if reassigned.ServiceID == nil || *reassigned.ServiceID != serviceID {
		t.Fatalf("reassignment failed: %+v", reassigned.ServiceID)
	}

	untouched, err := st.UpdateStaff(ctx, orgID, staff.ID, store.StaffUpdate{Password: "new"})
	if err != nil {
		t.Fatalf("password-only update: %v", err)
	}
	if untouched.ServiceID == nil || *untouched.ServiceID != serviceID {
		t.Fatalf("password-only update touched service assignment: %+v", untouched.ServiceID)
	}
	if err := st.DeleteStaff(ctx, otherOrg, staff.ID); !errors.Is(err, store.ErrUserNotFound) {
		t.Fatalf("delete via wrong organization: %v, want ErrUserNotFound", err)
	}

	listed, err := st.ListStaff(ctx, orgID)
	if err != nil {
		t.Fatalf("list staff: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != staff.ID {
		t.Fatalf("list staff = %+v, want just %d", listed, staff.ID)
	}
}

func TestOrganizationCascadeAndOverview(t *testing.T) {
	ctx := context.Background()
	st, pool, cleanup := setupTestStore(t, ctx, Options{})
	t.Cleanup(cleanup)

	org, err := st.CreateOrganization(ctx, models.Organization{Name: "City Hall", Location: "Kigali"})
	if err != nil {
		t.Fatalf("create organization: %v", err)
	}
	serviceID := seedService(t, ctx, pool, org.ID, "Passport", "3", 10)
	if _, err := st.CreateAdmin(ctx, store.CreateUserInput{
		Username:       "bob",
		Password:       "secret",
		Role:           models.RoleAdmin,
		OrganizationID: &org.ID,
	}); err != nil {
		t.Fatalf("create admin: %v", err)
	}
	if _, err := st.CreateStaff(ctx, store.CreateUserInput{
		Username:       "carol",
		Password:       "secret",
		Role:           models.RoleStaff,
		OrganizationID: &org.ID,
		ServiceID:      &serviceID,
	}); err != nil {
		t.Fatalf("create staff: %v", err)
	}

	overview, err := st.Overview(ctx)
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if overview.TotalOrganizations != 1 || overview.TotalAdmins != 1 || overview.TotalStaff != 1 || overview.TotalServices != 1 {
		t.Fatalf("overview = %+v", overview)
	}

	stats, err := st.ListOrganizationStats(ctx)
	if err != nil {
		t.Fatalf("list organization stats: %v", err)
	}
	if len(stats) != 1 || stats[0].AdminCount != 1 || stats[0].ServiceCount != 1 || stats[0].StaffCount != 1 {
		t.Fatalf("organization stats = %+v", stats)
	}

	if err := st.DeleteOrganization(ctx, org.ID); err != nil {
		t.Fatalf("delete organization: %v", err)
	}
	var users, services int
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&users); err != nil {
		t.Fatalf("count users: %v", err)
	}
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM services`).Scan(&services); err != nil {
		t.Fatalf("count services: %v", err)
	}
	if users != 0 || services != 0 {
		t.Fatalf("cascade left users=%d services=%d", users, services)
	}
}

func setupTestStore(t *testing.T, ctx context.Context, options Options) (*Store, *pgxpool.Pool, func()) {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		dsn = os.Getenv("DB_DSN")
	}
	if dsn == "" {
		t.Skip("TEST_DB_DSN or DB_DSN is required for integration tests")
	}

	schema := "test_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	if err := createSchema(ctx, dsn, schema); err != nil {
		t.Fatalf("create schema: %v", err)
	}

	pool, err := newPoolWithSchema(ctx, dsn, schema)
	if err != nil {
		t.Fatalf("open pool: %v", err)
	}

	if err := applyMigrations(ctx, pool); err != nil {
		pool.Close()
		t.Fatalf("apply migrations: %v", err)
	}

	st := NewStore(pool, options)
	cleanup := func() {
		pool.Close()
		_ = dropSchema(context.Background(), dsn, schema)
	}
	return st, pool, cleanup
}

func createSchema(ctx context.Context, dsn, schema string) error {
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return err
	}
	defer conn.Close(ctx)
	_, err = conn.Exec(ctx, "CREATE SCHEMA "+schema)
	return err
}

func dropSchema(ctx context.Context, dsn, schema string) error {
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return err
	}
	defer conn.Close(ctx)
	_, err = conn.Exec(ctx, "DROP SCHEMA "+schema+" CASCADE")
	return err
}

func newPoolWithSchema(ctx context.Context, dsn, schema string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	cfg.ConnConfig.RuntimeParams["search_path"] = schema
	return pgxpool.NewWithConfig(ctx, cfg)
}

func applyMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	dir := filepath.Join("..", "..", "..", "migrations")
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		files = append(files, entry.Name())
	}
	sort.Strings(files)
	for _, name := range files {
		content, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return err
		}
		if strings.TrimSpace(string(content)) == "" {
			continue
		}
		if _, err := pool.Exec(ctx, string(content)); err != nil {
			return err
		}
	}
	return nil
}

func seedOrganization(t *testing.T, ctx context.Context, pool *pgxpool.Pool, name string) int64 {
	t.Helper()
	var id int64
	row := pool.QueryRow(ctx, `
		INSERT INTO organizations (name) VALUES ($1) RETURNING id
	`, name)
	if err := row.Scan(&id); err != nil {
		t.Fatalf("insert organization: %v", err)
	}
	return id
}

func seedService(t *testing.T, ctx context.Context, pool *pgxpool.Pool, orgID int64, name, counter string, avgMinutes int) int64 {
	t.Helper()
	var id int64
	row := pool.QueryRow(ctx, `
		INSERT INTO services (name, organization_id, counter_number, avg_service_time, is_active)
		VALUES ($1, $2, $3, $4, TRUE)
		RETURNING id
	`, name, orgID, counter, avgMinutes)
	if err := row.Scan(&id); err != nil {
		t.Fatalf("insert service: %v", err)
	}
	return id
}

func seedDoneItem(t *testing.T, ctx context.Context, pool *pgxpool.Pool, serviceID int64, number string, createdAt, calledAt time.Time) {
	t.Helper()
	if _, err := pool.Exec(ctx, `
		INSERT INTO queue_items (queue_number, service_id, status, created_at, called_at, completed_at)
		VALUES ($1, $2, 'done', $3, $4, $4)
	`, number, serviceID, createdAt, calledAt); err != nil {
		t.Fatalf("insert done item: %v", err)
	}
}

func joinQueue(t *testing.T, ctx context.Context, st *Store, serviceID int64, phone string) store.Ticket {
	t.Helper()
	ticket, err := st.JoinQueue(ctx, store.JoinQueueInput{ServiceID: serviceID, PhoneNumber: phone})
	if err != nil {
		t.Fatalf("join queue: %v", err)
	}
	return ticket
}

func itemStatus(t *testing.T, ctx context.Context, pool *pgxpool.Pool, itemID int64) string {
	t.Helper()
	var status string
	row := pool.QueryRow(ctx, `SELECT status FROM queue_items WHERE id = $1`, itemID)
	if err := row.Scan(&status); err != nil {
		t.Fatalf("scan status: %v", err)
	}
	return status
}
