package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Christian-Regnante/second-smartq/internal/notify"
	"github.com/Christian-Regnante/second-smartq/internal/store"
)

// Stores bundles the persistence interfaces the handler depends on. One
// postgres store satisfies all of them in production; tests swap in fakes
// per concern.
type Stores struct {
	Queue      store.QueueStore
	Directory  store.DirectoryStore
	Admin      store.AdminStore
	SuperAdmin store.SuperAdminStore
	Identity   store.IdentityStore
}

type Handler struct {
	stores   Stores
	notifier notify.Notifier
}

func NewHandler(stores Stores, notifier notify.Notifier) *Handler {
	return &Handler{
		stores:   stores,
		notifier: notifier,
	}
}

func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", h.handleHealth)

	mux.HandleFunc("/client/api/organizations", h.handleListOrganizations)
	mux.HandleFunc("/client/api/services", h.handleListServices)
	mux.HandleFunc("/client/api/join-queue", h.handleJoinQueue)
	mux.HandleFunc("/client/api/display-status", h.handleDisplayStatus)

	mux.HandleFunc("/staff/api/login", h.loginHandler(rolePathStaff))
	mux.HandleFunc("/staff/api/logout", h.handleLogout)
	mux.HandleFunc("/staff/api/queue", h.handleStaffQueue)
	mux.HandleFunc("/staff/api/service-info", h.handleStaffServiceInfo)
	mux.HandleFunc("/staff/api/call-next", h.handleCallNext)
	mux.HandleFunc("/staff/api/mark-done/", h.handleMarkDone)
	mux.HandleFunc("/staff/api/skip/", h.handleSkip)
	mux.HandleFunc("/staff/api/stats", h.handleStaffStats)

	mux.HandleFunc("/admin/api/login", h.loginHandler(rolePathAdmin))
	mux.HandleFunc("/admin/api/logout", h.handleLogout)
	mux.HandleFunc("/admin/api/organization", h.handleAdminOrganization)
	mux.HandleFunc("/admin/api/services", h.handleAdminServices)
	mux.HandleFunc("/admin/api/services/", h.handleAdminServiceByID)
	mux.HandleFunc("/admin/api/staff", h.handleAdminStaff)
	mux.HandleFunc("/admin/api/staff/", h.handleAdminStaffByID)
	mux.HandleFunc("/admin/api/analytics", h.handleAdminAnalytics)

	mux.HandleFunc("/super-admin/api/login", h.loginHandler(rolePathSuperAdmin))
	mux.HandleFunc("/super-admin/api/logout", h.handleLogout)
	mux.HandleFunc("/super-admin/api/organizations", h.handleSuperOrganizations)
	mux.HandleFunc("/super-admin/api/organizations/", h.handleSuperOrganizationByID)
	mux.HandleFunc("/super-admin/api/admins", h.handleSuperAdmins)
	mux.HandleFunc("/super-admin/api/admins/", h.handleSuperAdminByID)
	mux.HandleFunc("/super-admin/api/overview", h.handleSuperOverview)

	return AuthMiddleware(h.stores.Identity, mux)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	w.WriteHeader(http.StatusOK)
}

type errorResponse struct {
	Error responseError `json:"error"`
}

type responseError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func decodeBody(w http.ResponseWriter, r *http.Request, target interface{}) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid JSON payload")
		return false
	}
	return true
}

func mapError(err error) (int, string, string) {
	switch {
	case errors.Is(err, store.ErrOrganizationNotFound):
		return http.StatusNotFound, "organization_not_found", "organization not found"
	case errors.Is(err, store.ErrServiceNotFound):
		return http.StatusNotFound, "service_not_found", "service not found"
	case errors.Is(err, store.ErrItemNotFound):
		return http.StatusNotFound, "item_not_found", "queue item not found"
	case errors.Is(err, store.ErrUserNotFound):
		return http.StatusNotFound, "user_not_found", "user not found"
	case errors.Is(err, store.ErrUsernameTaken):
		return http.StatusConflict, "username_taken", "username already exists"
	case errors.Is(err, store.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid_credentials", "invalid username or password"
	case errors.Is(err, store.ErrSessionNotFound):
		return http.StatusUnauthorized, "unauthorized", "invalid session"
	case errors.Is(err, store.ErrInvalidServiceTime):
		return http.StatusBadRequest, "invalid_request", "avg_service_time must be positive"
	default:
		return http.StatusInternalServerError, "internal_error", "internal server error"
	}
}

func writeStoreError(w http.ResponseWriter, err error) {
	status, code, msg := mapError(err)
	writeError(w, status, code, msg)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Error: responseError{
			Code:    code,
			Message: message,
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}
