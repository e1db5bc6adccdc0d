package httpapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Christian-Regnante/second-smartq/internal/models"
	"github.com/Christian-Regnante/second-smartq/internal/store"
)

const defaultAvgServiceTime = 10

func (h *Handler) handleAdminOrganization(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	_, orgID, ok := requireAdmin(w, r)
	if !ok {
		return
	}
	org, err := h.stores.Admin.GetOrganization(r.Context(), orgID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, org)
}

type createServiceRequest struct {
	Name           string `json:"name"`
	CounterNumber  string `json:"counter_number"`
	AvgServiceTime *int   `json:"avg_service_time"`
	IsActive       *bool  `json:"is_active"`
}

func (h *Handler) handleAdminServices(w http.ResponseWriter, r *http.Request) {
	_, orgID, ok := requireAdmin(w, r)
	if !ok {
		return
	}
	switch r.Method {
	case http.MethodGet:
		services, err := h.stores.Admin.ListServices(r.Context(), orgID)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, services)
	case http.MethodPost:
		var req createServiceRequest
		if !decodeBody(w, r, &req) {
			return
		}
		req.Name = strings.TrimSpace(req.Name)
		if req.Name == "" {
			writeError(w, http.StatusBadRequest, "invalid_request", "name is required")
			return
		}
		avg := defaultAvgServiceTime
		if req.AvgServiceTime != nil {
			avg = *req.AvgServiceTime
		}
		active := true
		if req.IsActive != nil {
			active = *req.IsActive
		}
		service, err := h.stores.Admin.CreateService(r.Context(), models.Service{
			Name:           req.Name,
			OrganizationID: orgID,
			CounterNumber:  strings.TrimSpace(req.CounterNumber),
			AvgServiceTime: avg,
			IsActive:       active,
		})
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, service)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

type updateServiceRequest struct {
	Name           *string `json:"name"`
	CounterNumber  *string `json:"counter_number"`
	AvgServiceTime *int    `json:"avg_service_time"`
	IsActive       *bool   `json:"is_active"`
}

func (h *Handler) handleAdminServiceByID(w http.ResponseWriter, r *http.Request) {
	_, orgID, ok := requireAdmin(w, r)
	if !ok {
		return
	}
	serviceID, ok := pathID(w, r, "/admin/api/services/")
	if !ok {
		return
	}
	switch r.Method {
	case http.MethodPut:
		var req updateServiceRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if req.Name != nil {
			trimmed := strings.TrimSpace(*req.Name)
			if trimmed == "" {
				writeError(w, http.StatusBadRequest, "invalid_request", "name must not be empty")
				return
			}
			req.Name = &trimmed
		}
		service, err := h.stores.Admin.UpdateService(r.Context(), orgID, serviceID, store.ServiceUpdate{
			Name:           req.Name,
			CounterNumber:  req.CounterNumber,
			AvgServiceTime: req.AvgServiceTime,
			IsActive:       req.IsActive,
		})
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, service)
	case http.MethodDelete:
		if err := h.stores.Admin.DeleteService(r.Context(), orgID, serviceID); err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

type createStaffRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	ServiceID *int64 `json:"service_id"`
}

func (h *Handler) handleAdminStaff(w http.ResponseWriter, r *http.Request) {
	_, orgID, ok := requireAdmin(w, r)
	if !ok {
		return
	}
	switch r.Method {
	case http.MethodGet:
		staff, err := h.stores.Admin.ListStaff(r.Context(), orgID)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, staff)
	case http.MethodPost:
		var req createStaffRequest
		if !decodeBody(w, r, &req) {
			return
		}
		req.Username = strings.TrimSpace(req.Username)
		if req.Username == "" || req.Password == "" {
			writeError(w, http.StatusBadRequest, "invalid_request", "username and password are required")
			return
		}
		user, err := h.stores.Admin.CreateStaff(r.Context(), store.CreateUserInput{
			Username:       req.Username,
			Password:       req.Password,
			Role:           models.RoleStaff,
			OrganizationID: &orgID,
			ServiceID:      req.ServiceID,
		})
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, user)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

type updateStaffRequest struct {
	ServiceID *int64 `json:"service_id"`
	Password  string `json:"password"`
}

func (h *Handler) handleAdminStaffByID(w http.ResponseWriter, r *http.Request) {
	_, orgID, ok := requireAdmin(w, r)
	if !ok {
		return
	}
	staffID, ok := pathID(w, r, "/admin/api/staff/")
	if !ok {
		return
	}
	switch r.Method {
	case http.MethodPut:
		var req updateStaffRequest
		if !decodeBody(w, r, &req) {
			return
		}
		update := store.StaffUpdate{Password: req.Password}
		// service_id 0 unassigns the staff member from their counter.
		if req.ServiceID != nil {
			if *req.ServiceID == 0 {
				update.ClearService = true
			} else {
				update.ServiceID = req.ServiceID
			}
		}
		user, err := h.stores.Admin.UpdateStaff(r.Context(), orgID, staffID, update)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, user)
	case http.MethodDelete:
		if err := h.stores.Admin.DeleteStaff(r.Context(), orgID, staffID); err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *Handler) handleAdminAnalytics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	_, orgID, ok := requireAdmin(w, r)
	if !ok {
		return
	}
	days := 7
	if raw := strings.TrimSpace(r.URL.Query().Get("days")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 365 {
			writeError(w, http.StatusBadRequest, "invalid_request", "days must be between 1 and 365")
			return
		}
		days = parsed
	}
	since := time.Now().UTC().AddDate(0, 0, -days)
	analytics, err := h.stores.Admin.Analytics(r.Context(), orgID, since)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if analytics == nil {
		analytics = []store.ServiceAnalytics{}
	}
	writeJSON(w, http.StatusOK, analytics)
}
