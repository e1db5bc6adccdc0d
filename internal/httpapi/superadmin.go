package httpapi

import (
	"net/http"
	"strings"

	"github.com/Christian-Regnante/second-smartq/internal/models"
	"github.com/Christian-Regnante/second-smartq/internal/store"
)

type organizationStatsResponse struct {
	models.Organization
	AdminCount   int `json:"admin_count"`
	ServiceCount int `json:"service_count"`
	StaffCount   int `json:"staff_count"`
}

type createOrganizationRequest struct {
	Name     string `json:"name"`
	Location string `json:"location"`
	Contact  string `json:"contact"`
}

func (h *Handler) handleSuperOrganizations(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireSuperAdmin(w, r); !ok {
		return
	}
	switch r.Method {
	case http.MethodGet:
		stats, err := h.stores.SuperAdmin.ListOrganizationStats(r.Context())
		if err != nil {
			writeStoreError(w, err)
			return
		}
		response := []organizationStatsResponse{}
		for _, entry := range stats {
			response = append(response, organizationStatsResponse{
				Organization: entry.Organization,
				AdminCount:   entry.AdminCount,
				ServiceCount: entry.ServiceCount,
				StaffCount:   entry.StaffCount,
			})
		}
		writeJSON(w, http.StatusOK, response)
	case http.MethodPost:
		var req createOrganizationRequest
		if !decodeBody(w, r, &req) {
			return
		}
		req.Name = strings.TrimSpace(req.Name)
		if req.Name == "" {
			writeError(w, http.StatusBadRequest, "invalid_request", "name is required")
			return
		}
		org, err := h.stores.SuperAdmin.CreateOrganization(r.Context(), models.Organization{
			Name:     req.Name,
			Location: strings.TrimSpace(req.Location),
			Contact:  strings.TrimSpace(req.Contact),
		})
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, org)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

type updateOrganizationRequest struct {
	Name     *string `json:"name"`
	Location *string `json:"location"`
	Contact  *string `json:"contact"`
}

func (h *Handler) handleSuperOrganizationByID(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireSuperAdmin(w, r); !ok {
		return
	}
	orgID, ok := pathID(w, r, "/super-admin/api/organizations/")
	if !ok {
		return
	}
	switch r.Method {
	case http.MethodPut:
		var req updateOrganizationRequest
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
		org, err := h.stores.SuperAdmin.UpdateOrganization(r.Context(), orgID, req.Name, req.Location, req.Contact)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, org)
	case http.MethodDelete:
		if err := h.stores.SuperAdmin.DeleteOrganization(r.Context(), orgID); err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

type adminRecordResponse struct {
	models.User
	OrganizationName string `json:"organization_name"`
}

type createAdminRequest struct {
	Username       string `json:"username"`
	Password       string `json:"password"`
	OrganizationID int64  `json:"organization_id"`
}

func (h *Handler) handleSuperAdmins(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireSuperAdmin(w, r); !ok {
		return
	}
	switch r.Method {
	case http.MethodGet:
		admins, err := h.stores.SuperAdmin.ListAdmins(r.Context())
		if err != nil {
			writeStoreError(w, err)
			return
		}
		response := []adminRecordResponse{}
		for _, record := range admins {
			response = append(response, adminRecordResponse{
				User:             record.User,
				OrganizationName: record.OrganizationName,
			})
		}
		writeJSON(w, http.StatusOK, response)
	case http.MethodPost:
		var req createAdminRequest
		if !decodeBody(w, r, &req) {
			return
		}
		req.Username = strings.TrimSpace(req.Username)
		if req.Username == "" || req.Password == "" {
			writeError(w, http.StatusBadRequest, "invalid_request", "username and password are required")
			return
		}
		if req.OrganizationID <= 0 {
			writeError(w, http.StatusBadRequest, "invalid_request", "organization_id is required")
			return
		}
		user, err := h.stores.SuperAdmin.CreateAdmin(r.Context(), store.CreateUserInput{
			Username:       req.Username,
			Password:       req.Password,
			Role:           models.RoleAdmin,
			OrganizationID: &req.OrganizationID,
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

type updateAdminRequest struct {
	OrganizationID *int64 `json:"organization_id"`
	Password       string `json:"password"`
}

func (h *Handler) handleSuperAdminByID(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireSuperAdmin(w, r); !ok {
		return
	}
	adminID, ok := pathID(w, r, "/super-admin/api/admins/")
	if !ok {
		return
	}
	switch r.Method {
	case http.MethodPut:
		var req updateAdminRequest
		if !decodeBody(w, r, &req) {
			return
		}
		user, err := h.stores.SuperAdmin.UpdateAdmin(r.Context(), adminID, store.AdminUpdate{
			OrganizationID: req.OrganizationID,
			Password:       req.Password,
		})
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, user)
	case http.MethodDelete:
		if err := h.stores.SuperAdmin.DeleteAdmin(r.Context(), adminID); err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *Handler) handleSuperOverview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := requireSuperAdmin(w, r); !ok {
		return
	}
	overview, err := h.stores.SuperAdmin.Overview(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}
