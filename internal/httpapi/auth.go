package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Christian-Regnante/second-smartq/internal/models"
	"github.com/Christian-Regnante/second-smartq/internal/store"
)

type authContextKey struct{}

// rolePath binds a login endpoint to the role it authenticates, so a staff
// credential cannot open an admin session through the wrong door.
const (
	rolePathStaff      = models.RoleStaff
	rolePathAdmin      = models.RoleAdmin
	rolePathSuperAdmin = models.RoleSuperAdmin
)

func AuthMiddleware(identity store.IdentityStore, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isPublicEndpoint(r) {
			next.ServeHTTP(w, r)
			return
		}
		token := sessionTokenFromRequest(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized", "missing session")
			return
		}
		session, err := identity.GetSession(r.Context(), token)
		if err != nil {
			if errors.Is(err, store.ErrSessionNotFound) {
				writeError(w, http.StatusUnauthorized, "unauthorized", "invalid session")
				return
			}
			writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
			return
		}
		ctx := context.WithValue(r.Context(), authContextKey{}, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionFromContext(ctx context.Context) (models.Session, bool) {
	value := ctx.Value(authContextKey{})
	if value == nil {
		return models.Session{}, false
	}
	session, ok := value.(models.Session)
	return session, ok
}

// requireStaff returns the staff session and its assigned service. Staff
// accounts without a service assignment cannot operate a counter.
func requireStaff(w http.ResponseWriter, r *http.Request) (models.Session, int64, bool) {
	session, ok := sessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return models.Session{}, 0, false
	}
	if session.Role != models.RoleStaff {
		writeError(w, http.StatusForbidden, "access_denied", "staff access required")
		return models.Session{}, 0, false
	}
	if session.ServiceID == nil {
		writeError(w, http.StatusForbidden, "access_denied", "no service assigned")
		return models.Session{}, 0, false
	}
	return session, *session.ServiceID, true
}

func requireAdmin(w http.ResponseWriter, r *http.Request) (models.Session, int64, bool) {
	session, ok := sessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return models.Session{}, 0, false
	}
	if session.Role != models.RoleAdmin {
		writeError(w, http.StatusForbidden, "access_denied", "admin access required")
		return models.Session{}, 0, false
	}
	if session.OrganizationID == nil {
		writeError(w, http.StatusForbidden, "access_denied", "no organization assigned")
		return models.Session{}, 0, false
	}
	return session, *session.OrganizationID, true
}

func requireSuperAdmin(w http.ResponseWriter, r *http.Request) (models.Session, bool) {
	session, ok := sessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return models.Session{}, false
	}
	if session.Role != models.RoleSuperAdmin {
		writeError(w, http.StatusForbidden, "access_denied", "super admin access required")
		return models.Session{}, false
	}
	return session, true
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

func (h *Handler) loginHandler(role string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		var req loginRequest
		if !decodeBody(w, r, &req) {
			return
		}
		req.Username = strings.TrimSpace(req.Username)
		if req.Username == "" || req.Password == "" {
			writeError(w, http.StatusBadRequest, "invalid_request", "username and password are required")
			return
		}

		session, user, err := h.stores.Identity.Login(r.Context(), req.Username, req.Password, role)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, loginResponse{Token: session.Token, User: user})
	}
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := sessionFromContext(r.Context()); !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}
	token := sessionTokenFromRequest(r)
	if err := h.stores.Identity.DeleteSession(r.Context(), token); err != nil && !errors.Is(err, store.ErrSessionNotFound) {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

func sessionTokenFromRequest(r *http.Request) string {
	if token := bearerToken(r.Header.Get("Authorization")); token != "" {
		return token
	}
	return strings.TrimSpace(r.Header.Get("X-Session-ID"))
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.Fields(header)
	if len(parts) != 2 {
		return ""
	}
	if strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return parts[1]
}

func isPublicEndpoint(r *http.Request) bool {
	if r.Method == http.MethodOptions {
		return true
	}
	switch {
	case r.URL.Path == "/healthz":
		return true
	case strings.HasPrefix(r.URL.Path, "/client/api/"):
		return true
	case strings.HasSuffix(r.URL.Path, "/api/login"):
		return r.Method == http.MethodPost
	default:
		return false
	}
}
