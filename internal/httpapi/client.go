package httpapi

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Christian-Regnante/second-smartq/internal/store"
)

func (h *Handler) handleListOrganizations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	organizations, err := h.stores.Directory.ListOrganizations(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, organizations)
}

func (h *Handler) handleListServices(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	orgID, ok := queryID(w, r, "org_id")
	if !ok {
		return
	}
	services, err := h.stores.Directory.ListActiveServices(r.Context(), orgID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, services)
}

type joinQueueRequest struct {
	ServiceID   int64  `json:"service_id"`
	PhoneNumber string `json:"phone_number"`
}

type joinQueueResponse struct {
	Success       bool   `json:"success"`
	QueueNumber   string `json:"queue_number"`
	ServiceName   string `json:"service_name"`
	Counter       string `json:"counter"`
	Position      int    `json:"position"`
	EstimatedWait int    `json:"estimated_wait"`
}

func (h *Handler) handleJoinQueue(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req joinQueueRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.ServiceID <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "service_id is required")
		return
	}
	req.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
	if req.PhoneNumber == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "phone_number is required")
		return
	}
	if !isValidPhone(req.PhoneNumber) {
		writeError(w, http.StatusBadRequest, "invalid_request", "phone_number must be 8-16 digits")
		return
	}

	ticket, err := h.stores.Queue.JoinQueue(r.Context(), store.JoinQueueInput{
		ServiceID:   req.ServiceID,
		PhoneNumber: req.PhoneNumber,
		JoinedAt:    time.Now().UTC(),
	})
	if err != nil {
		writeStoreError(w, err)
		return
	}

	if h.notifier != nil {
		message := fmt.Sprintf("Your queue number for %s is %s. Counter: %s. %d ahead of you, about %d min wait.",
			ticket.ServiceName, ticket.Item.QueueNumber, ticket.Counter, ticket.Position-1, ticket.EstimatedWait)
		if err := h.notifier.Send(r.Context(), req.PhoneNumber, message); err != nil {
			log.Printf("notify failed queue_number=%s err=%v", ticket.Item.QueueNumber, err)
		}
	}

	writeJSON(w, http.StatusOK, joinQueueResponse{
		Success:       true,
		QueueNumber:   ticket.Item.QueueNumber,
		ServiceName:   ticket.ServiceName,
		Counter:       ticket.Counter,
		Position:      ticket.Position,
		EstimatedWait: ticket.EstimatedWait,
	})
}

func (h *Handler) handleDisplayStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	orgID, ok := queryID(w, r, "org_id")
	if !ok {
		return
	}
	statuses, err := h.stores.Queue.DisplayStatus(r.Context(), orgID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if statuses == nil {
		statuses = []store.ServiceStatus{}
	}
	writeJSON(w, http.StatusOK, statuses)
}

func queryID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", name+" is required")
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", name+" must be a positive integer")
		return 0, false
	}
	return id, true
}

// isValidPhone accepts 8-16 digits with an optional leading + for
// international numbers.
func isValidPhone(value string) bool {
	digits := strings.TrimPrefix(value, "+")
	if len(digits) < 8 || len(digits) > 16 {
		return false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
