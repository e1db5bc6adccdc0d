package httpapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Christian-Regnante/second-smartq/internal/models"
)

func (h *Handler) handleStaffQueue(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	_, serviceID, ok := requireStaff(w, r)
	if !ok {
		return
	}
	items, err := h.stores.Queue.ListDayQueue(r.Context(), serviceID, time.Now().UTC())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if items == nil {
		items = []models.QueueItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) handleStaffServiceInfo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	_, serviceID, ok := requireStaff(w, r)
	if !ok {
		return
	}
	service, err := h.stores.Directory.GetService(r.Context(), serviceID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, service)
}

type callNextResponse struct {
	Success bool              `json:"success"`
	Item    *models.QueueItem `json:"queue_item,omitempty"`
	Message string            `json:"message,omitempty"`
}

func (h *Handler) handleCallNext(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	_, serviceID, ok := requireStaff(w, r)
	if !ok {
		return
	}
	item, promoted, err := h.stores.Queue.CallNext(r.Context(), serviceID, time.Now().UTC())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if !promoted {
		writeJSON(w, http.StatusOK, callNextResponse{Success: false, Message: "queue is empty"})
		return
	}
	writeJSON(w, http.StatusOK, callNextResponse{Success: true, Item: &item})
}

func (h *Handler) handleMarkDone(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	_, serviceID, ok := requireStaff(w, r)
	if !ok {
		return
	}
	itemID, ok := pathID(w, r, "/staff/api/mark-done/")
	if !ok {
		return
	}
	if err := h.stores.Queue.MarkDone(r.Context(), itemID, serviceID, time.Now().UTC()); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) handleSkip(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	_, serviceID, ok := requireStaff(w, r)
	if !ok {
		return
	}
	itemID, ok := pathID(w, r, "/staff/api/skip/")
	if !ok {
		return
	}
	if err := h.stores.Queue.Skip(r.Context(), itemID, serviceID); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) handleStaffStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	_, serviceID, ok := requireStaff(w, r)
	if !ok {
		return
	}
	stats, err := h.stores.Queue.ComputeStats(r.Context(), serviceID, time.Now().UTC())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func pathID(w http.ResponseWriter, r *http.Request, prefix string) (int64, bool) {
	raw := strings.TrimPrefix(r.URL.Path, prefix)
	raw = strings.TrimSuffix(raw, "/")
	if raw == "" || strings.Contains(raw, "/") {
		writeError(w, http.StatusBadRequest, "invalid_request", "missing id in path")
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "id must be a positive integer")
		return 0, false
	}
	return id, true
}
