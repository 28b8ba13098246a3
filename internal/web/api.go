package web

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/Vovarama1992/messenger-broadcast/internal/broadcast"
	"github.com/Vovarama1992/messenger-broadcast/internal/identity"
	"github.com/Vovarama1992/messenger-broadcast/internal/logger"
)

type sessionResponse struct {
	Authenticated bool                 `json:"authenticated"`
	LoginStatus   identity.LoginStatus `json:"loginStatus"`
}

type selectRequest struct {
	PageID string `json:"pageId"`
}

type sendResponse struct {
	Status broadcast.Status `json:"status"`
}

func (h *Handler) HandleAPISession(w http.ResponseWriter, r *http.Request) {
	resp := sessionResponse{
		Authenticated: h.authorized(r),
		LoginStatus:   identity.StatusUnknown,
	}

	if resp.Authenticated {
		status, err := h.shell.LoginStatus(r.Context())
		if err != nil {
			logger.Warn("login status check failed", zap.Error(err))
		}
		resp.LoginStatus = status
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) HandleAPIPages(w http.ResponseWriter, r *http.Request) {
	ws := h.shell.Workspace()
	ws.EnsurePages(r.Context(), h.shell.Token())
	writeJSON(w, http.StatusOK, ws.View())
}

func (h *Handler) HandleAPISelect(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	ws := h.shell.Workspace()
	ws.SelectPage(req.PageID)
	writeJSON(w, http.StatusOK, ws.View())
}

func (h *Handler) HandleAPISend(w http.ResponseWriter, r *http.Request) {
	var req broadcast.SendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	status := h.shell.Workspace().SendMessage(r.Context(), h.shell.Token(), req.PageID, req.Message)
	writeJSON(w, http.StatusOK, sendResponse{Status: status})
}

func (h *Handler) HandleAPILogout(w http.ResponseWriter, r *http.Request) {
	h.logout(w, r)
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
