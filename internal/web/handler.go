package web

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Vovarama1992/messenger-broadcast/internal/broadcast"
	"github.com/Vovarama1992/messenger-broadcast/internal/identity"
	"github.com/Vovarama1992/messenger-broadcast/internal/logger"
)

const (
	stateCookie   = "oauth_state"
	sessionCookie = "broadcast_session"
	sessionMaxAge = 60 * 24 * 60 * 60
	appTitle      = "Messenger Automation"
)

type Handler struct {
	shell *Shell
}

func NewHandler(shell *Shell) *Handler {
	return &Handler{shell: shell}
}

// HandleIndex renders the entry screen. An operator who already holds a
// token goes straight to the workspace.
func (h *Handler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	if h.authorized(r) {
		http.Redirect(w, r, "/pages", http.StatusFound)
		return
	}
	h.renderLogin(w, http.StatusOK, broadcast.Status{})
}

// HandleLogin starts the provider handshake with a fresh state value.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()

	target, err := h.shell.LoginURL(state)
	if err != nil {
		logger.Error("build login url failed", zap.Error(err))
		h.renderLogin(w, http.StatusInternalServerError, broadcast.ErrorStatus("Error logging in: "+err.Error()))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, target, http.StatusFound)
}

// HandleCallback finishes the handshake. Any failure leaves the operator on
// the login screen with the reason; they may simply try again.
func (h *Handler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	http.SetCookie(w, &http.Cookie{Name: stateCookie, Value: "", Path: "/", MaxAge: -1})

	var err error
	switch {
	case q.Get("error") != "":
		err = identity.ErrLoginCancelled
	case !validState(r, q.Get("state")):
		err = identity.ErrStateMismatch
	default:
		var browserID string
		browserID, err = h.shell.CompleteLogin(r.Context(), q.Get("code"))
		if err == nil {
			setSessionCookie(w, r, browserID)
		}
	}

	if err != nil {
		logger.Warn("login failed",
			zap.Error(err),
			zap.String("provider_error", q.Get("error_reason")),
		)
		h.renderLogin(w, http.StatusUnauthorized, loginFailure(err))
		return
	}

	http.Redirect(w, r, "/pages", http.StatusFound)
}

// authorized reports whether the request comes from the browser that
// completed the current login.
func (h *Handler) authorized(r *http.Request) bool {
	c, err := r.Cookie(sessionCookie)
	return err == nil && h.shell.Authorized(c.Value)
}

// setSessionCookie binds the session to this browser. Lax so the cookie
// survives the redirect back from the login dialog; cross-site POSTs never
// carry it.
func setSessionCookie(w http.ResponseWriter, r *http.Request, browserID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    browserID,
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}

func dropSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "", Path: "/", MaxAge: -1})
}

// logout ends the session when r owns it. Any other browser only loses its
// own cookie.
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	dropSessionCookie(w)
	if !h.authorized(r) {
		logger.Info("logout from a browser without the session")
		return
	}
	if err := h.shell.Logout(r.Context()); err != nil {
		logger.Error("logout failed", zap.Error(err))
	}
}

func validState(r *http.Request, state string) bool {
	c, err := r.Cookie(stateCookie)
	return err == nil && state != "" && c.Value == state
}

func loginFailure(err error) broadcast.Status {
	switch {
	case errors.Is(err, identity.ErrLoginCancelled):
		return broadcast.ErrorStatus("Error logging in: login was cancelled or not authorized")
	case errors.Is(err, identity.ErrStateMismatch):
		return broadcast.ErrorStatus("Error logging in: login expired, please try again")
	default:
		return broadcast.ErrorStatus("Error logging in: " + err.Error())
	}
}

func (h *Handler) HandlePages(w http.ResponseWriter, r *http.Request) {
	ws := h.shell.Workspace()
	ws.EnsurePages(r.Context(), h.shell.Token())

	view := ws.View()
	render(w, http.StatusOK, "pages", screenData{
		Title:         appTitle,
		Authenticated: true,
		Status:        view.Status,
		View:          view,
	})
}

func (h *Handler) HandleSelect(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	h.shell.Workspace().SelectPage(r.PostForm.Get("page_id"))
	http.Redirect(w, r, "/pages", http.StatusSeeOther)
}

func (h *Handler) HandleSend(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	h.shell.Workspace().SendMessage(
		r.Context(),
		h.shell.Token(),
		r.PostForm.Get("page_id"),
		r.PostForm.Get("message"),
	)
	http.Redirect(w, r, "/pages", http.StatusSeeOther)
}

func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.logout(w, r)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) HandlePing(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("pong"))
}

func (h *Handler) renderLogin(w http.ResponseWriter, code int, status broadcast.Status) {
	render(w, code, "login", screenData{
		Title:  appTitle,
		Status: status,
	})
}
