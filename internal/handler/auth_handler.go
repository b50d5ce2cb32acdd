package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"admin-console/internal/model"
	"admin-console/internal/session"
	"admin-console/pkg/apierror"
)

type sessionManager interface {
	Login(ctx context.Context, email, password string) (model.Session, error)
	Logout(ctx context.Context) error
	CheckAuth(ctx context.Context) (session.State, error)
}

type passwordChanger interface {
	ChangePassword(ctx context.Context, req model.ChangePasswordRequest) error
}

type AuthHandler struct {
	sessions  sessionManager
	passwords passwordChanger
}

func NewAuthHandler(sessions sessionManager, passwords passwordChanger) *AuthHandler {
	return &AuthHandler{sessions: sessions, passwords: passwords}
}

// sessionView is what the UI sees of the session. Tokens never leave the
// console.
type sessionView struct {
	Authenticated bool               `json:"authenticated"`
	Reason        string             `json:"reason,omitempty"`
	User          *model.SessionUser `json:"user,omitempty"`
	ExpiresAt     string             `json:"expires_at,omitempty"`
}

func viewOf(state session.State) sessionView {
	if !state.Authenticated() {
		return sessionView{Reason: string(state.Reason)}
	}
	user := state.Session.User
	return sessionView{
		Authenticated: true,
		User:          &user,
		ExpiresAt:     state.Session.ExpiresAt.UTC().Format(time.RFC3339),
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload model.LoginRequest
	if err := decodeBody(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	payload.Email = strings.TrimSpace(payload.Email)
	if payload.Email == "" || payload.Password == "" {
		writeError(w, apierror.New("BAD_REQUEST", "email and password are required", "email,password", http.StatusBadRequest))
		return
	}

	sess, err := h.sessions.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, viewOf(session.State{Status: session.Authenticated, Session: &sess}), nil)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(r.Context()); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"logged_out": true}, nil)
}

// Session reports the reconciled session state. An unauthenticated console
// is a normal answer here, not an error.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	state, err := h.sessions.CheckAuth(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, viewOf(state), nil)
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var payload model.ChangePasswordRequest
	if err := decodeBody(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	if payload.CurrentPassword == "" || payload.NewPassword == "" {
		writeError(w, apierror.New("BAD_REQUEST", "current and new password are required", "currentPassword,newPassword", http.StatusBadRequest))
		return
	}
	if payload.NewPassword != payload.ConfirmPassword {
		writeError(w, apierror.New("BAD_REQUEST", "passwords do not match", "confirmPassword", http.StatusBadRequest))
		return
	}

	if err := h.passwords.ChangePassword(r.Context(), payload); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"changed": true}, nil)
}
