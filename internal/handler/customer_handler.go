package handler

import (
	"context"
	"net/http"
	"strings"

	"admin-console/internal/event"
	"admin-console/internal/model"
	"admin-console/pkg/apierror"
)

type customerBackend interface {
	GetUsers(ctx context.Context, query model.PageQuery) (model.PaginatedResponse[model.User], error)
	GetUserByID(ctx context.Context, id string) (model.User, error)
	CreateUser(ctx context.Context, req model.CreateUserRequest) (model.User, error)
	DeleteUser(ctx context.Context, id string) error
	RestoreUser(ctx context.Context, id string) error
	AdminChangePassword(ctx context.Context, id string, req model.AdminChangePasswordRequest) error
}

type CustomerHandler struct {
	backend customerBackend
	bus     event.Bus
}

func NewCustomerHandler(backend customerBackend, bus event.Bus) *CustomerHandler {
	return &CustomerHandler{backend: backend, bus: bus}
}

func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := h.backend.GetUsers(r.Context(), model.ParsePageQuery(r.URL.Query()))
	if err != nil {
		writeError(w, err)
		return
	}

	meta := page.Meta
	writeSuccess(w, http.StatusOK, page.Data, &meta)
}

func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "customer")
	if !ok {
		return
	}

	user, err := h.backend.GetUserByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, user, nil)
}

func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload model.CreateUserRequest
	if err := decodeBody(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	payload.Email = strings.TrimSpace(payload.Email)
	payload.Name = strings.TrimSpace(payload.Name)
	switch {
	case payload.Email == "" || payload.Password == "":
		writeError(w, apierror.New("BAD_REQUEST", "email and password are required", "email,password", http.StatusBadRequest))
		return
	case payload.Password != payload.ConfirmPassword:
		writeError(w, apierror.New("BAD_REQUEST", "passwords do not match", "confirmPassword", http.StatusBadRequest))
		return
	}

	user, err := h.backend.CreateUser(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	h.bus.Publish(event.New(event.TypeCustomerChanged, event.Change{Action: "created", ID: user.ID}))
	writeSuccess(w, http.StatusCreated, user, nil)
}

func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "customer")
	if !ok {
		return
	}

	if err := h.backend.DeleteUser(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	h.bus.Publish(event.New(event.TypeCustomerChanged, event.Change{Action: "deleted", ID: id}))
	writeSuccess(w, http.StatusOK, map[string]any{"deleted": true}, nil)
}

func (h *CustomerHandler) Restore(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "customer")
	if !ok {
		return
	}

	if err := h.backend.RestoreUser(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	h.bus.Publish(event.New(event.TypeCustomerChanged, event.Change{Action: "restored", ID: id}))
	writeSuccess(w, http.StatusOK, map[string]any{"restored": true}, nil)
}

func (h *CustomerHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "customer")
	if !ok {
		return
	}

	var payload model.AdminChangePasswordRequest
	if err := decodeBody(r, &payload); err != nil {
		writeError(w, err)
		return
	}
	if payload.Password == "" {
		writeError(w, apierror.New("BAD_REQUEST", "password is required", "password", http.StatusBadRequest))
		return
	}
	if payload.Password != payload.ConfirmPassword {
		writeError(w, apierror.New("BAD_REQUEST", "passwords do not match", "confirmPassword", http.StatusBadRequest))
		return
	}

	if err := h.backend.AdminChangePassword(r.Context(), id, payload); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"changed": true}, nil)
}
