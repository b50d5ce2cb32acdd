package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"admin-console/internal/model"
	"admin-console/pkg/apierror"
)

type categoryStore interface {
	Tree(ctx context.Context) ([]model.Category, error)
	All(ctx context.Context) ([]model.Category, error)
	Get(ctx context.Context, id string) (model.Category, error)
	Create(ctx context.Context, req model.CategoryRequest) (model.CategoryRecord, error)
	Update(ctx context.Context, id string, req model.CategoryRequest) (model.CategoryRecord, error)
	Delete(ctx context.Context, id string) error
}

type CategoryHandler struct {
	store categoryStore
}

func NewCategoryHandler(store categoryStore) *CategoryHandler {
	return &CategoryHandler{store: store}
}

// List returns the category forest, or every node in depth-first order with
// ?flat=true.
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	flat, _ := strconv.ParseBool(r.URL.Query().Get("flat"))

	var (
		categories []model.Category
		err        error
	)
	if flat {
		categories, err = h.store.All(r.Context())
	} else {
		categories, err = h.store.Tree(r.Context())
	}
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, categories, nil)
}

func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "category")
	if !ok {
		return
	}

	category, err := h.store.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, category, nil)
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload model.CategoryRequest
	if err := decodeBody(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	created, err := h.store.Create(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, created, nil)
}

func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "category")
	if !ok {
		return
	}

	var payload model.CategoryRequest
	if err := decodeBody(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	updated, err := h.store.Update(r.Context(), id, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, updated, nil)
}

func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "category")
	if !ok {
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"deleted": true}, nil)
}

// pathID reads the {id} route parameter and answers 400 when it is missing.
func pathID(w http.ResponseWriter, r *http.Request, resource string) (string, bool) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, apierror.New("BAD_REQUEST", resource+" id is required", "id", http.StatusBadRequest))
		return "", false
	}
	return id, true
}
