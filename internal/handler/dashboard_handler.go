package handler

import (
	"context"
	"net/http"
	"strconv"

	"admin-console/internal/model"
)

type dashboardService interface {
	Stats(ctx context.Context, force bool) (model.DashboardStats, error)
	Statistics(ctx context.Context, force bool) (model.StatisticsResponse, error)
	CategorySales(ctx context.Context, force bool) ([]model.CategorySales, error)
	CustomerLocations(ctx context.Context, force bool) ([]model.CustomerLocation, error)
	MostSoldProducts(ctx context.Context, force bool) ([]model.MostSoldProduct, error)
}

type DashboardHandler struct {
	service dashboardService
}

func NewDashboardHandler(service dashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// forceRefresh reads ?refresh=true, which bypasses and clears the dashboard
// cache.
func forceRefresh(r *http.Request) bool {
	force, _ := strconv.ParseBool(r.URL.Query().Get("refresh"))
	return force
}

func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	respond(w, r, h.service.Stats)
}

func (h *DashboardHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	respond(w, r, h.service.Statistics)
}

func (h *DashboardHandler) CategorySales(w http.ResponseWriter, r *http.Request) {
	respond(w, r, h.service.CategorySales)
}

func (h *DashboardHandler) CustomerLocations(w http.ResponseWriter, r *http.Request) {
	respond(w, r, h.service.CustomerLocations)
}

func (h *DashboardHandler) MostSoldProducts(w http.ResponseWriter, r *http.Request) {
	respond(w, r, h.service.MostSoldProducts)
}

func respond[T any](w http.ResponseWriter, r *http.Request, fetch func(context.Context, bool) (T, error)) {
	data, err := fetch(r.Context(), forceRefresh(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, data, nil)
}
