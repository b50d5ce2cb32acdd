package handler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"admin-console/internal/apiclient"
	"admin-console/internal/event"
	"admin-console/internal/imageprep"
	"admin-console/internal/model"
	"admin-console/pkg/apierror"
)

const maxUploadFiles = 10

type productBackend interface {
	GetProducts(ctx context.Context, query model.ProductQuery) (model.PaginatedResponse[model.Product], error)
	GetProductByID(ctx context.Context, id string) (model.Product, error)
	CreateProduct(ctx context.Context, req model.ProductRequest) (model.Product, error)
	UpdateProduct(ctx context.Context, id string, req model.ProductRequest) (model.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	UploadImages(ctx context.Context, files []apiclient.ImageFile) (model.UploadImagesResponse, error)
}

type ProductHandler struct {
	backend       productBackend
	images        *imageprep.Preparer
	bus           event.Bus
	maxUploadSize int64
}

func NewProductHandler(backend productBackend, images *imageprep.Preparer, bus event.Bus, maxUploadSize int64) *ProductHandler {
	return &ProductHandler{backend: backend, images: images, bus: bus, maxUploadSize: maxUploadSize}
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	query := model.ProductQuery{
		PageQuery: model.ParsePageQuery(values),
		Category:  firstParam(values.Get("Category"), values.Get("category")),
		Condition: firstParam(values.Get("Condition"), values.Get("condition")),
	}

	page, err := h.backend.GetProducts(r.Context(), query)
	if err != nil {
		writeError(w, err)
		return
	}

	meta := page.Meta
	writeSuccess(w, http.StatusOK, page.Data, &meta)
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "product")
	if !ok {
		return
	}

	product, err := h.backend.GetProductByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, product, nil)
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload model.ProductRequest
	if err := decodeBody(r, &payload); err != nil {
		writeError(w, err)
		return
	}
	if err := validateProduct(&payload); err != nil {
		writeError(w, err)
		return
	}

	product, err := h.backend.CreateProduct(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	h.bus.Publish(event.New(event.TypeProductChanged, event.Change{Action: "created", ID: product.ID}))
	writeSuccess(w, http.StatusCreated, product, nil)
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "product")
	if !ok {
		return
	}

	var payload model.ProductRequest
	if err := decodeBody(r, &payload); err != nil {
		writeError(w, err)
		return
	}
	if err := validateProduct(&payload); err != nil {
		writeError(w, err)
		return
	}

	product, err := h.backend.UpdateProduct(r.Context(), id, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	h.bus.Publish(event.New(event.TypeProductChanged, event.Change{Action: "updated", ID: id}))
	writeSuccess(w, http.StatusOK, product, nil)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "product")
	if !ok {
		return
	}

	if err := h.backend.DeleteProduct(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	h.bus.Publish(event.New(event.TypeProductChanged, event.Change{Action: "deleted", ID: id}))
	writeSuccess(w, http.StatusOK, map[string]any{"deleted": true}, nil)
}

// UploadImages accepts repeated "images" multipart files, prepares each one and
// forwards them to the backend in the order received.
func (h *ProductHandler) UploadImages(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize*maxUploadFiles)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid multipart body", err.Error(), http.StatusBadRequest))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	headers := r.MultipartForm.File["images"]
	if len(headers) == 0 {
		writeError(w, model.ErrNoImages)
		return
	}
	if len(headers) > maxUploadFiles {
		writeError(w, apierror.New("BAD_REQUEST", "too many images", fmt.Sprintf("at most %d per upload", maxUploadFiles), http.StatusBadRequest))
		return
	}

	files := make([]apiclient.ImageFile, 0, len(headers))
	for _, header := range headers {
		f, err := header.Open()
		if err != nil {
			writeError(w, apierror.New("BAD_REQUEST", "unreadable upload part", header.Filename, http.StatusBadRequest))
			return
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			writeError(w, apierror.New("BAD_REQUEST", "unreadable upload part", header.Filename, http.StatusBadRequest))
			return
		}

		img, err := h.images.Prepare(header.Filename, data)
		if err != nil {
			writeError(w, err)
			return
		}
		if img.Resized {
			slog.Info("image downscaled before upload", "name", img.Name, "width", img.Width, "height", img.Height)
		}
		files = append(files, apiclient.ImageFile{Name: img.Name, ContentType: img.ContentType, Data: img.Data})
	}

	resp, err := h.backend.UploadImages(r.Context(), files)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, resp, nil)
}

func validateProduct(req *model.ProductRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return apierror.New("BAD_REQUEST", "product name is required", "name", http.StatusBadRequest)
	}
	if strings.TrimSpace(req.CategoryID) == "" {
		return apierror.New("BAD_REQUEST", "product category is required", "categoryId", http.StatusBadRequest)
	}
	req.Normalize()
	return nil
}

func firstParam(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
