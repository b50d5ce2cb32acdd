package handler

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"admin-console/internal/apiclient"
	"admin-console/internal/event"
	"admin-console/internal/imageprep"
	"admin-console/internal/model"
	"admin-console/internal/session"
)

func serve(t *testing.T, h http.Handler, method, target string, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// recordingBus keeps every published event.
type recordingBus struct {
	event.Nop
	events []event.Event
}

func (b *recordingBus) Publish(e event.Event) { b.events = append(b.events, e) }

func TestAuthHandler_Login(t *testing.T) {
	sessions := new(mockSessions)
	h := NewAuthHandler(sessions, new(mockPasswords))

	expires := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	sessions.On("Login", mock.Anything, "admin@123", "secret").Return(model.Session{
		User:        model.SessionUser{ID: "admin-1", Email: "admin@123", Role: model.RoleAdmin},
		AccessToken: "never-shown",
		ExpiresAt:   expires,
	}, nil)

	rec := serve(t, http.HandlerFunc(h.Login), http.MethodPost, "/api/v1/auth/login", `{"email":" admin@123 ","password":"secret"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "never-shown")
	assert.JSONEq(t, `{"success":true,"data":{"authenticated":true,"user":{"id":"admin-1","email":"admin@123","role":"admin"},"expires_at":"2026-10-14T12:00:00Z"}}`, rec.Body.String())
	sessions.AssertExpectations(t)
}

func TestAuthHandler_LoginValidation(t *testing.T) {
	sessions := new(mockSessions)
	h := NewAuthHandler(sessions, new(mockPasswords))

	rec := serve(t, http.HandlerFunc(h.Login), http.MethodPost, "/api/v1/auth/login", `{"email":"","password":"x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(t, http.HandlerFunc(h.Login), http.MethodPost, "/api/v1/auth/login", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	sessions.AssertNotCalled(t, "Login", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthHandler_LoginDenied(t *testing.T) {
	sessions := new(mockSessions)
	h := NewAuthHandler(sessions, new(mockPasswords))
	sessions.On("Login", mock.Anything, "user@shop", "pw").Return(model.Session{}, &session.LoginError{Reason: session.LoginAccessDenied})

	rec := serve(t, http.HandlerFunc(h.Login), http.MethodPost, "/api/v1/auth/login", `{"email":"user@shop","password":"pw"}`)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	body := decodeResponse(t, rec)
	assert.Equal(t, "ACCESS_DENIED", body.Error.Code)
	assert.Equal(t, session.LoginAccessDenied.Message(), body.Error.Message)
}

func TestAuthHandler_SessionUnauthenticatedIsNotAnError(t *testing.T) {
	sessions := new(mockSessions)
	h := NewAuthHandler(sessions, new(mockPasswords))
	sessions.On("CheckAuth", mock.Anything).Return(session.State{Status: session.Unauthenticated, Reason: session.ReasonNotAdmin}, nil)

	rec := serve(t, http.HandlerFunc(h.Session), http.MethodGet, "/api/v1/auth/session", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"data":{"authenticated":false,"reason":"not_admin"}}`, rec.Body.String())
}

func TestAuthHandler_ChangePassword(t *testing.T) {
	passwords := new(mockPasswords)
	h := NewAuthHandler(new(mockSessions), passwords)

	rec := serve(t, http.HandlerFunc(h.ChangePassword), http.MethodPut, "/api/v1/auth/password",
		`{"currentPassword":"old","newPassword":"new","confirmPassword":"other"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := model.ChangePasswordRequest{CurrentPassword: "old", NewPassword: "new", ConfirmPassword: "new"}
	passwords.On("ChangePassword", mock.Anything, req).Return(nil)
	rec = serve(t, http.HandlerFunc(h.ChangePassword), http.MethodPut, "/api/v1/auth/password",
		`{"currentPassword":"old","newPassword":"new","confirmPassword":"new"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	passwords.AssertExpectations(t)
}

type dashboardStub struct {
	forced []bool
}

func (d *dashboardStub) Stats(_ context.Context, force bool) (model.DashboardStats, error) {
	d.forced = append(d.forced, force)
	return model.DashboardStats{TotalUsers: 3}, nil
}

func (d *dashboardStub) Statistics(context.Context, bool) (model.StatisticsResponse, error) {
	return model.StatisticsResponse{}, nil
}

func (d *dashboardStub) CategorySales(context.Context, bool) ([]model.CategorySales, error) {
	return []model.CategorySales{{ID: "c-1", Name: "Shoes", Sold: 4}}, nil
}

func (d *dashboardStub) CustomerLocations(context.Context, bool) ([]model.CustomerLocation, error) {
	return nil, &apiclient.Error{Kind: apiclient.KindTimeout}
}

func (d *dashboardStub) MostSoldProducts(context.Context, bool) ([]model.MostSoldProduct, error) {
	return []model.MostSoldProduct{}, nil
}

func TestDashboardHandler(t *testing.T) {
	stub := &dashboardStub{}
	h := NewDashboardHandler(stub)

	rec := serve(t, http.HandlerFunc(h.Stats), http.MethodGet, "/api/v1/dashboard", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = serve(t, http.HandlerFunc(h.Stats), http.MethodGet, "/api/v1/dashboard?refresh=true", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []bool{false, true}, stub.forced)

	rec = serve(t, http.HandlerFunc(h.CategorySales), http.MethodGet, "/api/v1/dashboard/categories", "")
	assert.JSONEq(t, `{"success":true,"data":[{"id":"c-1","name":"Shoes","sold":4}]}`, rec.Body.String())

	rec = serve(t, http.HandlerFunc(h.CustomerLocations), http.MethodGet, "/api/v1/dashboard/locations", "")
	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
}

func categoryRouter(h *CategoryHandler) http.Handler {
	r := chi.NewRouter()
	r.Get("/categories", h.List)
	r.Get("/categories/{id}", h.Get)
	r.Post("/categories", h.Create)
	r.Put("/categories/{id}", h.Update)
	r.Delete("/categories/{id}", h.Delete)
	return r
}

func TestCategoryHandler(t *testing.T) {
	store := new(mockCategories)
	router := categoryRouter(NewCategoryHandler(store))

	forest := []model.Category{{ID: "a", Name: "A", SubCategories: []model.Category{}}}
	store.On("Tree", mock.Anything).Return(forest, nil)
	store.On("All", mock.Anything).Return(forest, nil)
	store.On("Get", mock.Anything, "missing").Return(model.Category{}, model.ErrCategoryNotFound)
	store.On("Create", mock.Anything, model.CategoryRequest{Name: "Shoes"}).Return(model.CategoryRecord{ID: "c-2", Name: "Shoes"}, nil)
	store.On("Delete", mock.Anything, "c-2").Return(nil)

	rec := serve(t, router, http.MethodGet, "/categories", "")
	assert.JSONEq(t, `{"success":true,"data":[{"id":"a","name":"A","parentId":null,"subCategories":[]}]}`, rec.Body.String())

	serve(t, router, http.MethodGet, "/categories?flat=true", "")
	store.AssertCalled(t, "All", mock.Anything)

	rec = serve(t, router, http.MethodGet, "/categories/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(t, router, http.MethodPost, "/categories", `{"name":"Shoes"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = serve(t, router, http.MethodDelete, "/categories/c-2", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	store.AssertExpectations(t)
}

func TestProductHandler_ListPassesPagination(t *testing.T) {
	products := new(mockProducts)
	h := NewProductHandler(products, imageprep.New(0, 0), &recordingBus{}, 1<<20)

	desc := true
	want := model.ProductQuery{
		PageQuery: model.PageQuery{PageIndex: 2, PageSize: 5, Keyword: "boot", IsDescending: &desc},
		Category:  "c-1",
	}
	products.On("GetProducts", mock.Anything, want).Return(model.PaginatedResponse[model.Product]{
		Meta: model.PaginationMeta{PageIndex: 2, TotalPages: 4, TotalCount: 18, PageSize: 5},
		Data: []model.Product{{ID: "p-1", Name: "Boot"}},
	}, nil)

	rec := serve(t, http.HandlerFunc(h.List), http.MethodGet, "/api/v1/products?PageIndex=2&PageSize=5&Keyword=boot&IsDescending=true&category=c-1", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeResponse(t, rec)
	require.NotNil(t, body.Meta)
	assert.Equal(t, 18, body.Meta.TotalCount)
	products.AssertExpectations(t)
}

func TestProductHandler_CreateNormalizesAndPublishes(t *testing.T) {
	products := new(mockProducts)
	bus := &recordingBus{}
	h := NewProductHandler(products, imageprep.New(0, 0), bus, 1<<20)

	want := model.ProductRequest{
		Name:       "Boot",
		CategoryID: "c-1",
		Types:      []model.ProductType{{Name: "42", Quantity: 1, Price: 10}},
		Images:     []model.ProductImage{},
	}
	products.On("CreateProduct", mock.Anything, want).Return(model.Product{ID: "p-9", Name: "Boot"}, nil)

	rec := serve(t, http.HandlerFunc(h.Create), http.MethodPost, "/api/v1/products",
		`{"name":" Boot ","categoryId":"c-1","types":[{"name":"42","quantity":1,"price":10},{"name":" "}],"images":[{"url":""}]}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, bus.events, 1)
	assert.Equal(t, event.TypeProductChanged, bus.events[0].Type)
	assert.Equal(t, event.Change{Action: "created", ID: "p-9"}, bus.events[0].Payload)
	products.AssertExpectations(t)

	rec = serve(t, http.HandlerFunc(h.Create), http.MethodPost, "/api/v1/products", `{"name":"Boot"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func multipartRequest(t *testing.T, files map[string][]byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for name, data := range files {
		part, err := mw.CreateFormFile("images", name)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products/images", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestProductHandler_UploadImages(t *testing.T) {
	products := new(mockProducts)
	h := NewProductHandler(products, imageprep.New(64, 0), &recordingBus{}, 1<<20)

	products.On("UploadImages", mock.Anything, mock.MatchedBy(func(files []apiclient.ImageFile) bool {
		return len(files) == 1 && files[0].Name == "small.png" && files[0].ContentType == "image/png"
	})).Return(model.UploadImagesResponse{URLs: []string{"https://cdn/small.png"}}, nil)

	rec := httptest.NewRecorder()
	h.UploadImages(rec, multipartRequest(t, map[string][]byte{"small.png": pngBytes(t, 8, 8)}))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"success":true,"data":{"urls":["https://cdn/small.png"]}}`, rec.Body.String())
	products.AssertExpectations(t)
}

func TestProductHandler_UploadRejectsNonImages(t *testing.T) {
	products := new(mockProducts)
	h := NewProductHandler(products, imageprep.New(64, 0), &recordingBus{}, 1<<20)

	rec := httptest.NewRecorder()
	h.UploadImages(rec, multipartRequest(t, map[string][]byte{"notes.txt": []byte("just text")}))
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	assert.Equal(t, "UNSUPPORTED_TYPE", decodeResponse(t, rec).Error.Code)

	rec = httptest.NewRecorder()
	h.UploadImages(rec, multipartRequest(t, map[string][]byte{}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	products.AssertNotCalled(t, "UploadImages", mock.Anything, mock.Anything)
}

func customerRouter(h *CustomerHandler) http.Handler {
	r := chi.NewRouter()
	r.Get("/customers", h.List)
	r.Get("/customers/{id}", h.Get)
	r.Post("/customers", h.Create)
	r.Delete("/customers/{id}", h.Delete)
	r.Post("/customers/{id}/restore", h.Restore)
	r.Put("/customers/{id}/password", h.ChangePassword)
	return r
}

func TestCustomerHandler(t *testing.T) {
	customers := new(mockCustomers)
	bus := &recordingBus{}
	router := customerRouter(NewCustomerHandler(customers, bus))

	customers.On("GetUsers", mock.Anything, model.PageQuery{PageIndex: 1, PageSize: 10}).Return(model.PaginatedResponse[model.User]{
		Meta: model.PaginationMeta{PageIndex: 1, TotalPages: 1, TotalCount: 1, PageSize: 10},
		Data: []model.User{{ID: "u-1", Email: "john.doe@example.com"}},
	}, nil)
	customers.On("CreateUser", mock.Anything, mock.Anything).Return(model.User{ID: "u-2"}, nil)
	customers.On("RestoreUser", mock.Anything, "u-1").Return(nil)
	customers.On("AdminChangePassword", mock.Anything, "u-1", model.AdminChangePasswordRequest{Password: "pw", ConfirmPassword: "pw"}).Return(nil)

	rec := serve(t, router, http.MethodGet, "/customers?page=1&limit=10", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(t, router, http.MethodPost, "/customers", `{"email":"a@b.c","password":"x","confirmPassword":"y"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(t, router, http.MethodPost, "/customers", `{"name":"Ann","email":"a@b.c","password":"x","confirmPassword":"x"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = serve(t, router, http.MethodPost, "/customers/u-1/restore", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(t, router, http.MethodPut, "/customers/u-1/password", `{"password":"pw","confirmPassword":"pw"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, bus.events, 2)
	assert.Equal(t, event.Change{Action: "created", ID: "u-2"}, bus.events[0].Payload)
	assert.Equal(t, event.Change{Action: "restored", ID: "u-1"}, bus.events[1].Payload)
	customers.AssertExpectations(t)
}
