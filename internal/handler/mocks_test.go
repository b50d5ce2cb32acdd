package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"admin-console/internal/apiclient"
	"admin-console/internal/model"
	"admin-console/internal/session"
)

type mockSessions struct {
	mock.Mock
}

func (m *mockSessions) Login(ctx context.Context, email, password string) (model.Session, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(model.Session), args.Error(1)
}

func (m *mockSessions) Logout(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockSessions) CheckAuth(ctx context.Context) (session.State, error) {
	args := m.Called(ctx)
	return args.Get(0).(session.State), args.Error(1)
}

type mockPasswords struct {
	mock.Mock
}

func (m *mockPasswords) ChangePassword(ctx context.Context, req model.ChangePasswordRequest) error {
	return m.Called(ctx, req).Error(0)
}

type mockCategories struct {
	mock.Mock
}

func (m *mockCategories) Tree(ctx context.Context) ([]model.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.Category), args.Error(1)
}

func (m *mockCategories) All(ctx context.Context) ([]model.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.Category), args.Error(1)
}

func (m *mockCategories) Get(ctx context.Context, id string) (model.Category, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Category), args.Error(1)
}

func (m *mockCategories) Create(ctx context.Context, req model.CategoryRequest) (model.CategoryRecord, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(model.CategoryRecord), args.Error(1)
}

func (m *mockCategories) Update(ctx context.Context, id string, req model.CategoryRequest) (model.CategoryRecord, error) {
	args := m.Called(ctx, id, req)
	return args.Get(0).(model.CategoryRecord), args.Error(1)
}

func (m *mockCategories) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockProducts struct {
	mock.Mock
}

func (m *mockProducts) GetProducts(ctx context.Context, query model.ProductQuery) (model.PaginatedResponse[model.Product], error) {
	args := m.Called(ctx, query)
	return args.Get(0).(model.PaginatedResponse[model.Product]), args.Error(1)
}

func (m *mockProducts) GetProductByID(ctx context.Context, id string) (model.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Product), args.Error(1)
}

func (m *mockProducts) CreateProduct(ctx context.Context, req model.ProductRequest) (model.Product, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(model.Product), args.Error(1)
}

func (m *mockProducts) UpdateProduct(ctx context.Context, id string, req model.ProductRequest) (model.Product, error) {
	args := m.Called(ctx, id, req)
	return args.Get(0).(model.Product), args.Error(1)
}

func (m *mockProducts) DeleteProduct(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockProducts) UploadImages(ctx context.Context, files []apiclient.ImageFile) (model.UploadImagesResponse, error) {
	args := m.Called(ctx, files)
	return args.Get(0).(model.UploadImagesResponse), args.Error(1)
}

type mockCustomers struct {
	mock.Mock
}

func (m *mockCustomers) GetUsers(ctx context.Context, query model.PageQuery) (model.PaginatedResponse[model.User], error) {
	args := m.Called(ctx, query)
	return args.Get(0).(model.PaginatedResponse[model.User]), args.Error(1)
}

func (m *mockCustomers) GetUserByID(ctx context.Context, id string) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *mockCustomers) CreateUser(ctx context.Context, req model.CreateUserRequest) (model.User, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *mockCustomers) DeleteUser(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockCustomers) RestoreUser(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockCustomers) AdminChangePassword(ctx context.Context, id string, req model.AdminChangePasswordRequest) error {
	return m.Called(ctx, id, req).Error(0)
}
