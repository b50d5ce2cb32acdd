package apiclient

import (
	"context"
	"net/http"

	"admin-console/internal/model"
)

func (c *Client) GetProducts(ctx context.Context, query model.ProductQuery) (model.PaginatedResponse[model.Product], error) {
	var page model.PaginatedResponse[model.Product]
	err := c.Do(ctx, Request{Method: http.MethodGet, Path: EndpointShoppingProducts, Query: query.Values(), Retries: readRetries}, &page)
	return page, err
}

func (c *Client) GetProductByID(ctx context.Context, id string) (model.Product, error) {
	var product model.Product
	err := c.Do(ctx, Request{Method: http.MethodGet, Path: ShoppingProductByID(id), Retries: readRetries}, &product)
	return product, err
}

func (c *Client) GetDashboard(ctx context.Context) (model.DashboardStats, error) {
	var stats model.DashboardStats
	err := c.Do(ctx, Request{Method: http.MethodGet, Path: EndpointDashboard, Retries: readRetries}, &stats)
	return stats, err
}

func (c *Client) GetStatistics(ctx context.Context) (model.StatisticsResponse, error) {
	var stats model.StatisticsResponse
	err := c.Do(ctx, Request{Method: http.MethodGet, Path: EndpointStatistics, Retries: readRetries}, &stats)
	return stats, err
}

func (c *Client) GetMostSoldProducts(ctx context.Context) ([]model.MostSoldProduct, error) {
	var products []model.MostSoldProduct
	err := c.Do(ctx, Request{Method: http.MethodGet, Path: EndpointMostSoldProducts, Retries: readRetries}, &products)
	return products, err
}

func (c *Client) GetSalesByCategory(ctx context.Context) ([]model.CategorySales, error) {
	var sales []model.CategorySales
	err := c.Do(ctx, Request{Method: http.MethodGet, Path: EndpointSalesByCategory, Retries: readRetries}, &sales)
	return sales, err
}

func (c *Client) GetCustomerLocations(ctx context.Context) ([]model.CustomerLocation, error) {
	var locations []model.CustomerLocation
	err := c.Do(ctx, Request{Method: http.MethodGet, Path: EndpointCustomerLocations, Retries: readRetries}, &locations)
	return locations, err
}
