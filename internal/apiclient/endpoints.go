package apiclient

import "net/url"

const (
	EndpointLogin          = "/api/identity/auth/login"
	EndpointRefreshToken   = "/api/identity/auth/refresh-token"
	EndpointUsers          = "/api/identity/users"
	EndpointChangePassword = "/api/identity/users/change-password"

	EndpointDashboard         = "/api/sale-dashboard"
	EndpointStatistics        = "/api/statistics"
	EndpointMostSoldProducts  = "/api/most-sold-products"
	EndpointSalesByCategory   = "/api/sales-by-category"
	EndpointCustomerLocations = "/api/customer-locations"
	EndpointShoppingProducts  = "/api/shopping/products"

	EndpointCategories        = "/api/inventory/categories"
	EndpointInventoryProducts = "/api/inventory/products"
	EndpointProductImages     = "/api/inventory/products/images"
)

func UserByID(id string) string {
	return EndpointUsers + "/" + url.PathEscape(id)
}

func UserRestore(id string) string {
	return UserByID(id) + "/restore"
}

func UserPassword(id string) string {
	return UserByID(id) + "/password"
}

func CategoryByID(id string) string {
	return EndpointCategories + "/" + url.PathEscape(id)
}

func InventoryProductByID(id string) string {
	return EndpointInventoryProducts + "/" + url.PathEscape(id)
}

func ShoppingProductByID(id string) string {
	return EndpointShoppingProducts + "/" + url.PathEscape(id)
}
