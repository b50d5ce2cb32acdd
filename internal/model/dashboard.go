package model

type SalesByCategory struct {
	Category string  `json:"category"`
	Sales    float64 `json:"sales"`
}

type MostSoldProduct struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	MinPrice   float64 `json:"minPrice"`
	MaxPrice   float64 `json:"maxPrice"`
	Sold       int     `json:"sold"`
	Rating     float64 `json:"rating"`
	CategoryID string  `json:"categoryId"`
	ImageURL   string  `json:"imageUrl"`
}

type DashboardStats struct {
	TotalUsers       int               `json:"totalUsers"`
	TotalProducts    int               `json:"totalProducts"`
	TotalOrders      int               `json:"totalOrders"`
	TotalRevenue     float64           `json:"totalRevenue"`
	SalesByCategory  []SalesByCategory `json:"salesByCategory"`
	MostSoldProducts []MostSoldProduct `json:"mostSoldProducts"`
}

type StatisticsResponse struct {
	TotalUsers    int     `json:"totalUsers"`
	TotalProducts int     `json:"totalProducts"`
	TotalOrders   int     `json:"totalOrders"`
	TotalSales    float64 `json:"totalSales"`
}

type CategorySales struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Sold int    `json:"sold"`
}

type CustomerLocation struct {
	ID      int     `json:"id"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Count   int     `json:"count"`
	City    string  `json:"city,omitempty"`
	Address string  `json:"address,omitempty"`
}
