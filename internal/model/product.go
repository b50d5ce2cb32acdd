package model

import (
	"net/url"
	"strings"
)

type ProductType struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	ImageURL string  `json:"imageUrl"`
}

type ProductImage struct {
	URL string `json:"url"`
}

type Product struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	MinPrice    float64        `json:"minPrice"`
	MaxPrice    float64        `json:"maxPrice"`
	Sold        int            `json:"sold"`
	Rating      float64        `json:"rating"`
	ImageURL    string         `json:"imageUrl"`
	Description string         `json:"description,omitempty"`
	CategoryID  string         `json:"categoryId,omitempty"`
	Category    *Category      `json:"category,omitempty"`
	Stock       int            `json:"stock,omitempty"`
	Status      string         `json:"status,omitempty"`
	CreatedAt   string         `json:"createdAt,omitempty"`
	UpdatedAt   string         `json:"updatedAt,omitempty"`
	Types       []ProductType  `json:"types,omitempty"`
	Images      []ProductImage `json:"images,omitempty"`
	Condition   string         `json:"condition,omitempty"`
}

type ProductRequest struct {
	ID          string         `json:"id,omitempty"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	CategoryID  string         `json:"categoryId"`
	Types       []ProductType  `json:"types"`
	Images      []ProductImage `json:"images"`
	Condition   string         `json:"condition"`
}

// Normalize drops empty product types and image rows, the way the product
// form submits them.
func (r *ProductRequest) Normalize() {
	types := r.Types[:0]
	for _, t := range r.Types {
		if strings.TrimSpace(t.Name) != "" {
			types = append(types, t)
		}
	}
	r.Types = types

	images := r.Images[:0]
	for _, img := range r.Images {
		if strings.TrimSpace(img.URL) != "" {
			images = append(images, img)
		}
	}
	r.Images = images
}

type ProductQuery struct {
	PageQuery
	Category  string
	Condition string
}

func (q ProductQuery) Values() url.Values {
	values := q.PageQuery.Values()
	if category := strings.TrimSpace(q.Category); category != "" {
		values.Set("Category", category)
	}
	if condition := strings.TrimSpace(q.Condition); condition != "" {
		values.Set("Condition", condition)
	}
	return values
}

type UploadImagesResponse struct {
	URLs []string `json:"urls"`
}
