package model

// CategoryRecord is a category as returned by the inventory service. The
// service may return flat records carrying ParentID, or records that are
// already nested through SubCategories.
type CategoryRecord struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	ParentID      *string          `json:"parentId,omitempty"`
	SubCategories []CategoryRecord `json:"subCategories,omitempty"`
}

// Category is a node of the category forest.
type Category struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	ParentID      *string    `json:"parentId"`
	SubCategories []Category `json:"subCategories"`
}

type CategoryRequest struct {
	Name     string  `json:"name"`
	ParentID *string `json:"parentId,omitempty"`
}
