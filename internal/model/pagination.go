package model

import (
	"net/url"
	"strconv"
	"strings"
)

type PaginationMeta struct {
	PageIndex  int `json:"pageIndex"`
	TotalPages int `json:"totalPages"`
	TotalCount int `json:"totalCount"`
	PageSize   int `json:"pageSize"`
}

type PaginatedResponse[T any] struct {
	Meta PaginationMeta `json:"meta"`
	Data []T            `json:"data"`
}

// PageQuery carries the list parameters shared by every paginated endpoint.
// Zero values are omitted from the query string.
type PageQuery struct {
	PageIndex    int
	PageSize     int
	Keyword      string
	SortBy       string
	IsDescending *bool
}

func (q PageQuery) Values() url.Values {
	values := url.Values{}
	if q.PageIndex > 0 {
		values.Set("PageIndex", strconv.Itoa(q.PageIndex))
	}
	if q.PageSize > 0 {
		values.Set("PageSize", strconv.Itoa(q.PageSize))
	}
	if keyword := strings.TrimSpace(q.Keyword); keyword != "" {
		values.Set("Keyword", keyword)
	}
	if sortBy := strings.TrimSpace(q.SortBy); sortBy != "" {
		values.Set("SortBy", sortBy)
	}
	if q.IsDescending != nil {
		values.Set("IsDescending", strconv.FormatBool(*q.IsDescending))
	}
	return values
}

// ParsePageQuery reads PageQuery fields from an incoming query string. Both
// the backend's PascalCase keys and lowercase aliases are accepted.
func ParsePageQuery(values url.Values) PageQuery {
	q := PageQuery{
		PageIndex: atoiOrZero(firstOf(values, "PageIndex", "page")),
		PageSize:  atoiOrZero(firstOf(values, "PageSize", "limit")),
		Keyword:   firstOf(values, "Keyword", "q"),
		SortBy:    firstOf(values, "SortBy", "sort_by"),
	}
	if raw := firstOf(values, "IsDescending", "desc"); raw != "" {
		if desc, err := strconv.ParseBool(raw); err == nil {
			q.IsDescending = &desc
		}
	}
	return q
}

func firstOf(values url.Values, keys ...string) string {
	for _, key := range keys {
		if v := strings.TrimSpace(values.Get(key)); v != "" {
			return v
		}
	}
	return ""
}

func atoiOrZero(raw string) int {
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0
	}
	return v
}
