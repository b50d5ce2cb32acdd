// Package catalog turns the inventory service's category records into a
// forest and keeps a cached copy of it.
package catalog

import (
	"log/slog"

	"admin-console/internal/model"
)

// BuildForest links flat records by parent id. Records whose parent is
// unknown become roots. Roots and children keep the input order. Records that
// arrive already nested are flattened first, so both shapes build the same
// forest. Members of a parent cycle that no root reaches are promoted too,
// so every record appears exactly once.
func BuildForest(records []model.CategoryRecord) []model.Category {
	flat := flattenRecords(records)

	index := make(map[string]int, len(flat))
	for i, r := range flat {
		if _, dup := index[r.ID]; !dup {
			index[r.ID] = i
		}
	}

	children := make([][]int, len(flat))
	var roots []int
	for i, r := range flat {
		if r.ParentID == nil || *r.ParentID == "" {
			roots = append(roots, i)
			continue
		}

		parent, ok := index[*r.ParentID]
		if !ok || parent == i {
			slog.Debug("category parent not found, promoting to root", "id", r.ID, "parent_id", *r.ParentID)
			roots = append(roots, i)
			continue
		}
		children[parent] = append(children[parent], i)
	}

	visited := make([]bool, len(flat))
	var build func(i int) model.Category
	build = func(i int) model.Category {
		visited[i] = true
		node := model.Category{
			ID:            flat[i].ID,
			Name:          flat[i].Name,
			ParentID:      flat[i].ParentID,
			SubCategories: make([]model.Category, 0, len(children[i])),
		}
		for _, c := range children[i] {
			if !visited[c] {
				node.SubCategories = append(node.SubCategories, build(c))
			}
		}
		return node
	}

	forest := make([]model.Category, 0, len(roots))
	for _, r := range roots {
		forest = append(forest, build(r))
	}
	for i := range flat {
		if !visited[i] {
			slog.Debug("category parent cycle, promoting to root", "id", flat[i].ID)
			forest = append(forest, build(i))
		}
	}
	return forest
}

// flattenRecords emits nested records in pre-order, giving children without
// a parent id the id of the record they were nested in.
func flattenRecords(records []model.CategoryRecord) []model.CategoryRecord {
	var out []model.CategoryRecord
	var walk func(rs []model.CategoryRecord, parent *string)
	walk = func(rs []model.CategoryRecord, parent *string) {
		for _, r := range rs {
			nested := r.SubCategories
			r.SubCategories = nil
			if (r.ParentID == nil || *r.ParentID == "") && parent != nil {
				p := *parent
				r.ParentID = &p
			}
			out = append(out, r)

			if len(nested) > 0 {
				id := r.ID
				walk(nested, &id)
			}
		}
	}
	walk(records, nil)
	return out
}

// Find searches the forest depth first.
func Find(forest []model.Category, id string) (model.Category, bool) {
	for _, c := range forest {
		if c.ID == id {
			return c, true
		}
		if found, ok := Find(c.SubCategories, id); ok {
			return found, true
		}
	}
	return model.Category{}, false
}

// Flatten lists every node in pre-order. The returned nodes carry no
// children.
func Flatten(forest []model.Category) []model.Category {
	var out []model.Category
	var walk func([]model.Category)
	walk = func(cs []model.Category) {
		for _, c := range cs {
			sub := c.SubCategories
			c.SubCategories = []model.Category{}
			out = append(out, c)
			walk(sub)
		}
	}
	walk(forest)
	return out
}
