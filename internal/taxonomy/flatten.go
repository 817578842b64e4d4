// Package taxonomy flattens the nested category document served by the listings API
// and answers level-by-level navigation queries over the flat set.
package taxonomy

import (
	"github.com/01moynul/marketfeed/internal/models"
	"github.com/gosimple/slug"
)

// MaxDepth bounds recursion over the external document. Nodes nested deeper are dropped.
const MaxDepth = 32

// Flatten turns a node and its descendants into flat categories, node first.
// Every child gets the node's id as parent. A node without an id is skipped along
// with its whole subtree.
func Flatten(node models.CategoryNode, parentID *int64) []models.Category {
	return flatten(node, parentID, 0, nil)
}

// FlattenAll flattens a forest of root nodes in document order.
func FlattenAll(nodes []models.CategoryNode) []models.Category {
	var out []models.Category
	for _, n := range nodes {
		out = flatten(n, nil, 0, out)
	}
	return out
}

func flatten(node models.CategoryNode, parentID *int64, depth int, acc []models.Category) []models.Category {
	if node.ID == nil || depth >= MaxDepth {
		return acc
	}

	id := *node.ID
	cat := models.Category{
		ID:   id,
		Name: node.Name,
		Slug: slug.MakeLang(node.Name, "tr"),
	}
	if parentID != nil {
		p := *parentID
		cat.ParentID = &p
	}
	acc = append(acc, cat)

	for _, child := range node.Children {
		acc = flatten(child, &id, depth+1, acc)
	}
	return acc
}

// Dedupe drops every entry whose id was already seen. First occurrence wins.
func Dedupe(categories []models.Category) []models.Category {
	seen := make(map[int64]struct{}, len(categories))
	out := make([]models.Category, 0, len(categories))
	for _, c := range categories {
		if _, dup := seen[c.ID]; dup {
			continue
		}
		seen[c.ID] = struct{}{}
		out = append(out, c)
	}
	return out
}

// ChildrenOf returns the categories whose parent is parentID, in input order.
// A nil parentID returns the roots.
func ChildrenOf(categories []models.Category, parentID *int64) []models.Category {
	out := []models.Category{}
	for _, c := range categories {
		switch {
		case parentID == nil && c.ParentID == nil:
			out = append(out, c)
		case parentID != nil && c.ParentID != nil && *c.ParentID == *parentID:
			out = append(out, c)
		}
	}
	return out
}

// HasChildren reports whether any category names id as its parent.
func HasChildren(categories []models.Category, id int64) bool {
	for _, c := range categories {
		if c.ParentID != nil && *c.ParentID == id {
			return true
		}
	}
	return false
}

// IsVehicleRooted reports whether id is the Vehicles root or sits below it.
func IsVehicleRooted(categories []models.Category, id int64) bool {
	for depth := 0; depth <= MaxDepth; depth++ {
		if id == models.VehiclesCategoryID {
			return true
		}
		c, ok := Find(categories, id)
		if !ok || c.ParentID == nil {
			return false
		}
		id = *c.ParentID
	}
	return false
}

// Find looks a category up by id.
func Find(categories []models.Category, id int64) (models.Category, bool) {
	for _, c := range categories {
		if c.ID == id {
			return c, true
		}
	}
	return models.Category{}, false
}

// Navigable drops orphans: categories whose parent is not in the set, and everything
// below them. The result keeps input order.
func Navigable(categories []models.Category) []models.Category {
	byID := make(map[int64]models.Category, len(categories))
	for _, c := range categories {
		if _, ok := byID[c.ID]; !ok {
			byID[c.ID] = c
		}
	}

	// rooted caches the answer per id; the depth cap stops walks around a cycle.
	rooted := make(map[int64]bool, len(categories))
	var isRooted func(c models.Category, depth int) bool
	isRooted = func(c models.Category, depth int) bool {
		if v, ok := rooted[c.ID]; ok {
			return v
		}
		var ok bool
		switch {
		case c.ParentID == nil:
			ok = true
		case depth >= MaxDepth:
			ok = false
		default:
			parent, exists := byID[*c.ParentID]
			ok = exists && isRooted(parent, depth+1)
		}
		rooted[c.ID] = ok
		return ok
	}

	out := make([]models.Category, 0, len(categories))
	for _, c := range categories {
		if isRooted(c, 0) {
			out = append(out, c)
		}
	}
	return out
}
