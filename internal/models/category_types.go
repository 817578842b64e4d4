package models

// VehiclesCategoryID is the reserved id of the root "Vehicles" (Vasıta) category.
// The listings API hard-codes it; vehicle-only filters and the car-detail form key off it.
const VehiclesCategoryID int64 = 1

// Category is one flattened entry of the category taxonomy.
type Category struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug,omitempty"`
	ParentID *int64 `json:"parentId,omitempty"` // nil for root categories
}

// IsRoot reports whether the category has no parent.
func (c Category) IsRoot() bool {
	return c.ParentID == nil
}

// CategoryNode is a normalized node of the nested category document.
// ID is a pointer so that partial records without an id can be told apart from id 0.
type CategoryNode struct {
	ID       *int64         `json:"id,omitempty"`
	Name     string         `json:"name"`
	Children []CategoryNode `json:"children,omitempty"`
}

// SelectionPath is an ordered list of selected category ids, index = drill-down level.
type SelectionPath []int64

// Last returns the deepest selected id, or false for an empty path.
func (p SelectionPath) Last() (int64, bool) {
	if len(p) == 0 {
		return 0, false
	}
	return p[len(p)-1], true
}

// Root returns the level-0 selection, or false for an empty path.
func (p SelectionPath) Root() (int64, bool) {
	if len(p) == 0 {
		return 0, false
	}
	return p[0], true
}

// IsVehicle reports whether the path starts at the Vehicles root.
func (p SelectionPath) IsVehicle() bool {
	root, ok := p.Root()
	return ok && root == VehiclesCategoryID
}
