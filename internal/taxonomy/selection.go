package taxonomy

import (
	"errors"
	"fmt"

	"github.com/01moynul/marketfeed/internal/models"
)

var (
	ErrUnknownCategory = errors.New("unknown category")
	ErrNotAChild       = errors.New("category is not an option at this level")
	ErrLevelSkipped    = errors.New("cannot select past the current level")
)

// SelectResult describes what happened after a selection.
type SelectResult struct {
	Level    int                  `json:"level"`
	Path     models.SelectionPath `json:"path"`
	Terminal bool                 `json:"terminal"`
	// NeedsVehicleBatch is set when the Vehicles root was just picked; the caller must
	// fetch the vehicle subcategories and merge them before the next ChildrenOf.
	NeedsVehicleBatch bool `json:"needsVehicleBatch"`
}

// Selection is the drill-down state of a category picker.
// Level is the depth whose options are currently shown.
type Selection struct {
	path  models.SelectionPath
	level int
}

// RestoreSelection rebuilds the drill-down state for a stored path.
func RestoreSelection(categories []models.Category, path models.SelectionPath) *Selection {
	s := &Selection{path: append(models.SelectionPath(nil), path...)}
	s.level = s.levelFor(categories)
	return s
}

func (s *Selection) Level() int { return s.level }

// Path returns a copy of the selected ids.
func (s *Selection) Path() models.SelectionPath {
	return append(models.SelectionPath{}, s.path...)
}

func (s *Selection) IsVehicle() bool { return s.path.IsVehicle() }

// Select picks id at the current level.
func (s *Selection) Select(categories []models.Category, id int64) (SelectResult, error) {
	return s.SelectAt(categories, s.level, id)
}

// SelectAt picks id at level, discarding every selection deeper than level.
func (s *Selection) SelectAt(categories []models.Category, level int, id int64) (SelectResult, error) {
	if level < 0 || level > len(s.path) {
		return SelectResult{}, fmt.Errorf("level %d: %w", level, ErrLevelSkipped)
	}

	cat, ok := Find(categories, id)
	if !ok {
		return SelectResult{}, fmt.Errorf("category %d: %w", id, ErrUnknownCategory)
	}
	if level == 0 {
		if !cat.IsRoot() {
			return SelectResult{}, fmt.Errorf("category %d at level 0: %w", id, ErrNotAChild)
		}
	} else if cat.ParentID == nil || *cat.ParentID != s.path[level-1] {
		return SelectResult{}, fmt.Errorf("category %d at level %d: %w", id, level, ErrNotAChild)
	}

	path := append(models.SelectionPath{}, s.path[:level]...)
	s.path = append(path, id)
	s.level = s.levelFor(categories)

	return SelectResult{
		Level:             s.level,
		Path:              s.Path(),
		Terminal:          s.level == len(s.path)-1,
		NeedsVehicleBatch: level == 0 && id == models.VehiclesCategoryID,
	}, nil
}

// Back returns to the previous level, dropping the selection made there.
// It is a no-op at level 0.
func (s *Selection) Back() {
	if s.level == 0 {
		return
	}
	s.level--
	s.path = s.path[:s.level]
}

// Reset clears the whole path.
func (s *Selection) Reset() {
	s.path = nil
	s.level = 0
}

// Complete gates the wizard: the last selection must be a leaf. Under the Vehicles root
// completion is instead the car-detail form being fully filled.
func (s *Selection) Complete(categories []models.Category, car models.CarDetails) bool {
	last, ok := s.path.Last()
	if !ok {
		return false
	}
	if s.path.IsVehicle() {
		return car.Filled()
	}
	return !HasChildren(categories, last)
}

// levelFor advances past the last selection when it has children. The Vehicles root
// always advances since its children arrive in a separate batch.
func (s *Selection) levelFor(categories []models.Category) int {
	last, ok := s.path.Last()
	if !ok {
		return 0
	}
	if HasChildren(categories, last) || (len(s.path) == 1 && last == models.VehiclesCategoryID) {
		return len(s.path)
	}
	return len(s.path) - 1
}
