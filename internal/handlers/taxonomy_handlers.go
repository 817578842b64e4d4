package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"

	"github.com/01moynul/marketfeed/internal/models"
	"github.com/01moynul/marketfeed/internal/taxonomy"
	"github.com/gin-gonic/gin"
)

// LoadCategories replaces the working set with a fresh general batch.
// On failure the previous set is kept.
func (h *Handlers) LoadCategories(ctx context.Context) error {
	nodes, err := h.Upstream.Categories(ctx)
	if err != nil {
		return err
	}
	h.Resolver.Replace(taxonomy.FlattenAll(nodes))
	log.Printf("Loaded %d categories", h.Resolver.Len())
	return nil
}

// ensureCategories loads the general batch on first use. A failed fetch is logged and
// leaves the set as it was; an empty set is a valid, displayable picker.
func (h *Handlers) ensureCategories(ctx context.Context) bool {
	if h.Resolver.Len() > 0 {
		return true
	}
	if err := h.LoadCategories(ctx); err != nil {
		log.Printf("WARNING: categories not loaded: %v", err)
		return false
	}
	return true
}

// ensureVehicleCategories fetches and merges the vehicle batch once per general batch.
// A failed fetch is logged and retried on the next request.
func (h *Handlers) ensureVehicleCategories(ctx context.Context) {
	if h.Resolver.VehiclesLoaded() {
		return
	}
	nodes, err := h.Upstream.VehicleCategories(ctx)
	if err != nil {
		log.Printf("WARNING: vehicle categories not loaded: %v", err)
		return
	}
	h.Resolver.MergeVehicles(taxonomy.FlattenAll(nodes))
}

// GetCategories (Public)
// Without ?parent it returns the whole navigable set flat; with it, one level.
func (h *Handlers) GetCategories(c *gin.Context) {
	// 1. Parse the optional parent ("parent=" alone means the roots)
	raw, byParent := c.GetQuery("parent")
	var parent *int64
	if byParent && raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid parent ID"})
			return
		}
		parent = &id
	}

	// 2. Make sure the working set is loaded
	ctx := c.Request.Context()
	h.ensureCategories(ctx)
	if parent != nil && taxonomy.IsVehicleRooted(h.Resolver.Snapshot(), *parent) {
		h.ensureVehicleCategories(ctx)
	}

	// 3. Whole set or one level
	if !byParent {
		c.JSON(http.StatusOK, gin.H{"categories": h.Resolver.Snapshot()})
		return
	}
	h.respondChildren(c, parent)
}

// GetCategoryChildren (Public)
func (h *Handlers) GetCategoryChildren(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID"})
		return
	}

	ctx := c.Request.Context()
	if !h.ensureCategories(ctx) {
		h.respondChildren(c, &id)
		return
	}
	if taxonomy.IsVehicleRooted(h.Resolver.Snapshot(), id) {
		h.ensureVehicleCategories(ctx)
	}
	if _, ok := h.Resolver.Find(id); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}
	h.respondChildren(c, &id)
}

func (h *Handlers) respondChildren(c *gin.Context, parent *int64) {
	children := h.Resolver.ChildrenOf(parent)
	type option struct {
		models.Category
		HasChildren bool `json:"hasChildren"`
	}
	out := make([]option, 0, len(children))
	for _, cat := range children {
		out = append(out, option{Category: cat, HasChildren: h.Resolver.HasChildren(cat.ID)})
	}
	c.JSON(http.StatusOK, gin.H{"categories": out})
}

// GetVehicleOptions (Public)
func (h *Handlers) GetVehicleOptions(c *gin.Context) {
	c.JSON(http.StatusOK, h.Options)
}
