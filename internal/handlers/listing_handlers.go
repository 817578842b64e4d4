package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/01moynul/marketfeed/internal/filter"
	"github.com/01moynul/marketfeed/internal/models"
	"github.com/gin-gonic/gin"
)

// GetListings (Protected)
// The upstream search narrows by category and price (or everything, with
// ServerFiltering); the full criteria are always applied here over the returned page.
func (h *Handlers) GetListings(c *gin.Context) {
	// 1. Parse the criteria
	criteria, err := filter.ParseQuery(c.Request.URL.Query())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// 2. Category names feed the keyword match; a missing set only weakens it
	ctx := c.Request.Context()
	h.ensureCategories(ctx)

	// 3. Search upstream
	params := filter.CoarseQuery(criteria)
	if h.ServerFiltering {
		params = filter.ServerQuery(criteria)
	}
	// A failed or unreadable search shows as an empty feed.
	listings, err := h.Upstream.Search(ctx, bearer(c), params)
	if err != nil {
		log.Printf("WARNING: listing search: %v", err)
		listings = nil
	}

	// 4. Fine filter
	h.respondListings(c, listings, criteria)
}

// GetListingsByCategory (Protected)
func (h *Handlers) GetListingsByCategory(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID"})
		return
	}
	criteria, err := filter.ParseQuery(c.Request.URL.Query())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	listings, err := h.Upstream.ByCategory(c.Request.Context(), bearer(c), id)
	if err != nil {
		log.Printf("WARNING: listings of category %d: %v", id, err)
		listings = nil
	}
	h.respondListings(c, listings, criteria)
}

func (h *Handlers) respondListings(c *gin.Context, listings []models.Listing, criteria models.FilterCriteria) {
	out := filter.Apply(listings, criteria, h.Resolver.Snapshot())
	c.JSON(http.StatusOK, gin.H{
		"listings": out,
		"count":    len(out),
		"criteria": criteria,
	})
}

// ResetFilters (Protected)
// Returns the empty criteria for whatever the client currently holds.
func (h *Handlers) ResetFilters(c *gin.Context) {
	var current models.FilterCriteria
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&current); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"criteria": filter.Reset(current)})
}
