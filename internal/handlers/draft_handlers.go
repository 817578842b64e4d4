package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/01moynul/marketfeed/internal/drafts"
	"github.com/01moynul/marketfeed/internal/models"
	"github.com/01moynul/marketfeed/internal/submission"
	"github.com/01moynul/marketfeed/internal/taxonomy"
	"github.com/01moynul/marketfeed/internal/upstream"
	"github.com/gin-gonic/gin"
)

// draftUpdate carries the form fields of steps 2-5. Absent fields are left as they are.
type draftUpdate struct {
	CarDetails  *models.CarDetails `json:"carDetails"`
	Photos      *[]string          `json:"photos"`
	Title       *string            `json:"title"`
	Description *string            `json:"description"`
	Address     *string            `json:"address"`
	Latitude    *float64           `json:"latitude"`
	Longitude   *float64           `json:"longitude"`
	Price       *string            `json:"price"`
}

type selectInput struct {
	Level      *int   `json:"level" binding:"required"`
	CategoryID *int64 `json:"categoryId" binding:"required"`
}

// CreateDraft (Protected)
func (h *Handlers) CreateDraft(c *gin.Context) {
	d, err := h.Drafts.Create(c.Request.Context(), currentUser(c))
	if err != nil {
		log.Printf("ERROR: create draft: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create draft"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"draft": d})
}

// GetDraft (Protected)
func (h *Handlers) GetDraft(c *gin.Context) {
	w, ok := h.loadWizard(c)
	if !ok {
		return
	}
	h.respondDraft(c, w)
}

// UpdateDraft (Protected)
func (h *Handlers) UpdateDraft(c *gin.Context) {
	var input draftUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	w, ok := h.loadWizard(c)
	if !ok {
		return
	}

	d := w.Draft
	if input.CarDetails != nil {
		if !d.Path.IsVehicle() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Car details only apply to vehicle adverts"})
			return
		}
		d.CarDetails = *input.CarDetails
	}
	if input.Photos != nil {
		if len(*input.Photos) > submission.MaxPhotos {
			c.JSON(http.StatusBadRequest, gin.H{"error": submission.ErrTooManyPhotos.Error()})
			return
		}
		d.Photos = *input.Photos
	}
	if input.Title != nil {
		d.Title = *input.Title
	}
	if input.Description != nil {
		d.Description = *input.Description
	}
	if input.Address != nil {
		d.Address = *input.Address
	}
	if input.Latitude != nil {
		d.Latitude = *input.Latitude
	}
	if input.Longitude != nil {
		d.Longitude = *input.Longitude
	}
	if input.Price != nil {
		d.Price = *input.Price
	}

	h.saveAndRespond(c, w)
}

// SelectDraftCategory (Protected)
// Picks a category at a drill-down level. Picking the Vehicles root pulls in the
// vehicle subcategories before the next level is offered.
func (h *Handlers) SelectDraftCategory(c *gin.Context) {
	var input selectInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	w, ok := h.loadWizard(c)
	if !ok {
		return
	}

	// 1. Apply the selection
	res, err := w.Select(*input.Level, *input.CategoryID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// 2. Vehicles root: fetch and merge the subcategory batch
	// (a failed fetch leaves the next level empty and is retried on the next request)
	if res.NeedsVehicleBatch {
		h.ensureVehicleCategories(c.Request.Context())
		w.Categories = h.Resolver.Snapshot()
	}

	h.saveAndRespond(c, w)
}

// BackDraftCategory (Protected)
func (h *Handlers) BackDraftCategory(c *gin.Context) {
	w, ok := h.loadWizard(c)
	if !ok {
		return
	}
	w.Back()
	h.saveAndRespond(c, w)
}

// NextDraftStep (Protected)
func (h *Handlers) NextDraftStep(c *gin.Context) {
	w, ok := h.loadWizard(c)
	if !ok {
		return
	}
	if err := w.Next(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.saveAndRespond(c, w)
}

// PrevDraftStep (Protected)
func (h *Handlers) PrevDraftStep(c *gin.Context) {
	w, ok := h.loadWizard(c)
	if !ok {
		return
	}
	if err := w.Prev(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.saveAndRespond(c, w)
}

// SubmitDraft (Protected)
// Posts the advert upstream and discards the draft on success.
func (h *Handlers) SubmitDraft(c *gin.Context) {
	w, ok := h.loadWizard(c)
	if !ok {
		return
	}

	// 1. Validate and build the payload
	payload, err := w.Payload(w.Draft.Photos)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// 2. Post it
	ctx := c.Request.Context()
	created, err := h.Upstream.CreateListing(ctx, bearer(c), payload, w.IsVehicle())
	if err != nil {
		var se *upstream.StatusError
		if errors.As(err, &se) && se.Code >= 400 && se.Code < 500 {
			c.JSON(se.Code, gin.H{"error": se.Body})
			return
		}
		log.Printf("ERROR: submit draft %s: %v", w.Draft.ID, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to create listing"})
		return
	}

	// 3. The advert exists now; a stale draft is only cosmetic
	if err := h.Drafts.Delete(ctx, currentUser(c), w.Draft.ID); err != nil {
		log.Printf("WARNING: draft %s not removed after submit: %v", w.Draft.ID, err)
	}
	c.JSON(http.StatusCreated, gin.H{"listing": created})
}

// DeleteDraft (Protected)
func (h *Handlers) DeleteDraft(c *gin.Context) {
	err := h.Drafts.Delete(c.Request.Context(), currentUser(c), c.Param("id"))
	if errors.Is(err, drafts.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Draft not found"})
		return
	}
	if err != nil {
		log.Printf("ERROR: delete draft: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete draft"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Draft deleted"})
}

// --- Helpers ---

// loadWizard fetches the draft named in the route and the categories it needs.
// On failure the response has been written.
func (h *Handlers) loadWizard(c *gin.Context) (*submission.Wizard, bool) {
	ctx := c.Request.Context()
	d, err := h.Drafts.Get(ctx, currentUser(c), c.Param("id"))
	if errors.Is(err, drafts.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Draft not found"})
		return nil, false
	}
	if err != nil {
		log.Printf("ERROR: load draft: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load draft"})
		return nil, false
	}

	// Missing categories leave the picker empty; the draft itself is still served.
	h.ensureCategories(ctx)
	if d.Path.IsVehicle() {
		h.ensureVehicleCategories(ctx)
	}
	return submission.New(d, h.Resolver.Snapshot()), true
}

func (h *Handlers) saveAndRespond(c *gin.Context, w *submission.Wizard) {
	if err := h.Drafts.Save(c.Request.Context(), w.Draft); err != nil {
		if errors.Is(err, drafts.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Draft not found"})
			return
		}
		log.Printf("ERROR: save draft %s: %v", w.Draft.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save draft"})
		return
	}
	h.respondDraft(c, w)
}

// respondDraft returns the draft with the picker state: the current level, the options
// shown there and whether step 1 can be left.
func (h *Handlers) respondDraft(c *gin.Context, w *submission.Wizard) {
	sel := w.Selection()
	path := sel.Path()

	var parent *int64
	if lvl := sel.Level(); lvl > 0 {
		parent = &path[lvl-1]
	}

	c.JSON(http.StatusOK, gin.H{
		"draft":    w.Draft,
		"level":    sel.Level(),
		"options":  taxonomy.ChildrenOf(w.Categories, parent),
		"complete": sel.Complete(w.Categories, w.Draft.CarDetails),
	})
}
