package handlers

import (
	"context"
	"net/url"

	"github.com/01moynul/marketfeed/internal/drafts"
	"github.com/01moynul/marketfeed/internal/middleware"
	"github.com/01moynul/marketfeed/internal/models"
	"github.com/01moynul/marketfeed/internal/taxonomy"
	"github.com/01moynul/marketfeed/internal/vehicle"
	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
)

// Upstream is the listings API as the handlers use it.
type Upstream interface {
	Categories(ctx context.Context) ([]models.CategoryNode, error)
	VehicleCategories(ctx context.Context) ([]models.CategoryNode, error)
	Search(ctx context.Context, token string, params url.Values) ([]models.Listing, error)
	ByCategory(ctx context.Context, token string, categoryID int64) ([]models.Listing, error)
	CreateListing(ctx context.Context, token string, payload models.AdPayload, vehicle bool) (json.RawMessage, error)
}

// Handlers struct holds all dependencies for our handlers.
type Handlers struct {
	Upstream Upstream
	Resolver *taxonomy.Resolver // Working category set shared by every request
	Drafts   drafts.Store
	Options  *vehicle.Options

	// ServerFiltering sends the full criteria upstream instead of category and price only.
	ServerFiltering bool
}

// --- Helpers ---

func currentUser(c *gin.Context) string {
	return c.GetString(middleware.UserIDKey)
}

func bearer(c *gin.Context) string {
	return c.GetString(middleware.TokenKey)
}
