package routes

import (
	"net/http"
	"time"

	"github.com/01moynul/marketfeed/internal/handlers"
	"github.com/01moynul/marketfeed/internal/middleware"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORSConfig allows the given origins to call the API with a bearer token.
func CORSConfig(origins []string) cors.Config {
	return cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
}

func SetupRouter(h *handlers.Handlers, origins []string) *gin.Engine {
	router := gin.Default()

	// --- APPLY THE CORS GUARD ---
	// This must be the very first thing the router uses
	router.Use(cors.New(CORSConfig(origins)))
	router.Use(middleware.RequestID())

	v1 := router.Group("/v1")
	{
		// --- Ping Route (Public) ---
		v1.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "pong!"})
		})

		// --- Category Routes (Public) ---
		v1.GET("/categories", h.GetCategories)
		v1.GET("/categories/:id/children", h.GetCategoryChildren)
		v1.GET("/vehicle-options", h.GetVehicleOptions)

		// --- Protected Routes (Login Required) ---
		auth := v1.Group("/")
		auth.Use(middleware.AuthMiddleware())
		{
			// --- Listing Feed ---
			auth.GET("/listings", h.GetListings)
			auth.GET("/listings/category/:id", h.GetListingsByCategory)
			auth.POST("/filters/reset", h.ResetFilters)

			// --- Ad Drafts ---
			drafts := auth.Group("/drafts")
			{
				drafts.POST("", h.CreateDraft)
				drafts.GET("/:id", h.GetDraft)
				drafts.PUT("/:id", h.UpdateDraft)
				drafts.DELETE("/:id", h.DeleteDraft)
				drafts.POST("/:id/select", h.SelectDraftCategory)
				drafts.POST("/:id/back", h.BackDraftCategory)
				drafts.POST("/:id/next", h.NextDraftStep)
				drafts.POST("/:id/prev", h.PrevDraftStep)
				drafts.POST("/:id/submit", h.SubmitDraft)
			}
		}
	}

	return router
}
