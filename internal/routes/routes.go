package routes

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/01moynul/inventory-tracker/internal/handlers"
	"github.com/01moynul/inventory-tracker/internal/middleware"
	"github.com/gin-gonic/gin"
)

// Options tunes the router without touching handler wiring.
type Options struct {
	CORSOrigins []string
	StaticDir   string // serve the front end from here when set
}

func SetupRouter(h *handlers.Handlers, opts Options) *gin.Engine {
	router := gin.Default()

	// --- Global Middleware ---
	router.Use(middleware.RequestID())
	if len(opts.CORSOrigins) > 0 {
		router.Use(middleware.CORSMiddleware(opts.CORSOrigins))
	}

	// --- Probes ---
	router.GET("/health", h.Health)
	router.GET("/ready", h.Ready)

	// --- Item Routes ---
	items := router.Group("/items")
	{
		items.GET("", h.ListItems)
		items.POST("", h.CreateItem)
		items.DELETE("", h.RejectMissingID)
		items.GET("/:id", h.GetItem)
		items.PUT("/:id", h.UpdateItem)
		items.DELETE("/:id", h.DeleteItem)
		items.POST("/:id/adjust", h.AdjustItemQuantity)
		items.POST("/:id/edit", h.UpdateItem)
	}

	// --- Legacy Form Routes ---
	router.POST("/addItem", h.AddItem)
	router.POST("/editItem/:id", h.UpdateItem)

	// --- Static Front End ---
	if opts.StaticDir != "" {
		router.NoRoute(staticHandler(opts.StaticDir))
	}

	return router
}

// staticHandler serves GET/HEAD requests that matched no API route from dir.
func staticHandler(dir string) gin.HandlerFunc {
	files := http.FileServer(gin.Dir(dir, false))
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		if _, err := os.Stat(filepath.Join(dir, filepath.Clean("/"+c.Request.URL.Path))); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		files.ServeHTTP(c.Writer, c.Request)
	}
}
