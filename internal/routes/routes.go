package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	carthandler "boutique_back_end/internal/handlers/cart"
	"boutique_back_end/internal/handlers/product"
	"boutique_back_end/internal/middleware"
)

type Handlers struct {
	Products      *product.Handler
	Cart          *carthandler.Handler
	Limiter       middleware.Counter
	DocumentStore string
}

func corsConfig(allowOrigins string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", carthandler.SessionHeader},
		ExposeHeaders:    []string{"Content-Length"},
		MaxAge:           12 * time.Hour,
		AllowCredentials: false,
	}
	origins := strings.Split(allowOrigins, ",")
	if len(origins) == 1 && strings.TrimSpace(origins[0]) == "*" {
		cfg.AllowAllOrigins = true
		return cfg
	}
	for _, o := range origins {
		if o = strings.TrimSpace(o); o != "" {
			cfg.AllowOrigins = append(cfg.AllowOrigins, o)
		}
	}
	cfg.AllowCredentials = true
	return cfg
}

func RegisterRoutes(r *gin.Engine, h Handlers, allowOrigins string) {
	r.Use(cors.New(corsConfig(allowOrigins)))

	limiter := h.Limiter
	if limiter == nil {
		limiter = middleware.NewMemoryCounter()
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "documentStore": h.DocumentStore})
	})

	// Catalogue public
	api := r.Group("/api")
	{
		api.GET("/products", h.Products.List)
		api.GET("/products/:id", h.Products.Get)
		api.GET("/products/category/:category", h.Products.ListByCategory)
	}

	// Panier
	cart := api.Group("/cart", h.Cart.Session())
	{
		cart.GET("", h.Cart.Get)
		cart.DELETE("", h.Cart.Clear)
		cart.POST("/items", middleware.RateLimit(limiter, "cart_add", middleware.CartMaxRequests, carthandler.SessionID), h.Cart.AddItem)
		cart.DELETE("/items/:productId", h.Cart.RemoveItem)
		cart.POST("/items/:productId/increase", h.Cart.IncreaseItem)
		cart.POST("/items/:productId/decrease", h.Cart.DecreaseItem)
		cart.GET("/ws", h.Cart.WebSocket)
	}

	// Admin : formulaires produit
	admin := r.Group("/admin", middleware.AdminRateLimit(limiter))
	{
		admin.GET("/products", h.Products.List)
		admin.POST("/products", middleware.AuditAdminAction(middleware.ActionProductCreate), h.Products.Create)
		admin.PUT("/products/:id", middleware.AuditAdminAction(middleware.ActionProductUpdate), h.Products.Update)
		admin.POST("/products/:id", middleware.AuditAdminAction(middleware.ActionProductUpdate), h.Products.Update)
		admin.DELETE("/products/:id", middleware.AuditAdminAction(middleware.ActionProductDelete), h.Products.Delete)
	}
}
