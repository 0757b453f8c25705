package routes

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"storefront/internal/auth"
	"storefront/internal/cache"
	"storefront/internal/config"
	"storefront/internal/handlers"
	"storefront/internal/images"
	"storefront/internal/repository"
)

func RegisterRoutes(router *gin.Engine, db *mongo.Database, store images.Store, cfg *config.Config, logger *slog.Logger) {
	products := repository.NewProductRepository(db.Collection("products"))
	admins := repository.NewAdminRepository(db.Collection("admins"))

	authService := auth.NewService(admins, cfg.JWTSecret, cfg.TokenTTL)
	ingestor := images.NewIngestor(store, logger)
	responseCache := cache.New(5 * time.Minute)

	productHandler := handlers.NewProductHandler(products, ingestor, responseCache, logger)
	authHandler := handlers.NewAuthHandler(authService, logger)

	requireAdmin := auth.RequireAdmin(authService)

	api := router.Group("/api")
	{
		api.GET("/products", productHandler.ListProducts)
		api.GET("/products/:id", productHandler.GetProduct)
		api.POST("/products", requireAdmin, productHandler.CreateProduct)
		api.PUT("/products/:id", requireAdmin, productHandler.UpdateProduct)
		api.DELETE("/products/:id", requireAdmin, productHandler.DeleteProduct)

		api.POST("/auth/login", authHandler.Login)
		api.GET("/auth/verify", requireAdmin, authHandler.Verify)
	}

	if cfg.ImageStore == "local" {
		router.Static("/uploads", cfg.UploadDir)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})
}
