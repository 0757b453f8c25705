package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"

	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/images"
	"storefront/internal/repository"
	"storefront/internal/routes"
)

func main() {
	cfg := config.LoadConfig()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	client := database.Connect(cfg.MongoURI)
	db := client.Database(cfg.MongoDB)

	if cfg.AdminEmail != "" && cfg.AdminPasswordHash != "" {
		admins := repository.NewAdminRepository(db.Collection("admins"))
		if err := admins.Seed(context.Background(), cfg.AdminEmail, cfg.AdminPasswordHash); err != nil {
			log.Fatal("admin seed:", err)
		}
	}

	store, err := newImageStore(cfg)
	if err != nil {
		log.Fatal("image store:", err)
	}

	router := gin.New()
	router.Use(routes.RequestLogger(logger), gin.Recovery())
	routes.RegisterRoutes(router, db, store, cfg, logger)

	logger.Info("server starting", slog.String("port", cfg.Port))
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}

func newImageStore(cfg *config.Config) (images.Store, error) {
	if cfg.ImageStore == "s3" {
		return images.NewS3Store(context.Background(), images.S3Config{
			Region:  cfg.S3Region,
			Bucket:  cfg.S3Bucket,
			Prefix:  cfg.S3Prefix,
			BaseURL: cfg.S3BaseURL,
		})
	}
	return images.NewLocalStore(cfg.UploadDir, cfg.PublicBaseURL)
}
