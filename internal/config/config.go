package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	MongoURI string
	MongoDB  string
	Port     string

	JWTSecret string
	TokenTTL  time.Duration

	// Seeded admin credential. Empty values skip seeding.
	AdminEmail        string
	AdminPasswordHash string

	// Image storage. "local" writes under UploadDir and serves it at
	// /uploads; "s3" uploads to the configured bucket.
	ImageStore    string
	UploadDir     string
	PublicBaseURL string
	S3Region      string
	S3Bucket      string
	S3Prefix      string
	S3BaseURL     string
}

func LoadConfig() *Config {
	// .env only exists in local development; deployed environments
	// inject real environment variables.
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			log.Println("error loading .env file:", err)
		}
	}

	return &Config{
		MongoURI:          getEnv("MONGO_URI", ""),
		MongoDB:           getEnv("MONGO_DB", "storefront"),
		Port:              getEnv("PORT", "8080"),
		JWTSecret:         getEnv("JWT_SECRET", "secret-key"),
		TokenTTL:          getDuration("TOKEN_TTL", 24*time.Hour),
		AdminEmail:        getEnv("ADMIN_EMAIL", ""),
		AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		ImageStore:        getEnv("IMAGE_STORE", "local"),
		UploadDir:         getEnv("UPLOAD_DIR", "public/uploads"),
		PublicBaseURL:     getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),
		S3Region:          getEnv("S3_REGION", ""),
		S3Bucket:          getEnv("S3_BUCKET", ""),
		S3Prefix:          getEnv("S3_PREFIX", "products"),
		S3BaseURL:         getEnv("S3_PUBLIC_BASE_URL", ""),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		log.Printf("invalid duration for %s, using default", key)
	}
	return fallback
}
