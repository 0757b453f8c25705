package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/internal/models"
)

var ErrAdminNotFound = errors.New("admin not found")

type AdminRepository struct {
	collection *mongo.Collection
}

func NewAdminRepository(collection *mongo.Collection) *AdminRepository {
	return &AdminRepository{
		collection: collection,
	}
}

func (r *AdminRepository) FindByEmail(ctx context.Context, email string) (*models.Admin, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var admin models.Admin
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&admin)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}

	return &admin, nil
}

// Seed upserts the single admin credential from configuration. There
// is exactly one admin role, keyed by email.
func (r *AdminRepository) Seed(ctx context.Context, email, passwordHash string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"email":         email,
		"password_hash": passwordHash,
	}}

	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx, bson.M{"email": email}, update, opts)
	return err
}
