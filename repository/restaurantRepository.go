package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"restro-qr/models"
)

// RestaurantRepository is a read-only view of the restaurant accounts.
type RestaurantRepository struct {
	restaurants *mongo.Collection
	timeout     time.Duration
}

func NewRestaurantRepository(restaurants *mongo.Collection, timeout time.Duration) *RestaurantRepository {
	return &RestaurantRepository{restaurants: restaurants, timeout: timeout}
}

// FindBySlug returns nil, nil for an unknown slug.
func (r *RestaurantRepository) FindBySlug(ctx context.Context, slug string) (*models.Restaurant, error) {
	return r.findOne(ctx, bson.M{"slug": slug})
}

// FindByID returns nil, nil for an unknown id.
func (r *RestaurantRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Restaurant, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *RestaurantRepository) findOne(ctx context.Context, filter bson.M) (*models.Restaurant, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var restaurant models.Restaurant
	err := r.restaurants.FindOne(ctx, filter).Decode(&restaurant)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find restaurant: %w", err)
	}
	return &restaurant, nil
}
