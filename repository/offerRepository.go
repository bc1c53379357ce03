package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"restro-qr/models"
)

// OfferRepository stores coupons. Every query is scoped by restaurant.
type OfferRepository struct {
	offers  *mongo.Collection
	timeout time.Duration
}

func NewOfferRepository(offers *mongo.Collection, timeout time.Duration) *OfferRepository {
	return &OfferRepository{offers: offers, timeout: timeout}
}

// FindByCode matches code exactly and returns nil, nil when absent.
func (r *OfferRepository) FindByCode(ctx context.Context, restaurantID primitive.ObjectID, code string) (*models.Offer, error) {
	return r.findOne(ctx, bson.M{"restaurantId": restaurantID, "couponCode": code})
}

// FindByID returns one of the restaurant's offers, or nil, nil.
func (r *OfferRepository) FindByID(ctx context.Context, restaurantID, offerID primitive.ObjectID) (*models.Offer, error) {
	return r.findOne(ctx, bson.M{"_id": offerID, "restaurantId": restaurantID})
}

func (r *OfferRepository) findOne(ctx context.Context, filter bson.M) (*models.Offer, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var offer models.Offer
	err := r.offers.FindOne(ctx, filter).Decode(&offer)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find offer: %w", err)
	}
	return &offer, nil
}

func (r *OfferRepository) FindByRestaurant(ctx context.Context, restaurantID primitive.ObjectID) ([]models.Offer, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "startDate", Value: -1}})
	cursor, err := r.offers.Find(ctx, bson.M{"restaurantId": restaurantID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find offers: %w", err)
	}
	defer cursor.Close(ctx)

	offers := []models.Offer{}
	if err := cursor.All(ctx, &offers); err != nil {
		return nil, fmt.Errorf("decode offers: %w", err)
	}
	return offers, nil
}

// Create inserts offer. A code already used by the same restaurant fails with
// models.ErrCouponExists.
func (r *OfferRepository) Create(ctx context.Context, offer *models.Offer) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.offers.InsertOne(ctx, offer)
	if mongo.IsDuplicateKeyError(err) {
		return models.ErrCouponExists
	}
	if err != nil {
		return fmt.Errorf("insert offer: %w", err)
	}
	return nil
}

// Update applies fields to one of the restaurant's offers and returns the
// result, or nil, nil when the offer does not exist.
func (r *OfferRepository) Update(ctx context.Context, restaurantID, offerID primitive.ObjectID, fields bson.D) (*models.Offer, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var offer models.Offer
	err := r.offers.FindOneAndUpdate(
		ctx,
		bson.M{"_id": offerID, "restaurantId": restaurantID},
		bson.D{{Key: "$set", Value: fields}},
		opts,
	).Decode(&offer)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return nil, nil
	case mongo.IsDuplicateKeyError(err):
		return nil, models.ErrCouponExists
	case err != nil:
		return nil, fmt.Errorf("update offer: %w", err)
	}
	return &offer, nil
}

// Delete reports whether the restaurant had an offer with offerID.
func (r *OfferRepository) Delete(ctx context.Context, restaurantID, offerID primitive.ObjectID) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.offers.DeleteOne(ctx, bson.M{"_id": offerID, "restaurantId": restaurantID})
	if err != nil {
		return false, fmt.Errorf("delete offer: %w", err)
	}
	return res.DeletedCount > 0, nil
}
