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

// OrderRepository persists orders. Financial fields are written once by Save;
// the only later mutation is UpdateStatus.
type OrderRepository struct {
	orders  *mongo.Collection
	timeout time.Duration
}

func NewOrderRepository(orders *mongo.Collection, timeout time.Duration) *OrderRepository {
	return &OrderRepository{orders: orders, timeout: timeout}
}

func (r *OrderRepository) Save(ctx context.Context, order *models.Order) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if _, err := r.orders.InsertOne(ctx, order); err != nil {
		return fmt.Errorf("insert order %d: %w", order.OrderID, err)
	}
	return nil
}

// FindByRestaurant returns the restaurant's orders, newest first.
func (r *OrderRepository) FindByRestaurant(ctx context.Context, restaurantID primitive.ObjectID) ([]models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "orderId", Value: -1}})
	cursor, err := r.orders.Find(ctx, bson.M{"restaurantId": restaurantID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find orders: %w", err)
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	return orders, nil
}

// FindByID returns nil, nil when no order carries orderID.
func (r *OrderRepository) FindByID(ctx context.Context, orderID int64) (*models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var order models.Order
	err := r.orders.FindOne(ctx, bson.M{"orderId": orderID}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find order %d: %w", orderID, err)
	}
	return &order, nil
}

// UpdateStatus sets the status of one of the restaurant's orders and returns
// the updated document, or nil, nil when the restaurant has no such order.
func (r *OrderRepository) UpdateStatus(ctx context.Context, restaurantID primitive.ObjectID, orderID int64, status models.OrderStatus, at time.Time) (*models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	filter := bson.M{"orderId": orderID, "restaurantId": restaurantID}
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "orderStatus", Value: status},
		{Key: "updatedAt", Value: at},
	}}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var order models.Order
	err := r.orders.FindOneAndUpdate(ctx, filter, update, opts).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update order %d status: %w", orderID, err)
	}
	return &order, nil
}
