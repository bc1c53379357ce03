package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderStatus string

const (
	StatusNew       OrderStatus = "New"
	StatusPreparing OrderStatus = "Preparing"
	StatusCompleted OrderStatus = "Completed"
	StatusCancelled OrderStatus = "Cancelled"
)

// OrderStatuses is the allow-list accepted by status updates. Any status may
// follow any other.
var OrderStatuses = []OrderStatus{StatusNew, StatusPreparing, StatusCompleted, StatusCancelled}

func (s OrderStatus) Valid() bool {
	for _, status := range OrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Order is written once by the order service. Only OrderStatus and UpdatedAt
// change afterwards.
type Order struct {
	ID                 primitive.ObjectID `bson:"_id" json:"_id"`
	OrderID            int64              `bson:"orderId" json:"orderId"`
	RestaurantID       primitive.ObjectID `bson:"restaurantId" json:"restaurantId"`
	RestaurantName     string             `bson:"restaurantName" json:"restaurantName"`
	CustomerName       string             `bson:"customerName" json:"customerName"`
	CustomerMobile     string             `bson:"customerMobile" json:"customerMobile"`
	DeliveryType       string             `bson:"deliveryType" json:"deliveryType"`
	Note               string             `bson:"note" json:"note"`
	Items              []OrderItem        `bson:"items" json:"items"`
	CouponCode         *string            `bson:"couponCode" json:"couponCode"`
	DiscountPercentage float64            `bson:"discountPercentage" json:"discountPercentage"`
	DiscountedTotal    float64            `bson:"discountedTotal" json:"discountedTotal"`
	TableID            *string            `bson:"tableId" json:"tableId"`
	OrderStatus        OrderStatus        `bson:"orderStatus" json:"orderStatus"`
	CreatedAt          time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type OrderItem struct {
	ItemName     string  `bson:"itemName" json:"itemName"`
	ItemCost     float64 `bson:"itemCost" json:"itemCost"`
	ItemCategory string  `bson:"itemCategory" json:"itemCategory"`
	Quantity     int     `bson:"quantity" json:"quantity"`
}
