package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Offer is a coupon scoped to one restaurant. The same CouponCode may exist
// for several restaurants.
type Offer struct {
	ID                 primitive.ObjectID `bson:"_id" json:"_id"`
	RestaurantID       primitive.ObjectID `bson:"restaurantId" json:"restaurantId"`
	CouponCode         string             `bson:"couponCode" json:"couponCode" validate:"required,max=64"`
	Description        string             `bson:"description" json:"description" validate:"max=500"`
	DiscountPercentage float64            `bson:"discountPercentage" json:"discountPercentage" validate:"gte=0,lte=100"`
	StartDate          time.Time          `bson:"startDate" json:"startDate"`
	EndDate            time.Time          `bson:"endDate" json:"endDate"`
	CreatedAt          time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time          `bson:"updatedAt" json:"updatedAt"`
}
