package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Restaurant is owned by the registration and settings flows. The order
// pipeline only reads it. Field names follow the stored documents.
type Restaurant struct {
	ID        primitive.ObjectID `bson:"_id" json:"_id"`
	HotelName string             `bson:"HotelName" json:"HotelName"`
	OwnerName string             `bson:"OwnerName" json:"OwnerName"`
	Email     string             `bson:"Email" json:"Email"`
	Mnumber   string             `bson:"Mnumber" json:"Mnumber"`
	Slug      string             `bson:"slug" json:"slug"`
	IsOpen    bool               `bson:"isOpen" json:"isOpen"`
	UpiID     string             `bson:"upiId,omitempty" json:"upiId,omitempty"`
	Approved  bool               `bson:"approved" json:"approved"`
}
