package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestRestaurantRepositoryMock(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("FindBySlug decodes stored field names", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "restro.hoteladmins", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "HotelName", Value: "Alpha Cafe"},
			{Key: "slug", Value: "alpha-cafe"},
			{Key: "isOpen", Value: true},
			{Key: "Password", Value: "$2b$10$hash"},
		}))
		repo := NewRestaurantRepository(mt.Coll, time.Second)

		restaurant, err := repo.FindBySlug(context.Background(), "alpha-cafe")
		require.NoError(mt, err)
		require.NotNil(mt, restaurant)
		assert.Equal(mt, id, restaurant.ID)
		assert.Equal(mt, "Alpha Cafe", restaurant.HotelName)
		assert.True(mt, restaurant.IsOpen)
	})

	mt.Run("FindByID returns nil for unknown ids", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "restro.hoteladmins", mtest.FirstBatch))
		repo := NewRestaurantRepository(mt.Coll, time.Second)

		restaurant, err := repo.FindByID(context.Background(), primitive.NewObjectID())
		require.NoError(mt, err)
		assert.Nil(mt, restaurant)
	})

	mt.Run("store errors are returned", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 2, Message: "bad value"}))
		repo := NewRestaurantRepository(mt.Coll, time.Second)

		_, err := repo.FindBySlug(context.Background(), "alpha")
		assert.Error(mt, err)
	})
}
