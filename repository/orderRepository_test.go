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

	"restro-qr/database"
	"restro-qr/models"
	"restro-qr/testutil"
)

func sampleOrder(restaurantID primitive.ObjectID, orderID int64, createdAt time.Time) models.Order {
	return models.Order{
		ID:                 primitive.NewObjectID(),
		OrderID:            orderID,
		RestaurantID:       restaurantID,
		RestaurantName:     "alpha",
		DeliveryType:       "Dine-in",
		Items:              []models.OrderItem{{ItemName: "Dosa", ItemCost: 100, ItemCategory: "Main", Quantity: 2}},
		DiscountPercentage: 0,
		DiscountedTotal:    200,
		OrderStatus:        models.StatusNew,
		CreatedAt:          createdAt,
		UpdatedAt:          createdAt,
	}
}

func TestOrderRepositoryMock(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	restaurantID := primitive.NewObjectID()
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

	mt.Run("Save inserts the order", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		repo := NewOrderRepository(mt.Coll, time.Second)

		order := sampleOrder(restaurantID, 1, now)
		require.NoError(mt, repo.Save(context.Background(), &order))
	})

	mt.Run("Save surfaces write errors", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))
		repo := NewOrderRepository(mt.Coll, time.Second)

		order := sampleOrder(restaurantID, 1, now)
		assert.Error(mt, repo.Save(context.Background(), &order))
	})

	mt.Run("FindByRestaurant decodes every order", func(mt *mtest.T) {
		newer := sampleOrder(restaurantID, 2, now.Add(time.Minute))
		older := sampleOrder(restaurantID, 1, now)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "restro.orders", mtest.FirstBatch,
			testutil.ToDoc(mt.T, newer),
			testutil.ToDoc(mt.T, older),
		))
		repo := NewOrderRepository(mt.Coll, time.Second)

		orders, err := repo.FindByRestaurant(context.Background(), restaurantID)
		require.NoError(mt, err)
		require.Len(mt, orders, 2)
		assert.Equal(mt, int64(2), orders[0].OrderID)
		assert.Equal(mt, int64(1), orders[1].OrderID)
		assert.Equal(mt, 200.0, orders[0].DiscountedTotal)
		assert.Equal(mt, "Dosa", orders[0].Items[0].ItemName)
	})

	mt.Run("FindByRestaurant returns an empty slice", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "restro.orders", mtest.FirstBatch))
		repo := NewOrderRepository(mt.Coll, time.Second)

		orders, err := repo.FindByRestaurant(context.Background(), restaurantID)
		require.NoError(mt, err)
		assert.NotNil(mt, orders)
		assert.Empty(mt, orders)
	})

	mt.Run("FindByID returns nil when missing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "restro.orders", mtest.FirstBatch))
		repo := NewOrderRepository(mt.Coll, time.Second)

		order, err := repo.FindByID(context.Background(), 99)
		require.NoError(mt, err)
		assert.Nil(mt, order)
	})

	mt.Run("UpdateStatus returns the updated order", func(mt *mtest.T) {
		updated := sampleOrder(restaurantID, 5, now)
		updated.OrderStatus = models.StatusPreparing
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: testutil.ToDoc(mt.T, updated)}))
		repo := NewOrderRepository(mt.Coll, time.Second)

		order, err := repo.UpdateStatus(context.Background(), restaurantID, 5, models.StatusPreparing, now)
		require.NoError(mt, err)
		require.NotNil(mt, order)
		assert.Equal(mt, models.StatusPreparing, order.OrderStatus)
	})

	mt.Run("UpdateStatus returns nil when no order matches", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		repo := NewOrderRepository(mt.Coll, time.Second)

		order, err := repo.UpdateStatus(context.Background(), restaurantID, 404, models.StatusCompleted, now)
		require.NoError(mt, err)
		assert.Nil(mt, order)
	})
}

func TestOrderRepositoryAgainstMongo(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	repo := NewOrderRepository(db.Collection(database.OrderCollection), 5*time.Second)
	ctx := context.Background()

	alpha, beta := primitive.NewObjectID(), primitive.NewObjectID()
	base := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	for i, o := range []models.Order{
		sampleOrder(alpha, 1, base),
		sampleOrder(beta, 2, base.Add(time.Minute)),
		sampleOrder(alpha, 3, base.Add(2*time.Minute)),
	} {
		o := o
		require.NoError(t, repo.Save(ctx, &o), "order %d", i)
	}

	orders, err := repo.FindByRestaurant(ctx, alpha)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, int64(3), orders[0].OrderID)
	assert.Equal(t, int64(1), orders[1].OrderID)

	dup := sampleOrder(alpha, 1, base)
	assert.Error(t, repo.Save(ctx, &dup), "order numbers are unique")

	updated, err := repo.UpdateStatus(ctx, alpha, 1, models.StatusCancelled, base.Add(time.Hour))
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, models.StatusCancelled, updated.OrderStatus)
	assert.Equal(t, 200.0, updated.DiscountedTotal)
	assert.True(t, updated.CreatedAt.Equal(base))

	other, err := repo.UpdateStatus(ctx, beta, 1, models.StatusCompleted, base)
	require.NoError(t, err)
	assert.Nil(t, other, "another restaurant cannot touch the order")

	found, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, models.StatusCancelled, found.OrderStatus)
}
