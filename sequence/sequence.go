package sequence

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"restro-qr/models"
)

// OrderCounter names the single global order number sequence.
const OrderCounter = "orderId"

// CounterCollection is the part of *mongo.Collection the allocator needs.
type CounterCollection interface {
	FindOneAndUpdate(ctx context.Context, filter interface{}, update interface{}, opts ...*options.FindOneAndUpdateOptions) *mongo.SingleResult
}

// Allocator hands out strictly increasing values of a named counter. Each
// call is one findOneAndUpdate with $inc, so allocations from any number of
// goroutines or processes never collide.
type Allocator struct {
	counters CounterCollection
	name     string
	timeout  time.Duration
}

func NewAllocator(counters CounterCollection, name string, timeout time.Duration) *Allocator {
	return &Allocator{counters: counters, name: name, timeout: timeout}
}

// Next increments the counter and returns the new value. A missing counter
// counts as 0, so the first call returns 1.
func (a *Allocator) Next(ctx context.Context) (int64, error) {
	value, err := a.increment(ctx)
	if mongo.IsDuplicateKeyError(err) {
		// Two first-time upserts raced on the unique name index. The
		// document exists now, so a second attempt is a plain increment.
		value, err = a.increment(ctx)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: counter %q: %w", models.ErrAllocationFailed, a.name, err)
	}
	return value, nil
}

func (a *Allocator) increment(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var counter models.Counter
	err := a.counters.FindOneAndUpdate(
		ctx,
		bson.M{"name": a.name},
		bson.M{"$inc": bson.M{"value": int64(1)}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, err
	}
	return counter.Value, nil
}
