package discount

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"restro-qr/clock"
	"restro-qr/models"
)

// OfferFinder looks up a coupon by exact code within one restaurant. It
// returns nil, nil when no such offer exists.
type OfferFinder interface {
	FindByCode(ctx context.Context, restaurantID primitive.ObjectID, code string) (*models.Offer, error)
}

// Resolver decides whether a restaurant's coupon applies right now.
type Resolver struct {
	offers OfferFinder
	clock  clock.Clock
	loc    *time.Location
}

// NewResolver evaluates validity days in loc.
func NewResolver(offers OfferFinder, clk clock.Clock, loc *time.Location) *Resolver {
	if loc == nil {
		loc = time.Local
	}
	return &Resolver{offers: offers, clock: clk, loc: loc}
}

// Resolve returns the discount percentage for code at restaurantID. It fails
// with models.ErrCouponNotFound or models.ErrCouponExpired; any other error
// comes from the offer store.
func (r *Resolver) Resolve(ctx context.Context, restaurantID primitive.ObjectID, code string) (float64, error) {
	offer, err := r.offers.FindByCode(ctx, restaurantID, code)
	if err != nil {
		return 0, fmt.Errorf("find offer %q: %w", code, err)
	}
	if offer == nil {
		return 0, models.ErrCouponNotFound
	}
	if !Active(offer, r.clock.Now(), r.loc) {
		return 0, models.ErrCouponExpired
	}
	return offer.DiscountPercentage, nil
}

// Window returns the first and last instant an offer is valid: midnight of
// its start day through 23:59:59.999 of its end day, both in loc.
func Window(offer *models.Offer, loc *time.Location) (start, end time.Time) {
	return startOfDay(offer.StartDate, loc), endOfDay(offer.EndDate, loc)
}

// Active reports whether now falls inside the offer's window, bounds included.
func Active(offer *models.Offer, now time.Time, loc *time.Location) bool {
	start, end := Window(offer, loc)
	return !now.Before(start) && !now.After(end)
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

func endOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), loc)
}
