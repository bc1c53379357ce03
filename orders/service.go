package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"restro-qr/clock"
	"restro-qr/models"
	"restro-qr/notify"
)

type RestaurantFinder interface {
	FindBySlug(ctx context.Context, slug string) (*models.Restaurant, error)
}

type DiscountResolver interface {
	Resolve(ctx context.Context, restaurantID primitive.ObjectID, code string) (float64, error)
}

type IDAllocator interface {
	Next(ctx context.Context) (int64, error)
}

// OrderStore persists orders. Lookups return nil, nil when nothing matches.
type OrderStore interface {
	Save(ctx context.Context, order *models.Order) error
	FindByRestaurant(ctx context.Context, restaurantID primitive.ObjectID) ([]models.Order, error)
	UpdateStatus(ctx context.Context, restaurantID primitive.ObjectID, orderID int64, status models.OrderStatus, at time.Time) (*models.Order, error)
}

type Publisher interface {
	Publish(ctx context.Context, slug, event string) error
}

// ItemInput is one cart line as submitted by the customer.
type ItemInput struct {
	ItemName     string   `json:"itemName" validate:"required"`
	ItemCost     *float64 `json:"itemCost" validate:"required,gte=0"`
	ItemCategory string   `json:"itemCategory"`
	Quantity     int      `json:"quantity" validate:"gte=0"`
}

// CreateOrderInput is the body of a customer order submission.
// RestaurantSlug travels as "restaurantName" on the wire.
type CreateOrderInput struct {
	RestaurantSlug string      `json:"restaurantName" validate:"required"`
	Items          []ItemInput `json:"items" validate:"required,min=1,dive"`
	CustomerName   string      `json:"customerName"`
	CustomerMobile string      `json:"customerMobile"`
	DeliveryType   string      `json:"deliveryType" validate:"required"`
	Note           string      `json:"note"`
	CouponCode     string      `json:"couponCode"`
	TableID        string      `json:"tableId"`
}

// Service turns carts into numbered orders and keeps staff displays informed.
type Service struct {
	restaurants RestaurantFinder
	discounts   DiscountResolver
	ids         IDAllocator
	store       OrderStore
	publisher   Publisher
	clock       clock.Clock
	log         *zap.SugaredLogger
	validate    *validator.Validate
}

func NewService(
	restaurants RestaurantFinder,
	discounts DiscountResolver,
	ids IDAllocator,
	store OrderStore,
	publisher Publisher,
	clk clock.Clock,
	log *zap.SugaredLogger,
) *Service {
	return &Service{
		restaurants: restaurants,
		discounts:   discounts,
		ids:         ids,
		store:       store,
		publisher:   publisher,
		clock:       clk,
		log:         log,
		validate:    validator.New(),
	}
}

// CreateOrder validates the cart, applies any coupon, assigns the next order
// number, stores the order and then announces it on the restaurant's topic.
// No order number is consumed when the input is rejected.
func (s *Service) CreateOrder(ctx context.Context, in CreateOrderInput) (*models.Order, error) {
	in.RestaurantSlug = strings.TrimSpace(in.RestaurantSlug)
	in.DeliveryType = strings.TrimSpace(in.DeliveryType)
	in.CouponCode = strings.TrimSpace(in.CouponCode)

	if err := s.validate.Struct(&in); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidOrder, err)
	}

	restaurant, err := s.restaurants.FindBySlug(ctx, in.RestaurantSlug)
	if err != nil {
		return nil, fmt.Errorf("%w: find restaurant %q: %w", models.ErrStoreUnavailable, in.RestaurantSlug, err)
	}
	if restaurant == nil {
		return nil, models.ErrRestaurantNotFound
	}

	items := normalizeItems(in.Items)

	pct, coupon, err := s.discount(ctx, restaurant.ID, in.CouponCode)
	if err != nil {
		raw, _ := Totals(items, 0)
		s.log.Errorw("order aborted, coupon lookup failed",
			"restaurantId", restaurant.ID.Hex(),
			"restaurant", in.RestaurantSlug,
			"coupon", in.CouponCode,
			"rawTotal", raw,
			"error", err,
		)
		return nil, err
	}
	raw, discounted := Totals(items, pct)
	failure := func(msg string, orderID int64, err error) {
		s.log.Errorw(msg,
			"orderId", orderID,
			"restaurantId", restaurant.ID.Hex(),
			"restaurant", in.RestaurantSlug,
			"coupon", in.CouponCode,
			"discountPercentage", pct,
			"rawTotal", raw,
			"discountedTotal", discounted,
			"error", err,
		)
	}

	orderID, err := s.ids.Next(ctx)
	if err != nil {
		failure("order aborted, no order number", 0, err)
		return nil, err
	}

	now := s.clock.Now()
	order := &models.Order{
		ID:                 primitive.NewObjectID(),
		OrderID:            orderID,
		RestaurantID:       restaurant.ID,
		RestaurantName:     in.RestaurantSlug,
		CustomerName:       in.CustomerName,
		CustomerMobile:     in.CustomerMobile,
		DeliveryType:       in.DeliveryType,
		Note:               in.Note,
		Items:              items,
		CouponCode:         coupon,
		DiscountPercentage: pct,
		DiscountedTotal:    discounted,
		TableID:            optional(in.TableID),
		OrderStatus:        models.StatusNew,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.store.Save(ctx, order); err != nil {
		failure("order not stored", orderID, err)
		return nil, fmt.Errorf("%w: %w", models.ErrOrderPersistFailed, err)
	}

	s.log.Infow("order placed",
		"orderId", orderID,
		"restaurantId", restaurant.ID.Hex(),
		"restaurant", in.RestaurantSlug,
		"coupon", in.CouponCode,
		"discountPercentage", pct,
		"rawTotal", raw,
		"discountedTotal", discounted,
	)
	s.publish(ctx, in.RestaurantSlug, notify.NewOrderEvent(in.RestaurantSlug))
	return order, nil
}

// discount resolves code. Unknown and expired coupons fall back to no
// discount; the returned code pointer is set only when a coupon applied.
func (s *Service) discount(ctx context.Context, restaurantID primitive.ObjectID, code string) (float64, *string, error) {
	if code == "" {
		return 0, nil, nil
	}
	pct, err := s.discounts.Resolve(ctx, restaurantID, code)
	switch {
	case err == nil:
		return clampPercentage(pct), &code, nil
	case errors.Is(err, models.ErrCouponNotFound), errors.Is(err, models.ErrCouponExpired):
		s.log.Infow("coupon ignored", "restaurantId", restaurantID.Hex(), "coupon", code, "reason", err)
		return 0, nil, nil
	default:
		return 0, nil, fmt.Errorf("%w: resolve coupon: %w", models.ErrStoreUnavailable, err)
	}
}

// ListOrders returns the restaurant's orders, newest first.
func (s *Service) ListOrders(ctx context.Context, restaurantID primitive.ObjectID) ([]models.Order, error) {
	orders, err := s.store.FindByRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("%w: list orders: %w", models.ErrStoreUnavailable, err)
	}
	return orders, nil
}

// UpdateStatus moves one of the restaurant's orders to status. Every known
// status is reachable from every other.
func (s *Service) UpdateStatus(ctx context.Context, restaurantID primitive.ObjectID, orderID int64, status string) (*models.Order, error) {
	next := models.OrderStatus(status)
	if !next.Valid() {
		return nil, fmt.Errorf("%w: %q", models.ErrInvalidStatus, status)
	}

	order, err := s.store.UpdateStatus(ctx, restaurantID, orderID, next, s.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("%w: update order %d: %w", models.ErrStoreUnavailable, orderID, err)
	}
	if order == nil {
		return nil, models.ErrOrderNotFound
	}

	s.log.Infow("order status changed", "orderId", orderID, "restaurantId", restaurantID.Hex(), "status", next)
	s.publish(ctx, order.RestaurantName, notify.OrderStatusEvent(order.RestaurantName))
	return order, nil
}

// VerifyCoupon reports the percentage a coupon would give right now without
// placing an order.
func (s *Service) VerifyCoupon(ctx context.Context, slug, code string) (float64, error) {
	slug, code = strings.TrimSpace(slug), strings.TrimSpace(code)
	if code == "" {
		return 0, models.ErrCouponNotFound
	}

	restaurant, err := s.restaurants.FindBySlug(ctx, slug)
	if err != nil {
		return 0, fmt.Errorf("%w: find restaurant %q: %w", models.ErrStoreUnavailable, slug, err)
	}
	if restaurant == nil {
		return 0, models.ErrRestaurantNotFound
	}

	pct, err := s.discounts.Resolve(ctx, restaurant.ID, code)
	if err != nil {
		if errors.Is(err, models.ErrCouponNotFound) || errors.Is(err, models.ErrCouponExpired) {
			return 0, err
		}
		return 0, fmt.Errorf("%w: resolve coupon: %w", models.ErrStoreUnavailable, err)
	}
	return clampPercentage(pct), nil
}

func (s *Service) publish(ctx context.Context, slug, event string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, slug, event); err != nil {
		s.log.Warnw("notification not published", "event", event, "error", err)
	}
}

func normalizeItems(in []ItemInput) []models.OrderItem {
	items := make([]models.OrderItem, 0, len(in))
	for _, it := range in {
		qty := it.Quantity
		if qty == 0 {
			qty = 1
		}
		items = append(items, models.OrderItem{
			ItemName:     it.ItemName,
			ItemCost:     *it.ItemCost,
			ItemCategory: it.ItemCategory,
			Quantity:     qty,
		})
	}
	return items
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
