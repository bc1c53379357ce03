package models

import "errors"

var (
	ErrInvalidOrder       = errors.New("invalid order")
	ErrInvalidStatus      = errors.New("invalid status")
	ErrInvalidOffer       = errors.New("invalid offer")
	ErrInvalidRequestBody = errors.New("invalid request body")
	ErrRestaurantNotFound = errors.New("restaurant not found")
	ErrOrderNotFound      = errors.New("order not found")
	ErrOfferNotFound      = errors.New("offer not found")
	ErrCouponNotFound     = errors.New("invalid or expired coupon code")
	ErrCouponExpired      = errors.New("coupon has expired or is not yet active")
	ErrCouponExists       = errors.New("coupon code already exists")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrAllocationFailed   = errors.New("order id allocation failed")
	ErrOrderPersistFailed = errors.New("failed to place order")
	ErrStoreUnavailable   = errors.New("store unavailable")
)
