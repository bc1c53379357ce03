package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"restro-qr/models"
)

type errorKind struct {
	err       error
	status    int
	code      string
	retryable bool
}

// errorKinds is checked in order; the first match wins.
var errorKinds = []errorKind{
	{models.ErrInvalidRequestBody, http.StatusBadRequest, "invalid_request_body", false},
	{models.ErrInvalidOrder, http.StatusBadRequest, "invalid_order", false},
	{models.ErrInvalidStatus, http.StatusBadRequest, "invalid_status", false},
	{models.ErrInvalidOffer, http.StatusBadRequest, "invalid_offer", false},
	{models.ErrRestaurantNotFound, http.StatusBadRequest, "restaurant_not_found", false},
	{models.ErrCouponNotFound, http.StatusBadRequest, "coupon_not_found", false},
	{models.ErrCouponExpired, http.StatusBadRequest, "coupon_expired", false},
	{models.ErrUnauthorized, http.StatusUnauthorized, "unauthorized", false},
	{models.ErrOrderNotFound, http.StatusNotFound, "order_not_found", false},
	{models.ErrOfferNotFound, http.StatusNotFound, "offer_not_found", false},
	{models.ErrCouponExists, http.StatusConflict, "coupon_exists", false},
	{models.ErrAllocationFailed, http.StatusInternalServerError, "allocation_failed", true},
	{models.ErrOrderPersistFailed, http.StatusInternalServerError, "order_persist_failed", true},
	{models.ErrStoreUnavailable, http.StatusServiceUnavailable, "store_unavailable", true},
}

// writeError answers with {"error", "code"} for a known error and a generic
// 500 otherwise. Internal details only reach the log.
func writeError(c *gin.Context, log *zap.SugaredLogger, err error) {
	_ = c.Error(err)
	for _, kind := range errorKinds {
		if !errors.Is(err, kind.err) {
			continue
		}
		if kind.status >= http.StatusInternalServerError {
			log.Errorw("request failed", "path", c.FullPath(), "code", kind.code, "error", err)
		}
		body := gin.H{"error": kind.err.Error(), "code": kind.code}
		if kind.retryable {
			body["retryable"] = true
		}
		c.AbortWithStatusJSON(kind.status, body)
		return
	}

	log.Errorw("unexpected error", "path", c.FullPath(), "error", err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error", "code": "internal_error"})
}
