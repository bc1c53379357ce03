package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"restro-qr/clock"
	"restro-qr/middleware"
	"restro-qr/models"
)

const dateLayout = "2006-01-02"

// OfferStore is implemented by *repository.OfferRepository.
type OfferStore interface {
	FindByRestaurant(ctx context.Context, restaurantID primitive.ObjectID) ([]models.Offer, error)
	FindByID(ctx context.Context, restaurantID, offerID primitive.ObjectID) (*models.Offer, error)
	Create(ctx context.Context, offer *models.Offer) error
	Update(ctx context.Context, restaurantID, offerID primitive.ObjectID, fields bson.D) (*models.Offer, error)
	Delete(ctx context.Context, restaurantID, offerID primitive.ObjectID) (bool, error)
}

// OfferController manages the coupons of the logged-in restaurant.
type OfferController struct {
	offers   OfferStore
	clock    clock.Clock
	loc      *time.Location
	log      *zap.SugaredLogger
	validate *validator.Validate
}

func NewOfferController(offers OfferStore, clk clock.Clock, loc *time.Location, log *zap.SugaredLogger) *OfferController {
	return &OfferController{offers: offers, clock: clk, loc: loc, log: log, validate: validator.New()}
}

// offerRequest carries dates as calendar days ("2006-01-02") or RFC 3339
// instants. Nil fields are left alone on update.
type offerRequest struct {
	CouponCode         *string  `json:"couponCode"`
	Description        *string  `json:"description"`
	DiscountPercentage *float64 `json:"discountPercentage"`
	StartDate          *string  `json:"startDate"`
	EndDate            *string  `json:"endDate"`
}

func (oc *OfferController) GetOffers() gin.HandlerFunc {
	return func(c *gin.Context) {
		restaurantID, ok := middleware.RestaurantID(c)
		if !ok {
			writeError(c, oc.log, models.ErrUnauthorized)
			return
		}
		offers, err := oc.offers.FindByRestaurant(c.Request.Context(), restaurantID)
		if err != nil {
			writeError(c, oc.log, fmt.Errorf("%w: %w", models.ErrStoreUnavailable, err))
			return
		}
		c.JSON(http.StatusOK, offers)
	}
}

func (oc *OfferController) CreateOffer() gin.HandlerFunc {
	return func(c *gin.Context) {
		restaurantID, ok := middleware.RestaurantID(c)
		if !ok {
			writeError(c, oc.log, models.ErrUnauthorized)
			return
		}
		var req offerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, oc.log, models.ErrInvalidRequestBody)
			return
		}
		if req.CouponCode == nil || req.DiscountPercentage == nil || req.StartDate == nil || req.EndDate == nil {
			writeError(c, oc.log, fmt.Errorf("%w: couponCode, discountPercentage, startDate and endDate are required", models.ErrInvalidOffer))
			return
		}

		start, err := oc.parseDate(*req.StartDate)
		if err != nil {
			writeError(c, oc.log, err)
			return
		}
		end, err := oc.parseDate(*req.EndDate)
		if err != nil {
			writeError(c, oc.log, err)
			return
		}

		now := oc.clock.Now()
		offer := models.Offer{
			ID:                 primitive.NewObjectID(),
			RestaurantID:       restaurantID,
			CouponCode:         strings.TrimSpace(*req.CouponCode),
			DiscountPercentage: *req.DiscountPercentage,
			StartDate:          start,
			EndDate:            end,
			CreatedAt:          now,
			UpdatedAt:          now,
		}
		if req.Description != nil {
			offer.Description = *req.Description
		}
		if err := oc.check(&offer); err != nil {
			writeError(c, oc.log, err)
			return
		}

		if err := oc.offers.Create(c.Request.Context(), &offer); err != nil {
			writeError(c, oc.log, storeError(err))
			return
		}
		oc.log.Infow("offer created", "restaurantId", restaurantID.Hex(), "coupon", offer.CouponCode)
		c.JSON(http.StatusCreated, offer)
	}
}

func (oc *OfferController) UpdateOffer() gin.HandlerFunc {
	return func(c *gin.Context) {
		restaurantID, ok := middleware.RestaurantID(c)
		if !ok {
			writeError(c, oc.log, models.ErrUnauthorized)
			return
		}
		offerID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			writeError(c, oc.log, models.ErrOfferNotFound)
			return
		}
		var req offerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, oc.log, models.ErrInvalidRequestBody)
			return
		}

		// Partial document holding only the supplied fields, validated as a whole.
		var probe models.Offer
		probe.CouponCode = "unchanged"
		var updateObj primitive.D

		if req.CouponCode != nil {
			probe.CouponCode = strings.TrimSpace(*req.CouponCode)
			updateObj = append(updateObj, bson.E{Key: "couponCode", Value: probe.CouponCode})
		}
		if req.Description != nil {
			probe.Description = *req.Description
			updateObj = append(updateObj, bson.E{Key: "description", Value: probe.Description})
		}
		if req.DiscountPercentage != nil {
			probe.DiscountPercentage = *req.DiscountPercentage
			updateObj = append(updateObj, bson.E{Key: "discountPercentage", Value: probe.DiscountPercentage})
		}
		if req.StartDate != nil {
			if probe.StartDate, err = oc.parseDate(*req.StartDate); err != nil {
				writeError(c, oc.log, err)
				return
			}
			updateObj = append(updateObj, bson.E{Key: "startDate", Value: probe.StartDate})
		}
		if req.EndDate != nil {
			if probe.EndDate, err = oc.parseDate(*req.EndDate); err != nil {
				writeError(c, oc.log, err)
				return
			}
			updateObj = append(updateObj, bson.E{Key: "endDate", Value: probe.EndDate})
		}
		// A single new date is checked against the stored other end.
		if (req.StartDate == nil) != (req.EndDate == nil) {
			stored, err := oc.offers.FindByID(c.Request.Context(), restaurantID, offerID)
			if err != nil {
				writeError(c, oc.log, storeError(err))
				return
			}
			if stored == nil {
				writeError(c, oc.log, models.ErrOfferNotFound)
				return
			}
			if req.StartDate == nil {
				probe.StartDate = stored.StartDate
			} else {
				probe.EndDate = stored.EndDate
			}
		}
		if err := oc.check(&probe); err != nil {
			writeError(c, oc.log, err)
			return
		}
		updateObj = append(updateObj, bson.E{Key: "updatedAt", Value: oc.clock.Now()})

		offer, err := oc.offers.Update(c.Request.Context(), restaurantID, offerID, updateObj)
		if err != nil {
			writeError(c, oc.log, storeError(err))
			return
		}
		if offer == nil {
			writeError(c, oc.log, models.ErrOfferNotFound)
			return
		}
		c.JSON(http.StatusOK, offer)
	}
}

func (oc *OfferController) DeleteOffer() gin.HandlerFunc {
	return func(c *gin.Context) {
		restaurantID, ok := middleware.RestaurantID(c)
		if !ok {
			writeError(c, oc.log, models.ErrUnauthorized)
			return
		}
		offerID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			writeError(c, oc.log, models.ErrOfferNotFound)
			return
		}

		deleted, err := oc.offers.Delete(c.Request.Context(), restaurantID, offerID)
		if err != nil {
			writeError(c, oc.log, storeError(err))
			return
		}
		if !deleted {
			writeError(c, oc.log, models.ErrOfferNotFound)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Offer deleted successfully"})
	}
}

// check validates the tags of offer and, when both are set, that the window
// does not end before it starts.
func (oc *OfferController) check(offer *models.Offer) error {
	if err := oc.validate.Struct(offer); err != nil {
		return fmt.Errorf("%w: %v", models.ErrInvalidOffer, err)
	}
	if !offer.StartDate.IsZero() && !offer.EndDate.IsZero() && offer.EndDate.Before(offer.StartDate) {
		return fmt.Errorf("%w: endDate before startDate", models.ErrInvalidOffer)
	}
	return nil
}

func (oc *OfferController) parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation(dateLayout, s, oc.loc); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: bad date %q", models.ErrInvalidOffer, s)
}

// storeError keeps known offer errors and marks the rest as store failures.
func storeError(err error) error {
	if errors.Is(err, models.ErrCouponExists) {
		return err
	}
	return fmt.Errorf("%w: %w", models.ErrStoreUnavailable, err)
}
