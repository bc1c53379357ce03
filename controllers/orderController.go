package controllers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"restro-qr/middleware"
	"restro-qr/models"
	"restro-qr/orders"
)

// OrderService is implemented by *orders.Service.
type OrderService interface {
	CreateOrder(ctx context.Context, in orders.CreateOrderInput) (*models.Order, error)
	ListOrders(ctx context.Context, restaurantID primitive.ObjectID) ([]models.Order, error)
	UpdateStatus(ctx context.Context, restaurantID primitive.ObjectID, orderID int64, status string) (*models.Order, error)
	VerifyCoupon(ctx context.Context, slug, code string) (float64, error)
}

type OrderController struct {
	orders OrderService
	log    *zap.SugaredLogger
}

func NewOrderController(orders OrderService, log *zap.SugaredLogger) *OrderController {
	return &OrderController{orders: orders, log: log}
}

func (oc *OrderController) CreateOrder() gin.HandlerFunc {
	return func(c *gin.Context) {
		var in orders.CreateOrderInput
		if err := c.ShouldBindJSON(&in); err != nil {
			writeError(c, oc.log, fmt.Errorf("%w: %v", models.ErrInvalidOrder, err))
			return
		}

		// A client that hangs up must not abort an order half way through.
		ctx := context.WithoutCancel(c.Request.Context())
		order, err := oc.orders.CreateOrder(ctx, in)
		if err != nil {
			writeError(c, oc.log, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Order placed successfully!", "order": order})
	}
}

func (oc *OrderController) GetOrders() gin.HandlerFunc {
	return func(c *gin.Context) {
		restaurantID, ok := middleware.RestaurantID(c)
		if !ok {
			writeError(c, oc.log, models.ErrUnauthorized)
			return
		}

		list, err := oc.orders.ListOrders(c.Request.Context(), restaurantID)
		if err != nil {
			writeError(c, oc.log, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

type statusRequest struct {
	Status string `json:"status"`
}

func (oc *OrderController) UpdateOrderStatus() gin.HandlerFunc {
	return func(c *gin.Context) {
		restaurantID, ok := middleware.RestaurantID(c)
		if !ok {
			writeError(c, oc.log, models.ErrUnauthorized)
			return
		}
		orderID, err := strconv.ParseInt(c.Param("orderId"), 10, 64)
		if err != nil {
			writeError(c, oc.log, models.ErrOrderNotFound)
			return
		}
		var req statusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, oc.log, models.ErrInvalidRequestBody)
			return
		}

		order, err := oc.orders.UpdateStatus(c.Request.Context(), restaurantID, orderID, req.Status)
		if err != nil {
			writeError(c, oc.log, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

type verifyCouponRequest struct {
	CouponCode     string `json:"couponCode"`
	RestaurantSlug string `json:"restaurantSlug"`
}

func (oc *OrderController) VerifyCoupon() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req verifyCouponRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, oc.log, models.ErrInvalidRequestBody)
			return
		}

		pct, err := oc.orders.VerifyCoupon(c.Request.Context(), req.RestaurantSlug, req.CouponCode)
		if err != nil {
			writeError(c, oc.log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"discountPercentage": pct})
	}
}
