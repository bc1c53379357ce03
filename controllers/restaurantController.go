package controllers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"restro-qr/models"
)

// RestaurantFinder is implemented by *repository.RestaurantRepository.
type RestaurantFinder interface {
	FindBySlug(ctx context.Context, slug string) (*models.Restaurant, error)
}

type RestaurantController struct {
	restaurants RestaurantFinder
	log         *zap.SugaredLogger
}

func NewRestaurantController(restaurants RestaurantFinder, log *zap.SugaredLogger) *RestaurantController {
	return &RestaurantController{restaurants: restaurants, log: log}
}

// GetRestaurantID resolves a public slug to the restaurant id.
func (rc *RestaurantController) GetRestaurantID() gin.HandlerFunc {
	return func(c *gin.Context) {
		slug := c.Param("slug")
		restaurant, err := rc.restaurants.FindBySlug(c.Request.Context(), slug)
		if err != nil {
			writeError(c, rc.log, fmt.Errorf("%w: %w", models.ErrStoreUnavailable, err))
			return
		}
		if restaurant == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": models.ErrRestaurantNotFound.Error(), "code": "restaurant_not_found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"_id": restaurant.ID})
	}
}
