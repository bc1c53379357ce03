package routes

import (
	"github.com/gin-gonic/gin"

	"restro-qr/controllers"
)

func OfferRoutes(incomingRoutes *gin.Engine, auth gin.HandlerFunc, oc *controllers.OfferController) {
	staff := incomingRoutes.Group("/api/offers", auth)
	staff.GET("", oc.GetOffers())
	staff.POST("", oc.CreateOffer())
	staff.PUT("/:id", oc.UpdateOffer())
	staff.DELETE("/:id", oc.DeleteOffer())
}
