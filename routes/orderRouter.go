package routes

import (
	"github.com/gin-gonic/gin"

	"restro-qr/controllers"
)

func OrderRoutes(incomingRoutes *gin.Engine, auth gin.HandlerFunc, oc *controllers.OrderController) {
	incomingRoutes.POST("/order", oc.CreateOrder())
	incomingRoutes.POST("/api/verify-coupon", oc.VerifyCoupon())

	staff := incomingRoutes.Group("/api/orders", auth)
	staff.GET("", oc.GetOrders())
	staff.PUT("/:orderId/status", oc.UpdateOrderStatus())
}
