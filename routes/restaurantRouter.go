package routes

import (
	"github.com/gin-gonic/gin"

	"restro-qr/controllers"
)

func RestaurantRoutes(incomingRoutes *gin.Engine, rc *controllers.RestaurantController, sc *controllers.SocketController) {
	incomingRoutes.GET("/api/restaurants/:slug", rc.GetRestaurantID())
	incomingRoutes.GET("/ws", sc.HandleWebSocket())
}
