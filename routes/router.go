package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"restro-qr/controllers"
	"restro-qr/middleware"
)

// Handlers groups everything NewRouter mounts.
type Handlers struct {
	Orders      *controllers.OrderController
	Offers      *controllers.OfferController
	Restaurants *controllers.RestaurantController
	Sockets     *controllers.SocketController
	Health      gin.HandlerFunc
	Auth        gin.HandlerFunc
}

// NewRouter builds the engine with request logging, panic recovery and CORS
// for allowedOrigins ("*" or empty allows any origin without credentials).
func NewRouter(h Handlers, allowedOrigins []string, log *zap.SugaredLogger) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestLogger(log))
	router.Use(gin.Recovery())
	router.Use(cors.New(corsConfig(allowedOrigins)))

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "page not found", "code": "not_found"})
	})

	router.GET("/healthz", h.Health)
	OrderRoutes(router, h.Auth, h.Orders)
	OfferRoutes(router, h.Auth, h.Offers)
	RestaurantRoutes(router, h.Restaurants, h.Sockets)
	return router
}

func corsConfig(allowedOrigins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"POST", "GET", "PATCH", "DELETE", "PUT", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "token", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(allowedOrigins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	for _, o := range allowedOrigins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = allowedOrigins
	cfg.AllowCredentials = true
	return cfg
}
