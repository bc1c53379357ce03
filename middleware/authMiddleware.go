package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"restro-qr/helpers"
)

const (
	RestaurantIDKey = "restaurantId"
	SlugKey         = "slug"
)

// Authentication accepts the session token from the "token" header or an
// Authorization bearer and stores the restaurant id and slug on the context.
func Authentication(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientToken := c.Request.Header.Get("token")
		if clientToken == "" {
			clientToken = bearer(c.Request.Header.Get("Authorization"))
		}
		if clientToken == "" {
			unauthorized(c, "no session token provided")
			return
		}

		claims, err := helpers.ValidateToken(secret, clientToken)
		if err != nil {
			unauthorized(c, "invalid session token")
			return
		}
		restaurantID, err := primitive.ObjectIDFromHex(claims.Uid)
		if err != nil {
			unauthorized(c, "invalid session token")
			return
		}

		c.Set(RestaurantIDKey, restaurantID)
		c.Set(SlugKey, claims.Slug)
		c.Next()
	}
}

// RestaurantID returns the id set by Authentication.
func RestaurantID(c *gin.Context) (primitive.ObjectID, bool) {
	v, ok := c.Get(RestaurantIDKey)
	if !ok {
		return primitive.NilObjectID, false
	}
	id, ok := v.(primitive.ObjectID)
	return id, ok
}

func bearer(header string) string {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

func unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg, "code": "unauthorized"})
}
