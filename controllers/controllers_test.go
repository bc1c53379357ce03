package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"restro-qr/helpers"
	"restro-qr/middleware"
)

const testSecret = "controllers-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

var nopLog = zap.NewNop().Sugar()

func newEngine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	return r
}

func auth() gin.HandlerFunc {
	return middleware.Authentication(testSecret)
}

func sessionToken(t *testing.T, restaurantID primitive.ObjectID, slug string) string {
	t.Helper()
	token, err := helpers.GenerateToken(testSecret, restaurantID.Hex(), slug, "", time.Hour)
	require.NoError(t, err)
	return token
}

func doJSON(t *testing.T, r http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("token", token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}
