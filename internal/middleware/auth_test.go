package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusworks/fee-reminder-api/internal/models"
)

const testSecret = "test-service-secret"

func signServiceToken(t *testing.T, secret string, expires time.Time) string {
	claims := models.ServiceClaims{
		Role: "scheduler",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "cron",
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func performAuth(secret, header string) (*httptest.ResponseRecorder, bool) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()

	reached := false
	r := gin.New()
	r.POST("/run", ServiceAuth(secret), func(c *gin.Context) {
		reached = true
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/run", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	r.ServeHTTP(rec, req)
	return rec, reached
}

func TestServiceAuthAcceptsValidToken(t *testing.T) {
	token := signServiceToken(t, testSecret, time.Now().Add(time.Hour))

	rec, reached := performAuth(testSecret, "Bearer "+token)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, reached)
}

func TestServiceAuthRejectsMissingHeader(t *testing.T) {
	rec, reached := performAuth(testSecret, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, reached)
}

func TestServiceAuthRejectsMalformedHeader(t *testing.T) {
	rec, reached := performAuth(testSecret, "Token abc")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, reached)
}

func TestServiceAuthRejectsWrongSecret(t *testing.T) {
	token := signServiceToken(t, "other-secret", time.Now().Add(time.Hour))

	rec, reached := performAuth(testSecret, "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, reached)
}

func TestServiceAuthRejectsExpiredToken(t *testing.T) {
	token := signServiceToken(t, testSecret, time.Now().Add(-time.Hour))

	rec, reached := performAuth(testSecret, "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, reached)
}
