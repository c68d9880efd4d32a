package middleware

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/campusworks/fee-reminder-api/internal/models"
	appErrors "github.com/campusworks/fee-reminder-api/pkg/errors"
	"github.com/campusworks/fee-reminder-api/pkg/response"
)

// ContextCallerKey is the gin context key storing service-token claims.
const ContextCallerKey = "currentCaller"

// ServiceAuth protects machine-to-machine endpoints with an HS256
// service token, e.g. the cron trigger invoking the reminder run.
func ServiceAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header"))
			c.Abort()
			return
		}

		claims, err := parseServiceToken(parts[1], secret)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextCallerKey, claims)
		c.Next()
	}
}

func parseServiceToken(tokenString, secret string) (*models.ServiceClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.ServiceClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.ServiceClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}

	return claims, nil
}
