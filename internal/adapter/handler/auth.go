package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
)

const callerContextKey = "caller"

// AuthMiddleware resolves the caller identity from the bearer token.
// The token is HS256-signed and carries the identity in the "sub"
// claim. Requests without a valid identity are rejected; the gates
// downstream decide what that identity is allowed to do.
func AuthMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody{Error: "missing bearer token", Code: codeUnauthenticated})
			return
		}

		token, err := jwt.Parse(strings.TrimPrefix(header, "Bearer "), func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return secret, nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody{Error: "invalid token", Code: codeUnauthenticated})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody{Error: "invalid token claims", Code: codeUnauthenticated})
			return
		}

		sub, _ := claims["sub"].(string)
		identity, err := uuid.Parse(sub)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody{Error: "invalid subject claim", Code: codeUnauthenticated})
			return
		}

		c.Set(callerContextKey, identity)
		c.Next()
	}
}

func callerID(c *gin.Context) uuid.UUID {
	return c.MustGet(callerContextKey).(uuid.UUID)
}
