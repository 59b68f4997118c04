package middleware

import (
	"net/http"
	"strings"

	"github.com/tdnguyen-dev/moneykeeper/utils"

	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

// Principal is the authenticated user for one request. It rides the
// gin context, set once by AuthMiddleware; handlers never consult any
// ambient session state.
type Principal struct {
	UserID   string
	Username string
}

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing bearer token"})
			c.Abort()
			return
		}

		claims, err := utils.ParseAccessToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set(principalKey, Principal{UserID: claims.Subject, Username: claims.Username})
		c.Next()
	}
}

func GetPrincipal(c *gin.Context) (Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return Principal{}, false
	}
	p, ok := v.(Principal)
	return p, ok
}

// GetUserID returns the authenticated user id, or "" outside an
// authenticated route.
func GetUserID(c *gin.Context) string {
	p, _ := GetPrincipal(c)
	return p.UserID
}
