package middleware

import (
	"net/http"
	"strings"
	"time"

	"halqa-daily/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

// NewToken issues a signed access token for u.
func NewToken(secret []byte, u *model.User, expire time.Duration) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid":  u.ID,
		"role": u.Role,
		"exp":  time.Now().Add(expire).Unix(),
	}).SignedString(secret)
}

func JWTAuth(secret []byte, expire time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		token, err := jwt.Parse(auth[7:], func(t *jwt.Token) (interface{}, error) {
			return secret, nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		claims := token.Claims.(jwt.MapClaims)
		c.Set("user_id", int(claims["uid"].(float64)))

		// Renew tokens with less than a day left.
		if exp, ok := claims["exp"].(float64); ok {
			if time.Until(time.Unix(int64(exp), 0)) < 24*time.Hour {
				newToken, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
					"uid":  claims["uid"],
					"role": claims["role"],
					"exp":  time.Now().Add(expire).Unix(),
				}).SignedString(secret)
				c.Header("X-New-Token", newToken)
			}
		}

		c.Next()
	}
}

// RequireRoles loads the caller row once per request and gates on
// account status and role. With no roles given it only enforces an
// active account. Admins pass the status gate regardless.
func RequireRoles(db *gorm.DB, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetInt("user_id")

		var u model.User
		if err := db.WithContext(c.Request.Context()).First(&u, uid).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		if u.Status != model.StatusActive && u.Role != model.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "account is not active"})
			return
		}
		if len(roles) > 0 {
			allowed := false
			for _, r := range roles {
				if u.Role == r {
					allowed = true
					break
				}
			}
			if !allowed {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
				return
			}
		}

		c.Set("user", &u)
		c.Next()
	}
}

// CurrentUser returns the caller loaded by RequireRoles.
func CurrentUser(c *gin.Context) *model.User {
	u, _ := c.Get("user")
	return u.(*model.User)
}
