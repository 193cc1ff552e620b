package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nextforms/forms-server/config"
	"github.com/nextforms/forms-server/models"
	"github.com/nextforms/forms-server/utils"
)

// CtxUser is the context key holding the authenticated models.User.
const CtxUser = "user"

func userFromBearer(c *gin.Context) (models.User, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		return models.User{}, false
	}
	rawToken := strings.TrimSpace(authHeader[7:])

	claims, err := utils.VerifyToken(rawToken)
	if err != nil {
		return models.User{}, false
	}

	var user models.User
	if err := config.DB.Where("username = ?", claims.Username).First(&user).Error; err != nil {
		return models.User{}, false
	}
	return user, true
}

// AuthJWT requires a valid Authorization: Bearer <token> header and injects
// the user into the context.
func AuthJWT() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := userFromBearer(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Missing or invalid Authorization header"})
			return
		}
		c.Set(CtxUser, user)
		c.Next()
	}
}

// OptionalAuth injects the user when a valid token is present and lets the
// request through either way. Submission and link endpoints accept both
// identified and anonymous requesters.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if user, ok := userFromBearer(c); ok {
			c.Set(CtxUser, user)
		}
		c.Next()
	}
}

// RequesterID returns the authenticated username, or "" for anonymous.
func RequesterID(c *gin.Context) string {
	if v, ok := c.Get(CtxUser); ok {
		if u, ok2 := v.(models.User); ok2 {
			return u.Username
		}
	}
	return ""
}
