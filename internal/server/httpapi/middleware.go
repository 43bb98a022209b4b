package httpapi

import (
	"net/http"
	"slices"
	"strings"

	"github.com/dmitrijs2005/butcherdesk/internal/common"
	"github.com/dmitrijs2005/butcherdesk/internal/server/auth"
	"github.com/gin-gonic/gin"
)

const claimsKey = "claims"

// requireAuth rejects requests without a valid access token with 401.
func (h *handler) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(common.AuthorizationHeaderName)
		token, ok := strings.CutPrefix(header, common.BearerPrefix)
		if !ok || token == "" {
			abort(c, http.StatusUnauthorized, "authentication credentials were not provided")
			return
		}

		claims, err := h.users.Authenticate(token)
		if err != nil {
			abort(c, http.StatusUnauthorized, "token not valid: "+err.Error())
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// requireRole lets through only users whose role is listed.
func requireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := claimsFrom(c)
		if claims == nil || !slices.Contains(roles, claims.Role) {
			abort(c, http.StatusForbidden, "you do not have permission to perform this action")
			return
		}
		c.Next()
	}
}

func claimsFrom(c *gin.Context) *auth.Claims {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*auth.Claims)
	return claims
}

func abort(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": detail})
}
