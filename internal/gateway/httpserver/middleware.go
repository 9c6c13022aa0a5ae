package httpserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"buildpro/internal/auth"
	"buildpro/pkg/rbac"
	"buildpro/pkg/util"
)

// AuthMiddleware 校验 JWT 并把身份放进 gin context
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := util.ExtractToken(c.Request)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "missing token"})
			c.Abort()
			return
		}

		claims, err := util.ParseJWT(token, jwtSecret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid token"})
			c.Abort()
			return
		}

		c.Set("identity", auth.Identity{
			UserID: claims.UserID,
			Email:  claims.Email,
			Role:   claims.Role,
		})
		c.Next()
	}
}

// roleRule 按路径前缀限制角色，先匹配的先生效
type roleRule struct {
	prefix string
	roles  []string
}

var roleRules = []roleRule{
	{"/update-progress", []string{rbac.RoleAdmin, rbac.RoleProjectManager}},
	{"/materials/restock", []string{rbac.RoleAdmin, rbac.RoleProjectManager}},
	{"/materials/update-price", []string{rbac.RoleAdmin, rbac.RoleProjectManager, rbac.RoleVendor}},
	{"/payments", []string{rbac.RoleAdmin, rbac.RoleProjectManager}},
}

// allowedForPath 返回路径是否受限及允许的角色
func allowedForPath(path string) ([]string, bool) {
	for _, rule := range roleRules {
		if strings.HasPrefix(path, rule.prefix) {
			return rule.roles, true
		}
	}
	return nil, false
}

// RouteGuard 按路径前缀检查角色
func RouteGuard() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := strings.TrimPrefix(c.Request.URL.Path, "/api")

		roles, restricted := allowedForPath(path)
		if !restricted {
			c.Next()
			return
		}

		identity, exists := c.Get("identity")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "user not authenticated"})
			c.Abort()
			return
		}

		id, ok := identity.(auth.Identity)
		if !ok || !rbac.RoleIn(id.Role, roles...) {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "insufficient permissions"})
			c.Abort()
			return
		}

		c.Next()
	}
}
