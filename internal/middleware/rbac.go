package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/interview-timetable-api/internal/models"
	appErrors "github.com/noah-isme/interview-timetable-api/pkg/errors"
	"github.com/noah-isme/interview-timetable-api/pkg/response"
)

// ContextRoleKey holds the role of the session addressed by the route.
const ContextRoleKey = "session_role"

type sessionRoles interface {
	Role(id string) (models.Role, error)
}

// RequireSessionRole admits requests whose :id session has one of the allowed
// roles. Unknown sessions get 404, other roles 403.
func RequireSessionRole(sessions sessionRoles, allowed ...models.Role) gin.HandlerFunc {
	allowedRoles := make(map[models.Role]struct{}, len(allowed))
	for _, r := range allowed {
		allowedRoles[r] = struct{}{}
	}

	return func(c *gin.Context) {
		role, err := sessions.Role(c.Param("id"))
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		if _, ok := allowedRoles[role]; !ok {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Set(ContextRoleKey, role)
		c.Next()
	}
}

// RequireAdmin is a helper for admin-only session routes.
func RequireAdmin(sessions sessionRoles) gin.HandlerFunc {
	return RequireSessionRole(sessions, models.RoleAdmin)
}

// RoleFromContext returns the role stored by RequireSessionRole.
func RoleFromContext(c *gin.Context) (models.Role, bool) {
	v, ok := c.Get(ContextRoleKey)
	if !ok {
		return "", false
	}
	role, ok := v.(models.Role)
	return role, ok
}
