package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gites/backend/internal/domain/audit"
	"github.com/gites/backend/internal/domain/permission"
	"github.com/gites/backend/internal/interfaces/http/dto"
)

// Headers identifying the acting user. Identity is established upstream
// by the reverse proxy; the API trusts these headers.
const (
	ActorIDHeader             = "X-Actor-ID"
	ActorRoleHeader           = "X-Actor-Role"
	InspectionOverrideHeader  = "X-Inspection-Override"
	inspectionOverrideGranted = "granted"
	inspectionOverrideDenied  = "denied"
)

// ActorKey is the gin context key for the acting user
const ActorKey = "actor"

// OverridesKey is the gin context key for permission overrides
const OverridesKey = "permission_overrides"

// Actor extracts the acting user from the request headers and aborts
// with 401 when the identity is missing or the role is unknown.
func Actor() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(ActorIDHeader)
		role := permission.Role(c.GetHeader(ActorRoleHeader))

		if id == "" || !role.IsValid() {
			requestID := GetRequestID(c)
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeUnauthorized,
				"Actor identity headers are missing or invalid",
				requestID,
			))
			return
		}

		c.Set(ActorKey, audit.Actor{ID: id, Role: role})
		c.Set(OverridesKey, parseOverrides(c))

		c.Next()
	}
}

// parseOverrides reads the per-user inspection override. Absent or
// unrecognized values leave the role grant table in charge.
func parseOverrides(c *gin.Context) permission.Overrides {
	var ov permission.Overrides
	switch c.GetHeader(InspectionOverrideHeader) {
	case inspectionOverrideGranted:
		granted := true
		ov.PerformInspection = &granted
	case inspectionOverrideDenied:
		denied := false
		ov.PerformInspection = &denied
	}
	return ov
}

// GetActor retrieves the acting user from gin context
func GetActor(c *gin.Context) (audit.Actor, bool) {
	v, ok := c.Get(ActorKey)
	if !ok {
		return audit.Actor{}, false
	}
	actor, ok := v.(audit.Actor)
	return actor, ok
}

// GetOverrides retrieves the permission overrides from gin context
func GetOverrides(c *gin.Context) permission.Overrides {
	v, ok := c.Get(OverridesKey)
	if !ok {
		return permission.Overrides{}
	}
	ov, _ := v.(permission.Overrides)
	return ov
}
