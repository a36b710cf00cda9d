package server

import (
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	tenantdomain "github.com/lumora-hq/lumora/internal/tenant/domain"
)

const (
	HeaderActor     = "X-Actor-ID"
	HeaderWorkspace = "X-Workspace"

	contextActorIDKey       = "actor_id"
	contextTenantContextKey = "tenant_context"
)

// ActorRequired resolves the acting user from the X-Actor-ID header. There is
// no session layer here; an upstream gateway authenticates the caller and
// forwards the identity.
func (s *Server) ActorRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(HeaderActor))
		if raw == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		actorID, err := snowflake.ParseString(raw)
		if err != nil {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		c.Set(contextActorIDKey, actorID)
		c.Next()
	}
}

// WorkspaceContext resolves the actor plus the X-Workspace subdomain into a
// TenantContext via the access resolver. It fails closed: any miss is the same
// access denied error regardless of whether the workspace exists.
func (s *Server) WorkspaceContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID, ok := actorID(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		subdomain := strings.TrimSpace(c.GetHeader(HeaderWorkspace))
		tc, err := s.tenantSvc.ResolveContext(c.Request.Context(), actorID, subdomain)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.Set(contextTenantContextKey, tc)
		c.Next()
	}
}

func actorID(c *gin.Context) (snowflake.ID, bool) {
	v, ok := c.Get(contextActorIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(snowflake.ID)
	return id, ok
}

func tenantContext(c *gin.Context) (tenantdomain.TenantContext, bool) {
	v, ok := c.Get(contextTenantContextKey)
	if !ok {
		return tenantdomain.TenantContext{}, false
	}
	tc, ok := v.(tenantdomain.TenantContext)
	return tc, ok
}

func parseID(c *gin.Context, param string) (snowflake.ID, error) {
	raw := strings.TrimSpace(c.Param(param))
	id, err := snowflake.ParseString(raw)
	if err != nil {
		return 0, invalidRequestError()
	}
	return id, nil
}

func parseIDString(raw string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(raw))
}
