package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

// ListWorkspaces returns the workspaces the acting user belongs to, with role.
func (s *Server) ListWorkspaces(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	items, err := s.tenantSvc.ListByUser(c.Request.Context(), actor)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (s *Server) GetWorkspace(c *gin.Context) {
	tc, ok := tenantContext(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": tc.Tenant, "role": tc.Role})
}

type updateSettingsRequest struct {
	Settings map[string]any `json:"settings"`
}

func (s *Server) UpdateWorkspaceSettings(c *gin.Context) {
	tc, ok := tenantContext(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req updateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	tenant, err := s.tenantSvc.UpdateSettings(c.Request.Context(), tc, datatypes.JSONMap(req.Settings))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": tenant})
}

func (s *Server) DeleteWorkspace(c *gin.Context) {
	tc, ok := tenantContext(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	if err := s.tenantSvc.Delete(c.Request.Context(), tc); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
