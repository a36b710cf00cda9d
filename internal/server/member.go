package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lumora-hq/lumora/internal/apperror"
	tenantdomain "github.com/lumora-hq/lumora/internal/tenant/domain"
)

type addMemberRequest struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

func (s *Server) AddMember(c *gin.Context) {
	tc, ok := tenantContext(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}
	if !tc.Can(tenantdomain.RoleAdmin) {
		AbortWithError(c, apperror.AccessDenied("admin role required"))
		return
	}

	var req addMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	userID, err := parseIDString(req.UserID)
	if err != nil {
		AbortWithError(c, apperror.Validation("user_id", "invalid_user_id", "invalid user id"))
		return
	}

	membership, err := s.tenantSvc.AddMember(c.Request.Context(), tenantdomain.AddMemberRequest{
		TenantID: tc.TenantID(),
		UserID:   userID,
		Role:     tenantdomain.Role(strings.TrimSpace(req.Role)),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.metrics.RecordMemberAdded(c.Request.Context(), string(membership.Role))

	c.JSON(http.StatusOK, gin.H{"data": membership})
}

type updateRoleRequest struct {
	Role string `json:"role"`
}

func (s *Server) UpdateMemberRole(c *gin.Context) {
	tc, ok := tenantContext(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	userID, err := parseID(c, "user_id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req updateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	membership, err := s.tenantSvc.UpdateRole(c.Request.Context(), tc, userID, tenantdomain.Role(strings.TrimSpace(req.Role)))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": membership})
}

func (s *Server) RemoveMember(c *gin.Context) {
	tc, ok := tenantContext(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	userID, err := parseID(c, "user_id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.tenantSvc.RemoveMember(c.Request.Context(), tc, userID); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) ListMembers(c *gin.Context) {
	tc, ok := tenantContext(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	members, err := s.tenantSvc.ListMembers(c.Request.Context(), tc)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": members})
}
