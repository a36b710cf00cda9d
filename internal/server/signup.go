package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	signupdomain "github.com/lumora-hq/lumora/internal/signup/domain"
	tenantdomain "github.com/lumora-hq/lumora/internal/tenant/domain"
)

type signupRequest struct {
	Name      string `json:"name"`
	Subdomain string `json:"subdomain"`
	Plan      string `json:"plan"`
}

// Signup provisions a workspace for the acting user: tenant plus owner
// membership in one transaction.
func (s *Server) Signup(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	result, err := s.signupSvc.ProvisionWorkspace(c.Request.Context(), signupdomain.ProvisionWorkspaceRequest{
		OwnerID:   actor,
		Name:      strings.TrimSpace(req.Name),
		Subdomain: strings.TrimSpace(req.Subdomain),
		Plan:      tenantdomain.Plan(strings.TrimSpace(req.Plan)),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.metrics.RecordWorkspaceSignup(c.Request.Context(), string(result.Tenant.Plan))

	c.JSON(http.StatusOK, gin.H{"data": result})
}
