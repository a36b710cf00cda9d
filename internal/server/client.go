package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	clientdomain "github.com/lumora-hq/lumora/internal/client/domain"
	"github.com/lumora-hq/lumora/pkg/db/pagination"
)

type createClientRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company"`
}

func (s *Server) CreateClient(c *gin.Context) {
	tc, ok := tenantContext(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req createClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	client, err := s.clientSvc.Create(c.Request.Context(), tc, clientdomain.CreateClientRequest{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Company: strings.TrimSpace(req.Company),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": client})
}

func (s *Server) GetClientByID(c *gin.Context) {
	tc, ok := tenantContext(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	id, err := parseID(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	view, err := s.clientSvc.GetByID(c.Request.Context(), tc, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": view})
}

func (s *Server) ListClients(c *gin.Context) {
	tc, ok := tenantContext(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var query struct {
		pagination.Pagination
		Status string `form:"status"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.clientSvc.List(c.Request.Context(), tc, clientdomain.ListClientsRequest{
		PageToken: query.PageToken,
		PageSize:  query.PageSize,
		Status:    clientdomain.ClientStatus(strings.TrimSpace(query.Status)),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type updateClientStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) UpdateClientStatus(c *gin.Context) {
	tc, ok := tenantContext(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	id, err := parseID(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req updateClientStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	client, err := s.clientSvc.UpdateStatus(c.Request.Context(), tc, clientdomain.UpdateClientStatusRequest{
		ID:     id,
		Status: clientdomain.ClientStatus(strings.TrimSpace(req.Status)),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": client})
}

func (s *Server) DeleteClient(c *gin.Context) {
	tc, ok := tenantContext(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	id, err := parseID(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.clientSvc.Delete(c.Request.Context(), tc, id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type addContactRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	IsPrimary bool   `json:"is_primary"`
}

func (s *Server) AddClientContact(c *gin.Context) {
	tc, ok := tenantContext(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	clientID, err := parseID(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req addContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	contact, err := s.clientSvc.AddContact(c.Request.Context(), tc, clientdomain.AddContactRequest{
		ClientID:  clientID,
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.TrimSpace(req.Email),
		IsPrimary: req.IsPrimary,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": contact})
}

func (s *Server) ListClientContacts(c *gin.Context) {
	tc, ok := tenantContext(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	clientID, err := parseID(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	contacts, err := s.clientSvc.ListContacts(c.Request.Context(), tc, clientID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": contacts})
}
