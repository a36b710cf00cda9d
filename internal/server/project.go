package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lumora-hq/lumora/internal/apperror"
	projectdomain "github.com/lumora-hq/lumora/internal/project/domain"
)

type createProjectRequest struct {
	ClientID       string  `json:"client_id"`
	Name           string  `json:"name"`
	Status         string  `json:"status"`
	Priority       int     `json:"priority"`
	StartDate      *string `json:"start_date"`
	EndDate        *string `json:"end_date"`
	EstimatedHours float64 `json:"estimated_hours"`
	HourlyRate     int64   `json:"hourly_rate"`
	Budget         int64   `json:"budget"`
}

func (s *Server) CreateProject(c *gin.Context) {
	tc, ok := tenantContext(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	clientID, err := parseIDString(req.ClientID)
	if err != nil {
		AbortWithError(c, apperror.Validation("client_id", "invalid_client_id", "invalid client id"))
		return
	}

	startDate, err := parseOptionalDate(req.StartDate)
	if err != nil {
		AbortWithError(c, apperror.Validation("start_date", "invalid_start_date", "invalid start_date"))
		return
	}
	endDate, err := parseOptionalDate(req.EndDate)
	if err != nil {
		AbortWithError(c, apperror.Validation("end_date", "invalid_end_date", "invalid end_date"))
		return
	}

	project, err := s.projectSvc.Create(c.Request.Context(), tc, projectdomain.CreateProjectRequest{
		ClientID:       clientID,
		Name:           strings.TrimSpace(req.Name),
		Status:         projectdomain.ProjectStatus(strings.TrimSpace(req.Status)),
		Priority:       req.Priority,
		StartDate:      startDate,
		EndDate:        endDate,
		EstimatedHours: req.EstimatedHours,
		HourlyRate:     req.HourlyRate,
		Budget:         req.Budget,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": project})
}

func (s *Server) GetProjectByID(c *gin.Context) {
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

	view, err := s.projectSvc.GetByID(c.Request.Context(), tc, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": view})
}

func (s *Server) ListClientProjects(c *gin.Context) {
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

	projects, err := s.projectSvc.ListByClient(c.Request.Context(), tc, clientID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": projects})
}

type updateProjectStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) UpdateProjectStatus(c *gin.Context) {
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

	var req updateProjectStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	project, err := s.projectSvc.UpdateStatus(c.Request.Context(), tc, id, projectdomain.ProjectStatus(strings.TrimSpace(req.Status)))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": project})
}

type reassignClientRequest struct {
	ClientID string `json:"client_id"`
}

func (s *Server) ReassignProjectClient(c *gin.Context) {
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

	var req reassignClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	clientID, err := parseIDString(req.ClientID)
	if err != nil {
		AbortWithError(c, apperror.Validation("client_id", "invalid_client_id", "invalid client id"))
		return
	}

	project, err := s.projectSvc.ReassignClient(c.Request.Context(), tc, id, clientID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": project})
}

func (s *Server) AssignProjectMember(c *gin.Context) {
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
	userID, err := parseID(c, "user_id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.projectSvc.AssignMember(c.Request.Context(), tc, id, userID); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) UnassignProjectMember(c *gin.Context) {
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
	userID, err := parseID(c, "user_id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.projectSvc.UnassignMember(c.Request.Context(), tc, id, userID); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) ListProjectAssignments(c *gin.Context) {
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

	userIDs, err := s.projectSvc.ListAssignedUsers(c.Request.Context(), tc, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": userIDs})
}

func (s *Server) DeleteProject(c *gin.Context) {
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

	if err := s.projectSvc.Delete(c.Request.Context(), tc, id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func parseOptionalDate(raw *string) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}
	value := strings.TrimSpace(*raw)
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		parsed, err = time.Parse(time.RFC3339, value)
		if err != nil {
			return nil, err
		}
	}
	parsed = parsed.UTC()
	return &parsed, nil
}
