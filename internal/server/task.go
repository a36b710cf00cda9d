package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/lumora-hq/lumora/internal/apperror"
	taskdomain "github.com/lumora-hq/lumora/internal/task/domain"
)

type createTaskRequest struct {
	ProjectID      string  `json:"project_id"`
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	Priority       int     `json:"priority"`
	HoursEstimated float64 `json:"hours_estimated"`
	DueDate        *string `json:"due_date"`
	AssignedTo     *string `json:"assigned_to"`
}

func (s *Server) CreateTask(c *gin.Context) {
	tc, ok := tenantContext(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	projectID, err := parseIDString(req.ProjectID)
	if err != nil {
		AbortWithError(c, apperror.Validation("project_id", "invalid_project_id", "invalid project id"))
		return
	}

	dueDate, err := parseOptionalDate(req.DueDate)
	if err != nil {
		AbortWithError(c, apperror.Validation("due_date", "invalid_due_date", "invalid due_date"))
		return
	}

	var assignedTo *snowflake.ID
	if req.AssignedTo != nil && strings.TrimSpace(*req.AssignedTo) != "" {
		id, err := parseIDString(*req.AssignedTo)
		if err != nil {
			AbortWithError(c, apperror.Validation("assigned_to", "invalid_assigned_to", "invalid assignee id"))
			return
		}
		assignedTo = &id
	}

	task, err := s.taskSvc.Create(c.Request.Context(), tc, taskdomain.CreateTaskRequest{
		ProjectID:      projectID,
		Title:          strings.TrimSpace(req.Title),
		Description:    strings.TrimSpace(req.Description),
		Priority:       req.Priority,
		HoursEstimated: req.HoursEstimated,
		DueDate:        dueDate,
		AssignedTo:     assignedTo,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": task})
}

func (s *Server) GetTaskByID(c *gin.Context) {
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

	view, err := s.taskSvc.GetByID(c.Request.Context(), tc, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": view})
}

func (s *Server) ListProjectTasks(c *gin.Context) {
	tc, ok := tenantContext(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	projectID, err := parseID(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	tasks, err := s.taskSvc.ListByProject(c.Request.Context(), tc, projectID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": tasks})
}

type updateTaskStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) UpdateTaskStatus(c *gin.Context) {
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

	var req updateTaskStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	status := taskdomain.TaskStatus(strings.TrimSpace(req.Status))
	task, err := s.taskSvc.UpdateStatus(c.Request.Context(), tc, id, status)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if status == taskdomain.TaskStatusCompleted {
		s.metrics.RecordTaskCompleted(c.Request.Context())
	}

	c.JSON(http.StatusOK, gin.H{"data": task})
}

type assignTaskRequest struct {
	UserID *string `json:"user_id"`
}

func (s *Server) AssignTask(c *gin.Context) {
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

	var req assignTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	var userID *snowflake.ID
	if req.UserID != nil && strings.TrimSpace(*req.UserID) != "" {
		parsed, err := parseIDString(*req.UserID)
		if err != nil {
			AbortWithError(c, apperror.Validation("user_id", "invalid_user_id", "invalid user id"))
			return
		}
		userID = &parsed
	}

	task, err := s.taskSvc.Assign(c.Request.Context(), tc, id, userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": task})
}

func (s *Server) DeleteTask(c *gin.Context) {
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

	if err := s.taskSvc.Delete(c.Request.Context(), tc, id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
