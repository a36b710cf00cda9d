package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lumora-hq/lumora/internal/apperror"
	timeentrydomain "github.com/lumora-hq/lumora/internal/timeentry/domain"
)

type logTimeRequest struct {
	Hours     float64 `json:"hours"`
	EntryDate string  `json:"entry_date"`
	Notes     string  `json:"notes"`
}

// LogTimeEntry records hours against a task for the acting user and returns
// the entry together with the task's updated total.
func (s *Server) LogTimeEntry(c *gin.Context) {
	tc, ok := tenantContext(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}
	actor, ok := actorID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	taskID, err := parseID(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req logTimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	var entryDate time.Time
	if raw := strings.TrimSpace(req.EntryDate); raw != "" {
		entryDate, err = time.Parse("2006-01-02", raw)
		if err != nil {
			AbortWithError(c, apperror.Validation("entry_date", "invalid_entry_date", "invalid entry_date"))
			return
		}
		entryDate = entryDate.UTC()
	}

	result, err := s.timeEntrySvc.Log(c.Request.Context(), tc, timeentrydomain.LogTimeRequest{
		TaskID:    taskID,
		UserID:    actor,
		Hours:     req.Hours,
		EntryDate: entryDate,
		Notes:     strings.TrimSpace(req.Notes),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.metrics.RecordTimeEntryLogged(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{"data": result})
}

func (s *Server) ListTaskTimeEntries(c *gin.Context) {
	tc, ok := tenantContext(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	taskID, err := parseID(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	entries, err := s.timeEntrySvc.ListByTask(c.Request.Context(), tc, taskID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": entries})
}
