package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, project *Project) error
	FindByID(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) (*Project, error)
	ListByClient(ctx context.Context, db *gorm.DB, tenantID, clientID snowflake.ID) ([]Project, error)
	Update(ctx context.Context, db *gorm.DB, project *Project) error
	DeleteCascade(ctx context.Context, db *gorm.DB, projectID snowflake.ID) error

	CountTasks(ctx context.Context, db *gorm.DB, projectID snowflake.ID) (int64, error)
	CountTasksByStatus(ctx context.Context, db *gorm.DB, projectID snowflake.ID, status string) (int64, error)
	SumTaskHoursLogged(ctx context.Context, db *gorm.DB, projectID snowflake.ID) (float64, error)

	InsertAssignment(ctx context.Context, db *gorm.DB, assignment *ProjectAssignment) error
	DeleteAssignment(ctx context.Context, db *gorm.DB, projectID, userID snowflake.ID) error
	ListAssignedUserIDs(ctx context.Context, db *gorm.DB, projectID snowflake.ID) ([]snowflake.ID, error)
}
