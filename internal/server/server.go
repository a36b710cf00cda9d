package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/lumora-hq/lumora/internal/client"
	clientdomain "github.com/lumora-hq/lumora/internal/client/domain"
	"github.com/lumora-hq/lumora/internal/config"
	"github.com/lumora-hq/lumora/internal/invoicing"
	"github.com/lumora-hq/lumora/internal/observability"
	obsmetrics "github.com/lumora-hq/lumora/internal/observability/metrics"
	"github.com/lumora-hq/lumora/internal/project"
	projectdomain "github.com/lumora-hq/lumora/internal/project/domain"
	"github.com/lumora-hq/lumora/internal/signup"
	signupdomain "github.com/lumora-hq/lumora/internal/signup/domain"
	"github.com/lumora-hq/lumora/internal/task"
	taskdomain "github.com/lumora-hq/lumora/internal/task/domain"
	"github.com/lumora-hq/lumora/internal/tenant"
	tenantdomain "github.com/lumora-hq/lumora/internal/tenant/domain"
	"github.com/lumora-hq/lumora/internal/timeentry"
	timeentrydomain "github.com/lumora-hq/lumora/internal/timeentry/domain"
	"github.com/lumora-hq/lumora/internal/user"
	userdomain "github.com/lumora-hq/lumora/internal/user/domain"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	observability.Module,
	fx.Provide(registerGin),
	user.Module,
	user.ProvisionerModule,
	tenant.Module,
	signup.Module,
	invoicing.Module,
	client.Module,
	project.Module,
	task.Module,
	timeentry.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(log))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(log *zap.Logger) *gin.Engine {
	return NewEngine(log)
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server starting", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine       *gin.Engine
	cfg          config.Config
	db           *gorm.DB
	log          *zap.Logger
	genID        *snowflake.Node
	userSvc      userdomain.Service
	tenantSvc    tenantdomain.Service
	signupSvc    signupdomain.Service
	clientSvc    clientdomain.Service
	projectSvc   projectdomain.Service
	taskSvc      taskdomain.Service
	timeEntrySvc timeentrydomain.Service
	metrics      *obsmetrics.Metrics
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	Cfg          config.Config
	DB           *gorm.DB
	Log          *zap.Logger
	GenID        *snowflake.Node
	UserSvc      userdomain.Service
	TenantSvc    tenantdomain.Service
	SignupSvc    signupdomain.Service
	ClientSvc    clientdomain.Service
	ProjectSvc   projectdomain.Service
	TaskSvc      taskdomain.Service
	TimeEntrySvc timeentrydomain.Service
	Metrics      *obsmetrics.Metrics `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		db:           p.DB,
		log:          p.Log.Named("http"),
		genID:        p.GenID,
		userSvc:      p.UserSvc,
		tenantSvc:    p.TenantSvc,
		signupSvc:    p.SignupSvc,
		clientSvc:    p.ClientSvc,
		projectSvc:   p.ProjectSvc,
		taskSvc:      p.TaskSvc,
		timeEntrySvc: p.TimeEntrySvc,
		metrics:      p.Metrics,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	api.POST("/users", s.RegisterUser)
	api.GET("/users/:id", s.GetUserByID)
	api.PATCH("/users/:id/subdomain", s.SetUserSubdomain)
	api.POST("/users/:id/verify", s.VerifyUser)
	api.DELETE("/users/:id", s.DeleteUser)

	api.POST("/signup", s.ActorRequired(), s.Signup)
	api.GET("/workspaces", s.ActorRequired(), s.ListWorkspaces)

	// Every route below operates inside one workspace, resolved per request
	// from the actor plus the X-Workspace header.
	ws := api.Group("/workspace", s.ActorRequired(), s.WorkspaceContext())
	{
		ws.GET("", s.GetWorkspace)
		ws.PATCH("/settings", s.UpdateWorkspaceSettings)
		ws.DELETE("", s.DeleteWorkspace)

		ws.GET("/members", s.ListMembers)
		ws.POST("/members", s.AddMember)
		ws.PATCH("/members/:user_id/role", s.UpdateMemberRole)
		ws.DELETE("/members/:user_id", s.RemoveMember)

		ws.GET("/clients", s.ListClients)
		ws.POST("/clients", s.CreateClient)
		ws.GET("/clients/:id", s.GetClientByID)
		ws.PATCH("/clients/:id/status", s.UpdateClientStatus)
		ws.DELETE("/clients/:id", s.DeleteClient)
		ws.POST("/clients/:id/contacts", s.AddClientContact)
		ws.GET("/clients/:id/contacts", s.ListClientContacts)
		ws.GET("/clients/:id/projects", s.ListClientProjects)

		ws.POST("/projects", s.CreateProject)
		ws.GET("/projects/:id", s.GetProjectByID)
		ws.PATCH("/projects/:id/status", s.UpdateProjectStatus)
		ws.POST("/projects/:id/reassign", s.ReassignProjectClient)
		ws.GET("/projects/:id/assignments", s.ListProjectAssignments)
		ws.POST("/projects/:id/assignments/:user_id", s.AssignProjectMember)
		ws.DELETE("/projects/:id/assignments/:user_id", s.UnassignProjectMember)
		ws.GET("/projects/:id/tasks", s.ListProjectTasks)
		ws.DELETE("/projects/:id", s.DeleteProject)

		ws.POST("/tasks", s.CreateTask)
		ws.GET("/tasks/:id", s.GetTaskByID)
		ws.PATCH("/tasks/:id/status", s.UpdateTaskStatus)
		ws.POST("/tasks/:id/assign", s.AssignTask)
		ws.DELETE("/tasks/:id", s.DeleteTask)
		ws.POST("/tasks/:id/time-entries", s.LogTimeEntry)
		ws.GET("/tasks/:id/time-entries", s.ListTaskTimeEntries)
	}
}
