// Package web provides the HTTP server of the user hub: routing,
// middleware, controllers and background job scheduling.
package web

import (
	"context"
	"io"
	"net"
	"net/http"
	"strconv"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"

	"userhub/config"
	"userhub/logger"
	"userhub/util/common"
	"userhub/web/controller"
	"userhub/web/job"
	"userhub/web/middleware"
	"userhub/web/service"
)

// Server wires the stores, services, controllers and scheduled jobs.
type Server struct {
	httpServer *http.Server
	listener   net.Listener

	users   *service.UserService
	revoked *service.RevocationService
	auth    *service.AuthService
	audit   *service.AuditLogService
	status  *service.StatusService

	cron *cron.Cron

	ctx    context.Context
	cancel context.CancelFunc
}

// NewServer creates a server with fresh in-memory stores.
func NewServer() *Server {
	ctx, cancel := context.WithCancel(context.Background())

	users := service.NewUserService()
	revoked := service.NewRevocationService()

	return &Server{
		users:   users,
		revoked: revoked,
		auth:    service.NewAuthService(users, revoked, config.GetJWTSecret()),
		audit:   &service.AuditLogService{},
		status:  service.NewStatusService(users, revoked),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// initRouter initializes Gin, registers middleware and controllers and
// returns the configured engine.
func (s *Server) initRouter() *gin.Engine {
	if config.IsDebug() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.DefaultWriter = io.Discard
		gin.DefaultErrorWriter = io.Discard
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(middleware.Cors(config.GetCORSOrigin()))
	engine.Use(gzip.Gzip(gzip.DefaultCompression))
	engine.Use(gin.CustomRecovery(func(c *gin.Context, err any) {
		logger.Error("handler panic:", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
	}))

	api := engine.Group("/api")
	{
		controller.NewAuthController(api, s.auth, s.revoked, s.audit)
		controller.NewUserController(api, s.users, s.audit, s.auth, s.revoked, config.AdminPatchRequired())
		controller.NewAdminController(api, s.auth, s.revoked, s.audit, s.status)
	}

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Not Found"})
	})

	return engine
}

// initStores seeds the bootstrap admin and the demo fixture when configured.
func (s *Server) initStores() error {
	if email, password := config.GetAdminEmail(), config.GetAdminPassword(); email != "" && password != "" {
		if _, err := s.users.BootstrapAdmin(email, password); err != nil {
			return err
		}
		logger.Info("bootstrap admin ready:", email)
	}

	if n := config.GetDemoSeed(); n > 0 {
		if err := s.users.SeedDemo(n); err != nil {
			return err
		}
		logger.Infof("seeded %d demo users", s.users.Count())
	}
	return nil
}

// startTask schedules the background maintenance jobs.
func (s *Server) startTask() {
	s.cron.AddJob("@every 10m", job.NewRevocationSweepJob(s.revoked))
	s.cron.AddJob("@daily", job.NewAuditCleanupJob())
}

// Start initializes and starts the web server.
func (s *Server) Start() (err error) {
	defer func() {
		if err != nil {
			_ = s.Stop()
		}
	}()

	if err := s.initStores(); err != nil {
		return err
	}

	s.cron = cron.New()
	s.startTask()
	s.cron.Start()

	engine := s.initRouter()

	listenAddr := net.JoinHostPort("", strconv.Itoa(config.GetPort()))
	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return err
	}
	logger.Info("web server running HTTP on", listener.Addr())

	s.listener = listener
	s.httpServer = &http.Server{Handler: engine}

	go func() {
		_ = s.httpServer.Serve(listener)
	}()

	return nil
}

// Stop gracefully shuts down the web server and the cron scheduler.
func (s *Server) Stop() error {
	s.cancel()
	if s.cron != nil {
		s.cron.Stop()
	}
	var err1, err2 error
	if s.httpServer != nil {
		err1 = s.httpServer.Shutdown(s.ctx)
	}
	if s.listener != nil {
		err2 = s.listener.Close()
	}
	return common.Combine(err1, err2)
}

// GetCtx returns the server's context.
func (s *Server) GetCtx() context.Context { return s.ctx }
