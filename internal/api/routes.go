package api

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/attorneycare/server/internal/api/handlers"
	"github.com/attorneycare/server/internal/api/middleware"
	"github.com/attorneycare/server/internal/config"
	"github.com/attorneycare/server/internal/db/models"
	"github.com/attorneycare/server/internal/services"
	"github.com/attorneycare/server/pkg/metrics"
)

type Router struct {
	engine            *gin.Engine
	logger            *zap.Logger
	metrics           *metrics.Collector
	authHandler       *handlers.AuthHandler
	docHandler        *handlers.DocumentHandler
	clauseHandler     *handlers.ClauseHandler
	annotationHandler *handlers.AnnotationHandler
	caseHandler       *handlers.CaseHandler
	libraryHandler    *handlers.LibraryHandler
	auditHandler      *handlers.AuditHandler
	authMiddleware    *middleware.AuthMiddleware
	reqMiddleware     *middleware.RequestMiddleware
}

// Deps carries everything the router wires together. Handlers are built
// here; services and stores are built in main.
type Deps struct {
	Config      *config.Configuration
	Logger      *zap.Logger
	Metrics     *metrics.Collector
	Auth        *services.AuthService
	Documents   *services.DocumentService
	Clauses     *services.ClauseService
	Annotations *services.AnnotationService
	Cases       *services.CaseService
	Library     *services.LibraryService
	Audit       *services.AuditService
	Notify      services.OtpSender
}

func NewRouter(d Deps) *Router {
	if d.Config.Production() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()

	reqMiddleware := middleware.NewRequestMiddleware(d.Logger)
	authMiddleware := middleware.NewAuthMiddleware(d.Auth, d.Logger)

	engine.Use(reqMiddleware.ProcessRequest())
	engine.Use(reqMiddleware.RecoverPanic())
	engine.Use(secure.New(secure.Config{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "no-referrer",
	}))

	corsCfg := cors.DefaultConfig()
	if d.Config.CORSOrigin == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = []string{d.Config.CORSOrigin}
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	engine.Use(cors.New(corsCfg))

	return &Router{
		engine:            engine,
		logger:            d.Logger,
		metrics:           d.Metrics,
		authHandler:       handlers.NewAuthHandler(d.Auth, d.Notify, d.Audit, d.Logger),
		docHandler:        handlers.NewDocumentHandler(d.Documents, d.Clauses, d.Audit, d.Config.Uploads, d.Logger),
		clauseHandler:     handlers.NewClauseHandler(d.Clauses, d.Documents, d.Audit, d.Logger),
		annotationHandler: handlers.NewAnnotationHandler(d.Annotations, d.Documents, d.Audit, d.Logger),
		caseHandler:       handlers.NewCaseHandler(d.Cases, d.Audit, d.Logger),
		libraryHandler:    handlers.NewLibraryHandler(d.Library, d.Auth, d.Logger),
		auditHandler:      handlers.NewAuditHandler(d.Audit, d.Logger),
		authMiddleware:    authMiddleware,
		reqMiddleware:     reqMiddleware,
	}
}

func (r *Router) SetupRoutes() {
	r.engine.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "name": "attorneycare"})
	})

	r.engine.GET("/metrics", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"counters":  r.metrics.Counters(),
			"latencies": r.metrics.Latencies(),
			"sizes":     r.metrics.Sizes(),
		})
	})

	auth := r.engine.Group("/api/auth")
	auth.Use(r.reqMiddleware.ThrottleAuth())
	{
		auth.POST("/signup", r.authHandler.Signup)
		auth.POST("/login", r.authHandler.Login)
		auth.POST("/otp/request", r.authHandler.RequestOtp)
		auth.POST("/otp/verify", r.authHandler.VerifyOtp)
	}

	lawyerOnly := r.authMiddleware.RequireRole(models.RoleLawyer)

	protected := r.engine.Group("/api")
	protected.Use(r.authMiddleware.RequireAuth())
	{
		docs := protected.Group("/documents")
		{
			docs.POST("", lawyerOnly, r.docHandler.Upload)
			docs.GET("", r.docHandler.List)
			docs.GET("/:id", r.docHandler.Get)
			docs.GET("/:id/versions", r.docHandler.Versions)
			docs.GET("/:id/compare/:otherId", r.docHandler.Compare)
			docs.GET("/:id/file", r.docHandler.Download)
			docs.PUT("/:id/access", lawyerOnly, r.docHandler.UpdateAccess)
			docs.POST("/:id/clauses/split", lawyerOnly, r.docHandler.SplitClauses)
			docs.GET("/:id/clauses", r.clauseHandler.ListForDocument)
			docs.GET("/:id/annotations", r.annotationHandler.ListForDocument)
			docs.POST("/:id/annotations", lawyerOnly, r.annotationHandler.Create)
		}

		clauses := protected.Group("/clauses")
		{
			clauses.PATCH("/:id/status", lawyerOnly, r.clauseHandler.UpdateStatus)
			clauses.POST("/:id/comments", r.clauseHandler.AddComment)
			clauses.GET("/:id/comments", r.clauseHandler.ListComments)
		}

		cases := protected.Group("/cases")
		{
			cases.POST("", lawyerOnly, r.caseHandler.Create)
			cases.GET("", r.caseHandler.List)
			cases.PUT("/:id/assign", lawyerOnly, r.caseHandler.Assign)
		}

		library := protected.Group("/library")
		{
			library.GET("/articles", r.libraryHandler.Search)
			library.GET("/articles/:id", r.libraryHandler.Get)
			library.POST("/bookmarks/:id", r.libraryHandler.AddBookmark)
			library.DELETE("/bookmarks/:id", r.libraryHandler.RemoveBookmark)
		}

		protected.GET("/audit/logs",
			r.authMiddleware.RequireRole(models.RoleGovernment),
			r.auditHandler.Logs)
	}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
