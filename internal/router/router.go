package router

import (
	"net/http"
	"time"

	"github.com/aiassess/assessment-backend/internal/config"
	"github.com/aiassess/assessment-backend/internal/handler"
	"github.com/aiassess/assessment-backend/internal/middleware"
	"github.com/aiassess/assessment-backend/internal/model"
	"github.com/aiassess/assessment-backend/internal/response"
	"github.com/aiassess/assessment-backend/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth       *handler.AuthHandler
	Exam       *handler.ExamHandler
	Proctoring *handler.ProctoringHandler
	Assessment *handler.AssessmentHandler
	User       *handler.UserHandler
	Candidate  *handler.CandidateHandler
	Password   *handler.PasswordHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for credential endpoints (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── Exam delivery (Public) ────────────────────────────────────────
	// The candidate apps call these without tokens; the candidate is
	// identified by the email carried in each request.
	router.GET("/exam/title/:title", handlers.Exam.GetExamDetails)

	candidateExam := router.Group("/api/candidate/exam/title/:title")
	{
		candidateExam.POST("/start-session", handlers.Exam.StartSession)
		candidateExam.POST("/submit", handlers.Exam.SubmitExam)
	}

	// ─── Proctoring ────────────────────────────────────────────────────
	proctoring := router.Group("/api/proctoring")
	{
		proctoring.POST("/init", handlers.Proctoring.Init)
		proctoring.GET("/events/:title", handlers.Proctoring.Events)
	}

	// ─── Candidate profile & settings (Public) ─────────────────────────
	candidate := router.Group("/api/candidate")
	{
		candidate.GET("/results", handlers.Exam.ListResults)
		candidate.GET("/profile", handlers.Candidate.GetProfile)
		candidate.PUT("/profile", handlers.Candidate.UpdateProfile)
		candidate.PUT("/settings/notifications", handlers.Candidate.UpdateNotifications)
		candidate.DELETE("/account", handlers.Candidate.DeleteAccount)
	}

	// ─── Auth (Public, Rate Limited) ───────────────────────────────────
	auth := router.Group("/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/login", handlers.Auth.Login)
		auth.GET("/me",
			middleware.RequireRole(authService, model.RoleAdmin, model.RoleCandidate, model.RoleEducator),
			handlers.Auth.Me)

		// Password reset, one forgot route per role portal.
		auth.POST("/candidate/forgot-password", handlers.Password.Forgot(model.RoleCandidate))
		auth.POST("/educator/forgot-password", handlers.Password.Forgot(model.RoleEducator))
		auth.POST("/admin/forgot-password", handlers.Password.Forgot(model.RoleAdmin))
		auth.POST("/reset-password", handlers.Password.Reset)
	}

	// ─── Educator authoring (JWT) ──────────────────────────────────────
	authoring := router.Group("/auth/assessments")
	authoring.Use(middleware.RequireRole(authService, model.RoleEducator, model.RoleAdmin))
	{
		authoring.POST("", handlers.Assessment.Create)
		authoring.GET("", handlers.Assessment.List)
		authoring.POST("/bulk-delete", handlers.Assessment.BulkDelete)
		authoring.POST("/bulk-archive", handlers.Assessment.BulkArchive)
		authoring.POST("/settings", handlers.Assessment.SaveSettings)
		authoring.GET("/settings/:title", handlers.Assessment.GetSettings)
		authoring.GET("/status", handlers.Assessment.ListStatus)
	}

	// ─── Admin (JWT) ───────────────────────────────────────────────────
	admin := router.Group("/admin")
	admin.Use(middleware.RequireRole(authService, model.RoleAdmin))
	{
		admin.POST("/add-user", handlers.User.AddUser)
		admin.GET("/users", handlers.User.ListUsers)
		admin.PUT("/users/:email", handlers.User.UpdateUser)
		admin.DELETE("/users/:email", handlers.User.DeleteUser)
		admin.PATCH("/users/:email/deactivate", handlers.User.DeactivateUser)
		admin.PATCH("/users/:email/reactivate", handlers.User.ReactivateUser)
	}

	return router
}
