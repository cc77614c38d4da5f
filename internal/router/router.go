package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/parikshahq/pariksha-backend/internal/config"
	"github.com/parikshahq/pariksha-backend/internal/handler"
	"github.com/parikshahq/pariksha-backend/internal/middleware"
	"github.com/parikshahq/pariksha-backend/internal/response"
	"github.com/parikshahq/pariksha-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth          *handler.AuthHandler
	StudentPortal *handler.StudentPortalHandler
	Monitor       *handler.MonitorHandler
	Course        *handler.CourseHandler
	Subject       *handler.SubjectHandler
	Exam          *handler.ExamHandler
	Question      *handler.QuestionHandler
	Staff         *handler.StaffHandler
	Result        *handler.ResultHandler
	Dashboard     *handler.DashboardHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

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

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/signup", handlers.Auth.Signup)
		auth.POST("/login", handlers.Auth.Login)

		// Authenticated profile routes
		auth.POST("/logout", middleware.RequireAuth(authService), handlers.Auth.Logout)
		auth.GET("/me", middleware.RequireAuth(authService), handlers.Auth.Me)
	}

	// ─── 2. Student Group (JWT + Single Device) ────────────────────────
	student := router.Group("/student")
	student.Use(
		middleware.RequireStudentJWT(authService),
		middleware.CheckSingleDeviceSession(authService),
	)
	{
		student.GET("/exams", handlers.StudentPortal.ListExams)
		student.GET("/results", handlers.StudentPortal.History)
		student.GET("/exam/quit", handlers.StudentPortal.QuitExam)
		student.GET("/exam/:exam_id/start", handlers.StudentPortal.StartExam)
		student.GET("/exam/:exam_id/attempt", handlers.StudentPortal.AttemptExam)
		student.PUT("/exam/:exam_id/answers", handlers.StudentPortal.SaveAnswers)
		student.POST("/exam/:exam_id/submit", handlers.StudentPortal.SubmitExam)
	}

	// ─── 3. Monitoring (Any Authenticated User) ────────────────────────
	monitor := router.Group("/api/monitor")
	monitor.Use(middleware.RequireAuth(authService))
	{
		monitor.POST("/log", handlers.Monitor.LogEvent)
	}

	// ─── 4. Admin Group (Staff JWT) ────────────────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(middleware.RequireAdminJWT(authService))
	{
		adminAPI.GET("/dashboard", handlers.Dashboard.Summary)
		adminAPI.GET("/results", handlers.Result.ListResults)

		// Course management
		adminAPI.GET("/courses", handlers.Course.ListCourses)
		adminAPI.POST("/courses", handlers.Course.CreateCourse)
		adminAPI.PUT("/courses/:id", handlers.Course.UpdateCourse)
		adminAPI.DELETE("/courses/:id", handlers.Course.DeleteCourse)

		// Subject management
		adminAPI.GET("/subjects", handlers.Subject.ListSubjects)
		adminAPI.POST("/subjects", handlers.Subject.CreateSubject)
		adminAPI.PUT("/subjects/:id", handlers.Subject.UpdateSubject)
		adminAPI.DELETE("/subjects/:id", handlers.Subject.DeleteSubject)

		// Exam management
		adminAPI.GET("/exams", handlers.Exam.ListExams)
		adminAPI.POST("/exams", handlers.Exam.CreateExam)
		adminAPI.GET("/exams/:exam_id", handlers.Exam.GetExam)
		adminAPI.PUT("/exams/:exam_id", handlers.Exam.UpdateExam)
		adminAPI.DELETE("/exams/:exam_id", handlers.Exam.DeleteExam)
		adminAPI.POST("/exams/:exam_id/publish", handlers.Exam.PublishExam)
		adminAPI.GET("/exams/:exam_id/monitoring", handlers.Monitor.ListByExam)

		// Question management
		adminAPI.GET("/exams/:exam_id/questions", handlers.Question.ListQuestions)
		adminAPI.POST("/exams/:exam_id/questions", handlers.Question.AddQuestion)
		adminAPI.DELETE("/exams/:exam_id/questions", handlers.Question.DeleteAllQuestions)
		adminAPI.PUT("/exams/:exam_id/questions/:question_id", handlers.Question.UpdateQuestion)
		adminAPI.DELETE("/exams/:exam_id/questions/:question_id", handlers.Question.DeleteQuestion)
		adminAPI.POST("/exams/:exam_id/questions/import", handlers.Question.ImportQuestions)

		// Staff management (super admin only)
		staffGroup := adminAPI.Group("/staff")
		staffGroup.Use(middleware.RequireSuperAdmin())
		{
			staffGroup.GET("", handlers.Staff.ListStaff)
			staffGroup.POST("", handlers.Staff.CreateStaff)
			staffGroup.PATCH("/:id/status", handlers.Staff.ToggleStaffStatus)
		}
	}

	return router
}
