package router

import (
	"github.com/cuongbtq/job-board/internal/api/auth"
	"github.com/cuongbtq/job-board/internal/api/domain"
	"github.com/cuongbtq/job-board/internal/api/handler"
	"github.com/cuongbtq/job-board/internal/api/intake"
	"github.com/gin-gonic/gin"
)

// ResumeField is the multipart field holding the applicant's resume
const ResumeField = "resume"

// SetupRouter configures and returns the Gin router with all routes
func SetupRouter(deps *handler.Dependencies, verifier auth.Verifier, uploads *intake.Intake) *gin.Engine {
	r := gin.New()

	// Middleware
	r.Use(gin.Recovery())
	r.Use(LoggerMiddleware(deps.Logger))
	r.Use(CORSMiddleware())

	health := handler.NewHealthHandler(deps)
	jobHandler := handler.NewJobHandler(deps)
	applyHandler := handler.NewApplicationHandler(deps)
	feedbackHandler := handler.NewFeedbackHandler(deps)

	r.GET("/", health.Root)
	r.GET("/health", health.Health)

	// POST /submit-feedback - public feedback form
	r.POST("/submit-feedback", feedbackHandler.SubmitFeedback)

	jobs := r.Group("/api/jobs", auth.Authenticate(verifier, deps.Logger))
	{
		// POST /api/jobs - Create a new job
		jobs.POST("", jobHandler.CreateJob)

		// GET /api/jobs - List jobs, optionally one page at a time
		jobs.GET("", jobHandler.ListJobs)

		// GET /api/jobs/:id - Get job details
		jobs.GET("/:id", jobHandler.GetJob)

		// PUT /api/jobs/:id - Update the fields present in the body
		jobs.PUT("/:id", jobHandler.UpdateJob)

		// DELETE /api/jobs/:id - Delete a job, admins only
		jobs.DELETE("/:id", auth.RequireRole(deps.Logger, domain.RoleAdmin), jobHandler.DeleteJob)

		// POST /api/jobs/apply/:jobId - Apply with a PDF resume
		jobs.POST("/apply/:jobId", uploads.SingleDocument(ResumeField), applyHandler.Apply)
	}

	return r
}
