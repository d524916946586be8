// Package routes wires the HTTP endpoints to their controllers.
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/dkravchenko/schoolfood/internal/app/controllers"
	"github.com/dkravchenko/schoolfood/internal/app/models"
	"github.com/dkravchenko/schoolfood/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	studentController *controllers.StudentController,
	paymentController *controllers.PaymentController,
	healthController *controllers.HealthController,
	authMiddleware *middleware.AuthMiddleware,
) {
	api := router.Group("/api")

	// --- Public routes ---
	api.GET("/health", healthController.Check)
	api.POST("/admin/login", authController.LoginAdmin)
	api.POST("/parent/login", authController.LoginGuardian)
	api.GET("/student/login/:studentCode", authController.LoginStudent)

	// --- Authenticated routes ---
	authenticated := api.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		// Admin-only routes
		adminProtected := authenticated.Group("")
		adminProtected.Use(authMiddleware.RoleRequired(models.RoleAdmin))
		{
			adminProtected.GET("/students", studentController.ListStudents)
			adminProtected.POST("/payments", paymentController.CreatePayment)
		}

		// Guardian-only routes
		guardianProtected := authenticated.Group("")
		guardianProtected.Use(authMiddleware.RoleRequired(models.RoleGuardian))
		{
			guardianProtected.GET("/parent/students", studentController.ListGuardianStudents)
		}

		// Per-student routes gated by the authorization service, so each
		// role sees exactly the students its policy allows.
		authenticated.GET("/students/:id/payments", studentController.GetStudentPayments)
		authenticated.GET("/students/:id/balance", studentController.GetStudentBalance)
	}
}
