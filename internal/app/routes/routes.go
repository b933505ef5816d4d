package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/rankpredictor/internal/app/controllers"
	"github.com/yigit/rankpredictor/internal/app/models"
	"github.com/yigit/rankpredictor/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	predictionController *controllers.PredictionController,
	filterController *controllers.FilterController,
	catalogController *controllers.CatalogController,
	healthController *controllers.HealthController,
	authMiddleware *middleware.AuthMiddleware,
) {
	router.GET("/health", healthController.Health)
	router.GET("/ping", healthController.Ping)

	// API version group
	v1 := router.Group("/api/v1")

	v1.GET("/predictions", predictionController.Predict)
	v1.GET("/exams", filterController.ListExams)
	v1.GET("/rounds/order", filterController.GetRoundOrder)

	colleges := v1.Group("/colleges/:slug")
	{
		colleges.GET("/filters", filterController.GetCollegeFilters)
		colleges.GET("/exam-types", filterController.GetCollegeExamTypes)
	}

	// --- Operator routes ---
	admin := v1.Group("/admin")
	admin.Use(authMiddleware.JWTAuth(), authMiddleware.RoleRequired(models.RoleOperator))
	{
		admin.GET("/catalog/report", catalogController.Report)
		admin.POST("/catalog/validate", catalogController.Validate)
	}
}
