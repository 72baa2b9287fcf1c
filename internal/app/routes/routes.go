package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/coursedesk/internal/app/controllers"
	"github.com/yigit/coursedesk/internal/middleware"
)

// SetupRouter configures all application routes. When authMiddleware is nil
// the write routes are public.
func SetupRouter(
	router *gin.Engine,
	courseController *controllers.CourseController,
	healthController *controllers.HealthController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// Course routes; reads are always public
	courses := v1.Group("/courses")
	{
		courses.GET("/", courseController.ListCourses)
		courses.GET("/:id/", courseController.GetCourseByID)
	}

	coursesWrite := courses.Group("")
	if authMiddleware != nil {
		coursesWrite.Use(authMiddleware.JWTAuth())
	}
	{
		coursesWrite.POST("/", courseController.CreateCourse)
		coursesWrite.PUT("/:id/", courseController.UpdateCourse)
		coursesWrite.PATCH("/:id/", courseController.PatchCourse)
		coursesWrite.DELETE("/:id/", courseController.DeleteCourse)
	}

	// Health check endpoint (public)
	v1.GET("/health", healthController.Health)
}
