package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/nextforms/forms-server/controllers"
	"github.com/nextforms/forms-server/middleware"
)

func SetupRoutes(r *gin.Engine) {
	r.GET("/health", controllers.HealthCheck)

	api := r.Group("/api/v2")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", controllers.Register)
			auth.POST("/login", controllers.Login)
		}

		// Owner and share-holder surface.
		authed := api.Group("/")
		authed.Use(middleware.AuthJWT())
		{
			authed.GET("/forms", controllers.GetForms)
			authed.GET("/shared_forms", controllers.GetSharedForms)
			authed.POST("/form", middleware.RateLimitFormCreate(), controllers.CreateForm)
			authed.GET("/form/:id", controllers.GetForm)
			authed.PUT("/form/:id", controllers.UpdateForm)
			authed.DELETE("/form/:id", controllers.DeleteForm)

			authed.POST("/form/:id/question", controllers.AddQuestion)
			authed.DELETE("/question/:id", controllers.DeleteQuestion)

			authed.POST("/form/:id/share", controllers.AddShare)
			authed.DELETE("/share/:id", controllers.DeleteShare)

			authed.GET("/form/:id/submissions", controllers.GetSubmissions)
		}

		// Submitter surface: works with or without a session.
		api.GET("/form/link/:hash", middleware.OptionalAuth(), controllers.GetLinkForm)
		api.POST("/form/:id/submission", middleware.OptionalAuth(), controllers.SubmitForm)
	}
}
