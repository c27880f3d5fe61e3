package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/formworks/form-server/blob"
	"github.com/formworks/form-server/controllers"
	"github.com/formworks/form-server/middleware"
	"github.com/formworks/form-server/store"
)

// Setup wires every route group against the shared store and blob storage.
func Setup(r *gin.Engine, st store.Store, bl blob.Storage) {
	forms := controllers.NewFormController(st)
	public := controllers.NewPublicController(st, bl)
	review := controllers.NewReviewController(st)
	export := controllers.NewExportController(st)
	health := controllers.NewHealthController(st)

	r.GET("/health", health.Check)

	api := r.Group("/api")
	{
		// builder draft helper
		api.POST("/fields", forms.NewField)

		fg := api.Group("/forms")
		{
			fg.POST("", middleware.RateLimitFormCommit(), forms.Create)
			fg.GET("", forms.List)
			fg.GET("/:id", forms.Get)
			fg.PUT("/:id", forms.Update)
			fg.PATCH("/:id/active", forms.ToggleActive)
			fg.DELETE("/:id", forms.Delete)

			fg.GET("/:id/submissions", review.List)
			fg.GET("/:id/submissions/:subID", review.Detail)
			fg.DELETE("/:id/submissions/:subID", review.Delete)
			fg.GET("/:id/stats", review.Stats)
			fg.GET("/:id/export", export.Download)
		}

		pg := api.Group("/public/forms")
		{
			pg.GET("/:slug", public.GetForm)
			pg.POST("/:slug/submissions", middleware.RateLimitSubmission(), public.Submit)
		}
	}
}
