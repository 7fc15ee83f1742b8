package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"opphub/internal/authz"
	"opphub/internal/handlers"
	"opphub/internal/middleware"
)

func SetupRoutes(
	r *gin.Engine,
	jwtSecret []byte,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	opportunityHandler *handlers.OpportunityHandler,
	applicationHandler *handlers.ApplicationHandler,
	lookupHandler *handlers.LookupHandler,
	reportHandler *handlers.ReportHandler,
	integrationsHandler *handlers.IntegrationsHandler, // nil when no bot token
) *gin.Engine {

	// ---- public
	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.POST("/login", authHandler.Login)
	r.POST("/register", authHandler.Register)
	r.GET("/api/lookup/:code_type", lookupHandler.ByCodeType)
	r.GET("/api/lookup/:code_type/enumerations", lookupHandler.ApplicationEnumerations)

	if integrationsHandler != nil {
		r.POST("/integrations/telegram/webhook", integrationsHandler.Webhook)
	}

	// ---- protected
	r.Use(middleware.AuthMiddleware(jwtSecret))

	if integrationsHandler != nil {
		integr := r.Group("/api/integrations")
		{
			integr.POST("/telegram/request-link", integrationsHandler.RequestTelegramLink)
		}
	}

	users := r.Group("/api/users")
	{
		users.GET("/me", userHandler.Me)
		users.GET("/:id", userHandler.GetByID)
	}

	opportunities := r.Group("/api/opportunities")
	{
		opportunities.POST("", opportunityHandler.Create)
		opportunities.GET("", opportunityHandler.List)
		opportunities.GET("/:id", opportunityHandler.GetByID)
		opportunities.PUT("/:id", opportunityHandler.Update)
		opportunities.DELETE("/:id", opportunityHandler.Delete)
		opportunities.PUT("/:id/state", opportunityHandler.UpdateState)
		opportunities.POST("/:id/publish", opportunityHandler.Publish)
		opportunities.POST("/:id/copy", opportunityHandler.Copy)
	}

	applications := r.Group("/api/applications")
	{
		applications.POST("/apply", applicationHandler.Apply)
		applications.GET("/:id", applicationHandler.GetByID)
		applications.DELETE("/:id/tasks/:task_id", applicationHandler.DeleteTaskSelection)
		applications.POST("/:id/tasks/swap", applicationHandler.SwapTaskOrder)
		applications.PUT("/:id/skills", applicationHandler.SaveSkills)
	}

	// REPORTS (agency admins and admins)
	reports := r.Group("/api/reports",
		middleware.RequireRoles(authz.RoleAgencyAdmin, authz.RoleAdmin),
	)
	{
		reports.GET("/communities/:community_id/digest", reportHandler.CommunityDigest)
	}

	return r
}
