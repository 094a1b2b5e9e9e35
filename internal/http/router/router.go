package router

import (
	"github.com/gin-gonic/gin"

	"github.com/casavia/estate-backend/internal/config"
	"github.com/casavia/estate-backend/internal/http/handlers"
	"github.com/casavia/estate-backend/internal/http/middleware"
	"github.com/casavia/estate-backend/internal/service"
)

// SetupRouter собирает все маршруты приложения.
func SetupRouter(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	propertyHandler *handlers.PropertyHandler,
	offerHandler *handlers.OfferHandler,
	delegationHandler *handlers.DelegationHandler,
	notificationHandler *handlers.NotificationHandler,
	wsHandler *handlers.WSHandler,
	healthHandler *handlers.HealthHandler,
	tokenManager *service.TokenManager,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Health)

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware(5, cfg.RateLimitPeriod))
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
		authGroup.POST("/logout", authHandler.Logout)
	}

	protectedAuth := api.Group("/auth")
	protectedAuth.Use(middleware.AuthMiddleware(tokenManager))
	{
		protectedAuth.GET("/sessions", authHandler.ListSessions)
		protectedAuth.DELETE("/sessions/:id", middleware.UUIDValidator("id"), authHandler.DeleteSession)
	}

	// Публичные маршруты
	api.GET("/ws", wsHandler.Handle)
	api.GET("/properties", propertyHandler.List)
	api.GET("/properties/:id", middleware.UUIDValidator("id"), propertyHandler.Get)

	// Защищённые маршруты
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(tokenManager))
	{
		protected.POST("/properties", propertyHandler.Create)
		protected.GET("/properties/mine", propertyHandler.Mine)
		protected.PATCH("/properties/:id/status", middleware.UUIDValidator("id"), propertyHandler.UpdateStatus)
		protected.POST("/properties/:id/offers", middleware.UUIDValidator("id"), offerHandler.Create)

		protected.GET("/offers/my", offerHandler.My)
		protected.GET("/offers/pending", offerHandler.Pending)
		protected.POST("/offers/:id/response", middleware.UUIDValidator("id"), offerHandler.Respond)
		protected.GET("/offers/:id/history", middleware.UUIDValidator("id"), offerHandler.History)

		protected.POST("/delegations", delegationHandler.Create)
		protected.GET("/delegations", delegationHandler.List)
		protected.DELETE("/delegations/:manager_id", middleware.UUIDValidator("manager_id"), delegationHandler.Delete)

		protected.GET("/notifications", notificationHandler.List)
		protected.GET("/notifications/unread-count", notificationHandler.CountUnread)
		protected.POST("/notifications/read-all", notificationHandler.MarkAllRead)
		protected.POST("/notifications/:id/read", middleware.UUIDValidator("id"), notificationHandler.MarkRead)
	}

	return r
}
