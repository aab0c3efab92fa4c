package router

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/skillswap-backend/internal/config"
	"github.com/ignatzorin/skillswap-backend/internal/http/middleware"
	"github.com/ignatzorin/skillswap-backend/internal/interface/http/handler"
)

// Handlers собирает все обработчики API.
type Handlers struct {
	Health       *handler.HealthHandler
	Profile      *handler.ProfileHandler
	Endorsement  *handler.EndorsementHandler
	Badge        *handler.BadgeHandler
	Karma        *handler.KarmaHandler
	Request      *handler.RequestHandler
	Chat         *handler.ChatHandler
	Notification *handler.NotificationHandler
	Testimonial  *handler.TestimonialHandler
	AI           *handler.AIHandler
	WS           *handler.WSHandler
}

func SetupRouter(cfg *config.Config, h Handlers, authn *middleware.Authenticator) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	r.GET("/health", h.Health.Health)

	api := r.Group("/api")

	// Публичные маршруты
	public := api.Group("")
	public.Use(authn.Optional())
	{
		public.GET("/badges", h.Badge.Catalog)
		public.GET("/leaderboard", h.Karma.Leaderboard)
		public.GET("/requests", h.Request.ListRequests)
		public.GET("/requests/:id", middleware.UUIDValidator("id"), h.Request.GetRequest)
		public.GET("/users/:id", middleware.UUIDValidator("id"), h.Profile.GetUser)
		public.GET("/users/:id/karma", middleware.UUIDValidator("id"), h.Karma.GetKarma)
	}
	api.GET("/ws", h.WS.Handle)

	protected := api.Group("")
	protected.Use(authn.Required())

	authGroup := protected.Group("/auth")
	authGroup.Use(middleware.RateLimit("auth", cfg.RateLimitLimit, cfg.RateLimitPeriod))
	{
		authGroup.POST("/session", h.Profile.Session)
	}

	profile := protected.Group("/profile")
	{
		profile.GET("", h.Profile.GetMe)
		profile.PUT("", h.Profile.UpdateMe)
		profile.POST("/skills", h.Profile.AddSkill)
		profile.DELETE("/skills/:name", h.Profile.RemoveSkill)
	}

	users := protected.Group("/users/:id", middleware.UUIDValidator("id"))
	{
		users.POST("/skills/:name/endorse", h.Endorsement.Endorse)
		users.DELETE("/skills/:name/endorse", h.Endorsement.Revoke)
		users.GET("/badges/progress", h.Badge.Progress)
		users.POST("/badges/:badgeId", h.Badge.Grant)
	}

	protected.POST("/requests", h.Request.CreateRequest)
	protected.GET("/requests/my", h.Request.ListMyRequests)
	protected.GET("/contributions/my", h.Request.ListMyContributions)

	requests := protected.Group("/requests/:id", middleware.UUIDValidator("id"))
	{
		requests.POST("/offers", h.Request.SubmitOffer)
		requests.GET("/offers", h.Request.ListOffers)
		requests.POST("/offers/:offerId/accept", middleware.UUIDValidator("offerId"), h.Request.AcceptOffer)
		requests.POST("/offers/:offerId/reject", middleware.UUIDValidator("offerId"), h.Request.RejectOffer)
		requests.POST("/complete", h.Request.Complete)
	}

	chats := protected.Group("/chats")
	{
		chats.POST("", h.Chat.GetOrCreate)
		chats.GET("", h.Chat.ListMyChats)
		chats.GET("/:id/messages", middleware.UUIDValidator("id"), h.Chat.ListMessages)
		chats.POST("/:id/messages", middleware.UUIDValidator("id"), h.Chat.SendMessage)
		chats.POST("/:id/read", middleware.UUIDValidator("id"), h.Chat.MarkRead)
	}

	notifications := protected.Group("/notifications")
	{
		notifications.GET("", h.Notification.List)
		notifications.GET("/unread/count", h.Notification.UnreadCount)
		notifications.PUT("/read-all", h.Notification.MarkAllRead)
		notifications.PUT("/:id/read", middleware.UUIDValidator("id"), h.Notification.MarkRead)
		notifications.DELETE("/:id", middleware.UUIDValidator("id"), h.Notification.Delete)
	}

	testimonials := protected.Group("/testimonials")
	{
		testimonials.POST("", h.Testimonial.Create)
		testimonials.POST("/:id/approve", middleware.UUIDValidator("id"), h.Testimonial.Approve)
		testimonials.DELETE("/:id", middleware.UUIDValidator("id"), h.Testimonial.Delete)
	}

	aiGroup := protected.Group("/ai")
	aiGroup.Use(middleware.RateLimit("ai", cfg.AIRateLimit, cfg.RateLimitPeriod))
	{
		aiGroup.POST("/tags", h.AI.SuggestTags)
		aiGroup.POST("/tips", h.AI.ClarityTips)
		aiGroup.POST("/quality", h.AI.QualityScore)
		aiGroup.POST("/enhance", h.AI.EnhanceDescription)
	}

	protected.POST("/admin/karma", h.Karma.Award)

	return r
}
