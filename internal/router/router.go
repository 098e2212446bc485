package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lifeblood-dev/lifeblood/internal/handlers"
	"github.com/lifeblood-dev/lifeblood/internal/middleware"
	"github.com/lifeblood-dev/lifeblood/internal/types"
)

type Handlers struct {
	Auth     *handlers.AuthHandler
	Requests *handlers.RequestHandler
	Admin    *handlers.AdminHandler
	Donors   *handlers.DonorHandler
	Chat     *handlers.ChatHandler
	WS       *handlers.WSHandler
}

func NewRouter(h Handlers) *gin.Engine {
	r := gin.Default()

	// Add CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)
		api.GET("/ws", h.WS.WebSocket)

		auth := api.Group("/auth")
		{
			auth.POST("/send-otp", h.Auth.SendOtp)
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
			auth.GET("/me", middleware.AuthMiddleware(), h.Auth.Me)
			auth.POST("/logout", middleware.AuthMiddleware(), h.Auth.Logout)
		}

		requests := api.Group("/requests", middleware.AuthMiddleware())
		{
			requests.POST("", h.Requests.Create)
			requests.GET("/mine", h.Requests.Mine)
		}

		admin := api.Group("/admin", middleware.AuthMiddleware(), middleware.AdminRequired())
		{
			admin.GET("/requests/pending", h.Admin.Pending)
			admin.PUT("/requests/:id/approve", h.Admin.Approve)
			admin.PUT("/requests/:id/reject", h.Admin.Reject)
		}

		donors := api.Group("/donors", middleware.AuthMiddleware())
		{
			donors.POST("/register", h.Donors.Register)
			donors.PUT("/status", h.Donors.UpdateStatus)
			donors.GET("/search", h.Donors.Search)
			donors.GET("/profile", h.Donors.Profile)
		}

		chat := api.Group("/chat", middleware.AuthMiddleware())
		{
			chat.GET("/conversations", h.Chat.Conversations)
			chat.GET("/messages/:request_id", h.Chat.History)
		}
	}

	return r
}
