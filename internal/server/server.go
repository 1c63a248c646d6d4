package server

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/gamevault/backend/internal/database"
	"github.com/emilythestrangee/gamevault/backend/internal/handlers"
	"github.com/emilythestrangee/gamevault/backend/internal/middleware"
)

type Server struct {
	db      database.Service
	handler *handlers.Handler
}

// NewServer creates and configures a new server
func NewServer() *http.Server {
	// Legacy databases get their additive columns before gorm takes over
	legacy, err := database.NewDatabase()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	if err := legacy.MigrateLegacy(); err != nil {
		log.Fatalf("Failed to migrate legacy schema: %v", err)
	}
	legacy.Close()

	db := database.New()
	handler := handlers.NewHandler(db.GetDB())

	newServer := &Server{
		db:      db,
		handler: handler,
	}

	for _, dir := range []string{"static/uploads", "static/uploads/setups"} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatalf("Failed to create upload directory %s: %v", dir, err)
		}
	}

	// Configure Gin router
	router := newServer.RegisterRoutes()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080" // local dev fallback
	}

	server := &http.Server{
		Addr:         "0.0.0.0:" + port,
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Printf("🚀 Server starting on port %s\n", port)
	fmt.Println("📝 Press Ctrl+C to stop the server")

	return server
}

// RegisterRoutes sets up all application routes
func (s *Server) RegisterRoutes() *gin.Engine {
	r := gin.Default()

	// CORS configuration
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * 3600,
	}))

	r.Static("/static", "./static")

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.db.Health())
	})

	gormDB := s.db.GetDB()

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		api.POST("/register", s.handler.Auth.Register)
		api.POST("/login", s.handler.Auth.Login)

		// Catalog routes (public reads; game detail surfaces the
		// caller's own review when a token is sent)
		api.GET("/games", s.handler.Game.GetGames)
		api.GET("/games/:id", middleware.OptionalAuth(), s.handler.Game.GetGame)
		api.GET("/reviews/:id/comments", s.handler.Review.GetReviewComments)

		// Community routes (public reads)
		api.GET("/setups", s.handler.Setup.GetSetups)
		api.GET("/leaderboard", s.handler.User.Leaderboard)

		// Protected routes (authentication required; the ban gate also
		// runs the inline ban-expiry and overdue sweeps)
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(), middleware.BanGate(gormDB))
		{
			protected.GET("/me", s.handler.Auth.GetMe)
			protected.POST("/logout", s.handler.Auth.Logout)
			protected.GET("/ban-notice", s.handler.Auth.BanNotice)

			protected.GET("/profile", s.handler.User.GetProfile)
			protected.PUT("/profile", s.handler.User.UpdateProfile)

			protected.GET("/notifications", s.handler.Notification.GetNotifications)
			protected.POST("/notifications/read", s.handler.Notification.MarkNotificationsRead)

			// Owner-or-admin checks happen in the handlers
			protected.PUT("/setups/:id", s.handler.Setup.UpdateSetup)
			protected.DELETE("/setups/:id", s.handler.Setup.DeleteSetup)

			// Storefront actions are for consumer accounts only
			consumer := protected.Group("")
			consumer.Use(middleware.RequireConsumer())
			{
				consumer.POST("/cart/:id", s.handler.Cart.AddToCart)
				consumer.GET("/cart", s.handler.Cart.GetCart)
				consumer.DELETE("/cart/:id", s.handler.Cart.RemoveFromCart)
				consumer.POST("/checkout", s.handler.Cart.Checkout)
				consumer.GET("/purchases", s.handler.Cart.GetPurchases)

				consumer.GET("/vouchers", s.handler.Cart.GetVouchers)
				consumer.POST("/vouchers/redeem", s.handler.Cart.RedeemVoucher)

				consumer.POST("/games/:id/review", s.handler.Review.ReviewGame)
				consumer.POST("/reviews/vote", s.handler.Review.VoteReview)
				consumer.POST("/reviews/comment", s.handler.Review.CommentReview)

				consumer.GET("/lendings", s.handler.Lending.GetLendings)
				consumer.POST("/games/:id/lend", s.handler.Lending.LendGame)
				consumer.POST("/lendings/:id/borrow", s.handler.Lending.BorrowGame)
				consumer.POST("/lendings/:id/return", s.handler.Lending.ReturnGame)
				consumer.DELETE("/lendings/:id", s.handler.Lending.DeleteLending)

				consumer.POST("/setups", s.handler.Setup.CreateSetup)
				consumer.POST("/setups/vote", s.handler.Setup.VoteSetup)

				consumer.POST("/games/:id/notify-request", s.handler.Game.RequestNotify)
				consumer.GET("/recommendations", s.handler.User.Recommendations)
			}

			// Admin console
			admin := protected.Group("/admin")
			admin.Use(middleware.RequireAdmin())
			{
				admin.GET("", s.handler.Admin.Dashboard)
				admin.POST("/games", s.handler.Admin.AddGame)
				admin.PUT("/games/:id", s.handler.Admin.UpdateGame)
				admin.POST("/users/:id/ban", s.handler.Admin.BanUser)
				admin.POST("/users/:id/unban", s.handler.Admin.UnbanUser)
				admin.GET("/notifications", s.handler.Admin.GetAdminNotifications)
				admin.POST("/notifications/read", s.handler.Admin.MarkAdminNotificationsRead)
			}
		}
	}

	return r
}
