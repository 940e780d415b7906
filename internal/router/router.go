// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/jaddid/marketplace-backend/internal/config"
	"github.com/jaddid/marketplace-backend/internal/handlers"
	"github.com/jaddid/marketplace-backend/internal/middleware"
	"github.com/jaddid/marketplace-backend/internal/services"
	"github.com/jaddid/marketplace-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	storageService, _ := services.NewStorageService(cfg)

	authService := services.NewAuthService(db, cfg)
	userService := services.NewUserService(db)
	catalogService := services.NewCatalogService(db)
	productService := services.NewProductService(db)
	listingService := services.NewListingService(db)
	favoriteService := services.NewFavoriteService(db)
	cartService := services.NewCartService(db)
	orderService := services.NewOrderService(db)
	reviewService := services.NewReviewService(db)
	messageService := services.NewMessageService(db)
	reportService := services.NewReportService(db)
	paymentService := services.NewPaymentService(db, cfg)
	adminService := services.NewAdminService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService, storageService)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	productHandler := handlers.NewProductHandler(productService, storageService)
	listingHandler := handlers.NewListingHandler(listingService, storageService)
	favoriteHandler := handlers.NewFavoriteHandler(favoriteService)
	cartHandler := handlers.NewCartHandler(cartService)
	orderHandler := handlers.NewOrderHandler(orderService)
	reviewHandler := handlers.NewReviewHandler(reviewService)
	messageHandler := handlers.NewMessageHandler(messageService)
	reportHandler := handlers.NewReportHandler(reportService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	adminHandler := handlers.NewAdminHandler(adminService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.Frontend.BaseURL))
	r.Use(middleware.I18nMiddleware())
	r.Use(middleware.GeneralRateLimit())
	r.Use(middleware.AuditLogMiddleware(db))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", middleware.AuthRequired(), authHandler.Logout)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.POST("/change-password", middleware.AuthRequired(), authHandler.ChangePassword)
			auth.GET("/me", middleware.AuthRequired(), authHandler.Me)
		}

		// User routes
		users := v1.Group("/users")
		{
			users.GET("", userHandler.ListUsers)
			users.GET("/roles", userHandler.GetRoleChoices)
			users.GET("/:id", userHandler.GetUser)
		}

		// Own profile routes
		profile := v1.Group("/profile")
		profile.Use(middleware.AuthRequired())
		{
			profile.PUT("", userHandler.UpdateProfile)
			profile.DELETE("", userHandler.DeactivateAccount)
			profile.POST("/image", middleware.UploadRateLimit(), userHandler.UploadProfileImage)
			profile.DELETE("/image", userHandler.DeleteProfileImage)
		}

		// Catalog routes (public reads, admin writes)
		categories := v1.Group("/categories")
		{
			categories.GET("", catalogHandler.GetCategories)
			categories.GET("/tree", catalogHandler.GetCategoryTree)
			categories.GET("/:id", catalogHandler.GetCategory)
		}

		materials := v1.Group("/materials")
		{
			materials.GET("", catalogHandler.GetMaterials)
			materials.GET("/:id", catalogHandler.GetMaterial)
		}

		// Product routes
		products := v1.Group("/products")
		{
			products.GET("", middleware.OptionalAuth(), productHandler.GetProducts)
			products.GET("/:id", middleware.OptionalAuth(), productHandler.GetProduct)

			// Authenticated routes
			protected := products.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.GET("/mine", productHandler.GetMyProducts)
				protected.POST("", productHandler.CreateProduct)
				protected.PUT("/:id", productHandler.UpdateProduct)
				protected.DELETE("/:id", productHandler.DeleteProduct)
				protected.POST("/:id/publish", productHandler.PublishProduct)
				protected.POST("/upload-images", middleware.UploadRateLimit(), productHandler.UploadProductImages)
			}
		}

		// Material listing routes
		listings := v1.Group("/listings")
		{
			listings.GET("", middleware.OptionalAuth(), listingHandler.GetListings)
			listings.GET("/:id", middleware.OptionalAuth(), listingHandler.GetListing)

			protected := listings.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.GET("/mine", listingHandler.GetMyListings)
				protected.POST("", listingHandler.CreateListing)
				protected.PUT("/:id", listingHandler.UpdateListing)
				protected.DELETE("/:id", listingHandler.DeleteListing)
				protected.POST("/:id/publish", listingHandler.PublishListing)
			}
		}

		// Favorite routes
		favorites := v1.Group("/favorites")
		favorites.Use(middleware.AuthRequired())
		{
			favorites.GET("", favoriteHandler.GetFavorites)
			favorites.POST("/toggle", favoriteHandler.ToggleFavorite)
		}

		// Cart routes
		cart := v1.Group("/cart")
		cart.Use(middleware.AuthRequired())
		{
			cart.GET("", cartHandler.GetCart)
			cart.DELETE("", cartHandler.ClearCart)
			cart.POST("/items", cartHandler.AddItem)
			cart.PUT("/items/:id", cartHandler.UpdateItem)
			cart.DELETE("/items/:id", cartHandler.RemoveItem)
		}

		// Order routes
		orders := v1.Group("/orders")
		orders.Use(middleware.AuthRequired())
		{
			orders.POST("", orderHandler.CreateOrder)
			orders.GET("/purchases", orderHandler.GetPurchases)
			orders.GET("/sales", orderHandler.GetSales)
			orders.GET("/:id", orderHandler.GetOrder)
			orders.POST("/:id/confirm", orderHandler.ConfirmOrder)
			orders.POST("/:id/start", orderHandler.StartProgress)
			orders.POST("/:id/complete", orderHandler.CompleteOrder)
			orders.POST("/:id/cancel", orderHandler.CancelOrder)
		}

		// Review routes
		reviews := v1.Group("/reviews")
		{
			reviews.GET("", reviewHandler.GetItemReviews)

			protected := reviews.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.POST("", reviewHandler.CreateReview)
				protected.GET("/mine", reviewHandler.GetMyReviews)
			}
		}

		// Message routes
		messages := v1.Group("/messages")
		messages.Use(middleware.AuthRequired())
		{
			messages.POST("", messageHandler.SendMessage)
			messages.GET("/inbox", messageHandler.GetInbox)
			messages.GET("/sent", messageHandler.GetSent)
			messages.GET("/unread-count", messageHandler.GetUnreadCount)
			messages.POST("/:id/read", messageHandler.MarkRead)
		}

		// Report routes
		reports := v1.Group("/reports")
		reports.Use(middleware.AuthRequired())
		{
			reports.POST("", reportHandler.CreateReport)
			reports.GET("/mine", reportHandler.GetMyReports)
		}

		// Payment routes
		payments := v1.Group("/payments")
		payments.Use(middleware.AuthRequired())
		{
			payments.POST("/intent", paymentHandler.CreatePaymentIntent)
			payments.POST("/confirm", paymentHandler.ConfirmPayment)
		}

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			dashboard := admin.Group("/dashboard")
			{
				dashboard.GET("/stats", adminHandler.GetDashboardStats)
			}

			adminUsers := admin.Group("/users")
			{
				adminUsers.GET("", adminHandler.GetUsers)
				adminUsers.PUT("/:id", adminHandler.UpdateUser)
			}

			adminCategories := admin.Group("/categories")
			{
				adminCategories.POST("", catalogHandler.CreateCategory)
				adminCategories.PUT("/:id", catalogHandler.UpdateCategory)
				adminCategories.DELETE("/:id", catalogHandler.DeleteCategory)
			}

			adminMaterials := admin.Group("/materials")
			{
				adminMaterials.POST("", catalogHandler.CreateMaterial)
				adminMaterials.PUT("/:id", catalogHandler.UpdateMaterial)
				adminMaterials.DELETE("/:id", catalogHandler.DeleteMaterial)
			}

			adminReports := admin.Group("/reports")
			{
				adminReports.GET("", reportHandler.GetReports)
				adminReports.PUT("/:id", reportHandler.ResolveReport)
			}

			admin.POST("/payments/refund", paymentHandler.ProcessRefund)
		}
	}

	// Static file serving (for development)
	if cfg.Environment == "development" {
		r.Static("/uploads", "./uploads")
	}

	return r
}
