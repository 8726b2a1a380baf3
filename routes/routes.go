package routes

import (
	"net/http"
	"time"

	"pawhaven/handlers"
	"pawhaven/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterClientRoutes registers pet-owner endpoints.
func RegisterClientRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/clients")
	{
		api.POST("/register", hb.Client.RegisterClientHandler)
		api.POST("/login", hb.Client.AuthenticateClientHandler)

		// Protected routes (Require Authentication)
		api.Use(middleware.JWTAuthClientMiddleware(hb.ClientRepo))
		api.POST("/logout", hb.Client.SignOutClientHandler)
		api.GET("/me", hb.Client.GetClientHandler)
		api.PATCH("/me", hb.Client.UpdateClientHandler)
		api.DELETE("/me", hb.Client.DeleteClientHandler)
		api.PUT("/me/fcm-token", hb.Client.UpdateClientFCMTokenHandler)
		api.POST("/me/pets", hb.Client.AddPetHandler)
		api.PUT("/me/pets/:petID", hb.Client.UpdatePetHandler)
		api.DELETE("/me/pets/:petID", hb.Client.RemovePetHandler)
	}
}

// RegisterContractorRoutes registers care-provider endpoints.
func RegisterContractorRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/contractors")
	{
		api.POST("/register", hb.Contractor.RegisterContractorHandler)
		api.POST("/login", hb.Contractor.AuthenticateContractorHandler)

		// Public profile browsing requires a signed-in client.
		api.GET("/id/:contractorID", middleware.JWTAuthClientMiddleware(hb.ClientRepo), hb.Contractor.GetContractorProfileHandler)

		protected := api.Group("")
		protected.Use(middleware.JWTAuthContractorMiddleware(hb.ContractorRepo))
		protected.POST("/logout", hb.Contractor.SignOutContractorHandler)
		protected.GET("/me", hb.Contractor.GetContractorHandler)
		protected.PATCH("/me", hb.Contractor.UpdateContractorHandler)
		protected.DELETE("/me", hb.Contractor.DeleteContractorHandler)
		protected.PUT("/me/fcm-token", hb.Contractor.UpdateContractorFCMTokenHandler)
		protected.PUT("/me/offerings", hb.Contractor.SetOfferingHandler)
		protected.DELETE("/me/offerings/:serviceType", hb.Contractor.RemoveOfferingHandler)
		protected.POST("/me/payouts/onboarding", hb.Contractor.StartPayoutOnboardingHandler)
		protected.GET("/me/payouts/status", hb.Contractor.PayoutStatusHandler)
	}
}

// RegisterBookingRoutes sets up the booking lifecycle endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	clientGroup := r.Group("/api/bookings")
	{
		clientGroup.Use(middleware.JWTAuthClientMiddleware(hb.ClientRepo))
		clientGroup.POST("", hb.Booking.RequestBookingHandler)
		clientGroup.GET("", hb.Booking.ListClientBookingsHandler)
		clientGroup.GET("/:bookingID", hb.Booking.GetBookingHandler)
		clientGroup.PATCH("/:bookingID", hb.Booking.EditBookingHandler)
		clientGroup.POST("/:bookingID/complete", hb.Booking.CompleteBookingHandler)
		clientGroup.POST("/:bookingID/cancel", hb.Booking.CancelBookingHandler)
	}

	contractorGroup := r.Group("/api/contractor-bookings")
	{
		contractorGroup.Use(middleware.JWTAuthContractorMiddleware(hb.ContractorRepo))
		contractorGroup.GET("", hb.Booking.ListContractorBookingsHandler)
		contractorGroup.GET("/:bookingID", hb.Booking.GetBookingHandler)
		contractorGroup.POST("/:bookingID/approve", hb.Booking.ApproveBookingHandler)
		contractorGroup.POST("/:bookingID/complete", hb.Booking.CompleteBookingHandler)
		contractorGroup.POST("/:bookingID/cancel", hb.Booking.CancelBookingHandler)
	}
}

// RegisterPaymentRoutes sets up the payment-intent endpoints. These back the
// in-app payment sheet; the booking endpoints drive them for normal flows.
func RegisterPaymentRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/payments")
	{
		api.Use(middleware.JWTAuthClientMiddleware(hb.ClientRepo))
		api.POST("/intents", hb.Payment.CreateIntentHandler)
		api.PUT("/intents/:intentID", hb.Payment.UpdateIntentHandler)
		api.POST("/intents/:intentID/cancel", hb.Payment.CancelIntentHandler)
	}
}

// RegisterAdminRoutes sets up endpoints for back-office operations.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	adminGroup := r.Group("/api/admin")
	{
		adminGroup.Use(middleware.JWTAuthAdminMiddleware())
		adminGroup.GET("/clients", hb.Admin.GetAllClientsHandler)
		adminGroup.GET("/contractors", hb.Admin.GetAllContractorsHandler)
		adminGroup.POST("/clients/:clientID/ban", hb.Admin.BanClientHandler)
		adminGroup.POST("/contractors/:contractorID/ban", hb.Admin.BanContractorHandler)
		adminGroup.GET("/earnings", hb.Admin.PlatformEarningsHandler)
		adminGroup.POST("/bookings/:bookingID/capture", hb.Payment.CaptureHandler)
	}

	// Legal documents are public.
	r.GET("/api/legal", hb.Admin.GetLegalSectionsHandler)
}

// RegisterStorageRoutes sets up media upload endpoints.
func RegisterStorageRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/storage")
	{
		api.Use(middleware.JWTAuthClientMiddleware(hb.ClientRepo))
		api.POST("/upload/:bucket", hb.Storage.UploadFileHandler)
		api.GET("/url/:publicID", hb.Storage.GetDownloadURLHandler)
	}

	verification := r.Group("/api/storage/verification")
	{
		verification.Use(middleware.JWTAuthContractorMiddleware(hb.ContractorRepo))
		verification.POST("/upload", hb.Storage.UploadVerificationHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm PawHaven"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimitMiddleware())

	RegisterClientRoutes(r, hb)
	RegisterContractorRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterPaymentRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
	RegisterStorageRoutes(r, hb)
	RegisterHealthRoute(r)
}
