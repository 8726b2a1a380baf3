// File: pawhaven/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pawhaven/config"
	"pawhaven/cron"
	"pawhaven/database"
	bookingRepoPkg "pawhaven/database/repository/booking"
	clientRepoPkg "pawhaven/database/repository/client"
	contractorRepoPkg "pawhaven/database/repository/contractor"
	"pawhaven/handlers"
	"pawhaven/routes"
	"pawhaven/services/admin"
	"pawhaven/services/booking"
	"pawhaven/services/client"
	"pawhaven/services/contractor"
	"pawhaven/services/notification"
	"pawhaven/services/payment"
	"pawhaven/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitRedis()
	utils.FirebaseInit()

	cloudinaryStorageService, err := utils.Cloudinary()
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize cloudinary storage service: %v", err)
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())

	// repositories.
	clientRepo := clientRepoPkg.NewMongoClientRepo()
	contractorRepo := contractorRepoPkg.NewMongoContractorRepo()
	bookingRepo := bookingRepoPkg.NewMongoBookingRepo()

	// payment core.
	gateway := payment.NewStripeGateway(config.AppConfig.StripeSecretKey)
	fees := payment.FeeConfigFromApp()
	env := config.AppConfig.StripeMode
	orchestrator := payment.NewOrchestrator(gateway, fees, env, contractorRepo, clientRepo, logger)
	reconciler := payment.NewReconciler(gateway, fees, bookingRepo, logger)
	paymentService := &payment.DefaultPaymentService{
		Orchestrator: orchestrator,
		Reconciler:   reconciler,
	}

	// services.
	notificationService, err := notification.NewDefaultNotificationService(clientRepo, contractorRepo)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize notification service: %v", err)
	}

	clientService := &client.DefaultClientService{Repo: clientRepo}
	contractorService := &contractor.DefaultContractorService{
		Repo:    contractorRepo,
		Gateway: gateway,
		Env:     env,
	}

	reminderQueue := cron.NewReminderQueue()
	bookingService := &booking.DefaultBookingService{
		Repo:            bookingRepo,
		Contractors:     contractorRepo,
		Payments:        paymentService,
		Fees:            fees,
		NotificationSvc: notificationService,
		Reminders:       reminderQueue,
	}

	adminService := &admin.DefaultAdminService{
		Clients:     clientRepo,
		Contractors: contractorRepo,
		Bookings:    bookingRepo,
	}

	// Background worker for scheduled visit reminders.
	cron.InitReminderWorker(notificationService)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		ClientRepo:     clientRepo,
		ContractorRepo: contractorRepo,

		Client:     handlers.NewClientHandler(clientService),
		Contractor: handlers.NewContractorHandler(contractorService),
		Booking:    handlers.NewBookingHandler(bookingService),
		Payment:    handlers.NewPaymentHandler(paymentService),
		Admin:      handlers.NewAdminHandler(adminService),
		Storage:    handlers.NewStorageHandler(cloudinaryStorageService),
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	utils.StartHealthMonitor([]*redis.Client{utils.GetCacheClient(), utils.GetAuthCacheClient()}, database.MongoClient)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
