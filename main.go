package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"travelapp/config"
	"travelapp/cron"
	"travelapp/database"
	bookingRepoPkg "travelapp/database/repository/booking"
	listingRepoPkg "travelapp/database/repository/listing"
	paymentRepoPkg "travelapp/database/repository/payment"
	"travelapp/handlers"
	"travelapp/middleware"
	"travelapp/routes"
	bookingSvc "travelapp/services/booking"
	listingSvc "travelapp/services/listing"
	"travelapp/services/payment"
	"travelapp/services/tasks"
	"travelapp/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	listingRepo := listingRepoPkg.NewMongoListingRepo()
	bookingRepo := bookingRepoPkg.NewMongoBookingRepo()
	paymentRepo := paymentRepoPkg.NewMongoPaymentRepo()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := paymentRepo.EnsureIndexes(ctx); err != nil {
		logger.Sugar().Fatalf("main: failed to create payment indexes: %v", err)
	}
	cancel()

	// task queue client and dispatcher.
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	defer asynqClient.Close()
	dispatcher := tasks.NewDispatcher(asynqClient)

	// Background dependency health checks, served on /health.
	redisClient := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	defer redisClient.Close()
	utils.StartHealthMonitor(redisClient, database.MongoClient)

	// services.
	listingService := &listingSvc.DefaultListingService{Repo: listingRepo}
	bookingService := &bookingSvc.DefaultBookingService{
		Repo:       bookingRepo,
		Listings:   listingRepo,
		Dispatcher: dispatcher,
		Logger:     logger,
	}
	gateway := payment.NewChapaClient(config.AppConfig.ChapaBaseURL, config.AppConfig.ChapaSecretKey, logger)
	paymentService := &payment.DefaultPaymentService{
		Payments:   paymentRepo,
		Bookings:   bookingRepo,
		Listings:   listingRepo,
		Gateway:    gateway,
		Dispatcher: dispatcher,
		Logger:     logger,
	}

	listingHandler := handlers.NewListingHandler(listingService, logger)
	bookingHandler := handlers.NewBookingHandler(bookingService, logger)
	paymentHandler := handlers.NewPaymentHandler(paymentService, logger)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		CreateListingHandler: listingHandler.CreateListingHandler,
		GetListingHandler:    listingHandler.GetListingHandler,
		ListListingsHandler:  listingHandler.ListListingsHandler,
		UpdateListingHandler: listingHandler.UpdateListingHandler,
		DeleteListingHandler: listingHandler.DeleteListingHandler,

		CreateBookingHandler: bookingHandler.CreateBookingHandler,
		GetBookingHandler:    bookingHandler.GetBookingHandler,
		ListBookingsHandler:  bookingHandler.ListBookingsHandler,
		UpdateBookingHandler: bookingHandler.UpdateBookingHandler,
		DeleteBookingHandler: bookingHandler.DeleteBookingHandler,

		InitiatePaymentHandler: paymentHandler.InitiatePaymentHandler,
		VerifyPaymentHandler:   paymentHandler.VerifyPaymentHandler,
		PaymentCallbackHandler: paymentHandler.CallbackHandler,
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Start the email worker.
	cron.InitEmailWorker(&cron.EmailWorker{
		Payments: paymentRepo,
		Bookings: bookingRepo,
		Listings: listingRepo,
		Mailer:   utils.NewMailer(),
		Logger:   logger,
	})

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

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
