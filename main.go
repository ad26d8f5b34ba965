package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/madebyaram2024/PPC-CRM-sub000/config"
	"github.com/madebyaram2024/PPC-CRM-sub000/db"
	"github.com/madebyaram2024/PPC-CRM-sub000/handlers"
	"github.com/madebyaram2024/PPC-CRM-sub000/middleware"
	"github.com/madebyaram2024/PPC-CRM-sub000/realtime"
	"github.com/madebyaram2024/PPC-CRM-sub000/services"
	"github.com/madebyaram2024/PPC-CRM-sub000/utils"
)

func main() {
	// Load configuration
	cfg := config.LoadConfig()

	// Initialize logger
	logger := utils.NewLogger(cfg.Environment)

	// Connect to database
	database, err := db.Connect(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	// Connect to Redis; presence history degrades gracefully without it
	var lastSeen *services.LastSeenStore
	redisClient, err := services.NewRedisClient(cfg)
	if err != nil {
		logger.Warn("Redis unavailable, last-seen history disabled", "error", err)
	} else {
		defer redisClient.Close()
		lastSeen = services.NewLastSeenStore(redisClient, logger, cfg.LastSeenTTL)
	}

	// Initialize the realtime server and hook offline transitions into the
	// last-seen store
	rt := realtime.NewServer(cfg, logger)
	rt.SetOfflineHook(func(identity realtime.Identity) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		lastSeen.Touch(ctx, identity.UserID)
	})

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(database, cfg, logger)
	customerHandler := handlers.NewCustomerHandler(database, logger)
	productHandler := handlers.NewProductHandler(database, logger)
	invoiceHandler := handlers.NewInvoiceHandler(database, logger)
	workOrderHandler := handlers.NewWorkOrderHandler(database, rt.Notifier(), logger)
	presenceHandler := handlers.NewPresenceHandler(rt.Registry(), lastSeen, logger)

	// Setup Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.CORS(cfg.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handlers.HealthCheck)

	// Auth endpoints
	auth := router.Group("/api/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}

	// Realtime endpoint; the session token guards the upgrade
	router.GET("/api/socketio", middleware.Auth(cfg.JWTSecret), rt.HandleSocket)

	// API routes
	v1 := router.Group("/api/v1")
	v1.Use(middleware.Auth(cfg.JWTSecret))
	{
		customers := v1.Group("/customers")
		{
			customers.GET("", customerHandler.ListCustomers)
			customers.POST("", customerHandler.CreateCustomer)
			customers.GET("/:id", customerHandler.GetCustomer)
			customers.PUT("/:id", customerHandler.UpdateCustomer)
			customers.DELETE("/:id", customerHandler.DeleteCustomer)
		}

		products := v1.Group("/products")
		{
			products.GET("", productHandler.ListProducts)
			products.POST("", productHandler.CreateProduct)
			products.GET("/:id", productHandler.GetProduct)
			products.PUT("/:id", productHandler.UpdateProduct)
			products.DELETE("/:id", productHandler.DeleteProduct)
		}

		invoices := v1.Group("/invoices")
		{
			invoices.GET("", invoiceHandler.ListInvoices)
			invoices.POST("", invoiceHandler.CreateInvoice)
			invoices.GET("/:id", invoiceHandler.GetInvoice)
			invoices.PUT("/:id/issue", invoiceHandler.IssueInvoice)
			invoices.PUT("/:id/pay", invoiceHandler.PayInvoice)
			invoices.PUT("/:id/cancel", invoiceHandler.CancelInvoice)
		}

		workOrders := v1.Group("/workorders")
		{
			workOrders.GET("", workOrderHandler.ListWorkOrders)
			workOrders.POST("", workOrderHandler.CreateWorkOrder)
			workOrders.GET("/:id", workOrderHandler.GetWorkOrder)
			workOrders.PUT("/:id", workOrderHandler.UpdateWorkOrder)
			workOrders.PUT("/:id/complete", workOrderHandler.CompleteWorkOrder)
			workOrders.DELETE("/:id", workOrderHandler.DeleteWorkOrder)
		}

		presence := v1.Group("/presence")
		{
			presence.GET("/online", presenceHandler.GetOnlineUsers)
			presence.GET("/status", presenceHandler.GetStatus)
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Starting PPC CRM server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exited")
}
