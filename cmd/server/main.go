package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"visaconsult/internal/adapters/http/middleware"
	"visaconsult/internal/adapters/http/routes"
	"visaconsult/internal/adapters/mail"
	"visaconsult/internal/adapters/persistence/models"
	"visaconsult/internal/adapters/persistence/repositories"
	"visaconsult/internal/adapters/storage"
	"visaconsult/internal/config"
	"visaconsult/internal/core/services"

	"github.com/gofiber/fiber/v2"

	_ "visaconsult/docs" // Swagger docs
)

// @title Visa Consult API
// @version 1.0
// @description Visa consultancy backend: applications, documents, appointments and administration
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@visaconsult.example

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

const (
	// single files are capped lower by filecheck.MaxUploadSize
	maxBodyBytes    = 12 << 20
	shutdownTimeout = 30 * time.Second
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("❌ %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		return err
	}
	defer config.CloseDatabase()

	if err := models.AutoMigrate(db); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	log.Println("✅ Database migration completed")

	// visa types, default settings and the bootstrap admin
	if err := config.NewSeeder(db, cfg).Run(); err != nil {
		log.Printf("⚠️ Warning: Failed to seed data: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	blobs, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("initialise storage: %w", err)
	}

	sender, closeSender := mail.NewSender(cfg)
	defer closeSender()

	store := repositories.NewStore(db)
	svc := services.New(store, blobs, sender, cfg)
	// queued notification e-mail must drain before the sender closes
	defer svc.Notifications.Wait()

	svc.Cron.Start()
	defer svc.Cron.Stop()

	app := fiber.New(fiber.Config{
		AppName:      "Visa Consult API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
		BodyLimit:    maxBodyBytes,
	})
	middleware.Setup(app, cfg)
	routes.Setup(app, store, svc, cfg)

	go func() {
		<-ctx.Done()
		log.Println("🛑 Shutting down server...")
		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			log.Printf("❌ Error during shutdown: %v", err)
		}
	}()

	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	log.Println("✅ Server stopped gracefully")
	return nil
}
