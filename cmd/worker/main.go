package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"visaconsult/internal/adapters/mail"
	"visaconsult/internal/config"

	"github.com/hibiken/asynq"
)

// The worker drains the e-mail queue filled by the API server.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}
	if !cfg.Redis.Enabled() {
		log.Fatal("❌ REDIS_ADDR is required for the mail worker")
	}
	if !cfg.Email.Enabled() {
		log.Fatal("❌ EMAIL_HOST is required for the mail worker")
	}

	server := asynq.NewServer(mail.RedisOpt(cfg.Redis), asynq.Config{
		Concurrency: 5,
	})
	mux := mail.NewServeMux(mail.NewSMTPSender(cfg.Email))

	go func() {
		<-ctx.Done()
		server.Shutdown()
	}()

	log.Printf("📬 Mail worker started [%s]", cfg.Redis.Addr)
	if err := server.Run(mux); err != nil {
		log.Printf("❌ Worker stopped: %v", err)
		os.Exit(1)
	}
}
