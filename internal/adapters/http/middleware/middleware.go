package middleware

import (
	"errors"
	"log"
	"time"

	"visaconsult/internal/config"
	"visaconsult/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

const corsMethods = "GET,POST,PUT,DELETE,OPTIONS"
const corsHeaders = "Origin,Content-Type,Accept,Authorization"

// Setup installs the global middleware chain
func Setup(app *fiber.App, cfg *config.Config) {
	app.Use(recover.New())

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	// The portal is served from its own origin, so resources are same-site
	// rather than same-origin.
	app.Use(helmet.New(helmet.Config{
		XSSProtection:             "1; mode=block",
		ContentTypeNosniff:        "nosniff",
		XFrameOptions:             "DENY",
		ReferrerPolicy:            "strict-origin-when-cross-origin",
		CrossOriginOpenerPolicy:   "same-origin",
		CrossOriginResourcePolicy: "same-site",
		PermissionPolicy:          "geolocation=(), microphone=(), camera=()",
	}))

	// 100 requests per minute per IP; health probes are exempt
	general := rateLimiter(100, "", "Too many requests, please slow down")
	app.Use(func(c *fiber.Ctx) error {
		if c.Path() == "/health" {
			return c.Next()
		}
		return general(c)
	})

	format := "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n"
	if !cfg.IsDev() {
		format = "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${error}\n"
	}
	app.Use(logger.New(logger.Config{
		Format:     format,
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "UTC",
	}))

	app.Use(cors.New(corsConfig(cfg)))
}

// corsConfig allows any origin in dev. Elsewhere only ALLOWED_ORIGINS may
// call with cookies.
func corsConfig(cfg *config.Config) cors.Config {
	origins := cfg.GetAllowedOrigins()
	if cfg.IsDev() || origins == "" || origins == "*" {
		// credentials cannot be combined with a wildcard origin
		return cors.Config{
			AllowOrigins: "*",
			AllowMethods: corsMethods,
			AllowHeaders: corsHeaders,
		}
	}
	return cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     corsMethods,
		AllowHeaders:     corsHeaders,
		AllowCredentials: true,
		ExposeHeaders:    "Content-Disposition",
	}
}

func rateLimiter(max int, suffix, message string) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + suffix
		},
		LimitReached: func(c *fiber.Ctx) error {
			return response.TooManyRequests(c, message)
		},
	})
}

// AuthRateLimiter allows 5 requests per minute per IP (login, register)
func AuthRateLimiter() fiber.Handler {
	return rateLimiter(5, "-auth", "Too many login attempts, please wait a minute")
}

// StrictRateLimiter allows 3 requests per minute per IP (password changes)
func StrictRateLimiter() fiber.Handler {
	return rateLimiter(3, "-strict", "Rate limit exceeded, please try again shortly")
}

// CustomErrorHandler renders errors that escaped the handlers in the
// response envelope
func CustomErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	} else {
		log.Printf("❌ Unhandled error on %s %s: %v", c.Method(), c.Path(), err)
	}

	return response.Error(c, code, message)
}
