package handlers

import (
	"errors"
	"log"
	"strconv"

	"visaconsult/internal/adapters/http/middleware"
	"visaconsult/internal/core/domain"
	"visaconsult/internal/core/services"
	"visaconsult/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

var errUnauthenticated = errors.New("unauthenticated")

// parseID reads a positive numeric path parameter
func parseID(c *fiber.Ctx, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func actor(c *fiber.Ctx) (domain.Actor, error) {
	a, ok := middleware.CurrentActor(c)
	if !ok {
		return domain.Actor{}, errUnauthenticated
	}
	return a, nil
}

// accessError maps the errors shared by every application-scoped operation
func accessError(c *fiber.Ctx, err error, failure string) error {
	switch {
	case errors.Is(err, errUnauthenticated):
		return response.Unauthorized(c, "Unauthorized")
	case errors.Is(err, services.ErrApplicationNotFound):
		return response.NotFound(c, "Application not found")
	case errors.Is(err, services.ErrApplicationForbidden):
		return response.Forbidden(c, "You do not have access to this application")
	case errors.Is(err, domain.ErrInvalidInput):
		return response.BadRequest(c, err.Error())
	default:
		log.Printf("❌ %s: %v", failure, err)
		return response.InternalServerError(c, failure)
	}
}
