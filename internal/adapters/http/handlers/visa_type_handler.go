package handlers

import (
	"errors"

	"visaconsult/internal/adapters/persistence/repositories"
	"visaconsult/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// VisaTypeHandler serves the visa type catalogue
type VisaTypeHandler struct {
	visaTypeRepo repositories.VisaTypeRepository
}

// NewVisaTypeHandler creates a new visa type handler
func NewVisaTypeHandler(visaTypeRepo repositories.VisaTypeRepository) *VisaTypeHandler {
	return &VisaTypeHandler{
		visaTypeRepo: visaTypeRepo,
	}
}

// List lists all visa types
// @Summary List visa types
// @Tags Visa Types
// @Produce json
// @Success 200 {object} response.Response
// @Router /visa-types [get]
func (h *VisaTypeHandler) List(c *fiber.Ctx) error {
	visaTypes, err := h.visaTypeRepo.List(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list visa types")
	}

	return response.Success(c, "Visa types retrieved successfully", visaTypes)
}

// Get gets a visa type by ID
// @Summary Get visa type
// @Tags Visa Types
// @Produce json
// @Param id path int true "Visa Type ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /visa-types/{id} [get]
func (h *VisaTypeHandler) Get(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid visa type ID")
	}

	visaType, err := h.visaTypeRepo.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Visa type not found")
		}
		return response.InternalServerError(c, "Failed to get visa type")
	}

	return response.Success(c, "Visa type retrieved successfully", visaType)
}
