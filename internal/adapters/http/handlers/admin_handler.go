package handlers

import (
	"errors"
	"log"
	"strconv"

	"visaconsult/internal/core/services"
	"visaconsult/internal/pkg/pagination"
	"visaconsult/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler handles settings and audit log endpoints
type AdminHandler struct {
	settingsService *services.SettingsService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(settingsService *services.SettingsService) *AdminHandler {
	return &AdminHandler{
		settingsService: settingsService,
	}
}

// GetSettings handles reading all settings
// @Summary Get settings
// @Description Settings grouped by category
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /admin/settings [get]
func (h *AdminHandler) GetSettings(c *fiber.Ctx) error {
	settings, err := h.settingsService.GetAll(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to get settings")
	}

	return response.Success(c, "Settings retrieved successfully", settings)
}

// UpdateSettings handles upserting settings
// @Summary Update settings
// @Description Upsert {category: {key: value}} pairs in one transaction
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.Settings true "Settings"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /admin/settings [put]
func (h *AdminHandler) UpdateSettings(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.Settings
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if len(input) == 0 {
		return response.BadRequest(c, "No settings provided")
	}

	updated, err := h.settingsService.Update(c.Context(), input, a)
	if err != nil {
		if errors.Is(err, services.ErrInvalidSettingCategory) || errors.Is(err, services.ErrEmptySettingKey) {
			return response.BadRequest(c, err.Error())
		}
		log.Printf("❌ Settings update error: %v", err)
		return response.InternalServerError(c, "Failed to update settings")
	}

	return response.Success(c, "Settings updated successfully", fiber.Map{"updated": updated})
}

// ListLogs handles listing the audit log
// @Summary List admin logs
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Param user_id query int false "Filter by acting user"
// @Param action query string false "Filter by action"
// @Success 200 {object} response.Response
// @Router /admin/logs [get]
func (h *AdminHandler) ListLogs(c *fiber.Ctx) error {
	input := &services.ListAdminLogsInput{
		Action: c.Query("action"),
	}
	if raw := c.Query("user_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return response.BadRequest(c, "Invalid user_id")
		}
		userID := uint(id)
		input.UserID = &userID
	}

	result, err := h.settingsService.ListAdminLogs(c.Context(), input, pagination.GetParams(c))
	if err != nil {
		return response.InternalServerError(c, "Failed to list admin logs")
	}

	return response.Success(c, "Admin logs retrieved successfully", result)
}
