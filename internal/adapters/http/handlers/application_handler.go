package handlers

import (
	"errors"

	"visaconsult/internal/core/domain"
	"visaconsult/internal/core/services"
	"visaconsult/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ApplicationHandler handles visa application endpoints
type ApplicationHandler struct {
	applicationService *services.ApplicationService
	workflowService    *services.WorkflowService
}

// NewApplicationHandler creates a new application handler
func NewApplicationHandler(applicationService *services.ApplicationService, workflowService *services.WorkflowService) *ApplicationHandler {
	return &ApplicationHandler{
		applicationService: applicationService,
		workflowService:    workflowService,
	}
}

// workflowError maps workflow errors; precondition messages are returned verbatim
func workflowError(c *fiber.Ctx, err error, failure string) error {
	switch {
	case errors.Is(err, services.ErrDocumentNotFound):
		return response.NotFound(c, "Document not found")
	case errors.Is(err, services.ErrStatusChangeForbidden),
		errors.Is(err, services.ErrAssignForbidden):
		return response.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrAppointmentExists),
		errors.Is(err, services.ErrDocumentsNotApproved),
		errors.Is(err, services.ErrAppointmentInPast),
		errors.Is(err, services.ErrLocationRequired),
		errors.Is(err, services.ErrInvalidOfficer),
		errors.Is(err, domain.ErrInvalidApplicationStatus),
		errors.Is(err, domain.ErrInvalidDocumentStatus):
		return response.BadRequest(c, err.Error())
	default:
		return accessError(c, err, failure)
	}
}

// Create handles submitting a new application
// @Summary Submit application
// @Description Create a visa application owned by the caller; it starts as submitted
// @Tags Applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateApplicationInput true "Application data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /applications [post]
func (h *ApplicationHandler) Create(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.CreateApplicationInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	app, err := h.applicationService.Create(c.Context(), &input, a)
	if err != nil {
		if errors.Is(err, services.ErrVisaTypeNotFound) {
			return response.BadRequest(c, "Visa type not found")
		}
		return accessError(c, err, "Failed to create application")
	}

	return response.Created(c, "Application submitted successfully", app)
}

// List handles listing applications
// @Summary List applications
// @Description Applicants see their own applications, staff see all
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /applications [get]
func (h *ApplicationHandler) List(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	apps, err := h.applicationService.List(c.Context(), c.Query("status"), a)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidApplicationStatus) {
			return response.BadRequest(c, "Invalid status filter")
		}
		return accessError(c, err, "Failed to list applications")
	}

	return response.Success(c, "Applications retrieved successfully", apps)
}

// Get handles getting one application with its documents and appointment
// @Summary Get application
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /applications/{id} [get]
func (h *ApplicationHandler) Get(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid application ID")
	}
	a, err := actor(c)
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	app, err := h.applicationService.Get(c.Context(), id, a)
	if err != nil {
		return accessError(c, err, "Failed to get application")
	}

	return response.Success(c, "Application retrieved successfully", app)
}

// Update handles a partial application update
// @Summary Update application
// @Description Owners edit descriptive fields; staff may also set status and assigned officer
// @Tags Applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Param body body services.UpdateApplicationInput true "Fields to change"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /applications/{id} [put]
func (h *ApplicationHandler) Update(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid application ID")
	}
	a, err := actor(c)
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.UpdateApplicationInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	app, err := h.workflowService.UpdateApplication(c.Context(), id, &input, a)
	if err != nil {
		return workflowError(c, err, "Failed to update application")
	}

	return response.Success(c, "Application updated successfully", app)
}

// Delete handles deleting an application (Admin only)
// @Summary Delete application
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /applications/{id} [delete]
func (h *ApplicationHandler) Delete(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid application ID")
	}
	a, err := actor(c)
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	if err := h.applicationService.Delete(c.Context(), id, a); err != nil {
		return accessError(c, err, "Failed to delete application")
	}

	return response.Success(c, "Application deleted successfully", nil)
}
