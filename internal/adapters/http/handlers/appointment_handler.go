package handlers

import (
	"errors"
	"log"

	"visaconsult/internal/core/domain"
	"visaconsult/internal/core/services"
	"visaconsult/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AppointmentHandler handles appointment endpoints
type AppointmentHandler struct {
	appointmentService *services.AppointmentService
	workflowService    *services.WorkflowService
}

// NewAppointmentHandler creates a new appointment handler
func NewAppointmentHandler(appointmentService *services.AppointmentService, workflowService *services.WorkflowService) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentService: appointmentService,
		workflowService:    workflowService,
	}
}

func appointmentError(c *fiber.Ctx, err error, failure string) error {
	switch {
	case errors.Is(err, services.ErrAppointmentNotFound):
		return response.NotFound(c, "Appointment not found")
	case errors.Is(err, services.ErrInvalidAppointmentStatus):
		return response.BadRequest(c, err.Error())
	default:
		return workflowError(c, err, failure)
	}
}

// Schedule handles booking the appointment of an application (Staff only)
// @Summary Schedule appointment
// @Description Requires every document approved and a future date
// @Tags Appointments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.ScheduleAppointmentInput true "Appointment data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /appointments [post]
func (h *AppointmentHandler) Schedule(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.ScheduleAppointmentInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if input.ApplicationID == 0 {
		return response.BadRequest(c, "application_id is required")
	}

	appt, err := h.workflowService.ScheduleAppointment(c.Context(), &input, a)
	if err != nil {
		return appointmentError(c, err, "Failed to schedule appointment")
	}

	return response.Created(c, "Appointment scheduled successfully", appt)
}

// List handles listing appointments
// @Summary List appointments
// @Description Applicants see their own appointments, staff see all
// @Tags Appointments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /appointments [get]
func (h *AppointmentHandler) List(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	appts, err := h.appointmentService.List(c.Context(), a)
	if err != nil {
		log.Printf("❌ List appointments error: %v", err)
		return response.InternalServerError(c, "Failed to list appointments")
	}

	return response.Success(c, "Appointments retrieved successfully", appts)
}

// GetByApplication handles getting the appointment of an application
// @Summary Get application appointment
// @Tags Appointments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /applications/{id}/appointment [get]
func (h *AppointmentHandler) GetByApplication(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid application ID")
	}
	a, err := actor(c)
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	appt, err := h.appointmentService.GetByApplication(c.Context(), id, a)
	if err != nil {
		return appointmentError(c, err, "Failed to get appointment")
	}

	return response.Success(c, "Appointment retrieved successfully", appt)
}

// Update handles editing an appointment (Staff only)
// @Summary Update appointment
// @Tags Appointments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Appointment ID"
// @Param body body services.UpdateAppointmentInput true "Fields to change"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /appointments/{id} [put]
func (h *AppointmentHandler) Update(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid appointment ID")
	}
	a, err := actor(c)
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.UpdateAppointmentInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if input.Status != nil && !input.Status.Valid() {
		return response.BadRequest(c, "Invalid appointment status, expected one of: "+
			string(domain.AppointmentScheduled)+", "+string(domain.AppointmentCompleted)+", "+
			string(domain.AppointmentCancelled)+", "+string(domain.AppointmentNoShow))
	}

	appt, err := h.appointmentService.Update(c.Context(), id, &input, a)
	if err != nil {
		return appointmentError(c, err, "Failed to update appointment")
	}

	return response.Success(c, "Appointment updated successfully", appt)
}
