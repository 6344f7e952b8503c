package handlers

import (
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"

	"visaconsult/internal/core/domain"
	"visaconsult/internal/core/services"
	"visaconsult/internal/pkg/filecheck"
	"visaconsult/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// DocumentHandler handles document upload, download and review endpoints
type DocumentHandler struct {
	documentService *services.DocumentService
	workflowService *services.WorkflowService
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(documentService *services.DocumentService, workflowService *services.WorkflowService) *DocumentHandler {
	return &DocumentHandler{
		documentService: documentService,
		workflowService: workflowService,
	}
}

// documentError maps document service errors to responses
func documentError(c *fiber.Ctx, err error, failure string) error {
	switch {
	case errors.Is(err, services.ErrInvalidDocumentType),
		errors.Is(err, services.ErrDocumentLocked),
		errors.Is(err, filecheck.ErrEmpty),
		errors.Is(err, filecheck.ErrTooLarge),
		errors.Is(err, filecheck.ErrUnsupportedType),
		errors.Is(err, filecheck.ErrCorruptPDF):
		return response.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrBlobMissing):
		return response.NotFound(c, "Document file not found")
	default:
		return workflowError(c, err, failure)
	}
}

// Upload handles a multipart document upload
// @Summary Upload document
// @Description Upload a PDF, JPEG or PNG (max 5MB) for an application
// @Tags Documents
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param application_id formData int true "Application ID"
// @Param type formData string true "Document type"
// @Param file formData file true "Document file"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /documents/upload [post]
func (h *DocumentHandler) Upload(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	applicationID, err := strconv.ParseUint(c.FormValue("application_id"), 10, 32)
	if err != nil || applicationID == 0 {
		return response.BadRequest(c, "application_id is required")
	}
	docType := domain.DocumentType(c.FormValue("type"))
	if docType == "" {
		return response.BadRequest(c, "Document type is required")
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return response.BadRequest(c, "No file uploaded")
	}
	if fh.Size > filecheck.MaxUploadSize {
		return response.BadRequest(c, filecheck.ErrTooLarge.Error())
	}

	f, err := fh.Open()
	if err != nil {
		return response.BadRequest(c, "Could not read uploaded file")
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, filecheck.MaxUploadSize+1))
	if err != nil {
		return response.BadRequest(c, "Could not read uploaded file")
	}

	doc, err := h.documentService.Upload(c.Context(), &services.UploadInput{
		ApplicationID: uint(applicationID),
		Type:          docType,
		FileName:      fh.Filename,
		Data:          data,
	}, a)
	if err != nil {
		return documentError(c, err, "Failed to upload document")
	}

	return response.Created(c, "Document uploaded successfully", doc)
}

// ListByApplication handles listing the documents of an application
// @Summary List application documents
// @Tags Documents
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /applications/{id}/documents [get]
func (h *DocumentHandler) ListByApplication(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid application ID")
	}
	a, err := actor(c)
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	docs, err := h.documentService.ListByApplication(c.Context(), id, a)
	if err != nil {
		return documentError(c, err, "Failed to list documents")
	}

	return response.Success(c, "Documents retrieved successfully", docs)
}

// ListPending handles the staff review queue
// @Summary List pending documents
// @Tags Documents
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /pending-documents [get]
func (h *DocumentHandler) ListPending(c *fiber.Ctx) error {
	docs, err := h.documentService.ListPending(c.Context())
	if err != nil {
		log.Printf("❌ List pending documents error: %v", err)
		return response.InternalServerError(c, "Failed to list pending documents")
	}

	return response.Success(c, "Pending documents retrieved successfully", docs)
}

// Download handles streaming a stored document
// @Summary Download document
// @Tags Documents
// @Produce octet-stream
// @Security BearerAuth
// @Param id path int true "Document ID"
// @Success 200 {file} binary
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /documents/{id}/download [get]
func (h *DocumentHandler) Download(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid document ID")
	}
	a, err := actor(c)
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	doc, rc, err := h.documentService.Open(c.Context(), id, a)
	if err != nil {
		return documentError(c, err, "Failed to download document")
	}

	c.Set(fiber.HeaderContentType, doc.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", doc.FileName))
	return c.SendStream(rc, int(doc.Size))
}

// Delete handles removing a document
// @Summary Delete document
// @Description Owners may remove pending or rejected documents; staff may remove any
// @Tags Documents
// @Produce json
// @Security BearerAuth
// @Param id path int true "Document ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /documents/{id} [delete]
func (h *DocumentHandler) Delete(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid document ID")
	}
	a, err := actor(c)
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	if err := h.documentService.Delete(c.Context(), id, a); err != nil {
		return documentError(c, err, "Failed to delete document")
	}

	return response.Success(c, "Document deleted successfully", nil)
}

// Verify handles a review verdict on a document (Staff only)
// @Summary Verify document
// @Description Approve or reject a document; the application status is recomputed
// @Tags Documents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Document ID"
// @Param body body services.VerifyDocumentInput true "Verdict"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /documents/{id}/verify [put]
func (h *DocumentHandler) Verify(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid document ID")
	}
	a, err := actor(c)
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.VerifyDocumentInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	result, err := h.workflowService.VerifyDocument(c.Context(), id, &input, a)
	if err != nil {
		return documentError(c, err, "Failed to verify document")
	}

	return response.Success(c, "Document "+string(input.Status), result)
}
