package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"visaconsult/internal/adapters/persistence/models"
	"visaconsult/internal/adapters/persistence/repositories"
	"visaconsult/internal/core/domain"

	"gorm.io/datatypes"
)

// Notifier is told about workflow outcomes once they are committed.
// Implementations must not block the caller.
type Notifier interface {
	DocumentReviewed(app *models.Application, doc *models.Document)
	StatusChanged(app *models.Application, previous domain.ApplicationStatus)
	AppointmentScheduled(app *models.Application, appt *models.Appointment)
}

// Details is the JSON payload of an admin log entry
type Details map[string]interface{}

// recordAdminLog appends an audit entry through store, which is normally
// the transaction of the mutation being audited.
func recordAdminLog(ctx context.Context, store *repositories.Store, actor domain.Actor, action string, details Details, at time.Time) error {
	raw, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("marshal admin log details: %w", err)
	}
	entry := &models.AdminLog{
		UserID:    actor.ID,
		Action:    action,
		Details:   datatypes.JSON(raw),
		IPAddress: actor.IPAddress,
		Timestamp: at,
	}
	if err := store.AdminLogs.Create(ctx, entry); err != nil {
		return fmt.Errorf("write admin log: %w", err)
	}
	return nil
}

// canAccess reports whether actor may read or modify app
func canAccess(app *models.Application, actor domain.Actor) bool {
	return actor.IsStaff() || app.IsOwnedBy(actor.ID)
}
