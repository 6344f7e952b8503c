package domain

// ApplicationStatus is the lifecycle state of a visa application
type ApplicationStatus string

const (
	StatusDraft                       ApplicationStatus = "draft"
	StatusSubmitted                   ApplicationStatus = "submitted"
	StatusDocumentsPending            ApplicationStatus = "documents_pending"
	StatusDocumentsReviewing          ApplicationStatus = "documents_reviewing"
	StatusDocumentsApproved           ApplicationStatus = "documents_approved"
	StatusAdditionalDocumentsRequired ApplicationStatus = "additional_documents_required"
	StatusAppointmentScheduled        ApplicationStatus = "appointment_scheduled"
	StatusInterviewCompleted          ApplicationStatus = "interview_completed"
	StatusApproved                    ApplicationStatus = "approved"
	StatusRejected                    ApplicationStatus = "rejected"
	StatusCompleted                   ApplicationStatus = "completed"
)

// ApplicationStatuses lists every status in lifecycle order
var ApplicationStatuses = []ApplicationStatus{
	StatusDraft,
	StatusSubmitted,
	StatusDocumentsPending,
	StatusDocumentsReviewing,
	StatusDocumentsApproved,
	StatusAdditionalDocumentsRequired,
	StatusAppointmentScheduled,
	StatusInterviewCompleted,
	StatusApproved,
	StatusRejected,
	StatusCompleted,
}

// Valid reports whether s is a member of the status set
func (s ApplicationStatus) Valid() bool {
	for _, known := range ApplicationStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// DocumentStatus is the review state of one uploaded document
type DocumentStatus string

const (
	DocumentPending  DocumentStatus = "pending"
	DocumentApproved DocumentStatus = "approved"
	DocumentRejected DocumentStatus = "rejected"
)

// Valid reports whether s is a known document status
func (s DocumentStatus) Valid() bool {
	return s == DocumentPending || s == DocumentApproved || s == DocumentRejected
}

// IsVerdict reports whether s is a review outcome an officer may record
func (s DocumentStatus) IsVerdict() bool {
	return s == DocumentApproved || s == DocumentRejected
}

// ReviewableStatuses are the application states whose pending documents
// appear in the officer review queue.
var ReviewableStatuses = []ApplicationStatus{
	StatusSubmitted,
	StatusDocumentsPending,
	StatusDocumentsReviewing,
}

// documentPhase are the states whose status follows the document set.
// Later states are driven by the appointment and staff decisions.
var documentPhase = []ApplicationStatus{
	StatusSubmitted,
	StatusDocumentsPending,
	StatusDocumentsReviewing,
	StatusDocumentsApproved,
	StatusAdditionalDocumentsRequired,
}

// InDocumentPhase reports whether adding or removing a document should
// recompute s
func (s ApplicationStatus) InDocumentPhase() bool {
	for _, p := range documentPhase {
		if s == p {
			return true
		}
	}
	return false
}

// ComputeStatusFromDocuments derives the application status from the full
// set of its document statuses. A rejection dominates; all approved means
// the documents are done; anything else is still under review. An empty set
// yields documents_pending.
func ComputeStatusFromDocuments(statuses []DocumentStatus) ApplicationStatus {
	if len(statuses) == 0 {
		return StatusDocumentsPending
	}

	allApproved := true
	for _, s := range statuses {
		if s == DocumentRejected {
			return StatusAdditionalDocumentsRequired
		}
		if s != DocumentApproved {
			allApproved = false
		}
	}

	if allApproved {
		return StatusDocumentsApproved
	}
	return StatusDocumentsReviewing
}
