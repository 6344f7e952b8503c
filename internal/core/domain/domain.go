package domain

// Role represents user role in the system
type Role string

const (
	RoleUser    Role = "user"
	RoleOfficer Role = "officer"
	RoleAdmin   Role = "admin"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleOfficer, RoleAdmin:
		return true
	}
	return false
}

// IsStaff returns true for officers and admins
func (r Role) IsStaff() bool {
	return r == RoleOfficer || r == RoleAdmin
}

// Actor is the authenticated caller of a service operation
type Actor struct {
	ID        uint
	Role      Role
	IPAddress string
}

// IsStaff returns true if the actor is an officer or admin
func (a Actor) IsStaff() bool {
	return a.Role.IsStaff()
}

// DocumentType enumerates accepted upload kinds
type DocumentType string

const (
	DocTypePassport           DocumentType = "passport"
	DocTypePhoto              DocumentType = "photo"
	DocTypeBankStatement      DocumentType = "bank_statement"
	DocTypeEmploymentLetter   DocumentType = "employment_letter"
	DocTypeInvitationLetter   DocumentType = "invitation_letter"
	DocTypeTravelItinerary    DocumentType = "travel_itinerary"
	DocTypeAccommodationProof DocumentType = "accommodation_proof"
	DocTypeInsurance          DocumentType = "insurance"
	DocTypeOther              DocumentType = "other"
)

// Valid reports whether t is an accepted document type
func (t DocumentType) Valid() bool {
	switch t {
	case DocTypePassport, DocTypePhoto, DocTypeBankStatement, DocTypeEmploymentLetter,
		DocTypeInvitationLetter, DocTypeTravelItinerary, DocTypeAccommodationProof,
		DocTypeInsurance, DocTypeOther:
		return true
	}
	return false
}

// AppointmentStatus enumerates appointment states
type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "scheduled"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
	AppointmentNoShow    AppointmentStatus = "no_show"
)

// Valid reports whether s is a known appointment status
func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentScheduled, AppointmentCompleted, AppointmentCancelled, AppointmentNoShow:
		return true
	}
	return false
}

// SettingCategory groups system settings
type SettingCategory string

const (
	SettingGeneral  SettingCategory = "general"
	SettingEmail    SettingCategory = "email"
	SettingSecurity SettingCategory = "security"
	SettingLogging  SettingCategory = "logging"
)

// Valid reports whether c is a known settings category
func (c SettingCategory) Valid() bool {
	switch c {
	case SettingGeneral, SettingEmail, SettingSecurity, SettingLogging:
		return true
	}
	return false
}
