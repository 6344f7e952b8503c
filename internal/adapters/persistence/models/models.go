package models

import (
	"time"

	"visaconsult/internal/core/domain"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ============================================================
// Auth & User Tables
// ============================================================

// User represents users table
type User struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	Username  string      `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Password  string      `gorm:"size:255;not null" json:"-"`
	FirstName string      `gorm:"size:100;not null" json:"first_name"`
	LastName  string      `gorm:"size:100;not null" json:"last_name"`
	Email     string      `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Phone     *string     `gorm:"size:30" json:"phone"`
	Role      domain.Role `gorm:"size:20;not null;default:'user';index" json:"role"`
	IsActive  bool        `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// FullName joins first and last name
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// UserResponse DTO
type UserResponse struct {
	ID        uint        `json:"id"`
	Username  string      `json:"username"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Email     string      `json:"email"`
	Phone     *string     `json:"phone"`
	Role      domain.Role `json:"role"`
	IsActive  bool        `json:"is_active"`
	CreatedAt time.Time   `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Reference Data
// ============================================================

// VisaType is seeded reference data
type VisaType struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Code           string    `gorm:"size:30;uniqueIndex;not null" json:"code"`
	Name           string    `gorm:"size:100;not null" json:"name"`
	Description    string    `gorm:"type:text" json:"description"`
	Requirements   string    `gorm:"type:text" json:"requirements"`
	ProcessingTime string    `gorm:"size:100" json:"processing_time"`
	Fee            *float64  `gorm:"type:decimal(10,2)" json:"fee"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (VisaType) TableName() string {
	return "visa_types"
}

// ============================================================
// Main Tables
// ============================================================

// Application is one visa request tracked through the status lifecycle
type Application struct {
	ID                uint                     `gorm:"primaryKey" json:"id"`
	UserID            uint                     `gorm:"not null;index" json:"user_id"`
	VisaTypeID        uint                     `gorm:"not null" json:"visa_type_id"`
	Status            domain.ApplicationStatus `gorm:"size:40;not null;index" json:"status"`
	ApplicationNumber string                   `gorm:"size:30;uniqueIndex;not null" json:"application_number"`
	Purpose           string                   `gorm:"type:text" json:"purpose"`
	PassportNumber    string                   `gorm:"size:30" json:"passport_number"`
	Nationality       string                   `gorm:"size:60" json:"nationality"`
	TravelDate        *time.Time               `json:"travel_date"`
	Notes             *string                  `gorm:"type:text" json:"notes"`
	AssignedOfficerID *uint                    `gorm:"index" json:"assigned_officer_id"`
	SubmittedAt       time.Time                `gorm:"not null" json:"submitted_at"`
	LastUpdated       time.Time                `gorm:"not null" json:"last_updated"`

	// Relations
	User        *User        `gorm:"foreignKey:UserID" json:"user,omitempty"`
	VisaType    *VisaType    `gorm:"foreignKey:VisaTypeID" json:"visa_type,omitempty"`
	Documents   []Document   `gorm:"foreignKey:ApplicationID" json:"documents,omitempty"`
	Appointment *Appointment `gorm:"foreignKey:ApplicationID" json:"appointment,omitempty"`
}

func (Application) TableName() string {
	return "applications"
}

// IsOwnedBy reports whether userID owns the application
func (a *Application) IsOwnedBy(userID uint) bool {
	return a.UserID == userID
}

// Document is one uploaded file tied to an application
type Document struct {
	ID            uint                  `gorm:"primaryKey" json:"id"`
	ApplicationID uint                  `gorm:"not null;index" json:"application_id"`
	Type          domain.DocumentType   `gorm:"size:40;not null" json:"type"`
	FileName      string                `gorm:"size:255;not null" json:"file_name"`
	FilePath      string                `gorm:"size:500;not null" json:"-"`
	ContentType   string                `gorm:"size:100" json:"content_type"`
	Size          int64                 `json:"size"`
	Status        domain.DocumentStatus `gorm:"size:20;not null;default:'pending';index" json:"status"`
	Notes         *string               `gorm:"type:text" json:"notes"`
	ReviewedBy    *uint                 `json:"reviewed_by"`
	ReviewedAt    *time.Time            `json:"reviewed_at"`
	UploadedAt    time.Time             `gorm:"not null" json:"uploaded_at"`
}

func (Document) TableName() string {
	return "documents"
}

// Appointment is the single interview slot of an application
type Appointment struct {
	ID            uint                     `gorm:"primaryKey" json:"id"`
	ApplicationID uint                     `gorm:"not null;uniqueIndex" json:"application_id"`
	Date          time.Time                `gorm:"not null;index" json:"date"`
	Location      string                   `gorm:"size:200;not null" json:"location"`
	Status        domain.AppointmentStatus `gorm:"size:20;not null;default:'scheduled'" json:"status"`
	Notes         string                   `gorm:"type:text" json:"notes"`
	CreatedBy     uint                     `gorm:"not null" json:"created_by"`
	CreatedAt     time.Time                `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time                `gorm:"autoUpdateTime" json:"updated_at"`

	Application *Application `gorm:"foreignKey:ApplicationID" json:"application,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// Feedback is append-only user feedback
type Feedback struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Rating    *int      `json:"rating"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Feedback) TableName() string {
	return "feedback"
}

// AdminLog is the audit trail of privileged actions
type AdminLog struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	Action    string         `gorm:"size:100;not null;index" json:"action"`
	Details   datatypes.JSON `json:"details"`
	IPAddress string         `gorm:"size:50" json:"ip_address"`
	Timestamp time.Time      `gorm:"not null;index" json:"timestamp"`
}

func (AdminLog) TableName() string {
	return "admin_logs"
}

// Setting is one configurable value keyed by (category, key)
type Setting struct {
	ID          uint                   `gorm:"primaryKey" json:"id"`
	Category    domain.SettingCategory `gorm:"size:20;not null;uniqueIndex:idx_settings_category_key" json:"category"`
	Key         string                 `gorm:"column:setting_key;size:100;not null;uniqueIndex:idx_settings_category_key" json:"key"`
	Value       string                 `gorm:"type:text" json:"value"`
	Description string                 `gorm:"size:255" json:"description"`
	UpdatedAt   time.Time              `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Setting) TableName() string {
	return "settings"
}

// Admin log actions
const (
	ActionUserCreate        = "User created"
	ActionUserUpdate        = "User updated"
	ActionUserDelete        = "User deleted"
	ActionApplicationUpdate = "Application updated"
	ActionApplicationDelete = "Application deleted"
	ActionAppointmentCreate = "Appointment scheduled"
	ActionAppointmentUpdate = "Appointment updated"
	ActionSettingsUpdate    = "Settings updated"
	ActionDocumentDelete    = "Document deleted"
	actionDocumentPrefix    = "Document "
)

// DocumentAction returns the audit action for a verification outcome
func DocumentAction(status domain.DocumentStatus) string {
	return actionDocumentPrefix + string(status)
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&RefreshToken{},
		&VisaType{},
		&Application{},
		&Document{},
		&Appointment{},
		&Feedback{},
		&AdminLog{},
		&Setting{},
	)
}
