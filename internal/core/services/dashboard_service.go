package services

import (
	"context"
	"time"

	"visaconsult/internal/adapters/persistence/repositories"
	"visaconsult/internal/core/domain"
)

// DashboardService handles dashboard operations
type DashboardService struct {
	store *repositories.Store
	now   func() time.Time
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(store *repositories.Store) *DashboardService {
	return &DashboardService{store: store, now: time.Now}
}

// ============================================================
// Staff Dashboard
// ============================================================

// DashboardData represents staff dashboard data
type DashboardData struct {
	// User Statistics
	TotalUsers    int64 `json:"total_users"`
	TotalAdmins   int64 `json:"total_admins"`
	TotalOfficers int64 `json:"total_officers"`
	TotalMembers  int64 `json:"total_applicants"`

	// Application Statistics
	TotalApplications     int64                              `json:"total_applications"`
	ApplicationsByStatus  map[domain.ApplicationStatus]int64 `json:"applications_by_status"`
	ApplicationsThisMonth int64                              `json:"applications_this_month"`
	PendingDocuments      int64                              `json:"pending_documents"`
	UpcomingAppointments  int64                              `json:"upcoming_appointments"`

	// Recent Activity
	RecentApplications []ApplicationSummary `json:"recent_applications"`

	// Officer workload
	TopOfficers []OfficerStats `json:"top_officers"`
}

// ApplicationSummary represents application summary
type ApplicationSummary struct {
	ID                uint                     `json:"id"`
	ApplicationNumber string                   `json:"application_number"`
	Applicant         string                   `json:"applicant"`
	VisaType          string                   `json:"visa_type"`
	Status            domain.ApplicationStatus `json:"status"`
	LastUpdated       time.Time                `json:"last_updated"`
}

// OfficerStats represents officer statistics
type OfficerStats struct {
	OfficerID  uint   `json:"officer_id"`
	Username   string `json:"username"`
	TotalCases int64  `json:"total_cases"`
	Approved   int64  `json:"approved"`
	Rejected   int64  `json:"rejected"`
	Open       int64  `json:"open"`
}

// GetDashboard returns staff dashboard data
func (s *DashboardService) GetDashboard(ctx context.Context) (*DashboardData, error) {
	data := &DashboardData{}

	// User counts by role
	roles, err := s.store.Users.CountByRole(ctx)
	if err != nil {
		return nil, err
	}
	data.TotalAdmins = roles[domain.RoleAdmin]
	data.TotalOfficers = roles[domain.RoleOfficer]
	data.TotalMembers = roles[domain.RoleUser]
	data.TotalUsers = data.TotalAdmins + data.TotalOfficers + data.TotalMembers

	// Application counts by status
	data.ApplicationsByStatus, err = s.store.Applications.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	for _, n := range data.ApplicationsByStatus {
		data.TotalApplications += n
	}

	now := s.now().UTC()
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	db := s.store.DB().WithContext(ctx)
	if err := db.Table("applications").
		Where("submitted_at >= ?", startOfMonth).
		Count(&data.ApplicationsThisMonth).Error; err != nil {
		return nil, err
	}

	if data.PendingDocuments, err = s.store.Documents.CountPending(ctx); err != nil {
		return nil, err
	}
	if data.UpcomingAppointments, err = s.store.Appointments.CountUpcoming(ctx, now); err != nil {
		return nil, err
	}

	// Recent applications
	recent, err := s.store.Applications.ListRecent(ctx, 10)
	if err != nil {
		return nil, err
	}
	data.RecentApplications = make([]ApplicationSummary, len(recent))
	for i, a := range recent {
		summary := ApplicationSummary{
			ID:                a.ID,
			ApplicationNumber: a.ApplicationNumber,
			Status:            a.Status,
			LastUpdated:       a.LastUpdated,
		}
		if a.User != nil {
			summary.Applicant = a.User.FullName()
		}
		if a.VisaType != nil {
			summary.VisaType = a.VisaType.Name
		}
		data.RecentApplications[i] = summary
	}

	// Top officers
	var topOfficers []struct {
		OfficerID  uint
		Username   string
		TotalCases int64
		Approved   int64
		Rejected   int64
		OpenCases  int64
	}
	err = db.Table("applications").
		Select(`
			applications.assigned_officer_id AS officer_id,
			users.username,
			COUNT(*) AS total_cases,
			SUM(CASE WHEN applications.status IN ('approved', 'completed') THEN 1 ELSE 0 END) AS approved,
			SUM(CASE WHEN applications.status = 'rejected' THEN 1 ELSE 0 END) AS rejected,
			SUM(CASE WHEN applications.status NOT IN ('approved', 'completed', 'rejected') THEN 1 ELSE 0 END) AS open_cases
		`).
		Joins("JOIN users ON applications.assigned_officer_id = users.id").
		Where("applications.assigned_officer_id IS NOT NULL").
		Group("applications.assigned_officer_id, users.username").
		Order("total_cases DESC").
		Limit(5).
		Scan(&topOfficers).Error
	if err != nil {
		return nil, err
	}

	data.TopOfficers = make([]OfficerStats, len(topOfficers))
	for i, o := range topOfficers {
		data.TopOfficers[i] = OfficerStats{
			OfficerID:  o.OfficerID,
			Username:   o.Username,
			TotalCases: o.TotalCases,
			Approved:   o.Approved,
			Rejected:   o.Rejected,
			Open:       o.OpenCases,
		}
	}

	return data, nil
}
