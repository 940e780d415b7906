// internal/services/report_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jaddid/marketplace-backend/internal/models"
	"github.com/jaddid/marketplace-backend/internal/utils"
)

type ReportService struct {
	db *gorm.DB
}

type CreateReportRequest struct {
	ProductID         *uuid.UUID          `json:"product_id,omitempty"`
	MaterialListingID *uuid.UUID          `json:"material_listing_id,omitempty"`
	Reason            models.ReportReason `json:"reason" validate:"required,report_reason"`
	Description       string              `json:"description"`
}

type ResolveReportRequest struct {
	Status     models.ReportStatus `json:"status" validate:"required"`
	AdminNotes string              `json:"admin_notes"`
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db}
}

func (s *ReportService) CreateReport(reporterID uuid.UUID, req *CreateReportRequest) (*models.Report, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	ref := models.ItemRef{ProductID: req.ProductID, MaterialListingID: req.MaterialListingID}
	if err := ref.Validate(); err != nil {
		return nil, NewValidationError("item", err.Error())
	}

	report := &models.Report{
		ReporterID:  reporterID,
		ItemRef:     ref,
		Reason:      req.Reason,
		Description: req.Description,
		Status:      models.ReportStatusPending,
	}
	if err := s.db.Create(report).Error; err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}
	return report, nil
}

func (s *ReportService) MyReports(reporterID uuid.UUID, params utils.PaginationParams) ([]models.Report, int64, error) {
	return s.listReports(s.db.Where("reporter_id = ?", reporterID), params)
}

// ListReports is the admin moderation queue.
func (s *ReportService) ListReports(params utils.PaginationParams) ([]models.Report, int64, error) {
	base := s.db
	if params.Status != "" {
		base = base.Where("status = ?", params.Status)
	}
	return s.listReports(base, params)
}

func (s *ReportService) listReports(base *gorm.DB, params utils.PaginationParams) ([]models.Report, int64, error) {
	query := base.Model(&models.Report{}).
		Preload("Reporter").Preload("Resolver").
		Preload("Product").Preload("MaterialListing")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count reports: %w", err)
	}

	allowedSortFields := []string{"created_at", "status"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var reports []models.Report
	if err := query.Find(&reports).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch reports: %w", err)
	}

	return reports, total, nil
}

// ResolveReport closes a report as resolved or dismissed. The resolver
// and timestamp are written once; a settled report stays settled.
func (s *ReportService) ResolveReport(reportID, adminID uuid.UUID, req *ResolveReportRequest) (*models.Report, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if req.Status != models.ReportStatusResolved &&
		req.Status != models.ReportStatusDismissed &&
		req.Status != models.ReportStatusReviewing {
		return nil, NewValidationError("status", "Status must be one of: reviewing, resolved, dismissed.")
	}

	var report models.Report
	if err := s.db.First(&report, reportID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if report.Status == models.ReportStatusResolved || report.Status == models.ReportStatusDismissed {
		return nil, fmt.Errorf("%w: report already settled", ErrInvalidTransition)
	}

	report.Status = req.Status
	if req.AdminNotes != "" {
		report.AdminNotes = req.AdminNotes
	}
	if req.Status == models.ReportStatusResolved || req.Status == models.ReportStatusDismissed {
		now := time.Now()
		report.ResolvedBy = &adminID
		report.ResolvedAt = &now
	}

	if err := s.db.Save(&report).Error; err != nil {
		return nil, fmt.Errorf("failed to resolve report: %w", err)
	}
	return &report, nil
}
