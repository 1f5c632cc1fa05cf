package service

import (
	"context"
	"strings"

	"github.com/andreadp02/participium/internal/model"
	"github.com/andreadp02/participium/internal/repository"

	"go.uber.org/zap"
)

// ImageService defines methods for interacting with the Image Association
// Service
type ImageService interface {
	PersistImagesForReport(ctx context.Context, keys []string, reportID int) ([]string, error)
	GetMultipleImages(ctx context.Context, references []string) ([]string, error)
	DeleteImages(ctx context.Context, references []string) error
}

// ReportService handles report lifecycle operations
type ReportService struct {
	reportRepo *repository.ReportRepository
	images     ImageService
	logger     *zap.Logger
}

// NewReportService creates a new report service
func NewReportService(reportRepo *repository.ReportRepository, images ImageService, logger *zap.Logger) *ReportService {
	return &ReportService{
		reportRepo: reportRepo,
		images:     images,
		logger:     logger,
	}
}

// SubmitReport validates and persists a new report, then attaches its photos
// as a second phase: the record is created first, the supplied keys are
// persisted against the new record id, and the record is patched with the
// returned references. The three steps run sequentially; a failure between
// them leaves the earlier steps committed, so a report whose image
// persistence failed stays in the store with zero photo references.
func (s *ReportService) SubmitReport(ctx context.Context, data *model.ReportCreate, submitterID int) (*model.ReportResponse, error) {
	if strings.TrimSpace(data.Title) == "" {
		return nil, &model.ValidationError{Message: "Title is required"}
	}
	if strings.TrimSpace(data.Description) == "" {
		return nil, &model.ValidationError{Message: "Description is required"}
	}
	if data.Category == "" {
		return nil, &model.ValidationError{Message: "Category is required"}
	}
	if len(data.PhotoKeys) < 1 {
		return nil, &model.ValidationError{Message: "At least 1 photo is required"}
	}
	if len(data.PhotoKeys) > 3 {
		return nil, &model.ValidationError{Message: "Maximum 3 photos are allowed"}
	}

	// Anonymity is decided once, here, and never changes.
	var userID *int
	if !data.Anonymous {
		userID = &submitterID
	}

	report, err := s.reportRepo.Create(ctx, data, userID)
	if err != nil {
		return nil, err
	}

	references, err := s.images.PersistImagesForReport(ctx, data.PhotoKeys, report.ID)
	if err != nil {
		s.logger.Error("Failed to persist images for report",
			zap.Error(err),
			zap.Int("report_id", report.ID))
		return nil, err
	}

	updated, err := s.reportRepo.UpdatePhotos(ctx, report.ID, references)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, &model.NotFoundError{Message: "Report not found"}
	}

	photos, err := s.images.GetMultipleImages(ctx, updated.Photos)
	if err != nil {
		return nil, err
	}

	return model.NewReportResponse(updated, photos), nil
}

// FindAll retrieves all reports with their photo references resolved to URLs
func (s *ReportService) FindAll(ctx context.Context) ([]model.ReportResponse, error) {
	reports, err := s.reportRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	return s.resolveReports(ctx, reports)
}

// FindByID retrieves a report by ID, returning nil when no such report
// exists
func (s *ReportService) FindByID(ctx context.Context, id int) (*model.ReportResponse, error) {
	report, err := s.reportRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, nil
	}

	photos, err := s.images.GetMultipleImages(ctx, report.Photos)
	if err != nil {
		return nil, err
	}

	return model.NewReportResponse(report, photos), nil
}

// FindByStatus retrieves all reports holding the given status. The raw
// status string is parsed against the status vocabulary first.
func (s *ReportService) FindByStatus(ctx context.Context, status string) ([]model.ReportResponse, error) {
	parsed, err := model.ParseStatus(status)
	if err != nil {
		return nil, err
	}

	reports, err := s.reportRepo.FindByStatus(ctx, parsed)
	if err != nil {
		return nil, err
	}

	return s.resolveReports(ctx, reports)
}

// UpdateStatus parses and persists a status transition. A rejection reason
// is stored only when the resolved status is REJECTED; any other status
// clears it. The transition graph is deliberately not validated.
func (s *ReportService) UpdateStatus(ctx context.Context, id int, status string, rejectionReason *string) (model.Status, error) {
	parsed, err := model.ParseStatus(status)
	if err != nil {
		return "", err
	}

	var reason *string
	if parsed == model.StatusRejected {
		reason = rejectionReason
	}

	updated, err := s.reportRepo.UpdateStatus(ctx, id, parsed, reason)
	if err != nil {
		return "", err
	}
	if updated == nil {
		return "", &model.NotFoundError{Message: "Report not found"}
	}

	return updated.Status, nil
}

// DeleteReport removes a report and then its stored images. Image deletion
// failing after the record was deleted is not rolled back.
func (s *ReportService) DeleteReport(ctx context.Context, id int) (*model.ReportResponse, error) {
	report, err := s.reportRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, &model.NotFoundError{Message: "Report not found"}
	}

	deleted, err := s.reportRepo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	if deleted == nil {
		return nil, &model.NotFoundError{Message: "Report not found"}
	}

	if err := s.images.DeleteImages(ctx, report.Photos); err != nil {
		s.logger.Error("Failed to delete images for report",
			zap.Error(err),
			zap.Int("report_id", id))
		return nil, err
	}

	return model.NewReportResponse(deleted, []string{}), nil
}

// resolveReports resolves the stored photo references of each report to
// retrievable URLs
func (s *ReportService) resolveReports(ctx context.Context, reports []model.Report) ([]model.ReportResponse, error) {
	responses := make([]model.ReportResponse, 0, len(reports))
	for i := range reports {
		photos, err := s.images.GetMultipleImages(ctx, reports[i].Photos)
		if err != nil {
			return nil, err
		}
		responses = append(responses, *model.NewReportResponse(&reports[i], photos))
	}
	return responses, nil
}
