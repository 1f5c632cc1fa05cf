package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/andreadp02/participium/internal/model"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

const reportColumns = `id, title, description, category, latitude, longitude, photos, status, rejection_reason, user_id, created_at`

// ReportRepository handles database operations for reports
type ReportRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *sqlx.DB, logger *zap.Logger) *ReportRepository {
	return &ReportRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new report row with an empty photo list and the initial
// PENDING_APPROVAL status. A nil userID records an anonymous submission.
func (r *ReportRepository) Create(ctx context.Context, report *model.ReportCreate, userID *int) (*model.Report, error) {
	query := `
		INSERT INTO reports (title, description, category, latitude, longitude, photos, status, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		RETURNING ` + reportColumns

	var created model.Report
	err := r.db.QueryRowxContext(
		ctx,
		query,
		report.Title,
		report.Description,
		report.Category,
		report.Latitude,
		report.Longitude,
		pq.StringArray{},
		model.StatusPendingApproval,
		userID,
	).StructScan(&created)
	if err != nil {
		r.logger.Error("Failed to create report", zap.Error(err))
		return nil, err
	}

	return &created, nil
}

// FindAll retrieves all reports, newest first
func (r *ReportRepository) FindAll(ctx context.Context) ([]model.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports ORDER BY created_at DESC`

	var reports []model.Report
	if err := r.db.SelectContext(ctx, &reports, query); err != nil {
		r.logger.Error("Failed to get reports", zap.Error(err))
		return nil, err
	}

	return reports, nil
}

// FindByID retrieves a report by ID
func (r *ReportRepository) FindByID(ctx context.Context, id int) (*model.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE id = $1`

	var report model.Report
	err := r.db.GetContext(ctx, &report, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found is not an error
		}
		r.logger.Error("Failed to get report by ID", zap.Error(err), zap.Int("id", id))
		return nil, err
	}

	return &report, nil
}

// FindByStatus retrieves all reports holding the given status, newest first
func (r *ReportRepository) FindByStatus(ctx context.Context, status model.Status) ([]model.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE status = $1 ORDER BY created_at DESC`

	var reports []model.Report
	if err := r.db.SelectContext(ctx, &reports, query, status); err != nil {
		r.logger.Error("Failed to get reports by status", zap.Error(err), zap.String("status", string(status)))
		return nil, err
	}

	return reports, nil
}

// UpdatePhotos replaces the stored photo references of a report
func (r *ReportRepository) UpdatePhotos(ctx context.Context, id int, photos []string) (*model.Report, error) {
	query := `UPDATE reports SET photos = $2 WHERE id = $1 RETURNING ` + reportColumns

	var updated model.Report
	err := r.db.QueryRowxContext(ctx, query, id, pq.Array(photos)).StructScan(&updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to update report photos", zap.Error(err), zap.Int("id", id))
		return nil, err
	}

	return &updated, nil
}

// UpdateStatus persists a status transition. The rejection reason is written
// as given; passing nil clears any previously stored reason.
func (r *ReportRepository) UpdateStatus(ctx context.Context, id int, status model.Status, rejectionReason *string) (*model.Report, error) {
	query := `UPDATE reports SET status = $2, rejection_reason = $3 WHERE id = $1 RETURNING ` + reportColumns

	var updated model.Report
	err := r.db.QueryRowxContext(ctx, query, id, status, rejectionReason).StructScan(&updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to update report status", zap.Error(err), zap.Int("id", id))
		return nil, err
	}

	return &updated, nil
}

// Delete removes a report row and returns the deleted record
func (r *ReportRepository) Delete(ctx context.Context, id int) (*model.Report, error) {
	query := `DELETE FROM reports WHERE id = $1 RETURNING ` + reportColumns

	var deleted model.Report
	err := r.db.QueryRowxContext(ctx, query, id).StructScan(&deleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to delete report", zap.Error(err), zap.Int("id", id))
		return nil, err
	}

	return &deleted, nil
}
