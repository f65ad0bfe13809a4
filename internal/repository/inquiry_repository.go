package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/fonuscebu/coop-admin-api/internal/dto"
	"github.com/fonuscebu/coop-admin-api/internal/models"
)

// InquiryRepository provides database access for contact inquiries.
type InquiryRepository struct {
	db *sqlx.DB
}

// NewInquiryRepository creates a new instance of InquiryRepository.
func NewInquiryRepository(db *sqlx.DB) *InquiryRepository {
	return &InquiryRepository{db: db}
}

// Create inserts a new inquiry into the inbox.
func (r *InquiryRepository) Create(ctx context.Context, inquiry *models.Inquiry) error {
	const query = `INSERT INTO inquiries (id, name, email, phone, subject, message, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	if _, err := r.db.ExecContext(ctx, query,
		inquiry.ID, inquiry.Name, inquiry.Email, inquiry.Phone,
		inquiry.Subject, inquiry.Message, inquiry.Status, inquiry.CreatedAt,
	); err != nil {
		return fmt.Errorf("create inquiry: %w", err)
	}
	return nil
}

// FindByID returns an inquiry by identifier.
func (r *InquiryRepository) FindByID(ctx context.Context, id string) (*models.Inquiry, error) {
	const query = `SELECT id, name, email, phone, subject, message, status, created_at FROM inquiries WHERE id = $1 LIMIT 1`
	var inquiry models.Inquiry
	if err := r.db.GetContext(ctx, &inquiry, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find inquiry by id: %w", err)
	}
	return &inquiry, nil
}

// List returns inquiries matching the filter with a total count, newest first.
func (r *InquiryRepository) List(ctx context.Context, filter dto.InquiryFilter, page, pageSize int) ([]models.Inquiry, int, error) {
	baseQuery := `FROM inquiries WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(name) LIKE $%d OR LOWER(email) LIKE $%d OR LOWER(subject) LIKE $%d)", len(args)+1, len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+baseQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count inquiries: %w", err)
	}

	listQuery := "SELECT id, name, email, phone, subject, message, status, created_at " + baseQuery +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, pageSize, page*pageSize)

	inquiries := []models.Inquiry{}
	if err := r.db.SelectContext(ctx, &inquiries, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list inquiries: %w", err)
	}
	return inquiries, total, nil
}

// ListAll returns every inquiry matching the filter, newest first. Used by the
// CSV inbox export.
func (r *InquiryRepository) ListAll(ctx context.Context, filter dto.InquiryFilter) ([]models.Inquiry, error) {
	query := `SELECT id, name, email, phone, subject, message, status, created_at FROM inquiries WHERE 1=1`
	var args []interface{}
	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", len(args)+1)
		args = append(args, filter.Status)
	}
	query += " ORDER BY created_at DESC"

	inquiries := []models.Inquiry{}
	if err := r.db.SelectContext(ctx, &inquiries, query, args...); err != nil {
		return nil, fmt.Errorf("list all inquiries: %w", err)
	}
	return inquiries, nil
}

// UpdateStatus moves an inquiry to a new inbox state.
func (r *InquiryRepository) UpdateStatus(ctx context.Context, id string, status models.InquiryStatus) error {
	const query = `UPDATE inquiries SET status = $2 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("update inquiry status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update inquiry status: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
