package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fonuscebu/coop-admin-api/internal/dto"
	"github.com/fonuscebu/coop-admin-api/internal/models"
	appErrors "github.com/fonuscebu/coop-admin-api/pkg/errors"
	"github.com/fonuscebu/coop-admin-api/pkg/export"
)

type inquiryStore interface {
	Create(ctx context.Context, inquiry *models.Inquiry) error
	FindByID(ctx context.Context, id string) (*models.Inquiry, error)
	List(ctx context.Context, filter dto.InquiryFilter, page, pageSize int) ([]models.Inquiry, int, error)
	ListAll(ctx context.Context, filter dto.InquiryFilter) ([]models.Inquiry, error)
	UpdateStatus(ctx context.Context, id string, status models.InquiryStatus) error
}

type inquiryCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

type inquiryListing struct {
	Inquiries []models.Inquiry `json:"inquiries"`
	Total     int              `json:"total"`
}

// InquiryService manages the contact-inquiry inbox. Listings are cached in
// redis for a short TTL; cache failures degrade to the database.
type InquiryService struct {
	store    inquiryStore
	cache    inquiryCache
	exporter *export.CSVExporter
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewInquiryService constructs an inquiry service.
func NewInquiryService(store inquiryStore, cache inquiryCache, cacheTTL time.Duration, logger *zap.Logger) *InquiryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InquiryService{
		store:    store,
		cache:    cache,
		exporter: export.NewCSVExporter(),
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// Create records a new public contact-form submission with status NEW.
func (s *InquiryService) Create(ctx context.Context, req dto.CreateInquiryRequest) (*models.Inquiry, error) {
	inquiry := &models.Inquiry{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Subject:   req.Subject,
		Message:   req.Message,
		Status:    models.InquiryStatusNew,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.Create(ctx, inquiry); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return inquiry, nil
}

// List returns one page of the inbox, newest first.
func (s *InquiryService) List(ctx context.Context, filter dto.InquiryFilter, page, pageSize int) ([]models.Inquiry, *models.Pagination, error) {
	if pageSize <= 0 {
		pageSize = PageSize
	}
	if page < 0 {
		page = 0
	}

	key := fmt.Sprintf("inquiries:list:%s:%s:%d:%d", filter.Status, filter.Search, page, pageSize)
	var cached inquiryListing
	if s.cache != nil {
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			pagination := &models.Pagination{Page: page, PageSize: pageSize, TotalCount: cached.Total}
			return cached.Inquiries, pagination, nil
		} else if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("inquiry cache read failed", zap.Error(err))
		}
	}

	inquiries, total, err := s.store.List(ctx, filter, page, pageSize)
	if err != nil {
		return nil, nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, inquiryListing{Inquiries: inquiries, Total: total}, s.cacheTTL); err != nil {
			s.logger.Warn("inquiry cache write failed", zap.Error(err))
		}
	}

	pagination := &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}
	return inquiries, pagination, nil
}

// SetStatus moves an inquiry to READ or ARCHIVED.
func (s *InquiryService) SetStatus(ctx context.Context, id string, status models.InquiryStatus) (*models.Inquiry, error) {
	if !status.Valid() || status == models.InquiryStatusNew {
		return nil, appErrors.Clone(appErrors.ErrValidation, "status must be READ or ARCHIVED")
	}
	if err := s.store.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, err
	}
	s.invalidate(ctx)
	return s.store.FindByID(ctx, id)
}

// ExportCSV renders the filtered inbox to CSV bytes, newest first.
func (s *InquiryService) ExportCSV(ctx context.Context, filter dto.InquiryFilter) ([]byte, error) {
	inquiries, err := s.store.ListAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	dataset := export.Dataset{
		Headers: []string{"ID", "Name", "Email", "Phone", "Subject", "Message", "Status", "Created At"},
	}
	for _, inquiry := range inquiries {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"ID":         inquiry.ID,
			"Name":       inquiry.Name,
			"Email":      inquiry.Email,
			"Phone":      inquiry.Phone,
			"Subject":    inquiry.Subject,
			"Message":    inquiry.Message,
			"Status":     string(inquiry.Status),
			"Created At": inquiry.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return s.exporter.Render(dataset)
}

func (s *InquiryService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, "inquiries:list:*"); err != nil {
		s.logger.Warn("inquiry cache invalidation failed", zap.Error(err))
	}
}
