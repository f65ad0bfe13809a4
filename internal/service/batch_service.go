package service

import (
	"sync"

	"go.uber.org/zap"

	"github.com/fonuscebu/coop-admin-api/internal/dto"
	"github.com/fonuscebu/coop-admin-api/internal/models"
	appErrors "github.com/fonuscebu/coop-admin-api/pkg/errors"
)

// PageSize is the fixed number of records per batch page.
const PageSize = 20

// BatchService holds the in-memory working batch of membership records under
// edit. There is one editor session, but HTTP handlers may overlap, so all
// access goes through a mutex. The batch never becomes empty: removing the
// last record resets it to a single default record.
type BatchService struct {
	mu      sync.Mutex
	records []*models.MemberRecord
	logger  *zap.Logger
}

// NewBatchService constructs a batch seeded with one default record.
func NewBatchService(logger *zap.Logger) *BatchService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchService{
		records: []*models.MemberRecord{models.NewDefaultMember()},
		logger:  logger,
	}
}

// Replace swaps the whole batch for a freshly imported one. When the current
// batch already holds user data, confirm must be true or the call fails with
// ErrConfirmRequired so the caller can ask the operator first.
func (s *BatchService) Replace(records []*models.MemberRecord, confirm bool) error {
	if len(records) == 0 {
		return appErrors.ErrEmptyImport
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hasDataLocked() && !confirm {
		return appErrors.ErrConfirmRequired
	}
	s.records = records
	s.logger.Info("batch replaced", zap.Int("records", len(records)))
	return nil
}

// Append adds one default record to the end of the batch and returns its
// absolute index.
func (s *BatchService) Append() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, models.NewDefaultMember())
	return len(s.records) - 1
}

// Page returns one zero-based page of the batch. A page beyond range yields
// an empty slice, not an error.
func (s *BatchService) Page(page int) dto.BatchPage {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := len(s.records)
	totalPages := (total + PageSize - 1) / PageSize

	result := dto.BatchPage{
		Page:       page,
		PageSize:   PageSize,
		TotalPages: totalPages,
		Total:      total,
		Records:    []models.MemberRecord{},
	}

	start := page * PageSize
	if page < 0 || start >= total {
		return result
	}
	end := start + PageSize
	if end > total {
		end = total
	}
	for _, r := range s.records[start:end] {
		result.Records = append(result.Records, *r)
	}
	return result
}

// EditField sets one top-level field on the record at the absolute index.
// Setting the coop name also patches the current enrollment year's
// representative on that record.
func (s *BatchService) EditField(index int, field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.recordLocked(index)
	if err != nil {
		return err
	}
	if err := record.SetField(field, value); err != nil {
		return appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	return nil
}

// EditYearField sets one cell of a record's enrollment history. The year
// label itself is immutable.
func (s *BatchService) EditYearField(index, yearIndex int, field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.recordLocked(index)
	if err != nil {
		return err
	}
	if err := record.SetYearField(yearIndex, field, value); err != nil {
		return appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	return nil
}

// AttachPhoto stores the uploaded photo bytes on the record.
func (s *BatchService) AttachPhoto(index int, photo []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.recordLocked(index)
	if err != nil {
		return err
	}
	record.Photo = photo
	return nil
}

// Remove drops the record at the absolute index, collapsing the sequence.
// Removing the only record leaves a single default record instead.
func (s *BatchService) Remove(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.recordLocked(index); err != nil {
		return err
	}
	if len(s.records) == 1 {
		s.records[0] = models.NewDefaultMember()
		return nil
	}
	s.records = append(s.records[:index], s.records[index+1:]...)
	return nil
}

// Snapshot returns deep copies of the whole batch in order, safe to render
// or persist while edits continue.
func (s *BatchService) Snapshot() []models.MemberRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.MemberRecord, len(s.records))
	for i, r := range s.records {
		out[i] = *r
	}
	return out
}

// SetID stamps a persisted identifier back onto the batch record at the
// given index, if it still exists.
func (s *BatchService) SetID(index int, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index >= 0 && index < len(s.records) {
		s.records[index].ID = id
	}
}

// Len reports the number of records in the batch.
func (s *BatchService) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

func (s *BatchService) recordLocked(index int) (*models.MemberRecord, error) {
	if index < 0 || index >= len(s.records) {
		return nil, appErrors.ErrNotFound
	}
	return s.records[index], nil
}

func (s *BatchService) hasDataLocked() bool {
	for _, r := range s.records {
		if !r.IsBlank() {
			return true
		}
	}
	return false
}
