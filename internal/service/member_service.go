package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fonuscebu/coop-admin-api/internal/dto"
	"github.com/fonuscebu/coop-admin-api/internal/models"
	appErrors "github.com/fonuscebu/coop-admin-api/pkg/errors"
)

type memberStore interface {
	Insert(ctx context.Context, member *models.MemberRecord) error
	Update(ctx context.Context, member *models.MemberRecord) error
}

type batchSource interface {
	Snapshot() []models.MemberRecord
	SetID(index int, id string)
}

// MemberService persists the working batch to the memberships table.
type MemberService struct {
	store  memberStore
	batch  batchSource
	logger *zap.Logger
}

// NewMemberService constructs a member service.
func NewMemberService(store memberStore, batch batchSource, logger *zap.Logger) *MemberService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MemberService{store: store, batch: batch, logger: logger}
}

// SaveAll validates every batch record, then persists them concurrently.
// Validation failures abort before any write. A single write failure fails
// the whole save so a partial result never goes unnoticed.
func (s *MemberService) SaveAll(ctx context.Context) (*dto.SaveResult, error) {
	records := s.batch.Snapshot()

	for i := range records {
		if missing := records[i].MissingRequiredFields(); len(missing) > 0 {
			return nil, appErrors.Clone(appErrors.ErrValidation,
				fmt.Sprintf("record %d (%s) is missing: %s", i+1, records[i].DisplayName(), strings.Join(missing, ", ")))
		}
	}

	now := time.Now().UTC()
	type assigned struct {
		index int
		id    string
	}
	created := make([]assigned, 0, len(records))
	var saved, updated int

	g, gctx := errgroup.WithContext(ctx)
	results := make(chan assigned, len(records))
	counts := make(chan bool, len(records))

	for i := range records {
		i := i
		record := records[i]
		g.Go(func() error {
			record.UpdatedAt = now
			if record.ID != "" {
				if err := s.store.Update(gctx, &record); err != nil {
					return fmt.Errorf("save %s: %w", record.DisplayName(), err)
				}
				counts <- true
				return nil
			}
			record.ID = uuid.NewString()
			record.CreatedAt = now
			if err := s.store.Insert(gctx, &record); err != nil {
				return fmt.Errorf("save %s: %w", record.DisplayName(), err)
			}
			results <- assigned{index: i, id: record.ID}
			counts <- false
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	close(results)
	close(counts)

	for a := range results {
		created = append(created, a)
	}
	for wasUpdate := range counts {
		if wasUpdate {
			updated++
		} else {
			saved++
		}
	}

	// Stamp generated IDs back onto the live batch so a second save
	// updates instead of duplicating.
	for _, a := range created {
		s.batch.SetID(a.index, a.id)
	}

	s.logger.Info("batch saved", zap.Int("inserted", saved), zap.Int("updated", updated))
	return &dto.SaveResult{Saved: saved, Updated: updated}, nil
}
