package service

import (
	"context"
	"fmt"
	"image"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fonuscebu/coop-admin-api/internal/dto"
	"github.com/fonuscebu/coop-admin-api/internal/models"
	appErrors "github.com/fonuscebu/coop-admin-api/pkg/errors"
	"github.com/fonuscebu/coop-admin-api/pkg/jobs"
	"github.com/fonuscebu/coop-admin-api/pkg/render"
)

type pageSource interface {
	Page(page int) dto.BatchPage
}

type cardRenderer interface {
	RenderFront(data render.CardData) image.Image
	RenderBack(data render.CardData) image.Image
}

type cardAssembler interface {
	Render(front, back image.Image) ([]byte, error)
}

type exportStorage interface {
	Save(filename string, data []byte) (string, error)
	Path(filename string) string
}

type downloadSigner interface {
	Generate(jobID, relPath string) (string, time.Time, error)
	Parse(token string) (jobID, relPath string, expiresAt time.Time, err error)
}

type exportPayload struct {
	records []models.MemberRecord
}

// CardExportService walks one batch page record by record, renders both card
// sides, assembles a per-record PDF and stores it. Runs on a single-worker
// queue so at most one export is rendering at a time; a fixed delay between
// records bounds rendering load. The first failure halts the remainder.
type CardExportService struct {
	batch    pageSource
	renderer cardRenderer
	pdf      cardAssembler
	storage  exportStorage
	signer   downloadSigner
	delay    time.Duration
	metrics  *MetricsService
	logger   *zap.Logger

	queue *jobs.Queue

	mu       sync.Mutex
	statuses map[string]*dto.ExportJobStatus
}

// NewCardExportService constructs the export pipeline.
func NewCardExportService(batch pageSource, renderer cardRenderer, pdf cardAssembler, storage exportStorage, signer downloadSigner, delay time.Duration, metrics *MetricsService, logger *zap.Logger) *CardExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &CardExportService{
		batch:    batch,
		renderer: renderer,
		pdf:      pdf,
		storage:  storage,
		signer:   signer,
		delay:    delay,
		metrics:  metrics,
		logger:   logger,
		statuses: make(map[string]*dto.ExportJobStatus),
	}
	s.queue = jobs.NewQueue("card-export", s.run, jobs.QueueConfig{Workers: 1, Logger: logger})
	return s
}

// Start launches the queue workers. Call once at startup.
func (s *CardExportService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the queue workers.
func (s *CardExportService) Stop() {
	s.queue.Stop()
}

// Enqueue schedules an export of the given zero-based batch page and returns
// the job identifier for status polling.
func (s *CardExportService) Enqueue(page int) (string, error) {
	batchPage := s.batch.Page(page)
	if len(batchPage.Records) == 0 {
		return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("page %d has no records", page))
	}

	jobID := uuid.NewString()
	s.mu.Lock()
	s.statuses[jobID] = &dto.ExportJobStatus{
		JobID:     jobID,
		State:     dto.ExportStateRunning,
		Total:     len(batchPage.Records),
		StartedAt: time.Now().UTC(),
	}
	s.mu.Unlock()

	err := s.queue.Enqueue(jobs.Job{
		ID:      jobID,
		Type:    "card-export",
		Payload: exportPayload{records: batchPage.Records},
	})
	if err != nil {
		s.mu.Lock()
		delete(s.statuses, jobID)
		s.mu.Unlock()
		return "", err
	}
	return jobID, nil
}

// Status returns a copy of the job's progress.
func (s *CardExportService) Status(jobID string) (*dto.ExportJobStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	status, ok := s.statuses[jobID]
	if !ok {
		return nil, appErrors.ErrNotFound
	}
	copied := *status
	copied.Files = append([]dto.ExportFile(nil), status.Files...)
	return &copied, nil
}

// ResolveDownload validates a signed token and returns the absolute path and
// bare filename of the exported PDF.
func (s *CardExportService) ResolveDownload(token string) (path, filename string, err error) {
	_, relPath, _, err := s.signer.Parse(token)
	if err != nil {
		return "", "", appErrors.ErrUnauthorized
	}
	return s.storage.Path(relPath), relPath, nil
}

func (s *CardExportService) run(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(exportPayload)
	if !ok {
		return fmt.Errorf("unexpected payload type %T", job.Payload)
	}

	for i, record := range payload.records {
		if err := s.exportOne(job.ID, record); err != nil {
			s.fail(job.ID, record.DisplayName(), err)
			s.metrics.CountExportFailure()
			return err
		}
		s.progress(job.ID)
		s.metrics.CountCardExported()

		if i < len(payload.records)-1 && s.delay > 0 {
			select {
			case <-ctx.Done():
				err := ctx.Err()
				s.fail(job.ID, record.DisplayName(), err)
				return err
			case <-time.After(s.delay):
			}
		}
	}

	s.complete(job.ID)
	return nil
}

func (s *CardExportService) exportOne(jobID string, record models.MemberRecord) error {
	started := time.Now()
	data := cardData(record)
	front := s.renderer.RenderFront(data)
	back := s.renderer.RenderBack(data)

	pdfBytes, err := s.pdf.Render(front, back)
	if err != nil {
		return fmt.Errorf("%w: %s", appErrors.ErrRenderFailed, err)
	}
	s.metrics.ObserveRender(time.Since(started))

	filename := ExportFilename(record.Name, record.CoopName)
	if _, err := s.storage.Save(filename, pdfBytes); err != nil {
		return fmt.Errorf("save %s: %w", filename, err)
	}

	token, _, err := s.signer.Generate(jobID, filename)
	if err != nil {
		return fmt.Errorf("sign download for %s: %w", filename, err)
	}

	s.mu.Lock()
	if status, ok := s.statuses[jobID]; ok {
		status.Files = append(status.Files, dto.ExportFile{
			Filename:    filename,
			DownloadURL: "/api/v1/admin/cards/download/" + token,
		})
	}
	s.mu.Unlock()

	s.logger.Info("card exported", zap.String("job_id", jobID), zap.String("file", filename))
	return nil
}

func (s *CardExportService) progress(jobID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status, ok := s.statuses[jobID]; ok {
		status.Completed++
	}
}

func (s *CardExportService) complete(jobID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status, ok := s.statuses[jobID]; ok {
		now := time.Now().UTC()
		status.State = dto.ExportStateCompleted
		status.CompletedAt = &now
	}
}

func (s *CardExportService) fail(jobID, displayName string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status, ok := s.statuses[jobID]; ok {
		now := time.Now().UTC()
		status.State = dto.ExportStateFailed
		status.Failed = displayName
		status.Error = err.Error()
		status.CompletedAt = &now
	}
}

// ExportFilename derives the output file name: the last word of the member's
// name and the cooperative name with spaces stripped, both upper-cased.
func ExportFilename(name, coopName string) string {
	last := "UNNAMED"
	if words := strings.Fields(name); len(words) > 0 {
		last = strings.ToUpper(words[len(words)-1])
	}
	coop := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(coopName), " ", ""))
	if coop == "" {
		coop = "GENERAL"
	}
	return last + "-" + coop + ".pdf"
}

func cardData(record models.MemberRecord) render.CardData {
	years := make([]render.YearRow, 0, len(record.Records))
	for _, y := range record.Records {
		years = append(years, render.YearRow{
			Year:           y.Year,
			Package:        y.Package,
			Validity:       y.Validity,
			Representative: y.Representative,
			Remarks:        y.Remarks,
		})
	}
	return render.CardData{
		Name:             record.Name,
		PresentAddress:   record.PresentAddress,
		Birthdate:        record.Birthdate,
		Gender:           record.Gender,
		CoopName:         record.CoopName,
		DateIssued:       record.DateIssued,
		EmergencyContact: record.EmergencyContact,
		Photo:            record.Photo,
		Years:            years,
	}
}
