package service

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fonuscebu/coop-admin-api/internal/dto"
	"github.com/fonuscebu/coop-admin-api/internal/models"
	appErrors "github.com/fonuscebu/coop-admin-api/pkg/errors"
	"github.com/fonuscebu/coop-admin-api/pkg/render"
)

type stubRenderer struct{}

func (stubRenderer) RenderFront(render.CardData) image.Image {
	return image.NewNRGBA(image.Rect(0, 0, 1, 1))
}

func (stubRenderer) RenderBack(render.CardData) image.Image {
	return image.NewNRGBA(image.Rect(0, 0, 1, 1))
}

type stubAssembler struct {
	mu       sync.Mutex
	rendered int
	failAt   int
}

func (a *stubAssembler) Render(front, back image.Image) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.rendered++
	if a.failAt > 0 && a.rendered == a.failAt {
		return nil, errors.New("rasterizer crashed")
	}
	return []byte("%PDF-fake"), nil
}

type stubStorage struct {
	mu    sync.Mutex
	saved []string
}

func (s *stubStorage) Save(filename string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = append(s.saved, filename)
	return filename, nil
}

func (s *stubStorage) Path(filename string) string { return "/exports/" + filename }

type stubSigner struct{}

func (stubSigner) Generate(jobID, relPath string) (string, time.Time, error) {
	return jobID + ":" + relPath, time.Now().Add(time.Hour), nil
}

func (stubSigner) Parse(token string) (string, string, time.Time, error) {
	return "job", "BACK-HALF.pdf", time.Now().Add(time.Hour), nil
}

func exportBatch(t *testing.T, n int) *BatchService {
	t.Helper()
	batch := NewBatchService(nil)
	records := make([]*models.MemberRecord, n)
	for i := range records {
		m := models.NewDefaultMember()
		m.Name = fmt.Sprintf("JUAN CRUZ%d", i)
		m.CoopName = "SUGBO COOP"
		records[i] = m
	}
	require.NoError(t, batch.Replace(records, true))
	return batch
}

func newExportService(t *testing.T, batch *BatchService, assembler *stubAssembler, storage *stubStorage) *CardExportService {
	t.Helper()
	svc := NewCardExportService(batch, stubRenderer{}, assembler, storage, stubSigner{}, time.Millisecond, nil, nil)
	svc.Start(context.Background())
	t.Cleanup(svc.Stop)
	return svc
}

func waitForJob(t *testing.T, svc *CardExportService, jobID string) *dto.ExportJobStatus {
	t.Helper()
	var status *dto.ExportJobStatus
	require.Eventually(t, func() bool {
		s, err := svc.Status(jobID)
		if err != nil {
			return false
		}
		status = s
		return status.State != dto.ExportStateRunning
	}, 5*time.Second, 5*time.Millisecond)
	return status
}

func TestExportRunsSequentially(t *testing.T) {
	assembler := &stubAssembler{}
	storage := &stubStorage{}
	svc := newExportService(t, exportBatch(t, 5), assembler, storage)

	jobID, err := svc.Enqueue(0)
	require.NoError(t, err)

	status := waitForJob(t, svc, jobID)
	assert.Equal(t, dto.ExportStateCompleted, status.State)
	assert.Equal(t, 5, status.Completed)
	require.Len(t, status.Files, 5)
	assert.Equal(t, "CRUZ0-SUGBOCOOP.pdf", status.Files[0].Filename)
	assert.Contains(t, status.Files[0].DownloadURL, "/cards/download/")
	assert.Equal(t, 5, assembler.rendered)
	assert.Len(t, storage.saved, 5)
}

func TestExportHaltsOnFirstFailure(t *testing.T) {
	assembler := &stubAssembler{failAt: 3}
	storage := &stubStorage{}
	svc := newExportService(t, exportBatch(t, 5), assembler, storage)

	jobID, err := svc.Enqueue(0)
	require.NoError(t, err)

	status := waitForJob(t, svc, jobID)
	assert.Equal(t, dto.ExportStateFailed, status.State)
	assert.Equal(t, "JUAN CRUZ2", status.Failed)
	assert.NotEmpty(t, status.Error)
	// Records before the failure were saved; the rest never attempted.
	assert.Equal(t, 2, status.Completed)
	assert.Len(t, storage.saved, 2)
	assert.Equal(t, 3, assembler.rendered)
}

func TestExportEmptyPageRejected(t *testing.T) {
	svc := newExportService(t, exportBatch(t, 5), &stubAssembler{}, &stubStorage{})

	_, err := svc.Enqueue(7)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestExportStatusUnknownJob(t *testing.T) {
	svc := newExportService(t, exportBatch(t, 1), &stubAssembler{}, &stubStorage{})
	_, err := svc.Status("nope")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestExportFilename(t *testing.T) {
	assert.Equal(t, "CRUZ-SUGBOCOOP.pdf", ExportFilename("Juan Dela Cruz", "Sugbo Coop"))
	assert.Equal(t, "UNNAMED-GENERAL.pdf", ExportFilename("", ""))
	assert.Equal(t, "DOE-GENERAL.pdf", ExportFilename("doe", "   "))
}
