package service

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/fonuscebu/coop-admin-api/internal/models"
	appErrors "github.com/fonuscebu/coop-admin-api/pkg/errors"
)

// ImportService turns an uploaded workbook into a flat ordered sequence of
// membership records. One sheet encodes one cooperative: every record built
// from a sheet carries that sheet's display name as its coop name.
type ImportService struct {
	logger *zap.Logger
}

// NewImportService constructs an import service.
func NewImportService(logger *zap.Logger) *ImportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImportService{logger: logger}
}

// Import parses every recognizable sheet in the workbook, sheet order and
// row order preserved. Sheets without a header row or name columns are
// skipped. A workbook yielding zero accepted rows returns ErrEmptyImport.
func (s *ImportService) Import(r io.Reader) ([]*models.MemberRecord, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("cannot read workbook: %v", err))
	}
	defer f.Close()

	var members []*models.MemberRecord
	for _, sheetName := range f.GetSheetList() {
		// Raw cell values keep numeric serial dates numeric so the
		// normalizer can apply the epoch conversion.
		rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", sheetName, err)
		}

		accepted, rejected := s.importSheet(sheetName, rows, &members)
		s.logger.Info("sheet processed",
			zap.String("sheet", sheetName),
			zap.Int("accepted", accepted),
			zap.Int("rejected", rejected),
		)
	}

	if len(members) == 0 {
		return nil, appErrors.ErrEmptyImport
	}
	return members, nil
}

func (s *ImportService) importSheet(sheetName string, rows [][]string, out *[]*models.MemberRecord) (accepted, rejected int) {
	headerIdx := -1
	for i, row := range rows {
		if IsHeaderRow(row) {
			headerIdx = i
			break
		}
	}
	if headerIdx == -1 {
		s.logger.Warn("sheet has no header row, skipping", zap.String("sheet", sheetName))
		return 0, 0
	}

	cols := BuildColumnMap(rows[headerIdx])
	if !cols.HasNameColumn() {
		s.logger.Warn("sheet has no name columns, skipping", zap.String("sheet", sheetName))
		return 0, 0
	}

	for _, row := range rows[headerIdx+1:] {
		member, ok := NormalizeRow(row, cols, sheetName)
		if !ok {
			rejected++
			continue
		}
		*out = append(*out, member)
		accepted++
	}
	return accepted, rejected
}
