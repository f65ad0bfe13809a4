package dto

import (
	"time"

	"github.com/fonuscebu/coop-admin-api/internal/models"
)

// ImportResult summarizes a spreadsheet import: how many rows were accepted
// into the working batch and whether the batch replaced a previous one.
type ImportResult struct {
	Imported int  `json:"imported"`
	Replaced bool `json:"replaced"`
	Pages    int  `json:"pages"`
}

// EditFieldRequest updates a single top-level field on a batch record.
type EditFieldRequest struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}

// EditYearFieldRequest updates one cell of a record's enrollment history.
type EditYearFieldRequest struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}

// BatchPage is one page of the working batch plus paging info.
type BatchPage struct {
	Records    []models.MemberRecord `json:"records"`
	Page       int                   `json:"page"`
	PageSize   int                   `json:"pageSize"`
	TotalPages int                   `json:"totalPages"`
	Total      int                   `json:"total"`
}

// SaveResult reports the outcome of persisting the working batch.
type SaveResult struct {
	Saved   int `json:"saved"`
	Updated int `json:"updated"`
}

// ExportJobStatus mirrors the progress of a background card export run.
type ExportJobStatus struct {
	JobID       string       `json:"jobId"`
	State       string       `json:"state"`
	Total       int          `json:"total"`
	Completed   int          `json:"completed"`
	Failed      string       `json:"failed,omitempty"`
	Error       string       `json:"error,omitempty"`
	Files       []ExportFile `json:"files,omitempty"`
	StartedAt   time.Time    `json:"startedAt"`
	CompletedAt *time.Time   `json:"completedAt,omitempty"`
}

// ExportFile is a finished card PDF with its signed download URL.
type ExportFile struct {
	Filename    string `json:"filename"`
	DownloadURL string `json:"downloadUrl"`
}

// Export job states.
const (
	ExportStateRunning   = "RUNNING"
	ExportStateCompleted = "COMPLETED"
	ExportStateFailed    = "FAILED"
)
