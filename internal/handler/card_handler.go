package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fonuscebu/coop-admin-api/internal/dto"
	"github.com/fonuscebu/coop-admin-api/internal/service"
	appErrors "github.com/fonuscebu/coop-admin-api/pkg/errors"
	"github.com/fonuscebu/coop-admin-api/pkg/response"
)

// CardHandler wires the membership-card batch pipeline: workbook import,
// paging, per-field edits, persistence and PDF export.
type CardHandler struct {
	importSvc      *service.ImportService
	batch          *service.BatchService
	members        *service.MemberService
	exports        *service.CardExportService
	metrics        *service.MetricsService
	maxUploadBytes int64
}

// NewCardHandler creates a new handler.
func NewCardHandler(importSvc *service.ImportService, batch *service.BatchService, members *service.MemberService, exports *service.CardExportService, metrics *service.MetricsService, maxUploadBytes int64) *CardHandler {
	return &CardHandler{
		importSvc:      importSvc,
		batch:          batch,
		members:        members,
		exports:        exports,
		metrics:        metrics,
		maxUploadBytes: maxUploadBytes,
	}
}

// Import godoc
// @Summary Import a membership workbook
// @Description Replaces the working batch with records parsed from the uploaded spreadsheet
// @Tags Cards
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Workbook file"
// @Param confirm query bool false "Confirm replacing a batch that holds unsaved edits"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/cards/import [post]
func (h *CardHandler) Import(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "workbook file is required"))
		return
	}
	if h.maxUploadBytes > 0 && fileHeader.Size > h.maxUploadBytes {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "workbook exceeds the upload size limit"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close()

	records, err := h.importSvc.Import(file)
	if err != nil {
		response.Error(c, err)
		return
	}

	confirm := c.Query("confirm") == "true"
	if err := h.batch.Replace(records, confirm); err != nil {
		response.Error(c, err)
		return
	}
	h.metrics.AddImportedRecords(len(records))

	pages := (len(records) + service.PageSize - 1) / service.PageSize
	response.JSON(c, http.StatusOK, dto.ImportResult{Imported: len(records), Replaced: confirm, Pages: pages}, nil)
}

// Page godoc
// @Summary One page of the working batch
// @Tags Cards
// @Produce json
// @Param page query int false "Zero-based page"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/cards [get]
func (h *CardHandler) Page(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	response.JSON(c, http.StatusOK, h.batch.Page(page), nil)
}

// Append godoc
// @Summary Append a blank record to the batch
// @Tags Cards
// @Produce json
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/cards [post]
func (h *CardHandler) Append(c *gin.Context) {
	index := h.batch.Append()
	response.Created(c, gin.H{"index": index})
}

// EditField godoc
// @Summary Edit one field of a batch record
// @Tags Cards
// @Accept json
// @Produce json
// @Param index path int true "Absolute batch index"
// @Param payload body dto.EditFieldRequest true "Field edit"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/cards/{index} [patch]
func (h *CardHandler) EditField(c *gin.Context) {
	index, err := pathIndex(c, "index")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.EditFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid edit payload"))
		return
	}
	if err := h.batch.EditField(index, req.Field, req.Value); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// EditYearField godoc
// @Summary Edit one enrollment-history cell of a batch record
// @Tags Cards
// @Accept json
// @Produce json
// @Param index path int true "Absolute batch index"
// @Param recordIndex path int true "History row index (0-5)"
// @Param payload body dto.EditYearFieldRequest true "Cell edit"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/cards/{index}/records/{recordIndex} [patch]
func (h *CardHandler) EditYearField(c *gin.Context) {
	index, err := pathIndex(c, "index")
	if err != nil {
		response.Error(c, err)
		return
	}
	yearIndex, err := pathIndex(c, "recordIndex")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.EditYearFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid edit payload"))
		return
	}
	if err := h.batch.EditYearField(index, yearIndex, req.Field, req.Value); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// AttachPhoto godoc
// @Summary Attach a photo to a batch record
// @Tags Cards
// @Accept multipart/form-data
// @Produce json
// @Param index path int true "Absolute batch index"
// @Param photo formData file true "Photo image"
// @Success 204 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/cards/{index}/photo [post]
func (h *CardHandler) AttachPhoto(c *gin.Context) {
	index, err := pathIndex(c, "index")
	if err != nil {
		response.Error(c, err)
		return
	}
	fileHeader, err := c.FormFile("photo")
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "photo file is required"))
		return
	}
	if h.maxUploadBytes > 0 && fileHeader.Size > h.maxUploadBytes {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "photo exceeds the upload size limit"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close()

	photo, err := io.ReadAll(file)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.batch.AttachPhoto(index, photo); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Remove godoc
// @Summary Remove a record from the batch
// @Tags Cards
// @Produce json
// @Param index path int true "Absolute batch index"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/cards/{index} [delete]
func (h *CardHandler) Remove(c *gin.Context) {
	index, err := pathIndex(c, "index")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.batch.Remove(index); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Save godoc
// @Summary Persist the whole working batch
// @Tags Cards
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/cards/save [post]
func (h *CardHandler) Save(c *gin.Context) {
	result, err := h.members.SaveAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Export godoc
// @Summary Export one batch page as card PDFs
// @Tags Cards
// @Produce json
// @Param page query int false "Zero-based page"
// @Success 202 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/cards/export [post]
func (h *CardHandler) Export(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	jobID, err := h.exports.Enqueue(page)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, gin.H{"jobId": jobID})
}

// ExportStatus godoc
// @Summary Poll an export job
// @Tags Cards
// @Produce json
// @Param jobID path string true "Job ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/cards/export/{jobID} [get]
func (h *CardHandler) ExportStatus(c *gin.Context) {
	status, err := h.exports.Status(c.Param("jobID"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, status, nil)
}

// Download godoc
// @Summary Download an exported card PDF by signed token
// @Tags Cards
// @Produce application/pdf
// @Param token path string true "Signed download token"
// @Success 200 {file} file
// @Failure 401 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/cards/download/{token} [get]
func (h *CardHandler) Download(c *gin.Context) {
	path, filename, err := h.exports.ResolveDownload(c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.FileAttachment(path, filename)
}

func pathIndex(c *gin.Context, name string) (int, error) {
	value, err := strconv.Atoi(c.Param(name))
	if err != nil {
		return 0, appErrors.Clone(appErrors.ErrValidation, "invalid "+name)
	}
	return value, nil
}
