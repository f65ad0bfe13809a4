package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fonuscebu/coop-admin-api/internal/dto"
	"github.com/fonuscebu/coop-admin-api/internal/models"
	"github.com/fonuscebu/coop-admin-api/internal/service"
	appErrors "github.com/fonuscebu/coop-admin-api/pkg/errors"
	"github.com/fonuscebu/coop-admin-api/pkg/response"
)

// InquiryHandler wires the public contact form and the admin inbox.
type InquiryHandler struct {
	service *service.InquiryService
}

// NewInquiryHandler creates a new handler.
func NewInquiryHandler(svc *service.InquiryService) *InquiryHandler {
	return &InquiryHandler{service: svc}
}

// Create godoc
// @Summary Submit a contact inquiry
// @Tags Inquiries
// @Accept json
// @Produce json
// @Param payload body dto.CreateInquiryRequest true "Inquiry payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /inquiries [post]
func (h *InquiryHandler) Create(c *gin.Context) {
	var req dto.CreateInquiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid inquiry payload"))
		return
	}

	inquiry, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, inquiry)
}

// List godoc
// @Summary List inbox inquiries
// @Tags Inquiries
// @Produce json
// @Param status query string false "Filter by status (NEW, READ, ARCHIVED)"
// @Param search query string false "Search name, email or subject"
// @Param page query int false "Zero-based page"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/inquiries [get]
func (h *InquiryHandler) List(c *gin.Context) {
	filter := dto.InquiryFilter{
		Status: models.InquiryStatus(c.Query("status")),
		Search: c.Query("search"),
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	inquiries, pagination, err := h.service.List(c.Request.Context(), filter, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, inquiries, pagination)
}

// UpdateStatus godoc
// @Summary Move an inquiry to READ or ARCHIVED
// @Tags Inquiries
// @Accept json
// @Produce json
// @Param id path string true "Inquiry ID"
// @Param payload body dto.UpdateInquiryStatusRequest true "Status payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/inquiries/{id} [patch]
func (h *InquiryHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateInquiryStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid status payload"))
		return
	}

	inquiry, err := h.service.SetStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, inquiry, nil)
}

// ExportCSV godoc
// @Summary Download the inbox as CSV
// @Tags Inquiries
// @Produce text/csv
// @Param status query string false "Filter by status"
// @Success 200 {file} file
// @Security BearerAuth
// @Router /admin/inquiries/export [get]
func (h *InquiryHandler) ExportCSV(c *gin.Context) {
	filter := dto.InquiryFilter{Status: models.InquiryStatus(c.Query("status"))}

	out, err := h.service.ExportCSV(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	filename := "inquiries-" + time.Now().UTC().Format("2006-01-02") + ".csv"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv", out)
}
