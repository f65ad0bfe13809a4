package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/fonuscebu/coop-admin-api/internal/dto"
	"github.com/fonuscebu/coop-admin-api/internal/models"
	"github.com/fonuscebu/coop-admin-api/internal/service"
)

func newCardRouter(t *testing.T) (*gin.Engine, *service.BatchService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	batch := service.NewBatchService(nil)
	handler := NewCardHandler(service.NewImportService(nil), batch, nil, nil, nil, 0)

	r := gin.New()
	r.POST("/cards/import", handler.Import)
	r.GET("/cards", handler.Page)
	r.POST("/cards", handler.Append)
	r.PATCH("/cards/:index", handler.EditField)
	r.PATCH("/cards/:index/records/:recordIndex", handler.EditYearField)
	r.DELETE("/cards/:index", handler.Remove)
	return r, batch
}

func workbookUpload(t *testing.T) (*bytes.Buffer, string) {
	t.Helper()
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", "Sugbo Coop"))
	rows := [][]interface{}{
		{"Family Name", "First Name", "Sex"},
		{"DELA CRUZ", "JUAN", "Male"},
		{"SANTOS", "MARIA", "Female"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sugbo Coop", cell, &row))
	}
	sheet, err := f.WriteToBuffer()
	require.NoError(t, err)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "roster.xlsx")
	require.NoError(t, err)
	_, err = part.Write(sheet.Bytes())
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestCardImportAndPage(t *testing.T) {
	r, _ := newCardRouter(t)

	body, contentType := workbookUpload(t)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/cards/import", body)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cards?page=0", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data dto.BatchPage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data.Records, 2)
	assert.Equal(t, "JUAN DELA CRUZ", envelope.Data.Records[0].Name)
	assert.Equal(t, "SUGBO COOP", envelope.Data.Records[0].CoopName)
}

func TestCardImportRequiresConfirmation(t *testing.T) {
	r, batch := newCardRouter(t)
	require.NoError(t, batch.EditField(0, models.FieldName, "UNSAVED EDIT"))

	body, contentType := workbookUpload(t)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/cards/import", body)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusConflict, w.Code)

	body, contentType = workbookUpload(t)
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/cards/import?confirm=true", body)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestCardEditAndRemove(t *testing.T) {
	r, batch := newCardRouter(t)

	payload, _ := json.Marshal(dto.EditFieldRequest{Field: models.FieldCoopName, Value: "ABC COOP"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/cards/0", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusNoContent, w.Code)

	snapshot := batch.Snapshot()
	assert.Equal(t, "ABC COOP", snapshot[0].Records[models.CurrentYearIndex()].Representative)

	payload, _ = json.Marshal(dto.EditYearFieldRequest{Field: models.YearFieldRemarks, Value: "RENEWED"})
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPatch, "/cards/0/records/2", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/cards/0", nil))
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 1, batch.Len())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/cards/42", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
