package service

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	appErrors "github.com/fonuscebu/coop-admin-api/pkg/errors"
)

func buildWorkbook(t *testing.T, sheets map[string][][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	first := true
	for name, rows := range sheets {
		if first {
			require.NoError(t, f.SetSheetName("Sheet1", name))
			first = false
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(name, cell, &row))
		}
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestImportAcceptsDataRows(t *testing.T) {
	buf := buildWorkbook(t, map[string][][]interface{}{
		"Sugbo Coop": {
			{"Member Roster 2025"},
			{"No.", "Family Name", "First Name", "Sex", "Birthdate", "Address"},
			{1, "DELA CRUZ", "JUAN", "Male", 44927, "Mandaue City"},
			{2, "TOTAL", "", "", "", ""},
			{3, "", "", "", "", ""},
		},
	})

	svc := NewImportService(nil)
	members, err := svc.Import(buf)
	require.NoError(t, err)
	require.Len(t, members, 1)

	assert.Equal(t, "JUAN DELA CRUZ", members[0].Name)
	assert.Equal(t, "SUGBO COOP", members[0].CoopName)
	assert.Equal(t, "MALE", members[0].Gender)
	assert.Equal(t, "1/1/2023", members[0].Birthdate)
	assert.Equal(t, "MANDAUE CITY", members[0].PresentAddress)
}

func TestImportSkipsUnrecognizableSheets(t *testing.T) {
	buf := buildWorkbook(t, map[string][][]interface{}{
		"Billing": {
			{"Item", "Amount"},
			{"Coffin", 100},
		},
	})

	svc := NewImportService(nil)
	_, err := svc.Import(buf)
	assert.ErrorIs(t, err, appErrors.ErrEmptyImport)
}

func TestImportRejectsNonWorkbook(t *testing.T) {
	svc := NewImportService(nil)
	_, err := svc.Import(strings.NewReader("not a workbook"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
