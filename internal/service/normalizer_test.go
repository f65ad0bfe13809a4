package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fonuscebu/coop-admin-api/internal/models"
)

func TestIsHeaderRow(t *testing.T) {
	assert.True(t, IsHeaderRow([]string{"No.", "FAMILY NAME", "First Name"}))
	assert.True(t, IsHeaderRow([]string{"first name", "surname"}))
	assert.False(t, IsHeaderRow([]string{"1", "DELA CRUZ", "JUAN"}))
	assert.False(t, IsHeaderRow(nil))
}

func TestBuildColumnMap(t *testing.T) {
	header := []string{"No.", "Family Name", "First Name", "Middle Initial", "Sex", "Date of Birth", "Present Address"}
	cols := BuildColumnMap(header)

	assert.Equal(t, 1, cols.FamilyName)
	assert.Equal(t, 2, cols.FirstName)
	assert.Equal(t, 3, cols.MiddleName)
	assert.Equal(t, -1, cols.FullName)
	assert.Equal(t, 4, cols.Gender)
	assert.Equal(t, 5, cols.Birthdate)
	assert.Equal(t, 6, cols.Address)
	assert.True(t, cols.HasNameColumn())
}

func TestBuildColumnMapNoNames(t *testing.T) {
	cols := BuildColumnMap([]string{"No.", "Amount", "Remarks"})
	assert.False(t, cols.HasNameColumn())
}

func TestNormalizeRowConcatenatesNameParts(t *testing.T) {
	cols := ColumnMap{FamilyName: 0, FirstName: 1, MiddleName: 2, FullName: -1, Gender: -1, Birthdate: -1, Address: -1}

	member, ok := NormalizeRow([]string{"DOE", "", "Q"}, cols, "Sugbo Coop")
	require.True(t, ok)
	assert.Equal(t, "Q DOE", member.Name)
}

func TestNormalizeRowPrefersFullNameColumn(t *testing.T) {
	cols := ColumnMap{FamilyName: 0, FirstName: 1, MiddleName: -1, FullName: 2, Gender: -1, Birthdate: -1, Address: -1}

	member, ok := NormalizeRow([]string{"doe", "john", "juan dela cruz"}, cols, "coop")
	require.True(t, ok)
	assert.Equal(t, "JUAN DELA CRUZ", member.Name)
}

func TestNormalizeRowRejectsBlankAndSkipRows(t *testing.T) {
	cols := ColumnMap{FamilyName: 0, FirstName: 1, MiddleName: -1, FullName: -1, Gender: -1, Birthdate: -1, Address: -1}

	_, ok := NormalizeRow([]string{"", ""}, cols, "coop")
	assert.False(t, ok)

	for _, keyword := range []string{"TOTAL", "Grand Total", "billing", "rate", "Count"} {
		_, ok := NormalizeRow([]string{keyword, ""}, cols, "coop")
		assert.False(t, ok, keyword)
	}

	// "Total" as a substring of a real name must not trigger the skip rule.
	member, ok := NormalizeRow([]string{"TOTALAN", "MARIA"}, cols, "coop")
	require.True(t, ok)
	assert.Equal(t, "MARIA TOTALAN", member.Name)
}

func TestNormalizeRowSerialBirthdate(t *testing.T) {
	cols := ColumnMap{FamilyName: 0, FirstName: -1, MiddleName: -1, FullName: -1, Gender: -1, Birthdate: 1, Address: -1}

	member, ok := NormalizeRow([]string{"DOE", "44927"}, cols, "coop")
	require.True(t, ok)
	assert.Equal(t, "1/1/2023", member.Birthdate)

	member, ok = NormalizeRow([]string{"DOE", "March 5, 1990"}, cols, "coop")
	require.True(t, ok)
	assert.Equal(t, "March 5, 1990", member.Birthdate)
}

func TestNormalizeRowStampsCurrentYear(t *testing.T) {
	cols := ColumnMap{FamilyName: 0, FirstName: -1, MiddleName: -1, FullName: -1, Gender: -1, Birthdate: -1, Address: -1}

	member, ok := NormalizeRow([]string{"DOE"}, cols, "Sugbo Coop")
	require.True(t, ok)

	current := member.Records[models.CurrentYearIndex()]
	assert.Equal(t, models.CurrentEnrollmentYear, current.Year)
	assert.Equal(t, models.EnrollmentPackage, current.Package)
	assert.Equal(t, models.EnrollmentValidity, current.Validity)
	assert.Equal(t, "SUGBO COOP", current.Representative)
	assert.Equal(t, models.EnrollmentRemarks, current.Remarks)
	assert.Equal(t, "SUGBO COOP", member.CoopName)
}

func TestNormalizeRowUppercasesFreeText(t *testing.T) {
	cols := ColumnMap{FamilyName: 0, FirstName: -1, MiddleName: -1, FullName: -1, Gender: 1, Birthdate: -1, Address: 2}

	member, ok := NormalizeRow([]string{"dela cruz", "male", "mandaue city"}, cols, "coop")
	require.True(t, ok)
	assert.Equal(t, "DELA CRUZ", member.Name)
	assert.Equal(t, "MALE", member.Gender)
	assert.Equal(t, "MANDAUE CITY", member.PresentAddress)
}
