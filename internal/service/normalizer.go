package service

import (
	"strconv"
	"strings"
	"time"

	"github.com/fonuscebu/coop-admin-api/internal/models"
)

// Column keyword sets. A header cell is classified into the first logical
// field whose keyword it contains, case-insensitively.
var (
	familyNameKeywords = []string{"family", "surname", "last name", "last_name"}
	firstNameKeywords  = []string{"first name", "given name", "first_name"}
	middleNameKeywords = []string{"middle name", "middle initial", "m.i.", "middle_name"}
	fullNameKeywords   = []string{"full name", "fullname", "member name", "name of member", "complete name"}
	genderKeywords     = []string{"gender", "sex"}
	birthdateKeywords  = []string{"birthdate", "birth date", "b-date", "date of birth", "dob", "bday"}
	addressKeywords    = []string{"address", "present address", "residence", "home address", "location"}
)

// Rows whose name cell is exactly one of these are subtotal or billing
// artifacts, not people, and are dropped silently.
var skipKeywords = map[string]struct{}{
	"billing":     {},
	"rate":        {},
	"total":       {},
	"grand total": {},
	"count":       {},
}

// Days between the spreadsheet date epoch (1899-12-30) and the Unix epoch.
const spreadsheetEpochOffsetDays = 25569

// ColumnMap maps logical record fields to zero-based column indices within
// one sheet. -1 marks an absent column.
type ColumnMap struct {
	FamilyName int
	FirstName  int
	MiddleName int
	FullName   int
	Gender     int
	Birthdate  int
	Address    int
}

// HasNameColumn reports whether any person-identifying column was found.
func (m ColumnMap) HasNameColumn() bool {
	return m.FullName != -1 || m.FirstName != -1 || m.FamilyName != -1
}

// IsHeaderRow reports whether the row looks like a sheet's column header.
func IsHeaderRow(row []string) bool {
	for _, cell := range row {
		lower := strings.ToLower(cell)
		if strings.Contains(lower, "family") || strings.Contains(lower, "first name") {
			return true
		}
	}
	return false
}

// BuildColumnMap classifies a header row into a ColumnMap. The first column
// matching a field's keyword set wins for that field.
func BuildColumnMap(header []string) ColumnMap {
	return ColumnMap{
		FamilyName: findColumn(header, familyNameKeywords),
		FirstName:  findColumn(header, firstNameKeywords),
		MiddleName: findColumn(header, middleNameKeywords),
		FullName:   findColumn(header, fullNameKeywords),
		Gender:     findColumn(header, genderKeywords),
		Birthdate:  findColumn(header, birthdateKeywords),
		Address:    findColumn(header, addressKeywords),
	}
}

func findColumn(header []string, keywords []string) int {
	for i, cell := range header {
		lower := strings.ToLower(cell)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				return i
			}
		}
	}
	return -1
}

// NormalizeRow builds a MemberRecord from one data row. The boolean result is
// false when the row is not a data row: blank name cells or a subtotal
// artifact. Rejected rows are not errors; the importer just counts them.
func NormalizeRow(row []string, cols ColumnMap, coopName string) (*models.MemberRecord, bool) {
	family := cellValue(row, cols.FamilyName)
	first := cellValue(row, cols.FirstName)
	full := cellValue(row, cols.FullName)

	if family == "" && first == "" && full == "" {
		return nil, false
	}
	for _, candidate := range []string{family, first, full} {
		if candidate == "" {
			continue
		}
		if _, skip := skipKeywords[strings.ToLower(candidate)]; skip {
			return nil, false
		}
	}

	name := full
	if name == "" {
		parts := make([]string, 0, 3)
		for _, part := range []string{first, cellValue(row, cols.MiddleName), family} {
			if part != "" {
				parts = append(parts, part)
			}
		}
		name = strings.Join(parts, " ")
	}

	coop := strings.ToUpper(coopName)
	member := models.NewDefaultMember()
	member.Name = strings.ToUpper(name)
	member.PresentAddress = strings.ToUpper(cellValue(row, cols.Address))
	member.Birthdate = normalizeBirthdate(cellValue(row, cols.Birthdate))
	member.Gender = strings.ToUpper(cellValue(row, cols.Gender))
	member.CoopName = coop

	current := models.CurrentYearIndex()
	member.Records[current].Package = models.EnrollmentPackage
	member.Records[current].Validity = models.EnrollmentValidity
	member.Records[current].Representative = coop
	member.Records[current].Remarks = models.EnrollmentRemarks

	return member, true
}

// normalizeBirthdate converts a raw numeric spreadsheet serial date into a
// calendar date string; any other text passes through trimmed.
func normalizeBirthdate(raw string) string {
	serial, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return raw
	}
	unix := int64((serial - spreadsheetEpochOffsetDays) * 86400)
	return time.Unix(unix, 0).UTC().Format("1/2/2006")
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
