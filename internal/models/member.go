package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Enrollment constants for the active membership year. The card template
// covers a fixed six-year window; the current enrollment year is the single
// entry stamped on import and kept in sync with the cooperative name.
const (
	CurrentEnrollmentYear = "2025"
	EnrollmentPackage     = "DIGNITY"
	EnrollmentValidity    = "1 YEAR"
	EnrollmentRemarks     = "NEW"
	DefaultDateIssued     = "JAN-DEC 2025"
	YearRecordCount       = 6
)

// Editable member fields addressed by name in edit requests.
const (
	FieldName             = "name"
	FieldPresentAddress   = "presentAddress"
	FieldBirthdate        = "birthdate"
	FieldGender           = "gender"
	FieldCoopName         = "coopName"
	FieldDateIssued       = "dateIssued"
	FieldEmergencyContact = "emergencyContact"
)

// Editable year-record fields. The year label itself is immutable.
const (
	YearFieldPackage        = "package"
	YearFieldValidity       = "validity"
	YearFieldRepresentative = "representative"
	YearFieldRemarks        = "remarks"
)

// YearRecord is one year's enrollment-history row on the card back.
type YearRecord struct {
	Year           string `json:"year"`
	Package        string `json:"package"`
	Validity       string `json:"validity"`
	Representative string `json:"representative"`
	Remarks        string `json:"remarks"`
}

// YearRecords is the fixed six-entry history window, stored as JSONB.
type YearRecords [YearRecordCount]YearRecord

// Value implements driver.Valuer for JSONB persistence.
func (r YearRecords) Value() (driver.Value, error) {
	return json.Marshal(r)
}

// Scan implements sql.Scanner.
func (r *YearRecords) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, r)
	case string:
		return json.Unmarshal([]byte(v), r)
	case nil:
		*r = DefaultYearRecords()
		return nil
	default:
		return fmt.Errorf("unsupported year records source %T", src)
	}
}

// DefaultYearRecords returns the card template's history window. Only the
// current enrollment year carries a pre-filled package and validity.
func DefaultYearRecords() YearRecords {
	return YearRecords{
		{Year: "2022"},
		{Year: "2023"},
		{Year: "2024"},
		{Year: CurrentEnrollmentYear, Package: EnrollmentPackage, Validity: EnrollmentValidity, Remarks: EnrollmentRemarks},
		{Year: "2026"},
		{Year: "2027"},
	}
}

// CurrentYearIndex returns the position of the current enrollment year within
// the history window.
func CurrentYearIndex() int {
	records := DefaultYearRecords()
	for i, r := range records {
		if r.Year == CurrentEnrollmentYear {
			return i
		}
	}
	return 0
}

// MemberRecord is the canonical person-enrollment record used for both
// editing and rendering. ID is empty until the record is first persisted.
type MemberRecord struct {
	ID               string      `db:"id" json:"id,omitempty"`
	Name             string      `db:"name" json:"name"`
	PresentAddress   string      `db:"present_address" json:"presentAddress"`
	Birthdate        string      `db:"birthdate" json:"birthdate"`
	Gender           string      `db:"gender" json:"gender"`
	CoopName         string      `db:"coop_name" json:"coopName"`
	DateIssued       string      `db:"date_issued" json:"dateIssued"`
	EmergencyContact string      `db:"emergency_contact" json:"emergencyContact"`
	Photo            []byte      `db:"photo" json:"photo,omitempty"`
	Records          YearRecords `db:"records" json:"records"`
	CreatedAt        time.Time   `db:"created_at" json:"createdAt,omitempty"`
	UpdatedAt        time.Time   `db:"updated_at" json:"updatedAt,omitempty"`
}

// NewDefaultMember returns an empty card with the template history window.
func NewDefaultMember() *MemberRecord {
	return &MemberRecord{
		DateIssued: DefaultDateIssued,
		Records:    DefaultYearRecords(),
	}
}

// DisplayName identifies the record in operator-facing messages.
func (m *MemberRecord) DisplayName() string {
	if strings.TrimSpace(m.Name) == "" {
		return "Unnamed"
	}
	return m.Name
}

// IsBlank reports whether the record still matches the untouched template.
func (m *MemberRecord) IsBlank() bool {
	return m.ID == "" && strings.TrimSpace(m.Name) == ""
}

// SetField applies a single field edit. Setting the cooperative name also
// patches the current enrollment year's representative on this record.
func (m *MemberRecord) SetField(field, value string) error {
	switch field {
	case FieldName:
		m.Name = value
	case FieldPresentAddress:
		m.PresentAddress = value
	case FieldBirthdate:
		m.Birthdate = value
	case FieldGender:
		m.Gender = value
	case FieldCoopName:
		m.CoopName = value
		m.Records[CurrentYearIndex()].Representative = value
	case FieldDateIssued:
		m.DateIssued = value
	case FieldEmergencyContact:
		m.EmergencyContact = value
	default:
		return fmt.Errorf("unknown member field %q", field)
	}
	return nil
}

// SetYearField applies a single edit to one history row by index.
func (m *MemberRecord) SetYearField(index int, field, value string) error {
	if index < 0 || index >= YearRecordCount {
		return fmt.Errorf("year record index %d out of range", index)
	}
	switch field {
	case YearFieldPackage:
		m.Records[index].Package = value
	case YearFieldValidity:
		m.Records[index].Validity = value
	case YearFieldRepresentative:
		m.Records[index].Representative = value
	case YearFieldRemarks:
		m.Records[index].Remarks = value
	default:
		return fmt.Errorf("unknown year record field %q", field)
	}
	return nil
}

// MissingRequiredFields lists the required card fields that are still blank.
func (m *MemberRecord) MissingRequiredFields() []string {
	var missing []string
	for _, check := range []struct {
		field string
		value string
	}{
		{FieldName, m.Name},
		{FieldPresentAddress, m.PresentAddress},
		{FieldBirthdate, m.Birthdate},
		{FieldGender, m.Gender},
	} {
		if strings.TrimSpace(check.value) == "" {
			missing = append(missing, check.field)
		}
	}
	return missing
}
