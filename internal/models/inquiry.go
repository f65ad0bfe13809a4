package models

import "time"

// InquiryStatus tracks the inbox lifecycle of a contact inquiry.
type InquiryStatus string

const (
	InquiryStatusNew      InquiryStatus = "NEW"
	InquiryStatusRead     InquiryStatus = "READ"
	InquiryStatusArchived InquiryStatus = "ARCHIVED"
)

// Valid reports whether the status is one of the known inbox states.
func (s InquiryStatus) Valid() bool {
	switch s {
	case InquiryStatusNew, InquiryStatusRead, InquiryStatusArchived:
		return true
	}
	return false
}

// Inquiry is a contact-form submission held in the admin inbox.
type Inquiry struct {
	ID        string        `db:"id" json:"id"`
	Name      string        `db:"name" json:"name"`
	Email     string        `db:"email" json:"email"`
	Phone     string        `db:"phone" json:"phone,omitempty"`
	Subject   string        `db:"subject" json:"subject"`
	Message   string        `db:"message" json:"message"`
	Status    InquiryStatus `db:"status" json:"status"`
	CreatedAt time.Time     `db:"created_at" json:"createdAt"`
}
