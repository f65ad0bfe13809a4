package dto

import "github.com/fonuscebu/coop-admin-api/internal/models"

// CreateInquiryRequest is the public contact-form payload.
type CreateInquiryRequest struct {
	Name    string `json:"name" binding:"required,min=2,max=120"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone" binding:"omitempty,max=32"`
	Subject string `json:"subject" binding:"required,min=2,max=200"`
	Message string `json:"message" binding:"required,min=5,max=4000"`
}

// UpdateInquiryStatusRequest moves an inquiry through the inbox workflow.
type UpdateInquiryStatusRequest struct {
	Status models.InquiryStatus `json:"status" binding:"required"`
}

// InquiryFilter captures the inbox listing query parameters.
type InquiryFilter struct {
	Status models.InquiryStatus
	Search string
}
