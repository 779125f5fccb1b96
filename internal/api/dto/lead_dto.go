package dto

import (
	"time"

	"github.com/spec-kit/lead-service/internal/domain"
)

// CreateLeadRequest payload posted by the website form.
type CreateLeadRequest struct {
	Name    string `json:"name"`
	Company string `json:"company"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Volume  string `json:"volume"`
	Usage   string `json:"usage"`
	Comment string `json:"comment"`
}

// LeadResponse represents a stored lead.
type LeadResponse struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Company      string `json:"company"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	Volume       string `json:"volume"`
	UsagePurpose string `json:"usage_purpose"`
	Comment      string `json:"comment"`
	CreatedAt    string `json:"created_at"`
}

// LeadListResponse is returned by the lead query endpoint.
type LeadListResponse struct {
	Success bool           `json:"success"`
	Leads   []LeadResponse `json:"leads"`
}

// NewLeadResponse maps a lead, rendering created_at as RFC 3339 in loc.
func NewLeadResponse(lead domain.Lead, loc *time.Location) LeadResponse {
	return LeadResponse{
		ID:           lead.ID,
		Name:         lead.Name,
		Company:      lead.Company,
		Phone:        lead.Phone,
		Email:        lead.Email,
		Volume:       lead.Volume,
		UsagePurpose: lead.UsagePurpose,
		Comment:      lead.Comment,
		CreatedAt:    lead.CreatedAt.In(loc).Format(time.RFC3339),
	}
}

// ToDomain converts a response back into a lead. created_at must be RFC 3339.
func (r LeadResponse) ToDomain() (domain.Lead, error) {
	createdAt, err := time.Parse(time.RFC3339, r.CreatedAt)
	if err != nil {
		return domain.Lead{}, err
	}
	return domain.Lead{
		ID:           r.ID,
		Name:         r.Name,
		Company:      r.Company,
		Phone:        r.Phone,
		Email:        r.Email,
		Volume:       r.Volume,
		UsagePurpose: r.UsagePurpose,
		Comment:      r.Comment,
		CreatedAt:    createdAt,
	}, nil
}
