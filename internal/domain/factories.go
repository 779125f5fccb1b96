package domain

import (
	"time"

	"github.com/brianvoe/gofakeit/v6"
)

// NewFakeLead builds a lead populated with fake data. Non-zero fields of
// override replace the generated values.
func NewFakeLead(override ...Lead) Lead {
	lead := Lead{
		Name:         gofakeit.Name(),
		Company:      gofakeit.Company(),
		Phone:        gofakeit.Phone(),
		Email:        gofakeit.Email(),
		Volume:       gofakeit.Numerify("## t"),
		UsagePurpose: gofakeit.BuzzWord(),
		Comment:      gofakeit.Sentence(6),
	}
	if len(override) == 0 {
		return lead
	}

	o := override[0]
	if o.ID != 0 {
		lead.ID = o.ID
	}
	if o.Name != "" {
		lead.Name = o.Name
	}
	if o.Company != "" {
		lead.Company = o.Company
	}
	if o.Phone != "" {
		lead.Phone = o.Phone
	}
	if o.Email != "" {
		lead.Email = o.Email
	}
	if o.Volume != "" {
		lead.Volume = o.Volume
	}
	if o.UsagePurpose != "" {
		lead.UsagePurpose = o.UsagePurpose
	}
	if o.Comment != "" {
		lead.Comment = o.Comment
	}
	if !o.CreatedAt.IsZero() {
		lead.CreatedAt = o.CreatedAt
	}
	return lead
}

// NewFakeLeads builds n fake leads created one minute apart, oldest first, ending at newest.
func NewFakeLeads(n int, newest time.Time) []Lead {
	leads := make([]Lead, n)
	for i := range leads {
		leads[i] = NewFakeLead(Lead{
			ID:        int64(i + 1),
			CreatedAt: newest.Add(-time.Duration(n-1-i) * time.Minute),
		})
	}
	return leads
}
