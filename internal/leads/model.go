package leads

import (
	"strings"
	"time"
)

// Lead represents a captured loan inquiry, complete and ready for follow-up.
type Lead struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	LoanType     string    `json:"loan_type"`
	LoanAmount   string    `json:"loan_amount"`
	Employment   string    `json:"employment"`
	CallbackTime string    `json:"callback_time"`
	Reference    string    `json:"reference"`
	Consultant   string    `json:"consultant,omitempty"`
	Source       string    `json:"source"`
	CreatedAt    time.Time `json:"created_at"`
}

// CreateLeadRequest represents the finalized record handed over by the
// conversation engine at the terminal step of a flow.
type CreateLeadRequest struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	LoanType     string `json:"loan_type"`
	LoanAmount   string `json:"loan_amount"`
	Employment   string `json:"employment"`
	CallbackTime string `json:"callback_time"`
	Reference    string `json:"reference"`
	Consultant   string `json:"consultant"`
	Source       string `json:"source"`
}

// Validate validates the create lead request
func (r *CreateLeadRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrInvalidName
	}
	if strings.TrimSpace(r.Phone) == "" {
		return ErrMissingPhone
	}
	if strings.TrimSpace(r.CallbackTime) == "" {
		return ErrMissingCallbackTime
	}
	return nil
}
