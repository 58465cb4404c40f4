package model

import (
	"strings"
	"time"
)

// Item represents a tracked product with its warranty evaluation.
// RemainDays and WarrantyState are derived from EndDate at create/update
// time and are never set independently.
type Item struct {
	ID            int64     `json:"id"`
	ItemName      string    `json:"itemName"`
	SerialNumber  string    `json:"serialNumber"`
	EndDate       string    `json:"endDate"`
	Notes         string    `json:"notes"`
	RemainDays    int       `json:"remainDays"`
	WarrantyState string    `json:"isWarranty"`
	ReceiptMime   string    `json:"receipt_mime,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Warranty states.
const (
	StateWarranty   = "warranty"
	StateNearExpire = "nearExpire"
	StateExpired    = "expired"
)

// DateLayout is the calendar date format used for EndDate.
const DateLayout = "2006-01-02"

// Candidate is an unvalidated item payload submitted for creation or update.
type Candidate struct {
	ItemName     string `json:"itemName"`
	SerialNumber string `json:"serialNumber"`
	EndDate      string `json:"endDate"`
	Notes        string `json:"notes"`
}

// FieldError describes a single validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors is the full set of validation failures for a candidate.
type ValidationErrors []FieldError

func (ve ValidationErrors) Error() string {
	return strings.Join(ve.Messages(), "; ")
}

// Messages returns just the human-readable messages, in field order.
func (ve ValidationErrors) Messages() []string {
	msgs := make([]string, len(ve))
	for i, e := range ve {
		msgs[i] = e.Message
	}
	return msgs
}

// Validate checks the candidate for required fields. All fields are checked
// so the caller gets the complete error set in one pass. Whitespace-only
// values count as missing. A nil result means the candidate is valid.
func (c Candidate) Validate() ValidationErrors {
	var errs ValidationErrors

	if strings.TrimSpace(c.ItemName) == "" {
		errs = append(errs, FieldError{Field: "itemName", Message: "itemName is required"})
	}
	if strings.TrimSpace(c.SerialNumber) == "" {
		errs = append(errs, FieldError{Field: "serialNumber", Message: "serialNumber is required"})
	}
	if strings.TrimSpace(c.EndDate) == "" {
		errs = append(errs, FieldError{Field: "endDate", Message: "endDate is required"})
	} else if _, err := time.Parse(DateLayout, c.EndDate); err != nil {
		errs = append(errs, FieldError{Field: "endDate", Message: "endDate must be a valid date (YYYY-MM-DD)"})
	}
	if strings.TrimSpace(c.Notes) == "" {
		errs = append(errs, FieldError{Field: "notes", Message: "notes is required"})
	}

	return errs
}
