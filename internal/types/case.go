package types

import "time"

// Case represents a support case tracked by the system.
type Case struct {
	ID                string    `json:"id"`
	Deleted           bool      `json:"deleted"`
	ResponsiblePerson string    `json:"responsible_person"`
	Status            string    `json:"status"` // open, closed or pending
	Customer          string    `json:"customer"`
	CreatedAt         time.Time `json:"created_at"`
	Title             *string   `json:"title,omitempty"`
}

// CaseStatuses enumerates the accepted case states.
var CaseStatuses = []string{"open", "closed", "pending"}

type CreateCaseParams struct {
	ResponsiblePerson string  `json:"responsible_person"`
	Status            string  `json:"status"`
	Customer          string  `json:"customer"`
	Title             *string `json:"title,omitempty"`
}

// UpdateCaseParams uses pointers so partial updates can distinguish
// "not provided" from an empty value.
type UpdateCaseParams struct {
	ResponsiblePerson *string `json:"responsible_person,omitempty"`
	Status            *string `json:"status,omitempty"`
	Customer          *string `json:"customer,omitempty"`
	Title             *string `json:"title,omitempty"`
}
