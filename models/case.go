package models

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultMatter is the legal area assigned to cases created without one
const DefaultMatter = "Direito do Trabalho"

// ErrInvalid is wrapped by every validation error produced in this package
var ErrInvalid = errors.New("invalid input")

func invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

// CaseStatus represents the lifecycle state of a case
type CaseStatus string

// StatusOpen is the only state a case can be in. Cases are never closed or archived.
const StatusOpen CaseStatus = "open"

// Case represents a tracked legal matter
type Case struct {
	ID     string  `json:"id"`
	Title  string  `json:"title"`
	Matter string  `json:"matter"`
	Notes  *string `json:"notes,omitempty"`
}

// Status reports the case lifecycle state
func (c *Case) Status() CaseStatus {
	return StatusOpen
}

// CreateCaseInput represents the request body for creating a case
type CreateCaseInput struct {
	Title  string  `json:"title" binding:"required"`
	Matter *string `json:"matter"`
	Notes  *string `json:"notes"`
}

// Normalize trims the input, applies the matter default and validates the title
func (in *CreateCaseInput) Normalize(defaultMatter string) error {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return invalidf("title is required")
	}
	if in.Matter == nil || strings.TrimSpace(*in.Matter) == "" {
		if defaultMatter == "" {
			defaultMatter = DefaultMatter
		}
		in.Matter = &defaultMatter
	} else {
		m := strings.TrimSpace(*in.Matter)
		in.Matter = &m
	}
	return nil
}
