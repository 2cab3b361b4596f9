package dto

import "github.com/noah-isme/gwa-tracker/internal/models"

// SubjectRequest captures the subject form for create and update.
type SubjectRequest struct {
	Code  FormValue `json:"code" validate:"required"`
	Title FormValue `json:"title" validate:"required"`
	Grade FormValue `json:"grade" validate:"required"`
	Units FormValue `json:"units" validate:"required"`
}

// PageLink is one entry of the pager; Ellipsis entries carry no page number.
type PageLink struct {
	Page     int  `json:"page,omitempty"`
	Active   bool `json:"active,omitempty"`
	Ellipsis bool `json:"ellipsis,omitempty"`
}

// ImportResult reports the outcome of a subject import.
type ImportResult struct {
	Imported int            `json:"imported"`
	Summary  models.Summary `json:"summary"`
}
