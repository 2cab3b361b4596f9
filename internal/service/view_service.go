package service

import (
	"strconv"
	"strings"

	"github.com/noah-isme/gwa-tracker/internal/dto"
	"github.com/noah-isme/gwa-tracker/internal/models"
)

const defaultPageSize = 10

var defaultPageSizeOptions = []int{5, 10, 20, 50}

// ViewState is the list state a client holds between renders.
type ViewState struct {
	Search   string `json:"search"`
	PageSize int    `json:"pageSize"`
	Page     int    `json:"page"`
}

// Projection is one rendered page of the subject list.
type Projection struct {
	State      ViewState
	Items      []models.Subject
	Filtered   int
	Total      int
	TotalPages int
	Links      []dto.PageLink
}

// ViewService derives display pages from the subject set. It holds no state of its own.
type ViewService struct {
	defaultPageSize int
	pageSizeOptions []int
}

// NewViewService builds a projection helper; zero values fall back to 10 and 5/10/20/50.
func NewViewService(pageSize int, options []int) *ViewService {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if len(options) == 0 {
		options = defaultPageSizeOptions
	}
	return &ViewService{defaultPageSize: pageSize, pageSizeOptions: append([]int(nil), options...)}
}

// PageSizeOptions returns the page sizes a client may offer.
func (v *ViewService) PageSizeOptions() []int {
	return append([]int(nil), v.pageSizeOptions...)
}

// Project filters, paginates and normalises state in one step.
func (v *ViewService) Project(subjects []models.Subject, state ViewState) Projection {
	if state.PageSize <= 0 {
		state.PageSize = v.defaultPageSize
	}
	filtered := FilterSubjects(subjects, state.Search)
	items, page, totalPages := Paginate(filtered, state.PageSize, state.Page)
	state.Page = page
	return Projection{
		State:      state,
		Items:      items,
		Filtered:   len(filtered),
		Total:      len(subjects),
		TotalPages: totalPages,
		Links:      PageLinks(page, totalPages),
	}
}

// FilterSubjects keeps subjects whose code, title, grade (three decimals) or units contain query.
// Matching ignores case; an empty query keeps everything.
func FilterSubjects(subjects []models.Subject, query string) []models.Subject {
	if query == "" {
		return models.CloneSubjects(subjects)
	}
	needle := strings.ToLower(query)
	out := make([]models.Subject, 0, len(subjects))
	for _, s := range subjects {
		if strings.Contains(strings.ToLower(s.Code), needle) ||
			strings.Contains(strings.ToLower(s.Title), needle) ||
			strings.Contains(strconv.FormatFloat(s.Grade, 'f', 3, 64), needle) ||
			strings.Contains(strconv.Itoa(s.Units), needle) {
			out = append(out, s)
		}
	}
	return out
}

// Paginate slices one page out of filtered. A page past the end snaps back to page 1.
func Paginate(filtered []models.Subject, pageSize, page int) ([]models.Subject, int, int) {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	totalPages := (len(filtered) + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 || page > totalPages {
		page = 1
	}
	start := (page - 1) * pageSize
	end := start + pageSize
	if end > len(filtered) {
		end = len(filtered)
	}
	if start > end {
		start = end
	}
	return models.CloneSubjects(filtered[start:end]), page, totalPages
}

// PageLinks builds the pager: every page up to four pages, otherwise first, last and the
// neighbours of current with ellipses for the gaps.
func PageLinks(current, totalPages int) []dto.PageLink {
	if totalPages <= 4 {
		links := make([]dto.PageLink, 0, totalPages)
		for i := 1; i <= totalPages; i++ {
			links = append(links, dto.PageLink{Page: i, Active: i == current})
		}
		return links
	}

	links := []dto.PageLink{{Page: 1, Active: current == 1}}
	if current > 3 {
		links = append(links, dto.PageLink{Ellipsis: true})
	}
	start := max(2, current-1)
	end := min(totalPages-1, current+1)
	for i := start; i <= end; i++ {
		links = append(links, dto.PageLink{Page: i, Active: i == current})
	}
	if current < totalPages-2 {
		links = append(links, dto.PageLink{Ellipsis: true})
	}
	return append(links, dto.PageLink{Page: totalPages, Active: current == totalPages})
}
