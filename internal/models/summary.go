package models

// Honor is an academic distinction tier. The zero value means no honor.
type Honor string

const (
	HonorNone              Honor = ""
	HonorUniversityScholar Honor = "University Scholar"
	HonorCollegeScholar    Honor = "College Scholar"
	HonorDeansLister       Honor = "Dean's Lister"
)

// Summary is the aggregate derived from a subject collection. It is never stored.
type Summary struct {
	GWA           float64 `json:"gwa"`
	TotalUnits    int     `json:"totalUnits"`
	TotalWeighted float64 `json:"totalWeighted"`
	SubjectCount  int     `json:"subjectCount"`
	HonorEligible bool    `json:"honorEligible"`
	Honor         Honor   `json:"honor,omitempty"`
}

// SemesterView pairs an archived semester with its summary.
type SemesterView struct {
	Semester
	Summary Summary `json:"summary"`
}

// Pagination describes a page of a projected list.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
	TotalPages int `json:"total_pages"`
}

// Settings holds user preferences persisted next to the records.
type Settings struct {
	Autosave bool `json:"autosave"`
}
