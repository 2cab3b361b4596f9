package models

// Subject is one course entry of the active set or of an archived semester.
type Subject struct {
	ID    string  `json:"id"`
	Code  string  `json:"code"`
	Title string  `json:"title"`
	Grade float64 `json:"grade"`
	Units int     `json:"units"`
}

// GradeScale lists the grades a subject may carry, best first.
var GradeScale = []float64{1.00, 1.25, 1.50, 1.75, 2.00, 2.25, 2.50, 2.75, 3.00, 4.00, 5.00}

// MaxUnits is the heaviest credit load a single subject may carry.
const MaxUnits = 10

// IsValidUnits reports whether u is a whole credit load between 1 and MaxUnits.
func IsValidUnits(u int) bool {
	return u >= 1 && u <= MaxUnits
}

// IsValidGrade reports whether g sits on the grade scale.
func IsValidGrade(g float64) bool {
	for _, allowed := range GradeScale {
		if g == allowed {
			return true
		}
	}
	return false
}

// CloneSubjects returns an independent copy of subjects. A nil input yields an empty slice.
func CloneSubjects(subjects []Subject) []Subject {
	out := make([]Subject, len(subjects))
	copy(out, subjects)
	return out
}

