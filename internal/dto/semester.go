package dto

// SemesterRequest labels an archive: which term of which school year.
type SemesterRequest struct {
	Semester   string `json:"semester" validate:"required,oneof=First Second Third"`
	SchoolYear string `json:"schoolYear" validate:"required,len=9"`
}

// SemesterDeleteResult tells the caller whether to leave the archive view.
type SemesterDeleteResult struct {
	Removed           bool `json:"removed"`
	Remaining         int  `json:"remaining"`
	FallbackToCurrent bool `json:"fallbackToCurrent"`
}

// SettingsRequest updates user preferences.
type SettingsRequest struct {
	Autosave *bool `json:"autosave" validate:"required"`
}
