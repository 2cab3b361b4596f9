package models

import (
	"fmt"
	"strconv"
	"time"
)

// Term names the part of the school year a semester covers.
type Term string

const (
	TermFirst  Term = "First"
	TermSecond Term = "Second"
	TermThird  Term = "Third"
)

// Terms in calendar order.
var Terms = []Term{TermFirst, TermSecond, TermThird}

// Rank orders terms Third > Second > First; unknown terms rank 0.
func (t Term) Rank() int {
	switch t {
	case TermFirst:
		return 1
	case TermSecond:
		return 2
	case TermThird:
		return 3
	default:
		return 0
	}
}

// Semester is an archived, labelled snapshot of a subject set.
type Semester struct {
	ID         string    `json:"id"`
	SchoolYear string    `json:"schoolYear"`
	Semester   Term      `json:"semester"`
	Subjects   []Subject `json:"subjects"`
}

// Clone deep-copies the semester including its subject snapshot.
func (s Semester) Clone() Semester {
	s.Subjects = CloneSubjects(s.Subjects)
	return s
}

// StartYear parses the leading four digits of the school year; 0 when malformed.
func (s Semester) StartYear() int {
	if len(s.SchoolYear) < 4 {
		return 0
	}
	year, err := strconv.Atoi(s.SchoolYear[:4])
	if err != nil {
		return 0
	}
	return year
}

// ParseSchoolYear validates a "YYYY-YYYY" label spanning two consecutive years.
func ParseSchoolYear(label string) (int, error) {
	if len(label) != 9 || label[4] != '-' {
		return 0, fmt.Errorf("school year %q must look like YYYY-YYYY", label)
	}
	from, err := strconv.Atoi(label[:4])
	if err != nil {
		return 0, fmt.Errorf("school year %q must look like YYYY-YYYY", label)
	}
	to, err := strconv.Atoi(label[5:])
	if err != nil {
		return 0, fmt.Errorf("school year %q must look like YYYY-YYYY", label)
	}
	if to != from+1 {
		return 0, fmt.Errorf("school year %q must span consecutive years", label)
	}
	return from, nil
}

// SchoolYearLabel formats the school year starting in from.
func SchoolYearLabel(from int) string {
	return fmt.Sprintf("%d-%d", from, from+1)
}

// RecentSchoolYears lists count school years ending with the one starting in now's year, newest first.
func RecentSchoolYears(now time.Time, count int) []string {
	if count <= 0 {
		return []string{}
	}
	years := make([]string, 0, count)
	for i := 0; i < count; i++ {
		years = append(years, SchoolYearLabel(now.Year()-i))
	}
	return years
}
