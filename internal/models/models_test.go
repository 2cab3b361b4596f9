package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidGrade(t *testing.T) {
	for _, g := range GradeScale {
		assert.True(t, IsValidGrade(g), "%v", g)
	}
	for _, g := range []float64{0, 1.1, 3.5, 4.5, 6} {
		assert.False(t, IsValidGrade(g), "%v", g)
	}
}

func TestIsValidUnits(t *testing.T) {
	assert.True(t, IsValidUnits(1))
	assert.True(t, IsValidUnits(MaxUnits))
	for _, u := range []int{0, -1, MaxUnits + 1, 1 << 62} {
		assert.False(t, IsValidUnits(u), "%d", u)
	}
}

func TestCloneSubjects(t *testing.T) {
	assert.NotNil(t, CloneSubjects(nil))

	original := []Subject{{ID: "a", Grade: 1}}
	clone := CloneSubjects(original)
	clone[0].Grade = 5
	assert.Equal(t, 1.0, original[0].Grade)
}

func TestParseSchoolYear(t *testing.T) {
	from, err := ParseSchoolYear("2024-2025")
	require.NoError(t, err)
	assert.Equal(t, 2024, from)

	for _, label := range []string{"", "2024", "2024/2025", "2024-2026", "abcd-efgh", "2025-2024"} {
		_, err := ParseSchoolYear(label)
		assert.Error(t, err, label)
	}
}

func TestSemesterStartYearAndClone(t *testing.T) {
	sem := Semester{SchoolYear: "2023-2024", Subjects: []Subject{{ID: "x"}}}
	assert.Equal(t, 2023, sem.StartYear())
	assert.Zero(t, Semester{SchoolYear: "n/a"}.StartYear())

	clone := sem.Clone()
	clone.Subjects[0].ID = "y"
	assert.Equal(t, "x", sem.Subjects[0].ID)
}

func TestTermRank(t *testing.T) {
	assert.Greater(t, TermThird.Rank(), TermSecond.Rank())
	assert.Greater(t, TermSecond.Rank(), TermFirst.Rank())
	assert.Zero(t, Term("Summer").Rank())
}

func TestRecentSchoolYears(t *testing.T) {
	now := time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, []string{"2025-2026", "2024-2025", "2023-2024"}, RecentSchoolYears(now, 3))
	assert.Empty(t, RecentSchoolYears(now, 0))
}
