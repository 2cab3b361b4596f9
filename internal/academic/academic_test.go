package academic

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/gwa-tracker/internal/models"
)

func TestClassifyBoundaries(t *testing.T) {
	cases := []struct {
		gwa  float64
		want models.Honor
	}{
		{0.99, models.HonorNone},
		{1.00, models.HonorUniversityScholar},
		{1.50, models.HonorUniversityScholar},
		{1.51, models.HonorCollegeScholar},
		{1.75, models.HonorCollegeScholar},
		{1.76, models.HonorDeansLister},
		{2.00, models.HonorDeansLister},
		{2.01, models.HonorNone},
		{5.00, models.HonorNone},
		{math.NaN(), models.HonorNone},
		{math.Inf(1), models.HonorNone},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Classify(tc.gwa), "gwa %v", tc.gwa)
	}
}

func TestAggregateEmpty(t *testing.T) {
	summary := Aggregate(nil)
	assert.Equal(t, 0.0, summary.GWA)
	assert.Equal(t, models.HonorNone, summary.Honor)
	assert.False(t, summary.HonorEligible)
}

func TestAggregateUnitsGate(t *testing.T) {
	summary := Aggregate([]models.Subject{
		{Grade: 1.25, Units: 3},
		{Grade: 1.50, Units: 3},
	})
	assert.Equal(t, 8.25, summary.TotalWeighted)
	assert.Equal(t, 6, summary.TotalUnits)
	assert.Equal(t, 1.375, summary.GWA)
	assert.False(t, summary.HonorEligible)
	assert.Equal(t, models.HonorNone, summary.Honor)

	single := Aggregate([]models.Subject{{Grade: 1.00, Units: 3}})
	assert.Equal(t, 1.0, single.GWA)
	assert.Equal(t, models.HonorNone, single.Honor)
}

func TestAggregateAwardsHonorAtTwelveUnits(t *testing.T) {
	subjects := []models.Subject{
		{Grade: 1.75, Units: 3},
		{Grade: 1.50, Units: 3},
		{Grade: 2.00, Units: 3},
		{Grade: 1.25, Units: 3},
	}
	summary := Aggregate(subjects)
	assert.Equal(t, 12, summary.TotalUnits)
	assert.Equal(t, 1.625, summary.GWA)
	assert.True(t, summary.HonorEligible)
	assert.Equal(t, models.HonorCollegeScholar, summary.Honor)
}

func TestAggregateRoundsToThreeDecimals(t *testing.T) {
	subjects := []models.Subject{
		{Grade: 1.25, Units: 3},
		{Grade: 2.75, Units: 4},
		{Grade: 1.00, Units: 2},
		{Grade: 3.00, Units: 5},
	}
	var weighted float64
	var units int
	for _, s := range subjects {
		weighted += s.Grade * float64(s.Units)
		units += s.Units
	}
	summary := Aggregate(subjects)
	assert.Equal(t, Round3(weighted/float64(units)), summary.GWA)
	assert.Equal(t, 2.268, summary.GWA)
	assert.Equal(t, models.HonorNone, summary.Honor)
}
