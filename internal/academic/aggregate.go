package academic

import (
	"math"

	"github.com/noah-isme/gwa-tracker/internal/models"
)

// Round3 rounds half away from zero to three decimals.
func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// Aggregate computes the GWA of subjects and, when the unit load allows it, the honor tier.
func Aggregate(subjects []models.Subject) models.Summary {
	if len(subjects) == 0 {
		return models.Summary{}
	}

	var (
		totalWeighted float64
		totalUnits    int
	)
	for _, s := range subjects {
		totalWeighted += s.Grade * float64(s.Units)
		totalUnits += s.Units
	}

	summary := models.Summary{
		GWA:           Round3(totalWeighted / float64(totalUnits)),
		TotalUnits:    totalUnits,
		TotalWeighted: Round3(totalWeighted),
		SubjectCount:  len(subjects),
		HonorEligible: totalUnits >= MinHonorUnits,
	}
	if summary.HonorEligible {
		summary.Honor = Classify(summary.GWA)
	}
	return summary
}
