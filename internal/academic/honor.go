// Package academic holds the grade arithmetic: weighted averages and honor tiers.
package academic

import (
	"math"

	"github.com/noah-isme/gwa-tracker/internal/models"
)

// MinHonorUnits is the credit load below which no honor is awarded.
const MinHonorUnits = 12

// Classify maps a GWA onto its honor tier. Lower is better; NaN and infinities get no honor.
func Classify(gwa float64) models.Honor {
	if math.IsNaN(gwa) || math.IsInf(gwa, 0) {
		return models.HonorNone
	}
	switch {
	case gwa >= 1.00 && gwa <= 1.50:
		return models.HonorUniversityScholar
	case gwa > 1.50 && gwa <= 1.75:
		return models.HonorCollegeScholar
	case gwa > 1.75 && gwa <= 2.00:
		return models.HonorDeansLister
	default:
		return models.HonorNone
	}
}
