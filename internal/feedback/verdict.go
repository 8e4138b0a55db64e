package feedback

import (
	"fmt"
	"math"
)

// Band is one accuracy range of the verdict table.
type Band struct {
	MinAccuracy    float64
	Grade          string
	Recommendation string
}

// Bands are checked top-down; the first with accuracy >= MinAccuracy wins.
var Bands = []Band{
	{0.8, "Senior", "Strong Hire"},
	{0.6, "Middle", "Hire"},
	{0.4, "Junior", "No Hire"},
	{0, "Trainee", "No Hire"},
}

// maxConfidence caps the verdict confidence score.
const maxConfidence = 95

// NewVerdict maps an accuracy in 0..1 to a verdict.
func NewVerdict(accuracy float64) Verdict {
	band := Bands[len(Bands)-1]
	for _, b := range Bands {
		if accuracy >= b.MinAccuracy {
			band = b
			break
		}
	}
	return Verdict{
		Grade:                band.Grade,
		HiringRecommendation: band.Recommendation,
		ConfidenceScore:      min(maxConfidence, int(math.Round(accuracy*100))),
		Summary:              summaryText(accuracy, band.Grade),
	}
}

func summaryText(accuracy float64, grade string) string {
	switch {
	case accuracy >= 0.8:
		return fmt.Sprintf("The candidate showed excellent technical knowledge matching the %s level. "+
			"Answers were accurate, detailed and showed a deep understanding of the topics. Recommended for hire.", grade)
	case accuracy >= 0.6:
		return fmt.Sprintf("The candidate showed solid fundamentals at the %s level. "+
			"Core concepts are understood, but some areas need more depth. Can be considered for a role with mentoring.", grade)
	case accuracy >= 0.4:
		return fmt.Sprintf("The candidate is at the %s level. "+
			"More study and practice are needed. An internship or further training is recommended.", grade)
	default:
		return "The candidate showed a low level of knowledge. " +
			"Foundational training in programming is needed. Not recommended for hire at this time."
	}
}
