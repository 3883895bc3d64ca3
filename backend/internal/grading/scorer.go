// Package grading implements the grade computation and academic-record
// aggregation engine: raw score conversion, weighted course averages,
// transcript roll-ups and per-student analytics. It depends only on the
// GradeStore/CourseStore interfaces, never on a concrete database.
package grading

import (
	"time"

	"github.com/montanaflynn/stats"

	"github.com/jefferyraooji/School-Database-Management-System/backend/internal/shared"
)

// Scorecard is the derived result of scoring one assessment.
type Scorecard struct {
	Percentage  float64 `json:"percentage"`
	LetterGrade string  `json:"letter_grade"`
	GPAPoints   float64 `json:"gpa_points"`
	IsLate      bool    `json:"is_late"`
}

// gradeBand maps an inclusive lower percentage bound to a letter grade and
// its GPA point value. Bands are ordered highest first; anything below the
// last band is an F.
type gradeBand struct {
	Min    float64
	Letter string
	Points float64
}

var gradeBands = []gradeBand{
	{97, "A+", 4.0},
	{93, "A", 4.0},
	{90, "A-", 3.7},
	{87, "B+", 3.3},
	{83, "B", 3.0},
	{80, "B-", 2.7},
	{77, "C+", 2.3},
	{73, "C", 2.0},
	{70, "C-", 1.7},
	{67, "D+", 1.3},
	{63, "D", 1.0},
	{60, "D-", 0.7},
}

// LetterFor returns the letter grade for a percentage. Boundaries are
// inclusive at the lower bound of each band (exactly 90.0 is an A-).
func LetterFor(percentage float64) string {
	for _, band := range gradeBands {
		if percentage >= band.Min {
			return band.Letter
		}
	}
	return "F"
}

// PointsFor returns the GPA point value for a percentage.
func PointsFor(percentage float64) float64 {
	for _, band := range gradeBands {
		if percentage >= band.Min {
			return band.Points
		}
	}
	return 0.0
}

// Round2 rounds half-up to two decimal places. All stored and recomputed
// percentages use this rounding so repeated recomputation is idempotent.
func Round2(value float64) float64 {
	rounded, err := stats.Round(value, 2)
	if err != nil {
		return 0
	}
	return rounded
}

// Score converts a raw (score, maxScore) pair into its derived scorecard.
// score must be in [0,100] and maxScore in [1,100]; there is deliberately no
// cross-field bound, so a score above maxScore yields an over-100% result
// that stays in the top grade band (extra credit).
func Score(score, maxScore float64, submitted, due *time.Time) (Scorecard, error) {
	if score < 0 || score > 100 {
		return Scorecard{}, shared.NewValidationError("score", "score must be between 0 and 100")
	}
	if maxScore < 1 || maxScore > 100 {
		return Scorecard{}, shared.NewValidationError("maxScore", "max score must be between 1 and 100")
	}

	percentage := Round2(score / maxScore * 100)

	isLate := false
	if submitted != nil && due != nil {
		isLate = submitted.After(*due)
	}

	return Scorecard{
		Percentage:  percentage,
		LetterGrade: LetterFor(percentage),
		GPAPoints:   PointsFor(percentage),
		IsLate:      isLate,
	}, nil
}
