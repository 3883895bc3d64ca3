package grading

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/jefferyraooji/School-Database-Management-System/backend/internal/shared"
)

// DefaultTrendSize is the number of grades included in the improvement trend.
const DefaultTrendSize = 10

// TypePerformance is the average percentage and grade count for one
// assessment type.
type TypePerformance struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// TrendPoint is one entry of the improvement trend.
type TrendPoint struct {
	Assessment string    `json:"assessment"`
	Score      float64   `json:"score"`
	Date       time.Time `json:"date"`
	Order      int       `json:"order"`
}

// SemesterPerformance is the credit-weighted average percentage for one
// academic term.
type SemesterPerformance struct {
	Semester string  `json:"semester"`
	Average  float64 `json:"average"`
	Grades   int     `json:"grades"`
}

// Analytics holds the independent statistical views over a student's
// published grades. An empty input produces zeroed structures, never nil
// maps or an error.
type Analytics struct {
	TotalGrades         int                        `json:"total_grades"`
	AverageScore        float64                    `json:"average_score"`
	GradeDistribution   map[string]int             `json:"grade_distribution"`
	PerformanceByType   map[string]TypePerformance `json:"performance_by_type"`
	SemesterPerformance []SemesterPerformance      `json:"semester_performance"`
	ImprovementTrend    []TrendPoint               `json:"improvement_trend"`
}

// AnalyticsOptions controls trend behavior. The trend takes the last
// TrendSize grades in storage order by default; Chronological sorts by
// graded date first, for callers that want "most recent" rather than
// "last stored".
type AnalyticsOptions struct {
	TrendSize     int
	Chronological bool
}

// BuildAnalytics computes the grade distribution, per-assessment-type
// averages, per-semester averages and recent-score trend over all of a
// student's published grades.
func (s *Service) BuildAnalytics(ctx context.Context, studentID string, opts AnalyticsOptions) (*Analytics, error) {
	grades, err := s.grades.GradesByStudent(ctx, studentID, true)
	if err != nil {
		return nil, err
	}
	return Aggregate(grades, opts), nil
}

// Aggregate computes analytics over an already-fetched set of published
// grades. Exported separately so callers holding a snapshot can reuse it.
func Aggregate(grades []GradeRecord, opts AnalyticsOptions) *Analytics {
	analytics := &Analytics{
		GradeDistribution:   map[string]int{},
		PerformanceByType:   map[string]TypePerformance{},
		SemesterPerformance: []SemesterPerformance{},
		ImprovementTrend:    []TrendPoint{},
	}

	published := make([]GradeRecord, 0, len(grades))
	for _, g := range grades {
		if g.IsPublished {
			published = append(published, g)
		}
	}

	analytics.TotalGrades = len(published)
	if len(published) == 0 {
		return analytics
	}

	// Overall average
	percentages := make(stats.Float64Data, len(published))
	for i, g := range published {
		percentages[i] = g.Percentage
	}
	if mean, err := stats.Mean(percentages); err == nil {
		analytics.AverageScore = Round2(mean)
	}

	// Grade distribution; letters are re-derived from the percentage so the
	// distribution can never disagree with the band table
	for _, g := range published {
		analytics.GradeDistribution[LetterFor(g.Percentage)]++
	}

	// Performance by assessment type
	byType := map[string]stats.Float64Data{}
	for _, g := range published {
		byType[g.AssessmentType] = append(byType[g.AssessmentType], g.Percentage)
	}
	for assessmentType, scores := range byType {
		mean, err := stats.Mean(scores)
		if err != nil {
			continue
		}
		analytics.PerformanceByType[assessmentType] = TypePerformance{
			Average: Round2(mean),
			Count:   len(scores),
		}
	}

	analytics.SemesterPerformance = semesterPerformance(published)
	analytics.ImprovementTrend = improvementTrend(published, opts)

	return analytics
}

type semesterKey struct {
	Semester string
	Year     int32
}

// semesterPerformance groups published grades by academic term and computes
// a credit-weighted average percentage per term.
func semesterPerformance(grades []GradeRecord) []SemesterPerformance {
	type bucket struct {
		total   float64
		credits float64
		count   int
	}

	buckets := map[semesterKey]*bucket{}
	for _, g := range grades {
		if g.Semester == "" || g.Credits == 0 {
			continue
		}
		key := semesterKey{Semester: g.Semester, Year: g.Year}
		if buckets[key] == nil {
			buckets[key] = &bucket{}
		}
		b := buckets[key]
		b.total += g.Percentage * float64(g.Credits)
		b.credits += float64(g.Credits)
		b.count++
	}

	keys := make([]semesterKey, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Year != keys[j].Year {
			return keys[i].Year < keys[j].Year
		}
		return shared.SemesterOrder(keys[i].Semester) < shared.SemesterOrder(keys[j].Semester)
	})

	performance := make([]SemesterPerformance, 0, len(keys))
	for _, key := range keys {
		b := buckets[key]
		performance = append(performance, SemesterPerformance{
			Semester: fmt.Sprintf("%s %d", key.Semester, key.Year),
			Average:  Round2(b.total / b.credits),
			Grades:   b.count,
		})
	}
	return performance
}

// improvementTrend reduces the last N grades to trend points. Storage order
// is kept unless Chronological is set, in which case grades are sorted by
// graded date first.
func improvementTrend(grades []GradeRecord, opts AnalyticsOptions) []TrendPoint {
	size := opts.TrendSize
	if size <= 0 {
		size = DefaultTrendSize
	}

	recent := grades
	if opts.Chronological {
		recent = make([]GradeRecord, len(grades))
		copy(recent, grades)
		sort.SliceStable(recent, func(i, j int) bool {
			return recent[i].GradedDate.Before(recent[j].GradedDate)
		})
	}
	if len(recent) > size {
		recent = recent[len(recent)-size:]
	}

	trend := make([]TrendPoint, 0, len(recent))
	for i, g := range recent {
		trend = append(trend, TrendPoint{
			Assessment: g.AssessmentName,
			Score:      g.Percentage,
			Date:       g.GradedDate,
			Order:      i + 1,
		})
	}
	return trend
}
