package grading

import (
	"context"
	"testing"
	"time"

	"github.com/jefferyraooji/School-Database-Management-System/backend/internal/shared"
)

func analyticsGrade(assessmentType string, percentage float64, gradedDaysAgo int) GradeRecord {
	return GradeRecord{
		AssessmentType: assessmentType,
		AssessmentName: assessmentType + " item",
		Percentage:     percentage,
		Weight:         1,
		IsPublished:    true,
		GradedDate:     time.Now().AddDate(0, 0, -gradedDaysAgo),
	}
}

func TestAggregate(t *testing.T) {
	t.Run("empty input yields zeroed structures", func(t *testing.T) {
		a := Aggregate(nil, AnalyticsOptions{})

		if a.TotalGrades != 0 {
			t.Errorf("TotalGrades = %d, want 0", a.TotalGrades)
		}
		if a.AverageScore != 0 {
			t.Errorf("AverageScore = %v, want 0", a.AverageScore)
		}
		if a.GradeDistribution == nil || a.PerformanceByType == nil {
			t.Error("maps must be initialized, not nil")
		}
		if a.SemesterPerformance == nil || a.ImprovementTrend == nil {
			t.Error("slices must be initialized, not nil")
		}
	})

	t.Run("drafts are excluded", func(t *testing.T) {
		grades := []GradeRecord{
			analyticsGrade(shared.AssessmentQuiz, 90, 1),
			{AssessmentType: shared.AssessmentExam, Percentage: 20, Weight: 1, IsPublished: false},
		}

		a := Aggregate(grades, AnalyticsOptions{})
		if a.TotalGrades != 1 {
			t.Errorf("TotalGrades = %d, want 1", a.TotalGrades)
		}
		if a.AverageScore != 90.00 {
			t.Errorf("AverageScore = %v, want 90.00", a.AverageScore)
		}
	})

	t.Run("distribution counts sum to total", func(t *testing.T) {
		grades := []GradeRecord{
			analyticsGrade(shared.AssessmentQuiz, 95, 5),
			analyticsGrade(shared.AssessmentQuiz, 91, 4),
			analyticsGrade(shared.AssessmentExam, 85, 3),
			analyticsGrade(shared.AssessmentExam, 72, 2),
			analyticsGrade(shared.AssessmentProject, 55, 1),
		}

		a := Aggregate(grades, AnalyticsOptions{})

		var sum int
		for _, count := range a.GradeDistribution {
			sum += count
		}
		if sum != a.TotalGrades {
			t.Errorf("distribution sum = %d, want %d", sum, a.TotalGrades)
		}
		if a.GradeDistribution["A"] != 1 || a.GradeDistribution["A-"] != 1 {
			t.Errorf("unexpected distribution: %v", a.GradeDistribution)
		}
		if a.GradeDistribution["F"] != 1 {
			t.Errorf("F count = %d, want 1", a.GradeDistribution["F"])
		}
	})

	t.Run("performance by type", func(t *testing.T) {
		grades := []GradeRecord{
			analyticsGrade(shared.AssessmentQuiz, 80, 3),
			analyticsGrade(shared.AssessmentQuiz, 90, 2),
			analyticsGrade(shared.AssessmentExam, 70, 1),
		}

		a := Aggregate(grades, AnalyticsOptions{})

		quiz, ok := a.PerformanceByType[shared.AssessmentQuiz]
		if !ok {
			t.Fatal("missing quiz performance")
		}
		if quiz.Average != 85.00 || quiz.Count != 2 {
			t.Errorf("quiz = %+v, want avg 85.00 count 2", quiz)
		}

		exam := a.PerformanceByType[shared.AssessmentExam]
		if exam.Average != 70.00 || exam.Count != 1 {
			t.Errorf("exam = %+v, want avg 70.00 count 1", exam)
		}
	})

	t.Run("semester performance is credit weighted and ordered", func(t *testing.T) {
		grades := []GradeRecord{
			{AssessmentType: shared.AssessmentExam, Percentage: 80, Weight: 1, IsPublished: true,
				Semester: shared.SemesterFall, Year: 2024, Credits: 3},
			{AssessmentType: shared.AssessmentExam, Percentage: 90, Weight: 1, IsPublished: true,
				Semester: shared.SemesterFall, Year: 2024, Credits: 1},
			{AssessmentType: shared.AssessmentExam, Percentage: 70, Weight: 1, IsPublished: true,
				Semester: shared.SemesterSpring, Year: 2024, Credits: 3},
		}

		a := Aggregate(grades, AnalyticsOptions{})

		if len(a.SemesterPerformance) != 2 {
			t.Fatalf("got %d terms, want 2", len(a.SemesterPerformance))
		}
		if a.SemesterPerformance[0].Semester != "Spring 2024" {
			t.Errorf("first term = %q, want Spring 2024", a.SemesterPerformance[0].Semester)
		}
		fall := a.SemesterPerformance[1]
		if fall.Semester != "Fall 2024" {
			t.Fatalf("second term = %q, want Fall 2024", fall.Semester)
		}
		// (80*3 + 90*1) / 4 = 82.5
		if fall.Average != 82.50 {
			t.Errorf("Fall average = %v, want 82.50", fall.Average)
		}
		if fall.Grades != 2 {
			t.Errorf("Fall grade count = %d, want 2", fall.Grades)
		}
	})

	t.Run("grades without term info are skipped in semester view", func(t *testing.T) {
		grades := []GradeRecord{
			analyticsGrade(shared.AssessmentQuiz, 90, 1), // no semester/credits
		}
		a := Aggregate(grades, AnalyticsOptions{})
		if len(a.SemesterPerformance) != 0 {
			t.Errorf("got %d terms, want 0", len(a.SemesterPerformance))
		}
		if a.TotalGrades != 1 {
			t.Errorf("TotalGrades = %d, want 1; other views still include the grade", a.TotalGrades)
		}
	})
}

func TestImprovementTrend(t *testing.T) {
	t.Run("takes last N in storage order", func(t *testing.T) {
		grades := make([]GradeRecord, 0, 12)
		for i := 0; i < 12; i++ {
			g := analyticsGrade(shared.AssessmentQuiz, float64(50+i), 12-i)
			grades = append(grades, g)
		}

		a := Aggregate(grades, AnalyticsOptions{})
		if len(a.ImprovementTrend) != DefaultTrendSize {
			t.Fatalf("got %d trend points, want %d", len(a.ImprovementTrend), DefaultTrendSize)
		}
		if a.ImprovementTrend[0].Score != 52 {
			t.Errorf("first trend score = %v, want 52", a.ImprovementTrend[0].Score)
		}
		if a.ImprovementTrend[9].Score != 61 {
			t.Errorf("last trend score = %v, want 61", a.ImprovementTrend[9].Score)
		}
		for i, point := range a.ImprovementTrend {
			if point.Order != i+1 {
				t.Errorf("trend order[%d] = %d, want %d", i, point.Order, i+1)
			}
		}
	})

	t.Run("fewer grades than window", func(t *testing.T) {
		grades := []GradeRecord{
			analyticsGrade(shared.AssessmentQuiz, 70, 2),
			analyticsGrade(shared.AssessmentQuiz, 80, 1),
		}
		a := Aggregate(grades, AnalyticsOptions{})
		if len(a.ImprovementTrend) != 2 {
			t.Errorf("got %d trend points, want 2", len(a.ImprovementTrend))
		}
	})

	t.Run("chronological option sorts by graded date", func(t *testing.T) {
		// Stored out of order: newest first
		grades := []GradeRecord{
			analyticsGrade(shared.AssessmentQuiz, 90, 1),
			analyticsGrade(shared.AssessmentQuiz, 70, 10),
			analyticsGrade(shared.AssessmentQuiz, 80, 5),
		}

		a := Aggregate(grades, AnalyticsOptions{Chronological: true})
		want := []float64{70, 80, 90}
		for i, score := range want {
			if a.ImprovementTrend[i].Score != score {
				t.Errorf("trend[%d] = %v, want %v", i, a.ImprovementTrend[i].Score, score)
			}
		}
	})

	t.Run("custom window size", func(t *testing.T) {
		grades := []GradeRecord{
			analyticsGrade(shared.AssessmentQuiz, 60, 3),
			analyticsGrade(shared.AssessmentQuiz, 70, 2),
			analyticsGrade(shared.AssessmentQuiz, 80, 1),
		}
		a := Aggregate(grades, AnalyticsOptions{TrendSize: 2})
		if len(a.ImprovementTrend) != 2 {
			t.Fatalf("got %d trend points, want 2", len(a.ImprovementTrend))
		}
		if a.ImprovementTrend[0].Score != 70 {
			t.Errorf("first trend score = %v, want 70", a.ImprovementTrend[0].Score)
		}
	})
}

func TestBuildAnalytics(t *testing.T) {
	svc := newTestService(
		map[string][]GradeRecord{
			"student-1": {
				analyticsGrade(shared.AssessmentQuiz, 90, 2),
				analyticsGrade(shared.AssessmentExam, 80, 1),
				{AssessmentType: shared.AssessmentExam, Percentage: 10, Weight: 1, IsPublished: false},
			},
		},
		map[string][]CourseRecord{},
	)

	a, err := svc.BuildAnalytics(context.Background(), "student-1", AnalyticsOptions{})
	if err != nil {
		t.Fatalf("BuildAnalytics returned error: %v", err)
	}
	if a.TotalGrades != 2 {
		t.Errorf("TotalGrades = %d, want 2", a.TotalGrades)
	}
	if a.AverageScore != 85.00 {
		t.Errorf("AverageScore = %v, want 85.00", a.AverageScore)
	}
}
