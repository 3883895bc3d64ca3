package grading

import (
	"context"
	"sort"

	"github.com/jefferyraooji/School-Database-Management-System/backend/internal/shared"
)

// TranscriptRow is one completed course on a student's transcript.
type TranscriptRow struct {
	Semester    string  `json:"semester"`
	Year        int32   `json:"year"`
	CourseCode  string  `json:"course_code"`
	CourseName  string  `json:"course_name"`
	Credits     int32   `json:"credits"`
	Grade       string  `json:"grade"`
	GradePoints float64 `json:"grade_points"`
	Percentage  float64 `json:"percentage"`
	Teacher     string  `json:"teacher,omitempty"`
}

// TranscriptSummary is the credit-weighted roll-up over all transcript rows.
type TranscriptSummary struct {
	TotalCredits  int32   `json:"total_credits"`
	CumulativeGPA float64 `json:"cumulative_gpa"`
	TotalCourses  int     `json:"total_courses"`
}

// Transcript is the cumulative academic record of a student: one row per
// course with at least one published grade, plus the roll-up summary.
type Transcript struct {
	Courses []TranscriptRow   `json:"courses"`
	Summary TranscriptSummary `json:"summary"`
}

// BuildTranscript rolls up the course averages of every course the student
// belongs to. A course with no published grades contributes zero rows and
// zero credits; it is invisible, not zero-scored. Rows are sorted by year
// ascending, then semester in academic order (Spring, Summer, Fall).
func (s *Service) BuildTranscript(ctx context.Context, studentID string) (*Transcript, error) {
	courses, err := s.courses.CoursesByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	transcript := &Transcript{Courses: []TranscriptRow{}}
	var totalGradePoints float64
	var totalCredits int32

	for _, course := range courses {
		grades, err := s.grades.GradesByCourse(ctx, studentID, course.CourseID, true)
		if err != nil {
			return nil, err
		}

		average := CourseAverage(grades)
		if average == nil {
			continue
		}

		points := PointsFor(*average)
		transcript.Courses = append(transcript.Courses, TranscriptRow{
			Semester:    course.Semester,
			Year:        course.Year,
			CourseCode:  course.CourseCode,
			CourseName:  course.CourseName,
			Credits:     course.Credits,
			Grade:       LetterFor(*average),
			GradePoints: points,
			Percentage:  *average,
			Teacher:     course.Teacher,
		})

		totalGradePoints += points * float64(course.Credits)
		totalCredits += course.Credits
	}

	sort.SliceStable(transcript.Courses, func(i, j int) bool {
		a, b := transcript.Courses[i], transcript.Courses[j]
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		return shared.SemesterOrder(a.Semester) < shared.SemesterOrder(b.Semester)
	})

	transcript.Summary = TranscriptSummary{
		TotalCredits: totalCredits,
		TotalCourses: len(transcript.Courses),
	}
	if totalCredits > 0 {
		transcript.Summary.CumulativeGPA = Round2(totalGradePoints / float64(totalCredits))
	}

	return transcript, nil
}
