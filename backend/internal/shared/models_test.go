package shared

import (
	"testing"
	"time"
)

func TestIsValidCourseCode(t *testing.T) {
	valid := []string{"CS101", "MATH1001", "HI103", "ABCD999"}
	for _, code := range valid {
		if !IsValidCourseCode(code) {
			t.Errorf("IsValidCourseCode(%q) = false, want true", code)
		}
	}

	invalid := []string{"cs101", "C101", "CS10", "CS10001", "CS-101", "ABCDE101", ""}
	for _, code := range invalid {
		if IsValidCourseCode(code) {
			t.Errorf("IsValidCourseCode(%q) = true, want false", code)
		}
	}
}

func TestIsValidStudentID(t *testing.T) {
	if !IsValidStudentID("20230001") {
		t.Error("expected 8-digit ID to be valid")
	}
	for _, id := range []string{"2023001", "202300011", "2023000a", ""} {
		if IsValidStudentID(id) {
			t.Errorf("IsValidStudentID(%q) = true, want false", id)
		}
	}
}

func TestIsValidTeacherID(t *testing.T) {
	if !IsValidTeacherID("T100001") {
		t.Error("expected T-prefixed 6-digit ID to be valid")
	}
	for _, id := range []string{"100001", "T10001", "T1000011", "t100001", ""} {
		if IsValidTeacherID(id) {
			t.Errorf("IsValidTeacherID(%q) = true, want false", id)
		}
	}
}

func TestSemesterOrder(t *testing.T) {
	if !(SemesterOrder(SemesterSpring) < SemesterOrder(SemesterSummer) &&
		SemesterOrder(SemesterSummer) < SemesterOrder(SemesterFall)) {
		t.Error("academic order must be Spring < Summer < Fall")
	}
	if SemesterOrder("Winter") <= SemesterOrder(SemesterFall) {
		t.Error("unknown semesters must sort last")
	}
}

func TestCourseHelpers(t *testing.T) {
	course := Course{
		StudentIDs:  []string{"s1", "s2"},
		MaxStudents: 3,
	}

	if course.EnrolledCount() != 2 {
		t.Errorf("EnrolledCount = %d, want 2", course.EnrolledCount())
	}
	if course.AvailableSpots() != 1 {
		t.Errorf("AvailableSpots = %d, want 1", course.AvailableSpots())
	}
	if !course.HasStudent("s1") || course.HasStudent("s3") {
		t.Error("HasStudent roster check failed")
	}

	// Over-enrolled roster never reports negative capacity
	course.MaxStudents = 1
	if course.AvailableSpots() != 0 {
		t.Errorf("AvailableSpots = %d, want 0 when over capacity", course.AvailableSpots())
	}
}

func TestGradeStatus(t *testing.T) {
	g := Grade{IsPublished: false, IsLate: true}
	if g.Status() != "Draft" {
		t.Errorf("Status = %q, want Draft", g.Status())
	}

	g.IsPublished = true
	if g.Status() != "Late" {
		t.Errorf("Status = %q, want Late", g.Status())
	}

	g.IsLate = false
	if g.Status() != "On Time" {
		t.Errorf("Status = %q, want On Time", g.Status())
	}
}

func TestUserFullName(t *testing.T) {
	u := User{FirstName: "Maria", LastName: "Reyes"}
	if u.FullName() != "Maria Reyes" {
		t.Errorf("FullName = %q, want Maria Reyes", u.FullName())
	}
}

func TestSessionIsExpired(t *testing.T) {
	active := Session{ExpiresAt: time.Now().Add(time.Hour)}
	if active.IsExpired() {
		t.Error("future session reported expired")
	}

	expired := Session{ExpiresAt: time.Now().Add(-time.Hour)}
	if !expired.IsExpired() {
		t.Error("past session reported active")
	}
}

func TestIsValidAssessmentType(t *testing.T) {
	for _, at := range []string{
		AssessmentExam, AssessmentQuiz, AssessmentAssignment, AssessmentProject,
		AssessmentParticipation, AssessmentMidterm, AssessmentFinal,
	} {
		if !IsValidAssessmentType(at) {
			t.Errorf("IsValidAssessmentType(%q) = false, want true", at)
		}
	}
	if IsValidAssessmentType("homework") || IsValidAssessmentType("") {
		t.Error("unknown assessment types must be rejected")
	}
}
