package grade

import (
	"context"
	"testing"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/jefferyraooji/School-Database-Management-System/backend/internal/shared"
)

func TestRestrictToTerm(t *testing.T) {
	termCourses := []string{"c1", "c2", "c3"}

	t.Run("no course filter takes the whole term", func(t *testing.T) {
		query := bson.M{"student_id": "s1"}
		if !restrictToTerm(query, "", termCourses) {
			t.Fatal("restrictToTerm = false, want true")
		}
		in, ok := query["course_id"].(bson.M)
		if !ok {
			t.Fatalf("course_id = %v, want $in clause", query["course_id"])
		}
		ids, ok := in["$in"].([]string)
		if !ok || len(ids) != 3 {
			t.Errorf("$in = %v, want the three term courses", in["$in"])
		}
	})

	t.Run("course filter survives a matching term", func(t *testing.T) {
		query := bson.M{"student_id": "s1", "course_id": "c2"}
		if !restrictToTerm(query, "c2", termCourses) {
			t.Fatal("restrictToTerm = false, want true for a course inside the term")
		}
		if query["course_id"] != "c2" {
			t.Errorf("course_id = %v, want the specific course to remain", query["course_id"])
		}
	})

	t.Run("course outside the term matches nothing", func(t *testing.T) {
		query := bson.M{"student_id": "s1", "course_id": "other"}
		if restrictToTerm(query, "other", termCourses) {
			t.Error("restrictToTerm = true, want false for a course outside the term")
		}
	})

	t.Run("empty term with course filter matches nothing", func(t *testing.T) {
		query := bson.M{"course_id": "c1"}
		if restrictToTerm(query, "c1", nil) {
			t.Error("restrictToTerm = true, want false when the term has no courses")
		}
	})
}

func TestNormalizeAssessmentName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Quiz 1", "Quiz 1"},
		{" Quiz 1", "Quiz 1"},
		{"Quiz 1  ", "Quiz 1"},
		{"\tQuiz 1\n", "Quiz 1"},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := normalizeAssessmentName(tt.in); got != tt.want {
			t.Errorf("normalizeAssessmentName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDeriveFields(t *testing.T) {
	t.Run("normalizes type and defaults weight", func(t *testing.T) {
		assessmentType, weight, card, err := deriveFields(" Quiz ", nil, 17, 20, nil, nil)
		if err != nil {
			t.Fatalf("deriveFields returned error: %v", err)
		}
		if assessmentType != shared.AssessmentQuiz {
			t.Errorf("type = %q, want quiz", assessmentType)
		}
		if weight != 1.0 {
			t.Errorf("weight = %v, want default 1.0", weight)
		}
		if card.Percentage != 85.00 || card.LetterGrade != "B" {
			t.Errorf("scorecard = %+v, want 85.00/B", card)
		}
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		_, _, _, err := deriveFields("homework", nil, 10, 10, nil, nil)
		if !shared.IsValidation(err) {
			t.Errorf("got %v, want validation error", err)
		}
	})

	t.Run("rejects out of range weight", func(t *testing.T) {
		bad := 1.5
		_, _, _, err := deriveFields("quiz", &bad, 10, 10, nil, nil)
		if !shared.IsValidation(err) {
			t.Errorf("got %v, want validation error", err)
		}
	})

	t.Run("propagates score validation", func(t *testing.T) {
		_, _, _, err := deriveFields("quiz", nil, -1, 10, nil, nil)
		if !shared.IsValidation(err) {
			t.Errorf("got %v, want validation error", err)
		}
	})
}

func TestUpsertRejectsBlankAssessmentName(t *testing.T) {
	// Validation runs before any database access, so a zero Service suffices
	svc := &Service{}
	_, err := svc.Upsert(context.Background(), "t1", UpsertInput{
		StudentID:      "s1",
		CourseID:       "c1",
		AssessmentType: "quiz",
		AssessmentName: "   ",
		Score:          10,
		MaxScore:       10,
	})
	if !shared.IsValidation(err) {
		t.Errorf("got %v, want validation error for whitespace-only name", err)
	}
}
