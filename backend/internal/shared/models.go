// ============================================================================
// backend/internal/shared/models.go
// Shared data models and structs for MongoDB documents
// ============================================================================

package shared

import (
	"regexp"
	"time"
)

// ============================================================================
// User Models
// ============================================================================

// User represents a user account (student, teacher, or admin)
type User struct {
	ID           string    `bson:"_id" json:"id"`
	Username     string    `bson:"username" json:"username"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"password_hash" json:"-"` // Never expose in JSON
	Role         string    `bson:"role" json:"role"`       // student, teacher, admin
	FirstName    string    `bson:"first_name" json:"first_name"`
	LastName     string    `bson:"last_name" json:"last_name"`
	Department   string    `bson:"department,omitempty" json:"department,omitempty"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`

	// Student-specific fields
	StudentID string `bson:"student_id,omitempty" json:"student_id,omitempty"` // 8 digits

	// Teacher-specific fields
	TeacherID string `bson:"teacher_id,omitempty" json:"teacher_id,omitempty"` // T + 6 digits

	// Account status
	IsActive  bool      `bson:"is_active" json:"is_active"`
	LastLogin time.Time `bson:"last_login,omitempty" json:"last_login,omitempty"`
}

// FullName returns the user's display name
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// Session represents an active user session (for JWT tracking)
type Session struct {
	ID        string    `bson:"_id" json:"id"`
	UserID    string    `bson:"user_id" json:"user_id"`
	Token     string    `bson:"token" json:"token"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	IPAddress string    `bson:"ip_address,omitempty" json:"ip_address,omitempty"`
}

// IsExpired checks if a session has expired
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// ============================================================================
// Course Models
// ============================================================================

// Course represents a course offering for one semester
type Course struct {
	ID          string    `bson:"_id" json:"id"`
	CourseCode  string    `bson:"course_code" json:"course_code"` // e.g., CS101, MATH1001
	CourseName  string    `bson:"course_name" json:"course_name"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	Department  string    `bson:"department" json:"department"`
	Credits     int32     `bson:"credits" json:"credits"`   // 1-6
	Semester    string    `bson:"semester" json:"semester"` // Fall, Spring, Summer
	Year        int32     `bson:"year" json:"year"`
	TeacherID   string    `bson:"teacher_id" json:"teacher_id"`
	StudentIDs  []string  `bson:"student_ids" json:"student_ids"`
	MaxStudents int32     `bson:"max_students" json:"max_students"`
	IsActive    bool      `bson:"is_active" json:"is_active"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// EnrolledCount returns the number of enrolled students
func (c *Course) EnrolledCount() int32 {
	return int32(len(c.StudentIDs))
}

// AvailableSpots returns the remaining roster capacity
func (c *Course) AvailableSpots() int32 {
	available := c.MaxStudents - c.EnrolledCount()
	if available < 0 {
		return 0
	}
	return available
}

// HasStudent checks if a student is on the course roster
func (c *Course) HasStudent(studentID string) bool {
	for _, id := range c.StudentIDs {
		if id == studentID {
			return true
		}
	}
	return false
}

// ============================================================================
// Grade Models
// ============================================================================

// Grade represents one assessment result for a student in a course.
// Percentage, LetterGrade, GPAPoints and IsLate are derived from the raw
// score and are recomputed on every save; they are never accepted from a
// client independently of the score.
type Grade struct {
	ID             string    `bson:"_id" json:"id"`
	StudentID      string    `bson:"student_id" json:"student_id"`
	CourseID       string    `bson:"course_id" json:"course_id"`
	TeacherID      string    `bson:"teacher_id" json:"teacher_id"`
	AssessmentType string    `bson:"assessment_type" json:"assessment_type"`
	AssessmentName string    `bson:"assessment_name" json:"assessment_name"`
	Description    string    `bson:"description,omitempty" json:"description,omitempty"`
	Score          float64   `bson:"score" json:"score"`         // 0-100
	MaxScore       float64   `bson:"max_score" json:"max_score"` // 1-100
	Weight         float64   `bson:"weight" json:"weight"`       // 0-1, default 1
	Percentage     float64   `bson:"percentage" json:"percentage"`
	LetterGrade    string    `bson:"letter_grade" json:"letter_grade"`
	GPAPoints      float64   `bson:"gpa_points" json:"gpa_points"`
	Feedback       string    `bson:"feedback,omitempty" json:"feedback,omitempty"`
	SubmissionDate time.Time `bson:"submission_date,omitempty" json:"submission_date,omitempty"`
	DueDate        time.Time `bson:"due_date,omitempty" json:"due_date,omitempty"`
	GradedDate     time.Time `bson:"graded_date" json:"graded_date"`
	IsPublished    bool      `bson:"is_published" json:"is_published"`
	IsLate         bool      `bson:"is_late" json:"is_late"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// Status reports the grade lifecycle state shown to teachers
func (g *Grade) Status() string {
	if !g.IsPublished {
		return "Draft"
	}
	if g.IsLate {
		return "Late"
	}
	return "On Time"
}

// ============================================================================
// Validation Constants
// ============================================================================

const (
	// User roles
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"

	// Semesters (academic order: Spring < Summer < Fall within a year)
	SemesterSpring = "Spring"
	SemesterSummer = "Summer"
	SemesterFall   = "Fall"

	// Assessment types
	AssessmentExam          = "exam"
	AssessmentQuiz          = "quiz"
	AssessmentAssignment    = "assignment"
	AssessmentProject       = "project"
	AssessmentParticipation = "participation"
	AssessmentMidterm       = "midterm"
	AssessmentFinal         = "final"

	// Course limits
	MinCredits         = 1
	MaxCredits         = 6
	DefaultMaxStudents = 30
)

var (
	courseCodePattern = regexp.MustCompile(`^[A-Z]{2,4}[0-9]{3,4}$`)
	studentIDPattern  = regexp.MustCompile(`^[0-9]{8}$`)
	teacherIDPattern  = regexp.MustCompile(`^T[0-9]{6}$`)
)

// IsValidRole checks if user role is valid
func IsValidRole(role string) bool {
	validRoles := map[string]bool{
		RoleStudent: true, RoleTeacher: true, RoleAdmin: true,
	}
	return validRoles[role]
}

// IsValidSemester checks if semester is one of the three academic terms
func IsValidSemester(semester string) bool {
	validSemesters := map[string]bool{
		SemesterSpring: true, SemesterSummer: true, SemesterFall: true,
	}
	return validSemesters[semester]
}

// IsValidAssessmentType checks if assessment type is valid
func IsValidAssessmentType(assessmentType string) bool {
	validTypes := map[string]bool{
		AssessmentExam: true, AssessmentQuiz: true, AssessmentAssignment: true,
		AssessmentProject: true, AssessmentParticipation: true,
		AssessmentMidterm: true, AssessmentFinal: true,
	}
	return validTypes[assessmentType]
}

// SemesterOrder returns the position of a semester within an academic year
// (Spring=1, Summer=2, Fall=3). Unknown semesters sort last.
func SemesterOrder(semester string) int {
	switch semester {
	case SemesterSpring:
		return 1
	case SemesterSummer:
		return 2
	case SemesterFall:
		return 3
	default:
		return 4
	}
}

// IsValidCourseCode checks the 2-4 letters + 3-4 digits course code format
func IsValidCourseCode(code string) bool {
	return courseCodePattern.MatchString(code)
}

// IsValidStudentID checks the 8-digit student ID format
func IsValidStudentID(id string) bool {
	return studentIDPattern.MatchString(id)
}

// IsValidTeacherID checks the T-prefixed 6-digit teacher ID format
func IsValidTeacherID(id string) bool {
	return teacherIDPattern.MatchString(id)
}
