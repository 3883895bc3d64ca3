package course

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jefferyraooji/School-Database-Management-System/backend/internal/grading"
	"github.com/jefferyraooji/School-Database-Management-System/backend/internal/shared"
)

// Service manages course documents and their rosters.
type Service struct {
	db         *mongo.Database
	coursesCol *mongo.Collection
	usersCol   *mongo.Collection
	gradesCol  *mongo.Collection
}

// NewService creates a course Service over the given database.
func NewService(db *mongo.Database) *Service {
	return &Service{
		db:         db,
		coursesCol: db.Collection(shared.ColCourses),
		usersCol:   db.Collection(shared.ColUsers),
		gradesCol:  db.Collection(shared.ColGrades),
	}
}

// CreateInput carries the fields of a new course offering.
type CreateInput struct {
	CourseCode  string `json:"course_code" validate:"required"`
	CourseName  string `json:"course_name" validate:"required,max=100"`
	Description string `json:"description,omitempty" validate:"max=500"`
	Department  string `json:"department" validate:"required"`
	Credits     int32  `json:"credits"`
	Semester    string `json:"semester" validate:"required"`
	Year        int32  `json:"year"`
	MaxStudents int32  `json:"max_students,omitempty"`
}

// Create adds a new course owned by the teacher. A course code may only be
// offered once per semester and year.
func (s *Service) Create(ctx context.Context, teacherID string, input CreateInput) (*shared.Course, error) {
	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	courseCode := strings.ToUpper(strings.TrimSpace(input.CourseCode))
	if !shared.IsValidCourseCode(courseCode) {
		return nil, shared.NewValidationError("courseCode", "course code must be 2-4 letters followed by 3-4 digits (e.g., CS101, MATH1001)")
	}
	if input.Credits < shared.MinCredits || input.Credits > shared.MaxCredits {
		return nil, shared.NewValidationError("credits", fmt.Sprintf("credits must be between %d and %d", shared.MinCredits, shared.MaxCredits))
	}
	if !shared.IsValidSemester(input.Semester) {
		return nil, shared.NewValidationError("semester", fmt.Sprintf("invalid semester: %s", input.Semester))
	}
	if input.Year < 2020 || input.Year > 2030 {
		return nil, shared.NewValidationError("year", "year must be between 2020 and 2030")
	}

	maxStudents := input.MaxStudents
	if maxStudents == 0 {
		maxStudents = shared.DefaultMaxStudents
	}
	if maxStudents < 1 || maxStudents > 100 {
		return nil, shared.NewValidationError("maxStudents", "max students must be between 1 and 100")
	}

	// One offering per code per term
	count, err := s.coursesCol.CountDocuments(queryCtx, bson.M{
		"course_code": courseCode,
		"semester":    input.Semester,
		"year":        input.Year,
		"is_active":   true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to check existing courses: %w", err)
	}
	if count > 0 {
		return nil, shared.NewConflictError(fmt.Sprintf("course %s already exists for %s %d", courseCode, input.Semester, input.Year))
	}

	now := time.Now()
	course := shared.Course{
		ID:          shared.GenerateCourseID(),
		CourseCode:  courseCode,
		CourseName:  input.CourseName,
		Description: input.Description,
		Department:  input.Department,
		Credits:     input.Credits,
		Semester:    input.Semester,
		Year:        input.Year,
		TeacherID:   teacherID,
		StudentIDs:  []string{},
		MaxStudents: maxStudents,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := s.coursesCol.InsertOne(queryCtx, course); err != nil {
		log.Printf("Error creating course %s: %v", courseCode, err)
		return nil, fmt.Errorf("failed to create course: %w", err)
	}
	return &course, nil
}

// UpdateInput carries the editable fields of a course. Code, credits and
// term are fixed once the offering exists.
type UpdateInput struct {
	CourseName  *string `json:"course_name,omitempty" validate:"omitempty,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
	MaxStudents *int32  `json:"max_students,omitempty"`
}

// Update modifies the editable fields of a teacher's course.
func (s *Service) Update(ctx context.Context, courseID, teacherID string, input UpdateInput) (*shared.Course, error) {
	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	course, err := s.ownedBy(queryCtx, courseID, teacherID)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updated_at": time.Now()}
	if input.CourseName != nil {
		set["course_name"] = *input.CourseName
	}
	if input.Description != nil {
		set["description"] = *input.Description
	}
	if input.MaxStudents != nil {
		if *input.MaxStudents < course.EnrolledCount() {
			return nil, shared.NewValidationError("maxStudents", "max students cannot be below current enrollment")
		}
		if *input.MaxStudents < 1 || *input.MaxStudents > 100 {
			return nil, shared.NewValidationError("maxStudents", "max students must be between 1 and 100")
		}
		set["max_students"] = *input.MaxStudents
	}

	var updated shared.Course
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err = s.coursesCol.FindOneAndUpdate(queryCtx, bson.M{"_id": courseID}, bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		log.Printf("Error updating course %s: %v", courseID, err)
		return nil, fmt.Errorf("failed to update course: %w", err)
	}
	return &updated, nil
}

// ByID retrieves a single course.
func (s *Service) ByID(ctx context.Context, courseID string) (*shared.Course, error) {
	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var course shared.Course
	err := s.coursesCol.FindOne(queryCtx, bson.M{"_id": courseID}).Decode(&course)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, shared.NewNotFoundError("course", courseID)
		}
		return nil, fmt.Errorf("failed to retrieve course: %w", err)
	}
	return &course, nil
}

// ByTeacher lists a teacher's active courses.
func (s *Service) ByTeacher(ctx context.Context, teacherID string) ([]shared.Course, error) {
	return s.findCourses(ctx, bson.M{"teacher_id": teacherID, "is_active": true})
}

// ByStudent lists the active courses a student is enrolled in.
func (s *Service) ByStudent(ctx context.Context, studentID string) ([]shared.Course, error) {
	return s.findCourses(ctx, bson.M{"student_ids": studentID, "is_active": true})
}

// AddStudent enrolls a student (looked up by their 8-digit student number)
// onto the roster, enforcing capacity and duplicate checks.
func (s *Service) AddStudent(ctx context.Context, courseID, teacherID, studentNumber string) (*shared.Course, error) {
	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	course, err := s.ownedBy(queryCtx, courseID, teacherID)
	if err != nil {
		return nil, err
	}

	var student shared.User
	err = s.usersCol.FindOne(queryCtx, bson.M{
		"student_id": studentNumber,
		"role":       shared.RoleStudent,
		"is_active":  true,
	}).Decode(&student)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, shared.NewNotFoundError("student", studentNumber)
		}
		return nil, fmt.Errorf("failed to retrieve student: %w", err)
	}

	if course.HasStudent(student.ID) {
		return nil, shared.NewConflictError("student is already enrolled in this course")
	}
	if course.AvailableSpots() == 0 {
		return nil, shared.NewConflictError("course is full")
	}

	var updated shared.Course
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err = s.coursesCol.FindOneAndUpdate(queryCtx,
		bson.M{"_id": courseID},
		bson.M{
			"$addToSet": bson.M{"student_ids": student.ID},
			"$set":      bson.M{"updated_at": time.Now()},
		},
		opts,
	).Decode(&updated)
	if err != nil {
		log.Printf("Error adding student %s to course %s: %v", student.ID, courseID, err)
		return nil, fmt.Errorf("failed to add student: %w", err)
	}
	return &updated, nil
}

// RemoveStudent drops a student from the roster.
func (s *Service) RemoveStudent(ctx context.Context, courseID, teacherID, studentID string) (*shared.Course, error) {
	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	course, err := s.ownedBy(queryCtx, courseID, teacherID)
	if err != nil {
		return nil, err
	}
	if !course.HasStudent(studentID) {
		return nil, shared.NewValidationError("studentId", "student is not enrolled in this course")
	}

	var updated shared.Course
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err = s.coursesCol.FindOneAndUpdate(queryCtx,
		bson.M{"_id": courseID},
		bson.M{
			"$pull": bson.M{"student_ids": studentID},
			"$set":  bson.M{"updated_at": time.Now()},
		},
		opts,
	).Decode(&updated)
	if err != nil {
		log.Printf("Error removing student %s from course %s: %v", studentID, courseID, err)
		return nil, fmt.Errorf("failed to remove student: %w", err)
	}
	return &updated, nil
}

// Roster lists the students enrolled in a teacher's course.
func (s *Service) Roster(ctx context.Context, courseID, teacherID string) ([]shared.User, error) {
	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	course, err := s.ownedBy(queryCtx, courseID, teacherID)
	if err != nil {
		return nil, err
	}
	if len(course.StudentIDs) == 0 {
		return []shared.User{}, nil
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "student_id", Value: 1}})
	cursor, err := s.usersCol.Find(queryCtx, bson.M{"_id": bson.M{"$in": course.StudentIDs}}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve roster: %w", err)
	}
	defer cursor.Close(queryCtx)

	students := []shared.User{}
	if err := cursor.All(queryCtx, &students); err != nil {
		return nil, fmt.Errorf("failed to decode roster: %w", err)
	}
	return students, nil
}

// ============================================================================
// grading.CourseStore implementation
// ============================================================================

// CoursesByStudent returns every course whose roster contains the student,
// as engine records with the teacher's display name resolved.
func (s *Service) CoursesByStudent(ctx context.Context, studentID string) ([]grading.CourseRecord, error) {
	courses, err := s.findCourses(ctx, bson.M{"student_ids": studentID})
	if err != nil {
		return nil, err
	}

	teacherIDSet := map[string]bool{}
	for _, c := range courses {
		teacherIDSet[c.TeacherID] = true
	}
	teacherIDs := make([]string, 0, len(teacherIDSet))
	for id := range teacherIDSet {
		teacherIDs = append(teacherIDs, id)
	}

	teacherNames := map[string]string{}
	if len(teacherIDs) > 0 {
		cursor, err := s.usersCol.Find(ctx, bson.M{"_id": bson.M{"$in": teacherIDs}})
		if err != nil {
			return nil, fmt.Errorf("failed to retrieve teachers: %w", err)
		}
		defer cursor.Close(ctx)

		for cursor.Next(ctx) {
			var teacher shared.User
			if err := cursor.Decode(&teacher); err != nil {
				continue
			}
			teacherNames[teacher.ID] = teacher.FullName()
		}
	}

	records := make([]grading.CourseRecord, 0, len(courses))
	for _, c := range courses {
		records = append(records, grading.CourseRecord{
			CourseID:   c.ID,
			CourseCode: c.CourseCode,
			CourseName: c.CourseName,
			Credits:    c.Credits,
			Semester:   c.Semester,
			Year:       c.Year,
			Teacher:    teacherNames[c.TeacherID],
		})
	}
	return records, nil
}

// ============================================================================
// Helper Functions
// ============================================================================

func (s *Service) findCourses(ctx context.Context, query bson.M) ([]shared.Course, error) {
	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	findOptions := options.Find().
		SetSort(bson.D{{Key: "year", Value: 1}, {Key: "course_code", Value: 1}})

	cursor, err := s.coursesCol.Find(queryCtx, query, findOptions)
	if err != nil {
		log.Printf("Error querying courses: %v", err)
		return nil, fmt.Errorf("failed to retrieve courses: %w", err)
	}
	defer cursor.Close(queryCtx)

	courses := []shared.Course{}
	if err := cursor.All(queryCtx, &courses); err != nil {
		return nil, fmt.Errorf("failed to decode courses: %w", err)
	}
	return courses, nil
}

func (s *Service) ownedBy(ctx context.Context, courseID, teacherID string) (*shared.Course, error) {
	var course shared.Course
	err := s.coursesCol.FindOne(ctx, bson.M{"_id": courseID}).Decode(&course)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, shared.NewNotFoundError("course", courseID)
		}
		return nil, fmt.Errorf("failed to retrieve course: %w", err)
	}
	if course.TeacherID != teacherID {
		return nil, shared.NewForbiddenError("you do not have access to this course")
	}
	return &course, nil
}
