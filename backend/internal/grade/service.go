package grade

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

// Service manages grade documents: teacher upserts keyed by
// (student, course, assessmentName), publish/unpublish toggles and the read
// queries behind the aggregation engine. Derived fields (percentage, letter
// grade, GPA points, lateness) are recomputed on every save in the same
// update document, so a failed write can never leave a mismatched pair.
type Service struct {
	db         *mongo.Database
	gradesCol  *mongo.Collection
	coursesCol *mongo.Collection
	usersCol   *mongo.Collection
}

// NewService creates a grade Service over the given database.
func NewService(db *mongo.Database) *Service {
	return &Service{
		db:         db,
		gradesCol:  db.Collection(shared.ColGrades),
		coursesCol: db.Collection(shared.ColCourses),
		usersCol:   db.Collection(shared.ColUsers),
	}
}

// UpsertInput carries the teacher-supplied fields of a grade. Letter grade
// and GPA are intentionally absent: derivation from the raw score is
// authoritative and client-supplied values are never accepted.
type UpsertInput struct {
	StudentID      string     `json:"student_id" validate:"required"`
	CourseID       string     `json:"course_id" validate:"required"`
	AssessmentType string     `json:"assessment_type" validate:"required"`
	AssessmentName string     `json:"assessment_name" validate:"required,max=100"`
	Description    string     `json:"description,omitempty" validate:"max=300"`
	Score          float64    `json:"score"`
	MaxScore       float64    `json:"max_score"`
	Weight         *float64   `json:"weight,omitempty"`
	Feedback       string     `json:"feedback,omitempty" validate:"max=500"`
	SubmissionDate *time.Time `json:"submission_date,omitempty"`
	DueDate        *time.Time `json:"due_date,omitempty"`
}

// Upsert creates or updates the grade identified by
// (studentID, courseID, assessmentName). Publication state is preserved on
// edits: a new grade starts as a draft and revising a published grade does
// not unpublish it.
func (s *Service) Upsert(ctx context.Context, teacherID string, input UpsertInput) (*shared.Grade, error) {
	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	assessmentName := normalizeAssessmentName(input.AssessmentName)
	if assessmentName == "" {
		return nil, shared.NewValidationError("assessmentName", "assessment name is required")
	}

	assessmentType, weight, scorecard, err := deriveFields(
		input.AssessmentType, input.Weight,
		input.Score, input.MaxScore,
		input.SubmissionDate, input.DueDate,
	)
	if err != nil {
		return nil, err
	}

	course, err := s.courseOwnedBy(queryCtx, input.CourseID, teacherID)
	if err != nil {
		return nil, err
	}
	if !course.HasStudent(input.StudentID) {
		return nil, shared.NewValidationError("studentId", "student is not enrolled in this course")
	}

	now := time.Now()
	filter := bson.M{
		"student_id":      input.StudentID,
		"course_id":       input.CourseID,
		"assessment_name": assessmentName,
	}
	set := bson.M{
		"teacher_id":      teacherID,
		"assessment_type": assessmentType,
		"description":     input.Description,
		"score":           input.Score,
		"max_score":       input.MaxScore,
		"weight":          weight,
		"percentage":      scorecard.Percentage,
		"letter_grade":    scorecard.LetterGrade,
		"gpa_points":      scorecard.GPAPoints,
		"is_late":         scorecard.IsLate,
		"feedback":        input.Feedback,
		"graded_date":     now,
		"updated_at":      now,
	}
	if input.SubmissionDate != nil {
		set["submission_date"] = *input.SubmissionDate
	}
	if input.DueDate != nil {
		set["due_date"] = *input.DueDate
	}

	update := bson.M{
		"$set": set,
		"$setOnInsert": bson.M{
			"_id":          shared.GenerateGradeID(),
			"is_published": false,
			"created_at":   now,
		},
	}

	opts := options.Update().SetUpsert(true)
	if _, err := s.gradesCol.UpdateOne(queryCtx, filter, update, opts); err != nil {
		log.Printf("Error upserting grade for student %s: %v", input.StudentID, err)
		return nil, fmt.Errorf("failed to save grade: %w", err)
	}

	var grade shared.Grade
	if err := s.gradesCol.FindOne(queryCtx, filter).Decode(&grade); err != nil {
		return nil, fmt.Errorf("failed to load saved grade: %w", err)
	}
	return &grade, nil
}

// EditInput carries the revisable fields of an existing grade. The natural
// key (student, course, assessment name) is fixed once the grade exists.
type EditInput struct {
	AssessmentType string     `json:"assessment_type" validate:"required"`
	Description    string     `json:"description,omitempty" validate:"max=300"`
	Score          float64    `json:"score"`
	MaxScore       float64    `json:"max_score"`
	Weight         *float64   `json:"weight,omitempty"`
	Feedback       string     `json:"feedback,omitempty" validate:"max=500"`
	SubmissionDate *time.Time `json:"submission_date,omitempty"`
	DueDate        *time.Time `json:"due_date,omitempty"`
}

// Edit revises a grade addressed by ID. Derived fields are recomputed the
// same way as on upsert and publication state is left untouched.
func (s *Service) Edit(ctx context.Context, gradeID, teacherID string, input EditInput) (*shared.Grade, error) {
	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	assessmentType, weight, scorecard, err := deriveFields(
		input.AssessmentType, input.Weight,
		input.Score, input.MaxScore,
		input.SubmissionDate, input.DueDate,
	)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	set := bson.M{
		"assessment_type": assessmentType,
		"description":     input.Description,
		"score":           input.Score,
		"max_score":       input.MaxScore,
		"weight":          weight,
		"percentage":      scorecard.Percentage,
		"letter_grade":    scorecard.LetterGrade,
		"gpa_points":      scorecard.GPAPoints,
		"is_late":         scorecard.IsLate,
		"feedback":        input.Feedback,
		"graded_date":     now,
		"updated_at":      now,
	}
	if input.SubmissionDate != nil {
		set["submission_date"] = *input.SubmissionDate
	}
	if input.DueDate != nil {
		set["due_date"] = *input.DueDate
	}

	var grade shared.Grade
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err = s.gradesCol.FindOneAndUpdate(queryCtx,
		bson.M{"_id": gradeID, "teacher_id": teacherID},
		bson.M{"$set": set}, opts).Decode(&grade)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, shared.NewNotFoundError("grade", gradeID)
		}
		log.Printf("Error editing grade %s: %v", gradeID, err)
		return nil, fmt.Errorf("failed to update grade: %w", err)
	}
	return &grade, nil
}

// SetPublished flips the grade between Draft and Published. Concurrent
// toggles on the same grade are last-writer-wins.
func (s *Service) SetPublished(ctx context.Context, gradeID, teacherID string, publish bool) (*shared.Grade, error) {
	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{"_id": gradeID, "teacher_id": teacherID}
	update := bson.M{"$set": bson.M{
		"is_published": publish,
		"updated_at":   time.Now(),
	}}

	var grade shared.Grade
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := s.gradesCol.FindOneAndUpdate(queryCtx, filter, update, opts).Decode(&grade)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, shared.NewNotFoundError("grade", gradeID)
		}
		log.Printf("Error toggling publication for grade %s: %v", gradeID, err)
		return nil, fmt.Errorf("failed to update grade: %w", err)
	}
	return &grade, nil
}

// Delete removes a grade owned by the teacher.
func (s *Service) Delete(ctx context.Context, gradeID, teacherID string) error {
	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	result, err := s.gradesCol.DeleteOne(queryCtx, bson.M{"_id": gradeID, "teacher_id": teacherID})
	if err != nil {
		log.Printf("Error deleting grade %s: %v", gradeID, err)
		return fmt.Errorf("failed to delete grade: %w", err)
	}
	if result.DeletedCount == 0 {
		return shared.NewNotFoundError("grade", gradeID)
	}
	return nil
}

// StudentFilter narrows a student's published-grade listing.
type StudentFilter struct {
	CourseID string
	Semester string
	Year     int32
}

// StudentGrades lists a student's published grades, newest first. Semester
// and year filters resolve to course membership before the grade query.
func (s *Service) StudentGrades(ctx context.Context, studentID string, filter StudentFilter) ([]shared.Grade, error) {
	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	query := bson.M{"student_id": studentID, "is_published": true}
	if filter.CourseID != "" {
		query["course_id"] = filter.CourseID
	}

	if filter.Semester != "" || filter.Year != 0 {
		courseQuery := bson.M{}
		if filter.Semester != "" {
			courseQuery["semester"] = filter.Semester
		}
		if filter.Year != 0 {
			courseQuery["year"] = filter.Year
		}
		courseIDs, err := s.courseIDs(queryCtx, courseQuery)
		if err != nil {
			return nil, err
		}
		if !restrictToTerm(query, filter.CourseID, courseIDs) {
			return []shared.Grade{}, nil
		}
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "graded_date", Value: -1}})
	return s.findGrades(queryCtx, query, findOptions)
}

// TeacherFilter narrows a teacher's grade listing.
type TeacherFilter struct {
	CourseID  string
	StudentID string
	Published *bool
}

// TeacherGrades lists all grades a teacher has entered, drafts included,
// newest first.
func (s *Service) TeacherGrades(ctx context.Context, teacherID string, filter TeacherFilter) ([]shared.Grade, error) {
	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	query := bson.M{"teacher_id": teacherID}
	if filter.CourseID != "" {
		query["course_id"] = filter.CourseID
	}
	if filter.StudentID != "" {
		query["student_id"] = filter.StudentID
	}
	if filter.Published != nil {
		query["is_published"] = *filter.Published
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "graded_date", Value: -1}})
	return s.findGrades(queryCtx, query, findOptions)
}

// RecentTeacherGrades returns the teacher's most recently graded entries.
func (s *Service) RecentTeacherGrades(ctx context.Context, teacherID string, limit int64) ([]shared.Grade, error) {
	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	findOptions := options.Find().
		SetSort(bson.D{{Key: "graded_date", Value: -1}}).
		SetLimit(limit)
	return s.findGrades(queryCtx, bson.M{"teacher_id": teacherID}, findOptions)
}

// CountTeacherGrades counts a teacher's grades by publication state.
func (s *Service) CountTeacherGrades(ctx context.Context, teacherID string, published bool) (int64, error) {
	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	count, err := s.gradesCol.CountDocuments(queryCtx, bson.M{
		"teacher_id":   teacherID,
		"is_published": published,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count grades: %w", err)
	}
	return count, nil
}

// CourseGrades lists every grade in a course (teacher view, drafts
// included), grouped by assessment type.
func (s *Service) CourseGrades(ctx context.Context, courseID, teacherID string) ([]shared.Grade, error) {
	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err := s.courseOwnedBy(queryCtx, courseID, teacherID); err != nil {
		return nil, err
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "assessment_type", Value: 1}, {Key: "graded_date", Value: -1}})
	return s.findGrades(queryCtx, bson.M{"course_id": courseID}, findOptions)
}

// ============================================================================
// grading.GradeStore implementation
// ============================================================================

// GradesByStudent returns a student's grades as engine records, enriched
// with the denormalized course fields the roll-ups need.
func (s *Service) GradesByStudent(ctx context.Context, studentID string, publishedOnly bool) ([]grading.GradeRecord, error) {
	query := bson.M{"student_id": studentID}
	if publishedOnly {
		query["is_published"] = true
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "graded_date", Value: 1}})
	grades, err := s.findGrades(ctx, query, findOptions)
	if err != nil {
		return nil, err
	}
	return s.toRecords(ctx, grades)
}

// GradesByCourse returns a student's grades within one course as engine
// records.
func (s *Service) GradesByCourse(ctx context.Context, studentID, courseID string, publishedOnly bool) ([]grading.GradeRecord, error) {
	query := bson.M{"student_id": studentID, "course_id": courseID}
	if publishedOnly {
		query["is_published"] = true
	}

	grades, err := s.findGrades(ctx, query, nil)
	if err != nil {
		return nil, err
	}
	return s.toRecords(ctx, grades)
}

// ============================================================================
// Helper Functions
// ============================================================================

// normalizeAssessmentName trims surrounding whitespace so that the same
// assessment entered with stray spaces cannot fork into two grades.
func normalizeAssessmentName(name string) string {
	return strings.TrimSpace(name)
}

// deriveFields validates the teacher-supplied scoring fields and computes
// the derived scorecard. Shared by upsert and edit so both paths apply
// identical rules.
func deriveFields(rawType string, weightPtr *float64, score, maxScore float64, submitted, due *time.Time) (string, float64, grading.Scorecard, error) {
	assessmentType := strings.ToLower(strings.TrimSpace(rawType))
	if !shared.IsValidAssessmentType(assessmentType) {
		return "", 0, grading.Scorecard{}, shared.NewValidationError("assessmentType", fmt.Sprintf("invalid assessment type: %s", rawType))
	}

	weight := 1.0
	if weightPtr != nil {
		weight = *weightPtr
	}
	if weight < 0 || weight > 1 {
		return "", 0, grading.Scorecard{}, shared.NewValidationError("weight", "weight must be between 0 and 1")
	}

	scorecard, err := grading.Score(score, maxScore, submitted, due)
	if err != nil {
		return "", 0, grading.Scorecard{}, err
	}
	return assessmentType, weight, scorecard, nil
}

// restrictToTerm narrows query to the courses of an academic term. When a
// course filter is already applied, the term acts as a membership check
// instead of replacing it; returns false when no course can satisfy both
// filters, meaning the caller can answer with an empty result immediately.
func restrictToTerm(query bson.M, courseID string, termCourseIDs []string) bool {
	if courseID == "" {
		query["course_id"] = bson.M{"$in": termCourseIDs}
		return true
	}
	for _, id := range termCourseIDs {
		if id == courseID {
			return true
		}
	}
	return false
}

func (s *Service) findGrades(ctx context.Context, query bson.M, findOptions *options.FindOptions) ([]shared.Grade, error) {
	var cursor *mongo.Cursor
	var err error
	if findOptions != nil {
		cursor, err = s.gradesCol.Find(ctx, query, findOptions)
	} else {
		cursor, err = s.gradesCol.Find(ctx, query)
	}
	if err != nil {
		log.Printf("Error querying grades: %v", err)
		return nil, fmt.Errorf("failed to retrieve grades: %w", err)
	}
	defer cursor.Close(ctx)

	grades := []shared.Grade{}
	if err := cursor.All(ctx, &grades); err != nil {
		return nil, fmt.Errorf("failed to decode grades: %w", err)
	}
	return grades, nil
}

// toRecords converts stored grades into engine records, joining course
// credits/semester/year in a single batched lookup.
func (s *Service) toRecords(ctx context.Context, grades []shared.Grade) ([]grading.GradeRecord, error) {
	courseIDSet := map[string]bool{}
	for _, g := range grades {
		courseIDSet[g.CourseID] = true
	}
	courseIDs := make([]string, 0, len(courseIDSet))
	for id := range courseIDSet {
		courseIDs = append(courseIDs, id)
	}

	courses := map[string]shared.Course{}
	if len(courseIDs) > 0 {
		cursor, err := s.coursesCol.Find(ctx, bson.M{"_id": bson.M{"$in": courseIDs}})
		if err != nil {
			return nil, fmt.Errorf("failed to retrieve courses: %w", err)
		}
		defer cursor.Close(ctx)

		for cursor.Next(ctx) {
			var course shared.Course
			if err := cursor.Decode(&course); err != nil {
				continue
			}
			courses[course.ID] = course
		}
	}

	records := make([]grading.GradeRecord, 0, len(grades))
	for _, g := range grades {
		record := grading.GradeRecord{
			AssessmentType: g.AssessmentType,
			AssessmentName: g.AssessmentName,
			Percentage:     g.Percentage,
			Weight:         g.Weight,
			IsPublished:    g.IsPublished,
			GradedDate:     g.GradedDate,
			CourseID:       g.CourseID,
		}
		if course, ok := courses[g.CourseID]; ok {
			record.Credits = course.Credits
			record.Semester = course.Semester
			record.Year = course.Year
		}
		records = append(records, record)
	}
	return records, nil
}

func (s *Service) courseOwnedBy(ctx context.Context, courseID, teacherID string) (*shared.Course, error) {
	var course shared.Course
	err := s.coursesCol.FindOne(ctx, bson.M{"_id": courseID}).Decode(&course)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, shared.NewNotFoundError("course", courseID)
		}
		return nil, fmt.Errorf("failed to retrieve course: %w", err)
	}
	if course.TeacherID != teacherID {
		return nil, shared.NewForbiddenError("you can only manage grades for your own courses")
	}
	return &course, nil
}

func (s *Service) courseIDs(ctx context.Context, query bson.M) ([]string, error) {
	cursor, err := s.coursesCol.Find(ctx, query, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve courses: %w", err)
	}
	defer cursor.Close(ctx)

	ids := []string{}
	for cursor.Next(ctx) {
		var doc struct {
			ID string `bson:"_id"`
		}
		if err := cursor.Decode(&doc); err != nil {
			continue
		}
		ids = append(ids, doc.ID)
	}
	return ids, nil
}
