package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jefferyraooji/School-Database-Management-System/backend/internal/course"
	"github.com/jefferyraooji/School-Database-Management-System/backend/internal/gateway/util"
	"github.com/jefferyraooji/School-Database-Management-System/backend/internal/grade"
)

// TeacherHandler handles course and grade management for teachers
type TeacherHandler struct {
	Grades  *grade.Service
	Courses *course.Service
}

// Dashboard handles GET /api/teacher/dashboard
func (h *TeacherHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r)

	courses, err := h.Courses.ByTeacher(r.Context(), user.ID)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	published, err := h.Grades.CountTeacherGrades(r.Context(), user.ID, true)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}
	drafts, err := h.Grades.CountTeacherGrades(r.Context(), user.ID, false)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	recent, err := h.Grades.RecentTeacherGrades(r.Context(), user.ID, 5)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	var totalStudents int32
	for _, c := range courses {
		totalStudents += c.EnrolledCount()
	}

	util.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":          true,
		"course_count":     len(courses),
		"student_count":    totalStudents,
		"published_grades": published,
		"draft_grades":     drafts,
		"recent_grades":    recent,
		"courses":          courses,
	})
}

// ============================================================================
// Course Management
// ============================================================================

// ListCourses handles GET /api/teacher/courses
func (h *TeacherHandler) ListCourses(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r)

	courses, err := h.Courses.ByTeacher(r.Context(), user.ID)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, courses)
}

// CreateCourse handles POST /api/teacher/courses
func (h *TeacherHandler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r)

	var input course.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(input); err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, "Missing or invalid course fields")
		return
	}

	created, err := h.Courses.Create(r.Context(), user.ID, input)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusCreated, created)
}

// CourseDetail handles GET /api/teacher/courses/{courseID}. The response
// bundles the course with its roster and every grade entered there, drafts
// included.
func (h *TeacherHandler) CourseDetail(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r)
	courseID := chi.URLParam(r, "courseID")

	students, err := h.Courses.Roster(r.Context(), courseID, user.ID)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	c, err := h.Courses.ByID(r.Context(), courseID)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	grades, err := h.Grades.CourseGrades(r.Context(), courseID, user.ID)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"course":   c,
		"students": students,
		"grades":   grades,
	})
}

// UpdateCourse handles PUT /api/teacher/courses/{courseID}
func (h *TeacherHandler) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r)
	courseID := chi.URLParam(r, "courseID")

	var input course.UpdateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(input); err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, "Invalid course fields")
		return
	}

	updated, err := h.Courses.Update(r.Context(), courseID, user.ID, input)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, updated)
}

// Roster handles GET /api/teacher/courses/{courseID}/students
func (h *TeacherHandler) Roster(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r)
	courseID := chi.URLParam(r, "courseID")

	students, err := h.Courses.Roster(r.Context(), courseID, user.ID)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, students)
}

// AddStudentRequest is the enroll-student request body
type AddStudentRequest struct {
	StudentID string `json:"student_id" validate:"required,len=8,numeric"`
}

// AddStudent handles POST /api/teacher/courses/{courseID}/students
func (h *TeacherHandler) AddStudent(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r)
	courseID := chi.URLParam(r, "courseID")

	var req AddStudentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, "Student ID must be 8 digits")
		return
	}

	updated, err := h.Courses.AddStudent(r.Context(), courseID, user.ID, req.StudentID)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, updated)
}

// RemoveStudent handles DELETE /api/teacher/courses/{courseID}/students/{studentID}
func (h *TeacherHandler) RemoveStudent(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r)
	courseID := chi.URLParam(r, "courseID")
	studentID := chi.URLParam(r, "studentID")

	updated, err := h.Courses.RemoveStudent(r.Context(), courseID, user.ID, studentID)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, updated)
}

// CourseGrades handles GET /api/teacher/courses/{courseID}/grades
func (h *TeacherHandler) CourseGrades(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r)
	courseID := chi.URLParam(r, "courseID")

	grades, err := h.Grades.CourseGrades(r.Context(), courseID, user.ID)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, grades)
}

// ============================================================================
// Grade Management
// ============================================================================

// ListGrades handles GET /api/teacher/grades with optional courseId,
// studentId and published query filters.
func (h *TeacherHandler) ListGrades(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r)

	filter := grade.TeacherFilter{
		CourseID:  r.URL.Query().Get("courseId"),
		StudentID: r.URL.Query().Get("studentId"),
	}
	if publishedStr := r.URL.Query().Get("published"); publishedStr != "" {
		published := publishedStr == "true"
		filter.Published = &published
	}

	grades, err := h.Grades.TeacherGrades(r.Context(), user.ID, filter)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, grades)
}

// UpsertGrade handles POST /api/teacher/grades. The same endpoint creates
// and revises: grades are keyed by (student, course, assessment name).
func (h *TeacherHandler) UpsertGrade(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r)

	var input grade.UpsertInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(input); err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, "Missing or invalid grade fields")
		return
	}

	saved, err := h.Grades.Upsert(r.Context(), user.ID, input)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, saved)
}

// EditGrade handles PUT /api/teacher/grades/{gradeID}. Edits by ID keep the
// natural key fixed and recompute every derived field.
func (h *TeacherHandler) EditGrade(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r)
	gradeID := chi.URLParam(r, "gradeID")

	var input grade.EditInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(input); err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, "Missing or invalid grade fields")
		return
	}

	updated, err := h.Grades.Edit(r.Context(), gradeID, user.ID, input)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, updated)
}

// PublishRequest is the publish-toggle request body
type PublishRequest struct {
	IsPublished bool `json:"is_published"`
}

// SetPublished handles PATCH /api/teacher/grades/{gradeID}/publish
func (h *TeacherHandler) SetPublished(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r)
	gradeID := chi.URLParam(r, "gradeID")

	var req PublishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := h.Grades.SetPublished(r.Context(), gradeID, user.ID, req.IsPublished)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, updated)
}

// DeleteGrade handles DELETE /api/teacher/grades/{gradeID}
func (h *TeacherHandler) DeleteGrade(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r)
	gradeID := chi.URLParam(r, "gradeID")

	if err := h.Grades.Delete(r.Context(), gradeID, user.ID); err != nil {
		util.HandleServiceError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "grade deleted",
	})
}
