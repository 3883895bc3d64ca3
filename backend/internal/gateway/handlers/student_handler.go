package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/jefferyraooji/School-Database-Management-System/backend/internal/course"
	"github.com/jefferyraooji/School-Database-Management-System/backend/internal/gateway/util"
	"github.com/jefferyraooji/School-Database-Management-System/backend/internal/grade"
	"github.com/jefferyraooji/School-Database-Management-System/backend/internal/grading"
	"github.com/jefferyraooji/School-Database-Management-System/backend/internal/shared"
)

// StudentHandler handles the student-facing record views
type StudentHandler struct {
	Grades  *grade.Service
	Courses *course.Service
	Engine  *grading.Service
}

// Dashboard handles GET /api/student/dashboard. It bundles the headline
// numbers the frontend landing page shows: enrolled courses, published grade
// count and cumulative GPA.
func (h *StudentHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r)

	courses, err := h.Courses.ByStudent(r.Context(), user.ID)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	grades, err := h.Grades.StudentGrades(r.Context(), user.ID, grade.StudentFilter{})
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	transcript, err := h.Engine.BuildTranscript(r.Context(), user.ID)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	recentLimit := 5
	recent := grades
	if len(recent) > recentLimit {
		recent = recent[:recentLimit]
	}

	util.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":         true,
		"enrolled_count":  len(courses),
		"grade_count":     len(grades),
		"cumulative_gpa":  transcript.Summary.CumulativeGPA,
		"total_credits":   transcript.Summary.TotalCredits,
		"recent_grades":   recent,
		"current_courses": courses,
	})
}

// ListCourses handles GET /api/student/courses
func (h *StudentHandler) ListCourses(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r)

	courses, err := h.Courses.ByStudent(r.Context(), user.ID)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, courses)
}

// CourseDetail handles GET /api/student/courses/{courseID}. The response
// pairs the course with the student's published grades there and the running
// weighted average.
func (h *StudentHandler) CourseDetail(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r)
	courseID := chi.URLParam(r, "courseID")

	c, err := h.Courses.ByID(r.Context(), courseID)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}
	if !c.HasStudent(user.ID) {
		util.WriteJSONError(w, http.StatusForbidden, "You are not enrolled in this course")
		return
	}

	grades, err := h.Grades.StudentGrades(r.Context(), user.ID, grade.StudentFilter{CourseID: courseID})
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	records, err := h.Grades.GradesByCourse(r.Context(), user.ID, courseID, true)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}
	summary := grading.SummarizeCourse(records)

	util.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"course":  c,
		"grades":  grades,
		"average": summary.Average,
		"letter":  summary.LetterGrade,
	})
}

// ListGrades handles GET /api/student/grades with optional courseId,
// semester and year query filters.
func (h *StudentHandler) ListGrades(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r)

	filter := grade.StudentFilter{
		CourseID: r.URL.Query().Get("courseId"),
		Semester: r.URL.Query().Get("semester"),
	}
	if filter.Semester != "" && !shared.IsValidSemester(filter.Semester) {
		util.WriteJSONError(w, http.StatusBadRequest, "Invalid semester filter")
		return
	}
	if yearStr := r.URL.Query().Get("year"); yearStr != "" {
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			util.WriteJSONError(w, http.StatusBadRequest, "Invalid year filter")
			return
		}
		filter.Year = int32(year)
	}

	grades, err := h.Grades.StudentGrades(r.Context(), user.ID, filter)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, grades)
}

// Analytics handles GET /api/student/analytics. The trend window uses
// storage order unless ?order=chronological is passed.
func (h *StudentHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r)

	opts := grading.AnalyticsOptions{
		Chronological: r.URL.Query().Get("order") == "chronological",
	}
	if sizeStr := r.URL.Query().Get("trend"); sizeStr != "" {
		if size, err := strconv.Atoi(sizeStr); err == nil && size > 0 {
			opts.TrendSize = size
		}
	}

	analytics, err := h.Engine.BuildAnalytics(r.Context(), user.ID, opts)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, analytics)
}

// Transcript handles GET /api/student/transcript
func (h *StudentHandler) Transcript(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r)

	transcript, err := h.Engine.BuildTranscript(r.Context(), user.ID)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, transcript)
}
