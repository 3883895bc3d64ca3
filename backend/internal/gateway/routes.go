package gateway

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/jefferyraooji/School-Database-Management-System/backend/internal/auth"
	"github.com/jefferyraooji/School-Database-Management-System/backend/internal/course"
	"github.com/jefferyraooji/School-Database-Management-System/backend/internal/gateway/handlers"
	"github.com/jefferyraooji/School-Database-Management-System/backend/internal/gateway/util"
	"github.com/jefferyraooji/School-Database-Management-System/backend/internal/grade"
	"github.com/jefferyraooji/School-Database-Management-System/backend/internal/grading"
	"github.com/jefferyraooji/School-Database-Management-System/backend/internal/shared"
)

// Services bundles the record services the router dispatches to.
type Services struct {
	Auth    *auth.Service
	Grades  *grade.Service
	Courses *course.Service
	Engine  *grading.Service
}

// SetupRoutes configures the Chi router, middleware, and route handlers.
func SetupRoutes(services *Services, config *shared.ServerConfig) *chi.Mux {
	r := chi.NewRouter()

	// 1. Global Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS Configuration (Allow React Frontend)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   config.CORS.AllowedOrigins,
		AllowedMethods:   config.CORS.AllowedMethods,
		AllowedHeaders:   config.CORS.AllowedHeaders,
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: config.CORS.AllowCredentials,
		MaxAge:           config.CORS.MaxAge,
	}))

	// 2. Initialize Handlers
	authHandler := &handlers.AuthHandler{Auth: services.Auth}
	studentHandler := &handlers.StudentHandler{
		Grades:  services.Grades,
		Courses: services.Courses,
		Engine:  services.Engine,
	}
	teacherHandler := &handlers.TeacherHandler{
		Grades:  services.Grades,
		Courses: services.Courses,
	}

	// 3. Define Routes (grouped by prefix)
	r.Route("/api", func(r chi.Router) {

		// --- Public Routes ---
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/logout", authHandler.Logout)

		// --- Protected Routes (Require Valid Token) ---
		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(services.Auth))

			r.Get("/auth/me", authHandler.Validate)
			r.Get("/auth/validate", authHandler.Validate)
			r.Post("/auth/change-password", authHandler.ChangePassword)

			// Student record views
			r.Route("/student", func(r chi.Router) {
				r.Use(RequireRole(shared.RoleStudent))

				r.Get("/dashboard", studentHandler.Dashboard)
				r.Get("/courses", studentHandler.ListCourses)
				r.Get("/courses/{courseID}", studentHandler.CourseDetail)
				r.Get("/grades", studentHandler.ListGrades)
				r.Get("/analytics", studentHandler.Analytics)
				r.Get("/transcript", studentHandler.Transcript)
			})

			// Teacher course and grade management
			r.Route("/teacher", func(r chi.Router) {
				r.Use(RequireRole(shared.RoleTeacher))

				r.Get("/dashboard", teacherHandler.Dashboard)

				r.Route("/courses", func(r chi.Router) {
					r.Get("/", teacherHandler.ListCourses)
					r.Post("/", teacherHandler.CreateCourse)
					r.Get("/{courseID}", teacherHandler.CourseDetail)
					r.Put("/{courseID}", teacherHandler.UpdateCourse)
					r.Get("/{courseID}/students", teacherHandler.Roster)
					r.Post("/{courseID}/students", teacherHandler.AddStudent)
					r.Delete("/{courseID}/students/{studentID}", teacherHandler.RemoveStudent)
					r.Get("/{courseID}/grades", teacherHandler.CourseGrades)
				})

				r.Route("/grades", func(r chi.Router) {
					r.Get("/", teacherHandler.ListGrades)
					r.Post("/", teacherHandler.UpsertGrade)
					r.Put("/{gradeID}", teacherHandler.EditGrade)
					r.Patch("/{gradeID}/publish", teacherHandler.SetPublished)
					r.Delete("/{gradeID}", teacherHandler.DeleteGrade)
				})
			})
		})
	})

	return r
}

// AuthMiddleware validates the bearer token against the session store and
// injects the authenticated user into the request context.
func AuthMiddleware(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// 1. Extract Token
			tokenStr, err := util.ExtractToken(r)
			if err != nil {
				util.WriteJSONError(w, http.StatusUnauthorized, "Authorization token required")
				return
			}

			// 2. Validate against the session store
			user, err := authService.ValidateToken(r.Context(), tokenStr)
			if err != nil {
				util.WriteJSONError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			// 3. Inject User into Context
			next.ServeHTTP(w, r.WithContext(handlers.WithUser(r.Context(), user)))
		})
	}
}

// RequireRole restricts a route subtree to users with the given role.
// Admins pass every role check.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := handlers.CurrentUser(r)
			if user == nil {
				util.WriteJSONError(w, http.StatusUnauthorized, "Authorization token required")
				return
			}
			if user.Role != role && user.Role != shared.RoleAdmin {
				util.WriteJSONError(w, http.StatusForbidden, "Insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
