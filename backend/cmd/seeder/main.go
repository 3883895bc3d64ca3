package main

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/jefferyraooji/School-Database-Management-System/backend/internal/grading"
	"github.com/jefferyraooji/School-Database-Management-System/backend/internal/shared"
)

// Fixed IDs so the frontend team can log in with known accounts
const (
	AdminID    = "USR-admin-001"
	TeacherID1 = "USR-teacher-001" // Maria Reyes, T100001
	TeacherID2 = "USR-teacher-002" // David Chen, T100002
	StudentID1 = "USR-student-001" // Juan Cruz, 20230001
	StudentID2 = "USR-student-002" // Alice Santos, 20230002
	StudentID3 = "USR-student-003" // Ben Lim, 20230003

	CommonPassword = "password123"

	CS101Fall   = "CRS-cs101-fall24"
	CS201Fall   = "CRS-cs201-fall24"
	MATH101Fall = "CRS-math101-fall24"
	CS100Spring = "CRS-cs100-spring24"
)

type gradeSeed struct {
	StudentID      string
	CourseID       string
	TeacherID      string
	AssessmentType string
	AssessmentName string
	Score          float64
	MaxScore       float64
	Weight         float64
	IsPublished    bool
	DaysAgo        int
}

func main() {
	log.Println("Starting Database Seeder...")

	if err := shared.LoadEnv(".env"); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	cfg, err := shared.LoadServerConfig("seeder")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	client, db, err := shared.ConnectMongoDB(&cfg.MongoDB)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer shared.DisconnectMongoDB(client)

	// Clean start
	if err := db.Drop(context.Background()); err != nil {
		log.Fatalf("Failed to drop database: %v", err)
	}
	log.Println("Database cleared successfully.")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	seedUsers(ctx, db)
	seedCourses(ctx, db)
	seedGrades(ctx, db)

	log.Println("Seeding complete.")
	log.Printf("Login with any seeded account, password %q", CommonPassword)
}

func seedUsers(ctx context.Context, db *mongo.Database) {
	hash, err := bcrypt.GenerateFromPassword([]byte(CommonPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash seed password: %v", err)
	}

	now := time.Now()
	users := []interface{}{
		shared.User{
			ID: AdminID, Username: "admin", Email: "admin@school.edu",
			PasswordHash: string(hash), Role: shared.RoleAdmin,
			FirstName: "System", LastName: "Admin",
			IsActive: true, CreatedAt: now,
		},
		shared.User{
			ID: TeacherID1, Username: "mreyes", Email: "maria.reyes@school.edu",
			PasswordHash: string(hash), Role: shared.RoleTeacher,
			FirstName: "Maria", LastName: "Reyes", Department: "Computer Science",
			TeacherID: "T100001", IsActive: true, CreatedAt: now,
		},
		shared.User{
			ID: TeacherID2, Username: "dchen", Email: "david.chen@school.edu",
			PasswordHash: string(hash), Role: shared.RoleTeacher,
			FirstName: "David", LastName: "Chen", Department: "Mathematics",
			TeacherID: "T100002", IsActive: true, CreatedAt: now,
		},
		shared.User{
			ID: StudentID1, Username: "jcruz", Email: "juan.cruz@school.edu",
			PasswordHash: string(hash), Role: shared.RoleStudent,
			FirstName: "Juan", LastName: "Cruz",
			StudentID: "20230001", IsActive: true, CreatedAt: now,
		},
		shared.User{
			ID: StudentID2, Username: "asantos", Email: "alice.santos@school.edu",
			PasswordHash: string(hash), Role: shared.RoleStudent,
			FirstName: "Alice", LastName: "Santos",
			StudentID: "20230002", IsActive: true, CreatedAt: now,
		},
		shared.User{
			ID: StudentID3, Username: "blim", Email: "ben.lim@school.edu",
			PasswordHash: string(hash), Role: shared.RoleStudent,
			FirstName: "Ben", LastName: "Lim",
			StudentID: "20230003", IsActive: true, CreatedAt: now,
		},
	}

	if _, err := db.Collection(shared.ColUsers).InsertMany(ctx, users); err != nil {
		log.Fatalf("Failed to seed users: %v", err)
	}
	log.Printf("Seeded %d users", len(users))
}

func seedCourses(ctx context.Context, db *mongo.Database) {
	now := time.Now()
	courses := []interface{}{
		shared.Course{
			ID: CS101Fall, CourseCode: "CS101", CourseName: "Introduction to Programming",
			Department: "Computer Science", Credits: 3,
			Semester: shared.SemesterFall, Year: 2024, TeacherID: TeacherID1,
			StudentIDs:  []string{StudentID1, StudentID2, StudentID3},
			MaxStudents: 30, IsActive: true, CreatedAt: now,
		},
		shared.Course{
			ID: CS201Fall, CourseCode: "CS201", CourseName: "Data Structures",
			Department: "Computer Science", Credits: 3,
			Semester: shared.SemesterFall, Year: 2024, TeacherID: TeacherID1,
			StudentIDs:  []string{StudentID1},
			MaxStudents: 25, IsActive: true, CreatedAt: now,
		},
		shared.Course{
			ID: MATH101Fall, CourseCode: "MATH101", CourseName: "Calculus I",
			Department: "Mathematics", Credits: 4,
			Semester: shared.SemesterFall, Year: 2024, TeacherID: TeacherID2,
			StudentIDs:  []string{StudentID1, StudentID2},
			MaxStudents: 40, IsActive: true, CreatedAt: now,
		},
		shared.Course{
			ID: CS100Spring, CourseCode: "CS100", CourseName: "Computing Foundations",
			Department: "Computer Science", Credits: 3,
			Semester: shared.SemesterSpring, Year: 2024, TeacherID: TeacherID1,
			StudentIDs:  []string{StudentID1, StudentID2},
			MaxStudents: 30, IsActive: true, CreatedAt: now,
		},
	}

	if _, err := db.Collection(shared.ColCourses).InsertMany(ctx, courses); err != nil {
		log.Fatalf("Failed to seed courses: %v", err)
	}
	log.Printf("Seeded %d courses", len(courses))
}

func seedGrades(ctx context.Context, db *mongo.Database) {
	seeds := []gradeSeed{
		// Completed Spring term: gives students transcript history
		{StudentID1, CS100Spring, TeacherID1, shared.AssessmentMidterm, "Midterm Exam", 88, 100, 0.4, true, 150},
		{StudentID1, CS100Spring, TeacherID1, shared.AssessmentFinal, "Final Exam", 92, 100, 0.6, true, 120},
		{StudentID2, CS100Spring, TeacherID1, shared.AssessmentMidterm, "Midterm Exam", 75, 100, 0.4, true, 150},
		{StudentID2, CS100Spring, TeacherID1, shared.AssessmentFinal, "Final Exam", 81, 100, 0.6, true, 120},

		// Current Fall term: mix of published grades and drafts
		{StudentID1, CS101Fall, TeacherID1, shared.AssessmentQuiz, "Quiz 1", 18, 20, 0.1, true, 30},
		{StudentID1, CS101Fall, TeacherID1, shared.AssessmentAssignment, "Assignment 1", 45, 50, 0.2, true, 21},
		{StudentID1, CS101Fall, TeacherID1, shared.AssessmentMidterm, "Midterm Exam", 84, 100, 0.3, false, 7},
		{StudentID2, CS101Fall, TeacherID1, shared.AssessmentQuiz, "Quiz 1", 15, 20, 0.1, true, 30},
		{StudentID2, CS101Fall, TeacherID1, shared.AssessmentAssignment, "Assignment 1", 40, 50, 0.2, true, 21},
		{StudentID3, CS101Fall, TeacherID1, shared.AssessmentQuiz, "Quiz 1", 12, 20, 0.1, true, 30},
		{StudentID1, CS201Fall, TeacherID1, shared.AssessmentProject, "Project Phase 1", 90, 100, 0.25, true, 14},
		{StudentID1, MATH101Fall, TeacherID2, shared.AssessmentQuiz, "Derivatives Quiz", 9, 10, 0.15, true, 10},
		{StudentID2, MATH101Fall, TeacherID2, shared.AssessmentQuiz, "Derivatives Quiz", 7, 10, 0.15, true, 10},
	}

	now := time.Now()
	docs := make([]interface{}, 0, len(seeds))
	for _, seed := range seeds {
		scorecard, err := grading.Score(seed.Score, seed.MaxScore, nil, nil)
		if err != nil {
			log.Fatalf("Invalid seed grade %s/%s: %v", seed.StudentID, seed.AssessmentName, err)
		}

		gradedAt := now.AddDate(0, 0, -seed.DaysAgo)
		docs = append(docs, shared.Grade{
			ID:             shared.GenerateGradeID(),
			StudentID:      seed.StudentID,
			CourseID:       seed.CourseID,
			TeacherID:      seed.TeacherID,
			AssessmentType: seed.AssessmentType,
			AssessmentName: seed.AssessmentName,
			Score:          seed.Score,
			MaxScore:       seed.MaxScore,
			Weight:         seed.Weight,
			Percentage:     scorecard.Percentage,
			LetterGrade:    scorecard.LetterGrade,
			GPAPoints:      scorecard.GPAPoints,
			GradedDate:     gradedAt,
			IsPublished:    seed.IsPublished,
			IsLate:         scorecard.IsLate,
			CreatedAt:      gradedAt,
		})
	}

	if _, err := db.Collection(shared.ColGrades).InsertMany(ctx, docs); err != nil {
		log.Fatalf("Failed to seed grades: %v", err)
	}
	log.Printf("Seeded %d grades", len(docs))
}
