package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/jefferyraooji/School-Database-Management-System/backend/internal/shared"
)

// Service handles authentication and session lifecycle.
type Service struct {
	db          *mongo.Database
	config      *shared.ServerConfig
	usersCol    *mongo.Collection
	sessionsCol *mongo.Collection
}

// CustomClaims for JWT
type CustomClaims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// NewService creates a new auth Service instance
func NewService(db *mongo.Database, config *shared.ServerConfig) *Service {
	return &Service{
		db:          db,
		config:      config,
		usersCol:    db.Collection(shared.ColUsers),
		sessionsCol: db.Collection(shared.ColSessions),
	}
}

// LoginResult bundles the issued token with the authenticated user.
type LoginResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *shared.User `json:"user"`
}

// Login authenticates a user by any of their identifiers (username, email,
// student ID or teacher ID) and returns a JWT backed by a session document.
func (s *Service) Login(ctx context.Context, identifier, password, ipAddress string) (*LoginResult, error) {
	if identifier == "" || password == "" {
		return nil, shared.NewValidationError("identifier", "identifier and password are required")
	}

	queryCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// 1. Find user (by username, email, student ID or teacher ID)
	var user shared.User
	filter := bson.M{
		"$or": []bson.M{
			{"username": identifier},
			{"email": identifier},
			{"student_id": identifier},
			{"teacher_id": identifier},
		},
	}

	err := s.usersCol.FindOne(queryCtx, filter).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, shared.NewUnauthorizedError("invalid credentials")
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	// 2. Check password (BCrypt)
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, shared.NewUnauthorizedError("invalid credentials")
	}

	if !user.IsActive {
		return nil, shared.NewForbiddenError("account is inactive")
	}

	// 3. Generate JWT
	tokenString, expiresAt, err := s.generateToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	// 4. Create session in DB (allows for server-side logout/revocation)
	session := shared.Session{
		ID:        shared.GenerateSessionID(),
		UserID:    user.ID,
		Token:     tokenString,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
		IPAddress: ipAddress,
	}

	if _, err := s.sessionsCol.InsertOne(queryCtx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	// 5. Record last login; a failure here does not block the login
	_, _ = s.usersCol.UpdateOne(queryCtx, bson.M{"_id": user.ID},
		bson.M{"$set": bson.M{"last_login": time.Now()}})

	return &LoginResult{
		Token:     tokenString,
		ExpiresAt: expiresAt,
		User:      &user,
	}, nil
}

// RegisterInput carries a new account request. Only student and teacher
// accounts can self-register; admins are provisioned directly.
type RegisterInput struct {
	Username        string `json:"username" validate:"required,min=3,max=30"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
	Role            string `json:"role" validate:"required"`
	FirstName       string `json:"first_name" validate:"required,max=50"`
	LastName        string `json:"last_name" validate:"required,max=50"`
	Department      string `json:"department,omitempty" validate:"max=100"`
	StudentID       string `json:"student_id,omitempty"`
	TeacherID       string `json:"teacher_id,omitempty"`
}

// validateRegistration checks the rules that do not need a database: password
// confirmation, role, and the role-specific ID format.
func validateRegistration(input RegisterInput) error {
	if input.Password != input.ConfirmPassword {
		return shared.NewValidationError("confirmPassword", "passwords do not match")
	}
	if input.Role != shared.RoleStudent && input.Role != shared.RoleTeacher {
		return shared.NewValidationError("role", "role must be either student or teacher")
	}
	if input.Role == shared.RoleStudent {
		if input.StudentID == "" {
			return shared.NewValidationError("studentId", "student ID is required for student accounts")
		}
		if !shared.IsValidStudentID(input.StudentID) {
			return shared.NewValidationError("studentId", "student ID must be exactly 8 digits")
		}
	}
	if input.Role == shared.RoleTeacher {
		if input.TeacherID == "" {
			return shared.NewValidationError("teacherId", "teacher ID is required for teacher accounts")
		}
		if !shared.IsValidTeacherID(input.TeacherID) {
			return shared.NewValidationError("teacherId", "teacher ID must be T followed by 6 digits")
		}
	}
	return nil
}

// Register creates a student or teacher account. Username, email and the
// role-specific ID must all be unused. The new account is not logged in.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*shared.User, error) {
	if err := validateRegistration(input); err != nil {
		return nil, err
	}

	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	// Uniqueness across every login identifier
	or := []bson.M{
		{"username": input.Username},
		{"email": input.Email},
	}
	if input.StudentID != "" {
		or = append(or, bson.M{"student_id": input.StudentID})
	}
	if input.TeacherID != "" {
		or = append(or, bson.M{"teacher_id": input.TeacherID})
	}

	var existing shared.User
	err := s.usersCol.FindOne(queryCtx, bson.M{"$or": or}).Decode(&existing)
	if err == nil {
		switch {
		case existing.Email == input.Email:
			return nil, shared.NewConflictError("an account with this email already exists")
		case existing.Username == input.Username:
			return nil, shared.NewConflictError("an account with this username already exists")
		case input.StudentID != "" && existing.StudentID == input.StudentID:
			return nil, shared.NewConflictError("an account with this student ID already exists")
		default:
			return nil, shared.NewConflictError("an account with this teacher ID already exists")
		}
	}
	if err != mongo.ErrNoDocuments {
		return nil, fmt.Errorf("failed to check existing users: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.config.Security.BCryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := shared.User{
		ID:           shared.GenerateUserID(),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hash),
		Role:         input.Role,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Department:   input.Department,
		IsActive:     true,
		CreatedAt:    time.Now(),
	}
	if input.Role == shared.RoleStudent {
		user.StudentID = input.StudentID
	} else {
		user.TeacherID = input.TeacherID
	}

	if _, err := s.usersCol.InsertOne(queryCtx, user); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	return &user, nil
}

// Logout invalidates the session behind a token. Logout is idempotent: an
// already-expired or unknown token still succeeds.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return shared.NewValidationError("token", "token is required")
	}

	queryCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// DeleteMany keeps logout idempotent even if duplicate tokens were stored
	if _, err := s.sessionsCol.DeleteMany(queryCtx, bson.M{"token": token}); err != nil {
		return fmt.Errorf("failed to logout: %w", err)
	}
	return nil
}

// ValidateToken checks a token's signature, its session document and the
// account state, and returns the authenticated user.
func (s *Service) ValidateToken(ctx context.Context, tokenString string) (*shared.User, error) {
	if tokenString == "" {
		return nil, shared.NewUnauthorizedError("token missing")
	}

	// 1. Parse and verify signature locally
	token, claims, err := s.parseToken(tokenString)
	if err != nil || !token.Valid {
		return nil, shared.NewUnauthorizedError("invalid token")
	}

	queryCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// 2. Check database for active session (revocation check)
	count, err := s.sessionsCol.CountDocuments(queryCtx, bson.M{"token": tokenString})
	if err != nil || count == 0 {
		return nil, shared.NewUnauthorizedError("session expired or revoked")
	}

	// 3. Fetch user details
	var user shared.User
	err = s.usersCol.FindOne(queryCtx, bson.M{"_id": claims.UserID}).Decode(&user)
	if err != nil {
		return nil, shared.NewUnauthorizedError("user not found")
	}

	if !user.IsActive {
		return nil, shared.NewForbiddenError("account inactive")
	}

	return &user, nil
}

// ChangePassword updates a user's password and revokes their sessions.
func (s *Service) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	if userID == "" || oldPassword == "" || newPassword == "" {
		return shared.NewValidationError("password", "all fields are required")
	}
	if len(newPassword) < 8 {
		return shared.NewValidationError("newPassword", "password must be at least 8 characters")
	}

	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	// 1. Fetch user
	var user shared.User
	err := s.usersCol.FindOne(queryCtx, bson.M{"_id": userID}).Decode(&user)
	if err != nil {
		return shared.NewNotFoundError("user", userID)
	}

	// 2. Verify old password
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return shared.NewValidationError("oldPassword", "incorrect current password")
	}

	// 3. Hash new password using configured cost
	newHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.config.Security.BCryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	// 4. Update DB
	_, err = s.usersCol.UpdateOne(queryCtx, bson.M{"_id": userID}, bson.M{
		"$set": bson.M{
			"password_hash": string(newHash),
			"updated_at":    time.Now(),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	// 5. Invalidate existing sessions (force logout)
	_, _ = s.sessionsCol.DeleteMany(queryCtx, bson.M{"user_id": userID})

	return nil
}

// CleanupExpiredSessions removes session documents past their expiry.
func (s *Service) CleanupExpiredSessions(ctx context.Context) (int64, error) {
	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	result, err := s.sessionsCol.DeleteMany(queryCtx, bson.M{"expires_at": bson.M{"$lt": time.Now()}})
	if err != nil {
		return 0, fmt.Errorf("failed to clean up sessions: %w", err)
	}
	return result.DeletedCount, nil
}

// ============================================================================
// Internal Helpers
// ============================================================================

// generateToken creates a signed JWT
func (s *Service) generateToken(userID, role string) (string, time.Time, error) {
	expirationTime := time.Now().Add(time.Duration(s.config.Security.JWTExpirationHours) * time.Hour)

	claims := CustomClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			// Unique ID (jti) keeps tokens distinct even when issued at the
			// same timestamp
			ID:        shared.GenerateID("jti"),
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "school-records-system",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.config.Security.JWTSecret))

	return tokenString, expirationTime, err
}

// parseToken validates the JWT signature and extracts claims
func (s *Service) parseToken(tokenString string) (*jwt.Token, *CustomClaims, error) {
	claims := &CustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Security.JWTSecret), nil
	})

	return token, claims, err
}
