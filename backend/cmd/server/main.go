package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jefferyraooji/School-Database-Management-System/backend/internal/auth"
	"github.com/jefferyraooji/School-Database-Management-System/backend/internal/course"
	"github.com/jefferyraooji/School-Database-Management-System/backend/internal/gateway"
	"github.com/jefferyraooji/School-Database-Management-System/backend/internal/grade"
	"github.com/jefferyraooji/School-Database-Management-System/backend/internal/grading"
	"github.com/jefferyraooji/School-Database-Management-System/backend/internal/shared"
)

func main() {
	log.Println("INFO: Starting Record Server...")

	// 1. Load Configuration
	if err := shared.LoadEnv(".env"); err != nil {
		log.Println("INFO: Continuing with system environment variables")
	}

	config, err := shared.LoadServerConfig("record-server")
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	// 2. Connect to MongoDB
	client, db, err := shared.ConnectMongoDB(&config.MongoDB)
	if err != nil {
		log.Fatalf("FATAL: Failed to connect to MongoDB: %v", err)
	}
	defer shared.DisconnectMongoDB(client)

	// 3. Wire Services
	gradeService := grade.NewService(db)
	courseService := course.NewService(db)
	authService := auth.NewService(db, config)
	engine := grading.NewService(gradeService, courseService)

	services := &gateway.Services{
		Auth:    authService,
		Grades:  gradeService,
		Courses: courseService,
		Engine:  engine,
	}

	// 4. Setup Routes and Middleware
	router := gateway.SetupRoutes(services, config)

	server := &http.Server{
		Addr:         ":" + config.HTTPPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 5. Start Server in a Goroutine
	go func() {
		log.Printf("INFO: Record server listening on port %s", config.HTTPPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("FATAL: HTTP server error: %v", err)
		}
	}()

	// 6. Periodic Session Cleanup
	cleanupCtx, stopCleanup := context.WithCancel(context.Background())
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-cleanupCtx.Done():
				return
			case <-ticker.C:
				removed, err := authService.CleanupExpiredSessions(cleanupCtx)
				if err != nil {
					log.Printf("Error cleaning up sessions: %v", err)
					continue
				}
				if removed > 0 {
					log.Printf("INFO: Removed %d expired sessions", removed)
				}
			}
		}
	}()

	// 7. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("INFO: Shutting down Record Server...")
	stopCleanup()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during server shutdown: %v", err)
	}

	log.Println("INFO: Record Server stopped.")
}
