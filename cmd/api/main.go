package main

import (
	"fmt"
	"net/http"

	"github.com/gigline/gigline-backend-go/internal/config"
	"github.com/gigline/gigline-backend-go/internal/domain/assignment"
	domainIdentity "github.com/gigline/gigline-backend-go/internal/domain/identity"
	"github.com/gigline/gigline-backend-go/internal/domain/matching"
	appHTTP "github.com/gigline/gigline-backend-go/internal/handler/http"
	"github.com/gigline/gigline-backend-go/internal/pkg/database"
	"github.com/gigline/gigline-backend-go/internal/pkg/faceid"
	"github.com/gigline/gigline-backend-go/internal/pkg/jwt"
	"github.com/gigline/gigline-backend-go/internal/repository/postgresql"
	attendanceService "github.com/gigline/gigline-backend-go/internal/service/attendance"
	serviceAuth "github.com/gigline/gigline-backend-go/internal/service/auth"
	identityService "github.com/gigline/gigline-backend-go/internal/service/identity"
	matchingService "github.com/gigline/gigline-backend-go/internal/service/matching"
	notificationService "github.com/gigline/gigline-backend-go/internal/service/notification"
	shiftService "github.com/gigline/gigline-backend-go/internal/service/shift"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	workerRepo := postgresql.NewWorkerRepository(db)
	reliabilityStore := postgresql.NewReliabilityStore(db)
	shiftRepo := postgresql.NewShiftRepository(db)
	applicationRepo := postgresql.NewApplicationRepository(db)
	assignmentRepo := postgresql.NewAssignmentRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)
	JWTRepository := postgresql.NewJWTRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)
	faceProvider := faceid.NewClient(cfg.Identity)
	verifier := identityService.NewVerifier(faceProvider, domainIdentity.AllowOverridePolicy{}, cfg.Identity)
	sink := notificationService.NewSink(notificationRepo)
	feed := notificationService.NewFeed(notificationRepo)

	authSvc := serviceAuth.NewAuthService(db, workerRepo, JWTService, JWTRepository)
	shiftSvc := shiftService.NewShiftService(shiftRepo)
	scorer := matchingService.NewScorer(matching.DefaultScoreWeights())
	applicationSvc := matchingService.NewApplicationService(
		db,
		applicationRepo,
		shiftRepo,
		workerRepo,
		reliabilityStore,
		assignmentRepo,
		scorer,
		sink,
	)
	attendanceSvc := attendanceService.NewAttendanceService(
		db,
		assignmentRepo,
		shiftRepo,
		workerRepo,
		reliabilityStore,
		verifier,
		sink,
		cfg.Attendance,
		assignment.DefaultHoursPolicy(),
	)

	authHandler := appHTTP.NewAuthHandler(JWTService, authSvc)
	shiftHandler := appHTTP.NewShiftHandler(shiftSvc)
	applicationHandler := appHTTP.NewApplicationHandler(applicationSvc)
	assignmentHandler := appHTTP.NewAssignmentHandler(attendanceSvc)
	notificationHandler := appHTTP.NewNotificationHandler(feed)

	router := appHTTP.NewRouter(
		cfg.App,
		JWTService,
		authHandler,
		shiftHandler,
		applicationHandler,
		assignmentHandler,
		notificationHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
