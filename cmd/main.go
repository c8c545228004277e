package main

import (
	"context"
	"net/http"
	_ "time/tzdata"

	"github.com/gorilla/mux"
	cron "github.com/robfig/cron/v3"
	"github.com/rs/cors"
	twilio "github.com/twilio/twilio-go"

	"github.com/gramsetu/employment-service/internal/app"
	"github.com/gramsetu/employment-service/internal/config"
	"github.com/gramsetu/employment-service/internal/controllers"
	"github.com/gramsetu/employment-service/internal/middleware"
	"github.com/gramsetu/employment-service/internal/repositories"
	"github.com/gramsetu/employment-service/internal/routes"
	"github.com/gramsetu/employment-service/internal/services"
	"github.com/gramsetu/employment-service/internal/utils"
)

func main() {
	utils.InitLogger("employment-service")
	cfg := config.LoadConfig()

	application, err := app.NewApp(cfg)
	if err != nil {
		utils.Logger.Fatal("Failed to initialize employment-service:", err)
	}
	defer application.Close()

	identityRepo := repositories.NewIdentityRepository(application.DB)
	applicationRepo := repositories.NewApplicationRepository(application.DB)
	jobCardRepo := repositories.NewJobCardRepository(application.DB)
	projectRepo := repositories.NewProjectRepository(application.DB)
	workDemandRepo := repositories.NewWorkDemandRepository(application.DB)
	attendanceRepo := repositories.NewAttendanceRepository(application.DB)
	paymentRepo := repositories.NewPaymentRepository(application.DB)
	tokenRepo := repositories.NewTokenRepository(application.DB)
	otpStore := repositories.NewPostgresOtpStore(application.DB)

	if cfg.SeedBootstrapAdmin {
		if err := app.SeedBootstrapAdmin(context.Background(), identityRepo, cfg.BootstrapAdmin); err != nil {
			utils.Logger.WithError(err).Fatal("Failed to seed bootstrap admin")
		}
	}

	uploader := utils.NewDiskUploader(cfg.UploadDir, cfg.UploadBaseURL)

	emailSender := services.NewSendgridEmailSender(
		cfg.SendGridAPIKey, cfg.OrganizationName, cfg.SendGridFromEmail, cfg.SendGridSandboxMode,
	)
	var smsSender services.SMSSender
	var remoteVerifier services.RemoteOtpVerifier
	if cfg.TwilioAccountSID != "" {
		twClient := twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.TwilioAccountSID,
			Password: cfg.TwilioAuthToken,
		})
		smsSender = services.NewTwilioSMSSender(twClient, cfg.TwilioFromPhone)
		if cfg.TwilioVerifySID != "" {
			remoteVerifier = services.NewTwilioRemoteVerifier(twClient, cfg.TwilioVerifySID)
		}
	}

	otpService := services.NewOtpService(otpStore, emailSender, smsSender, remoteVerifier)
	jwtService := services.NewJWTService(cfg.RSAPrivateKey, cfg.RSAPublicKey, tokenRepo, identityRepo)
	authService := services.NewAuthService(
		identityRepo, otpService, jwtService, uploader, cfg.TokenExpiry, cfg.RefreshTokenExpiry,
	)
	applicationService := services.NewApplicationService(
		applicationRepo, identityRepo, jobCardRepo, cfg.PlaceholderEmailDomain,
	)
	projectService := services.NewProjectService(projectRepo, identityRepo, cfg.MinimumDailyWage)
	workDemandService := services.NewWorkDemandService(workDemandRepo, projectRepo, identityRepo)
	attendanceService := services.NewAttendanceService(
		attendanceRepo, workDemandRepo, projectRepo, cfg.ReportingTimezone,
	)
	paymentService := services.NewPaymentService(paymentRepo, attendanceRepo, projectRepo, identityRepo)
	cleanupService := services.NewCleanupService(otpService, tokenRepo)

	healthController := controllers.NewHealthController(application)
	otpController := controllers.NewOtpController(otpService, cfg.ExposeOtpCodes)
	authController := controllers.NewAuthController(authService)
	applicationController := controllers.NewApplicationController(applicationService, uploader)
	jobCardController := controllers.NewJobCardController(applicationService)
	projectController := controllers.NewProjectController(projectService)
	workDemandController := controllers.NewWorkDemandController(workDemandService)
	attendanceController := controllers.NewAttendanceController(attendanceService)
	paymentController := controllers.NewPaymentController(paymentService)

	router := mux.NewRouter()

	// Public
	router.HandleFunc(routes.Health, healthController.HealthCheckHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.OtpIssue, otpController.IssueHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.OtpVerify, otpController.VerifyHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.AuthRegister, authController.RegisterHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.AuthLogin, authController.LoginHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.AuthRefresh, authController.RefreshHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.AuthLogout, authController.LogoutHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.ApplicationsBase, applicationController.SubmitHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.ApplicationByID, applicationController.GetHandler).Methods(http.MethodGet)

	// Authenticated
	secured := router.NewRoute().Subrouter()
	secured.Use(middleware.AuthMiddleware(cfg.RSAPublicKey))

	secured.HandleFunc(routes.AuthMe, authController.ProfileHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.AuthMe, authController.UpdateProfileHandler).Methods(http.MethodPatch)
	secured.HandleFunc(routes.AuthMe, authController.DeactivateHandler).Methods(http.MethodDelete)

	secured.HandleFunc(routes.JobCardByNationalID, jobCardController.GetByNationalIDHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.JobCardByID, jobCardController.GetHandler).Methods(http.MethodGet)

	secured.HandleFunc(routes.WorkDemandsBase, workDemandController.CreateHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.WorkDemandsMy, workDemandController.ListMyHandler).Methods(http.MethodGet)

	secured.HandleFunc(routes.ProjectsBase, projectController.ListHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.ProjectByID, projectController.GetHandler).Methods(http.MethodGet)

	secured.HandleFunc(routes.AttendanceBase, attendanceController.MarkHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.AttendanceByID, attendanceController.UpdateHandler).Methods(http.MethodPatch)
	secured.HandleFunc(routes.AttendanceByProject, attendanceController.ListByProjectHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.AttendanceByWorker, attendanceController.ListByWorkerHandler).Methods(http.MethodGet)

	secured.HandleFunc(routes.PaymentsByWorker, paymentController.ListByWorkerHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.PaymentByID, paymentController.GetHandler).Methods(http.MethodGet)

	// Admin
	admin := router.NewRoute().Subrouter()
	admin.Use(middleware.AuthMiddleware(cfg.RSAPublicKey), middleware.AdminOnly)

	admin.HandleFunc(routes.ApplicationsBase, applicationController.ListHandler).Methods(http.MethodGet)
	admin.HandleFunc(routes.ApplicationApprove, applicationController.ApproveHandler).Methods(http.MethodPost)
	admin.HandleFunc(routes.ApplicationReject, applicationController.RejectHandler).Methods(http.MethodPost)

	admin.HandleFunc(routes.JobCardsBase, jobCardController.ListHandler).Methods(http.MethodGet)

	admin.HandleFunc(routes.ProjectsBase, projectController.CreateHandler).Methods(http.MethodPost)
	admin.HandleFunc(routes.ProjectByID, projectController.UpdateHandler).Methods(http.MethodPatch)

	admin.HandleFunc(routes.WorkDemandsBase, workDemandController.ListHandler).Methods(http.MethodGet)
	admin.HandleFunc(routes.WorkDemandsAssign, workDemandController.AssignWorkersHandler).Methods(http.MethodPost)
	admin.HandleFunc(routes.WorkDemandApprove, workDemandController.ApproveHandler).Methods(http.MethodPost)
	admin.HandleFunc(routes.WorkDemandReject, workDemandController.RejectHandler).Methods(http.MethodPost)
	admin.HandleFunc(routes.WorkDemandByID, workDemandController.GetHandler).Methods(http.MethodGet)

	admin.HandleFunc(routes.AttendanceByID, attendanceController.DeleteHandler).Methods(http.MethodDelete)

	admin.HandleFunc(routes.PaymentsGenerate, paymentController.GenerateHandler).Methods(http.MethodPost)
	admin.HandleFunc(routes.PaymentsBase, paymentController.CreateHandler).Methods(http.MethodPost)
	admin.HandleFunc(routes.PaymentsBase, paymentController.ListHandler).Methods(http.MethodGet)
	admin.HandleFunc(routes.PaymentApprove, paymentController.ApproveHandler).Methods(http.MethodPost)
	admin.HandleFunc(routes.PaymentReject, paymentController.RejectHandler).Methods(http.MethodPost)
	admin.HandleFunc(routes.PaymentPay, paymentController.MarkAsPaidHandler).Methods(http.MethodPost)
	admin.HandleFunc(routes.PaymentsByProject, paymentController.ListByProjectHandler).Methods(http.MethodGet)
	admin.HandleFunc(routes.PaymentByID, paymentController.DeleteHandler).Methods(http.MethodDelete)

	c := cron.New()
	_, otpErr := c.AddFunc("@every 1m", func() {
		if e := cleanupService.SweepOtps(context.Background()); e != nil {
			utils.Logger.WithError(e).Error("Scheduled OTP sweep failed")
		}
	})
	if otpErr != nil {
		utils.Logger.WithError(otpErr).Fatal("Failed to schedule OTP sweep cron")
	}

	_, tokenErr := c.AddFunc("5 0 * * *", func() {
		if e := cleanupService.CleanupTokensDaily(context.Background()); e != nil {
			utils.Logger.WithError(e).Error("Scheduled token cleanup failed")
		}
	})
	if tokenErr != nil {
		utils.Logger.WithError(tokenErr).Fatal("Failed to schedule token cleanup cron")
	}
	c.Start()

	co := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
	})

	utils.Logger.Infof("Starting %s on port: %s", cfg.AppName, cfg.AppPort)
	if err := http.ListenAndServe(":"+cfg.AppPort, co.Handler(router)); err != nil {
		utils.Logger.Fatal("employment-service failed to start:", err)
	}
}
