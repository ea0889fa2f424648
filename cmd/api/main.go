package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"farmavisitas/internal/config"
	"farmavisitas/internal/database"
	"farmavisitas/internal/middleware"
	"farmavisitas/internal/modules/appointment"
	"farmavisitas/internal/modules/auth"
	"farmavisitas/internal/modules/catalog"
	"farmavisitas/internal/modules/planning"
	"farmavisitas/internal/modules/report"
	syncmod "farmavisitas/internal/modules/sync"
	"farmavisitas/internal/modules/visit"
	jwtsvc "farmavisitas/internal/pkg/jwt"
	"farmavisitas/internal/pkg/oauth"
	"farmavisitas/internal/pkg/sheets"
	"farmavisitas/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal(err)
	}

	clientRepo := repository.NewClientRepository(db)
	medicineRepo := repository.NewMedicineRepository(db)
	planRepo := repository.NewPlanRepository(db)
	visitRepo := repository.NewVisitRepository(db)
	appointmentRepo := repository.NewAppointmentRepository(db)
	userRepo := repository.NewUserRepository(db)
	statusRepo := repository.NewSyncStatusRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTAccessTTL)

	session := oauth.NewSession(oauth.Config{
		TokenURL:     cfg.TokenURL,
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RefreshToken: cfg.RefreshToken,
	})
	tables := sheets.NewClient(cfg.SheetsBaseURL, cfg.SpreadsheetID, session)

	hub := syncmod.NewHub()
	defer hub.Close()

	coordinator := syncmod.NewCoordinator(
		tables,
		clientRepo,
		medicineRepo,
		visitRepo,
		appointmentRepo,
		planRepo,
		statusRepo,
		hub,
	)

	catalogService := catalog.NewService(clientRepo, medicineRepo, tables)
	if err := catalogService.Reload(context.Background()); err != nil {
		log.Fatal(err)
	}

	authService := auth.NewService(userRepo, j)
	planningService := planning.NewService(planRepo, catalogService, visitRepo, coordinator)
	visitService := visit.NewService(visitRepo, catalogService, coordinator)
	appointmentService := appointment.NewService(appointmentRepo, catalogService)
	reportService := report.NewService(visitRepo)

	reminder := appointment.NewReminder(appointmentRepo, appointment.LogAnnouncer())
	stopReminders := reminder.Schedule(context.Background(), appointment.ReminderConfig{
		Interval: cfg.ReminderInterval,
		Lead:     cfg.ReminderLead,
		Enabled:  true,
	})
	if stopReminders != nil {
		defer close(stopReminders)
	}

	authHandler := auth.NewHandler(authService)
	catalogHandler := catalog.NewHandler(catalogService)
	planningHandler := planning.NewHandler(planningService)
	visitHandler := visit.NewHandler(visitService)
	appointmentHandler := appointment.NewHandler(appointmentService)
	reportHandler := report.NewHandler(reportService)
	syncHandler := syncmod.NewHandler(coordinator, hub)

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterRoutes(v1)

		// protected
		protected := v1.Group("/")
		protected.Use(middleware.Auth(j))
		{
			catalogHandler.RegisterRoutes(protected)
			planningHandler.RegisterRoutes(protected)
			visitHandler.RegisterRoutes(protected)
			appointmentHandler.RegisterRoutes(protected)
			reportHandler.RegisterRoutes(protected)
			syncHandler.RegisterRoutes(protected)
		}
	}

	if err := r.Run(cfg.Addr); err != nil {
		log.Fatal(err)
	}
}
