package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/lifelink/lifelink/internal/config"
	"github.com/lifelink/lifelink/internal/domain/appointment"
	"github.com/lifelink/lifelink/internal/domain/donor"
	"github.com/lifelink/lifelink/internal/domain/emergency"
	"github.com/lifelink/lifelink/internal/domain/feedback"
	"github.com/lifelink/lifelink/internal/domain/hospital"
	"github.com/lifelink/lifelink/internal/domain/inventory"
	"github.com/lifelink/lifelink/internal/domain/manager"
	"github.com/lifelink/lifelink/internal/platform/auth"
	"github.com/lifelink/lifelink/internal/platform/blobstore"
	"github.com/lifelink/lifelink/internal/platform/db"
	"github.com/lifelink/lifelink/internal/platform/events"
	"github.com/lifelink/lifelink/internal/platform/middleware"
	"github.com/lifelink/lifelink/internal/platform/notification"
	"github.com/lifelink/lifelink/internal/platform/reporting"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "lifelink-server",
		Short: "LifeLink blood donation API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the LifeLink API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	// migrate up
	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	// migrate status
	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			fmt.Println("---------- ---------------------------------------- ---------- --------------------")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	// Database
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	// API groups. public carries no auth middleware: sign-up, sign-in,
	// anonymous emergency requests and inquiries live there.
	public := e.Group("/api/v1")
	apiV1 := e.Group("/api/v1")

	// Auth middleware on the protected group only
	if cfg.IsDev() {
		apiV1.Use(auth.DevAuthMiddleware())
	} else {
		apiV1.Use(auth.JWTMiddleware([]byte(cfg.JWTSecret)))
	}

	// Rate limiting middleware
	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	public.Use(middleware.RateLimit(rateLimitCfg))
	apiV1.Use(middleware.RateLimit(rateLimitCfg))

	// Health checks
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})
	e.GET("/health/db", db.HealthHandler(pool))

	// Event bus
	bus := events.NewBus(logger)

	// Notification gateway. Email goes through SMTP when configured;
	// everything else is logged until a real provider is wired.
	templates := notification.NewTemplateEngine()
	logSender := &notification.LogSender{Logger: logger}
	var emailSender notification.EmailSender = logSender
	if cfg.SMTPHost != "" {
		emailSender = &notification.SMTPSender{
			Addr: fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
			From: cfg.SMTPFrom,
		}
	}
	gateway := notification.NewGateway(emailSender, logSender, logSender, cfg.NotifyTimeout, logger)

	// Blob store for proof-of-identity documents
	blobs := blobstore.NewInMemoryBlobStore()
	blobHandler := blobstore.NewBlobHandler(blobs)
	blobHandler.RegisterRoutes(apiV1)

	// Donors
	donorRepo := donor.NewRepo(pool)
	donorSvc := donor.NewService(donorRepo)
	donorHandler := donor.NewHandler(donorSvc)
	donorHandler.RegisterRoutes(public, apiV1)

	// Hospitals and hospital admins
	hospitalRepo := hospital.NewRepo(pool)
	hospitalAdminRepo := hospital.NewAdminRepo(pool)
	hospitalSvc := hospital.NewService(hospitalRepo, hospitalAdminRepo)
	hospitalHandler := hospital.NewHandler(hospitalSvc)
	hospitalHandler.RegisterRoutes(public, apiV1)

	// Blood inventory
	inventoryRepo := inventory.NewRepo(pool)
	inventorySvc := inventory.NewService(inventoryRepo)
	inventoryHandler := inventory.NewHandler(inventorySvc)
	inventoryHandler.RegisterRoutes(apiV1)

	// System managers
	managerRepo := manager.NewRepo(pool)
	managerSvc := manager.NewService(managerRepo)
	managerHandler := manager.NewHandler(managerSvc)
	managerHandler.RegisterRoutes(apiV1)

	// Seed the first manager account when the table is empty
	if email := os.Getenv("BOOTSTRAP_MANAGER_EMAIL"); email != "" {
		name := os.Getenv("BOOTSTRAP_MANAGER_NAME")
		password := os.Getenv("BOOTSTRAP_MANAGER_PASSWORD")
		m, err := managerSvc.Bootstrap(ctx, name, email, password)
		if err != nil {
			logger.Error().Err(err).Msg("manager bootstrap failed")
		} else if m != nil {
			logger.Info().Str("email", email).Msg("bootstrapped initial manager account")
		}
	}

	// Appointments and health evaluations
	apptRepo := appointment.NewRepo(pool)
	evalRepo := appointment.NewEvaluationRepo(pool)
	apptSvc := appointment.NewService(apptRepo, evalRepo, donorRepo, bus)
	apptHandler := appointment.NewHandler(apptSvc)
	apptHandler.RegisterRoutes(apiV1)

	// Emergency requests
	emergencyRepo := emergency.NewRepo(pool)
	emergencySvc := emergency.NewService(emergencyRepo, blobs, bus)
	emergencyHandler := emergency.NewHandler(emergencySvc)
	emergencyHandler.RegisterRoutes(public, apiV1)

	// Feedback and inquiries
	feedbackRepo := feedback.NewRepo(pool)
	inquiryRepo := feedback.NewInquiryRepo(pool)
	feedbackSvc := feedback.NewService(feedbackRepo, inquiryRepo)
	feedbackHandler := feedback.NewHandler(feedbackSvc)
	feedbackHandler.RegisterRoutes(public, apiV1)

	// Role-scoped sign-in
	authHandler := auth.NewHandler([]byte(cfg.JWTSecret), cfg.TokenTTL)
	authHandler.RegisterSource(auth.RoleDonor, donorSvc)
	authHandler.RegisterSource(auth.RoleHospital, hospitalSvc)
	authHandler.RegisterSource(auth.RoleHospitalAdmin, hospitalSvc.AdminSource())
	authHandler.RegisterSource(auth.RoleManager, managerSvc)
	authHandler.RegisterRoutes(public)

	// Reporting
	reportHandler := reporting.NewHandler(pool)
	reportHandler.RegisterRoutes(apiV1)

	// Matching engine. New requests are matched as soon as a manager
	// activates them; the rescanner sweeps for anything missed and expires
	// overdue requests.
	matcher := emergency.NewMatcher(donorRepo, inventoryRepo, gateway, templates, logger)
	matcher.SetWorkers(cfg.NotifyConcurrency)

	bus.Subscribe(events.TypeEmergencyRequestCreated, func(ctx context.Context, evt events.Event) error {
		req, err := emergencyRepo.GetByID(ctx, evt.ResourceID)
		if err != nil {
			return err
		}
		_, err = matcher.ProcessRequest(ctx, req)
		return err
	})

	// Appointment lifecycle notifications
	bus.Subscribe(events.TypeAppointmentBooked, appointmentNotifier(apptRepo, donorRepo, hospitalRepo, templates, gateway, "appointment-confirmed"))
	bus.Subscribe(events.TypeAppointmentCancelled, appointmentNotifier(apptRepo, donorRepo, hospitalRepo, templates, gateway, "appointment-cancelled"))
	bus.Subscribe(events.TypeEvaluationCompleted, func(ctx context.Context, evt events.Event) error {
		ev, err := evalRepo.GetByID(ctx, evt.ResourceID)
		if err != nil {
			return err
		}
		d, err := donorRepo.GetByID(ctx, ev.DonorID)
		if err != nil {
			return err
		}
		subject, body, err := templates.Render("evaluation-result", map[string]string{
			"donor_name": d.Name,
			"date":       ev.EvaluatedAt.Format("2006-01-02"),
			"result":     ev.Result,
		})
		if err != nil {
			return err
		}
		return gateway.Send(ctx, notification.Message{
			RecipientID:   d.ID,
			RecipientType: "donor",
			Email:         d.Email,
			Subject:       subject,
			Body:          body,
			Channels:      []notification.Channel{notification.ChannelEmail},
		})
	})

	rescanner := emergency.NewRescanner(emergencyRepo, matcher, cfg.RescanInterval, logger)
	rescanner.Start()
	logger.Info().Dur("interval", cfg.RescanInterval).Msg("emergency rescanner started")

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	rescanner.Stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}

// appointmentNotifier builds a bus handler that emails the donor about an
// appointment state change using the named template.
func appointmentNotifier(
	appts appointment.Repository,
	donors donor.Repository,
	hospitals hospital.Repository,
	templates *notification.TemplateEngine,
	gateway *notification.Gateway,
	templateID string,
) events.Handler {
	return func(ctx context.Context, evt events.Event) error {
		a, err := appts.GetByID(ctx, evt.ResourceID)
		if err != nil {
			return err
		}
		d, err := donors.GetByID(ctx, a.DonorID)
		if err != nil {
			return err
		}
		h, err := hospitals.GetByID(ctx, a.HospitalID)
		if err != nil {
			return err
		}
		subject, body, err := templates.Render(templateID, map[string]string{
			"donor_name":    d.Name,
			"hospital_name": h.Name,
			"date":          a.ScheduledAt.Format("2006-01-02 15:04"),
		})
		if err != nil {
			return err
		}
		return gateway.Send(ctx, notification.Message{
			RecipientID:   d.ID,
			RecipientType: "donor",
			Email:         d.Email,
			Phone:         d.Phone,
			Subject:       subject,
			Body:          body,
			Channels:      []notification.Channel{notification.ChannelEmail},
		})
	}
}
