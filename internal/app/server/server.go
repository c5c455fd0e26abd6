package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"hris/internal/domain/access"
	"hris/internal/domain/appraisals"
	"hris/internal/domain/attendance"
	"hris/internal/domain/auth"
	"hris/internal/domain/documents"
	"hris/internal/domain/integrations"
	"hris/internal/domain/leave"
	"hris/internal/domain/notifications"
	"hris/internal/domain/onboarding"
	"hris/internal/domain/org"
	"hris/internal/domain/system"
	"hris/internal/domain/users"
	"hris/internal/platform/config"
	"hris/internal/platform/crypto"
	"hris/internal/platform/db"
	"hris/internal/platform/docstore"
	"hris/internal/platform/filestore"
	"hris/internal/platform/jobs"
	"hris/internal/platform/metrics"
	"hris/internal/store"
	accesshandler "hris/internal/transport/http/handlers/access"
	appraisalshandler "hris/internal/transport/http/handlers/appraisals"
	attendancehandler "hris/internal/transport/http/handlers/attendance"
	authhandler "hris/internal/transport/http/handlers/auth"
	documentshandler "hris/internal/transport/http/handlers/documents"
	integrationshandler "hris/internal/transport/http/handlers/integrations"
	leavehandler "hris/internal/transport/http/handlers/leave"
	notificationshandler "hris/internal/transport/http/handlers/notifications"
	onboardinghandler "hris/internal/transport/http/handlers/onboarding"
	orghandler "hris/internal/transport/http/handlers/org"
	systemhandler "hris/internal/transport/http/handlers/system"
	usershandler "hris/internal/transport/http/handlers/users"
	"hris/internal/transport/http/middleware"
)

const JobDocumentExpiry = "document_expiry"

type pinger interface {
	Ping(ctx context.Context) error
}

type App struct {
	Config  config.Config
	Store   *store.Store
	Jobs    *jobs.Service
	Metrics *metrics.Collector
	Router  http.Handler

	persister docstore.Persister
	closers   []func()
}

// New opens storage, seeds first-run data and assembles the router. Scheduled
// jobs are not started until Start is called.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	app := &App{Config: cfg, Metrics: metrics.New()}

	persister, err := app.openPersister(ctx)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.persister = persister

	st, err := store.Open(ctx, persister)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}
	app.Store = st
	if err := store.Seed(ctx, st, cfg); err != nil {
		app.Close()
		return nil, fmt.Errorf("seed: %w", err)
	}

	cryptoSvc, err := crypto.New(cfg.DataEncryptionKey)
	if err != nil {
		app.Close()
		return nil, err
	}
	files, err := filestore.New(cfg.UploadDir)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("upload dir: %w", err)
	}
	policy, err := auth.NewPolicy()
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("load policy: %w", err)
	}

	app.Jobs = jobs.New(st.JobRuns())
	notifySvc := notifications.New(st.Notifications())
	systemSvc := system.NewService(st.System(), app.Jobs, app.Metrics)
	usersSvc := users.NewService(st.Users(), cryptoSvc, systemSvc, cfg.DefaultPassword)
	leaveSvc := leave.NewService(st.Leave(), st.Users(), notifySvc)
	documentsSvc := documents.NewService(st.Documents(), files, st.Users(), notifySvc, systemSvc, cfg.MaxUploadBytes)
	accessSvc := access.NewService(st.Access(), st.Users())
	orgSvc := org.NewService(st.Departments(), st.Users())
	appraisalsSvc := appraisals.NewService(st.Appraisals(), st.Users(), notifySvc)
	attendanceSvc := attendance.NewService(st.Attendance())
	onboardingSvc := onboarding.NewService(st.Onboarding(), notifySvc)
	integrationsSvc := integrations.NewService(st.Integrations())

	app.Jobs.Register(JobDocumentExpiry, cfg.ExpiryScanInterval, func(ctx context.Context) (any, error) {
		sent, err := documentsSvc.NotifyExpiring(ctx)
		return map[string]int{"notified": sent}, err
	})
	app.Jobs.Register(system.JobBackup, 0, system.BackupJob(st.Snapshot, cfg.BackupDir, func() time.Time { return time.Now().UTC() }))

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Logger(app.Metrics))
	router.Use(middleware.SecureHeaders(cfg.IsProduction()))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes, cfg.MaxUploadBytes))
	router.Use(middleware.Auth(cfg.JWTSecret))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Get("/readyz", app.handleReady)

	router.Route("/api", func(r chi.Router) {
		r.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
		r.Use(middleware.SensitiveMutationRateLimit(cfg.RateLimitPerMinute, time.Minute))

		authhandler.NewHandler(usersSvc, cfg.JWTSecret, cfg.TokenTTL).RegisterRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.RequireActiveAccount(usersSvc))
			r.Use(middleware.Maintenance(systemSvc))

			usershandler.NewHandler(usersSvc, onboardingSvc, policy).RegisterRoutes(r)
			accesshandler.NewHandler(accessSvc, policy).RegisterRoutes(r)
			orghandler.NewHandler(orgSvc, policy).RegisterRoutes(r)
			leavehandler.NewHandler(leaveSvc, policy).RegisterRoutes(r)
			documentshandler.NewHandler(documentsSvc, policy).RegisterRoutes(r)
			appraisalshandler.NewHandler(appraisalsSvc, policy).RegisterRoutes(r)
			attendancehandler.NewHandler(attendanceSvc, policy).RegisterRoutes(r)
			onboardinghandler.NewHandler(onboardingSvc, policy).RegisterRoutes(r)
			notificationshandler.NewHandler(notifySvc, policy).RegisterRoutes(r)
			integrationshandler.NewHandler(integrationsSvc, policy).RegisterRoutes(r)
			systemhandler.NewHandler(systemSvc, policy).RegisterRoutes(r)
		})
	})

	app.Router = router
	return app, nil
}

func (a *App) openPersister(ctx context.Context) (docstore.Persister, error) {
	if a.Config.DatabaseURL == "" {
		p, err := docstore.NewFilePersister(a.Config.DataFile)
		if err != nil {
			return nil, fmt.Errorf("data file: %w", err)
		}
		slog.Info("using file storage", "path", a.Config.DataFile)
		return p, nil
	}

	pool, err := db.Connect(ctx, a.Config)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}
	a.closers = append(a.closers, pool.Close)
	if a.Config.RunMigrations {
		if err := db.Migrate(ctx, pool); err != nil {
			return nil, fmt.Errorf("migrations: %w", err)
		}
	}
	slog.Info("using postgres storage")
	return db.NewStatePersister(pool), nil
}

func (a *App) handleReady(w http.ResponseWriter, r *http.Request) {
	if p, ok := a.persister.(pinger); ok {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := p.Ping(ctx); err != nil {
			http.Error(w, "storage not ready", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// Start launches the job worker and scheduled jobs. They stop when ctx is
// cancelled.
func (a *App) Start(ctx context.Context) {
	a.Jobs.Start(ctx)
}

func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func Run(ctx context.Context, cfg config.Config) error {
	app, err := New(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	jobCtx, stopJobs := context.WithCancel(ctx)
	defer stopJobs()
	app.Start(jobCtx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HRIS server listening", "addr", cfg.Addr, "env", cfg.Environment)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
