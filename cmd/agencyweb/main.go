// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/brightpixel/agencyweb/internal/blob"
	"github.com/brightpixel/agencyweb/internal/cache"
	"github.com/brightpixel/agencyweb/internal/config"
	"github.com/brightpixel/agencyweb/internal/handler"
	"github.com/brightpixel/agencyweb/internal/handler/api"
	"github.com/brightpixel/agencyweb/internal/logging"
	"github.com/brightpixel/agencyweb/internal/metrics"
	"github.com/brightpixel/agencyweb/internal/middleware"
	"github.com/brightpixel/agencyweb/internal/page"
	"github.com/brightpixel/agencyweb/internal/render"
	"github.com/brightpixel/agencyweb/internal/scheduler"
	"github.com/brightpixel/agencyweb/internal/section"
	"github.com/brightpixel/agencyweb/internal/service"
	"github.com/brightpixel/agencyweb/internal/session"
	"github.com/brightpixel/agencyweb/internal/store"
	"github.com/brightpixel/agencyweb/internal/transfer"
	"github.com/brightpixel/agencyweb/internal/version"
	"github.com/brightpixel/agencyweb/web"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

// eventRetention is how long event log entries are kept.
const eventRetention = 30 * 24 * time.Hour

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "agencyweb - agency website and content API\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  AGENCY_SESSION_SECRET    Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  AGENCY_STORE_BACKEND     sqlite|firestore (default: sqlite)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  AGENCY_DB_PATH           SQLite database path (default: ./data/agency.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  AGENCY_SERVER_PORT       Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  AGENCY_ENV               development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  AGENCY_BLOB_BACKEND      local|gcs (default: local)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  AGENCY_REDIS_URL         Redis URL for the render cache (optional)\n")
	}
	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	versionInfo := &version.Info{
		Version:   appVersion,
		GitCommit: appGitCommit,
		BuildTime: appBuildTime,
	}
	if *showVersion {
		_, _ = fmt.Printf("agencyweb %s\n", versionInfo)
		os.Exit(0)
	}

	if err := run(versionInfo); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run(versionInfo *version.Info) error {
	// Load .env files if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := logging.ParseLevel(cfg.LogLevel)
	logger := slog.New(logging.NewTextHandler(os.Stdout, logLevel))
	slog.SetDefault(logger)

	ctx := context.Background()
	st, sessionManager, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			slog.Error("error closing store", "error", err)
		}
	}()

	// WARN and ERROR records also go to the event log.
	logger = slog.New(logging.NewEventLogHandler(logging.NewTextHandler(os.Stdout, logLevel), st.Events))
	slog.SetDefault(logger)
	slog.Info("event log integration enabled", "min_level", "warn")

	if cfg.DoSeed {
		if err := store.Seed(ctx, st, store.AdminSeed{Email: cfg.AdminEmail, Password: cfg.AdminPassword}); err != nil {
			return fmt.Errorf("seeding store: %w", err)
		}
	}

	bucket, uploadsDir, err := openBucket(ctx, cfg)
	if err != nil {
		return err
	}

	registry, err := section.NewDefault()
	if err != nil {
		return fmt.Errorf("loading section registry: %w", err)
	}
	slog.Info("section registry loaded", "sections", len(registry.Catalog()))

	m := metrics.New()

	cacheTTL := time.Duration(cfg.RenderCacheTTL) * time.Second
	var pageCache *cache.PageCache
	if cacheTTL > 0 {
		backend := cache.New(ctx, cache.Config{
			RedisURL:   cfg.RedisURL,
			Prefix:     cfg.CachePrefix,
			DefaultTTL: cacheTTL,
			MaxSize:    cfg.CacheMaxSize,
		}, logger)
		defer func() { _ = backend.Close() }()
		pageCache = cache.NewPageCache(backend, cacheTTL)
	} else {
		slog.Info("render cache disabled")
	}

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("getting templates fs: %w", err)
	}
	views, err := render.New(templatesFS)
	if err != nil {
		return fmt.Errorf("parsing templates: %w", err)
	}

	resolver := page.NewResolver(st)
	pageRenderer := page.NewRenderer(registry, page.NewStoreItems(st), logger, page.WithSkipRecorder(m))

	pages := service.NewPageService(st)
	posts := service.NewPostService(st)
	events := service.NewEventService(st)
	authService := service.NewAuthService(st, logger)

	sched := scheduler.New(logger)
	if err := sched.Add(scheduler.PublishJob(map[string]scheduler.Publisher{"page": pages, "post": posts}, m, logger)); err != nil {
		return fmt.Errorf("registering publish job: %w", err)
	}
	if err := sched.Add(scheduler.EventCleanupJob(events, eventRetention, logger)); err != nil {
		return fmt.Errorf("registering event cleanup job: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig(), logger)
	publicRateLimiter := middleware.NewRateLimiter(10.0, 20, logger)
	subscribeLimiter := middleware.NewRateLimiter(0.2, 5, logger)

	stopCleanup := make(chan struct{})
	defer close(stopCleanup)
	go publicRateLimiter.Cleanup(stopCleanup, 10*time.Minute, 10000)
	go subscribeLimiter.Cleanup(stopCleanup, 10*time.Minute, 10000)
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-stopCleanup:
				return
			case <-ticker.C:
				loginProtection.CleanupStaleEntries()
			}
		}
	}()

	apiHandler := api.NewHandler(api.Deps{
		Resolver:     resolver,
		Registry:     registry,
		Pages:        pages,
		Posts:        posts,
		Sections:     service.NewSectionService(st, registry),
		Services:     service.NewServiceContent(st),
		Portfolio:    service.NewPortfolioContent(st),
		Testimonials: service.NewTestimonialContent(st),
		Team:         service.NewTeamContent(st),
		Menus:        service.NewMenuContent(st),
		SEO:          service.NewSEOContent(st),
		Subscribers:  service.NewSubscriberContent(st),
		Media:        service.NewMediaService(st, bucket, cfg.MaxUploadBytes(), logger),
		ImageSearch:  service.NewImageSearch(cfg.ImageSearchURL, cfg.ImageSearchKey, &http.Client{Timeout: 10 * time.Second}),
		Newsletter:   service.NewNewsletterService(st),
		Settings:     service.NewSettingsService(st),
		Events:       events,
		Auth:         authService,
		Exporter:     transfer.NewExporter(st, cfg.SiteURL, logger),
		Importer:     transfer.NewImporter(st, logger),

		PageCache:       pageCache,
		Scheduler:       sched,
		Sessions:        sessionManager,
		LoginProtection: loginProtection,
		Logger:          logger,
	})
	frontendHandler := handler.NewFrontendHandler(st, resolver, pageRenderer, views, pageCache, m, handler.FrontendConfig{
		SiteURL:        cfg.SiteURL,
		DisallowRobots: cfg.IsDevelopment(),
	}, logger)
	healthHandler := handler.NewHealthHandler(st, authService, sessionManager, uploadsDir, versionInfo)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(m.Middleware)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.StripTrailingSlash)
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))
	r.Use(middleware.RequestPath)
	r.Use(sessionManager.LoadAndSave)

	csrfMiddleware := middleware.CSRF(middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment(), logger))
	slog.Info("CSRF protection initialized", "secure", !cfg.IsDevelopment())

	r.Get("/health", healthHandler.Health)
	r.Get("/health/live", healthHandler.Liveness)
	r.Get("/health/ready", healthHandler.Readiness)
	r.Handle("/metrics", m.Handler())

	apiHandler.RegisterRoutes(r, api.Middlewares{
		RequireAdmin: middleware.RequireAdmin(sessionManager, authService, logger),
		CSRF:         csrfMiddleware,
		Login:        loginProtection.Middleware(),
		Subscribe:    subscribeLimiter.Middleware(),
	})

	staticFS, err := fs.Sub(web.Static, "static/dist")
	if err != nil {
		return fmt.Errorf("getting static fs: %w", err)
	}
	// Static assets: cache for 1 year
	r.Handle("/static/*", middleware.StaticCache(31536000)(http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))))
	if uploadsDir != "" {
		// Uploads: cache for 1 week
		r.Handle("/uploads/*", middleware.StaticCache(604800)(http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploadsDir)))))
	}

	r.Group(func(r chi.Router) {
		r.Use(publicRateLimiter.Middleware())
		r.Get("/sitemap.xml", frontendHandler.Sitemap)
		r.Get("/robots.txt", frontendHandler.Robots)
		r.Get("/", frontendHandler.Home)
		r.Get("/blog", frontendHandler.BlogList)
		r.Get("/blog/{slug}", frontendHandler.BlogPost)
		r.Get("/{slug}", frontendHandler.Page)
	})
	r.NotFound(frontendHandler.NotFound)

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second, // Longer to allow for large uploads and slow connections
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", versionInfo.String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

// openStore opens the configured document store and the session manager
// that goes with it. Sessions share the SQLite database; with Firestore they
// are kept in memory.
func openStore(ctx context.Context, cfg *config.Config) (*store.Store, *scs.SessionManager, error) {
	if cfg.UseFirestore() {
		slog.Info("using firestore store", "project", cfg.FirestoreProject)
		st := store.New(store.NewFirestoreBackend(store.FirestoreConfig{
			ProjectID:    cfg.FirestoreProject,
			EmulatorHost: cfg.FirestoreEmulatorHost,
		}))
		if err := st.Ping(ctx); err != nil {
			return nil, nil, fmt.Errorf("connecting to firestore: %w", err)
		}
		return st, session.New(nil, cfg.IsDevelopment()), nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o750); err != nil {
		return nil, nil, fmt.Errorf("creating data directory: %w", err)
	}
	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("initializing database: %w", err)
	}
	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")
	return store.New(store.NewSQLiteBackend(db)), session.New(db, cfg.IsDevelopment()), nil
}

// openBucket returns the media bucket and, for local storage, the directory
// served under /uploads.
func openBucket(ctx context.Context, cfg *config.Config) (blob.Bucket, string, error) {
	if cfg.UseGCS() {
		b, err := blob.NewGCSBucket(ctx, blob.GCSConfig{
			Bucket:          cfg.BlobBucket,
			CredentialsJSON: cfg.BlobToken,
			CacheControl:    "public, max-age=604800",
		})
		if err != nil {
			return nil, "", fmt.Errorf("opening media bucket: %w", err)
		}
		slog.Info("media stored in cloud storage", "bucket", cfg.BlobBucket)
		return b, "", nil
	}

	if err := os.MkdirAll(cfg.UploadsDir, 0o750); err != nil {
		return nil, "", fmt.Errorf("creating uploads directory: %w", err)
	}
	return blob.NewLocalBucket(cfg.UploadsDir, "/uploads"), cfg.UploadsDir, nil
}
