package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cafebackend/config"
	"cafebackend/db"
	"cafebackend/handlers"
	"cafebackend/logger"
	"cafebackend/repository"
	"cafebackend/service"
	"cafebackend/storage"
	"cafebackend/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		Environment: cfg.Environment,
	})
	if !cfg.EnvLoaded {
		log.Info("no .env file found, using process environment")
	}

	cmd := "serve"
	args := os.Args[1:]
	if len(args) > 0 {
		cmd, args = args[0], args[1:]
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch cmd {
	case "serve":
		err = runServe(ctx, cfg, log)
	case "migrate":
		err = withDB(ctx, cfg, log, func(database *db.DB) error {
			return database.Migrate(ctx)
		})
	case "seed":
		err = withDB(ctx, cfg, log, func(database *db.DB) error {
			return runSeed(ctx, cfg, log, database)
		})
	case "fix-images":
		fs := flag.NewFlagSet("fix-images", flag.ExitOnError)
		dryRun := fs.Bool("dry-run", false, "report changes without writing them")
		_ = fs.Parse(args)
		err = withDB(ctx, cfg, log, func(database *db.DB) error {
			return runFixImages(ctx, cfg, log, database, *dryRun)
		})
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q (want serve, migrate, seed or fix-images)\n", cmd)
		os.Exit(2)
	}
	if err != nil {
		log.Fatal(cmd+" failed", "error", err)
	}
}

func withDB(ctx context.Context, cfg config.Config, log *logger.Logger, fn func(*db.DB) error) error {
	database, err := db.Connect(ctx, cfg.DB, log)
	if err != nil {
		return err
	}
	defer database.Close()
	return fn(database)
}

func runServe(ctx context.Context, cfg config.Config, log *logger.Logger) error {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	database, err := db.Connect(ctx, cfg.DB, log)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer database.Close()

	if err := database.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	images, err := newImageStore(cfg.Storage)
	if err != nil {
		return err
	}
	resolver := storage.NewResolver(cfg.Storage.UploadsDir)

	menuRepo := repository.NewMenuRepository(database)
	orderRepo := repository.NewOrderRepository(database)
	userRepo := repository.NewUserRepository(database)

	tokens := service.NewTokens(cfg.JWT.Secret, cfg.JWT.Expire)
	menuService := service.NewMenuService(menuRepo, images, log)
	orderService := service.NewOrderService(orderRepo, log)
	authService := service.NewAuthService(userRepo, tokens, log)

	production := cfg.IsProduction()
	router := handlers.NewRouter(handlers.RouterConfig{
		Menu:   handlers.NewMenuHandler(menuService, resolver, production),
		Orders: handlers.NewOrderHandler(orderService, resolver, production),
		Auth: handlers.NewAuthHandler(authService, utils.CookieOptions{
			Domain: cfg.CookieDomain,
			Secure: production,
			TTL:    cfg.JWT.Expire,
		}, production),
		System:         handlers.NewSystemHandler(database),
		Tokens:         tokens,
		Log:            log,
		UploadsDir:     cfg.Storage.UploadsDir,
		AssetsDir:      cfg.Storage.AssetsDir,
		MaxUploadBytes: cfg.Storage.MaxUploadBytes,
		Production:     production,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", "addr", srv.Addr, "storage", cfg.Storage.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func newImageStore(cfg config.StorageConfig) (storage.ImageStore, error) {
	if cfg.Driver == "s3" {
		return storage.NewS3Store(storage.S3Config{
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			Bucket:    cfg.S3Bucket,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			MaxBytes:  cfg.MaxUploadBytes,
		})
	}
	return storage.NewLocalStore(cfg.UploadsDir, cfg.MaxUploadBytes)
}

func runSeed(ctx context.Context, cfg config.Config, log *logger.Logger, database *db.DB) error {
	if err := database.Migrate(ctx); err != nil {
		return err
	}
	auth := service.NewAuthService(repository.NewUserRepository(database), service.NewTokens(cfg.JWT.Secret, cfg.JWT.Expire), log)
	seeder := service.NewSeeder(repository.NewMenuRepository(database), auth)
	res, err := seeder.Run(ctx, cfg.Seed.AdminUsername, cfg.Seed.AdminPassword)
	if err != nil {
		return err
	}
	log.Info("seed complete", "menu_created", res.MenuCreated, "admin_created", res.AdminCreated)
	return nil
}

func runFixImages(ctx context.Context, cfg config.Config, log *logger.Logger, database *db.DB, dryRun bool) error {
	maint := service.NewImageMaintenance(repository.NewMenuRepository(database), storage.NewResolver(cfg.Storage.UploadsDir))
	report, err := maint.NormalizeImageRefs(ctx, dryRun)
	if err != nil {
		return err
	}
	for _, fix := range report.Fixes {
		log.Info("image ref", "menu_id", fix.MenuID, "name", fix.Name, "action", fix.Action,
			"before", deref(fix.Before), "after", deref(fix.After))
	}
	log.Info("fix-images complete", "dry_run", dryRun, "checked", report.Checked,
		"cleared", report.Cleared, "rewritten", report.Rewritten, "missing", report.Missing)
	return nil
}

func deref(s *string) string {
	if s == nil {
		return "NULL"
	}
	return *s
}
