package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	httpadp "library-borrowing/internal/adapter/http"
	idempmw "library-borrowing/internal/adapter/middleware"
	"library-borrowing/internal/adapter/repository/gormdb"
	"library-borrowing/internal/adapter/repository/rest"
	"library-borrowing/internal/config"
	"library-borrowing/internal/domain/store"
	"library-borrowing/internal/infrastructure/cache"
	"library-borrowing/internal/infrastructure/db"
	"library-borrowing/internal/logger"
	"library-borrowing/internal/scheduler"
	"library-borrowing/internal/usecase/audit"
	"library-borrowing/internal/usecase/auth"
	"library-borrowing/internal/usecase/borrowing"
	"library-borrowing/internal/usecase/catalog"
	"library-borrowing/pkg/id"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		slog.Error("dotenv", "err", err)
		os.Exit(1)
	}
	cfg := config.Load()
	log := logger.Initialize(cfg.LogLevel, cfg.LogFormat)
	if err := cfg.Validate(); err != nil {
		log.Error("invalid config", "err", err)
		os.Exit(1)
	}

	repos, err := openStore(cfg, log)
	if err != nil {
		log.Error("open store", "driver", cfg.StoreDriver, "err", err)
		os.Exit(1)
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb, err = cache.OpenRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Error("open redis", "addr", cfg.RedisAddr, "err", err)
			os.Exit(1)
		}
		defer rdb.Close()
	}

	borrowUC := borrowing.NewUsecase(repos,
		borrowing.WithLogger(logger.WithService("borrowing")),
		borrowing.WithFailOpen(cfg.FailOpen),
	)
	catalogUC := catalog.NewUsecase(repos.Resources, logger.WithService("catalog"))
	authUC := auth.NewUsecase(repos.Users)

	sched := scheduler.New(audit.NewUsecase(repos, logger.WithService("audit")), cfg.StoreTimeout, logger.WithService("scheduler"))
	if err := sched.Register(cfg.AuditSchedule); err != nil {
		log.Error("scheduler", "err", err)
		os.Exit(1)
	}
	sched.Start()
	defer sched.Stop()

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(
		middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: id.NewID32}),
		middleware.Logger(),
		middleware.Recover(),
	)

	var idem echo.MiddlewareFunc
	if rdb != nil {
		idem = idempmw.Idempotency(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second, logger.WithService("idempotency"))
	}
	httpadp.Register(e, httpadp.Handlers{
		Health:    httpadp.NewHandler(cfg.StoreDriver),
		Auth:      httpadp.NewAuthHandler(authUC),
		Catalog:   httpadp.NewCatalogHandler(catalogUC),
		Borrowing: httpadp.NewBorrowingHandler(borrowUC),
	}, idem)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := ":" + cfg.AppPort
	go func() {
		log.Info("listening", "addr", addr, "store", cfg.StoreDriver, "idempotency", rdb != nil)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", "err", err)
	}
}

func openStore(cfg *config.Config, log *slog.Logger) (store.Repos, error) {
	if cfg.StoreDriver == config.DriverREST {
		c := rest.NewClient(rest.Config{
			BaseURL:    cfg.SupabaseURL,
			AnonKey:    cfg.SupabaseAnonKey,
			ServiceKey: cfg.ServiceKey(),
			Timeout:    cfg.StoreTimeout,
		}, logger.WithService("rest"))
		return rest.NewRepos(c), nil
	}

	gdb, err := db.OpenGorm(cfg.StoreDriver, cfg.DSN(), log)
	if err != nil {
		return store.Repos{}, err
	}
	// sqlite is the local/dev store and owns its schema
	if cfg.StoreDriver == config.DriverSQLite {
		if err := gormdb.Migrate(gdb); err != nil {
			return store.Repos{}, err
		}
	}
	return gormdb.NewRepos(gdb), nil
}
