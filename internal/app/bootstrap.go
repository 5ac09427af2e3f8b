package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"job-tracker/internal/config"
	"job-tracker/internal/delivery/http/handler"
	"job-tracker/internal/delivery/http/middleware"
	"job-tracker/internal/delivery/http/routes"
	"job-tracker/internal/infrastructure/blob"
	"job-tracker/internal/pkg/jwt"
	"job-tracker/internal/pkg/validate"
	"job-tracker/internal/repository"
	"job-tracker/internal/usecase"
	"job-tracker/internal/ws"

	"github.com/gofiber/fiber/v3"
)

const (
	guardTTL     = 30 * time.Second
	fetchTimeout = 30 * time.Second
)

type App struct {
	Fiber *fiber.App
}

// Bootstrap connects every dependency and wires the HTTP app. The returned
// cleanup stops background work and closes connections.
func Bootstrap(cfg config.Config) (*App, func() error, error) {
	logger := log.New(os.Stdout, "", log.LstdFlags|log.LUTC)

	c, err := NewContainer(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	hubCtx, stopHub := context.WithCancel(context.Background())
	hub := ws.NewHub(logger)
	go hub.Run(hubCtx)

	jwtSvc := jwt.NewHMACService(cfg.JWT)
	validator := validate.New()
	guard := usecase.NewInFlightGuard(c.Redis, guardTTL, logger)
	events := usecase.Publishers{
		usecase.NewCacheInvalidator(c.Redis, logger),
		ws.NewNotifier(hub),
	}
	fetcher := blob.NewHTTPFetcher(fetchTimeout, int64(cfg.App.MaxUploadBytes), logger)

	userRepo := repository.NewPostgresUserRepository(c.DB)
	appRepo := repository.NewPostgresApplicationRepository(c.DB)
	resumeRepo := repository.NewPostgresResumeRepository(c.DB)

	applications := usecase.NewApplicationUsecase(appRepo, validator, c.Redis, events, guard, logger)
	resumes := usecase.NewResumeUsecase(resumeRepo, c.Blobs, validator, fetcher, c.Redis, events, guard, logger)

	reg := &routes.Registry{
		Health: handler.NewHealthHandler(map[string]handler.HealthCheck{
			"postgres": c.DB.Ping,
			"redis": func(ctx context.Context) error {
				if !c.Redis.Available() {
					return nil
				}
				return c.Redis.Ping(ctx)
			},
		}),
		Auth:         handler.NewAuthHandler(usecase.NewAuthUsecase(userRepo, jwtSvc)),
		Users:        handler.NewUserHandler(usecase.NewUserUsecase(userRepo)),
		Applications: handler.NewApplicationHandler(applications),
		Stats:        handler.NewStatsHandler(usecase.NewStatsUsecase(appRepo, c.Redis, logger)),
		Resumes:      handler.NewResumeHandler(resumes, int64(cfg.App.MaxUploadBytes)),
		WS:           ws.NewHandler(hub, jwtSvc, logger).HandleWS,
		AuthMW:       middleware.NewAuthMiddleware(jwtSvc),
		BlobDir:      c.LocalBlobDir,
	}

	f := New(cfg, logger)
	reg.Register(f)

	cleanup := func() error {
		stopHub()
		return c.Close()
	}
	return &App{Fiber: f}, cleanup, nil
}

// New builds the fiber app with the global middleware chain.
func New(cfg config.Config, logger *log.Logger) *fiber.App {
	f := fiber.New(fiber.Config{
		AppName:      cfg.App.AppName,
		BodyLimit:    cfg.App.MaxUploadBytes + 1<<20,
		ErrorHandler: middleware.ErrorHandler,
	})

	f.Use(middleware.NewAccessLogMiddleware(logger).Middleware())
	f.Use(middleware.NewErrorMiddleware(logger).Middleware())
	return f
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
