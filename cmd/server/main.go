package main

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/l23212212/Sistema-Expedientes-Clinicos/internal/auth"
	"github.com/l23212212/Sistema-Expedientes-Clinicos/internal/cache"
	"github.com/l23212212/Sistema-Expedientes-Clinicos/internal/config"
	"github.com/l23212212/Sistema-Expedientes-Clinicos/internal/db"
	"github.com/l23212212/Sistema-Expedientes-Clinicos/internal/handler"
	"github.com/l23212212/Sistema-Expedientes-Clinicos/internal/logger"
	"github.com/l23212212/Sistema-Expedientes-Clinicos/internal/model"
	"github.com/l23212212/Sistema-Expedientes-Clinicos/internal/repository"
	"github.com/l23212212/Sistema-Expedientes-Clinicos/internal/router"
	"github.com/l23212212/Sistema-Expedientes-Clinicos/internal/service"
	"github.com/l23212212/Sistema-Expedientes-Clinicos/internal/view"
)

func main() {
	cfg := config.Load()

	zlog, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer zlog.Sync()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		zlog.Fatal("database init", zap.Error(err))
	}

	if err := gormDB.AutoMigrate(
		&model.AccessCode{},
		&model.User{},
		&model.Patient{},
	); err != nil {
		zlog.Fatal("auto-migrate", zap.Error(err))
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	sessions := auth.NewRedisSessionStore(cacheClient, cfg.SessionTTL)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	codeRepo := repository.NewAccessCodeRepository(gormDB)
	patientRepo := repository.NewPatientRepository(gormDB)

	// Initialize services
	authService := service.NewAuthService(userRepo, codeRepo, sessions)
	userService := service.NewUserService(userRepo, codeRepo)
	patientService := service.NewPatientService(patientRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, cfg.SessionTTL, zlog)
	userHandler := handler.NewUserHandler(userService, zlog)
	patientHandler := handler.NewPatientHandler(patientService, zlog)

	e := echo.New()
	e.HideBanner = true

	renderer, err := view.NewRenderer()
	if err != nil {
		zlog.Fatal("view init", zap.Error(err))
	}
	e.Renderer = renderer

	router.Register(e, sessions, zlog, authHandler, userHandler, patientHandler)

	addr := ":" + cfg.ServerPort
	zlog.Info("server starting", zap.String("addr", addr))
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		zlog.Fatal("server start", zap.Error(err))
	}
}
