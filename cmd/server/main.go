package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"messagely/internal/api"
	"messagely/internal/app/service"
	"messagely/internal/common/security"
	"messagely/internal/domain/repository"
	"messagely/internal/logger"
	"messagely/internal/platform/config"
	"messagely/internal/platform/database"
)

func main() {
	cfg := config.Load()
	log := logger.New(slog.LevelInfo)

	tokens := security.NewTokenService(cfg.JWTKey, cfg.JWTExp)

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal("database setup failed", "error", err.Error())
	}
	defer db.Close()
	log.Info("database connected", "host", cfg.DBHost, "name", cfg.DBName)

	userRepo := repository.NewPgUserRepository(db)
	messageRepo := repository.NewPgMessageRepository(db)

	authService := service.NewAuthService(userRepo, tokens, cfg.BcryptCost, log)
	userService := service.NewUserService(userRepo, messageRepo)
	messageService := service.NewMessageService(messageRepo, userRepo)

	router := api.NewRouter(tokens, authService, userService, messageService)

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Info("server starting", "port", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server stopped unexpectedly", "error", err.Error())
		}
	}()

	<-stop

	log.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal("server shutdown failed", "error", err.Error())
	}
	log.Info("server stopped gracefully")
}
