// Package server boots the application: configuration, connections, wiring,
// and the HTTP listener with graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"chungtay/app/controllers"
	"chungtay/app/repositories"
	"chungtay/app/routes"
	"chungtay/app/services"
	"chungtay/config"
	"chungtay/pkg/cache"
	"chungtay/pkg/database"
	"chungtay/pkg/logger"
	"chungtay/pkg/middleware"
	"chungtay/pkg/realtime"
	"chungtay/pkg/storage"
)

const shutdownTimeout = 15 * time.Second

// Start boots everything and blocks until SIGINT/SIGTERM.
func Start() error {
	if err := config.Load(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := database.Connect(ctx); err != nil {
		return fmt.Errorf("mongo: %w", err)
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := database.Disconnect(disconnectCtx); err != nil {
			logger.Warn("mongo disconnect", "error", err)
		}
	}()

	cache.Connect()
	storage.Connect()

	hub := realtime.NewHub()
	go hub.Run()
	defer hub.Stop()

	handler := buildHandler(hub)

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", srv.Addr, "env", config.AppEnv())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
	}
	return nil
}

// buildHandler wires repositories, services, and controllers into the router.
func buildHandler(hub *realtime.Hub) http.Handler {
	userRepo := repositories.NewUserRepository()
	caseRepo := repositories.NewCaseRepository()
	supportRepo := repositories.NewSupportRepository()
	messageRepo := repositories.NewMessageRepository()

	authSvc := services.NewAuthService(userRepo)
	userSvc := services.NewUserService(userRepo)
	supportSvc := services.NewSupportService(caseRepo, supportRepo, userRepo, hub)
	caseSvc := services.NewCaseService(caseRepo, supportSvc)
	statsSvc := services.NewStatsService(supportRepo, caseRepo, userRepo)
	messageSvc := services.NewMessageService(messageRepo, caseRepo)

	resolve := func(ctx context.Context, userID string) (middleware.Identity, error) {
		id, err := primitive.ObjectIDFromHex(userID)
		if err != nil {
			return middleware.Identity{}, err
		}
		user, err := userRepo.FindByID(ctx, id)
		if err != nil {
			return middleware.Identity{}, err
		}
		return middleware.Identity{UserID: user.ID.Hex(), Role: user.Role}, nil
	}

	return routes.New(routes.Controllers{
		Auth:    controllers.NewAuthController(authSvc),
		User:    controllers.NewUserController(userSvc),
		Case:    controllers.NewCaseController(caseSvc),
		Support: controllers.NewSupportController(supportSvc),
		Message: controllers.NewMessageController(messageSvc),
		Stats:   controllers.NewStatsController(statsSvc),
		Upload:  controllers.NewUploadController(),
	}, resolve, hub)
}
