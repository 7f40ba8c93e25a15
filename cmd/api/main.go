package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/storekit/inventory-api/app/api"
	"github.com/storekit/inventory-api/app/auth"
	"github.com/storekit/inventory-api/app/categories"
	"github.com/storekit/inventory-api/app/products"
	"github.com/storekit/inventory-api/config"
	"github.com/storekit/inventory-api/models"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := newLogger(cfg.LogLevel)
	defer log.Sync()

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := db.AutoMigrate(&models.Category{}, &models.Product{}); err != nil {
		log.Fatal("failed to migrate schema", zap.Error(err))
	}
	log.Info("database ready")

	creds, err := auth.NewStaticCredentials(cfg.AdminUsername, cfg.AdminPassword)
	if err != nil {
		log.Fatal("failed to build credential store", zap.Error(err))
	}
	tokens := auth.NewTokenProvider(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL)

	router := api.NewRouter(api.Handlers{
		Auth:       auth.NewAuthHandler(creds, tokens, log),
		Products:   products.NewProductsHandler(models.NewProductsRepository(db), log),
		Categories: categories.NewCategoryHandler(models.NewCategoriesRepository(db), log),
	}, tokens, log)

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("starting server", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown incomplete", zap.Error(err))
	}
	log.Info("server stopped")
}

func newLogger(level string) *zap.Logger {
	cfg := zap.NewProductionConfig()
	if lvl, err := zap.ParseAtomicLevel(level); err == nil {
		cfg.Level = lvl
	}
	log, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return log
}
