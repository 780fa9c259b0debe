package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/product-matcher/app/bootstrap"
	"github.com/product-matcher/app/config"
	"github.com/product-matcher/app/controllers"
	"github.com/product-matcher/helpers/logger"
	"github.com/product-matcher/routes"
	"go.uber.org/zap"
)

func main() {
	configFile := flag.String("config", "", "path to the config file (default: config/app.yaml)")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Server.Environment, cfg.Log.Level)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	log.Info("Starting Product Matcher API...", zap.String("environment", cfg.Server.Environment))

	startCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	app, err := bootstrap.New(startCtx, cfg, log)
	cancel()
	if err != nil {
		log.Fatal("Failed to initialize services", zap.Error(err))
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Error("Failed to close backends", zap.Error(err))
		}
	}()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	routes.SetupAllRoutes(router, routes.Controllers{
		Title:   controllers.NewTitleController(app.Engine),
		Match:   controllers.NewMatchController(app.MatchService, log),
		Keyword: controllers.NewKeywordController(app.KeywordService, log),
		Admin:   controllers.NewAdminController(app.AdminService, app.MatchService, log),
	}, routes.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		RatePerSecond:  cfg.RateLimit.PerIP,
		RateBurst:      cfg.RateLimit.Burst,
		Logger:         log,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      http.TimeoutHandler(router, cfg.Server.RequestTimeout, `{"error":"TIMEOUT","message":"request timed out"}`),
		ReadTimeout:  cfg.Server.RequestTimeout,
		WriteTimeout: cfg.Server.RequestTimeout + 5*time.Second,
	}

	go func() {
		log.Info("Starting HTTP server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}
