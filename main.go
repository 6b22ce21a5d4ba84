package main

import (
	_ "embed"
	"fmt"
	"log"
	"time"

	"letter-analyzer-api/analyzer"
	"letter-analyzer-api/config"
	"letter-analyzer-api/handlers"
	"letter-analyzer-api/utils"
	"letter-analyzer-api/webui"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

//go:embed web/index.html
var indexHTML string

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger, err := buildLogger(cfg)
	if err != nil {
		log.Fatalf("cannot initialize logger: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	// Initialize optional history storage
	if cfg.HistoryEnabled {
		if err := utils.InitDB(logger); err != nil {
			sugar.Fatalw("failed to init database",
				"error", err)
		}
		defer utils.CloseDB(logger)

		if err := utils.CreateSchema(logger); err != nil {
			sugar.Fatalw("failed to create database schema",
				"error", err)
		}
	} else {
		sugar.Info("History storage disabled (POSTGRES_HOST not set)")
	}

	// Initialize optional letter archival
	if cfg.ArchiveEnabled {
		if err := utils.InitS3(logger); err != nil {
			sugar.Fatalw("failed to init s3",
				"error", err)
		}
	} else {
		sugar.Info("Letter archival disabled (LETTER_BUCKET or S3 credentials not set)")
	}

	client := analyzer.NewOpenRouterClient(cfg.OpenRouterAPIKey, cfg.Model, cfg.SiteURL, cfg.SiteName)

	// Setup HTTP server
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	sugar.Info("Creating router")

	r.Use(ginzap.Ginzap(logger, time.RFC3339, true))
	r.Use(ginzap.RecoveryWithZap(logger, true))
	r.Use(cors.New(corsConfig(cfg)))

	// Routes
	r.GET("/", handlers.HandleRoot())
	r.GET("/healthcheck", handlers.HandleHealthcheck())
	r.GET("/metrics", handlers.HandleMetrics())
	r.POST("/analyze-letter", handlers.HandleAnalyzeLetter(logger, cfg, client))

	if cfg.HistoryEnabled {
		r.GET("/analyses", handlers.HandleListAnalyses(logger))
		r.GET("/analyses/:id", handlers.HandleGetAnalysis(logger))
		r.GET("/db-status", handlers.HandleDBStatus())
	}

	webui.RegisterRoutes(r, "/ui", indexHTML)

	sugar.Infow("Running on port",
		"port", cfg.Port)
	r.Run(fmt.Sprintf(":%s", cfg.Port))
}

func buildLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsDevelopment() {
		return zap.NewDevelopment()
	}
	zcfg := zap.NewProductionConfig()
	zcfg.EncoderConfig.TimeKey = ""
	zcfg.EncoderConfig.EncodeDuration = zapcore.MillisDurationEncoder
	return zcfg.Build()
}

func corsConfig(cfg *config.Config) cors.Config {
	c := cors.DefaultConfig()
	c.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	c.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	if cfg.IsDevelopment() {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = cfg.CORSOrigins
	}
	return c
}
