package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"alfredoptarigan/career-guide/internal/config"
	"alfredoptarigan/career-guide/internal/handlers"
	"alfredoptarigan/career-guide/internal/logger"
	"alfredoptarigan/career-guide/internal/repositories"
	"alfredoptarigan/career-guide/internal/services"
)

func main() {
	cfg := config.Load()

	zl, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		log.Fatalf("❌ Failed to initialize logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()
	zl.Info("✅ Config loaded successfully", zap.String("env", cfg.Server.Env))

	db, err := config.InitDatabase(cfg, zl)
	if err != nil {
		zl.Fatal("❌ Failed to initialize database", zap.Error(err))
	}

	docRepo := repositories.NewDocumentRepository(db)
	analysisRepo := repositories.NewAnalysisRepository(db)
	roleRepo := repositories.NewJobRoleRepository(db)

	if seeded, err := roleRepo.EnsureDefaultRoles(); err != nil {
		zl.Fatal("❌ Failed to seed job roles", zap.Error(err))
	} else if seeded > 0 {
		zl.Info("✅ Seeded default job roles", zap.Int("count", seeded))
	}

	storageService := services.NewStorageService(cfg.Storage.UploadPath, cfg.Storage.MaxFileSize)
	if err := storageService.EnsureUploadDir(); err != nil {
		zl.Fatal("❌ Failed to create upload directory", zap.Error(err))
	}

	inference, err := services.NewGeminiService(cfg.Gemini, zl)
	switch {
	case errors.Is(err, services.ErrInferenceUnavailable):
		zl.Warn("⚠️ GEMINI_API_KEY not set, running local analysis only and job matching is disabled")
	case err != nil:
		zl.Fatal("❌ Failed to initialize Gemini AI", zap.Error(err))
	default:
		zl.Info("✅ Gemini AI initialized successfully", zap.String("model", cfg.Gemini.Model))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	embeddingStore, closeStore, err := services.OpenEmbeddingStore(ctx, cfg, zl)
	if err != nil {
		zl.Fatal("❌ Failed to open embedding cache", zap.Error(err))
	}
	defer func() { _ = closeStore() }()
	zl.Info("✅ Embedding cache ready", zap.String("backend", cfg.Matching.EmbeddingCache))

	skillMatcher := services.NewSkillMatcher()
	scoringCfg := services.DefaultScoringConfig()
	scoringCfg.ContentBaseline = cfg.Analysis.ContentBaseline

	pipeline := services.NewResumeAnalysisPipeline(services.PipelineComponents{
		Skills:       skillMatcher,
		Achievements: services.NewAchievementAnalyzer(inference, zl),
		Scoring:      services.NewScoringEngine(scoringCfg),
		Vocabulary:   services.CatalogVocabulary(cfg.Analysis.SkillVocabulary, roleRepo.List),
	}, zl)

	var embedder services.EmbeddingProvider
	if inference != nil {
		embedder = inference
	}
	matcher := services.NewJobMatcher(embedder, embeddingStore, skillMatcher, services.MatcherConfig{
		Threshold:    cfg.Matching.Threshold,
		DefaultLimit: cfg.Matching.DefaultLimit,
		Concurrency:  cfg.Matching.Concurrency,
	}, zl)

	analysisService := services.NewAnalysisService(analysisRepo, docRepo, storageService, pipeline, zl)

	worker := services.NewWorker(analysisRepo, analysisService, cfg.Worker.Concurrency, cfg.Worker.PollInterval, zl)
	worker.Start(ctx)

	validate := validator.New()
	resumeHandler := handlers.NewResumeHandler(docRepo, analysisRepo, storageService, worker, zl)
	analysisHandler := handlers.NewAnalysisHandler(analysisRepo)
	matchHandler := handlers.NewMatchHandler(analysisRepo, roleRepo, matcher, validate, zl)
	roleEmbeddings := services.NewRoleEmbeddingCache(embeddingStore, embedder, zl)
	roleHandler := handlers.NewRoleHandler(roleRepo, roleEmbeddings, validate, zl)
	zl.Info("✅ Handlers initialized")

	app := fiber.New(fiber.Config{
		AppName:      "Career Guide API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize) + 1<<20,
		ErrorHandler: customErrorHandler,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	api := app.Group("/api/v1")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "healthy",
			"inference": inference != nil,
			"time":      time.Now(),
		})
	})

	api.Post("/resumes", resumeHandler.HandleUpload)
	api.Post("/resumes/:id/reanalyze", resumeHandler.HandleReanalyze)
	api.Get("/analyses/:id", analysisHandler.HandleGetAnalysis)
	api.Post("/analyses/:id/matches", matchHandler.HandleMatch)
	api.Get("/roles", roleHandler.HandleList)
	api.Post("/roles", roleHandler.HandleCreate)
	api.Put("/roles/:id", roleHandler.HandleUpdate)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Career Guide API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/resumes",
				"POST /api/v1/resumes/:id/reanalyze",
				"GET /api/v1/analyses/:id",
				"POST /api/v1/analyses/:id/matches",
				"GET /api/v1/roles",
				"POST /api/v1/roles",
				"PUT /api/v1/roles/:id",
			},
		})
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		zl.Info("🛑 Shutting down server...")
		worker.Stop()
		cancel()
		if err := app.Shutdown(); err != nil {
			zl.Error("❌ Server forced to shutdown", zap.Error(err))
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	zl.Info("🚀 Server starting", zap.String("addr", addr))

	if err := app.Listen(addr); err != nil {
		zl.Fatal("❌ Failed to start server", zap.Error(err))
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
