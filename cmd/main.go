package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"

	"sentgen/internal/config"
	"sentgen/internal/controller"
	"sentgen/internal/handler"
	"sentgen/internal/service"
	"sentgen/internal/service/tokenizer"
	"sentgen/pkg/mcp"

	"github.com/rs/cors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	var sourceConfigPath = flag.String("source", "source.yaml", "Path to source configuration file")
	var appConfigPath = flag.String("app", "app.yaml", "Path to app configuration file")
	var workDir = flag.String("workdir", "", "Working directory to store corpus snapshots")
	var override = flag.Bool("override", false, "Re-tag every corpus even when a snapshot exists")
	var chat = flag.String("chat", "", "Start an interactive chat with the named corpus instead of the server")
	flag.Parse()

	cfg, err := config.LoadConfig(*appConfigPath, *sourceConfigPath)
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}

	// Override workdir from command line if provided
	if *workDir != "" {
		cfg.App.WorkDir = *workDir
	}
	if *override {
		cfg.App.Override = true
	}

	logger, err := newLogger(cfg.App, *chat != "")
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	logger.Info("Configuration loaded successfully", zap.Any("config", cfg))

	registry, err := tokenizer.NewDefaultRegistry()
	if err != nil {
		logger.Fatal("Failed to initialize tokenizers", zap.Error(err))
	}
	englishPipeline, err := registry.GetPipeline("english")
	if err != nil {
		logger.Fatal("English pipeline missing", zap.Error(err))
	}

	persistence, err := service.NewCorpusPersistence(cfg.App.WorkDir, logger)
	if err != nil {
		logger.Fatal("Failed to initialize corpus persistence", zap.Error(err))
	}

	smoother, err := service.NewSmoother(cfg.Generator.Smoothing, cfg.Generator.SmoothingK)
	if err != nil {
		logger.Fatal("Invalid smoothing configuration", zap.Error(err))
	}

	corpusManager := service.NewCorpusManager(service.NewCorpusLoader(registry, logger), persistence, smoother, logger)
	loadCorpora(context.Background(), cfg, corpusManager, logger)

	reflector := service.NewReflectionService(englishPipeline, logger)
	sentenceService := service.NewSentenceService(corpusManager, reflector, cfg.Generator, logger)

	if *chat != "" {
		if err := RunChat(sentenceService, *chat); err != nil {
			logger.Fatal("Chat failed", zap.Error(err))
		}
		return
	}

	sentenceController := controller.NewSentenceController(sentenceService, logger)
	corpusController := controller.NewCorpusController(corpusManager, cfg, logger)
	mcpServer := mcp.NewSentenceServer(sentenceService, cfg, logger)

	router := handler.SetupRouter(sentenceController, corpusController, mcpServer, logger)
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.Cors.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type", handler.RequestIDHeader},
	}).Handler(router)

	logger.Info("Starting server", zap.Int("port", cfg.App.Port))
	if err := http.ListenAndServe(fmt.Sprintf(":%d", cfg.App.Port), corsHandler); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}

// newLogger builds the production logger. The interactive chat owns the terminal, so
// stdout is dropped from the outputs in that mode.
func newLogger(app config.AppConfig, quiet bool) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(app.LogLevel)
	if err != nil {
		return nil, err
	}

	cfgZap := zap.NewProductionConfig()
	cfgZap.Level.SetLevel(level)
	cfgZap.OutputPaths = app.LogPaths
	if quiet {
		paths := make([]string, 0, len(app.LogPaths))
		for _, p := range app.LogPaths {
			if p != "stdout" && p != "stderr" {
				paths = append(paths, p)
			}
		}
		cfgZap.OutputPaths = paths
	}
	return cfgZap.Build()
}

// loadCorpora loads every configured corpus. A corpus that fails is logged and skipped.
func loadCorpora(ctx context.Context, cfg *config.Config, manager *service.CorpusManager, logger *zap.Logger) {
	for i := range cfg.Source.Corpora {
		corpus := &cfg.Source.Corpora[i]
		if _, err := manager.LoadCorpus(ctx, corpus, cfg.App.Override); err != nil {
			logger.Error("Failed to load corpus",
				zap.String("corpus", corpus.Name),
				zap.String("path", corpus.Path),
				zap.Error(err))
		}
	}
	logger.Info("Corpora ready", zap.Strings("corpora", manager.List()))
}
