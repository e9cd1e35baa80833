package main

import (
	"context"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/valyala/fasthttp"

	"loginsight/internal/analytics"
	"loginsight/internal/config"
	"loginsight/internal/dataset"
	"loginsight/internal/db"
	"loginsight/internal/http/handlers"
	"loginsight/internal/logging"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sqlDB, err := db.Connect(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to connect database")
	}

	var recorder dataset.RunRecorder = dataset.NopRecorder{}
	if sqlDB != nil {
		db.StartRetentionWorker(ctx, sqlDB)
		db.StartAggregationWorker(ctx, sqlDB)
		recorder = db.NewRecorder(sqlDB, cfg.RetentionDays)
		logging.Info().Msg("ingestion history enabled")
	}

	rng := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), uint64(os.Getpid())))
	normalizer := analytics.NewNormalizer(rng)
	normalizer.BackfillDays = cfg.BackfillDays
	generator := analytics.NewGenerator(rng)
	generator.Size = cfg.FallbackRecords
	generator.Days = cfg.BackfillDays

	store := dataset.New(dataset.Options{
		Normalizer:     normalizer,
		Generator:      generator,
		Recorder:       recorder,
		Logger:         logging.With().Str("component", "dataset").Logger(),
		MaxUploadBytes: cfg.MaxUploadBytes,
	})
	store.LoadFile(ctx, cfg.DataPath)

	server := &fasthttp.Server{
		Handler:            handlers.NewHandler(handlers.Deps{Store: store, DB: sqlDB}),
		Name:               "loginsight",
		MaxRequestBodySize: int(cfg.MaxUploadBytes) + 1<<20,
		ReadTimeout:        time.Minute,
		WriteTimeout:       time.Minute,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.ShutdownWithContext(shutdownCtx); err != nil {
			logging.Error().Err(err).Msg("shutdown")
		}
	}()

	logging.Info().Str("addr", cfg.ListenAddr).Msg("loginsight listening")
	if err := server.ListenAndServe(cfg.ListenAddr); err != nil {
		logging.Fatal().Err(err).Msg("server error")
	}
}
