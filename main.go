package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"sjsage522/seafoodcrawler/config"
	"sjsage522/seafoodcrawler/helpers"
	"sjsage522/seafoodcrawler/internal/crawler"
	"sjsage522/seafoodcrawler/internal/market"
	"sjsage522/seafoodcrawler/logger"
	"sjsage522/seafoodcrawler/services/exporter"
	"sjsage522/seafoodcrawler/services/publisher"
	"sjsage522/seafoodcrawler/services/worker"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	cfg := config.LoadConfig()

	start := flag.String("start", cfg.StartDate, "first day to crawl (YYYY-MM-DD)")
	end := flag.String("end", cfg.EndDate, "end of the range (YYYY-MM-DD)")
	markets := flag.String("markets", "", "comma separated market codes to crawl (default: all)")
	flag.Parse()

	cfg.StartDate = *start
	cfg.EndDate = *end

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	startDate, endDate, _ := cfg.DateRange()
	if startDate.After(endDate) {
		log.Warn().
			Str("start", cfg.StartDate).
			Str("end", cfg.EndDate).
			Msg("Start date is after end date, no days will be crawled")
	}

	registry, err := selectMarkets(*markets)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid market selection")
	}

	log.Info().
		Str("environment", cfg.Environment).
		Str("start", cfg.StartDate).
		Str("end", cfg.EndDate).
		Int("markets", registry.Len()).
		Msg("Starting application")

	// Set up context with cancellation on signal
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	services, err := initializeServices(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize services")
	}
	defer services.Cleanup()

	c := crawler.NewEfishCrawler(crawler.CrawlerConfig{
		URL:         cfg.EfishURL,
		MaxAttempts: cfg.MaxAttempts,
		Timeout:     cfg.HTTPTimeout,
		Registry:    registry,
	})

	w := worker.NewWorker(
		ctx,
		c,
		exporter.NewFileExporters(cfg.OutputDir, cfg.OutputBaseName),
		services.Publisher,
		helpers.NewLogger(cfg.ErrorLogFile),
	)

	report, err := w.Run(startDate, endDate)
	if err != nil {
		log.Error().Err(err).Msg("Run failed")
		services.Cleanup()
		os.Exit(1)
	}

	if len(report.Failures) > 0 {
		log.Warn().
			Int("failures", len(report.Failures)).
			Str("error_log", cfg.ErrorLogFile).
			Msg("Some market/day pairs contributed no records")
	}

	for _, path := range report.Artifacts {
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		fmt.Println(abs)
	}
}

// Services holds all the initialized services
type Services struct {
	Publisher publisher.Publisher
}

// Cleanup cleans up all services
func (s *Services) Cleanup() {
	if s.Publisher != nil {
		s.Publisher.Close()
		s.Publisher = nil
	}
}

// initializeServices initializes the optional stream publisher
func initializeServices(ctx context.Context, cfg *config.Config) (*Services, error) {
	services := &Services{}

	if !cfg.RedisPublish {
		return services, nil
	}

	redisPublisher := publisher.NewRedisPublisher(
		ctx,
		cfg.RedisAddr,
		cfg.RedisDB,
		cfg.RedisStream,
		cfg.RedisStreamCount,
		cfg.RedisStreamMaxLength,
	)
	if err := redisPublisher.Ping(); err != nil {
		redisPublisher.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	services.Publisher = redisPublisher

	logger.Info("Connected to Redis at %s (DB: %d, Stream: %s)",
		cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream)

	return services, nil
}

// selectMarkets restricts the default registry to a comma separated list of codes
func selectMarkets(list string) (*market.Registry, error) {
	if strings.TrimSpace(list) == "" {
		return market.Default, nil
	}

	var codes []string
	for _, code := range strings.Split(list, ",") {
		if code = strings.TrimSpace(code); code != "" {
			codes = append(codes, code)
		}
	}
	return market.Default.Subset(codes)
}
