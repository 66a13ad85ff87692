package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/oak/sentiment-widget/internal/config"
	"github.com/oak/sentiment-widget/internal/dataflows"
	"github.com/oak/sentiment-widget/internal/logger"
	"github.com/oak/sentiment-widget/internal/web"
	"github.com/oak/sentiment-widget/internal/widget"
)

func main() {
	envPath := flag.String("env", "", "path to env file (default .env)")
	flag.Parse()

	// Load configuration
	// 加载配置
	cfg, err := config.LoadConfig(*envPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	// 初始化日志
	logger.Init(cfg.DebugMode)
	log := logger.Global

	log.Header("Market Sentiment Widget - Web", '=', 80)
	log.Info(fmt.Sprintf("Source: %s", cfg.SentimentAPIURL))
	log.Info(fmt.Sprintf("Default timeframe: %s", cfg.DefaultPeriod))
	log.Info(fmt.Sprintf("Web port: %d", cfg.WebPort))

	querier := dataflows.NewHTTPQuerier(cfg)
	fetcher := dataflows.NewFetcher(querier, log)
	store := widget.NewStore(cfg.DefaultPeriod, clockwork.NewRealClock())
	controller := widget.NewController(store, fetcher, log)

	// Initial fetch, like a widget mount
	// 初始加载
	ctx := context.Background()
	res := controller.Mount(ctx)
	if res.Outcome.IsLive() {
		log.Success(fmt.Sprintf("Live %s sentiment loaded", res.Outcome.Period))
	}

	webServer := web.NewServer(cfg, log, controller)
	go func() {
		if err := webServer.Start(); err != nil {
			log.Error(fmt.Sprintf("Web server failed: %v", err))
		}
	}()

	// Setup signal handling
	// 设置信号处理
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Warning("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := webServer.Stop(shutdownCtx); err != nil {
		log.Warning(fmt.Sprintf("Web server stop failed: %v", err))
	}
}
