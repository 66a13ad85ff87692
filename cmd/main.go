package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jonboulle/clockwork"
	"github.com/oak/sentiment-widget/internal/agents"
	"github.com/oak/sentiment-widget/internal/config"
	"github.com/oak/sentiment-widget/internal/dataflows"
	"github.com/oak/sentiment-widget/internal/logger"
	"github.com/oak/sentiment-widget/internal/scheduler"
	"github.com/oak/sentiment-widget/internal/sentiment"
	"github.com/oak/sentiment-widget/internal/widget"
)

func main() {
	envPath := flag.String("env", "", "path to env file (default .env)")
	periodFlag := flag.String("period", "", "timeframe to fetch: 24h, 7d or 30d (default SENTIMENT_DEFAULT_PERIOD)")
	watch := flag.Bool("watch", false, "keep refreshing the timeframe until interrupted")
	report := flag.Bool("report", false, "run the agent sentiment tool over every timeframe and print each report")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig(*envPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}

	period := cfg.DefaultPeriod
	if *periodFlag != "" {
		period, err = sentiment.ParsePeriod(*periodFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid -period: %v\n", err)
			os.Exit(1)
		}
	}

	// Initialize logger
	logger.Init(cfg.DebugMode)
	log := logger.Global

	log.Header("Market Sentiment", '=', 80)
	log.Info(fmt.Sprintf("Source: %s", cfg.SentimentAPIURL))
	log.Info(fmt.Sprintf("Timeframe: %s", period))

	fetcher := dataflows.NewFetcher(dataflows.NewHTTPQuerier(cfg), log)
	store := widget.NewStore(period, clockwork.NewRealClock())
	controller := widget.NewController(store, fetcher, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *report {
		if err := printAgentReports(ctx, log, fetcher, period); err != nil {
			log.Error(fmt.Sprintf("Agent report failed: %v", err))
			os.Exit(1)
		}
		return
	}

	if !*watch {
		printResult(log, controller, controller.Mount(ctx))
		return
	}

	log.Info(fmt.Sprintf("Watching every %s (up to %s while simulated), Ctrl+C to stop",
		cfg.WatchInterval, cfg.WatchMaxInterval))

	poller := scheduler.NewPoller(controller, cfg.WatchInterval, cfg.WatchMaxInterval, clockwork.NewRealClock())
	err = poller.Run(ctx, func(res widget.FetchResult) {
		printResult(log, controller, res)
	})
	if err != nil && ctx.Err() == nil {
		log.Error(fmt.Sprintf("Watch stopped: %v", err))
		os.Exit(1)
	}
	log.Warning("Stopped")
}

func printResult(log *logger.ColorLogger, controller *widget.Controller, res widget.FetchResult) {
	if !res.Applied {
		log.Debug("Superseded response dropped")
		return
	}

	log.Report(fmt.Sprintf("%s sentiment", res.Outcome.Period), dataflows.FormatSentimentReport(res.Outcome), 0)

	view := controller.View()
	for _, p := range view.Series {
		log.Info(fmt.Sprintf("%-4s %3d %s", p.Label, p.Score, bar(p.Score)))
	}
	if view.Error != "" {
		log.Warning(fmt.Sprintf("Last error: %s", view.Error))
	}
}

// printAgentReports drives the sentiment tool through its eino graph, the same
// path an agent takes, and prints one section per timeframe
func printAgentReports(ctx context.Context, log *logger.ColorLogger, fetcher widget.Fetcher, period sentiment.Period) error {
	runnable, err := agents.BuildSentimentGraph(ctx, agents.NewSentimentTool(fetcher, period))
	if err != nil {
		return err
	}

	reports, err := runnable.Invoke(ctx, sentiment.Periods)
	if err != nil {
		return err
	}

	for _, p := range sentiment.Periods {
		log.Subheader(p.Label(), '-', 80)
		fmt.Println(strings.TrimSpace(reports[p]))
	}
	return nil
}

func bar(score int) string {
	return strings.Repeat("█", score/5)
}
