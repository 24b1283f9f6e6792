package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"stockwatch/internal/config"
	"stockwatch/internal/logger"
	"stockwatch/internal/monitor"
	"stockwatch/internal/notify"
	"stockwatch/internal/pricefeed"
	"stockwatch/internal/storage"
	"stockwatch/internal/tickers"
	"stockwatch/internal/tracker"
	"stockwatch/internal/watch"
)

var (
	configPath   = flag.String("config", "configs/config.yaml", "Path to configuration file")
	reportDays   = flag.Int("report-days", 0, "Print a performance report over the trailing N days and exit")
	outliersOnly = flag.Bool("outliers", false, "Limit the report to tickers beyond the alert thresholds")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	logger.Info("Configuration loaded from %s", *configPath)

	store, err := storage.New(cfg.Tickers.CachePath)
	if err != nil {
		logger.Fatal("Failed to initialize ticker cache: %v", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("Failed to close ticker cache: %v", err)
		}
	}()

	feed := pricefeed.NewClient(cfg.Feed.BaseURL, cfg.Feed.Timeout)
	provider := tickers.NewCachedProvider(
		tickers.NewProvider(cfg.Feed.Timeout),
		store,
		cfg.Tickers.CacheTTL,
	)

	if *reportDays > 0 {
		if err := runReport(cfg, feed, provider, *reportDays, *outliersOnly); err != nil {
			logger.Fatal("Report failed: %v", err)
		}
		return
	}

	var notifier notify.Notifier
	if cfg.Telegram.Enabled {
		notifier, err = notify.NewTelegram(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Monitor.NotifyTimeout)
		if err != nil {
			logger.Fatal("Failed to initialize Telegram notifier: %v", err)
		}
		logger.Info("Telegram notifier initialized")
	} else {
		notifier = notify.NewConsole()
		logger.Info("Telegram disabled, alerts go to the log")
	}

	state := watch.NewState(cfg.Monitor.Thresholds(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// A list failure leaves the watch-list empty: the scheduler then has
	// nothing to iterate, which is fine.
	market := cfg.DefaultMarket
	if list, err := provider.List(ctx, cfg.Source(market)); err != nil {
		logger.Warn("Ticker list for %s unavailable, starting with an empty watch-list: %v", market, err)
	} else {
		logger.Info("Watching %d tickers for %s", len(list), market)
		state.SetTickers(list)
	}

	supervisor := monitor.NewSupervisor(func(name string) (monitor.Runner, error) {
		hours, err := cfg.Markets[name].Hours()
		if err != nil {
			return nil, err
		}
		return monitor.New(monitor.Config{
			Market:        name,
			Hours:         hours,
			PollInterval:  cfg.Monitor.PollInterval,
			NotifyTimeout: cfg.Monitor.NotifyTimeout,
		}, feed, notifier, state), nil
	})

	if err := supervisor.Switch(ctx, market); err != nil {
		logger.Fatal("Failed to start monitoring: %v", err)
	}

	logger.Info("Monitoring %s every %v (drop ≤ %.2f%%, gain ≥ %.2f%%)",
		market, cfg.Monitor.PollInterval, cfg.Monitor.DropPct, cfg.Monitor.GainPct)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutdown signal received, cleaning up...")
	supervisor.Stop()
	logger.Info("Service stopped")
}

// runReport prints a one-shot performance table for the default market
// instead of starting the monitor loop.
func runReport(cfg *config.Config, feed *pricefeed.Client, provider *tickers.CachedProvider, days int, outliersOnly bool) error {
	ctx := context.Background()
	market := cfg.DefaultMarket
	list, err := provider.List(ctx, cfg.Source(market))
	if err != nil {
		return err
	}

	// Range end is exclusive upstream, so pad one day past today.
	now := time.Now()
	start := now.AddDate(0, 0, -days)
	end := now.AddDate(0, 0, 1)
	report, err := tracker.New(feed).Build(ctx, list, start, end)
	if err != nil {
		return err
	}

	rows := report.Rows
	if outliersOnly {
		rows = tracker.FilterOutliers(rows, cfg.Monitor.Thresholds())
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TICKER\tSTART\tEND\tCHANGE")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%+.2f%%\n", r.Ticker, r.StartPrice, r.EndPrice, r.PctChange)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("Mean change across %d tickers over %d days: %+.2f%%\n", len(report.Rows), days, report.MeanPct)
	return nil
}
