package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/SambhavSurthi/StockInsight/internal/align"
	"github.com/SambhavSurthi/StockInsight/internal/config"
	"github.com/SambhavSurthi/StockInsight/internal/model"
	"github.com/SambhavSurthi/StockInsight/internal/prefs"
	"github.com/SambhavSurthi/StockInsight/internal/prices"

	"github.com/robfig/cron/v3"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	var (
		cfgPath   = flag.String("config", "configs/config.yaml", "config file path")
		days      = flag.Int("days", 15, "price history window in days")
		direction = flag.String("direction", "", "date order: newest-first or oldest-first (persisted)")
		watch     = flag.Bool("watch", false, "keep running and refresh on the configured schedule")
	)
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}

	userPrefs, err := prefs.Load(cfg.Client.PrefsFile)
	if err != nil {
		log.Fatalf("[FATAL] load preferences: %v", err)
	}
	if *direction != "" {
		userPrefs.Direction = model.Direction(*direction)
		if err := prefs.Save(cfg.Client.PrefsFile, userPrefs); err != nil {
			log.Fatalf("[FATAL] save preferences: %v", err)
		}
	}

	email := os.Getenv("INSIGHT_EMAIL")
	password := os.Getenv("INSIGHT_PASSWORD")
	if email == "" || password == "" {
		log.Fatal("[FATAL] INSIGHT_EMAIL and INSIGHT_PASSWORD must be set")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("[INFO] shutdown signal received, stopping...")
		cancel()
	}()

	api := newAPIClient(cfg.Client.APIBaseURL)
	if err := api.login(ctx, email, password); err != nil {
		log.Fatalf("[FATAL] login: %v", err)
	}

	cache := prices.NewCache(prices.DefaultTTL)
	sweeper, err := cache.StartSweeper(cfg.Client.SweepCron)
	if err != nil {
		log.Fatalf("[FATAL] start cache sweeper: %v", err)
	}
	defer sweeper.Stop()

	client := prices.NewClient(cfg.Client.APIBaseURL, api.token, cache)

	if err := refresh(ctx, api, client, *days, userPrefs.Direction); err != nil {
		log.Fatalf("[FATAL] %v", err)
	}
	if !*watch {
		return
	}

	// Watch mode: re-render on the configured cron schedule. Cache hits
	// keep refreshes cheap inside the TTL.
	cr := cron.New()
	if _, err := cr.AddFunc(cfg.Client.RefreshCron, func() {
		if err := refresh(ctx, api, client, *days, userPrefs.Direction); err != nil {
			log.Printf("[ERROR] refresh: %v", err)
		}
	}); err != nil {
		log.Fatalf("[FATAL] register refresh schedule: %v", err)
	}
	cr.Start()
	defer cr.Stop()
	log.Printf("[INFO] watching; refresh schedule %s", cfg.Client.RefreshCron)

	<-ctx.Done()
}

// refresh pulls the company lists, runs the sequential batch fetch, and
// prints the aligned comparison table.
func refresh(ctx context.Context, api *apiClient, client *prices.Client, days int, dir model.Direction) error {
	companies, err := api.companies(ctx)
	if err != nil {
		return fmt.Errorf("list companies: %w", err)
	}
	if len(companies) == 0 {
		log.Println("[WARN] no companies in portfolio or future analysis")
		return nil
	}

	results, err := client.FetchAll(ctx, companies, days, func(current, total int, name string, ok bool) {
		status := "ok"
		if !ok {
			status = "no data"
		}
		log.Printf("[INFO] %d/%d %s: %s", current, total, name, status)
	})
	if err != nil {
		return fmt.Errorf("fetch prices: %w", err)
	}

	rows := align.Rows(companies, results, dir)
	fmt.Print(renderTable(companies, rows, dir))
	return nil
}
