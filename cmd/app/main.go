package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"

	"MarketBrief/internal/di"
	"MarketBrief/internal/handler/api"
	"MarketBrief/pkg/config"
	xhttp "MarketBrief/pkg/http"
)

func main() {
	// Parse flags
	configPath := flag.String("config", "config/config.yaml", "config file path")
	mode := flag.String("mode", "serve", "serve: HTTP trigger; once: generate one report and exit")
	date := flag.String("date", "", "report date (YYYY-MM-DD) for -mode=once, defaults to today UTC")
	flag.Parse()

	// Load config
	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	log.Printf("env=%s sink=%s mode=%s", cfg.Environment, cfg.Sink.Type, *mode)

	ctx := context.Background()

	// Wire DI: Initialize all dependencies
	app, err := di.InitializeApp(ctx, cfg)
	if err != nil {
		log.Fatalf("app initialization failed: %v", err)
	}

	switch *mode {
	case "once":
		res, err := app.RunOnce(ctx, *date)
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err != nil {
			_ = enc.Encode(xhttp.ErrorResponse{Error: err.Error()})
			os.Exit(1)
		}
		_ = enc.Encode(xhttp.ReportResponse{
			Success:  true,
			ReportID: res.ReportID,
			Message:  api.ReportCreatedMessage,
		})
	case "serve":
		// Run application (blocks until signal)
		if err := app.Serve(ctx); err != nil {
			log.Printf("app error: %v", err)
			os.Exit(1)
		}
	default:
		log.Fatalf("unknown mode %q", *mode)
	}
}
