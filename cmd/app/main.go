package main

import (
	"flag"
	"log"
	"os"

	"ConfidenceMeter/internal/di"
	"ConfidenceMeter/pkg/config"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	flag.Parse()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	log.Printf("env=%s cache=%s assets=%d markets=%d",
		cfg.Environment, cfg.Cache.Backend, len(cfg.Assets), len(cfg.Markets))

	app, err := di.InitializeApp(cfg)
	if err != nil {
		log.Fatalf("app initialization failed: %v", err)
	}

	// Run application (blocks until signal)
	if err := app.Run(); err != nil {
		log.Printf("app error: %v", err)
		os.Exit(1)
	}
}
