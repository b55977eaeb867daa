package main

import (
	"fmt"
	"log"

	"github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"

	"github.com/NouhaAwachri/Zenfit-Trainer-App/internal/config"
	"github.com/NouhaAwachri/Zenfit-Trainer-App/internal/stubserver"
	"github.com/NouhaAwachri/Zenfit-Trainer-App/utilities"
)

func main() {
	printStartUpBanner()

	_ = godotenv.Load()

	// Load XML configuration from file.
	cfg, err := config.LoadConfig("config.xml")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := utilities.SetupLogging(cfg.Logging.Dir, cfg.Logging.MaxSizeMB, cfg.Logging.MaxBackups, cfg.Logging.MaxAgeDays, cfg.Logging.Debug); err != nil {
		log.Printf("file logging disabled: %v", err)
	}

	store, err := stubserver.NewStore(cfg.Stub.SeedUserEmail, cfg.Stub.SeedUserPass, cfg.Stub.SeedDisplayName)
	if err != nil {
		log.Fatalf("failed to seed store: %v", err)
	}

	opts := []stubserver.Option{stubserver.WithRateLimit(cfg.Stub.RatePerSecond)}
	if cfg.Stub.RequestDump {
		opts = append(opts, stubserver.WithRequestDump())
	}
	srv := stubserver.NewServer(store, cfg.Stub.TokenSecret, opts...)

	addr := fmt.Sprintf("%s:%d", cfg.Stub.Host, cfg.Stub.Port)
	utilities.Info("Coach stub listening on %s", addr)
	if err := srv.Router().Run(addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func printStartUpBanner() {
	myFigure := figure.NewFigure("ZENFIT STUB", "", true)
	myFigure.Print()

	fmt.Println("======================================================")
	fmt.Printf("ZENFIT coach stub (v%s)\n\n", "1.0.0")
}
