package main

import (
	"log"

	"github.com/joho/godotenv"

	corecmd "github.com/tonkolab/astrobot/core/cmd"
	"github.com/tonkolab/astrobot/internal/app"
	"github.com/tonkolab/astrobot/internal/config"
)

func main() {
	// Missing .env is fine; real deployments inject env directly.
	_ = godotenv.Load()

	err := corecmd.Run(corecmd.Options{
		ConfigEnvVar:      "CONFIG_PATH",
		DefaultConfigPath: "config.yaml",
		LoadConfig: func(path string) (corecmd.ConfigCarrier, error) {
			return config.Load(path)
		},
		Bootstrap: func(cfg corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
			return app.New(cfg.(*config.Config))
		},
	})
	if err != nil {
		log.Fatalf("astrobot: %v", err)
	}
}
