// Command seed loads starter content into the scoreboard database and can
// create an admin account.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	"github.com/louisbranch/gameshow/internal/platform/config"
	"github.com/louisbranch/gameshow/internal/scoreboard/storage/sqlite"
	"github.com/louisbranch/gameshow/internal/seed"
)

type envConfig struct {
	DBPath string `env:"GAMESHOW_DB_PATH" envDefault:"gameshow.db"`
}

func main() {
	_ = godotenv.Load()

	logger := slog.New(tint.NewHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	adminUser := flag.String("admin-user", "", "admin username to create")
	adminKey := flag.String("admin-key", "", "admin key to hash and store")
	flag.Parse()

	var cfg envConfig
	if err := config.ParseEnv(&cfg); err != nil {
		config.Exitf("load config: %v", err)
	}

	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		config.Exitf("open store: %v", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("close store", "error", err)
		}
	}()

	ctx := context.Background()
	if err := seed.Load(ctx, store); err != nil {
		config.Exitf("seed fixtures: %v", err)
	}
	logger.Info("fixtures loaded", "db", cfg.DBPath)

	if *adminUser != "" {
		if err := seed.CreateAdmin(ctx, store, *adminUser, *adminKey, time.Now()); err != nil {
			config.Exitf("create admin: %v", err)
		}
		logger.Info("admin ready", "username", *adminUser)
	}
}
