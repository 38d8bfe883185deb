package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/mirzoevumar0530-lab/EatHalalUSA/core/catalog"
	coreconfig "github.com/mirzoevumar0530-lab/EatHalalUSA/core/config"
	"github.com/mirzoevumar0530-lab/EatHalalUSA/core/database"
	"github.com/mirzoevumar0530-lab/EatHalalUSA/core/flow"
	"github.com/mirzoevumar0530-lab/EatHalalUSA/core/logger"
	"github.com/mirzoevumar0530-lab/EatHalalUSA/core/store"
	"github.com/mirzoevumar0530-lab/EatHalalUSA/core/telegram"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("bot: %v", err)
	}
}

func run() error {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	cfg, err := coreconfig.Load(cfgPath)
	if err != nil {
		return err
	}

	if err := logger.Init(cfg); err != nil {
		return err
	}
	defer func() {
		if err := logger.Shutdown(); err != nil {
			log.Printf("logger shutdown error: %v", err)
		}
	}()

	st, err := buildStore(cfg)
	if err != nil {
		return err
	}

	agg := catalog.NewAggregator(st, catalog.Strategy(cfg.Storage.RatingStrategy))
	handlers := flow.New(st, agg)
	sender := telegram.NewSender(telegram.SenderOptions{})
	bridge := telegram.NewBridge(handlers, sender)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return telegram.Run(ctx, telegram.RunOptions{
		Config: cfg,
		Routes: bridge.Routes(),
		Sender: sender,
	})
}

func buildStore(cfg *coreconfig.Config) (store.Store, error) {
	switch cfg.Storage.Backend {
	case coreconfig.BackendFile:
		return store.NewFile(cfg.Storage.Path), nil

	case coreconfig.BackendPostgres:
		db, err := database.Connect(cfg.Database)
		if err != nil {
			return nil, err
		}
		if err := database.RunMigrations(cfg.Database); err != nil {
			return nil, err
		}
		pg := store.NewPostgres(db)
		if err := seedIfEmpty(pg); err != nil {
			return nil, err
		}
		return pg, nil

	default:
		seed := catalog.Seed()
		if cfg.Storage.Path != "" {
			snap, err := store.ReadSnapshotFile(cfg.Storage.Path)
			if err != nil {
				logger.Store.Warn("seed file unreadable, using built-in catalog",
					slog.String("event", "seed"),
					slog.String("path", cfg.Storage.Path),
					slog.String("err", err.Error()),
				)
			} else {
				seed = snap
			}
		}
		return store.NewMemory(seed), nil
	}
}

// seedIfEmpty loads the built-in catalog into a fresh postgres store so the
// bot has something to serve on first start.
func seedIfEmpty(st store.Store) error {
	ctx := context.Background()
	snap, err := st.Load(ctx)
	if err != nil && !errors.Is(err, store.ErrUnavailable) {
		return err
	}
	if len(snap.Regions) > 0 {
		return nil
	}
	logger.Store.Info("seeding empty catalog",
		slog.String("event", "seed"),
	)
	return st.Save(ctx, catalog.Seed())
}
