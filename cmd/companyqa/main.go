package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/0xcro3dile/companyqa/internal/adapters/embedding"
	"github.com/0xcro3dile/companyqa/internal/adapters/extractor"
	"github.com/0xcro3dile/companyqa/internal/adapters/filewatcher"
	"github.com/0xcro3dile/companyqa/internal/adapters/passagedb"
	"github.com/0xcro3dile/companyqa/internal/adapters/records"
	"github.com/0xcro3dile/companyqa/internal/config"
	"github.com/0xcro3dile/companyqa/internal/domain/ports"
	"github.com/0xcro3dile/companyqa/internal/domain/usecases"
	httpserver "github.com/0xcro3dile/companyqa/internal/infrastructure/http"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	var reindex bool
	flag.StringVar(&cfgPath, "config", "config.yaml", "Path to YAML config file")
	flag.BoolVar(&reindex, "reindex", false, "Rebuild the passage store from the catalog file and exit")
	flag.Parse()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[ERROR] loading config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Capability singletons: constructed once, injected everywhere, shared
	// read-only across requests for the process lifetime.
	embedder, err := buildEmbedder(cfg)
	if err != nil {
		log.Fatalf("[ERROR] building embedder: %v", err)
	}

	qa := extractor.NewHFAdapter(cfg.Extractor.BaseURL, cfg.Extractor.Model)

	store, err := buildStore(ctx, cfg)
	if err != nil {
		log.Fatalf("[ERROR] building passage store: %v", err)
	}
	defer store.Close()

	source := records.NewCSVSource(cfg.Data.CSVPath)

	ingestUC := usecases.NewIngestUseCase(source, embedder, store)
	queryUC := usecases.NewQueryUseCase(embedder, store, qa)

	if reindex {
		summary, err := ingestUC.Run(ctx)
		if err != nil {
			log.Fatalf("[ERROR] reindex failed: %v", err)
		}
		fmt.Printf("loaded %d passages (%d skipped)\n", summary.Loaded, summary.Skipped)
		return
	}

	if cfg.Data.Watch {
		watcher, err := filewatcher.NewCSVWatcher(source.Path(), 0)
		if err != nil {
			log.Fatalf("[ERROR] creating watcher: %v", err)
		}
		defer watcher.Stop()

		signals, err := watcher.Watch(ctx)
		if err != nil {
			log.Fatalf("[ERROR] watching %s: %v", source.Path(), err)
		}
		go func() {
			for range signals {
				log.Printf("[INFO] %s changed, reindexing", source.Path())
				if _, err := ingestUC.Run(ctx); err != nil {
					log.Printf("[ERROR] reindex after change failed: %v", err)
				}
			}
		}()
	}

	server := httpserver.NewServer(queryUC, ingestUC, store, cfg.Server.Addr)
	if err := server.Start(ctx); err != nil {
		log.Fatalf("[ERROR] server: %v", err)
	}
}

func buildEmbedder(cfg *config.Config) (ports.Embedder, error) {
	switch cfg.Embedder.Type {
	case "openai":
		return embedding.NewOpenAIAdapter(embedding.OpenAIConfig{
			APIKeyEnv: cfg.Embedder.APIKeyEnv,
			BaseURL:   cfg.Embedder.BaseURL,
			Model:     cfg.Embedder.Model,
			Dimension: cfg.Embedder.Dimension,
		})
	default:
		return embedding.NewOllamaAdapter(cfg.Embedder.BaseURL, cfg.Embedder.Model, cfg.Embedder.Dimension), nil
	}
}

func buildStore(ctx context.Context, cfg *config.Config) (ports.PassageStore, error) {
	switch cfg.Store.Type {
	case "postgres":
		return passagedb.NewPostgresStore(ctx, cfg.Store.DSN, cfg.Embedder.Dimension)
	case "memory":
		return passagedb.NewMemoryStore(cfg.Embedder.Dimension), nil
	default:
		return passagedb.NewSQLiteStore(cfg.Store.Path, cfg.Embedder.Dimension)
	}
}
