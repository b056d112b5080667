package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"pressroom/internal/adapter"
	"pressroom/internal/config"
	"pressroom/internal/db"
	"pressroom/internal/decisionlog"
	"pressroom/internal/dispatch"
	"pressroom/internal/embedding"
	"pressroom/internal/match"
	"pressroom/internal/profile"
	"pressroom/internal/registry"
)

// App wires the registry, matcher, dispatcher and adapter from config.
// Commands share this bootstrap instead of assembling the stack themselves.
type App struct {
	Config     *config.Config
	DB         *db.DB
	Store      *registry.Store
	Source     profile.Source
	Dispatcher *dispatch.Dispatcher
	Log        *decisionlog.Store
	Executor   adapter.Executor
}

func Build(ctx context.Context, cfg *config.Config) (*App, error) {
	database, err := db.Open(cfg.DB.Path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := database.Migrate(); err != nil {
		database.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}

	source := profile.NewDirSource(cfg.Profiles.Dir)
	store := registry.NewStore()
	if err := store.Reload(ctx, source); err != nil {
		database.Close()
		return nil, fmt.Errorf("loading profiles: %w", err)
	}
	slog.Info("profiles loaded", "dir", cfg.Profiles.Dir, "count", store.Snapshot().Len())

	scorer, err := buildScorer(cfg, database)
	if err != nil {
		database.Close()
		return nil, err
	}

	matcher := match.NewMatcher(scorer,
		match.WithTimeout(time.Duration(cfg.Matcher.TimeoutSeconds*float64(time.Second))),
		match.WithMentionBoost(cfg.Matcher.MentionBoost),
	)

	dispatcher := dispatch.New(store, matcher, dispatch.Config{
		Threshold: cfg.Dispatch.Threshold,
		Epsilon:   cfg.Dispatch.Epsilon,
	})

	llmCfg, ok := cfg.LLMs[cfg.DefaultLLM]
	if !ok {
		database.Close()
		return nil, fmt.Errorf("default LLM %q not found in config", cfg.DefaultLLM)
	}
	executor := adapter.NewOpenAI(llmCfg.BaseURL, llmCfg.APIKey, llmCfg.Model)

	return &App{
		Config:     cfg,
		DB:         database,
		Store:      store,
		Source:     source,
		Dispatcher: dispatcher,
		Log:        decisionlog.NewStore(database),
		Executor:   executor,
	}, nil
}

func buildScorer(cfg *config.Config, database *db.DB) (match.Scorer, error) {
	keyword := match.NewKeywordScorer()

	switch cfg.Matcher.Mode {
	case "", "keyword":
		return keyword, nil
	case "embedding":
		provider, err := embeddingProvider(cfg, database)
		if err != nil {
			return nil, err
		}
		return match.NewEmbeddingScorer(provider), nil
	case "hybrid":
		provider, err := embeddingProvider(cfg, database)
		if err != nil {
			return nil, err
		}
		return match.NewHybridScorer(
			keyword,
			match.NewEmbeddingScorer(provider),
			cfg.Matcher.KeywordWeight,
			cfg.Matcher.VectorWeight,
		), nil
	default:
		return nil, fmt.Errorf("unknown matcher mode %q", cfg.Matcher.Mode)
	}
}

func embeddingProvider(cfg *config.Config, database *db.DB) (embedding.Provider, error) {
	emb := cfg.Matcher.Embedding
	llmCfg, ok := cfg.LLMs[emb.LLM]
	if !ok {
		return nil, fmt.Errorf("embedding LLM %q not found in config", emb.LLM)
	}
	raw := embedding.NewOpenAI(llmCfg.BaseURL, llmCfg.APIKey, emb.Model, emb.Dimensions)
	return embedding.NewCachedProvider(raw, database, emb.CacheSize), nil
}

func (a *App) Close() {
	if a.DB != nil {
		a.DB.Close()
	}
}
