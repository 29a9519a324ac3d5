package cmd

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/tutorly/internal/exercise"
	"github.com/abhisek/tutorly/internal/freshness"
	"github.com/abhisek/tutorly/internal/llm"
	"github.com/abhisek/tutorly/internal/metrics"
	"github.com/abhisek/tutorly/internal/orchestrator"
	"github.com/abhisek/tutorly/internal/store"
	"github.com/abhisek/tutorly/internal/tutor"
	"github.com/abhisek/tutorly/internal/video"
)

// engine is the wired tutoring core for one command invocation.
type engine struct {
	store    *store.Store
	events   store.EventRepo
	videos   *video.Recommender
	registry *prometheus.Registry
	orch     *orchestrator.Orchestrator
}

// openEngine opens the store, builds the provider and wires the
// orchestrator. Without a configured provider every generation call fails
// and the fallback tiers answer.
func openEngine(cmd *cobra.Command) (*engine, error) {
	e := &engine{events: store.NopEventRepo{}}

	if !cfg.Store.Disabled {
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return nil, fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		e.store, e.events = st, st.EventRepo()
	}

	videos, err := loadVideos()
	if err != nil {
		e.Close()
		return nil, err
	}
	e.videos = videos

	var provider llm.Provider = llm.Disabled{}
	llmCfg := cfg.LLM
	if llm.Discover(&llmCfg) {
		provider, err = llm.NewProvider(cmd.Context(), llmCfg, e.events, logger.Named("llm"))
		if err != nil {
			e.Close()
			return nil, err
		}
	} else {
		logger.Warn("LLM provider not configured, generated content will use canned fallbacks",
			zap.String("provider", llmCfg.Provider))
	}

	e.registry = prometheus.NewRegistry()
	e.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	fc := freshness.DefaultConfig()
	fc.Concurrency = cfg.Generation.FreshnessConcurrency
	e.orch = orchestrator.New(provider, orchestrator.Options{
		Videos:    videos,
		Events:    e.events,
		Metrics:   metrics.New(e.registry),
		Log:       logger.Named("orchestrator"),
		Tutor:     tutor.DefaultConfig(),
		Exercise:  exercise.DefaultConfig(),
		Freshness: fc,
	})
	return e, nil
}

func (e *engine) Close() {
	if e.store != nil {
		e.store.Close()
	}
}

// loadVideos builds the recommender from the configured catalog file, or
// the embedded one.
func loadVideos() (*video.Recommender, error) {
	cat := video.DefaultCatalog()
	if cfg.Video.Catalog != "" {
		f, err := os.Open(cfg.Video.Catalog)
		if err != nil {
			return nil, fmt.Errorf("open video catalog: %w", err)
		}
		defer f.Close()
		if cat, err = video.LoadCatalog(f); err != nil {
			return nil, err
		}
	}
	var trusted []string
	if len(cfg.Video.TrustedChannels) > 0 {
		trusted = cfg.Video.TrustedChannels
	}
	return video.NewRecommender(cat, trusted), nil
}

// openStore opens the audit database for the read-only inspection commands.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}
