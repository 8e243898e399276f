package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/policyqa/internal/agent"
	"github.com/sells-group/policyqa/internal/corpus"
	"github.com/sells-group/policyqa/internal/store"
)

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "policyqa.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// initAgent loads the document corpus and topic registry from config.
func initAgent() (*agent.Agent, error) {
	c, err := corpus.Load(cfg.Agent.DocsDir)
	if err != nil {
		return nil, eris.Wrap(err, "load corpus")
	}

	var topics *agent.Registry
	if cfg.Agent.TopicsFile != "" {
		topics, err = agent.LoadRegistry(cfg.Agent.TopicsFile)
		if err != nil {
			return nil, eris.Wrap(err, "load topics")
		}
		zap.L().Info("loaded topic registry", zap.String("file", cfg.Agent.TopicsFile))
	}

	return agent.New(c, topics), nil
}
