package cli

import (
	"context"
	"fmt"

	"github.com/wwexlabs/freightagent/internal/agent"
	"github.com/wwexlabs/freightagent/internal/llm"
	"github.com/wwexlabs/freightagent/internal/mail"
	"github.com/wwexlabs/freightagent/internal/memory"
	"github.com/wwexlabs/freightagent/internal/nlu"
	"github.com/wwexlabs/freightagent/internal/tracking"
)

// buildOrchestrator wires the full conversation engine from the global
// config and database client: LLM, embeddings, SurrealDB-backed memory,
// tracking, mail dispatch, and session checkpoints.
func buildOrchestrator(ctx context.Context) (*agent.Orchestrator, error) {
	model, err := llm.NewModel(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create LLM model: %w", err)
	}

	embedder, err := llm.NewEmbedder(cfg)
	if err != nil {
		return nil, fmt.Errorf("create embedder: %w", err)
	}

	stores := memory.NewSurrealStores(dbClient, embedder, collector, logger)
	if err := stores.Seed(ctx); err != nil {
		return nil, fmt.Errorf("seed strategies: %w", err)
	}

	var tracker tracking.Tracker
	if cfg.TrackingBaseURL != "" {
		tracker = tracking.NewClient(cfg.TrackingBaseURL, cfg.TrackingAPIKey, collector, logger)
	} else {
		logger.Warn("no tracking provider configured, using built-in fixtures")
		tracker = tracking.NewMock()
	}

	var mailer mail.Transport
	if cfg.MailBaseURL != "" {
		mailer = mail.NewHTTPTransport(cfg.MailBaseURL, cfg.MailAPIKey, cfg.MailFrom, collector, logger)
	} else {
		logger.Warn("no mail relay configured, recording messages in memory")
		mailer = mail.NewRecorder()
	}

	directory := mail.DefaultDirectory()
	if cfg.CarrierFile != "" {
		directory, err = mail.LoadDirectory(cfg.CarrierFile)
		if err != nil {
			return nil, fmt.Errorf("load carrier directory: %w", err)
		}
	}

	return agent.New(agent.Deps{
		Extractor:   nlu.NewExtractor(model, stores, logger),
		Classifier:  nlu.NewClassifier(model, stores, logger),
		Stores:      stores,
		Tracker:     tracker,
		Mailer:      mailer,
		Directory:   directory,
		Checkpoints: agent.NewSurrealCheckpoints(dbClient),
		Completion:  model,
		Metrics:     collector,
		Logger:      logger,
	}), nil
}
