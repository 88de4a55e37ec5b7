// Package agent runs the conversation engine: a per-turn state machine that
// sequences understanding, shipment search, carrier contact, response
// generation, and memory consolidation, checkpointing session state between
// turns.
package agent

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/wwexlabs/freightagent/internal/db"
	"github.com/wwexlabs/freightagent/internal/llm"
	"github.com/wwexlabs/freightagent/internal/mail"
	"github.com/wwexlabs/freightagent/internal/memory"
	"github.com/wwexlabs/freightagent/internal/metrics"
	"github.com/wwexlabs/freightagent/internal/models"
	"github.com/wwexlabs/freightagent/internal/nlu"
	"github.com/wwexlabs/freightagent/internal/tracking"
)

// Deps are the collaborators an Orchestrator needs. Completion, Metrics, and
// Logger may be nil; a nil Completion degrades response generation to the
// deterministic reply builder.
type Deps struct {
	Extractor   *nlu.Extractor
	Classifier  *nlu.Classifier
	Stores      *memory.Stores
	Tracker     tracking.Tracker
	Mailer      mail.Transport
	Directory   *mail.Directory
	Checkpoints CheckpointStore
	Completion  llm.Completion
	Metrics     *metrics.Collector
	Logger      *slog.Logger
}

// Orchestrator executes conversation turns.
type Orchestrator struct {
	extractor   *nlu.Extractor
	classifier  *nlu.Classifier
	stores      *memory.Stores
	tracker     tracking.Tracker
	mailer      mail.Transport
	directory   *mail.Directory
	checkpoints CheckpointStore
	completion  llm.Completion
	metrics     *metrics.Collector
	logger      *slog.Logger
	locks       *sessionLocks

	now func() time.Time
}

// New creates an orchestrator from its collaborators.
func New(deps Deps) *Orchestrator {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	directory := deps.Directory
	if directory == nil {
		directory = mail.DefaultDirectory()
	}
	return &Orchestrator{
		extractor:   deps.Extractor,
		classifier:  deps.Classifier,
		stores:      deps.Stores,
		tracker:     deps.Tracker,
		mailer:      deps.Mailer,
		directory:   directory,
		checkpoints: deps.Checkpoints,
		completion:  deps.Completion,
		metrics:     deps.Metrics,
		logger:      logger,
		locks:       newSessionLocks(),
		now:         time.Now,
	}
}

// searchStatus is the Search Coordinator's verdict for one turn.
type searchStatus int

const (
	searchNone searchStatus = iota
	searchFound
	searchMultipleFound
	searchNotFound
	searchNeedInfo
)

// turnState carries one turn's intermediate results through the state
// machine.
type turnState struct {
	utterance string

	classification *nlu.Classification
	classifyFailed bool
	clarification  string

	searchStatus searchStatus
	shipment     *models.Shipment
	candidates   []models.Shipment

	dispatch *models.DispatchRecord

	actions []models.Action
	reply   string
}

func (t *turnState) addAction(a models.Action) {
	for _, existing := range t.actions {
		if existing == a {
			return
		}
	}
	t.actions = append(t.actions, a)
}

// timeOp records one collaborator call against the metrics collector.
func (o *Orchestrator) timeOp(op string, start time.Time, err error) {
	if o.metrics == nil {
		return
	}
	if err != nil {
		o.metrics.RecordFailure(op, o.now().Sub(start))
	} else {
		o.metrics.RecordTiming(op, o.now().Sub(start))
	}
}

func (t *turnState) intent() models.Intent {
	if t.classification == nil {
		return models.IntentUnknown
	}
	return t.classification.Intent
}

// ProcessTurn runs the full state machine for one user message and returns
// the reply. The resulting checkpoint is persisted before returning. Turns
// for the same session are serialized.
func (o *Orchestrator) ProcessTurn(ctx context.Context, sessionID, userID, message string) (string, error) {
	lock := o.locks.get(sessionID)
	lock.Lock()
	defer lock.Unlock()

	start := o.now()

	cp := o.loadCheckpoint(ctx, sessionID, userID)
	turn := &turnState{utterance: message}

	// AnalyzeInput
	o.analyze(ctx, cp, turn)

	// Routing out of AnalyzeInput.
	switch o.route(cp, turn) {
	case stateSearch:
		o.search(ctx, cp, turn)
		if turn.searchStatus == searchNotFound {
			o.contact(ctx, cp, turn)
		}
	case stateContact:
		o.contact(ctx, cp, turn)
	}

	// GenerateResponse
	o.respond(ctx, cp, turn)

	// UpdateMemory
	o.consolidate(ctx, cp, turn)

	cp.Context.PreviousQueries = append(cp.Context.PreviousQueries, message)
	cp.Messages = append(cp.Messages,
		models.Message{Role: models.RoleUser, Content: message, Timestamp: start},
		models.Message{Role: models.RoleAssistant, Content: turn.reply, Timestamp: o.now()},
	)
	cp.UpdatedAt = o.now()

	if err := o.checkpoints.Save(ctx, sessionID, *cp); err != nil {
		o.logger.Error("save checkpoint failed", "session_id", sessionID, "error", err)
	}

	if o.metrics != nil {
		o.metrics.RecordTiming(metrics.OpTurn, time.Since(start))
	}
	o.logger.Info("processed turn",
		"session_id", sessionID,
		"intent", turn.intent(),
		"actions", turn.actions,
		"duration", time.Since(start))
	return turn.reply, nil
}

// History returns the persisted message history for a session. A session
// without a checkpoint has an empty history.
func (o *Orchestrator) History(ctx context.Context, sessionID string) ([]models.Message, error) {
	cp, err := o.checkpoints.Load(ctx, sessionID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return cp.Messages, nil
}

func (o *Orchestrator) loadCheckpoint(ctx context.Context, sessionID, userID string) *models.Checkpoint {
	cp, err := o.checkpoints.Load(ctx, sessionID)
	if err == nil {
		return cp
	}
	if !errors.Is(err, db.ErrNotFound) {
		// A broken checkpoint store degrades to a fresh conversation.
		o.logger.Warn("load checkpoint failed, starting new conversation",
			"session_id", sessionID, "error", err)
	}
	return &models.Checkpoint{
		Context: models.SessionContext{
			SessionID: sessionID,
			UserID:    userID,
			Intent:    models.IntentUnknown,
			StartedAt: o.now(),
		},
	}
}

// nextState is where the machine goes after AnalyzeInput.
type nextState int

const (
	stateRespond nextState = iota
	stateSearch
	stateContact
)

func (o *Orchestrator) route(cp *models.Checkpoint, turn *turnState) nextState {
	if turn.clarification != "" || turn.classifyFailed {
		return stateRespond
	}

	entities := cp.Context.Entities
	switch turn.intent() {
	case models.IntentTrackShipment, models.IntentShipmentDelay:
		if entities.HasIdentifier() || len(entities.Locations) > 0 {
			return stateSearch
		}
		return stateRespond
	case models.IntentMissingShipment:
		if entities.HasIdentifier() || (len(entities.Locations) >= 2 && len(entities.Carriers) > 0) {
			return stateSearch
		}
		return stateContact
	default:
		return stateRespond
	}
}
