package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/wwexlabs/freightagent/internal/agent"
	"github.com/wwexlabs/freightagent/internal/mail"
	"github.com/wwexlabs/freightagent/internal/memory"
	"github.com/wwexlabs/freightagent/internal/nlu"
	"github.com/wwexlabs/freightagent/internal/tracking"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run a scripted conversation against built-in fixtures",
	Long: `Demo runs a short scripted conversation entirely offline: in-memory
stores, fixture shipments, a recording mail transport, and a keyword
classifier instead of an LLM. Useful for a first look at the engine
without a database or model server.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDemo(cmd.Context())
	},
}

// demoCompletion classifies by keyword so the demo needs no model server.
type demoCompletion struct{}

func (demoCompletion) GenerateWithSystem(_ context.Context, _, user string) (string, error) {
	text := strings.ToLower(user)
	verdict := func(intent string, confidence float64) (string, error) {
		return fmt.Sprintf(`{"intent": %q, "confidence": %g, "reasoning": "keyword match"}`, intent, confidence), nil
	}
	switch {
	case strings.Contains(text, "missing") || strings.Contains(text, "lost"):
		return verdict("missing_shipment", 0.9)
	case strings.Contains(text, "delay") || strings.Contains(text, "late"):
		return verdict("shipment_delay", 0.85)
	case strings.Contains(text, "track") || strings.Contains(text, "where") || strings.Contains(text, "pro"):
		return verdict("track_shipment", 0.92)
	case strings.Contains(text, "thank") || strings.Contains(text, "great") || strings.Contains(text, "feedback"):
		return verdict("provide_feedback", 0.8)
	default:
		return verdict("general_inquiry", 0.75)
	}
}

// demoScript is the conversation the demo plays through.
var demoScript = []struct {
	session string
	message string
}{
	{"demo-track", "Hi, can you track PRO WE123456789 for me?"},
	{"demo-delay", "My shipment from Dallas, TX is running late"},
	{"demo-delay", "It was going to Houston, TX with YRC Freight"},
	{"demo-missing", "My shipment is missing and nobody can tell me anything!"},
}

func runDemo(ctx context.Context) error {
	stores := memory.NewInMemoryStores()
	if err := stores.Seed(ctx); err != nil {
		return fmt.Errorf("seed strategies: %w", err)
	}

	classifier := demoCompletion{}
	mailer := mail.NewRecorder()
	orchestrator := agent.New(agent.Deps{
		Extractor:   nlu.NewExtractor(nil, stores, logger),
		Classifier:  nlu.NewClassifier(classifier, stores, logger),
		Stores:      stores,
		Tracker:     tracking.NewMock(),
		Mailer:      mailer,
		Checkpoints: agent.NewInMemoryCheckpoints(),
		Metrics:     collector,
		Logger:      logger,
	})

	theme := defaultTheme
	fmt.Println(theme.hintStyle().Render("freightagent demo — fixture shipments, no database, no LLM"))
	fmt.Println()

	for _, turn := range demoScript {
		fmt.Println(theme.userStyle().Render("You: ") + turn.message)
		reply, err := orchestrator.ProcessTurn(ctx, turn.session, "demo-user", turn.message)
		if err != nil {
			return fmt.Errorf("process turn: %w", err)
		}
		fmt.Println(theme.assistantStyle().Render("Agent: ") + reply)
		fmt.Println()
	}

	if sent := mailer.Sent(); len(sent) > 0 {
		fmt.Println(theme.hintStyle().Render("Carrier messages dispatched:"))
		for _, msg := range sent {
			fmt.Printf("  %s  to=%s  template=%s  ref=%s\n", msg.Priority, msg.To, msg.Template, msg.ReferenceID)
		}
		fmt.Println()
	}

	strategies, err := stores.Strategies.ListStrategies(ctx)
	if err != nil {
		return fmt.Errorf("list strategies: %w", err)
	}
	fmt.Println(theme.hintStyle().Render("Strategy success rates after the demo:"))
	for _, s := range strategies {
		fmt.Printf("  %-28s v%d  %.2f\n", s.Name, s.Version, s.SuccessRate)
	}

	return nil
}
