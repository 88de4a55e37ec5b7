package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/wwexlabs/freightagent/internal/metrics"
)

// HTTPTransport sends rendered email through a mail relay API.
//
// Expected endpoint: POST {base}/v1/messages with a JSON body, replying
// {"message_id": "..."}.
type HTTPTransport struct {
	baseURL    string
	apiKey     string
	from       string
	httpClient *http.Client
	metrics    *metrics.Collector
	logger     *slog.Logger
}

var _ Transport = (*HTTPTransport)(nil)

// NewHTTPTransport creates a mail relay transport. collector and logger may
// be nil.
func NewHTTPTransport(baseURL, apiKey, from string, collector *metrics.Collector, logger *slog.Logger) *HTTPTransport {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPTransport{
		baseURL: baseURL,
		apiKey:  apiKey,
		from:    from,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		metrics: collector,
		logger:  logger,
	}
}

// relayRequest is the mail relay API payload.
type relayRequest struct {
	From        string   `json:"from"`
	To          string   `json:"to"`
	Subject     string   `json:"subject"`
	Body        string   `json:"body"`
	Priority    Priority `json:"priority"`
	ReferenceID string   `json:"reference_id,omitempty"`
}

// Send renders the message template and posts it to the relay.
func (t *HTTPTransport) Send(ctx context.Context, msg Message) (Result, error) {
	start := time.Now()
	result, err := t.send(ctx, msg)
	if t.metrics != nil {
		if err != nil {
			t.metrics.RecordFailure(metrics.OpMailDispatch, time.Since(start))
		} else {
			t.metrics.RecordTiming(metrics.OpMailDispatch, time.Since(start))
		}
	}
	return result, err
}

func (t *HTTPTransport) send(ctx context.Context, msg Message) (Result, error) {
	rendered, err := Render(msg.Template, msg.Vars)
	if err != nil {
		return Result{}, err
	}

	reqBody, err := json.Marshal(relayRequest{
		From:        t.from,
		To:          msg.To,
		Subject:     rendered.Subject,
		Body:        rendered.Body,
		Priority:    msg.Priority,
		ReferenceID: msg.ReferenceID,
	})
	if err != nil {
		return Result{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", t.baseURL+"/v1/messages", bytes.NewReader(reqBody))
	if err != nil {
		return Result{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if t.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+t.apiKey)
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		body, _ := io.ReadAll(resp.Body)
		return Result{}, fmt.Errorf("mail relay error (status %d): %s", resp.StatusCode, string(body))
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Result{}, fmt.Errorf("decode response: %w", err)
	}

	t.logger.Info("dispatched mail",
		"to", msg.To,
		"template", msg.Template,
		"priority", msg.Priority,
		"message_id", result.MessageID)
	return result, nil
}
