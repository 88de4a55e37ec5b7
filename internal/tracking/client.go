package tracking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/wwexlabs/freightagent/internal/metrics"
	"github.com/wwexlabs/freightagent/internal/models"
)

// Client is an HTTP client for a carrier tracking aggregation API.
//
// Expected endpoints:
//
//	GET /v1/shipments/{pro}?carrier=...   -> shipment JSON, 404 when unknown
//	GET /v1/shipments?origin=&destination=&carrier=  -> {"shipments": [...]}
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	metrics    *metrics.Collector
	logger     *slog.Logger
}

// Compile-time check that Client implements Tracker.
var _ Tracker = (*Client)(nil)

// NewClient creates a tracking API client. collector and logger may be nil.
func NewClient(baseURL, apiKey string, collector *metrics.Collector, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		metrics: collector,
		logger:  logger,
	}
}

// Track looks up a shipment by PRO number.
func (c *Client) Track(ctx context.Context, pro, carrierHint string) (*models.Shipment, error) {
	endpoint := fmt.Sprintf("%s/v1/shipments/%s", c.baseURL, url.PathEscape(pro))
	if carrierHint != "" {
		endpoint += "?carrier=" + url.QueryEscape(carrierHint)
	}

	var shipment models.Shipment
	if err := c.get(ctx, endpoint, &shipment); err != nil {
		return nil, err
	}
	return &shipment, nil
}

// SearchByDetails finds shipments matching origin, destination, and carrier.
func (c *Client) SearchByDetails(ctx context.Context, origin, destination, carrier string) ([]models.Shipment, error) {
	query := url.Values{}
	if origin != "" {
		query.Set("origin", origin)
	}
	if destination != "" {
		query.Set("destination", destination)
	}
	if carrier != "" {
		query.Set("carrier", carrier)
	}
	endpoint := c.baseURL + "/v1/shipments"
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var result struct {
		Shipments []models.Shipment `json:"shipments"`
	}
	if err := c.get(ctx, endpoint, &result); err != nil {
		return nil, err
	}
	if len(result.Shipments) == 0 {
		return nil, ErrNotFound
	}
	return result.Shipments, nil
}

func (c *Client) get(ctx context.Context, endpoint string, result any) error {
	start := time.Now()
	err := c.doGet(ctx, endpoint, result)
	if c.metrics != nil {
		if err != nil && !errors.Is(err, ErrNotFound) {
			c.metrics.RecordFailure(metrics.OpTrackingLookup, time.Since(start))
		} else {
			c.metrics.RecordTiming(metrics.OpTrackingLookup, time.Since(start))
		}
	}
	return err
}

func (c *Client) doGet(ctx context.Context, endpoint string, result any) error {
	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("tracking API error (status %d): %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
