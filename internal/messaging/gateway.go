package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"packsmith/internal/config"
)

const userAgent = "Packsmith/0.1.0"

// Delivery carries one asset payload to a volunteer, tagged with the
// correlation token the volunteer must echo back on submission.
type Delivery struct {
	Filename string
	Token    string
	Data     []byte
}

// Gateway defines the outbound messaging surface exposed to workflow
// components.
type Gateway interface {
	DeliverAsset(ctx context.Context, userID string, delivery Delivery) error
	PackReady(ctx context.Context, packID string) error
	PackCompleted(ctx context.Context, packID string, archive []byte) error
}

// NewGateway builds a gateway backed by the configured webhook endpoint.
// When no webhook URL is configured, a noop implementation is returned.
func NewGateway(cfg *config.Config) Gateway {
	endpoint := strings.TrimSpace(cfg.Gateway.WebhookURL)
	if endpoint == "" {
		return noopGateway{}
	}

	timeout := time.Duration(cfg.Gateway.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &webhookGateway{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

type event struct {
	ID       string `json:"id"`
	Kind     string `json:"kind"`
	PackID   string `json:"pack_id,omitempty"`
	UserID   string `json:"user_id,omitempty"`
	Token    string `json:"token,omitempty"`
	Filename string `json:"filename,omitempty"`
	Data     []byte `json:"data,omitempty"`
}

type webhookGateway struct {
	endpoint string
	client   *http.Client
}

func (g *webhookGateway) DeliverAsset(ctx context.Context, userID string, delivery Delivery) error {
	return g.send(ctx, event{
		ID:       uuid.NewString(),
		Kind:     "asset.delivered",
		UserID:   strings.TrimSpace(userID),
		Token:    delivery.Token,
		Filename: delivery.Filename,
		Data:     delivery.Data,
	})
}

func (g *webhookGateway) PackReady(ctx context.Context, packID string) error {
	return g.send(ctx, event{
		ID:     uuid.NewString(),
		Kind:   "pack.ready",
		PackID: strings.TrimSpace(packID),
	})
}

func (g *webhookGateway) PackCompleted(ctx context.Context, packID string, archive []byte) error {
	return g.send(ctx, event{
		ID:       uuid.NewString(),
		Kind:     "pack.completed",
		PackID:   strings.TrimSpace(packID),
		Filename: strings.TrimSpace(packID) + ".zip",
		Data:     archive,
	})
}

func (g *webhookGateway) send(ctx context.Context, evt event) error {
	if g == nil || g.client == nil {
		return nil
	}

	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("encode gateway event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build gateway request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("send gateway event: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("gateway returned %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopGateway struct{}

func (noopGateway) DeliverAsset(context.Context, string, Delivery) error { return nil }
func (noopGateway) PackReady(context.Context, string) error              { return nil }
func (noopGateway) PackCompleted(context.Context, string, []byte) error  { return nil }
