package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/vytor/flashpulse/internal/errors"
	"github.com/vytor/flashpulse/internal/logger"
	"github.com/vytor/flashpulse/internal/models"
)

// Client talks to the /api/decks endpoints of a FlashPulse server.
type Client struct {
	httpClient *http.Client
	endpoint   string
	log        *logger.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates a client for the server at baseURL. Trailing slashes are
// ignored and /api/decks is appended.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		endpoint:   Endpoint(baseURL),
		log:        logger.Default().WithPrefix("apiclient"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the deck collection URL for baseURL.
func Endpoint(baseURL string) string {
	return strings.TrimRight(baseURL, "/") + "/api/decks"
}

// ListDecks fetches the full collection. A response that is not a JSON
// array yields an empty collection.
func (c *Client) ListDecks(ctx context.Context) ([]models.Deck, error) {
	var raw json.RawMessage
	if err := c.do(ctx, "load decks", http.MethodGet, c.endpoint, nil, &raw); err != nil {
		return nil, err
	}

	var decks []models.Deck
	if err := json.Unmarshal(raw, &decks); err != nil || decks == nil {
		c.log.Warn("deck list response is not an array, using empty collection")
		return []models.Deck{}, nil
	}
	return decks, nil
}

// ReplaceDecks overwrites the server collection with decks.
func (c *Client) ReplaceDecks(ctx context.Context, decks []models.Deck) error {
	if decks == nil {
		decks = []models.Deck{}
	}
	return c.do(ctx, "save decks", http.MethodPost, c.endpoint, decks, nil)
}

// UpsertDeck inserts or replaces a single deck by its id.
func (c *Client) UpsertDeck(ctx context.Context, deck models.Deck) error {
	return c.do(ctx, "save deck", http.MethodPut, c.endpoint+"/"+url.PathEscape(deck.ID), deck, nil)
}

// DeleteDeck removes a deck; unknown ids succeed.
func (c *Client) DeleteDeck(ctx context.Context, id string) error {
	return c.do(ctx, "delete deck", http.MethodDelete, c.endpoint+"/"+url.PathEscape(id), nil, nil)
}

func (c *Client) do(ctx context.Context, op, method, target string, in, out any) error {
	log := logger.FromContext(ctx).WithPrefix("apiclient").WithFields(map[string]any{
		"method": method,
		"url":    target,
	})

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return errors.NewTransportError(op, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		log.Error("failed to create request: %v", err)
		return errors.NewTransportError(op, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	log.Debug("sending request")
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("%s: request failed: %v", op, err)
		return errors.NewTransportError(op, err)
	}
	defer resp.Body.Close()

	log.Debug("response received in %v, status=%d", time.Since(start), resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		log.Error("%s: status=%d, body=%s", op, resp.StatusCode, string(msg))
		return errors.NewTransportError(op, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))))
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		log.Error("failed to decode response: %v", err)
		return errors.NewTransportError(op, err)
	}
	return nil
}
