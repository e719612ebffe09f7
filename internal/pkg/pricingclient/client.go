// Package pricingclient talks to a running photobook API to fetch price
// tables and quotes.
package pricingclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"photobook/internal/pricing"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger

	maxRetries      uint64
	initialInterval time.Duration
}

type Option func(*Client)

func WithRetries(n uint64, initial time.Duration) Option {
	return func(c *Client) {
		c.maxRetries = n
		c.initialInterval = initial
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func New(baseURL string, logger *zap.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger:          logger,
		maxRetries:      4,
		initialInterval: 250 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// StatusError is a non-2xx answer. 4xx answers are not retried.
type StatusError struct {
	Status int
	Code   string
}

func (e *StatusError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("unexpected status %d (%s)", e.Status, e.Code)
	}
	return fmt.Sprintf("unexpected status %d", e.Status)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type quoteRequest struct {
	pricing.SelectionInput
	PhotographerID int64 `json:"photographer_id"`
}

// Quote prices a selection server-side. photographerID 0 means the studio
// default table.
func (c *Client) Quote(ctx context.Context, in pricing.SelectionInput, photographerID int64) (pricing.Snapshot, error) {
	var snap pricing.Snapshot
	body, err := json.Marshal(quoteRequest{SelectionInput: in, PhotographerID: photographerID})
	if err != nil {
		return snap, fmt.Errorf("marshal request: %w", err)
	}
	err = c.call(ctx, http.MethodPost, "/api/v1/quotes", body, &snap)
	return snap, err
}

func (c *Client) Config(ctx context.Context, photographerID int64) (pricing.Config, error) {
	var cfg pricing.Config
	path := "/api/v1/pricing/config"
	if photographerID > 0 {
		path += "?photographer_id=" + strconv.FormatInt(photographerID, 10)
	}
	err := c.call(ctx, http.MethodGet, path, nil, &cfg)
	return cfg, err
}

func (c *Client) call(ctx context.Context, method, path string, body []byte, out any) error {
	const operation = "pricingclient.call"

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.initialInterval
	policy := backoff.WithContext(backoff.WithMaxRetries(b, c.maxRetries), ctx)

	op := func() error {
		err := c.do(ctx, method, path, body, out)
		var se *StatusError
		if errors.As(err, &se) && se.Status < http.StatusInternalServerError {
			return backoff.Permanent(err)
		}
		return err
	}

	notify := func(err error, next time.Duration) {
		c.logger.Warn("pricing request failed, retrying",
			zap.String("operation", operation),
			zap.String("path", path),
			zap.Duration("next", next),
			zap.Error(err),
		)
	}

	if err := backoff.RetryNotify(op, policy, notify); err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return backoff.Permanent(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	var env envelope
	decodeErr := json.NewDecoder(resp.Body).Decode(&env)

	if resp.StatusCode/100 != 2 {
		se := &StatusError{Status: resp.StatusCode}
		if decodeErr == nil && env.Error != nil {
			se.Code = env.Error.Code
		}
		return se
	}
	if decodeErr != nil {
		return fmt.Errorf("decode response: %w", decodeErr)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}
