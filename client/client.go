// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/danielhkuo/proposal-desk/casing"
	"github.com/danielhkuo/proposal-desk/identity"
	"github.com/danielhkuo/proposal-desk/models"
)

const unknownError = "unknown error"

// APIError is returned when the backend responds with a non-2xx status.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api %d: %s", e.Status, e.Message)
}

// ServerMessage is the message the backend meant for the user.
func (e *APIError) ServerMessage() string {
	return e.Message
}

// Client talks to the proposals backend. Request and response bodies are
// lowerCamelCase on this side and rewritten to the wire convention by the
// transport.
type Client struct {
	baseURL    string
	httpClient *http.Client
	codec      casing.Codec
	logger     *slog.Logger
}

type config struct {
	timeout    time.Duration
	httpClient *http.Client
	codec      casing.Codec
	logger     *slog.Logger
}

// Option configures the client.
type Option func(*config)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *config) { c.timeout = d }
}

// WithHTTPClient uses hc as the base client. hc is copied, not modified.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *config) { c.httpClient = hc }
}

// WithConvention selects the wire naming convention.
func WithConvention(codec casing.Codec) Option {
	return func(c *config) { c.codec = codec }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// New creates a client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	cfg := config{
		timeout: 30 * time.Second,
		codec:   casing.Default,
		logger:  slog.Default(),
	}
	for _, o := range opts {
		o(&cfg)
	}

	hc := &http.Client{}
	if cfg.httpClient != nil {
		copied := *cfg.httpClient
		hc = &copied
	}
	hc.Timeout = cfg.timeout
	hc.Transport = casing.NewTransport(hc.Transport, cfg.codec)

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: hc,
		codec:      cfg.codec,
		logger:     cfg.logger,
	}
}

// Convention reports the wire naming convention in use.
func (c *Client) Convention() casing.Convention {
	return c.codec.Convention()
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any, header http.Header) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	ctx, requestID := identity.EnsureRequestID(ctx)
	req.Header.Set(identity.RequestIDHeader, requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WarnContext(ctx, "API request failed",
			"method", method,
			"path", path,
			"request_id", requestID,
			"error", err,
		)
		return err
	}
	defer resp.Body.Close()

	c.logger.DebugContext(ctx, "API request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) *APIError {
	var payload struct {
		Message string `json:"message"`
	}
	apiErr := &APIError{Status: resp.StatusCode, Message: unknownError}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Message != "" {
		apiErr.Message = payload.Message
	}
	return apiErr
}

func proposalPath(id int64) string {
	return "/proposals/" + strconv.FormatInt(id, 10)
}

// ListProposals calls GET /proposals.
func (c *Client) ListProposals(ctx context.Context) ([]models.Proposal, error) {
	var out []models.Proposal
	err := c.do(ctx, http.MethodGet, "/proposals", nil, &out, nil)
	return out, err
}

// GetProposal calls GET /proposals/{id}.
func (c *Client) GetProposal(ctx context.Context, id int64) (*models.Proposal, error) {
	var out models.Proposal
	if err := c.do(ctx, http.MethodGet, proposalPath(id), nil, &out, nil); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateProposal calls POST /proposals.
func (c *Client) CreateProposal(ctx context.Context, req models.CreateProposalRequest) (*models.Proposal, error) {
	var out models.Proposal
	if err := c.do(ctx, http.MethodPost, "/proposals", req, &out, nil); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProposal calls PUT /proposals/{id}.
func (c *Client) UpdateProposal(ctx context.Context, id int64, p models.Proposal) (*models.Proposal, error) {
	var out models.Proposal
	if err := c.do(ctx, http.MethodPut, proposalPath(id), p, &out, nil); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteProposal calls DELETE /proposals/{id}.
func (c *Client) DeleteProposal(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, proposalPath(id), nil, nil, nil)
}

// CastVote calls POST /proposals/{id}/votes on behalf of userID.
func (c *Client) CastVote(ctx context.Context, proposalID int64, req models.CastVoteRequest, userID int64) (*models.VoteReceipt, error) {
	header := http.Header{}
	header.Set(identity.UserIDHeader, identity.FormatUserID(userID))

	var out models.VoteReceipt
	if err := c.do(ctx, http.MethodPost, proposalPath(proposalID)+"/votes", req, &out, header); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListVotes calls GET /proposals/{id}/votes.
func (c *Client) ListVotes(ctx context.Context, proposalID int64) ([]models.Vote, error) {
	var out []models.Vote
	err := c.do(ctx, http.MethodGet, proposalPath(proposalID)+"/votes", nil, &out, nil)
	return out, err
}

// CountVotes calls GET /proposals/{id}/votes/count.
func (c *Client) CountVotes(ctx context.Context, proposalID int64) (int, error) {
	var out int
	err := c.do(ctx, http.MethodGet, proposalPath(proposalID)+"/votes/count", nil, &out, nil)
	return out, err
}
