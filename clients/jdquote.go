// Package clients holds the outbound API clients the deal flow talks to.
// They consume built snapshots only and surface upstream errors verbatim;
// retry policy beyond a single token refresh belongs to the caller.
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"brideal-backend/quote"
)

const (
	maintainQuotePath = "/om/maintainquote/api/v1/maintain-quotes"
	quoteDetailsPath  = "/om/maintainquote/api/v1/quotes/"

	// Error bodies are truncated before logging/surfacing.
	maxErrorBody = 500
)

// TokenProvider supplies bearer tokens for the upstream quote API. Token
// acquisition and refresh live behind this boundary; the client only asks.
type TokenProvider interface {
	AccessToken(ctx context.Context) (string, error)
	Refresh(ctx context.Context) error
}

// StaticTokenProvider serves a fixed token. Refresh is a no-op; a 401 with a
// static token stays a 401.
type StaticTokenProvider struct {
	Token string
}

func (p StaticTokenProvider) AccessToken(ctx context.Context) (string, error) {
	if p.Token == "" {
		return "", fmt.Errorf("no access token configured")
	}
	return p.Token, nil
}

func (p StaticTokenProvider) Refresh(ctx context.Context) error { return nil }

// APIError is an upstream rejection, passed through untouched.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("upstream api error: status %d: %s", e.Status, e.Body)
}

// SubmitResult is the upstream acknowledgement of a submitted quote.
type SubmitResult struct {
	QuoteID string          `json:"quoteId"`
	Raw     json.RawMessage `json:"-"`
}

// JDQuoteClient talks to the John Deere Maintain Quote V2 API.
type JDQuoteClient struct {
	baseURL string
	http    *http.Client
	tokens  TokenProvider
	log     *zap.Logger
}

func NewJDQuoteClient(baseURL string, tokens TokenProvider, log *zap.Logger) *JDQuoteClient {
	if log == nil {
		log = zap.NewNop()
	}
	return &JDQuoteClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		tokens:  tokens,
		log:     log,
	}
}

// SubmitQuote posts the snapshot's wire form to the maintain-quotes endpoint.
// On a 401 the token is refreshed once and the request replayed; any other
// upstream failure is returned as an *APIError without retrying.
func (c *JDQuoteClient) SubmitQuote(ctx context.Context, s quote.Snapshot) (*SubmitResult, error) {
	payload, err := json.Marshal(s.Document)
	if err != nil {
		return nil, fmt.Errorf("encode quote payload: %w", err)
	}

	body, err := c.request(ctx, http.MethodPost, c.baseURL+maintainQuotePath, payload)
	if err != nil {
		return nil, err
	}

	result := &SubmitResult{Raw: body}
	// The accepted ID comes back as quoteId; some responses use a bare id.
	var ack struct {
		QuoteID string `json:"quoteId"`
		ID      string `json:"id"`
	}
	if err := json.Unmarshal(body, &ack); err == nil {
		result.QuoteID = ack.QuoteID
		if result.QuoteID == "" {
			result.QuoteID = ack.ID
		}
	}
	return result, nil
}

// QuoteDetails fetches the upstream record for a previously submitted quote.
func (c *JDQuoteClient) QuoteDetails(ctx context.Context, quoteID string) (json.RawMessage, error) {
	if quoteID == "" {
		return nil, fmt.Errorf("quote id is empty")
	}
	return c.request(ctx, http.MethodGet, c.baseURL+quoteDetailsPath+quoteID, nil)
}

func (c *JDQuoteClient) request(ctx context.Context, method, url string, payload []byte) ([]byte, error) {
	for attempt := 0; attempt < 2; attempt++ {
		token, err := c.tokens.AccessToken(ctx)
		if err != nil {
			return nil, fmt.Errorf("acquire token: %w", err)
		}

		var reqBody io.Reader
		if payload != nil {
			reqBody = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", method, url, err)
		}
		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return nil, fmt.Errorf("%s %s: read response: %w", method, url, readErr)
		}

		if resp.StatusCode == http.StatusUnauthorized && attempt == 0 {
			c.log.Info("token rejected, refreshing and retrying once",
				zap.String("url", url))
			if err := c.tokens.Refresh(ctx); err != nil {
				return nil, fmt.Errorf("refresh token: %w", err)
			}
			continue
		}

		if resp.StatusCode >= 400 {
			msg := string(body)
			if len(msg) > maxErrorBody {
				msg = msg[:maxErrorBody]
			}
			c.log.Error("upstream api error",
				zap.String("method", method),
				zap.String("url", url),
				zap.Int("status", resp.StatusCode))
			return nil, &APIError{Status: resp.StatusCode, Body: msg}
		}

		return body, nil
	}
	return nil, fmt.Errorf("%s %s: request failed after token refresh", method, url)
}
