package executor

import (
	"bytes"
	"codequest/internal/languages"
	"codequest/internal/logger"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	// ProtocolSync executes in a single request/response round trip.
	ProtocolSync = "sync"
	// ProtocolAsync submits for a token and polls for the final result.
	ProtocolAsync = "async"
)

const (
	pollInterval    = 1 * time.Second
	maxPollAttempts = 10
)

// Client talks to a remote execution backend. When no credential is
// configured it degrades permanently to the Simulator; when the backend
// rejects the credential it degrades for that single call and retries the
// real backend on the next one.
type Client struct {
	baseURL    string
	apiKey     string
	protocol   string
	httpClient *http.Client
	sim        *Simulator

	pollInterval    time.Duration
	maxPollAttempts int
}

func NewClient(baseURL, apiKey, protocol string) *Client {
	if protocol != ProtocolAsync {
		protocol = ProtocolSync
	}
	return &Client{
		baseURL:         baseURL,
		apiKey:          apiKey,
		protocol:        protocol,
		httpClient:      &http.Client{Timeout: 30 * time.Second},
		sim:             NewSimulator(),
		pollInterval:    pollInterval,
		maxPollAttempts: maxPollAttempts,
	}
}

type submitPayload struct {
	SourceCode string `json:"source_code"`
	LanguageID int    `json:"language_id"`
	Stdin      string `json:"stdin"`
}

type wireResult struct {
	Token         string  `json:"token,omitempty"`
	Stdout        *string `json:"stdout"`
	Stderr        *string `json:"stderr"`
	CompileOutput *string `json:"compile_output"`
	Message       *string `json:"message"`
	Time          float64 `json:"time"`
	Memory        int     `json:"memory"`
	Status        Status  `json:"status"`
}

func (c *Client) Execute(ctx context.Context, req Request) (*Result, error) {
	if c.baseURL == "" || c.apiKey == "" {
		logger.Log.Warn("No executor configured, simulating execution",
			zap.String("language", string(req.Language)))
		return c.sim.Execute(ctx, req)
	}

	_, legacyID, err := languages.Lookup(req.Language)
	if err != nil {
		return nil, err
	}

	payload := submitPayload{
		SourceCode: req.SourceCode,
		LanguageID: legacyID,
		Stdin:      req.Stdin,
	}

	var result *Result
	if c.protocol == ProtocolAsync {
		result, err = c.executeAsync(ctx, payload)
	} else {
		result, err = c.executeSync(ctx, payload)
	}

	if err == nil {
		return result, nil
	}
	if errors.Is(err, ErrAuth) {
		// One-shot degrade: the next call re-attempts the real executor.
		logger.Log.Warn("Executor rejected credentials, simulating execution",
			zap.Error(err))
		return c.sim.Execute(ctx, req)
	}
	return nil, err
}

func (c *Client) executeSync(ctx context.Context, payload submitPayload) (*Result, error) {
	wire, err := c.post(ctx, c.baseURL+"/submissions?base64_encoded=false&wait=true", payload)
	if err != nil {
		return nil, err
	}
	return wire.toResult(), nil
}

func (c *Client) executeAsync(ctx context.Context, payload submitPayload) (*Result, error) {
	submitted, err := c.post(ctx, c.baseURL+"/submissions?base64_encoded=false&wait=false", payload)
	if err != nil {
		return nil, err
	}
	if submitted.Token == "" {
		return nil, fmt.Errorf("%w: submission returned no token", ErrBackend)
	}

	for attempt := 0; attempt < c.maxPollAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.pollInterval):
		}

		wire, err := c.get(ctx, c.baseURL+"/submissions/"+submitted.Token)
		if err != nil {
			return nil, err
		}
		if wire.Status.ID != StatusInQueue && wire.Status.ID != StatusProcessing {
			return wire.toResult(), nil
		}
	}

	return nil, fmt.Errorf("%w after %d attempts", ErrTimeout, c.maxPollAttempts)
}

func (c *Client) post(ctx context.Context, url string, payload submitPayload) (*wireResult, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode executor request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build executor request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	return c.do(httpReq)
}

func (c *Client) get(ctx context.Context, url string) (*wireResult, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build executor request: %w", err)
	}
	return c.do(httpReq)
}

func (c *Client) do(httpReq *http.Request) (*wireResult, error) {
	httpReq.Header.Set("X-Auth-Token", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		// Keep the transport error in the chain so context cancellation
		// stays detectable with errors.Is.
		return nil, fmt.Errorf("%w: %w", ErrBackend, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, fmt.Errorf("%w: upstream status %d", ErrAuth, resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: upstream status %d: %s", ErrBackend, resp.StatusCode, detail)
	}

	var wire wireResult
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, fmt.Errorf("%w: invalid response: %v", ErrBackend, err)
	}
	return &wire, nil
}

func (w *wireResult) toResult() *Result {
	stdout := ""
	if w.Stdout != nil {
		stdout = *w.Stdout
	}
	return &Result{
		Stdout:        stdout,
		Stderr:        w.Stderr,
		CompileOutput: w.CompileOutput,
		Message:       w.Message,
		Time:          w.Time,
		Memory:        w.Memory,
		Status:        w.Status,
	}
}
