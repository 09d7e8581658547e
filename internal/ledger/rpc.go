package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/cenkalti/backoff/v5"
	"github.com/tidwall/gjson"
	"golang.org/x/exp/jsonrpc2"

	"github.com/agilechain/chainsync/internal/versions"
)

// JSON-RPC methods exposed by the ledger-access sidecar
const (
	MethodInitialize     = "ledger_initialize"
	MethodContracts      = "ledger_contracts"
	MethodAccount        = "ledger_account"
	MethodVerifyContract = "ledger_verifyContract"
	MethodResetNetwork   = "ledger_resetNetwork"

	MethodSprintCreate = "sprint_create"
	MethodSprintUpdate = "sprint_update"
	MethodSprintDelete = "sprint_delete"

	MethodTaskCreate = "task_create"
	MethodTaskUpdate = "task_update"
	MethodTaskDelete = "task_delete"
	MethodTaskAssign = "task_assign"

	MethodTeamRegister = "team_register"

	MethodBacklogCreate = "backlog_create"
	MethodBacklogUpdate = "backlog_update"
	MethodBacklogDelete = "backlog_delete"
)

const (
	// DefaultCallTimeout bounds a single JSON-RPC round trip
	DefaultCallTimeout = 15 * time.Second

	// MaxResponseSize is the maximum accepted size of a sidecar response (10MB)
	MaxResponseSize = 10 * 1024 * 1024

	defaultResetMaxTries   = 3
	defaultResetMaxElapsed = 30 * time.Second
)

// errCodeMethodNotFound is returned by sidecars that have no mutation registered for a method
const errCodeMethodNotFound = -32601

// RPCError is an error object returned by the ledger sidecar
type RPCError struct {
	Code    int64
	Message string
	Data    json.RawMessage

	cause error
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("ledger rpc error %d: %s", e.Code, e.Message)
}

// RPCCode returns the JSON-RPC error code
func (e *RPCError) RPCCode() int64 {
	return e.Code
}

// Unwrap returns the decoded wire error so errors.Is matches the jsonrpc2 sentinels
func (e *RPCError) Unwrap() error {
	return e.cause
}

// RPCClient talks to the ledger-access sidecar over JSON-RPC 2.0 on HTTP.
// It implements both Gateway and Writer.
type RPCClient struct {
	endpoint   string
	httpClient *http.Client
	apiKey     string
	minVersion *semver.Version

	resetMaxTries   uint
	resetMaxElapsed time.Duration
	resetBackOff    func() backoff.BackOff

	nextID atomic.Int64
}

var (
	_ Gateway = (*RPCClient)(nil)
	_ Writer  = (*RPCClient)(nil)
)

// RPCOption configures an RPCClient
type RPCOption func(*RPCClient)

// WithHTTPClient sets the HTTP client used for calls
func WithHTTPClient(client *http.Client) RPCOption {
	return func(c *RPCClient) {
		c.httpClient = client
	}
}

// WithCallTimeout sets the per-call timeout
func WithCallTimeout(timeout time.Duration) RPCOption {
	return func(c *RPCClient) {
		if timeout > 0 {
			hc := *c.httpClient
			hc.Timeout = timeout
			c.httpClient = &hc
		}
	}
}

// WithAPIKey sends the given key in the X-API-Key header of every call
func WithAPIKey(key string) RPCOption {
	return func(c *RPCClient) {
		c.apiKey = key
	}
}

// WithMinVersion rejects sidecars reporting a version lower than min
func WithMinVersion(min *semver.Version) RPCOption {
	return func(c *RPCClient) {
		c.minVersion = min
	}
}

// WithResetRetry bounds the retries of ResetNetwork
func WithResetRetry(maxTries uint, maxElapsed time.Duration) RPCOption {
	return func(c *RPCClient) {
		if maxTries > 0 {
			c.resetMaxTries = maxTries
		}
		if maxElapsed > 0 {
			c.resetMaxElapsed = maxElapsed
		}
	}
}

// WithResetBackOff overrides the backoff policy used by ResetNetwork
func WithResetBackOff(factory func() backoff.BackOff) RPCOption {
	return func(c *RPCClient) {
		c.resetBackOff = factory
	}
}

// NewRPCClient creates a client for the sidecar listening at endpoint
func NewRPCClient(endpoint string, opts ...RPCOption) *RPCClient {
	c := &RPCClient{
		endpoint:        endpoint,
		httpClient:      &http.Client{Timeout: DefaultCallTimeout},
		resetMaxTries:   defaultResetMaxTries,
		resetMaxElapsed: defaultResetMaxElapsed,
		resetBackOff: func() backoff.BackOff {
			return backoff.NewExponentialBackOff()
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.apiKey != "" {
		hc := *c.httpClient
		hc.Transport = &apiKeyTransport{base: hc.Transport, key: c.apiKey}
		c.httpClient = &hc
	}
	return c
}

type initializeResult struct {
	Ready   bool   `json:"ready"`
	Version string `json:"version"`
	Network string `json:"network"`
}

// Initialize connects the sidecar to the ledger network
func (c *RPCClient) Initialize(ctx context.Context) (bool, error) {
	var res initializeResult
	if err := c.call(ctx, MethodInitialize, nil, &res); err != nil {
		return false, err
	}
	if !res.Ready {
		return false, nil
	}
	if err := c.checkVersion(res.Version); err != nil {
		return false, err
	}
	return true, nil
}

func (c *RPCClient) checkVersion(reported string) error {
	if !versions.Satisfies(reported, c.minVersion) {
		return fmt.Errorf("ledger sidecar version %q does not satisfy minimum %s", reported, c.minVersion)
	}
	return nil
}

// GetContracts returns the contract handles of the connected network
func (c *RPCClient) GetContracts(ctx context.Context) (*Contracts, error) {
	var res Contracts
	if err := c.call(ctx, MethodContracts, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// GetCurrentAccount returns the active account, or "" when no account is selected
func (c *RPCClient) GetCurrentAccount(ctx context.Context) (string, error) {
	var res struct {
		Account string `json:"account"`
	}
	if err := c.call(ctx, MethodAccount, nil, &res); err != nil {
		return "", err
	}
	return res.Account, nil
}

// VerifyContract runs the read-only consistency check of a contract
func (c *RPCClient) VerifyContract(ctx context.Context, contract *Contract, account string) error {
	if contract == nil {
		return errors.New("contract handle is nil")
	}
	params := map[string]string{
		"contract": contract.Name,
		"address":  contract.Address,
		"account":  account,
	}
	return c.call(ctx, MethodVerifyContract, params, nil)
}

// HandleTransactionError converts a ledger error into a human-readable message
func (*RPCClient) HandleTransactionError(err error) string {
	return HumanizeError(err)
}

// ResetNetwork resets the sidecar connection and probes it until it reports ready.
// Attempts are retried with exponential backoff, bounded in tries and elapsed time.
func (c *RPCClient) ResetNetwork(ctx context.Context) (bool, error) {
	attempt := 0
	return backoff.Retry(ctx, func() (bool, error) {
		attempt++
		var res struct {
			Reset bool `json:"reset"`
		}
		if err := c.call(ctx, MethodResetNetwork, nil, &res); err != nil {
			var rpcErr *RPCError
			if errors.As(err, &rpcErr) && !IsRetryable(rpcErr) {
				return false, backoff.Permanent(err)
			}
			slog.Warn("Ledger network reset attempt failed", "attempt", attempt, "error", err)
			return false, err
		}
		if !res.Reset {
			return false, backoff.Permanent(errors.New("ledger network reset was refused"))
		}

		ready, err := c.Initialize(ctx)
		if err != nil {
			return false, err
		}
		if !ready {
			return false, errors.New("ledger network not ready after reset")
		}
		return true, nil
	},
		backoff.WithBackOff(c.resetBackOff()),
		backoff.WithMaxTries(c.resetMaxTries),
		backoff.WithMaxElapsedTime(c.resetMaxElapsed),
	)
}

// CreateSprint registers a sprint on the ledger
func (c *RPCClient) CreateSprint(ctx context.Context, in SprintInput) (*WriteResult, error) {
	return c.write(ctx, MethodSprintCreate, in)
}

// UpdateSprint updates a sprint on the ledger
func (c *RPCClient) UpdateSprint(ctx context.Context, id int64, in SprintInput) (*WriteResult, error) {
	return c.write(ctx, MethodSprintUpdate, withID{ID: id, Fields: in})
}

// DeleteSprint deletes a sprint on the ledger
func (c *RPCClient) DeleteSprint(ctx context.Context, id int64) (*WriteResult, error) {
	return c.write(ctx, MethodSprintDelete, withID{ID: id})
}

// CreateTask registers a task on the ledger
func (c *RPCClient) CreateTask(ctx context.Context, in TaskInput) (*WriteResult, error) {
	return c.write(ctx, MethodTaskCreate, in)
}

// UpdateTask updates a task on the ledger
func (c *RPCClient) UpdateTask(ctx context.Context, id int64, in TaskInput) (*WriteResult, error) {
	return c.write(ctx, MethodTaskUpdate, withID{ID: id, Fields: in})
}

// DeleteTask deletes a task on the ledger
func (c *RPCClient) DeleteTask(ctx context.Context, id int64) (*WriteResult, error) {
	return c.write(ctx, MethodTaskDelete, withID{ID: id})
}

// AssignTask assigns a task to an account
func (c *RPCClient) AssignTask(ctx context.Context, id int64, assignee string) (*WriteResult, error) {
	return c.write(ctx, MethodTaskAssign, withID{ID: id, Fields: map[string]string{"assignee": assignee}})
}

// RegisterTeam registers a backend team on the ledger
func (c *RPCClient) RegisterTeam(ctx context.Context, in TeamInput) (*WriteResult, error) {
	return c.write(ctx, MethodTeamRegister, in)
}

// CreateBacklogItem registers a backlog item on the ledger
func (c *RPCClient) CreateBacklogItem(ctx context.Context, in BacklogItemInput) (*WriteResult, error) {
	return c.write(ctx, MethodBacklogCreate, in)
}

// UpdateBacklogItem updates a backlog item on the ledger
func (c *RPCClient) UpdateBacklogItem(ctx context.Context, id int64, in BacklogItemInput) (*WriteResult, error) {
	return c.write(ctx, MethodBacklogUpdate, withID{ID: id, Fields: in})
}

// DeleteBacklogItem deletes a backlog item on the ledger
func (c *RPCClient) DeleteBacklogItem(ctx context.Context, id int64) (*WriteResult, error) {
	return c.write(ctx, MethodBacklogDelete, withID{ID: id})
}

type withID struct {
	ID     int64 `json:"id"`
	Fields any   `json:"fields,omitempty"`
}

// write performs a mutation. A sidecar without the mutation registered yields the NotImplemented result.
func (c *RPCClient) write(ctx context.Context, method string, params any) (*WriteResult, error) {
	var res WriteResult
	if err := c.call(ctx, method, params, &res); err != nil {
		var rpcErr *RPCError
		if errors.As(err, &rpcErr) && rpcErr.Code == errCodeMethodNotFound {
			return NotImplemented(method), nil
		}
		return nil, err
	}
	return &res, nil
}

// call performs one JSON-RPC round trip and decodes the result into out when non-nil
func (c *RPCClient) call(ctx context.Context, method string, params any, out any) error {
	req, err := jsonrpc2.NewCall(jsonrpc2.Int64ID(c.nextID.Add(1)), method, params)
	if err != nil {
		return fmt.Errorf("failed to build %s call: %w", method, err)
	}
	payload, err := jsonrpc2.EncodeMessage(req)
	if err != nil {
		return fmt.Errorf("failed to encode %s call: %w", method, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	slog.Debug("Calling ledger sidecar", "method", method)
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("ledger call %s failed: %w", method, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			slog.Warn("Failed to close response body", "error", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ledger call %s returned HTTP %d", method, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", method, err)
	}
	if len(body) > MaxResponseSize {
		return fmt.Errorf("%s response exceeds maximum size of %d bytes", method, MaxResponseSize)
	}

	msg, err := jsonrpc2.DecodeMessage(body)
	if err != nil {
		return fmt.Errorf("failed to decode %s response: %w", method, err)
	}
	rpcResp, ok := msg.(*jsonrpc2.Response)
	if !ok {
		return fmt.Errorf("unexpected %T in %s response", msg, method)
	}
	if rpcResp.Error != nil {
		errObj := gjson.GetBytes(body, "error")
		rpcErr := &RPCError{
			Code:    errObj.Get("code").Int(),
			Message: errObj.Get("message").String(),
			cause:   rpcResp.Error,
		}
		if data := errObj.Get("data"); data.Exists() {
			rpcErr.Data = json.RawMessage(data.Raw)
		}
		return rpcErr
	}

	if out == nil || len(rpcResp.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(rpcResp.Result, out); err != nil {
		return fmt.Errorf("failed to unmarshal %s result: %w", method, err)
	}
	return nil
}

// apiKeyTransport adds the sidecar API key to every request
type apiKeyTransport struct {
	base http.RoundTripper
	key  string
}

func (t *apiKeyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	clone := req.Clone(req.Context())
	clone.Header.Set("X-API-Key", t.key)
	return base.RoundTrip(clone)
}
