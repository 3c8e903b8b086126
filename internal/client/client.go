// Package client implements the HTTP client for the strategy lab backend.
// It performs plain request/response calls and owns no caching or retry
// logic; callers decide what to do with failures.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/quantdesk/quantdesk/internal/logger"
	"github.com/quantdesk/quantdesk/internal/types"
	"github.com/quantdesk/quantdesk/pkg/errors"
)

// RemoteService is the full remote API surface consumed by the workspace.
type RemoteService interface {
	// ListStrategies returns the ordered set of known strategies.
	ListStrategies(ctx context.Context) ([]types.StrategyMeta, error)
	// ReadStrategy returns a strategy's source text.
	ReadStrategy(ctx context.Context, id types.StrategyID) (string, error)
	// SaveStrategy writes a strategy's source text.
	SaveStrategy(ctx context.Context, id types.StrategyID, content string) error
	// CreateStrategy creates a new strategy file and returns the assigned id.
	CreateStrategy(ctx context.Context, suggested types.StrategyID) (types.StrategyID, error)
	// RenameStrategy renames a strategy file.
	RenameStrategy(ctx context.Context, oldID, newID types.StrategyID) error
	// DeleteStrategy removes a strategy file.
	DeleteStrategy(ctx context.Context, id types.StrategyID) error
	// StrategyParams returns a strategy's declared tunable parameters.
	StrategyParams(ctx context.Context, id types.StrategyID) ([]types.ParamSpec, error)
	// RunBacktest executes a backtest and returns its full result.
	RunBacktest(ctx context.Context, params BacktestParams) (types.BacktestResult, error)
	// RunTuning executes a hyperparameter tuning job.
	RunTuning(ctx context.Context, params TuningParams) (types.TuningResult, error)
	// StartPaperSession starts a paper trading session.
	StartPaperSession(ctx context.Context, params PaperStartParams) (types.PaperSession, error)
	// StopPaperSession stops a running paper trading session.
	StopPaperSession(ctx context.Context, sessionID string) error
	// PaperSessionState fetches a paper session's latest snapshot.
	PaperSessionState(ctx context.Context, sessionID string) (types.PaperSessionState, error)
	// ListDatasets lists the datasets available for backtests.
	ListDatasets(ctx context.Context) ([]types.Dataset, error)
	// SearchSymbols searches tradable symbols by free-text query.
	SearchSymbols(ctx context.Context, query string, limit int) ([]types.Symbol, error)
}

// ClientConfig holds the configuration for the lab API client.
type ClientConfig struct {
	BaseURL string        `validate:"required,url"`
	Timeout time.Duration `validate:"min=0"`
}

// Client is the HTTP implementation of RemoteService.
type Client struct {
	baseURL  string
	http     *http.Client
	validate *validator.Validate
	logger   *logger.Logger
}

var _ RemoteService = (*Client)(nil)

// NewClient creates a new lab API client with the given configuration.
func NewClient(config ClientConfig, l *logger.Logger) (*Client, error) {
	validate := validator.New()
	if err := validate.Struct(config); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid client configuration", err)
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL:  strings.TrimRight(config.BaseURL, "/"),
		http:     &http.Client{Timeout: timeout},
		validate: validate,
		logger:   l,
	}, nil
}

// detailResponse is the error payload shape returned by the backend.
type detailResponse struct {
	Detail string `json:"detail"`
}

// strategyPath escapes a strategy id for use inside a URL path while
// preserving its directory separators.
func strategyPath(id types.StrategyID) string {
	segments := strings.Split(string(id), "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}

	return strings.Join(segments, "/")
}

// do performs one JSON request/response round trip. A non-nil out is
// populated from the response body.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	var reader io.Reader

	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidParameter, "failed to encode request body", err)
		}

		reader = bytes.NewReader(payload)
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidParameter, "failed to build request", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeRemoteUnavailable, err, "%s %s failed", method, path)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var detail detailResponse

		message := resp.Status
		if decodeErr := json.NewDecoder(resp.Body).Decode(&detail); decodeErr == nil && detail.Detail != "" {
			message = detail.Detail
		}

		code := errors.ErrCodeRemoteRejected
		if resp.StatusCode >= http.StatusInternalServerError {
			code = errors.ErrCodeRemoteUnavailable
		} else if resp.StatusCode == http.StatusNotFound {
			code = errors.ErrCodeStrategyNotFound
		}

		c.logger.Warn("lab api request rejected",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("detail", message))

		return errors.Newf(code, "%s %s: %s", method, path, message)
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(errors.ErrCodeRemoteDecode, err, "failed to decode %s %s response", method, path)
	}

	return nil
}

// ListStrategies implements RemoteService.
func (c *Client) ListStrategies(ctx context.Context) ([]types.StrategyMeta, error) {
	var metas []types.StrategyMeta
	if err := c.do(ctx, http.MethodGet, "/api/strategies", nil, nil, &metas); err != nil {
		return nil, err
	}

	return metas, nil
}

// readStrategyResponse is the payload of a strategy read.
type readStrategyResponse struct {
	Path    types.StrategyID `json:"path"`
	Content string           `json:"content"`
}

// ReadStrategy implements RemoteService.
func (c *Client) ReadStrategy(ctx context.Context, id types.StrategyID) (string, error) {
	var resp readStrategyResponse
	if err := c.do(ctx, http.MethodGet, "/api/strategies/"+strategyPath(id), nil, nil, &resp); err != nil {
		return "", err
	}

	return resp.Content, nil
}

// saveStrategyRequest is the payload of a strategy write.
type saveStrategyRequest struct {
	Path    types.StrategyID `json:"path" validate:"required"`
	Content string           `json:"content"`
}

// SaveStrategy implements RemoteService.
func (c *Client) SaveStrategy(ctx context.Context, id types.StrategyID, content string) error {
	req := saveStrategyRequest{Path: id, Content: content}
	if err := c.validate.Struct(req); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidParameter, "invalid save request", err)
	}

	return c.do(ctx, http.MethodPost, "/api/strategies", nil, req, nil)
}

// CreateStrategy implements RemoteService.
func (c *Client) CreateStrategy(ctx context.Context, suggested types.StrategyID) (types.StrategyID, error) {
	req := map[string]types.StrategyID{"path": suggested}

	var resp readStrategyResponse
	if err := c.do(ctx, http.MethodPost, "/api/strategies/create", nil, req, &resp); err != nil {
		return "", err
	}

	return resp.Path, nil
}

// RenameStrategy implements RemoteService.
func (c *Client) RenameStrategy(ctx context.Context, oldID, newID types.StrategyID) error {
	req := map[string]types.StrategyID{"old_path": oldID, "new_path": newID}

	return c.do(ctx, http.MethodPost, "/api/strategies/rename", nil, req, nil)
}

// DeleteStrategy implements RemoteService.
func (c *Client) DeleteStrategy(ctx context.Context, id types.StrategyID) error {
	return c.do(ctx, http.MethodDelete, "/api/strategies/"+strategyPath(id), nil, nil, nil)
}

// strategyParamsResponse is the payload of a parameter inspection.
type strategyParamsResponse struct {
	StrategyClass string            `json:"strategy_class"`
	Params        []types.ParamSpec `json:"params"`
}

// StrategyParams implements RemoteService.
func (c *Client) StrategyParams(ctx context.Context, id types.StrategyID) ([]types.ParamSpec, error) {
	var resp strategyParamsResponse
	if err := c.do(ctx, http.MethodGet, "/api/strategies/"+strategyPath(id)+"/params", nil, nil, &resp); err != nil {
		return nil, err
	}

	return resp.Params, nil
}

// RunBacktest implements RemoteService.
func (c *Client) RunBacktest(ctx context.Context, params BacktestParams) (types.BacktestResult, error) {
	if err := c.validate.Struct(params); err != nil {
		return types.BacktestResult{}, errors.Wrap(errors.ErrCodeInvalidParameter, "invalid backtest parameters", err)
	}

	var result types.BacktestResult
	if err := c.do(ctx, http.MethodPost, "/api/backtests/run", nil, params, &result); err != nil {
		return types.BacktestResult{}, err
	}

	return result, nil
}

// RunTuning implements RemoteService.
func (c *Client) RunTuning(ctx context.Context, params TuningParams) (types.TuningResult, error) {
	if err := c.validate.Struct(params); err != nil {
		return types.TuningResult{}, errors.Wrap(errors.ErrCodeInvalidParameter, "invalid tuning parameters", err)
	}

	var result types.TuningResult
	if err := c.do(ctx, http.MethodPost, "/api/optimize/run", nil, params, &result); err != nil {
		return types.TuningResult{}, err
	}

	return result, nil
}

// StartPaperSession implements RemoteService.
func (c *Client) StartPaperSession(ctx context.Context, params PaperStartParams) (types.PaperSession, error) {
	if err := c.validate.Struct(params); err != nil {
		return types.PaperSession{}, errors.Wrap(errors.ErrCodeInvalidParameter, "invalid paper session parameters", err)
	}

	var session types.PaperSession
	if err := c.do(ctx, http.MethodPost, "/api/paper/start", nil, params, &session); err != nil {
		return types.PaperSession{}, err
	}

	return session, nil
}

// StopPaperSession implements RemoteService.
func (c *Client) StopPaperSession(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return errors.New(errors.ErrCodeMissingParameter, "session id is required")
	}

	return c.do(ctx, http.MethodPost, fmt.Sprintf("/api/paper/%s/stop", url.PathEscape(sessionID)), nil, nil, nil)
}

// PaperSessionState implements RemoteService.
func (c *Client) PaperSessionState(ctx context.Context, sessionID string) (types.PaperSessionState, error) {
	if sessionID == "" {
		return types.PaperSessionState{}, errors.New(errors.ErrCodeMissingParameter, "session id is required")
	}

	var state types.PaperSessionState
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/paper/%s/state", url.PathEscape(sessionID)), nil, nil, &state); err != nil {
		return types.PaperSessionState{}, err
	}

	return state, nil
}

// ListDatasets implements RemoteService.
func (c *Client) ListDatasets(ctx context.Context) ([]types.Dataset, error) {
	var datasets []types.Dataset
	if err := c.do(ctx, http.MethodGet, "/api/datasets", nil, nil, &datasets); err != nil {
		return nil, err
	}

	return datasets, nil
}

// SearchSymbols implements RemoteService.
func (c *Client) SearchSymbols(ctx context.Context, query string, limit int) ([]types.Symbol, error) {
	if limit <= 0 {
		limit = 8
	}

	values := url.Values{}
	values.Set("q", query)
	values.Set("limit", strconv.Itoa(limit))

	var symbols []types.Symbol
	if err := c.do(ctx, http.MethodGet, "/api/symbols/search", values, nil, &symbols); err != nil {
		return nil, err
	}

	return symbols, nil
}
