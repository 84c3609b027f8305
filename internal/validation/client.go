// Package validation calls the backend ValidationService to check
// credential values before deployment.
package validation

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/abzali/cue/internal/backend"
	"github.com/abzali/cue/internal/credentials"
	cueerrors "github.com/abzali/cue/internal/errors"
)

const (
	serviceName = "cue.v1.ValidationService"
	methodName  = "ValidateCredentials"

	defaultTimeout = 15 * time.Second
)

// Client validates credential values against the backend.
type Client struct {
	manager *backend.ConnectionManager
	logger  *slog.Logger
	timeout time.Duration
}

// NewClient creates a validation client over the shared connection.
func NewClient(manager *backend.ConnectionManager, logger *slog.Logger) *Client {
	return &Client{
		manager: manager,
		logger:  logger,
		timeout: defaultTimeout,
	}
}

type wireRequest struct {
	Credentials []wireCredential `json:"credentials"`
}

type wireCredential struct {
	FieldID     string `json:"fieldId"`
	ServiceType string `json:"serviceType"`
	Value       string `json:"value"`
}

type wireResponse struct {
	Results []wireResult `json:"results"`
}

type wireResult struct {
	FieldID string `json:"fieldId"`
	Valid   bool   `json:"valid"`
	Message string `json:"message"`
}

// Validate sends the named fields to the backend and returns per-field
// outcomes keyed by field id, ready for Ledger.ApplyResults. Fields
// with empty values are skipped.
func (c *Client) Validate(ctx context.Context, fields []string, ledger *credentials.Ledger) (map[string]credentials.Result, error) {
	conn := c.manager.Conn()
	if conn == nil {
		return nil, cueerrors.ErrBackendUnavailable
	}

	var req wireRequest
	for _, id := range fields {
		f, ok := ledger.Field(id)
		if !ok || f.Value == "" {
			continue
		}
		req.Credentials = append(req.Credentials, wireCredential{
			FieldID:     f.ID,
			ServiceType: string(f.ServiceType),
			Value:       f.Value,
		})
	}
	if len(req.Credentials) == 0 {
		return map[string]credentials.Result{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	invoker := backend.NewInvoker(conn, c.logger)
	methodDesc, err := invoker.ResolveMethod(ctx, serviceName, methodName)
	if err != nil {
		c.logger.Error("failed to resolve validation method", slog.Any("error", err))
		return nil, fmt.Errorf("%w: %v", cueerrors.ErrBackendUnavailable, err)
	}

	reqBody, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode validation request: %w", err)
	}

	respBody, err := invoker.InvokeUnary(ctx, methodDesc, string(reqBody), nil)
	if err != nil {
		return nil, cueerrors.ClassifyGRPCError(err)
	}

	var resp wireResponse
	if err := json.Unmarshal([]byte(respBody), &resp); err != nil {
		return nil, fmt.Errorf("malformed validation response: %w", err)
	}

	results := make(map[string]credentials.Result, len(resp.Results))
	for _, r := range resp.Results {
		results[r.FieldID] = credentials.Result{Valid: r.Valid, Message: r.Message}
	}

	c.logger.Debug("credentials validated",
		slog.Int("requested", len(req.Credentials)),
		slog.Int("results", len(results)),
	)
	return results, nil
}
