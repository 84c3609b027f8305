// Package generation calls the backend GenerationService and converts
// its responses into the domain graph types.
package generation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/abzali/cue/internal/backend"
	cueerrors "github.com/abzali/cue/internal/errors"
)

const (
	serviceName = "cue.v1.GenerationService"
	methodName  = "GenerateWorkflow"

	defaultTimeout = 60 * time.Second
)

// Client generates workflows from natural-language descriptions by
// dynamically invoking the backend over server reflection.
type Client struct {
	manager *backend.ConnectionManager
	logger  *slog.Logger
	timeout time.Duration
}

// NewClient creates a generation client over the shared connection.
func NewClient(manager *backend.ConnectionManager, logger *slog.Logger) *Client {
	return &Client{
		manager: manager,
		logger:  logger,
		timeout: defaultTimeout,
	}
}

// SetTimeout overrides the per-request deadline.
func (c *Client) SetTimeout(d time.Duration) {
	if d > 0 {
		c.timeout = d
	}
}

// Timeout returns the active per-request deadline.
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// Generate turns a workflow description into a node graph, generated
// code and setup instructions.
func (c *Client) Generate(ctx context.Context, description string) (Result, error) {
	conn := c.manager.Conn()
	if conn == nil {
		return Result{}, cueerrors.ErrBackendUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	invoker := backend.NewInvoker(conn, c.logger)
	methodDesc, err := invoker.ResolveMethod(ctx, serviceName, methodName)
	if err != nil {
		c.logger.Error("failed to resolve generation method", slog.Any("error", err))
		return Result{}, fmt.Errorf("%w: %v", cueerrors.ErrBackendUnavailable, err)
	}

	reqBody, err := json.Marshal(map[string]string{"description": description})
	if err != nil {
		return Result{}, fmt.Errorf("encode generation request: %w", err)
	}

	start := time.Now()
	respBody, err := invoker.InvokeUnary(ctx, methodDesc, string(reqBody), nil)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return Result{}, cueerrors.ErrUserCancelled
		}
		return Result{}, cueerrors.ClassifyGRPCError(err)
	}

	result, err := decodeWorkflow([]byte(respBody))
	if err != nil {
		c.logger.Error("generation response rejected", slog.Any("error", err))
		return Result{}, fmt.Errorf("%w: %v", cueerrors.ErrGenerationFailed, err)
	}

	c.logger.Info("workflow generated",
		slog.Int("nodes", len(result.Nodes)),
		slog.Int("edges", len(result.Edges)),
		slog.Duration("elapsed", time.Since(start)),
	)
	return result, nil
}
