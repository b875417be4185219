package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/tanpawarit/Chative-Parts-Assistant/agent/schema"
)

const instrumentationName = "github.com/tanpawarit/Chative-Parts-Assistant/agent/tool"

const (
	reasonAuthRequired   = "Authentication required for this tool."
	reasonExecutionError = "Tool execution failed."
)

// Invoker is the surface the orchestrator depends on.
type Invoker interface {
	Invoke(ctx context.Context, toolName string, input map[string]any, auth AuthContext) Result
}

var _ Invoker = (*Runtime)(nil)

// Runtime executes tools against their contracts. Invoke is total: every call
// yields a Result and no handler failure escapes it.
type Runtime struct {
	registry    *Registry
	tracer      trace.Tracer
	invocations metric.Int64Counter
}

type RuntimeOption func(*Runtime)

func WithTracer(tracer trace.Tracer) RuntimeOption {
	return func(rt *Runtime) {
		if tracer != nil {
			rt.tracer = tracer
		}
	}
}

func WithMeter(meter metric.Meter) RuntimeOption {
	return func(rt *Runtime) {
		if meter == nil {
			return
		}
		if counter, err := meter.Int64Counter("tool.invocations"); err == nil {
			rt.invocations = counter
		}
	}
}

func NewRuntime(registry *Registry, opts ...RuntimeOption) (*Runtime, error) {
	if registry == nil {
		return nil, errors.New("tool registry is required")
	}
	rt := &Runtime{
		registry: registry,
		tracer:   otel.Tracer(instrumentationName),
	}
	WithMeter(otel.Meter(instrumentationName))(rt)
	for _, opt := range opts {
		if opt != nil {
			opt(rt)
		}
	}
	return rt, nil
}

func (rt *Runtime) Registry() *Registry {
	return rt.registry
}

func (rt *Runtime) Invoke(ctx context.Context, toolName string, input map[string]any, auth AuthContext) Result {
	ctx, span := rt.tracer.Start(ctx, "tool.invoke", trace.WithAttributes(attribute.String("tool.name", toolName)))
	defer span.End()

	result := rt.invoke(ctx, toolName, input, auth)

	status := string(result.Status())
	span.SetAttributes(attribute.String("tool.status", status))
	if rt.invocations != nil {
		rt.invocations.Add(ctx, 1, metric.WithAttributes(
			attribute.String("tool.name", toolName),
			attribute.String("tool.status", status),
		))
	}

	if result.Status() == StatusSuccess {
		log.Debug().Str("tool", toolName).Msg("tool invocation succeeded")
	} else {
		log.Warn().Str("tool", toolName).Str("status", status).Str("reason", result.Reason()).Msg("tool invocation degraded")
	}
	return result
}

func (rt *Runtime) invoke(ctx context.Context, toolName string, input map[string]any, auth AuthContext) Result {
	c, ok := rt.registry.Lookup(toolName)
	if !ok {
		return Failure{Tool: toolName, Cause: fmt.Sprintf("Unknown tool: %s.", toolName)}
	}

	if c.Auth.Required && !auth.IsAuthenticated {
		return degrade(c, reasonAuthRequired)
	}

	if violations := schema.Validate(input, c.InputSchema); len(violations) > 0 {
		return degrade(c, "Input contract failed: "+strings.Join(violations, " "))
	}

	raw, err := execute(ctx, c, input)
	if err != nil {
		reason := err.Error()
		if strings.TrimSpace(reason) == "" {
			reason = reasonExecutionError
		}
		return degrade(c, reason)
	}

	data, err := normalize(raw)
	if err != nil {
		return degrade(c, fmt.Sprintf("Output contract failed: %v", err))
	}
	if violations := schema.Validate(data, c.OutputSchema); len(violations) > 0 {
		return degrade(c, "Output contract failed: "+strings.Join(violations, " "))
	}

	return Success{Tool: c.Name, Value: data, Contract: c.meta()}
}

func degrade(c *Contract, reason string) Result {
	if c.Fallback == nil {
		meta := c.meta()
		return Failure{Tool: c.Name, Cause: reason, Contract: &meta}
	}
	return Fallback{Tool: c.Name, Value: c.Fallback.Resolve(), Cause: reason, Contract: c.meta()}
}

type budgetExceeded struct {
	tool     string
	budgetMs int
}

func (e budgetExceeded) Error() string {
	return fmt.Sprintf("Tool %s exceeded latency budget of %dms.", e.tool, e.budgetMs)
}

type outcome struct {
	value any
	err   error
}

// execute races the handler against the latency budget. The losing handler's
// context is cancelled on return and its late result is dropped into a
// buffered channel.
func execute(ctx context.Context, c *Contract, input map[string]any) (any, error) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	timer := time.NewTimer(time.Duration(c.LatencyBudgetMs) * time.Millisecond)
	defer timer.Stop()

	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("tool %s panicked: %v", c.Name, r)}
			}
		}()
		value, err := c.Handler(runCtx, cloneInput(input))
		done <- outcome{value: value, err: err}
	}()

	select {
	case out := <-done:
		return out.value, out.err
	case <-timer.C:
		return nil, budgetExceeded{tool: c.Name, budgetMs: c.LatencyBudgetMs}
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// normalize converts a handler's Go value into its JSON shape so that
// output validation and downstream decoding see the same data.
func normalize(raw any) (any, error) {
	if raw == nil {
		return nil, nil
	}
	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	var data any
	if err := json.Unmarshal(encoded, &data); err != nil {
		return nil, err
	}
	return data, nil
}

func cloneInput(input map[string]any) map[string]any {
	out := make(map[string]any, len(input))
	for k, v := range input {
		out[k] = v
	}
	return out
}
