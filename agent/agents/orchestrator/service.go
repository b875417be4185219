package orchestrator

import (
	"context"
	"errors"

	"github.com/cloudwego/eino/compose"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	contractx "github.com/tanpawarit/Chative-Parts-Assistant/agent/contract"
	nodex "github.com/tanpawarit/Chative-Parts-Assistant/agent/nodes"
	toolx "github.com/tanpawarit/Chative-Parts-Assistant/agent/tool"
)

var ErrInvalidMessage = contractx.ErrInvalidMessage

// Orchestrator turns one user message plus carried context into a
// structured reply. It holds no per-session state.
type Orchestrator struct {
	tools  toolx.Invoker
	tracer trace.Tracer

	graphRunner compose.Runnable[nodex.GraphInput, nodex.GraphOutput]
}

type Option func(*Orchestrator)

func WithTracer(tracer trace.Tracer) Option {
	return func(o *Orchestrator) {
		if tracer != nil {
			o.tracer = tracer
		}
	}
}

func New(tools toolx.Invoker, opts ...Option) (*Orchestrator, error) {
	if tools == nil {
		return nil, errors.New("tool invoker is required")
	}

	o := &Orchestrator{
		tools:  tools,
		tracer: otel.Tracer("github.com/tanpawarit/Chative-Parts-Assistant/agent/agents/orchestrator"),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}

	graphRunner, err := o.compileHandleTurnGraph(context.Background())
	if err != nil {
		return nil, err
	}
	o.graphRunner = graphRunner

	return o, nil
}

func (o *Orchestrator) HandleTurn(ctx context.Context, message string, convCtx contractx.ConversationContext) (contractx.TurnResult, error) {
	ctx, span := o.tracer.Start(ctx, "turn.handle")
	defer span.End()

	out, err := o.graphRunner.Invoke(ctx, nodex.GraphInput{
		Message: message,
		Context: convCtx,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return contractx.TurnResult{}, err
	}
	span.SetAttributes(
		attribute.String("turn.intent", string(out.Intent)),
		attribute.Int("turn.tool_calls", len(out.ToolCalls)),
	)
	return out, nil
}
