package orchestrator

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"

	nodex "github.com/tanpawarit/Chative-Parts-Assistant/agent/nodes"
)

func (o *Orchestrator) compileHandleTurnGraph(
	ctx context.Context,
) (compose.Runnable[nodex.GraphInput, nodex.GraphOutput], error) {
	graph := compose.NewGraph[nodex.GraphInput, nodex.GraphOutput]()

	if err := graph.AddLambdaNode("validate_request",
		compose.InvokableLambda(func(ctx context.Context, in nodex.GraphInput) (*nodex.GraphState, error) {
			return nodex.ValidateRequest(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node validate_request: %w", err)
	}

	if err := graph.AddLambdaNode("classify_turn",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.ClassifyTurn(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node classify_turn: %w", err)
	}

	if err := graph.AddLambdaNode("resolve_part",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.ResolvePart(ctx, in, o.tools)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node resolve_part: %w", err)
	}

	if err := graph.AddLambdaNode("gate_scope",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.GateScope(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node gate_scope: %w", err)
	}

	if err := graph.AddLambdaNode("dispatch_intent",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.DispatchIntent(ctx, in, o.tools)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node dispatch_intent: %w", err)
	}

	if err := graph.AddLambdaNode("stamp_context",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.StampContext(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node stamp_context: %w", err)
	}

	if err := graph.AddLambdaNode("finalize_reply",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (nodex.GraphOutput, error) {
			return nodex.FinalizeReply(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node finalize_reply: %w", err)
	}

	edges := [][2]string{
		{compose.START, "validate_request"},
		{"validate_request", "classify_turn"},
		{"classify_turn", "resolve_part"},
		{"resolve_part", "gate_scope"},
		{"gate_scope", "dispatch_intent"},
		{"dispatch_intent", "stamp_context"},
		{"stamp_context", "finalize_reply"},
		{"finalize_reply", compose.END},
	}

	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("orchestrator.handle_turn"))
	if err != nil {
		return nil, fmt.Errorf("compile orchestrator graph: %w", err)
	}
	return runner, nil
}
