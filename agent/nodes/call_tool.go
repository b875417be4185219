package orchestratornode

import (
	"context"

	toolx "github.com/tanpawarit/Chative-Parts-Assistant/agent/tool"
)

// The chat channel is always anonymous; session-bound tools degrade.
var chatAuth = toolx.AuthContext{IsAuthenticated: false, Level: toolx.AuthPublic}

func callTool(ctx context.Context, in *GraphState, invoker toolx.Invoker, name string, input map[string]any) toolx.Result {
	result := invoker.Invoke(ctx, name, input, chatAuth)
	in.ToolCalls = append(in.ToolCalls, toolx.Summarize(result))
	return result
}
