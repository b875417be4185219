package orchestratornode

import (
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/Chative-Parts-Assistant/agent/contract"
)

func FinalizeReply(in *GraphState) (GraphOutput, error) {
	if in == nil {
		return GraphOutput{}, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	if !in.Done {
		return GraphOutput{}, fmt.Errorf("%w: turn ended without a reply", contractx.ErrValidation)
	}
	if strings.TrimSpace(in.Reply.Content) == "" {
		return GraphOutput{}, fmt.Errorf("%w: reply content is empty", contractx.ErrValidation)
	}

	reply := in.Reply
	if reply.Role == "" {
		reply.Role = "assistant"
	}
	return GraphOutput{
		Intent:    in.Intent,
		Context:   in.Context,
		Response:  reply,
		ToolCalls: in.ToolCalls,
	}, nil
}
