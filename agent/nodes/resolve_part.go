package orchestratornode

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/Chative-Parts-Assistant/agent/contract"
	toolx "github.com/tanpawarit/Chative-Parts-Assistant/agent/tool"
)

// ResolvePart looks up the effective part, if any. A part belongs to exactly
// one appliance family, so its type overrides what the user said.
func ResolvePart(ctx context.Context, in *GraphState, invoker toolx.Invoker) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	if in.PsNumber == "" {
		return in, nil
	}

	result := callTool(ctx, in, invoker, toolx.GetPartDetails, map[string]any{"psNumber": in.PsNumber})
	in.PartFromPs = toolx.DecodePart(result)
	if in.PartFromPs != nil && in.PartFromPs.ApplianceType != "" {
		in.ApplianceType = contractx.NormalizeAppliance(in.PartFromPs.ApplianceType)
	}
	return in, nil
}
