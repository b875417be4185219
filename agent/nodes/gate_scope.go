package orchestratornode

import (
	"fmt"

	contractx "github.com/tanpawarit/Chative-Parts-Assistant/agent/contract"
)

const (
	outOfScopeContent = "I can only assist with refrigerator and dishwasher parts, compatibility checks, repair steps, and order support. " +
		"Share your appliance type, model number, or PS part number and I can help right away."
	clarifyApplianceContent = "Before we dive in, are you working on a refrigerator or a dishwasher? " +
		"If you have your model number, share it so I can verify fit and pull exact instructions."
)

var (
	outOfScopeNextActions = []string{"Find a part", "Check compatibility", "Start repair guide", "Track order"}
	clarifyNextActions    = []string{"Set appliance: Refrigerator", "Set appliance: Dishwasher"}
)

// GateScope ends the turn for unsupported appliances and for turns where the
// appliance is still unknown.
func GateScope(in *GraphState) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	outOfScope := !in.Classification.InScope ||
		(in.ApplianceType != contractx.ApplianceUnknown && !in.ApplianceType.InScope())
	switch {
	case outOfScope:
		in.Intent = contractx.IntentOutOfScope
		in.ApplianceType = contractx.ApplianceUnknown
		in.Done = true
		in.Reply = assistantReply(outOfScopeContent, outOfScopeNextActions...)
	case in.ApplianceType == contractx.ApplianceUnknown:
		in.Done = true
		in.Reply = assistantReply(clarifyApplianceContent, clarifyNextActions...)
	}
	return in, nil
}

func assistantReply(content string, nextActions ...string) contractx.Response {
	return contractx.Response{
		Role:        "assistant",
		Content:     content,
		NextActions: append([]string(nil), nextActions...),
	}
}
