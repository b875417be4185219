package orchestratornode

import (
	"fmt"

	contractx "github.com/tanpawarit/Chative-Parts-Assistant/agent/contract"
	"github.com/tanpawarit/Chative-Parts-Assistant/agent/intent"
)

// ClassifyTurn resolves intent and the effective entities for this turn.
// Identifiers found in the message beat those carried in context.
func ClassifyTurn(in *GraphState) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	c := intent.Classify(in.Message, in.Carried.ApplianceType)
	in.Classification = c
	in.Intent = c.Intent
	in.ApplianceType = c.ApplianceType

	in.ModelNumber = firstNonEmpty(c.ModelNumber, in.Carried.ModelNumber)
	in.PsNumber = firstNonEmpty(c.PsNumber, in.Carried.SelectedPsNumber)
	return in, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
