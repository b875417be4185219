package orchestratornode

import (
	"fmt"

	contractx "github.com/tanpawarit/Chative-Parts-Assistant/agent/contract"
)

// StampContext writes the context the caller carries into the next turn.
// The appliance type always reflects this turn's resolution (cleared when
// out of scope); model and part numbers are only overwritten when known.
func StampContext(in *GraphState) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	next := in.Carried
	next.ApplianceType = in.ApplianceType
	if in.ModelNumber != "" {
		next.ModelNumber = in.ModelNumber
	}
	if in.PsNumber != "" {
		next.SelectedPsNumber = in.PsNumber
	}
	in.Context = next
	return in, nil
}
