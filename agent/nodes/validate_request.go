package orchestratornode

import (
	"fmt"
	"strings"
	"unicode/utf8"

	contractx "github.com/tanpawarit/Chative-Parts-Assistant/agent/contract"
	"github.com/tanpawarit/Chative-Parts-Assistant/agent/intent"
)

// MaxMessageRunes bounds a single user turn.
const MaxMessageRunes = 4000

type GraphInput struct {
	Message string
	Context contractx.ConversationContext
}

type GraphOutput = contractx.TurnResult

type GraphState struct {
	Message string
	Carried contractx.ConversationContext

	Classification intent.Classification
	Intent         contractx.Intent
	ApplianceType  contractx.ApplianceType
	ModelNumber    string
	PsNumber       string
	PartFromPs     *contractx.Part

	// Done marks a terminal reply; later nodes pass the state through.
	Done      bool
	Reply     contractx.Response
	ToolCalls []contractx.ToolCall
	Context   contractx.ConversationContext
}

func ValidateRequest(in GraphInput) (*GraphState, error) {
	if !utf8.ValidString(in.Message) {
		return nil, fmt.Errorf("%w: message is not valid utf-8", contractx.ErrInvalidMessage)
	}
	message := strings.TrimSpace(in.Message)
	if utf8.RuneCountInString(message) > MaxMessageRunes {
		return nil, fmt.Errorf("%w: message exceeds %d characters", contractx.ErrInvalidMessage, MaxMessageRunes)
	}

	return &GraphState{
		Message: message,
		Carried: contractx.ConversationContext{
			ApplianceType:    contractx.NormalizeAppliance(string(in.Context.ApplianceType)),
			ModelNumber:      strings.TrimSpace(in.Context.ModelNumber),
			SelectedPsNumber: strings.TrimSpace(in.Context.SelectedPsNumber),
		},
		ToolCalls: []contractx.ToolCall{},
	}, nil
}
