package orchestratornode

import (
	"strings"

	contractx "github.com/tanpawarit/Chative-Parts-Assistant/agent/contract"
)

// MaxActions caps the call-to-action buttons on one reply.
const MaxActions = 3

type ActionInput struct {
	Intent            contractx.Intent
	ApplianceType     contractx.ApplianceType
	ModelNumber       string
	PsNumber          string
	Compatibility     *contractx.Compatibility
	Part              *contractx.Part
	WantsAlternatives bool
}

// BuildResponseActions applies the action policy: checkout is offered only
// for a confident, in-stock fit; alternatives and stock alerts follow doubt
// or unavailability.
func BuildResponseActions(in ActionInput) []contractx.ResponseAction {
	if !in.ApplianceType.InScope() {
		return nil
	}

	ps := in.PsNumber
	if ps == "" && in.Part != nil {
		ps = in.Part.PsNumber
	}
	if ps == "" {
		return nil
	}
	subject := strings.ToLower(ps)
	outOfStock := in.Part != nil && !in.Part.InStock

	var actions []contractx.ResponseAction

	canCheckout := in.Intent == contractx.IntentCompatibilityCheck &&
		in.Compatibility != nil &&
		in.Compatibility.Compatible &&
		in.Compatibility.FitConfidence != contractx.FitLow &&
		in.Part != nil && in.Part.InStock
	if canCheckout {
		actions = addAction(actions, &contractx.ResponseAction{
			ID:                   "checkout_" + subject,
			Type:                 contractx.ActionCheckoutNow,
			Label:                "Checkout now",
			Style:                contractx.StylePrimary,
			Payload:              map[string]any{"psNumber": ps, "quantity": 1},
			RequiresConfirmation: true,
			Enabled:              true,
		})
	}

	doubtfulFit := in.Intent == contractx.IntentCompatibilityCheck &&
		in.Compatibility != nil &&
		(in.Compatibility.FitConfidence == contractx.FitLow || !in.Compatibility.Compatible)
	if in.WantsAlternatives || doubtfulFit || outOfStock {
		actions = addAction(actions, &contractx.ResponseAction{
			ID:    "alternatives_" + subject,
			Type:  contractx.ActionCheckCompatibleAlternative,
			Label: "Show compatible alternatives",
			Style: contractx.StyleSecondary,
			Payload: map[string]any{
				"modelNumber":   in.ModelNumber,
				"psNumber":      ps,
				"applianceType": string(in.ApplianceType),
			},
			Enabled: true,
		})
	}

	if outOfStock {
		actions = addAction(actions, &contractx.ResponseAction{
			ID:      "notify_" + subject,
			Type:    contractx.ActionNotifyWhenInStock,
			Label:   "Notify me when in stock",
			Style:   contractx.StyleSecondary,
			Payload: map[string]any{"psNumber": ps, "channel": "email"},
			Enabled: true,
		})
	}

	return actions
}

// addAction rejects nil actions, anything past the cap, and a second primary.
func addAction(actions []contractx.ResponseAction, action *contractx.ResponseAction) []contractx.ResponseAction {
	if action == nil || len(actions) >= MaxActions {
		return actions
	}
	if action.Style == contractx.StylePrimary {
		for _, existing := range actions {
			if existing.Style == contractx.StylePrimary {
				return actions
			}
		}
	}
	return append(actions, *action)
}
