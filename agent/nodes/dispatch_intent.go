package orchestratornode

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/Chative-Parts-Assistant/agent/contract"
	toolx "github.com/tanpawarit/Chative-Parts-Assistant/agent/tool"
)

const (
	orderSupportContent = "I can help with order support. For privacy, use the secure order form to track status, start a return, or request cancellation."

	compatAskPartContent  = "I can check fit right away. Which part number are you checking?"
	compatAskModelContent = "Got it, checking %s. Share your model number to confirm compatibility."
	compatFitContent      = "%s is compatible with %s. %s"
	compatNoFitContent    = "I could not confirm exact fit for %s and %s. %s"
	compatVerifyManually  = "Please verify manually."

	installAskPartContent   = "Share the part number (for example PS11752778) and I will generate a step-by-step install checklist."
	installDegradedContent  = "I could not retrieve enough trusted documentation for a full install walk-through yet. I can still help you search by exact model and part number."
	installChecklistContent = "Here is the install checklist for %s. Follow each step in order and confirm power/water are disconnected first."

	troubleshootSignalsContent = "For this symptom, start with water supply and filter checks, then test the inlet valve, then inspect the target assembly and related sensors. I included matched references and likely replacement parts below."
	troubleshootVagueContent   = "I can help troubleshoot, but I need a bit more detail. Share the exact symptom, part number, or model number so I can pull targeted guidance."

	lookupFoundContent    = "I found parts that match your request."
	lookupNotFoundContent = "I did not find an exact match yet. Try the symptom, part number, or model number."

	installDocsQuery = "installation"
)

// DispatchIntent runs the handler for the resolved intent. Terminal states
// pass through untouched.
func DispatchIntent(ctx context.Context, in *GraphState, invoker toolx.Invoker) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	if in.Done {
		return in, nil
	}

	switch in.Intent {
	case contractx.IntentOrderSupport:
		in.Reply = assistantReply(orderSupportContent, "Open secure order lookup")
	case contractx.IntentCompatibilityCheck:
		handleCompatibility(ctx, in, invoker)
	case contractx.IntentInstallGuide:
		handleInstallGuide(ctx, in, invoker)
	case contractx.IntentTroubleshooting:
		handleTroubleshooting(ctx, in, invoker)
	default:
		in.Intent = contractx.IntentPartLookup
		handlePartLookup(ctx, in, invoker)
	}
	in.Done = true
	return in, nil
}

func handleCompatibility(ctx context.Context, in *GraphState, invoker toolx.Invoker) {
	if in.PsNumber == "" {
		suggestions := searchParts(ctx, in, invoker)
		in.Reply = assistantReply(compatAskPartContent, "Use a suggested part", "Enter a PS number")
		in.Reply.Parts = partCards(suggestions)
		return
	}
	if in.ModelNumber == "" {
		in.Reply = assistantReply(fmt.Sprintf(compatAskModelContent, in.PsNumber), "Enter model number", "Where to find model number")
		return
	}

	fitResult := callTool(ctx, in, invoker, toolx.CheckCompatibility, map[string]any{
		"modelNumber": in.ModelNumber,
		"psNumber":    in.PsNumber,
	})
	fit, _ := toolx.DecodeFit(fitResult)

	part := in.PartFromPs
	if part == nil {
		part = toolx.DecodePart(callTool(ctx, in, invoker, toolx.GetPartDetails, map[string]any{"psNumber": in.PsNumber}))
	}

	confidence := fit.FitConfidence
	if confidence == "" {
		confidence = contractx.FitLow
	}
	compatibility := &contractx.Compatibility{
		ModelNumber:   in.ModelNumber,
		PsNumber:      in.PsNumber,
		FitConfidence: confidence,
		Compatible:    fit.Compatible,
	}

	if fit.Compatible {
		in.Reply = assistantReply(fmt.Sprintf(compatFitContent, in.PsNumber, in.ModelNumber, fit.Notes), "Add to cart", "Show install guide")
	} else {
		notes := fit.Notes
		if notes == "" {
			notes = compatVerifyManually
		}
		in.Reply = assistantReply(fmt.Sprintf(compatNoFitContent, in.ModelNumber, in.PsNumber, notes), "Show alternative parts")
	}
	in.Reply.Compatibility = compatibility
	if part != nil {
		in.Reply.Parts = []contractx.PartCard{{Part: *part, Compatibility: compatibility}}
	}
	in.Reply.Actions = BuildResponseActions(ActionInput{
		Intent:            in.Intent,
		ApplianceType:     in.ApplianceType,
		ModelNumber:       in.ModelNumber,
		PsNumber:          in.PsNumber,
		Compatibility:     compatibility,
		Part:              part,
		WantsAlternatives: in.Classification.WantsAlternatives,
	})
}

// handleInstallGuide never shows a checklist without supporting documents.
func handleInstallGuide(ctx context.Context, in *GraphState, invoker toolx.Invoker) {
	if in.PsNumber == "" {
		in.Reply = assistantReply(installAskPartContent, "Enter part number")
		return
	}

	steps := toolx.DecodeStrings(callTool(ctx, in, invoker, toolx.BuildInstallSteps, map[string]any{"psNumber": in.PsNumber}))
	// ResolvePart already moved ApplianceType to the part's family, so one
	// lookup covers the part's own docs.
	docs := retrieveDocs(ctx, in, invoker, installDocsQuery, in.ApplianceType, in.PsNumber)

	if len(steps) == 0 || len(docs) == 0 {
		in.Reply = assistantReply(installDegradedContent, "Search by model number", "Find compatible part")
		return
	}

	in.Reply = assistantReply(fmt.Sprintf(installChecklistContent, in.PsNumber), "I am stuck", "Show related parts", "Check compatibility")
	in.Reply.Checklist = steps
	in.Reply.Citations = citations(docs)
}

func handleTroubleshooting(ctx context.Context, in *GraphState, invoker toolx.Invoker) {
	docs := retrieveDocs(ctx, in, invoker, in.Message, in.ApplianceType, "")
	parts := searchParts(ctx, in, invoker)

	content := troubleshootVagueContent
	if len(docs) > 0 || len(parts) > 0 {
		content = troubleshootSignalsContent
	}
	in.Reply = assistantReply(content, "Check compatibility", "Start repair guide", "Save this diagnosis")
	in.Reply.Citations = citations(docs)
	in.Reply.Parts = partCards(parts)
	in.Reply.Actions = leadingPartActions(in, parts)
}

func handlePartLookup(ctx context.Context, in *GraphState, invoker toolx.Invoker) {
	matches := searchParts(ctx, in, invoker)

	content := lookupNotFoundContent
	if len(matches) > 0 {
		content = lookupFoundContent
	}
	in.Reply = assistantReply(content, "Check fit", "Add to cart", "Start repair guide")
	in.Reply.Parts = partCards(matches)
	in.Reply.Actions = leadingPartActions(in, matches)
}

// leadingPartActions builds actions around the best match rather than the
// part carried in context.
func leadingPartActions(in *GraphState, parts []contractx.Part) []contractx.ResponseAction {
	input := ActionInput{
		Intent:            in.Intent,
		ApplianceType:     in.ApplianceType,
		ModelNumber:       in.ModelNumber,
		PsNumber:          in.PsNumber,
		WantsAlternatives: in.Classification.WantsAlternatives,
	}
	if len(parts) > 0 {
		lead := parts[0]
		input.Part = &lead
		if lead.PsNumber != "" {
			input.PsNumber = lead.PsNumber
		}
	}
	return BuildResponseActions(input)
}

func searchParts(ctx context.Context, in *GraphState, invoker toolx.Invoker) []contractx.Part {
	result := callTool(ctx, in, invoker, toolx.SearchParts, map[string]any{
		"query":         in.Message,
		"applianceType": string(in.ApplianceType),
	})
	return toolx.DecodeParts(result)
}

func retrieveDocs(ctx context.Context, in *GraphState, invoker toolx.Invoker, query string, appliance contractx.ApplianceType, psNumber string) []contractx.Doc {
	input := map[string]any{
		"query":         query,
		"applianceType": string(appliance),
	}
	if psNumber != "" {
		input["psNumber"] = psNumber
	}
	return toolx.DecodeDocs(callTool(ctx, in, invoker, toolx.RetrieveDocs, input))
}

func partCards(parts []contractx.Part) []contractx.PartCard {
	if len(parts) == 0 {
		return nil
	}
	cards := make([]contractx.PartCard, 0, len(parts))
	for _, p := range parts {
		cards = append(cards, contractx.PartCard{Part: p})
	}
	return cards
}

func citations(docs []contractx.Doc) []contractx.Citation {
	if len(docs) == 0 {
		return nil
	}
	out := make([]contractx.Citation, 0, len(docs))
	for _, d := range docs {
		out = append(out, contractx.CitationFromDoc(d))
	}
	return out
}
