// Package intent holds the deterministic, keyword-based turn classifier.
package intent

import (
	"regexp"
	"strings"
	"unicode"

	contractx "github.com/tanpawarit/Chative-Parts-Assistant/agent/contract"
)

var (
	psNumberRe        = regexp.MustCompile(`PS\d{6,}`)
	modelCandidateRe  = regexp.MustCompile(`[A-Z0-9-]{7,16}`)
	inScopeMentionRe  = regexp.MustCompile(`\bfridge\b|\brefrigerator\b|\bdishwasher\b|\bdish washer\b`)
	outOfScopeRe      = regexp.MustCompile(`\b(?:washer|dryer|oven|range|stove|cooktop|microwave|air conditioner|furnace)\b`)
	wantsAlternatives = regexp.MustCompile(`(?i)alternative|another option|other option|substitute`)
)

var inScopeHints = []string{
	"refrigerator", "fridge", "dishwasher", "part", "compatible", "fit", "install",
	"replace", "repair", "troubleshoot", "not working", "ice maker", "order",
	"return", "cancel", "track",
}

// Keyword groups in precedence order; the first group with a hit wins.
var intentRules = []struct {
	intent   contractx.Intent
	keywords []string
}{
	{contractx.IntentOrderSupport, []string{"track", "return", "cancel", "refund", "order"}},
	{contractx.IntentCompatibilityCheck, []string{"compatible", "fit", "works with"}},
	{contractx.IntentInstallGuide, []string{"install", "replace", "remove"}},
	{contractx.IntentTroubleshooting, []string{"not working", "fix", "troubleshoot", "no ice", "leak", "noise"}},
}

// Classification is everything the classifier derives from one message.
type Classification struct {
	Intent            contractx.Intent
	InScope           bool
	PsNumber          string
	ModelNumber       string
	ApplianceType     contractx.ApplianceType
	WantsAlternatives bool
}

// Classify runs every decision over message. carried supplies the appliance
// type from the previous turn and only applies when the message names none.
func Classify(message string, carried contractx.ApplianceType) Classification {
	text := strings.TrimSpace(message)
	return Classification{
		Intent:            ClassifyIntent(text),
		InScope:           IsInScope(text),
		PsNumber:          ExtractPsNumber(text),
		ModelNumber:       ExtractModelNumber(text),
		ApplianceType:     InferAppliance(carried, text),
		WantsAlternatives: wantsAlternatives.MatchString(text),
	}
}

func ClassifyIntent(message string) contractx.Intent {
	q := strings.ToLower(message)
	for _, rule := range intentRules {
		if containsAny(q, rule.keywords) {
			return rule.intent
		}
	}
	return contractx.IntentPartLookup
}

// IsInScope decides whether the message is about a supported appliance.
// Empty text is an opening turn and always in scope. A message carrying a
// valid PS number is in scope whatever appliance it names; the part lookup
// settles the family.
func IsInScope(message string) bool {
	q := strings.ToLower(strings.TrimSpace(message))
	if q == "" {
		return true
	}
	if ExtractPsNumber(q) != "" {
		return true
	}
	if !inScopeMentionRe.MatchString(q) && outOfScopeRe.MatchString(q) {
		return false
	}
	if ExtractModelNumber(q) != "" {
		return true
	}
	return containsAny(q, inScopeHints)
}

// ExtractPsNumber returns the first PS part number, uppercased, or "".
func ExtractPsNumber(text string) string {
	return psNumberRe.FindString(strings.ToUpper(text))
}

// ExtractModelNumber returns the first 7-16 character token of letters,
// digits and hyphens that mixes letters with digits and is not a PS number.
func ExtractModelNumber(text string) string {
	for _, token := range modelCandidateRe.FindAllString(strings.ToUpper(text), -1) {
		if strings.HasPrefix(token, "PS") {
			continue
		}
		if strings.IndexFunc(token, isASCIILetter) >= 0 && strings.IndexFunc(token, unicode.IsDigit) >= 0 {
			return token
		}
	}
	return ""
}

// ExtractAppliance looks for an in-scope appliance name in the text.
func ExtractAppliance(text string) contractx.ApplianceType {
	q := strings.ToLower(text)
	switch {
	case strings.Contains(q, "dishwasher"), strings.Contains(q, "dish washer"):
		return contractx.ApplianceDishwasher
	case strings.Contains(q, "refrigerator"), strings.Contains(q, "fridge"):
		return contractx.ApplianceRefrigerator
	default:
		return contractx.ApplianceUnknown
	}
}

func InferAppliance(carried contractx.ApplianceType, message string) contractx.ApplianceType {
	if named := ExtractAppliance(message); named != contractx.ApplianceUnknown {
		return named
	}
	if normalized := contractx.NormalizeAppliance(string(carried)); normalized.InScope() {
		return normalized
	}
	return contractx.ApplianceUnknown
}

func WantsAlternatives(message string) bool {
	return wantsAlternatives.MatchString(message)
}

func containsAny(s string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}

func isASCIILetter(r rune) bool {
	return r >= 'A' && r <= 'Z'
}
