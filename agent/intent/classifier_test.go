package intent

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	contractx "github.com/tanpawarit/Chative-Parts-Assistant/agent/contract"
)

func TestClassifyIntentPrecedence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		message string
		want    contractx.Intent
	}{
		{"Where is my order?", contractx.IntentOrderSupport},
		{"I want to return the part that does not fit", contractx.IntentOrderSupport},
		{"Is this part compatible with my WDT780SAEM1 model?", contractx.IntentCompatibilityCheck},
		{"Will PS11752778 fit my fridge", contractx.IntentCompatibilityCheck},
		{"How can I install part number PS11752778?", contractx.IntentInstallGuide},
		{"need to replace the leaking valve", contractx.IntentInstallGuide},
		{"The ice maker on my Whirlpool fridge is not working. How can I fix it?", contractx.IntentTroubleshooting},
		{"dishwasher leak under the door", contractx.IntentTroubleshooting},
		{"door shelf bin", contractx.IntentPartLookup},
		{"", contractx.IntentPartLookup},
	}
	for _, tt := range tests {
		if got := ClassifyIntent(tt.message); got != tt.want {
			t.Fatalf("ClassifyIntent(%q) = %s, want %s", tt.message, got, tt.want)
		}
	}
}

func TestIsInScope(t *testing.T) {
	t.Parallel()

	tests := []struct {
		message string
		want    bool
	}{
		{"", true},
		{"   ", true},
		{"My fridge ice maker is broken", true},
		{"Need a part for the dish washer", true},
		{"My oven will not heat", false},
		{"dryer belt snapped", false},
		{"my washer and my dishwasher both leak", true},
		{"what is the weather today", false},
		{"WDT780SAEM1", true},
		{"the microwave needs PS11752778", true},
		{"rangefinder part", true},
	}
	for _, tt := range tests {
		if got := IsInScope(tt.message); got != tt.want {
			t.Fatalf("IsInScope(%q) = %v, want %v", tt.message, got, tt.want)
		}
	}
}

func TestExtractPsNumber(t *testing.T) {
	t.Parallel()

	if got := ExtractPsNumber("is ps11752778 or PS3406971 better"); got != "PS11752778" {
		t.Fatalf("ExtractPsNumber() = %q", got)
	}
	if got := ExtractPsNumber("PS12345 is too short"); got != "" {
		t.Fatalf("ExtractPsNumber(short) = %q", got)
	}
}

func TestExtractModelNumber(t *testing.T) {
	t.Parallel()

	tests := []struct {
		message string
		want    string
	}{
		{"Is PS11752778 compatible with my wdt780saem1 model?", "WDT780SAEM1"},
		{"model WRS325SDHZ-01 please", "WRS325SDHZ-01"},
		{"PS11752778 only", ""},
		{"lettersonly and 12345678", ""},
		{"short A1", ""},
	}
	for _, tt := range tests {
		if got := ExtractModelNumber(tt.message); got != tt.want {
			t.Fatalf("ExtractModelNumber(%q) = %q, want %q", tt.message, got, tt.want)
		}
	}
}

func TestInferAppliance(t *testing.T) {
	t.Parallel()

	if got := InferAppliance("Dishwasher ", "my fridge"); got != contractx.ApplianceRefrigerator {
		t.Fatalf("appliance named in the message should win, got %q", got)
	}
	if got := InferAppliance("Dishwasher ", "it is leaking"); got != contractx.ApplianceDishwasher {
		t.Fatalf("carried appliance should apply when none is named, got %q", got)
	}
	if got := InferAppliance("oven", "my fridge"); got != contractx.ApplianceRefrigerator {
		t.Fatalf("out-of-scope carried value should be ignored, got %q", got)
	}
	if got := InferAppliance("", "hello"); got != contractx.ApplianceUnknown {
		t.Fatalf("InferAppliance() = %q, want unknown", got)
	}
}

func TestClassifyBundlesDecisions(t *testing.T) {
	t.Parallel()

	got := Classify("  Any alternative to PS11752778 for my WDT780SAEM1 dishwasher?  ", "")
	if got.PsNumber != "PS11752778" || got.ModelNumber != "WDT780SAEM1" {
		t.Fatalf("Classify() entities = %#v", got)
	}
	if !got.WantsAlternatives || !got.InScope || got.ApplianceType != contractx.ApplianceDishwasher {
		t.Fatalf("Classify() = %#v", got)
	}
}

func TestClassifierProperties(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("a valid PS number is always extracted and never out of scope", prop.ForAll(
		func(digits string, prefix string) bool {
			ps := "PS" + digits
			msg := prefix + " " + ps + " oven"
			return ExtractPsNumber(msg) == ps && IsInScope(msg)
		},
		gen.RegexMatch(`[0-9]{6,10}`),
		gen.AlphaString(),
	))

	properties.Property("extracted model numbers mix letters and digits", prop.ForAll(
		func(msg string) bool {
			model := ExtractModelNumber(msg)
			if model == "" {
				return true
			}
			return len(model) >= 7 && len(model) <= 16 &&
				strings.IndexFunc(model, isASCIILetter) >= 0 &&
				strings.ContainsAny(model, "0123456789") &&
				!strings.HasPrefix(model, "PS")
		},
		gen.AnyString(),
	))

	properties.Property("order language beats every other intent", prop.ForAll(
		func(rest string) bool {
			return ClassifyIntent("please track "+rest) == contractx.IntentOrderSupport
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
