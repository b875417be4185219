package contract

import "strings"

type ApplianceType string

const (
	ApplianceRefrigerator ApplianceType = "refrigerator"
	ApplianceDishwasher   ApplianceType = "dishwasher"
	ApplianceUnknown      ApplianceType = ""
)

// InScope reports whether the assistant supports this appliance family.
func (a ApplianceType) InScope() bool {
	return a == ApplianceRefrigerator || a == ApplianceDishwasher
}

// NormalizeAppliance lowercases and trims a caller-supplied appliance type.
func NormalizeAppliance(raw string) ApplianceType {
	return ApplianceType(strings.ToLower(strings.TrimSpace(raw)))
}

type Intent string

const (
	IntentPartLookup         Intent = "PART_LOOKUP"
	IntentCompatibilityCheck Intent = "COMPATIBILITY_CHECK"
	IntentInstallGuide       Intent = "INSTALL_GUIDE"
	IntentTroubleshooting    Intent = "TROUBLESHOOTING"
	IntentOrderSupport       Intent = "ORDER_SUPPORT"
	IntentOutOfScope         Intent = "OUT_OF_SCOPE"
	IntentError              Intent = "ERROR"
)

type FitConfidence string

const (
	FitHigh   FitConfidence = "high"
	FitMedium FitConfidence = "medium"
	FitLow    FitConfidence = "low"
)

// ConversationContext is carried by the caller from one turn to the next.
type ConversationContext struct {
	ApplianceType    ApplianceType `json:"applianceType"`
	ModelNumber      string        `json:"modelNumber"`
	SelectedPsNumber string        `json:"selectedPsNumber"`
}

type Part struct {
	ID            string   `json:"id" mapstructure:"id"`
	PsNumber      string   `json:"psNumber" mapstructure:"psNumber"`
	PartNumber    string   `json:"partNumber" mapstructure:"partNumber"`
	Name          string   `json:"name" mapstructure:"name"`
	ApplianceType string   `json:"applianceType" mapstructure:"applianceType"`
	Manufacturer  string   `json:"manufacturer" mapstructure:"manufacturer"`
	Replaces      []string `json:"replaces" mapstructure:"replaces"`
	Symptoms      []string `json:"symptoms" mapstructure:"symptoms"`
	Price         float64  `json:"price" mapstructure:"price"`
	InStock       bool     `json:"inStock" mapstructure:"inStock"`
	ShippingEta   string   `json:"shippingEta" mapstructure:"shippingEta"`
}

// FitRecord is a row of the model/part compatibility matrix.
type FitRecord struct {
	ModelNumber   string        `json:"modelNumber"`
	PsNumber      string        `json:"psNumber"`
	FitConfidence FitConfidence `json:"fitConfidence"`
	Notes         string        `json:"notes"`
}

// FitResult is the output of the check_compatibility tool.
type FitResult struct {
	Compatible    bool          `json:"compatible" mapstructure:"compatible"`
	FitConfidence FitConfidence `json:"fitConfidence" mapstructure:"fitConfidence"`
	Notes         string        `json:"notes" mapstructure:"notes"`
}

type Doc struct {
	ID            string `json:"id" mapstructure:"id"`
	ApplianceType string `json:"applianceType,omitempty" mapstructure:"applianceType"`
	Brand         string `json:"brand,omitempty" mapstructure:"brand"`
	PartNumber    string `json:"partNumber,omitempty" mapstructure:"partNumber"`
	DocType       string `json:"docType" mapstructure:"docType"`
	Title         string `json:"title" mapstructure:"title"`
	URL           string `json:"url" mapstructure:"url"`
	Content       string `json:"content" mapstructure:"content"`
	UpdatedAt     string `json:"updatedAt" mapstructure:"updatedAt"`
}

// Compatibility is the fit verdict attached to a reply.
type Compatibility struct {
	ModelNumber   string        `json:"modelNumber"`
	PsNumber      string        `json:"psNumber"`
	FitConfidence FitConfidence `json:"fitConfidence"`
	Compatible    bool          `json:"compatible"`
}

// PartCard is a part rendered in a reply, optionally with its fit verdict.
type PartCard struct {
	Part
	Compatibility *Compatibility `json:"compatibility,omitempty"`
}

type Citation struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	DocType   string `json:"docType"`
	UpdatedAt string `json:"updatedAt"`
}

func CitationFromDoc(d Doc) Citation {
	return Citation{
		ID:        d.ID,
		Title:     d.Title,
		URL:       d.URL,
		DocType:   d.DocType,
		UpdatedAt: d.UpdatedAt,
	}
}

type ActionType string

const (
	ActionCheckoutNow                ActionType = "checkout_now"
	ActionCheckCompatibleAlternative ActionType = "check_compatible_alternatives"
	ActionNotifyWhenInStock          ActionType = "notify_when_in_stock"
)

type ActionStyle string

const (
	StylePrimary   ActionStyle = "primary"
	StyleSecondary ActionStyle = "secondary"
)

type ResponseAction struct {
	ID                   string         `json:"id"`
	Type                 ActionType     `json:"type"`
	Label                string         `json:"label"`
	Style                ActionStyle    `json:"style"`
	Payload              map[string]any `json:"payload"`
	RequiresConfirmation bool           `json:"requiresConfirmation"`
	Enabled              bool           `json:"enabled"`
}

type Response struct {
	Role          string           `json:"role"`
	Content       string           `json:"content"`
	Parts         []PartCard       `json:"parts,omitempty"`
	Checklist     []string         `json:"checklist,omitempty"`
	Citations     []Citation       `json:"citations,omitempty"`
	Actions       []ResponseAction `json:"actions,omitempty"`
	Compatibility *Compatibility   `json:"compatibility,omitempty"`
	NextActions   []string         `json:"nextActions,omitempty"`
}

// ToolCall is the trace entry recorded for every tool invocation in a turn.
type ToolCall struct {
	Name            string `json:"name"`
	Status          string `json:"status"`
	Error           string `json:"error,omitempty"`
	LatencyBudgetMs int    `json:"latencyBudgetMs,omitempty"`
	AuthRequired    bool   `json:"authRequired"`
}

type TurnResult struct {
	Intent    Intent              `json:"intent"`
	Context   ConversationContext `json:"context"`
	Response  Response            `json:"response"`
	ToolCalls []ToolCall          `json:"toolCalls"`
}
