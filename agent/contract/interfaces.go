package contract

import "context"

// Catalog is the part catalog collaborator behind the catalog tools.
type Catalog interface {
	SearchParts(ctx context.Context, query string, applianceType ApplianceType) ([]Part, error)
	GetPartDetails(ctx context.Context, psNumber string) (*Part, error)
	CheckCompatibility(ctx context.Context, modelNumber string, psNumber string) (FitResult, error)
	BuildInstallSteps(ctx context.Context, psNumber string) ([]string, error)
}

type DocQuery struct {
	Query         string
	ApplianceType ApplianceType
	PsNumber      string
}

// DocRetriever returns documents ranked by relevance, most recent first on ties.
type DocRetriever interface {
	RetrieveDocs(ctx context.Context, q DocQuery) ([]Doc, error)
}

type OrderAction string

const (
	OrderTrack  OrderAction = "track"
	OrderReturn OrderAction = "return"
	OrderCancel OrderAction = "cancel"
)

type OrderQuery struct {
	OrderID    string      `json:"orderId"`
	PostalCode string      `json:"postalCode"`
	Action     OrderAction `json:"action"`
}

type OrderStatus struct {
	Status            string `json:"status"`
	Message           string `json:"message"`
	EstimatedDelivery string `json:"estimatedDelivery,omitempty"`
}

// OrderService is the secure order backend. The chat path never calls it.
type OrderService interface {
	LookupOrder(ctx context.Context, q OrderQuery) (OrderStatus, error)
}

// Telemetry is fire-and-forget; implementations must not block the caller.
type Telemetry interface {
	Track(ctx context.Context, event string, payload map[string]any)
}

type RewriteRequest struct {
	UserMessage string
	Intent      Intent
	Context     ConversationContext
	Response    Response
	ToolCalls   []ToolCall
}

type RewriteResult struct {
	UsedLLM bool
	Model   string
	Content string
}

// Rewriter may replace only the content text of an assembled reply.
type Rewriter interface {
	Rewrite(ctx context.Context, req RewriteRequest) RewriteResult
}
