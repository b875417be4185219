package tool

import (
	"context"

	"github.com/tanpawarit/Chative-Parts-Assistant/agent/schema"
)

// Handler runs a tool against already-validated input. Failures are returned,
// never panicked; the Runtime converts them into the fallback path.
type Handler func(ctx context.Context, input map[string]any) (any, error)

type AuthLevel string

const (
	AuthPublic          AuthLevel = "public"
	AuthCustomerSession AuthLevel = "customer_session"
)

type Auth struct {
	Required bool      `json:"required"`
	Level    AuthLevel `json:"level"`
}

// AuthContext describes the caller of a tool invocation.
type AuthContext struct {
	IsAuthenticated bool
	Level           AuthLevel
}

type FallbackStrategy string

const (
	FallbackEmpty  FallbackStrategy = "empty"
	FallbackNull   FallbackStrategy = "null"
	FallbackStatic FallbackStrategy = "static"
)

type FallbackPolicy struct {
	Strategy FallbackStrategy `json:"strategy"`
	Value    any              `json:"value"`
}

// Resolve returns the substitute output declared by the policy.
func (p FallbackPolicy) Resolve() any {
	switch p.Strategy {
	case FallbackEmpty:
		return []any{}
	case FallbackNull:
		return nil
	default:
		return p.Value
	}
}

func EmptyFallback() *FallbackPolicy {
	return &FallbackPolicy{Strategy: FallbackEmpty, Value: []any{}}
}

func NullFallback() *FallbackPolicy {
	return &FallbackPolicy{Strategy: FallbackNull}
}

func StaticFallback(value any) *FallbackPolicy {
	return &FallbackPolicy{Strategy: FallbackStatic, Value: value}
}

// Contract binds a named operation to its request/response rules.
// A nil Fallback makes every degraded invocation an error result.
type Contract struct {
	Name            string
	Description     string
	Auth            Auth
	LatencyBudgetMs int
	InputSchema     *schema.Schema
	OutputSchema    *schema.Schema
	Fallback        *FallbackPolicy
	Handler         Handler
}

func (c *Contract) meta() ContractMeta {
	return ContractMeta{Auth: c.Auth, LatencyBudgetMs: c.LatencyBudgetMs}
}

// ContractView is the handler-free view exposed for capability discovery.
type ContractView struct {
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Auth            Auth            `json:"auth"`
	LatencyBudgetMs int             `json:"latencyBudgetMs"`
	InputSchema     map[string]any  `json:"inputSchema"`
	OutputSchema    map[string]any  `json:"outputSchema"`
	Fallback        *FallbackPolicy `json:"fallback"`
}
