package tool

import (
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/Chative-Parts-Assistant/agent/contract"
	"github.com/tanpawarit/Chative-Parts-Assistant/agent/schema"
)

// Registry is the read-only tool catalog. It is built once at startup and
// shared without locking.
type Registry struct {
	contracts map[string]*Contract
	order     []string
}

func NewRegistry(contracts ...Contract) (*Registry, error) {
	r := &Registry{
		contracts: make(map[string]*Contract, len(contracts)),
		order:     make([]string, 0, len(contracts)),
	}
	for i := range contracts {
		c := contracts[i]
		if err := checkContract(&c); err != nil {
			return nil, err
		}
		if _, dup := r.contracts[c.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate tool name=%s", contractx.ErrValidation, c.Name)
		}
		r.contracts[c.Name] = &c
		r.order = append(r.order, c.Name)
	}
	return r, nil
}

func MustNewRegistry(contracts ...Contract) *Registry {
	r, err := NewRegistry(contracts...)
	if err != nil {
		panic(err)
	}
	return r
}

func checkContract(c *Contract) error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: tool name is empty", contractx.ErrValidation)
	}
	if c.LatencyBudgetMs <= 0 {
		return fmt.Errorf("%w: tool=%s latency budget must be positive", contractx.ErrValidation, c.Name)
	}
	if c.Handler == nil {
		return fmt.Errorf("%w: tool=%s has no handler", contractx.ErrValidation, c.Name)
	}
	if c.Fallback != nil {
		if violations := schema.Validate(c.Fallback.Resolve(), c.OutputSchema); len(violations) > 0 {
			return fmt.Errorf("%w: tool=%s fallback violates output schema: %s",
				contractx.ErrValidation, c.Name, strings.Join(violations, " "))
		}
	}
	return nil
}

// Lookup returns the contract for name. Unknown names report false.
func (r *Registry) Lookup(name string) (*Contract, bool) {
	if r == nil {
		return nil, false
	}
	c, ok := r.contracts[name]
	return c, ok
}

func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// ListContracts returns the redacted catalog in registration order.
func (r *Registry) ListContracts() []ContractView {
	views := make([]ContractView, 0, len(r.order))
	for _, name := range r.order {
		c := r.contracts[name]
		view := ContractView{
			Name:            c.Name,
			Description:     c.Description,
			Auth:            c.Auth,
			LatencyBudgetMs: c.LatencyBudgetMs,
			InputSchema:     c.InputSchema.Map(),
			OutputSchema:    c.OutputSchema.Map(),
		}
		if c.Fallback != nil {
			fb := FallbackPolicy{Strategy: c.Fallback.Strategy, Value: c.Fallback.Resolve()}
			view.Fallback = &fb
		}
		views = append(views, view)
	}
	return views
}
