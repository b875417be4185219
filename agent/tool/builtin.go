package tool

import (
	"context"
	"errors"
	"fmt"

	contractx "github.com/tanpawarit/Chative-Parts-Assistant/agent/contract"
	"github.com/tanpawarit/Chative-Parts-Assistant/agent/schema"
)

const (
	SearchParts        = "search_parts"
	GetPartDetails     = "get_part_details"
	CheckCompatibility = "check_compatibility"
	RetrieveDocs       = "retrieve_docs"
	BuildInstallSteps  = "build_install_steps"
	OrderLookup        = "order_lookup"
)

const psNumberPattern = `^PS\d{6,}$`

// Deps are the collaborators behind the built-in tools.
type Deps struct {
	Catalog contractx.Catalog
	Docs    contractx.DocRetriever
	Orders  contractx.OrderService
}

func (d Deps) validate() error {
	if d.Catalog == nil {
		return errors.New("catalog is required")
	}
	if d.Docs == nil {
		return errors.New("doc retriever is required")
	}
	if d.Orders == nil {
		return errors.New("order service is required")
	}
	return nil
}

var applianceEnum = []string{string(contractx.ApplianceRefrigerator), string(contractx.ApplianceDishwasher)}

func psNumberSchema() *schema.Schema {
	return schema.String().WithPattern(psNumberPattern)
}

func partSchema() *schema.Schema {
	return schema.Object(
		[]string{"id", "psNumber", "partNumber", "name", "applianceType", "manufacturer", "replaces", "symptoms", "price", "inStock", "shippingEta"},
		map[string]*schema.Schema{
			"id":            schema.String(),
			"psNumber":      schema.String(),
			"partNumber":    schema.String(),
			"name":          schema.String(),
			"applianceType": schema.String().WithEnum(applianceEnum...),
			"manufacturer":  schema.String(),
			"replaces":      schema.ArrayOf(schema.String()),
			"symptoms":      schema.ArrayOf(schema.String()),
			"price":         schema.Number(),
			"inStock":       schema.Boolean(),
			"shippingEta":   schema.String(),
		},
	)
}

func docSchema() *schema.Schema {
	return schema.Object(
		[]string{"id", "title", "url", "docType", "content", "updatedAt"},
		map[string]*schema.Schema{
			"id":        schema.String(),
			"title":     schema.String(),
			"url":       schema.String(),
			"docType":   schema.String(),
			"content":   schema.String(),
			"updatedAt": schema.String(),
		},
	)
}

// BuiltinContracts returns the parts-assistant tool catalog in discovery order.
func BuiltinContracts(deps Deps) ([]Contract, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	public := Auth{Required: false, Level: AuthPublic}

	return []Contract{
		{
			Name:            SearchParts,
			Description:     "Search parts by symptom, part number, or keyword.",
			Auth:            public,
			LatencyBudgetMs: 250,
			InputSchema: schema.Closed([]string{"query", "applianceType"}, map[string]*schema.Schema{
				"query":         schema.String().WithMinLength(1),
				"applianceType": schema.String().WithEnum(applianceEnum...),
			}),
			OutputSchema: schema.ArrayOf(partSchema()),
			Fallback:     EmptyFallback(),
			Handler: func(ctx context.Context, input map[string]any) (any, error) {
				parts, err := deps.Catalog.SearchParts(ctx, stringField(input, "query"), contractx.ApplianceType(stringField(input, "applianceType")))
				if err != nil {
					return nil, err
				}
				out := make([]contractx.Part, 0, len(parts))
				for _, p := range parts {
					out = append(out, wirePart(p))
				}
				return out, nil
			},
		},
		{
			Name:            GetPartDetails,
			Description:     "Get full details for a PartSelect PS number.",
			Auth:            public,
			LatencyBudgetMs: 200,
			InputSchema: schema.Closed([]string{"psNumber"}, map[string]*schema.Schema{
				"psNumber": psNumberSchema(),
			}),
			OutputSchema: schema.Object(nil, map[string]*schema.Schema{
				"id":            schema.String(),
				"psNumber":      schema.String(),
				"partNumber":    schema.String(),
				"name":          schema.String(),
				"applianceType": schema.String(),
				"manufacturer":  schema.String(),
				"replaces":      schema.ArrayOf(schema.String()),
				"symptoms":      schema.ArrayOf(schema.String()),
				"price":         schema.Number(),
				"inStock":       schema.Boolean(),
				"shippingEta":   schema.String(),
			}).AsNullable(),
			Fallback: NullFallback(),
			Handler: func(ctx context.Context, input map[string]any) (any, error) {
				part, err := deps.Catalog.GetPartDetails(ctx, stringField(input, "psNumber"))
				if errors.Is(err, contractx.ErrPartNotFound) || (err == nil && part == nil) {
					return nil, nil
				}
				if err != nil {
					return nil, err
				}
				p := wirePart(*part)
				return &p, nil
			},
		},
		{
			Name:            CheckCompatibility,
			Description:     "Check whether a part fits an appliance model number.",
			Auth:            public,
			LatencyBudgetMs: 300,
			InputSchema: schema.Closed([]string{"modelNumber", "psNumber"}, map[string]*schema.Schema{
				"modelNumber": schema.String().WithMinLength(6),
				"psNumber":    psNumberSchema(),
			}),
			OutputSchema: schema.Object([]string{"compatible", "fitConfidence", "notes"}, map[string]*schema.Schema{
				"compatible":    schema.Boolean(),
				"fitConfidence": schema.String().WithEnum(string(contractx.FitHigh), string(contractx.FitMedium), string(contractx.FitLow)),
				"notes":         schema.String(),
			}),
			Fallback: StaticFallback(map[string]any{
				"compatible":    false,
				"fitConfidence": string(contractx.FitLow),
				"notes":         "Compatibility service unavailable. Confirm fit manually with model and serial.",
			}),
			Handler: func(ctx context.Context, input map[string]any) (any, error) {
				return deps.Catalog.CheckCompatibility(ctx, stringField(input, "modelNumber"), stringField(input, "psNumber"))
			},
		},
		{
			Name:            RetrieveDocs,
			Description:     "Retrieve ranked install, repair, and troubleshooting documents.",
			Auth:            public,
			LatencyBudgetMs: 450,
			InputSchema: schema.Closed([]string{"query", "applianceType"}, map[string]*schema.Schema{
				"query":         schema.String().WithMinLength(1),
				"applianceType": schema.String().WithEnum(applianceEnum...),
				"psNumber":      schema.String(),
			}),
			OutputSchema: schema.ArrayOf(docSchema()),
			Fallback:     EmptyFallback(),
			Handler: func(ctx context.Context, input map[string]any) (any, error) {
				docs, err := deps.Docs.RetrieveDocs(ctx, contractx.DocQuery{
					Query:         stringField(input, "query"),
					ApplianceType: contractx.ApplianceType(stringField(input, "applianceType")),
					PsNumber:      stringField(input, "psNumber"),
				})
				if err != nil {
					return nil, err
				}
				if docs == nil {
					docs = []contractx.Doc{}
				}
				return docs, nil
			},
		},
		{
			Name:            BuildInstallSteps,
			Description:     "Build an ordered install checklist for a part.",
			Auth:            public,
			LatencyBudgetMs: 250,
			InputSchema: schema.Closed([]string{"psNumber"}, map[string]*schema.Schema{
				"psNumber": psNumberSchema(),
			}),
			OutputSchema: schema.ArrayOf(schema.String()),
			Fallback:     EmptyFallback(),
			Handler: func(ctx context.Context, input map[string]any) (any, error) {
				steps, err := deps.Catalog.BuildInstallSteps(ctx, stringField(input, "psNumber"))
				if err != nil {
					return nil, err
				}
				if steps == nil {
					steps = []string{}
				}
				return steps, nil
			},
		},
		{
			Name:            OrderLookup,
			Description:     "Look up order status through the secure order service.",
			Auth:            Auth{Required: true, Level: AuthCustomerSession},
			LatencyBudgetMs: 1200,
			InputSchema: schema.Closed([]string{"orderId", "postalCode"}, map[string]*schema.Schema{
				"orderId":    schema.String().WithMinLength(3),
				"postalCode": schema.String().WithMinLength(3),
			}),
			OutputSchema: schema.Object([]string{"status", "message"}, map[string]*schema.Schema{
				"status":  schema.String(),
				"message": schema.String(),
			}),
			Fallback: StaticFallback(map[string]any{
				"status":  "unavailable",
				"message": "Order service unavailable. Use secure form retry or customer support.",
			}),
			Handler: func(ctx context.Context, input map[string]any) (any, error) {
				return deps.Orders.LookupOrder(ctx, contractx.OrderQuery{
					OrderID:    stringField(input, "orderId"),
					PostalCode: stringField(input, "postalCode"),
					Action:     contractx.OrderTrack,
				})
			},
		},
	}, nil
}

// NewBuiltinRuntime wires the built-in catalog into a ready Runtime.
func NewBuiltinRuntime(deps Deps, opts ...RuntimeOption) (*Runtime, error) {
	contracts, err := BuiltinContracts(deps)
	if err != nil {
		return nil, err
	}
	registry, err := NewRegistry(contracts...)
	if err != nil {
		return nil, fmt.Errorf("build registry: %w", err)
	}
	return NewRuntime(registry, opts...)
}

func stringField(input map[string]any, key string) string {
	s, _ := input[key].(string)
	return s
}

// wirePart keeps list fields as JSON arrays.
func wirePart(p contractx.Part) contractx.Part {
	if p.Replaces == nil {
		p.Replaces = []string{}
	}
	if p.Symptoms == nil {
		p.Symptoms = []string{}
	}
	return p
}
