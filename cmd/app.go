package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/tanpawarit/Chative-Parts-Assistant/agent/agents/chat"
	"github.com/tanpawarit/Chative-Parts-Assistant/agent/agents/orchestrator"
	"github.com/tanpawarit/Chative-Parts-Assistant/agent/catalog"
	contractx "github.com/tanpawarit/Chative-Parts-Assistant/agent/contract"
	"github.com/tanpawarit/Chative-Parts-Assistant/agent/docs"
	llmx "github.com/tanpawarit/Chative-Parts-Assistant/agent/llm"
	"github.com/tanpawarit/Chative-Parts-Assistant/agent/orders"
	statex "github.com/tanpawarit/Chative-Parts-Assistant/agent/state"
	"github.com/tanpawarit/Chative-Parts-Assistant/agent/telemetry"
	toolx "github.com/tanpawarit/Chative-Parts-Assistant/agent/tool"
	configx "github.com/tanpawarit/Chative-Parts-Assistant/pkg/config"
	"github.com/tanpawarit/Chative-Parts-Assistant/pkg/observability"
	openrouterx "github.com/tanpawarit/Chative-Parts-Assistant/pkg/openrouter"
	qstashx "github.com/tanpawarit/Chative-Parts-Assistant/pkg/qstash"
)

// app holds the wired components shared by every command.
type app struct {
	runtime   *toolx.Runtime
	chat      *chat.Service
	orders    contractx.OrderService
	telemetry contractx.Telemetry
	closers   []func(context.Context) error
}

func buildApp(ctx context.Context) (*app, error) {
	a := &app{}
	ok := false
	defer func() {
		if !ok {
			_ = a.Close(context.Background())
		}
	}()

	otelCfg, err := configx.New[observability.Config]("OTEL")
	if err != nil {
		return nil, fmt.Errorf("load otel config: %w", err)
	}
	shutdownTracing, err := observability.Setup(ctx, *otelCfg)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, shutdownTracing)

	catalogCfg, err := configx.New[catalog.Config]("CATALOG")
	if err != nil {
		return nil, fmt.Errorf("load catalog config: %w", err)
	}
	cat, closeCatalog, err := catalog.Open(ctx, *catalogCfg)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, func(context.Context) error { return closeCatalog() })

	orCfg, err := configx.New[openrouterx.Config]("OPENROUTER")
	if err != nil {
		return nil, fmt.Errorf("load openrouter config: %w", err)
	}

	docsCfg, err := configx.New[docs.Config]("DOCS")
	if err != nil {
		return nil, fmt.Errorf("load docs config: %w", err)
	}
	corpus, err := cat.Docs(ctx)
	if err != nil {
		return nil, err
	}
	retriever, err := docs.Open(ctx, *docsCfg, corpus, openrouterx.NewClient(*orCfg))
	if err != nil {
		return nil, err
	}

	a.orders = orders.NewStub()
	a.runtime, err = toolx.NewBuiltinRuntime(toolx.Deps{Catalog: cat, Docs: retriever, Orders: a.orders})
	if err != nil {
		return nil, err
	}

	turns, err := orchestrator.New(a.runtime)
	if err != nil {
		return nil, err
	}

	llmCfg, err := configx.New[llmx.Config]("LLM")
	if err != nil {
		return nil, fmt.Errorf("load llm config: %w", err)
	}
	rewriter, err := llmx.New(ctx, orCfg, *llmCfg)
	if err != nil {
		return nil, err
	}

	a.telemetry, err = openTelemetry()
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, func(context.Context) error {
		telemetry.Flush(a.telemetry)
		return nil
	})

	store, err := openStateStore()
	if err != nil {
		return nil, err
	}
	if closer, isCloser := store.(interface{ Close() error }); isCloser {
		a.closers = append(a.closers, func(context.Context) error { return closer.Close() })
	}

	a.chat, err = chat.New(turns,
		chat.WithRewriter(rewriter),
		chat.WithTelemetry(a.telemetry),
		chat.WithStore(store),
	)
	if err != nil {
		return nil, err
	}

	ok = true
	return a, nil
}

func openTelemetry() (contractx.Telemetry, error) {
	cfg, err := configx.New[telemetry.Config]("TELEMETRY")
	if err != nil {
		return nil, fmt.Errorf("load telemetry config: %w", err)
	}
	var client *qstashx.Client
	if strings.EqualFold(strings.TrimSpace(cfg.Sink), telemetry.SinkQStash) {
		qCfg, err := configx.New[qstashx.Config]("QSTASH")
		if err != nil {
			return nil, fmt.Errorf("load qstash config: %w", err)
		}
		if client, err = qstashx.NewClient(*qCfg); err != nil {
			return nil, err
		}
	}
	return telemetry.Open(*cfg, client)
}

func openStateStore() (statex.Store, error) {
	cfg, err := configx.New[statex.Config]("STATE")
	if err != nil {
		return nil, fmt.Errorf("load state config: %w", err)
	}
	var upstash *statex.UpstashRedisConfig
	if strings.EqualFold(strings.TrimSpace(cfg.Driver), statex.DriverUpstash) {
		if upstash, err = configx.New[statex.UpstashRedisConfig]("UPSTASH_REDIS"); err != nil {
			return nil, fmt.Errorf("load upstash config: %w", err)
		}
	}
	return statex.Open(*cfg, upstash)
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	if err := errors.Join(errs...); err != nil {
		log.Warn().Err(err).Msg("shutdown finished with errors")
		return err
	}
	return nil
}
