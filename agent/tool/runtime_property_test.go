package tool

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/tanpawarit/Chative-Parts-Assistant/agent/schema"
)

func TestRuntimeProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	var handlerCalls atomic.Int64
	guarded := echoContract("guarded", func(ctx context.Context, input map[string]any) (any, error) {
		handlerCalls.Add(1)
		return []string{"ok"}, nil
	})
	guarded.Auth = Auth{Required: true, Level: AuthCustomerSession}

	var emitted atomic.Value
	emitted.Store([]any{})
	mixed := echoContract("mixed", func(ctx context.Context, input map[string]any) (any, error) {
		return emitted.Load(), nil
	})

	rt := mustRuntime(t, guarded, mixed)

	properties.Property("unauthenticated callers never reach an auth-required handler", prop.ForAll(
		func(ps string) bool {
			before := handlerCalls.Load()
			r := rt.Invoke(context.Background(), "guarded", map[string]any{"psNumber": ps}, AuthContext{IsAuthenticated: false})
			return handlerCalls.Load() == before &&
				r.Status() != StatusSuccess &&
				r.Reason() == "Authentication required for this tool."
		},
		gen.AnyString(),
	))

	properties.Property("success data always satisfies the output schema", prop.ForAll(
		func(texts []string, numbers []int) bool {
			out := make([]any, 0, len(texts)+len(numbers))
			for _, s := range texts {
				out = append(out, s)
			}
			for _, n := range numbers {
				out = append(out, n)
			}
			emitted.Store(out)
			r := rt.Invoke(context.Background(), "mixed", map[string]any{"psNumber": "PS123456"}, AuthContext{})
			if r.Status() == StatusSuccess {
				return len(schema.Validate(r.Data(), mixed.OutputSchema)) == 0 && len(numbers) == 0
			}
			return r.Status() == StatusFallback && len(numbers) > 0
		},
		gen.SliceOf(gen.AlphaString()),
		gen.SliceOfN(2, gen.IntRange(0, 9)).Map(func(v []int) []int {
			if v[0]%2 == 0 {
				return nil
			}
			return v
		}),
	))

	properties.Property("malformed part numbers never reach the handler", prop.ForAll(
		func(suffix string) bool {
			before := handlerCalls.Load()
			r := rt.Invoke(context.Background(), "guarded", map[string]any{"psNumber": "PS" + suffix + "x"},
				AuthContext{IsAuthenticated: true, Level: AuthCustomerSession})
			return handlerCalls.Load() == before && r.Status() == StatusFallback
		},
		gen.NumString(),
	))

	properties.TestingRun(t)
}
