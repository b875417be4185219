package orders

import (
	"context"
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/Chative-Parts-Assistant/agent/contract"
)

const (
	StatusInTransit           = "in_transit"
	StatusReturnRequested     = "return_requested"
	StatusCancelPendingReview = "cancel_pending_review"

	stubDelivery = "2026-02-18"
)

var stubResponses = map[contractx.OrderAction]contractx.OrderStatus{
	contractx.OrderTrack: {
		Status:            StatusInTransit,
		EstimatedDelivery: stubDelivery,
		Message:           "Tracking is stubbed. Replace this service with the commerce backend integration.",
	},
	contractx.OrderReturn: {
		Status:  StatusReturnRequested,
		Message: "Return flow is stubbed. A production backend creates an RMA and sends return-label instructions.",
	},
	contractx.OrderCancel: {
		Status:  StatusCancelPendingReview,
		Message: "Cancellation flow is stubbed. A production backend validates fulfillment state before cancelling.",
	},
}

// Stub answers order requests with canned statuses until a commerce backend
// is connected.
type Stub struct{}

var _ contractx.OrderService = Stub{}

func NewStub() Stub {
	return Stub{}
}

func (Stub) LookupOrder(_ context.Context, q contractx.OrderQuery) (contractx.OrderStatus, error) {
	action, err := ParseAction(string(q.Action))
	if err != nil {
		return contractx.OrderStatus{}, err
	}
	if strings.TrimSpace(q.OrderID) == "" || strings.TrimSpace(q.PostalCode) == "" {
		return contractx.OrderStatus{}, fmt.Errorf("%w: missing order ID or postal code", contractx.ErrValidation)
	}
	return stubResponses[action], nil
}

// ParseAction defaults an empty action to track.
func ParseAction(raw string) (contractx.OrderAction, error) {
	action := contractx.OrderAction(strings.ToLower(strings.TrimSpace(raw)))
	if action == "" {
		return contractx.OrderTrack, nil
	}
	if _, ok := stubResponses[action]; !ok {
		return "", fmt.Errorf("%w: invalid order support action, use track, return, or cancel", contractx.ErrValidation)
	}
	return action, nil
}

// Redact keeps the last four order-id characters and the first three postal
// code characters for telemetry.
func Redact(q contractx.OrderQuery) map[string]any {
	return map[string]any{
		"action":           string(q.Action),
		"orderIdLast4":     lastRunes(q.OrderID, 4),
		"postalCodePrefix": firstRunes(q.PostalCode, 3),
	}
}

func lastRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[len(r)-n:])
}

func firstRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
