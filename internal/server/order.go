package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/Chative-Parts-Assistant/agent/contract"
	"github.com/tanpawarit/Chative-Parts-Assistant/agent/orders"
)

const EventOrderLookup = "order_lookup"

type orderRequest struct {
	OrderID    string `json:"orderId"`
	PostalCode string `json:"postalCode"`
	Action     string `json:"action"`
}

type orderResponse struct {
	OrderID string                `json:"orderId"`
	Action  contractx.OrderAction `json:"action"`
	contractx.OrderStatus
}

// handleOrder is the secure order surface. Order identifiers reach telemetry
// only in redacted form.
func (s *Server) handleOrder(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body.")
		return
	}

	action, err := orders.ParseAction(req.Action)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid order support action. Use track, return, or cancel.")
		return
	}
	q := contractx.OrderQuery{
		OrderID:    strings.TrimSpace(req.OrderID),
		PostalCode: strings.TrimSpace(req.PostalCode),
		Action:     action,
	}
	if q.OrderID == "" || q.PostalCode == "" {
		writeError(w, http.StatusBadRequest, "Missing order ID or postal code.")
		return
	}

	s.track(r.Context(), EventOrderLookup, orders.Redact(q))

	status, err := s.deps.Orders.LookupOrder(r.Context(), q)
	if err != nil {
		if errors.Is(err, contractx.ErrValidation) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Error().Err(err).Str("action", string(action)).Msg("order lookup failed")
		writeError(w, http.StatusBadGateway, "Order service unavailable. Use secure form retry or customer support.")
		return
	}

	writeJSON(w, http.StatusOK, orderResponse{OrderID: q.OrderID, Action: action, OrderStatus: status})
}
