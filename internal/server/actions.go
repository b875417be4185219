package server

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"

	contractx "github.com/tanpawarit/Chative-Parts-Assistant/agent/contract"
	toolx "github.com/tanpawarit/Chative-Parts-Assistant/agent/tool"
)

const (
	EventAlternativesLookup     = "alternatives_lookup"
	EventCheckoutSessionCreated = "checkout_session_created"
	EventBackInStockSubscribed  = "back_in_stock_subscribed"

	maxAlternatives        = 4
	checkoutSessionSeconds = 900
)

var (
	psNumberRe = regexp.MustCompile(`^PS\d{6,}$`)
	emailRe    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// Browser actions act on behalf of an anonymous shopper.
var publicAuth = toolx.AuthContext{}

func normalizePsNumber(raw string) (string, bool) {
	ps := strings.ToUpper(strings.TrimSpace(raw))
	return ps, psNumberRe.MatchString(ps)
}

type alternativesRequest struct {
	ApplianceType string `json:"applianceType"`
	ModelNumber   string `json:"modelNumber"`
	PsNumber      string `json:"psNumber"`
}

type alternative struct {
	contractx.Part
	Compatibility *contractx.Compatibility `json:"compatibility"`
}

type alternativesResponse struct {
	OriginalPsNumber string        `json:"originalPsNumber"`
	Alternatives     []alternative `json:"alternatives"`
}

func (s *Server) handleAlternatives(w http.ResponseWriter, r *http.Request) {
	var req alternativesRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body.")
		return
	}

	appliance := contractx.NormalizeAppliance(req.ApplianceType)
	if !appliance.InScope() {
		writeError(w, http.StatusBadRequest, "Action only supports refrigerator and dishwasher.")
		return
	}
	psNumber, ok := normalizePsNumber(req.PsNumber)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid psNumber.")
		return
	}
	modelNumber := strings.TrimSpace(req.ModelNumber)

	ctx := r.Context()
	query := psNumber
	if base := toolx.DecodePart(s.deps.Tools.Invoke(ctx, toolx.GetPartDetails, map[string]any{"psNumber": psNumber}, publicAuth)); base != nil {
		query = base.Name + " replacement"
	}
	found := toolx.DecodeParts(s.deps.Tools.Invoke(ctx, toolx.SearchParts, map[string]any{
		"query":         query,
		"applianceType": string(appliance),
	}, publicAuth))

	candidates := make([]contractx.Part, 0, maxAlternatives)
	for _, part := range found {
		if part.PsNumber == psNumber {
			continue
		}
		candidates = append(candidates, part)
		if len(candidates) == maxAlternatives {
			break
		}
	}

	alternatives := make([]alternative, 0, len(candidates))
	for _, part := range candidates {
		alt := alternative{Part: part}
		if modelNumber != "" {
			result := s.deps.Tools.Invoke(ctx, toolx.CheckCompatibility, map[string]any{
				"modelNumber": modelNumber,
				"psNumber":    part.PsNumber,
			}, publicAuth)
			if result.Data() != nil {
				fit, _ := toolx.DecodeFit(result)
				if !fit.Compatible {
					continue
				}
				alt.Compatibility = &contractx.Compatibility{
					ModelNumber:   modelNumber,
					PsNumber:      part.PsNumber,
					FitConfidence: fit.FitConfidence,
					Compatible:    fit.Compatible,
				}
			}
		}
		alternatives = append(alternatives, alt)
	}

	var model any
	if modelNumber != "" {
		model = modelNumber
	}
	s.track(ctx, EventAlternativesLookup, map[string]any{
		"applianceType":  string(appliance),
		"psNumber":       psNumber,
		"modelNumber":    model,
		"candidateCount": len(alternatives),
	})

	writeJSON(w, http.StatusOK, alternativesResponse{OriginalPsNumber: psNumber, Alternatives: alternatives})
}

type checkoutRequest struct {
	PsNumber string      `json:"psNumber"`
	Quantity json.Number `json:"quantity"`
}

type checkoutResponse struct {
	SessionID        string `json:"sessionId"`
	RedirectURL      string `json:"redirectUrl"`
	ExpiresInSeconds int    `json:"expiresInSeconds"`
}

func (s *Server) handleCheckoutSession(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body.")
		return
	}

	psNumber, ok := normalizePsNumber(req.PsNumber)
	quantity, qtyOK := parseQuantity(req.Quantity)
	if !ok || !qtyOK {
		writeError(w, http.StatusBadRequest, "Invalid checkout payload. Provide psNumber and quantity >= 1.")
		return
	}

	s.track(r.Context(), EventCheckoutSessionCreated, map[string]any{
		"psNumber": psNumber,
		"quantity": quantity,
	})

	writeJSON(w, http.StatusOK, checkoutResponse{
		SessionID:        "chk_" + uuid.NewString(),
		RedirectURL:      fmt.Sprintf("/checkout?part=%s&qty=%d", url.QueryEscape(psNumber), quantity),
		ExpiresInSeconds: checkoutSessionSeconds,
	})
}

// parseQuantity accepts whole numbers only, so 2.0 passes and 2.5 does not.
func parseQuantity(raw json.Number) (int, bool) {
	if raw == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(string(raw), 64)
	if err != nil || f != math.Trunc(f) || f < 1 || f > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

type backInStockRequest struct {
	PsNumber        string `json:"psNumber"`
	Channel         string `json:"channel"`
	Email           string `json:"email"`
	IsAuthenticated bool   `json:"isAuthenticated"`
}

type backInStockResponse struct {
	Status   string `json:"status"`
	PsNumber string `json:"psNumber"`
	Channel  string `json:"channel"`
	Message  string `json:"message"`
}

func (s *Server) handleBackInStock(w http.ResponseWriter, r *http.Request) {
	var req backInStockRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body.")
		return
	}

	psNumber, ok := normalizePsNumber(req.PsNumber)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid psNumber.")
		return
	}
	channel := strings.ToLower(strings.TrimSpace(req.Channel))
	if channel == "" {
		channel = "email"
	}
	if channel != "email" {
		writeError(w, http.StatusBadRequest, "Only the email channel is supported.")
		return
	}
	if !req.IsAuthenticated && !emailRe.MatchString(strings.TrimSpace(req.Email)) {
		writeError(w, http.StatusBadRequest, "Please provide a valid email when you are not authenticated.")
		return
	}

	s.track(r.Context(), EventBackInStockSubscribed, map[string]any{
		"psNumber":        psNumber,
		"channel":         channel,
		"isAuthenticated": req.IsAuthenticated,
	})

	writeJSON(w, http.StatusOK, backInStockResponse{
		Status:   "subscribed",
		PsNumber: psNumber,
		Channel:  channel,
		Message:  fmt.Sprintf("You are subscribed for in-stock alerts on %s.", psNumber),
	})
}
