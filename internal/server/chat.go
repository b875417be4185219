package server

import (
	"net/http"

	"github.com/tanpawarit/Chative-Parts-Assistant/agent/agents/chat"
	toolx "github.com/tanpawarit/Chative-Parts-Assistant/agent/tool"
)

func (s *Server) handleListContracts(w http.ResponseWriter, r *http.Request) {
	contracts := s.deps.Contracts
	if contracts == nil {
		contracts = []toolx.ContractView{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"tools": contracts})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chat.TurnRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, chat.Apology(err))
		return
	}

	resp := s.deps.Chat.Respond(r.Context(), req)
	if resp.Failed() {
		writeJSON(w, http.StatusInternalServerError, resp)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
