package handlers

import (
	"net/http"

	"github.com/chiedozieu/website-builder/internal/api/middleware"
	"github.com/chiedozieu/website-builder/internal/api/types"
	"github.com/chiedozieu/website-builder/internal/services"
)

type CreditsHandler struct {
	ledger services.CreditLedger
}

func NewCreditsHandler(ledger services.CreditLedger) *CreditsHandler {
	return &CreditsHandler{ledger: ledger}
}

func (h *CreditsHandler) Balance(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	credits, err := h.ledger.Balance(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: map[string]int{"credits": credits}})
}
