package http

import (
	"net/http"

	"bikeshare-backend/internal/service"
)

type WalletHandler struct {
	walletSvc service.WalletService
}

func NewWalletHandler(walletSvc service.WalletService) *WalletHandler {
	return &WalletHandler{walletSvc: walletSvc}
}

type topUpRequest struct {
	Amount    int64  `json:"amount"`
	Reference string `json:"reference"`
}

func (h *WalletHandler) Get(w http.ResponseWriter, r *http.Request) {
	wallet, err := h.walletSvc.GetMyWallet(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wallet)
}

func (h *WalletHandler) TopUp(w http.ResponseWriter, r *http.Request) {
	var req topUpRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Amount <= 0 {
		writeErrorCode(w, http.StatusBadRequest, "BAD_REQUEST", "amount must be positive")
		return
	}

	wallet, err := h.walletSvc.TopUp(r.Context(), userIDFrom(r.Context()), req.Amount, req.Reference)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wallet)
}

func (h *WalletHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pageParams(r)
	txs, total, err := h.walletSvc.ListMyTransactions(r.Context(), userIDFrom(r.Context()), page, pageSize)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"transactions": txs,
		"total":        total,
		"page":         page,
	})
}
