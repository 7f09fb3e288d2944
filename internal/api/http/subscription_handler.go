package http

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"bikeshare-backend/internal/service"
)

type SubscriptionHandler struct {
	subSvc service.SubscriptionService
}

func NewSubscriptionHandler(subSvc service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subSvc: subSvc}
}

type createSubscriptionRequest struct {
	PackageName string `json:"package_name"`
	MaxUsages   *int   `json:"max_usages,omitempty"`
	Price       int64  `json:"price"`
}

func (h *SubscriptionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createSubscriptionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.PackageName == "" {
		writeErrorCode(w, http.StatusBadRequest, "BAD_REQUEST", "package_name is required")
		return
	}

	sub, err := h.subSvc.Create(r.Context(), userIDFrom(r.Context()), service.CreateSubscriptionInput{
		PackageName: req.PackageName,
		MaxUsages:   req.MaxUsages,
		Price:       req.Price,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sub)
}

func (h *SubscriptionHandler) Activate(w http.ResponseWriter, r *http.Request) {
	sub, err := h.subSvc.Activate(r.Context(), userIDFrom(r.Context()), mux.Vars(r)["id"], time.Now().UTC())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

func (h *SubscriptionHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pageParams(r)
	subs, total, err := h.subSvc.ListMine(r.Context(), userIDFrom(r.Context()), page, pageSize)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"subscriptions": subs,
		"total":         total,
		"page":          page,
	})
}
