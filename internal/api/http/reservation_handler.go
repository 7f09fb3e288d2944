package http

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"bikeshare-backend/internal/service"
)

type ReservationHandler struct {
	resSvc service.ReservationService
}

func NewReservationHandler(resSvc service.ReservationService) *ReservationHandler {
	return &ReservationHandler{resSvc: resSvc}
}

type reserveBikeRequest struct {
	BikeID         string  `json:"bike_id"`
	StationID      string  `json:"station_id"`
	SubscriptionID *string `json:"subscription_id,omitempty"`
}

func (h *ReservationHandler) Reserve(w http.ResponseWriter, r *http.Request) {
	var req reserveBikeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.BikeID == "" || req.StationID == "" {
		writeErrorCode(w, http.StatusBadRequest, "BAD_REQUEST", "bike_id and station_id are required")
		return
	}

	reservation, err := h.resSvc.Reserve(r.Context(), userIDFrom(r.Context()), service.ReserveBikeInput{
		BikeID:         req.BikeID,
		StationID:      req.StationID,
		SubscriptionID: req.SubscriptionID,
		At:             time.Now().UTC(),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, reservation)
}

func (h *ReservationHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	rental, err := h.resSvc.Confirm(r.Context(), userIDFrom(r.Context()), mux.Vars(r)["id"], time.Now().UTC())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rental)
}

func (h *ReservationHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	reservation, err := h.resSvc.Cancel(r.Context(), userIDFrom(r.Context()), mux.Vars(r)["id"], time.Now().UTC())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reservation)
}
