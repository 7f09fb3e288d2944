package http

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"bikeshare-backend/internal/service"
)

type RentalHandler struct {
	rentalSvc service.RentalService
}

func NewRentalHandler(rentalSvc service.RentalService) *RentalHandler {
	return &RentalHandler{rentalSvc: rentalSvc}
}

type startRentalRequest struct {
	BikeID         string  `json:"bike_id"`
	StationID      string  `json:"station_id"`
	SubscriptionID *string `json:"subscription_id,omitempty"`
}

type endRentalRequest struct {
	EndStationID string `json:"end_station_id"`
}

func (h *RentalHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req startRentalRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.BikeID == "" || req.StationID == "" {
		writeErrorCode(w, http.StatusBadRequest, "BAD_REQUEST", "bike_id and station_id are required")
		return
	}

	rental, err := h.rentalSvc.StartRental(r.Context(), userIDFrom(r.Context()), service.StartRentalInput{
		BikeID:         req.BikeID,
		StationID:      req.StationID,
		SubscriptionID: req.SubscriptionID,
		At:             time.Now().UTC(),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rental)
}

func (h *RentalHandler) End(w http.ResponseWriter, r *http.Request) {
	var req endRentalRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.EndStationID == "" {
		writeErrorCode(w, http.StatusBadRequest, "BAD_REQUEST", "end_station_id is required")
		return
	}

	rental, err := h.rentalSvc.EndRental(r.Context(), userIDFrom(r.Context()), service.EndRentalInput{
		RentalID:     mux.Vars(r)["id"],
		EndStationID: req.EndStationID,
		At:           time.Now().UTC(),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rental)
}

func (h *RentalHandler) Get(w http.ResponseWriter, r *http.Request) {
	rental, err := h.rentalSvc.GetMyRental(r.Context(), userIDFrom(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rental)
}

func (h *RentalHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pageParams(r)
	rentals, total, err := h.rentalSvc.ListMyRentals(r.Context(), userIDFrom(r.Context()),
		r.URL.Query().Get("status"), page, pageSize)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"rentals": rentals,
		"total":   total,
		"page":    page,
	})
}
