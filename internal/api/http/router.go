// Package http exposes the rental marketplace over a JSON API. Every
// business failure surfaces as a stable error code with a fixed HTTP
// status; only infrastructure errors become a 500.
package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"bikeshare-backend/internal/security"
	"bikeshare-backend/internal/service"
)

type RouterDeps struct {
	Tokens        security.TokenManager
	Auth          service.AuthService
	Rentals       service.RentalService
	Wallets       service.WalletService
	Subscriptions service.SubscriptionService
	Reservations  service.ReservationService
}

func NewRouter(deps RouterDeps) *mux.Router {
	authHandler := NewAuthHandler(deps.Auth)
	rentalHandler := NewRentalHandler(deps.Rentals)
	walletHandler := NewWalletHandler(deps.Wallets)
	subHandler := NewSubscriptionHandler(deps.Subscriptions)
	resHandler := NewReservationHandler(deps.Reservations)

	r := mux.NewRouter()
	r.Use(loggingMiddleware)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/auth/signup", authHandler.Signup).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/refresh", authHandler.Refresh).Methods(http.MethodPost)

	protected := api.NewRoute().Subrouter()
	protected.Use(authMiddleware(deps.Tokens))

	protected.HandleFunc("/rentals", rentalHandler.Start).Methods(http.MethodPost)
	protected.HandleFunc("/rentals", rentalHandler.List).Methods(http.MethodGet)
	protected.HandleFunc("/rentals/{id}", rentalHandler.Get).Methods(http.MethodGet)
	protected.HandleFunc("/rentals/{id}/end", rentalHandler.End).Methods(http.MethodPost)

	protected.HandleFunc("/wallet", walletHandler.Get).Methods(http.MethodGet)
	protected.HandleFunc("/wallet/top-up", walletHandler.TopUp).Methods(http.MethodPost)
	protected.HandleFunc("/wallet/transactions", walletHandler.ListTransactions).Methods(http.MethodGet)

	protected.HandleFunc("/subscriptions", subHandler.Create).Methods(http.MethodPost)
	protected.HandleFunc("/subscriptions", subHandler.List).Methods(http.MethodGet)
	protected.HandleFunc("/subscriptions/{id}/activate", subHandler.Activate).Methods(http.MethodPost)

	protected.HandleFunc("/reservations", resHandler.Reserve).Methods(http.MethodPost)
	protected.HandleFunc("/reservations/{id}/confirm", resHandler.Confirm).Methods(http.MethodPost)
	protected.HandleFunc("/reservations/{id}/cancel", resHandler.Cancel).Methods(http.MethodPost)

	return r
}
