package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"bikeshare-backend/internal/domain"
	"bikeshare-backend/internal/logger"
	"bikeshare-backend/internal/security"
	"bikeshare-backend/internal/service"
)

// failureStatus maps every business failure code to its HTTP status.
// Codes not listed here are infrastructure defects and become a 500.
var failureStatus = map[string]int{
	"RENTAL_NOT_FOUND":       http.StatusNotFound,
	"BIKE_NOT_FOUND":         http.StatusNotFound,
	"USER_WALLET_NOT_FOUND":  http.StatusNotFound,
	"SUBSCRIPTION_NOT_FOUND": http.StatusNotFound,
	"RESERVATION_NOT_FOUND":  http.StatusNotFound,

	"ACTIVE_RENTAL_EXISTS":       http.StatusConflict,
	"BIKE_ALREADY_RENTED":        http.StatusConflict,
	"ACTIVE_SUBSCRIPTION_EXISTS": http.StatusConflict,
	"BIKE_MISSING_STATION":       http.StatusConflict,
	"BIKE_NOT_FOUND_IN_STATION":  http.StatusConflict,
	"BIKE_IS_BROKEN":             http.StatusConflict,
	"BIKE_IS_MAINTAINED":         http.StatusConflict,
	"BIKE_IS_RESERVED":           http.StatusConflict,
	"BIKE_UNAVAILABLE":           http.StatusConflict,

	"INVALID_RENTAL_STATE":        http.StatusUnprocessableEntity,
	"END_STATION_MISMATCH":        http.StatusUnprocessableEntity,
	"INVALID_RESERVATION_STATE":   http.StatusUnprocessableEntity,
	"SUBSCRIPTION_NOT_PENDING":    http.StatusUnprocessableEntity,
	"SUBSCRIPTION_NOT_USABLE":     http.StatusUnprocessableEntity,
	"SUBSCRIPTION_EXPIRED":        http.StatusUnprocessableEntity,
	"SUBSCRIPTION_USAGE_EXCEEDED": http.StatusUnprocessableEntity,

	"INSUFFICIENT_BALANCE":         http.StatusPaymentRequired,
	"INSUFFICIENT_BALANCE_TO_RENT": http.StatusPaymentRequired,
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

func writeErrorCode(w http.ResponseWriter, status int, code, message string) {
	var body errorBody
	body.Error.Code = code
	body.Error.Message = message
	writeJSON(w, status, body)
}

// writeError maps typed business failures to their status and code.
// Anything else is logged with its full cause and surfaced generically.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var failure domain.Failure
	if errors.As(err, &failure) {
		status, ok := failureStatus[failure.Code()]
		if !ok {
			status = http.StatusConflict
		}
		writeErrorCode(w, status, failure.Code(), failure.Error())
		return
	}

	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		writeErrorCode(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", err.Error())
	case errors.Is(err, service.ErrEmailTaken):
		writeErrorCode(w, http.StatusConflict, "EMAIL_TAKEN", err.Error())
	case errors.Is(err, security.ErrInvalidToken),
		errors.Is(err, security.ErrExpiredToken),
		errors.Is(err, security.ErrWrongTokenType):
		writeErrorCode(w, http.StatusUnauthorized, "INVALID_TOKEN", err.Error())
	default:
		logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method, "path", r.URL.Path, "error", err)
		writeErrorCode(w, http.StatusInternalServerError, "INTERNAL", "internal server error")
	}
}

func pageParams(r *http.Request) (int, int) {
	page := 1
	pageSize := 20
	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}
	if v := r.URL.Query().Get("page_size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			pageSize = n
		}
	}
	return page, pageSize
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeErrorCode(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return false
	}
	return true
}
