package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"bikeshare-backend/internal/domain"
	"bikeshare-backend/internal/service"
)

func TestAuthEndpoints_Signup(t *testing.T) {
	t.Run("Created", func(t *testing.T) {
		f := newRouterFixture()
		f.auth.On("Signup", mock.Anything, "Rider", "rider@test.com", "s3cret-password").
			Return(&domain.User{ID: "user-1", Email: "rider@test.com", FullName: "Rider"}, "access-token", "refresh-token", nil)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/signup",
			strings.NewReader(`{"full_name":"Rider","email":"rider@test.com","password":"s3cret-password"}`))
		f.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		var body struct {
			User   domain.User   `json:"user"`
			Tokens tokenResponse `json:"tokens"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, "user-1", body.User.ID)
		assert.Equal(t, "access-token", body.Tokens.AccessToken)
	})

	t.Run("EmailTaken", func(t *testing.T) {
		f := newRouterFixture()
		f.auth.On("Signup", mock.Anything, "Rider", "rider@test.com", "s3cret-password").
			Return(nil, "", "", service.ErrEmailTaken)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/signup",
			strings.NewReader(`{"full_name":"Rider","email":"rider@test.com","password":"s3cret-password"}`))
		f.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "EMAIL_TAKEN", decodeErrorCode(t, rec))
	})

	t.Run("MissingPassword", func(t *testing.T) {
		f := newRouterFixture()

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/signup",
			strings.NewReader(`{"email":"rider@test.com"}`))
		f.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		f.auth.AssertNotCalled(t, "Signup", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAuthEndpoints_Login(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		f := newRouterFixture()
		f.auth.On("Login", mock.Anything, "rider@test.com", "s3cret-password").
			Return("access-token", "refresh-token", nil)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
			strings.NewReader(`{"email":"rider@test.com","password":"s3cret-password"}`))
		f.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var tokens tokenResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&tokens))
		assert.Equal(t, "refresh-token", tokens.RefreshToken)
	})

	t.Run("BadCredentials", func(t *testing.T) {
		f := newRouterFixture()
		f.auth.On("Login", mock.Anything, "rider@test.com", "wrong").
			Return("", "", service.ErrInvalidCredentials)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
			strings.NewReader(`{"email":"rider@test.com","password":"wrong"}`))
		f.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "INVALID_CREDENTIALS", decodeErrorCode(t, rec))
	})
}

func TestWalletEndpoints(t *testing.T) {
	t.Run("TopUp", func(t *testing.T) {
		f := newRouterFixture()
		f.wallets.On("TopUp", mock.Anything, "user-1", int64(50000), "pay-cb-1").
			Return(&domain.Wallet{ID: "w-1", UserID: "user-1", Balance: 75000}, nil)

		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, f.authedRequest(t, http.MethodPost, "/api/v1/wallet/top-up",
			`{"amount":50000,"reference":"pay-cb-1"}`))

		assert.Equal(t, http.StatusOK, rec.Code)
		var wallet domain.Wallet
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&wallet))
		assert.Equal(t, int64(75000), wallet.Balance)
	})

	t.Run("TopUpRejectsNonPositiveAmount", func(t *testing.T) {
		f := newRouterFixture()

		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, f.authedRequest(t, http.MethodPost, "/api/v1/wallet/top-up",
			`{"amount":0,"reference":"pay-cb-1"}`))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		f.wallets.AssertNotCalled(t, "TopUp", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("GetNotFound", func(t *testing.T) {
		f := newRouterFixture()
		f.wallets.On("GetMyWallet", mock.Anything, "user-1").
			Return(nil, &domain.UserWalletNotFoundError{UserID: "user-1"})

		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, f.authedRequest(t, http.MethodGet, "/api/v1/wallet", ""))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "USER_WALLET_NOT_FOUND", decodeErrorCode(t, rec))
	})
}

func TestSubscriptionEndpoints(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		f := newRouterFixture()
		maxUsages := 10
		f.subscriptions.On("Create", mock.Anything, "user-1", service.CreateSubscriptionInput{
			PackageName: "Commuter 10",
			MaxUsages:   &maxUsages,
			Price:       300000,
		}).Return(&domain.Subscription{ID: "sub-1", UserID: "user-1", Status: domain.SubscriptionStatusPending}, nil)

		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, f.authedRequest(t, http.MethodPost, "/api/v1/subscriptions",
			`{"package_name":"Commuter 10","max_usages":10,"price":300000}`))

		assert.Equal(t, http.StatusCreated, rec.Code)
		var sub domain.Subscription
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&sub))
		assert.Equal(t, domain.SubscriptionStatusPending, sub.Status)
	})

	t.Run("CreateConflict", func(t *testing.T) {
		f := newRouterFixture()
		f.subscriptions.On("Create", mock.Anything, "user-1", mock.AnythingOfType("service.CreateSubscriptionInput")).
			Return(nil, &domain.ActiveSubscriptionExistsError{UserID: "user-1"})

		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, f.authedRequest(t, http.MethodPost, "/api/v1/subscriptions",
			`{"package_name":"Commuter 10","price":300000}`))

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "ACTIVE_SUBSCRIPTION_EXISTS", decodeErrorCode(t, rec))
	})

	t.Run("ActivateNotPending", func(t *testing.T) {
		f := newRouterFixture()
		f.subscriptions.On("Activate", mock.Anything, "user-1", "sub-1", mock.AnythingOfType("time.Time")).
			Return(nil, &domain.SubscriptionNotPendingError{SubscriptionID: "sub-1"})

		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, f.authedRequest(t, http.MethodPost, "/api/v1/subscriptions/sub-1/activate", ""))

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, "SUBSCRIPTION_NOT_PENDING", decodeErrorCode(t, rec))
	})
}

func TestReservationEndpoints(t *testing.T) {
	t.Run("Reserve", func(t *testing.T) {
		f := newRouterFixture()
		f.reservations.On("Reserve", mock.Anything, "user-1", mock.MatchedBy(func(in service.ReserveBikeInput) bool {
			return in.BikeID == "bike-1" && in.StationID == "st-1"
		})).Return(&domain.Reservation{ID: "res-1", UserID: "user-1", Prepaid: 10000, Status: domain.ReservationStatusPending}, nil)

		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, f.authedRequest(t, http.MethodPost, "/api/v1/reservations",
			`{"bike_id":"bike-1","station_id":"st-1"}`))

		assert.Equal(t, http.StatusCreated, rec.Code)
		var res domain.Reservation
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
		assert.Equal(t, int64(10000), res.Prepaid)
	})

	t.Run("Confirm", func(t *testing.T) {
		f := newRouterFixture()
		f.reservations.On("Confirm", mock.Anything, "user-1", "res-1", mock.AnythingOfType("time.Time")).
			Return(&domain.Rental{ID: "res-1", UserID: "user-1", Status: domain.RentalStatusRented}, nil)

		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, f.authedRequest(t, http.MethodPost, "/api/v1/reservations/res-1/confirm", ""))

		assert.Equal(t, http.StatusOK, rec.Code)
		var rental domain.Rental
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&rental))
		assert.Equal(t, domain.RentalStatusRented, rental.Status)
	})

	t.Run("CancelInvalidState", func(t *testing.T) {
		f := newRouterFixture()
		f.reservations.On("Cancel", mock.Anything, "user-1", "res-1", mock.AnythingOfType("time.Time")).
			Return(nil, &domain.InvalidReservationStateError{ReservationID: "res-1", Status: domain.ReservationStatusExpired})

		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, f.authedRequest(t, http.MethodPost, "/api/v1/reservations/res-1/cancel", ""))

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, "INVALID_RESERVATION_STATE", decodeErrorCode(t, rec))
	})
}
