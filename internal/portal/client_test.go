package portal

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bookfair/internal/reservations"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_ListStallsDecodesEnvelope(t *testing.T) {
	stallID := uuid.New()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stalls", r.URL.Path)
		assert.Equal(t, "AVAILABLE", r.URL.Query().Get("status"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"status": "success",
			"status_code": 200,
			"message": "Stalls retrieved successfully",
			"data": [{"id": "` + stallID.String() + `", "stall_number": "ST-001", "price": 150, "is_available": true}]
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	list, err := client.ListStalls(context.Background(), "AVAILABLE", "")

	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, stallID, list[0].ID)
	assert.Equal(t, "ST-001", list[0].StallNumber)
	assert.Equal(t, 150.0, list[0].Price)
}

func TestClient_SendsBearerToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		w.Write([]byte(`{"status": "success", "status_code": 200, "data": []}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	client.SetToken("test-token")

	_, err := client.ListUserReservations(context.Background())
	require.NoError(t, err)
}

func TestClient_MapsErrorCodeToSentinel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{
			"status": "error",
			"status_code": 409,
			"message": "One or more selected stalls are not available",
			"errors": {"code": "STALL_UNAVAILABLE"}
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.CreateReservation(context.Background(), time.Now(), []uuid.UUID{uuid.New()})

	assert.ErrorIs(t, err, reservations.ErrStallUnavailable)
}

func TestClient_UnknownErrorBecomesServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"status": "error", "status_code": 500, "message": "something broke"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.GetReservation(context.Background(), uuid.New())

	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, http.StatusInternalServerError, svcErr.StatusCode)
	assert.Equal(t, "something broke", svcErr.Message)
}

func TestClient_NullDataMeansFreeStall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "success", "status_code": 200, "message": "Stall has no active reservation", "data": null}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	summary, err := client.GetStallReservation(context.Background(), uuid.New())

	require.NoError(t, err)
	assert.Nil(t, summary)
}

func TestClient_ConfirmDecodesReservation(t *testing.T) {
	reservationID := uuid.New()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/reservations/"+reservationID.String()+"/confirm", r.URL.Path)

		w.Write([]byte(`{
			"status": "success",
			"status_code": 200,
			"data": {"id": "` + reservationID.String() + `", "status": "CONFIRMED"}
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	confirmed, err := client.ConfirmReservation(context.Background(), reservationID)

	require.NoError(t, err)
	assert.Equal(t, reservationID, confirmed.ID)
	assert.Equal(t, reservations.StatusConfirmed, confirmed.Status)
}
