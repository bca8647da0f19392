package portal

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bookfair/internal/reservations"
	"bookfair/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unreachableClient returns a client pointed at an address nothing
// listens on, so every call fails with connection refused.
func unreachableClient(t *testing.T) *Client {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	return NewClient("http://" + addr)
}

func TestResolver_ListAvailableStallsFallsBack(t *testing.T) {
	resolver := NewResolver(unreachableClient(t), logger.New())
	ctx := context.Background()

	list, degraded, err := resolver.ListAvailableStalls(ctx)

	require.NoError(t, err)
	assert.True(t, degraded)
	require.NotEmpty(t, list)
	for _, stall := range list {
		assert.True(t, stall.IsAvailable)
	}
}

func TestResolver_DegradedReadsAreStable(t *testing.T) {
	resolver := NewResolver(unreachableClient(t), logger.New())
	ctx := context.Background()

	first, degraded, err := resolver.ListStalls(ctx, "", "")
	require.NoError(t, err)
	require.True(t, degraded)

	second, degraded, err := resolver.ListStalls(ctx, "", "")
	require.NoError(t, err)
	require.True(t, degraded)

	assert.Equal(t, first, second)
}

func TestResolver_ListStallsAppliesFilters(t *testing.T) {
	resolver := NewResolver(unreachableClient(t), logger.New())
	ctx := context.Background()

	list, degraded, err := resolver.ListStalls(ctx, "AVAILABLE", "SMALL")

	require.NoError(t, err)
	assert.True(t, degraded)
	for _, stall := range list {
		assert.Equal(t, "AVAILABLE", string(stall.Status))
		assert.Equal(t, "SMALL", string(stall.Size))
	}
}

func TestResolver_ApplicationErrorsPassThrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"status": "error", "status_code": 404, "message": "Reservation not found", "errors": {"code": "NOT_FOUND"}}`))
	}))
	defer server.Close()

	resolver := NewResolver(NewClient(server.URL), logger.New())

	_, degraded, err := resolver.GetReservation(context.Background(), uuid.New())

	// The backend answered; its answer is not replaced with mock data
	assert.False(t, degraded)
	assert.ErrorIs(t, err, reservations.ErrNotFound)
}

func TestResolver_CreateReservationFabricatesWhenOffline(t *testing.T) {
	resolver := NewResolver(unreachableClient(t), logger.New())
	ctx := context.Background()

	// Selecting stalls from the synthetic catalog echoes their prices
	mock := resolver.mockData()
	first := mock.stalls[0]
	second := mock.stalls[1]

	date := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	created, degraded, err := resolver.CreateReservation(ctx, date, []uuid.UUID{first.ID, second.ID})

	require.NoError(t, err)
	assert.True(t, degraded)
	assert.Equal(t, reservations.StatusPending, created.Status)
	assert.Equal(t, date, created.ReservationDate)
	assert.Equal(t, first.Price+second.Price, created.TotalAmount)
	require.Len(t, created.Stalls, 2)
	assert.Equal(t, first.StallNumber, created.Stalls[0].StallNumber)
	assert.NotEqual(t, uuid.Nil, created.ID)
}

func TestResolver_FabricatedReservationPrefersLiveCatalog(t *testing.T) {
	stallID := uuid.New()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"status": "success",
			"status_code": 200,
			"data": [{"id": "` + stallID.String() + `", "stall_number": "ST-042", "price": 275, "is_available": true}]
		}`))
	}))

	resolver := NewResolver(NewClient(server.URL), logger.New())
	ctx := context.Background()

	// A successful listing seeds the live catalog
	_, degraded, err := resolver.ListAvailableStalls(ctx)
	require.NoError(t, err)
	require.False(t, degraded)

	// Then the backend goes away
	server.Close()

	created, degraded, err := resolver.CreateReservation(ctx, time.Now(), []uuid.UUID{stallID})
	require.NoError(t, err)
	assert.True(t, degraded)
	require.Len(t, created.Stalls, 1)
	assert.Equal(t, "ST-042", created.Stalls[0].StallNumber)
	assert.Equal(t, 275.0, created.TotalAmount)
}

func TestResolver_GetReservationUnknownIDWhileOffline(t *testing.T) {
	resolver := NewResolver(unreachableClient(t), logger.New())

	_, degraded, err := resolver.GetReservation(context.Background(), uuid.New())

	assert.True(t, degraded)
	assert.ErrorIs(t, err, reservations.ErrNotFound)
}

func TestResolver_LifecycleWritesDoNotDegrade(t *testing.T) {
	resolver := NewResolver(unreachableClient(t), logger.New())
	ctx := context.Background()

	_, err := resolver.ConfirmReservation(ctx, uuid.New())
	assert.Error(t, err)

	err = resolver.CancelReservation(ctx, uuid.New())
	assert.Error(t, err)

	err = resolver.ResendConfirmationEmail(ctx, uuid.New())
	assert.Error(t, err)
}

func TestIsConnectivityError(t *testing.T) {
	assert.False(t, isConnectivityError(nil))
	assert.False(t, isConnectivityError(reservations.ErrNotFound))
	assert.True(t, isConnectivityError(context.DeadlineExceeded))
	assert.True(t, isConnectivityError(&net.OpError{Op: "dial", Err: context.DeadlineExceeded}))
	assert.True(t, isConnectivityError(&net.DNSError{Name: "api.internal", IsNotFound: true}))
}
