package dashboard

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"bookfair/internal/reservations"
	"bookfair/internal/stalls"
	"bookfair/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The fakes embed the repository interfaces so only the aggregate
// queries the dashboard uses need real implementations.

type fakeReservationRepo struct {
	reservations.Repository

	byStatus map[reservations.Status]int64
	revenue  float64
	byDay    map[string]int64
}

func (f *fakeReservationRepo) CountByStatus(ctx context.Context) (map[reservations.Status]int64, error) {
	return f.byStatus, nil
}

func (f *fakeReservationRepo) SumConfirmedRevenue(ctx context.Context) (float64, error) {
	return f.revenue, nil
}

func (f *fakeReservationRepo) CountByDay(ctx context.Context, since time.Time) (map[string]int64, error) {
	return f.byDay, nil
}

type fakeStallRepo struct {
	stalls.Repository

	byStatus map[stalls.Status]int64
	bySize   map[stalls.Size]int64
}

func (f *fakeStallRepo) CountByStatus(ctx context.Context) (map[stalls.Status]int64, error) {
	return f.byStatus, nil
}

func (f *fakeStallRepo) CountBySize(ctx context.Context) (map[stalls.Size]int64, error) {
	return f.bySize, nil
}

type passthroughCache struct{}

func (passthroughCache) Get(ctx context.Context, key string, dest interface{}) error { return nil }

func (passthroughCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}

func (passthroughCache) Delete(ctx context.Context, key string) error { return nil }

func (passthroughCache) DeletePattern(ctx context.Context, pattern string) error { return nil }

func (passthroughCache) Exists(ctx context.Context, key string) bool { return false }

func (passthroughCache) GetOrSet(ctx context.Context, key string, ttl time.Duration, fetcher func() (interface{}, error), dest interface{}) error {
	data, err := fetcher()
	if err != nil {
		return err
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

func (passthroughCache) Ping(ctx context.Context) error { return nil }

func TestGetDashboardStats(t *testing.T) {
	today := time.Now().UTC().Format("2006-01-02")

	reservationRepo := &fakeReservationRepo{
		byStatus: map[reservations.Status]int64{
			reservations.StatusPending:   3,
			reservations.StatusConfirmed: 5,
			reservations.StatusCancelled: 2,
		},
		revenue: 2500,
		byDay:   map[string]int64{today: 4},
	}
	stallRepo := &fakeStallRepo{
		byStatus: map[stalls.Status]int64{
			stalls.StatusAvailable:   12,
			stalls.StatusReserved:    6,
			stalls.StatusUnavailable: 2,
		},
		bySize: map[stalls.Size]int64{
			stalls.SizeSmall:  10,
			stalls.SizeMedium: 6,
			stalls.SizeLarge:  4,
		},
	}

	svc := NewService(reservationRepo, stallRepo, passthroughCache{}, logger.New())

	stats, err := svc.GetDashboardStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(10), stats.Reservations.Total)
	assert.Equal(t, int64(3), stats.Reservations.Pending)
	assert.Equal(t, int64(5), stats.Reservations.Confirmed)
	assert.Equal(t, int64(2), stats.Reservations.Cancelled)

	assert.Equal(t, int64(20), stats.Stalls.Total)
	assert.Equal(t, int64(6), stats.Stalls.Reserved)
	assert.Equal(t, int64(10), stats.Stalls.BySize[string(stalls.SizeSmall)])
	assert.InDelta(t, 30.0, stats.Stalls.OccupancyRate, 0.001)

	assert.Equal(t, 2500.0, stats.Revenue.ConfirmedRevenue)
}

func TestGetDashboardStats_TrendHasNoGaps(t *testing.T) {
	today := time.Now().UTC().Format("2006-01-02")

	reservationRepo := &fakeReservationRepo{
		byStatus: map[reservations.Status]int64{},
		byDay:    map[string]int64{today: 7},
	}
	stallRepo := &fakeStallRepo{
		byStatus: map[stalls.Status]int64{},
		bySize:   map[stalls.Size]int64{},
	}

	svc := NewService(reservationRepo, stallRepo, passthroughCache{}, logger.New())

	stats, err := svc.GetDashboardStats(context.Background())
	require.NoError(t, err)

	// Every day of the window is present, zero-filled where nothing happened
	require.Len(t, stats.DailyTrend, 30)
	assert.Equal(t, today, stats.DailyTrend[29].Date)
	assert.Equal(t, int64(7), stats.DailyTrend[29].Count)

	var total int64
	for _, day := range stats.DailyTrend {
		total += day.Count
	}
	assert.Equal(t, int64(7), total)
}

func TestGetDashboardStats_EmptyCatalog(t *testing.T) {
	svc := NewService(
		&fakeReservationRepo{byStatus: map[reservations.Status]int64{}, byDay: map[string]int64{}},
		&fakeStallRepo{byStatus: map[stalls.Status]int64{}, bySize: map[stalls.Size]int64{}},
		passthroughCache{},
		logger.New(),
	)

	stats, err := svc.GetDashboardStats(context.Background())
	require.NoError(t, err)

	// No stalls means no occupancy, not a division by zero
	assert.Equal(t, 0.0, stats.Stalls.OccupancyRate)
	assert.Equal(t, int64(0), stats.Stalls.Total)
}
