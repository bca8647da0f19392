package stalls

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"bookfair/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeRepository struct {
	stalls map[uuid.UUID]*Stall

	deleted []uuid.UUID
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{stalls: make(map[uuid.UUID]*Stall)}
}

func (f *fakeRepository) put(stall *Stall) *Stall {
	if stall.ID == uuid.Nil {
		stall.ID = uuid.New()
	}
	f.stalls[stall.ID] = stall
	return stall
}

func (f *fakeRepository) CreateStall(ctx context.Context, stall *Stall) error {
	f.put(stall)
	return nil
}

func (f *fakeRepository) GetStallByID(ctx context.Context, id uuid.UUID) (*Stall, error) {
	stall, ok := f.stalls[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return stall, nil
}

func (f *fakeRepository) GetStallsByIDs(ctx context.Context, stallIDs []uuid.UUID) ([]Stall, error) {
	var list []Stall
	for _, id := range stallIDs {
		if stall, ok := f.stalls[id]; ok {
			list = append(list, *stall)
		}
	}
	return list, nil
}

func (f *fakeRepository) ListStalls(ctx context.Context, query StallListQuery) ([]Stall, error) {
	var list []Stall
	for _, stall := range f.stalls {
		if query.Status != "" && string(stall.Status) != query.Status {
			continue
		}
		if query.Size != "" && string(stall.Size) != query.Size {
			continue
		}
		list = append(list, *stall)
	}
	return list, nil
}

func (f *fakeRepository) ListAvailableStalls(ctx context.Context) ([]Stall, error) {
	return f.ListStalls(ctx, StallListQuery{Status: string(StatusAvailable)})
}

func (f *fakeRepository) UpdateStall(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	stall, ok := f.stalls[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if name, ok := updates["stall_name"].(string); ok {
		stall.StallName = name
	}
	if price, ok := updates["price"].(float64); ok {
		stall.Price = price
	}
	return nil
}

func (f *fakeRepository) UpdateStallStatus(ctx context.Context, id uuid.UUID, status Status) error {
	stall, ok := f.stalls[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stall.Status = status
	return nil
}

func (f *fakeRepository) UpdateStallsStatus(ctx context.Context, stallIDs []uuid.UUID, status Status) error {
	for _, id := range stallIDs {
		if stall, ok := f.stalls[id]; ok {
			stall.Status = status
		}
	}
	return nil
}

func (f *fakeRepository) DeleteStall(ctx context.Context, id uuid.UUID) error {
	delete(f.stalls, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeRepository) StallNumberExists(ctx context.Context, stallNumber string) (bool, error) {
	for _, stall := range f.stalls {
		if stall.StallNumber == stallNumber {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepository) CountByStatus(ctx context.Context) (map[Status]int64, error) {
	counts := make(map[Status]int64)
	for _, stall := range f.stalls {
		counts[stall.Status]++
	}
	return counts, nil
}

func (f *fakeRepository) CountBySize(ctx context.Context) (map[Size]int64, error) {
	counts := make(map[Size]int64)
	for _, stall := range f.stalls {
		counts[stall.Size]++
	}
	return counts, nil
}

// passthroughCache always misses and serves the fetcher result, so
// service tests exercise the repository path.
type passthroughCache struct{}

func (passthroughCache) Get(ctx context.Context, key string, dest interface{}) error {
	return context.Canceled
}

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

func newTestService(repo Repository) Service {
	return NewService(repo, passthroughCache{}, logger.New())
}

func catalogStall(number string, status Status) *Stall {
	return &Stall{
		StallNumber: number,
		StallName:   "Stall " + number,
		Size:        SizeMedium,
		Location:    "B2",
		Price:       200,
		Status:      status,
	}
}

func TestListStalls_FilterValidation(t *testing.T) {
	svc := newTestService(newFakeRepository())
	ctx := context.Background()

	_, err := svc.ListStalls(ctx, StallListQuery{Status: "BOOKED"})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = svc.ListStalls(ctx, StallListQuery{Size: "HUGE"})
	assert.ErrorIs(t, err, ErrInvalidSize)
}

func TestListStalls_DerivesAvailability(t *testing.T) {
	repo := newFakeRepository()
	repo.put(catalogStall("ST-001", StatusAvailable))
	repo.put(catalogStall("ST-002", StatusReserved))

	svc := newTestService(repo)

	list, err := svc.ListStalls(context.Background(), StallListQuery{})
	require.NoError(t, err)
	require.Len(t, list, 2)

	for _, stall := range list {
		assert.Equal(t, stall.Status == StatusAvailable, stall.IsAvailable)
	}
}

func TestListAvailableStalls(t *testing.T) {
	repo := newFakeRepository()
	available := repo.put(catalogStall("ST-001", StatusAvailable))
	repo.put(catalogStall("ST-002", StatusReserved))
	repo.put(catalogStall("ST-003", StatusUnavailable))

	svc := newTestService(repo)

	list, err := svc.ListAvailableStalls(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, available.ID, list[0].ID)
}

func TestGetStall_NotFound(t *testing.T) {
	svc := newTestService(newFakeRepository())

	_, err := svc.GetStall(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrStallNotFound)
}

func TestCreateStall_DuplicateNumber(t *testing.T) {
	repo := newFakeRepository()
	repo.put(catalogStall("ST-001", StatusAvailable))

	svc := newTestService(repo)

	_, err := svc.CreateStall(context.Background(), &CreateStallRequest{
		StallNumber: "ST-001",
		StallName:   "Duplicate",
		Size:        string(SizeSmall),
		Location:    "A1",
		Price:       100,
	}, uuid.New())

	assert.ErrorIs(t, err, ErrDuplicateStall)
}

func TestCreateStall_StartsAvailable(t *testing.T) {
	svc := newTestService(newFakeRepository())

	created, err := svc.CreateStall(context.Background(), &CreateStallRequest{
		StallNumber: "ST-010",
		StallName:   "Corner Stall",
		Size:        string(SizeLarge),
		Location:    "D3",
		Price:       300,
	}, uuid.New())

	require.NoError(t, err)
	assert.Equal(t, StatusAvailable, created.Status)
	assert.True(t, created.IsAvailable)
}

func TestUpdateStallStatus_Validation(t *testing.T) {
	repo := newFakeRepository()
	stall := repo.put(catalogStall("ST-001", StatusAvailable))

	svc := newTestService(repo)
	ctx := context.Background()

	_, err := svc.UpdateStallStatus(ctx, stall.ID, "BOOKED")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	updated, err := svc.UpdateStallStatus(ctx, stall.ID, string(StatusUnavailable))
	require.NoError(t, err)
	assert.Equal(t, StatusUnavailable, updated.Status)
	assert.False(t, updated.IsAvailable)
}

func TestDeleteStall_ReservedIsRejected(t *testing.T) {
	repo := newFakeRepository()
	reserved := repo.put(catalogStall("ST-001", StatusReserved))
	free := repo.put(catalogStall("ST-002", StatusAvailable))

	svc := newTestService(repo)
	ctx := context.Background()

	err := svc.DeleteStall(ctx, reserved.ID)
	assert.ErrorIs(t, err, ErrStallInUse)

	require.NoError(t, svc.DeleteStall(ctx, free.ID))
	assert.Equal(t, []uuid.UUID{free.ID}, repo.deleted)
}

type fakeLookup struct {
	summary *StallReservationSummary
}

func (f *fakeLookup) GetActiveReservationForStall(ctx context.Context, stallID uuid.UUID) (*StallReservationSummary, error) {
	return f.summary, nil
}

func TestGetStallReservation(t *testing.T) {
	repo := newFakeRepository()
	stall := repo.put(catalogStall("ST-001", StatusReserved))

	svc := newTestService(repo)
	ctx := context.Background()

	// Unknown stall is an error, a free stall is not
	_, err := svc.GetStallReservation(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrStallNotFound)

	// Without wiring, the lookup degrades to "no reservation"
	summary, err := svc.GetStallReservation(ctx, stall.ID)
	require.NoError(t, err)
	assert.Nil(t, summary)

	expected := &StallReservationSummary{
		ReservationID: uuid.New(),
		UserID:        uuid.New(),
		Status:        "CONFIRMED",
		VendorName:    "Jane Johnson",
	}
	svc.SetReservationLookup(&fakeLookup{summary: expected})

	summary, err = svc.GetStallReservation(ctx, stall.ID)
	require.NoError(t, err)
	assert.Equal(t, expected, summary)
}

func TestGetStatistics(t *testing.T) {
	repo := newFakeRepository()
	repo.put(catalogStall("ST-001", StatusAvailable))
	repo.put(catalogStall("ST-002", StatusReserved))
	repo.put(catalogStall("ST-003", StatusReserved))

	svc := newTestService(repo)

	stats, err := svc.GetStatistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, int64(1), stats.Available)
	assert.Equal(t, int64(2), stats.Reserved)
	assert.Equal(t, int64(0), stats.Unavailable)
	assert.Equal(t, int64(3), stats.BySize[string(SizeMedium)])
}

func TestMarkStallsReservedAndAvailable(t *testing.T) {
	repo := newFakeRepository()
	first := repo.put(catalogStall("ST-001", StatusAvailable))
	second := repo.put(catalogStall("ST-002", StatusAvailable))

	svc := newTestService(repo)
	ctx := context.Background()

	ids := []uuid.UUID{first.ID, second.ID}
	require.NoError(t, svc.MarkStallsReserved(ctx, ids))
	assert.Equal(t, StatusReserved, repo.stalls[first.ID].Status)
	assert.Equal(t, StatusReserved, repo.stalls[second.ID].Status)

	require.NoError(t, svc.MarkStallsAvailable(ctx, ids))
	assert.Equal(t, StatusAvailable, repo.stalls[first.ID].Status)
	assert.Equal(t, StatusAvailable, repo.stalls[second.ID].Status)
}
