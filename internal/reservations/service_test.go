package reservations

import (
	"context"
	"errors"
	"testing"
	"time"

	"bookfair/internal/shared/config"
	"bookfair/internal/stalls"
	"bookfair/internal/users"
	"bookfair/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepository struct {
	reservations map[uuid.UUID]*Reservation

	createErr  error
	confirmErr error

	createdStallIDs []uuid.UUID
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{reservations: make(map[uuid.UUID]*Reservation)}
}

func (f *fakeRepository) put(r *Reservation) *Reservation {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	f.reservations[r.ID] = r
	return r
}

func (f *fakeRepository) GetReservationByID(ctx context.Context, id uuid.UUID) (*Reservation, error) {
	r, ok := f.reservations[id]
	if !ok {
		return nil, ErrNotFound
	}
	return r, nil
}

func (f *fakeRepository) GetUserReservations(ctx context.Context, userID uuid.UUID) ([]Reservation, error) {
	var list []Reservation
	for _, r := range f.reservations {
		if r.UserID == userID {
			list = append(list, *r)
		}
	}
	return list, nil
}

func (f *fakeRepository) GetAllReservations(ctx context.Context, query ReservationListQuery) ([]Reservation, int64, error) {
	var list []Reservation
	for _, r := range f.reservations {
		list = append(list, *r)
	}
	return list, int64(len(list)), nil
}

func (f *fakeRepository) GetActiveReservationForStall(ctx context.Context, stallID uuid.UUID) (*Reservation, error) {
	return nil, ErrNotFound
}

func (f *fakeRepository) CountByStatus(ctx context.Context) (map[Status]int64, error) {
	return map[Status]int64{}, nil
}

func (f *fakeRepository) SumConfirmedRevenue(ctx context.Context) (float64, error) {
	return 0, nil
}

func (f *fakeRepository) CountByDay(ctx context.Context, since time.Time) (map[string]int64, error) {
	return map[string]int64{}, nil
}

func (f *fakeRepository) CountDistinctReservedStalls(ctx context.Context) (int64, error) {
	return 0, nil
}

func (f *fakeRepository) CreateReservationWithStallLock(ctx context.Context, reservation *Reservation, stallIDs []uuid.UUID) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.createdStallIDs = stallIDs

	var total float64
	snapshots := make([]ReservationStall, 0, len(stallIDs))
	for i, id := range stallIDs {
		price := float64((i + 1) * 100)
		total += price
		snapshots = append(snapshots, ReservationStall{
			StallID:     id,
			StallNumber: "ST-00" + string(rune('1'+i)),
			StallName:   "Test Stall",
			Size:        stalls.SizeSmall,
			Location:    "A1",
			Price:       price,
		})
	}
	reservation.Status = StatusPending
	reservation.TotalAmount = total
	reservation.Stalls = snapshots
	f.put(reservation)
	return nil
}

func (f *fakeRepository) ConfirmReservation(ctx context.Context, id uuid.UUID) error {
	if f.confirmErr != nil {
		return f.confirmErr
	}
	r, ok := f.reservations[id]
	if !ok {
		return ErrNotFound
	}
	if !r.Status.CanConfirm() {
		return ErrInvalidTransition
	}
	now := time.Now()
	r.Status = StatusConfirmed
	r.ConfirmedAt = &now
	return nil
}

func (f *fakeRepository) CancelReservationWithStallRelease(ctx context.Context, id uuid.UUID) error {
	r, ok := f.reservations[id]
	if !ok {
		return ErrNotFound
	}
	if !r.Status.CanCancel() {
		return ErrInvalidTransition
	}
	now := time.Now()
	r.Status = StatusCancelled
	r.CancelledAt = &now
	return nil
}

type fakeSender struct {
	sent []ConfirmationEmail
	err  error
}

func (f *fakeSender) SendReservationConfirmation(ctx context.Context, email ConfirmationEmail) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, email)
	return nil
}

type noopCache struct{}

func (noopCache) Get(ctx context.Context, key string, dest interface{}) error { return nil }

func (noopCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}

func (noopCache) Delete(ctx context.Context, key string) error { return nil }

func (noopCache) DeletePattern(ctx context.Context, pattern string) error { return nil }

func (noopCache) Exists(ctx context.Context, key string) bool { return false }

func (noopCache) GetOrSet(ctx context.Context, key string, ttl time.Duration, fetcher func() (interface{}, error), dest interface{}) error {
	return nil
}

func (noopCache) Ping(ctx context.Context) error { return nil }

func newTestService(repo Repository, sender ConfirmationSender) Service {
	cfg := &config.Config{
		Booking: config.BookingConfig{MaxSelection: 3},
	}
	return NewService(repo, noopCache{}, logger.New(), cfg, sender)
}

func futureDate() string {
	return time.Now().UTC().AddDate(0, 0, 7).Format("2006-01-02")
}

func TestCreateReservation_Success(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(repo, &fakeSender{})
	userID := uuid.New()

	stallIDs := []string{uuid.NewString(), uuid.NewString()}
	resp, err := svc.CreateReservation(context.Background(), userID, &CreateReservationRequest{
		StallIDs:        stallIDs,
		ReservationDate: futureDate(),
	})

	require.NoError(t, err)
	assert.Equal(t, StatusPending, resp.Status)
	assert.Equal(t, userID, resp.UserID)
	assert.Equal(t, 300.0, resp.TotalAmount)
	assert.Len(t, resp.Stalls, 2)
	assert.Len(t, repo.createdStallIDs, 2)
}

func TestCreateReservation_SelectionValidation(t *testing.T) {
	tests := map[string][]string{
		"empty selection":  {},
		"over the maximum": {uuid.NewString(), uuid.NewString(), uuid.NewString(), uuid.NewString()},
		"duplicate stall":  func() []string { id := uuid.NewString(); return []string{id, id} }(),
		"malformed id":     {"not-a-uuid"},
	}

	for name, stallIDs := range tests {
		t.Run(name, func(t *testing.T) {
			svc := newTestService(newFakeRepository(), &fakeSender{})

			_, err := svc.CreateReservation(context.Background(), uuid.New(), &CreateReservationRequest{
				StallIDs:        stallIDs,
				ReservationDate: futureDate(),
			})

			assert.ErrorIs(t, err, ErrInvalidSelection)
		})
	}
}

func TestCreateReservation_DateValidation(t *testing.T) {
	svc := newTestService(newFakeRepository(), &fakeSender{})

	for name, date := range map[string]string{
		"past date": time.Now().UTC().AddDate(0, 0, -1).Format("2006-01-02"),
		"malformed": "01-10-2026",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.CreateReservation(context.Background(), uuid.New(), &CreateReservationRequest{
				StallIDs:        []string{uuid.NewString()},
				ReservationDate: date,
			})
			assert.ErrorIs(t, err, ErrInvalidDate)
		})
	}
}

func TestCreateReservation_TodayIsAllowed(t *testing.T) {
	svc := newTestService(newFakeRepository(), &fakeSender{})

	_, err := svc.CreateReservation(context.Background(), uuid.New(), &CreateReservationRequest{
		StallIDs:        []string{uuid.NewString()},
		ReservationDate: time.Now().UTC().Format("2006-01-02"),
	})

	require.NoError(t, err)
}

func TestCreateReservation_UnavailableStallPropagates(t *testing.T) {
	repo := newFakeRepository()
	repo.createErr = ErrStallUnavailable
	svc := newTestService(repo, &fakeSender{})

	_, err := svc.CreateReservation(context.Background(), uuid.New(), &CreateReservationRequest{
		StallIDs:        []string{uuid.NewString()},
		ReservationDate: futureDate(),
	})

	assert.ErrorIs(t, err, ErrStallUnavailable)
}

func TestGetReservation_VendorOwnershipCheck(t *testing.T) {
	repo := newFakeRepository()
	owner := uuid.New()
	r := repo.put(&Reservation{UserID: owner, Status: StatusPending})

	svc := newTestService(repo, &fakeSender{})
	ctx := context.Background()

	_, err := svc.GetReservation(ctx, r.ID, uuid.New(), string(users.RoleVendor))
	assert.ErrorIs(t, err, ErrForbidden)

	got, err := svc.GetReservation(ctx, r.ID, owner, string(users.RoleVendor))
	require.NoError(t, err)
	assert.Equal(t, r.ID, got.ID)

	// Staff can read anyone's reservation
	got, err = svc.GetReservation(ctx, r.ID, uuid.New(), string(users.RoleStaff))
	require.NoError(t, err)
	assert.Equal(t, r.ID, got.ID)
}

func TestConfirmReservation_SendsConfirmationEmail(t *testing.T) {
	repo := newFakeRepository()
	stallID := uuid.New()
	r := repo.put(&Reservation{
		UserID: uuid.New(),
		User: users.User{
			ID:           uuid.New(),
			FirstName:    "Jane",
			LastName:     "Johnson",
			BusinessName: "Johnson Press",
			Email:        "jane@example.com",
		},
		Status:          StatusPending,
		ReservationDate: time.Now().AddDate(0, 0, 14),
		TotalAmount:     200,
		Stalls: []ReservationStall{
			{StallID: stallID, StallNumber: "ST-001", Price: 200},
		},
	})

	sender := &fakeSender{}
	svc := newTestService(repo, sender)

	resp, err := svc.ConfirmReservation(context.Background(), r.ID)

	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, resp.Status)
	require.NotNil(t, resp.ConfirmedAt)

	require.Len(t, sender.sent, 1)
	email := sender.sent[0]
	assert.Equal(t, r.ID, email.ReservationID)
	assert.Equal(t, "jane@example.com", email.RecipientEmail)
	assert.Equal(t, "Jane Johnson", email.RecipientName)
	assert.Equal(t, "Johnson Press", email.BusinessName)
	assert.Equal(t, 200.0, email.TotalAmount)
	require.Len(t, email.Stalls, 1)
	assert.Equal(t, "ST-001", email.Stalls[0].StallNumber)
}

func TestConfirmReservation_SenderFailureDoesNotFailConfirm(t *testing.T) {
	repo := newFakeRepository()
	r := repo.put(&Reservation{
		UserID: uuid.New(),
		User:   users.User{ID: uuid.New(), Email: "jane@example.com"},
		Status: StatusPending,
	})

	svc := newTestService(repo, &fakeSender{err: errors.New("kafka down")})

	resp, err := svc.ConfirmReservation(context.Background(), r.ID)

	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, resp.Status)
}

func TestConfirmReservation_InvalidTransition(t *testing.T) {
	repo := newFakeRepository()
	r := repo.put(&Reservation{UserID: uuid.New(), Status: StatusCancelled})

	svc := newTestService(repo, &fakeSender{})

	_, err := svc.ConfirmReservation(context.Background(), r.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCancelReservation_Lifecycle(t *testing.T) {
	repo := newFakeRepository()
	owner := uuid.New()
	r := repo.put(&Reservation{UserID: owner, Status: StatusConfirmed})

	svc := newTestService(repo, &fakeSender{})
	ctx := context.Background()

	// Another vendor cannot cancel it
	err := svc.CancelReservation(ctx, r.ID, uuid.New(), string(users.RoleVendor))
	assert.ErrorIs(t, err, ErrForbidden)

	// The owner can
	require.NoError(t, svc.CancelReservation(ctx, r.ID, owner, string(users.RoleVendor)))
	assert.Equal(t, StatusCancelled, r.Status)
	firstCancelledAt := r.CancelledAt

	// Cancelling twice is rejected and the original timestamp survives
	err = svc.CancelReservation(ctx, r.ID, owner, string(users.RoleVendor))
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, firstCancelledAt, r.CancelledAt)
}

func TestResendConfirmationEmail(t *testing.T) {
	repo := newFakeRepository()
	owner := uuid.New()
	confirmedAt := time.Now().Add(-time.Hour)
	confirmed := repo.put(&Reservation{
		UserID:      owner,
		User:        users.User{ID: uuid.New(), Email: "jane@example.com"},
		Status:      StatusConfirmed,
		ConfirmedAt: &confirmedAt,
	})
	pending := repo.put(&Reservation{UserID: owner, Status: StatusPending})

	sender := &fakeSender{}
	svc := newTestService(repo, sender)
	ctx := context.Background()

	// Only confirmed reservations can replay their confirmation
	err := svc.ResendConfirmationEmail(ctx, pending.ID, owner, string(users.RoleVendor))
	assert.ErrorIs(t, err, ErrInvalidState)

	require.NoError(t, svc.ResendConfirmationEmail(ctx, confirmed.ID, owner, string(users.RoleVendor)))
	require.Len(t, sender.sent, 1)

	// The replayed email carries the original confirmation time
	assert.WithinDuration(t, confirmedAt, sender.sent[0].ConfirmedAt, time.Second)

	// A send failure on an explicit resend is surfaced
	sender.err = errors.New("smtp down")
	err = svc.ResendConfirmationEmail(ctx, confirmed.ID, owner, string(users.RoleVendor))
	assert.Error(t, err)
}

func TestResendConfirmationEmail_OwnershipCheck(t *testing.T) {
	repo := newFakeRepository()
	confirmedAt := time.Now()
	r := repo.put(&Reservation{
		UserID:      uuid.New(),
		User:        users.User{ID: uuid.New(), Email: "jane@example.com"},
		Status:      StatusConfirmed,
		ConfirmedAt: &confirmedAt,
	})

	sender := &fakeSender{}
	svc := newTestService(repo, sender)

	err := svc.ResendConfirmationEmail(context.Background(), r.ID, uuid.New(), string(users.RoleVendor))
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Empty(t, sender.sent)
}

func TestListReservations_Pagination(t *testing.T) {
	repo := newFakeRepository()
	for i := 0; i < 3; i++ {
		repo.put(&Reservation{UserID: uuid.New(), Status: StatusPending})
	}

	svc := newTestService(repo, &fakeSender{})

	resp, err := svc.ListReservations(context.Background(), ReservationListQuery{})

	require.NoError(t, err)
	assert.Equal(t, int64(3), resp.TotalCount)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 10, resp.Limit)
	assert.Equal(t, 1, resp.TotalPages)
}

func TestCalculateTotalPages(t *testing.T) {
	assert.Equal(t, 0, CalculateTotalPages(10, 0))
	assert.Equal(t, 1, CalculateTotalPages(10, 10))
	assert.Equal(t, 2, CalculateTotalPages(11, 10))
	assert.Equal(t, 0, CalculateTotalPages(0, 10))
}
