package portal

import (
	"context"
	"sync"
	"testing"
	"time"

	"bookfair/internal/reservations"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCreator struct {
	mu sync.Mutex

	created  *reservations.ReservationResponse
	degraded bool
	err      error
	calls    int

	// Optional hook running inside CreateReservation, used to race the
	// workflow while the call is outstanding.
	onCreate func()

	gotDate time.Time
	gotIDs  []uuid.UUID
}

func (f *fakeCreator) CreateReservation(ctx context.Context, date time.Time, stallIDs []uuid.UUID) (*reservations.ReservationResponse, bool, error) {
	f.mu.Lock()
	f.calls++
	f.gotDate = date
	f.gotIDs = stallIDs
	hook := f.onCreate
	f.mu.Unlock()

	if hook != nil {
		hook()
	}
	if f.err != nil {
		return nil, false, f.err
	}
	return f.created, f.degraded, nil
}

func selectionWith(t *testing.T, n int) *SelectionSet {
	t.Helper()
	set := NewSelectionSet(DefaultMaxSelection)
	for i := 0; i < n; i++ {
		require.NoError(t, set.Add(availableStall(uuid.NewString(), 100)))
	}
	return set
}

func TestWorkflow_HappyPath(t *testing.T) {
	created := &reservations.ReservationResponse{ID: uuid.New(), Status: reservations.StatusPending}
	creator := &fakeCreator{created: created}

	wf := NewWorkflow(selectionWith(t, 2), creator)
	ctx := context.Background()

	require.Equal(t, StepSelect, wf.Step())
	require.NoError(t, wf.Next(ctx))
	require.Equal(t, StepReview, wf.Step())

	wf.SetDate(time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, wf.Next(ctx))
	require.Equal(t, StepConfirm, wf.Step())

	wf.AcceptTerms(true)
	require.NoError(t, wf.Next(ctx))

	assert.Equal(t, StepSuccess, wf.Step())
	assert.Equal(t, created.ID, wf.ReservationID())
	assert.False(t, wf.Degraded())
	assert.Equal(t, 1, creator.calls)
	assert.Len(t, creator.gotIDs, 2)
}

func TestWorkflow_EmptySelectionBlocksReview(t *testing.T) {
	wf := NewWorkflow(NewSelectionSet(DefaultMaxSelection), &fakeCreator{})

	err := wf.Next(context.Background())

	assert.ErrorIs(t, err, ErrEmptySelection)
	assert.Equal(t, StepSelect, wf.Step())
}

func TestWorkflow_DateDefaultsToToday(t *testing.T) {
	creator := &fakeCreator{created: &reservations.ReservationResponse{ID: uuid.New()}}
	wf := NewWorkflow(selectionWith(t, 1), creator)
	ctx := context.Background()

	require.NoError(t, wf.Next(ctx))
	require.NoError(t, wf.Next(ctx))

	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	assert.Equal(t, today, wf.Date())
}

func TestWorkflow_TermsRequiredBeforeConfirm(t *testing.T) {
	creator := &fakeCreator{created: &reservations.ReservationResponse{ID: uuid.New()}}
	wf := NewWorkflow(selectionWith(t, 1), creator)
	ctx := context.Background()

	require.NoError(t, wf.Next(ctx))
	require.NoError(t, wf.Next(ctx))

	err := wf.Next(ctx)
	assert.ErrorIs(t, err, ErrTermsNotAccepted)
	assert.Equal(t, StepConfirm, wf.Step())
	assert.Equal(t, 0, creator.calls)

	wf.AcceptTerms(true)
	require.NoError(t, wf.Next(ctx))
	assert.Equal(t, StepSuccess, wf.Step())
}

func TestWorkflow_CreateFailureStaysOnConfirm(t *testing.T) {
	creator := &fakeCreator{err: reservations.ErrStallUnavailable}
	wf := NewWorkflow(selectionWith(t, 1), creator)
	ctx := context.Background()

	require.NoError(t, wf.Next(ctx))
	require.NoError(t, wf.Next(ctx))
	wf.AcceptTerms(true)

	err := wf.Next(ctx)
	assert.ErrorIs(t, err, reservations.ErrStallUnavailable)
	assert.Equal(t, StepConfirm, wf.Step())

	// No auto-retry: the user must submit again
	assert.Equal(t, 1, creator.calls)
}

func TestWorkflow_BackFromReviewKeepsSelection(t *testing.T) {
	set := selectionWith(t, 2)
	wf := NewWorkflow(set, &fakeCreator{})
	ctx := context.Background()

	require.NoError(t, wf.Next(ctx))
	require.NoError(t, wf.Back())

	assert.Equal(t, StepSelect, wf.Step())
	assert.Equal(t, 2, wf.Selection().Size())
}

func TestWorkflow_SuccessIsTerminal(t *testing.T) {
	creator := &fakeCreator{created: &reservations.ReservationResponse{ID: uuid.New()}}
	wf := NewWorkflow(selectionWith(t, 1), creator)
	ctx := context.Background()

	require.NoError(t, wf.Next(ctx))
	require.NoError(t, wf.Next(ctx))
	wf.AcceptTerms(true)
	require.NoError(t, wf.Next(ctx))
	require.Equal(t, StepSuccess, wf.Step())

	assert.ErrorIs(t, wf.Next(ctx), ErrWorkflowComplete)
	assert.ErrorIs(t, wf.Back(), ErrWorkflowComplete)
}

func TestWorkflow_ConfirmInFlightRejectsSecondSubmit(t *testing.T) {
	creator := &fakeCreator{created: &reservations.ReservationResponse{ID: uuid.New()}}
	wf := NewWorkflow(selectionWith(t, 1), creator)
	ctx := context.Background()

	require.NoError(t, wf.Next(ctx))
	require.NoError(t, wf.Next(ctx))
	wf.AcceptTerms(true)

	var secondErr error
	creator.onCreate = func() {
		// Double-click while the first create is outstanding
		secondErr = wf.Next(ctx)
	}

	require.NoError(t, wf.Next(ctx))

	assert.ErrorIs(t, secondErr, ErrConfirmInFlight)
	assert.Equal(t, StepSuccess, wf.Step())
	assert.Equal(t, 1, creator.calls)
}

func TestWorkflow_StaleCreateResponseIsDropped(t *testing.T) {
	creator := &fakeCreator{created: &reservations.ReservationResponse{ID: uuid.New()}}
	wf := NewWorkflow(selectionWith(t, 1), creator)
	ctx := context.Background()

	require.NoError(t, wf.Next(ctx))
	require.NoError(t, wf.Next(ctx))
	wf.AcceptTerms(true)

	creator.onCreate = func() {
		// The user navigates back while the create is outstanding
		require.NoError(t, wf.Back())
	}

	require.NoError(t, wf.Next(ctx))

	// The late response must not be applied to the new state
	assert.Equal(t, StepReview, wf.Step())
	assert.Equal(t, uuid.Nil, wf.ReservationID())
}
