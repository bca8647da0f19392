package portal

import (
	"context"
	"sync"
	"time"

	"bookfair/internal/reservations"

	"github.com/google/uuid"
)

// Step is one stage of the booking workflow.
type Step string

const (
	StepSelect  Step = "select"
	StepReview  Step = "review"
	StepConfirm Step = "confirm"
	StepSuccess Step = "success"
)

// ReservationCreator is the single network operation the workflow issues.
// Implemented by the resolver so creation degrades gracefully offline.
type ReservationCreator interface {
	CreateReservation(ctx context.Context, reservationDate time.Time, stallIDs []uuid.UUID) (*reservations.ReservationResponse, bool, error)
}

// Workflow is the strictly linear booking sequence select -> review ->
// confirm -> success. Guards block forward movement; backward movement is
// always allowed except out of success.
type Workflow struct {
	mu sync.Mutex

	step          Step
	selection     *SelectionSet
	date          time.Time
	termsAccepted bool
	creator       ReservationCreator

	reservationID uuid.UUID
	degraded      bool

	// generation bumps on every transition so a create response that
	// arrives after the user navigated away is dropped, not applied.
	generation uint64
	inFlight   bool
}

func NewWorkflow(selection *SelectionSet, creator ReservationCreator) *Workflow {
	return &Workflow{
		step:      StepSelect,
		selection: selection,
		creator:   creator,
	}
}

func (w *Workflow) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

func (w *Workflow) Selection() *SelectionSet {
	return w.selection
}

func (w *Workflow) SetDate(date time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.date = date
}

func (w *Workflow) Date() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.date
}

func (w *Workflow) AcceptTerms(accepted bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.termsAccepted = accepted
}

// ReservationID is set once the workflow reaches success.
func (w *Workflow) ReservationID() uuid.UUID {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.reservationID
}

// Degraded reports whether the created reservation came from fallback
// data rather than the live backend.
func (w *Workflow) Degraded() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.degraded
}

// Next advances one step if the current step's guard passes. A guard
// failure leaves the state unchanged.
func (w *Workflow) Next(ctx context.Context) error {
	w.mu.Lock()

	switch w.step {
	case StepSelect:
		if w.selection.IsEmpty() {
			w.mu.Unlock()
			return ErrEmptySelection
		}
		w.step = StepReview
		w.generation++
		w.mu.Unlock()
		return nil

	case StepReview:
		// The date defaults to today when the user did not pick one
		if w.date.IsZero() {
			now := time.Now().UTC()
			w.date = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		}
		w.step = StepConfirm
		w.generation++
		w.mu.Unlock()
		return nil

	case StepConfirm:
		return w.confirmLocked(ctx)

	default:
		w.mu.Unlock()
		return ErrWorkflowComplete
	}
}

// Back moves one step backwards. Returning to select keeps the current
// selection so the user can revise it. Success is terminal.
func (w *Workflow) Back() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch w.step {
	case StepReview:
		w.step = StepSelect
	case StepConfirm:
		w.step = StepReview
	case StepSuccess:
		return ErrWorkflowComplete
	}
	w.generation++
	return nil
}

// confirmLocked runs the confirm -> success transition. Called with the
// lock held; releases it around the network call.
func (w *Workflow) confirmLocked(ctx context.Context) error {
	if w.inFlight {
		w.mu.Unlock()
		return ErrConfirmInFlight
	}
	if !w.termsAccepted {
		w.mu.Unlock()
		return ErrTermsNotAccepted
	}

	w.inFlight = true
	generation := w.generation
	date := w.date
	stallIDs := w.selection.StallIDs()
	w.mu.Unlock()

	created, degraded, err := w.creator.CreateReservation(ctx, date, stallIDs)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.inFlight = false

	// The user navigated away while the call was outstanding; the late
	// response must not be applied to the new state.
	if w.generation != generation || w.step != StepConfirm {
		return nil
	}

	if err != nil {
		// Stay in confirm; the caller presents the error. No auto-retry.
		return err
	}

	w.reservationID = created.ID
	w.degraded = degraded
	w.step = StepSuccess
	w.generation++
	return nil
}
