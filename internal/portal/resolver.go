package portal

import (
	"context"
	"errors"
	"net"
	"net/url"
	"sync"
	"syscall"
	"time"

	"bookfair/internal/reservations"
	"bookfair/internal/stalls"
	"bookfair/pkg/logger"

	"github.com/google/uuid"
)

// Resolver wraps the API client and keeps the portal usable when the
// backend is unreachable. Connectivity failures on reads substitute the
// seeded synthetic dataset; a connectivity failure on reservation
// creation fabricates a pending reservation. Every other failure is
// returned verbatim so real application errors are never masked.
//
// The boolean returned alongside data reports degraded mode, so the
// presentation layer can warn that the figures are not live.
type Resolver struct {
	client *Client
	log    *logger.Logger

	mu      sync.Mutex
	mock    *mockDataset
	catalog map[uuid.UUID]stalls.StallResponse
}

func NewResolver(client *Client, log *logger.Logger) *Resolver {
	return &Resolver{
		client:  client,
		log:     log,
		catalog: make(map[uuid.UUID]stalls.StallResponse),
	}
}

// mockData builds the synthetic dataset on first use and keeps it for
// the resolver lifetime, so repeated degraded reads stay stable.
func (r *Resolver) mockData() *mockDataset {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.mock == nil {
		r.mock = newMockDataset()
	}
	return r.mock
}

// rememberCatalog keeps the last live stall data for echoing into a
// fabricated reservation.
func (r *Resolver) rememberCatalog(list []stalls.StallResponse) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, stall := range list {
		r.catalog[stall.ID] = stall
	}
}

func (r *Resolver) ListStalls(ctx context.Context, status, size string) ([]stalls.StallResponse, bool, error) {
	list, err := r.client.ListStalls(ctx, status, size)
	if err == nil {
		r.rememberCatalog(list)
		return list, false, nil
	}
	if !isConnectivityError(err) {
		return nil, false, err
	}

	r.log.LogDegradedMode(ctx, "list_stalls", err)

	filtered := make([]stalls.StallResponse, 0)
	for _, stall := range r.mockData().stalls {
		if status != "" && string(stall.Status) != status {
			continue
		}
		if size != "" && string(stall.Size) != size {
			continue
		}
		filtered = append(filtered, stall)
	}
	return filtered, true, nil
}

func (r *Resolver) ListAvailableStalls(ctx context.Context) ([]stalls.StallResponse, bool, error) {
	list, err := r.client.ListAvailableStalls(ctx)
	if err == nil {
		r.rememberCatalog(list)
		return list, false, nil
	}
	if !isConnectivityError(err) {
		return nil, false, err
	}

	r.log.LogDegradedMode(ctx, "list_available_stalls", err)

	available := make([]stalls.StallResponse, 0)
	for _, stall := range r.mockData().stalls {
		if stall.IsAvailable {
			available = append(available, stall)
		}
	}
	return available, true, nil
}

func (r *Resolver) GetStallReservation(ctx context.Context, stallID uuid.UUID) (*stalls.StallReservationSummary, bool, error) {
	summary, err := r.client.GetStallReservation(ctx, stallID)
	if err == nil {
		return summary, false, nil
	}
	if !isConnectivityError(err) {
		return nil, false, err
	}

	r.log.LogDegradedMode(ctx, "get_stall_reservation", err)

	for _, reservation := range r.mockData().reservations {
		if reservation.Status == reservations.StatusCancelled {
			continue
		}
		for _, snapshot := range reservation.Stalls {
			if snapshot.StallID != stallID {
				continue
			}
			mockSummary := &stalls.StallReservationSummary{
				ReservationID:   reservation.ID,
				UserID:          reservation.UserID,
				Status:          string(reservation.Status),
				ReservationDate: reservation.ReservationDate,
			}
			if reservation.User != nil {
				mockSummary.VendorName = reservation.User.FirstName + " " + reservation.User.LastName
				mockSummary.VendorEmail = reservation.User.Email
				mockSummary.BusinessName = reservation.User.BusinessName
			}
			return mockSummary, true, nil
		}
	}
	return nil, true, nil
}

// CreateReservation creates through the backend, or fabricates a
// pending reservation when the backend is unreachable. The fabricated
// reservation never pretends to mutate catalog availability.
func (r *Resolver) CreateReservation(ctx context.Context, reservationDate time.Time, stallIDs []uuid.UUID) (*reservations.ReservationResponse, bool, error) {
	created, err := r.client.CreateReservation(ctx, reservationDate, stallIDs)
	if err == nil {
		return created, false, nil
	}
	if !isConnectivityError(err) {
		return nil, false, err
	}

	r.log.LogDegradedMode(ctx, "create_reservation", err)
	return r.fabricateReservation(reservationDate, stallIDs), true, nil
}

func (r *Resolver) GetReservation(ctx context.Context, id uuid.UUID) (*reservations.ReservationResponse, bool, error) {
	reservation, err := r.client.GetReservation(ctx, id)
	if err == nil {
		return reservation, false, nil
	}
	if !isConnectivityError(err) {
		return nil, false, err
	}

	r.log.LogDegradedMode(ctx, "get_reservation", err)

	if mock, ok := r.mockData().reservationByID(id); ok {
		return mock, true, nil
	}
	return nil, true, reservations.ErrNotFound
}

func (r *Resolver) ListUserReservations(ctx context.Context) ([]reservations.ReservationResponse, bool, error) {
	list, err := r.client.ListUserReservations(ctx)
	if err == nil {
		return list, false, nil
	}
	if !isConnectivityError(err) {
		return nil, false, err
	}

	r.log.LogDegradedMode(ctx, "list_user_reservations", err)
	return r.mockData().reservations, true, nil
}

func (r *Resolver) ListReservations(ctx context.Context, query reservations.ReservationListQuery) (*reservations.ReservationListResponse, bool, error) {
	list, err := r.client.ListReservations(ctx, query)
	if err == nil {
		return list, false, nil
	}
	if !isConnectivityError(err) {
		return nil, false, err
	}

	r.log.LogDegradedMode(ctx, "list_reservations", err)

	mock := r.mockData().reservations
	return &reservations.ReservationListResponse{
		Reservations: mock,
		TotalCount:   int64(len(mock)),
		Page:         1,
		Limit:        len(mock),
		TotalPages:   1,
	}, true, nil
}

// ConfirmReservation passes through unchanged. A fake status transition
// would be a lie the server never made, so connectivity failures on
// lifecycle writes are surfaced.
func (r *Resolver) ConfirmReservation(ctx context.Context, id uuid.UUID) (*reservations.ReservationResponse, error) {
	return r.client.ConfirmReservation(ctx, id)
}

func (r *Resolver) CancelReservation(ctx context.Context, id uuid.UUID) error {
	return r.client.CancelReservation(ctx, id)
}

func (r *Resolver) ResendConfirmationEmail(ctx context.Context, id uuid.UUID) error {
	return r.client.ResendConfirmationEmail(ctx, id)
}

// fabricateReservation echoes the selected stalls into a plausible
// pending reservation, preferring live catalog data seen earlier in the
// session over the synthetic dataset.
func (r *Resolver) fabricateReservation(reservationDate time.Time, stallIDs []uuid.UUID) *reservations.ReservationResponse {
	mock := r.mockData()

	r.mu.Lock()
	defer r.mu.Unlock()

	var total float64
	snapshots := make([]reservations.ReservationStallResponse, 0, len(stallIDs))
	for _, id := range stallIDs {
		stall, ok := r.catalog[id]
		if !ok {
			stall, ok = mock.stallByID(id)
		}
		if !ok {
			snapshots = append(snapshots, reservations.ReservationStallResponse{StallID: id})
			continue
		}
		total += stall.Price
		snapshots = append(snapshots, reservations.ReservationStallResponse{
			StallID:     stall.ID,
			StallNumber: stall.StallNumber,
			StallName:   stall.StallName,
			Size:        string(stall.Size),
			Location:    stall.Location,
			Price:       stall.Price,
		})
	}

	return &reservations.ReservationResponse{
		ID:              uuid.New(),
		ReservationDate: reservationDate,
		Status:          reservations.StatusPending,
		TotalAmount:     total,
		Stalls:          snapshots,
		CreatedAt:       time.Now().UTC(),
	}
}

// isConnectivityError reports whether the backend is unreachable, as
// opposed to reachable but rejecting the request.
func isConnectivityError(err error) bool {
	if err == nil {
		return false
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		err = urlErr.Err
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	if errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EHOSTUNREACH) ||
		errors.Is(err, syscall.ENETUNREACH) {
		return true
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	return false
}
