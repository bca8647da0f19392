package reservations

import (
	"context"
	"fmt"
	"time"

	"bookfair/internal/shared/config"
	"bookfair/internal/shared/constants"
	"bookfair/internal/users"
	"bookfair/pkg/cache"
	"bookfair/pkg/logger"

	"github.com/google/uuid"
)

// ConfirmationEmail is the payload handed to the notification pipeline
type ConfirmationEmail struct {
	ReservationID   uuid.UUID                  `json:"reservation_id"`
	RecipientEmail  string                     `json:"recipient_email"`
	RecipientName   string                     `json:"recipient_name"`
	BusinessName    string                     `json:"business_name,omitempty"`
	ReservationDate time.Time                  `json:"reservation_date"`
	TotalAmount     float64                    `json:"total_amount"`
	Stalls          []ReservationStallResponse `json:"stalls"`
	ConfirmedAt     time.Time                  `json:"confirmed_at"`
}

// ConfirmationSender publishes confirmation emails. Implemented by the
// notifications package; a failure here must never fail the confirm itself.
type ConfirmationSender interface {
	SendReservationConfirmation(ctx context.Context, email ConfirmationEmail) error
}

type Service interface {
	CreateReservation(ctx context.Context, userID uuid.UUID, req *CreateReservationRequest) (*ReservationResponse, error)
	GetReservation(ctx context.Context, id, requesterID uuid.UUID, requesterRole string) (*ReservationResponse, error)
	GetUserReservations(ctx context.Context, userID uuid.UUID) ([]ReservationResponse, error)
	ListReservations(ctx context.Context, query ReservationListQuery) (*ReservationListResponse, error)
	ConfirmReservation(ctx context.Context, id uuid.UUID) (*ReservationResponse, error)
	CancelReservation(ctx context.Context, id, requesterID uuid.UUID, requesterRole string) error
	ResendConfirmationEmail(ctx context.Context, id, requesterID uuid.UUID, requesterRole string) error
}

type service struct {
	repo   Repository
	cache  cache.Service
	log    *logger.Logger
	config *config.Config
	sender ConfirmationSender
}

func NewService(repo Repository, cacheService cache.Service, log *logger.Logger, cfg *config.Config, sender ConfirmationSender) Service {
	return &service{
		repo:   repo,
		cache:  cacheService,
		log:    log,
		config: cfg,
		sender: sender,
	}
}

func (s *service) CreateReservation(ctx context.Context, userID uuid.UUID, req *CreateReservationRequest) (*ReservationResponse, error) {
	// 1. Validate the selection: 1..max distinct stalls
	stallIDs, err := s.parseStallIDs(req.StallIDs)
	if err != nil {
		return nil, err
	}

	// 2. Validate the reservation date: today or later
	reservationDate, err := s.parseReservationDate(req.ReservationDate)
	if err != nil {
		return nil, err
	}

	// 3. Create atomically under stall row locks
	reservation := &Reservation{
		UserID:          userID,
		ReservationDate: reservationDate,
	}
	if err := s.repo.CreateReservationWithStallLock(ctx, reservation, stallIDs); err != nil {
		return nil, err
	}

	s.log.LogReservationCreated(ctx, reservation.ID.String(), userID.String(), len(stallIDs))
	s.invalidateCaches(ctx)

	// Reload with relations for the response
	created, err := s.repo.GetReservationByID(ctx, reservation.ID)
	if err != nil {
		return nil, err
	}

	resp := ToReservationResponse(created)
	return &resp, nil
}

func (s *service) GetReservation(ctx context.Context, id, requesterID uuid.UUID, requesterRole string) (*ReservationResponse, error) {
	reservation, err := s.repo.GetReservationByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Vendors can only read their own reservations
	if requesterRole != string(users.RoleStaff) && reservation.UserID != requesterID {
		return nil, ErrForbidden
	}

	resp := ToReservationResponse(reservation)
	return &resp, nil
}

func (s *service) GetUserReservations(ctx context.Context, userID uuid.UUID) ([]ReservationResponse, error) {
	list, err := s.repo.GetUserReservations(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user reservations: %w", err)
	}
	return ToReservationResponses(list), nil
}

func (s *service) ListReservations(ctx context.Context, query ReservationListQuery) (*ReservationListResponse, error) {
	list, totalCount, err := s.repo.GetAllReservations(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}

	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}

	return &ReservationListResponse{
		Reservations: ToReservationResponses(list),
		TotalCount:   totalCount,
		Page:         query.Page,
		Limit:        query.Limit,
		TotalPages:   CalculateTotalPages(totalCount, query.Limit),
	}, nil
}

func (s *service) ConfirmReservation(ctx context.Context, id uuid.UUID) (*ReservationResponse, error) {
	if err := s.repo.ConfirmReservation(ctx, id); err != nil {
		return nil, err
	}

	reservation, err := s.repo.GetReservationByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.log.LogReservationConfirmed(ctx, id.String(), reservation.UserID.String())
	s.invalidateCaches(ctx)

	// Best-effort notification; the confirm already succeeded
	if err := s.sendConfirmation(ctx, reservation); err != nil {
		s.log.ErrorWithContext(ctx, "Failed to send confirmation email", err, map[string]interface{}{
			"reservation_id": id.String(),
		})
	}

	resp := ToReservationResponse(reservation)
	return &resp, nil
}

func (s *service) CancelReservation(ctx context.Context, id, requesterID uuid.UUID, requesterRole string) error {
	reservation, err := s.repo.GetReservationByID(ctx, id)
	if err != nil {
		return err
	}

	if requesterRole != string(users.RoleStaff) && reservation.UserID != requesterID {
		return ErrForbidden
	}

	if err := s.repo.CancelReservationWithStallRelease(ctx, id); err != nil {
		return err
	}

	s.log.LogReservationCancelled(ctx, id.String(), reservation.UserID.String())
	s.invalidateCaches(ctx)
	return nil
}

// ResendConfirmationEmail replays the confirmation notification for a
// confirmed reservation. No status or timestamp changes.
func (s *service) ResendConfirmationEmail(ctx context.Context, id, requesterID uuid.UUID, requesterRole string) error {
	reservation, err := s.repo.GetReservationByID(ctx, id)
	if err != nil {
		return err
	}

	if requesterRole != string(users.RoleStaff) && reservation.UserID != requesterID {
		return ErrForbidden
	}

	if !reservation.IsConfirmed() {
		return ErrInvalidState
	}

	if err := s.sendConfirmation(ctx, reservation); err != nil {
		return fmt.Errorf("failed to resend confirmation email: %w", err)
	}
	return nil
}

func (s *service) sendConfirmation(ctx context.Context, reservation *Reservation) error {
	if s.sender == nil {
		return nil
	}

	confirmedAt := time.Now()
	if reservation.ConfirmedAt != nil {
		confirmedAt = *reservation.ConfirmedAt
	}

	resp := ToReservationResponse(reservation)
	return s.sender.SendReservationConfirmation(ctx, ConfirmationEmail{
		ReservationID:   reservation.ID,
		RecipientEmail:  reservation.User.Email,
		RecipientName:   reservation.User.FullName(),
		BusinessName:    reservation.User.BusinessName,
		ReservationDate: reservation.ReservationDate,
		TotalAmount:     reservation.TotalAmount,
		Stalls:          resp.Stalls,
		ConfirmedAt:     confirmedAt,
	})
}

func (s *service) parseStallIDs(raw []string) ([]uuid.UUID, error) {
	if len(raw) == 0 || len(raw) > s.config.Booking.MaxSelection {
		return nil, ErrInvalidSelection
	}

	seen := make(map[uuid.UUID]struct{}, len(raw))
	ids := make([]uuid.UUID, 0, len(raw))
	for _, value := range raw {
		id, err := uuid.Parse(value)
		if err != nil {
			return nil, ErrInvalidSelection
		}
		if _, dup := seen[id]; dup {
			return nil, ErrInvalidSelection
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *service) parseReservationDate(raw string) (time.Time, error) {
	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}

	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if date.Before(today) {
		return time.Time{}, ErrInvalidDate
	}
	return date, nil
}

// invalidateCaches drops cached reservation and catalog reads after a
// lifecycle transition. Failures are logged and swallowed.
func (s *service) invalidateCaches(ctx context.Context) {
	for _, pattern := range []string{
		constants.PATTERN_INVALIDATE_RESERVATIONS_ALL,
		constants.PATTERN_INVALIDATE_STALLS_ALL,
		constants.PATTERN_INVALIDATE_DASHBOARD,
	} {
		if err := s.cache.DeletePattern(ctx, pattern); err != nil {
			s.log.ErrorWithContext(ctx, "Failed to invalidate cache", err, map[string]interface{}{
				"pattern": pattern,
			})
		}
	}
}
