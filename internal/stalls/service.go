package stalls

import (
	"context"
	"errors"
	"fmt"

	"bookfair/internal/shared/constants"
	"bookfair/pkg/cache"
	"bookfair/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrStallNotFound  = errors.New("stall not found")
	ErrDuplicateStall = errors.New("stall number already exists")
	ErrStallInUse     = errors.New("stall has an active reservation")
	ErrInvalidSize    = errors.New("invalid stall size")
	ErrInvalidStatus  = errors.New("invalid stall status")
)

// ReservationLookup resolves the active reservation holding a stall.
// Implemented by the reservations package; injected after construction
// to avoid an import cycle.
type ReservationLookup interface {
	GetActiveReservationForStall(ctx context.Context, stallID uuid.UUID) (*StallReservationSummary, error)
}

type Service interface {
	// Catalog reads
	ListStalls(ctx context.Context, query StallListQuery) ([]StallResponse, error)
	ListAvailableStalls(ctx context.Context) ([]StallResponse, error)
	GetStall(ctx context.Context, id uuid.UUID) (*StallResponse, error)
	GetStallReservation(ctx context.Context, id uuid.UUID) (*StallReservationSummary, error)

	// Staff catalog management
	CreateStall(ctx context.Context, req *CreateStallRequest, createdBy uuid.UUID) (*StallResponse, error)
	UpdateStall(ctx context.Context, id uuid.UUID, req *UpdateStallRequest) (*StallResponse, error)
	UpdateStallStatus(ctx context.Context, id uuid.UUID, status string) (*StallResponse, error)
	DeleteStall(ctx context.Context, id uuid.UUID) error
	GetStatistics(ctx context.Context) (*StallStatistics, error)

	// Called by the reservation lifecycle when stalls change hands
	MarkStallsReserved(ctx context.Context, stallIDs []uuid.UUID) error
	MarkStallsAvailable(ctx context.Context, stallIDs []uuid.UUID) error

	// Wiring
	SetReservationLookup(lookup ReservationLookup)
}

type service struct {
	repo              Repository
	cache             cache.Service
	log               *logger.Logger
	reservationLookup ReservationLookup
}

func NewService(repo Repository, cacheService cache.Service, log *logger.Logger) Service {
	return &service{
		repo:  repo,
		cache: cacheService,
		log:   log,
	}
}

func (s *service) SetReservationLookup(lookup ReservationLookup) {
	s.reservationLookup = lookup
}

func (s *service) ListStalls(ctx context.Context, query StallListQuery) ([]StallResponse, error) {
	if query.Status != "" && !IsValidStatus(query.Status) {
		return nil, ErrInvalidStatus
	}
	if query.Size != "" && !IsValidSize(query.Size) {
		return nil, ErrInvalidSize
	}

	var responses []StallResponse
	key := constants.BuildStallListKey(query.Status, query.Size)

	err := s.cache.GetOrSet(ctx, key, constants.TTL_STALLS_LIST, func() (interface{}, error) {
		list, err := s.repo.ListStalls(ctx, query)
		if err != nil {
			return nil, err
		}
		return ToStallResponses(list), nil
	}, &responses)

	if err != nil {
		return nil, fmt.Errorf("failed to list stalls: %w", err)
	}
	return responses, nil
}

func (s *service) ListAvailableStalls(ctx context.Context) ([]StallResponse, error) {
	var responses []StallResponse

	err := s.cache.GetOrSet(ctx, constants.CACHE_KEY_STALLS_AVAILABLE, constants.TTL_STALLS_AVAILABLE, func() (interface{}, error) {
		list, err := s.repo.ListAvailableStalls(ctx)
		if err != nil {
			return nil, err
		}
		return ToStallResponses(list), nil
	}, &responses)

	if err != nil {
		return nil, fmt.Errorf("failed to list available stalls: %w", err)
	}
	return responses, nil
}

func (s *service) GetStall(ctx context.Context, id uuid.UUID) (*StallResponse, error) {
	stall, err := s.repo.GetStallByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStallNotFound
		}
		return nil, err
	}

	resp := ToStallResponse(stall)
	return &resp, nil
}

// GetStallReservation returns the active reservation holding the stall,
// or nil when the stall is free. A missing reservation is not an error.
func (s *service) GetStallReservation(ctx context.Context, id uuid.UUID) (*StallReservationSummary, error) {
	if _, err := s.GetStall(ctx, id); err != nil {
		return nil, err
	}

	if s.reservationLookup == nil {
		return nil, nil
	}

	summary, err := s.reservationLookup.GetActiveReservationForStall(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to look up stall reservation: %w", err)
	}
	return summary, nil
}

func (s *service) CreateStall(ctx context.Context, req *CreateStallRequest, createdBy uuid.UUID) (*StallResponse, error) {
	exists, err := s.repo.StallNumberExists(ctx, req.StallNumber)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateStall
	}

	stall := &Stall{
		StallNumber: req.StallNumber,
		StallName:   req.StallName,
		Size:        Size(req.Size),
		Location:    req.Location,
		Description: req.Description,
		Price:       req.Price,
		Status:      StatusAvailable,
		CreatedBy:   createdBy,
	}

	if err := s.repo.CreateStall(ctx, stall); err != nil {
		return nil, fmt.Errorf("failed to create stall: %w", err)
	}

	s.invalidateCatalogCache(ctx)

	resp := ToStallResponse(stall)
	return &resp, nil
}

func (s *service) UpdateStall(ctx context.Context, id uuid.UUID, req *UpdateStallRequest) (*StallResponse, error) {
	if _, err := s.GetStall(ctx, id); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.StallName != nil {
		updates["stall_name"] = *req.StallName
	}
	if req.Size != nil {
		updates["size"] = *req.Size
	}
	if req.Location != nil {
		updates["location"] = *req.Location
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}

	if len(updates) > 0 {
		if err := s.repo.UpdateStall(ctx, id, updates); err != nil {
			return nil, fmt.Errorf("failed to update stall: %w", err)
		}
		s.invalidateCatalogCache(ctx)
	}

	return s.GetStall(ctx, id)
}

func (s *service) UpdateStallStatus(ctx context.Context, id uuid.UUID, status string) (*StallResponse, error) {
	if !IsValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	if _, err := s.GetStall(ctx, id); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStallStatus(ctx, id, Status(status)); err != nil {
		return nil, fmt.Errorf("failed to update stall status: %w", err)
	}

	s.log.LogStallStatusChanged(ctx, id.String(), status)
	s.invalidateCatalogCache(ctx)

	return s.GetStall(ctx, id)
}

func (s *service) DeleteStall(ctx context.Context, id uuid.UUID) error {
	stall, err := s.repo.GetStallByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStallNotFound
		}
		return err
	}

	// Reserved stalls stay in the catalog until the reservation resolves
	if stall.Status == StatusReserved {
		return ErrStallInUse
	}

	if err := s.repo.DeleteStall(ctx, id); err != nil {
		return fmt.Errorf("failed to delete stall: %w", err)
	}

	s.invalidateCatalogCache(ctx)
	return nil
}

func (s *service) GetStatistics(ctx context.Context) (*StallStatistics, error) {
	var stats StallStatistics

	err := s.cache.GetOrSet(ctx, constants.CACHE_KEY_STALL_STATS, constants.TTL_STALL_STATS, func() (interface{}, error) {
		byStatus, err := s.repo.CountByStatus(ctx)
		if err != nil {
			return nil, err
		}
		bySize, err := s.repo.CountBySize(ctx)
		if err != nil {
			return nil, err
		}

		result := StallStatistics{
			Available:   byStatus[StatusAvailable],
			Reserved:    byStatus[StatusReserved],
			Unavailable: byStatus[StatusUnavailable],
			BySize:      make(map[string]int64, len(bySize)),
		}
		for size, count := range bySize {
			result.BySize[string(size)] = count
			result.Total += count
		}
		return result, nil
	}, &stats)

	if err != nil {
		return nil, fmt.Errorf("failed to load stall statistics: %w", err)
	}
	return &stats, nil
}

func (s *service) MarkStallsReserved(ctx context.Context, stallIDs []uuid.UUID) error {
	if err := s.repo.UpdateStallsStatus(ctx, stallIDs, StatusReserved); err != nil {
		return fmt.Errorf("failed to mark stalls reserved: %w", err)
	}
	s.invalidateCatalogCache(ctx)
	return nil
}

func (s *service) MarkStallsAvailable(ctx context.Context, stallIDs []uuid.UUID) error {
	if err := s.repo.UpdateStallsStatus(ctx, stallIDs, StatusAvailable); err != nil {
		return fmt.Errorf("failed to mark stalls available: %w", err)
	}
	s.invalidateCatalogCache(ctx)
	return nil
}

// invalidateCatalogCache drops every cached catalog read. Failures are
// logged and swallowed; stale listings expire on their own TTL.
func (s *service) invalidateCatalogCache(ctx context.Context) {
	if err := s.cache.DeletePattern(ctx, constants.PATTERN_INVALIDATE_STALLS_ALL); err != nil {
		s.log.ErrorWithContext(ctx, "Failed to invalidate stall cache", err, nil)
	}
}
