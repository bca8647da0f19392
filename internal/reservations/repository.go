package reservations

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"bookfair/internal/stalls"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	// Reads
	GetReservationByID(ctx context.Context, id uuid.UUID) (*Reservation, error)
	GetUserReservations(ctx context.Context, userID uuid.UUID) ([]Reservation, error)
	GetAllReservations(ctx context.Context, query ReservationListQuery) ([]Reservation, int64, error)
	GetActiveReservationForStall(ctx context.Context, stallID uuid.UUID) (*Reservation, error)
	CountByStatus(ctx context.Context) (map[Status]int64, error)
	SumConfirmedRevenue(ctx context.Context) (float64, error)
	CountByDay(ctx context.Context, since time.Time) (map[string]int64, error)
	CountDistinctReservedStalls(ctx context.Context) (int64, error)

	// Concurrency-safe lifecycle transitions
	CreateReservationWithStallLock(ctx context.Context, reservation *Reservation, stallIDs []uuid.UUID) error
	ConfirmReservation(ctx context.Context, id uuid.UUID) error
	CancelReservationWithStallRelease(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetReservationByID(ctx context.Context, id uuid.UUID) (*Reservation, error) {
	var reservation Reservation
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Stalls").
		Where("id = ?", id).
		First(&reservation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &reservation, nil
}

func (r *repository) GetUserReservations(ctx context.Context, userID uuid.UUID) ([]Reservation, error) {
	var list []Reservation
	err := r.db.WithContext(ctx).
		Preload("Stalls").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

func (r *repository) GetAllReservations(ctx context.Context, query ReservationListQuery) ([]Reservation, int64, error) {
	var list []Reservation
	var totalCount int64

	// Set defaults
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}

	baseQuery := r.db.WithContext(ctx).Model(&Reservation{})
	baseQuery = r.applyFilters(baseQuery, query)

	if err := baseQuery.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	offset := (query.Page - 1) * query.Limit
	err := baseQuery.
		Preload("User").
		Preload("Stalls").
		Order("created_at DESC").
		Offset(offset).
		Limit(query.Limit).
		Find(&list).Error

	return list, totalCount, err
}

// GetActiveReservationForStall finds the non-cancelled reservation that
// currently includes the stall. Returns ErrNotFound when the stall is free.
func (r *repository) GetActiveReservationForStall(ctx context.Context, stallID uuid.UUID) (*Reservation, error) {
	var snapshot ReservationStall
	err := r.db.WithContext(ctx).
		Joins("JOIN reservations ON reservations.id = reservation_stalls.reservation_id").
		Where("reservation_stalls.stall_id = ?", stallID).
		Where("reservations.status <> ?", StatusCancelled).
		Order("reservation_stalls.created_at DESC").
		First(&snapshot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return r.GetReservationByID(ctx, snapshot.ReservationID)
}

func (r *repository) CountByStatus(ctx context.Context) (map[Status]int64, error) {
	var rows []struct {
		Status Status
		Count  int64
	}
	err := r.db.WithContext(ctx).
		Model(&Reservation{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[Status]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *repository) SumConfirmedRevenue(ctx context.Context) (float64, error) {
	var revenue float64
	err := r.db.WithContext(ctx).
		Model(&Reservation{}).
		Where("status = ?", StatusConfirmed).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&revenue).Error
	return revenue, err
}

func (r *repository) CountByDay(ctx context.Context, since time.Time) (map[string]int64, error) {
	var rows []struct {
		Day   time.Time
		Count int64
	}
	err := r.db.WithContext(ctx).
		Model(&Reservation{}).
		Select("DATE(reservation_date) as day, COUNT(*) as count").
		Where("reservation_date >= ?", since).
		Group("DATE(reservation_date)").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Day.Format("2006-01-02")] = row.Count
	}
	return counts, nil
}

func (r *repository) CountDistinctReservedStalls(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&ReservationStall{}).
		Joins("JOIN reservations ON reservations.id = reservation_stalls.reservation_id").
		Where("reservations.status <> ?", StatusCancelled).
		Distinct("reservation_stalls.stall_id").
		Count(&count).Error
	return count, err
}

// CreateReservationWithStallLock creates a reservation atomically. The
// selected stall rows are locked for the duration of the transaction so
// two vendors cannot claim the same stall.
func (r *repository) CreateReservationWithStallLock(ctx context.Context, reservation *Reservation, stallIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. Lock the stall rows for update
		var lockedStalls []stalls.Stall
		err := tx.
			Set("gorm:query_option", "FOR UPDATE").
			Where("id IN ?", stallIDs).
			Find(&lockedStalls).Error
		if err != nil {
			return fmt.Errorf("failed to lock stalls: %w", err)
		}

		// 2. Every requested stall must exist
		if len(lockedStalls) != len(stallIDs) {
			return ErrStallNotFound
		}

		// 3. Every requested stall must still be available
		for _, stall := range lockedStalls {
			if !stall.IsAvailable() {
				return ErrStallUnavailable
			}
		}

		// 4. Freeze the stall snapshots and compute the total
		var total float64
		snapshots := make([]ReservationStall, 0, len(lockedStalls))
		for _, stall := range lockedStalls {
			total += stall.Price
			snapshots = append(snapshots, ReservationStall{
				StallID:     stall.ID,
				StallNumber: stall.StallNumber,
				StallName:   stall.StallName,
				Size:        stall.Size,
				Location:    stall.Location,
				Price:       stall.Price,
			})
		}
		reservation.TotalAmount = total
		reservation.Status = StatusPending

		// 5. Create the reservation and its snapshot rows
		if err := tx.Create(reservation).Error; err != nil {
			return fmt.Errorf("failed to create reservation: %w", err)
		}
		for i := range snapshots {
			snapshots[i].ReservationID = reservation.ID
		}
		if err := tx.Create(&snapshots).Error; err != nil {
			return fmt.Errorf("failed to create reservation stalls: %w", err)
		}
		reservation.Stalls = snapshots

		// 6. Take the stalls out of the pool
		err = tx.Model(&stalls.Stall{}).
			Where("id IN ?", stallIDs).
			Update("status", stalls.StatusReserved).Error
		if err != nil {
			return fmt.Errorf("failed to mark stalls reserved: %w", err)
		}

		return nil
	})
}

// ConfirmReservation transitions PENDING -> CONFIRMED and stamps confirmed_at.
// The status guard in the WHERE clause makes the transition race-safe.
func (r *repository) ConfirmReservation(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&Reservation{}).
		Where("id = ? AND status = ?", id, StatusPending).
		Updates(map[string]interface{}{
			"status":       StatusConfirmed,
			"confirmed_at": now,
			"updated_at":   now,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// Either missing or not pending; let the caller decide which
		var count int64
		if err := r.db.WithContext(ctx).Model(&Reservation{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
		return ErrInvalidTransition
	}
	return nil
}

// CancelReservationWithStallRelease cancels the reservation and frees its
// stalls in one transaction. A stall stays reserved only while a
// non-cancelled reservation holds it.
func (r *repository) CancelReservationWithStallRelease(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. Lock the reservation row
		var reservation Reservation
		err := tx.
			Set("gorm:query_option", "FOR UPDATE").
			Where("id = ?", id).
			First(&reservation).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to lock reservation: %w", err)
		}

		// 2. A cancelled reservation cannot be cancelled again;
		//    cancelled_at keeps its original value
		if !reservation.Status.CanCancel() {
			return ErrInvalidTransition
		}

		// 3. Mark cancelled
		now := time.Now()
		err = tx.Model(&Reservation{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"status":       StatusCancelled,
				"cancelled_at": now,
				"updated_at":   now,
			}).Error
		if err != nil {
			return fmt.Errorf("failed to cancel reservation: %w", err)
		}

		// 4. Free the stalls in the same transaction
		var snapshots []ReservationStall
		if err := tx.Where("reservation_id = ?", id).Find(&snapshots).Error; err != nil {
			return fmt.Errorf("failed to load reservation stalls: %w", err)
		}

		stallIDs := make([]uuid.UUID, 0, len(snapshots))
		for _, s := range snapshots {
			stallIDs = append(stallIDs, s.StallID)
		}

		if len(stallIDs) > 0 {
			err = tx.Model(&stalls.Stall{}).
				Where("id IN ? AND status = ?", stallIDs, stalls.StatusReserved).
				Update("status", stalls.StatusAvailable).Error
			if err != nil {
				return fmt.Errorf("failed to release stalls: %w", err)
			}
		}

		return nil
	})
}

// applyFilters applies query filters to the GORM query
func (r *repository) applyFilters(query *gorm.DB, filters ReservationListQuery) *gorm.DB {
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}

	if filters.UserID != "" {
		if userID, err := uuid.Parse(filters.UserID); err == nil {
			query = query.Where("user_id = ?", userID)
		}
	}

	if filters.DateFrom != "" {
		if dateFrom, err := time.Parse("2006-01-02", filters.DateFrom); err == nil {
			query = query.Where("reservation_date >= ?", dateFrom)
		}
	}

	if filters.DateTo != "" {
		if dateTo, err := time.Parse("2006-01-02", filters.DateTo); err == nil {
			// Add 23:59:59 to include the entire day
			dateTo = dateTo.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
			query = query.Where("reservation_date <= ?", dateTo)
		}
	}

	return query
}

// CalculateTotalPages is a helper for paginated listings
func CalculateTotalPages(totalCount int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int(math.Ceil(float64(totalCount) / float64(limit)))
}
