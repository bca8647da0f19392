package dashboard

import (
	"context"
	"fmt"
	"time"

	"bookfair/internal/reservations"
	"bookfair/internal/shared/constants"
	"bookfair/internal/stalls"
	"bookfair/pkg/cache"
	"bookfair/pkg/logger"
)

const trendDays = 30

type Service interface {
	GetDashboardStats(ctx context.Context) (*DashboardStats, error)
}

type service struct {
	reservationRepo reservations.Repository
	stallRepo       stalls.Repository
	cache           cache.Service
	log             *logger.Logger
}

func NewService(reservationRepo reservations.Repository, stallRepo stalls.Repository, cacheService cache.Service, log *logger.Logger) Service {
	return &service{
		reservationRepo: reservationRepo,
		stallRepo:       stallRepo,
		cache:           cacheService,
		log:             log,
	}
}

func (s *service) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats
	err := s.cache.GetOrSet(ctx, constants.CACHE_KEY_DASHBOARD_STATS, constants.TTL_DASHBOARD_STATS, func() (interface{}, error) {
		return s.buildStats(ctx)
	}, &stats)
	if err != nil {
		return nil, fmt.Errorf("failed to get dashboard stats: %w", err)
	}
	return &stats, nil
}

func (s *service) buildStats(ctx context.Context) (*DashboardStats, error) {
	reservationCounts, err := s.reservationRepo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count reservations: %w", err)
	}

	revenue, err := s.reservationRepo.SumConfirmedRevenue(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to sum confirmed revenue: %w", err)
	}

	stallCounts, err := s.stallRepo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count stalls: %w", err)
	}

	sizeCounts, err := s.stallRepo.CountBySize(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count stalls by size: %w", err)
	}

	since := time.Now().UTC().AddDate(0, 0, -(trendDays - 1)).Truncate(24 * time.Hour)
	dailyCounts, err := s.reservationRepo.CountByDay(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to build daily trend: %w", err)
	}

	pending := reservationCounts[reservations.StatusPending]
	confirmed := reservationCounts[reservations.StatusConfirmed]
	cancelled := reservationCounts[reservations.StatusCancelled]

	available := stallCounts[stalls.StatusAvailable]
	reserved := stallCounts[stalls.StatusReserved]
	unavailable := stallCounts[stalls.StatusUnavailable]
	totalStalls := available + reserved + unavailable

	bySize := make(map[string]int64, len(sizeCounts))
	for size, count := range sizeCounts {
		bySize[string(size)] = count
	}

	var occupancy float64
	if totalStalls > 0 {
		occupancy = float64(reserved) / float64(totalStalls) * 100
	}

	// Fill every day of the window so the chart has no gaps
	trend := make([]DailyCount, 0, trendDays)
	for day := 0; day < trendDays; day++ {
		date := since.AddDate(0, 0, day).Format("2006-01-02")
		trend = append(trend, DailyCount{
			Date:  date,
			Count: dailyCounts[date],
		})
	}

	return &DashboardStats{
		Reservations: ReservationStats{
			Total:     pending + confirmed + cancelled,
			Pending:   pending,
			Confirmed: confirmed,
			Cancelled: cancelled,
		},
		Stalls: StallStats{
			Total:         totalStalls,
			Available:     available,
			Reserved:      reserved,
			Unavailable:   unavailable,
			BySize:        bySize,
			OccupancyRate: occupancy,
		},
		Revenue: RevenueStats{
			ConfirmedRevenue: revenue,
		},
		DailyTrend: trend,
	}, nil
}
