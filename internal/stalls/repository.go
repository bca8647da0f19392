package stalls

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	// Stall CRUD
	CreateStall(ctx context.Context, stall *Stall) error
	GetStallByID(ctx context.Context, id uuid.UUID) (*Stall, error)
	GetStallsByIDs(ctx context.Context, stallIDs []uuid.UUID) ([]Stall, error)
	ListStalls(ctx context.Context, query StallListQuery) ([]Stall, error)
	ListAvailableStalls(ctx context.Context) ([]Stall, error)
	UpdateStall(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	UpdateStallStatus(ctx context.Context, id uuid.UUID, status Status) error
	UpdateStallsStatus(ctx context.Context, stallIDs []uuid.UUID, status Status) error
	DeleteStall(ctx context.Context, id uuid.UUID) error

	// Uniqueness and aggregates
	StallNumberExists(ctx context.Context, stallNumber string) (bool, error)
	CountByStatus(ctx context.Context) (map[Status]int64, error)
	CountBySize(ctx context.Context) (map[Size]int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateStall(ctx context.Context, stall *Stall) error {
	return r.db.WithContext(ctx).Create(stall).Error
}

func (r *repository) GetStallByID(ctx context.Context, id uuid.UUID) (*Stall, error) {
	var stall Stall
	err := r.db.WithContext(ctx).First(&stall, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &stall, nil
}

func (r *repository) GetStallsByIDs(ctx context.Context, stallIDs []uuid.UUID) ([]Stall, error) {
	var list []Stall
	err := r.db.WithContext(ctx).
		Where("id IN ?", stallIDs).
		Find(&list).Error
	return list, err
}

func (r *repository) ListStalls(ctx context.Context, query StallListQuery) ([]Stall, error) {
	var list []Stall
	dbQuery := r.db.WithContext(ctx).Model(&Stall{})

	if query.Status != "" {
		dbQuery = dbQuery.Where("status = ?", query.Status)
	}
	if query.Size != "" {
		dbQuery = dbQuery.Where("size = ?", query.Size)
	}

	err := dbQuery.Order("stall_number ASC").Find(&list).Error
	return list, err
}

func (r *repository) ListAvailableStalls(ctx context.Context) ([]Stall, error) {
	var list []Stall
	err := r.db.WithContext(ctx).
		Where("status = ?", StatusAvailable).
		Order("stall_number ASC").
		Find(&list).Error
	return list, err
}

func (r *repository) UpdateStall(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&Stall{}).Where("id = ?", id).Updates(updates).Error
}

func (r *repository) UpdateStallStatus(ctx context.Context, id uuid.UUID, status Status) error {
	return r.db.WithContext(ctx).Model(&Stall{}).Where("id = ?", id).Update("status", status).Error
}

func (r *repository) UpdateStallsStatus(ctx context.Context, stallIDs []uuid.UUID, status Status) error {
	return r.db.WithContext(ctx).Model(&Stall{}).Where("id IN ?", stallIDs).Update("status", status).Error
}

func (r *repository) DeleteStall(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&Stall{}, "id = ?", id).Error
}

func (r *repository) StallNumberExists(ctx context.Context, stallNumber string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Stall{}).Where("stall_number = ?", stallNumber).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) CountByStatus(ctx context.Context) (map[Status]int64, error) {
	var rows []struct {
		Status Status
		Count  int64
	}
	err := r.db.WithContext(ctx).
		Model(&Stall{}).
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

func (r *repository) CountBySize(ctx context.Context) (map[Size]int64, error) {
	var rows []struct {
		Size  Size
		Count int64
	}
	err := r.db.WithContext(ctx).
		Model(&Stall{}).
		Select("size, COUNT(*) as count").
		Group("size").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[Size]int64, len(rows))
	for _, row := range rows {
		counts[row.Size] = row.Count
	}
	return counts, nil
}
