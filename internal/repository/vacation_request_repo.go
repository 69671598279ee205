package repository

import (
	"context"
	"errors"

	"vacation-planner/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VacationRequestRepository interface {
	Save(ctx context.Context, request *models.VacationRequest) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.VacationRequest, error)
	GetAll(ctx context.Context) ([]models.VacationRequest, error)
	GetByUsername(ctx context.Context, username string) ([]models.VacationRequest, error)
	GetPending(ctx context.Context) ([]models.VacationRequest, error)
}

type GormVacationRequestRepository struct {
	db *gorm.DB
}

func NewGormVacationRequestRepository(db *gorm.DB) (*GormVacationRequestRepository, error) {
	if err := db.AutoMigrate(&models.VacationRequest{}); err != nil {
		return nil, err
	}
	return &GormVacationRequestRepository{db: db}, nil
}

// Save upserts the request; the id is assigned on first save.
func (r *GormVacationRequestRepository) Save(ctx context.Context, request *models.VacationRequest) error {
	return r.db.WithContext(ctx).Save(request).Error
}

func (r *GormVacationRequestRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.VacationRequest{}, "id = ?", id).Error
}

func (r *GormVacationRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.VacationRequest, error) {
	var request models.VacationRequest
	err := r.db.WithContext(ctx).First(&request, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *GormVacationRequestRepository) GetAll(ctx context.Context) ([]models.VacationRequest, error) {
	var requests []models.VacationRequest
	err := r.db.WithContext(ctx).Order("start_date ASC, created_at ASC").Find(&requests).Error
	return requests, err
}

func (r *GormVacationRequestRepository) GetByUsername(ctx context.Context, username string) ([]models.VacationRequest, error) {
	var requests []models.VacationRequest
	err := r.db.WithContext(ctx).
		Where("username = ?", username).
		Order("created_at ASC").
		Find(&requests).Error
	return requests, err
}

func (r *GormVacationRequestRepository) GetPending(ctx context.Context) ([]models.VacationRequest, error) {
	var requests []models.VacationRequest
	err := r.db.WithContext(ctx).
		Where("status = ?", models.StatusPending).
		Order("start_date ASC").
		Find(&requests).Error
	return requests, err
}
