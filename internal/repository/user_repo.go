package repository

import (
	"context"
	"errors"

	"vacation-planner/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByChatID(ctx context.Context, chatID int64) (*models.User, error)
	GetAll(ctx context.Context) ([]*models.User, error)
	Save(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, user *models.User) error
	GetAdmins(ctx context.Context) ([]*models.User, error)
	GetStats(ctx context.Context) (int, int, error)
}

type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) (*GormUserRepository, error) {
	// Requests are migrated together with users because of the cascade constraint.
	if err := db.AutoMigrate(&models.User{}, &models.VacationRequest{}); err != nil {
		return nil, err
	}
	return &GormUserRepository{db: db}, nil
}

func withRequests(db *gorm.DB) *gorm.DB {
	return db.Preload("VacationRequests", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("created_at ASC")
	})
}

func (r *GormUserRepository) first(ctx context.Context, query string, args ...interface{}) (*models.User, error) {
	var user models.User
	result := withRequests(r.db.WithContext(ctx)).Where(query, args...).First(&user)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		return nil, result.Error
	}
	return &user, nil
}

func (r *GormUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.first(ctx, "username = ?", username)
}

func (r *GormUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *GormUserRepository) GetByChatID(ctx context.Context, chatID int64) (*models.User, error) {
	return r.first(ctx, "chat_id = ?", chatID)
}

func (r *GormUserRepository) GetAll(ctx context.Context) ([]*models.User, error) {
	var users []*models.User
	result := withRequests(r.db.WithContext(ctx)).Order("username ASC").Find(&users)
	if result.Error != nil {
		return nil, result.Error
	}
	return users, nil
}

// Save inserts a new user or updates an existing one together with its requests.
func (r *GormUserRepository) Save(ctx context.Context, user *models.User) error {
	db := r.db.WithContext(ctx)
	if user.ID == uuid.Nil {
		return db.Create(user).Error
	}
	return db.Session(&gorm.Session{FullSaveAssociations: true}).Save(user).Error
}

// Delete removes the user and all of its vacation requests.
func (r *GormUserRepository) Delete(ctx context.Context, user *models.User) error {
	result := r.db.WithContext(ctx).Select("VacationRequests").Delete(user)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("user not found")
	}
	return nil
}

func (r *GormUserRepository) GetAdmins(ctx context.Context) ([]*models.User, error) {
	var admins []*models.User
	result := r.db.WithContext(ctx).Where("role = ?", models.RoleAdmin).Find(&admins)
	if result.Error != nil {
		return nil, result.Error
	}
	return admins, nil
}

// GetStats returns the total number of users and the number of admins.
func (r *GormUserRepository) GetStats(ctx context.Context) (int, int, error) {
	var total, admins int64
	db := r.db.WithContext(ctx)

	if err := db.Model(&models.User{}).Count(&total).Error; err != nil {
		return 0, 0, err
	}
	if err := db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&admins).Error; err != nil {
		return 0, 0, err
	}
	return int(total), int(admins), nil
}
