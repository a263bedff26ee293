package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/FatimaaAlzahraa/RouteX/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepo interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByPhone(ctx context.Context, phone string) (*models.User, error)
}

type userRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) UserRepo { return &userRepo{db: db} }

func (r *userRepo) Create(ctx context.Context, u *models.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &u, err
}

func (r *userRepo) GetByPhone(ctx context.Context, phone string) (*models.User, error) {
	var u models.User
	err := r.db.WithContext(ctx).First(&u, "phone = ?", phone).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &u, err
}

type DriverRepo interface {
	Create(ctx context.Context, d *models.Driver) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Driver, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Driver, error)
	// FindByUserName ищет водителей по имени пользователя (case-insensitive).
	// Возвращает всех совпавших: неоднозначность разруливает сервис.
	FindByUserName(ctx context.Context, name string) ([]models.Driver, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

type driverRepo struct{ db *gorm.DB }

func NewDriverRepo(db *gorm.DB) DriverRepo { return &driverRepo{db: db} }

func (r *driverRepo) Create(ctx context.Context, d *models.Driver) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *driverRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Driver, error) {
	var d models.Driver
	err := r.db.WithContext(ctx).Preload("User").First(&d, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &d, err
}

func (r *driverRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Driver, error) {
	var d models.Driver
	err := r.db.WithContext(ctx).Preload("User").First(&d, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &d, err
}

func (r *driverRepo) FindByUserName(ctx context.Context, name string) ([]models.Driver, error) {
	var list []models.Driver
	err := r.db.WithContext(ctx).
		Preload("User").
		Joins("JOIN users ON users.id = drivers.user_id").
		Where("lower(users.name) = lower(?)", strings.TrimSpace(name)).
		Find(&list).Error
	return list, err
}

func (r *driverRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return r.db.WithContext(ctx).Model(&models.Driver{}).Where("id = ?", id).Update("is_active", active).Error
}

type ManagerRepo interface {
	Create(ctx context.Context, m *models.WarehouseManager) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.WarehouseManager, error)
	ExistsByUserID(ctx context.Context, userID uuid.UUID) (bool, error)
}

type managerRepo struct{ db *gorm.DB }

func NewManagerRepo(db *gorm.DB) ManagerRepo { return &managerRepo{db: db} }

func (r *managerRepo) Create(ctx context.Context, m *models.WarehouseManager) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *managerRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.WarehouseManager, error) {
	var m models.WarehouseManager
	err := r.db.WithContext(ctx).First(&m, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &m, err
}

func (r *managerRepo) ExistsByUserID(ctx context.Context, userID uuid.UUID) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&models.WarehouseManager{}).Where("user_id = ?", userID).Count(&cnt).Error
	return cnt > 0, err
}
