package repository

import (
	"context"
	"fmt"
	"strconv"

	domain "github.com/BruksfildServices01/repair-jobcards/internal/domain/staff"
	"github.com/BruksfildServices01/repair-jobcards/internal/models"
	"gorm.io/gorm"
)

type StaffGormRepository struct {
	db *gorm.DB
}

func NewStaffGormRepository(db *gorm.DB) *StaffGormRepository {
	return &StaffGormRepository{db: db}
}

func (r *StaffGormRepository) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translateRead(err, "user", strconv.FormatUint(uint64(id), 10))
	}
	return &user, nil
}

func (r *StaffGormRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&user).Error; err != nil {
		return nil, translateRead(err, "user", email)
	}
	return &user, nil
}

func (r *StaffGormRepository) CreateUser(ctx context.Context, user *models.User) error {
	return translateWrite(r.db.WithContext(ctx).Create(user).Error, "user", user.Email)
}

func (r *StaffGormRepository) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

var _ domain.Repository = (*StaffGormRepository)(nil)
