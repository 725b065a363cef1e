package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/repair-jobcards/internal/domain/intake"
	"github.com/BruksfildServices01/repair-jobcards/internal/models"
)

type IntakeGormRepository struct {
	db *gorm.DB
}

func NewIntakeGormRepository(db *gorm.DB) *IntakeGormRepository {
	return &IntakeGormRepository{db: db}
}

// --------------------------------------------------
// Client
// --------------------------------------------------

func (r *IntakeGormRepository) FindClientByPhone(
	ctx context.Context,
	phone string,
) (domain.Lookup[models.Client], error) {

	var client models.Client
	err := r.db.WithContext(ctx).
		Where("phone = ?", phone).
		First(&client).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.NotFound[models.Client](), nil
	case err != nil:
		return domain.NotFound[models.Client](), fmt.Errorf("find client by phone: %w", err)
	}
	return domain.Found(&client), nil
}

func (r *IntakeGormRepository) CreateClient(
	ctx context.Context,
	client *models.Client,
) error {
	return translateWrite(
		r.db.WithContext(ctx).Create(client).Error,
		"client", client.Phone,
	)
}

func (r *IntakeGormRepository) GetClient(
	ctx context.Context,
	id uint,
) (*models.Client, error) {

	var client models.Client
	if err := r.db.WithContext(ctx).First(&client, id).Error; err != nil {
		return nil, translateRead(err, "client", strconv.FormatUint(uint64(id), 10))
	}
	return &client, nil
}

// --------------------------------------------------
// Device
// --------------------------------------------------

func (r *IntakeGormRepository) FindDeviceBySerial(
	ctx context.Context,
	serial string,
) (domain.Lookup[models.Device], error) {

	var device models.Device
	err := r.db.WithContext(ctx).
		Where("serial_number = ?", serial).
		First(&device).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.NotFound[models.Device](), nil
	case err != nil:
		return domain.NotFound[models.Device](), fmt.Errorf("find device by serial: %w", err)
	}
	return domain.Found(&device), nil
}

func (r *IntakeGormRepository) CreateDevice(
	ctx context.Context,
	device *models.Device,
) error {
	// Client já existe; não deixa o gorm tentar um upsert da associação.
	return translateWrite(
		r.db.WithContext(ctx).Omit("Client").Create(device).Error,
		"device", device.SerialNumber,
	)
}

var _ domain.Repository = (*IntakeGormRepository)(nil)
