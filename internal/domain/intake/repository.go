package intake

import (
	"context"

	"github.com/BruksfildServices01/repair-jobcards/internal/models"
)

type Repository interface {
	// -------- Client --------
	FindClientByPhone(
		ctx context.Context,
		phone string,
	) (Lookup[models.Client], error)

	// CreateClient returns httperr.ConflictError when the phone is already taken.
	CreateClient(
		ctx context.Context,
		client *models.Client,
	) error

	GetClient(
		ctx context.Context,
		id uint,
	) (*models.Client, error)

	// -------- Device --------
	FindDeviceBySerial(
		ctx context.Context,
		serial string,
	) (Lookup[models.Device], error)

	// CreateDevice returns httperr.ConflictError when the serial is already taken.
	CreateDevice(
		ctx context.Context,
		device *models.Device,
	) error
}
