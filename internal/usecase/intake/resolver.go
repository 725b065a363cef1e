package intake

import (
	"context"

	domain "github.com/BruksfildServices01/repair-jobcards/internal/domain/intake"
	"github.com/BruksfildServices01/repair-jobcards/internal/httperr"
	"github.com/BruksfildServices01/repair-jobcards/internal/models"
)

// Resolution is a resolve-or-create outcome. Reused means the stored record
// won and the submitted attributes were ignored.
type Resolution[T any] struct {
	Record *T
	Reused bool
}

type Resolver struct {
	repo domain.Repository
}

func NewResolver(repo domain.Repository) *Resolver {
	return &Resolver{repo: repo}
}

// ======================================================
// Pure reads
// ======================================================

func (r *Resolver) ResolveClient(ctx context.Context, phone string) (domain.Lookup[models.Client], error) {
	phone = domain.NormalizePhone(phone)
	if phone == "" {
		return domain.NotFound[models.Client](), httperr.ErrRequired("client.phone")
	}
	return r.repo.FindClientByPhone(ctx, phone)
}

func (r *Resolver) ResolveDevice(ctx context.Context, serial string) (domain.Lookup[models.Device], error) {
	serial = domain.NormalizeSerial(serial)
	if serial == "" {
		return domain.NotFound[models.Device](), httperr.ErrRequired("device.serial_number")
	}
	return r.repo.FindDeviceBySerial(ctx, serial)
}

// ======================================================
// Create
// ======================================================

func (r *Resolver) CreateClient(ctx context.Context, fields domain.ClientFields) (*models.Client, error) {
	if err := fields.Validate(); err != nil {
		return nil, err
	}
	client := fields.ToModel()
	if err := r.repo.CreateClient(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

func (r *Resolver) CreateDevice(ctx context.Context, fields domain.DeviceFields, clientID uint) (*models.Device, error) {
	if clientID == 0 {
		return nil, httperr.ErrRequired("device.client_id")
	}
	if err := fields.Validate(); err != nil {
		return nil, err
	}
	device := fields.ToModel(clientID)
	if err := r.repo.CreateDevice(ctx, device); err != nil {
		return nil, err
	}
	return device, nil
}

// ======================================================
// Resolve or create
// ======================================================

func (r *Resolver) ResolveOrCreateClient(ctx context.Context, fields domain.ClientFields) (*Resolution[models.Client], error) {
	found, err := r.ResolveClient(ctx, fields.Phone)
	if err != nil {
		return nil, err
	}
	if c, ok := found.Get(); ok {
		return &Resolution[models.Client]{Record: c, Reused: true}, nil
	}

	client, err := r.CreateClient(ctx, fields)
	if err == nil {
		return &Resolution[models.Client]{Record: client}, nil
	}
	if !httperr.IsConflict(err) {
		return nil, err
	}

	// outro pedido inseriu o mesmo telefone entre a busca e o insert
	found, rerr := r.ResolveClient(ctx, fields.Phone)
	if rerr != nil {
		return nil, rerr
	}
	if c, ok := found.Get(); ok {
		return &Resolution[models.Client]{Record: c, Reused: true}, nil
	}
	return nil, err
}

func (r *Resolver) ResolveOrCreateDevice(
	ctx context.Context,
	fields domain.DeviceFields,
	clientID uint,
) (*Resolution[models.Device], error) {

	found, err := r.ResolveDevice(ctx, fields.SerialNumber)
	if err != nil {
		return nil, err
	}
	if d, ok := found.Get(); ok {
		return reuseDevice(d, clientID)
	}

	device, err := r.CreateDevice(ctx, fields, clientID)
	if err == nil {
		return &Resolution[models.Device]{Record: device}, nil
	}
	if !httperr.IsConflict(err) {
		return nil, err
	}

	found, rerr := r.ResolveDevice(ctx, fields.SerialNumber)
	if rerr != nil {
		return nil, rerr
	}
	if d, ok := found.Get(); ok {
		return reuseDevice(d, clientID)
	}
	return nil, err
}

// O dono do aparelho nunca é reatribuído.
func reuseDevice(d *models.Device, clientID uint) (*Resolution[models.Device], error) {
	if d.ClientID != clientID {
		return nil, httperr.ErrValidation(
			"device_owner_mismatch",
			"device.serial_number",
			"device "+d.SerialNumber+" is registered to another client",
		)
	}
	return &Resolution[models.Device]{Record: d, Reused: true}, nil
}
