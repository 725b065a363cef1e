package intake

import (
	"strings"

	"github.com/BruksfildServices01/repair-jobcards/internal/httperr"
	"github.com/BruksfildServices01/repair-jobcards/internal/models"
	"github.com/BruksfildServices01/repair-jobcards/internal/validators"
)

const (
	WarrantyIn  = "in_warranty"
	WarrantyOut = "out_of_warranty"
)

// ======================================================
// CLIENT
// ======================================================

type ClientFields struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// NormalizePhone strips the separators people type into phone numbers.
func NormalizePhone(phone string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '.', '(', ')', '\t':
			return -1
		}
		return r
	}, strings.TrimSpace(phone))
}

func (f ClientFields) Normalize() ClientFields {
	return ClientFields{
		Name:    strings.TrimSpace(f.Name),
		Email:   strings.ToLower(strings.TrimSpace(f.Email)),
		Phone:   NormalizePhone(f.Phone),
		Address: strings.TrimSpace(f.Address),
	}
}

func (f ClientFields) Validate() error {
	f = f.Normalize()

	required := []struct{ field, value string }{
		{"client.name", f.Name},
		{"client.phone", f.Phone},
		{"client.email", f.Email},
		{"client.address", f.Address},
	}
	for _, r := range required {
		if r.value == "" {
			return httperr.ErrRequired(r.field)
		}
	}

	if !validators.IsEmailValid(f.Email) {
		return httperr.ErrValidation("invalid_email", "client.email", "invalid client email")
	}
	return nil
}

func (f ClientFields) ToModel() *models.Client {
	f = f.Normalize()
	return &models.Client{
		Name:    f.Name,
		Email:   f.Email,
		Phone:   f.Phone,
		Address: f.Address,
	}
}

// ======================================================
// DEVICE
// ======================================================

type Component struct {
	Type    string `json:"type"`
	Serial  string `json:"serial"`
	Onboard bool   `json:"onboard"`
}

type DeviceFields struct {
	SerialNumber   string    `json:"serial_number"`
	Model          string    `json:"model"`
	Brand          string    `json:"brand"`
	Storage        Component `json:"storage"`
	Memory         Component `json:"memory"`
	Battery        Component `json:"battery"`
	Adapter        Component `json:"adapter"`
	WarrantyStatus string    `json:"warranty_status"`
}

func NormalizeSerial(serial string) string {
	return strings.TrimSpace(serial)
}

func (f DeviceFields) Normalize() DeviceFields {
	trim := func(c Component) Component {
		return Component{
			Type:    strings.TrimSpace(c.Type),
			Serial:  strings.TrimSpace(c.Serial),
			Onboard: c.Onboard,
		}
	}
	return DeviceFields{
		SerialNumber:   NormalizeSerial(f.SerialNumber),
		Model:          strings.TrimSpace(f.Model),
		Brand:          strings.TrimSpace(f.Brand),
		Storage:        trim(f.Storage),
		Memory:         trim(f.Memory),
		Battery:        trim(f.Battery),
		Adapter:        trim(f.Adapter),
		WarrantyStatus: strings.ToLower(strings.TrimSpace(f.WarrantyStatus)),
	}
}

func (f DeviceFields) Validate() error {
	f = f.Normalize()

	required := []struct{ field, value string }{
		{"device.serial_number", f.SerialNumber},
		{"device.model", f.Model},
		{"device.brand", f.Brand},
		{"device.warranty_status", f.WarrantyStatus},
	}
	for _, r := range required {
		if r.value == "" {
			return httperr.ErrRequired(r.field)
		}
	}

	if f.WarrantyStatus != WarrantyIn && f.WarrantyStatus != WarrantyOut {
		return httperr.ErrValidation(
			"invalid_warranty_status",
			"device.warranty_status",
			"warranty status must be in_warranty or out_of_warranty",
		)
	}

	components := []struct {
		name       string
		c          Component
		canOnboard bool
	}{
		{"storage", f.Storage, true},
		{"memory", f.Memory, true},
		{"battery", f.Battery, true},
		{"adapter", f.Adapter, false},
	}
	for _, comp := range components {
		if comp.c.Type == "" {
			return httperr.ErrRequired("device." + comp.name + ".type")
		}
		if comp.c.Onboard && !comp.canOnboard {
			return httperr.ErrValidation("invalid_component", "device."+comp.name+".onboard", comp.name+" cannot be onboard")
		}
		// peça soldada não tem serial próprio
		if comp.c.Serial == "" && !comp.c.Onboard {
			return httperr.ErrRequired("device." + comp.name + ".serial")
		}
	}

	return nil
}

func (f DeviceFields) ToModel(clientID uint) *models.Device {
	f = f.Normalize()
	return &models.Device{
		SerialNumber:   f.SerialNumber,
		Model:          f.Model,
		Brand:          f.Brand,
		StorageType:    f.Storage.Type,
		StorageSerial:  f.Storage.Serial,
		StorageOnboard: f.Storage.Onboard,
		MemoryType:     f.Memory.Type,
		MemorySerial:   f.Memory.Serial,
		MemoryOnboard:  f.Memory.Onboard,
		BatteryType:    f.Battery.Type,
		BatterySerial:  f.Battery.Serial,
		BatteryOnboard: f.Battery.Onboard,
		AdapterType:    f.Adapter.Type,
		AdapterSerial:  f.Adapter.Serial,
		WarrantyStatus: f.WarrantyStatus,
		ClientID:       clientID,
	}
}
