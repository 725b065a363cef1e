package intake

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/repair-jobcards/internal/httperr"
	"github.com/BruksfildServices01/repair-jobcards/internal/models"
)

func validClient() ClientFields {
	return ClientFields{
		Name:    "Jane Doe",
		Email:   "Jane@Example.com",
		Phone:   "0700 000-001",
		Address: "Moi Avenue 12",
	}
}

func validDevice() DeviceFields {
	return DeviceFields{
		SerialNumber:   "  SN-1 ",
		Model:          "ThinkPad T14",
		Brand:          "Lenovo",
		Storage:        Component{Type: "SSD", Serial: "ST-1"},
		Memory:         Component{Type: "DDR4", Onboard: true},
		Battery:        Component{Type: "Li-ion", Serial: "BT-1"},
		Adapter:        Component{Type: "65W", Serial: "AD-1"},
		WarrantyStatus: "In_Warranty",
	}
}

func TestLookup(t *testing.T) {
	miss := NotFound[models.Client]()
	v, ok := miss.Get()
	assert.False(t, ok)
	assert.Nil(t, v)
	assert.False(t, miss.IsFound())

	hit := Found(&models.Client{ID: 7})
	v, ok = hit.Get()
	require.True(t, ok)
	assert.Equal(t, uint(7), v.ID)
}

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "0700000001", NormalizePhone(" 0700 000-001 "))
	assert.Equal(t, "+254700000001", NormalizePhone("+254 (700) 000.001"))
}

func TestClientFieldsValidate(t *testing.T) {
	require.NoError(t, validClient().Validate())

	c := validClient().ToModel()
	assert.Equal(t, "0700000001", c.Phone)
	assert.Equal(t, "jane@example.com", c.Email)

	missing := validClient()
	missing.Address = "  "
	err := missing.Validate()
	assert.True(t, httperr.IsValidation(err, "required_field"))

	var ve *httperr.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "client.address", ve.Field)

	bad := validClient()
	bad.Email = "not-an-email"
	assert.True(t, httperr.IsValidation(bad.Validate(), "invalid_email"))
}

func TestDeviceFieldsValidate(t *testing.T) {
	require.NoError(t, validDevice().Validate())

	d := validDevice().ToModel(3)
	assert.Equal(t, "SN-1", d.SerialNumber)
	assert.Equal(t, "in_warranty", d.WarrantyStatus)
	assert.True(t, d.MemoryOnboard)
	assert.Equal(t, uint(3), d.ClientID)

	noSerial := validDevice()
	noSerial.Battery.Serial = ""
	assert.True(t, httperr.IsValidation(noSerial.Validate(), "required_field"))

	onboardAdapter := validDevice()
	onboardAdapter.Adapter = Component{Type: "65W", Onboard: true}
	assert.True(t, httperr.IsValidation(onboardAdapter.Validate(), "invalid_component"))

	warranty := validDevice()
	warranty.WarrantyStatus = "expired"
	assert.True(t, httperr.IsValidation(warranty.Validate(), "invalid_warranty_status"))

	noType := validDevice()
	noType.Storage.Type = ""
	assert.True(t, httperr.IsValidation(noType.Validate(), "required_field"))
}
