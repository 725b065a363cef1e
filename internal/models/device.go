package models

import "time"

type Device struct {
	ID uint `gorm:"primaryKey" json:"id"`

	SerialNumber string `gorm:"size:100;uniqueIndex;not null" json:"serial_number"`
	Model        string `gorm:"size:100;not null" json:"model"`
	Brand        string `gorm:"size:100;not null;index" json:"brand"`

	StorageType    string `gorm:"size:20" json:"storage_type"`
	StorageSerial  string `gorm:"size:100" json:"storage_serial"`
	StorageOnboard bool   `json:"storage_onboard"`

	MemoryType    string `gorm:"size:50" json:"memory_type"`
	MemorySerial  string `gorm:"size:100" json:"memory_serial"`
	MemoryOnboard bool   `json:"memory_onboard"`

	BatteryType    string `gorm:"size:50" json:"battery_type"`
	BatterySerial  string `gorm:"size:100" json:"battery_serial"`
	BatteryOnboard bool   `json:"battery_onboard"`

	AdapterType   string `gorm:"size:50" json:"adapter_type"`
	AdapterSerial string `gorm:"size:100" json:"adapter_serial"`

	WarrantyStatus string `gorm:"size:20;not null" json:"warranty_status"`

	// Dono atribuído na criação, nunca reatribuído.
	ClientID uint   `gorm:"not null;index" json:"client_id"`
	Client   Client `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"client"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
