package models

import "time"

// Cliente identificado pelo telefone; um registro por número.
type Client struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name    string `gorm:"size:100;not null" json:"name"`
	Email   string `gorm:"size:100" json:"email"`
	Phone   string `gorm:"size:20;uniqueIndex;not null" json:"phone"`
	Address string `gorm:"size:255" json:"address"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
