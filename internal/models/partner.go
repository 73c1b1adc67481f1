package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Partner is a delivery or fulfillment partner the store works with.
type Partner struct {
	ID      uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name    string    `json:"name" gorm:"type:varchar(255);not null"`
	Phone   string    `json:"phone" gorm:"type:varchar(20)"`
	Email   string    `json:"email,omitempty" gorm:"type:varchar(255)"`
	Area    string    `json:"area,omitempty" gorm:"type:varchar(255)"`
	Active  bool      `json:"active" gorm:"default:true"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Partner) TableName() string {
	return "partners"
}

// CreatePartnerRequest is the payload for partner creation
type CreatePartnerRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone" binding:"required"`
	Email string `json:"email"`
	Area  string `json:"area"`
}

// UpdatePartnerRequest is the payload for partner updates
type UpdatePartnerRequest struct {
	Name   *string `json:"name"`
	Phone  *string `json:"phone"`
	Email  *string `json:"email"`
	Area   *string `json:"area"`
	Active *bool   `json:"active"`
}
