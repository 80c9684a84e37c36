package domain

import (
	"time"

	authdomain "alertfi-backend/internal/auth/domain"
)

// Detector is a gas-sensing device owned by exactly one user.
// SensorOn reflects the requested state; ingestion does not enforce it.
type Detector struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	UserID       string    `json:"user_id" gorm:"index;not null"`
	Name         string    `json:"name" gorm:"size:50;not null"`
	Location     string    `json:"location" gorm:"size:100"`
	SensorOn     bool      `json:"sensor_on" gorm:"not null"`
	WifiSSID     string    `json:"wifi_ssid,omitempty" gorm:"size:64"`
	WifiPassword string    `json:"-" gorm:"size:128"`
	AuthToken    string    `json:"-" gorm:"size:128"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Owner *authdomain.User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
