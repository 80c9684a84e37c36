package domain

import "time"

type User struct {
	ID                   string    `json:"id" gorm:"primaryKey"`
	Email                string    `json:"email" gorm:"uniqueIndex;not null"`
	Password             string    `json:"-"` // Never return password in JSON
	Name                 string    `json:"name"`
	NotificationsEnabled bool      `json:"notifications_enabled" gorm:"not null"`
	IsAdmin              bool      `json:"is_admin" gorm:"not null"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

type RefreshToken struct {
	Token     string    `json:"token" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"index;not null"`
	ExpiresAt time.Time `json:"expires_at"`
}
