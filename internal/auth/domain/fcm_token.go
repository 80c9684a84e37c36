package domain

import "time"

// FCMToken is a push notification token for one of a user's devices.
// (user_id, token) is unique; re-registering refreshes UpdatedAt.
type FCMToken struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	UserID     string    `json:"user_id" gorm:"uniqueIndex:idx_fcm_user_token;not null"`
	Token      string    `json:"-" gorm:"uniqueIndex:idx_fcm_user_token;not null"` // Don't expose token in JSON
	DeviceInfo string    `json:"device_info"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	User *User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
