package model

import "time"

// PushSubscription holds the information for a dashboard's browser push
// subscription. Subscribers receive a notification for every synced alert.
type PushSubscription struct {
	Endpoint  string    `gorm:"primaryKey" json:"endpoint"`
	P256DH    string    `gorm:"column:p256dh;not null" json:"p256dh"`
	Auth      string    `gorm:"not null" json:"auth"`
	CreatedAt time.Time `gorm:"not null" json:"-"`
}
