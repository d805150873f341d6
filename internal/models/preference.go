package models

import "time"

const (
	PrefReminderOffset       = "proxiwashNotifications"
	PrefNotificationsAllowed = "notificationsAllowed"
)

type Preference struct {
	Key       string    `gorm:"primaryKey;type:varchar(100)" json:"key"`
	Value     string    `gorm:"type:varchar(255);not null" json:"value"`
	UpdatedAt time.Time `json:"updatedAt"`
}
