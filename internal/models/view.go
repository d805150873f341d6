package models

import "time"

// MachineView is a machine as shown to the user.
type MachineView struct {
	MachineRecord
	DisplayNumber string     `json:"displayNumber"`
	Watched       bool       `json:"watched"`
	EndDate       *time.Time `json:"endDate,omitempty"`
}

type MachinesOverview struct {
	Dryers           []MachineView `json:"dryers"`
	Washers          []MachineView `json:"washers"`
	AvailableDryers  int           `json:"availableDryers"`
	AvailableWashers int           `json:"availableWashers"`
	Prank            bool          `json:"prank"`
}

type Preferences struct {
	ReminderOffset       int  `json:"reminderOffset"`
	NotificationsAllowed bool `json:"notificationsAllowed"`
}
