package models

import "time"

// Booking reserves one unit of a real slot for a subscriber.
type Booking struct {
	ID           string     `bson:"id" json:"id"`
	SlotID       string     `bson:"slotId" json:"slotId"`
	SlotTime     time.Time  `bson:"slotTime" json:"slotTime"` // copied from the slot so sweeps can range-query
	SubscriberID string     `bson:"subscriberId" json:"subscriberId"`
	CreatedAt    time.Time  `bson:"createdAt" json:"createdAt"`
	CheckedIn    bool       `bson:"checkedIn" json:"checkedIn"`
	CheckedInAt  *time.Time `bson:"checkedInAt,omitempty" json:"checkedInAt,omitempty"`
	ReminderSent bool       `bson:"reminderSent" json:"reminderSent"`
	Overbooked   bool       `bson:"overbooked,omitempty" json:"overbooked,omitempty"`
}
