package models

import "time"

// Event is a campus activity. A nil capacity means unlimited seats.
type Event struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ClubID     *uint     `gorm:"index" json:"club_id"`
	Title      string    `gorm:"size:200;not null" json:"title"`
	StartsAt   time.Time `gorm:"index;not null" json:"starts_at"`
	Location   string    `gorm:"size:200;not null" json:"location"`
	Capacity   *int      `json:"capacity"`
	PriceCents int       `gorm:"not null;default:0" json:"price_cents"`
	Category   string    `gorm:"size:50;not null;default:general;index" json:"category"`
	CreatedBy  string    `gorm:"size:255" json:"created_by"`
	CreatedAt  time.Time `json:"created_at"`
}

// HasCapacity reports whether the event limits its seats.
func (e Event) HasCapacity() bool {
	return e.Capacity != nil
}

// Registration records that a user holds a seat at an event.
type Registration struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	EventID      uint      `gorm:"not null;uniqueIndex:idx_event_registrant;index" json:"event_id"`
	UserIdentity string    `gorm:"size:255;not null;uniqueIndex:idx_event_registrant;index" json:"user_identity"`
	CreatedAt    time.Time `json:"created_at"`
}

// EventWithCount pairs an event with its current registration count.
type EventWithCount struct {
	Event
	RegistrationCount int64 `gorm:"column:registration_count" json:"registration_count"`
}
