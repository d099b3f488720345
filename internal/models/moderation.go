package models

import "time"

// Flaggable item types.
const (
	FlagItemEvent        = "event"
	FlagItemAnnouncement = "announcement"
)

// Flag is a moderation report. Resolution is one-way.
type Flag struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	ItemType   string     `gorm:"size:50;not null;index" json:"item_type"`
	ItemID     uint       `gorm:"not null" json:"item_id"`
	Reason     string     `gorm:"type:text;not null" json:"reason"`
	ReportedBy string     `gorm:"size:255;not null" json:"reported_by"`
	Resolved   bool       `gorm:"not null;default:false;index" json:"resolved"`
	ResolvedBy string     `gorm:"size:255" json:"resolved_by"`
	ResolvedAt *time.Time `json:"resolved_at"`
	CreatedAt  time.Time  `json:"created_at"`
}
