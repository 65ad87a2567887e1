package model

import (
	"time"
)

type AnnouncementType string

const (
	AnnouncementInfo    AnnouncementType = "info"
	AnnouncementSuccess AnnouncementType = "success"
	AnnouncementWarning AnnouncementType = "warning"
	AnnouncementUrgent  AnnouncementType = "urgent"
)

type Announcement struct {
	Base
	Owned
	Title    string           `json:"title" db:"title"`
	Message  string           `json:"message" db:"message"`
	Type     AnnouncementType `json:"type" db:"type"`
	IsActive bool             `json:"isActive" db:"is_active"`
	Priority int              `json:"priority" db:"priority"`

	// ExpiryDate nil means the announcement never expires.
	ExpiryDate *time.Time `json:"expiryDate" db:"expiry_date"`
}

// IsVisible reports whether the public site should show the announcement.
func (a *Announcement) IsVisible(now time.Time) bool {
	return a.IsActive && (a.ExpiryDate == nil || a.ExpiryDate.After(now))
}

// AnnouncementFilter with ActiveAt set returns only announcements visible at
// that instant, ordered by priority; otherwise everything, newest first.
type AnnouncementFilter struct {
	ActiveAt *time.Time
}
