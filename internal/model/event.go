package model

import (
	"time"
)

type EventType string

const (
	EventWorkshop     EventType = "Workshop"
	EventHackathon    EventType = "Hackathon"
	EventCompetition  EventType = "Competition"
	EventGuestLecture EventType = "Guest Lecture"
)

type Event struct {
	Base
	Owned
	Title            string     `json:"title" db:"title"`
	Description      string     `json:"description" db:"description"`
	Date             time.Time  `json:"date" db:"date"`
	EndDate          *time.Time `json:"endDate" db:"end_date"`
	Type             EventType  `json:"type" db:"type"`
	Banner           string     `json:"banner" db:"banner"`
	SchedulePDF      string     `json:"schedulePDF" db:"schedule_pdf"`
	RegistrationLink string     `json:"registrationLink" db:"registration_link"`
	Venue            string     `json:"venue" db:"venue"`
	IsUpcoming       bool       `json:"isUpcoming" db:"is_upcoming"`

	// IsPast is computed on read from Date.
	IsPast bool `json:"isPast" db:"-"`
}

// Resolve fills the computed fields relative to now.
func (e *Event) Resolve(now time.Time) {
	e.IsPast = e.Date.Before(now)
}

// Files returns the upload URLs the event references.
func (e *Event) Files() []string {
	return nonEmpty(e.Banner, e.SchedulePDF)
}

// EventFilter narrows ListEvents. Upcoming true keeps events dated at or
// after Now, false keeps events before Now.
type EventFilter struct {
	Type     *EventType
	Upcoming *bool
	Now      time.Time
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
