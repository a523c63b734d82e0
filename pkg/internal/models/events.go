package models

import "time"

type Event struct {
	BaseModel

	Title       string     `json:"title" gorm:"size:255"`
	Description string     `json:"description"`
	Location    string     `json:"location" gorm:"size:255"`
	StartsAt    time.Time  `json:"starts_at" gorm:"index"`
	EndsAt      time.Time  `json:"ends_at"`
	Capacity    int        `json:"capacity"`
	Image       *string    `json:"image"`
	CancelledAt *time.Time `json:"cancelled_at"`

	OrganizerID uint      `json:"organizer_id"`
	Organizer   User      `json:"organizer"`
	CategoryID  *uint     `json:"category_id"`
	Category    *Category `json:"category,omitempty"`
	Attendees   []User    `json:"attendees,omitempty" gorm:"many2many:event_attendees"`

	Metric EventMetric `json:"metric" gorm:"-"`
}

type EventMetric struct {
	AttendeeCount  int64         `json:"attendee_count"`
	RemainingSeats int64         `json:"remaining_seats"`
	Rating         RatingSummary `json:"rating"`
}

func (v Event) IsCancelled() bool {
	return v.CancelledAt != nil
}

func (v Event) HasStarted(now time.Time) bool {
	return !now.Before(v.StartsAt)
}

func (v Event) HasEnded(now time.Time) bool {
	return !now.Before(v.EndsAt)
}
