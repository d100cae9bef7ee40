package domain

import (
	"strings"
	"time"
)

// AgendaType classifies an event.
type AgendaType string

const (
	AgendaWebinar   AgendaType = "webinar"
	AgendaWorkshop  AgendaType = "workshop"
	AgendaSeminar   AgendaType = "seminar"
	AgendaKongres   AgendaType = "kongres"
	AgendaPelatihan AgendaType = "pelatihan"
)

// Agenda is a scheduled association event. SKP is the number of
// continuing-education credits awarded for attending.
type Agenda struct {
	ID              string     `json:"id"                        bson:"_id"`
	Slug            string     `json:"slug"                      bson:"slug"`
	Title           string     `json:"title"                     bson:"title"`
	Description     string     `json:"description"               bson:"description"`
	Type            AgendaType `json:"type"                      bson:"type"`
	Date            time.Time  `json:"date"                      bson:"date"`
	EndDate         *time.Time `json:"endDate,omitempty"         bson:"end_date,omitempty"`
	Location        string     `json:"location"                  bson:"location"`
	IsOnline        bool       `json:"isOnline"                  bson:"is_online"`
	SKP             float64    `json:"skp"                       bson:"skp"`
	Quota           int        `json:"quota,omitempty"           bson:"quota,omitempty"`
	Registered      int        `json:"registered,omitempty"      bson:"registered,omitempty"`
	RegistrationURL string     `json:"registrationUrl,omitempty" bson:"registration_url,omitempty"`
	Image           string     `json:"image,omitempty"           bson:"image,omitempty"`
	Fee             string     `json:"fee,omitempty"             bson:"fee,omitempty"`

	Lifecycle `bson:",inline"`
}

func (a *Agenda) RecordID() string   { return a.ID }
func (a *Agenda) RecordSlug() string { return a.Slug }
func (a *Agenda) State() *Lifecycle  { return &a.Lifecycle }

// Validate checks the fields required for an event to exist.
func (a *Agenda) Validate() error {
	if strings.TrimSpace(a.Title) == "" {
		return Invalid("title is required")
	}
	if strings.TrimSpace(a.Description) == "" {
		return Invalid("description is required")
	}
	if a.EndDate != nil && !a.Date.IsZero() && a.EndDate.Before(a.Date) {
		return Invalid("endDate must not be before date")
	}
	return nil
}

// Upcoming reports whether the event has not started yet at now.
func (a *Agenda) Upcoming(now time.Time) bool {
	return !a.Date.Before(now)
}
