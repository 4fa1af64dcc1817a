package domain

import (
	"context"
	"errors"
	"time"
)

// MaxConfirmedPerPerson is the maximum number of CONFIRMED registrations a
// single email may hold across all events at any time.
const MaxConfirmedPerPerson = 2

// Sentinel errors for registration operations.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
)

// RegistrationStatus is the persisted status of a registration.
type RegistrationStatus string

const (
	StatusConfirmed RegistrationStatus = "CONFIRMED"
	StatusWaitlist  RegistrationStatus = "WAITLIST"
)

// WaitlistReason explains why a registration (or a whole team) was placed
// on the waitlist instead of being confirmed.
type WaitlistReason string

const (
	// ReasonPersonCap: the registrant already holds MaxConfirmedPerPerson
	// confirmed registrations.
	ReasonPersonCap WaitlistReason = "caplimit"
	// ReasonEventFull: the event has no free seats left.
	ReasonEventFull WaitlistReason = "soldout"
	// ReasonAlreadyInEvent: a team member already has a registration for
	// the event (team admissions only).
	ReasonAlreadyInEvent WaitlistReason = "already_in_event"
)

// Outcome is the user-visible result of an admission attempt.
type Outcome string

const (
	OutcomeAlready   Outcome = "already"
	OutcomeConfirmed Outcome = "confirmed"
	OutcomeWaitlist  Outcome = "waitlist"
	OutcomeSoldOut   Outcome = "soldout"
)

// Registration represents one (event, email) registration row. Email is
// stored lower-cased; CreatedAt orders waitlist promotion (FIFO).
// swagger:model Registration
type Registration struct {
	ID        int64              `json:"id"`
	EventID   int64              `json:"event_id"`
	Name      string             `json:"name"`
	Email     string             `json:"email"`
	TeamName  string             `json:"team_name,omitempty"`
	Status    RegistrationStatus `json:"status"`
	CreatedAt time.Time          `json:"created_at"`
}

// NewRegistration returns a new Registration. ID is set by the store on create.
func NewRegistration(eventID int64, name, email, teamName string, status RegistrationStatus, createdAt time.Time) *Registration {
	return &Registration{
		EventID:   eventID,
		Name:      name,
		Email:     email,
		TeamName:  teamName,
		Status:    status,
		CreatedAt: createdAt,
	}
}

// RegistrationOutcome is the result of a single-registrant admission.
// RegistrationID is zero when no row was created (already / soldout).
// swagger:model RegistrationOutcome
type RegistrationOutcome struct {
	Outcome        Outcome        `json:"outcome"`
	RegistrationID int64          `json:"registration_id,omitempty"`
	Reason         WaitlistReason `json:"reason,omitempty"`
	SpotsLeft      int            `json:"spots_left"`
}

// TeamMemberRow reports the resulting status for one team member.
// swagger:model TeamMemberRow
type TeamMemberRow struct {
	Email  string  `json:"email"`
	Status Outcome `json:"status"`
}

// TeamOutcome is the result of a team admission. The decision is
// team-atomic: either every member is confirmed or every member is
// waitlisted (members already registered for the event keep their row).
// swagger:model TeamOutcome
type TeamOutcome struct {
	Rows        []TeamMemberRow `json:"rows"`
	TeamName    string          `json:"team_name,omitempty"`
	AllWaitlist bool            `json:"all_waitlist"`
	Reason      WaitlistReason  `json:"reason,omitempty"`
	SpotsLeft   int             `json:"spots_left"`
}

// EventSpots reports the remaining spots of one event after a mutation.
// swagger:model EventSpots
type EventSpots struct {
	EventID   int64 `json:"event_id"`
	SpotsLeft int   `json:"spots_left"`
}

// CancellationOutcome is the result of cancelling a registration. Promoted
// is nil when no waitlisted registration qualified. Updates holds one entry
// per affected event.
// swagger:model CancellationOutcome
type CancellationOutcome struct {
	Promoted *Registration `json:"promoted"`
	Updates  []EventSpots  `json:"updates"`
}

// RegistrationService defines the admission and cancellation operations.
type RegistrationService interface {
	// Register admits a single registrant to the event: confirmed while
	// seats remain, waitlisted when the event is full (if enabled) or the
	// registrant is at the person cap, rejected otherwise. Registering an
	// email twice for the same event yields OutcomeAlready.
	Register(ctx context.Context, eventID int64, name, email string) (*RegistrationOutcome, error)
	// RegisterTeam admits a whole team to a team event. rawMembers is the
	// newline-delimited member list ("Name <email>" or "Name, email").
	RegisterTeam(ctx context.Context, eventID int64, teamName, rawMembers string) (*TeamOutcome, error)
	// Cancel deletes the registration and, when it held a confirmed seat,
	// promotes the email's oldest eligible waitlisted registration across
	// all events.
	Cancel(ctx context.Context, registrationID int64) (*CancellationOutcome, error)
}
