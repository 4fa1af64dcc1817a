package services

import "campusevents/internal/domain"

// spotsLeft is an event's remaining capacity: capacity minus confirmed
// registrations. It can be negative when an organizer lowers capacity below
// the confirmed count; new confirmed admissions require spotsLeft > 0.
func spotsLeft(capacity, confirmed int) int {
	return capacity - confirmed
}

// outcomeForStatus maps a persisted status to its admission outcome.
func outcomeForStatus(status domain.RegistrationStatus) domain.Outcome {
	if status == domain.StatusConfirmed {
		return domain.OutcomeConfirmed
	}
	return domain.OutcomeWaitlist
}
