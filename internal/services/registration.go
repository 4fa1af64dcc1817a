package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"campusevents/internal/domain"
)

type registrationService struct {
	store domain.Store
}

// NewRegistrationService creates a RegistrationService backed by the given store.
func NewRegistrationService(store domain.Store) domain.RegistrationService {
	return &registrationService{store: store}
}

// Register admits a single registrant. The decision and the row insert run
// in one transaction holding the event row lock, so two concurrent attempts
// can never both take the last free seat.
func (s *registrationService) Register(ctx context.Context, eventID int64, name, email string) (*domain.RegistrationOutcome, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" {
		return nil, fmt.Errorf("%w: name and email are required", domain.ErrInvalidInput)
	}

	var out *domain.RegistrationOutcome
	err := s.store.WithinTx(ctx, func(tx domain.StoreTx) error {
		ev, err := tx.GetEventForUpdate(ctx, eventID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("lock event: %w", err)
		}
		if ev.IsTeamEvent {
			return fmt.Errorf("%w: team events use the team registration endpoint", domain.ErrInvalidInput)
		}

		// Repeat submissions short-circuit before any counting.
		exists, err := tx.RegistrationExists(ctx, ev.ID, email)
		if err != nil {
			return fmt.Errorf("check existing registration: %w", err)
		}
		if exists {
			confirmed, err := tx.ConfirmedCountForEvent(ctx, ev.ID)
			if err != nil {
				return fmt.Errorf("count confirmed: %w", err)
			}
			out = &domain.RegistrationOutcome{
				Outcome:   domain.OutcomeAlready,
				SpotsLeft: spotsLeft(ev.Capacity, confirmed),
			}
			return nil
		}

		personal, err := tx.ConfirmedCountForEmail(ctx, email)
		if err != nil {
			return fmt.Errorf("count confirmed for email: %w", err)
		}
		confirmed, err := tx.ConfirmedCountForEvent(ctx, ev.ID)
		if err != nil {
			return fmt.Errorf("count confirmed: %w", err)
		}
		left := spotsLeft(ev.Capacity, confirmed)

		var status domain.RegistrationStatus
		var reason domain.WaitlistReason
		switch {
		case personal >= domain.MaxConfirmedPerPerson:
			// The person cap dominates even when the event has free seats.
			status, reason = domain.StatusWaitlist, domain.ReasonPersonCap
		case left > 0:
			status = domain.StatusConfirmed
		case ev.WaitlistEnabled:
			status, reason = domain.StatusWaitlist, domain.ReasonEventFull
		default:
			out = &domain.RegistrationOutcome{Outcome: domain.OutcomeSoldOut, SpotsLeft: left}
			return nil
		}

		reg := domain.NewRegistration(ev.ID, name, email, "", status, time.Now().UTC())
		if err := tx.CreateRegistration(ctx, reg); err != nil {
			return fmt.Errorf("create registration: %w", err)
		}
		confirmed, err = tx.ConfirmedCountForEvent(ctx, ev.ID)
		if err != nil {
			return fmt.Errorf("count confirmed: %w", err)
		}
		out = &domain.RegistrationOutcome{
			Outcome:        outcomeForStatus(status),
			RegistrationID: reg.ID,
			Reason:         reason,
			SpotsLeft:      spotsLeft(ev.Capacity, confirmed),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RegisterTeam admits a whole team under a single event lock. The seat check
// is aggregate (spots vs team size) and the decision is team-atomic: one
// disqualified member waitlists the entire team.
func (s *registrationService) RegisterTeam(ctx context.Context, eventID int64, teamName, rawMembers string) (*domain.TeamOutcome, error) {
	teamName = strings.TrimSpace(teamName)
	parsed, err := parseTeamMembers(rawMembers)
	if err != nil {
		return nil, err
	}

	var out *domain.TeamOutcome
	err = s.store.WithinTx(ctx, func(tx domain.StoreTx) error {
		ev, err := tx.GetEventForUpdate(ctx, eventID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("lock event: %w", err)
		}
		if !ev.IsTeamEvent {
			return fmt.Errorf("%w: not a team event", domain.ErrInvalidInput)
		}
		if len(parsed) < ev.TeamSizeMin || len(parsed) > ev.TeamSizeMax {
			return fmt.Errorf("%w: team must have between %d and %d members", domain.ErrInvalidInput, ev.TeamSizeMin, ev.TeamSizeMax)
		}
		members := dedupeMembers(parsed)

		confirmed, err := tx.ConfirmedCountForEvent(ctx, ev.ID)
		if err != nil {
			return fmt.Errorf("count confirmed: %w", err)
		}
		left := spotsLeft(ev.Capacity, confirmed)

		allWaitlist := false
		var reason domain.WaitlistReason
		if left < len(members) {
			if !ev.WaitlistEnabled {
				rows := make([]domain.TeamMemberRow, 0, len(members))
				for _, m := range members {
					rows = append(rows, domain.TeamMemberRow{Email: m.email, Status: domain.OutcomeSoldOut})
				}
				out = &domain.TeamOutcome{Rows: rows, TeamName: teamName, SpotsLeft: left}
				return nil
			}
			allWaitlist = true
			reason = domain.ReasonEventFull
		}

		if !allWaitlist {
			for _, m := range members {
				exists, err := tx.RegistrationExists(ctx, ev.ID, m.email)
				if err != nil {
					return fmt.Errorf("check existing registration: %w", err)
				}
				if exists {
					allWaitlist, reason = true, domain.ReasonAlreadyInEvent
					break
				}
				personal, err := tx.ConfirmedCountForEmail(ctx, m.email)
				if err != nil {
					return fmt.Errorf("count confirmed for email: %w", err)
				}
				if personal >= domain.MaxConfirmedPerPerson {
					allWaitlist, reason = true, domain.ReasonPersonCap
					break
				}
			}
		}

		status := domain.StatusConfirmed
		if allWaitlist {
			status = domain.StatusWaitlist
		}

		now := time.Now().UTC()
		rows := make([]domain.TeamMemberRow, 0, len(members))
		for _, m := range members {
			exists, err := tx.RegistrationExists(ctx, ev.ID, m.email)
			if err != nil {
				return fmt.Errorf("check existing registration: %w", err)
			}
			if !exists {
				reg := domain.NewRegistration(ev.ID, m.name, m.email, teamName, status, now)
				if err := tx.CreateRegistration(ctx, reg); err != nil {
					return fmt.Errorf("create registration: %w", err)
				}
			}
			rows = append(rows, domain.TeamMemberRow{Email: m.email, Status: outcomeForStatus(status)})
		}

		confirmed, err = tx.ConfirmedCountForEvent(ctx, ev.ID)
		if err != nil {
			return fmt.Errorf("count confirmed: %w", err)
		}
		out = &domain.TeamOutcome{
			Rows:        rows,
			TeamName:    teamName,
			AllWaitlist: allWaitlist,
			Reason:      reason,
			SpotsLeft:   spotsLeft(ev.Capacity, confirmed),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Cancel deletes the registration and, when it held a confirmed seat,
// promotes the email's oldest eligible waitlisted registration across all
// events (created_at ascending, ties by id).
func (s *registrationService) Cancel(ctx context.Context, registrationID int64) (*domain.CancellationOutcome, error) {
	var out *domain.CancellationOutcome
	err := s.store.WithinTx(ctx, func(tx domain.StoreTx) error {
		reg, err := tx.GetRegistrationForUpdate(ctx, registrationID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("lock registration: %w", err)
		}
		wasConfirmed := reg.Status == domain.StatusConfirmed

		var candidates []*domain.Registration
		if wasConfirmed {
			candidates, err = tx.WaitlistedByEmailForUpdate(ctx, reg.Email)
			if err != nil {
				return fmt.Errorf("list waitlisted: %w", err)
			}
		}

		// Lock every affected event in ascending id order so concurrent
		// cross-event promotions cannot deadlock.
		events, err := lockAffectedEvents(ctx, tx, reg.EventID, candidates)
		if err != nil {
			return err
		}

		if err := tx.DeleteRegistration(ctx, reg.ID); err != nil {
			return fmt.Errorf("delete registration: %w", err)
		}

		cancelled := events[reg.EventID]
		confirmed, err := tx.ConfirmedCountForEvent(ctx, cancelled.ID)
		if err != nil {
			return fmt.Errorf("count confirmed: %w", err)
		}
		updates := []domain.EventSpots{{
			EventID:   cancelled.ID,
			SpotsLeft: spotsLeft(cancelled.Capacity, confirmed),
		}}

		var promoted *domain.Registration
		if wasConfirmed {
			for _, cand := range candidates {
				ev := events[cand.EventID]
				evConfirmed, err := tx.ConfirmedCountForEvent(ctx, ev.ID)
				if err != nil {
					return fmt.Errorf("count confirmed: %w", err)
				}
				personal, err := tx.ConfirmedCountForEmail(ctx, reg.Email)
				if err != nil {
					return fmt.Errorf("count confirmed for email: %w", err)
				}
				if evConfirmed >= ev.Capacity || personal >= domain.MaxConfirmedPerPerson {
					continue
				}
				if err := tx.SetRegistrationStatus(ctx, cand.ID, domain.StatusConfirmed); err != nil {
					return fmt.Errorf("promote registration: %w", err)
				}
				cand.Status = domain.StatusConfirmed
				promoted = cand
				after, err := tx.ConfirmedCountForEvent(ctx, ev.ID)
				if err != nil {
					return fmt.Errorf("count confirmed: %w", err)
				}
				spots := spotsLeft(ev.Capacity, after)
				if ev.ID == cancelled.ID {
					updates[0].SpotsLeft = spots
				} else {
					updates = append(updates, domain.EventSpots{EventID: ev.ID, SpotsLeft: spots})
				}
				// Promote at most one.
				break
			}
		}

		out = &domain.CancellationOutcome{Promoted: promoted, Updates: updates}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// lockAffectedEvents locks the cancelled registration's event plus every
// promotion candidate's event, in ascending event id order.
func lockAffectedEvents(ctx context.Context, tx domain.StoreTx, eventID int64, candidates []*domain.Registration) (map[int64]*domain.Event, error) {
	ids := []int64{eventID}
	seen := map[int64]struct{}{eventID: {}}
	for _, c := range candidates {
		if _, ok := seen[c.EventID]; !ok {
			seen[c.EventID] = struct{}{}
			ids = append(ids, c.EventID)
		}
	}
	slices.Sort(ids)

	events := make(map[int64]*domain.Event, len(ids))
	for _, id := range ids {
		ev, err := tx.GetEventForUpdate(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("lock event %d: %w", id, err)
		}
		events[id] = ev
	}
	return events, nil
}
