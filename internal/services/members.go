package services

import (
	"fmt"
	"strings"

	"campusevents/internal/domain"
)

type teamMember struct {
	name  string
	email string
}

// parseTeamMembers parses a newline-delimited member list. Each line is
// either "Name <email>" or "Name, email" (semicolon accepted as separator);
// blank lines are skipped. A line without both a name and an email is
// rejected as invalid input.
func parseTeamMembers(raw string) ([]teamMember, error) {
	var members []teamMember
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var name, email string
		lt := strings.Index(line, "<")
		gt := strings.Index(line, ">")
		if lt >= 0 && gt > lt {
			name = strings.TrimSpace(line[:lt])
			email = strings.TrimSpace(line[lt+1 : gt])
		} else {
			parts := strings.Split(strings.ReplaceAll(line, ";", ","), ",")
			if len(parts) < 2 {
				return nil, fmt.Errorf("%w: each member line needs a name and an email", domain.ErrInvalidInput)
			}
			name = strings.TrimSpace(parts[0])
			email = strings.TrimSpace(parts[1])
		}
		members = append(members, teamMember{name: name, email: email})
	}
	return members, nil
}

// dedupeMembers lower-cases member emails and drops later duplicates,
// preserving first-occurrence order.
func dedupeMembers(members []teamMember) []teamMember {
	seen := make(map[string]struct{}, len(members))
	deduped := make([]teamMember, 0, len(members))
	for _, m := range members {
		email := strings.ToLower(m.email)
		if _, ok := seen[email]; ok {
			continue
		}
		seen[email] = struct{}{}
		deduped = append(deduped, teamMember{name: m.name, email: email})
	}
	return deduped
}
