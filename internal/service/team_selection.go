package service

import (
	"sort"
	"strings"

	"github.com/noah-isme/match-scheduler-gateway/internal/models"
)

// TeamSelection is a set of team ids picked by the operator.
type TeamSelection struct {
	ids map[string]struct{}
}

// NewTeamSelection returns an empty selection.
func NewTeamSelection() *TeamSelection {
	return &TeamSelection{ids: make(map[string]struct{})}
}

// Contains reports whether the team is selected.
func (s *TeamSelection) Contains(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of selected teams.
func (s *TeamSelection) Len() int {
	return len(s.ids)
}

// Toggle flips the selection state of one team.
func (s *TeamSelection) Toggle(id string) {
	if s.Contains(id) {
		delete(s.ids, id)
		return
	}
	s.ids[id] = struct{}{}
}

// AllSelected reports whether every team in the list is selected. An empty list is never fully selected.
func (s *TeamSelection) AllSelected(teams []models.Team) bool {
	if len(teams) == 0 {
		return false
	}
	for _, team := range teams {
		if !s.Contains(team.ID) {
			return false
		}
	}
	return true
}

// SelectFiltered deselects exactly the filtered teams when all of them are selected,
// otherwise it adds them to the selection. Teams outside the filter are left alone.
func (s *TeamSelection) SelectFiltered(filtered []models.Team) {
	if s.AllSelected(filtered) {
		for _, team := range filtered {
			delete(s.ids, team.ID)
		}
		return
	}
	for _, team := range filtered {
		s.ids[team.ID] = struct{}{}
	}
}

// IDs returns the selected ids in sorted order.
func (s *TeamSelection) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// OrderedIDs returns the selected ids in roster order, followed by ids missing from the roster.
func (s *TeamSelection) OrderedIDs(roster []models.Team) []string {
	out := make([]string, 0, len(s.ids))
	seen := make(map[string]struct{}, len(s.ids))
	for _, team := range roster {
		if s.Contains(team.ID) {
			if _, dup := seen[team.ID]; !dup {
				out = append(out, team.ID)
				seen[team.ID] = struct{}{}
			}
		}
	}
	for _, id := range s.IDs() {
		if _, ok := seen[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}

// FilterTeams keeps teams whose number, name or organization contains search, ignoring case.
func FilterTeams(teams []models.Team, search string) []models.Team {
	needle := strings.ToLower(strings.TrimSpace(search))
	if needle == "" {
		out := make([]models.Team, len(teams))
		copy(out, teams)
		return out
	}
	out := make([]models.Team, 0, len(teams))
	for _, team := range teams {
		if strings.Contains(strings.ToLower(team.TeamNumber), needle) ||
			strings.Contains(strings.ToLower(team.Name), needle) ||
			(team.Organization != nil && strings.Contains(strings.ToLower(*team.Organization), needle)) {
			out = append(out, team)
		}
	}
	return out
}
