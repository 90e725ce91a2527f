package upstream

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"

	"github.com/noah-isme/match-scheduler-gateway/internal/models"
)

// flexString decodes JSON strings and numbers alike; team numbers arrive as either.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

type rawTeam struct {
	ID           flexString `json:"id"`
	TeamNumber   flexString `json:"teamNumber"`
	Name         string     `json:"name"`
	Organization *string    `json:"organization"`
	Affiliation  *string    `json:"affiliation"`
}

type rawTeamAlliance struct {
	TeamID   flexString `json:"teamId"`
	Position int        `json:"position"`
	Team     *rawTeam   `json:"team"`
}

type rawAlliance struct {
	Color         models.AllianceColor `json:"color"`
	Teams         []rawTeamAlliance    `json:"teams"`
	TeamAlliances []rawTeamAlliance    `json:"teamAlliances"`
}

type rawMatch struct {
	ID          flexString         `json:"id"`
	MatchNumber int                `json:"matchNumber"`
	RoundNumber *int               `json:"roundNumber"`
	Status      models.MatchStatus `json:"status"`
	StageID     flexString         `json:"stageId"`
	Alliances   []rawAlliance      `json:"alliances"`
}

func normalizeTeams(raw []rawTeam) []models.Team {
	teams := make([]models.Team, 0, len(raw))
	for _, item := range raw {
		team := models.Team{
			ID:         string(item.ID),
			TeamNumber: string(item.TeamNumber),
			Name:       item.Name,
		}
		org := item.Organization
		if org == nil {
			org = item.Affiliation
		}
		if org != nil && strings.TrimSpace(*org) != "" {
			value := *org
			team.Organization = &value
		}
		teams = append(teams, team)
	}
	return teams
}

func normalizeMatches(raw []rawMatch) []models.ScheduledMatch {
	matches := make([]models.ScheduledMatch, 0, len(raw))
	for _, item := range raw {
		match := models.ScheduledMatch{
			ID:          string(item.ID),
			MatchNumber: item.MatchNumber,
			Status:      models.MatchStatus(strings.ToUpper(string(item.Status))),
			StageID:     string(item.StageID),
			Alliances:   make([]models.Alliance, 0, len(item.Alliances)),
		}
		if item.RoundNumber != nil {
			match.RoundNumber = *item.RoundNumber
		}
		for _, alliance := range item.Alliances {
			entries := alliance.Teams
			if len(entries) == 0 {
				entries = alliance.TeamAlliances
			}
			refs := make([]models.TeamRef, 0, len(entries))
			for _, entry := range entries {
				ref := models.TeamRef{TeamID: string(entry.TeamID), Position: entry.Position}
				if entry.Team != nil {
					if ref.TeamID == "" {
						ref.TeamID = string(entry.Team.ID)
					}
					ref.TeamNumber = string(entry.Team.TeamNumber)
					ref.Name = entry.Team.Name
				}
				refs = append(refs, ref)
			}
			sort.SliceStable(refs, func(i, j int) bool { return refs[i].Position < refs[j].Position })
			color := models.AllianceColor(strings.ToUpper(string(alliance.Color)))
			match.Alliances = append(match.Alliances, models.Alliance{Color: color, Teams: refs})
		}
		matches = append(matches, match)
	}
	return matches
}
