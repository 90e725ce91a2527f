package models

// MatchStatus mirrors the lifecycle reported by the tournament API.
type MatchStatus string

const (
	MatchStatusPending    MatchStatus = "PENDING"
	MatchStatusInProgress MatchStatus = "IN_PROGRESS"
	MatchStatusCompleted  MatchStatus = "COMPLETED"
	MatchStatusCancelled  MatchStatus = "CANCELLED"
)

// AllianceColor identifies a side of a match.
type AllianceColor string

const (
	AllianceRed  AllianceColor = "RED"
	AllianceBlue AllianceColor = "BLUE"
)

// TeamRef is a team as referenced from an alliance.
type TeamRef struct {
	TeamID     string `json:"teamId"`
	TeamNumber string `json:"teamNumber,omitempty"`
	Name       string `json:"name,omitempty"`
	Position   int    `json:"position,omitempty"`
}

// Alliance is one side of a match with its ordered teams.
type Alliance struct {
	Color AllianceColor `json:"color"`
	Teams []TeamRef     `json:"teams"`
}

// ScheduledMatch is a match produced by the external scheduler.
type ScheduledMatch struct {
	ID          string      `json:"id"`
	MatchNumber int         `json:"matchNumber"`
	RoundNumber int         `json:"roundNumber"`
	Status      MatchStatus `json:"status"`
	StageID     string      `json:"stageId,omitempty"`
	Alliances   []Alliance  `json:"alliances"`
}

// AllianceTeams returns the team refs of the alliance with the given color.
func (m ScheduledMatch) AllianceTeams(color AllianceColor) []TeamRef {
	for _, a := range m.Alliances {
		if a.Color == color {
			return a.Teams
		}
	}
	return nil
}
