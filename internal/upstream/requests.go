package upstream

import "github.com/noah-isme/match-scheduler-gateway/internal/models"

// ScheduleRequest is a payload accepted by one of the match-scheduler endpoints.
type ScheduleRequest interface {
	SchedulerType() models.SchedulerType
}

// SwissRoundRequest asks for the next Swiss round of a stage.
type SwissRoundRequest struct {
	StageID            string `json:"stageId"`
	CurrentRoundNumber int    `json:"currentRoundNumber"`
	TeamsPerAlliance   int    `json:"teamsPerAlliance"`
}

// PlayoffRequest asks for a single-elimination bracket.
type PlayoffRequest struct {
	StageID          string `json:"stageId"`
	NumberOfRounds   int    `json:"numberOfRounds"`
	TeamsPerAlliance int    `json:"teamsPerAlliance"`
}

// FRCScheduleRequest asks the FRC MatchMaker for qualification rounds.
// Either Preset is set and the manual fields are nil, or the reverse.
type FRCScheduleRequest struct {
	StageID            string                  `json:"stageId"`
	TeamsPerAlliance   int                     `json:"teamsPerAlliance"`
	Rounds             *int                    `json:"rounds,omitempty"`
	MinMatchSeparation *int                    `json:"minMatchSeparation,omitempty"`
	QualityLevel       *models.FRCQualityLevel `json:"qualityLevel,omitempty"`
	Preset             *string                 `json:"preset,omitempty"`
	Config             *FRCAdvancedConfig      `json:"config,omitempty"`
}

// FRCAdvancedConfig carries MatchMaker tuning.
type FRCAdvancedConfig struct {
	Penalties        FRCPenalties        `json:"penalties"`
	StationBalancing FRCStationBalancing `json:"stationBalancing"`
}

// FRCPenalties weights repeated pairings.
type FRCPenalties struct {
	PartnerRepeat  float64 `json:"partnerRepeat"`
	OpponentRepeat float64 `json:"opponentRepeat"`
}

// FRCStationBalancing toggles spreading teams over driver stations.
type FRCStationBalancing struct {
	Enabled bool    `json:"enabled"`
	Weight  float64 `json:"weight"`
}

// ManualScheduleRequest pairs an explicit team list.
type ManualScheduleRequest struct {
	StageID          string   `json:"stageId"`
	TeamIDs          []string `json:"teamIds"`
	TeamsPerAlliance int      `json:"teamsPerAlliance"`
}

func (SwissRoundRequest) SchedulerType() models.SchedulerType     { return models.SchedulerSwiss }
func (PlayoffRequest) SchedulerType() models.SchedulerType        { return models.SchedulerPlayoff }
func (FRCScheduleRequest) SchedulerType() models.SchedulerType    { return models.SchedulerFRC }
func (ManualScheduleRequest) SchedulerType() models.SchedulerType { return models.SchedulerManual }
