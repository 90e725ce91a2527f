package dto

import (
	"time"

	"github.com/noah-isme/match-scheduler-gateway/internal/models"
)

// OpenWizardRequest opens a scheduling wizard for a stage.
type OpenWizardRequest struct {
	StageID      string           `json:"stageId" validate:"required"`
	StageType    models.StageType `json:"stageType" validate:"required,oneof=SWISS PLAYOFF FINAL"`
	TournamentID string           `json:"tournamentId" validate:"required_if=StageType FINAL"`
}

// UpdateSchedulerConfigRequest selects the scheduler type and its parameters.
// Only the block of the selected type is read; absent blocks fall back to the current or default values.
type UpdateSchedulerConfigRequest struct {
	SchedulerType    models.SchedulerType `json:"schedulerType" validate:"required,oneof=swiss playoff frc manual"`
	TeamsPerAlliance int                  `json:"teamsPerAlliance" validate:"omitempty,min=1,max=3"`
	Swiss            *SwissConfigInput    `json:"swiss,omitempty"`
	Playoff          *PlayoffConfigInput  `json:"playoff,omitempty"`
	FRC              *FRCConfigInput      `json:"frc,omitempty"`
}

// SwissConfigInput carries Swiss round parameters.
type SwissConfigInput struct {
	CurrentRoundNumber *int `json:"currentRoundNumber" validate:"omitempty,min=0"`
}

// PlayoffConfigInput carries bracket parameters.
type PlayoffConfigInput struct {
	NumberOfRounds int `json:"numberOfRounds" validate:"omitempty,oneof=2 3 4 5"`
}

// FRCConfigInput carries MatchMaker parameters. Preset absent keeps the current mode,
// "" selects the manual fields and a preset name selects that preset. Manual fields
// sent while a preset is active are kept for when the operator switches back.
type FRCConfigInput struct {
	Preset             *string                `json:"preset,omitempty"`
	Rounds             int                    `json:"rounds" validate:"omitempty,min=1,max=20"`
	QualityLevel       models.FRCQualityLevel `json:"qualityLevel" validate:"omitempty,oneof=low medium high"`
	MinMatchSeparation int                    `json:"minMatchSeparation" validate:"omitempty,min=1,max=10"`
	Advanced           *FRCAdvancedInput      `json:"advanced,omitempty"`
}

// FRCAdvancedInput enables the advanced MatchMaker block.
type FRCAdvancedInput struct {
	Enabled          bool `json:"enabled"`
	StationBalancing bool `json:"stationBalancing"`
}

// ToggleTeamRequest flips one team in the selection.
type ToggleTeamRequest struct {
	TeamID string `json:"teamId" validate:"required"`
}

// SelectFilteredRequest applies select-all to the teams matching Search.
type SelectFilteredRequest struct {
	Search string `json:"search"`
}

// ChangePageRequest navigates the results.
type ChangePageRequest struct {
	Page int `json:"page" validate:"required"`
}

// SchedulerConfigView is the JSON rendering of the wizard configuration.
type SchedulerConfigView struct {
	SchedulerType    models.SchedulerType `json:"schedulerType"`
	TeamsPerAlliance int                  `json:"teamsPerAlliance"`
	Swiss            *SwissConfigView     `json:"swiss,omitempty"`
	Playoff          *PlayoffConfigView   `json:"playoff,omitempty"`
	FRC              *FRCConfigView       `json:"frc,omitempty"`
}

// SwissConfigView renders Swiss params.
type SwissConfigView struct {
	CurrentRoundNumber int `json:"currentRoundNumber"`
}

// PlayoffConfigView renders bracket params with the derived bracket size.
type PlayoffConfigView struct {
	NumberOfRounds int `json:"numberOfRounds"`
	BracketSize    int `json:"bracketSize"`
}

// FRCConfigView renders either the preset or the manual fields.
type FRCConfigView struct {
	Preset             *string                 `json:"preset,omitempty"`
	Rounds             *int                    `json:"rounds,omitempty"`
	QualityLevel       *models.FRCQualityLevel `json:"qualityLevel,omitempty"`
	MinMatchSeparation *int                    `json:"minMatchSeparation,omitempty"`
	Advanced           *FRCAdvancedView        `json:"advanced,omitempty"`
}

// FRCAdvancedView shows the derived penalty weights.
type FRCAdvancedView struct {
	PartnerRepeatPenalty  float64 `json:"partnerRepeatPenalty"`
	OpponentRepeatPenalty float64 `json:"opponentRepeatPenalty"`
	StationBalancing      bool    `json:"stationBalancing"`
}

// ResultsPage is one page of generated matches.
type ResultsPage struct {
	Matches    []models.ScheduledMatch `json:"matches"`
	Pagination models.Pagination       `json:"pagination"`
	HasPrev    bool                    `json:"hasPrev"`
	HasNext    bool                    `json:"hasNext"`
}

// WizardSnapshot is the externally visible state of a wizard session.
type WizardSnapshot struct {
	ID                    string                 `json:"id"`
	StageID               string                 `json:"stageId"`
	StageType             models.StageType       `json:"stageType"`
	TournamentID          string                 `json:"tournamentId,omitempty"`
	View                  string                 `json:"view"`
	AllowedSchedulerTypes []models.SchedulerType `json:"allowedSchedulerTypes"`
	Config                SchedulerConfigView    `json:"config"`
	RequiresTeamSelection bool                   `json:"requiresTeamSelection"`
	SelectedTeamIDs       []string               `json:"selectedTeamIds"`
	Submitting            bool                   `json:"submitting"`
	LastError             *string                `json:"lastError,omitempty"`
	Notices               []string               `json:"notices,omitempty"`
	Results               *ResultsPage           `json:"results,omitempty"`
	CreatedAt             time.Time              `json:"createdAt"`
	UpdatedAt             time.Time              `json:"updatedAt"`
}

// TeamOption is a roster entry annotated with its selection state.
type TeamOption struct {
	models.Team
	Selected bool `json:"selected"`
}

// TeamListResponse is the filtered roster shown by the team selector.
type TeamListResponse struct {
	Search              string       `json:"search"`
	Teams               []TeamOption `json:"teams"`
	TotalTeams          int          `json:"totalTeams"`
	SelectedCount       int          `json:"selectedCount"`
	AllFilteredSelected bool         `json:"allFilteredSelected"`
}

// Actor identifies the caller driving a wizard.
type Actor struct {
	UserID string
	Role   models.UserRole
	Token  string
}
