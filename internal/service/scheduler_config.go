package service

import (
	"fmt"

	"github.com/noah-isme/match-scheduler-gateway/internal/models"
	"github.com/noah-isme/match-scheduler-gateway/internal/upstream"
	appErrors "github.com/noah-isme/match-scheduler-gateway/pkg/errors"
)

const (
	defaultTeamsPerAlliance   = 2
	defaultPlayoffRounds      = 3
	defaultFRCRounds          = 10
	defaultMinMatchSeparation = 3
	stationBalancingWeight    = 1.0
)

// allowedSchedulers lists the scheduler types each stage type may run, in display order.
var allowedSchedulers = map[models.StageType][]models.SchedulerType{
	models.StageTypeSwiss:   {models.SchedulerSwiss, models.SchedulerFRC, models.SchedulerManual},
	models.StageTypePlayoff: {models.SchedulerPlayoff},
	models.StageTypeFinal:   {models.SchedulerPlayoff, models.SchedulerManual},
}

// AllowedSchedulerTypes returns the scheduler types a stage of the given type may run.
func AllowedSchedulerTypes(stage models.StageType) []models.SchedulerType {
	allowed := allowedSchedulers[stage]
	out := make([]models.SchedulerType, len(allowed))
	copy(out, allowed)
	return out
}

// SchedulerAllowed reports whether the stage type permits the scheduler type.
func SchedulerAllowed(stage models.StageType, scheduler models.SchedulerType) bool {
	for _, candidate := range allowedSchedulers[stage] {
		if candidate == scheduler {
			return true
		}
	}
	return false
}

// SchedulerConfig is the wizard's scheduling configuration. Params holds exactly one variant.
type SchedulerConfig struct {
	TeamsPerAlliance int
	Params           SchedulerParams
}

// Type returns the scheduler type selected by the variant.
func (c SchedulerConfig) Type() models.SchedulerType {
	if c.Params == nil {
		return ""
	}
	return c.Params.schedulerType()
}

// SchedulerParams is implemented by SwissParams, PlayoffParams, FRCParams and ManualParams only.
type SchedulerParams interface {
	schedulerType() models.SchedulerType
}

// SwissParams selects the Swiss round to generate; zero generates the first round.
type SwissParams struct {
	CurrentRoundNumber int
}

// PlayoffParams sizes a bracket of 2^NumberOfRounds teams.
type PlayoffParams struct {
	NumberOfRounds int
}

// FRCParams configures the MatchMaker through either a preset or manual fields.
// SavedManual holds the manual fields while a preset is active; only Mode is sent.
type FRCParams struct {
	Mode        FRCMode
	SavedManual *FRCManual
}

func defaultFRCManual() FRCManual {
	return FRCManual{
		Rounds:             defaultFRCRounds,
		QualityLevel:       models.FRCQualityMedium,
		MinMatchSeparation: defaultMinMatchSeparation,
	}
}

// manual returns the manual fields in effect or remembered, falling back to defaults.
func (p FRCParams) manual() FRCManual {
	if m, ok := p.Mode.(FRCManual); ok {
		return m
	}
	if p.SavedManual != nil {
		return *p.SavedManual
	}
	return defaultFRCManual()
}

// ManualParams pairs the operator's team selection.
type ManualParams struct{}

func (SwissParams) schedulerType() models.SchedulerType   { return models.SchedulerSwiss }
func (PlayoffParams) schedulerType() models.SchedulerType { return models.SchedulerPlayoff }
func (FRCParams) schedulerType() models.SchedulerType     { return models.SchedulerFRC }
func (ManualParams) schedulerType() models.SchedulerType  { return models.SchedulerManual }

// FRCMode is implemented by FRCPreset and FRCManual only.
type FRCMode interface {
	isFRCMode()
}

// FRCPreset delegates every MatchMaker knob to a named configuration.
type FRCPreset struct {
	Name string
}

// FRCManual spells the MatchMaker knobs out.
type FRCManual struct {
	Rounds             int
	QualityLevel       models.FRCQualityLevel
	MinMatchSeparation int
	Advanced           *FRCAdvanced
}

// FRCAdvanced enables penalty weights derived from the alliance size.
type FRCAdvanced struct {
	StationBalancing bool
}

func (FRCPreset) isFRCMode() {}
func (FRCManual) isFRCMode() {}

// repeatPenalties is indexed by teams per alliance.
var repeatPenalties = map[int]upstream.FRCPenalties{
	1: {PartnerRepeat: 0.0, OpponentRepeat: 3.0},
	2: {PartnerRepeat: 4.0, OpponentRepeat: 2.0},
	3: {PartnerRepeat: 3.0, OpponentRepeat: 2.0},
}

// PenaltiesFor returns the repeat penalty weights for an alliance size.
func PenaltiesFor(teamsPerAlliance int) upstream.FRCPenalties {
	if p, ok := repeatPenalties[teamsPerAlliance]; ok {
		return p
	}
	return repeatPenalties[defaultTeamsPerAlliance]
}

// DefaultParams returns the initial variant for a scheduler type.
func DefaultParams(scheduler models.SchedulerType) (SchedulerParams, error) {
	switch scheduler {
	case models.SchedulerSwiss:
		return SwissParams{}, nil
	case models.SchedulerPlayoff:
		return PlayoffParams{NumberOfRounds: defaultPlayoffRounds}, nil
	case models.SchedulerFRC:
		return FRCParams{Mode: defaultFRCManual()}, nil
	case models.SchedulerManual:
		return ManualParams{}, nil
	}
	return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown scheduler type %q", scheduler))
}

// DefaultConfig returns the configuration a freshly opened wizard starts with for the stage type.
func DefaultConfig(stage models.StageType) SchedulerConfig {
	allowed := allowedSchedulers[stage]
	cfg := SchedulerConfig{TeamsPerAlliance: defaultTeamsPerAlliance}
	if len(allowed) == 0 {
		return cfg
	}
	params, err := DefaultParams(allowed[0])
	if err == nil {
		cfg.Params = params
	}
	return cfg
}

// BuildScheduleRequest translates a configuration into the payload of its scheduler endpoint.
func BuildScheduleRequest(stageID string, stage models.StageType, cfg SchedulerConfig, teamIDs []string) (upstream.ScheduleRequest, error) {
	if cfg.Params == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "select a scheduler type before submitting")
	}
	if !SchedulerAllowed(stage, cfg.Type()) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s stages cannot run the %s scheduler", stage, cfg.Type()))
	}

	switch params := cfg.Params.(type) {
	case SwissParams:
		return upstream.SwissRoundRequest{
			StageID:            stageID,
			CurrentRoundNumber: params.CurrentRoundNumber,
			TeamsPerAlliance:   cfg.TeamsPerAlliance,
		}, nil
	case PlayoffParams:
		return upstream.PlayoffRequest{
			StageID:          stageID,
			NumberOfRounds:   params.NumberOfRounds,
			TeamsPerAlliance: cfg.TeamsPerAlliance,
		}, nil
	case FRCParams:
		return buildFRCRequest(stageID, cfg.TeamsPerAlliance, params.Mode)
	case ManualParams:
		if len(teamIDs) == 0 {
			return nil, appErrors.Clone(appErrors.ErrValidation, "select at least one team before generating matches")
		}
		ids := make([]string, len(teamIDs))
		copy(ids, teamIDs)
		return upstream.ManualScheduleRequest{
			StageID:          stageID,
			TeamIDs:          ids,
			TeamsPerAlliance: cfg.TeamsPerAlliance,
		}, nil
	}
	return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported scheduler configuration %T", cfg.Params))
}

func buildFRCRequest(stageID string, teamsPerAlliance int, mode FRCMode) (upstream.ScheduleRequest, error) {
	req := upstream.FRCScheduleRequest{StageID: stageID, TeamsPerAlliance: teamsPerAlliance}
	switch m := mode.(type) {
	case FRCPreset:
		name := m.Name
		req.Preset = &name
	case FRCManual:
		rounds, separation, quality := m.Rounds, m.MinMatchSeparation, m.QualityLevel
		req.Rounds = &rounds
		req.MinMatchSeparation = &separation
		req.QualityLevel = &quality
		if m.Advanced != nil {
			balancing := upstream.FRCStationBalancing{Enabled: m.Advanced.StationBalancing}
			if balancing.Enabled {
				balancing.Weight = stationBalancingWeight
			}
			req.Config = &upstream.FRCAdvancedConfig{
				Penalties:        PenaltiesFor(teamsPerAlliance),
				StationBalancing: balancing,
			}
		}
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "frc scheduler requires a preset or manual configuration")
	}
	return req, nil
}
