package service

import (
	"fmt"

	"github.com/noah-isme/match-scheduler-gateway/internal/dto"
	"github.com/noah-isme/match-scheduler-gateway/internal/models"
	appErrors "github.com/noah-isme/match-scheduler-gateway/pkg/errors"
)

// ApplyConfigUpdate folds an update into the current configuration.
// The current configuration is returned untouched when the update is rejected.
func ApplyConfigUpdate(current SchedulerConfig, stage models.StageType, req dto.UpdateSchedulerConfigRequest) (SchedulerConfig, error) {
	if !SchedulerAllowed(stage, req.SchedulerType) {
		return current, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s stages cannot run the %s scheduler", stage, req.SchedulerType))
	}

	next := SchedulerConfig{TeamsPerAlliance: current.TeamsPerAlliance}
	if req.TeamsPerAlliance != 0 {
		next.TeamsPerAlliance = req.TeamsPerAlliance
	}
	if next.TeamsPerAlliance == 0 {
		next.TeamsPerAlliance = defaultTeamsPerAlliance
	}

	base := current.Params
	if current.Type() != req.SchedulerType {
		params, err := DefaultParams(req.SchedulerType)
		if err != nil {
			return current, err
		}
		base = params
	}

	switch params := base.(type) {
	case SwissParams:
		if req.Swiss != nil && req.Swiss.CurrentRoundNumber != nil {
			params.CurrentRoundNumber = *req.Swiss.CurrentRoundNumber
		}
		next.Params = params
	case PlayoffParams:
		if req.Playoff != nil && req.Playoff.NumberOfRounds != 0 {
			params.NumberOfRounds = req.Playoff.NumberOfRounds
		}
		next.Params = params
	case FRCParams:
		frc, err := applyFRCInput(params, req.FRC)
		if err != nil {
			return current, err
		}
		next.Params = frc
	case ManualParams:
		next.Params = params
	default:
		return current, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown scheduler type %q", req.SchedulerType))
	}
	return next, nil
}

var frcPresets = map[string]struct{}{
	models.FRCPresetQuick:        {},
	models.FRCPresetRegional:     {},
	models.FRCPresetChampionship: {},
	models.FRCPresetOffseason:    {},
}

// applyFRCInput folds input into params. A nil Preset keeps the current mode, an empty
// Preset switches to the manual fields and a named Preset selects that preset. Manual
// fields sent alongside a preset are remembered for the next switch back.
func applyFRCInput(params FRCParams, input *dto.FRCConfigInput) (FRCParams, error) {
	if input == nil {
		return params, nil
	}

	manual := params.manual()
	if input.Rounds != 0 {
		manual.Rounds = input.Rounds
	}
	if input.QualityLevel != "" {
		manual.QualityLevel = input.QualityLevel
	}
	if input.MinMatchSeparation != 0 {
		manual.MinMatchSeparation = input.MinMatchSeparation
	}
	if input.Advanced != nil {
		if input.Advanced.Enabled {
			manual.Advanced = &FRCAdvanced{StationBalancing: input.Advanced.StationBalancing}
		} else {
			manual.Advanced = nil
		}
	}

	mode := params.Mode
	switch {
	case input.Preset == nil:
		if _, ok := mode.(FRCPreset); !ok {
			mode = manual
		}
	case *input.Preset == "":
		mode = manual
	default:
		if _, ok := frcPresets[*input.Preset]; !ok {
			return params, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown frc preset %q", *input.Preset))
		}
		mode = FRCPreset{Name: *input.Preset}
	}

	if _, ok := mode.(FRCPreset); ok {
		return FRCParams{Mode: mode, SavedManual: &manual}, nil
	}
	return FRCParams{Mode: mode}, nil
}

// RenderConfig converts a configuration into its JSON view.
func RenderConfig(cfg SchedulerConfig) dto.SchedulerConfigView {
	view := dto.SchedulerConfigView{SchedulerType: cfg.Type(), TeamsPerAlliance: cfg.TeamsPerAlliance}
	switch params := cfg.Params.(type) {
	case SwissParams:
		view.Swiss = &dto.SwissConfigView{CurrentRoundNumber: params.CurrentRoundNumber}
	case PlayoffParams:
		view.Playoff = &dto.PlayoffConfigView{NumberOfRounds: params.NumberOfRounds, BracketSize: 1 << uint(params.NumberOfRounds)}
	case FRCParams:
		frc := &dto.FRCConfigView{}
		switch mode := params.Mode.(type) {
		case FRCPreset:
			name := mode.Name
			frc.Preset = &name
		case FRCManual:
			rounds, quality, separation := mode.Rounds, mode.QualityLevel, mode.MinMatchSeparation
			frc.Rounds = &rounds
			frc.QualityLevel = &quality
			frc.MinMatchSeparation = &separation
			if mode.Advanced != nil {
				penalties := PenaltiesFor(cfg.TeamsPerAlliance)
				frc.Advanced = &dto.FRCAdvancedView{
					PartnerRepeatPenalty:  penalties.PartnerRepeat,
					OpponentRepeatPenalty: penalties.OpponentRepeat,
					StationBalancing:      mode.Advanced.StationBalancing,
				}
			}
		}
		view.FRC = frc
	}
	return view
}
