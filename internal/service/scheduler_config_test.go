package service

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/match-scheduler-gateway/internal/dto"
	"github.com/noah-isme/match-scheduler-gateway/internal/models"
	"github.com/noah-isme/match-scheduler-gateway/internal/upstream"
	appErrors "github.com/noah-isme/match-scheduler-gateway/pkg/errors"
)

func TestSchedulerAllowedByStage(t *testing.T) {
	cases := []struct {
		stage     models.StageType
		scheduler models.SchedulerType
		allowed   bool
	}{
		{models.StageTypeSwiss, models.SchedulerSwiss, true},
		{models.StageTypeSwiss, models.SchedulerFRC, true},
		{models.StageTypeSwiss, models.SchedulerManual, true},
		{models.StageTypeSwiss, models.SchedulerPlayoff, false},
		{models.StageTypePlayoff, models.SchedulerPlayoff, true},
		{models.StageTypePlayoff, models.SchedulerSwiss, false},
		{models.StageTypePlayoff, models.SchedulerManual, false},
		{models.StageTypeFinal, models.SchedulerPlayoff, true},
		{models.StageTypeFinal, models.SchedulerManual, true},
		{models.StageTypeFinal, models.SchedulerFRC, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.allowed, SchedulerAllowed(tc.stage, tc.scheduler), "%s/%s", tc.stage, tc.scheduler)
	}
}

func TestAllowedSchedulerTypesReturnsCopy(t *testing.T) {
	allowed := AllowedSchedulerTypes(models.StageTypeSwiss)
	allowed[0] = models.SchedulerPlayoff
	assert.Equal(t, models.SchedulerSwiss, AllowedSchedulerTypes(models.StageTypeSwiss)[0])
}

func TestPenaltiesFor(t *testing.T) {
	assert.Equal(t, upstream.FRCPenalties{PartnerRepeat: 0, OpponentRepeat: 3}, PenaltiesFor(1))
	assert.Equal(t, upstream.FRCPenalties{PartnerRepeat: 4, OpponentRepeat: 2}, PenaltiesFor(2))
	assert.Equal(t, upstream.FRCPenalties{PartnerRepeat: 3, OpponentRepeat: 2}, PenaltiesFor(3))
}

func TestBuildScheduleRequestOneRequestPerType(t *testing.T) {
	cases := []struct {
		name   string
		stage  models.StageType
		config SchedulerConfig
		teams  []string
		want   string
	}{
		{
			name:   "swiss",
			stage:  models.StageTypeSwiss,
			config: SchedulerConfig{TeamsPerAlliance: 2, Params: SwissParams{CurrentRoundNumber: 2}},
			want:   `{"stageId":"s1","currentRoundNumber":2,"teamsPerAlliance":2}`,
		},
		{
			name:   "playoff",
			stage:  models.StageTypePlayoff,
			config: SchedulerConfig{TeamsPerAlliance: 3, Params: PlayoffParams{NumberOfRounds: 4}},
			want:   `{"stageId":"s1","numberOfRounds":4,"teamsPerAlliance":3}`,
		},
		{
			name:   "frc preset",
			stage:  models.StageTypeSwiss,
			config: SchedulerConfig{TeamsPerAlliance: 3, Params: FRCParams{Mode: FRCPreset{Name: models.FRCPresetChampionship}}},
			want:   `{"stageId":"s1","teamsPerAlliance":3,"preset":"frcChampionship"}`,
		},
		{
			name:  "frc manual",
			stage: models.StageTypeSwiss,
			config: SchedulerConfig{TeamsPerAlliance: 2, Params: FRCParams{Mode: FRCManual{
				Rounds: 8, QualityLevel: models.FRCQualityHigh, MinMatchSeparation: 2,
			}}},
			want: `{"stageId":"s1","teamsPerAlliance":2,"rounds":8,"minMatchSeparation":2,"qualityLevel":"high"}`,
		},
		{
			name:  "frc advanced",
			stage: models.StageTypeSwiss,
			config: SchedulerConfig{TeamsPerAlliance: 1, Params: FRCParams{Mode: FRCManual{
				Rounds: 10, QualityLevel: models.FRCQualityMedium, MinMatchSeparation: 3,
				Advanced: &FRCAdvanced{StationBalancing: true},
			}}},
			want: `{"stageId":"s1","teamsPerAlliance":1,"rounds":10,"minMatchSeparation":3,"qualityLevel":"medium",
				"config":{"penalties":{"partnerRepeat":0,"opponentRepeat":3},"stationBalancing":{"enabled":true,"weight":1}}}`,
		},
		{
			name:   "manual",
			stage:  models.StageTypeFinal,
			config: SchedulerConfig{TeamsPerAlliance: 2, Params: ManualParams{}},
			teams:  []string{"t1", "t2"},
			want:   `{"stageId":"s1","teamIds":["t1","t2"],"teamsPerAlliance":2}`,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req, err := BuildScheduleRequest("s1", tc.stage, tc.config, tc.teams)
			require.NoError(t, err)
			assert.Equal(t, tc.config.Type(), req.SchedulerType())
			payload, err := json.Marshal(req)
			require.NoError(t, err)
			assert.JSONEq(t, tc.want, string(payload))
		})
	}
}

func TestBuildScheduleRequestRejectsIncompatibleType(t *testing.T) {
	_, err := BuildScheduleRequest("s1", models.StageTypePlayoff, SchedulerConfig{TeamsPerAlliance: 2, Params: SwissParams{}}, nil)
	require.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestBuildScheduleRequestManualNeedsTeams(t *testing.T) {
	_, err := BuildScheduleRequest("s1", models.StageTypeSwiss, SchedulerConfig{TeamsPerAlliance: 2, Params: ManualParams{}}, nil)
	require.ErrorIs(t, err, appErrors.ErrValidation)
	assert.Equal(t, "select at least one team before generating matches", appErrors.FromError(err).Message)
}

func TestBuildScheduleRequestAutomaticIgnoresSelection(t *testing.T) {
	req, err := BuildScheduleRequest("s1", models.StageTypeSwiss, DefaultConfig(models.StageTypeSwiss), nil)
	require.NoError(t, err)
	assert.IsType(t, upstream.SwissRoundRequest{}, req)
}

func TestApplyConfigUpdateSwitchesTypeWithDefaults(t *testing.T) {
	current := DefaultConfig(models.StageTypeSwiss)

	next, err := ApplyConfigUpdate(current, models.StageTypeSwiss, dto.UpdateSchedulerConfigRequest{SchedulerType: models.SchedulerFRC})
	require.NoError(t, err)
	manual, ok := next.Params.(FRCParams).Mode.(FRCManual)
	require.True(t, ok)
	assert.Equal(t, 10, manual.Rounds)
	assert.Equal(t, models.FRCQualityMedium, manual.QualityLevel)
	assert.Equal(t, 3, manual.MinMatchSeparation)
	assert.Nil(t, manual.Advanced)
}

func TestApplyConfigUpdateRejectsDisallowedAndKeepsState(t *testing.T) {
	current := SchedulerConfig{TeamsPerAlliance: 3, Params: PlayoffParams{NumberOfRounds: 5}}

	next, err := ApplyConfigUpdate(current, models.StageTypePlayoff, dto.UpdateSchedulerConfigRequest{SchedulerType: models.SchedulerFRC})
	require.ErrorIs(t, err, appErrors.ErrValidation)
	assert.Equal(t, current, next)
}

func TestApplyConfigUpdatePresetAndCustomAreExclusive(t *testing.T) {
	current := DefaultConfig(models.StageTypeSwiss)

	withPreset, err := ApplyConfigUpdate(current, models.StageTypeSwiss, dto.UpdateSchedulerConfigRequest{
		SchedulerType: models.SchedulerFRC,
		FRC:           &dto.FRCConfigInput{Preset: stringPtr(models.FRCPresetQuick), Rounds: 5},
	})
	require.NoError(t, err)
	assert.Equal(t, FRCPreset{Name: models.FRCPresetQuick}, withPreset.Params.(FRCParams).Mode)

	custom, err := ApplyConfigUpdate(withPreset, models.StageTypeSwiss, dto.UpdateSchedulerConfigRequest{
		SchedulerType: models.SchedulerFRC,
		FRC:           &dto.FRCConfigInput{Preset: stringPtr(""), Advanced: &dto.FRCAdvancedInput{Enabled: true}},
	})
	require.NoError(t, err)
	manual, ok := custom.Params.(FRCParams).Mode.(FRCManual)
	require.True(t, ok)
	assert.Equal(t, 5, manual.Rounds)
	require.NotNil(t, manual.Advanced)

	view := RenderConfig(custom)
	require.NotNil(t, view.FRC)
	assert.Nil(t, view.FRC.Preset)
	require.NotNil(t, view.FRC.Advanced)
	assert.Equal(t, 4.0, view.FRC.Advanced.PartnerRepeatPenalty)
}

func stringPtr(s string) *string { return &s }

func TestApplyConfigUpdateFRCKeepsManualFieldsAcrossPreset(t *testing.T) {
	current := DefaultConfig(models.StageTypeSwiss)
	update := func(cfg SchedulerConfig, input dto.FRCConfigInput) SchedulerConfig {
		t.Helper()
		next, err := ApplyConfigUpdate(cfg, models.StageTypeSwiss, dto.UpdateSchedulerConfigRequest{SchedulerType: models.SchedulerFRC, FRC: &input})
		require.NoError(t, err)
		return next
	}

	custom := update(current, dto.FRCConfigInput{Rounds: 7, QualityLevel: models.FRCQualityHigh, MinMatchSeparation: 5})
	preset := update(custom, dto.FRCConfigInput{Preset: stringPtr(models.FRCPresetChampionship)})
	params := preset.Params.(FRCParams)
	assert.Equal(t, FRCPreset{Name: models.FRCPresetChampionship}, params.Mode)

	req, err := BuildScheduleRequest("stage-1", models.StageTypeSwiss, preset, nil)
	require.NoError(t, err)
	frcReq := req.(upstream.FRCScheduleRequest)
	require.NotNil(t, frcReq.Preset)
	assert.Nil(t, frcReq.Rounds)
	assert.Nil(t, frcReq.QualityLevel)

	back := update(preset, dto.FRCConfigInput{Preset: stringPtr("")})
	manual, ok := back.Params.(FRCParams).Mode.(FRCManual)
	require.True(t, ok)
	assert.Equal(t, 7, manual.Rounds)
	assert.Equal(t, models.FRCQualityHigh, manual.QualityLevel)
	assert.Equal(t, 5, manual.MinMatchSeparation)
	assert.Nil(t, back.Params.(FRCParams).SavedManual)
}

func TestApplyConfigUpdateFRCAbsentPresetKeepsMode(t *testing.T) {
	current := DefaultConfig(models.StageTypeSwiss)
	withPreset, err := ApplyConfigUpdate(current, models.StageTypeSwiss, dto.UpdateSchedulerConfigRequest{
		SchedulerType: models.SchedulerFRC,
		FRC:           &dto.FRCConfigInput{Preset: stringPtr(models.FRCPresetQuick)},
	})
	require.NoError(t, err)

	next, err := ApplyConfigUpdate(withPreset, models.StageTypeSwiss, dto.UpdateSchedulerConfigRequest{
		SchedulerType: models.SchedulerFRC,
		FRC:           &dto.FRCConfigInput{Rounds: 4, Advanced: &dto.FRCAdvancedInput{Enabled: true}},
	})
	require.NoError(t, err)
	params := next.Params.(FRCParams)
	assert.Equal(t, FRCPreset{Name: models.FRCPresetQuick}, params.Mode)
	require.NotNil(t, params.SavedManual)
	assert.Equal(t, 4, params.SavedManual.Rounds)
	assert.NotNil(t, params.SavedManual.Advanced)

	_, err = ApplyConfigUpdate(withPreset, models.StageTypeSwiss, dto.UpdateSchedulerConfigRequest{
		SchedulerType: models.SchedulerFRC,
		FRC:           &dto.FRCConfigInput{Preset: stringPtr("frcWorlds")},
	})
	require.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestApplyConfigUpdateOverlaysSameType(t *testing.T) {
	current := SchedulerConfig{TeamsPerAlliance: 2, Params: SwissParams{CurrentRoundNumber: 1}}
	round := 3

	next, err := ApplyConfigUpdate(current, models.StageTypeSwiss, dto.UpdateSchedulerConfigRequest{
		SchedulerType: models.SchedulerSwiss,
		Swiss:         &dto.SwissConfigInput{CurrentRoundNumber: &round},
	})
	require.NoError(t, err)
	assert.Equal(t, SwissParams{CurrentRoundNumber: 3}, next.Params)
	assert.Equal(t, 2, next.TeamsPerAlliance)
}
