package models

// SchedulerType names the scheduling algorithm requested from the match scheduler.
type SchedulerType string

const (
	SchedulerSwiss   SchedulerType = "swiss"
	SchedulerPlayoff SchedulerType = "playoff"
	SchedulerFRC     SchedulerType = "frc"
	// SchedulerManual is the legacy path that pairs an operator-selected team list.
	SchedulerManual SchedulerType = "manual"
)

// Automatic reports whether the scheduler picks its own teams from the stage.
func (t SchedulerType) Automatic() bool {
	return t != SchedulerManual
}

// FRCQualityLevel trades MatchMaker runtime for pairing quality.
type FRCQualityLevel string

const (
	FRCQualityLow    FRCQualityLevel = "low"
	FRCQualityMedium FRCQualityLevel = "medium"
	FRCQualityHigh   FRCQualityLevel = "high"
)

// Known FRC MatchMaker presets.
const (
	FRCPresetQuick        = "frcQuick"
	FRCPresetRegional     = "frcRegional"
	FRCPresetChampionship = "frcChampionship"
	FRCPresetOffseason    = "frcOffseason"
)
