package models

// StageType is the fixed format of a tournament stage.
type StageType string

const (
	StageTypeSwiss   StageType = "SWISS"
	StageTypePlayoff StageType = "PLAYOFF"
	StageTypeFinal   StageType = "FINAL"
)

// Valid reports whether the stage type is one of the known formats.
func (t StageType) Valid() bool {
	switch t {
	case StageTypeSwiss, StageTypePlayoff, StageTypeFinal:
		return true
	}
	return false
}

// StageReadiness is the backend verdict on whether a stage may be advanced.
type StageReadiness struct {
	Ready  bool    `json:"ready"`
	Reason *string `json:"reason,omitempty"`
}

// SwissRoundHint summarises the latest Swiss round from the stage's match list.
type SwissRoundHint struct {
	LatestRoundNumber    int  `json:"latestRoundNumber"`
	MatchesInRound       int  `json:"matchesInRound"`
	CompletedInRound     int  `json:"completedInRound"`
	AllMatchesCompleted  bool `json:"allMatchesCompleted"`
	CanGenerateNextRound bool `json:"canGenerateNextRound"`
}

// StageReadinessView combines the authoritative readiness with display hints.
type StageReadinessView struct {
	StageID    string          `json:"stageId"`
	StageType  StageType       `json:"stageType,omitempty"`
	Readiness  StageReadiness  `json:"readiness"`
	CanAdvance bool            `json:"canAdvance"`
	SwissHint  *SwissRoundHint `json:"swissHint,omitempty"`
}
