package service

import (
	"context"
	"sync"
	"time"

	"github.com/noah-isme/match-scheduler-gateway/internal/dto"
	"github.com/noah-isme/match-scheduler-gateway/internal/models"
)

// WizardView is the step a wizard session is on.
type WizardView string

const (
	WizardViewConfig  WizardView = "config"
	WizardViewTeams   WizardView = "teams"
	WizardViewResults WizardView = "results"
)

type pendingSubmission struct {
	id     string
	cancel context.CancelFunc
}

// wizardSession is mutated only while mu is held. results is non-nil only in the results view.
type wizardSession struct {
	mu sync.Mutex

	id           string
	ownerID      string
	stageID      string
	stageType    models.StageType
	tournamentID string

	view         WizardView
	config       SchedulerConfig
	selection    *TeamSelection
	roster       []models.Team
	rosterLoaded bool
	results      []models.ScheduledMatch
	page         int
	lastError    *string
	notices      []string
	submission   *pendingSubmission
	closed       bool

	createdAt time.Time
	updatedAt time.Time
}

func newWizardSession(id, ownerID string, req dto.OpenWizardRequest, now time.Time) *wizardSession {
	return &wizardSession{
		id:           id,
		ownerID:      ownerID,
		stageID:      req.StageID,
		stageType:    req.StageType,
		tournamentID: req.TournamentID,
		view:         WizardViewConfig,
		config:       DefaultConfig(req.StageType),
		selection:    NewTeamSelection(),
		createdAt:    now,
		updatedAt:    now,
	}
}

// close marks the session closed and cancels an outstanding submission.
func (w *wizardSession) close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.closed = true
	if w.submission != nil {
		w.submission.cancel()
		w.submission = nil
	}
}

func (w *wizardSession) showResults(matches []models.ScheduledMatch) {
	if matches == nil {
		matches = []models.ScheduledMatch{}
	}
	w.results = matches
	w.page = 1
	w.view = WizardViewResults
}

func (w *wizardSession) clearResults() {
	w.results = nil
	w.page = 0
}

func (w *wizardSession) setError(message string) {
	w.lastError = &message
}

func (w *wizardSession) snapshot() dto.WizardSnapshot {
	snap := dto.WizardSnapshot{
		ID:                    w.id,
		StageID:               w.stageID,
		StageType:             w.stageType,
		TournamentID:          w.tournamentID,
		View:                  string(w.view),
		AllowedSchedulerTypes: AllowedSchedulerTypes(w.stageType),
		Config:                RenderConfig(w.config),
		RequiresTeamSelection: w.config.Params != nil && !w.config.Type().Automatic(),
		SelectedTeamIDs:       w.selection.OrderedIDs(w.roster),
		Submitting:            w.submission != nil,
		CreatedAt:             w.createdAt,
		UpdatedAt:             w.updatedAt,
	}
	if w.lastError != nil {
		message := *w.lastError
		snap.LastError = &message
	}
	if len(w.notices) > 0 {
		snap.Notices = append([]string(nil), w.notices...)
	}
	if w.view == WizardViewResults {
		page := PageOf(w.results, w.page)
		snap.Results = &page
	}
	return snap
}
