package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/match-scheduler-gateway/internal/dto"
	"github.com/noah-isme/match-scheduler-gateway/internal/models"
	"github.com/noah-isme/match-scheduler-gateway/internal/upstream"
	appErrors "github.com/noah-isme/match-scheduler-gateway/pkg/errors"
)

type scheduleGenerator interface {
	GenerateSchedule(ctx context.Context, token string, req upstream.ScheduleRequest) ([]models.ScheduledMatch, error)
}

type rosterSource interface {
	StageTeams(ctx context.Context, token, stageID string) ([]models.Team, error)
	TournamentTeams(ctx context.Context, token, tournamentID string) ([]models.Team, error)
}

type matchCacheInvalidator interface {
	InvalidateStage(ctx context.Context, stageID string) error
}

type schedulingRunRecorder interface {
	Record(ctx context.Context, run models.SchedulingRun)
}

type wizardMetrics interface {
	RecordSubmission(schedulerType, outcome string, matchCount int)
	SetActiveWizards(count int)
}

// WizardConfig tunes session lifetime.
type WizardConfig struct {
	SessionTTL    time.Duration
	SweepInterval time.Duration
}

// WizardService drives scheduling wizard sessions.
type WizardService struct {
	generator scheduleGenerator
	rosters   rosterSource
	cache     matchCacheInvalidator
	runs      schedulingRunRecorder
	metrics   wizardMetrics
	validator *validator.Validate
	logger    *zap.Logger
	store     *wizardStore
	cfg       WizardConfig
	now       func() time.Time
}

// NewWizardService wires wizard dependencies. cache, runs and metrics are optional.
func NewWizardService(
	generator scheduleGenerator,
	rosters rosterSource,
	cache matchCacheInvalidator,
	runs schedulingRunRecorder,
	metrics wizardMetrics,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg WizardConfig,
) *WizardService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 2 * time.Hour
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = 5 * time.Minute
	}
	return &WizardService{
		generator: generator,
		rosters:   rosters,
		cache:     cache,
		runs:      runs,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		store:     newWizardStore(cfg.SessionTTL),
		cfg:       cfg,
		now:       time.Now,
	}
}

// Run sweeps idle sessions until ctx is done.
func (s *WizardService) Run(ctx context.Context) {
	s.store.Run(ctx, s.cfg.SweepInterval, func(evicted, remaining int) {
		if evicted > 0 {
			s.logger.Info("evicted idle wizard sessions", zap.Int("evicted", evicted), zap.Int("remaining", remaining))
		}
		s.publishActive()
	})
}

// Open starts a wizard for a stage with the stage type's default configuration.
func (s *WizardService) Open(ctx context.Context, actor dto.Actor, req dto.OpenWizardRequest) (*dto.WizardSnapshot, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid wizard payload")
	}

	session := newWizardSession(uuid.NewString(), actor.UserID, req, s.now().UTC())
	s.store.Save(session)
	s.publishActive()

	s.logger.Info("wizard opened",
		zap.String("wizard_id", session.id),
		zap.String("stage_id", session.stageID),
		zap.String("stage_type", string(session.stageType)),
		zap.String("user_id", actor.UserID),
	)

	session.mu.Lock()
	defer session.mu.Unlock()
	snap := session.snapshot()
	return &snap, nil
}

// Get returns the current state of a wizard.
func (s *WizardService) Get(ctx context.Context, actor dto.Actor, id string) (*dto.WizardSnapshot, error) {
	return s.read(actor, id, func(w *wizardSession) error { return nil })
}

// Close discards a wizard and cancels its in-flight submission, if any.
func (s *WizardService) Close(ctx context.Context, actor dto.Actor, id string) error {
	session, ok := s.store.Get(id)
	if !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "wizard not found")
	}
	if err := authorizeSession(session, actor); err != nil {
		return err
	}
	s.store.Delete(id)
	session.close()
	s.publishActive()
	s.logger.Info("wizard closed", zap.String("wizard_id", id), zap.String("stage_id", session.stageID))
	return nil
}

// UpdateConfig selects the scheduler type and its parameters.
func (s *WizardService) UpdateConfig(ctx context.Context, actor dto.Actor, id string, req dto.UpdateSchedulerConfigRequest) (*dto.WizardSnapshot, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid scheduler configuration")
	}
	return s.mutate(actor, id, func(w *wizardSession) error {
		if err := requireIdle(w); err != nil {
			return err
		}
		if w.view == WizardViewResults {
			return appErrors.Clone(appErrors.ErrPreconditionFailed, "go back to the configuration before changing it")
		}
		next, err := ApplyConfigUpdate(w.config, w.stageType, req)
		if err != nil {
			return err
		}
		w.config = next
		if w.view == WizardViewTeams && next.Type().Automatic() {
			w.view = WizardViewConfig
		}
		return nil
	})
}

// EnterTeams moves to the team selector, loading the roster the first time.
func (s *WizardService) EnterTeams(ctx context.Context, actor dto.Actor, id string) (*dto.WizardSnapshot, error) {
	var needRoster bool
	snap, err := s.mutate(actor, id, func(w *wizardSession) error {
		if err := requireIdle(w); err != nil {
			return err
		}
		if w.view == WizardViewResults {
			return appErrors.Clone(appErrors.ErrPreconditionFailed, "go back to the configuration before selecting teams")
		}
		if w.config.Params == nil || w.config.Type().Automatic() {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("the %s scheduler selects its own teams", w.config.Type()))
		}
		w.view = WizardViewTeams
		needRoster = !w.rosterLoaded
		return nil
	})
	if err != nil || !needRoster {
		return snap, err
	}

	session, ok := s.store.Get(id)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "wizard not found")
	}
	teams, fetchErr := s.fetchRoster(ctx, actor.Token, session)

	return s.mutate(actor, id, func(w *wizardSession) error {
		if w.rosterLoaded {
			return nil
		}
		if fetchErr != nil {
			s.logger.Warn("failed to fetch teams",
				zap.String("wizard_id", w.id),
				zap.String("stage_id", w.stageID),
				zap.Error(fetchErr),
			)
			w.roster = nil
			w.notices = append(w.notices, "Failed to load teams: "+appErrors.FromError(fetchErr).Message)
			return nil
		}
		w.roster = teams
		w.rosterLoaded = true
		return nil
	})
}

// ListTeams returns the roster filtered by search with the selection state of each team.
func (s *WizardService) ListTeams(ctx context.Context, actor dto.Actor, id, search string) (*dto.TeamListResponse, error) {
	var out dto.TeamListResponse
	_, err := s.read(actor, id, func(w *wizardSession) error {
		if w.view != WizardViewTeams {
			return appErrors.Clone(appErrors.ErrPreconditionFailed, "team selection is not active")
		}
		out = teamList(w, search)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ToggleTeam flips one team in the selection.
func (s *WizardService) ToggleTeam(ctx context.Context, actor dto.Actor, id string, req dto.ToggleTeamRequest) (*dto.TeamListResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "teamId is required")
	}
	var out dto.TeamListResponse
	_, err := s.mutate(actor, id, func(w *wizardSession) error {
		if err := requireTeamsView(w); err != nil {
			return err
		}
		if !rosterHas(w.roster, req.TeamID) && !w.selection.Contains(req.TeamID) {
			return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("team %s is not in the roster", req.TeamID))
		}
		w.selection.Toggle(req.TeamID)
		out = teamList(w, "")
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// SelectFiltered applies select-all to the teams matching the search.
func (s *WizardService) SelectFiltered(ctx context.Context, actor dto.Actor, id string, req dto.SelectFilteredRequest) (*dto.TeamListResponse, error) {
	var out dto.TeamListResponse
	_, err := s.mutate(actor, id, func(w *wizardSession) error {
		if err := requireTeamsView(w); err != nil {
			return err
		}
		w.selection.SelectFiltered(FilterTeams(w.roster, req.Search))
		out = teamList(w, req.Search)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Back returns to the configuration step, discarding any generated results.
func (s *WizardService) Back(ctx context.Context, actor dto.Actor, id string) (*dto.WizardSnapshot, error) {
	return s.mutate(actor, id, func(w *wizardSession) error {
		if err := requireIdle(w); err != nil {
			return err
		}
		w.clearResults()
		w.view = WizardViewConfig
		w.notices = nil
		return nil
	})
}

// Reset clears results and restores the stage type's default configuration.
func (s *WizardService) Reset(ctx context.Context, actor dto.Actor, id string) (*dto.WizardSnapshot, error) {
	return s.mutate(actor, id, func(w *wizardSession) error {
		if err := requireIdle(w); err != nil {
			return err
		}
		w.clearResults()
		w.view = WizardViewConfig
		w.config = DefaultConfig(w.stageType)
		w.selection = NewTeamSelection()
		w.lastError = nil
		w.notices = nil
		return nil
	})
}

// Results returns one page of the generated matches. Out of range pages are clamped.
func (s *WizardService) Results(ctx context.Context, actor dto.Actor, id string, page int) (*dto.ResultsPage, error) {
	var out dto.ResultsPage
	_, err := s.mutate(actor, id, func(w *wizardSession) error {
		if w.view != WizardViewResults {
			return appErrors.Clone(appErrors.ErrPreconditionFailed, "no generated matches to show")
		}
		if page != 0 {
			w.page = ClampPage(page, TotalPages(len(w.results)))
		}
		out = PageOf(w.results, w.page)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GeneratedMatches returns the full result set for export.
func (s *WizardService) GeneratedMatches(ctx context.Context, actor dto.Actor, id string) (string, []models.ScheduledMatch, error) {
	var (
		stageID string
		matches []models.ScheduledMatch
	)
	_, err := s.read(actor, id, func(w *wizardSession) error {
		if w.view != WizardViewResults {
			return appErrors.Clone(appErrors.ErrPreconditionFailed, "no generated matches to export")
		}
		stageID = w.stageID
		matches = append([]models.ScheduledMatch(nil), w.results...)
		return nil
	})
	return stageID, matches, err
}

// Submit sends one scheduling request for the wizard's configuration.
// Only one submission per wizard may be outstanding; closing the wizard cancels it.
func (s *WizardService) Submit(ctx context.Context, actor dto.Actor, id string) (*dto.WizardSnapshot, error) {
	session, ok := s.store.Get(id)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "wizard not found")
	}
	if err := authorizeSession(session, actor); err != nil {
		return nil, err
	}

	session.mu.Lock()
	if err := requireIdle(session); err != nil {
		session.mu.Unlock()
		return nil, err
	}
	if session.view == WizardViewResults {
		session.mu.Unlock()
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "matches were already generated; go back or reset to generate again")
	}
	req, err := BuildScheduleRequest(session.stageID, session.stageType, session.config, session.selection.OrderedIDs(session.roster))
	if err != nil {
		session.mu.Unlock()
		return nil, err
	}
	submitCtx, cancel := context.WithCancel(ctx)
	sub := &pendingSubmission{id: uuid.NewString(), cancel: cancel}
	session.submission = sub
	session.lastError = nil
	session.updatedAt = s.now().UTC()
	stageID := session.stageID
	session.mu.Unlock()

	logger := s.logger.With(
		zap.String("wizard_id", id),
		zap.String("stage_id", stageID),
		zap.String("scheduler_type", string(req.SchedulerType())),
		zap.String("submission_id", sub.id),
	)
	logger.Info("submitting schedule request")

	started := s.now()
	matches, genErr := s.generator.GenerateSchedule(submitCtx, actor.Token, req)
	elapsed := s.now().Sub(started)
	cancel()

	session.mu.Lock()
	if session.closed || session.submission != sub {
		session.mu.Unlock()
		logger.Info("discarding schedule response for closed wizard")
		s.recordRun(ctx, actor, id, stageID, req, nil, appErrors.ErrSessionClosed, elapsed)
		return nil, appErrors.ErrSessionClosed
	}
	session.submission = nil
	session.updatedAt = s.now().UTC()
	if genErr != nil {
		appErr := appErrors.FromError(genErr)
		session.setError(appErr.Message)
		session.mu.Unlock()
		logger.Warn("schedule generation failed", zap.Error(genErr))
		s.recordRun(ctx, actor, id, stageID, req, nil, genErr, elapsed)
		return nil, appErr
	}
	session.showResults(matches)
	snap := session.snapshot()
	session.mu.Unlock()

	logger.Info("schedule generated", zap.Int("match_count", len(matches)), zap.Duration("duration", elapsed))
	if s.cache != nil {
		if err := s.cache.InvalidateStage(context.WithoutCancel(ctx), stageID); err != nil {
			logger.Warn("failed to invalidate match cache", zap.Error(err))
		}
	}
	s.recordRun(ctx, actor, id, stageID, req, matches, nil, elapsed)
	return &snap, nil
}

func (s *WizardService) recordRun(ctx context.Context, actor dto.Actor, wizardID, stageID string, req upstream.ScheduleRequest, matches []models.ScheduledMatch, runErr error, elapsed time.Duration) {
	outcome := models.SchedulingRunSucceeded
	if runErr != nil {
		outcome = models.SchedulingRunFailed
	}
	if s.metrics != nil {
		s.metrics.RecordSubmission(string(req.SchedulerType()), string(outcome), len(matches))
	}
	if s.runs == nil {
		return
	}

	run := models.SchedulingRun{
		ID:            uuid.NewString(),
		WizardID:      wizardID,
		StageID:       stageID,
		SchedulerType: string(req.SchedulerType()),
		Outcome:       outcome,
		MatchCount:    len(matches),
		DurationMs:    elapsed.Milliseconds(),
		CreatedAt:     s.now().UTC(),
	}
	if actor.UserID != "" {
		userID := actor.UserID
		run.UserID = &userID
	}
	if runErr != nil {
		message := appErrors.FromError(runErr).Message
		run.ErrorMessage = &message
	}
	if payload, err := json.Marshal(req); err == nil {
		run.Payload = payload
	}
	s.runs.Record(context.WithoutCancel(ctx), run)
}

func (s *WizardService) fetchRoster(ctx context.Context, token string, w *wizardSession) ([]models.Team, error) {
	if s.rosters == nil {
		return nil, errors.New("roster source unavailable")
	}
	w.mu.Lock()
	stageType, stageID, tournamentID := w.stageType, w.stageID, w.tournamentID
	w.mu.Unlock()

	if stageType == models.StageTypeFinal {
		return s.rosters.TournamentTeams(ctx, token, tournamentID)
	}
	return s.rosters.StageTeams(ctx, token, stageID)
}

// mutate runs fn under the session lock and returns the resulting snapshot.
func (s *WizardService) mutate(actor dto.Actor, id string, fn func(w *wizardSession) error) (*dto.WizardSnapshot, error) {
	return s.withSession(actor, id, true, fn)
}

func (s *WizardService) read(actor dto.Actor, id string, fn func(w *wizardSession) error) (*dto.WizardSnapshot, error) {
	return s.withSession(actor, id, false, fn)
}

func (s *WizardService) withSession(actor dto.Actor, id string, touch bool, fn func(w *wizardSession) error) (*dto.WizardSnapshot, error) {
	session, ok := s.store.Get(id)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "wizard not found")
	}
	if err := authorizeSession(session, actor); err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	if session.closed {
		return nil, appErrors.ErrSessionClosed
	}
	if err := fn(session); err != nil {
		return nil, err
	}
	if touch {
		session.updatedAt = s.now().UTC()
	}
	snap := session.snapshot()
	return &snap, nil
}

func (s *WizardService) publishActive() {
	if s.metrics != nil {
		s.metrics.SetActiveWizards(s.store.Len())
	}
}

func authorizeSession(w *wizardSession, actor dto.Actor) error {
	if actor.Role == models.RoleAdmin || w.ownerID == "" || w.ownerID == actor.UserID {
		return nil
	}
	return appErrors.Clone(appErrors.ErrForbidden, "wizard belongs to another user")
}

func requireIdle(w *wizardSession) error {
	if w.closed {
		return appErrors.ErrSessionClosed
	}
	if w.submission != nil {
		return appErrors.ErrSubmissionInFlight
	}
	return nil
}

func requireTeamsView(w *wizardSession) error {
	if err := requireIdle(w); err != nil {
		return err
	}
	if w.view != WizardViewTeams {
		return appErrors.Clone(appErrors.ErrPreconditionFailed, "team selection is not active")
	}
	return nil
}

func rosterHas(roster []models.Team, teamID string) bool {
	for _, team := range roster {
		if team.ID == teamID {
			return true
		}
	}
	return false
}

func teamList(w *wizardSession, search string) dto.TeamListResponse {
	filtered := FilterTeams(w.roster, search)
	options := make([]dto.TeamOption, len(filtered))
	for i, team := range filtered {
		options[i] = dto.TeamOption{Team: team, Selected: w.selection.Contains(team.ID)}
	}
	return dto.TeamListResponse{
		Search:              search,
		Teams:               options,
		TotalTeams:          len(w.roster),
		SelectedCount:       w.selection.Len(),
		AllFilteredSelected: w.selection.AllSelected(filtered),
	}
}
