package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/match-scheduler-gateway/internal/models"
	appErrors "github.com/noah-isme/match-scheduler-gateway/pkg/errors"
)

const (
	swissRoundPath  = "/match-scheduler/generate-swiss-round"
	playoffPath     = "/match-scheduler/generate-playoff"
	frcSchedulePath = "/match-scheduler/generate-frc-schedule"
	defaultManual   = "/match-scheduler/generate-matches"

	maxErrorBody = 64 * 1024
)

// RequestObserver receives timing for every upstream call.
type RequestObserver interface {
	ObserveUpstreamRequest(operation string, status int, duration time.Duration)
}

// Config configures the tournament API client.
type Config struct {
	BaseURL            string
	Timeout            time.Duration
	ManualSchedulePath string
}

// Client talks to the tournament API that owns stages, teams, matches and the scheduler.
type Client struct {
	baseURL    string
	manualPath string
	http       *http.Client
	metrics    RequestObserver
	logger     *zap.Logger
}

// New constructs a Client.
func New(cfg Config, metrics RequestObserver, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	manual := cfg.ManualSchedulePath
	if manual == "" {
		manual = defaultManual
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		manualPath: manual,
		http:       &http.Client{Timeout: timeout},
		metrics:    metrics,
		logger:     logger,
	}
}

// GenerateSchedule posts the request to the endpoint of its scheduler type and returns the generated matches.
func (c *Client) GenerateSchedule(ctx context.Context, token string, req ScheduleRequest) ([]models.ScheduledMatch, error) {
	path, err := c.schedulePath(req)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Matches *[]rawMatch `json:"matches"`
	}
	raw, err := c.send(ctx, "generate_"+string(req.SchedulerType()), http.MethodPost, path, token, req)
	if err != nil {
		return nil, err
	}
	if err := decodeData(raw, &payload); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "malformed upstream response")
	}
	if payload.Matches == nil {
		message := extractMessage(raw)
		if message == "" {
			message = "scheduler response did not include a match list"
		}
		return nil, appErrors.Clone(appErrors.ErrUpstream, message)
	}
	return normalizeMatches(*payload.Matches), nil
}

// StageTeams returns the roster of a stage.
func (c *Client) StageTeams(ctx context.Context, token, stageID string) ([]models.Team, error) {
	var raw []rawTeam
	if err := c.do(ctx, "stage_teams", http.MethodGet, "/stages/"+url.PathEscape(stageID)+"/teams", token, nil, &raw); err != nil {
		return nil, err
	}
	return normalizeTeams(raw), nil
}

// TournamentTeams returns the roster of a whole tournament.
func (c *Client) TournamentTeams(ctx context.Context, token, tournamentID string) ([]models.Team, error) {
	var raw []rawTeam
	if err := c.do(ctx, "tournament_teams", http.MethodGet, "/tournaments/"+url.PathEscape(tournamentID)+"/teams", token, nil, &raw); err != nil {
		return nil, err
	}
	return normalizeTeams(raw), nil
}

// StageReadiness returns the backend verdict on advancing a stage.
func (c *Client) StageReadiness(ctx context.Context, token, stageID string) (models.StageReadiness, error) {
	var readiness models.StageReadiness
	if err := c.do(ctx, "stage_readiness", http.MethodGet, "/stages/"+url.PathEscape(stageID)+"/readiness", token, nil, &readiness); err != nil {
		return models.StageReadiness{}, err
	}
	return readiness, nil
}

// StageMatches lists the matches of one stage.
func (c *Client) StageMatches(ctx context.Context, token, stageID string) ([]models.ScheduledMatch, error) {
	var raw []rawMatch
	if err := c.do(ctx, "stage_matches", http.MethodGet, "/stages/"+url.PathEscape(stageID)+"/matches", token, nil, &raw); err != nil {
		return nil, err
	}
	return normalizeMatches(raw), nil
}

// Matches lists every match known to the tournament API.
func (c *Client) Matches(ctx context.Context, token string) ([]models.ScheduledMatch, error) {
	var raw []rawMatch
	if err := c.do(ctx, "matches", http.MethodGet, "/matches", token, nil, &raw); err != nil {
		return nil, err
	}
	return normalizeMatches(raw), nil
}

func (c *Client) schedulePath(req ScheduleRequest) (string, error) {
	if req == nil {
		return "", appErrors.Clone(appErrors.ErrValidation, "schedule request is required")
	}
	switch req.SchedulerType() {
	case models.SchedulerSwiss:
		return swissRoundPath, nil
	case models.SchedulerPlayoff:
		return playoffPath, nil
	case models.SchedulerFRC:
		return frcSchedulePath, nil
	case models.SchedulerManual:
		return c.manualPath, nil
	}
	return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported scheduler type %q", req.SchedulerType()))
}

func (c *Client) do(ctx context.Context, operation, method, path, token string, body interface{}, dest interface{}) error {
	raw, err := c.send(ctx, operation, method, path, token, body)
	if err != nil {
		return err
	}
	if dest == nil {
		return nil
	}
	if err := decodeData(raw, dest); err != nil {
		return appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "malformed upstream response")
	}
	return nil
}

// send performs the request and returns the body of a 2xx response.
func (c *Client) send(ctx context.Context, operation, method, path, token string, body interface{}) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode upstream request")
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build upstream request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	duration := time.Since(start)
	if err != nil {
		c.observe(operation, 0, duration)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, appErrors.Wrap(ctxErr, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "upstream request was cancelled")
		}
		c.logger.Warn("upstream request failed", zap.String("operation", operation), zap.String("path", path), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, appErrors.ErrUpstream.Message)
	}
	defer resp.Body.Close()
	c.observe(operation, resp.StatusCode, duration)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, statusError(resp.StatusCode, raw)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "failed to read upstream response")
	}
	return raw, nil
}

func (c *Client) observe(operation string, status int, duration time.Duration) {
	if c.metrics != nil {
		c.metrics.ObserveUpstreamRequest(operation, status, duration)
	}
}

// decodeData accepts bare payloads and payloads wrapped in an envelope with a non-null "data" field.
func decodeData(raw []byte, dest interface{}) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return errors.New("empty body")
	}
	if trimmed[0] == '{' {
		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &envelope); err == nil {
			if data, ok := envelope["data"]; ok && !bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
				return json.Unmarshal(data, dest)
			}
		}
	}
	return json.Unmarshal(trimmed, dest)
}

func statusError(status int, body []byte) error {
	message := extractMessage(body)
	cause := fmt.Errorf("upstream responded with status %d", status)

	base := appErrors.ErrUpstream
	switch status {
	case http.StatusNotFound:
		base = appErrors.ErrNotFound
	case http.StatusUnauthorized:
		base = appErrors.ErrUnauthorized
	case http.StatusForbidden:
		base = appErrors.ErrForbidden
	}
	if message == "" {
		message = base.Message
	}
	return appErrors.Wrap(cause, base.Code, base.Status, message)
}

// extractMessage pulls a human readable message out of common error body shapes.
func extractMessage(body []byte) string {
	if len(bytes.TrimSpace(body)) == 0 {
		return ""
	}
	var shape struct {
		Message json.RawMessage `json:"message"`
		Error   json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &shape); err != nil {
		return ""
	}
	if msg := rawText(shape.Message); msg != "" {
		return msg
	}
	if msg := rawText(shape.Error); msg != "" {
		return msg
	}
	var nested struct {
		Message json.RawMessage `json:"message"`
	}
	if len(shape.Error) > 0 && json.Unmarshal(shape.Error, &nested) == nil {
		return rawText(nested.Message)
	}
	return ""
}

func rawText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return single
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return strings.Join(list, "; ")
	}
	return ""
}
