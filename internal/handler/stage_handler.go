package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/match-scheduler-gateway/internal/middleware"
	"github.com/noah-isme/match-scheduler-gateway/internal/models"
	"github.com/noah-isme/match-scheduler-gateway/internal/service"
	appErrors "github.com/noah-isme/match-scheduler-gateway/pkg/errors"
	"github.com/noah-isme/match-scheduler-gateway/pkg/response"
)

type readinessEvaluator interface {
	Evaluate(ctx context.Context, token, stageID string, stageType models.StageType) (*models.StageReadinessView, error)
}

type matchReader interface {
	ListAll(ctx context.Context, token string) ([]models.ScheduledMatch, bool, error)
	ListByStage(ctx context.Context, token, stageID string) ([]models.ScheduledMatch, bool, error)
}

type runHistoryReader interface {
	ListByStage(ctx context.Context, stageID string, page, pageSize int) ([]models.SchedulingRun, *models.Pagination, error)
}

// StageHandler exposes read-only stage endpoints backed by the tournament API.
type StageHandler struct {
	readiness readinessEvaluator
	matches   matchReader
	runs      runHistoryReader
}

// NewStageHandler constructs the handler. runs may be nil when run history is disabled.
func NewStageHandler(readiness *service.StageReadinessService, matches *service.MatchService, runs *service.SchedulingRunService) *StageHandler {
	h := &StageHandler{readiness: readiness, matches: matches}
	if runs != nil {
		h.runs = runs
	}
	return h
}

// Readiness godoc
// @Summary Evaluate whether a stage may advance
// @Tags Stages
// @Produce json
// @Param id path string true "Stage ID"
// @Param stageType query string false "SWISS, PLAYOFF or FINAL"
// @Success 200 {object} response.Envelope
// @Router /stages/{id}/readiness [get]
func (h *StageHandler) Readiness(c *gin.Context) {
	stageType := models.StageType(strings.ToUpper(c.Query("stageType")))
	view, err := h.readiness.Evaluate(c.Request.Context(), actorFromContext(c).Token, c.Param("id"), stageType)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// StageMatches godoc
// @Summary List the matches of a stage
// @Tags Stages
// @Produce json
// @Param id path string true "Stage ID"
// @Success 200 {object} response.Envelope
// @Router /stages/{id}/matches [get]
func (h *StageHandler) StageMatches(c *gin.Context) {
	matches, hit, err := h.matches.ListByStage(c.Request.Context(), actorFromContext(c).Token, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, matches, nil, middleware.ExtractMeta(c))
}

// Matches godoc
// @Summary List all matches
// @Tags Stages
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /matches [get]
func (h *StageHandler) Matches(c *gin.Context) {
	matches, hit, err := h.matches.ListAll(c.Request.Context(), actorFromContext(c).Token)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, matches, nil, middleware.ExtractMeta(c))
}

// SchedulingRuns godoc
// @Summary List recorded schedule submissions of a stage
// @Tags Stages
// @Produce json
// @Param id path string true "Stage ID"
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /stages/{id}/scheduling-runs [get]
func (h *StageHandler) SchedulingRuns(c *gin.Context) {
	if h.runs == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "run history is disabled"))
		return
	}
	page, okPage := queryInt(c, "page", 1)
	pageSize, okSize := queryInt(c, "pageSize", 0)
	if !okPage || !okSize {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "page and pageSize must be numbers"))
		return
	}
	runs, pagination, err := h.runs.ListByStage(c.Request.Context(), c.Param("id"), page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, runs, pagination)
}
