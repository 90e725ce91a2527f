package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/match-scheduler-gateway/internal/dto"
	"github.com/noah-isme/match-scheduler-gateway/internal/service"
	appErrors "github.com/noah-isme/match-scheduler-gateway/pkg/errors"
	"github.com/noah-isme/match-scheduler-gateway/pkg/response"
)

type wizardDriver interface {
	Open(ctx context.Context, actor dto.Actor, req dto.OpenWizardRequest) (*dto.WizardSnapshot, error)
	Get(ctx context.Context, actor dto.Actor, id string) (*dto.WizardSnapshot, error)
	Close(ctx context.Context, actor dto.Actor, id string) error
	UpdateConfig(ctx context.Context, actor dto.Actor, id string, req dto.UpdateSchedulerConfigRequest) (*dto.WizardSnapshot, error)
	EnterTeams(ctx context.Context, actor dto.Actor, id string) (*dto.WizardSnapshot, error)
	ListTeams(ctx context.Context, actor dto.Actor, id, search string) (*dto.TeamListResponse, error)
	ToggleTeam(ctx context.Context, actor dto.Actor, id string, req dto.ToggleTeamRequest) (*dto.TeamListResponse, error)
	SelectFiltered(ctx context.Context, actor dto.Actor, id string, req dto.SelectFilteredRequest) (*dto.TeamListResponse, error)
	Back(ctx context.Context, actor dto.Actor, id string) (*dto.WizardSnapshot, error)
	Reset(ctx context.Context, actor dto.Actor, id string) (*dto.WizardSnapshot, error)
	Submit(ctx context.Context, actor dto.Actor, id string) (*dto.WizardSnapshot, error)
	Results(ctx context.Context, actor dto.Actor, id string, page int) (*dto.ResultsPage, error)
}

type matchExporter interface {
	Export(ctx context.Context, actor dto.Actor, wizardID string, format service.ExportFormat) (*service.ExportFile, error)
	Publish(ctx context.Context, actor dto.Actor, wizardID string, format service.ExportFormat) (*service.ExportLink, error)
	Download(ctx context.Context, token string) (*service.ExportFile, error)
}

// WizardHandler exposes the scheduling wizard endpoints.
type WizardHandler struct {
	wizards wizardDriver
	exports matchExporter
}

// NewWizardHandler constructs the handler.
func NewWizardHandler(wizards *service.WizardService, exports *service.ExportService) *WizardHandler {
	return &WizardHandler{wizards: wizards, exports: exports}
}

// Open godoc
// @Summary Open a scheduling wizard for a stage
// @Tags Wizards
// @Accept json
// @Produce json
// @Param payload body dto.OpenWizardRequest true "Stage to schedule"
// @Success 201 {object} response.Envelope
// @Router /wizards [post]
func (h *WizardHandler) Open(c *gin.Context) {
	var req dto.OpenWizardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid wizard payload"))
		return
	}
	snapshot, err := h.wizards.Open(c.Request.Context(), actorFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, snapshot)
}

// Get godoc
// @Summary Get wizard state
// @Tags Wizards
// @Produce json
// @Param id path string true "Wizard ID"
// @Success 200 {object} response.Envelope
// @Router /wizards/{id} [get]
func (h *WizardHandler) Get(c *gin.Context) {
	snapshot, err := h.wizards.Get(c.Request.Context(), actorFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, snapshot, nil)
}

// Close godoc
// @Summary Close a wizard and cancel any in-flight submission
// @Tags Wizards
// @Param id path string true "Wizard ID"
// @Success 204
// @Router /wizards/{id} [delete]
func (h *WizardHandler) Close(c *gin.Context) {
	if err := h.wizards.Close(c.Request.Context(), actorFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// UpdateConfig godoc
// @Summary Select the scheduler type and its parameters
// @Tags Wizards
// @Accept json
// @Produce json
// @Param id path string true "Wizard ID"
// @Param payload body dto.UpdateSchedulerConfigRequest true "Scheduler configuration"
// @Success 200 {object} response.Envelope
// @Router /wizards/{id}/config [put]
func (h *WizardHandler) UpdateConfig(c *gin.Context) {
	var req dto.UpdateSchedulerConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid scheduler configuration"))
		return
	}
	snapshot, err := h.wizards.UpdateConfig(c.Request.Context(), actorFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, snapshot, nil)
}

// EnterTeams godoc
// @Summary Move to team selection and load the roster
// @Tags Wizards
// @Produce json
// @Param id path string true "Wizard ID"
// @Success 200 {object} response.Envelope
// @Router /wizards/{id}/teams [post]
func (h *WizardHandler) EnterTeams(c *gin.Context) {
	snapshot, err := h.wizards.EnterTeams(c.Request.Context(), actorFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, snapshot, nil)
}

// ListTeams godoc
// @Summary List roster teams matching a search
// @Tags Wizards
// @Produce json
// @Param id path string true "Wizard ID"
// @Param search query string false "Case-insensitive name or number filter"
// @Success 200 {object} response.Envelope
// @Router /wizards/{id}/teams [get]
func (h *WizardHandler) ListTeams(c *gin.Context) {
	teams, err := h.wizards.ListTeams(c.Request.Context(), actorFromContext(c), c.Param("id"), c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teams, nil)
}

// ToggleTeam godoc
// @Summary Select or deselect one team
// @Tags Wizards
// @Accept json
// @Produce json
// @Param id path string true "Wizard ID"
// @Param payload body dto.ToggleTeamRequest true "Team to toggle"
// @Success 200 {object} response.Envelope
// @Router /wizards/{id}/teams/toggle [post]
func (h *WizardHandler) ToggleTeam(c *gin.Context) {
	var req dto.ToggleTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid toggle payload"))
		return
	}
	teams, err := h.wizards.ToggleTeam(c.Request.Context(), actorFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teams, nil)
}

// SelectFiltered godoc
// @Summary Select all filtered teams, or deselect them when all are already selected
// @Tags Wizards
// @Accept json
// @Produce json
// @Param id path string true "Wizard ID"
// @Param payload body dto.SelectFilteredRequest false "Active search"
// @Success 200 {object} response.Envelope
// @Router /wizards/{id}/teams/select-filtered [post]
func (h *WizardHandler) SelectFiltered(c *gin.Context) {
	var req dto.SelectFilteredRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid select payload"))
			return
		}
	}
	teams, err := h.wizards.SelectFiltered(c.Request.Context(), actorFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teams, nil)
}

// Back godoc
// @Summary Return to the configuration view
// @Tags Wizards
// @Produce json
// @Param id path string true "Wizard ID"
// @Success 200 {object} response.Envelope
// @Router /wizards/{id}/back [post]
func (h *WizardHandler) Back(c *gin.Context) {
	snapshot, err := h.wizards.Back(c.Request.Context(), actorFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, snapshot, nil)
}

// Reset godoc
// @Summary Discard results and start another schedule
// @Tags Wizards
// @Produce json
// @Param id path string true "Wizard ID"
// @Success 200 {object} response.Envelope
// @Router /wizards/{id}/reset [post]
func (h *WizardHandler) Reset(c *gin.Context) {
	snapshot, err := h.wizards.Reset(c.Request.Context(), actorFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, snapshot, nil)
}

// Submit godoc
// @Summary Generate matches with the configured scheduler
// @Tags Wizards
// @Produce json
// @Param id path string true "Wizard ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /wizards/{id}/submit [post]
func (h *WizardHandler) Submit(c *gin.Context) {
	snapshot, err := h.wizards.Submit(c.Request.Context(), actorFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, snapshot, nil)
}

// Results godoc
// @Summary Page through generated matches
// @Tags Wizards
// @Produce json
// @Param id path string true "Wizard ID"
// @Param page query int false "Page number, defaults to the current page"
// @Success 200 {object} response.Envelope
// @Router /wizards/{id}/results [get]
func (h *WizardHandler) Results(c *gin.Context) {
	page, ok := queryInt(c, "page", 0)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "page must be a number"))
		return
	}
	results, err := h.wizards.Results(c.Request.Context(), actorFromContext(c), c.Param("id"), page)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, results, &results.Pagination)
}

// Export godoc
// @Summary Download generated matches as CSV or PDF
// @Tags Wizards
// @Produce text/csv
// @Produce application/pdf
// @Param id path string true "Wizard ID"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Router /wizards/{id}/export [get]
func (h *WizardHandler) Export(c *gin.Context) {
	format := service.ExportFormat(strings.ToLower(c.DefaultQuery("format", string(service.ExportFormatCSV))))
	file, err := h.exports.Export(c.Request.Context(), actorFromContext(c), c.Param("id"), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Content)
}

// PublishExport godoc
// @Summary Publish the match sheet behind a signed download link
// @Tags Wizards
// @Produce json
// @Param id path string true "Wizard ID"
// @Param format query string false "csv or pdf" default(pdf)
// @Success 201 {object} response.Envelope
// @Router /wizards/{id}/export/link [post]
func (h *WizardHandler) PublishExport(c *gin.Context) {
	format := service.ExportFormat(strings.ToLower(c.DefaultQuery("format", string(service.ExportFormatPDF))))
	link, err := h.exports.Publish(c.Request.Context(), actorFromContext(c), c.Param("id"), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{
		"filename":  link.Filename,
		"expiresAt": link.ExpiresAt,
		"url":       downloadPath(c, link.Token),
	})
}

// Download godoc
// @Summary Download a published match sheet
// @Tags Exports
// @Produce text/csv
// @Produce application/pdf
// @Param token path string true "Signed download token"
// @Success 200 {file} file
// @Failure 410 {object} response.Envelope
// @Router /exports/{token} [get]
func (h *WizardHandler) Download(c *gin.Context) {
	file, err := h.exports.Download(c.Request.Context(), c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Content)
}

// downloadPath rebuilds the public download route relative to the wizard group prefix.
func downloadPath(c *gin.Context, token string) string {
	prefix := strings.TrimSuffix(c.FullPath(), "/wizards/:id/export/link")
	return prefix + "/exports/" + token
}
