package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/match-scheduler-gateway/internal/dto"
	"github.com/noah-isme/match-scheduler-gateway/internal/models"
	appErrors "github.com/noah-isme/match-scheduler-gateway/pkg/errors"
	"github.com/noah-isme/match-scheduler-gateway/pkg/export"
	"github.com/noah-isme/match-scheduler-gateway/pkg/storage"
)

// ExportFormat names a rendering of the generated matches.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

type generatedMatchSource interface {
	GeneratedMatches(ctx context.Context, actor dto.Actor, id string) (string, []models.ScheduledMatch, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type sheetStore interface {
	Save(name string, data []byte) error
	Read(name string) ([]byte, error)
	PruneOlderThan(ttl time.Duration) (int, error)
}

type linkSigner interface {
	Generate(name string) (string, time.Time, error)
	Parse(token string) (string, time.Time, error)
}

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// ErrLinkExpired is returned for download links past their expiry.
var ErrLinkExpired = appErrors.New("LINK_EXPIRED", http.StatusGone, "download link expired")

// ExportLink is a published match sheet reachable without a bearer token until it expires.
type ExportLink struct {
	Token     string    `json:"token"`
	Filename  string    `json:"filename"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ExportFile is a rendered document ready to be streamed.
type ExportFile struct {
	Filename    string
	ContentType string
	Content     []byte
}

// ExportService renders a wizard's generated matches as a match sheet.
type ExportService struct {
	matches generatedMatchSource
	csv     csvRenderer
	pdf     pdfRenderer
	store   sheetStore
	signer  linkSigner
	retain  time.Duration
	logger  *zap.Logger
	now     func() time.Time
}

// NewExportService constructs an ExportService. Nil renderers fall back to the defaults.
func NewExportService(matches generatedMatchSource, csv csvRenderer, pdf pdfRenderer, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{matches: matches, csv: csv, pdf: pdf, logger: logger, now: time.Now}
}

// WithPublishing enables Publish and Download backed by store and signer.
// Stored sheets are kept for retain, which should cover the link lifetime.
func (s *ExportService) WithPublishing(store sheetStore, signer linkSigner, retain time.Duration) *ExportService {
	if retain <= 0 {
		retain = 24 * time.Hour
	}
	s.store = store
	s.signer = signer
	s.retain = retain
	return s
}

// RunCleanup prunes expired match sheets every interval until ctx is done.
func (s *ExportService) RunCleanup(ctx context.Context, interval time.Duration) {
	if s.store == nil {
		return
	}
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.prune()
		}
	}
}

func (s *ExportService) prune() int {
	deleted, err := s.store.PruneOlderThan(s.retain)
	if err != nil {
		s.logger.Warn("failed to prune match sheets", zap.Error(err))
	}
	if deleted > 0 {
		s.logger.Info("pruned match sheets", zap.Int("deleted", deleted))
	}
	return deleted
}

// Export renders the wizard's results in the requested format.
func (s *ExportService) Export(ctx context.Context, actor dto.Actor, wizardID string, format ExportFormat) (*ExportFile, error) {
	_, file, err := s.render(ctx, actor, wizardID, format)
	return file, err
}

func (s *ExportService) render(ctx context.Context, actor dto.Actor, wizardID string, format ExportFormat) (string, *ExportFile, error) {
	if format == "" {
		format = ExportFormatCSV
	}
	if format != ExportFormatCSV && format != ExportFormatPDF {
		return "", nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	stageID, matches, err := s.matches.GeneratedMatches(ctx, actor, wizardID)
	if err != nil {
		return "", nil, err
	}

	data := MatchSheet(stageID, matches, s.now().UTC())
	var (
		content     []byte
		contentType string
	)
	switch format {
	case ExportFormatPDF:
		content, err = s.pdf.Render(data)
		contentType = "application/pdf"
	default:
		content, err = s.csv.Render(data)
		contentType = "text/csv"
	}
	if err != nil {
		s.logger.Error("failed to render match sheet", zap.String("wizard_id", wizardID), zap.String("format", string(format)), zap.Error(err))
		return "", nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render match sheet")
	}

	return stageID, &ExportFile{
		Filename:    fmt.Sprintf("matches-%s.%s", unsafeNameChars.ReplaceAllString(stageID, "_"), format),
		ContentType: contentType,
		Content:     content,
	}, nil
}

// Publish renders the match sheet, stores it and returns a signed download link.
func (s *ExportService) Publish(ctx context.Context, actor dto.Actor, wizardID string, format ExportFormat) (*ExportLink, error) {
	if s.store == nil || s.signer == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "match sheet publishing is disabled")
	}
	stageID, file, err := s.render(ctx, actor, wizardID, format)
	if err != nil {
		return nil, err
	}

	// <stage>/<random>-<filename>; Download strips the random prefix again.
	name := path.Join(unsafeNameChars.ReplaceAllString(stageID, "_"), uuid.NewString()[:8]+"-"+file.Filename)
	if err := s.store.Save(name, file.Content); err != nil {
		s.logger.Error("failed to store match sheet", zap.String("wizard_id", wizardID), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to publish match sheet")
	}
	token, expiresAt, err := s.signer.Generate(name)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign match sheet link")
	}
	s.logger.Info("match sheet published", zap.String("wizard_id", wizardID), zap.String("file", name), zap.Time("expires_at", expiresAt))
	return &ExportLink{Token: token, Filename: file.Filename, ExpiresAt: expiresAt}, nil
}

// Download resolves a link token to the stored match sheet.
func (s *ExportService) Download(ctx context.Context, token string) (*ExportFile, error) {
	if s.store == nil || s.signer == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "match sheet publishing is disabled")
	}
	name, _, err := s.signer.Parse(token)
	switch {
	case errors.Is(err, storage.ErrTokenExpired):
		return nil, ErrLinkExpired
	case err != nil:
		return nil, appErrors.Clone(appErrors.ErrNotFound, "download link not found")
	}
	content, err := s.store.Read(name)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "match sheet no longer available")
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read match sheet")
	}

	base := path.Base(name)
	if i := strings.IndexByte(base, '-'); i >= 0 {
		base = base[i+1:]
	}
	contentType := "text/csv"
	if path.Ext(base) == "."+string(ExportFormatPDF) {
		contentType = "application/pdf"
	}
	return &ExportFile{Filename: base, ContentType: contentType, Content: content}, nil
}

// MatchSheet tabulates matches with one column per alliance.
func MatchSheet(stageID string, matches []models.ScheduledMatch, generatedAt time.Time) export.Dataset {
	data := export.Dataset{
		Title:    "Match schedule",
		Subtitle: fmt.Sprintf("Stage %s, %d matches, generated %s", stageID, len(matches), generatedAt.Format(time.RFC3339)),
		Headers:  []string{"Match", "Round", "Status", "Red Alliance", "Blue Alliance"},
		Widths:   []float64{1, 1, 1.5, 4, 4},
		Rows:     make([][]string, 0, len(matches)),
	}
	for _, match := range matches {
		data.Rows = append(data.Rows, []string{
			strconv.Itoa(match.MatchNumber),
			strconv.Itoa(match.RoundNumber),
			string(match.Status),
			allianceLabel(match.AllianceTeams(models.AllianceRed)),
			allianceLabel(match.AllianceTeams(models.AllianceBlue)),
		})
	}
	return data
}

func allianceLabel(teams []models.TeamRef) string {
	labels := make([]string, 0, len(teams))
	for _, team := range teams {
		label := team.TeamNumber
		if label == "" {
			label = team.TeamID
		}
		if team.Name != "" {
			label += " " + team.Name
		}
		labels = append(labels, label)
	}
	return strings.Join(labels, ", ")
}
