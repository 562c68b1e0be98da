package usecase

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/png"
	"strings"
	"time"

	"cvcraft/internal/domain"
	apperrors "cvcraft/internal/errors"
	"cvcraft/internal/model"
	"cvcraft/internal/observability"
	"cvcraft/internal/render"
	"cvcraft/pkg/pdfpage"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RasterScale is the device pixel ratio used when capturing the surface.
const RasterScale = 2.0

// Rasterizer captures the tagged surface element of a page as a PNG.
type Rasterizer interface {
	Rasterize(ctx context.Context, surface *render.Surface, scale float64) ([]byte, error)
}

// Composer places a PNG on a single A4 PDF page.
type Composer interface {
	ComposePDF(ctx context.Context, png []byte, at pdfpage.Placement) ([]byte, error)
}

// Sink receives the finished PDF, e.g. as a file download.
type Sink interface {
	Deliver(ctx context.Context, filename string, pdf []byte) error
}

type JobsRepo interface {
	Save(ctx context.Context, j *domain.ExportJob) error
}

type ExportResult struct {
	JobID     uuid.UUID         `json:"jobId"`
	Filename  string            `json:"filename"`
	Size      int               `json:"size"`
	Placement pdfpage.Placement `json:"placement"`
}

// Exporter turns a rendered surface into a one-page PDF.
type Exporter struct {
	rasterizer Rasterizer
	composer   Composer
	repo       JobsRepo
	notifier   Notifier
	metrics    *observability.Metrics
	logger     *zap.Logger
	attempts   int
	backoff    time.Duration
	verify     func([]byte) error
}

type ExporterOption func(*Exporter)

func WithJobsRepo(r JobsRepo) ExporterOption         { return func(e *Exporter) { e.repo = r } }
func WithNotifier(n Notifier) ExporterOption         { return func(e *Exporter) { e.notifier = n } }
func WithMetrics(m *observability.Metrics) ExporterOption {
	return func(e *Exporter) { e.metrics = m }
}
func WithLogger(l *zap.Logger) ExporterOption { return func(e *Exporter) { e.logger = l } }

// WithRetry sets how many times composition is attempted and the base delay
// between attempts, doubled after each failure.
func WithRetry(attempts int, backoff time.Duration) ExporterOption {
	return func(e *Exporter) {
		if attempts > 0 {
			e.attempts = attempts
		}
		e.backoff = backoff
	}
}

func NewExporter(r Rasterizer, c Composer, opts ...ExporterOption) *Exporter {
	e := &Exporter{
		rasterizer: r,
		composer:   c,
		notifier:   nopNotifier{},
		logger:     zap.NewNop(),
		attempts:   3,
		backoff:    time.Second,
		verify:     pdfpage.VerifySinglePage,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Filename derives the download name from the person's name.
func Filename(info model.PersonalInfo) string {
	first, last := strings.TrimSpace(info.FirstName), strings.TrimSpace(info.LastName)
	if first == "" {
		first = "CV"
	}
	if last == "" {
		last = "Resume"
	}
	return first + "_" + last + ".pdf"
}

// Export captures surface, lays it out on an A4 page and hands the PDF to
// sink. Every failure comes back as an *errors.AppError of type export; the
// method never panics.
func (e *Exporter) Export(ctx context.Context, surface *render.Surface, info model.PersonalInfo, sink Sink) (*ExportResult, error) {
	return e.ExportFrom(ctx, func() (*render.Surface, error) { return surface, nil }, info, sink)
}

// ExportFrom is Export with the surface produced by capture once the job has
// started. A capture error fails the export with RASTERIZE_FAILED; a nil
// surface means nothing is mounted.
func (e *Exporter) ExportFrom(ctx context.Context, capture func() (*render.Surface, error), info model.PersonalInfo, sink Sink) (res *ExportResult, err error) {
	start := time.Now()
	filename := Filename(info)
	job := &domain.ExportJob{
		ID:        uuid.New(),
		Filename:  filename,
		Status:    domain.ExportPending,
		Metadata:  map[string]interface{}{},
		CreatedAt: start,
		UpdatedAt: start,
	}
	e.saveJob(ctx, job)
	e.notifier.OnExportStart()
	log := e.logger.With(zap.String("job_id", job.ID.String()), zap.String("filename", filename))

	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = apperrors.NewExportError(apperrors.CodeExportPanicked, apperrors.ExportFailedMessage, fmt.Errorf("panic: %v", r))
		}
		outcome := "ok"
		job.UpdatedAt = time.Now()
		if err != nil {
			appErr, _ := apperrors.As(err)
			outcome = appErr.Code
			job.Status = domain.ExportFailed
			job.Error = err.Error()
			job.ErrorCode = appErr.Code
			log.Warn("export failed", zap.Error(err))
			e.notifier.OnExportFailure(appErr.Message)
		} else {
			job.Status = domain.ExportCompleted
			job.SizeBytes = res.Size
			log.Info("export completed", zap.Int("bytes", res.Size), zap.Duration("took", time.Since(start)))
			e.notifier.OnExportSuccess(filename)
		}
		e.saveJob(context.WithoutCancel(ctx), job)
		e.metrics.ObserveExport(outcome, time.Since(start))
	}()

	surface, err := capture()
	if err != nil {
		return nil, exportError(apperrors.CodeRasterizeFailed, fmt.Errorf("render surface: %w", err))
	}
	if surface != nil {
		job.Template = string(surface.Template)
	}
	if err := checkSurface(surface); err != nil {
		return nil, err
	}

	png, err := e.rasterizer.Rasterize(ctx, surface, RasterScale)
	if err != nil {
		return nil, exportError(apperrors.CodeRasterizeFailed, err)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(png))
	if err != nil {
		return nil, exportError(apperrors.CodeRasterizeFailed, fmt.Errorf("decode raster: %w", err))
	}
	at, err := pdfpage.Fit(cfg.Width, cfg.Height)
	if err != nil {
		return nil, exportError(apperrors.CodeRasterizeFailed, err)
	}
	job.Metadata["raster_width"] = cfg.Width
	job.Metadata["raster_height"] = cfg.Height
	log.Debug("surface captured", zap.Int("width", cfg.Width), zap.Int("height", cfg.Height), zap.Float64("scale", at.Scale))

	pdf, err := e.compose(ctx, png, at, log)
	if err != nil {
		return nil, exportError(apperrors.CodeEncodeFailed, err)
	}

	if sink != nil {
		if err := sink.Deliver(ctx, filename, pdf); err != nil {
			return nil, exportError(apperrors.CodeDeliveryFailed, err)
		}
	}
	return &ExportResult{JobID: job.ID, Filename: filename, Size: len(pdf), Placement: at}, nil
}

// compose produces the PDF with retry and validation.
func (e *Exporter) compose(ctx context.Context, png []byte, at pdfpage.Placement, log *zap.Logger) ([]byte, error) {
	var pdf []byte
	var err error
	for i := 0; i < e.attempts; i++ {
		pdf, err = e.composer.ComposePDF(ctx, png, at)
		if err == nil {
			if err = e.verify(pdf); err == nil {
				return pdf, nil
			}
		}
		log.Debug("compose attempt failed", zap.Int("attempt", i+1), zap.Error(err))
		if i < e.attempts-1 && e.backoff > 0 {
			select {
			case <-time.After(e.backoff << i):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	return nil, fmt.Errorf("composition failed after %d attempts: %w", e.attempts, err)
}

func (e *Exporter) saveJob(ctx context.Context, job *domain.ExportJob) {
	if e.repo == nil {
		return
	}
	if err := e.repo.Save(ctx, job); err != nil {
		e.logger.Warn("failed to save export job", zap.String("job_id", job.ID.String()), zap.Error(err))
	}
}

func checkSurface(s *render.Surface) error {
	if s == nil {
		return exportError(apperrors.CodeSurfaceNotFound, fmt.Errorf("no preview is mounted"))
	}
	page, err := goquery.NewDocumentFromReader(strings.NewReader(s.HTML))
	if err != nil {
		return exportError(apperrors.CodeSurfaceNotFound, err)
	}
	if page.Find(render.SurfaceSelector).Length() == 0 {
		return exportError(apperrors.CodeSurfaceNotFound, fmt.Errorf("page has no %s element", render.SurfaceSelector))
	}
	return nil
}

func exportError(code string, cause error) *apperrors.AppError {
	return apperrors.NewExportError(code, apperrors.ExportFailedMessage, cause)
}
