package infrastructure

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"cvcraft/internal/render"
	"cvcraft/pkg/pdfpage"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// Viewport size in CSS pixels of an A4 sheet at 96 dpi.
const (
	viewportWidth  = 794
	viewportHeight = 1123
)

// ChromedpEngine rasterizes preview pages and composes PDFs with a headless
// Chrome. Each call starts its own browser.
type ChromedpEngine struct {
	execPath string
	timeout  time.Duration
	logger   *zap.Logger
}

type EngineConfig struct {
	// ExecPath overrides the browser binary; CHROME_PATH is used when empty.
	ExecPath string
	Timeout  time.Duration
	Logger   *zap.Logger
}

func NewChromedpEngine(cfg EngineConfig) *ChromedpEngine {
	e := &ChromedpEngine{execPath: cfg.ExecPath, timeout: cfg.Timeout, logger: cfg.Logger}
	if e.execPath == "" {
		e.execPath = os.Getenv("CHROME_PATH")
	}
	if e.timeout <= 0 {
		e.timeout = 60 * time.Second
	}
	if e.logger == nil {
		e.logger = zap.NewNop()
	}
	return e
}

// Rasterize loads the surface page and captures the element tagged with
// render.SurfaceSelector at the given device scale.
func (e *ChromedpEngine) Rasterize(ctx context.Context, surface *render.Surface, scale float64) ([]byte, error) {
	if surface == nil {
		return nil, fmt.Errorf("rasterize: nil surface")
	}
	var png []byte
	err := e.run(ctx, surface.HTML, func(url string) chromedp.Tasks {
		var nodes []*cdp.Node
		return chromedp.Tasks{
			chromedp.EmulateViewport(viewportWidth, viewportHeight),
			chromedp.Navigate(url),
			chromedp.WaitReady("body", chromedp.ByQuery),
			chromedp.Nodes(render.SurfaceSelector, &nodes, chromedp.ByQuery, chromedp.AtLeast(0)),
			chromedp.ActionFunc(func(ctx context.Context) error {
				if len(nodes) == 0 {
					return fmt.Errorf("page has no %s element", render.SurfaceSelector)
				}
				return nil
			}),
			chromedp.ScreenshotScale(render.SurfaceSelector, scale, &png, chromedp.ByQuery),
		}
	})
	if err != nil {
		return nil, fmt.Errorf("rasterize: %w", err)
	}
	e.logger.Debug("surface rasterized", zap.Int("bytes", len(png)), zap.Float64("scale", scale))
	return png, nil
}

// ComposePDF prints a single A4 page with the PNG placed at the given
// position in millimetres.
func (e *ChromedpEngine) ComposePDF(ctx context.Context, png []byte, at pdfpage.Placement) ([]byte, error) {
	html := fmt.Sprintf(composeHTML, at.X, at.Y, at.Width, at.Height, base64.StdEncoding.EncodeToString(png))
	var pdf []byte
	err := e.run(ctx, html, func(url string) chromedp.Tasks {
		return chromedp.Tasks{
			chromedp.Navigate(url),
			chromedp.WaitReady("img", chromedp.ByQuery),
			chromedp.ActionFunc(func(ctx context.Context) error {
				var err error
				pdf, _, err = page.PrintToPDF().
					WithPrintBackground(true).
					WithPaperWidth(pdfpage.WidthIn).
					WithPaperHeight(pdfpage.HeightIn).
					WithMarginTop(0).
					WithMarginBottom(0).
					WithMarginLeft(0).
					WithMarginRight(0).
					WithPageRanges("1").
					WithPreferCSSPageSize(true).
					Do(ctx)
				return err
			}),
		}
	})
	if err != nil {
		return nil, fmt.Errorf("compose pdf: %w", err)
	}
	return pdf, nil
}

const composeHTML = `<!DOCTYPE html>
<html><head><meta charset="utf-8"><style>
@page { size: A4; margin: 0; }
html, body { margin: 0; padding: 0; width: 210mm; height: 297mm; overflow: hidden; background: #fff; }
img { position: absolute; left: %.3fmm; top: %.3fmm; width: %.3fmm; height: %.3fmm; }
</style></head>
<body><img src="data:image/png;base64,%s"></body></html>`

// run writes html to a temporary index.html and executes the tasks built for
// its file URL in a fresh headless browser.
func (e *ChromedpEngine) run(ctx context.Context, html string, tasks func(url string) chromedp.Tasks) error {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if e.execPath != "" {
		opts = append(opts, chromedp.ExecPath(e.execPath))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()
	cctx, cancelCtx := chromedp.NewContext(allocCtx)
	defer cancelCtx()
	tctx, cancelTimeout := context.WithTimeout(cctx, e.timeout)
	defer cancelTimeout()

	tmpDir, err := os.MkdirTemp("", "cvcraft-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(tmpDir)

	htmlPath := filepath.Join(tmpDir, "index.html")
	if err := os.WriteFile(htmlPath, []byte(html), 0o644); err != nil {
		return err
	}
	return chromedp.Run(tctx, tasks("file://"+htmlPath))
}
