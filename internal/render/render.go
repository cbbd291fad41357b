// Package render turns a lesson document into a PDF: the layout template is
// compiled against the document, typeset onto A4 pages and watermarked.
package render

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackzampolin/lessonpress/internal/agenterr"
	"github.com/jackzampolin/lessonpress/internal/document"
)

// Config configures a Renderer.
type Config struct {
	Assets            Assets
	WatermarkOptional bool
	Logger            *slog.Logger
}

// Renderer renders documents using the configured assets.
// Assets are read on every render, and Fingerprint changes when they are
// edited, so edits take effect without a restart.
type Renderer struct {
	assets            Assets
	watermarkOptional bool
	logger            *slog.Logger
}

// New creates a Renderer.
func New(cfg Config) *Renderer {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{
		assets:            cfg.Assets,
		watermarkOptional: cfg.WatermarkOptional,
		logger:            logger,
	}
}

// Assets returns the configured asset paths.
func (r *Renderer) Assets() Assets {
	return r.assets
}

// Fingerprint identifies the current asset contents.
func (r *Renderer) Fingerprint() string {
	return r.assets.Fingerprint()
}

// CheckAssets reports whether every asset can be read.
func (r *Renderer) CheckAssets() error {
	_, err := r.assets.load(r.watermarkOptional, r.logger)
	return err
}

// Render produces the PDF bytes for doc.
func (r *Renderer) Render(ctx context.Context, doc *document.Document) ([]byte, error) {
	start := time.Now()

	assets, err := r.assets.load(r.watermarkOptional, r.logger)
	if err != nil {
		return nil, err
	}

	data, err := doc.Dict()
	if err != nil {
		return nil, agenterr.Wrap(agenterr.CodeCompile, err, "build template data")
	}
	blocks, err := compile(assets.template, data)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pdf, err := typeset(doc, blocks, assets)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if assets.watermark != nil {
		pdf, err = applyWatermark(pdf, assets.watermark)
		if err != nil {
			return nil, err
		}
	}

	r.logger.Info("rendered document",
		"subject", doc.SubjectName,
		"class", doc.ClassYear,
		"mode", doc.Mode,
		"lessons", len(doc.Lessons),
		"bytes", len(pdf),
		"duration", time.Since(start))

	return pdf, nil
}
