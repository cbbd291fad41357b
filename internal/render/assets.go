package render

import (
	"bytes"
	_ "embed"
	"fmt"
	"hash/fnv"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/golang/freetype/truetype"

	"github.com/jackzampolin/lessonpress/internal/agenterr"
)

//go:embed templates/lesson.tmpl
var defaultTemplate string

// DefaultTemplate returns the built-in lesson layout template.
func DefaultTemplate() string {
	return defaultTemplate
}

// Assets locates the files a render reads.
type Assets struct {
	TemplatePath  string `mapstructure:"template_path" yaml:"template_path"`
	FontPath      string `mapstructure:"font_path" yaml:"font_path"`
	WatermarkPath string `mapstructure:"watermark_path" yaml:"watermark_path"`
}

// DefaultAssets returns the asset layout under a home directory.
func DefaultAssets(homePath string) Assets {
	return Assets{
		TemplatePath:  filepath.Join(homePath, "templates", "lesson.tmpl"),
		FontPath:      filepath.Join(homePath, "fonts", "times-new-roman.ttf"),
		WatermarkPath: filepath.Join(homePath, "templates", "images", "watermark.png"),
	}
}

// Fingerprint identifies the current contents of the asset files by path,
// size and modification time. It changes whenever an asset is edited.
func (a Assets) Fingerprint() string {
	h := fnv.New64a()
	for _, p := range []string{a.TemplatePath, a.FontPath, a.WatermarkPath} {
		fmt.Fprintf(h, "%s|", p)
		if fi, err := os.Stat(p); err == nil {
			fmt.Fprintf(h, "%d|%d;", fi.Size(), fi.ModTime().UnixNano())
		} else {
			fmt.Fprint(h, "missing;")
		}
	}
	return fmt.Sprintf("%016x", h.Sum64())
}

type loadedAssets struct {
	template  string
	font      []byte
	face      *truetype.Font
	watermark []byte // nil when the watermark is optional and missing
}

func (a Assets) load(watermarkOptional bool, logger *slog.Logger) (*loadedAssets, error) {
	tmpl, err := os.ReadFile(a.TemplatePath)
	if err != nil {
		return nil, agenterr.Wrap(agenterr.CodeTemplateRead, err, "read template %s", a.TemplatePath)
	}

	fontBytes, err := os.ReadFile(a.FontPath)
	if err != nil {
		return nil, agenterr.Wrap(agenterr.CodeFontRead, err, "read font %s", a.FontPath)
	}
	face, err := truetype.Parse(fontBytes)
	if err != nil {
		return nil, agenterr.Wrap(agenterr.CodeFontRead, err, "parse font %s", a.FontPath)
	}

	loaded := &loadedAssets{template: string(tmpl), font: fontBytes, face: face}

	img, err := os.ReadFile(a.WatermarkPath)
	if err != nil {
		if watermarkOptional && os.IsNotExist(err) {
			logger.Warn("watermark image missing, rendering without it", "path", a.WatermarkPath)
			return loaded, nil
		}
		return nil, agenterr.Wrap(agenterr.CodeImageRead, err, "read watermark %s", a.WatermarkPath)
	}
	if _, _, err := image.DecodeConfig(bytes.NewReader(img)); err != nil {
		return nil, agenterr.Wrap(agenterr.CodeImageRead, err, "decode watermark %s", a.WatermarkPath)
	}
	loaded.watermark = img

	return loaded, nil
}

// InitAssets writes the default template and watermark where they are
// missing. Existing files are kept unless force is set. The font is never
// written; it returns the paths it wrote.
func InitAssets(a Assets, force bool) ([]string, error) {
	var written []string

	write := func(path string, data []byte) error {
		if !force {
			if _, err := os.Stat(path); err == nil {
				return nil
			}
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		written = append(written, path)
		return nil
	}

	if err := write(a.TemplatePath, []byte(defaultTemplate)); err != nil {
		return written, err
	}

	wm, err := defaultWatermark()
	if err != nil {
		return written, err
	}
	if err := write(a.WatermarkPath, wm); err != nil {
		return written, err
	}

	return written, nil
}
