package render

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
)

const (
	badgePixelsW  = 600
	badgePixelsH  = 200
	watermarkSize = 512
)

var ink = color.NRGBA{R: 25, G: 60, B: 120, A: 255}

// badgePNG draws label centred on a rounded panel.
func badgePNG(f *truetype.Font, label string) ([]byte, error) {
	face := truetype.NewFace(f, &truetype.Options{
		Size:    72,
		Hinting: font.HintingNone,
	})
	defer face.Close()

	w, h := float64(badgePixelsW), float64(badgePixelsH)
	dc := gg.NewContext(badgePixelsW, badgePixelsH)
	dc.SetColor(color.White)
	dc.Clear()
	dc.DrawRoundedRectangle(4, 4, w-8, h-8, 28)
	dc.SetColor(ink)
	dc.Fill()

	dc.SetFontFace(face)
	dc.SetColor(color.White)
	dc.DrawStringAnchored(label, w/2, h/2, 0.5, 0.35)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// defaultWatermark draws the stock crest written by InitAssets.
func defaultWatermark() ([]byte, error) {
	f, err := truetype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse watermark font: %w", err)
	}
	face := truetype.NewFace(f, &truetype.Options{Size: 64, Hinting: font.HintingNone})
	defer face.Close()

	size := float64(watermarkSize)
	dc := gg.NewContext(watermarkSize, watermarkSize)
	dc.SetColor(color.White)
	dc.Clear()
	dc.SetColor(ink)
	dc.SetLineWidth(14)
	dc.DrawCircle(size/2, size/2, size/2-16)
	dc.Stroke()
	dc.SetFontFace(face)
	dc.DrawStringAnchored("LESSON", size/2, size/2-36, 0.5, 0.5)
	dc.DrawStringAnchored("PRESS", size/2, size/2+44, 0.5, 0.5)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}
