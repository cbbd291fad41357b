package render

import (
	"bytes"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/jackzampolin/lessonpress/internal/agenterr"
)

// Centred at half page width, faint, behind the page content.
const watermarkDesc = "scalefactor:.5 rel, rotation:0, opacity:.15"

func pdfConfig() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// applyWatermark stamps img under the content of every page of pdf.
func applyWatermark(pdf, img []byte) ([]byte, error) {
	wm, err := api.ImageWatermarkForReader(bytes.NewReader(img), watermarkDesc, false, false, types.POINTS)
	if err != nil {
		return nil, agenterr.Wrap(agenterr.CodePDFGeneration, err, "prepare watermark")
	}

	var out bytes.Buffer
	if err := api.AddWatermarks(bytes.NewReader(pdf), &out, nil, wm, pdfConfig()); err != nil {
		return nil, agenterr.Wrap(agenterr.CodePDFGeneration, err, "apply watermark")
	}
	return out.Bytes(), nil
}

// PageCount returns the number of pages in pdf.
func PageCount(pdf []byte) (int, error) {
	return api.PageCount(bytes.NewReader(pdf), pdfConfig())
}
