package render

import (
	"bytes"
	"fmt"

	"github.com/golang/freetype/truetype"
	"github.com/jung-kurt/gofpdf"

	"github.com/jackzampolin/lessonpress/internal/agenterr"
	"github.com/jackzampolin/lessonpress/internal/document"
)

const (
	fontFamily = "lesson"
	marginMM   = 18
	footerMM   = 16
	bodySize   = 11
	lineHeight = 5.5
	indentMM   = 6
	badgeW     = 60
	badgeH     = 20
)

var headingSizes = map[blockKind]float64{
	blockTitle: 22,
	blockH1:    16,
	blockH2:    13,
	blockH3:    11.5,
}

type typesetter struct {
	pdf    *gofpdf.Fpdf
	face   *truetype.Font
	badges int
}

// typeset lays blocks out on A4 pages with a numbered footer.
func typeset(doc *document.Document, blocks []block, assets *loadedAssets) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("%s Class %s (%s)", doc.SubjectName, doc.ClassYear, doc.Mode), true)
	pdf.SetCreator("lessonpress", true)
	pdf.SetMargins(marginMM, marginMM, marginMM)
	pdf.SetAutoPageBreak(true, footerMM)
	pdf.AddUTF8FontFromBytes(fontFamily, "", assets.font)
	if err := pdf.Error(); err != nil {
		return nil, agenterr.Wrap(agenterr.CodeFontRead, err, "load font into pdf")
	}

	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont(fontFamily, "", 9)
		pdf.SetTextColor(110, 110, 110)
		pdf.CellFormat(0, 6, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	ts := &typesetter{pdf: pdf, face: assets.face}
	for _, b := range blocks {
		if err := ts.draw(b); err != nil {
			return nil, err
		}
		if err := pdf.Error(); err != nil {
			return nil, agenterr.Wrap(agenterr.CodePDFGeneration, err, "typeset #%s", b.kind)
		}
	}
	if pdf.PageCount() == 0 {
		pdf.AddPage()
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, agenterr.Wrap(agenterr.CodePDFGeneration, err, "write pdf")
	}
	return buf.Bytes(), nil
}

func (ts *typesetter) draw(b block) error {
	pdf := ts.pdf
	if b.kind != blockPage && pdf.PageNo() == 0 {
		pdf.AddPage()
	}
	pdf.SetTextColor(20, 20, 20)

	switch b.kind {
	case blockPage:
		pdf.AddPage()
	case blockTitle:
		pdf.SetFont(fontFamily, "", headingSizes[b.kind])
		pdf.MultiCell(0, 10, b.text, "", "C", false)
		pdf.Ln(2)
	case blockH1, blockH2, blockH3:
		size := headingSizes[b.kind]
		pdf.Ln(size / 4)
		pdf.SetFont(fontFamily, "", size)
		pdf.SetTextColor(25, 60, 120)
		pdf.MultiCell(0, size*0.5, b.text, "", "L", false)
		pdf.Ln(1)
	case blockPara:
		if b.text == "" {
			return nil
		}
		pdf.SetFont(fontFamily, "", bodySize)
		pdf.MultiCell(0, lineHeight, b.text, "", "J", false)
		pdf.Ln(1.5)
	case blockItem:
		if b.text == "" {
			return nil
		}
		left, _, _, _ := pdf.GetMargins()
		pdf.SetFont(fontFamily, "", bodySize)
		pdf.SetX(left + indentMM)
		pdf.CellFormat(indentMM/2, lineHeight, "•", "", 0, "L", false, 0, "")
		pdf.MultiCell(0, lineHeight, b.text, "", "L", false)
	case blockKV:
		pdf.SetFont(fontFamily, "", bodySize)
		pdf.SetTextColor(90, 90, 90)
		pdf.CellFormat(42, lineHeight, b.key, "", 0, "L", false, 0, "")
		pdf.SetTextColor(20, 20, 20)
		pdf.MultiCell(0, lineHeight, b.text, "", "L", false)
	case blockRule:
		left, _, right, _ := pdf.GetMargins()
		width, _ := pdf.GetPageSize()
		y := pdf.GetY() + 2
		pdf.SetDrawColor(180, 180, 180)
		pdf.Line(left, y, width-right, y)
		pdf.SetY(y + 3)
	case blockSpace:
		pdf.Ln(b.mm)
	case blockBadge:
		return ts.badge(b.text)
	}
	return nil
}

func (ts *typesetter) badge(label string) error {
	img, err := badgePNG(ts.face, label)
	if err != nil {
		return agenterr.Wrap(agenterr.CodePDFGeneration, err, "draw badge")
	}

	ts.badges++
	name := fmt.Sprintf("badge-%d", ts.badges)
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	ts.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(img))

	width, _ := ts.pdf.GetPageSize()
	y := ts.pdf.GetY()
	ts.pdf.ImageOptions(name, (width-badgeW)/2, y, badgeW, badgeH, false, opts, 0, "")
	ts.pdf.SetY(y + badgeH + 4)
	return nil
}
