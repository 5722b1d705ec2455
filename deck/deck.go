// Package deck builds PowerPoint packages and applies generated themes to
// the XML theme parts inside them.
package deck

import (
	"bytes"
	"fmt"

	ppt "github.com/VantageDataChat/GoPPT"
)

const (
	emuPerInch = 914400

	titleLeft   = int64(0.5 * emuPerInch)
	titleTop    = int64(2.0 * emuPerInch)
	titleWidth  = int64(9.0 * emuPerInch)
	titleHeight = int64(1.2 * emuPerInch)

	fontTitle = 36
)

// PlaceholderTitle is the text placed on the title slide of a fresh deck.
const PlaceholderTitle = "PLACEHOLDER TITLE"

// New builds a minimal one-slide presentation carrying title and returns
// the .pptx package bytes. The package is meant to be restyled with
// ApplyTheme afterwards.
func New(title string) ([]byte, error) {
	p := ppt.New()
	p.GetDocumentProperties().Title = title
	p.GetDocumentProperties().Creator = "themedeck"

	slide := p.GetActiveSlide()

	titleShape := slide.CreateRichTextShape()
	titleShape.SetOffsetX(titleLeft).SetOffsetY(titleTop)
	titleShape.SetWidth(titleWidth).SetHeight(titleHeight)
	tr := titleShape.CreateTextRun(title)
	tr.GetFont().SetSize(fontTitle).SetBold(true)
	titleShape.GetActiveParagraph().SetAlignment(ppt.NewAlignment().SetHorizontal(ppt.HorizontalCenter))

	w, err := ppt.NewWriter(p, ppt.WriterPowerPoint2007)
	if err != nil {
		return nil, fmt.Errorf("create pptx writer: %w", err)
	}

	var buf bytes.Buffer
	if err := w.(*ppt.PPTXWriter).WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write pptx: %w", err)
	}

	return buf.Bytes(), nil
}
