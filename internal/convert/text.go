// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/jung-kurt/gofpdf"

	"github.com/pdiddy/docmerge/pkg/types"
)

// maxLineBytes caps a single input line. Longer lines fail the file.
const maxLineBytes = 1 << 20

const utf8BOM = "\ufeff"

// Layout is the text page geometry, in millimetres on A4 portrait.
type Layout struct {
	// Margin insets the bordered box from the page edges.
	Margin float64
	// HeaderHeight is the height of the file-name line on the first page.
	HeaderHeight float64
	// Padding separates the box border from the text.
	Padding float64
	// LineHeight is the cursor advance per rendered line.
	LineHeight float64
	// BottomLimit is the distance from the page bottom past which the next
	// input line starts a new page.
	BottomLimit float64
	FontFamily  string
	FontSize    float64
}

// DefaultLayout returns the standard layout: 10 mm margins, a Courier 10
// body and 5 mm lines.
func DefaultLayout() Layout {
	return Layout{
		Margin:       10,
		HeaderHeight: 10,
		Padding:      5,
		LineHeight:   5,
		BottomLimit:  20,
		FontFamily:   "Courier",
		FontSize:     10,
	}
}

// LayoutFromConfig returns DefaultLayout with the non-zero values of cfg
// applied.
func LayoutFromConfig(cfg types.TextConfig) Layout {
	l := DefaultLayout()
	if cfg.FontSize > 0 {
		l.FontSize = cfg.FontSize
	}
	if cfg.LineHeight > 0 {
		l.LineHeight = cfg.LineHeight
	}
	return l
}

// Text renders plain-text and markdown files line by line inside a
// bordered box, starting a new page when the cursor passes the bottom
// limit. Markdown is not interpreted.
type Text struct {
	Layout Layout
}

func (t Text) Convert(ctx context.Context, src types.SourceFile, outPath string) error {
	f, err := os.Open(src.Path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src.Name, err)
	}
	defer f.Close()

	p, err := paginate(ctx, t.Layout, src.Name, f)
	if err != nil {
		return fmt.Errorf("paginating %s: %w", src.Name, err)
	}
	if err := p.pdf.OutputFileAndClose(outPath); err != nil {
		os.Remove(outPath)
		return fmt.Errorf("writing %s: %w", outPath, err)
	}
	return nil
}

// frame is the bordered content box drawn on one page.
type frame struct {
	X, Y, W, H float64
}

type paginator struct {
	pdf    *gofpdf.Fpdf
	layout Layout
	title  string
	tr     func(string) string
	frames []frame
}

func newPaginator(layout Layout, title string) *paginator {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(layout.Margin, layout.Margin, layout.Margin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(title, true)

	p := &paginator{
		pdf:    pdf,
		layout: layout,
		title:  title,
		tr:     pdf.UnicodeTranslatorFromDescriptor(""),
	}
	pdf.SetHeaderFuncMode(p.decorate, false)
	return p
}

// paginate reads r as UTF-8 and lays every line out. The page-break check
// runs once per input line, so a line that wraps past the bottom of the
// box is finished on the same page.
func paginate(ctx context.Context, layout Layout, title string, r io.Reader) (*paginator, error) {
	p := newPaginator(layout, title)
	p.pdf.AddPage()

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for n := 1; sc.Scan(); n++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := sc.Text()
		if n == 1 {
			line = strings.TrimPrefix(line, utf8BOM)
		}
		if !utf8.ValidString(line) {
			return nil, fmt.Errorf("line %d: invalid UTF-8", n)
		}
		p.writeLine(strings.ReplaceAll(line, "\t", "    "))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading: %w", err)
	}
	if err := p.pdf.Error(); err != nil {
		return nil, err
	}
	return p, nil
}

// decorate runs at the start of every page. The first page carries the
// file name above the box.
func (p *paginator) decorate() {
	l := p.layout
	pageW, pageH := p.pdf.GetPageSize()

	top := l.Margin
	if p.pdf.PageNo() == 1 {
		p.pdf.SetFont("Helvetica", "B", 12)
		p.pdf.SetXY(l.Margin, l.Margin)
		p.pdf.CellFormat(pageW-2*l.Margin, l.HeaderHeight, p.tr("File: "+p.title), "", 0, "L", false, 0, "")
		top += l.HeaderHeight
	}

	fr := frame{X: l.Margin, Y: top, W: pageW - 2*l.Margin, H: pageH - l.Margin - top}
	p.pdf.Rect(fr.X, fr.Y, fr.W, fr.H, "D")
	p.frames = append(p.frames, fr)

	p.pdf.SetFont(l.FontFamily, "", l.FontSize)
	p.pdf.SetXY(fr.X+l.Padding, fr.Y+l.Padding)
}

func (p *paginator) writeLine(line string) {
	_, pageH := p.pdf.GetPageSize()
	if p.pdf.GetY() > pageH-p.layout.BottomLimit {
		p.pdf.AddPage()
	}
	fr := p.frames[len(p.frames)-1]
	p.pdf.SetX(fr.X + p.layout.Padding)
	p.pdf.MultiCell(fr.W-2*p.layout.Padding, p.layout.LineHeight, p.tr(line), "", "L", false)
}
