package report

import (
	"bytes"
	"fmt"
	"math"

	"github.com/jung-kurt/gofpdf"

	"github.com/user/dd_analyzer_go/internal/analysis"
)

const (
	inchToMm               = 25.4
	pdfPageWidthLandscape  = 11 * inchToMm // Letter landscape
	pdfPageHeightLandscape = 8.5 * inchToMm
	pdfMargin              = 0.5 * inchToMm
	pdfContentWidth        = pdfPageWidthLandscape - (2 * pdfMargin)
)

// ReportSummary is the run header and statistics shown in the PDF report.
type ReportSummary struct {
	Title      string
	Source     string
	Layout     string
	PlotType   string
	Metrics    string
	NumPatches int
	NumDeltas  int
	NumRecords int
	Components []analysis.ComponentSummary
	Warnings   []string
}

// NamedImage is a PNG figure with its caption.
type NamedImage struct {
	Key     string
	Caption string
	PNG     []byte
}

// pdfStyler holds reusable styling and state for PDF generation
type pdfStyler struct {
	pdf         *gofpdf.Fpdf
	styles      map[string]func()
	lineHeight  float64
	currentY    float64 // manually tracked Y for flowing content
	pageHeight  float64
	contentTopY float64
}

func newPDFStyler(pdf *gofpdf.Fpdf) *pdfStyler {
	s := &pdfStyler{
		pdf:         pdf,
		styles:      make(map[string]func()),
		lineHeight:  6, // mm
		pageHeight:  pdfPageHeightLandscape - pdfMargin,
		contentTopY: pdfMargin,
	}
	s.currentY = s.contentTopY
	s.defineStyles()
	return s
}

func (s *pdfStyler) defineStyles() {
	s.styles["h1"] = func() {
		s.pdf.SetFont("Arial", "B", 16)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["h2"] = func() {
		s.pdf.SetFont("Arial", "B", 14)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["normal"] = func() {
		s.pdf.SetFont("Arial", "", 10)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["warning"] = func() {
		s.pdf.SetFont("Arial", "", 9)
		s.pdf.SetTextColor(200, 0, 0)
	}
	s.styles["tableHeader"] = func() {
		s.pdf.SetFont("Arial", "B", 9)
		s.pdf.SetFillColor(200, 200, 200) // Light grey
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["tableCell"] = func() {
		s.pdf.SetFont("Arial", "", 9)
		s.pdf.SetTextColor(50, 50, 50)
	}
}

func (s *pdfStyler) applyStyle(styleName string) {
	if fn, ok := s.styles[styleName]; ok {
		fn()
	} else {
		s.styles["normal"]()
	}
}

func (s *pdfStyler) newPage() {
	s.pdf.AddPage()
	s.currentY = s.contentTopY
}

func (s *pdfStyler) checkAddPage(neededHeight float64) {
	if s.currentY+neededHeight > s.pageHeight {
		s.newPage()
	}
}

func (s *pdfStyler) writeParagraph(text string, styleName string, align string) {
	s.applyStyle(styleName)
	lines := s.pdf.SplitLines([]byte(text), pdfContentWidth)
	s.checkAddPage(float64(max(len(lines), 1)) * s.lineHeight)

	s.pdf.SetXY(pdfMargin, s.currentY)
	s.pdf.MultiCell(pdfContentWidth, s.lineHeight, text, "", align, false)
	s.currentY = s.pdf.GetY() + 1
}

func (s *pdfStyler) addSpacer(height float64) {
	s.checkAddPage(height)
	s.currentY += height
}

func (s *pdfStyler) addImage(imageBytes []byte, imageName string, width float64, caption string) {
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	info := s.pdf.RegisterImageOptionsReader(imageName, opts, bytes.NewReader(imageBytes))
	if info == nil || s.pdf.Err() {
		return
	}
	width = math.Min(width, pdfContentWidth)
	height := width * info.Height() / info.Width()
	if maxHeight := s.pageHeight - s.contentTopY - 2*s.lineHeight; height > maxHeight {
		width *= maxHeight / height
		height = maxHeight
	}

	captionHeight := 0.0
	if caption != "" {
		captionHeight = s.lineHeight + 1
	}
	s.checkAddPage(height + captionHeight)

	x := pdfMargin + (pdfContentWidth-width)/2
	s.pdf.ImageOptions(imageName, x, s.currentY, width, height, false, opts, 0, "")
	s.currentY += height

	if caption != "" {
		s.addSpacer(1)
		s.writeParagraph(caption, "normal", "C")
	}
	s.addSpacer(2)
}

func (s *pdfStyler) writeTable(headers []string, colWidthsRel []float64, rows [][]string) {
	colWidthsAbs := make([]float64, len(colWidthsRel))
	for i, rel := range colWidthsRel {
		colWidthsAbs[i] = rel * pdfContentWidth
	}
	writeHeader := func() {
		s.applyStyle("tableHeader")
		sX := pdfMargin
		for i, header := range headers {
			s.pdf.SetXY(sX, s.currentY)
			s.pdf.CellFormat(colWidthsAbs[i], s.lineHeight, header, "1", 0, "C", true, 0, "")
			sX += colWidthsAbs[i]
		}
		s.currentY += s.lineHeight
	}

	s.checkAddPage(2 * s.lineHeight)
	writeHeader()
	for _, row := range rows {
		if s.currentY+s.lineHeight > s.pageHeight {
			s.newPage()
			writeHeader()
		}
		s.applyStyle("tableCell")
		sX := pdfMargin
		for i, cellData := range row {
			s.pdf.SetXY(sX, s.currentY)
			s.pdf.CellFormat(colWidthsAbs[i], s.lineHeight, cellData, "1", 0, "C", false, 0, "")
			sX += colWidthsAbs[i]
		}
		s.currentY += s.lineHeight
	}
}

func formatStat(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return fmt.Sprintf("%.6g", v)
}

// BuildPDFReport writes the run header, the per-component statistics table,
// collected warnings and the given PNG figures to a PDF at filepath.
func BuildPDFReport(filepath string, summary *ReportSummary, plotImages []NamedImage) error {
	if summary == nil {
		return fmt.Errorf("no report summary to write")
	}

	pdf := gofpdf.New("L", "mm", "Letter", "") // Landscape, mm, Letter size
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, pdfMargin)
	pdf.AddPage()

	styler := newPDFStyler(pdf)

	title := summary.Title
	if title == "" {
		title = "Differential Algebra Dump Report"
	}
	styler.writeParagraph(title, "h1", "C")
	styler.addSpacer(5)
	styler.writeParagraph(fmt.Sprintf("Source: %s", summary.Source), "normal", "L")
	styler.writeParagraph(fmt.Sprintf("Layout: %s    Plot type: %s    Metrics: %s",
		summary.Layout, summary.PlotType, summary.Metrics), "normal", "L")
	styler.writeParagraph(fmt.Sprintf("Patches: %d    Deltas: %d    Records: %d",
		summary.NumPatches, summary.NumDeltas, summary.NumRecords), "normal", "L")
	styler.addSpacer(5)

	styler.writeParagraph("Component Statistics", "h2", "L")
	if len(summary.Components) > 0 {
		headers := []string{"Patch", "Component", "Count", "Mean", "Std Dev", "Min", "Max", "Range"}
		colWidthsRel := []float64{0.12, 0.12, 0.1, 0.14, 0.14, 0.13, 0.13, 0.12}
		rows := make([][]string, 0, len(summary.Components))
		for _, c := range summary.Components {
			patch := c.Patch
			if patch == "" {
				patch = "-"
			}
			rows = append(rows, []string{
				patch,
				c.Name,
				fmt.Sprintf("%d", c.Count),
				formatStat(c.Mean),
				formatStat(c.StdDev),
				formatStat(c.Min),
				formatStat(c.Max),
				formatStat(c.Range),
			})
		}
		styler.writeTable(headers, colWidthsRel, rows)
	} else {
		styler.writeParagraph("No components were extracted.", "normal", "L")
	}
	styler.addSpacer(5)

	styler.writeParagraph("Warnings", "h2", "L")
	if len(summary.Warnings) > 0 {
		for _, w := range summary.Warnings {
			styler.writeParagraph(w, "warning", "L")
		}
	} else {
		styler.writeParagraph("No warnings were reported.", "normal", "L")
	}

	if len(plotImages) > 0 {
		styler.newPage()
		styler.writeParagraph("Graphical Analysis", "h1", "C")
		styler.addSpacer(5)

		imgWidth := pdfContentWidth * 0.9
		for i, img := range plotImages {
			if i > 0 {
				styler.newPage()
			}
			if len(img.PNG) == 0 {
				styler.writeParagraph(fmt.Sprintf("Plot %s not available.", img.Key), "normal", "L")
				continue
			}
			styler.addImage(img.PNG, img.Key, imgWidth, img.Caption)
		}
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("failed to build pdf report: %w", err)
	}
	return pdf.OutputFileAndClose(filepath)
}
