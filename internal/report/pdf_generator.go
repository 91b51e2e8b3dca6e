package report

import (
	"bytes"
	"fmt"
	"image"
	_ "image/png"
	"io"
	"log"
	"math"
	"strconv"

	"github.com/jung-kurt/gofpdf"

	"github.com/user/te_viewer_go/internal/analysis"
	"github.com/user/te_viewer_go/internal/parser"
)

const (
	inchToMm               = 25.4
	pdfPageWidthLandscape  = 11 * inchToMm // Letter landscape
	pdfPageHeightLandscape = 8.5 * inchToMm
	pdfMargin              = 0.5 * inchToMm
	pdfContentWidth        = pdfPageWidthLandscape - (2 * pdfMargin)

	// maxPDFPreviewColumns caps the preview table width; wider tables are truncated.
	maxPDFPreviewColumns = 10
)

// ReportInput is everything BuildPDFReport puts on paper.
type ReportInput struct {
	Key         string
	Table       *parser.Table
	PreviewRows int
	Summary     *analysis.TableSummary
	Chart       *Chart
	LinePlot    []byte // PNG
	Heatmap     []byte // PNG, optional
}

// pdfStyler holds reusable styling and the flowing Y position.
type pdfStyler struct {
	pdf         *gofpdf.Fpdf
	styles      map[string]func()
	lineHeight  float64
	currentY    float64
	pageBottom  float64
	contentTopY float64
}

func newPDFStyler(pdf *gofpdf.Fpdf) *pdfStyler {
	s := &pdfStyler{
		pdf:         pdf,
		styles:      make(map[string]func()),
		lineHeight:  6,
		pageBottom:  pdfPageHeightLandscape - pdfMargin,
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
	s.styles["tableHeader"] = func() {
		s.pdf.SetFont("Arial", "B", 9)
		s.pdf.SetFillColor(200, 200, 200)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["tableCell"] = func() {
		s.pdf.SetFont("Arial", "", 9)
		s.pdf.SetTextColor(50, 50, 50)
	}
	s.styles["tableCellRed"] = func() {
		s.pdf.SetFont("Arial", "B", 9)
		s.pdf.SetTextColor(200, 0, 0)
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
	if s.currentY+neededHeight > s.pageBottom {
		s.newPage()
	}
}

func (s *pdfStyler) writeParagraph(text string, styleName string, align string) {
	s.applyStyle(styleName)
	lines := s.pdf.SplitLines([]byte(text), pdfContentWidth)
	s.checkAddPage(float64(len(lines)) * s.lineHeight)

	s.pdf.SetXY(pdfMargin, s.currentY)
	s.pdf.MultiCell(pdfContentWidth, s.lineHeight, text, "", align, false)
	s.currentY = s.pdf.GetY() + 1
}

func (s *pdfStyler) addSpacer(height float64) {
	s.checkAddPage(height)
	s.currentY += height
}

// writeTable draws a bordered table; widthsRel are fractions of the content width.
// red marks cells to print in the highlight style.
func (s *pdfStyler) writeTable(headers []string, widthsRel []float64, rows [][]string, red func(row, col int) bool) {
	widths := make([]float64, len(widthsRel))
	for i, rel := range widthsRel {
		widths[i] = rel * pdfContentWidth
	}

	writeHeader := func() {
		s.applyStyle("tableHeader")
		x := pdfMargin
		for i, h := range headers {
			s.pdf.SetXY(x, s.currentY)
			s.pdf.CellFormat(widths[i], s.lineHeight, h, "1", 0, "C", true, 0, "")
			x += widths[i]
		}
		s.currentY += s.lineHeight
	}

	s.checkAddPage(s.lineHeight * 2)
	writeHeader()
	for r, row := range rows {
		if s.currentY+s.lineHeight > s.pageBottom {
			s.newPage()
			writeHeader()
		}
		x := pdfMargin
		for c, cell := range row {
			if red != nil && red(r, c) {
				s.applyStyle("tableCellRed")
			} else {
				s.applyStyle("tableCell")
			}
			s.pdf.SetXY(x, s.currentY)
			s.pdf.CellFormat(widths[c], s.lineHeight, cell, "1", 0, "C", false, 0, "")
			x += widths[c]
		}
		s.currentY += s.lineHeight
	}
}

// addImage places a PNG at the given width, keeping the image's own aspect ratio.
func (s *pdfStyler) addImage(imageBytes []byte, imageName string, width float64, caption string) {
	height := width / 2
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(imageBytes)); err == nil && cfg.Width > 0 {
		height = width * float64(cfg.Height) / float64(cfg.Width)
	} else {
		log.Printf("Warning: could not read size of image %s, assuming 2:1", imageName)
	}
	if width > pdfContentWidth {
		height *= pdfContentWidth / width
		width = pdfContentWidth
	}

	captionHeight := 0.0
	if caption != "" {
		captionHeight = s.lineHeight + 1
	}
	s.checkAddPage(height + captionHeight)

	s.pdf.RegisterImageReader(imageName, "PNG", bytes.NewReader(imageBytes))
	x := pdfMargin + (pdfContentWidth-width)/2
	s.pdf.Image(imageName, x, s.currentY, width, height, false, "PNG", 0, "")
	s.currentY += height

	if caption != "" {
		s.addSpacer(1)
		s.writeParagraph(caption, "normal", "C")
	}
	s.addSpacer(2)
}

func formatCell(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'f', 4, 64)
}

func (s *pdfStyler) writePreview(t *parser.Table, rows int) {
	if rows <= 0 {
		rows = DefaultPreviewRows
	}
	nrow, ncol := t.Shape()
	s.writeParagraph(fmt.Sprintf("Data Preview (first %d of %d rows)", int(math.Min(float64(rows), float64(nrow))), nrow), "h2", "L")
	if t.Empty() {
		s.writeParagraph("The table has no data.", "normal", "L")
		return
	}

	shown := ncol
	if shown > maxPDFPreviewColumns {
		shown = maxPDFPreviewColumns
	}
	headers := append([]string{"#"}, t.Columns()[:shown]...)
	widths := make([]float64, len(headers))
	for i := range widths {
		widths[i] = 1 / float64(len(headers))
	}

	head := t.Head(rows)
	cells := make([][]string, 0, head.Nrow())
	for r := 0; r < head.Nrow(); r++ {
		row := head.Row(r)
		line := []string{strconv.Itoa(r)}
		for c := 0; c < shown; c++ {
			line = append(line, formatCell(row[c]))
		}
		cells = append(cells, line)
	}
	s.writeTable(headers, widths, cells, nil)
	if shown < ncol {
		s.addSpacer(1)
		s.writeParagraph(fmt.Sprintf("%d more columns not shown.", ncol-shown), "normal", "L")
	}
}

func (s *pdfStyler) writeStatistics(summary *analysis.TableSummary, ch *Chart) {
	s.writeParagraph("Column Statistics", "h2", "L")
	if summary == nil || len(summary.Columns) == 0 {
		s.writeParagraph("No column statistics available.", "normal", "L")
		return
	}

	clipped := make(map[string]int)
	if ch != nil && ch.Clean != nil {
		for _, b := range ch.Clean.Bounds {
			clipped[b.Column] = b.Clipped
		}
	}

	headers := []string{"Column", "Count", "Missing", "Mean", "Std Dev", "Min", "Max", "Clipped"}
	widths := []float64{0.14, 0.1, 0.1, 0.14, 0.14, 0.14, 0.14, 0.1}
	rows := make([][]string, 0, len(summary.Columns))
	for _, c := range summary.Columns {
		rows = append(rows, []string{
			c.Name,
			strconv.Itoa(c.Count),
			strconv.Itoa(c.Missing),
			formatCell(c.Mean),
			formatCell(c.StdDev),
			formatCell(c.Min),
			formatCell(c.Max),
			strconv.Itoa(clipped[c.Name]),
		})
	}
	s.writeTable(headers, widths, rows, func(r, col int) bool {
		return (col == 2 && rows[r][2] != "0") || (col == 7 && rows[r][7] != "0")
	})
	for _, e := range summary.AnalysisErrors {
		s.writeParagraph("- "+e, "normal", "L")
	}
}

func buildPDF(in ReportInput) (*gofpdf.Fpdf, error) {
	if in.Table == nil {
		return nil, fmt.Errorf("no table to report on")
	}
	pdf := gofpdf.New("L", "mm", "Letter", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, pdfMargin)
	pdf.AddPage()

	styler := newPDFStyler(pdf)
	nrow, ncol := in.Table.Shape()
	styler.writeParagraph(fmt.Sprintf("Dataset Report - %s", in.Key), "h1", "C")
	styler.addSpacer(5)
	styler.writeParagraph(fmt.Sprintf("Shape: (%d, %d)", nrow, ncol), "normal", "L")
	if in.Chart != nil {
		for _, w := range in.Chart.Warnings {
			styler.writeParagraph(w, "normal", "L")
		}
		if in.Chart.Clean != nil {
			styler.writeParagraph(fmt.Sprintf("Missing values filled: %d", in.Chart.Clean.Filled), "normal", "L")
		}
	}
	styler.addSpacer(5)

	styler.writePreview(in.Table, in.PreviewRows)
	styler.addSpacer(5)
	styler.writeStatistics(in.Summary, in.Chart)

	if len(in.LinePlot) > 0 || len(in.Heatmap) > 0 {
		styler.newPage()
		styler.writeParagraph("Graphical Analysis", "h1", "C")
		styler.addSpacer(5)
	}
	if len(in.LinePlot) > 0 {
		styler.addImage(in.LinePlot, "line_plot", pdfContentWidth*0.9, fmt.Sprintf("Cleaned variables of %s", in.Key))
	}
	if len(in.Heatmap) > 0 {
		styler.newPage()
		styler.addImage(in.Heatmap, "heatmap", pdfContentWidth*0.9, "Per-column standardized values (z-score)")
	}

	if pdf.Err() {
		return nil, fmt.Errorf("failed to build PDF: %w", pdf.Error())
	}
	return pdf, nil
}

// WritePDFReport renders the report to w.
func WritePDFReport(w io.Writer, in ReportInput) error {
	pdf, err := buildPDF(in)
	if err != nil {
		return err
	}
	return pdf.Output(w)
}

// BuildPDFReport renders the report to a file.
func BuildPDFReport(filepath string, in ReportInput) error {
	pdf, err := buildPDF(in)
	if err != nil {
		return err
	}
	return pdf.OutputFileAndClose(filepath)
}
