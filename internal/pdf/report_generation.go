package pdf

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"

	"fieldops/internal/models"
)

// Generator — интерфейс (удобно мокать в тестах)
type Generator interface {
	GeneratePerformanceReport(period string, rows []models.RepPerformance) (string, error)
}

// ReportGenerator renders tabular reports into the files root.
type ReportGenerator struct {
	RootDir  string // корень хранения, например "./files"
	fontName string
}

func NewReportGenerator(rootDir string) *ReportGenerator {
	return &ReportGenerator{
		RootDir:  filepath.Clean(rootDir),
		fontName: "Helvetica",
	}
}

// GeneratePerformanceReport пишет PDF-сводку по репам за период и
// возвращает имя файла.
func (g *ReportGenerator) GeneratePerformanceReport(period string, rows []models.RepPerformance) (string, error) {
	filename := fmt.Sprintf("performance_%s.pdf", period)
	absPath, err := g.ensureTarget(filename)
	if err != nil {
		return "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Sales performance %s", period), false)
	pdf.SetAuthor("FieldOps", false)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	pdf.SetFont(g.fontName, "B", 18)
	pdf.CellFormat(0, 10, "SALES PERFORMANCE", "", 1, "C", false, 0, "")

	pdf.SetFont(g.fontName, "", 12)
	pdf.CellFormat(0, 7, fmt.Sprintf("Period: %s", period), "", 1, "C", false, 0, "")
	g.hr(pdf)
	pdf.Ln(3)

	// таблица
	widths := []float64{60, 30, 30, 25, 25}
	headers := []string{"Rep", "Target", "Total", "Sales", "Attain."}

	pdf.SetFont(g.fontName, "B", 11)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont(g.fontName, "", 11)
	for _, p := range rows {
		attain := "-"
		if p.Target > 0 {
			attain = fmt.Sprintf("%.0f%%", p.Attainment*100)
		}
		cells := []string{
			p.RepName,
			fmt.Sprintf("%.2f", p.Target),
			fmt.Sprintf("%.2f", p.Total),
			fmt.Sprintf("%d", p.SalesCount),
			attain,
		}
		for i, c := range cells {
			pdf.CellFormat(widths[i], 7, c, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	// нумерация страниц
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(g.fontName, "", 10)
		pdf.CellFormat(0, 10,
			fmt.Sprintf("Page %d/{nb}", pdf.PageNo()),
			"", 0, "C", false, 0, "",
		)
	})

	if err := pdf.OutputFileAndClose(absPath); err != nil {
		return "", err
	}
	return absPath, nil
}

func (g *ReportGenerator) hr(pdf *gofpdf.Fpdf) {
	y := pdf.GetY() + 1.5
	pdf.SetLineWidth(0.2)
	pdf.Line(20, y, 190, y)
	pdf.SetY(y + 2)
}

func (g *ReportGenerator) ensureTarget(filename string) (string, error) {
	if err := os.MkdirAll(g.RootDir, 0o755); err != nil {
		return "", fmt.Errorf("create files dir: %w", err)
	}
	filename = filepath.Base(filename) // безопасность
	return filepath.Join(g.RootDir, filename), nil
}
