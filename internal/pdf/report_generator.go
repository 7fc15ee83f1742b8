package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// Generator is an interface so report handlers can be tested with a fake.
type Generator interface {
	GenerateCommunityDigest(data DigestData) (string, error)
}

// DigestData is one community's opportunity roll-up.
type DigestData struct {
	CommunityName string
	GeneratedAt   time.Time
	Rows          []DigestRow
	Filename      string // base name only; generated when empty
}

type DigestRow struct {
	Title      string
	State      string
	OwnerName  string
	Volunteers int
	CompleteBy *time.Time
}

type DocumentGenerator struct {
	RootDir  string // storage root, e.g. "./files"
	FontPath string // path to a TTF, e.g. "assets/fonts/DejaVuSans.ttf"
	fontName string
}

func NewDocumentGenerator(rootDir, fontPath string) *DocumentGenerator {
	return &DocumentGenerator{
		RootDir:  filepath.Clean(rootDir),
		FontPath: fontPath,
		fontName: "DejaVu",
	}
}

func (g *DocumentGenerator) GenerateCommunityDigest(data DigestData) (string, error) {
	filename := data.Filename
	if filename == "" {
		filename = fmt.Sprintf("digest_%s.pdf", data.GeneratedAt.Format("2006-01-02"))
	}
	absPath, err := g.ensureTarget(filename)
	if err != nil {
		return "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Opportunity digest: %s", data.CommunityName), false)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)

	g.addUTF8Font(pdf)
	pdf.AddPage()

	pdf.SetFont(g.fontName, "B", 18)
	pdf.CellFormat(0, 10, "OPPORTUNITY DIGEST", "", 1, "C", false, 0, "")

	pdf.SetFont(g.fontName, "", 12)
	sub := fmt.Sprintf("%s  /  %s", data.CommunityName, data.GeneratedAt.Format("02.01.2006"))
	pdf.CellFormat(0, 7, sub, "", 1, "C", false, 0, "")
	g.hr(pdf)
	pdf.Ln(3)

	g.sectionTitle(pdf, "Summary")
	g.kvLine(pdf, "Community", data.CommunityName)
	g.kvLine(pdf, "Opportunities", fmt.Sprintf("%d", len(data.Rows)))
	pdf.Ln(2)
	g.hr(pdf)

	g.sectionTitle(pdf, "Opportunities")
	for i, row := range data.Rows {
		pdf.SetFont(g.fontName, "B", 11)
		pdf.MultiCell(0, 6, fmt.Sprintf("%d. %s", i+1, row.Title), "", "L", false)

		pdf.SetFont(g.fontName, "", 11)
		due := "not set"
		if row.CompleteBy != nil {
			due = row.CompleteBy.Format("02.01.2006")
		}
		line := fmt.Sprintf("state: %s   owner: %s   applicants: %d   complete by: %s",
			row.State, row.OwnerName, row.Volunteers, due)
		pdf.MultiCell(0, 6, line, "", "L", false)
		pdf.Ln(1)
	}

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
	return "/" + filepath.ToSlash(filepath.Base(absPath)), nil
}

// ===== helpers =====

func (g *DocumentGenerator) sectionTitle(pdf *gofpdf.Fpdf, s string) {
	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 7, s, "", 1, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
}

func (g *DocumentGenerator) kvLine(pdf *gofpdf.Fpdf, key, val string) {
	pdf.SetFont(g.fontName, "B", 11)
	pdf.CellFormat(45, 6, key+":", "", 0, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, val, "", 1, "L", false, 0, "")
}

func (g *DocumentGenerator) hr(pdf *gofpdf.Fpdf) {
	y := pdf.GetY() + 1.5
	pdf.SetLineWidth(0.2)
	pdf.Line(20, y, 190, y)
	pdf.SetY(y + 2)
}

func (g *DocumentGenerator) ensureTarget(filename string) (string, error) {
	if err := os.MkdirAll(g.RootDir, 0o755); err != nil {
		return "", fmt.Errorf("create files dir: %w", err)
	}
	filename = filepath.Base(filename) // no path traversal
	return filepath.Join(g.RootDir, filename), nil
}

func (g *DocumentGenerator) addUTF8Font(pdf *gofpdf.Fpdf) {
	pdf.AddUTF8Font(g.fontName, "", g.FontPath)
	pdf.AddUTF8Font(g.fontName, "B", g.FontPath)
}
