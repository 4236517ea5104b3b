package report

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/caiobertoldo/living-portfolio/internal/github"
	"github.com/caiobertoldo/living-portfolio/internal/portfolio"
	"github.com/caiobertoldo/living-portfolio/internal/settings"
)

const (
	pageMargin = 20.0
	lineHeight = 6.0
	fontFamily = "Helvetica"
)

// Document is the data printed in the PDF report
type Document struct {
	Profile     *github.User
	Languages   portfolio.LanguageStats
	Featured    []portfolio.FeaturedProject
	GeneratedAt time.Time
}

// PDFFilename returns the download name for account's report on day now
func PDFFilename(account string, now time.Time) string {
	return fmt.Sprintf("portfolio_%s_%s.pdf", account, now.Format("20060102"))
}

// RenderPDF lays the document out on A4 pages and returns the encoded PDF.
func RenderPDF(doc Document) ([]byte, error) {
	if doc.Profile == nil {
		return nil, fmt.Errorf("render pdf: profile is required")
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	// core fonts are cp1252; translate so accented names survive
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	name := displayName(doc.Profile)
	pdf.SetTitle("Portfolio - "+name, true)
	pdf.SetAuthor(doc.Profile.Login, true)
	pdf.SetCreator("living-portfolio", true)

	pdf.AddPage()

	brand := hexColor(settings.DefaultTheme.Primary)

	// Title
	pdf.SetFont(fontFamily, "B", 24)
	pdf.SetTextColor(brand.r, brand.g, brand.b)
	pdf.CellFormat(0, 14, tr("Portfolio - "+name), "", 1, "C", false, 0, "")
	pdf.Ln(8)

	heading := func(text string) {
		pdf.Ln(4)
		pdf.SetFont(fontFamily, "B", 16)
		pdf.SetTextColor(brand.r, brand.g, brand.b)
		pdf.CellFormat(0, 10, tr(text), "", 1, "L", false, 0, "")
		pdf.Ln(2)
	}

	// Profile facts
	heading("GitHub Profile")
	facts := [][2]string{
		{"Name:", orNA(doc.Profile.Name)},
		{"Username:", orNA(doc.Profile.Login)},
		{"Bio:", orNA(doc.Profile.Bio)},
		{"Repositories:", strconv.Itoa(doc.Profile.PublicRepos)},
		{"Followers:", strconv.Itoa(doc.Profile.Followers)},
		{"Location:", orNA(doc.Profile.Location)},
	}
	pdf.SetDrawColor(128, 128, 128)
	for _, row := range facts {
		factRow(pdf, tr, row[0], row[1])
	}
	pdf.Ln(6)

	// Languages
	if len(doc.Languages) > 0 {
		heading("Top Languages")

		pdf.SetFont(fontFamily, "B", 10)
		pdf.SetFillColor(brand.r, brand.g, brand.b)
		pdf.SetTextColor(245, 245, 245)
		pdf.CellFormat(75, 8, "Language", "1", 0, "L", true, 0, "")
		pdf.CellFormat(50, 8, "Usage (%)", "1", 1, "L", true, 0, "")

		pdf.SetFont(fontFamily, "", 10)
		pdf.SetTextColor(0, 0, 0)
		for _, share := range doc.Languages {
			pdf.CellFormat(75, 8, tr(share.Name), "1", 0, "L", false, 0, "")
			pdf.CellFormat(50, 8, fmt.Sprintf("%.1f%%", share.Percentage), "1", 1, "L", false, 0, "")
		}
		pdf.Ln(6)
	}

	// Featured projects
	heading("Featured Projects")
	pdf.SetTextColor(0, 0, 0)
	featured := doc.Featured
	if len(featured) > portfolio.MaxFeatured {
		featured = featured[:portfolio.MaxFeatured]
	}
	for i, p := range featured {
		pdf.SetFont(fontFamily, "B", 11)
		pdf.MultiCell(0, lineHeight, tr(fmt.Sprintf("%d. %s", i+1, p.Name)), "", "L", false)
		pdf.SetFont(fontFamily, "", 10)
		pdf.MultiCell(0, lineHeight, tr("Description: "+p.Description), "", "L", false)
		pdf.MultiCell(0, lineHeight, tr(fmt.Sprintf("Language: %s | Stars: %d", p.Language, p.Stars)), "", "L", false)
		pdf.MultiCell(0, lineHeight, tr("Updated: "+p.UpdatedAt), "", "L", false)
		pdf.Ln(4)
	}
	if len(featured) == 0 {
		pdf.SetFont(fontFamily, "I", 10)
		pdf.MultiCell(0, lineHeight, "No projects to show.", "", "L", false)
	}

	// Footer
	pdf.Ln(12)
	pdf.SetFont(fontFamily, "", 8)
	pdf.SetTextColor(128, 128, 128)
	pdf.CellFormat(0, 5, "Generated automatically on "+doc.GeneratedAt.Format("02/01/2006 15:04"), "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// factRow draws a bold shaded label cell next to a wrapping value cell.
func factRow(pdf *fpdf.Fpdf, tr func(string) string, label, value string) {
	const labelW, valueW = 50.0, 110.0

	pdf.SetFont(fontFamily, "", 10)
	lines := pdf.SplitLines([]byte(tr(value)), valueW-2)
	height := lineHeight * float64(max(len(lines), 1))
	height += 2

	if _, pageH := pdf.GetPageSize(); pdf.GetY()+height > pageH-pageMargin {
		pdf.AddPage()
	}

	pdf.SetFont(fontFamily, "B", 10)
	pdf.SetFillColor(229, 231, 235)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(labelW, height, tr(label), "1", 0, "L", true, 0, "")

	pdf.SetFont(fontFamily, "", 10)
	x, y := pdf.GetXY()
	pdf.Rect(x, y, valueW, height, "D")
	pdf.SetXY(x+1, y+1)
	pdf.MultiCell(valueW-2, lineHeight, tr(value), "", "L", false)
	pdf.SetXY(pageMargin, y+height)
}

func displayName(u *github.User) string {
	switch {
	case u.Name != "":
		return u.Name
	case u.Login != "":
		return u.Login
	default:
		return "Developer"
	}
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

type rgb struct{ r, g, b int }

// hexColor parses #RRGGBB; anything else yields black.
func hexColor(hex string) rgb {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return rgb{}
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return rgb{}
	}
	return rgb{r: int(v >> 16 & 0xFF), g: int(v >> 8 & 0xFF), b: int(v & 0xFF)}
}
