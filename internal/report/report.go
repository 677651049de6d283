// Package report renders the downloadable weekly training report.
package report

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"regexp"
	"time"

	"efi_checklist/internal/model"

	"github.com/go-playground/locales/es"
)

//go:embed templates/report.html.tmpl
var templateFS embed.FS

var (
	reportTmpl = template.Must(
		template.New("report.html.tmpl").
			Funcs(template.FuncMap{"phaseClass": phaseClass}).
			ParseFS(templateFS, "templates/report.html.tmpl"),
	)
	catalog    = model.DefaultCatalog()
	spanish    = es.New()
	whitespace = regexp.MustCompile(`\s+`)
)

// ContentType of the rendered document.
const ContentType = "text/html; charset=utf-8"

type view struct {
	model.ReportData
	Year        int
	GeneratedAt string
}

// Render expands data into a self-contained HTML document.
// Free text (names, notes, task text) is escaped by html/template.
func Render(data *model.ReportData) ([]byte, error) {
	if data == nil {
		return nil, fmt.Errorf("report.Render: %w", model.ErrInvalidInput)
	}

	v := view{
		ReportData:  *data,
		Year:        data.Date.Year(),
		GeneratedAt: FormatDate(data.Date),
	}

	var buf bytes.Buffer
	if err := reportTmpl.Execute(&buf, v); err != nil {
		return nil, fmt.Errorf("report.Render: %w", err)
	}
	return buf.Bytes(), nil
}

// FileName is the download name, e.g. Reporte_EFI_Semana43_Ana_Perez.html.
func FileName(catalystName string, week int) string {
	return fmt.Sprintf("Reporte_EFI_Semana%d_%s.html", week, whitespace.ReplaceAllString(catalystName, "_"))
}

// FormatDate formats t as a full Spanish date followed by a short time.
func FormatDate(t time.Time) string {
	return spanish.FmtDateFull(t) + ", " + spanish.FmtTimeShort(t)
}

// phaseClass maps a phase's catalog color to its header class; green is the default style.
func phaseClass(phaseID string) string {
	switch catalog.PhaseColor(phaseID) {
	case "blue":
		return "phase-blue"
	case "orange":
		return "phase-orange"
	default:
		return ""
	}
}
