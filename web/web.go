package web

import (
	"embed"
	"fmt"
	"html/template"

	"welfare-dashboard-go/report"
)

// DashboardTemplate is the template name passed to gin's c.HTML
const DashboardTemplate = "dashboard.html"

//go:embed templates
var templatesFS embed.FS

// LoadTemplates parses the embedded dashboard templates
func LoadTemplates() (*template.Template, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"number":  report.FormatNumber,
		"average": report.FormatAverage,
	}).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return tmpl, nil
}
