package server

import (
	"embed"
	"html/template"

	"fjacquet/invoice-summaries/internal/report"
)

//go:embed templates/*.html
var templateFS embed.FS

var (
	uploadTemplate  = template.Must(template.ParseFS(templateFS, "templates/upload.html"))
	previewTemplate = template.Must(template.ParseFS(templateFS, "templates/preview.html"))
)

type uploadPage struct {
	Accept string
}

type previewPage struct {
	FileName string
	Header   []string
	Rows     [][]string
	Overview report.Overview
	// Encoded is the loaded table as base64 CSV, posted back to /generate
	Encoded string
}
