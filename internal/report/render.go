package report

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/yuin/goldmark"
)

var md = goldmark.New()

const htmlShell = `<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { font-family: sans-serif; max-width: 48rem; margin: 2rem auto; padding: 0 1rem; color: #222; }
h1 { border-bottom: 2px solid #ddd; padding-bottom: .3rem; }
blockquote { color: #555; border-left: 3px solid #ddd; margin-left: 0; padding-left: 1rem; }
a { color: #0969da; }
</style>
</head>
<body>
%s</body>
</html>
`

// renderHTML converts report markdown to a standalone HTML page.
func renderHTML(markdown, title string) ([]byte, error) {
	var body bytes.Buffer
	if err := md.Convert([]byte(markdown), &body); err != nil {
		return nil, err
	}
	return []byte(fmt.Sprintf(htmlShell, title, body.String())), nil
}

var linkPattern = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)

// renderPDF converts report markdown to a simple line-oriented PDF: heading
// levels map to font sizes, links flatten to "title (url)". Good enough for
// a chat attachment; the HTML artifact is the pretty one.
func renderPDF(markdown, title string) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	// Core fonts are cp1252 only; translate what we can, drop the rest.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for _, line := range strings.Split(markdown, "\n") {
		line = linkPattern.ReplaceAllString(line, "$1 ($2)")

		switch {
		case strings.HasPrefix(line, "# "):
			pdf.SetFont("Helvetica", "B", 16)
			pdf.MultiCell(0, 8, tr(strings.TrimPrefix(line, "# ")), "", "L", false)
			pdf.Ln(2)
		case strings.HasPrefix(line, "## "):
			pdf.SetFont("Helvetica", "B", 13)
			pdf.MultiCell(0, 7, tr(strings.TrimPrefix(line, "## ")), "", "L", false)
			pdf.Ln(1)
		case strings.HasPrefix(line, "### "):
			pdf.SetFont("Helvetica", "B", 11)
			pdf.MultiCell(0, 6, tr(strings.TrimPrefix(line, "### ")), "", "L", false)
		case strings.TrimSpace(line) == "":
			pdf.Ln(2)
		default:
			pdf.SetFont("Helvetica", "", 9)
			pdf.MultiCell(0, 5, tr(line), "", "L", false)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("generating PDF: %w", err)
	}
	return buf.Bytes(), nil
}
