package formatter

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/fatih/color"
	"github.com/nano-lang/nnc/internal"
	tt "github.com/nano-lang/nnc/internal/types"
)

const tabWidth = 8

var (
	errorStyle   = color.New(color.FgRed, color.Bold)
	warningStyle = color.New(color.FgHiYellow, color.Bold)
	infoStyle    = color.New(color.FgHiCyan, color.Bold)
	kindStyle    = color.New(color.FgYellow, color.Bold)
	fileStyle    = color.New(color.FgCyan, color.Bold)
	lineStyle    = color.New(color.FgHiBlue, color.Bold)
	messageStyle = color.New(color.FgRed, color.Bold)
	textStyle    = color.New(color.FgGreen)
)

const diagnosticTemplate = `{{header .Kind .Severity .MaxLineNumWidth .Filename .StartLine .StartColumn}}
{{snippet .SnippetLines .StartLine .MaxLineNumWidth .Padding}}{{underlineAndMessage .Message .Padding .StartLine .EndLine .StartColumn .EndColumn .SnippetLines}}
`

var diagnosticTmpl = template.Must(template.New("diagnostic").Funcs(template.FuncMap{
	"header":              header,
	"snippet":             codeSnippet,
	"underlineAndMessage": underlineAndMessage,
}).Parse(diagnosticTemplate))

type DiagnosticData struct {
	Kind            string
	Severity        string
	Filename        string
	Padding         string
	StartLine       int
	StartColumn     int
	EndLine         int
	EndColumn       int
	MaxLineNumWidth int
	Message         string
	SnippetLines    []string
}

// GenerateFormattedDiagnostics renders diagnostics of one file, each with the
// offending source line underlined.
func GenerateFormattedDiagnostics(diags []tt.Diagnostic, snippet *internal.SourceCode) string {
	var builder strings.Builder
	for _, d := range diags {
		builder.WriteString(buildDiagnostic(d, snippet))
	}
	return builder.String()
}

func buildDiagnostic(d tt.Diagnostic, snippet *internal.SourceCode) string {
	maxLineNumWidth := calculateMaxLineNumWidth(d.Start.Line)

	var lines []string
	if snippet != nil {
		lines = snippet.Lines
	}
	data := DiagnosticData{
		Kind:            d.Kind,
		Severity:        d.Severity.String(),
		Filename:        d.Filename,
		Padding:         strings.Repeat(" ", maxLineNumWidth+1),
		StartLine:       d.Start.Line,
		StartColumn:     d.Start.Column,
		EndLine:         d.End.Line,
		EndColumn:       d.End.Column,
		MaxLineNumWidth: maxLineNumWidth,
		Message:         d.Message,
		SnippetLines:    lines,
	}

	var buf bytes.Buffer
	if err := diagnosticTmpl.Execute(&buf, data); err != nil {
		return fmt.Sprintf("Error formatting diagnostic: %v", err)
	}
	return buf.String()
}

// utils functions used in the text template

func header(kind string, severity string, maxLineNumWidth int, filename string, startLine int, startColumn int) string {
	var endString string
	switch severity {
	case "ERROR":
		endString = errorStyle.Sprint("error: ")
	case "WARNING":
		endString = warningStyle.Sprint("warning: ")
	case "INFO":
		endString = infoStyle.Sprint("info: ")
	}

	endString += kindStyle.Sprintf("%s\n", kind)

	padding := strings.Repeat(" ", maxLineNumWidth)
	endString += lineStyle.Sprintf("%s--> ", padding)
	if startLine > 0 {
		endString += fileStyle.Sprintf("%s:%d:%d", filename, startLine, startColumn)
	} else {
		endString += fileStyle.Sprint(filename)
	}
	return endString
}

func codeSnippet(snippetLines []string, line int, maxLineNumWidth int, padding string) string {
	if line < 1 || line > len(snippetLines) {
		return ""
	}
	lineNum := fmt.Sprintf("%*d", maxLineNumWidth, line)
	return lineStyle.Sprintf("%s|\n", padding) +
		lineStyle.Sprintf("%s | ", lineNum) + snippetLines[line-1] + "\n"
}

// underlineAndMessage marks [startColumn, endColumn) on the start line.
// A span reaching past the start line is underlined to the end of that line.
func underlineAndMessage(message string, padding string, startLine int, endLine int, startColumn int, endColumn int, snippetLines []string) string {
	if startLine < 1 || startLine > len(snippetLines) {
		return lineStyle.Sprintf("%s= ", padding) + messageStyle.Sprintf("%s\n", message)
	}

	line := snippetLines[startLine-1]
	underlineStart := calculateVisualColumn(line, startColumn)
	underlineEnd := calculateVisualColumn(line, endColumn)
	if endLine > startLine {
		underlineEnd = calculateVisualColumn(line, len([]rune(line))+1)
	}
	underlineLength := underlineEnd - underlineStart
	if underlineLength < 1 {
		underlineLength = 1
	}

	endString := lineStyle.Sprintf("%s| ", padding)
	endString += strings.Repeat(" ", underlineStart)
	endString += messageStyle.Sprintf("%s\n", strings.Repeat("~", underlineLength))
	endString += lineStyle.Sprintf("%s= ", padding)
	endString += messageStyle.Sprintf("%s\n", message)
	return endString
}

func calculateMaxLineNumWidth(line int) int {
	return len(fmt.Sprintf("%d", line))
}

// calculateVisualColumn calculates the visual column of a 1-based rune
// column in a string, taking into account tab characters.
func calculateVisualColumn(line string, column int) int {
	if column < 1 {
		return 0
	}
	visualColumn := 0
	i := 0
	for _, ch := range line {
		i++
		if i == column {
			break
		}
		if ch == '\t' {
			visualColumn += tabWidth - (visualColumn % tabWidth)
		} else {
			visualColumn++
		}
	}
	return visualColumn
}
