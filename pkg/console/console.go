package console

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// ErrorPosition represents a position in a validated file
type ErrorPosition struct {
	File   string
	Line   int
	Column int
	Width  int // number of highlighted columns, 1 when zero
}

// Diagnostic is a validation failure located in a source file
type Diagnostic struct {
	Position     ErrorPosition
	Type         string // "error", "warning", "info"
	Message      string
	Field        string   // dot path of the failing property
	Context      []string // source lines around the failure
	ContextStart int      // line number of Context[0]
	Hint         string
}

var (
	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF5555"))

	warningStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFB86C"))

	infoStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#8BE9FD"))

	filePathStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#BD93F9"))

	fieldStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F1FA8C"))

	lineNumberStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6272A4"))

	contextLineStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#F8F8F2"))

	highlightStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#FF5555")).
			Foreground(lipgloss.Color("#282A36"))

	hintStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("#50FA7B"))
)

// isTTY checks if stdout is a terminal
func isTTY() bool {
	return isatty.IsTerminal(os.Stdout.Fd())
}

// applyStyle conditionally applies styling based on TTY status
func applyStyle(style lipgloss.Style, text string) string {
	if isTTY() {
		return style.Render(text)
	}
	return text
}

// ToRelativePath converts an absolute path to a relative path from the current working directory
func ToRelativePath(path string) string {
	if !filepath.IsAbs(path) {
		return path
	}

	wd, err := os.Getwd()
	if err != nil {
		return path
	}

	relPath, err := filepath.Rel(wd, path)
	if err != nil {
		return path
	}

	return relPath
}

// ContextLines returns up to radius lines before and after line (1-based)
// together with the line number of the first returned line.
func ContextLines(source []byte, line, radius int) ([]string, int) {
	lines := strings.Split(strings.TrimRight(string(source), "\n"), "\n")
	if line < 1 || line > len(lines) {
		return nil, 0
	}

	start := max(1, line-radius)
	end := min(len(lines), line+radius)
	return lines[start-1 : end], start
}

// FormatError renders a Diagnostic in an IDE-parseable, compiler-like layout
func FormatError(d Diagnostic) string {
	var output strings.Builder

	var typeStyle lipgloss.Style
	var prefix string
	switch d.Type {
	case "warning":
		typeStyle = warningStyle
		prefix = "warning"
	case "info":
		typeStyle = infoStyle
		prefix = "info"
	default:
		typeStyle = errorStyle
		prefix = "error"
	}

	// file:line:column: type: message
	if d.Position.File != "" {
		location := ToRelativePath(d.Position.File) + ":"
		if d.Position.Line > 0 {
			location = fmt.Sprintf("%s:%d:%d:", ToRelativePath(d.Position.File), d.Position.Line, d.Position.Column)
		}
		output.WriteString(applyStyle(filePathStyle, location))
		output.WriteString(" ")
	}

	output.WriteString(applyStyle(typeStyle, prefix+":"))
	output.WriteString(" ")
	output.WriteString(d.Message)
	output.WriteString("\n")

	if d.Field != "" {
		output.WriteString(applyStyle(fieldStyle, "  --> "+d.Field))
		output.WriteString("\n")
	}

	if len(d.Context) > 0 && d.Position.Line > 0 {
		output.WriteString(renderContext(d))
	}

	if d.Hint != "" {
		output.WriteString("\n")
		output.WriteString(applyStyle(hintStyle, "hint: "))
		output.WriteString(d.Hint)
		output.WriteString("\n")
	}

	return output.String()
}

// renderContext renders source lines with line numbers and highlights the failing span
func renderContext(d Diagnostic) string {
	var output strings.Builder

	start := d.ContextStart
	if start < 1 {
		start = 1
	}
	lineNumWidth := len(fmt.Sprintf("%d", start+len(d.Context)-1))

	width := d.Position.Width
	if width < 1 {
		width = 1
	}

	for i, line := range d.Context {
		lineNum := start + i

		output.WriteString(applyStyle(lineNumberStyle, fmt.Sprintf("%*d", lineNumWidth, lineNum)))
		output.WriteString(" | ")

		col := d.Position.Column
		if lineNum == d.Position.Line && col > 0 && col <= len(line) {
			end := min(len(line), col-1+width)
			output.WriteString(applyStyle(contextLineStyle, line[:col-1]))
			output.WriteString(applyStyle(highlightStyle, line[col-1:end]))
			output.WriteString(applyStyle(contextLineStyle, line[end:]))
		} else {
			output.WriteString(applyStyle(contextLineStyle, line))
		}
		output.WriteString("\n")

		if lineNum == d.Position.Line && col > 0 {
			padding := strings.Repeat(" ", lineNumWidth+3+col-1)
			output.WriteString(padding)
			output.WriteString(applyStyle(errorStyle, strings.Repeat("^", width)))
			output.WriteString("\n")
		}
	}

	return output.String()
}

// FormatSuccessMessage formats a success message with styling
func FormatSuccessMessage(message string) string {
	successStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#50FA7B"))

	return applyStyle(successStyle, "✓ ") + message
}

// FormatInfoMessage formats an informational message
func FormatInfoMessage(message string) string {
	return applyStyle(infoStyle, "ℹ ") + message
}

// FormatWarningMessage formats a warning message
func FormatWarningMessage(message string) string {
	return applyStyle(warningStyle, "⚠ ") + message
}

// FormatErrorMessage formats a simple error message (for stderr output)
func FormatErrorMessage(message string) string {
	return applyStyle(errorStyle, "✗ ") + message
}

// FormatLocationMessage formats a file/directory location message
func FormatLocationMessage(message string) string {
	locationStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FFB86C"))

	return applyStyle(locationStyle, "📁 ") + message
}

// FormatProgressMessage formats a progress/activity message
func FormatProgressMessage(message string) string {
	progressStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#F1FA8C"))

	return applyStyle(progressStyle, "🔨 ") + message
}

// FormatCountMessage formats a count/numeric status message
func FormatCountMessage(message string) string {
	countStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#8BE9FD"))

	return applyStyle(countStyle, "📊 ") + message
}

// FormatVerboseMessage formats verbose debugging output
func FormatVerboseMessage(message string) string {
	verboseStyle := lipgloss.NewStyle().
		Italic(true).
		Foreground(lipgloss.Color("#6272A4"))

	return applyStyle(verboseStyle, "🔍 ") + message
}
