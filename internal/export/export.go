// Package export renders a task view as JSON, Markdown, CSV or PDF.
package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/nibzard/taskflow-go/internal/todo"
)

// Format names an export format.
type Format string

const (
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatCSV      Format = "csv"
	FormatPDF      Format = "pdf"
)

// ErrUnknownFormat is returned for unrecognized format names.
var ErrUnknownFormat = errors.New("unknown export format")

// Formats lists the supported formats.
func Formats() []Format {
	return []Format{FormatJSON, FormatMarkdown, FormatCSV, FormatPDF}
}

// ParseFormat parses a format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatMarkdown, "md":
		return FormatMarkdown, nil
	case FormatCSV:
		return FormatCSV, nil
	case FormatPDF:
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Extension returns the usual file extension for f.
func (f Format) Extension() string {
	if f == FormatMarkdown {
		return ".md"
	}
	return "." + string(f)
}

// Write renders the visible tasks of v to w.
func Write(w io.Writer, f Format, v todo.View) error {
	switch f {
	case FormatJSON:
		return writeJSON(w, v)
	case FormatMarkdown:
		return writeMarkdown(w, v)
	case FormatCSV:
		return writeCSV(w, v)
	case FormatPDF:
		return writePDF(w, v)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}

// writeJSON uses the storage layout, so an export can be loaded back.
func writeJSON(w io.Writer, v todo.View) error {
	tasks := v.VisibleTasks
	if tasks == nil {
		tasks = []todo.Task{}
	}
	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal tasks: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

func writeMarkdown(w io.Writer, v todo.View) error {
	var b strings.Builder
	b.WriteString("# TaskFlow\n\n")
	fmt.Fprintf(&b, "Filter: %s, %s\n\n", v.Filter.Label(), v.RemainingLabel())
	if len(v.VisibleTasks) == 0 {
		b.WriteString("_No tasks here yet_\n")
	}
	for _, t := range v.VisibleTasks {
		check := " "
		if t.Completed {
			check = "x"
		}
		fmt.Fprintf(&b, "- [%s] %s\n", check, markdownEscape(t.Title))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"[", `\[`,
	"]", `\]`,
	"\n", " ",
)

func markdownEscape(s string) string {
	return markdownEscaper.Replace(s)
}

func writeCSV(w io.Writer, v todo.View) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "todo", "isCompleted"}); err != nil {
		return err
	}
	for _, t := range v.VisibleTasks {
		if err := cw.Write([]string{t.ID, t.Title, strconv.FormatBool(t.Completed)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writePDF(w io.Writer, v todo.View) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("TaskFlow", true)
	pdf.SetCreator("taskflow", true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "TaskFlow")
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(100, 100, 100)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Filter: %s, %s", v.Filter.Label(), v.RemainingLabel())))
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 11)
	if len(v.VisibleTasks) == 0 {
		pdf.Cell(0, 7, "No tasks here yet")
		pdf.Ln(7)
	}
	for _, t := range v.VisibleTasks {
		check := "[ ]"
		pdf.SetTextColor(0, 0, 0)
		if t.Completed {
			check = "[x]"
			pdf.SetTextColor(128, 128, 128)
		}
		pdf.MultiCell(0, 7, tr(check+" "+t.Title), "0", "L", false)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}
