package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"strings"
	"testing"

	"github.com/nibzard/taskflow-go/internal/storage"
	"github.com/nibzard/taskflow-go/internal/todo"
)

const seeded = `[{"id":"a1","todo":"Buy *milk*","isCompleted":false},{"id":"b2","todo":"Café run","isCompleted":true}]`

func testView(t *testing.T, f todo.Filter) todo.View {
	t.Helper()
	s := todo.Open(storage.NewMemory(map[string]string{todo.StorageKey: seeded}))
	return s.SetFilter(f)
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"", FormatJSON, false},
		{"JSON", FormatJSON, false},
		{"md", FormatMarkdown, false},
		{"markdown", FormatMarkdown, false},
		{"csv", FormatCSV, false},
		{" pdf ", FormatPDF, false},
		{"docx", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrUnknownFormat) {
				t.Errorf("error %v is not ErrUnknownFormat", err)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestExtension(t *testing.T) {
	if FormatMarkdown.Extension() != ".md" || FormatPDF.Extension() != ".pdf" {
		t.Errorf("unexpected extensions %q %q", FormatMarkdown.Extension(), FormatPDF.Extension())
	}
}

func TestWriteJSONRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatJSON, testView(t, todo.FilterAll)); err != nil {
		t.Fatalf("Write: %v", err)
	}

	tasks, result := todo.Decode(buf.String())
	if !result.Valid {
		t.Fatalf("exported JSON does not decode: %v", result.Errors)
	}
	if len(tasks) != 2 || tasks[1].Title != "Café run" || !tasks[1].Completed {
		t.Errorf("decoded %+v", tasks)
	}
}

func TestWriteJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatJSON, todo.View{}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("got %q, want []", buf.String())
	}
}

func TestWriteMarkdown(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatMarkdown, testView(t, todo.FilterAll)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got := buf.String()
	for _, want := range []string{
		"# TaskFlow",
		"Filter: All, 1 task remaining",
		`- [ ] Buy \*milk\*`,
		"- [x] Café run",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("markdown missing %q:\n%s", want, got)
		}
	}
}

func TestWriteMarkdownRespectsFilter(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatMarkdown, testView(t, todo.FilterCompleted)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got := buf.String()
	if strings.Contains(got, "milk") {
		t.Errorf("active task exported under completed filter:\n%s", got)
	}
	if !strings.Contains(got, "Filter: Completed") {
		t.Errorf("filter label missing:\n%s", got)
	}
}

func TestWriteMarkdownEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatMarkdown, todo.View{Filter: todo.FilterAll}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !strings.Contains(buf.String(), "No tasks here yet") {
		t.Errorf("expected empty-state text, got %q", buf.String())
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatCSV, testView(t, todo.FilterAll)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("csv does not parse: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want header + 2", len(records))
	}
	if records[0][1] != "todo" || records[2][0] != "b2" || records[2][2] != "true" {
		t.Errorf("unexpected records %v", records)
	}
}

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatPDF, testView(t, todo.FilterAll)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Errorf("output is not a PDF: %q", buf.Bytes()[:min(16, buf.Len())])
	}
}

func TestWriteUnknownFormat(t *testing.T) {
	err := Write(&bytes.Buffer{}, Format("docx"), todo.View{})
	if !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Write = %v, want ErrUnknownFormat", err)
	}
}
