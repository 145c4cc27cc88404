package preview

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/kirillkom/strive-toolkit-cli/internal/core/domain"
)

func TestInspectCSV(t *testing.T) {
	content := []byte("Course Name,Duration Hours\nFront Desk Associate,120\nHousekeeping,80\n")
	got, err := NewInspector().Inspect("courses.csv", content)
	if err != nil {
		t.Fatalf("Inspect() error = %v", err)
	}
	if got.Kind != "spreadsheet" {
		t.Fatalf("Kind = %q", got.Kind)
	}
	if len(got.Header) != 2 || got.Header[0] != "Course Name" {
		t.Fatalf("unexpected header: %v", got.Header)
	}
	if got.RowCount != 2 || len(got.Rows) != 2 {
		t.Fatalf("RowCount = %d, Rows = %d", got.RowCount, len(got.Rows))
	}
}

func TestInspectXLSX(t *testing.T) {
	book := excelize.NewFile()
	sheet := book.GetSheetName(0)
	_ = book.SetSheetRow(sheet, "A1", &[]any{"Login ID", "Question Text", "Answer Status", "Obtained Marks"})
	_ = book.SetSheetRow(sheet, "A2", &[]any{"student@example.com", "What is check-in?", "Correct", 5})

	var buf bytes.Buffer
	if err := book.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}

	got, err := NewInspector().Inspect("assessment.xlsx", buf.Bytes())
	if err != nil {
		t.Fatalf("Inspect() error = %v", err)
	}
	if got.RowCount != 1 || got.Header[0] != "Login ID" {
		t.Fatalf("unexpected preview: %+v", got)
	}
}

func TestInspectGuidelinesText(t *testing.T) {
	got, err := NewInspector().Inspect("guidelines.txt", []byte("  Use four options per MCQ.\n"))
	if err != nil {
		t.Fatalf("Inspect() error = %v", err)
	}
	if got.Kind != "text" || got.TextLength == 0 {
		t.Fatalf("unexpected preview: %+v", got)
	}
}

func TestInspectRejections(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		content  []byte
	}{
		{"unknown extension", "notes.pdf", []byte("x")},
		{"binary guidelines", "guidelines.txt", []byte{0xff, 0xfe, 0x00}},
		{"empty csv", "courses.csv", nil},
		{"corrupt workbook", "courses.xlsx", []byte("not a zip")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewInspector().Inspect(tt.filename, tt.content)
			if !domain.IsKind(err, domain.ErrInvalidInput) {
				t.Fatalf("expected invalid input, got %v", err)
			}
		})
	}
}
