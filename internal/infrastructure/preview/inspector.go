// Package preview validates reference-data payloads locally before any
// bytes are sent to the backend, and produces the short summary shown
// next to upload confirmations.
package preview

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/kirillkom/strive-toolkit-cli/internal/core/domain"
)

const maxPreviewRows = 5

type Inspector struct{}

func NewInspector() *Inspector {
	return &Inspector{}
}

func (i *Inspector) Inspect(filename string, content []byte) (domain.PayloadPreview, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return previewCSV(content)
	case ".xlsx":
		return previewXLSX(content)
	case ".txt":
		return previewText(filename, content)
	default:
		return domain.PayloadPreview{}, domain.WrapError(domain.ErrInvalidInput, "inspect payload",
			fmt.Errorf("unsupported file type %q", filepath.Ext(filename)))
	}
}

func previewCSV(content []byte) (domain.PayloadPreview, error) {
	reader := csv.NewReader(bytes.NewReader(content))
	reader.FieldsPerRecord = -1

	out := domain.PayloadPreview{Kind: "spreadsheet"}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return domain.PayloadPreview{}, domain.WrapError(domain.ErrInvalidInput, "parse csv", err)
		}
		if out.Header == nil {
			out.Header = record
			continue
		}
		if len(out.Rows) < maxPreviewRows {
			out.Rows = append(out.Rows, record)
		}
		out.RowCount++
	}
	if out.Header == nil {
		return domain.PayloadPreview{}, domain.WrapError(domain.ErrInvalidInput, "parse csv", fmt.Errorf("file is empty"))
	}
	return out, nil
}

func previewXLSX(content []byte) (domain.PayloadPreview, error) {
	book, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return domain.PayloadPreview{}, domain.WrapError(domain.ErrInvalidInput, "open workbook", err)
	}
	defer book.Close()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return domain.PayloadPreview{}, domain.WrapError(domain.ErrInvalidInput, "open workbook", fmt.Errorf("workbook has no sheets"))
	}
	rows, err := book.GetRows(sheets[0])
	if err != nil {
		return domain.PayloadPreview{}, domain.WrapError(domain.ErrInvalidInput, "read sheet", err)
	}
	if len(rows) == 0 {
		return domain.PayloadPreview{}, domain.WrapError(domain.ErrInvalidInput, "read sheet", fmt.Errorf("sheet %q is empty", sheets[0]))
	}

	out := domain.PayloadPreview{Kind: "spreadsheet", Header: rows[0], RowCount: len(rows) - 1}
	for _, row := range rows[1:] {
		if len(out.Rows) == maxPreviewRows {
			break
		}
		out.Rows = append(out.Rows, row)
	}
	return out, nil
}

func previewText(filename string, content []byte) (domain.PayloadPreview, error) {
	if !utf8.Valid(content) {
		return domain.PayloadPreview{}, domain.WrapError(domain.ErrInvalidInput, "inspect payload",
			fmt.Errorf("%s is not valid UTF-8 text", filename))
	}
	text := strings.TrimSpace(string(content))
	if text == "" {
		return domain.PayloadPreview{}, domain.WrapError(domain.ErrInvalidInput, "inspect payload",
			fmt.Errorf("%s is empty", filename))
	}
	return domain.PayloadPreview{Kind: "text", TextLength: utf8.RuneCountInString(text)}, nil
}
