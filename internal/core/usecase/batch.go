package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"

	"github.com/kirillkom/strive-toolkit-cli/internal/core/domain"
	"github.com/kirillkom/strive-toolkit-cli/internal/core/ports"
)

// BatchEmailProcessor drives the personalized-learning batch: it validates
// an assessment results spreadsheet locally, ships it to the backend, and
// returns the delivery summary.
type BatchEmailProcessor struct {
	gateway   ports.BackendGateway
	inspector ports.PayloadInspector
	logger    *slog.Logger
}

func NewBatchEmailProcessor(gateway ports.BackendGateway, inspector ports.PayloadInspector, logger *slog.Logger) *BatchEmailProcessor {
	if logger == nil {
		logger = slog.Default()
	}
	return &BatchEmailProcessor{gateway: gateway, inspector: inspector, logger: logger}
}

func (p *BatchEmailProcessor) Process(ctx context.Context, filename string, content io.Reader) (domain.BatchEmailSummary, error) {
	payload, err := io.ReadAll(content)
	if err != nil {
		return domain.BatchEmailSummary{}, fmt.Errorf("read payload: %w", err)
	}

	if p.inspector != nil {
		pre, err := p.inspector.Inspect(filename, payload)
		if err != nil {
			return domain.BatchEmailSummary{}, err
		}
		if pre.Kind != "spreadsheet" {
			return domain.BatchEmailSummary{}, &domain.ValidationError{Message: "assessment batch expects a CSV or XLSX file"}
		}
	}

	resp, err := p.gateway.UploadFile(ctx, "/process/assessment_and_email", filename, bytes.NewReader(payload))
	if err != nil {
		return domain.BatchEmailSummary{}, err
	}
	if resp.IsArtifact() {
		return domain.BatchEmailSummary{}, &domain.RequestError{Message: "unexpected binary response to batch processing"}
	}

	var summary domain.BatchEmailSummary
	if err := resp.DecodeInto(&summary); err != nil {
		return domain.BatchEmailSummary{}, &domain.RequestError{Message: "backend returned a malformed batch summary"}
	}

	p.logger.Info("assessment batch processed",
		"total_students", summary.TotalStudents,
		"emails_sent", summary.EmailsSent,
	)
	return summary, nil
}

// WriteEmailReportCSV exports the per-student delivery status as a
// downloadable report.
func WriteEmailReportCSV(w io.Writer, results []domain.EmailResult) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"student", "status"}); err != nil {
		return fmt.Errorf("write report header: %w", err)
	}
	for _, result := range results {
		if err := writer.Write([]string{result.Student, result.Status}); err != nil {
			return fmt.Errorf("write report row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}
