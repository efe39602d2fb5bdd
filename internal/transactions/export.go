package transactions

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/storage"
)

// downloadTTL bounds how long an exported statement link stays valid.
const downloadTTL = 15 * time.Minute

// Exporter writes CSV statements to object storage and returns presigned
// download URLs.
type Exporter struct {
	service Service
	store   storage.Service
	log     *slog.Logger
}

// NewExporter creates a statement exporter.
func NewExporter(service Service, store storage.Service, log *slog.Logger) *Exporter {
	return &Exporter{service: service, store: store, log: log}
}

// Export builds a CSV statement of the user's transactions in range, uploads
// it, and returns a presigned download URL.
func (e *Exporter) Export(ctx context.Context, userID uuid.UUID, rng Range) (string, error) {
	txns, err := e.service.List(ctx, userID, rng)
	if err != nil {
		return "", err
	}

	data, err := statementCSV(txns)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("exports/%s/%s.csv", userID, uuid.New())
	if err := e.store.Upload(ctx, key, "text/csv", data); err != nil {
		return "", err
	}

	url, err := e.store.PresignDownload(ctx, key, downloadTTL)
	if err != nil {
		return "", err
	}

	e.log.Info("statement exported", "user_id", userID, "rows", len(txns))
	return url, nil
}

func statementCSV(txns []Transaction) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"date", "type", "amount", "category", "note"}); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, t := range txns {
		record := []string{
			t.Date.Format("2006-01-02"),
			t.Type,
			strconv.FormatFloat(t.Amount, 'f', 2, 64),
			t.Category,
			t.Note,
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write csv record: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}

	return buf.Bytes(), nil
}
