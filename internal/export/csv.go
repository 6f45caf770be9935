// Package export writes run outputs: the transactions CSV, the failure
// JSONL audit log, and the run summary JSON.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"

	"momo-etl/internal/logging"
	"momo-etl/internal/models"
)

// Delimiter is the CSV output delimiter.
var Delimiter rune = ','

// SetDelimiter changes the delimiter for CSV output.
func SetDelimiter(delim rune) {
	Delimiter = delim
	gocsv.TagSeparator = fmt.Sprintf("%c", delim)
}

// Row is the flat CSV projection of a parsed transaction. Optional fields
// serialize as empty cells.
type Row struct {
	SourceID     string `csv:"source_id"`
	Date         string `csv:"date"`
	Status       string `csv:"status"`
	Template     string `csv:"template"`
	Category     string `csv:"category"`
	Type         string `csv:"type"`
	Direction    string `csv:"direction"`
	Amount       string `csv:"amount"`
	Fee          string `csv:"fee"`
	Balance      string `csv:"balance"`
	Currency     string `csv:"currency"`
	Counterparty string `csv:"counterparty"`
	SenderPhone  string `csv:"sender_phone"`
	MomoCode     string `csv:"momo_code"`
	Reference    string `csv:"reference"`
	Confidence   string `csv:"confidence"`
	Notes        string `csv:"notes"`
	Fingerprint  string `csv:"fingerprint"`
}

// NewRow flattens one transaction for CSV output.
func NewRow(tx *models.ParsedTransaction) Row {
	counterparty, _ := tx.Counterparty()
	row := Row{
		SourceID:     tx.SourceID,
		Status:       string(tx.Status),
		Template:     tx.Template,
		Category:     string(tx.Category),
		Type:         string(tx.Type),
		Direction:    string(tx.Direction),
		Amount:       tx.Amount.Amount.StringFixed(2),
		Fee:          tx.Fee.Amount.StringFixed(2),
		Currency:     tx.Amount.Currency,
		Counterparty: counterparty,
		SenderPhone:  deref(tx.SenderPhone),
		MomoCode:     deref(tx.MomoCode),
		Reference:    deref(tx.Reference),
		Confidence:   fmt.Sprintf("%.2f", tx.Confidence),
		Fingerprint:  tx.Fingerprint,
	}
	if !tx.Date.IsZero() {
		row.Date = tx.Date.UTC().Format("2006-01-02 15:04:05")
	}
	if tx.Balance != nil {
		row.Balance = tx.Balance.Amount.StringFixed(2)
	}
	if len(tx.Notes) > 0 {
		notes := make([]string, len(tx.Notes))
		for i, n := range tx.Notes {
			notes[i] = string(n)
		}
		row.Notes = strings.Join(notes, ";")
	}
	return row
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// WriteCSV writes the accepted and partial transactions of a run to a CSV
// file, creating parent directories as needed.
func WriteCSV(transactions []*models.ParsedTransaction, path string, logger logging.Logger) error {
	rows := make([]Row, len(transactions))
	for i, tx := range transactions {
		rows[i] = NewRow(tx)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("error creating output directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("failed to close CSV file")
		}
	}()

	csvWriter := csv.NewWriter(file)
	csvWriter.Comma = Delimiter
	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}

	logger.Info("transactions written",
		logging.F(logging.FieldOutputFile, path),
		logging.F(logging.FieldCount, len(rows)))
	return nil
}
