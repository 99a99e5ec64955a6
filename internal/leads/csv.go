// Package leads turns uploaded lead lists into scored, segmented batches.
package leads

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"endicode-workers/internal/triage"
)

// ExportFileName is the attachment name used for scored exports.
const ExportFileName = "scored_leads.csv"

var exportHeader = []string{"name", "email", "company", "message", "score", "segment"}

// ParseCSV reads header-keyed lead records. Header names are matched
// case-insensitively; unknown columns are ignored and short rows leave the
// missing fields empty.
func ParseCSV(r io.Reader) ([]triage.LeadInput, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	colIdx := make(map[string]int, len(header))
	for i, col := range header {
		if i == 0 {
			col = strings.TrimPrefix(col, "\ufeff")
		}
		name := strings.ToLower(strings.TrimSpace(col))
		if _, dup := colIdx[name]; !dup {
			colIdx[name] = i
		}
	}

	var records []triage.LeadInput
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		if isBlankRow(row) {
			continue
		}
		records = append(records, triage.LeadInput{
			Name:    getCol(row, colIdx, "name"),
			Email:   getCol(row, colIdx, "email"),
			Company: getCol(row, colIdx, "company"),
			Message: getCol(row, colIdx, "message"),
		})
	}
	return records, nil
}

func getCol(row []string, colIdx map[string]int, col string) string {
	idx, ok := colIdx[col]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if v != "" {
			return false
		}
	}
	return true
}

// FilterValid drops records without an email.
func FilterValid(records []triage.LeadInput) []triage.LeadInput {
	out := make([]triage.LeadInput, 0, len(records))
	for _, r := range records {
		if strings.TrimSpace(r.Email) != "" {
			out = append(out, r)
		}
	}
	return out
}

// DedupeByEmail keeps the first record per case-insensitive email.
func DedupeByEmail(records []triage.LeadInput) []triage.LeadInput {
	seen := make(map[string]bool, len(records))
	out := make([]triage.LeadInput, 0, len(records))
	for _, r := range records {
		key := strings.ToLower(strings.TrimSpace(r.Email))
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r)
	}
	return out
}

// WriteCSV writes scored leads with a header row.
func WriteCSV(w io.Writer, leads []triage.LeadData) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, l := range leads {
		row := []string{l.Name, l.Email, l.Company, l.Message, strconv.Itoa(l.Score), string(l.Segment)}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
