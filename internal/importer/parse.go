package importer

import (
	"encoding/csv"
	"io"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

// MaxFileSize is the hard upload cap for import files.
const MaxFileSize = 50 << 20 // 50MB

// CheckFile rejects obviously wrong uploads before any parsing happens.
// These are the only blocking errors ahead of the mapping gate.
func CheckFile(name string, size int64) error {
	if ext := strings.ToLower(filepath.Ext(name)); ext != ".csv" {
		return eris.Errorf("importer: unsupported file type %q (expected .csv)", ext)
	}
	if size > MaxFileSize {
		return eris.Errorf("importer: file too large (%d bytes, limit %d)", size, MaxFileSize)
	}
	return nil
}

// Row is one CSV data row keyed by header.
type Row map[string]string

// Table is a parsed CSV file: the header row plus all data rows in file order.
type Table struct {
	Headers []string
	Rows    []Row
}

// Get returns the trimmed cell under header, or "".
func (r Row) Get(header string) string {
	return strings.TrimSpace(r[header])
}

// Parse reads CSV text into a Table. The first row is always the header.
// A real CSV grammar is used, so quoted fields and embedded commas survive.
func Parse(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "importer: read csv")
	}
	if len(records) == 0 {
		return nil, eris.New("importer: csv is empty")
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.TrimSpace(h)
	}

	table := &Table{Headers: headers}
	for _, rec := range records[1:] {
		row := make(Row, len(headers))
		for i, h := range headers {
			if i < len(rec) {
				row[h] = rec[i]
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// Preview returns the first n rows (all rows when fewer exist). The header
// list it exposes is what field mapping runs against.
func (t *Table) Preview(n int) []Row {
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	return t.Rows[:n]
}
