package utils

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Row handling errors
var (
	ErrEmptyGrid = errors.New("grid content is empty")
)

// ReadRows parses CSV content into a raw row grid. Rows may have a variable
// number of fields; no schema is enforced here — the extractor and the
// comparator interpret cell positions themselves.
func ReadRows(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", len(rows)+1, err)
		}
		rows = append(rows, record)
	}

	if len(rows) == 0 {
		return nil, ErrEmptyGrid
	}

	return rows, nil
}

// ReadRowsString parses CSV content from a string.
func ReadRowsString(content string) ([][]string, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyGrid
	}
	return ReadRows(strings.NewReader(content))
}

// ReadRowsFile loads a raw row grid from a CSV file on disk.
func ReadRowsFile(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	rows, err := ReadRows(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return rows, nil
}

// WriteRows renders a row grid as CSV.
func WriteRows(w io.Writer, rows [][]string) error {
	writer := csv.NewWriter(w)
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write rows: %w", err)
	}
	writer.Flush()
	return writer.Error()
}

// WriteRowsFile writes a row grid to a CSV file, creating or truncating it.
func WriteRowsFile(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	return WriteRows(f, rows)
}
