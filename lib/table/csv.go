package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

type ReadOptions struct {
	// IndexColumn moves the first column of the file into Table.Index.
	IndexColumn bool
}

// ReadCSV decodes a CSV document whose first record is the header.
func ReadCSV(r io.Reader, opts ReadOptions) (Table, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return Table{}, fmt.Errorf("parse csv: missing header")
	}

	header := records[0]
	rows := records[1:]
	if !opts.IndexColumn {
		return Table{Columns: header, Rows: rows}, nil
	}
	if len(header) == 0 {
		return Table{}, fmt.Errorf("parse csv: no column to use as index")
	}

	t := Table{
		IndexName: header[0],
		Columns:   header[1:],
		Index:     make([]string, len(rows)),
		Rows:      make([][]string, len(rows)),
	}
	for i, row := range rows {
		t.Index[i] = row[0]
		t.Rows[i] = row[1:]
	}
	return t, nil
}

// WriteCSV encodes the table with a header record, the index (if any) is
// written as the first column.
func WriteCSV(w io.Writer, t Table) error {
	writer := csv.NewWriter(w)

	header := t.Columns
	if t.Index != nil {
		header = append([]string{t.IndexName}, t.Columns...)
	}
	err := writer.Write(header)
	if err != nil {
		return err
	}

	for i, row := range t.Rows {
		if t.Index != nil {
			row = append([]string{t.Index[i]}, row...)
		}
		err = writer.Write(row)
		if err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func ReadFile(path string, opts ReadOptions) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return Table{}, err
	}
	defer f.Close()

	t, err := ReadCSV(f, opts)
	if err != nil {
		return Table{}, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// WriteFile writes the table to path, creating parent directories and
// replacing any existing file.
func WriteFile(path string, t Table) error {
	err := os.MkdirAll(filepath.Dir(path), 0777)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	err = WriteCSV(f, t)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}
