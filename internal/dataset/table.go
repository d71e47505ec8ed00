// Package dataset provides the tabular data handed to agents under
// benchmark, along with a deterministic generator for synthetic CRM
// fixtures. Tables are opaque to the scoring core: the harness reads them
// from delimited text and passes them through to the agent callable
// without ever interpreting a cell.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// Table is a row/column table read from delimited text: one header row
// followed by data rows. Tables are read-only fixtures; the core never
// mutates one after loading.
type Table struct {
	// Header holds the column names from the first row of the source.
	Header []string

	// Rows holds the data rows in source order. Every row has
	// len(Header) cells.
	Rows [][]string
}

// Read parses a table from CSV text. The first record is the header; every
// subsequent record must have the same field count (enforced by the CSV
// reader). An empty source is an error: a table without a header cannot be
// handed to an agent meaningfully.
func Read(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("table source is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("reading table header: %w", err)
	}

	var rows [][]string
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading table row %d: %w", len(rows)+2, err)
		}
		rows = append(rows, record)
	}

	return &Table{Header: header, Rows: rows}, nil
}

// ReadFile reads a table from a CSV file on disk.
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening table %s: %w", path, err)
	}
	defer f.Close()

	t, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("table %s: %w", path, err)
	}
	return t, nil
}

// WriteCSV writes the table as CSV, header first.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return fmt.Errorf("writing rows: %w", err)
	}
	cw.Flush()
	return cw.Error()
}

// NumRows returns the number of data rows, excluding the header.
func (t *Table) NumRows() int { return len(t.Rows) }

// maxContextRows bounds how much of a table String renders, so judge
// prompts stay within sensible token budgets for large fixtures.
const maxContextRows = 200

// String renders the table as pipe-delimited plain text suitable for
// embedding in a judge prompt as context. Rendering is truncated after
// maxContextRows rows with an elision marker.
func (t *Table) String() string {
	var b strings.Builder
	b.WriteString(strings.Join(t.Header, " | "))
	b.WriteByte('\n')

	n := len(t.Rows)
	if n > maxContextRows {
		n = maxContextRows
	}
	for _, row := range t.Rows[:n] {
		b.WriteString(strings.Join(row, " | "))
		b.WriteByte('\n')
	}
	if len(t.Rows) > maxContextRows {
		fmt.Fprintf(&b, "... (%d more rows)\n", len(t.Rows)-maxContextRows)
	}
	return b.String()
}
