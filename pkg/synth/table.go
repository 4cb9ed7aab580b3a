package synth

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
)

// Table maps column name to its synthetic values. Row i of every column
// belongs to the same synthetic record; column order carries no meaning.
type Table map[string][]Value

// Columns returns the column names in sorted order.
func (t Table) Columns() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Rows returns the number of rows, or an error if the columns disagree.
func (t Table) Rows() (int, error) {
	rows := -1

	for _, name := range t.Columns() {
		n := len(t[name])
		if rows == -1 {
			rows = n
			continue
		}

		if n != rows {
			return 0, fmt.Errorf("column %q has %d rows, expected %d", name, n, rows)
		}
	}

	if rows == -1 {
		return 0, nil
	}

	return rows, nil
}

// WriteCSV writes the table with a header row, columns in sorted order.
func (t Table) WriteCSV(w io.Writer) error {
	rows, err := t.Rows()
	if err != nil {
		return err
	}

	columns := t.Columns()

	cw := csv.NewWriter(w)

	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	record := make([]string, len(columns))
	for i := 0; i < rows; i++ {
		for j, name := range columns {
			record[j] = t[name][i].String()
		}

		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing csv row %d: %w", i, err)
		}
	}

	cw.Flush()

	return cw.Error()
}

func (t Table) CSV() ([]byte, error) {
	buf := &bytes.Buffer{}

	if err := t.WriteCSV(buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
