package service

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/marks-dashboard/backend/internal/model"
)

const (
	ExportFileName    = "student_marks.csv"
	ExportContentType = "text/csv"
)

// CSVHeader matches the MarkRecord field names.
var CSVHeader = []string{"id", "name", "student_id", "subject", "marks", "date"}

// WriteCSV writes records in the given order under CSVHeader. Values are
// written verbatim; encoding/csv reads a "\r\n" inside a quoted field back
// as "\n", so line breaks in names or subjects come back LF only.
func WriteCSV(w io.Writer, records []model.MarkRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return errors.Wrap(err, "write csv header")
	}
	for _, r := range records {
		row := []string{r.ID, r.Name, r.StudentID, r.Subject, strconv.Itoa(r.Marks), r.Date}
		if err := cw.Write(row); err != nil {
			return errors.Wrap(err, "write csv row")
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flush csv")
}

// rowReader reads header-mapped records from a CSV stream. An empty stream
// has no header and yields no rows.
type rowReader struct {
	cr   *csv.Reader
	cols columns
}

func newRowReader(r io.Reader) (*rowReader, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil && err != io.EOF {
		return nil, err
	}
	return &rowReader{cr: cr, cols: newColumns(header)}, nil
}

// next returns the following record, or io.EOF. A row that fails to parse
// returns an error for which badRow is true, and the reader moves on.
func (rr *rowReader) next() (model.MarkRecord, error) {
	row, err := rr.cr.Read()
	if err == io.EOF {
		return model.MarkRecord{}, err
	}
	if err != nil {
		return model.MarkRecord{}, errors.Wrap(err, "read csv row")
	}
	return rr.cols.record(row)
}

// badRow reports whether err came from a single malformed row, as opposed to
// a failing stream. Readers may skip such rows and keep going.
func badRow(err error) bool {
	var perr *csv.ParseError
	var nerr *strconv.NumError
	return errors.As(err, &perr) || errors.As(err, &nerr)
}

type columns map[string]int

// newColumns maps header names to indexes. Only the header is trimmed and
// lowercased; values are kept as written.
func newColumns(header []string) columns {
	cols := make(columns, len(header))
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		cols[h] = i
	}
	return cols
}

func (c columns) get(row []string, name string) string {
	i, ok := c[name]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

func (c columns) record(row []string) (model.MarkRecord, error) {
	rec := model.MarkRecord{
		ID:        c.get(row, "id"),
		Name:      c.get(row, "name"),
		StudentID: c.get(row, "student_id"),
		Subject:   c.get(row, "subject"),
		Date:      c.get(row, "date"),
	}
	if s := strings.TrimSpace(c.get(row, "marks")); s != "" {
		marks, err := strconv.Atoi(s)
		if err != nil {
			return model.MarkRecord{}, errors.Wrapf(err, "marks %q", s)
		}
		rec.Marks = marks
	}
	return rec, nil
}
