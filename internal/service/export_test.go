package service

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marks-dashboard/backend/internal/model"
)

// readCSV reads every record the way the importer does, failing on the
// first bad row.
func readCSV(r io.Reader) ([]model.MarkRecord, error) {
	rows, err := newRowReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "read csv header")
	}

	var records []model.MarkRecord
	for {
		rec, err := rows.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func TestCSVRoundTrip(t *testing.T) {
	records := append(sampleRecords(),
		model.MarkRecord{ID: "4", Name: "O'Neil, Pat", StudentID: "S-4", Subject: "Art \"advanced\"", Marks: 0, Date: "2024-05-05"},
		model.MarkRecord{ID: "5", Name: "Zoë", Subject: "Music", Marks: 100, Date: ""},
		model.MarkRecord{ID: "6", Name: " Alice", StudentID: " S-6 ", Subject: "Math ", Marks: 55, Date: "2024-06-06"},
	)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, records))

	parsed, err := readCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, records, parsed)
}

func TestWriteCSVHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))

	assert.Equal(t, "id,name,student_id,subject,marks,date\n", buf.String())
}

func TestReadCSVByHeaderName(t *testing.T) {
	in := "Subject,Name,Marks\nMath,Alice,75\nArt,Bob,\n"

	records, err := readCSV(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []model.MarkRecord{
		{Name: "Alice", Subject: "Math", Marks: 75},
		{Name: "Bob", Subject: "Art"},
	}, records)
}

func TestReadCSVBadMarks(t *testing.T) {
	_, err := readCSV(strings.NewReader("name,subject,marks\nAlice,Math,lots\n"))
	assert.Error(t, err)
}

func TestCSVRoundTripLineBreaks(t *testing.T) {
	records := []model.MarkRecord{
		{ID: "1", Name: "Ann\nLee", Subject: "Math", Marks: 70, Date: "2024-01-01"},
		{ID: "2", Name: "Ben\r\nHo", Subject: "Art", Marks: 60, Date: "2024-01-02"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, records))

	parsed, err := readCSV(&buf)
	require.NoError(t, err)
	require.Len(t, parsed, 2)
	assert.Equal(t, "Ann\nLee", parsed[0].Name)
	// encoding/csv folds CRLF inside a quoted field to LF.
	assert.Equal(t, "Ben\nHo", parsed[1].Name)
}

func TestReadCSVPadded(t *testing.T) {
	in := " Name , Subject ,Marks\n Alice ,Math , 75 \n"

	records, err := readCSV(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []model.MarkRecord{{Name: " Alice ", Subject: "Math ", Marks: 75}}, records)
}

func TestRowReaderSkipsMalformedRow(t *testing.T) {
	rows, err := newRowReader(strings.NewReader("name,subject,marks\nAlice,Math,80\nBob,\"Ma\"th,70\nCarol,Art,60\n"))
	require.NoError(t, err)

	rec, err := rows.next()
	require.NoError(t, err)
	assert.Equal(t, "Alice", rec.Name)

	_, err = rows.next()
	require.Error(t, err)
	assert.True(t, badRow(err))

	rec, err = rows.next()
	require.NoError(t, err)
	assert.Equal(t, "Carol", rec.Name)

	_, err = rows.next()
	assert.Equal(t, io.EOF, err)
}
