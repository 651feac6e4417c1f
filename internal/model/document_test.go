package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromDocumentDefaults(t *testing.T) {
	rec := FromDocument("doc-1", map[string]interface{}{"name": "Alice"})

	assert.Equal(t, MarkRecord{ID: "doc-1", Name: "Alice"}, rec)
}

func TestFromDocumentMarksCoercion(t *testing.T) {
	tests := []struct {
		name  string
		marks interface{}
		want  int
	}{
		{"int", 80, 80},
		{"int32", int32(75), 75},
		{"int64", int64(90), 90},
		{"float64", 67.6, 68},
		{"numeric string", "55", 55},
		{"float string", " 42.0 ", 42},
		{"empty string", "", 0},
		{"garbage", "abc", 0},
		{"bool", true, 0},
		{"missing", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := FromDocument("x", map[string]interface{}{"marks": tt.marks})
			assert.Equal(t, tt.want, rec.Marks)
		})
	}
}

func TestFromDocumentWrongTypes(t *testing.T) {
	rec := FromDocument("x", map[string]interface{}{"subject": 12, "date": nil})

	assert.Equal(t, "", rec.Subject)
	assert.Equal(t, "", rec.Date)
}

func TestFromStrings(t *testing.T) {
	rec := FromStrings("r1", map[string]string{
		"name": "Bob", "student_id": "S2", "subject": "Math", "marks": "70", "date": "2024-01-15",
	})

	assert.Equal(t, MarkRecord{ID: "r1", Name: "Bob", StudentID: "S2", Subject: "Math", Marks: 70, Date: "2024-01-15"}, rec)
}

func TestFieldsOmitsID(t *testing.T) {
	fields := MarkRecord{ID: "abc", Name: "Alice", Marks: 5}.Fields()

	assert.NotContains(t, fields, "id")
	assert.Equal(t, 5, fields["marks"])
	assert.Len(t, fields, 5)
}
