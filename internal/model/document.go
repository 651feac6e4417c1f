package model

import (
	"math"
	"strconv"
	"strings"
)

// FromDocument builds a MarkRecord from a stored document body. Attributes
// that are missing or of an unexpected type fall back to "" for strings and
// 0 for marks.
func FromDocument(id string, data map[string]interface{}) MarkRecord {
	return MarkRecord{
		ID:        id,
		Name:      stringField(data, "name"),
		StudentID: stringField(data, "student_id"),
		Subject:   stringField(data, "subject"),
		Marks:     intField(data, "marks"),
		Date:      stringField(data, "date"),
	}
}

// FromStrings is FromDocument for stores that keep every attribute as a
// string, such as redis hashes.
func FromStrings(id string, data map[string]string) MarkRecord {
	doc := make(map[string]interface{}, len(data))
	for k, v := range data {
		doc[k] = v
	}
	return FromDocument(id, doc)
}

func stringField(data map[string]interface{}, key string) string {
	s, ok := data[key].(string)
	if !ok {
		return ""
	}
	return s
}

func intField(data map[string]interface{}, key string) int {
	switch v := data[key].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float32:
		return roundToInt(float64(v))
	case float64:
		return roundToInt(v)
	case string:
		s := strings.TrimSpace(v)
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return roundToInt(f)
		}
	}
	return 0
}

func roundToInt(f float64) int {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int(math.Round(f))
}
