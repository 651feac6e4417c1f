package model

// Collection is the store collection (or table) holding mark records.
const Collection = "students"

// DateLayout is the ISO-8601 calendar date format used for MarkRecord.Date.
const DateLayout = "2006-01-02"

// MarkRecord is one stored (student, subject, score, date) observation.
type MarkRecord struct {
	ID        string `gorm:"primaryKey" json:"id"`
	Name      string `json:"name"`
	StudentID string `json:"student_id"`
	Subject   string `json:"subject"`
	Marks     int    `json:"marks"`
	Date      string `json:"date"`
}

func (MarkRecord) TableName() string {
	return Collection
}

// Fields returns the document body written to a schemaless store. The id is
// never part of the body; stores keep it as the document key.
func (r MarkRecord) Fields() map[string]interface{} {
	return map[string]interface{}{
		"name":       r.Name,
		"student_id": r.StudentID,
		"subject":    r.Subject,
		"marks":      r.Marks,
		"date":       r.Date,
	}
}
