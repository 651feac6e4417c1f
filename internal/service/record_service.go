package service

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/marks-dashboard/backend/internal/database"
	"github.com/marks-dashboard/backend/internal/model"
)

// RecordInput holds the values submitted for one new record.
type RecordInput struct {
	Name      string `json:"name" validate:"required"`
	StudentID string `json:"student_id"`
	Subject   string `json:"subject" validate:"required"`
	Marks     int    `json:"marks" validate:"min=0,max=100"`
	Date      string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

type RecordService struct {
	store database.Store
	now   func() time.Time
}

func NewRecordService(store database.Store) *RecordService {
	return &RecordService{store: store, now: time.Now}
}

// AddRecord writes one record and returns it with its new id. Nothing is
// written when validation fails.
func (s *RecordService) AddRecord(ctx context.Context, in RecordInput) (model.MarkRecord, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.StudentID = strings.TrimSpace(in.StudentID)
	in.Subject = strings.TrimSpace(in.Subject)
	in.Date = strings.TrimSpace(in.Date)

	if err := checkInput(in); err != nil {
		return model.MarkRecord{}, err
	}
	if in.Date == "" {
		in.Date = s.now().Format(model.DateLayout)
	}

	rec := model.MarkRecord{
		Name:      in.Name,
		StudentID: in.StudentID,
		Subject:   in.Subject,
		Marks:     in.Marks,
		Date:      in.Date,
	}
	id, err := s.store.Insert(ctx, rec)
	if err != nil {
		return model.MarkRecord{}, errors.Wrap(err, "add record")
	}
	rec.ID = id
	return rec, nil
}

// ListRecords returns the whole collection as stored.
func (s *RecordService) ListRecords(ctx context.Context) ([]model.MarkRecord, error) {
	records, err := s.store.All(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "fetch records")
	}
	return records, nil
}
