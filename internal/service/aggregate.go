package service

import (
	"math"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/marks-dashboard/backend/internal/model"
)

// Aggregation is the reduction applied to the marks of each subject group.
type Aggregation string

const (
	Average Aggregation = "Average"
	Max     Aggregation = "Max"
	Min     Aggregation = "Min"
	Count   Aggregation = "Count"
)

// Aggregations lists the kinds in the order the dashboard offers them.
var Aggregations = []Aggregation{Average, Max, Min, Count}

var ErrUnknownAggregation = errors.New("unknown aggregation")

// ParseAggregation maps a case-insensitive name to an Aggregation. An empty
// name selects Average.
func ParseAggregation(s string) (Aggregation, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Average, nil
	}
	for _, a := range Aggregations {
		if strings.EqualFold(s, string(a)) {
			return a, nil
		}
	}
	return "", errors.Wrapf(ErrUnknownAggregation, "%q", s)
}

// Filter narrows records by exact subject and student name. Empty fields
// match everything.
type Filter struct {
	Subject string
	Student string
}

func (f Filter) match(r model.MarkRecord) bool {
	if f.Subject != "" && r.Subject != f.Subject {
		return false
	}
	if f.Student != "" && r.Name != f.Student {
		return false
	}
	return true
}

type SubjectStat struct {
	Subject string  `json:"subject"`
	Value   float64 `json:"value"`
}

type TrendPoint struct {
	Date  string `json:"date"`
	Marks int    `json:"marks"`
}

type Result struct {
	Aggregation Aggregation   `json:"aggregation"`
	Groups      []SubjectStat `json:"groups"`
	// Trend is set only when the filter selects a single student.
	Trend []TrendPoint `json:"trend,omitempty"`
}

// NoData reports that nothing matched the filter.
func (r Result) NoData() bool {
	return len(r.Groups) == 0
}

// Aggregate groups the filtered records by subject and reduces each group's
// marks. Groups are ordered by subject.
func Aggregate(records []model.MarkRecord, f Filter, agg Aggregation) Result {
	res := Result{Aggregation: agg, Groups: []SubjectStat{}}

	groups := make(map[string][]int)
	var filtered []model.MarkRecord
	for _, r := range records {
		if !f.match(r) {
			continue
		}
		filtered = append(filtered, r)
		groups[r.Subject] = append(groups[r.Subject], r.Marks)
	}
	if len(filtered) == 0 {
		return res
	}

	subjects := make([]string, 0, len(groups))
	for s := range groups {
		subjects = append(subjects, s)
	}
	sort.Strings(subjects)

	for _, s := range subjects {
		res.Groups = append(res.Groups, SubjectStat{Subject: s, Value: round2(reduce(groups[s], agg))})
	}

	if f.Student != "" {
		res.Trend = trend(filtered)
	}
	return res
}

func reduce(marks []int, agg Aggregation) float64 {
	switch agg {
	case Max:
		m := marks[0]
		for _, v := range marks[1:] {
			if v > m {
				m = v
			}
		}
		return float64(m)
	case Min:
		m := marks[0]
		for _, v := range marks[1:] {
			if v < m {
				m = v
			}
		}
		return float64(m)
	case Count:
		return float64(len(marks))
	}
	sum := 0
	for _, v := range marks {
		sum += v
	}
	return float64(sum) / float64(len(marks))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func trend(records []model.MarkRecord) []TrendPoint {
	sorted := make([]model.MarkRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date < sorted[j].Date })

	points := make([]TrendPoint, len(sorted))
	for i, r := range sorted {
		points[i] = TrendPoint{Date: r.Date, Marks: r.Marks}
	}
	return points
}

// SortByDateDesc returns a copy of records, newest first.
func SortByDateDesc(records []model.MarkRecord) []model.MarkRecord {
	sorted := make([]model.MarkRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date > sorted[j].Date })
	return sorted
}

// Subjects returns the distinct subjects, sorted.
func Subjects(records []model.MarkRecord) []string {
	return distinct(records, func(r model.MarkRecord) string { return r.Subject })
}

// Students returns the distinct student names, sorted.
func Students(records []model.MarkRecord) []string {
	return distinct(records, func(r model.MarkRecord) string { return r.Name })
}

func distinct(records []model.MarkRecord, key func(model.MarkRecord) string) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, r := range records {
		k := key(r)
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
