package service

import (
	"context"
	"time"

	"github.com/dprince-03/LMS-API/internal/model"
)

// lateness reports whether "at" is past the due date and by how many days,
// partial days rounding up.
func lateness(due, at time.Time) (bool, int) {
	if !at.After(due) {
		return false, 0
	}
	d := at.Sub(due)
	days := int(d / (24 * time.Hour))
	if d%(24*time.Hour) > 0 {
		days++
	}
	return true, days
}

// IsOverdue is the authoritative live check: a returned record is never
// overdue, whatever its swept status says.
func IsOverdue(rec model.BorrowRecord, now time.Time) bool {
	if rec.ReturnDate != nil {
		return false
	}
	overdue, _ := lateness(rec.DueDate, now)
	return overdue
}

func DaysOverdue(rec model.BorrowRecord, now time.Time) int {
	if rec.ReturnDate != nil {
		return 0
	}
	_, days := lateness(rec.DueDate, now)
	return days
}

func LateFee(rec model.BorrowRecord, dailyRate float64, now time.Time) float64 {
	return float64(DaysOverdue(rec, now)) * dailyRate
}

// SweepOverdue reclassifies stale Borrowed records to Overdue. Best-effort:
// a record returned between the sweep's read and write is simply skipped by
// the predicate next time.
func (s *Service) SweepOverdue(ctx context.Context) (int64, error) {
	return s.repo.SweepOverdue(ctx)
}

func annotateOverdue(items []model.BorrowRecordDetails, now time.Time) {
	for i := range items {
		items[i].IsOverdue = IsOverdue(items[i].BorrowRecord, now)
		items[i].DaysOverdue = DaysOverdue(items[i].BorrowRecord, now)
	}
}
