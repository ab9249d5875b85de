package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dprince-03/LMS-API/internal/model"
	"github.com/dprince-03/LMS-API/internal/service"
)

func TestOverdueCalculator(t *testing.T) {
	t.Parallel()

	due := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	active := model.BorrowRecord{DueDate: due, Status: model.StatusBorrowed}

	var tests = []struct {
		name     string
		now      time.Time
		overdue  bool
		daysLate int
	}{
		{name: "before due", now: due.Add(-time.Hour), overdue: false, daysLate: 0},
		{name: "exactly due", now: due, overdue: false, daysLate: 0},
		{name: "a minute late is a day", now: due.Add(time.Minute), overdue: true, daysLate: 1},
		{name: "full day", now: due.Add(24 * time.Hour), overdue: true, daysLate: 1},
		{name: "partial second day rounds up", now: due.Add(25 * time.Hour), overdue: true, daysLate: 2},
		{name: "a week", now: due.AddDate(0, 0, 7), overdue: true, daysLate: 7},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.overdue, service.IsOverdue(active, tt.now))
			require.Equal(t, tt.daysLate, service.DaysOverdue(active, tt.now))
		})
	}
}

func TestOverdueCalculator_ReturnedRecord(t *testing.T) {
	t.Parallel()

	due := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	returnedAt := due.AddDate(0, 0, 3)
	returned := model.BorrowRecord{DueDate: due, ReturnDate: &returnedAt, Status: model.StatusReturned}

	now := due.AddDate(0, 0, 30)
	require.False(t, service.IsOverdue(returned, now))
	require.Zero(t, service.DaysOverdue(returned, now))
	require.Zero(t, service.LateFee(returned, 2.5, now))
}

func TestLateFee(t *testing.T) {
	t.Parallel()

	due := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	active := model.BorrowRecord{DueDate: due, Status: model.StatusBorrowed}

	require.InDelta(t, 3.0, service.LateFee(active, 1.0, due.AddDate(0, 0, 3)), 1e-9)
	require.InDelta(t, 1.5, service.LateFee(active, 0.5, due.AddDate(0, 0, 3)), 1e-9)
	require.Zero(t, service.LateFee(active, 1.0, due))
}
