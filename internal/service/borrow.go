package service

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/dprince-03/LMS-API/internal/errs"
	"github.com/dprince-03/LMS-API/internal/model"
	"github.com/dprince-03/LMS-API/pkg/auth"
)

// CanBorrow reports whether the user is under the active-loan limit.
func (s *Service) CanBorrow(ctx context.Context, userID int) (bool, error) {
	count, err := s.repo.ActiveCount(ctx, userID)
	if err != nil {
		return false, err
	}
	return count < s.policy.MaxActiveBorrows, nil
}

func (s *Service) ActiveBorrowCount(ctx context.Context, userID int) (int, error) {
	return s.repo.ActiveCount(ctx, userID)
}

// Borrow gatekeeps and then delegates the mutation to the ledger. Every check
// here is advisory; CommitBorrow re-validates availability and the duplicate
// guard inside the transaction, so a racing request fails there cleanly.
func (s *Service) Borrow(ctx context.Context, userID, bookID, dueDays int) (model.BorrowResult, error) {
	if dueDays <= 0 {
		dueDays = s.policy.DueDays
	}

	book, err := s.repo.GetBook(ctx, bookID)
	if err != nil {
		return model.BorrowResult{}, err
	}
	if book.AvailableCopies <= 0 || book.Status != model.BookAvailable {
		return model.BorrowResult{}, errs.ErrBookUnavailable
	}

	ok, err := s.CanBorrow(ctx, userID)
	if err != nil {
		return model.BorrowResult{}, err
	}
	if !ok {
		return model.BorrowResult{}, errs.ErrBorrowLimit
	}

	if _, err := s.repo.GetActiveRecord(ctx, userID, bookID); err == nil {
		return model.BorrowResult{}, errs.ErrAlreadyBorrowed
	} else if !errors.Is(err, errs.ErrNoActiveBorrow) {
		return model.BorrowResult{}, err
	}

	dueDate := time.Now().UTC().AddDate(0, 0, dueDays)
	rec, updated, err := s.repo.CommitBorrow(ctx, bookID, userID, dueDate)
	if err != nil {
		return model.BorrowResult{}, err
	}
	s.log.Info("book borrowed",
		zap.Int("record_id", rec.ID), zap.Int("user_id", userID), zap.Int("book_id", bookID),
		zap.Time("due_date", rec.DueDate))
	s.publishLoanEvent(eventBorrowed, rec)

	return model.BorrowResult{
		BorrowRecord: rec,
		Book:         updated.Summary(),
		DueDate:      rec.DueDate,
		DaysAllowed:  dueDays,
	}, nil
}

// Return closes the active loan and annotates the result with lateness
// computed at the actual return instant.
func (s *Service) Return(ctx context.Context, userID, bookID int) (model.ReturnResult, error) {
	if _, err := s.repo.GetBook(ctx, bookID); err != nil {
		return model.ReturnResult{}, err
	}

	rec, updated, err := s.repo.CommitReturn(ctx, bookID, userID)
	if err != nil {
		return model.ReturnResult{}, err
	}

	returnedAt := time.Now().UTC()
	if rec.ReturnDate != nil {
		returnedAt = *rec.ReturnDate
	}
	overdue, daysLate := lateness(rec.DueDate, returnedAt)
	fee := float64(daysLate) * s.policy.DailyLateFee

	s.log.Info("book returned",
		zap.Int("record_id", rec.ID), zap.Int("user_id", userID), zap.Int("book_id", bookID),
		zap.Bool("overdue", overdue), zap.Float64("late_fee", fee))
	s.publishLoanEvent(eventReturned, rec)

	return model.ReturnResult{
		BorrowRecord: rec,
		Book:         updated.Summary(),
		ReturnDetails: model.ReturnDetails{
			BorrowedDate: rec.BorrowDate,
			DueDate:      rec.DueDate,
			ReturnedDate: returnedAt,
			IsOverdue:    overdue,
			DaysLate:     daysLate,
			LateFee:      fee,
		},
	}, nil
}

// Extend pushes the due date out from the current due date, so repeated
// extensions stack instead of resetting to "now".
func (s *Service) Extend(ctx context.Context, actor auth.Actor, recordID, extensionDays int) (model.ExtendResult, error) {
	if extensionDays <= 0 {
		extensionDays = s.policy.ExtensionDays
	}

	rec, err := s.repo.GetRecord(ctx, recordID)
	if err != nil {
		return model.ExtendResult{}, err
	}
	if actor.ID != rec.UserID && !actor.Role.Elevated() {
		return model.ExtendResult{}, errs.ErrForbidden
	}
	if rec.ReturnDate != nil || rec.Status == model.StatusReturned {
		return model.ExtendResult{}, errs.ErrAlreadyReturned
	}

	newDue := rec.DueDate.AddDate(0, 0, extensionDays)
	updated, err := s.repo.ExtendDueDate(ctx, recordID, newDue)
	if err != nil {
		return model.ExtendResult{}, err
	}
	s.log.Info("due date extended",
		zap.Int("record_id", recordID), zap.Int("days", extensionDays), zap.Time("new_due", newDue))

	return model.ExtendResult{
		BorrowRecord: updated,
		Extension: model.Extension{
			PreviousDueDate: rec.DueDate,
			NewDueDate:      updated.DueDate,
			ExtensionDays:   extensionDays,
		},
	}, nil
}

// ListRecords sweeps opportunistically and then lists with live overdue
// annotations.
func (s *Service) ListRecords(ctx context.Context, filter model.RecordFilter) ([]model.BorrowRecordDetails, model.Pagination, error) {
	if swept, err := s.repo.SweepOverdue(ctx); err != nil {
		s.log.Warn("overdue sweep failed", zap.Error(err))
	} else if swept > 0 {
		s.log.Debug("overdue sweep", zap.Int64("updated", swept))
	}

	items, total, err := s.repo.ListRecords(ctx, filter)
	if err != nil {
		return nil, model.Pagination{}, err
	}
	annotateOverdue(items, time.Now().UTC())
	return items, model.NewPagination(filter.Page, filter.Limit, total), nil
}

// OverdueRecords sweeps first and reports how many records the sweep moved.
func (s *Service) OverdueRecords(ctx context.Context, page, limit int) ([]model.BorrowRecordDetails, model.Pagination, model.OverdueSummary, error) {
	swept, err := s.repo.SweepOverdue(ctx)
	if err != nil {
		s.log.Warn("overdue sweep failed", zap.Error(err))
		swept = 0
	}

	items, total, err := s.repo.ListRecords(ctx, model.RecordFilter{
		Page:        page,
		Limit:       limit,
		OverdueOnly: true,
	})
	if err != nil {
		return nil, model.Pagination{}, model.OverdueSummary{}, err
	}
	annotateOverdue(items, time.Now().UTC())

	return items, model.NewPagination(page, limit, total), model.OverdueSummary{
		TotalOverdueBooks: total,
		UpdatedRecords:    swept,
	}, nil
}

func (s *Service) Statistics(ctx context.Context) (model.BorrowStatistics, error) {
	stats, err := s.repo.Statistics(ctx)
	if err != nil {
		return model.BorrowStatistics{}, err
	}
	stats.GeneratedAt = time.Now().UTC()
	return stats, nil
}

// UserRecords returns a user's borrow history plus their borrowing headroom.
// Visible to the owner and to roles that may read borrow records.
func (s *Service) UserRecords(ctx context.Context, actor auth.Actor, userID int, filter model.RecordFilter) (model.UserRecordsResult, model.Pagination, error) {
	if actor.ID != userID && !auth.Can(actor.Role, auth.ResourceBorrowRecords, auth.ActionRead) {
		return model.UserRecordsResult{}, model.Pagination{}, errs.ErrForbidden
	}

	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return model.UserRecordsResult{}, model.Pagination{}, err
	}

	filter.UserID = &userID
	items, total, err := s.repo.ListRecords(ctx, filter)
	if err != nil {
		return model.UserRecordsResult{}, model.Pagination{}, err
	}
	annotateOverdue(items, time.Now().UTC())

	active, err := s.repo.ActiveCount(ctx, userID)
	if err != nil {
		return model.UserRecordsResult{}, model.Pagination{}, err
	}

	return model.UserRecordsResult{
		User: model.UserSummary{
			ID:            user.ID,
			FullName:      user.FullName(),
			Email:         user.Email,
			ActiveBorrows: active,
		},
		Records: items,
		Statistics: model.UserBorrowStats{
			TotalBorrows:  total,
			ActiveBorrows: active,
			CanBorrowMore: active < s.policy.MaxActiveBorrows,
		},
	}, model.NewPagination(filter.Page, filter.Limit, total), nil
}
