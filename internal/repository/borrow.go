package repository

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/dprince-03/LMS-API/internal/errs"
	"github.com/dprince-03/LMS-API/internal/model"
)

const bookColumns = `id, isbn, title, author_id, published_date, description, genre,
	language, pages, publisher, available_copies, total_copies, status, created_at, updated_at`

// CommitBorrow couples the record insert with the counter decrement in one
// transaction. The decrement re-validates availability at the point of
// mutation: the loser of a race on the last copy matches zero rows and the
// whole attempt rolls back.
func (r *repository) CommitBorrow(ctx context.Context, bookID, userID int, dueDate time.Time) (model.BorrowRecord, model.Book, error) {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return model.BorrowRecord{}, model.Book{}, err
	}
	defer tx.Rollback() //nolint:errcheck

	var book model.Book
	decQ := `
	update books
	set available_copies = available_copies - 1,
	    status = case when available_copies - 1 > 0 then 'Available' else 'Borrowed' end,
	    updated_at = now()
	where id = $1 and available_copies > 0
	returning ` + bookColumns
	if err := tx.GetContext(ctx, &book, decQ, bookID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.BorrowRecord{}, model.Book{}, errs.ErrBookUnavailable
		}
		return model.BorrowRecord{}, model.Book{}, err
	}

	var rec model.BorrowRecord
	insQ := `
	insert into borrow_records (user_id, book_id, borrow_date, due_date, status)
	values ($1, $2, now(), $3, 'Borrowed')
	returning id, user_id, book_id, borrow_date, due_date, return_date, status, created_at, updated_at`
	if err := tx.GetContext(ctx, &rec, insQ, userID, bookID, dueDate); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return model.BorrowRecord{}, model.Book{}, errs.ErrAlreadyBorrowed
		}
		r.log.Error("CommitBorrow insert", zap.Int("book_id", bookID), zap.Int("user_id", userID), zap.Error(err))
		return model.BorrowRecord{}, model.Book{}, err
	}

	if err := tx.Commit(); err != nil {
		return model.BorrowRecord{}, model.Book{}, err
	}
	return rec, book, nil
}

// CommitReturn closes the active record and releases the copy in one
// transaction. The return_date is null gate makes a second return attempt
// match zero rows instead of double-incrementing the counter.
func (r *repository) CommitReturn(ctx context.Context, bookID, userID int) (model.BorrowRecord, model.Book, error) {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return model.BorrowRecord{}, model.Book{}, err
	}
	defer tx.Rollback() //nolint:errcheck

	var rec model.BorrowRecord
	closeQ := `
	update borrow_records
	set return_date = now(), status = 'Returned', updated_at = now()
	where user_id = $1 and book_id = $2 and return_date is null
	returning id, user_id, book_id, borrow_date, due_date, return_date, status, created_at, updated_at`
	if err := tx.GetContext(ctx, &rec, closeQ, userID, bookID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.BorrowRecord{}, model.Book{}, errs.ErrNoActiveBorrow
		}
		return model.BorrowRecord{}, model.Book{}, err
	}

	var book model.Book
	incQ := `
	update books
	set available_copies = least(available_copies + 1, total_copies),
	    status = 'Available',
	    updated_at = now()
	where id = $1
	returning ` + bookColumns
	if err := tx.GetContext(ctx, &book, incQ, bookID); err != nil {
		r.log.Error("CommitReturn increment", zap.Int("book_id", bookID), zap.Error(err))
		return model.BorrowRecord{}, model.Book{}, err
	}

	if err := tx.Commit(); err != nil {
		return model.BorrowRecord{}, model.Book{}, err
	}
	return rec, book, nil
}

func (r *repository) GetRecord(ctx context.Context, id int) (model.BorrowRecord, error) {
	q, args, err := qb.Select("id", "user_id", "book_id", "borrow_date", "due_date", "return_date", "status", "created_at", "updated_at").
		From(borrowTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return model.BorrowRecord{}, err
	}
	var rec model.BorrowRecord
	if err := r.db.GetContext(ctx, &rec, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.BorrowRecord{}, errs.ErrNotFound
		}
		return model.BorrowRecord{}, err
	}
	return rec, nil
}

func (r *repository) GetActiveRecord(ctx context.Context, userID, bookID int) (model.BorrowRecord, error) {
	q := `
	select id, user_id, book_id, borrow_date, due_date, return_date, status, created_at, updated_at
	from borrow_records
	where user_id = $1 and book_id = $2 and return_date is null`
	var rec model.BorrowRecord
	if err := r.db.GetContext(ctx, &rec, q, userID, bookID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.BorrowRecord{}, errs.ErrNoActiveBorrow
		}
		return model.BorrowRecord{}, err
	}
	return rec, nil
}

func (r *repository) ActiveCount(ctx context.Context, userID int) (int, error) {
	q := `
	select count(*) from borrow_records
	where user_id = $1 and return_date is null`
	var count int
	if err := r.db.QueryRowContext(ctx, q, userID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repository) ActiveCountByBook(ctx context.Context, bookID int) (int, error) {
	q := `
	select count(*) from borrow_records
	where book_id = $1 and return_date is null`
	var count int
	if err := r.db.QueryRowContext(ctx, q, bookID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repository) ExtendDueDate(ctx context.Context, recordID int, newDue time.Time) (model.BorrowRecord, error) {
	q := `
	update borrow_records
	set due_date = $2, updated_at = now()
	where id = $1 and return_date is null
	returning id, user_id, book_id, borrow_date, due_date, return_date, status, created_at, updated_at`
	var rec model.BorrowRecord
	if err := r.db.GetContext(ctx, &rec, q, recordID, newDue); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.BorrowRecord{}, errs.ErrAlreadyReturned
		}
		return model.BorrowRecord{}, err
	}
	return rec, nil
}

func recordsQuery(columns ...string) sq.SelectBuilder {
	return qb.Select(columns...).
		From(borrowTableName + " br").
		Join("users u on br.user_id = u.id").
		Join("books b on br.book_id = b.id").
		LeftJoin("authors a on b.author_id = a.id")
}

func applyRecordFilter(q sq.SelectBuilder, filter model.RecordFilter) sq.SelectBuilder {
	if filter.UserID != nil {
		q = q.Where(sq.Eq{"br.user_id": *filter.UserID})
	}
	if filter.BookID != nil {
		q = q.Where(sq.Eq{"br.book_id": *filter.BookID})
	}
	if filter.Status != "" {
		q = q.Where(sq.Eq{"br.status": filter.Status})
	}
	if filter.OverdueOnly {
		q = q.Where("br.return_date is null").Where("br.due_date < now()")
	}
	return q
}

func (r *repository) ListRecords(ctx context.Context, filter model.RecordFilter) ([]model.BorrowRecordDetails, int, error) {
	q := applyRecordFilter(recordsQuery(
		"br.id", "br.user_id", "br.book_id", "br.borrow_date", "br.due_date",
		"br.return_date", "br.status", "br.created_at", "br.updated_at",
		"u.user_name", "u.email as user_email",
		"b.title as book_title", "b.isbn as book_isbn",
		"a.first_name || ' ' || a.last_name as author_name"), filter).
		OrderBy("br.borrow_date desc")
	if filter.Page > 0 && filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit)).Offset(uint64((filter.Page - 1) * filter.Limit))
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, 0, err
	}
	r.log.Debug("ListRecords", zap.String("query", query), zap.Any("args", args))

	items := make([]model.BorrowRecordDetails, 0)
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, 0, err
	}

	query, args, err = applyRecordFilter(recordsQuery("count(*)"), filter).ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// SweepOverdue reclassifies stale Borrowed records in one statement. Running
// it twice is a no-op for records already marked.
func (r *repository) SweepOverdue(ctx context.Context) (int64, error) {
	q := `
	update borrow_records
	set status = 'Overdue', updated_at = now()
	where return_date is null and status = 'Borrowed' and due_date < now()`
	res, err := r.db.ExecContext(ctx, q)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *repository) Statistics(ctx context.Context) (model.BorrowStatistics, error) {
	q := `
	select
	    count(*) as total_borrows,
	    count(*) filter (where return_date is null) as active_borrows,
	    count(*) filter (where return_date is not null) as returned_borrows,
	    count(*) filter (where return_date is null and due_date < now()) as overdue_borrows,
	    coalesce(avg(extract(epoch from (coalesce(return_date, now()) - borrow_date)) / 86400), 0) as avg_borrow_days
	from borrow_records`
	var stats model.BorrowStatistics
	if err := r.db.GetContext(ctx, &stats, q); err != nil {
		return model.BorrowStatistics{}, err
	}
	return stats, nil
}
