package repository

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/dprince-03/LMS-API/internal/errs"
	"github.com/dprince-03/LMS-API/internal/model"
)

func (r *repository) CreateBook(ctx context.Context, book model.Book) (model.Book, error) {
	q, args, err := qb.Insert(booksTableName).
		Columns("isbn", "title", "author_id", "published_date", "description", "genre",
			"language", "pages", "publisher", "available_copies", "total_copies", "status").
		Values(book.ISBN, book.Title, book.AuthorID, book.PublishedDate, book.Description, book.Genre,
			book.Language, book.Pages, book.Publisher, book.AvailableCopies, book.TotalCopies, book.Status).
		Suffix("returning " + bookColumns).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}
	var created model.Book
	if err := r.db.GetContext(ctx, &created, q, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgerrcode.UniqueViolation:
				return model.Book{}, errs.ErrISBNExists
			case pgerrcode.ForeignKeyViolation:
				return model.Book{}, errs.ErrNotFound
			case pgerrcode.CheckViolation:
				return model.Book{}, errs.ErrCopiesExceeded
			}
		}
		r.log.Error("CreateBook", zap.String("q", q), zap.Any("args", args))
		return model.Book{}, err
	}
	return created, nil
}

func (r *repository) GetBook(ctx context.Context, id int) (model.Book, error) {
	q := `
	select b.id, b.isbn, b.title, b.author_id, b.published_date, b.description, b.genre,
	       b.language, b.pages, b.publisher, b.available_copies, b.total_copies, b.status,
	       b.created_at, b.updated_at,
	       a.first_name || ' ' || a.last_name as author_name
	from books b
	left join authors a on b.author_id = a.id
	where b.id = $1`
	var book model.Book
	if err := r.db.GetContext(ctx, &book, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Book{}, errs.ErrNotFound
		}
		return model.Book{}, err
	}
	return book, nil
}

func (r *repository) ListBooks(ctx context.Context, filter model.BookFilter) ([]model.Book, int, error) {
	base := func(columns ...string) sq.SelectBuilder {
		q := qb.Select(columns...).
			From(booksTableName + " b").
			LeftJoin(authorsTableName + " a on b.author_id = a.id")
		if filter.Search != "" {
			pattern := "%" + filter.Search + "%"
			q = q.Where(sq.Or{
				sq.ILike{"b.title": pattern},
				sq.ILike{"b.isbn": pattern},
				sq.ILike{"a.first_name || ' ' || a.last_name": pattern},
			})
		}
		if filter.AuthorID != nil {
			q = q.Where(sq.Eq{"b.author_id": *filter.AuthorID})
		}
		if filter.Genre != "" {
			q = q.Where(sq.Eq{"b.genre": filter.Genre})
		}
		if filter.Status != "" {
			q = q.Where(sq.Eq{"b.status": filter.Status})
		}
		return q
	}

	q := base("b.id", "b.isbn", "b.title", "b.author_id", "b.published_date", "b.description",
		"b.genre", "b.language", "b.pages", "b.publisher", "b.available_copies", "b.total_copies",
		"b.status", "b.created_at", "b.updated_at",
		"a.first_name || ' ' || a.last_name as author_name").
		OrderBy("b.title")
	if filter.Page > 0 && filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit)).Offset(uint64((filter.Page - 1) * filter.Limit))
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, 0, err
	}
	r.log.Debug("ListBooks", zap.String("query", query), zap.Any("args", args))

	books := make([]model.Book, 0)
	if err := r.db.SelectContext(ctx, &books, query, args...); err != nil {
		return nil, 0, err
	}

	query, args, err = base("count(*)").ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	return books, total, nil
}

func (r *repository) UpdateBook(ctx context.Context, book model.Book) (model.Book, error) {
	q, args, err := qb.Update(booksTableName).
		SetMap(map[string]interface{}{
			"title":            book.Title,
			"author_id":        book.AuthorID,
			"published_date":   book.PublishedDate,
			"description":      book.Description,
			"genre":            book.Genre,
			"language":         book.Language,
			"pages":            book.Pages,
			"publisher":        book.Publisher,
			"available_copies": book.AvailableCopies,
			"total_copies":     book.TotalCopies,
			"status":           book.Status,
			"updated_at":       sq.Expr("now()"),
		}).
		Where(sq.Eq{"id": book.ID}).
		Suffix("returning " + bookColumns).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}
	var updated model.Book
	if err := r.db.GetContext(ctx, &updated, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Book{}, errs.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.CheckViolation {
			return model.Book{}, errs.ErrCopiesExceeded
		}
		return model.Book{}, err
	}
	return updated, nil
}

func (r *repository) DeleteBook(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `delete from books where id = $1`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return errs.ErrBookHasActiveBorrows
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errs.ErrNotFound
	}
	return nil
}
