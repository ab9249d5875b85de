package repository

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"

	"github.com/dprince-03/LMS-API/internal/errs"
	"github.com/dprince-03/LMS-API/internal/model"
)

const authorColumns = `id, first_name, last_name, email, biography, created_at, updated_at`

func (r *repository) CreateAuthor(ctx context.Context, author model.Author) (model.Author, error) {
	q, args, err := qb.Insert(authorsTableName).
		Columns("first_name", "last_name", "email", "biography").
		Values(author.FirstName, author.LastName, author.Email, author.Biography).
		Suffix("returning " + authorColumns).
		ToSql()
	if err != nil {
		return model.Author{}, err
	}
	var created model.Author
	if err := r.db.GetContext(ctx, &created, q, args...); err != nil {
		return model.Author{}, err
	}
	return created, nil
}

func (r *repository) GetAuthor(ctx context.Context, id int) (model.Author, error) {
	q, args, err := qb.Select(authorColumns).
		From(authorsTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return model.Author{}, err
	}
	var author model.Author
	if err := r.db.GetContext(ctx, &author, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Author{}, errs.ErrNotFound
		}
		return model.Author{}, err
	}
	return author, nil
}

func (r *repository) ListAuthors(ctx context.Context, filter model.AuthorFilter) ([]model.Author, int, error) {
	base := func(columns ...string) sq.SelectBuilder {
		q := qb.Select(columns...).From(authorsTableName)
		if filter.Search != "" {
			pattern := "%" + filter.Search + "%"
			q = q.Where(sq.Or{
				sq.ILike{"first_name": pattern},
				sq.ILike{"last_name": pattern},
				sq.ILike{"first_name || ' ' || last_name": pattern},
			})
		}
		return q
	}

	q := base(authorColumns).OrderBy("last_name", "first_name")
	if filter.Page > 0 && filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit)).Offset(uint64((filter.Page - 1) * filter.Limit))
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, 0, err
	}
	authors := make([]model.Author, 0)
	if err := r.db.SelectContext(ctx, &authors, query, args...); err != nil {
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
	return authors, total, nil
}

func (r *repository) UpdateAuthor(ctx context.Context, author model.Author) (model.Author, error) {
	q, args, err := qb.Update(authorsTableName).
		SetMap(map[string]interface{}{
			"first_name": author.FirstName,
			"last_name":  author.LastName,
			"email":      author.Email,
			"biography":  author.Biography,
			"updated_at": sq.Expr("now()"),
		}).
		Where(sq.Eq{"id": author.ID}).
		Suffix("returning " + authorColumns).
		ToSql()
	if err != nil {
		return model.Author{}, err
	}
	var updated model.Author
	if err := r.db.GetContext(ctx, &updated, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Author{}, errs.ErrNotFound
		}
		return model.Author{}, err
	}
	return updated, nil
}

func (r *repository) DeleteAuthor(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `delete from authors where id = $1`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return errs.ErrAuthorHasBooks
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
