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

const userColumns = `id, user_name, first_name, last_name, email, password_hash, role,
	is_active, last_login_at, created_at, updated_at`

func (r *repository) CreateUser(ctx context.Context, user model.User) (model.User, error) {
	q, args, err := qb.Insert(usersTableName).
		Columns("user_name", "first_name", "last_name", "email", "password_hash", "role").
		Values(user.UserName, user.FirstName, user.LastName, user.Email, user.PasswordHash, user.Role).
		Suffix("returning " + userColumns).
		ToSql()
	if err != nil {
		return model.User{}, err
	}
	var created model.User
	if err := r.db.GetContext(ctx, &created, q, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return model.User{}, errs.ErrLoginTaken
		}
		r.log.Error("CreateUser", zap.String("q", q), zap.Error(err))
		return model.User{}, err
	}
	return created, nil
}

func (r *repository) GetUser(ctx context.Context, id int) (model.User, error) {
	q, args, err := qb.Select(userColumns).
		From(usersTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return model.User{}, err
	}
	var user model.User
	if err := r.db.GetContext(ctx, &user, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, errs.ErrNotFound
		}
		return model.User{}, err
	}
	return user, nil
}

func (r *repository) GetUserByLogin(ctx context.Context, login string) (model.User, error) {
	q := `
	select ` + userColumns + `
	from users
	where email = $1 or user_name = $1`
	var user model.User
	if err := r.db.GetContext(ctx, &user, q, login); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, errs.ErrNotFound
		}
		return model.User{}, err
	}
	return user, nil
}

func (r *repository) ListUsers(ctx context.Context, filter model.UserFilter) ([]model.User, int, error) {
	base := func(columns ...string) sq.SelectBuilder {
		q := qb.Select(columns...).From(usersTableName)
		if filter.Search != "" {
			pattern := "%" + filter.Search + "%"
			q = q.Where(sq.Or{
				sq.ILike{"user_name": pattern},
				sq.ILike{"email": pattern},
				sq.ILike{"first_name || ' ' || last_name": pattern},
			})
		}
		if filter.Role != "" {
			q = q.Where(sq.Eq{"role": filter.Role})
		}
		return q
	}

	q := base(userColumns).OrderBy("id")
	if filter.Page > 0 && filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit)).Offset(uint64((filter.Page - 1) * filter.Limit))
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, 0, err
	}
	users := make([]model.User, 0)
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
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
	return users, total, nil
}

func (r *repository) UpdateUser(ctx context.Context, user model.User) (model.User, error) {
	q, args, err := qb.Update(usersTableName).
		SetMap(map[string]interface{}{
			"first_name": user.FirstName,
			"last_name":  user.LastName,
			"email":      user.Email,
			"role":       user.Role,
			"is_active":  user.IsActive,
			"updated_at": sq.Expr("now()"),
		}).
		Where(sq.Eq{"id": user.ID}).
		Suffix("returning " + userColumns).
		ToSql()
	if err != nil {
		return model.User{}, err
	}
	var updated model.User
	if err := r.db.GetContext(ctx, &updated, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, errs.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return model.User{}, errs.ErrLoginTaken
		}
		return model.User{}, err
	}
	return updated, nil
}

// DeactivateUser soft-deletes: borrow history must survive the account.
func (r *repository) DeactivateUser(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx,
		`update users set is_active = false, updated_at = now() where id = $1`, id)
	if err != nil {
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

func (r *repository) UpdateLastLogin(ctx context.Context, id int) error {
	_, err := r.db.ExecContext(ctx,
		`update users set last_login_at = now() where id = $1`, id)
	return err
}
