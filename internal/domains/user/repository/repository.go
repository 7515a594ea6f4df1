package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"lockngo/infras/otel"
	"lockngo/infras/sqlite"
	"lockngo/internal/domains/user/model"
	"lockngo/shared/constant"
	"lockngo/shared/logger"
	"strings"

	"github.com/jmoiron/sqlx"
)

var ErrDuplicateEmail = errors.New("email already registered")

const columns = "id, name, email, role, verified, phone, vehicle, rating, created_at, modified_at, created_by, modified_by"

type User interface {
	Insert(ctx context.Context, tx *sqlx.Tx, user model.User) error
	Get(ctx context.Context, tx *sqlx.Tx, id string) (model.User, error)
	GetByEmail(ctx context.Context, tx *sqlx.Tx, email string) (model.User, error)
	GetAll(ctx context.Context, tx *sqlx.Tx) ([]model.User, error)
	Update(ctx context.Context, tx *sqlx.Tx, user model.User) error
}

type repositoryImpl struct {
	otel otel.Otel
}

func New(otel otel.Otel) User {
	return &repositoryImpl{otel: otel}
}

type row struct {
	ID         string        `db:"id"`
	Name       string        `db:"name"`
	Email      string        `db:"email"`
	Role       string        `db:"role"`
	Verified   bool          `db:"verified"`
	Phone      string        `db:"phone"`
	Vehicle    string        `db:"vehicle"`
	Rating     float64       `db:"rating"`
	CreatedAt  sql.NullInt64 `db:"created_at"`
	ModifiedAt sql.NullInt64 `db:"modified_at"`
	CreatedBy  string        `db:"created_by"`
	ModifiedBy string        `db:"modified_by"`
}

func toRow(user model.User) row {
	return row{
		ID:         user.ID,
		Name:       user.Name,
		Email:      user.Email,
		Role:       user.Role,
		Verified:   user.Verified,
		Phone:      user.Phone,
		Vehicle:    user.Vehicle,
		Rating:     user.Rating,
		CreatedAt:  sqlite.NullTime(user.CreatedAt),
		ModifiedAt: sqlite.NullTime(user.ModifiedAt),
		CreatedBy:  user.CreatedBy,
		ModifiedBy: user.ModifiedBy,
	}
}

func (r row) toModel() model.User {
	user := model.User{
		ID:       r.ID,
		Name:     r.Name,
		Email:    r.Email,
		Role:     r.Role,
		Verified: r.Verified,
		Phone:    r.Phone,
		Vehicle:  r.Vehicle,
		Rating:   r.Rating,
	}

	user.CreatedAt = sqlite.Time(r.CreatedAt)
	user.ModifiedAt = sqlite.Time(r.ModifiedAt)
	user.CreatedBy = r.CreatedBy
	user.ModifiedBy = r.ModifiedBy

	return user
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Insert stores a new user. Emails are unique regardless of case.
func (r *repositoryImpl) Insert(ctx context.Context, tx *sqlx.Tx, user model.User) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".user.Insert")
	defer scope.End()
	defer scope.TraceIfError(err)

	user.Email = strings.TrimSpace(user.Email)

	query := "INSERT INTO " + model.TableName + " (" + columns + ") VALUES " +
		"(:id, :name, :email, :role, :verified, :phone, :vehicle, :rating, :created_at, :modified_at, :created_by, :modified_by)"
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if _, err = tx.NamedExecContext(ctx, query, toRow(user)); err != nil {
		if sqlite.IsUniqueViolation(err) {
			return ErrDuplicateEmail
		}

		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

func (r *repositoryImpl) Get(ctx context.Context, tx *sqlx.Tx, id string) (user model.User, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".user.Get")
	defer scope.End()

	scope.SetAttribute("user.id", id)

	return r.getOne(ctx, tx, "id = ?", id)
}

func (r *repositoryImpl) GetByEmail(ctx context.Context, tx *sqlx.Tx, email string) (user model.User, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".user.GetByEmail")
	defer scope.End()

	return r.getOne(ctx, tx, "lower(email) = ?", emailKey(email))
}

func (r *repositoryImpl) getOne(ctx context.Context, tx *sqlx.Tx, where string, arg any) (model.User, error) {
	var result row

	query := "SELECT " + columns + " FROM " + model.TableName + " WHERE " + where

	if err := tx.GetContext(ctx, &result, query, arg); err != nil {
		return model.User{}, fmt.Errorf("failed to get user: %w", err)
	}

	return result.toModel(), nil
}

// GetAll returns users in insertion order.
func (r *repositoryImpl) GetAll(ctx context.Context, tx *sqlx.Tx) ([]model.User, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".user.GetAll")
	defer scope.End()

	query := "SELECT " + columns + " FROM " + model.TableName + " ORDER BY rowid"
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var rows []row
	if err := tx.SelectContext(ctx, &rows, query); err != nil {
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]model.User, 0, len(rows))
	for _, item := range rows {
		users = append(users, item.toModel())
	}

	return users, nil
}

// Update replaces an existing user. The email is immutable.
func (r *repositoryImpl) Update(ctx context.Context, tx *sqlx.Tx, user model.User) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".user.Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	current, err := r.getOne(ctx, tx, "id = ?", user.ID)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	if emailKey(current.Email) != emailKey(user.Email) {
		return errors.New("failed to update user: email cannot change")
	}

	user.Email = current.Email

	query := "UPDATE " + model.TableName + " SET name = :name, role = :role, verified = :verified, phone = :phone, " +
		"vehicle = :vehicle, rating = :rating, created_at = :created_at, modified_at = :modified_at, " +
		"created_by = :created_by, modified_by = :modified_by WHERE id = :id"
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if _, err = tx.NamedExecContext(ctx, query, toRow(user)); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	return nil
}
