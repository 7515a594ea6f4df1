package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"lockngo/infras/otel"
	"lockngo/infras/sqlite"
	bookingModel "lockngo/internal/domains/booking/model"
	"lockngo/internal/domains/payment/model"
	"lockngo/shared/constant"
	"lockngo/shared/logger"

	"github.com/jmoiron/sqlx"
)

var ErrAlreadyCaptured = errors.New("booking already has a payment")

const columns = "id, booking_id, user_id, amount, method, status, created_at"

type Payment interface {
	Insert(ctx context.Context, tx *sqlx.Tx, payment model.Payment) error
	GetByBooking(ctx context.Context, tx *sqlx.Tx, bookingID string) (model.Payment, error)
	GetAll(ctx context.Context, tx *sqlx.Tx) ([]model.Payment, error)
}

type repositoryImpl struct {
	otel otel.Otel
}

func New(otel otel.Otel) Payment {
	return &repositoryImpl{otel: otel}
}

type row struct {
	ID        string        `db:"id"`
	BookingID string        `db:"booking_id"`
	UserID    string        `db:"user_id"`
	Amount    float64       `db:"amount"`
	Method    string        `db:"method"`
	Status    string        `db:"status"`
	CreatedAt sql.NullInt64 `db:"created_at"`
}

func (r row) toModel() model.Payment {
	return model.Payment{
		ID:        r.ID,
		BookingID: r.BookingID,
		UserID:    r.UserID,
		Amount:    r.Amount,
		Method:    r.Method,
		Status:    bookingModel.PaymentStatus(r.Status),
		CreatedAt: sqlite.Time(r.CreatedAt),
	}
}

// Insert stores a payment. A booking holds at most one payment.
func (r *repositoryImpl) Insert(ctx context.Context, tx *sqlx.Tx, payment model.Payment) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".payment.Insert")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetBooking(payment.BookingID)

	query := "INSERT INTO " + model.TableName + " (" + columns + ") VALUES " +
		"(:id, :booking_id, :user_id, :amount, :method, :status, :created_at)"
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	_, err = tx.NamedExecContext(ctx, query, row{
		ID:        payment.ID,
		BookingID: payment.BookingID,
		UserID:    payment.UserID,
		Amount:    payment.Amount,
		Method:    payment.Method,
		Status:    string(payment.Status),
		CreatedAt: sqlite.NullTime(payment.CreatedAt),
	})
	if err != nil {
		if sqlite.IsUniqueViolation(err) {
			return ErrAlreadyCaptured
		}

		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to insert payment: %w", err)
	}

	return nil
}

func (r *repositoryImpl) GetByBooking(ctx context.Context, tx *sqlx.Tx, bookingID string) (payment model.Payment, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".payment.GetByBooking")
	defer scope.End()

	scope.SetBooking(bookingID)

	var result row

	query := "SELECT " + columns + " FROM " + model.TableName + " WHERE booking_id = ?"
	if err = tx.GetContext(ctx, &result, query, bookingID); err != nil {
		return payment, fmt.Errorf("failed to find payment: %w", err)
	}

	return result.toModel(), nil
}

// GetAll returns payments in capture order.
func (r *repositoryImpl) GetAll(ctx context.Context, tx *sqlx.Tx) ([]model.Payment, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".payment.GetAll")
	defer scope.End()

	query := "SELECT " + columns + " FROM " + model.TableName + " ORDER BY rowid"
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var rows []row
	if err := tx.SelectContext(ctx, &rows, query); err != nil {
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to list payments: %w", err)
	}

	payments := make([]model.Payment, 0, len(rows))
	for _, item := range rows {
		payments = append(payments, item.toModel())
	}

	return payments, nil
}
