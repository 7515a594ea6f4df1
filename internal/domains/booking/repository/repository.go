package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"lockngo/infras/otel"
	"lockngo/infras/sqlite"
	"lockngo/internal/domains/booking/model"
	"lockngo/shared/constant"
	"lockngo/shared/logger"

	"github.com/jmoiron/sqlx"
)

var ErrDuplicateCode = errors.New("booking code already in use")

const columns = "id, booking_code, user_id, agent_id, pickup_address, drop_address, luggage_weight, price, " +
	"status, payment_status, qr_token, agent, created_at, pickup_timestamp, delivery_timestamp"

type Booking interface {
	Insert(ctx context.Context, tx *sqlx.Tx, booking model.Booking) error
	Get(ctx context.Context, tx *sqlx.Tx, id string) (model.Booking, error)
	GetByCode(ctx context.Context, tx *sqlx.Tx, code string) (model.Booking, error)
	GetAll(ctx context.Context, tx *sqlx.Tx) ([]model.Booking, error)
	Update(ctx context.Context, tx *sqlx.Tx, booking model.Booking) error
}

type repositoryImpl struct {
	otel otel.Otel
}

func New(otel otel.Otel) Booking {
	return &repositoryImpl{otel: otel}
}

type row struct {
	ID                string         `db:"id"`
	BookingCode       string         `db:"booking_code"`
	UserID            string         `db:"user_id"`
	AgentID           string         `db:"agent_id"`
	PickupAddress     string         `db:"pickup_address"`
	DropAddress       string         `db:"drop_address"`
	LuggageWeight     float64        `db:"luggage_weight"`
	Price             float64        `db:"price"`
	Status            string         `db:"status"`
	PaymentStatus     string         `db:"payment_status"`
	QRToken           string         `db:"qr_token"`
	Agent             sql.NullString `db:"agent"`
	CreatedAt         sql.NullInt64  `db:"created_at"`
	PickupTimestamp   sql.NullInt64  `db:"pickup_timestamp"`
	DeliveryTimestamp sql.NullInt64  `db:"delivery_timestamp"`
}

func toRow(booking model.Booking) (row, error) {
	result := row{
		ID:                booking.ID,
		BookingCode:       booking.BookingCode,
		UserID:            booking.UserID,
		AgentID:           booking.AgentID,
		PickupAddress:     booking.PickupAddress,
		DropAddress:       booking.DropAddress,
		LuggageWeight:     booking.LuggageWeight,
		Price:             booking.Price,
		Status:            string(booking.Status),
		PaymentStatus:     string(booking.PaymentStatus),
		QRToken:           booking.QRToken,
		CreatedAt:         sqlite.NullTime(booking.CreatedAt),
		PickupTimestamp:   sqlite.NullTime(booking.PickupTimestamp),
		DeliveryTimestamp: sqlite.NullTime(booking.DeliveryTimestamp),
	}

	if booking.Agent != nil {
		agent, err := json.Marshal(booking.Agent)
		if err != nil {
			return result, fmt.Errorf("failed to encode agent snapshot: %w", err)
		}

		result.Agent = sql.NullString{String: string(agent), Valid: true}
	}

	return result, nil
}

func (r row) toModel() (model.Booking, error) {
	booking := model.Booking{
		ID:                r.ID,
		BookingCode:       r.BookingCode,
		UserID:            r.UserID,
		AgentID:           r.AgentID,
		PickupAddress:     r.PickupAddress,
		DropAddress:       r.DropAddress,
		LuggageWeight:     r.LuggageWeight,
		Price:             r.Price,
		Status:            model.Status(r.Status),
		PaymentStatus:     model.PaymentStatus(r.PaymentStatus),
		QRToken:           r.QRToken,
		CreatedAt:         sqlite.Time(r.CreatedAt),
		PickupTimestamp:   sqlite.Time(r.PickupTimestamp),
		DeliveryTimestamp: sqlite.Time(r.DeliveryTimestamp),
	}

	if r.Agent.Valid {
		var agent model.AgentInfo
		if err := json.Unmarshal([]byte(r.Agent.String), &agent); err != nil {
			return booking, fmt.Errorf("failed to decode agent snapshot: %w", err)
		}

		booking.Agent = &agent
	}

	return booking, nil
}

// Insert stores a new booking. A taken booking code fails with ErrDuplicateCode.
func (r *repositoryImpl) Insert(ctx context.Context, tx *sqlx.Tx, booking model.Booking) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.Insert")
	defer scope.End()
	defer scope.TraceIfError(err)

	value, err := toRow(booking)
	if err != nil {
		return err
	}

	query := "INSERT INTO " + model.TableName + " (" + columns + ") VALUES " +
		"(:id, :booking_code, :user_id, :agent_id, :pickup_address, :drop_address, :luggage_weight, :price, " +
		":status, :payment_status, :qr_token, :agent, :created_at, :pickup_timestamp, :delivery_timestamp)"
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if _, err = tx.NamedExecContext(ctx, query, value); err != nil {
		if sqlite.IsUniqueViolation(err) {
			return r.duplicate(ctx, tx, booking)
		}

		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to insert booking: %w", err)
	}

	return nil
}

// duplicate tells a taken booking code apart from a reused booking id.
func (r *repositoryImpl) duplicate(ctx context.Context, tx *sqlx.Tx, booking model.Booking) error {
	if _, err := r.getOne(ctx, tx, "booking_code = ?", booking.BookingCode); err == nil {
		return ErrDuplicateCode
	}

	return fmt.Errorf("failed to insert booking: id %s already exists", booking.ID)
}

func (r *repositoryImpl) Get(ctx context.Context, tx *sqlx.Tx, id string) (booking model.Booking, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.Get")
	defer scope.End()

	scope.SetBooking(id)

	return r.getOne(ctx, tx, "id = ?", id)
}

func (r *repositoryImpl) GetByCode(ctx context.Context, tx *sqlx.Tx, code string) (booking model.Booking, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.GetByCode")
	defer scope.End()

	scope.SetAttribute(otel.AttributeBookingCode, code)

	return r.getOne(ctx, tx, "booking_code = ?", code)
}

func (r *repositoryImpl) getOne(ctx context.Context, tx *sqlx.Tx, where string, arg any) (model.Booking, error) {
	var result row

	query := "SELECT " + columns + " FROM " + model.TableName + " WHERE " + where

	if err := tx.GetContext(ctx, &result, query, arg); err != nil {
		return model.Booking{}, fmt.Errorf("failed to get booking: %w", err)
	}

	return result.toModel()
}

// GetAll returns bookings in insertion order.
func (r *repositoryImpl) GetAll(ctx context.Context, tx *sqlx.Tx) ([]model.Booking, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.GetAll")
	defer scope.End()

	query := "SELECT " + columns + " FROM " + model.TableName + " ORDER BY rowid"
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var rows []row
	if err := tx.SelectContext(ctx, &rows, query); err != nil {
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	bookings := make([]model.Booking, 0, len(rows))

	for _, item := range rows {
		booking, err := item.toModel()
		if err != nil {
			return nil, err
		}

		bookings = append(bookings, booking)
	}

	return bookings, nil
}

// Update replaces an existing booking. The booking code is immutable.
func (r *repositoryImpl) Update(ctx context.Context, tx *sqlx.Tx, booking model.Booking) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetBooking(booking.ID)
	scope.SetAttribute(otel.AttributeBookingStatus, string(booking.Status))

	current, err := r.getOne(ctx, tx, "id = ?", booking.ID)
	if err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}

	if current.BookingCode != booking.BookingCode {
		return errors.New("failed to update booking: booking code cannot change")
	}

	value, err := toRow(booking)
	if err != nil {
		return err
	}

	query := "UPDATE " + model.TableName + " SET user_id = :user_id, agent_id = :agent_id, " +
		"pickup_address = :pickup_address, drop_address = :drop_address, luggage_weight = :luggage_weight, " +
		"price = :price, status = :status, payment_status = :payment_status, qr_token = :qr_token, " +
		"agent = :agent, created_at = :created_at, pickup_timestamp = :pickup_timestamp, " +
		"delivery_timestamp = :delivery_timestamp WHERE id = :id"
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if _, err = tx.NamedExecContext(ctx, query, value); err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}

	return nil
}
