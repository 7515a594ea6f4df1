package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"lockngo/config"
	"lockngo/infras/otel"
	"lockngo/infras/sqlite"
	bookingModel "lockngo/internal/domains/booking/model"
	bookingRepo "lockngo/internal/domains/booking/repository"
	eventModel "lockngo/internal/domains/event/model"
	eventService "lockngo/internal/domains/event/service"
	"lockngo/internal/domains/payment/gateway"
	"lockngo/internal/domains/payment/model"
	"lockngo/internal/domains/payment/model/dto"
	"lockngo/internal/domains/payment/repository"
	"lockngo/shared"
	"lockngo/shared/clock"
	"lockngo/shared/constant"
	"lockngo/shared/failure"
	"lockngo/shared/generator"
	"lockngo/shared/latency"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

type Payment interface {
	Capture(ctx context.Context, bookingID string) (dto.PaymentResponse, error)
	ListForUser(ctx context.Context, userID string) ([]dto.PaymentResponse, error)
}

type serviceImpl struct {
	cfg         *config.Config
	db          *sqlite.DB
	repo        repository.Payment
	bookingRepo bookingRepo.Booking
	gateway     gateway.Gateway
	generator   generator.Generator
	clock       clock.Clock
	latency     latency.Injector
	publisher   eventService.Publisher
	otel        otel.Otel
}

func New(
	cfg *config.Config,
	db *sqlite.DB,
	repo repository.Payment,
	bookingRepo bookingRepo.Booking,
	gw gateway.Gateway,
	gen generator.Generator,
	clk clock.Clock,
	lat latency.Injector,
	publisher eventService.Publisher,
	otel otel.Otel,
) Payment {
	return &serviceImpl{
		cfg:         cfg,
		db:          db,
		repo:        repo,
		bookingRepo: bookingRepo,
		gateway:     gw,
		generator:   gen,
		clock:       clk,
		latency:     lat,
		publisher:   publisher,
		otel:        otel,
	}
}

func fail(err error, bookingID, msg string) error {
	var f *failure.Failure
	if errors.As(err, &f) {
		return err
	}

	log.Error().Err(err).Str("booking_id", bookingID).Msg(msg)

	return fmt.Errorf("%s: %w", msg, err)
}

func (s *serviceImpl) loadBooking(ctx context.Context, tx *sqlx.Tx, bookingID string) (bookingModel.Booking, error) {
	booking, err := s.bookingRepo.Get(ctx, tx, bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return booking, failure.NotFound("booking not found")
		}

		return booking, err
	}

	return booking, nil
}

// Capture charges the booking price through the gateway and marks the booking
// paid. The booking lock is held for the whole capture, so a booking is charged
// at most once and never while it is being cancelled.
func (s *serviceImpl) Capture(ctx context.Context, bookingID string) (res dto.PaymentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".payment.Capture")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetBooking(bookingID)

	if err = s.latency.Wait(ctx); err != nil {
		return res, err //nolint:wrapcheck
	}

	actor := shared.ActorFromContext(ctx)
	scope.SetActor(actor.ID, actor.Role)

	unlock := s.db.Lock(bookingModel.LockKey(bookingID))
	defer unlock()

	var booking bookingModel.Booking

	err = s.db.View(ctx, func(tx *sqlx.Tx) error {
		booking, err = s.loadBooking(ctx, tx, bookingID)

		return err
	})
	if err != nil {
		return res, fail(err, bookingID, "failed to get booking")
	}

	if booking.UserID != actor.ID && actor.Role != constant.RoleAdmin {
		return res, failure.Forbidden("only the booking owner can pay for it") // nolint:wrapcheck
	}

	if booking.IsPaid() {
		return res, failure.InvalidState("booking is already paid") // nolint:wrapcheck
	}

	if booking.Status == bookingModel.StatusCancelled {
		return res, failure.InvalidState("cannot pay for a cancelled booking") // nolint:wrapcheck
	}

	approved, err := s.gateway.Charge(ctx, gateway.Charge{
		BookingID:  booking.ID,
		CustomerID: booking.UserID,
		Amount:     booking.Price,
		Method:     s.cfg.Lifecycle.PaymentMethod,
	})
	if err != nil {
		log.Error().Err(err).Str("booking_id", bookingID).Msg("payment gateway failed")

		return res, fmt.Errorf("payment gateway failed: %w", err)
	}

	if !approved {
		return res, failure.PaymentDeclined("payment was declined") // nolint:wrapcheck
	}

	payment := model.Payment{
		ID:        s.generator.ID(),
		BookingID: booking.ID,
		UserID:    booking.UserID,
		Amount:    booking.Price,
		Method:    s.cfg.Lifecycle.PaymentMethod,
		Status:    bookingModel.PaymentPaid,
		CreatedAt: s.clock.Now(),
	}

	err = s.db.Update(ctx, func(tx *sqlx.Tx) error {
		current, err := s.loadBooking(ctx, tx, bookingID)
		if err != nil {
			return err
		}

		current.PaymentStatus = bookingModel.PaymentPaid
		booking = current

		if err := s.bookingRepo.Update(ctx, tx, current); err != nil {
			return err
		}

		return s.repo.Insert(ctx, tx, payment)
	})
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyCaptured) {
			return res, failure.InvalidState("booking is already paid") // nolint:wrapcheck
		}

		return res, fail(err, bookingID, "failed to record payment")
	}

	s.publisher.Publish(ctx, eventModel.Event{
		Type:       eventModel.TypePaymentCaptured,
		EntityID:   booking.ID,
		ActorID:    actor.ID,
		Status:     string(booking.Status),
		OccurredAt: payment.CreatedAt,
		Data: map[string]any{
			"payment_id":     payment.ID,
			"amount":         payment.Amount,
			"method":         payment.Method,
			"payment_status": string(booking.PaymentStatus),
		},
	})

	res.FromModel(payment)

	return res, nil
}

// ListForUser returns a customer's payments in capture order.
func (s *serviceImpl) ListForUser(ctx context.Context, userID string) (res []dto.PaymentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".payment.ListForUser")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.latency.Wait(ctx); err != nil {
		return res, err //nolint:wrapcheck
	}

	actor := shared.ActorFromContext(ctx)
	if actor.ID != userID && actor.Role != constant.RoleAdmin {
		return res, failure.ResourceRestrictedError
	}

	var payments []model.Payment

	err = s.db.View(ctx, func(tx *sqlx.Tx) error {
		all, err := s.repo.GetAll(ctx, tx)
		if err != nil {
			return err
		}

		for _, p := range all {
			if p.UserID == userID {
				payments = append(payments, p)
			}
		}

		return nil
	})
	if err != nil {
		return res, fail(err, "", "failed to list payments")
	}

	return dto.FromModels(payments), nil
}
