package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"lockngo/config"
	"lockngo/infras/otel"
	"lockngo/infras/sqlite"
	"lockngo/internal/domains/booking/model"
	"lockngo/internal/domains/booking/model/dto"
	"lockngo/internal/domains/booking/repository"
	eventModel "lockngo/internal/domains/event/model"
	eventService "lockngo/internal/domains/event/service"
	userRepo "lockngo/internal/domains/user/repository"
	"lockngo/shared"
	"lockngo/shared/clock"
	"lockngo/shared/constant"
	"lockngo/shared/failure"
	"lockngo/shared/generator"
	"lockngo/shared/latency"
	"lockngo/shared/scheduler"
	"lockngo/shared/validator"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const maxCodeAttempts = 5

// Booking drives a booking through its lifecycle. Operations on the same
// booking are serialized; a failed operation leaves the booking untouched.
type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	Accept(ctx context.Context, bookingID, agentID string) (dto.BookingResponse, error)
	VerifyPickup(ctx context.Context, bookingID string, req dto.VerifyPickupRequest) (dto.BookingResponse, error)
	MarkDelivered(ctx context.Context, bookingID string) (dto.BookingResponse, error)
	Cancel(ctx context.Context, bookingID string) (dto.BookingResponse, error)
	Get(ctx context.Context, bookingID string) (dto.BookingResponse, error)
	GetByCode(ctx context.Context, code string) (dto.BookingResponse, error)
	GetAll(ctx context.Context) ([]dto.BookingResponse, error)
}

type serviceImpl struct {
	cfg       *config.Config
	db        *sqlite.DB
	repo      repository.Booking
	userRepo  userRepo.User
	generator generator.Generator
	clock     clock.Clock
	scheduler scheduler.Scheduler
	latency   latency.Injector
	publisher eventService.Publisher
	otel      otel.Otel
}

func New(
	cfg *config.Config,
	db *sqlite.DB,
	repo repository.Booking,
	userRepo userRepo.User,
	gen generator.Generator,
	clk clock.Clock,
	sched scheduler.Scheduler,
	lat latency.Injector,
	publisher eventService.Publisher,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		cfg:       cfg,
		db:        db,
		repo:      repo,
		userRepo:  userRepo,
		generator: gen,
		clock:     clk,
		scheduler: sched,
		latency:   lat,
		publisher: publisher,
		otel:      otel,
	}
}

// Price is the fixed-formula fare for a luggage weight, rounded to cents.
func Price(cfg *config.Config, weight float64) float64 {
	return shared.RoundCents(cfg.Lifecycle.BaseFee + cfg.Lifecycle.RatePerKg*weight)
}

func (s *serviceImpl) transitDelay() time.Duration {
	return time.Duration(s.cfg.Lifecycle.PickupTransitDelayMs) * time.Millisecond
}

// fail passes domain failures through and logs and wraps anything else.
func fail(err error, bookingID, msg string) error {
	var f *failure.Failure
	if errors.As(err, &f) {
		return err
	}

	log.Error().Err(err).Str("booking_id", bookingID).Msg(msg)

	return fmt.Errorf("%s: %w", msg, err)
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.latency.Wait(ctx); err != nil {
		return res, err //nolint:wrapcheck
	}

	if err = validator.ValidateStruct(&req); err != nil {
		return res, err //nolint:wrapcheck
	}

	actor := shared.ActorFromContext(ctx)
	if actor.ID != req.CustomerID && actor.Role != constant.RoleAdmin {
		return res, failure.Forbidden("bookings can only be created by the customer or an admin") // nolint:wrapcheck
	}

	now := s.clock.Now()
	booking := model.Booking{
		ID:            s.generator.ID(),
		UserID:        req.CustomerID,
		PickupAddress: req.PickupAddress,
		DropAddress:   req.DropAddress,
		LuggageWeight: req.LuggageWeight,
		Price:         Price(s.cfg, req.LuggageWeight),
		Status:        model.StatusCreated,
		PaymentStatus: model.PaymentPending,
		QRToken:       s.generator.QRToken(),
		CreatedAt:     now,
	}

	for attempt := 1; attempt <= maxCodeAttempts; attempt++ {
		booking.BookingCode = s.generator.BookingCode()

		err = s.db.Update(ctx, func(tx *sqlx.Tx) error {
			customer, err := s.userRepo.Get(ctx, tx, req.CustomerID)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return failure.NotFound("customer not found")
				}

				return err
			}

			if !customer.IsCustomer() {
				return failure.Forbidden("bookings can only be made for customers")
			}

			return s.repo.Insert(ctx, tx, booking)
		})
		if !errors.Is(err, repository.ErrDuplicateCode) {
			break
		}

		log.Warn().Str("code", booking.BookingCode).Int("attempt", attempt).Msg("booking code collision, retrying")
	}

	if err != nil {
		return res, fail(err, booking.ID, "failed to create booking")
	}

	scope.SetBooking(booking.ID)

	s.publish(ctx, booking, eventModel.TypeBookingCreated, actor.ID)

	res.FromModel(booking, actor.ID, actor.Role)

	return res, nil
}

// Get returns a booking visible to the caller: its owner, its agent, any agent
// while it is still unclaimed, and admins.
func (s *serviceImpl) Get(ctx context.Context, bookingID string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetBooking(bookingID)

	return s.show(ctx, bookingID, func(tx *sqlx.Tx) (model.Booking, error) {
		return s.repo.Get(ctx, tx, bookingID)
	})
}

// GetByCode is Get keyed by the booking code printed on the customer's QR
// page. Codes are matched case-insensitively.
func (s *serviceImpl) GetByCode(ctx context.Context, code string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.GetByCode")
	defer scope.End()
	defer scope.TraceIfError(err)

	code = strings.ToUpper(strings.TrimSpace(code))
	scope.SetAttribute(otel.AttributeBookingCode, code)

	return s.show(ctx, code, func(tx *sqlx.Tx) (model.Booking, error) {
		return s.repo.GetByCode(ctx, tx, code)
	})
}

func (s *serviceImpl) show(
	ctx context.Context,
	key string,
	lookup func(tx *sqlx.Tx) (model.Booking, error),
) (res dto.BookingResponse, err error) {
	if err = s.latency.Wait(ctx); err != nil {
		return res, err //nolint:wrapcheck
	}

	actor := shared.ActorFromContext(ctx)

	var booking model.Booking

	err = s.db.View(ctx, func(tx *sqlx.Tx) error {
		booking, err = lookup(tx)

		return err
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return res, failure.NotFound("booking not found") // nolint:wrapcheck
		}

		return res, fail(err, key, "failed to get booking")
	}

	if !visibleTo(actor, booking) {
		return res, failure.ResourceRestrictedError
	}

	res.FromModel(booking, actor.ID, actor.Role)

	return res, nil
}

func visibleTo(actor shared.Actor, booking model.Booking) bool {
	switch actor.Role {
	case constant.RoleAdmin:
		return true
	case constant.RoleUser:
		return booking.UserID == actor.ID
	case constant.RoleAgent:
		return booking.AgentID == actor.ID || (booking.Status == model.StatusCreated && !booking.IsAssigned())
	default:
		return false
	}
}

// GetAll lists every booking, newest first. Admin only.
func (s *serviceImpl) GetAll(ctx context.Context) (res []dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.latency.Wait(ctx); err != nil {
		return res, err //nolint:wrapcheck
	}

	actor := shared.ActorFromContext(ctx)
	if actor.Role != constant.RoleAdmin {
		return res, failure.ForbiddenError
	}

	var bookings []model.Booking

	err = s.db.View(ctx, func(tx *sqlx.Tx) error {
		bookings, err = s.repo.GetAll(ctx, tx)

		return err
	})
	if err != nil {
		return res, fail(err, "", "failed to get bookings")
	}

	model.SortNewestFirst(bookings)

	return dto.FromModels(bookings, actor.ID, actor.Role), nil
}

func (s *serviceImpl) publish(ctx context.Context, booking model.Booking, typ eventModel.Type, actorID string) {
	s.publisher.Publish(ctx, eventModel.Event{
		Type:       typ,
		EntityID:   booking.ID,
		ActorID:    actorID,
		Status:     string(booking.Status),
		OccurredAt: s.clock.Now(),
		Data: map[string]any{
			"booking_code":   booking.BookingCode,
			"user_id":        booking.UserID,
			"agent_id":       booking.AgentID,
			"price":          booking.Price,
			"payment_status": string(booking.PaymentStatus),
		},
	})
}
