package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"lockngo/infras/otel"
	"lockngo/internal/domains/booking/model"
	"lockngo/internal/domains/booking/model/dto"
	eventModel "lockngo/internal/domains/event/model"
	"lockngo/shared"
	"lockngo/shared/constant"
	"lockngo/shared/failure"
	"lockngo/shared/validator"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

var errTransitSkipped = errors.New("booking left pickup before transit")

// mutate holds the booking lock, lets fn validate and change the booking inside
// a transaction and commits the result. onCommit runs before the lock is released.
func (s *serviceImpl) mutate(
	ctx context.Context,
	bookingID string,
	fn func(tx *sqlx.Tx) (model.Booking, error),
	onCommit func(booking model.Booking),
) (model.Booking, error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.mutate")
	defer scope.End()

	unlock := s.db.Lock(model.LockKey(bookingID))
	defer unlock()

	var booking model.Booking

	err := s.db.Update(ctx, func(tx *sqlx.Tx) error {
		before, lookupErr := s.repo.Get(ctx, tx, bookingID)

		b, err := fn(tx)
		if err != nil {
			return err
		}

		if lookupErr == nil {
			scope.SetTransition(b.ID, string(before.Status), string(b.Status))
		}

		booking = b

		return s.repo.Update(ctx, tx, b)
	})
	if err != nil {
		return booking, err
	}

	if onCommit != nil {
		onCommit(booking)
	}

	return booking, nil
}

func (s *serviceImpl) getBooking(ctx context.Context, tx *sqlx.Tx, bookingID string) (model.Booking, error) {
	booking, err := s.repo.Get(ctx, tx, bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return booking, failure.NotFound("booking not found")
		}

		return booking, err
	}

	return booking, nil
}

func invalidState(booking model.Booking, action model.Action) error {
	return failure.InvalidState(fmt.Sprintf("cannot %s a booking that is %s", action, booking.Status))
}

// Accept assigns an unclaimed booking to the calling agent.
func (s *serviceImpl) Accept(ctx context.Context, bookingID, agentID string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Accept")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetBooking(bookingID)
	scope.SetAttribute(otel.AttributeAgentID, agentID)

	if err = s.latency.Wait(ctx); err != nil {
		return res, err //nolint:wrapcheck
	}

	actor := shared.ActorFromContext(ctx)
	scope.SetActor(actor.ID, actor.Role)

	booking, err := s.mutate(ctx, bookingID, func(tx *sqlx.Tx) (model.Booking, error) {
		agent, err := s.userRepo.Get(ctx, tx, agentID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return model.Booking{}, failure.NotFound("agent not found")
			}

			return model.Booking{}, err
		}

		if !agent.IsAgent() {
			return model.Booking{}, failure.Forbidden("only agents can accept bookings")
		}

		if actor.ID != agentID {
			return model.Booking{}, failure.Forbidden("agents can only accept bookings for themselves")
		}

		booking, err := s.getBooking(ctx, tx, bookingID)
		if err != nil {
			return booking, err
		}

		if booking.IsAssigned() {
			return booking, failure.AlreadyAssigned("booking already assigned")
		}

		next, ok := booking.Status.Apply(model.ActionAccept)
		if !ok {
			return booking, invalidState(booking, model.ActionAccept)
		}

		info := model.NewAgentInfo(agent)
		booking.AgentID = agent.ID
		booking.Agent = &info
		booking.Status = next

		return booking, nil
	}, nil)
	if err != nil {
		return res, fail(err, bookingID, "failed to accept booking")
	}

	s.publish(ctx, booking, eventModel.TypeBookingAssigned, actor.ID)

	res.FromModel(booking, actor.ID, actor.Role)

	return res, nil
}

// VerifyPickup checks the QR token presented at pickup and starts the pickup.
// The booking moves on to In Transit on its own after the configured delay.
func (s *serviceImpl) VerifyPickup(ctx context.Context, bookingID string, req dto.VerifyPickupRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.VerifyPickup")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetBooking(bookingID)

	if err = s.latency.Wait(ctx); err != nil {
		return res, err //nolint:wrapcheck
	}

	if err = validator.ValidateStruct(&req); err != nil {
		return res, err //nolint:wrapcheck
	}

	actor := shared.ActorFromContext(ctx)
	scope.SetActor(actor.ID, actor.Role)
	if actor.Role != constant.RoleAgent {
		return res, failure.Forbidden("only agents can verify a pickup") // nolint:wrapcheck
	}

	booking, err := s.mutate(ctx, bookingID, func(tx *sqlx.Tx) (model.Booking, error) {
		booking, err := s.getBooking(ctx, tx, bookingID)
		if err != nil {
			return booking, err
		}

		if booking.IsAssigned() && booking.AgentID != actor.ID {
			return booking, failure.Forbidden("booking is assigned to another agent")
		}

		if !MatchQRToken(booking.QRToken, req.QRToken) {
			log.Warn().Str("booking_id", bookingID).Str("agent_id", actor.ID).Msg("qr token mismatch")

			return booking, failure.InvalidToken("qr token does not match this booking")
		}

		next, ok := booking.Status.Apply(model.ActionVerifyPickup)
		if !ok {
			return booking, invalidState(booking, model.ActionVerifyPickup)
		}

		booking.Status = next
		booking.PickupTimestamp = s.clock.Now()

		return booking, nil
	}, func(booking model.Booking) {
		s.scheduler.Schedule(booking.ID, s.transitDelay(), func() {
			s.startTransit(booking.ID)
		})
	})
	if err != nil {
		return res, fail(err, bookingID, "failed to verify pickup")
	}

	s.publish(ctx, booking, eventModel.TypePickupStarted, actor.ID)

	res.FromModel(booking, actor.ID, actor.Role)

	return res, nil
}

// startTransit is the timer callback. It only applies while the booking is
// still in Pickup Started, so a cancellation in between wins.
func (s *serviceImpl) startTransit(bookingID string) {
	ctx, scope := s.otel.NewScope(context.Background(), constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.StartTransit")
	defer scope.End()

	scope.SetBooking(bookingID)

	booking, err := s.mutate(ctx, bookingID, func(tx *sqlx.Tx) (model.Booking, error) {
		booking, err := s.getBooking(ctx, tx, bookingID)
		if err != nil {
			return booking, err
		}

		next, ok := booking.Status.Apply(model.ActionStartTransit)
		if !ok {
			return booking, fmt.Errorf("%w: status is %s", errTransitSkipped, booking.Status)
		}

		booking.Status = next

		return booking, nil
	}, nil)
	if err != nil {
		if errors.Is(err, errTransitSkipped) {
			log.Info().Err(err).Str("booking_id", bookingID).Msg("transit timer fired, nothing to do")

			return
		}

		scope.TraceError(err)
		log.Error().Err(err).Str("booking_id", bookingID).Msg("failed to start transit")

		return
	}

	s.publish(ctx, booking, eventModel.TypeInTransit, "")
}

func (s *serviceImpl) MarkDelivered(ctx context.Context, bookingID string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.MarkDelivered")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetBooking(bookingID)

	if err = s.latency.Wait(ctx); err != nil {
		return res, err //nolint:wrapcheck
	}

	actor := shared.ActorFromContext(ctx)
	scope.SetActor(actor.ID, actor.Role)
	if actor.Role != constant.RoleAgent {
		return res, failure.Forbidden("only agents can deliver bookings") // nolint:wrapcheck
	}

	booking, err := s.mutate(ctx, bookingID, func(tx *sqlx.Tx) (model.Booking, error) {
		booking, err := s.getBooking(ctx, tx, bookingID)
		if err != nil {
			return booking, err
		}

		if booking.IsAssigned() && booking.AgentID != actor.ID {
			return booking, failure.Forbidden("only the assigned agent can deliver this booking")
		}

		next, ok := booking.Status.Apply(model.ActionDeliver)
		if !ok {
			return booking, invalidState(booking, model.ActionDeliver)
		}

		booking.Status = next
		booking.DeliveryTimestamp = s.clock.Now()

		return booking, nil
	}, nil)
	if err != nil {
		return res, fail(err, bookingID, "failed to deliver booking")
	}

	s.publish(ctx, booking, eventModel.TypeBookingDelivered, actor.ID)

	res.FromModel(booking, actor.ID, actor.Role)

	return res, nil
}

// Cancel stops a booking that has not finished yet and drops its pending transit timer.
func (s *serviceImpl) Cancel(ctx context.Context, bookingID string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Cancel")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetBooking(bookingID)

	if err = s.latency.Wait(ctx); err != nil {
		return res, err //nolint:wrapcheck
	}

	actor := shared.ActorFromContext(ctx)
	scope.SetActor(actor.ID, actor.Role)

	booking, err := s.mutate(ctx, bookingID, func(tx *sqlx.Tx) (model.Booking, error) {
		booking, err := s.getBooking(ctx, tx, bookingID)
		if err != nil {
			return booking, err
		}

		if booking.UserID != actor.ID && actor.Role != constant.RoleAdmin {
			return booking, failure.Forbidden("only the owner or an admin can cancel this booking")
		}

		next, ok := booking.Status.Apply(model.ActionCancel)
		if !ok {
			return booking, invalidState(booking, model.ActionCancel)
		}

		booking.Status = next

		return booking, nil
	}, func(booking model.Booking) {
		if s.scheduler.Cancel(booking.ID) {
			log.Info().Str("booking_id", booking.ID).Msg("pending transit cancelled")
		}
	})
	if err != nil {
		return res, fail(err, bookingID, "failed to cancel booking")
	}

	s.publish(ctx, booking, eventModel.TypeBookingCancelled, actor.ID)

	res.FromModel(booking, actor.ID, actor.Role)

	return res, nil
}
