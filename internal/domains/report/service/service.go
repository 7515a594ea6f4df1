package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"lockngo/infras/otel"
	"lockngo/infras/sqlite"
	bookingModel "lockngo/internal/domains/booking/model"
	bookingDto "lockngo/internal/domains/booking/model/dto"
	bookingRepo "lockngo/internal/domains/booking/repository"
	"lockngo/internal/domains/report/model/dto"
	userModel "lockngo/internal/domains/user/model"
	userRepo "lockngo/internal/domains/user/repository"
	"lockngo/shared"
	"lockngo/shared/clock"
	"lockngo/shared/constant"
	"lockngo/shared/failure"
	"lockngo/shared/latency"
	"lockngo/shared/timezone"
	"sort"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const statsWindowDays = 7

// Report answers read-only questions over bookings and users. Each query reads
// a single consistent snapshot.
type Report interface {
	BookingsForUser(ctx context.Context, userID string) ([]bookingDto.BookingResponse, error)
	BookingsForAgent(ctx context.Context, agentID string) ([]bookingDto.BookingResponse, error)
	AdminOverview(ctx context.Context) (dto.OverviewResponse, error)
	AgentStats(ctx context.Context, agentID string) (dto.AgentStatsResponse, error)
}

type serviceImpl struct {
	db          *sqlite.DB
	bookingRepo bookingRepo.Booking
	userRepo    userRepo.User
	clock       clock.Clock
	latency     latency.Injector
	otel        otel.Otel
}

func New(
	db *sqlite.DB,
	bookingRepo bookingRepo.Booking,
	userRepo userRepo.User,
	clk clock.Clock,
	lat latency.Injector,
	otel otel.Otel,
) Report {
	return &serviceImpl{
		db:          db,
		bookingRepo: bookingRepo,
		userRepo:    userRepo,
		clock:       clk,
		latency:     lat,
		otel:        otel,
	}
}

func (s *serviceImpl) bookings(ctx context.Context, keep func(bookingModel.Booking) bool) ([]bookingModel.Booking, error) {
	var res []bookingModel.Booking

	err := s.db.View(ctx, func(tx *sqlx.Tx) error {
		all, err := s.bookingRepo.GetAll(ctx, tx)
		if err != nil {
			return err
		}

		for _, b := range all {
			if keep(b) {
				res = append(res, b)
			}
		}

		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to read bookings")

		return nil, fmt.Errorf("failed to read bookings: %w", err)
	}

	return res, nil
}

// BookingsForUser lists a customer's bookings, newest first.
func (s *serviceImpl) BookingsForUser(ctx context.Context, userID string) (res []bookingDto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".report.BookingsForUser")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.latency.Wait(ctx); err != nil {
		return res, err //nolint:wrapcheck
	}

	actor := shared.ActorFromContext(ctx)
	if actor.ID != userID && actor.Role != constant.RoleAdmin {
		return res, failure.ResourceRestrictedError
	}

	bookings, err := s.bookings(ctx, func(b bookingModel.Booking) bool {
		return b.UserID == userID
	})
	if err != nil {
		return res, err
	}

	bookingModel.SortNewestFirst(bookings)

	return bookingDto.FromModels(bookings, actor.ID, actor.Role), nil
}

// BookingsForAgent lists the agent's active jobs followed by the bookings still
// open for acceptance, each group newest first.
func (s *serviceImpl) BookingsForAgent(ctx context.Context, agentID string) (res []bookingDto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".report.BookingsForAgent")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.latency.Wait(ctx); err != nil {
		return res, err //nolint:wrapcheck
	}

	actor := shared.ActorFromContext(ctx)
	if actor.ID != agentID && actor.Role != constant.RoleAdmin {
		return res, failure.ResourceRestrictedError
	}

	bookings, err := s.bookings(ctx, func(b bookingModel.Booking) bool {
		if b.Status.IsTerminal() {
			return false
		}

		return b.AgentID == agentID || (b.Status == bookingModel.StatusCreated && !b.IsAssigned())
	})
	if err != nil {
		return res, err
	}

	bookingModel.SortNewestFirst(bookings)

	sort.SliceStable(bookings, func(i, j int) bool {
		return bookings[i].AgentID == agentID && bookings[j].AgentID != agentID
	})

	return bookingDto.FromModels(bookings, actor.ID, actor.Role), nil
}

func (s *serviceImpl) AdminOverview(ctx context.Context) (res dto.OverviewResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".report.AdminOverview")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.latency.Wait(ctx); err != nil {
		return res, err //nolint:wrapcheck
	}

	if shared.ActorFromContext(ctx).Role != constant.RoleAdmin {
		return res, failure.ForbiddenError
	}

	res.UsersByRole = map[string]int{
		constant.RoleUser:  0,
		constant.RoleAgent: 0,
		constant.RoleAdmin: 0,
	}

	err = s.db.View(ctx, func(tx *sqlx.Tx) error {
		users, err := s.userRepo.GetAll(ctx, tx)
		if err != nil {
			return err
		}

		bookings, err := s.bookingRepo.GetAll(ctx, tx)
		if err != nil {
			return err
		}

		for _, u := range users {
			res.UsersByRole[u.Role]++

			if u.IsAgent() && !u.Verified {
				res.UnverifiedAgents++
			}
		}

		for _, b := range bookings {
			if b.IsPaid() {
				res.TotalRevenue += b.Price
			}
		}

		res.TotalBookings = len(bookings)

		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to build admin overview")

		return res, fmt.Errorf("failed to build admin overview: %w", err)
	}

	res.TotalUsers = res.UsersByRole[constant.RoleUser]
	res.TotalAgents = res.UsersByRole[constant.RoleAgent]
	res.TotalRevenue = shared.RoundCents(res.TotalRevenue)

	return res, nil
}

// AgentStats summarizes an agent's completed deliveries. Days are calendar days
// in the application timezone; the weekly series ends today.
func (s *serviceImpl) AgentStats(ctx context.Context, agentID string) (res dto.AgentStatsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".report.AgentStats")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.latency.Wait(ctx); err != nil {
		return res, err //nolint:wrapcheck
	}

	actor := shared.ActorFromContext(ctx)
	if actor.ID != agentID && actor.Role != constant.RoleAdmin {
		return res, failure.ResourceRestrictedError
	}

	var (
		agent     userModel.User
		delivered []bookingModel.Booking
	)

	err = s.db.View(ctx, func(tx *sqlx.Tx) error {
		agent, err = s.userRepo.Get(ctx, tx, agentID)
		if err != nil {
			return err
		}

		bookings, err := s.bookingRepo.GetAll(ctx, tx)
		if err != nil {
			return err
		}

		for _, b := range bookings {
			if b.AgentID == agentID && b.Status == bookingModel.StatusDelivered {
				delivered = append(delivered, b)
			}
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return res, failure.NotFound("agent not found") // nolint:wrapcheck
		}

		log.Error().Err(err).Str("agent_id", agentID).Msg("failed to build agent stats")

		return res, fmt.Errorf("failed to build agent stats: %w", err)
	}

	if !agent.IsAgent() {
		return res, failure.NotFound("agent not found") // nolint:wrapcheck
	}

	now := s.clock.Now()
	first := timezone.StartOfDay(now).AddDate(0, 0, -(statsWindowDays - 1))

	res.AgentID = agent.ID
	res.Rating = agent.Rating
	res.WeeklyEarnings = make([]dto.DayEarnings, statsWindowDays)
	res.WeeklyDeliveries = make([]dto.DayDeliveries, statsWindowDays)

	for i := range statsWindowDays {
		label := first.AddDate(0, 0, i).Weekday().String()[:3]
		res.WeeklyEarnings[i].Day = label
		res.WeeklyDeliveries[i].Day = label
	}

	for _, b := range delivered {
		res.DeliveriesCompleted++
		res.TotalEarnings += b.Price

		day := timezone.DaysBetween(first, b.DeliveryTimestamp)
		if day < 0 || day >= statsWindowDays {
			continue
		}

		res.WeeklyEarnings[day].Earnings += b.Price
		res.WeeklyDeliveries[day].Deliveries++

		if day == statsWindowDays-1 {
			res.TodayEarnings += b.Price
		}
	}

	res.TotalEarnings = shared.RoundCents(res.TotalEarnings)
	res.TodayEarnings = shared.RoundCents(res.TodayEarnings)

	for i := range res.WeeklyEarnings {
		res.WeeklyEarnings[i].Earnings = shared.RoundCents(res.WeeklyEarnings[i].Earnings)
	}

	return res, nil
}
