package service_test

import (
	"context"
	"lockngo/config"
	"lockngo/infras/otel/mocks"
	"lockngo/infras/sqlite"
	"lockngo/internal/domains/booking/model"
	"lockngo/internal/domains/booking/model/dto"
	"lockngo/internal/domains/booking/repository"
	"lockngo/internal/domains/booking/service"
	eventMocks "lockngo/internal/domains/event/mocks"
	eventModel "lockngo/internal/domains/event/model"
	userModel "lockngo/internal/domains/user/model"
	userRepo "lockngo/internal/domains/user/repository"
	"lockngo/shared"
	clockMocks "lockngo/shared/clock/mocks"
	"lockngo/shared/constant"
	"lockngo/shared/failure"
	generatorMocks "lockngo/shared/generator/mocks"
	"lockngo/shared/latency"
	"lockngo/shared/scheduler"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var start = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

type env struct {
	svc       service.Booking
	db        *sqlite.DB
	repo      repository.Booking
	users     userRepo.User
	clock     *clockMocks.Clock
	gen       *generatorMocks.Generator
	sched     scheduler.Scheduler
	publisher *eventMocks.MockPublisher
}

func newConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Lifecycle.BaseFee = 15
	cfg.Lifecycle.RatePerKg = 0.35
	cfg.Lifecycle.PickupTransitDelayMs = 3000

	return cfg
}

func newEnv(t *testing.T) *env {
	t.Helper()

	ctx := context.Background()
	db := sqlite.New(&config.Config{})
	ot := mocks.NewOtel()
	users := userRepo.New(ot)
	repo := repository.New(ot)

	seed := []userModel.User{
		{ID: "u1", Name: "John Doe", Email: "user@example.com", Role: constant.RoleUser},
		{ID: "u2", Name: "Alice Williams", Email: "alice@example.com", Role: constant.RoleUser},
		{ID: "a1", Name: "Jane Smith", Email: "agent@example.com", Role: constant.RoleAgent, Verified: true,
			Phone: "555-123-4567", Vehicle: "Honda Civic", Rating: 4.8},
		{ID: "a2", Name: "Mike Johnson", Email: "mike@example.com", Role: constant.RoleAgent,
			Phone: "555-987-6543", Vehicle: "Ford Transit", Rating: 4.9},
		{ID: "adm1", Name: "Admin Boss", Email: "admin@example.com", Role: constant.RoleAdmin},
	}

	require.NoError(t, db.Update(ctx, func(tx *sqlx.Tx) error {
		for _, u := range seed {
			if err := users.Insert(ctx, tx, u); err != nil {
				return err
			}
		}

		return nil
	}))

	clk := clockMocks.NewClock(start)
	gen := generatorMocks.NewGenerator()
	sched := scheduler.New(clk)

	ctrl := gomock.NewController(t)
	publisher := eventMocks.NewMockPublisher(ctrl)
	publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).AnyTimes()

	svc := service.New(newConfig(), db, repo, users, gen, clk, sched, latency.None(), publisher, ot)

	return &env{svc: svc, db: db, repo: repo, users: users, clock: clk, gen: gen, sched: sched, publisher: publisher}
}

func as(id, role string) context.Context {
	return shared.WithActor(context.Background(), id, role)
}

var (
	customer  = as("u1", constant.RoleUser)
	customer2 = as("u2", constant.RoleUser)
	agent     = as("a1", constant.RoleAgent)
	agent2    = as("a2", constant.RoleAgent)
	admin     = as("adm1", constant.RoleAdmin)
)

func (e *env) load(t *testing.T, id string) model.Booking {
	t.Helper()

	var booking model.Booking

	require.NoError(t, e.db.View(context.Background(), func(tx *sqlx.Tx) error {
		var err error
		booking, err = e.repo.Get(context.Background(), tx, id)

		return err
	}))

	assertInvariants(t, booking)

	return booking
}

func assertInvariants(t *testing.T, b model.Booking) {
	t.Helper()

	switch b.Status {
	case model.StatusCreated:
		assert.Empty(t, b.AgentID)
		assert.True(t, b.PickupTimestamp.IsZero())
	case model.StatusAssigned:
		assert.NotEmpty(t, b.AgentID)
		assert.NotNil(t, b.Agent)
		assert.True(t, b.PickupTimestamp.IsZero())
	case model.StatusPickupStarted, model.StatusInTransit:
		assert.NotEmpty(t, b.AgentID)
		assert.False(t, b.PickupTimestamp.IsZero())
	case model.StatusDelivered:
		assert.NotEmpty(t, b.AgentID)
		assert.False(t, b.PickupTimestamp.IsZero())
		assert.False(t, b.DeliveryTimestamp.IsZero())
	}

	if b.Status != model.StatusDelivered {
		assert.True(t, b.DeliveryTimestamp.IsZero())
	}
}

func (e *env) create(t *testing.T) dto.BookingResponse {
	t.Helper()

	res, err := e.svc.Create(customer, dto.CreateBookingRequest{
		CustomerID:    "u1",
		PickupAddress: "123 Main St, Anytown USA",
		DropAddress:   "789 Oak Ave, Anytown USA",
		LuggageWeight: 10,
	})
	require.NoError(t, err)

	return res
}

// inTransit walks a fresh booking to In Transit.
func (e *env) inTransit(t *testing.T) dto.BookingResponse {
	t.Helper()

	created := e.create(t)

	_, err := e.svc.Accept(agent, created.ID, "a1")
	require.NoError(t, err)

	_, err = e.svc.VerifyPickup(agent, created.ID, dto.VerifyPickupRequest{QRToken: created.QRToken})
	require.NoError(t, err)

	e.clock.Advance(3 * time.Second)
	require.Equal(t, model.StatusInTransit, e.load(t, created.ID).Status)

	return created
}

func TestCreate(t *testing.T) {
	e := newEnv(t)

	res := e.create(t)

	assert.Equal(t, "Created", res.Status)
	assert.Equal(t, "Pending", res.PaymentStatus)
	assert.InDelta(t, 18.5, res.Price, 0.0001)
	assert.True(t, strings.HasPrefix(res.BookingCode, "LKNG-"))
	assert.NotEmpty(t, res.QRToken)
	assert.Empty(t, res.AgentID)
	assert.Nil(t, res.Agent)
	assert.Equal(t, start.Format(constant.DateFormat), res.CreatedAt)

	stored := e.load(t, res.ID)
	assert.Equal(t, "u1", stored.UserID)
	assert.Equal(t, res.QRToken, stored.QRToken)
}

func TestCreate_Guards(t *testing.T) {
	valid := dto.CreateBookingRequest{
		CustomerID:    "u1",
		PickupAddress: "123 Main St",
		DropAddress:   "789 Oak Ave",
		LuggageWeight: 22,
	}

	tests := []struct {
		name     string
		ctx      context.Context
		mutate   func(r *dto.CreateBookingRequest)
		wantKind failure.Kind
	}{
		{name: "customer books for self", ctx: customer},
		{name: "admin books for customer", ctx: admin},
		{
			name:     "validation runs before authorization",
			ctx:      customer2,
			mutate:   func(r *dto.CreateBookingRequest) { r.LuggageWeight = 0 },
			wantKind: failure.KindValidation,
		},
		{
			name:     "blank address",
			ctx:      customer,
			mutate:   func(r *dto.CreateBookingRequest) { r.DropAddress = " " },
			wantKind: failure.KindValidation,
		},
		{name: "other customer", ctx: customer2, wantKind: failure.KindRole},
		{name: "agent", ctx: agent, wantKind: failure.KindRole},
		{
			name:     "unknown customer",
			ctx:      admin,
			mutate:   func(r *dto.CreateBookingRequest) { r.CustomerID = "ghost" },
			wantKind: failure.KindNotFound,
		},
		{
			name:     "customer is an agent",
			ctx:      admin,
			mutate:   func(r *dto.CreateBookingRequest) { r.CustomerID = "a1" },
			wantKind: failure.KindRole,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)

			req := valid
			if tt.mutate != nil {
				tt.mutate(&req)
			}

			res, err := e.svc.Create(tt.ctx, req)
			if tt.wantKind == "" {
				require.NoError(t, err)
				assert.InDelta(t, 22.7, res.Price, 0.0001)

				return
			}

			require.Error(t, err)
			assert.Equal(t, tt.wantKind, failure.GetKind(err))

			require.NoError(t, e.db.View(context.Background(), func(tx *sqlx.Tx) error {
				all, err := e.repo.GetAll(context.Background(), tx)
				assert.Empty(t, all)

				return err
			}))
		})
	}
}

func TestCreate_RetriesCodeCollision(t *testing.T) {
	e := newEnv(t)
	e.gen.Codes = []string{"LKNG-AAAAA", "LKNG-AAAAA", "LKNG-BBBBB"}

	first := e.create(t)
	second := e.create(t)

	assert.Equal(t, "LKNG-AAAAA", first.BookingCode)
	assert.Equal(t, "LKNG-BBBBB", second.BookingCode)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestCreate_ConcurrentCodeCollision(t *testing.T) {
	e := newEnv(t)
	e.gen.Codes = []string{"LKNG-DUP01", "LKNG-DUP01", "LKNG-NEW01"}

	var wg sync.WaitGroup

	codes := make([]string, 2)
	errs := make([]error, 2)

	for i := range codes {
		wg.Add(1)

		go func() {
			defer wg.Done()

			res, err := e.svc.Create(customer, dto.CreateBookingRequest{
				CustomerID:    "u1",
				PickupAddress: "123 Main St",
				DropAddress:   "789 Oak Ave",
				LuggageWeight: 5,
			})
			codes[i], errs[i] = res.BookingCode, err
		}()
	}

	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.ElementsMatch(t, []string{"LKNG-DUP01", "LKNG-NEW01"}, codes)
}

func TestAccept(t *testing.T) {
	e := newEnv(t)
	created := e.create(t)

	res, err := e.svc.Accept(agent, created.ID, "a1")
	require.NoError(t, err)

	assert.Equal(t, "Assigned", res.Status)
	assert.Equal(t, "a1", res.AgentID)
	assert.Empty(t, res.QRToken)
	require.NotNil(t, res.Agent)
	assert.Equal(t, dto.AgentInfoResponse{
		ID: "a1", Name: "Jane Smith", Phone: "555-123-4567", Rating: 4.8, Vehicle: "Honda Civic", Verified: true,
	}, *res.Agent)

	// later profile changes do not touch the snapshot
	require.NoError(t, e.db.Update(context.Background(), func(tx *sqlx.Tx) error {
		u, err := e.users.Get(context.Background(), tx, "a1")
		if err != nil {
			return err
		}

		u.Vehicle = "Tesla Model Y"

		return e.users.Update(context.Background(), tx, u)
	}))

	assert.Equal(t, "Honda Civic", e.load(t, created.ID).Agent.Vehicle)
}

func TestAccept_Guards(t *testing.T) {
	tests := []struct {
		name     string
		ctx      context.Context
		agentID  string
		prepare  func(t *testing.T, e *env, id string) string
		wantKind failure.Kind
	}{
		{name: "unknown agent", ctx: agent, agentID: "ghost", wantKind: failure.KindNotFound},
		{name: "target is not an agent", ctx: customer, agentID: "u1", wantKind: failure.KindRole},
		{name: "accepting for someone else", ctx: agent2, agentID: "a1", wantKind: failure.KindRole},
		{
			name:    "unknown booking",
			ctx:     agent,
			agentID: "a1",
			prepare: func(*testing.T, *env, string) string {
				return "missing"
			},
			wantKind: failure.KindNotFound,
		},
		{
			name:    "already assigned",
			ctx:     agent2,
			agentID: "a2",
			prepare: func(t *testing.T, e *env, id string) string {
				_, err := e.svc.Accept(agent, id, "a1")
				require.NoError(t, err)

				return id
			},
			wantKind: failure.KindAlreadyAssigned,
		},
		{
			name:    "cancelled before assignment",
			ctx:     agent,
			agentID: "a1",
			prepare: func(t *testing.T, e *env, id string) string {
				_, err := e.svc.Cancel(customer, id)
				require.NoError(t, err)

				return id
			},
			wantKind: failure.KindInvalidState,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)
			id := e.create(t).ID

			if tt.prepare != nil {
				id = tt.prepare(t, e, id)
			}

			_, err := e.svc.Accept(tt.ctx, id, tt.agentID)
			require.Error(t, err)
			assert.Equal(t, tt.wantKind, failure.GetKind(err))
		})
	}
}

func TestAccept_Concurrent(t *testing.T) {
	for range 20 {
		e := newEnv(t)
		id := e.create(t).ID

		type result struct {
			agentID string
			err     error
		}

		results := make(chan result, 2)

		for _, a := range []struct {
			ctx context.Context
			id  string
		}{{agent, "a1"}, {agent2, "a2"}} {
			go func() {
				_, err := e.svc.Accept(a.ctx, id, a.id)
				results <- result{agentID: a.id, err: err}
			}()
		}

		var winners []string

		for range 2 {
			r := <-results
			if r.err == nil {
				winners = append(winners, r.agentID)

				continue
			}

			assert.ErrorIs(t, r.err, failure.ErrAlreadyAssigned)
		}

		require.Len(t, winners, 1)

		stored := e.load(t, id)
		assert.Equal(t, winners[0], stored.AgentID)
		assert.Equal(t, winners[0], stored.Agent.ID)
	}
}

func TestVerifyPickup(t *testing.T) {
	e := newEnv(t)
	created := e.create(t)

	_, err := e.svc.Accept(agent, created.ID, "a1")
	require.NoError(t, err)

	_, err = e.svc.VerifyPickup(agent, created.ID, dto.VerifyPickupRequest{QRToken: "qr_wrong"})
	assert.ErrorIs(t, err, failure.ErrInvalidToken)

	_, err = e.svc.VerifyPickup(agent, created.ID, dto.VerifyPickupRequest{QRToken: strings.ToUpper(created.QRToken)})
	assert.ErrorIs(t, err, failure.ErrInvalidToken)

	untouched := e.load(t, created.ID)
	assert.Equal(t, model.StatusAssigned, untouched.Status)
	assert.True(t, untouched.PickupTimestamp.IsZero())
	assert.False(t, e.sched.Pending(created.ID))

	e.clock.Advance(time.Minute)
	pickupAt := start.Add(time.Minute)

	res, err := e.svc.VerifyPickup(agent, created.ID, dto.VerifyPickupRequest{QRToken: created.QRToken})
	require.NoError(t, err)
	assert.Equal(t, "Pickup Started", res.Status)
	require.NotNil(t, res.PickupTimestamp)
	assert.Equal(t, pickupAt.Format(constant.DateFormat), *res.PickupTimestamp)
	assert.True(t, e.sched.Pending(created.ID))

	e.clock.Advance(2999 * time.Millisecond)
	assert.Equal(t, model.StatusPickupStarted, e.load(t, created.ID).Status)

	e.clock.Advance(time.Millisecond)

	moved := e.load(t, created.ID)
	assert.Equal(t, model.StatusInTransit, moved.Status)
	assert.WithinDuration(t, pickupAt, moved.PickupTimestamp, 0)
	assert.False(t, e.sched.Pending(created.ID))

	// a used token cannot start a second pickup
	_, err = e.svc.VerifyPickup(agent, created.ID, dto.VerifyPickupRequest{QRToken: created.QRToken})
	assert.ErrorIs(t, err, failure.ErrInvalidState)
}

func TestVerifyPickup_Guards(t *testing.T) {
	t.Run("customer cannot verify", func(t *testing.T) {
		e := newEnv(t)
		created := e.create(t)

		_, err := e.svc.VerifyPickup(customer, created.ID, dto.VerifyPickupRequest{QRToken: created.QRToken})
		assert.ErrorIs(t, err, failure.ErrRole)
	})

	t.Run("other agent cannot verify", func(t *testing.T) {
		e := newEnv(t)
		created := e.create(t)

		_, err := e.svc.Accept(agent, created.ID, "a1")
		require.NoError(t, err)

		_, err = e.svc.VerifyPickup(agent2, created.ID, dto.VerifyPickupRequest{QRToken: created.QRToken})
		assert.ErrorIs(t, err, failure.ErrRole)
	})

	t.Run("unassigned booking", func(t *testing.T) {
		e := newEnv(t)
		created := e.create(t)

		_, err := e.svc.VerifyPickup(agent, created.ID, dto.VerifyPickupRequest{QRToken: created.QRToken})
		assert.ErrorIs(t, err, failure.ErrInvalidState)
		assert.Equal(t, model.StatusCreated, e.load(t, created.ID).Status)
	})

	t.Run("missing token", func(t *testing.T) {
		e := newEnv(t)
		created := e.create(t)

		_, err := e.svc.VerifyPickup(agent, created.ID, dto.VerifyPickupRequest{})
		assert.ErrorIs(t, err, failure.ErrValidation)
	})

	t.Run("unknown booking", func(t *testing.T) {
		e := newEnv(t)

		_, err := e.svc.VerifyPickup(agent, "missing", dto.VerifyPickupRequest{QRToken: "qr"})
		assert.ErrorIs(t, err, failure.ErrNotFound)
	})
}

func TestCancel_BeforeTransitTimer(t *testing.T) {
	e := newEnv(t)
	created := e.create(t)

	_, err := e.svc.Accept(agent, created.ID, "a1")
	require.NoError(t, err)

	_, err = e.svc.VerifyPickup(agent, created.ID, dto.VerifyPickupRequest{QRToken: created.QRToken})
	require.NoError(t, err)

	e.clock.Advance(time.Second)

	res, err := e.svc.Cancel(customer, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cancelled", res.Status)
	assert.False(t, e.sched.Pending(created.ID))

	e.clock.Advance(5 * time.Second)

	stored := e.load(t, created.ID)
	assert.Equal(t, model.StatusCancelled, stored.Status)
	assert.Equal(t, "a1", stored.AgentID)
	assert.WithinDuration(t, start, stored.PickupTimestamp, 0)
}

func TestTransitTimer_RevalidatesState(t *testing.T) {
	e := newEnv(t)
	created := e.create(t)

	_, err := e.svc.Accept(agent, created.ID, "a1")
	require.NoError(t, err)

	_, err = e.svc.VerifyPickup(agent, created.ID, dto.VerifyPickupRequest{QRToken: created.QRToken})
	require.NoError(t, err)

	// cancel behind the scheduler's back, the timer must still leave the booking alone
	require.NoError(t, e.db.Update(context.Background(), func(tx *sqlx.Tx) error {
		b, err := e.repo.Get(context.Background(), tx, created.ID)
		if err != nil {
			return err
		}

		b.Status = model.StatusCancelled

		return e.repo.Update(context.Background(), tx, b)
	}))

	e.clock.Advance(3 * time.Second)

	assert.Equal(t, model.StatusCancelled, e.load(t, created.ID).Status)
}

func TestMarkDelivered(t *testing.T) {
	e := newEnv(t)
	created := e.inTransit(t)

	_, err := e.svc.MarkDelivered(agent2, created.ID)
	assert.ErrorIs(t, err, failure.ErrRole)

	_, err = e.svc.MarkDelivered(customer, created.ID)
	assert.ErrorIs(t, err, failure.ErrRole)

	e.clock.Advance(time.Hour)

	res, err := e.svc.MarkDelivered(agent, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Delivered", res.Status)
	require.NotNil(t, res.DeliveryTimestamp)
	assert.Equal(t, e.clock.Now().Format(constant.DateFormat), *res.DeliveryTimestamp)

	_, err = e.svc.MarkDelivered(agent, created.ID)
	assert.ErrorIs(t, err, failure.ErrInvalidState)

	delivered := e.load(t, created.ID)

	_, err = e.svc.Cancel(admin, created.ID)
	assert.ErrorIs(t, err, failure.ErrInvalidState)

	_, err = e.svc.Cancel(customer, created.ID)
	assert.ErrorIs(t, err, failure.ErrInvalidState)

	assert.Equal(t, delivered, e.load(t, created.ID))
}

func TestMarkDelivered_UnassignedIsInvalidState(t *testing.T) {
	e := newEnv(t)

	open := e.create(t)

	_, err := e.svc.MarkDelivered(agent, open.ID)
	assert.ErrorIs(t, err, failure.ErrInvalidState)

	cancelled := e.create(t)

	_, err = e.svc.Cancel(customer, cancelled.ID)
	require.NoError(t, err)

	_, err = e.svc.MarkDelivered(agent2, cancelled.ID)
	assert.ErrorIs(t, err, failure.ErrInvalidState)

	for _, id := range []string{open.ID, cancelled.ID} {
		stored := e.load(t, id)
		assert.Empty(t, stored.AgentID)
		assert.True(t, stored.DeliveryTimestamp.IsZero())
	}
}

func TestMarkDelivered_RequiresInTransit(t *testing.T) {
	e := newEnv(t)
	created := e.create(t)

	_, err := e.svc.Accept(agent, created.ID, "a1")
	require.NoError(t, err)

	_, err = e.svc.MarkDelivered(agent, created.ID)
	assert.ErrorIs(t, err, failure.ErrInvalidState)

	_, err = e.svc.VerifyPickup(agent, created.ID, dto.VerifyPickupRequest{QRToken: created.QRToken})
	require.NoError(t, err)

	_, err = e.svc.MarkDelivered(agent, created.ID)
	assert.ErrorIs(t, err, failure.ErrInvalidState)

	stored := e.load(t, created.ID)
	assert.Equal(t, model.StatusPickupStarted, stored.Status)
	assert.True(t, stored.DeliveryTimestamp.IsZero())
}

func TestCancel(t *testing.T) {
	e := newEnv(t)
	created := e.create(t)

	_, err := e.svc.Cancel(customer2, created.ID)
	assert.ErrorIs(t, err, failure.ErrRole)

	_, err = e.svc.Cancel(agent, created.ID)
	assert.ErrorIs(t, err, failure.ErrRole)

	_, err = e.svc.Cancel(admin, "missing")
	assert.ErrorIs(t, err, failure.ErrNotFound)

	res, err := e.svc.Cancel(admin, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cancelled", res.Status)

	_, err = e.svc.Cancel(customer, created.ID)
	assert.ErrorIs(t, err, failure.ErrInvalidState)
}

func TestGet_Visibility(t *testing.T) {
	e := newEnv(t)
	created := e.create(t)

	tests := []struct {
		name      string
		ctx       context.Context
		wantErr   bool
		wantToken bool
	}{
		{name: "owner", ctx: customer, wantToken: true},
		{name: "admin", ctx: admin, wantToken: true},
		{name: "agent sees unclaimed job", ctx: agent},
		{name: "other customer", ctx: customer2, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := e.svc.Get(tt.ctx, created.ID)
			if tt.wantErr {
				assert.ErrorIs(t, err, failure.ErrRole)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantToken, res.QRToken != "")
		})
	}

	_, err := e.svc.Accept(agent, created.ID, "a1")
	require.NoError(t, err)

	_, err = e.svc.Get(agent2, created.ID)
	assert.ErrorIs(t, err, failure.ErrRole)

	_, err = e.svc.Get(agent, created.ID)
	assert.NoError(t, err)

	_, err = e.svc.Get(admin, "missing")
	assert.ErrorIs(t, err, failure.ErrNotFound)
}

func TestGetByCode(t *testing.T) {
	e := newEnv(t)
	e.gen.Codes = []string{"LKNG-84JG7"}
	created := e.create(t)

	res, err := e.svc.GetByCode(customer, "LKNG-84JG7")
	require.NoError(t, err)
	assert.Equal(t, created.ID, res.ID)
	assert.Equal(t, created.QRToken, res.QRToken)

	res, err = e.svc.GetByCode(customer, "  lkng-84jg7 ")
	require.NoError(t, err)
	assert.Equal(t, created.ID, res.ID)

	_, err = e.svc.GetByCode(customer2, "LKNG-84JG7")
	assert.ErrorIs(t, err, failure.ErrRole)

	_, err = e.svc.GetByCode(admin, "LKNG-00000")
	assert.ErrorIs(t, err, failure.ErrNotFound)

	_, err = e.svc.Accept(agent, created.ID, "a1")
	require.NoError(t, err)

	res, err = e.svc.GetByCode(agent, "LKNG-84JG7")
	require.NoError(t, err)
	assert.Empty(t, res.QRToken)

	_, err = e.svc.GetByCode(agent2, "LKNG-84JG7")
	assert.ErrorIs(t, err, failure.ErrRole)
}

func TestGetAll_NewestFirst(t *testing.T) {
	e := newEnv(t)

	first := e.create(t)
	e.clock.Advance(time.Minute)
	second := e.create(t)
	third := e.create(t)

	_, err := e.svc.GetAll(customer)
	assert.ErrorIs(t, err, failure.ErrRole)

	res, err := e.svc.GetAll(admin)
	require.NoError(t, err)
	require.Len(t, res, 3)

	assert.Equal(t, []string{third.ID, second.ID, first.ID}, []string{res[0].ID, res[1].ID, res[2].ID})
}

func TestPublishesLifecycleEvents(t *testing.T) {
	ctx := context.Background()
	db := sqlite.New(&config.Config{})
	ot := mocks.NewOtel()
	users := userRepo.New(ot)
	repo := repository.New(ot)

	require.NoError(t, db.Update(ctx, func(tx *sqlx.Tx) error {
		if err := users.Insert(ctx, tx, userModel.User{ID: "u1", Email: "u1@example.com", Role: constant.RoleUser}); err != nil {
			return err
		}

		return users.Insert(ctx, tx, userModel.User{ID: "a1", Email: "a1@example.com", Role: constant.RoleAgent})
	}))

	clk := clockMocks.NewClock(start)
	ctrl := gomock.NewController(t)
	publisher := eventMocks.NewMockPublisher(ctrl)

	var types []eventModel.Type

	publisher.EXPECT().
		Publish(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, events ...eventModel.Event) {
			for _, evt := range events {
				types = append(types, evt.Type)
			}
		}).
		AnyTimes()

	svc := service.New(newConfig(), db, repo, users, generatorMocks.NewGenerator(), clk, scheduler.New(clk), latency.None(), publisher, ot)

	created, err := svc.Create(customer, dto.CreateBookingRequest{
		CustomerID: "u1", PickupAddress: "a", DropAddress: "b", LuggageWeight: 1,
	})
	require.NoError(t, err)

	_, err = svc.Accept(agent, created.ID, "a1")
	require.NoError(t, err)

	_, err = svc.VerifyPickup(agent, created.ID, dto.VerifyPickupRequest{QRToken: created.QRToken})
	require.NoError(t, err)

	clk.Advance(3 * time.Second)

	_, err = svc.MarkDelivered(agent, created.ID)
	require.NoError(t, err)

	_, err = svc.Cancel(customer, created.ID)
	require.Error(t, err)

	assert.Equal(t, []eventModel.Type{
		eventModel.TypeBookingCreated,
		eventModel.TypeBookingAssigned,
		eventModel.TypePickupStarted,
		eventModel.TypeInTransit,
		eventModel.TypeBookingDelivered,
	}, types)
}

func TestMatchQRToken(t *testing.T) {
	assert.True(t, service.MatchQRToken("qr_abc", "qr_abc"))
	assert.False(t, service.MatchQRToken("qr_abc", "QR_ABC"))
	assert.False(t, service.MatchQRToken("qr_abc", "qr_ab"))
	assert.False(t, service.MatchQRToken("", ""))
}

func TestPrice(t *testing.T) {
	cfg := newConfig()

	assert.InDelta(t, 18.5, service.Price(cfg, 10), 0.0001)
	assert.InDelta(t, 15.35, service.Price(cfg, 1), 0.0001)
	assert.InDelta(t, 25.5, service.Price(cfg, 30), 0.0001)
}
