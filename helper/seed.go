package helper

import (
	"context"
	"fmt"
	"lockngo/config"
	"lockngo/infras/sqlite"
	bookingModel "lockngo/internal/domains/booking/model"
	bookingRepo "lockngo/internal/domains/booking/repository"
	paymentModel "lockngo/internal/domains/payment/model"
	paymentRepo "lockngo/internal/domains/payment/repository"
	userModel "lockngo/internal/domains/user/model"
	userRepo "lockngo/internal/domains/user/repository"
	"lockngo/shared/clock"
	"lockngo/shared/constant"
	gModel "lockngo/shared/model"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

// Seeder loads the demo accounts, bookings and payments into an empty store.
type Seeder struct {
	cfg      *config.Config
	db       *sqlite.DB
	users    userRepo.User
	bookings bookingRepo.Booking
	payments paymentRepo.Payment
	clock    clock.Clock
}

func NewSeeder(
	cfg *config.Config,
	db *sqlite.DB,
	users userRepo.User,
	bookings bookingRepo.Booking,
	payments paymentRepo.Payment,
	clk clock.Clock,
) *Seeder {
	return &Seeder{
		cfg:      cfg,
		db:       db,
		users:    users,
		bookings: bookings,
		payments: payments,
		clock:    clk,
	}
}

// Run seeds once. It does nothing when seeding is disabled or the store
// already holds users.
func (s *Seeder) Run(ctx context.Context) error {
	if !s.cfg.Lifecycle.Seed {
		return nil
	}

	now := s.clock.Now()

	users := seedUsers(now)
	bookings := seedBookings(now, users)
	payments := seedPayments(now)

	seeded := false

	err := s.db.Update(ctx, func(tx *sqlx.Tx) error {
		existing, err := s.users.GetAll(ctx, tx)
		if err != nil {
			return err
		}

		if len(existing) > 0 {
			return nil
		}

		for _, u := range users {
			if err := s.users.Insert(ctx, tx, u); err != nil {
				return err
			}
		}

		for _, b := range bookings {
			if err := s.bookings.Insert(ctx, tx, b); err != nil {
				return err
			}
		}

		for _, p := range payments {
			if err := s.payments.Insert(ctx, tx, p); err != nil {
				return err
			}
		}

		seeded = true

		return nil
	})
	if err != nil {
		return fmt.Errorf("error seeding store: %w", err)
	}

	if seeded {
		log.Info().
			Int("users", len(users)).
			Int("bookings", len(bookings)).
			Int("payments", len(payments)).
			Msg("Store seeded successfully")
	}

	return nil
}

func ago(now time.Time, ms int64) time.Time {
	return now.Add(-time.Duration(ms) * time.Millisecond)
}

func seedUsers(now time.Time) []userModel.User {
	meta := gModel.Metadata{CreatedAt: now, ModifiedAt: now, CreatedBy: constant.ContextSystem, ModifiedBy: constant.ContextSystem}

	return []userModel.User{
		{ID: "u1", Name: "John Doe", Email: "user@example.com", Role: constant.RoleUser, Metadata: meta},
		{ID: "u2", Name: "Alice Williams", Email: "alice@example.com", Role: constant.RoleUser, Metadata: meta},
		{
			ID: "a1", Name: "Jane Smith", Email: "agent@example.com", Role: constant.RoleAgent, Verified: true,
			Phone: "555-123-4567", Vehicle: "Honda Civic", Rating: 4.8, Metadata: meta,
		},
		{
			ID: "a2", Name: "Mike Johnson", Email: "mike@example.com", Role: constant.RoleAgent,
			Phone: "555-987-6543", Vehicle: "Ford Transit", Rating: 4.9, Metadata: meta,
		},
		{ID: "adm1", Name: "Admin Boss", Email: "admin@example.com", Role: constant.RoleAdmin, Metadata: meta},
	}
}

func seedBookings(now time.Time, users []userModel.User) []bookingModel.Booking {
	var jane bookingModel.AgentInfo

	for _, u := range users {
		if u.ID == "a1" {
			jane = bookingModel.NewAgentInfo(u)
		}
	}

	agent := func() *bookingModel.AgentInfo {
		info := jane

		return &info
	}

	return []bookingModel.Booking{
		{
			ID: "b1", BookingCode: "LKNG-84JG7", UserID: "u1", AgentID: "a1",
			PickupAddress: "123 Main St, Anytown USA", DropAddress: "789 Oak Ave, Anytown USA",
			LuggageWeight: 15, Price: 25.50, Status: bookingModel.StatusInTransit, PaymentStatus: bookingModel.PaymentPaid,
			QRToken: "qr_b1_secret", CreatedAt: ago(now, 86400000), PickupTimestamp: ago(now, 80400000), Agent: agent(),
		},
		{
			ID: "b2", BookingCode: "LKNG-K2F5D", UserID: "u1",
			PickupAddress: "456 Pine St, Anytown USA", DropAddress: "101 Maple Rd, Anytown USA",
			LuggageWeight: 22, Price: 35.00, Status: bookingModel.StatusCreated, PaymentStatus: bookingModel.PaymentPaid,
			QRToken: "qr_b2_secret", CreatedAt: ago(now, 3600000),
		},
		{
			ID: "b3", BookingCode: "LKNG-9BHT1", UserID: "u1", AgentID: "a1",
			PickupAddress: "222 Birch Ln, Anytown USA", DropAddress: "333 Elm Ct, Anytown USA",
			LuggageWeight: 10, Price: 18.75, Status: bookingModel.StatusDelivered, PaymentStatus: bookingModel.PaymentPaid,
			QRToken: "qr_b3_secret", CreatedAt: ago(now, 172800000), PickupTimestamp: ago(now, 162800000),
			DeliveryTimestamp: ago(now, 152800000), Agent: agent(),
		},
		{
			ID: "b4", BookingCode: "LKNG-G5T8R", UserID: "u2", AgentID: "a1",
			PickupAddress: "555 Cedar Blvd, Anytown USA", DropAddress: "888 Willow Way, Anytown USA",
			LuggageWeight: 18, Price: 29.99, Status: bookingModel.StatusAssigned, PaymentStatus: bookingModel.PaymentPaid,
			QRToken: "qr_b4_secret", CreatedAt: ago(now, 18000000), Agent: agent(),
		},
		{
			ID: "b5", BookingCode: "LKNG-X1Y2Z", UserID: "u2",
			PickupAddress: "999 Redwood Dr, Anytown USA", DropAddress: "444 Spruce Ave, Anytown USA",
			LuggageWeight: 30, Price: 45.50, Status: bookingModel.StatusCancelled, PaymentStatus: bookingModel.PaymentPending,
			QRToken: "qr_b5_secret", CreatedAt: ago(now, 259200000),
		},
	}
}

func seedPayments(now time.Time) []paymentModel.Payment {
	return []paymentModel.Payment{
		{
			ID: "p1", BookingID: "b1", UserID: "u1", Amount: 25.50, Method: "Credit Card",
			Status: bookingModel.PaymentPaid, CreatedAt: ago(now, 86400000),
		},
		{
			ID: "p3", BookingID: "b3", UserID: "u1", Amount: 18.75, Method: "PayPal",
			Status: bookingModel.PaymentPaid, CreatedAt: ago(now, 172800000),
		},
	}
}
