package repository_test

import (
	"context"
	"database/sql"
	"lockngo/config"
	"lockngo/infras/otel/mocks"
	"lockngo/infras/sqlite"
	"lockngo/internal/domains/payment/model"
	"lockngo/internal/domains/payment/repository"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentRepository(t *testing.T) {
	ctx := context.Background()
	db := sqlite.New(&config.Config{})
	repo := repository.New(mocks.NewOtel())

	require.NoError(t, db.Update(ctx, func(tx *sqlx.Tx) error {
		return repo.Insert(ctx, tx, model.Payment{ID: "p1", BookingID: "b1", Amount: 25.5})
	}))

	err := db.Update(ctx, func(tx *sqlx.Tx) error {
		return repo.Insert(ctx, tx, model.Payment{ID: "p2", BookingID: "b1", Amount: 25.5})
	})
	assert.ErrorIs(t, err, repository.ErrAlreadyCaptured)

	require.NoError(t, db.View(ctx, func(tx *sqlx.Tx) error {
		got, err := repo.GetByBooking(ctx, tx, "b1")
		require.NoError(t, err)
		assert.Equal(t, "p1", got.ID)

		_, err = repo.GetByBooking(ctx, tx, "b2")
		assert.ErrorIs(t, err, sql.ErrNoRows)

		all, err := repo.GetAll(ctx, tx)
		require.NoError(t, err)
		assert.Len(t, all, 1)

		return nil
	}))
}
