package gateway

//go:generate go run go.uber.org/mock/mockgen -source=./gateway.go -destination=../mocks/gateway_mock.go -package=mocks

import (
	"context"
	"lockngo/shared/latency"

	"github.com/rs/zerolog/log"
)

type Charge struct {
	BookingID  string
	CustomerID string
	Amount     float64
	Method     string
}

// Gateway authorizes a charge. A false result with a nil error is a decline.
type Gateway interface {
	Charge(ctx context.Context, charge Charge) (bool, error)
}

type mockedGateway struct {
	latency latency.Injector
}

// NewMocked returns a gateway that approves every charge with a positive amount.
func NewMocked(lat latency.Injector) Gateway {
	return &mockedGateway{
		latency: lat,
	}
}

func (g *mockedGateway) Charge(ctx context.Context, charge Charge) (bool, error) {
	if err := g.latency.Wait(ctx); err != nil {
		return false, err //nolint:wrapcheck
	}

	approved := charge.Amount > 0

	log.Info().
		Str("booking_id", charge.BookingID).
		Float64("amount", charge.Amount).
		Str("method", charge.Method).
		Bool("approved", approved).
		Msg("mocked charge")

	return approved, nil
}
