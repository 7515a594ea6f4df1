package generator

import (
	"crypto/rand"
	"encoding/hex"
	"math/big"
	"strings"

	"github.com/google/uuid"
)

const (
	BookingCodePrefix = "LKNG-"
	bookingCodeLength = 5
	bookingCodeChars  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	qrTokenPrefix     = "qr_"
	qrTokenBytes      = 24
)

// Generator produces identifiers and secrets for new records.
type Generator interface {
	ID() string
	BookingCode() string
	QRToken() string
}

type randomGenerator struct{}

func New() Generator {
	return randomGenerator{}
}

func (randomGenerator) ID() string {
	return uuid.NewString()
}

func (randomGenerator) BookingCode() string {
	var sb strings.Builder

	sb.WriteString(BookingCodePrefix)

	limit := big.NewInt(int64(len(bookingCodeChars)))
	for range bookingCodeLength {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			// crypto/rand never fails on supported platforms; uuid bytes are a safe fallback
			return BookingCodePrefix + strings.ToUpper(uuid.NewString()[:bookingCodeLength])
		}

		sb.WriteByte(bookingCodeChars[n.Int64()])
	}

	return sb.String()
}

func (randomGenerator) QRToken() string {
	buf := make([]byte, qrTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return qrTokenPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")
	}

	return qrTokenPrefix + hex.EncodeToString(buf)
}
