package mocks

import (
	"fmt"
	"sync"
)

// Generator returns predictable, sequential values.
type Generator struct {
	mu    sync.Mutex
	ids   int
	codes int
	qrs   int

	// Codes, when set, is consumed before falling back to sequential codes.
	Codes []string
}

func NewGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) ID() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.ids++

	return fmt.Sprintf("id-%d", g.ids)
}

func (g *Generator) BookingCode() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.Codes) > 0 {
		code := g.Codes[0]
		g.Codes = g.Codes[1:]

		return code
	}

	g.codes++

	return fmt.Sprintf("LKNG-T%04d", g.codes)
}

func (g *Generator) QRToken() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.qrs++

	return fmt.Sprintf("qr_test_%d", g.qrs)
}
