package model

import "time"

type Metadata struct {
	CreatedAt  time.Time
	ModifiedAt time.Time
	CreatedBy  string
	ModifiedBy string
}

// Touch stamps the modification fields.
func (m *Metadata) Touch(at time.Time, by string) {
	m.ModifiedAt = at
	m.ModifiedBy = by
}
