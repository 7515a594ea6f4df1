package dto

import (
	"lockngo/shared/constant"
	"lockngo/shared/model"
	"lockngo/shared/timezone"
	"time"
)

type Metadata struct {
	CreatedAt  string `json:"created_at"`
	ModifiedAt string `json:"modified_at"`
	CreatedBy  string `json:"created_by"`
	ModifiedBy string `json:"modified_by"`
}

func (m *Metadata) FromModel(model model.Metadata) {
	m.CreatedAt = timezone.Format(model.CreatedAt, constant.DateFormat)
	m.ModifiedAt = timezone.Format(model.ModifiedAt, constant.DateFormat)
	m.CreatedBy = model.CreatedBy
	m.ModifiedBy = model.ModifiedBy
}

// FormatTime renders an optional timestamp, nil when unset.
func FormatTime(t time.Time) *string {
	if t.IsZero() {
		return nil
	}

	s := timezone.Format(t, constant.DateFormat)

	return &s
}
