package timezone_test

import (
	"lockngo/shared/timezone"
	"testing"
	"time"
)

func TestTimezoneInit(t *testing.T) {
	now := timezone.Now()
	if now.IsZero() {
		t.Error("Now() returned zero time")
	}

	if timezone.GetLocation() == nil {
		t.Error("GetLocation() returned nil")
	}
}

func TestSetLocation(t *testing.T) {
	defer timezone.SetLocation("UTC")

	timezone.SetLocation("Asia/Jakarta")

	if got := timezone.GetLocation().String(); got != "Asia/Jakarta" {
		t.Errorf("expected Asia/Jakarta, got %s", got)
	}

	timezone.SetLocation("Not/AZone")

	if timezone.GetLocation() != time.UTC {
		t.Error("expected unknown zone to fall back to UTC")
	}
}

func TestStartOfDayAndDaysBetween(t *testing.T) {
	timezone.SetLocation("UTC")

	ts := time.Date(2024, 3, 10, 17, 45, 0, 0, time.UTC)
	day := timezone.StartOfDay(ts)

	if !day.Equal(time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected start of day %s", day)
	}

	later := time.Date(2024, 3, 13, 1, 0, 0, 0, time.UTC)
	if n := timezone.DaysBetween(ts, later); n != 3 {
		t.Errorf("expected 3 days, got %d", n)
	}

	if n := timezone.DaysBetween(ts, ts.Add(time.Hour)); n != 0 {
		t.Errorf("expected same day, got %d", n)
	}
}

func TestTimezoneFormat(t *testing.T) {
	testTime := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	if formatted := timezone.Format(testTime, "2006-01-02 15:04:05 MST"); formatted == "" {
		t.Error("Format() returned empty string")
	}
}
