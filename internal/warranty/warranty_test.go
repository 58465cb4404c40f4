package warranty

import (
	"testing"
	"time"

	"github.com/Zlatonn/warranty-checker/internal/model"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestDaysBetweenSameDay(t *testing.T) {
	d := date("2024-03-15")
	if got := DaysBetween(d, d); got != 0 {
		t.Errorf("expected 0 for same day, got %d", got)
	}
}

func TestDaysBetweenIgnoresTimeOfDay(t *testing.T) {
	morning := time.Date(2024, 3, 15, 1, 0, 0, 0, time.UTC)
	evening := time.Date(2024, 3, 15, 23, 59, 0, 0, time.UTC)

	target := date("2024-03-20")
	if DaysBetween(morning, target) != DaysBetween(evening, target) {
		t.Error("expected same result regardless of wall-clock time")
	}
	if got := DaysBetween(evening, target); got != 5 {
		t.Errorf("expected 5, got %d", got)
	}
}

func TestDaysBetweenNegative(t *testing.T) {
	if got := DaysBetween(date("2024-01-15"), date("2024-01-01")); got != -14 {
		t.Errorf("expected -14, got %d", got)
	}
}

func TestClassifyAdjustment(t *testing.T) {
	// Same-day expiry counts as one remaining day.
	daysLeft, state := Classify(0)
	if daysLeft != 1 {
		t.Errorf("expected daysLeft 1 for raw 0, got %d", daysLeft)
	}
	if state != model.StateNearExpire {
		t.Errorf("expected nearExpire, got %q", state)
	}

	// Expired items keep the unadjusted negative distance.
	daysLeft, state = Classify(-14)
	if daysLeft != -14 {
		t.Errorf("expected daysLeft -14, got %d", daysLeft)
	}
	if state != model.StateExpired {
		t.Errorf("expected expired, got %q", state)
	}
}

func TestClassifyBoundaries(t *testing.T) {
	tests := []struct {
		raw      int
		daysLeft int
		state    string
	}{
		{30, 31, model.StateWarranty},
		{29, 30, model.StateWarranty},
		{28, 29, model.StateNearExpire},
		{0, 1, model.StateNearExpire},
		{-1, -1, model.StateExpired},
	}

	for _, tt := range tests {
		daysLeft, state := Classify(tt.raw)
		if daysLeft != tt.daysLeft || state != tt.state {
			t.Errorf("Classify(%d) = (%d, %q), want (%d, %q)",
				tt.raw, daysLeft, state, tt.daysLeft, tt.state)
		}
	}
}

func TestEvaluateScenarios(t *testing.T) {
	tests := []struct {
		now      string
		endDate  string
		daysLeft int
		state    string
	}{
		{"2024-01-01", "2024-01-31", 31, model.StateWarranty},
		{"2024-01-01", "2024-01-15", 15, model.StateNearExpire},
		{"2024-01-15", "2024-01-01", -14, model.StateExpired},
	}

	for _, tt := range tests {
		daysLeft, state := Evaluate(date(tt.now), date(tt.endDate))
		if daysLeft != tt.daysLeft || state != tt.state {
			t.Errorf("Evaluate(%s, %s) = (%d, %q), want (%d, %q)",
				tt.now, tt.endDate, daysLeft, state, tt.daysLeft, tt.state)
		}
	}
}
