package clock

import (
	"testing"
	"time"
)

func TestFixedClock(t *testing.T) {
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	c := NewFixed(start)
	if !c.Now().Equal(start) {
		t.Fatalf("Now: want=%v got=%v", start, c.Now())
	}
	c.Advance(48 * time.Hour)
	if got := c.Now(); got.Day() != 4 {
		t.Fatalf("Advance: got=%v", got)
	}
	c.Set(start)
	if !c.Now().Equal(start) {
		t.Fatalf("Set: got=%v", c.Now())
	}
}

func TestSystemClockIsUTC(t *testing.T) {
	if loc := System().Now().Location(); loc != time.UTC {
		t.Fatalf("system clock location: want=UTC got=%v", loc)
	}
}
