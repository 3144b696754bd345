package eventlog

import (
	"strings"
	"testing"
	"time"
)

func fixedClock() func() time.Time {
	t := time.Date(2026, 8, 1, 9, 30, 0, 0, time.UTC)
	return func() time.Time { return t }
}

func TestLog_AppendAndOrder(t *testing.T) {
	l := New(10)
	l.now = fixedClock()

	l.Appendf("map ready")
	l.Appendf("boundary placed, %d vertices", 4)

	lines := l.Lines()
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(lines))
	}
	if !strings.HasSuffix(lines[0], "map ready") {
		t.Fatalf("lines[0] = %q, want map ready suffix", lines[0])
	}
	if !strings.HasPrefix(lines[0], "09:30:00") {
		t.Fatalf("lines[0] = %q, want timestamp prefix", lines[0])
	}
	if !strings.HasSuffix(lines[1], "boundary placed, 4 vertices") {
		t.Fatalf("lines[1] = %q", lines[1])
	}
}

func TestLog_RingDropsOldest(t *testing.T) {
	l := New(3)
	l.now = fixedClock()

	for _, msg := range []string{"one", "two", "three", "four", "five"} {
		l.Appendf("%s", msg)
	}

	lines := l.Lines()
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want 3", len(lines))
	}
	for i, want := range []string{"three", "four", "five"} {
		if !strings.HasSuffix(lines[i], want) {
			t.Fatalf("lines[%d] = %q, want suffix %q", i, lines[i], want)
		}
	}
	if l.Len() != 3 {
		t.Fatalf("Len = %d, want 3", l.Len())
	}
}

func TestLog_ZeroCapacityIsUsable(t *testing.T) {
	l := New(0)
	l.Appendf("still works")
	if l.Len() != 1 {
		t.Fatalf("Len = %d, want 1", l.Len())
	}
}
