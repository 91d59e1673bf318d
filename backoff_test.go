package steadyhttp

import (
	"testing"
	"time"
)

// ---------------------------------------------------------------------------
// stubRand — deterministic RandSource returning a fixed sequence
// ---------------------------------------------------------------------------

type stubRand struct {
	vals []int64
	i    int
}

func (s *stubRand) Int64N(n int64) int64 {
	v := s.vals[s.i%len(s.vals)]
	s.i++

	return v % n
}

// ---------------------------------------------------------------------------
// Tests: jitter-free delays are monotonic and capped
// ---------------------------------------------------------------------------

func TestExponentialBackoffMonotonicAndCapped(t *testing.T) {
	base := 100 * time.Millisecond
	max := 3 * time.Second
	b := ExponentialBackoff(base, max, JitterNone)

	prev := time.Duration(-1)
	for attempt := range 30 {
		d := b.Delay(attempt)
		if d < prev {
			t.Fatalf("Delay(%d) = %v, below previous %v", attempt, d, prev)
		}
		if d > max {
			t.Fatalf("Delay(%d) = %v, exceeds max %v", attempt, d, max)
		}
		prev = d
	}
}

func TestExponentialBackoffDoubles(t *testing.T) {
	b := ExponentialBackoff(100*time.Millisecond, time.Hour, JitterNone)

	want := []time.Duration{
		100 * time.Millisecond,
		200 * time.Millisecond,
		400 * time.Millisecond,
		800 * time.Millisecond,
	}
	for attempt, w := range want {
		if d := b.Delay(attempt); d != w {
			t.Fatalf("Delay(%d) = %v, want %v", attempt, d, w)
		}
	}
}

func TestExponentialBackoffLargeAttemptClampsToMax(t *testing.T) {
	max := 5 * time.Second
	b := ExponentialBackoff(time.Second, max, JitterNone)

	// 2^200 overflows float-to-duration conversion; result must still be max.
	if d := b.Delay(200); d != max {
		t.Fatalf("Delay(200) = %v, want %v", d, max)
	}
}

// ---------------------------------------------------------------------------
// Tests: jitter bounds
// ---------------------------------------------------------------------------

func TestFullJitterWithinBounds(t *testing.T) {
	b := ExponentialBackoff(100*time.Millisecond, time.Hour, JitterFull)

	for attempt := range 8 {
		computed := 100 * time.Millisecond << attempt
		for range 50 {
			d := b.Delay(attempt)
			if d < 0 || d > computed {
				t.Fatalf("Delay(%d) = %v, outside [0, %v]", attempt, d, computed)
			}
		}
	}
}

func TestEqualJitterWithinBounds(t *testing.T) {
	b := ExponentialBackoff(100*time.Millisecond, time.Hour, JitterEqual)

	for attempt := range 8 {
		computed := 100 * time.Millisecond << attempt
		for range 50 {
			d := b.Delay(attempt)
			if d < computed/2 || d > computed {
				t.Fatalf("Delay(%d) = %v, outside [%v, %v]", attempt, d, computed/2, computed)
			}
		}
	}
}

func TestJitterDeterministicWithFixedSource(t *testing.T) {
	mk := func() BackoffStrategy {
		return newExponentialBackoff(
			100*time.Millisecond, time.Hour, JitterFull,
			&stubRand{vals: []int64{7, 13, 29, 31}},
		)
	}

	a, b := mk(), mk()
	for attempt := range 10 {
		if da, db := a.Delay(attempt), b.Delay(attempt); da != db {
			t.Fatalf("Delay(%d) diverged: %v vs %v", attempt, da, db)
		}
	}
}

// ---------------------------------------------------------------------------
// Tests: adapters and parsing
// ---------------------------------------------------------------------------

func TestBackoffFuncAdapter(t *testing.T) {
	b := BackoffFunc(func(attempt int) time.Duration {
		return time.Duration(attempt) * time.Second
	})

	if d := b.Delay(3); d != 3*time.Second {
		t.Fatalf("Delay(3) = %v, want 3s", d)
	}
}

func TestParseJitter(t *testing.T) {
	cases := []struct {
		in   string
		want Jitter
		ok   bool
	}{
		{"none", JitterNone, true},
		{"", JitterNone, true},
		{"full", JitterFull, true},
		{"FULL", JitterFull, true},
		{" equal ", JitterEqual, true},
		{"bogus", JitterNone, false},
	}

	for _, tc := range cases {
		got, err := ParseJitter(tc.in)
		if tc.ok && err != nil {
			t.Fatalf("ParseJitter(%q) = %v, want nil error", tc.in, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("ParseJitter(%q) = nil error, want error", tc.in)
		}
		if tc.ok && got != tc.want {
			t.Fatalf("ParseJitter(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestJitterString(t *testing.T) {
	if JitterNone.String() != "none" || JitterFull.String() != "full" || JitterEqual.String() != "equal" {
		t.Fatal("Jitter.String() mismatch")
	}
}
