package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, time.UTC)
}

func TestBooking_Overlaps(t *testing.T) {
	booking := &Booking{
		StartDate: date(2026, time.January, 10, 0),
		EndDate:   date(2026, time.January, 12, 0),
	}

	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  bool
	}{
		{"inside", date(2026, time.January, 10, 12), date(2026, time.January, 11, 12), true},
		{"partial tail", date(2026, time.January, 11, 0), date(2026, time.January, 13, 0), true},
		{"partial head", date(2026, time.January, 9, 0), date(2026, time.January, 11, 0), true},
		{"covering", date(2026, time.January, 9, 0), date(2026, time.January, 13, 0), true},
		{"touching at end is free", date(2026, time.January, 12, 0), date(2026, time.January, 14, 0), false},
		{"touching at start is free", date(2026, time.January, 8, 0), date(2026, time.January, 10, 0), false},
		{"disjoint", date(2026, time.January, 20, 0), date(2026, time.January, 22, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, booking.Overlaps(tt.start, tt.end))
		})
	}
}

func TestTotalPriceFor(t *testing.T) {
	tests := []struct {
		name        string
		start       time.Time
		end         time.Time
		pricePerDay float64
		want        float64
	}{
		{
			name:        "two full days",
			start:       time.Date(2026, time.February, 1, 10, 0, 0, 0, time.UTC),
			end:         time.Date(2026, time.February, 3, 10, 0, 0, 0, time.UTC),
			pricePerDay: 100,
			want:        200,
		},
		{
			name:        "two hours round up to one day",
			start:       time.Date(2026, time.February, 1, 10, 0, 0, 0, time.UTC),
			end:         time.Date(2026, time.February, 1, 12, 0, 0, 0, time.UTC),
			pricePerDay: 100,
			want:        100,
		},
		{
			name:        "one day and one hour rounds to two days",
			start:       time.Date(2026, time.February, 1, 10, 0, 0, 0, time.UTC),
			end:         time.Date(2026, time.February, 2, 11, 0, 0, 0, time.UTC),
			pricePerDay: 50,
			want:        100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TotalPriceFor(tt.start, tt.end, tt.pricePerDay))
		})
	}
}

func TestBooking_StatusPredicates(t *testing.T) {
	active := []BookingStatus{StatusPending, StatusAccepted}
	terminal := []BookingStatus{StatusRejected, StatusCompleted, StatusCancelled}

	for _, s := range active {
		b := &Booking{Status: s}
		assert.True(t, b.IsActive(), "status %s", s)
		assert.True(t, b.CanBeCancelled(), "status %s", s)
		assert.False(t, b.IsTerminal(), "status %s", s)
	}

	for _, s := range terminal {
		b := &Booking{Status: s}
		assert.False(t, b.IsActive(), "status %s", s)
		assert.False(t, b.CanBeCancelled(), "status %s", s)
		assert.True(t, b.IsTerminal(), "status %s", s)
	}
}

func TestOneTimeCode_CooldownRemaining(t *testing.T) {
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	code := &OneTimeCode{LastSentAt: now.Add(-10 * time.Second)}

	remaining := code.CooldownRemaining(now, 30*time.Second)
	assert.Equal(t, 20*time.Second, remaining)

	elapsed := &OneTimeCode{LastSentAt: now.Add(-45 * time.Second)}
	assert.LessOrEqual(t, elapsed.CooldownRemaining(now, 30*time.Second), time.Duration(0))
}
