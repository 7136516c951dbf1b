package tstamp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestSubNoWrap(t *testing.T) {
	assert.Equal(t, int64(100), Timestamp(200).Sub(Timestamp(100)))
	assert.Equal(t, int64(-100), Timestamp(100).Sub(Timestamp(200)))
}

func TestSubAcrossWrap(t *testing.T) {
	// counter wraps from near Mask back to near 0; the true elapsed time is small
	// and forward, not the huge backward distance a naive subtraction would give.
	before := Timestamp(Mask - 5)
	after := Timestamp(4) // wrapped: 10 ticks later
	assert.Equal(t, int64(10), after.Sub(before))
}

func TestSubZero(t *testing.T) {
	assert.Equal(t, int64(0), Timestamp(12345).Sub(Timestamp(12345)))
}

// Property: for any two 40-bit timestamps, t.Sub(u) must be in [-2^39, 2^39), and
// u.Add(uint64(t.Sub(u))) must reconstruct t exactly.
func TestSubAddRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		u := New(rapid.Uint64Range(0, Mask).Draw(t, "u"))
		tt := New(rapid.Uint64Range(0, Mask).Draw(t, "t"))

		diff := tt.Sub(u)
		assert.GreaterOrEqual(t, diff, -int64(Mask>>1)-1)
		assert.LessOrEqual(t, diff, int64(Mask>>1))

		reconstructed := u.Add(uint64(diff) & Mask)
		assert.Equal(t, tt, reconstructed)
	})
}

func TestNewMasksTo40Bits(t *testing.T) {
	assert.Equal(t, Timestamp(0), New(uint64(1)<<40))
	assert.Equal(t, Timestamp(1), New(uint64(1)<<40+1))
}

func TestMetresConversion(t *testing.T) {
	// one tick should be roughly 4.69 millimetres.
	m := Metres(1)
	assert.InDelta(t, 0.0046904, m, 0.0000005)
}
