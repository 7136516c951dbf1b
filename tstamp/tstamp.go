// Package tstamp implements 40-bit DW1000 hardware timestamp arithmetic: the counter
// free-runs and wraps at 2^40, so differences must be taken modulo 2^40 and then
// re-interpreted as a signed value in [-2^39, 2^39) to get the true elapsed tick count.
package tstamp

// Width is the counter width in bits.
const Width = 40

// Mask covers the 40 valid bits of a Timestamp.
const Mask = uint64(1)<<Width - 1

// LightSpeed is the speed of light in air, metres/second, as used by the ranging
// distance conversion (slightly below vacuum c).
const LightSpeed = 299702547.0

// TickSeconds is the duration of one counter tick: 1 / (128 * 499.2 MHz).
const TickSeconds = 1.0 / (128 * 499.2e6)

// TickMetres converts a tick count directly to a distance in metres.
const TickMetres = LightSpeed * TickSeconds

// Timestamp is a 40-bit free-running hardware counter value.
type Timestamp uint64

// New masks raw to the valid 40-bit range.
func New(raw uint64) Timestamp { return Timestamp(raw & Mask) }

// Sub returns t-u as the signed tick count with the smallest magnitude consistent
// with 40-bit wraparound, i.e. it treats the counter as a sawtooth and picks
// whichever direction (forward or backward) is shorter.
func (t Timestamp) Sub(u Timestamp) int64 {
	diff := (uint64(t) - uint64(u)) & Mask
	if diff > Mask>>1 {
		return int64(diff) - int64(Mask) - 1
	}
	return int64(diff)
}

// Add returns t+delta, wrapped back into the 40-bit range.
func (t Timestamp) Add(delta uint64) Timestamp {
	return Timestamp((uint64(t) + delta) & Mask)
}

// Metres converts a tick delta (as returned by Sub, or any raw tick count) to metres.
func Metres(ticks int64) float64 {
	return float64(ticks) * TickMetres
}
