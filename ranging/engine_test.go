package ranging

import (
	"context"
	"testing"
	"time"

	"github.com/jbentham/uwb/dw1000"
	"github.com/jbentham/uwb/reg"
	"github.com/jbentham/uwb/tstamp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// linkedRadio is a fake DW1000 transport that models one side of a radio link: its own
// register file, plus a pointer to the peer radio it "transmits" to. A write that sets
// SYS_CTRL.TXSTRT copies the Tx buffer into the peer's Rx buffer and stamps both sides'
// timestamp registers from a shared simulated clock, standing in for the air interface
// between two real radios.
type linkedRadio struct {
	cat              *reg.Catalog
	regs             map[string][]byte
	peer             *linkedRadio
	clock            *int64
	propDelay        int64
	interruptPending bool
	softreset        uint64 // last SOFTRESET value written
	softresetCount   int
}

func newLinkedRadio(cat *reg.Catalog, clock *int64, propDelay int64) *linkedRadio {
	regs := make(map[string][]byte)
	for _, d := range cat.All() {
		regs[d.Name] = make([]byte, d.Length)
	}
	regs["DEV_ID"] = []byte{0x30, 0x01, 0xCA, 0xDE}
	return &linkedRadio{cat: cat, regs: regs, clock: clock, propDelay: propDelay}
}

func (f *linkedRadio) Transfer(ctx context.Context, out []byte) ([]byte, error) {
	for _, d := range f.cat.All() {
		for _, write := range []bool{false, true} {
			hdr := d.AddrHeader(write)
			if len(out) < len(hdr) {
				continue
			}
			match := true
			for i, b := range hdr {
				if out[i] != b {
					match = false
					break
				}
			}
			if !match {
				continue
			}
			payload := out[len(hdr):]
			reply := make([]byte, len(hdr)+len(payload))
			copy(reply, hdr)
			if write {
				if len(f.regs[d.Name]) != len(payload) {
					f.regs[d.Name] = make([]byte, len(payload))
				}
				copy(f.regs[d.Name], payload)
				copy(reply[len(hdr):], payload)
				f.afterWrite(d)
			} else {
				copy(reply[len(hdr):], f.regs[d.Name])
			}
			return reply, nil
		}
	}
	return nil, &reg.ErrUnknownRegister{Name: "(unmatched address header)"}
}

// afterWrite simulates the radio's behaviour following a register write: a TXSTRT
// write delivers the Tx buffer to the peer and stamps both sides' time-of-flight
// registers; a write that moves SOFTRESET to 0xf from another value (the release half
// of one reset cycle) is counted for the miss-streak recovery test.
func (f *linkedRadio) afterWrite(d *reg.Def) {
	switch d.Name {
	case "SYS_CTRL":
		v, err := reg.Unpack(d, f.regs[d.Name])
		if err != nil {
			return
		}
		txstrt, _ := v.Get("TXSTRT")
		if txstrt != 1 || f.peer == nil {
			return
		}
		f.deliver()
	case "PMSC_CTRL0":
		v, err := reg.Unpack(d, f.regs[d.Name])
		if err != nil {
			return
		}
		soft, _ := v.Get("SOFTRESET")
		if soft == 0xf && f.softreset != 0xf {
			f.softresetCount++
		}
		f.softreset = soft
	}
}

func (f *linkedRadio) deliver() {
	fctrlDef := f.cat.MustLookup("TX_FCTRL")
	fctrl, err := reg.Unpack(fctrlDef, f.regs["TX_FCTRL"])
	if err != nil {
		return
	}
	tflen, _ := fctrl.Get("TFLEN")
	nbytes := int(tflen)
	if nbytes < 2 || nbytes > len(f.regs["TX_BUFFER"])+2 {
		return
	}
	payload := append([]byte{}, f.regs["TX_BUFFER"][:nbytes-2]...)

	*f.clock += 100
	txStamp := uint64(*f.clock) & ((uint64(1) << 40) - 1)
	f.writeField("TX_TIME1", "TX_STAMP", txStamp)

	*f.clock += f.propDelay
	rxStamp := uint64(*f.clock) & ((uint64(1) << 40) - 1)
	f.peer.writeField("RX_TIME1", "RX_STAMP", rxStamp)

	f.peer.regs["RX_BUFFER"] = append(payload, 0xaa, 0xbb)
	f.peer.writeField("RX_FINFO", "RXFLEN", uint64(nbytes))

	statusDef := f.cat.MustLookup("SYS_STATUS")
	status, _ := reg.Unpack(statusDef, f.peer.regs["SYS_STATUS"])
	status, _ = status.Set("RXDFR", 1)
	status, _ = status.Set("LDEDONE", 1)
	f.peer.regs["SYS_STATUS"] = status.Pack()
	f.peer.interruptPending = true
}

func (f *linkedRadio) writeField(name, field string, val uint64) {
	def := f.cat.MustLookup(name)
	v, err := reg.Unpack(def, f.regs[name])
	if err != nil {
		return
	}
	v, err = v.Set(field, val)
	if err != nil {
		return
	}
	f.regs[name] = v.Pack()
}

func (f *linkedRadio) Reset(ctx context.Context, assert bool) error { return nil }
func (f *linkedRadio) InterruptPending() bool                       { return f.interruptPending }
func (f *linkedRadio) ClearInterrupt()                              { f.interruptPending = false }
func (f *linkedRadio) ID() string                                   { return "linked" }

func newLinkedPair(t *testing.T, propDelay int64) (*dw1000.Driver, *dw1000.Driver, *linkedRadio, *linkedRadio) {
	t.Helper()
	cat := reg.NewCatalog()
	clock := new(int64)
	ra := newLinkedRadio(cat, clock, propDelay)
	rb := newLinkedRadio(cat, clock, propDelay)
	ra.peer = rb
	rb.peer = ra
	da := dw1000.New(cat, ra, nil)
	db := dw1000.New(cat, rb, nil)
	return da, db, ra, rb
}

func TestEngineRoundComputesDistance(t *testing.T) {
	ctx := context.Background()
	da, db, _, _ := newLinkedPair(t, 30)

	eng := NewEngine(da, db, 0x1111111111111111, 0x2222222222222222, dw1000.DefaultInitOpts(), nil)

	var result *Result
	deadline := time.Now().Add(2 * time.Second)
	for result == nil && time.Now().Before(deadline) {
		r, err := eng.Round(ctx)
		require.NoError(t, err)
		result = r
	}

	require.NotNil(t, result)
	assert.Greater(t, result.SymmetricMetres, 0.0)
	assert.Greater(t, result.AsymmetricMetres, 0.0)
	assert.InDelta(t, result.SymmetricMetres, result.AsymmetricMetres, 1.0)
}

func TestEngineRoundMissReportsNilResult(t *testing.T) {
	ctx := context.Background()
	// Unlinking the peers means a's transmission never reaches b: the round should
	// time out waiting for a reply and report a miss rather than an error.
	da, db, ra, rb := newLinkedPair(t, 30)
	ra.peer = nil
	rb.peer = nil

	eng := NewEngine(da, db, 1, 2, dw1000.DefaultInitOpts(), nil)
	r, err := eng.Round(ctx)
	require.NoError(t, err)
	assert.Nil(t, r)
}

func TestEngineRecoversAfterMissStreak(t *testing.T) {
	ctx := context.Background()
	da, db, ra, rb := newLinkedPair(t, 30)
	ra.peer = nil // every round misses until recovery
	rb.peer = nil

	eng := NewEngine(da, db, 1, 2, dw1000.DefaultInitOpts(), nil)
	for i := 0; i < missStreakLimit+1; i++ {
		r, err := eng.Round(ctx)
		require.NoError(t, err)
		assert.Nil(t, r)
	}

	// recover() calls SoftReset explicitly and Initialise, which soft-resets again
	// internally, so each radio sees two reset cycles.
	assert.Equal(t, 2, ra.softresetCount)
	assert.Equal(t, 2, rb.softresetCount)
	assert.Equal(t, 0, eng.errorStreak)
}

// Stationary anchors: with a true flight time of 640 ticks (about 3 metres), reply
// delays much larger than the flight time, and per-unit clock offsets of at most one
// tick, both estimators must land within a tick of the true value.
func TestEstimatorsStationaryAnchors(t *testing.T) {
	const (
		flight = 640
		delay  = 100_000 // processing delay between receive and reply
	)
	for _, start := range []uint64{0, (uint64(1) << 40) - 400} { // second case wraps mid-exchange
		for _, eps := range [][2]int64{{0, 0}, {1, -1}, {-1, 1}} {
			epsA, epsB := eps[0], eps[1]

			tx1 := tstamp.New(start)
			rx1 := tx1.Add(uint64(flight + epsB))
			tx2 := rx1.Add(delay)
			rx2 := tx2.Add(uint64(flight + epsA))
			tx3 := rx2.Add(delay)
			rx3 := tx3.Add(uint64(flight + epsB))

			dt1 := rx2.Sub(tx1)
			dt2 := tx2.Sub(rx1)
			symmetric := (dt1 - dt2) / 2

			round1 := rx2.Sub(tx1)
			round2 := rx3.Sub(tx2)
			reply1 := tx2.Sub(rx1)
			reply2 := tx3.Sub(rx2)
			asymmetric := asymmetricEstimate(round1, round2, reply1, reply2)

			assert.InDelta(t, flight, symmetric, 1, "symmetric, start=%#x eps=%v", start, eps)
			assert.InDelta(t, flight, asymmetric, 1, "asymmetric, start=%#x eps=%v", start, eps)
		}
	}
}

// The asymmetric estimator's round1*round2 product exceeds int64 for tick counts near
// the top of the 40-bit range; the 128-bit intermediates must keep it exact.
func TestAsymmetricEstimateNoOverflow(t *testing.T) {
	const big40 = int64(1)<<39 - 3
	got := asymmetricEstimate(big40, big40, 1, 1)
	// (big40^2 - 1) / (2*big40 + 2) == (big40 - 1) / 2 exactly.
	assert.Equal(t, (big40-1)/2, got)
}
