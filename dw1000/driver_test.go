package dw1000

import (
	"context"
	"testing"

	"github.com/jbentham/uwb/reg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRadio models register storage and the reset/interrupt lines well enough to
// exercise the driver's register sequencing without real hardware.
type fakeRadio struct {
	cat              *reg.Catalog
	regs             map[string][]byte
	resetAsserted    bool
	interruptPending bool
}

func newFakeRadio() *fakeRadio {
	cat := reg.NewCatalog()
	regs := make(map[string][]byte)
	for _, d := range cat.All() {
		regs[d.Name] = make([]byte, d.Length)
	}
	// DEV_ID reads back a plausible DW1000 chip id so Reset()/SoftReset() succeed.
	regs["DEV_ID"] = []byte{0x30, 0x01, 0xCA, 0xDE}
	return &fakeRadio{cat: cat, regs: regs}
}

func (f *fakeRadio) Transfer(ctx context.Context, out []byte) ([]byte, error) {
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
			} else {
				copy(reply[len(hdr):], f.regs[d.Name])
			}
			return reply, nil
		}
	}
	return nil, &reg.ErrUnknownRegister{Name: "(unmatched address header)"}
}

func (f *fakeRadio) Reset(ctx context.Context, assert bool) error {
	f.resetAsserted = assert
	return nil
}

func (f *fakeRadio) InterruptPending() bool { return f.interruptPending }
func (f *fakeRadio) ClearInterrupt()        { f.interruptPending = false }
func (f *fakeRadio) ID() string             { return "fake" }

func TestDriverResetReadsDevID(t *testing.T) {
	radio := newFakeRadio()
	drv := New(radio.cat, radio, nil)
	require.NoError(t, drv.Reset(context.Background()))
	assert.False(t, radio.resetAsserted)
}

func TestDriverSoftReset(t *testing.T) {
	radio := newFakeRadio()
	drv := New(radio.cat, radio, nil)
	require.NoError(t, drv.SoftReset(context.Background()))

	v, err := drv.access.Read(context.Background(), "PMSC_CTRL0")
	require.NoError(t, err)
	sysclks, err := v.Get("SYSCLKS")
	require.NoError(t, err)
	assert.EqualValues(t, 0, sysclks)
	soft, err := v.Get("SOFTRESET")
	require.NoError(t, err)
	assert.EqualValues(t, 0xf, soft)
}

func TestDriverInitialise(t *testing.T) {
	radio := newFakeRadio()
	drv := New(radio.cat, radio, nil)
	ctx := context.Background()
	require.NoError(t, drv.Initialise(ctx, DefaultInitOpts()))

	sysCfg, err := drv.access.Read(ctx, "SYS_CFG")
	require.NoError(t, err)
	hirqPol, err := sysCfg.Get("HIRQ_POL")
	require.NoError(t, err)
	assert.EqualValues(t, 1, hirqPol)
	disStxp, err := sysCfg.Get("DIS_STXP")
	require.NoError(t, err)
	assert.EqualValues(t, 1, disStxp) // dumb tx power by default

	chanCtrl, err := drv.access.Read(ctx, "CHAN_CTRL")
	require.NoError(t, err)
	txChan, err := chanCtrl.Get("TX_CHAN")
	require.NoError(t, err)
	assert.EqualValues(t, DefaultChannel, txChan)
}

func TestDriverSetTxDataAndRxRoundTrip(t *testing.T) {
	radio := newFakeRadio()
	drv := New(radio.cat, radio, nil)
	ctx := context.Background()

	payload := []byte{0xc5, 0x01, 1, 2, 3, 4, 5, 6, 7, 8}
	require.NoError(t, drv.SetTxData(ctx, payload))

	fctrl, err := drv.access.Read(ctx, "TX_FCTRL")
	require.NoError(t, err)
	tflen, err := fctrl.Get("TFLEN")
	require.NoError(t, err)
	assert.EqualValues(t, len(payload)+2, tflen)

	// Simulate the chip having received the same bytes plus 2 CRC bytes, and
	// RXFLEN reporting that length.
	def := radio.cat.MustLookup("RX_BUFFER")
	radio.regs[def.Name] = append(append([]byte{}, payload...), 0xaa, 0xbb)
	finfo, err := drv.access.Read(ctx, "RX_FINFO")
	require.NoError(t, err)
	finfo, err = finfo.Set("RXFLEN", uint64(len(payload)+2))
	require.NoError(t, err)
	require.NoError(t, drv.access.Write(ctx, finfo))

	got, err := drv.RxData(ctx)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestDriverTestIRQRoundTrip(t *testing.T) {
	radio := newFakeRadio()
	radio.interruptPending = true // simulate the pulse being observed
	drv := New(radio.cat, radio, nil)

	ok, err := drv.TestIRQ(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.False(t, drv.CheckIRQ()) // cleared after TestIRQ
}

func TestDriverCheckInterruptFallsBackToStatus(t *testing.T) {
	radio := newFakeRadio()
	drv := New(radio.cat, radio, nil)
	ctx := context.Background()

	v, err := drv.access.Read(ctx, "SYS_STATUS")
	require.NoError(t, err)
	v, err = v.Set("IRQS", 1)
	require.NoError(t, err)
	require.NoError(t, drv.access.Write(ctx, v))

	got, err := drv.CheckInterrupt(ctx)
	require.NoError(t, err)
	assert.True(t, got)
}

func TestDriverStartTxWithDelay(t *testing.T) {
	radio := newFakeRadio()
	drv := New(radio.cat, radio, nil)
	ctx := context.Background()

	delay := uint64(1000)
	require.NoError(t, drv.StartTx(ctx, &delay, true))

	ctrl, err := drv.access.Read(ctx, "SYS_CTRL")
	require.NoError(t, err)
	txdlys, err := ctrl.Get("TXDLYS")
	require.NoError(t, err)
	assert.EqualValues(t, 1, txdlys)
	wait4resp, err := ctrl.Get("WAIT4RESP")
	require.NoError(t, err)
	assert.EqualValues(t, 1, wait4resp)
}

func TestDriverSetPANAddr(t *testing.T) {
	radio := newFakeRadio()
	drv := New(radio.cat, radio, nil)
	ctx := context.Background()

	require.NoError(t, drv.SetPANAddr(ctx, 0x1234, 0x5678))
	v, err := drv.access.Read(ctx, "PANADR")
	require.NoError(t, err)
	pan, err := v.Get("PAN_ID")
	require.NoError(t, err)
	assert.EqualValues(t, 0x1234, pan)
	addr, err := v.Get("SHORT_ADDR")
	require.NoError(t, err)
	assert.EqualValues(t, 0x5678, addr)
}
