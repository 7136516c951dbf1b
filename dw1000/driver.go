// Package dw1000 implements the DW1000 device driver: reset and initialisation
// sequencing, transmit/receive control, timestamp retrieval, and OTP/clock access,
// built on the reg package's register catalog and the transport package's SPI contract.
package dw1000

import (
	"context"
	"fmt"
	"time"

	"github.com/jbentham/uwb/diagnostics"
	"github.com/jbentham/uwb/reg"
	"github.com/jbentham/uwb/tstamp"
)

// Default configuration values.
const (
	DefaultPAN       = 10
	DefaultAddr      = 1
	DefaultChannel   = 2
	DefaultRate      = 110
	DefaultPulseFreq = 64
	DefaultPreamLen  = 1024
)

// InitOpts configures Driver.Initialise. Zero value is not valid; use DefaultInitOpts.
type InitOpts struct {
	Channel   int // 1, 2, 3, 4, 5 or 7
	Rate      int // 110, 850 or 6800 kbps
	PulseFreq int // 16 or 64 MHz
	PreamLen  int // 64..4096, see reg.PreamLenPe

	SmartTxPower bool // enable smart Tx power control (default false, "dumb" power)
	RxDoubleBuff bool // enable receiver double-buffering
	LongFrames   bool // enable 1023-byte frames (standard is 127)
	RxAutoEnable bool // auto-enable Rx after Tx
	AutoAck      bool // automatically acknowledge reception
	UseInterrupt bool // drive check_irq/check_interrupt off the IRQ line, not polling
}

// DefaultInitOpts returns the driver's out-of-the-box configuration.
func DefaultInitOpts() InitOpts {
	return InitOpts{
		Channel:      DefaultChannel,
		Rate:         DefaultRate,
		PulseFreq:    DefaultPulseFreq,
		PreamLen:     DefaultPreamLen,
		UseInterrupt: true,
	}
}

// Transport is the subset of transport.Transport the driver depends on directly
// (beyond what it reaches through reg.Access.Transfer).
type Transport interface {
	Reset(ctx context.Context, assert bool) error
	InterruptPending() bool
	ClearInterrupt()
	ID() string
}

// Driver is a single DW1000 radio, addressed through a register Access built over a
// Transport. It keeps no mode state beyond what the chip itself holds; every call
// issues the register transactions for exactly one operation.
type Driver struct {
	access    *reg.Access
	transport Transport
	sink      diagnostics.Sink
	opts      InitOpts
}

// New builds a Driver. sink may be nil, in which case diagnostics are discarded.
func New(cat *reg.Catalog, tr interface {
	reg.Transport
	Transport
}, sink diagnostics.Sink) *Driver {
	if sink == nil {
		sink = diagnostics.Noop()
	}
	access := reg.NewAccess(cat, tr).WithEventSink(sink)
	return &Driver{access: access, transport: tr, sink: sink, opts: DefaultInitOpts()}
}

// Reset drives a hardware reset: assert the reset line, release it, and confirm the
// chip responds by reading DEV_ID.
func (d *Driver) Reset(ctx context.Context) error {
	if err := d.transport.Reset(ctx, true); err != nil {
		return fmt.Errorf("dw1000: reset assert: %w", err)
	}
	time.Sleep(1 * time.Millisecond)
	if err := d.transport.Reset(ctx, false); err != nil {
		return fmt.Errorf("dw1000: reset release: %w", err)
	}
	time.Sleep(10 * time.Millisecond)
	_, err := d.access.Read(ctx, "DEV_ID")
	return err
}

// SoftReset cycles the system clock and SOFTRESET field without touching the
// hardware reset line. The SYSCLKS transitions around the SOFTRESET writes avoid
// PLL glitches.
func (d *Driver) SoftReset(ctx context.Context) error {
	if _, err := d.access.Read(ctx, "DEV_ID"); err != nil {
		return err
	}
	r, err := d.access.Read(ctx, "PMSC_CTRL0")
	if err != nil {
		return err
	}
	if err := setWrite(ctx, d.access, &r, "SYSCLKS", 1); err != nil {
		return err
	}
	time.Sleep(5 * time.Millisecond)
	if err := setWrite(ctx, d.access, &r, "SOFTRESET", 0); err != nil {
		return err
	}
	if err := setWrite(ctx, d.access, &r, "SOFTRESET", 0xf); err != nil {
		return err
	}
	if err := setWrite(ctx, d.access, &r, "SYSCLKS", 0); err != nil {
		return err
	}
	time.Sleep(5 * time.Millisecond)
	return nil
}

// setWrite updates field in the in-memory value, then writes the register back,
// keeping *r current for chained calls.
func setWrite(ctx context.Context, a *reg.Access, r *reg.Value, field string, val uint64) error {
	next, err := r.Set(field, val)
	if err != nil {
		return err
	}
	if err := a.Write(ctx, next); err != nil {
		return err
	}
	*r = next
	return nil
}

// fieldVal pairs a field name with the value to store in it.
type fieldVal struct {
	field string
	val   uint64
}

// writeFields writes name with only the given fields set, starting from an all-zero
// value; used for the control registers whose other bits must be written as zero.
func (d *Driver) writeFields(ctx context.Context, name string, fields ...fieldVal) error {
	def, ok := d.access.Catalog().Lookup(name)
	if !ok {
		return &reg.ErrUnknownRegister{Name: name}
	}
	v := reg.Value{Def: def}
	var err error
	for _, f := range fields {
		v, err = v.Set(f.field, f.val)
		if err != nil {
			return err
		}
	}
	return d.access.Write(ctx, v)
}

// ClearStatus reads SYS_STATUS and writes it straight back, clearing every
// write-one-to-clear event flag, reserved bits included.
func (d *Driver) ClearStatus(ctx context.Context) error {
	v, err := d.access.Read(ctx, "SYS_STATUS")
	if err != nil {
		return err
	}
	return d.access.Write(ctx, v)
}

// ClearIRQ acknowledges all latched interrupt flags. It is the same read-then-write-back
// operation as ClearStatus, named for its role in the receive path.
func (d *Driver) ClearIRQ(ctx context.Context) error { return d.ClearStatus(ctx) }

// Idle disables Tx/Rx (SYS_CTRL.TRXOFF) and then clears status.
func (d *Driver) Idle(ctx context.Context) error {
	if err := d.writeFields(ctx, "SYS_CTRL", fieldVal{"TRXOFF", 1}); err != nil {
		return err
	}
	return d.ClearStatus(ctx)
}

// Initialise runs the full configuration sequence: OTP read, LDE bring-up, event
// mask, LED blink config, system config, leading-edge detection tuning, frequency
// synthesiser, channel selection, digital receiver tuning, AGC tuning, channel
// control, Tx frame control, antenna delay and Tx power, finishing with a status
// clear. The write order is load-bearing: the SYSCLKS transitions must surround the
// LDE microcode load, or the receive timestamps silently degrade.
func (d *Driver) Initialise(ctx context.Context, opts InitOpts) error {
	d.opts = opts
	codes, ok := reg.PreamCodes[opts.Channel]
	if !ok {
		return fmt.Errorf("dw1000: unknown channel %d", opts.Channel)
	}
	pcode := codes[0]
	if opts.PulseFreq == 64 {
		pcode = codes[1]
	}

	if err := d.SoftReset(ctx); err != nil {
		return err
	}
	if _, err := d.ReadOTP(ctx, 4, 4); err != nil {
		return err
	}

	// Leading-edge detection bring-up.
	r, err := d.access.Read(ctx, "PMSC_CTRL0")
	if err != nil {
		return err
	}
	if err := setWrite(ctx, d.access, &r, "SYSCLKS", 1); err != nil {
		return err
	}
	time.Sleep(5 * time.Millisecond)
	if err := d.writeFields(ctx, "EC_CTRL", fieldVal{"PLLLDT", 1}); err != nil {
		return err
	}
	if err := d.writeFields(ctx, "OTP_SF", fieldVal{"LDO_KICK", 1}); err != nil {
		return err
	}
	if err := d.writeRegValue(ctx, "OTP_CTRL", 0x8000); err != nil {
		return err
	}
	time.Sleep(5 * time.Millisecond)
	r, err = r.Set("GPDCE", 1)
	if err != nil {
		return err
	}
	if err := setWrite(ctx, d.access, &r, "KHZCLKEN", 1); err != nil {
		return err
	}
	if err := setWrite(ctx, d.access, &r, "SYSCLKS", 0); err != nil {
		return err
	}
	time.Sleep(5 * time.Millisecond)

	// Select required events.
	if err := d.writeRegValue(ctx, "SYS_MASK", uint64(reg.SysMaskVal)); err != nil {
		return err
	}

	// Leading edge detection / slow clock / LED pins.
	err = d.writeFields(ctx, "PMSC_CTRL1",
		fieldVal{"PKTSEQ", 0xe7}, fieldVal{"LDERUNE", 1}, fieldVal{"KHZCLKDIV", 20})
	if err != nil {
		return err
	}
	if err := d.writeFields(ctx, "GPIO_MODE", fieldVal{"MSGP2", 1}, fieldVal{"MSGP3", 1}); err != nil {
		return err
	}

	// LED blink time, then blink.
	err = d.writeFields(ctx, "PMSC_LEDC", fieldVal{"BLINK_TIM", 10}, fieldVal{"BLINKEN", 1})
	if err != nil {
		return err
	}
	if err := d.BlinkLEDs(ctx); err != nil {
		return err
	}

	// Clear and enable event counters.
	if err := d.writeFields(ctx, "EVC_CTRL", fieldVal{"EVC_CLR", 1}); err != nil {
		return err
	}
	if err := d.writeFields(ctx, "EVC_CTRL", fieldVal{"EVC_CLR", 1}, fieldVal{"EVC_EN", 1}); err != nil {
		return err
	}

	// System config.
	disStxp := uint64(1)
	if opts.SmartTxPower {
		disStxp = 0
	}
	disDrxb := uint64(1)
	if opts.RxDoubleBuff {
		disDrxb = 0
	}
	phrMode := uint64(0)
	if opts.LongFrames {
		phrMode = 3
	}
	rxm110k := uint64(0)
	if opts.Rate == 110 {
		rxm110k = 1
	}
	err = d.writeFields(ctx, "SYS_CFG",
		fieldVal{"DIS_STXP", disStxp}, fieldVal{"DIS_DRXB", disDrxb},
		fieldVal{"PHR_MODE", phrMode}, fieldVal{"RXAUTR", boolU64(opts.RxAutoEnable)},
		fieldVal{"AUTOACK", boolU64(opts.AutoAck)}, fieldVal{"RXM110K", rxm110k},
		fieldVal{"HIRQ_POL", 1})
	if err != nil {
		return err
	}

	// Leading edge detection tuning.
	repc := reg.PcodeRepcs[pcode]
	if opts.Rate == 110 {
		repc >>= 3
	}
	if err := d.writeRegValue(ctx, "LDE_REPC", uint64(repc)); err != nil {
		return err
	}
	if err := d.writeFields(ctx, "LDE_CFG1", fieldVal{"NTM", 0xd}, fieldVal{"PMULT", 3}); err != nil {
		return err
	}
	ldeCfg2 := uint64(0x0607)
	if opts.PulseFreq == 16 {
		ldeCfg2 = 0x1607
	}
	if err := d.writeRegValue(ctx, "LDE_CFG2", ldeCfg2); err != nil {
		return err
	}

	// Frequency synthesiser.
	if err := d.writeRegValue(ctx, "FS_PLLCFG", uint64(reg.FsPllcfgs[opts.Channel])); err != nil {
		return err
	}
	if err := d.writeRegValue(ctx, "FS_XTALT", 0x72); err != nil {
		return err
	}

	// Channel selection.
	rfRxCtrlH := uint64(0xd8)
	if opts.Channel == 4 || opts.Channel == 7 {
		rfRxCtrlH = 0xbc
	}
	if err := d.writeRegValue(ctx, "RF_RXCTRLH", rfRxCtrlH); err != nil {
		return err
	}
	if err := d.writeRegValue(ctx, "RF_TXCTRL", uint64(reg.ChanRfTxctrl[opts.Channel])); err != nil {
		return err
	}

	// Digital receiver tuning.
	tune0b := uint64(1)
	switch opts.Rate {
	case 110:
		tune0b = 0x16
	case 850:
		tune0b = 6
	}
	if err := d.writeRegValue(ctx, "DRX_TUNE0b", tune0b); err != nil {
		return err
	}
	tune1a := uint64(0x8d)
	if opts.PulseFreq == 16 {
		tune1a = 0x87
	}
	if err := d.writeRegValue(ctx, "DRX_TUNE1a", tune1a); err != nil {
		return err
	}
	tune1b := uint64(0x20)
	switch {
	case opts.Rate == 110 && opts.PreamLen > 1024:
		tune1b = 0x64
	case opts.Rate == 6800 && opts.PreamLen == 64:
		tune1b = 0x10
	}
	if err := d.writeRegValue(ctx, "DRX_TUNE1b", tune1b); err != nil {
		return err
	}
	pacIdx := 0
	if opts.PulseFreq == 64 {
		pacIdx = 1
	}
	tune2Pair, ok := reg.DrxTune2s[reg.PacSizes[opts.PreamLen]]
	if !ok {
		return fmt.Errorf("dw1000: unknown preamble length %d", opts.PreamLen)
	}
	if err := d.writeRegValue(ctx, "DRX_TUNE2", uint64(tune2Pair[pacIdx])); err != nil {
		return err
	}
	tune4h := uint64(0x28)
	if opts.PreamLen == 64 {
		tune4h = 0x10
	}
	if err := d.writeRegValue(ctx, "DRX_TUNE4H", tune4h); err != nil {
		return err
	}
	agcTune1 := uint64(0x889b)
	if opts.PulseFreq == 16 {
		agcTune1 = 0x8870
	}
	if err := d.writeRegValue(ctx, "AGC_TUNE1", agcTune1); err != nil {
		return err
	}
	if err := d.writeRegValue(ctx, "AGC_TUNE2", 0x2502A907); err != nil {
		return err
	}
	if err := d.writeRegValue(ctx, "AGC_TUNE3", 0x0035); err != nil {
		return err
	}

	// Channel and preamble code.
	prf := reg.PulseFreqs[opts.PulseFreq]
	err = d.writeFields(ctx, "CHAN_CTRL",
		fieldVal{"TX_CHAN", uint64(opts.Channel)}, fieldVal{"RX_CHAN", uint64(opts.Channel)},
		fieldVal{"RXPRF", uint64(prf)}, fieldVal{"TX_PCODE", uint64(pcode)},
		fieldVal{"RX_PCODE", uint64(pcode)})
	if err != nil {
		return err
	}

	// Tx frame control.
	err = d.writeFields(ctx, "TX_FCTRL",
		fieldVal{"TXBR", uint64(reg.TrxRates[opts.Rate])}, fieldVal{"TXPRF", uint64(prf)},
		fieldVal{"PE", uint64(reg.PreamLenPe[opts.PreamLen])},
		fieldVal{"TXPSR", uint64(reg.PreamLenPsr[opts.PreamLen])}, fieldVal{"TR", 1})
	if err != nil {
		return err
	}

	// Rx/Tx delay and Tx power.
	if err := d.writeZero(ctx, "LDE_RXANTD"); err != nil {
		return err
	}
	if err := d.writeZero(ctx, "TX_ANTD"); err != nil {
		return err
	}
	if err := d.writeRegValue(ctx, "TC_PGDELAY", uint64(reg.ChanTcPgdelay[opts.Channel])); err != nil {
		return err
	}
	txPwrs := reg.TxPwrsDumb
	if opts.SmartTxPower {
		txPwrs = reg.TxPwrsSmart
	}
	pwrIdx := 0
	if opts.PulseFreq == 64 {
		pwrIdx = 1
	}
	if err := d.writeRegValue(ctx, "TX_POWER", uint64(txPwrs[opts.Channel][pwrIdx])); err != nil {
		return err
	}

	return d.ClearStatus(ctx)
}

func boolU64(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

// writeRegValue overwrites a register's whole packed value in a single write.
func (d *Driver) writeRegValue(ctx context.Context, name string, val uint64) error {
	cat := d.access.Catalog()
	def, ok := cat.Lookup(name)
	if !ok {
		return &reg.ErrUnknownRegister{Name: name}
	}
	v := reg.Value{Def: def, Packed: val}
	return d.access.Write(ctx, v)
}

// writeZero zeroes a register with a single all-zero write; the antenna delay
// registers are written as zero rather than loaded from OTP calibration.
func (d *Driver) writeZero(ctx context.Context, name string) error {
	return d.writeRegValue(ctx, name, 0)
}

// BlinkLEDs pulses the Rx/Tx LED pins briefly, the power-up "I'm alive" blink.
func (d *Driver) BlinkLEDs(ctx context.Context) error {
	v, err := d.access.Read(ctx, "PMSC_LEDC")
	if err != nil {
		return err
	}
	if err := setWrite(ctx, d.access, &v, "BLNKNOW", 0xf); err != nil {
		return err
	}
	return setWrite(ctx, d.access, &v, "BLNKNOW", 0)
}

// SetTxData loads data into the Tx buffer and updates TX_FCTRL.TFLEN to len(data)+2;
// the +2 accounts for the two CRC bytes the chip appends on transmission.
func (d *Driver) SetTxData(ctx context.Context, data []byte) error {
	def := d.access.Catalog().MustLookup("TX_BUFFER")
	if err := d.access.WriteRaw(ctx, def, data); err != nil {
		return err
	}
	return d.access.Set(ctx, "TX_FCTRL", "TFLEN", uint64(len(data)+2))
}

// TxTime returns the timestamp of the most recently transmitted frame.
func (d *Driver) TxTime(ctx context.Context) (tstamp.Timestamp, error) {
	v, err := d.access.Read(ctx, "TX_TIME1")
	if err != nil {
		return 0, err
	}
	stamp, err := v.Get("TX_STAMP")
	if err != nil {
		return 0, err
	}
	return tstamp.New(stamp), nil
}

// StartTx transmits the loaded Tx buffer. If delay is non-nil, transmission is
// scheduled delay ticks from now (DX_TIME); if waitForResp, the receiver is armed
// immediately after transmission completes.
func (d *Driver) StartTx(ctx context.Context, delay *uint64, waitForResp bool) error {
	ctrl := reg.Value{Def: d.access.Catalog().MustLookup("SYS_CTRL")}
	var err error
	if delay != nil {
		sysTime, err := d.access.Read(ctx, "SYS_TIME")
		if err != nil {
			return err
		}
		if err := d.writeRegValue(ctx, "DX_TIME", sysTime.Packed+*delay); err != nil {
			return err
		}
		ctrl, err = ctrl.Set("TXDLYS", 1)
		if err != nil {
			return err
		}
	}
	ctrl, err = ctrl.Set("TXSTRT", 1)
	if err != nil {
		return err
	}
	ctrl, err = ctrl.Set("WAIT4RESP", boolU64(waitForResp))
	if err != nil {
		return err
	}
	return d.access.Write(ctx, ctrl)
}

// StartRx clears any pending interrupt and enables the receiver.
func (d *Driver) StartRx(ctx context.Context) error {
	d.ClearInterrupt()
	return d.writeFields(ctx, "SYS_CTRL", fieldVal{"RXENAB", 1})
}

// RestartRx recovers from a receive error: idle, soft reset, re-enable Rx.
func (d *Driver) RestartRx(ctx context.Context) error {
	if err := d.Idle(ctx); err != nil {
		return err
	}
	if err := d.SoftReset(ctx); err != nil {
		return err
	}
	return d.StartRx(ctx)
}

// CheckIRQ reports whether the transport currently has a pending interrupt
// notification. Transport implementations demultiplex unsolicited IRQ notifications
// into InterruptPending themselves, so there is no separate socket-poll step here.
func (d *Driver) CheckIRQ() bool {
	return d.transport.InterruptPending()
}

// ClearInterrupt acknowledges the transport's pending interrupt flag.
func (d *Driver) ClearInterrupt() {
	d.transport.ClearInterrupt()
}

// CheckInterrupt checks for a pending interrupt; if none was observed on the IRQ line,
// it falls back to polling SYS_STATUS.IRQS directly and reports a missed interrupt to
// diagnostics.
func (d *Driver) CheckInterrupt(ctx context.Context) (bool, error) {
	if d.CheckIRQ() {
		return true, nil
	}
	d.sink.Status("dw1000: missed interrupt")
	v, err := d.access.Read(ctx, "SYS_STATUS")
	if err != nil {
		return false, err
	}
	irqs, err := v.Get("IRQS")
	if err != nil {
		return false, err
	}
	return irqs != 0, nil
}

// TestIRQ pulses the GPIO IRQ pin and checks that the pulse was observed, to validate
// the interrupt wiring before ranging begins.
func (d *Driver) TestIRQ(ctx context.Context) (bool, error) {
	if err := d.PulseIRQ(ctx); err != nil {
		return false, err
	}
	ok := d.CheckIRQ()
	d.ClearInterrupt()
	return ok, nil
}

// PulseIRQ drives GPIO8 high for 10ms then low again, used to self-test the
// interrupt-to-host wiring.
func (d *Driver) PulseIRQ(ctx context.Context) error {
	mode, err := d.access.Read(ctx, "GPIO_MODE")
	if err != nil {
		return err
	}
	if err := setWrite(ctx, d.access, &mode, "MSGP8", 1); err != nil {
		return err
	}
	dirn, err := d.access.Read(ctx, "GPIO_DIR")
	if err != nil {
		return err
	}
	dirn, err = dirn.Set("GDP8", 0)
	if err != nil {
		return err
	}
	if err := setWrite(ctx, d.access, &dirn, "GDM8", 1); err != nil {
		return err
	}
	dout, err := d.access.Read(ctx, "GPIO_DOUT")
	if err != nil {
		return err
	}
	dout, err = dout.Set("GOP8", 1)
	if err != nil {
		return err
	}
	if err := setWrite(ctx, d.access, &dout, "GOM8", 1); err != nil {
		return err
	}
	time.Sleep(10 * time.Millisecond)
	if err := setWrite(ctx, d.access, &dout, "GOP8", 0); err != nil {
		return err
	}
	return setWrite(ctx, d.access, &mode, "MSGP8", 0)
}

// CheckRx polls for a completed reception: if using interrupts, only looks at
// SYS_STATUS when CheckIRQ reports a pending interrupt; otherwise always reads status.
// Returns the received payload, or nil if nothing was ready.
func (d *Driver) CheckRx(ctx context.Context) ([]byte, error) {
	var irq bool
	var status reg.Value
	var err error
	if d.opts.UseInterrupt {
		irq = d.CheckIRQ()
		if irq {
			status, err = d.access.Read(ctx, "SYS_STATUS")
			if err != nil {
				return nil, err
			}
		}
	} else {
		status, err = d.access.Read(ctx, "SYS_STATUS")
		if err != nil {
			return nil, err
		}
		irqs, err := status.Get("IRQS")
		if err != nil {
			return nil, err
		}
		irq = irqs != 0
	}
	var rxdata []byte
	if irq {
		lde, err := status.Get("LDEDONE")
		if err != nil {
			return nil, err
		}
		if lde != 0 {
			rxdata, err = d.RxData(ctx)
			if err != nil {
				return nil, err
			}
		}
		if err := d.access.Write(ctx, status); err != nil {
			return nil, err
		}
	}
	return rxdata, nil
}

// GetRxData returns the received payload if an interrupt is pending and the frame
// receive flag is set, or nil otherwise. It never blocks.
func (d *Driver) GetRxData(ctx context.Context) ([]byte, error) {
	if !d.CheckIRQ() {
		return nil, nil
	}
	status, err := d.access.Read(ctx, "SYS_STATUS")
	if err != nil {
		return nil, err
	}
	rxdfr, err := status.Get("RXDFR")
	if err != nil {
		return nil, err
	}
	if rxdfr == 0 {
		return nil, nil
	}
	return d.RxData(ctx)
}

// SysStatus renders the SYS_STATUS register's non-zero fields for diagnostics.
func (d *Driver) SysStatus(ctx context.Context) (string, error) {
	v, err := d.access.Read(ctx, "SYS_STATUS")
	if err != nil {
		return "", err
	}
	s := fmt.Sprintf("Status %s", d.transport.ID())
	for _, fv := range v.FieldValues() {
		if fv.Value != 0 {
			s += fmt.Sprintf(" %s:%x", fv.Name, fv.Value)
		}
	}
	return s, nil
}

// RxData reads the received frame payload from RX_BUFFER, excluding its trailing
// 2-byte CRC. If LongFrames is not enabled, RXFLEN is masked to 7 bits (the
// short-frame length field).
func (d *Driver) RxData(ctx context.Context) ([]byte, error) {
	finfo, err := d.access.Read(ctx, "RX_FINFO")
	if err != nil {
		return nil, err
	}
	nbytes, err := finfo.Get("RXFLEN")
	if err != nil {
		return nil, err
	}
	if !d.opts.LongFrames {
		nbytes &= 0x7f
	}
	if nbytes <= 2 {
		return nil, nil
	}
	def := d.access.Catalog().MustLookup("RX_BUFFER")
	raw, err := d.access.ReadRawN(ctx, def, int(nbytes))
	if err != nil {
		return nil, err
	}
	return raw[:len(raw)-2], nil
}

// RxTime returns the timestamp of the most recently received frame.
func (d *Driver) RxTime(ctx context.Context) (tstamp.Timestamp, error) {
	v, err := d.access.Read(ctx, "RX_TIME1")
	if err != nil {
		return 0, err
	}
	stamp, err := v.Get("RX_STAMP")
	if err != nil {
		return 0, err
	}
	return tstamp.New(stamp), nil
}

// SetPANAddr sets the PAN id and short address.
func (d *Driver) SetPANAddr(ctx context.Context, pan, addr uint16) error {
	return d.writeFields(ctx, "PANADR",
		fieldVal{"PAN_ID", uint64(pan)}, fieldVal{"SHORT_ADDR", uint64(addr)})
}

// ReadOTP reads a 4-to-8-byte value from OTP memory at addr, switching the system
// clock to XTI for the duration and back to auto afterwards.
func (d *Driver) ReadOTP(ctx context.Context, addr uint32, nbytes int) (uint64, error) {
	if err := d.SetClock(ctx, "xti"); err != nil {
		return 0, err
	}
	if err := d.writeFields(ctx, "OTP_ADDR", fieldVal{"OTP_ADDR", uint64(addr)}); err != nil {
		return 0, err
	}
	ctrl := reg.Value{Def: d.access.Catalog().MustLookup("OTP_CTRL")}
	ctrl, err := ctrl.Set("OTPRDEN", 1)
	if err != nil {
		return 0, err
	}
	if err := setWrite(ctx, d.access, &ctrl, "OTPREAD", 1); err != nil {
		return 0, err
	}
	if err := setWrite(ctx, d.access, &ctrl, "OTPREAD", 0); err != nil {
		return 0, err
	}
	rdat, err := d.access.Read(ctx, "OTP_RDAT")
	if err != nil {
		return 0, err
	}
	val := rdat.Packed

	if nbytes > 4 {
		if err := d.writeFields(ctx, "OTP_ADDR", fieldVal{"OTP_ADDR", uint64(addr + 4)}); err != nil {
			return 0, err
		}
		if err := setWrite(ctx, d.access, &ctrl, "OTPREAD", 1); err != nil {
			return 0, err
		}
		if err := setWrite(ctx, d.access, &ctrl, "OTPREAD", 0); err != nil {
			return 0, err
		}
		def := d.access.Catalog().MustLookup("OTP_RDAT")
		hi, err := d.access.ReadRawN(ctx, def, nbytes-4)
		if err != nil {
			return 0, err
		}
		var hiVal uint64
		for i, b := range hi {
			hiVal |= uint64(b) << (8 * i)
		}
		val |= hiVal << 32
	}
	if err := setWrite(ctx, d.access, &ctrl, "OTPRDEN", 0); err != nil {
		return 0, err
	}
	if err := d.SetClock(ctx, "auto"); err != nil {
		return 0, err
	}
	return val, nil
}

// SetClock selects the system clock source: "auto", "xti" or "pll".
func (d *Driver) SetClock(ctx context.Context, clk string) error {
	v, err := d.access.Read(ctx, "PMSC_CTRL0")
	if err != nil {
		return err
	}
	switch clk {
	case "auto":
		v, err = v.Set("SYSCLKS", 0)
		if err != nil {
			return err
		}
		v, err = v.Set("RXCLKS", 0)
		if err != nil {
			return err
		}
		v, err = v.Set("TXCLKS", 0)
		if err != nil {
			return err
		}
	case "xti":
		v, err = v.Set("SYSCLKS", 1)
		if err != nil {
			return err
		}
	case "pll":
		v, err = v.Set("SYSCLKS", 2)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("dw1000: unknown clock source %q", clk)
	}
	if err := d.access.Write(ctx, v); err != nil {
		return err
	}
	time.Sleep(5 * time.Millisecond)
	return nil
}
