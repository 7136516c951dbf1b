// Package ranging orchestrates double-sided two-way ranging (DS-TWR) between a pair of
// dw1000.Driver instances: the three-blink exchange, the symmetric and asymmetric
// distance estimators, and miss-streak recovery.
package ranging

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/jbentham/uwb/diagnostics"
	"github.com/jbentham/uwb/dw1000"
	"github.com/jbentham/uwb/transport"
	"github.com/jbentham/uwb/tstamp"
)

// missStreakLimit is the number of consecutive failed rounds that triggers a full
// soft-reset-and-reinitialise recovery of both radios.
const missStreakLimit = 10

// progressEvery logs a status line every this many successful rounds.
const progressEvery = 100

// pollTimeout bounds how long Round waits for a reply before treating the round as a
// miss; Transport.InterruptPending is non-blocking, so Round polls it.
const pollTimeout = 50 * time.Millisecond

// Result is one ranging round's outcome, in both raw ticks and metres.
type Result struct {
	SymmetricTicks   int64
	AsymmetricTicks  int64
	SymmetricMetres  float64
	AsymmetricMetres float64
}

// Engine runs the three-frame exchange between two drivers: a (the initiator) and b
// (the responder).
type Engine struct {
	a, b        *dw1000.Driver
	blinkA      *dw1000.BlinkFrame
	blinkB      *dw1000.BlinkFrame
	initOpts    dw1000.InitOpts
	sink        diagnostics.Sink
	anchorID    string
	tagID       string
	errorStreak int
	roundCount  int
}

// NewEngine builds an Engine for the pair (a, b), with blink tag ids tagIDA/tagIDB.
func NewEngine(a, b *dw1000.Driver, tagIDA, tagIDB uint64, opts dw1000.InitOpts, sink diagnostics.Sink) *Engine {
	if sink == nil {
		sink = diagnostics.Noop()
	}
	return &Engine{
		a: a, b: b,
		blinkA:   dw1000.NewBlinkFrame(tagIDA),
		blinkB:   dw1000.NewBlinkFrame(tagIDB),
		initOpts: opts,
		sink:     sink,
		anchorID: fmt.Sprintf("%016x", tagIDA),
		tagID:    fmt.Sprintf("%016x", tagIDB),
	}
}

// Start resets and initialises both drivers, and verifies each one's interrupt wiring.
func (e *Engine) Start(ctx context.Context) error {
	if err := e.a.Reset(ctx); err != nil {
		return fmt.Errorf("ranging: reset a: %w", err)
	}
	if ok, err := e.a.TestIRQ(ctx); err != nil {
		return fmt.Errorf("ranging: test irq a: %w", err)
	} else if !ok {
		return fmt.Errorf("ranging: no interrupt from unit a")
	}
	if err := e.b.Reset(ctx); err != nil {
		return fmt.Errorf("ranging: reset b: %w", err)
	}
	if ok, err := e.b.TestIRQ(ctx); err != nil {
		return fmt.Errorf("ranging: test irq b: %w", err)
	} else if !ok {
		return fmt.Errorf("ranging: no interrupt from unit b")
	}
	if err := e.a.Initialise(ctx, e.initOpts); err != nil {
		return fmt.Errorf("ranging: initialise a: %w", err)
	}
	if err := e.b.Initialise(ctx, e.initOpts); err != nil {
		return fmt.Errorf("ranging: initialise b: %w", err)
	}
	return nil
}

// pollRx polls GetRxData until it returns a payload or pollTimeout elapses.
func pollRx(ctx context.Context, d *dw1000.Driver) ([]byte, error) {
	deadline := time.Now().Add(pollTimeout)
	for {
		data, err := d.GetRxData(ctx)
		if err != nil {
			return nil, err
		}
		if data != nil {
			return data, nil
		}
		if time.Now().After(deadline) {
			return nil, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Millisecond):
		}
	}
}

// recover performs the streak-triggered soft-reset-and-reinitialise recovery of both
// radios. Initialise soft-resets again internally; the extra cycle is harmless and
// leaves the chip in a known state regardless of what the streak left behind.
func (e *Engine) recover(ctx context.Context) error {
	e.sink.Status("ranging: resetting after miss streak")
	if err := e.a.SoftReset(ctx); err != nil {
		return err
	}
	if err := e.a.Initialise(ctx, e.initOpts); err != nil {
		return err
	}
	if err := e.b.SoftReset(ctx); err != nil {
		return err
	}
	return e.b.Initialise(ctx, e.initOpts)
}

// Round runs one three-frame DS-TWR exchange. A nil Result with a nil error means the
// round was missed (no reply observed, or the transport lost a datagram mid-round) and
// the caller should simply call Round again. The round is the unit of recovery: a
// transport timeout anywhere inside it counts as one miss toward the streak, never a
// partially-retried frame.
func (e *Engine) Round(ctx context.Context) (*Result, error) {
	res, err := e.round(ctx)
	if err != nil && errors.Is(err, transport.ErrTimeout) {
		e.sink.Status(fmt.Sprintf("ranging: transport timeout mid-round: %v", err))
		return nil, nil
	}
	return res, err
}

func (e *Engine) round(ctx context.Context) (*Result, error) {
	e.errorStreak++
	if e.errorStreak > missStreakLimit {
		if err := e.recover(ctx); err != nil {
			return nil, err
		}
		e.errorStreak = 0
	}

	// First message: a -> b.
	if err := e.b.StartRx(ctx); err != nil {
		return nil, err
	}
	if err := e.a.SetTxData(ctx, e.blinkA.Data()); err != nil {
		return nil, err
	}
	if err := e.a.StartTx(ctx, nil, false); err != nil {
		return nil, err
	}
	if rxdata, err := pollRx(ctx, e.b); err != nil {
		return nil, err
	} else if rxdata == nil {
		return e.miss(ctx, e.b)
	}
	if err := e.b.ClearIRQ(ctx); err != nil {
		return nil, err
	}

	// Second message: b -> a.
	if err := e.a.StartRx(ctx); err != nil {
		return nil, err
	}
	if err := e.b.SetTxData(ctx, e.blinkB.Data()); err != nil {
		return nil, err
	}
	if err := e.b.StartTx(ctx, nil, false); err != nil {
		return nil, err
	}
	if rxdata, err := pollRx(ctx, e.a); err != nil {
		return nil, err
	} else if rxdata == nil {
		return e.miss(ctx, e.a)
	}
	if err := e.a.ClearIRQ(ctx); err != nil {
		return nil, err
	}

	tx1, err := e.a.TxTime(ctx)
	if err != nil {
		return nil, err
	}
	rx1, err := e.b.RxTime(ctx)
	if err != nil {
		return nil, err
	}
	tx2, err := e.b.TxTime(ctx)
	if err != nil {
		return nil, err
	}
	rx2, err := e.a.RxTime(ctx)
	if err != nil {
		return nil, err
	}
	dt1 := rx2.Sub(tx1)
	dt2 := tx2.Sub(rx1)

	// Third message: a -> b again.
	if err := e.b.StartRx(ctx); err != nil {
		return nil, err
	}
	if err := e.a.SetTxData(ctx, e.blinkA.Data()); err != nil {
		return nil, err
	}
	if err := e.a.StartTx(ctx, nil, false); err != nil {
		return nil, err
	}
	if rxdata, err := pollRx(ctx, e.b); err != nil {
		return nil, err
	} else if rxdata == nil {
		return e.miss(ctx, e.b)
	}
	if err := e.b.ClearIRQ(ctx); err != nil {
		return nil, err
	}

	tx3, err := e.a.TxTime(ctx)
	if err != nil {
		return nil, err
	}
	rx3, err := e.b.RxTime(ctx)
	if err != nil {
		return nil, err
	}

	round1 := rx2.Sub(tx1)
	round2 := rx3.Sub(tx2)
	reply1 := tx2.Sub(rx1)
	reply2 := tx3.Sub(rx2)

	symmetric := (dt1 - dt2) / 2
	asymmetric := asymmetricEstimate(round1, round2, reply1, reply2)

	e.errorStreak = 0
	e.roundCount++
	if e.roundCount%progressEvery == 0 {
		e.sink.Status(fmt.Sprintf("ranging: %d rounds completed", e.roundCount))
	}

	res := &Result{
		SymmetricTicks:   symmetric,
		AsymmetricTicks:  asymmetric,
		SymmetricMetres:  tstamp.Metres(symmetric),
		AsymmetricMetres: tstamp.Metres(asymmetric),
	}
	e.sink.RangeResult(e.anchorID, e.tagID, res.AsymmetricMetres, res.AsymmetricTicks)
	return res, nil
}

// asymmetricEstimate computes the DS-TWR estimator
// ((round1*round2) - (reply1*reply2)) / (round1+round2+reply1+reply2) using 128-bit
// intermediate precision (math/big), since the products of two ~39-bit tick counts
// overflow int64 before the division that brings the result back into range.
func asymmetricEstimate(round1, round2, reply1, reply2 int64) int64 {
	r1 := big.NewInt(round1)
	r2 := big.NewInt(round2)
	p1 := big.NewInt(reply1)
	p2 := big.NewInt(reply2)

	num := new(big.Int).Mul(r1, r2)
	num.Sub(num, new(big.Int).Mul(p1, p2))

	den := new(big.Int).Add(r1, r2)
	den.Add(den, p1)
	den.Add(den, p2)
	if den.Sign() == 0 {
		return 0
	}
	q := new(big.Int).Quo(num, den)
	return q.Int64()
}

// miss reports a failed round (the responder's status, for diagnostics) and returns
// the "try again" sentinel (nil, nil).
func (e *Engine) miss(ctx context.Context, responder *dw1000.Driver) (*Result, error) {
	status, err := responder.SysStatus(ctx)
	if err != nil {
		return nil, err
	}
	e.sink.Status(status)
	return nil, nil
}
